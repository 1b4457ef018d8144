// Package resources carries the backend description shipped with the
// console (an OpenAPI document covering students, teachers, courses and
// enrollments), a registry of parsed resources and typed views of the four
// entities.
package resources

import (
	"embed"
	"io/fs"
)

// DocumentName is the embedded OpenAPI document path inside FS.
const DocumentName = "backend.yaml"

//go:embed backend.yaml
var embedded embed.FS

// FS exposes the embedded backend description.
func FS() fs.FS {
	return embedded
}

// Resource names of the bundled backend.
const (
	Students       = "students"
	Teachers       = "teachers"
	Courses        = "courses"
	StudentCourses = "student-courses"
)
