package resources

import (
	"time"

	"github.com/goliatone/go-crudconsole/pkg/record"
)

// Student is the typed view of a students record. Pointer fields are
// nullable.
type Student struct {
	StudentID      *int64
	Name           string
	Gender         *string
	Age            *int64
	EnrollmentDate *time.Time
}

// Teacher is the typed view of a teachers record.
type Teacher struct {
	TeacherID *int64
	Name      string
	Gender    *string
	Title     string
}

// Course is the typed view of a courses record.
type Course struct {
	CourseID   *int64
	CourseName string
	Credit     int64
	TeacherID  *int64
}

// StudentCourse is the typed view of a student-courses record.
type StudentCourse struct {
	ID        *int64
	StudentID int64
	CourseID  int64
	Score     *float64
	Semester  string
}

func StudentFromRecord(rec record.Record) Student {
	return Student{
		StudentID:      intPtr(rec.Get("studentId")),
		Name:           text(rec.Get("name")),
		Gender:         textPtr(rec.Get("gender")),
		Age:            intPtr(rec.Get("age")),
		EnrollmentDate: datePtr(rec.Get("enrollmentDate")),
	}
}

func (s Student) Record() record.Record {
	return record.Record{
		"studentId":      fromInt(s.StudentID),
		"name":           record.StringValue(s.Name),
		"gender":         fromText(s.Gender),
		"age":            fromInt(s.Age),
		"enrollmentDate": fromDate(s.EnrollmentDate),
	}
}

func TeacherFromRecord(rec record.Record) Teacher {
	return Teacher{
		TeacherID: intPtr(rec.Get("teacherId")),
		Name:      text(rec.Get("name")),
		Gender:    textPtr(rec.Get("gender")),
		Title:     text(rec.Get("title")),
	}
}

func (t Teacher) Record() record.Record {
	return record.Record{
		"teacherId": fromInt(t.TeacherID),
		"name":      record.StringValue(t.Name),
		"gender":    fromText(t.Gender),
		"title":     record.StringValue(t.Title),
	}
}

func CourseFromRecord(rec record.Record) Course {
	credit, _ := rec.Get("credit").Int()
	return Course{
		CourseID:   intPtr(rec.Get("courseId")),
		CourseName: text(rec.Get("courseName")),
		Credit:     credit,
		TeacherID:  intPtr(rec.Get("teacherId")),
	}
}

func (c Course) Record() record.Record {
	return record.Record{
		"courseId":   fromInt(c.CourseID),
		"courseName": record.StringValue(c.CourseName),
		"credit":     record.IntValue(c.Credit),
		"teacherId":  fromInt(c.TeacherID),
	}
}

func StudentCourseFromRecord(rec record.Record) StudentCourse {
	studentID, _ := rec.Get("studentId").Int()
	courseID, _ := rec.Get("courseId").Int()
	return StudentCourse{
		ID:        intPtr(rec.Get("id")),
		StudentID: studentID,
		CourseID:  courseID,
		Score:     floatPtr(rec.Get("score")),
		Semester:  text(rec.Get("semester")),
	}
}

func (sc StudentCourse) Record() record.Record {
	return record.Record{
		"id":        fromInt(sc.ID),
		"studentId": record.IntValue(sc.StudentID),
		"courseId":  record.IntValue(sc.CourseID),
		"score":     fromFloat(sc.Score),
		"semester":  record.StringValue(sc.Semester),
	}
}

func intPtr(v record.Value) *int64 {
	n, ok := v.Int()
	if !ok {
		return nil
	}
	return &n
}

func floatPtr(v record.Value) *float64 {
	if v.IsNull() {
		return nil
	}
	f, ok := v.Float()
	if !ok {
		return nil
	}
	return &f
}

func text(v record.Value) string {
	s, _ := v.Text()
	return s
}

func textPtr(v record.Value) *string {
	s, ok := v.Text()
	if !ok {
		return nil
	}
	return &s
}

func datePtr(v record.Value) *time.Time {
	t, ok := v.Date()
	if !ok {
		return nil
	}
	return &t
}

func fromInt(n *int64) record.Value {
	if n == nil {
		return record.NullValue()
	}
	return record.IntValue(*n)
}

func fromFloat(f *float64) record.Value {
	if f == nil {
		return record.NullValue()
	}
	return record.FloatValue(*f)
}

func fromText(s *string) record.Value {
	if s == nil {
		return record.NullValue()
	}
	return record.StringValue(*s)
}

func fromDate(t *time.Time) record.Value {
	if t == nil {
		return record.NullValue()
	}
	return record.DateValue(*t)
}
