package resources

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crudconsole/pkg/record"
)

func TestStudentRecordConversion(t *testing.T) {
	id := int64(5)
	age := int64(19)
	enrolled := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	student := Student{StudentID: &id, Name: "Ada", Age: &age, EnrollmentDate: &enrolled}

	rec := student.Record()
	if !rec.Get("gender").IsNull() {
		t.Fatalf("nil gender should be null")
	}
	if diff := cmp.Diff(student, StudentFromRecord(rec)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStudentCourseNullScore(t *testing.T) {
	rec := record.Record{
		"id":        record.IntValue(1),
		"studentId": record.IntValue(2),
		"courseId":  record.IntValue(3),
		"score":     record.NullValue(),
		"semester":  record.StringValue("2024-Fall"),
	}
	sc := StudentCourseFromRecord(rec)
	if sc.Score != nil {
		t.Fatalf("score should be nil, got %v", *sc.Score)
	}
	if diff := cmp.Diff(rec, sc.Record()); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestCourseAndTeacherConversion(t *testing.T) {
	course := CourseFromRecord(record.Record{
		"courseId":   record.IntValue(7),
		"courseName": record.StringValue("Physics"),
		"credit":     record.IntValue(4),
		"teacherId":  record.NullValue(),
	})
	if course.TeacherID != nil || course.Credit != 4 || course.CourseName != "Physics" {
		t.Fatalf("course = %+v", course)
	}
	if !course.Record().Get("teacherId").IsNull() {
		t.Fatalf("teacherId should stay null")
	}

	teacher := TeacherFromRecord(record.Record{"name": record.StringValue("Turing"), "title": record.StringValue("Lecturer")})
	if teacher.TeacherID != nil || teacher.Title != "Lecturer" {
		t.Fatalf("teacher = %+v", teacher)
	}
}
