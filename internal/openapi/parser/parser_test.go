package parser

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crudconsole/pkg/model"
	pkgopenapi "github.com/goliatone/go-crudconsole/pkg/openapi"
	"github.com/goliatone/go-crudconsole/pkg/resources"
)

func loadBackend(t *testing.T) []model.Resource {
	t.Helper()
	raw, err := fs.ReadFile(resources.FS(), resources.DocumentName)
	if err != nil {
		t.Fatalf("read embedded document: %v", err)
	}
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFS(resources.DocumentName), raw)
	out, err := New(pkgopenapi.NewParserOptions()).Resources(context.Background(), doc)
	if err != nil {
		t.Fatalf("resources: %v", err)
	}
	return out
}

func find(t *testing.T, all []model.Resource, name string) model.Resource {
	t.Helper()
	for _, res := range all {
		if res.Name == name {
			return res
		}
	}
	t.Fatalf("resource %q not found", name)
	return model.Resource{}
}

func TestResourcesFromBackendDocument(t *testing.T) {
	all := loadBackend(t)

	names := make([]string, 0, len(all))
	for _, res := range all {
		names = append(names, res.Name)
	}
	want := []string{"courses", "student-courses", "students", "teachers"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("resource names mismatch (-want +got):\n%s", diff)
	}
}

func TestStudentsResource(t *testing.T) {
	students := find(t, loadBackend(t), "students")

	if students.Identity != "studentId" || students.Path != "students" || students.Label != "Students" {
		t.Fatalf("unexpected resource header: %+v", students)
	}
	if diff := cmp.Diff(map[string]string{"minAge": "18", "maxAge": "25"}, students.DefaultFilter); diff != "" {
		t.Fatalf("default filter mismatch (-want +got):\n%s", diff)
	}

	order := make([]string, 0, len(students.Fields))
	for _, field := range students.Fields {
		order = append(order, field.Name)
	}
	if diff := cmp.Diff([]string{"studentId", "name", "gender", "age", "enrollmentDate"}, order); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	date, _ := students.Field("enrollmentDate")
	if date.Type != model.FieldTypeDate || !date.Required {
		t.Fatalf("enrollmentDate = %+v", date)
	}
	gender, _ := students.Field("gender")
	if gender.Required || len(gender.Enum) != 2 || gender.Enum[0] != "Male" {
		t.Fatalf("gender = %+v", gender)
	}

	wantQuery := []model.Query{{
		Name:  "ageRange",
		Label: "Age range",
		Params: []model.QueryParam{
			{Name: "minAge", Type: model.FieldTypeInteger, Label: "Minimum age", Field: "age", Op: model.FilterOpGreaterEqual, Default: "0"},
			{Name: "maxAge", Type: model.FieldTypeInteger, Label: "Maximum age", Field: "age", Op: model.FilterOpLessEqual, Default: "100"},
		},
	}}
	if diff := cmp.Diff(wantQuery, students.Queries); diff != "" {
		t.Fatalf("queries mismatch (-want +got):\n%s", diff)
	}
}

func TestCourseValidations(t *testing.T) {
	courses := find(t, loadBackend(t), "courses")
	credit, ok := courses.Field("credit")
	if !ok {
		t.Fatalf("credit field missing")
	}
	want := []model.ValidationRule{
		{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "1"}},
		{Kind: model.ValidationRuleMax, Params: map[string]string{"value": "10"}},
	}
	if diff := cmp.Diff(want, credit.Validations); diff != "" {
		t.Fatalf("validations mismatch (-want +got):\n%s", diff)
	}
	teacherID, _ := courses.Field("teacherId")
	if teacherID.Required {
		t.Fatalf("teacherId should be optional")
	}
	if courses.SingularLabel() != "Course" {
		t.Fatalf("singular = %q", courses.SingularLabel())
	}

	enrollments := find(t, loadBackend(t), "student-courses")
	score, _ := enrollments.Field("score")
	if score.Type != model.FieldTypeFloat {
		t.Fatalf("score type = %q", score.Type)
	}
	if len(enrollments.Queries) != 2 {
		t.Fatalf("enrollment queries = %+v", enrollments.Queries)
	}
}

func TestResourcesRejectsDocumentsWithoutCollections(t *testing.T) {
	raw := strings.Join([]string{
		"openapi: 3.0.3",
		"info: {title: t, version: '1'}",
		"paths:",
		"  /ping:",
		"    get:",
		"      responses:",
		"        '200':",
		"          description: ok",
	}, "\n")
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFS("ping.yaml"), []byte(raw))
	_, err := New(pkgopenapi.NewParserOptions()).Resources(context.Background(), doc)
	if err == nil || !strings.Contains(err.Error(), "no collection resources") {
		t.Fatalf("expected no collection error, got %v", err)
	}
}

func TestResourcesRejectsMissingIdentity(t *testing.T) {
	raw := strings.Join([]string{
		"openapi: 3.0.3",
		"info: {title: t, version: '1'}",
		"paths:",
		"  /things:",
		"    get:",
		"      responses:",
		"        '200':",
		"          description: ok",
		"          content:",
		"            application/json:",
		"              schema:",
		"                type: array",
		"                items:",
		"                  type: object",
		"                  properties:",
		"                    name: {type: string}",
	}, "\n")
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFS("things.yaml"), []byte(raw))
	_, err := New(pkgopenapi.NewParserOptions(pkgopenapi.WithValidation(false))).Resources(context.Background(), doc)
	if err == nil || !strings.Contains(err.Error(), "identity") {
		t.Fatalf("expected identity error, got %v", err)
	}
}
