package devserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crudconsole/pkg/record"
	"github.com/goliatone/go-crudconsole/pkg/testsupport"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(testsupport.Resources(t))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func do(t *testing.T, srv *Server, method, target, body string) (int, any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var payload any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, target, rec.Body.String(), err)
		}
	}
	return rec.Code, payload
}

func TestCreateAssignsIdentity(t *testing.T) {
	srv := newServer(t)

	status, payload := do(t, srv, http.MethodPost, "/api/courses", `{"courseName":"Algebra","credit":3}`)
	if status != http.StatusCreated {
		t.Fatalf("status = %d, body %v", status, payload)
	}
	want := map[string]any{"courseId": 1.0, "courseName": "Algebra", "credit": 3.0, "teacherId": nil}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Fatalf("created mismatch (-want +got):\n%s", diff)
	}

	status, payload = do(t, srv, http.MethodPost, "/api/courses", `{"courseName":"Biology","credit":4}`)
	if status != http.StatusCreated {
		t.Fatalf("second create status = %d", status)
	}
	if got := payload.(map[string]any)["courseId"]; got != 2.0 {
		t.Fatalf("second courseId = %v", got)
	}
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	srv := newServer(t)

	status, payload := do(t, srv, http.MethodPost, "/api/courses", `{"courseName":"Algebra","credit":15}`)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	msg, ok := payload.(string)
	if !ok || !strings.Contains(msg, "between 1 and 10") {
		t.Fatalf("payload = %#v", payload)
	}
	if n := len(srv.Records("courses")); n != 0 {
		t.Fatalf("stored %d courses, want 0", n)
	}
}

func TestGetUnknownReturnsJSONString(t *testing.T) {
	srv := newServer(t)

	status, payload := do(t, srv, http.MethodGet, "/api/teachers/42", "")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d", status)
	}
	if payload != "Teacher 42 not found" {
		t.Fatalf("payload = %#v", payload)
	}

	status, payload = do(t, srv, http.MethodGet, "/api/teachers/abc", "")
	if status != http.StatusBadRequest || payload != "Invalid ID" {
		t.Fatalf("status = %d payload = %#v", status, payload)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	srv := newServer(t)
	if err := srv.Seed("teachers", record.Record{
		"teacherId": record.IntValue(7),
		"name":      record.StringValue("Ada"),
		"title":     record.StringValue("Professor"),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	status, payload := do(t, srv, http.MethodPut, "/api/teachers/7", `{"name":"Ada L","title":"Dean"}`)
	if status != http.StatusOK {
		t.Fatalf("update status = %d payload %v", status, payload)
	}
	if got := payload.(map[string]any)["teacherId"]; got != 7.0 {
		t.Fatalf("identity not kept from path: %v", got)
	}

	status, _ = do(t, srv, http.MethodPut, "/api/teachers/8", `{"name":"Bob","title":"Dr"}`)
	if status != http.StatusNotFound {
		t.Fatalf("update unknown status = %d", status)
	}

	status, payload = do(t, srv, http.MethodDelete, "/api/teachers/7", "")
	if status != http.StatusOK {
		t.Fatalf("delete status = %d", status)
	}
	if got := payload.(map[string]any)["title"]; got != "Dean" {
		t.Fatalf("delete should return the deleted record, got %v", payload)
	}
	if n := len(srv.Records("teachers")); n != 0 {
		t.Fatalf("teachers left = %d", n)
	}
}

func TestListAppliesQueryParams(t *testing.T) {
	srv := newServer(t)
	enrolled := record.DateValue(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))
	for i, age := range []int64{17, 18, 22, 25, 30} {
		if err := srv.Seed("students", record.Record{
			"name":           record.StringValue("s" + string(rune('a'+i))),
			"gender":         record.StringValue("Male"),
			"age":            record.IntValue(age),
			"enrollmentDate": enrolled,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	status, payload := do(t, srv, http.MethodGet, "/api/students?minAge=18&maxAge=25", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var ages []float64
	for _, item := range payload.([]any) {
		ages = append(ages, item.(map[string]any)["age"].(float64))
	}
	if diff := cmp.Diff([]float64{18, 22, 25}, ages); diff != "" {
		t.Fatalf("ages mismatch (-want +got):\n%s", diff)
	}

	status, _ = do(t, srv, http.MethodGet, "/api/students?minAge=old", "")
	if status != http.StatusBadRequest {
		t.Fatalf("bad param status = %d", status)
	}
}

func TestListEmptyIsArray(t *testing.T) {
	srv := newServer(t)
	status, payload := do(t, srv, http.MethodGet, "/api/student-courses", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if diff := cmp.Diff([]any{}, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSeedUnknownResource(t *testing.T) {
	srv := newServer(t)
	if err := srv.Seed("rooms", record.Record{}); err == nil {
		t.Fatalf("expected error for unknown resource")
	}
}

func TestListFiltersByFieldEquality(t *testing.T) {
	srv := newServer(t)
	for _, body := range []string{
		`{"name":"Ada","gender":"Female","title":"Professor"}`,
		`{"name":"Alan","gender":"Male","title":"Lecturer"}`,
	} {
		if status, payload := do(t, srv, http.MethodPost, "/api/teachers", body); status != http.StatusCreated {
			t.Fatalf("seed status = %d, body %v", status, payload)
		}
	}

	status, payload := do(t, srv, http.MethodGet, "/api/teachers?title=Lecturer&unknown=1", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %v", status, payload)
	}
	list, ok := payload.([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("expected one teacher, got %v", payload)
	}
	if name := list[0].(map[string]any)["name"]; name != "Alan" {
		t.Fatalf("name = %v", name)
	}
}
