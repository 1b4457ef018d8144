package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crudconsole/pkg/controller"
	"github.com/goliatone/go-crudconsole/pkg/model"
	pkgopenapi "github.com/goliatone/go-crudconsole/pkg/openapi"
	"github.com/goliatone/go-crudconsole/pkg/table"
	"github.com/goliatone/go-crudconsole/pkg/view"
)

func TestOrchestratorLoadsEmbeddedResources(t *testing.T) {
	o := New(WithBaseURL("http://localhost:8080/api"))

	list, err := o.Resources(context.Background())
	if err != nil {
		t.Fatalf("resources: %v", err)
	}
	names := make([]string, 0, len(list))
	for _, res := range list {
		names = append(names, res.Name)
	}
	if diff := cmp.Diff([]string{"courses", "student-courses", "students", "teachers"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	sink := &table.MemorySink{}
	form := view.NewMemory()
	ctrl, err := o.Controller(context.Background(), Request{Resource: "teachers", Form: form, Sinks: []table.Sink{sink}})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	if ctrl.Resource().Identity != "teacherId" {
		t.Fatalf("identity = %q", ctrl.Resource().Identity)
	}
	if ctrl.State().Mode != controller.ModeCreate {
		t.Fatalf("new controller should start in create mode")
	}
	if form.ButtonEnabled(view.ButtonUpdate) {
		t.Fatalf("update should start disabled")
	}
}

func TestOrchestratorUnknownResource(t *testing.T) {
	o := New(WithBaseURL("http://localhost"))
	if _, err := o.Controller(context.Background(), Request{Resource: "rooms"}); err == nil {
		t.Fatalf("expected error for unknown resource")
	}
	if _, err := o.Controller(context.Background(), Request{}); err == nil {
		t.Fatalf("expected error for empty resource name")
	}
}

func TestOrchestratorPresetResources(t *testing.T) {
	preset := model.Resource{
		Name:     "rooms",
		Path:     "rooms",
		Identity: "roomId",
		Fields:   []model.Field{{Name: "roomId", Type: model.FieldTypeInteger}},
	}
	o := New(WithResources(preset), WithBaseURL("http://localhost"))
	res, err := o.Resource(context.Background(), "rooms")
	if err != nil {
		t.Fatalf("resource: %v", err)
	}
	if res.Identity != "roomId" {
		t.Fatalf("identity = %q", res.Identity)
	}
}

type failingLoader struct{}

func (failingLoader) Load(context.Context, pkgopenapi.Source) (pkgopenapi.Document, error) {
	return pkgopenapi.Document{}, errors.New("boom")
}

func TestOrchestratorLoaderFailure(t *testing.T) {
	o := New(WithLoader(failingLoader{}))
	if _, err := o.Resources(context.Background()); err == nil {
		t.Fatalf("expected loader error")
	}
}

func TestOrchestratorRequiresBaseURL(t *testing.T) {
	o := New()
	_, err := o.Controller(context.Background(), Request{Resource: "courses"})
	if !errors.Is(err, controller.ErrBaseURLRequired) {
		t.Fatalf("expected ErrBaseURLRequired, got %v", err)
	}
}
