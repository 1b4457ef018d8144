package crudconsole

import (
	"context"
	"io/fs"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-crudconsole/pkg/devserver"
	pkgopenapi "github.com/goliatone/go-crudconsole/pkg/openapi"
	"github.com/goliatone/go-crudconsole/pkg/resources"
)

func TestEmbeddedFilesystems(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/page.tmpl"); err != nil {
		t.Fatalf("expected page template: %v", err)
	}
	if _, err := fs.ReadFile(EmbeddedAssets(), "crudconsole.css"); err != nil {
		t.Fatalf("expected stylesheet: %v", err)
	}
}

func TestLoaderParserFacade(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(pkgopenapi.WithFileSystem(resources.FS()))
	doc, err := loader.Load(ctx, pkgopenapi.SourceFromFS(resources.DocumentName))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	list, err := NewParser().Resources(ctx, doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("expected 4 resources, got %d", len(list))
	}
}

func TestRenderHTML(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	loader := NewLoader(pkgopenapi.WithFileSystem(resources.FS()))
	doc, err := loader.Load(ctx, pkgopenapi.SourceFromFS(resources.DocumentName))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	list, err := NewParser().Resources(ctx, doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	backend, err := devserver.New(list)
	if err != nil {
		t.Fatalf("devserver: %v", err)
	}
	srv := httptest.NewServer(backend.Handler())
	defer srv.Close()

	if err := backend.Seed("courses", resources.Course{CourseName: "Algebra", Credit: 3}.Record()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	html, err := RenderHTML(ctx, srv.URL+"/api", "courses")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(html), "<td>Algebra</td>") || !strings.Contains(string(html), `data-action="delete" data-id="1"`) {
		t.Fatalf("unexpected page\n%s", html)
	}

	ctrl, err := NewController(ctx, srv.URL+"/api", Request{Resource: "courses"})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	if err := ctrl.LoadAll(ctx); err != nil {
		t.Fatalf("load all: %v", err)
	}
	if rows := ctrl.Table().Body().Rows; len(rows) != 1 || rows[0].ID != "1" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}
