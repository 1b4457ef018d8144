// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"context"
	"testing"

	internalLoader "github.com/goliatone/go-crudconsole/internal/openapi/loader"
	internalParser "github.com/goliatone/go-crudconsole/internal/openapi/parser"
	pkgmodel "github.com/goliatone/go-crudconsole/pkg/model"
	pkgopenapi "github.com/goliatone/go-crudconsole/pkg/openapi"
	"github.com/goliatone/go-crudconsole/pkg/resources"
)

// Resources parses the embedded school backend description (students,
// teachers, courses).
func Resources(t *testing.T) []pkgmodel.Resource {
	t.Helper()
	ctx := context.Background()
	src := pkgopenapi.SourceFromFS(resources.DocumentName)
	doc, err := internalLoader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(resources.FS()))).Load(ctx, src)
	if err != nil {
		t.Fatalf("load %s: %v", src.Location(), err)
	}
	list, err := internalParser.New(pkgopenapi.NewParserOptions()).Resources(ctx, doc)
	if err != nil {
		t.Fatalf("parse %s: %v", src.Location(), err)
	}
	return list
}

// Resource fails the test when name is not declared.
func Resource(t *testing.T, name string) pkgmodel.Resource {
	t.Helper()
	for _, res := range Resources(t) {
		if res.Name == name {
			return res
		}
	}
	t.Fatalf("resource %q not declared", name)
	return pkgmodel.Resource{}
}
