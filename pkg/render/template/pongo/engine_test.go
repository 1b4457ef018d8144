package pongo_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-crudconsole/pkg/render/template/pongo"
	"github.com/goliatone/go-crudconsole/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func newEngine(t *testing.T, options ...pongo.Option) *pongo.Engine {
	t.Helper()
	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(templatesFS)}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngineRenderTemplate(t *testing.T) {
	engine := newEngine(t, pongo.WithGlobals(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}))
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	cases := []struct {
		template string
		golden   string
	}{
		{"hello", "hello.golden"},
		{"use-filter.tpl", "use-filter.golden"},
		{"use-global", "use-global.golden"},
	}
	for _, tc := range cases {
		t.Run(tc.template, func(t *testing.T) {
			result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
				return engine.RenderTemplate(tc.template, map[string]any{"name": "Ada"}, w)
			})
			want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", tc.golden))
			if result != want || written != want {
				t.Fatalf("want %q, got result %q and written %q", want, result, written)
			}
		})
	}
}

func TestEngineRegisterFilterTwice(t *testing.T) {
	engine := newEngine(t)
	noop := func(input any, _ any) (any, error) { return input, nil }
	if err := engine.RegisterFilter("echo_once", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := engine.RegisterFilter("echo_once", noop); err == nil {
		t.Fatalf("expected second registration to fail")
	}
}

func TestEngineSetGlobal(t *testing.T) {
	engine := newEngine(t)
	engine.SetGlobal("settings", map[string]any{"env": "prod"})
	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(result) != "env=prod" {
		t.Fatalf("got %q", result)
	}
}

func TestEnginePlainTextFilter(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.RenderString(`<td>{{ value|plaintext }}</td>`, map[string]any{
		"value": `<b onclick="x()">Tom & Jerry</b>`,
	})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if want := "<td>Tom &amp; Jerry</td>"; result != want {
		t.Fatalf("want %q, got %q", want, result)
	}
}

func TestEngineRejectsStructData(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("hello", struct{ Name string }{"Ada"}); err == nil {
		t.Fatalf("expected non-map data to fail")
	}
}

func TestEngineRequiresTemplateSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}
