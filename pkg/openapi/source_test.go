package openapi

import "testing"

func TestParseSource(t *testing.T) {
	cases := map[string]SourceKind{
		"https://api.example.com/openapi.yaml": SourceKindURL,
		"http://localhost:8080/openapi.yaml":   SourceKindURL,
		"./backend.yaml":                       SourceKindFile,
	}
	for raw, want := range cases {
		src, err := ParseSource(raw)
		if err != nil {
			t.Fatalf("ParseSource(%q): %v", raw, err)
		}
		if src.Kind() != want {
			t.Fatalf("ParseSource(%q).Kind() = %s, want %s", raw, src.Kind(), want)
		}
	}
	if _, err := ParseSource("  "); err == nil {
		t.Fatalf("expected error for empty source")
	}
}

func TestNewDocument(t *testing.T) {
	if _, err := NewDocument(nil, []byte("openapi: 3.0.3")); err == nil {
		t.Fatalf("expected error for nil source")
	}
	if _, err := NewDocument(SourceFromFS("backend.yaml"), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	raw := []byte("openapi: 3.0.3")
	doc := MustNewDocument(SourceFromFS("backend.yaml"), raw)
	raw[0] = 'x'
	if string(doc.Raw()) != "openapi: 3.0.3" {
		t.Fatalf("document should copy its payload")
	}
	if doc.Location() != "backend.yaml" {
		t.Fatalf("location = %q", doc.Location())
	}
}
