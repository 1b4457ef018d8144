package vanilla

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// StylesheetAsset is the asset key resolved through the theme for the page
// stylesheet. Themes without it get the embedded stylesheet inlined.
const StylesheetAsset = "vanilla.stylesheet"

// DefaultManifest is the built-in light theme with a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "default",
		Version: "1.0.0",
		Tokens: map[string]string{
			"accent":     "#2563eb",
			"border":     "#cbd2d9",
			"danger":     "#c81e1e",
			"muted":      "#f0f4f8",
			"muted-text": "#7b8794",
			"surface":    "#ffffff",
			"text":       "#1f2933",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"accent":     "#60a5fa",
					"border":     "#3e4c59",
					"muted":      "#323f4b",
					"muted-text": "#9aa5b1",
					"surface":    "#1f2933",
					"text":       "#f5f7fa",
				},
			},
		},
	}
}

// Selector resolves theme selections from a fixed set of manifests.
type Selector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector registers manifests by name. An empty defaultTheme falls back
// to the first manifest.
func NewSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) *Selector {
	s := &Selector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   defaultTheme,
		defaultVariant: defaultVariant,
	}
	for _, manifest := range manifests {
		if manifest == nil || manifest.Name == "" {
			continue
		}
		s.manifests[manifest.Name] = manifest
		if s.defaultTheme == "" {
			s.defaultTheme = manifest.Name
		}
	}
	return s
}

// Select returns the named theme and variant, falling back to the defaults
// for empty arguments.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.defaultTheme
	}
	if variant == "" {
		variant = s.defaultVariant
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("vanilla: unknown theme %q (have %s)", name, strings.Join(s.names(), ", "))
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("vanilla: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

func (s *Selector) names() []string {
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RendererConfig flattens a selection: variant tokens, templates and asset
// files override the base manifest and every token becomes a --token CSS
// variable.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	tokens := mergeStrings(manifest.Tokens, nil)
	partials := mergeStrings(manifest.Templates, nil)
	files := mergeStrings(manifest.Assets.Files, nil)
	prefix := manifest.Assets.Prefix
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		tokens = mergeStrings(tokens, variant.Tokens)
		partials = mergeStrings(partials, variant.Templates)
		files = mergeStrings(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" {
				return file
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

func mergeStrings(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}
