package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-crudconsole/pkg/model"
	pkgopenapi "github.com/goliatone/go-crudconsole/pkg/openapi"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Resources extracts one resource per collection path. A collection path has
// no template segments and a GET operation whose 200 response is a JSON array
// of objects; the item schema supplies the fields.
func (p *Parser) Resources(ctx context.Context, doc pkgopenapi.Document) ([]model.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.ValidateDocument {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}

	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	var resources []model.Resource
	for _, path := range keys {
		item := paths[path]
		if item == nil || item.Get == nil || strings.Contains(path, "{") {
			continue
		}
		res, ok, err := buildResource(path, item.Get)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := res.Validate(); err != nil {
			return nil, fmt.Errorf("openapi parser: %s: %w", path, err)
		}
		resources = append(resources, res)
	}
	if len(resources) == 0 {
		return nil, errors.New("openapi parser: no collection resources found")
	}
	return resources, nil
}

func buildResource(path string, op *openapi3.Operation) (model.Resource, bool, error) {
	items := collectionItemSchema(op)
	if items == nil {
		return model.Resource{}, false, nil
	}

	collection := strings.Trim(path, "/")
	res := model.Resource{
		Name:     stringExt(op.Extensions, pkgopenapi.ExtResource),
		Label:    stringExt(op.Extensions, pkgopenapi.ExtLabel),
		Singular: stringExt(op.Extensions, pkgopenapi.ExtSingular),
		Path:     collection,
		Identity: stringExt(items.Extensions, pkgopenapi.ExtIdentity),
	}
	if res.Name == "" {
		segments := strings.Split(collection, "/")
		res.Name = segments[len(segments)-1]
	}
	if res.Label == "" {
		res.Label = items.Title
	}
	if flag, ok := op.Extensions[pkgopenapi.ExtIdentityOnCreate].(bool); ok {
		res.IdentityOnCreate = flag
	}

	fields, err := convertFields(items)
	if err != nil {
		return model.Resource{}, false, fmt.Errorf("openapi parser: %s: %w", path, err)
	}
	res.Fields = fields

	queries, err := convertQueries(op.Parameters)
	if err != nil {
		return model.Resource{}, false, fmt.Errorf("openapi parser: %s: %w", path, err)
	}
	res.Queries = queries
	res.DefaultFilter = stringMapExt(op.Extensions, pkgopenapi.ExtDefaultFilter)
	return res, true, nil
}

// collectionItemSchema returns the object schema of the array returned by a
// successful GET, or nil when the operation is not a collection listing.
func collectionItemSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.Responses == nil {
		return nil
	}
	ref := op.Responses.Status(http.StatusOK)
	if ref == nil || ref.Value == nil {
		return nil
	}
	media := ref.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}
	schema := media.Schema.Value
	if !schema.Type.Is(openapi3.TypeArray) || schema.Items == nil || schema.Items.Value == nil {
		return nil
	}
	items := schema.Items.Value
	if !items.Type.Is(openapi3.TypeObject) || len(items.Properties) == 0 {
		return nil
	}
	return items
}
