package crudconsole

import (
	internalLoader "github.com/goliatone/go-crudconsole/internal/openapi/loader"
	internalParser "github.com/goliatone/go-crudconsole/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-crudconsole/pkg/openapi"
)

// NewLoader returns the file, fs.FS and HTTP loader for backend descriptions.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewLoaderOptions(options...))
}

// NewParser returns a parser that derives resource descriptions from a
// backend description.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions(options...))
}
