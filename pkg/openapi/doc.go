// Package openapi exposes the public contracts for loading an OpenAPI
// document that describes the backend collections and parsing it into
// model.Resource values. Implementations live under internal/openapi so the
// kin-openapi dependency stays hidden from consumers.
package openapi
