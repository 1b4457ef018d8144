// Package model defines the resource description a controller is
// parameterised with. A Resource names one REST collection, its identity
// field, the typed fields bound to form inputs and the named queries the
// collection accepts. The concrete types live in internal/model and are
// re-exported here so builders (static YAML, OpenAPI documents) and consumers
// share a single definition.
package model
