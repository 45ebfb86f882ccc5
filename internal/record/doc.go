// Package record defines the contract the attribute-map engine consumes from
// the record layer, together with an in-memory implementation of it.
//
// The contract covers:
//   - relation introspection (target type, to-one or to-many)
//   - column introspection (primitive type tags for schema export)
//   - instance field reads and writes by internal name
//   - relation reads and bulk nested-attribute assignment
//   - type hierarchy (base type and discriminator)
//
// Models and Instance implement the contract without any storage. Models are
// declared once (usually from a definition file) and instances are created
// with Model.New or loaded from plain structures with Models.Load.
package record
