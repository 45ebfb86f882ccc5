package record

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType is returned when a type name is not declared.
	ErrUnknownType = errors.New("unknown record type")
	// ErrUnknownField is returned when reading or writing an undeclared field.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownRelation is returned when a relation name is not declared.
	ErrUnknownRelation = errors.New("unknown relation")
	// ErrNestedAttributes is returned when nested attributes are assigned to a
	// relation that does not accept them.
	ErrNestedAttributes = errors.New("relation does not accept nested attributes")
	// ErrInvalidAttributes is returned when assigned values have the wrong shape.
	ErrInvalidAttributes = errors.New("invalid attributes")
)

// NestedAttributesSuffix is appended to a relation's name to form the key of
// its bulk nested assignment.
const NestedAttributesSuffix = "_attributes"

// ColumnType is the primitive type tag of a column.
type ColumnType string

const (
	ColumnString   ColumnType = "string"
	ColumnInteger  ColumnType = "integer"
	ColumnFloat    ColumnType = "float"
	ColumnBoolean  ColumnType = "boolean"
	ColumnDatetime ColumnType = "datetime"
	ColumnJSON     ColumnType = "json"
)

// ParseColumnType validates a column type tag.
func ParseColumnType(s string) (ColumnType, error) {
	switch ct := ColumnType(s); ct {
	case ColumnString, ColumnInteger, ColumnFloat, ColumnBoolean, ColumnDatetime, ColumnJSON:
		return ct, nil
	default:
		return "", fmt.Errorf("invalid column type %q", s)
	}
}

// RelationInfo describes a relation as seen by the attribute-map engine.
type RelationInfo struct {
	Name   string
	Target string
	Many   bool
}

// Type is the introspection side of a record type.
type Type interface {
	// Name returns the type name used to look up registries.
	Name() string
	// Base returns the name of the base type, or "" for root types.
	Base() string
	// Discriminator returns the value identifying this concrete type.
	Discriminator() string
	// Relation describes the relation with the given internal name.
	Relation(name string) (RelationInfo, error)
	// Column returns the type tag of a column, if the column exists.
	Column(name string) (ColumnType, bool)
	// AcceptsNestedAttributes reports whether the relation can be written
	// through bulk nested assignment.
	AcceptsNestedAttributes(relation string) bool
}

// Record is the instance side of a record type.
type Record interface {
	Type() Type
	// Get reads a field by internal name. The bool is false for unknown fields.
	Get(field string) (any, bool)
	// Set writes a field by internal name.
	Set(field string, value any) error
	// Related returns nil, a Record or a []Record.
	Related(name string) (any, error)
	// AssignAttributes writes fields and "<relation>_attributes" keys in bulk.
	// Values implementing AttributeWriter are not stored: they are called
	// with the record once the other keys of the same mapping are assigned.
	AssignAttributes(attrs map[string]any) error
}

// AttributeWriter is an assigned value that writes itself to the record
// receiving it.
type AttributeWriter interface {
	WriteAttribute(rec Record) error
}

// Catalog resolves type names to types.
type Catalog interface {
	Type(name string) (Type, bool)
}

// IsA reports whether t is the named type or derives from it.
func IsA(catalog Catalog, t Type, name string) bool {
	seen := map[string]bool{}

	for t != nil && !seen[t.Name()] {
		if t.Name() == name {
			return true
		}

		seen[t.Name()] = true

		base := t.Base()
		if base == "" {
			return false
		}

		next, ok := catalog.Type(base)
		if !ok {
			return false
		}

		t = next
	}

	return false
}
