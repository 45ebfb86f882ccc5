package analyze

import (
	"go/types"
	"reflect"
	"strings"

	"attrmap/internal/common"
	"attrmap/internal/match"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "attrmap/blog"
	Name    string // e.g., "Post"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown  TypeKind = iota
	TypeKindBasic             // int, string, bool, etc.
	TypeKindStruct            // struct type
	TypeKindPointer           // pointer to another type
	TypeKindSlice             // slice of another type
	TypeKindArray             // array of another type
	TypeKindAlias             // type alias (named type wrapping another)
	TypeKindExternal          // external/opaque type (e.g., time.Time)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID      // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind    // Kind of type
	Underlying *TypeInfo   // For named types, the underlying type
	ElemType   *TypeInfo   // For pointers, slices and arrays, the element type
	Fields     []FieldInfo // For structs, the list of fields
	GoType     types.Type  // The original go/types.Type
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// FieldInfo describes an exported struct field.
type FieldInfo struct {
	Name     string
	Type     *TypeInfo
	Tag      reflect.StructTag
	Embedded bool
}

// TagName returns the name part of the key tag. An empty name part means
// the snake_case field name. It reports false when the tag is absent or "-".
func (f *FieldInfo) TagName(key string) (string, bool) {
	tag, ok := f.Tag.Lookup(key)
	if !ok || tag == "-" {
		return "", false
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = match.SnakeCase(f.Name)
	}

	return name, true
}

// TagOption reports whether the key tag lists opt after its name.
func (f *FieldInfo) TagOption(key, opt string) bool {
	tag, ok := f.Tag.Lookup(key)
	if !ok {
		return false
	}

	parts := strings.Split(tag, ",")
	for _, p := range parts[1:] {
		if strings.TrimSpace(p) == opt {
			return true
		}
	}

	return false
}

// TypeString returns a readable representation of t for messages.
func TypeString(t *TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case TypeKindStruct, TypeKindAlias:
		if t.IsNamed() {
			return t.ID.Name
		}

		if t.Kind == TypeKindAlias {
			return TypeString(t.Underlying)
		}

		return "struct{...}"
	case TypeKindPointer:
		return "*" + TypeString(t.ElemType)
	case TypeKindSlice:
		return "[]" + TypeString(t.ElemType)
	case TypeKindExternal:
		if t.IsNamed() {
			return t.ID.String()
		}

		return t.GoType.String()
	default:
		if t.GoType == nil {
			return common.UnknownStr
		}

		return t.GoType.String()
	}
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
}
