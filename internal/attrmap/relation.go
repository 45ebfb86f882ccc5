package attrmap

import (
	"attrmap/internal/record"
)

// Relation is a reference to one or many records exposed through a map.
type Relation struct {
	// Name is the public name.
	Name string
	// Internal is the relation name on the owning record type.
	Internal string
	// Target is the type name of related records.
	Target      string
	Many        bool
	Access      Access
	Optional    Optional
	Polymorphic bool
	Override    OverrideMode

	// declared is the explicit nested map, if any.
	declared *Map
	// nested is the map used for related records once resolved.
	nested   *Map
	resolved bool
}

// Declared returns the explicitly declared nested map, or nil.
func (r *Relation) Declared() *Map { return r.declared }

// Nested returns the resolved nested map, or nil before resolution and for
// polymorphic relations.
func (r *Relation) Nested() *Map { return r.nested }

// AttributesKey is the bulk assignment key of the relation.
func (r *Relation) AttributesKey() string {
	return r.Internal + record.NestedAttributesSuffix
}

func (r *Relation) clone() *Relation {
	c := *r
	return &c
}

// buildRelation validates opts, applies block to the nested map and builds
// a relation. It returns a nil relation for excluded declarations.
func (m *Map) buildRelation(name string, opts Options, nested *Map, block func(*Map) error) (*Relation, error) {
	if name == "" {
		return nil, m.configError(CodeInvalidOption, name, "relation name is required")
	}

	if err := m.checkOptionKeys(name, opts, relationOptionKeys); err != nil {
		return nil, err
	}

	access, err := ParseAccess(opts[OptAccessMode])
	if err != nil {
		cerr := m.configError(CodeInvalidAccess, name, "invalid %s", OptAccessMode)
		cerr.Err = err

		return nil, cerr
	}

	if access == Excluded {
		return nil, nil
	}

	rel := &Relation{
		Name:     name,
		Internal: name,
		Access:   access,
	}

	internal, ok, err := stringOption(opts, OptInternalName)
	if err != nil {
		return nil, m.wrapOption(name, err)
	}

	if ok {
		rel.Internal = internal
	}

	if rel.Optional, err = ParseOptional(opts[OptOptionalGroup]); err != nil {
		return nil, m.wrapOption(name, err)
	}

	if rel.Override, err = ParseOverrideMode(opts[OptOverrideMode]); err != nil {
		return nil, m.wrapOption(name, err)
	}

	if rel.Polymorphic, err = boolOption(opts, OptPolymorphic); err != nil {
		return nil, m.wrapOption(name, err)
	}

	if m.rtype == nil {
		return nil, m.configError(CodeUnknownType, name, "type %q is not known", m.typeName)
	}

	info, err := m.rtype.Relation(rel.Internal)
	if err != nil {
		cerr := m.configError(CodeUnknownRelation, name, "%s has no relation %q", m.typeName, rel.Internal)
		cerr.Err = err

		return nil, cerr
	}

	rel.Target = info.Target
	rel.Many = info.Many

	if rel.Target == "" {
		return nil, m.configError(CodeUnknownTarget, name, "cannot determine the target type of %q", rel.Internal)
	}

	if m.set != nil {
		if _, ok := m.set.RecordType(rel.Target); !ok {
			return nil, m.configError(CodeUnknownTarget, name, "target type %q is not known", rel.Target)
		}
	}

	_, overrideGiven := opts[OptOverrideMode]
	if rel.Polymorphic && (block != nil || nested != nil || (overrideGiven && rel.Override == Replace)) {
		return nil, m.configError(CodePolymorphicOverride, name,
			"polymorphic relations use each member's own map and take no nested map or replace override")
	}

	if access.Writable() && !m.rtype.AcceptsNestedAttributes(rel.Internal) {
		return nil, m.configError(CodeMissingCapability, name,
			"%s does not accept nested attributes for %q (%s)", m.typeName, rel.Internal, rel.AttributesKey())
	}

	if block != nil && nested == nil {
		nested = m.newNestedMap(rel.Target)
	}

	if block != nil {
		if err := block(nested); err != nil {
			return nil, err
		}
	}

	if rel.Override == Replace && (nested == nil || nested.Empty()) {
		return nil, m.configError(CodeEmptyReplace, name, "replace override declared no fields or relations")
	}

	rel.declared = nested

	return rel, nil
}

// newNestedMap creates an explicit nested map owned by the target type.
func (m *Map) newNestedMap(target string) *Map {
	var rtype record.Type
	if m.set != nil {
		rtype, _ = m.set.RecordType(target)
	}

	nested := newMap(m.set, target, rtype, m.name)
	// base type entries arrive through the target's own map on composition
	nested.baseMerged = true

	return nested
}
