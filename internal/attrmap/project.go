package attrmap

import (
	"fmt"
	"slices"

	"attrmap/internal/common"
	"attrmap/internal/record"
)

// ProjectOptions controls a projection.
type ProjectOptions struct {
	// Include requests optional members, by name or group, per level.
	Include Include
	// Only restricts the top-level names. It takes priority over Except.
	Only []string
	// Except removes top-level names.
	Except []string
}

// SerializableFieldNames returns the projected field names in order.
// Write-only fields are never projected; optional fields only when include
// names them or their group.
func (m *Map) SerializableFieldNames(include Include) []string {
	var names []string

	for _, f := range m.fields.values() {
		if !f.Access.Readable() {
			continue
		}

		if f.Optional.includedBy(f.Name, include) {
			names = append(names, f.Name)
		}
	}

	return names
}

// SerializableRelationNames returns the projected relation names in order,
// by the same rules as SerializableFieldNames.
func (m *Map) SerializableRelationNames(include Include) []string {
	var names []string

	for _, rel := range m.relations.values() {
		if !rel.Access.Readable() {
			continue
		}

		if rel.Optional.includedBy(rel.Name, include) {
			names = append(names, rel.Name)
		}
	}

	return names
}

// Project reads rec through the map.
func (m *Map) Project(rec record.Record, opts ProjectOptions) (*Hash, error) {
	if rec == nil {
		return nil, m.configError(CodeInvalidInputShape, "", "cannot project a nil record")
	}

	if err := m.MustResolve(); err != nil {
		return nil, err
	}

	p := &projector{active: make(map[activeKey]bool)}

	return p.project(m, rec, opts.Include, filterFunc(opts.Only, opts.Except))
}

// ProjectAll projects each record.
func (m *Map) ProjectAll(recs []record.Record, opts ProjectOptions) ([]*Hash, error) {
	out := make([]*Hash, 0, len(recs))

	for i, rec := range recs {
		h, err := m.Project(rec, opts)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		out = append(out, h)
	}

	return out, nil
}

func filterFunc(only, except []string) func(string) bool {
	switch {
	case len(only) > 0:
		keep := common.Set(only)

		return func(name string) bool {
			_, ok := keep[name]
			return ok
		}
	case len(except) > 0:
		drop := common.Set(except)

		return func(name string) bool {
			_, ok := drop[name]
			return !ok
		}
	default:
		return nil
	}
}

// activeKey identifies a record being projected through a map.
type activeKey struct {
	m   *Map
	rec record.Record
}

type projector struct {
	active map[activeKey]bool
}

func (p *projector) project(m *Map, rec record.Record, include Include, keep func(string) bool) (*Hash, error) {
	key := activeKey{m: m, rec: rec}
	p.active[key] = true

	defer delete(p.active, key)

	h := NewHash()

	for _, name := range m.SerializableFieldNames(include) {
		if keep != nil && !keep(name) {
			continue
		}

		f, _ := m.fields.get(name)

		v, err := m.readField(f, rec)
		if err != nil {
			return nil, err
		}

		h.Set(name, v)
	}

	for _, name := range m.SerializableRelationNames(include) {
		if keep != nil && !keep(name) {
			continue
		}

		rel, _ := m.relations.get(name)

		v, skip, err := p.projectRelation(m, rel, rec, include.Nested(name))
		if err != nil {
			return nil, fmt.Errorf("%s#%s %s: %w", m.typeName, m.name, name, err)
		}

		if !skip {
			h.Set(name, v)
		}
	}

	return h, nil
}

// projectRelation returns skip when the relation leads back to a record
// already being projected through the same map.
func (p *projector) projectRelation(m *Map, rel *Relation, rec record.Record, include Include) (any, bool, error) {
	value, err := rec.Related(rel.Internal)
	if err != nil {
		return nil, false, err
	}

	if rel.Many {
		members, err := relatedMembers(value)
		if err != nil {
			return nil, false, err
		}

		out := make([]*Hash, 0, len(members))

		for _, member := range members {
			h, skipped, err := p.projectMember(m, rel, member, include)
			if err != nil {
				return nil, false, err
			}

			if !skipped {
				out = append(out, h)
			}
		}

		return out, false, nil
	}

	if value == nil {
		return nil, false, nil
	}

	member, ok := value.(record.Record)
	if !ok {
		return nil, false, fmt.Errorf("related value is %T, not a record", value)
	}

	h, skipped, err := p.projectMember(m, rel, member, include)
	if err != nil || skipped {
		return nil, skipped, err
	}

	return h, false, nil
}

func (p *projector) projectMember(m *Map, rel *Relation, member record.Record, include Include) (*Hash, bool, error) {
	nm, err := m.memberMap(rel, member)
	if err != nil {
		return nil, false, err
	}

	if p.active[activeKey{m: nm, rec: member}] {
		return nil, true, nil
	}

	h, err := p.project(nm, member, include, nil)

	return h, false, err
}

// memberMap returns the map a related record is projected or translated
// through. Polymorphic relations use the member's own type map.
func (m *Map) memberMap(rel *Relation, member record.Record) (*Map, error) {
	var nm *Map

	if rel.Polymorphic {
		typeName := rel.Target
		if member != nil {
			typeName = member.Type().Name()
		}

		if m.set == nil {
			return nil, fmt.Errorf("no lookup for polymorphic member type %q", typeName)
		}

		found, err := m.set.Map(typeName, m.name)
		if err != nil {
			return nil, err
		}

		nm = found
	} else {
		if rel.nested == nil {
			return nil, &ResolutionError{Type: m.typeName, Map: m.name, Relation: rel.Name, Err: fmt.Errorf("relation has no nested map")}
		}

		nm = rel.nested
	}

	if err := nm.MustResolve(); err != nil {
		return nil, err
	}

	return nm, nil
}

func relatedMembers(value any) ([]record.Record, error) {
	switch t := value.(type) {
	case nil:
		return nil, nil
	case []record.Record:
		return t, nil
	case record.Record:
		return []record.Record{t}, nil
	case []any:
		out := make([]record.Record, 0, len(t))

		for _, item := range t {
			rec, ok := item.(record.Record)
			if !ok {
				return nil, fmt.Errorf("related member is %T, not a record", item)
			}

			out = append(out, rec)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("related value is %T, not a collection of records", value)
	}
}

// ProjectionNames returns the top-level names a projection with opts
// outputs, in order.
func (m *Map) ProjectionNames(opts ProjectOptions) []string {
	keep := filterFunc(opts.Only, opts.Except)
	names := slices.Concat(m.SerializableFieldNames(opts.Include), m.SerializableRelationNames(opts.Include))

	if keep == nil {
		return names
	}

	return slices.DeleteFunc(names, func(n string) bool { return !keep(n) })
}
