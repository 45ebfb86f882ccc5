package attrmap

import (
	"fmt"

	"github.com/rs/zerolog"

	"attrmap/internal/diagnostic"
	"attrmap/internal/record"
)

// Resolve resolves the map and reports whether it succeeded.
func (m *Map) Resolve() bool {
	return m.MustResolve() == nil
}

// MustResolve merges the base type's map into m and fixes every relation's
// nested map. Failures are returned as *ResolutionError. Resolving a
// resolved map is a no-op.
func (m *Map) MustResolve() error {
	if m.state == resolved {
		return nil
	}

	var lookup Lookup
	if m.set != nil {
		lookup = m.set
	}

	return newResolver(lookup, m.log).resolve(m)
}

// resolver carries the set of types being resolved up the call stack.
type resolver struct {
	lookup   Lookup
	log      zerolog.Logger
	visiting map[string]bool
}

func newResolver(lookup Lookup, log zerolog.Logger) *resolver {
	return &resolver{
		lookup:   lookup,
		log:      log,
		visiting: make(map[string]bool),
	}
}

func (r *resolver) resolve(m *Map) error {
	if m.state == resolved {
		return nil
	}

	// re-entered through a cycle: report success and leave m to the caller
	// further up the stack
	if r.visiting[m.typeName] {
		r.log.Debug().
			Str("type", m.typeName).
			Str("map", m.name).
			Msg("cyclic resolution short-circuited")

		return nil
	}

	r.visiting[m.typeName] = true
	defer delete(r.visiting, m.typeName)

	m.state = resolving

	r.log.Debug().Str("type", m.typeName).Str("map", m.name).Msg("resolving map")

	if err := r.mergeBase(m); err != nil {
		m.state = unresolved
		return err
	}

	for _, rel := range m.relations.values() {
		if err := r.resolveRelation(m, rel); err != nil {
			m.state = unresolved

			return &ResolutionError{Type: m.typeName, Map: m.name, Relation: rel.Name, Err: err}
		}
	}

	m.state = resolved

	r.log.Debug().
		Str("type", m.typeName).
		Str("map", m.name).
		Int("fields", m.fields.len()).
		Int("relations", m.relations.len()).
		Msg("resolved map")

	return nil
}

// mergeBase prepends the entries of the base type's same-name map. It runs
// once per map and is skipped for replace maps.
func (r *resolver) mergeBase(m *Map) error {
	if m.baseMerged {
		return nil
	}

	if m.replace || m.rtype == nil || m.rtype.Base() == "" {
		m.baseMerged = true
		return nil
	}

	baseName := m.rtype.Base()

	if r.lookup == nil {
		return &ResolutionError{Type: m.typeName, Map: m.name, Err: fmt.Errorf("no lookup for base type %q", baseName)}
	}

	reg, ok := r.lookup.Registry(baseName)
	if !ok {
		return &ResolutionError{Type: m.typeName, Map: m.name, Err: fmt.Errorf("base %w %q", record.ErrUnknownType, baseName)}
	}

	base, ok := reg.Map(m.name)
	if !ok {
		m.baseMerged = true
		return nil
	}

	if err := r.resolve(base); err != nil {
		return &ResolutionError{Type: m.typeName, Map: m.name, Err: err}
	}

	merged, err := base.Copy().retarget(m).MergeWith(m)
	if err != nil {
		return &ResolutionError{Type: m.typeName, Map: m.name, Err: err}
	}

	m.adopt(merged)
	m.baseMerged = true

	r.log.Debug().
		Str("type", m.typeName).
		Str("map", m.name).
		Str("base", baseName).
		Msg("merged base map")

	return nil
}

// retarget makes a copy belong to the owner of other.
func (m *Map) retarget(other *Map) *Map {
	m.set = other.set
	m.log = other.log
	m.typeName = other.typeName
	m.rtype = other.rtype

	return m
}

func (r *resolver) resolveRelation(m *Map, rel *Relation) error {
	if rel.resolved {
		return nil
	}

	switch {
	case rel.Polymorphic:
		rel.nested = nil
	case rel.declared != nil && rel.Override == Replace:
		if err := r.resolve(rel.declared); err != nil {
			return err
		}

		rel.nested = rel.declared
	case rel.declared != nil:
		composed, err := r.compose(m, rel)
		if err != nil {
			return err
		}

		rel.nested = composed
	default:
		target, err := r.targetMap(m, rel)
		if err != nil {
			return err
		}

		if err := r.resolve(target); err != nil {
			return err
		}

		rel.nested = target
	}

	rel.resolved = true

	return nil
}

func (r *resolver) targetMap(m *Map, rel *Relation) (*Map, error) {
	if r.lookup == nil {
		return nil, fmt.Errorf("no lookup for target type %q", rel.Target)
	}

	reg, ok := r.lookup.Registry(rel.Target)
	if !ok {
		return nil, fmt.Errorf("target %w %q", record.ErrUnknownType, rel.Target)
	}

	target, ok := reg.Map(m.name)
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownMap, diagnostic.Subject(rel.Target, m.name))
	}

	return target, nil
}

// compose merges the relation's explicit nested map onto the target type's
// own same-name map. Without such a map the explicit map is used as is.
func (r *resolver) compose(m *Map, rel *Relation) (*Map, error) {
	target, err := r.targetMap(m, rel)
	if err != nil {
		if r.lookup == nil {
			return nil, err
		}

		if _, ok := r.lookup.Registry(rel.Target); !ok {
			return nil, err
		}

		if err := r.resolve(rel.declared); err != nil {
			return nil, err
		}

		return rel.declared, nil
	}

	if err := checkCircularMerge(m, rel, target); err != nil {
		return nil, err
	}

	if err := r.resolve(target); err != nil {
		return nil, err
	}

	composed, err := target.Copy().MergeWith(rel.declared)
	if err != nil {
		return nil, err
	}

	composed.baseMerged = true

	r.log.Debug().
		Str("type", m.typeName).
		Str("map", m.name).
		Str("relation", rel.Name).
		Str("target", rel.Target).
		Msg("composed nested map")

	if err := r.resolve(composed); err != nil {
		return nil, err
	}

	return composed, nil
}

// checkCircularMerge fails when the target map merges an explicit nested map
// back into m's type.
func checkCircularMerge(m *Map, rel *Relation, target *Map) error {
	for _, back := range target.relations.values() {
		if back.Polymorphic || back.Override != Merge || back.declared == nil {
			continue
		}

		if back.Target == m.typeName {
			return &CircularMergeError{
				Type:     m.typeName,
				Map:      m.name,
				Relation: rel.Name,
				Target:   rel.Target,
				Back:     back.Name,
			}
		}
	}

	return nil
}
