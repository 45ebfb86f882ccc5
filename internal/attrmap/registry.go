package attrmap

// Registry holds the maps of one record type by name.
type Registry struct {
	set      *Set
	typeName string
	base     string
	maps     ordered[*Map]
}

// TypeName returns the record type the registry belongs to.
func (r *Registry) TypeName() string { return r.typeName }

// Map returns the named map. A type without its own map of that name
// inherits one from its base type: an empty map is registered that picks up
// the base type's entries on resolution.
func (r *Registry) Map(name string) (*Map, bool) {
	if m, ok := r.maps.get(name); ok {
		return m, true
	}

	if r.base == "" || r.set == nil {
		return nil, false
	}

	baseReg, ok := r.set.Registry(r.base)
	if !ok {
		return nil, false
	}

	if _, ok := baseReg.Map(name); !ok {
		return nil, false
	}

	rtype, _ := r.set.RecordType(r.typeName)
	m := newMap(r.set, r.typeName, rtype, name)
	r.maps.set(name, m)

	r.set.log.Debug().
		Str("type", r.typeName).
		Str("map", name).
		Str("base", r.base).
		Msg("inherited map")

	return m, true
}

// Names returns the names of the maps registered on this type, in
// registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.maps.keys...)
}

// Maps returns the maps registered on this type, in registration order.
func (r *Registry) Maps() []*Map { return r.maps.values() }

// define returns the named map, creating it if needed.
func (r *Registry) define(name string) *Map {
	if m, ok := r.maps.get(name); ok {
		return m
	}

	rtype, _ := r.set.RecordType(r.typeName)
	m := newMap(r.set, r.typeName, rtype, name)
	r.maps.set(name, m)

	return m
}
