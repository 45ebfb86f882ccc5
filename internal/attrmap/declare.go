package attrmap

// DeclareField declares a field under its public name.
//
// Allowed options are internal_name, access_mode, optional_group, read_fn and
// write_fn. read_fn and write_fn take a ReadFunc/WriteFunc, bound as custom
// accessors of this map, or the name of a record field to use instead of the
// internal name. access_mode=excluded removes any earlier declaration of the
// name, here and in maps this one is merged onto.
func (m *Map) DeclareField(name string, opts Options) error {
	if m.sealed() {
		return ErrSealed
	}

	if _, isRelation := m.relations.get(name); isRelation {
		return m.configError(CodeDuplicateName, name, "%q is already declared as a relation", name)
	}

	f, err := m.buildField(name, opts)
	if err != nil {
		return err
	}

	if f == nil {
		m.exclude(name)
		return nil
	}

	delete(m.excluded, name)
	m.fields.set(name, f)
	m.rebuildWriteIndex()

	m.log.Debug().
		Str("type", m.typeName).
		Str("map", m.name).
		Str("field", name).
		Str("access", f.Access.String()).
		Msg("declared field")

	return nil
}

// DeclareFields declares read-write fields with default options.
func (m *Map) DeclareFields(names ...string) error {
	for _, name := range names {
		if err := m.DeclareField(name, nil); err != nil {
			return err
		}
	}

	return nil
}

// DeclareRelation declares a relation under its public name. A non-nil block
// populates a fresh nested map owned by the relation's target type.
//
// Allowed options are internal_name, override_mode, polymorphic, access_mode
// and optional_group.
func (m *Map) DeclareRelation(name string, opts Options, block func(*Map) error) error {
	return m.DeclareRelationMap(name, opts, nil, block)
}

// DeclareRelationMap is DeclareRelation with an externally supplied nested
// map. block, if given, is applied to nested.
func (m *Map) DeclareRelationMap(name string, opts Options, nested *Map, block func(*Map) error) error {
	if m.sealed() {
		return ErrSealed
	}

	if _, isField := m.fields.get(name); isField {
		return m.configError(CodeDuplicateName, name, "%q is already declared as a field", name)
	}

	rel, err := m.buildRelation(name, opts, nested, block)
	if err != nil {
		return err
	}

	if rel == nil {
		m.exclude(name)
		return nil
	}

	delete(m.excluded, name)
	m.relations.set(name, rel)

	m.log.Debug().
		Str("type", m.typeName).
		Str("map", m.name).
		Str("relation", name).
		Str("target", rel.Target).
		Bool("many", rel.Many).
		Str("override", rel.Override.String()).
		Bool("nested", rel.declared != nil).
		Msg("declared relation")

	return nil
}

// exclude removes a field or relation and records the exclusion marker.
func (m *Map) exclude(name string) {
	if f, ok := m.fields.get(name); ok {
		m.bindings.unbind(f.binding)
		m.fields.delete(name)
	}

	m.relations.delete(name)
	m.excluded[name] = true
	m.rebuildWriteIndex()
}
