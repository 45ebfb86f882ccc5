package attrmap

import "maps"

// Schema describes the map for the given side:
//
//	fields:    name -> type | {type, access}
//	relations: name -> {optional?, access?, many, target, polymorphic?, fields?, relations?}
//
// Nested schemas are expanded once per type along each path; visited holds
// type names not to expand and is not modified.
func (m *Map) Schema(mode SchemaMode, visited map[string]bool) (*Hash, error) {
	if err := m.MustResolve(); err != nil {
		return nil, err
	}

	return m.schema(mode, visited)
}

func (m *Map) schema(mode SchemaMode, visited map[string]bool) (*Hash, error) {
	seen := maps.Clone(visited)
	if seen == nil {
		seen = make(map[string]bool)
	}

	seen[m.typeName] = true

	fields := NewHash()

	for _, f := range m.fields.values() {
		if !mode.includes(f.Access) {
			continue
		}

		typ := m.columnType(f)
		if f.Access == ReadWrite && !f.Optional.Enabled {
			fields.Set(f.Name, typ)
			continue
		}

		entry := NewHash()
		entry.Set("type", typ)

		if f.Access != ReadWrite {
			entry.Set("access", f.Access.String())
		}

		if f.Optional.Enabled {
			entry.Set("optional", f.Optional.schemaValue())
		}

		fields.Set(f.Name, entry)
	}

	relations := NewHash()

	for _, rel := range m.relations.values() {
		if !mode.includes(rel.Access) {
			continue
		}

		entry := NewHash()

		if rel.Optional.Enabled {
			entry.Set("optional", rel.Optional.schemaValue())
		}

		if rel.Access != ReadWrite {
			entry.Set("access", rel.Access.String())
		}

		entry.Set("many", rel.Many)
		entry.Set("target", rel.Target)

		if rel.Polymorphic {
			entry.Set("polymorphic", true)
		}

		if nm := rel.nested; nm != nil && !seen[rel.Target] {
			if err := nm.MustResolve(); err != nil {
				return nil, err
			}

			nested, err := nm.schema(mode, seen)
			if err != nil {
				return nil, err
			}

			for _, k := range nested.Keys() {
				v, _ := nested.Get(k)
				entry.Set(k, v)
			}
		}

		relations.Set(rel.Name, entry)
	}

	out := NewHash()
	out.Set("fields", fields)
	out.Set("relations", relations)

	return out, nil
}
