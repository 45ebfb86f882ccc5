package attrmap

// MergeWith returns a new map holding m's entries overlaid with incoming's.
// Neither m nor incoming is modified.
//
// Fields merge per option, incoming winning on conflicts. Names excluded in
// incoming are removed. A relation in incoming replaces the same-named
// relation of m entirely. The result is unresolved and keeps m's base merge
// flag.
func (m *Map) MergeWith(incoming *Map) (*Map, error) {
	out := m.Copy()
	out.state = unresolved

	if incoming == nil {
		return out, nil
	}

	for name := range incoming.excluded {
		out.exclude(name)
	}

	for _, f := range incoming.fields.values() {
		opts := f.opts.clone()
		if prev, ok := out.fields.get(f.Name); ok {
			opts = mergeOptions(prev.opts, f.opts)

			if _, own := f.opts[OptWriteFn]; !own {
				if access, err := ParseAccess(opts[OptAccessMode]); err == nil && !access.Writable() {
					delete(opts, OptWriteFn)
				}
			}
		}

		merged, err := out.buildField(f.Name, opts)
		if err != nil {
			return nil, err
		}

		out.relations.delete(f.Name)
		delete(out.excluded, f.Name)
		out.fields.set(f.Name, merged)
	}

	for _, rel := range incoming.relations.values() {
		if prev, ok := out.relations.get(rel.Name); ok && prev.Polymorphic && rel.declared != nil {
			return nil, out.configError(CodePolymorphicOverride, rel.Name,
				"cannot attach a nested map to polymorphic relation %q", rel.Name)
		}

		if f, ok := out.fields.get(rel.Name); ok {
			out.bindings.unbind(f.binding)
			out.fields.delete(rel.Name)
		}

		delete(out.excluded, rel.Name)
		out.relations.set(rel.Name, rel.clone())
	}

	out.rebuildWriteIndex()

	return out, nil
}
