package attrmap

import (
	"fmt"
	"maps"

	"attrmap/internal/common"
	"attrmap/internal/record"
)

// Apply writes translated attributes to rec. Keys bound to custom writers of
// this map are handed to those writers; the rest go to the record's bulk
// assignment. Custom writers of relation members run on each member record
// through record.AttributeWriter values.
func (m *Map) Apply(rec record.Record, translated map[string]any) error {
	if rec == nil {
		return m.configError(CodeInvalidInputShape, "", "cannot apply attributes to a nil record")
	}

	if err := m.MustResolve(); err != nil {
		return err
	}

	attrs, err := m.withMemberWriters(translated)
	if err != nil {
		return err
	}

	for _, key := range common.SortedKeys(translated) {
		writer, ok := m.bindings.Writer(key)
		if !ok {
			continue
		}

		if err := (boundWrite{m: m, key: key, fn: writer, value: translated[key]}).WriteAttribute(rec); err != nil {
			return err
		}

		delete(attrs, key)
	}

	if len(attrs) == 0 {
		return nil
	}

	if err := rec.AssignAttributes(attrs); err != nil {
		return fmt.Errorf("%s#%s: %w", m.typeName, m.name, err)
	}

	return nil
}

// Assign translates input for writing and applies it to rec.
func (m *Map) Assign(rec record.Record, input map[string]any, opts TranslateOptions) error {
	translated, err := m.Translate(input, opts)
	if err != nil {
		return err
	}

	return m.Apply(rec, translated)
}

// boundWrite is a custom writer call waiting for its record.
type boundWrite struct {
	m     *Map
	key   string
	fn    WriteFunc
	value any
}

var _ record.AttributeWriter = boundWrite{}

func (w boundWrite) WriteAttribute(rec record.Record) error {
	if err := w.fn(rec, w.value); err != nil {
		return fmt.Errorf("%s#%s %s: %w", w.m.typeName, w.m.name, w.key, err)
	}

	return nil
}

// withMemberWriters copies attrs, replacing the custom writer keys of
// relation members at any depth with boundWrite values.
func (m *Map) withMemberWriters(attrs map[string]any) (map[string]any, error) {
	out := maps.Clone(attrs)

	for _, rel := range m.relations.values() {
		key := rel.AttributesKey()

		value, ok := out[key]
		if !ok || value == nil || !rel.Access.Writable() {
			continue
		}

		nm, err := m.memberMap(rel, nil)
		if err != nil {
			return nil, err
		}

		bound, err := nm.bindMembers(value, rel.Many)
		if err != nil {
			return nil, err
		}

		out[key] = bound
	}

	return out, nil
}

// bindMembers binds writers in a to-one member, or in every member of a
// sequence or of the indexed form {"0": {...}}. Other shapes are returned
// unchanged for the record to reject.
func (m *Map) bindMembers(value any, many bool) (any, error) {
	if !many {
		member, ok := value.(map[string]any)
		if !ok {
			return value, nil
		}

		return m.bindWriters(member)
	}

	switch t := value.(type) {
	case []map[string]any:
		out := make([]map[string]any, len(t))

		for i, member := range t {
			bound, err := m.bindWriters(member)
			if err != nil {
				return nil, err
			}

			out[i] = bound
		}

		return out, nil
	case []any:
		out := make([]any, len(t))

		for i, item := range t {
			member, ok := item.(map[string]any)
			if !ok {
				out[i] = item
				continue
			}

			bound, err := m.bindWriters(member)
			if err != nil {
				return nil, err
			}

			out[i] = bound
		}

		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))

		for k, item := range t {
			out[k] = item

			if member, ok := item.(map[string]any); ok {
				bound, err := m.bindWriters(member)
				if err != nil {
					return nil, err
				}

				out[k] = bound
			}
		}

		return out, nil
	default:
		return value, nil
	}
}

func (m *Map) bindWriters(member map[string]any) (map[string]any, error) {
	out, err := m.withMemberWriters(member)
	if err != nil {
		return nil, err
	}

	for key, value := range member {
		if writer, ok := m.bindings.Writer(key); ok {
			out[key] = boundWrite{m: m, key: key, fn: writer, value: value}
		}
	}

	return out, nil
}
