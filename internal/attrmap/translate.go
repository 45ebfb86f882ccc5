package attrmap

import (
	"fmt"
	"strconv"

	"attrmap/internal/common"
	"attrmap/internal/match"
	"attrmap/internal/record"
)

// DropReason tells why translation discarded an input key.
type DropReason string

const (
	DropUnknown  DropReason = "unknown"
	DropReadOnly DropReason = "read_only"
	DropNull     DropReason = "null"
)

// TranslateOptions controls a translation.
type TranslateOptions struct {
	// OnDrop, if set, is called for every discarded key with its path.
	OnDrop func(path string, reason DropReason)
}

// TranslateForWrite rewrites external input to internal names ready for bulk
// assignment. input is a structure (map[string]any or *Hash) or a sequence
// of them; a structure yields map[string]any and a sequence
// []map[string]any.
//
// Unknown keys and keys of read-only fields or relations are dropped.
// Writable relations are renamed to "<internal>_attributes"; to-many values
// may be wrapped as {"<singular>": [...]}.
func (m *Map) TranslateForWrite(input any, opts TranslateOptions) (any, error) {
	if err := m.MustResolve(); err != nil {
		return nil, err
	}

	t := &translator{opts: opts}

	if attrs, ok := asStructure(input); ok {
		return t.translate(m, attrs, "", false)
	}

	if items, ok := asSequence(input); ok {
		return t.translateAll(m, items, "", false)
	}

	return nil, m.configError(CodeInvalidInputShape, "", "expected a structure or a sequence of structures, got %T", input)
}

// Translate is TranslateForWrite for a single structure.
func (m *Map) Translate(input map[string]any, opts TranslateOptions) (map[string]any, error) {
	if err := m.MustResolve(); err != nil {
		return nil, err
	}

	t := &translator{opts: opts}

	return t.translate(m, input, "", false)
}

type translator struct {
	opts TranslateOptions
}

func (t *translator) drop(path string, reason DropReason) {
	if t.opts.OnDrop != nil {
		t.opts.OnDrop(path, reason)
	}
}

func (t *translator) translateAll(m *Map, items []any, path string, member bool) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))

	for i, item := range items {
		itemPath := path + "[" + strconv.Itoa(i) + "]"

		attrs, ok := asStructure(item)
		if !ok {
			return nil, m.configError(CodeInvalidInputShape, itemPath, "expected a structure, got %T", item)
		}

		translated, err := t.translate(m, attrs, itemPath, member)
		if err != nil {
			return nil, err
		}

		out = append(out, translated)
	}

	return out, nil
}

// translate rewrites one structure. Members of a relation keep their
// destroy marker for the record's nested assignment.
func (t *translator) translate(m *Map, input map[string]any, path string, member bool) (map[string]any, error) {
	out := make(map[string]any, len(input))

	for _, key := range common.SortedKeys(input) {
		value := input[key]
		keyPath := joinPath(path, key)

		if member && key == record.DestroyKey {
			out[key] = value
			continue
		}

		if rel, ok := m.relations.get(key); ok {
			if !rel.Access.Writable() {
				t.drop(keyPath, DropReadOnly)
				continue
			}

			if value == nil {
				t.drop(keyPath, DropNull)
				continue
			}

			translated, err := t.translateRelation(m, rel, value, keyPath)
			if err != nil {
				return nil, err
			}

			out[rel.AttributesKey()] = translated

			continue
		}

		if target, ok := m.writeIndex[key]; ok {
			out[target] = value
			continue
		}

		if _, isField := m.fields.get(key); isField {
			t.drop(keyPath, DropReadOnly)
		} else {
			t.drop(keyPath, DropUnknown)
		}
	}

	return out, nil
}

func (t *translator) translateRelation(m *Map, rel *Relation, value any, path string) (any, error) {
	nm, err := m.memberMap(rel, nil)
	if err != nil {
		return nil, err
	}

	if !rel.Many {
		attrs, ok := asStructure(value)
		if !ok {
			return nil, m.configError(CodeInvalidInputShape, path, "expected a structure, got %T", value)
		}

		return t.translate(nm, attrs, path, true)
	}

	items, ok := asSequence(unwrapCollection(rel, value))
	if !ok {
		return nil, m.configError(CodeInvalidInputShape, path, "expected a sequence, got %T", value)
	}

	return t.translateAll(nm, items, path, true)
}

// unwrapCollection returns the sequence inside a {"<singular>": [...]} or
// {"<name>": [...]} wrapper, or value unchanged.
func unwrapCollection(rel *Relation, value any) any {
	attrs, ok := asStructure(value)
	if !ok || len(attrs) != 1 {
		return value
	}

	for _, key := range []string{match.Singularize(rel.Name), rel.Name} {
		if inner, ok := attrs[key]; ok {
			if _, isSeq := asSequence(inner); isSeq {
				return inner
			}
		}
	}

	return value
}

func asStructure(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case *Hash:
		if t == nil {
			return nil, false
		}

		return t.ToMap(), true
	default:
		return nil, false
	}
}

func asSequence(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = item
		}

		return out, true
	case []*Hash:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = item
		}

		return out, true
	default:
		return nil, false
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}

	return fmt.Sprintf("%s.%s", path, key)
}
