package record

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"attrmap/internal/common"
)

// DestroyKey marks a nested attribute entry for removal from a to-many relation.
const DestroyKey = "_destroy"

// Instance is an in-memory record of a Model.
type Instance struct {
	id      string
	model   *Model
	values  map[string]any
	related map[string]any
}

var _ Record = (*Instance)(nil)

// New creates a blank instance of the model.
func (m *Model) New() *Instance {
	return &Instance{
		id:      uuid.NewString(),
		model:   m,
		values:  make(map[string]any),
		related: make(map[string]any),
	}
}

// ID returns the identifier assigned at creation.
func (r *Instance) ID() string { return r.id }

// Type implements Record.
func (r *Instance) Type() Type { return r.model }

// Model returns the concrete model of the instance.
func (r *Instance) Model() *Model { return r.model }

// Get implements Record. Declared but unset columns read as nil.
func (r *Instance) Get(field string) (any, bool) {
	if _, ok := r.model.Column(field); !ok {
		return nil, false
	}

	return r.values[field], true
}

// Set implements Record.
func (r *Instance) Set(field string, value any) error {
	if _, ok := r.model.Column(field); !ok {
		return fmt.Errorf("%w %s.%s", ErrUnknownField, r.model.name, field)
	}

	r.values[field] = value

	return nil
}

// Attributes returns a copy of the column values that have been set.
func (r *Instance) Attributes() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}

	return out
}

// Related implements Record.
func (r *Instance) Related(name string) (any, error) {
	info, err := r.model.Relation(name)
	if err != nil {
		return nil, err
	}

	v, ok := r.related[name]
	if !ok {
		return nil, nil
	}

	if info.Many {
		members, _ := v.([]Record)
		return members, nil
	}

	return v, nil
}

// SetRelated replaces the value of a relation. To-one relations take a
// Record or nil, to-many relations take a []Record.
func (r *Instance) SetRelated(name string, value any) error {
	info, err := r.model.Relation(name)
	if err != nil {
		return err
	}

	switch v := value.(type) {
	case nil:
		delete(r.related, name)
	case Record:
		if info.Many {
			return fmt.Errorf("%w: relation %s.%s expects a collection", ErrInvalidAttributes, r.model.name, name)
		}

		r.related[name] = v
	case []Record:
		if !info.Many {
			return fmt.Errorf("%w: relation %s.%s expects a single record", ErrInvalidAttributes, r.model.name, name)
		}

		r.related[name] = v
	default:
		return fmt.Errorf("%w: relation %s.%s: unsupported value %T", ErrInvalidAttributes, r.model.name, name, value)
	}

	return nil
}

// AssignAttributes implements Record. Plain keys are columns; keys ending in
// NestedAttributesSuffix assign the named relation in bulk. Existing members
// are matched by their "id" column, entries with a true DestroyKey remove the
// matched member. AttributeWriter values run last, in key order.
func (r *Instance) AssignAttributes(attrs map[string]any) error {
	var writers []string

	for _, key := range common.SortedKeys(attrs) {
		value := attrs[key]

		if _, ok := value.(AttributeWriter); ok {
			writers = append(writers, key)
			continue
		}

		if rel, ok := strings.CutSuffix(key, NestedAttributesSuffix); ok {
			if _, err := r.model.Relation(rel); err == nil {
				if err := r.assignNested(rel, value); err != nil {
					return err
				}

				continue
			}
		}

		if err := r.Set(key, value); err != nil {
			return err
		}
	}

	for _, key := range writers {
		if err := attrs[key].(AttributeWriter).WriteAttribute(r); err != nil {
			return err
		}
	}

	return nil
}

func (r *Instance) assignNested(name string, value any) error {
	if !r.model.AcceptsNestedAttributes(name) {
		return fmt.Errorf("%w: %s.%s", ErrNestedAttributes, r.model.name, name)
	}

	info, _ := r.model.Relation(name)

	target, ok := r.model.models.Model(info.Target)
	if !ok {
		return fmt.Errorf("relation %s.%s: %w %q", r.model.name, name, ErrUnknownType, info.Target)
	}

	if !info.Many {
		attrs, ok := asAttributes(value)
		if !ok {
			return fmt.Errorf("%w: %s.%s expects a mapping, got %T", ErrInvalidAttributes, r.model.name, name, value)
		}

		if destroyRequested(attrs) {
			delete(r.related, name)
			return nil
		}

		current, _ := r.related[name].(Record)
		if current == nil {
			current = target.New()
		}

		if err := current.AssignAttributes(withoutControlKeys(attrs)); err != nil {
			return fmt.Errorf("%s.%s: %w", r.model.name, name, err)
		}

		r.related[name] = current

		return nil
	}

	entries, ok := asAttributesList(value)
	if !ok {
		return fmt.Errorf("%w: %s.%s expects a sequence, got %T", ErrInvalidAttributes, r.model.name, name, value)
	}

	existing, _ := r.related[name].([]Record)
	members := append([]Record(nil), existing...)

	for i, attrs := range entries {
		idx := indexByID(members, attrs["id"])

		if destroyRequested(attrs) {
			if idx >= 0 {
				members = append(members[:idx], members[idx+1:]...)
			}

			continue
		}

		var member Record
		if idx >= 0 {
			member = members[idx]
		} else {
			member = target.New()
		}

		if err := member.AssignAttributes(withoutControlKeys(attrs)); err != nil {
			return fmt.Errorf("%s.%s[%d]: %w", r.model.name, name, i, err)
		}

		if idx < 0 {
			members = append(members, member)
		}
	}

	r.related[name] = members

	return nil
}

func indexByID(members []Record, id any) int {
	if id == nil {
		return -1
	}

	for i, m := range members {
		if v, ok := m.Get("id"); ok && v != nil && fmt.Sprint(v) == fmt.Sprint(id) {
			return i
		}
	}

	return -1
}

func destroyRequested(attrs map[string]any) bool {
	v, ok := attrs[DestroyKey]
	if !ok {
		return false
	}

	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "1" || t == "true"
	case int:
		return t == 1
	case int64:
		return t == 1
	case float64:
		return t == 1
	default:
		return false
	}
}

func withoutControlKeys(attrs map[string]any) map[string]any {
	if _, ok := attrs[DestroyKey]; !ok {
		return attrs
	}

	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if k != DestroyKey {
			out[k] = v
		}
	}

	return out
}

func asAttributes(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case interface{ ToMap() map[string]any }:
		return t.ToMap(), true
	default:
		return nil, false
	}
}

func asAttributesList(v any) ([]map[string]any, bool) {
	switch t := v.(type) {
	case []map[string]any:
		return t, true
	case []any:
		out := make([]map[string]any, 0, len(t))

		for _, item := range t {
			attrs, ok := asAttributes(item)
			if !ok {
				return nil, false
			}

			out = append(out, attrs)
		}

		return out, true
	case map[string]any:
		// indexed form: {"0": {...}, "1": {...}}
		out := make([]map[string]any, 0, len(t))

		for _, k := range indexKeys(t) {
			attrs, ok := asAttributes(t[k])
			if !ok {
				return nil, false
			}

			out = append(out, attrs)
		}

		return out, true
	default:
		return nil, false
	}
}

// indexKeys orders the keys of the indexed form by their numeric value.
// Numeric keys come first; other keys follow in string order.
func indexKeys(entries map[string]any) []string {
	keys := common.SortedKeys(entries)

	slices.SortStableFunc(keys, func(a, b string) int {
		ai, aErr := strconv.Atoi(a)
		bi, bErr := strconv.Atoi(b)

		switch {
		case aErr == nil && bErr == nil:
			return cmp.Compare(ai, bi)
		case aErr == nil:
			return -1
		case bErr == nil:
			return 1
		default:
			return 0
		}
	})

	return keys
}
