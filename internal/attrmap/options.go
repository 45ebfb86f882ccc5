package attrmap

import (
	"fmt"
	"maps"
	"slices"

	"attrmap/internal/common"
	"attrmap/internal/match"
	"attrmap/internal/record"
)

// Options holds the declaration options of a field or relation.
type Options map[string]any

// Option keys.
const (
	OptInternalName  = "internal_name"
	OptAccessMode    = "access_mode"
	OptOptionalGroup = "optional_group"
	OptReadFn        = "read_fn"
	OptWriteFn       = "write_fn"
	OptOverrideMode  = "override_mode"
	OptPolymorphic   = "polymorphic"
)

var (
	fieldOptionKeys    = []string{OptInternalName, OptAccessMode, OptOptionalGroup, OptReadFn, OptWriteFn}
	relationOptionKeys = []string{OptInternalName, OptOverrideMode, OptPolymorphic, OptAccessMode, OptOptionalGroup}
)

// FieldOptionKeys returns the option keys DeclareField accepts.
func FieldOptionKeys() []string { return slices.Clone(fieldOptionKeys) }

// RelationOptionKeys returns the option keys DeclareRelation accepts.
func RelationOptionKeys() []string { return slices.Clone(relationOptionKeys) }

// ReadFunc computes the value of a field for projection.
type ReadFunc func(rec record.Record) (any, error)

// WriteFunc stores a translated value on a record.
type WriteFunc func(rec record.Record, value any) error

// DiscriminatorField is the internal name that reads a record's
// discriminator instead of a column.
const DiscriminatorField = record.TypeKey

func (o Options) clone() Options {
	if o == nil {
		return Options{}
	}

	return maps.Clone(o)
}

// With returns a copy of o with key set to value.
func (o Options) With(key string, value any) Options {
	out := o.clone()
	out[key] = value

	return out
}

// mergeOptions overlays incoming on base; incoming wins per key.
func mergeOptions(base, incoming Options) Options {
	out := base.clone()
	maps.Copy(out, incoming)

	return out
}

// unknownOption returns the first key (in sorted order) outside allowed.
func unknownOption(opts Options, allowed []string) (string, bool) {
	known := common.Set(allowed)

	for _, key := range common.SortedKeys(opts) {
		if _, ok := known[key]; !ok {
			return key, true
		}
	}

	return "", false
}

func (m *Map) checkOptionKeys(name string, opts Options, allowed []string) error {
	key, found := unknownOption(opts, allowed)
	if !found {
		return nil
	}

	err := m.configError(CodeUnknownOption, name, "unknown option %q", key)
	err.Suggestions = match.Suggest(key, allowed)

	return err
}

func stringOption(opts Options, key string) (string, bool, error) {
	raw, ok := opts[key]
	if !ok || raw == nil {
		return "", false, nil
	}

	s, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("%s must be a string, got %T", key, raw)
	}

	if s == "" {
		return "", false, fmt.Errorf("%s must not be empty", key)
	}

	return s, true, nil
}

func boolOption(opts Options, key string) (bool, error) {
	raw, ok := opts[key]
	if !ok || raw == nil {
		return false, nil
	}

	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("%s must be a boolean, got %T", key, raw)
	}

	return b, nil
}

// Optional marks a field or relation as excluded from default projections.
type Optional struct {
	Enabled bool
	// Group names a bucket that includes the member when requested.
	Group string
}

// ParseOptional accepts nil, a bool or a group name.
func ParseOptional(v any) (Optional, error) {
	switch t := v.(type) {
	case nil:
		return Optional{}, nil
	case Optional:
		return t, nil
	case bool:
		return Optional{Enabled: t}, nil
	case string:
		if t == "" {
			return Optional{}, nil
		}

		return Optional{Enabled: true, Group: t}, nil
	default:
		return Optional{}, fmt.Errorf("optional_group must be a boolean or a group name, got %T", v)
	}
}

// includedBy reports whether a member named name is projected under include.
func (o Optional) includedBy(name string, include Include) bool {
	if !o.Enabled {
		return true
	}

	if include.Has(name) {
		return true
	}

	return o.Group != "" && include.Has(o.Group)
}

// schemaValue is the optional marker reported by Schema.
func (o Optional) schemaValue() any {
	if o.Group != "" {
		return o.Group
	}

	return true
}

// Bindings holds the custom accessors of a map, keyed by accessor name.
type Bindings struct {
	readers map[string]ReadFunc
	writers map[string]WriteFunc
}

// BindingSeparator joins map and field names in accessor names. It cannot
// appear in a column name.
const BindingSeparator = "#"

// BindingName returns the accessor name of a field in a map.
func BindingName(mapName, field string) string {
	return mapName + BindingSeparator + field
}

func newBindings() *Bindings {
	return &Bindings{
		readers: make(map[string]ReadFunc),
		writers: make(map[string]WriteFunc),
	}
}

// Reader returns the read accessor bound under name.
func (b *Bindings) Reader(name string) (ReadFunc, bool) {
	fn, ok := b.readers[name]
	return fn, ok
}

// Writer returns the write accessor bound under name.
func (b *Bindings) Writer(name string) (WriteFunc, bool) {
	fn, ok := b.writers[name]
	return fn, ok
}

// Names returns all accessor names in sorted order.
func (b *Bindings) Names() []string {
	set := make(map[string]struct{}, len(b.readers)+len(b.writers))
	for k := range b.readers {
		set[k] = struct{}{}
	}

	for k := range b.writers {
		set[k] = struct{}{}
	}

	return common.SortedKeys(set)
}

func (b *Bindings) unbind(name string) {
	delete(b.readers, name)
	delete(b.writers, name)
}

func (b *Bindings) clone() *Bindings {
	return &Bindings{
		readers: maps.Clone(b.readers),
		writers: maps.Clone(b.writers),
	}
}
