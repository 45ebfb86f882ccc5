package attrmap

import (
	"fmt"

	"attrmap/internal/record"
)

// Field is a scalar member of a record exposed through a map.
type Field struct {
	// Name is the public name.
	Name string
	// Internal is the record field the public name maps to.
	Internal string
	Access   Access
	Optional Optional

	// readField and writeField name record fields given as read_fn/write_fn.
	readField  string
	writeField string
	// binding is the accessor name of custom functions, if any.
	binding   string
	hasReader bool
	hasWriter bool

	opts Options
}

// Options returns a copy of the options the field was declared with.
func (f *Field) Options() Options { return f.opts.clone() }

// HasReader reports whether the field reads through a custom function.
func (f *Field) HasReader() bool { return f.hasReader }

// HasWriter reports whether the field writes through a custom function.
func (f *Field) HasWriter() bool { return f.hasWriter }

// Binding returns the accessor name of the field's custom functions, or "".
func (f *Field) Binding() string { return f.binding }

// source is the record field read when no custom reader is bound.
func (f *Field) source() string {
	if f.readField != "" {
		return f.readField
	}

	return f.Internal
}

// writeTarget is the key the field is translated to.
func (f *Field) writeTarget() string {
	switch {
	case f.hasWriter:
		return f.binding
	case f.writeField != "":
		return f.writeField
	default:
		return f.Internal
	}
}

func (f *Field) clone() *Field {
	c := *f
	c.opts = f.opts.clone()

	return &c
}

// buildField validates opts and builds a field, binding custom accessors
// into m. It returns a nil field for excluded declarations.
func (m *Map) buildField(name string, opts Options) (*Field, error) {
	if name == "" {
		return nil, m.configError(CodeInvalidOption, name, "field name is required")
	}

	if err := m.checkOptionKeys(name, opts, fieldOptionKeys); err != nil {
		return nil, err
	}

	access, err := ParseAccess(opts[OptAccessMode])
	if err != nil {
		cerr := m.configError(CodeInvalidAccess, name, "invalid %s", OptAccessMode)
		cerr.Err = err

		return nil, cerr
	}

	if access == Excluded {
		return nil, nil
	}

	f := &Field{
		Name:     name,
		Internal: name,
		Access:   access,
		binding:  BindingName(m.name, name),
		opts:     opts.clone(),
	}

	internal, ok, err := stringOption(opts, OptInternalName)
	if err != nil {
		return nil, m.wrapOption(name, err)
	}

	if ok {
		f.Internal = internal
	}

	if f.Optional, err = ParseOptional(opts[OptOptionalGroup]); err != nil {
		return nil, m.wrapOption(name, err)
	}

	var (
		reader ReadFunc
		writer WriteFunc
	)

	switch fn := opts[OptReadFn].(type) {
	case nil:
	case ReadFunc:
		reader = fn
	case func(record.Record) (any, error):
		reader = fn
	case string:
		f.readField = fn
	default:
		return nil, m.wrapOption(name, fmt.Errorf("%s must be a function or a field name, got %T", OptReadFn, fn))
	}

	switch fn := opts[OptWriteFn].(type) {
	case nil:
	case WriteFunc:
		writer = fn
	case func(record.Record, any) error:
		writer = fn
	case string:
		f.writeField = fn
	default:
		return nil, m.wrapOption(name, fmt.Errorf("%s must be a function or a field name, got %T", OptWriteFn, fn))
	}

	if _, given := opts[OptWriteFn]; given && !access.Writable() {
		return nil, m.configError(CodeWriterOnReadOnly, name, "%s given for a %s field", OptWriteFn, access)
	}

	if err := m.checkColumns(f, reader != nil, writer != nil); err != nil {
		return nil, err
	}

	m.bindings.unbind(f.binding)

	if reader != nil {
		m.bindings.readers[f.binding] = reader
		f.hasReader = true
	}

	if writer != nil {
		m.bindings.writers[f.binding] = writer
		f.hasWriter = true
	}

	return f, nil
}

// checkColumns verifies that the record fields a field reads or writes
// directly exist on the owning type.
func (m *Map) checkColumns(f *Field, customReader, customWriter bool) error {
	if m.rtype == nil {
		return nil
	}

	check := func(column string) error {
		if column == DiscriminatorField {
			return nil
		}

		if _, ok := m.rtype.Column(column); !ok {
			return m.configError(CodeUnknownField, f.Name, "%s has no field %q", m.typeName, column)
		}

		return nil
	}

	if f.Access.Readable() && !customReader {
		if err := check(f.source()); err != nil {
			return err
		}
	}

	if f.Access.Writable() && !customWriter {
		target := f.Internal
		if f.writeField != "" {
			target = f.writeField
		}

		if err := check(target); err != nil {
			return err
		}
	}

	return nil
}

func (m *Map) wrapOption(name string, err error) *ConfigurationError {
	cerr := m.configError(CodeInvalidOption, name, "invalid option")
	cerr.Err = err

	return cerr
}

// readField reads the projected value of f from rec.
func (m *Map) readField(f *Field, rec record.Record) (any, error) {
	if f.hasReader {
		if fn, ok := m.bindings.Reader(f.binding); ok {
			v, err := fn(rec)
			if err != nil {
				return nil, fmt.Errorf("%s#%s %s: %w", m.typeName, m.name, f.Name, err)
			}

			return v, nil
		}
	}

	src := f.source()
	if src == DiscriminatorField {
		return rec.Type().Discriminator(), nil
	}

	v, ok := rec.Get(src)
	if !ok {
		return nil, fmt.Errorf("%s#%s %s: %w %q", m.typeName, m.name, f.Name, record.ErrUnknownField, src)
	}

	return v, nil
}

// columnType is the type tag of f reported by Schema.
func (m *Map) columnType(f *Field) string {
	if f.source() == DiscriminatorField {
		return string(record.ColumnString)
	}

	if m.rtype != nil {
		if ct, ok := m.rtype.Column(f.source()); ok {
			return string(ct)
		}

		if ct, ok := m.rtype.Column(f.writeTarget()); ok {
			return string(ct)
		}
	}

	return "any"
}
