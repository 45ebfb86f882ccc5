package definition

import (
	"errors"

	"attrmap/internal/attrmap"
	"attrmap/internal/diagnostic"
)

// Funcs holds named custom accessors. A read_fn or write_fn option naming
// a registered function binds that function; any other name refers to a
// record field.
type Funcs struct {
	Readers map[string]attrmap.ReadFunc
	Writers map[string]attrmap.WriteFunc
}

// Build declares every map of the file into set. Declaration errors are
// reported as diagnostics; entries that declared cleanly are kept.
func Build(f *File, set *attrmap.Set, funcs Funcs) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	for i := range f.Maps {
		md := &f.Maps[i]

		_, err := set.Define(md.Type, md.Name, attrmap.MapOptions{Replace: md.Replace}, func(m *attrmap.Map) error {
			return declareBlock(m, md.Block, funcs)
		})
		if err != nil {
			addErrors(&diags, diagnostic.Subject(md.Type, md.Name), err)
		}
	}

	return diags
}

// Load builds f into set, then resolves every map. Validation, declaration
// and resolution diagnostics are returned together; nothing is resolved
// when validation fails.
func Load(f *File, set *attrmap.Set, funcs Funcs) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	diags.Merge(*Validate(f, set.Catalog()))

	if diags.HasErrors() {
		return diags
	}

	diags.Merge(Build(f, set, funcs))

	if diags.HasErrors() {
		return diags
	}

	diags.Merge(set.ResolveAll())

	return diags
}

func declareBlock(m *attrmap.Map, block Block, funcs Funcs) error {
	var errs []error

	for _, e := range block.Fields {
		errs = append(errs, m.DeclareField(e.Name, funcs.bind(e.Options)))
	}

	for _, e := range block.Relations {
		var nested func(*attrmap.Map) error

		if e.Block != nil {
			inner := *e.Block
			nested = func(n *attrmap.Map) error { return declareBlock(n, inner, funcs) }
		}

		errs = append(errs, m.DeclareRelation(e.Name, attrmap.Options(e.Options), nested))
	}

	return errors.Join(errs...)
}

// bind replaces accessor names with registered functions.
func (f Funcs) bind(opts map[string]any) attrmap.Options {
	out := attrmap.Options(opts)

	if name, ok := opts[attrmap.OptReadFn].(string); ok {
		if fn, found := f.Readers[name]; found {
			out = out.With(attrmap.OptReadFn, fn)
		}
	}

	if name, ok := opts[attrmap.OptWriteFn].(string); ok {
		if fn, found := f.Writers[name]; found {
			out = out.With(attrmap.OptWriteFn, fn)
		}
	}

	return out
}

func addErrors(diags *diagnostic.Diagnostics, subject string, err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			addErrors(diags, subject, e)
		}

		return
	}

	var cerr *attrmap.ConfigurationError
	if errors.As(err, &cerr) {
		diags.Add(cerr.Diagnostic())
		return
	}

	diags.AddError("declaration_failed", err.Error(), subject, "")
}
