package definition

import (
	"fmt"

	"attrmap/internal/attrmap"
	"attrmap/internal/common"
	"attrmap/internal/diagnostic"
	"attrmap/internal/match"
	"attrmap/internal/record"
)

// Validate validates a definition file against the given record types.
// This is a structural validation step only; the declaration rules that
// need a map under construction are reported by Build.
func Validate(f *File, catalog record.Catalog) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("definition_is_nil", "definition file is nil", "", "")
		return res
	}

	if catalog == nil {
		res.AddError("catalog_is_nil", "record catalog is nil", "", "")
		return res
	}

	if f.Version != CurrentVersion {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported definition version %q", f.Version), "", "")
	}

	seen := map[string]struct{}{}

	for i := range f.Maps {
		md := &f.Maps[i]
		subject := diagnostic.Subject(md.Type, md.Name)

		if md.Type == "" {
			res.AddError("missing_type", fmt.Sprintf("map %d has no type", i), "", "")
			continue
		}

		if _, dup := seen[subject]; dup {
			res.AddWarning("duplicate_map", "map is declared more than once; later sections extend it", subject, "")
		}

		seen[subject] = struct{}{}

		t, ok := catalog.Type(md.Type)
		if !ok {
			res.Add(diagnostic.Diagnostic{
				Severity:    diagnostic.DiagnosticError,
				Code:        string(attrmap.CodeUnknownType),
				Message:     fmt.Sprintf("type %q is not known", md.Type),
				Subject:     subject,
				Suggestions: match.Suggest(md.Type, typeNames(catalog)),
			})

			continue
		}

		if md.Replace && md.Block.Empty() {
			res.AddWarning("empty_replace", "replace map declares nothing", subject, "")
		}

		validateBlock(res, subject, "", t, catalog, md.Block)
	}

	return res
}

// typeNames returns the type names of catalogs that can list them.
func typeNames(catalog record.Catalog) []string {
	if lister, ok := catalog.(interface{ Names() []string }); ok {
		return lister.Names()
	}

	return nil
}

func validateBlock(
	res *diagnostic.Diagnostics,
	subject, prefix string,
	t record.Type,
	catalog record.Catalog,
	block Block,
) {
	names := map[string]struct{}{}

	checkName := func(e *Entry) string {
		path := joinPath(prefix, e.Name)
		if _, dup := names[e.Name]; dup {
			res.AddError(string(attrmap.CodeDuplicateName), fmt.Sprintf("%q is declared twice", e.Name), subject, path)
		}

		names[e.Name] = struct{}{}

		return path
	}

	for i := range block.Fields {
		e := &block.Fields[i]
		path := checkName(e)

		validateOptions(res, subject, path, e.Options, attrmap.FieldOptionKeys())

		if e.Block != nil {
			res.AddError("unexpected_block", "fields cannot declare nested fields or relations", subject, path)
		}
	}

	for i := range block.Relations {
		e := &block.Relations[i]
		path := checkName(e)

		validateOptions(res, subject, path, e.Options, attrmap.RelationOptionKeys())

		if _, err := attrmap.ParseOverrideMode(e.Options[attrmap.OptOverrideMode]); err != nil {
			res.AddError(string(attrmap.CodeInvalidOption), err.Error(), subject, path)
		}

		internal := e.Name
		if s, ok := e.Options[attrmap.OptInternalName].(string); ok && s != "" {
			internal = s
		}

		info, err := t.Relation(internal)
		if err != nil {
			res.AddError(string(attrmap.CodeUnknownRelation), fmt.Sprintf("%s has no relation %q", t.Name(), internal), subject, path)
			continue
		}

		if e.Block == nil {
			continue
		}

		target, ok := catalog.Type(info.Target)
		if !ok {
			res.AddError(string(attrmap.CodeUnknownTarget), fmt.Sprintf("target type %q is not known", info.Target), subject, path)
			continue
		}

		validateBlock(res, subject, path, target, catalog, *e.Block)
	}
}

func validateOptions(res *diagnostic.Diagnostics, subject, path string, opts map[string]any, allowed []string) {
	known := common.Set(allowed)

	for _, key := range common.SortedKeys(opts) {
		if _, ok := known[key]; ok {
			continue
		}

		res.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.DiagnosticError,
			Code:        string(attrmap.CodeUnknownOption),
			Message:     fmt.Sprintf("unknown option %q", key),
			Subject:     subject,
			Path:        path,
			Suggestions: match.Suggest(key, allowed),
		})
	}

	if _, err := attrmap.ParseAccess(opts[attrmap.OptAccessMode]); err != nil {
		res.AddError(string(attrmap.CodeInvalidAccess), err.Error(), subject, path)
	}

	if _, err := attrmap.ParseOptional(opts[attrmap.OptOptionalGroup]); err != nil {
		res.AddError(string(attrmap.CodeInvalidOption), err.Error(), subject, path)
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}

	return prefix + "." + name
}
