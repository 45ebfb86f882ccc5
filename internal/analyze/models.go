package analyze

import (
	"errors"
	"fmt"
	"go/types"

	"attrmap/internal/common"
	"attrmap/internal/record"
)

// Struct tag keys and options read by ModelDefs.
const (
	AttrTag          = "attr"
	RelTag           = "rel"
	DiscriminatorTag = "discriminator"
	NestedOption     = "nested"
)

var (
	// ErrInvalidModel reports a struct that cannot be turned into a model.
	ErrInvalidModel = errors.New("invalid model")
	// ErrInvalidRelation reports a rel tagged field whose type is not a
	// named struct, a pointer to one, or a slice of either.
	ErrInvalidRelation = errors.New("invalid relation")
)

var timeID = TypeID{PkgPath: "time", Name: "Time"}

// Models builds a record catalog from the tagged structs of the graph.
func (g *TypeGraph) Models() (*record.Models, error) {
	defs, err := g.ModelDefs()
	if err != nil {
		return nil, err
	}

	models := record.NewModels()

	for _, def := range defs {
		if _, err := models.Define(def); err != nil {
			return nil, err
		}
	}

	if err := models.Validate(); err != nil {
		return nil, err
	}

	return models, nil
}

// ModelDefs returns the model declarations of the graph ordered by package
// path, then type name. A struct is a model when one of its fields carries
// an attr or rel tag, or when it embeds a model.
func (g *TypeGraph) ModelDefs() ([]record.ModelDef, error) {
	var (
		defs []record.ModelDef
		errs []error
	)

	memo := make(map[*TypeInfo]bool)
	seen := make(map[string]TypeID)

	for _, pkgPath := range common.SortedKeys(g.Packages) {
		for _, id := range g.Packages[pkgPath].Types {
			t := g.Types[id]
			if !isModel(t, memo) {
				continue
			}

			if prev, dup := seen[id.Name]; dup {
				errs = append(errs, fmt.Errorf("%w %s: name already used by %s", ErrInvalidModel, id, prev))
				continue
			}

			seen[id.Name] = id

			def, err := modelDef(t, memo)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			defs = append(defs, def)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return defs, nil
}

func isModel(t *TypeInfo, memo map[*TypeInfo]bool) bool {
	if t == nil || t.Kind != TypeKindStruct || !t.IsNamed() || t.ID == timeID {
		return false
	}

	if res, ok := memo[t]; ok {
		return res
	}

	// Pre-cache to handle recursive embedding
	memo[t] = false

	for i := range t.Fields {
		f := &t.Fields[i]

		_, attr := f.TagName(AttrTag)
		_, rel := f.TagName(RelTag)

		if attr || rel || (f.Embedded && isModel(deref(f.Type), memo)) {
			memo[t] = true
			return true
		}
	}

	return false
}

func modelDef(t *TypeInfo, memo map[*TypeInfo]bool) (record.ModelDef, error) {
	def := record.ModelDef{Name: t.ID.Name}

	for i := range t.Fields {
		f := &t.Fields[i]
		path := t.ID.Name + "." + f.Name

		if base := deref(f.Type); f.Embedded && isModel(base, memo) {
			if def.Base != "" {
				return def, fmt.Errorf("%w %s: embeds both %s and %s", ErrInvalidModel, path, def.Base, base.ID.Name)
			}

			def.Base = base.ID.Name
			def.Discriminator = f.Tag.Get(DiscriminatorTag)

			continue
		}

		if name, ok := f.TagName(AttrTag); ok {
			def.Columns = append(def.Columns, record.Column{Name: name, Type: columnType(f.Type)})
			continue
		}

		if name, ok := f.TagName(RelTag); ok {
			rel, err := relationDef(name, path, f)
			if err != nil {
				return def, err
			}

			def.Relations = append(def.Relations, rel)
		}
	}

	return def, nil
}

func relationDef(name, path string, f *FieldInfo) (record.RelationDef, error) {
	elem := deref(f.Type)
	many := false

	if elem != nil && (elem.Kind == TypeKindSlice || elem.Kind == TypeKindArray) {
		many = true
		elem = deref(elem.ElemType)
	}

	if elem == nil || elem.Kind != TypeKindStruct || !elem.IsNamed() {
		return record.RelationDef{}, fmt.Errorf("%w %s: target must be a named struct, got %s",
			ErrInvalidRelation, path, TypeString(f.Type))
	}

	return record.RelationDef{
		Name:             name,
		Target:           elem.ID.Name,
		Many:             many,
		NestedAttributes: f.TagOption(RelTag, NestedOption),
	}, nil
}

// columnType maps a Go field type to a column type. Types without a
// primitive column type are stored as json.
func columnType(t *TypeInfo) record.ColumnType {
	if t == nil {
		return record.ColumnJSON
	}

	if t.ID == timeID {
		return record.ColumnDatetime
	}

	switch t.Kind {
	case TypeKindPointer:
		return columnType(t.ElemType)
	case TypeKindAlias:
		return columnType(t.Underlying)
	case TypeKindBasic:
		b, ok := t.GoType.(*types.Basic)
		if !ok {
			return record.ColumnJSON
		}

		info := b.Info()

		switch {
		case info&types.IsBoolean != 0:
			return record.ColumnBoolean
		case info&types.IsInteger != 0:
			return record.ColumnInteger
		case info&types.IsFloat != 0:
			return record.ColumnFloat
		case info&types.IsString != 0:
			return record.ColumnString
		}
	}

	return record.ColumnJSON
}

func deref(t *TypeInfo) *TypeInfo {
	if t != nil && t.Kind == TypeKindPointer {
		return t.ElemType
	}

	return t
}
