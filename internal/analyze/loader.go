package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"
)

// LoadMode is the package information ModelDefs needs: names and types.
const LoadMode = packages.NeedName | packages.NeedTypes | packages.NeedImports

// Analyzer loads Go packages into a TypeGraph.
type Analyzer struct {
	graph *TypeGraph
	// seen holds every type met so far; recursive record types such as
	// Post -> Comment -> Post resolve to the same TypeInfo.
	seen map[types.Type]*TypeInfo
}

// NewAnalyzer creates an Analyzer with an empty graph.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph: NewTypeGraph(),
		seen:  make(map[types.Type]*TypeInfo),
	}
}

// LoadPackages loads the packages matching patterns (e.g. "./blog",
// "attrmap/blog") and adds their exported named types to the graph.
// Types of packages outside patterns are kept opaque.
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	pkgs, err := packages.Load(&packages.Config{Mode: LoadMode}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	})

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	for _, pkg := range pkgs {
		a.graph.Packages[pkg.PkgPath] = &PackageInfo{Path: pkg.PkgPath, Name: pkg.Name}
	}

	for _, pkg := range pkgs {
		a.collect(pkg)
	}

	return a.graph, nil
}

// collect adds the exported named types declared in pkg.
func (a *Analyzer) collect(pkg *packages.Package) {
	info := a.graph.Packages[pkg.PkgPath]
	scope := pkg.Types.Scope()

	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !tn.Exported() || tn.IsAlias() {
			continue
		}

		t := a.typeOf(tn.Type())
		a.graph.Types[t.ID] = t
		info.Types = append(info.Types, t.ID)
	}
}

func (a *Analyzer) typeOf(t types.Type) *TypeInfo {
	t = types.Unalias(t)

	if info, ok := a.seen[t]; ok {
		return info
	}

	info := &TypeInfo{GoType: t}
	a.seen[t] = info

	switch tt := t.(type) {
	case *types.Named:
		a.named(tt, info)
	case *types.Basic:
		info.Kind = TypeKindBasic
	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = a.typeOf(tt.Elem())
	case *types.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = a.typeOf(tt.Elem())
	case *types.Array:
		info.Kind = TypeKindArray
		info.ElemType = a.typeOf(tt.Elem())
	case *types.Struct:
		info.Kind = TypeKindStruct
		info.Fields = a.fields(tt)
	default:
		// maps, interfaces and the like end up as json columns
		info.Kind = TypeKindUnknown
	}

	return info
}

func (a *Analyzer) named(n *types.Named, info *TypeInfo) {
	obj := n.Obj()

	var pkgPath string
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}

	info.ID = TypeID{PkgPath: pkgPath, Name: obj.Name()}

	if _, loaded := a.graph.Packages[pkgPath]; !loaded {
		info.Kind = TypeKindExternal
		return
	}

	if st, ok := n.Underlying().(*types.Struct); ok {
		info.Kind = TypeKindStruct
		info.Fields = a.fields(st)

		return
	}

	// type Status string and friends
	info.Kind = TypeKindAlias
	info.Underlying = a.typeOf(n.Underlying())
}

// fields returns the exported fields of st; unexported fields never hold
// record attributes.
func (a *Analyzer) fields(st *types.Struct) []FieldInfo {
	var out []FieldInfo

	for i := range st.NumFields() {
		v := st.Field(i)
		if !v.Exported() {
			continue
		}

		out = append(out, FieldInfo{
			Name:     v.Name(),
			Type:     a.typeOf(v.Type()),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: v.Embedded(),
		})
	}

	return out
}
