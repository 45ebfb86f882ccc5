package analyze

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogPkg = "attrmap/blog"

func loadBlog(t *testing.T) *TypeGraph {
	t.Helper()

	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages(blogPkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func findField(t *testing.T, info *TypeInfo, name string) *FieldInfo {
	t.Helper()

	for i := range info.Fields {
		if info.Fields[i].Name == name {
			return &info.Fields[i]
		}
	}

	require.Failf(t, "field not found", "%s has no field %s", info.ID, name)

	return nil
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadBlog(t)

	assert.Contains(t, graph.Packages, blogPkg)
	assert.Contains(t, graph.Types, TypeID{PkgPath: blogPkg, Name: "Post"})
	assert.Contains(t, graph.Types, TypeID{PkgPath: blogPkg, Name: "Image"})
}

func TestAnalyzer_PostFields(t *testing.T) {
	graph := loadBlog(t)

	post := graph.GetType(TypeID{PkgPath: blogPkg, Name: "Post"})
	require.NotNil(t, post)
	assert.Equal(t, TypeKindStruct, post.Kind)

	fieldNames := make(map[string]bool)
	for _, f := range post.Fields {
		fieldNames[f.Name] = true
	}

	for _, name := range []string{"ID", "Title", "Body", "Status", "CreatedAt", "Comments", "Author", "Attachments"} {
		assert.True(t, fieldNames[name], "Post should have %s field", name)
	}

	assert.False(t, fieldNames["draft"], "unexported fields are skipped")
}

func TestAnalyzer_SliceField(t *testing.T) {
	graph := loadBlog(t)

	post := graph.GetType(TypeID{PkgPath: blogPkg, Name: "Post"})
	require.NotNil(t, post)

	comments := findField(t, post, "Comments")
	assert.Equal(t, TypeKindSlice, comments.Type.Kind)
	require.NotNil(t, comments.Type.ElemType)
	assert.Equal(t, TypeKindStruct, comments.Type.ElemType.Kind)
	assert.Equal(t, "Comment", comments.Type.ElemType.ID.Name)
}

func TestAnalyzer_PointerField(t *testing.T) {
	graph := loadBlog(t)

	post := graph.GetType(TypeID{PkgPath: blogPkg, Name: "Post"})
	require.NotNil(t, post)

	author := findField(t, post, "Author")
	assert.Equal(t, TypeKindPointer, author.Type.Kind)
	require.NotNil(t, author.Type.ElemType)
	assert.Equal(t, TypeKindStruct, author.Type.ElemType.Kind)
}

func TestAnalyzer_RecursiveTypes(t *testing.T) {
	graph := loadBlog(t)

	comment := graph.GetType(TypeID{PkgPath: blogPkg, Name: "Comment"})
	require.NotNil(t, comment)

	post := findField(t, comment, "Post")
	assert.Same(t, graph.GetType(TypeID{PkgPath: blogPkg, Name: "Post"}), post.Type.ElemType)
}

func TestAnalyzer_EmbeddedField(t *testing.T) {
	graph := loadBlog(t)

	image := graph.GetType(TypeID{PkgPath: blogPkg, Name: "Image"})
	require.NotNil(t, image)

	base := findField(t, image, "Attachment")
	assert.True(t, base.Embedded)
	assert.Equal(t, "image", base.Tag.Get(DiscriminatorTag))
}

func TestAnalyzer_TypeAlias(t *testing.T) {
	graph := loadBlog(t)

	status := graph.GetType(TypeID{PkgPath: blogPkg, Name: "Status"})
	require.NotNil(t, status)

	assert.Equal(t, TypeKindAlias, status.Kind)
	require.NotNil(t, status.Underlying)
	assert.Equal(t, TypeKindBasic, status.Underlying.Kind)
}

func TestAnalyzer_ExternalType(t *testing.T) {
	graph := loadBlog(t)

	post := graph.GetType(TypeID{PkgPath: blogPkg, Name: "Post"})
	require.NotNil(t, post)

	createdAt := findField(t, post, "CreatedAt")
	assert.Equal(t, TypeKindExternal, createdAt.Type.Kind)
	assert.Equal(t, timeID, createdAt.Type.ID)
	assert.Empty(t, createdAt.Type.Fields)

	assert.NotContains(t, graph.Packages, "time")
}

func TestAnalyzer_UnknownKinds(t *testing.T) {
	graph := loadBlog(t)

	attachment := graph.GetType(TypeID{PkgPath: blogPkg, Name: "Attachment"})
	require.NotNil(t, attachment)

	meta := findField(t, attachment, "Meta")
	assert.Equal(t, TypeKindUnknown, meta.Type.Kind)
}

func TestAnalyzer_LoadErrors(t *testing.T) {
	_, err := NewAnalyzer().LoadPackages("attrmap/blog/missing")
	require.Error(t, err)
}

func TestTypeID_String(t *testing.T) {
	id := TypeID{PkgPath: blogPkg, Name: "Post"}
	assert.Equal(t, "attrmap/blog.Post", id.String())

	// Empty package path
	idNoPkg := TypeID{Name: "int"}
	assert.Equal(t, "int", idNoPkg.String())
}

func TestTypeKind_String(t *testing.T) {
	assert.Equal(t, "basic", TypeKindBasic.String())
	assert.Equal(t, "struct", TypeKindStruct.String())
	assert.Equal(t, "pointer", TypeKindPointer.String())
	assert.Equal(t, "slice", TypeKindSlice.String())
	assert.Equal(t, "array", TypeKindArray.String())
	assert.Equal(t, "alias", TypeKindAlias.String())
	assert.Equal(t, "external", TypeKindExternal.String())
	assert.Equal(t, "unknown", TypeKindUnknown.String())
}

func TestFieldInfo_TagName(t *testing.T) {
	// Explicit name
	f1 := FieldInfo{Name: "CreatedAt", Tag: `attr:"created"`}
	name, ok := f1.TagName(AttrTag)
	assert.True(t, ok)
	assert.Equal(t, "created", name)

	// Empty name part falls back to snake_case
	f2 := FieldInfo{Name: "CreatedAt", Tag: `attr:",json"`}
	name, ok = f2.TagName(AttrTag)
	assert.True(t, ok)
	assert.Equal(t, "created_at", name)

	// No tag
	f3 := FieldInfo{Name: "CreatedAt"}
	_, ok = f3.TagName(AttrTag)
	assert.False(t, ok)

	// Skipped
	f4 := FieldInfo{Name: "CreatedAt", Tag: `attr:"-"`}
	_, ok = f4.TagName(AttrTag)
	assert.False(t, ok)
}

func TestFieldInfo_TagOption(t *testing.T) {
	f := FieldInfo{Name: "Comments", Tag: `rel:"comments, nested"`}
	assert.True(t, f.TagOption(RelTag, NestedOption))
	assert.False(t, f.TagOption(RelTag, "comments"))
	assert.False(t, f.TagOption(AttrTag, NestedOption))
}

func TestTypeString(t *testing.T) {
	str := &TypeInfo{Kind: TypeKindBasic, GoType: types.Typ[types.String]}
	post := &TypeInfo{ID: TypeID{PkgPath: blogPkg, Name: "Post"}, Kind: TypeKindStruct}

	assert.Equal(t, "string", TypeString(str))
	assert.Equal(t, "[]*Post", TypeString(&TypeInfo{
		Kind:     TypeKindSlice,
		ElemType: &TypeInfo{Kind: TypeKindPointer, ElemType: post},
	}))
	assert.Equal(t, "struct{...}", TypeString(&TypeInfo{Kind: TypeKindStruct}))
	assert.Equal(t, "<nil>", TypeString(nil))
}
