package attrmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attrmap/internal/record"
)

func TestSchema_Modes(t *testing.T) {
	set := NewSet(blogModels(t))
	post := declareBlog(t, set)

	comments := map[string]any{
		"optional":  true,
		"many":      true,
		"target":    "Comment",
		"fields":    map[string]any{"id": "integer", "body": "string"},
		"relations": map[string]any{},
	}

	tests := []struct {
		mode SchemaMode
		want map[string]any
	}{
		{
			mode: SchemaRead,
			want: map[string]any{
				"fields": map[string]any{
					"title":      "string",
					"created_at": map[string]any{"type": "datetime", "access": "ro"},
				},
				"relations": map[string]any{"comments": comments},
			},
		},
		{
			mode: SchemaWrite,
			want: map[string]any{
				"fields":    map[string]any{"title": "string"},
				"relations": map[string]any{"comments": comments},
			},
		},
		{
			mode: SchemaBoth,
			want: map[string]any{
				"fields": map[string]any{
					"title":      "string",
					"created_at": map[string]any{"type": "datetime", "access": "ro"},
				},
				"relations": map[string]any{"comments": comments},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			h, err := post.Schema(tt.mode, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.ToMap())
		})
	}

	h, err := post.Schema(SchemaRead, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"fields", "relations"}, h.Keys())

	fields, _ := h.Get("fields")
	assert.Equal(t, []string{"title", "created_at"}, fields.(*Hash).Keys())
}

func TestSchema_FieldEntries(t *testing.T) {
	set := NewSet(blogModels(t))

	post := define(t, set, "Post", func(m *Map) error {
		return errors.Join(
			m.DeclareField("type", Options{OptInternalName: DiscriminatorField, OptAccessMode: "ro"}),
			m.DeclareField("secret", Options{OptAccessMode: "wo"}),
			m.DeclareField("id", Options{OptOptionalGroup: "ids"}),
			m.DeclareField("label", Options{OptReadFn: "title", OptWriteFn: "secret"}),
			m.DeclareField("shout", Options{OptAccessMode: "ro", OptReadFn: ReadFunc(func(record.Record) (any, error) { return "", nil })}),
		)
	})

	h, err := post.Schema(SchemaBoth, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"type":   map[string]any{"type": "string", "access": "ro"},
		"secret": map[string]any{"type": "string", "access": "wo"},
		"id":     map[string]any{"type": "integer", "optional": "ids"},
		"label":  "string",
		"shout":  map[string]any{"type": "any", "access": "ro"},
	}, h.ToMap()["fields"])

	h, err = post.Schema(SchemaRead, nil)
	require.NoError(t, err)

	fields, _ := h.Get("fields")
	assert.Equal(t, []string{"type", "id", "label", "shout"}, fields.(*Hash).Keys())
}

func TestSchema_Cycles(t *testing.T) {
	set := NewSet(blogModels(t))

	post := define(t, set, "Post", func(m *Map) error {
		return errors.Join(
			m.DeclareField("title", nil),
			m.DeclareRelation("comments", nil, nil),
		)
	})

	define(t, set, "Comment", func(m *Map) error {
		return errors.Join(
			m.DeclareField("body", nil),
			m.DeclareRelation("post", Options{OptAccessMode: "ro"}, nil),
		)
	})

	h, err := post.Schema(SchemaBoth, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"fields": map[string]any{"title": "string"},
		"relations": map[string]any{
			"comments": map[string]any{
				"many":   true,
				"target": "Comment",
				"fields": map[string]any{"body": "string"},
				"relations": map[string]any{
					"post": map[string]any{"access": "ro", "many": false, "target": "Post"},
				},
			},
		},
	}, h.ToMap())

	visited := map[string]bool{"Comment": true}

	h, err = post.Schema(SchemaBoth, visited)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"many": true, "target": "Comment"}, h.ToMap()["relations"].(map[string]any)["comments"])
	assert.Equal(t, map[string]bool{"Comment": true}, visited)
}

func TestSchema_SiblingsExpandIndependently(t *testing.T) {
	set := NewSet(blogModels(t))

	post := define(t, set, "Post", func(m *Map) error {
		return errors.Join(
			m.DeclareRelation("comments", nil, nil),
			m.DeclareRelation("remarks", Options{OptInternalName: "comments", OptAccessMode: "ro"}, nil),
		)
	})
	define(t, set, "Comment", func(m *Map) error { return m.DeclareField("body", nil) })

	h, err := post.Schema(SchemaRead, nil)
	require.NoError(t, err)

	relations := h.ToMap()["relations"].(map[string]any)
	assert.Equal(t, map[string]any{"body": "string"}, relations["comments"].(map[string]any)["fields"])
	assert.Equal(t, map[string]any{"body": "string"}, relations["remarks"].(map[string]any)["fields"])
}

func TestSchema_Polymorphic(t *testing.T) {
	set := NewSet(blogModels(t))

	post := define(t, set, "Post", func(m *Map) error {
		return m.DeclareRelation("attachments", Options{OptAccessMode: "ro", OptPolymorphic: true, OptOptionalGroup: "media"}, nil)
	})

	h, err := post.Schema(SchemaRead, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"optional":    "media",
		"access":      "ro",
		"many":        true,
		"target":      "Attachment",
		"polymorphic": true,
	}, h.ToMap()["relations"].(map[string]any)["attachments"])

	h, err = post.Schema(SchemaWrite, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, h.ToMap()["relations"])
}

func TestSchema_Unresolvable(t *testing.T) {
	set := NewSet(blogModels(t))

	post := define(t, set, "Post", func(m *Map) error {
		return m.DeclareRelation("author", nil, nil)
	})

	_, err := post.Schema(SchemaRead, nil)
	assert.ErrorIs(t, err, ErrResolution)
}

func TestParseSchemaMode(t *testing.T) {
	for in, want := range map[string]SchemaMode{"read": SchemaRead, "W": SchemaWrite, "": SchemaBoth, "both": SchemaBoth} {
		got, err := ParseSchemaMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSchemaMode("sideways")
	assert.Error(t, err)
}
