package attrmap

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"attrmap/internal/record"
)

var createdAt = time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)

func col(name string, ct record.ColumnType) record.Column {
	return record.Column{Name: name, Type: ct}
}

// blogModels declares the record types used across the tests.
func blogModels(t *testing.T) *record.Models {
	t.Helper()

	defs := []record.ModelDef{
		{
			Name: "Post",
			Columns: []record.Column{
				col("id", record.ColumnInteger),
				col("title", record.ColumnString),
				col("created_at", record.ColumnDatetime),
				col("secret", record.ColumnString),
			},
			Relations: []record.RelationDef{
				{Name: "comments", Target: "Comment", Many: true, NestedAttributes: true},
				{Name: "author", Target: "Author", NestedAttributes: true},
				{Name: "attachments", Target: "Attachment", Many: true},
			},
		},
		{
			Name:    "Article",
			Base:    "Post",
			Columns: []record.Column{col("summary", record.ColumnString)},
		},
		{
			Name: "Comment",
			Columns: []record.Column{
				col("id", record.ColumnInteger),
				col("body", record.ColumnString),
			},
			Relations: []record.RelationDef{
				{Name: "post", Target: "Post"},
			},
		},
		{
			Name:    "Author",
			Columns: []record.Column{col("name", record.ColumnString)},
		},
		{
			Name:    "Attachment",
			Columns: []record.Column{col("url", record.ColumnString)},
		},
		{
			Name:          "Image",
			Base:          "Attachment",
			Discriminator: "image",
			Columns:       []record.Column{col("width", record.ColumnInteger)},
		},
		{
			Name:          "Video",
			Base:          "Attachment",
			Discriminator: "video",
			Columns:       []record.Column{col("duration", record.ColumnFloat)},
		},
	}

	models := record.NewModels()

	for _, def := range defs {
		_, err := models.Define(def)
		require.NoError(t, err)
	}

	require.NoError(t, models.Validate())

	return models
}

func define(t *testing.T, set *Set, typeName string, block func(m *Map) error) *Map {
	t.Helper()

	m, err := set.Define(typeName, DefaultMapName, MapOptions{}, block)
	require.NoError(t, err)

	return m
}

// declareBlog declares the Post/Comment scenario maps: Post exposes title,
// created_at (read-only) and optional comments; Comment exposes id and body.
func declareBlog(t *testing.T, set *Set) *Map {
	t.Helper()

	post := define(t, set, "Post", func(m *Map) error {
		return errors.Join(
			m.DeclareField("title", nil),
			m.DeclareField("created_at", Options{OptAccessMode: "ro"}),
			m.DeclareRelation("comments", Options{OptOptionalGroup: true}, nil),
		)
	})

	define(t, set, "Comment", func(m *Map) error {
		return m.DeclareFields("id", "body")
	})

	return post
}

func newRecord(t *testing.T, models *record.Models, typeName string, values map[string]any) *record.Instance {
	t.Helper()

	m, ok := models.Model(typeName)
	require.True(t, ok, typeName)

	rec := m.New()
	for k, v := range values {
		require.NoError(t, rec.Set(k, v))
	}

	return rec
}

func blogPost(t *testing.T, models *record.Models) *record.Instance {
	t.Helper()

	post := newRecord(t, models, "Post", map[string]any{"id": 1, "title": "T", "created_at": createdAt})
	c1 := newRecord(t, models, "Comment", map[string]any{"id": 10, "body": "first"})
	c2 := newRecord(t, models, "Comment", map[string]any{"id": 11, "body": "second"})

	require.NoError(t, post.SetRelated("comments", []record.Record{c1, c2}))

	return post
}

// linkComments points every comment of post back at it.
func linkComments(t *testing.T, post *record.Instance) *record.Instance {
	t.Helper()

	members, err := post.Related("comments")
	require.NoError(t, err)

	for _, c := range members.([]record.Record) {
		require.NoError(t, c.(*record.Instance).SetRelated("post", post))
	}

	return post
}
