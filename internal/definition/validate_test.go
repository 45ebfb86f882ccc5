package definition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attrmap/internal/diagnostic"
	"attrmap/internal/record"
)

func fixtureModels(t *testing.T) *record.Models {
	t.Helper()

	models, err := loadFixture(t).Models()
	require.NoError(t, err)

	return models
}

func TestModels(t *testing.T) {
	models := fixtureModels(t)

	assert.ElementsMatch(t, []string{"Post", "Article", "Comment", "Author", "Attachment", "Image"}, models.Names())

	article, ok := models.Model("Article")
	require.True(t, ok)
	assert.Equal(t, "Post", article.Base())

	_, ok = article.Column("title")
	assert.True(t, ok, "inherited column")

	image, _ := models.Model("Image")
	assert.Equal(t, "image", image.Discriminator())

	post, _ := models.Model("Post")
	assert.True(t, post.AcceptsNestedAttributes("comments"))
	assert.False(t, post.AcceptsNestedAttributes("attachments"))
}

func TestModels_Errors(t *testing.T) {
	_, err := (&File{}).Models()
	assert.ErrorIs(t, err, ErrNoModels)

	f, err := Parse([]byte(`
models:
  - name: Post
    base: Entry
    columns: {title: text}
`))
	require.NoError(t, err)

	_, err = f.Models()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model Post")

	f, err = Parse([]byte(`
models:
  - name: Post
    base: Entry
    columns: {title: string}
`))
	require.NoError(t, err)

	_, err = f.Models()
	assert.ErrorIs(t, err, record.ErrUnknownType)
}

func TestValidate_Fixture(t *testing.T) {
	res := Validate(loadFixture(t), fixtureModels(t))

	assert.True(t, res.IsValid(), res.Error())
	require.Len(t, res.Warnings, 0)
}

func TestValidate_Nil(t *testing.T) {
	res := Validate(nil, fixtureModels(t))
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "definition_is_nil", res.Errors[0].Code)

	res = Validate(&File{Version: "1"}, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "catalog_is_nil", res.Errors[0].Code)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		code        string
		subject     string
		path        string
		suggestions []string
	}{
		{
			name:    "version",
			yaml:    "version: \"2\"\nmaps: []\n",
			code:    "unsupported_version",
			subject: "",
		},
		{
			name:        "unknown type",
			yaml:        "maps:\n  - type: Posts\n    fields: [title]\n",
			code:        "unknown_type",
			subject:     "Posts#default",
			suggestions: []string{"Post"},
		},
		{
			name:    "missing type",
			yaml:    "maps:\n  - fields: [title]\n",
			code:    "missing_type",
			subject: "",
		},
		{
			name:        "unknown field option",
			yaml:        "maps:\n  - type: Post\n    fields:\n      title: {acess_mode: ro}\n",
			code:        "unknown_option",
			subject:     "Post#default",
			path:        "title",
			suggestions: []string{"access_mode"},
		},
		{
			name:    "invalid access",
			yaml:    "maps:\n  - type: Post\n    fields:\n      title: sometimes\n",
			code:    "invalid_access",
			subject: "Post#default",
			path:    "title",
		},
		{
			name:    "invalid optional group",
			yaml:    "maps:\n  - type: Post\n    fields:\n      title: {optional_group: 3}\n",
			code:    "invalid_option",
			subject: "Post#default",
			path:    "title",
		},
		{
			name:    "field with block",
			yaml:    "maps:\n  - type: Post\n    fields:\n      title: {fields: [x]}\n",
			code:    "unexpected_block",
			subject: "Post#default",
			path:    "title",
		},
		{
			name:    "duplicate name",
			yaml:    "maps:\n  - type: Post\n    fields: [comments]\n    relations:\n      comments: {}\n",
			code:    "duplicate_name",
			subject: "Post#default",
			path:    "comments",
		},
		{
			name:    "unknown relation",
			yaml:    "maps:\n  - type: Post\n    relations:\n      likes: {}\n",
			code:    "unknown_relation",
			subject: "Post#default",
			path:    "likes",
		},
		{
			name:    "invalid override",
			yaml:    "maps:\n  - type: Post\n    relations:\n      comments: {override_mode: append}\n",
			code:    "invalid_option",
			subject: "Post#default",
			path:    "comments",
		},
		{
			name:        "nested relation option",
			yaml:        "maps:\n  - type: Post\n    relations:\n      comments:\n        relations:\n          post: {polymorfic: true}\n",
			code:        "unknown_option",
			subject:     "Post#default",
			path:        "comments.post",
			suggestions: []string{"polymorphic"},
		},
		{
			name:    "nested unknown relation",
			yaml:    "maps:\n  - type: Post\n    relations:\n      comments:\n        relations:\n          author: {}\n",
			code:    "unknown_relation",
			subject: "Post#default",
			path:    "comments.author",
		},
	}

	models := fixtureModels(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			res := Validate(f, models)
			require.Len(t, res.Errors, 1, "%v", res.Errors)

			d := res.Errors[0]
			assert.Equal(t, tt.code, d.Code)
			assert.Equal(t, tt.subject, d.Subject)
			assert.Equal(t, tt.path, d.Path)
			assert.Equal(t, diagnostic.DiagnosticError, d.Severity)

			if tt.suggestions != nil {
				assert.Equal(t, tt.suggestions, d.Suggestions)
			}
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	f, err := Parse([]byte(`
maps:
  - type: Post
    fields: [title]
  - type: Post
    fields: [id]
  - type: Article
    replace: true
`))
	require.NoError(t, err)

	res := Validate(f, fixtureModels(t))
	assert.True(t, res.IsValid())
	require.Len(t, res.Warnings, 2)
	assert.Equal(t, "duplicate_map", res.Warnings[0].Code)
	assert.Equal(t, "empty_replace", res.Warnings[1].Code)
	assert.Equal(t, "Article#default", res.Warnings[1].Subject)
}
