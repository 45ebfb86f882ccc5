package attrmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attrmap/internal/record"
)

func requireConfigError(t *testing.T, err error, code ErrorCode) *ConfigurationError {
	t.Helper()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)

	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr), "expected *ConfigurationError, got %T: %v", err, err)
	assert.Equal(t, code, cerr.Code, cerr.Error())

	return cerr
}

func TestDeclareField_Errors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		opts  Options
		code  ErrorCode
	}{
		{
			name:  "unknown option",
			field: "title",
			opts:  Options{"interal_name": "title"},
			code:  CodeUnknownOption,
		},
		{
			name:  "invalid access",
			field: "title",
			opts:  Options{OptAccessMode: "sometimes"},
			code:  CodeInvalidAccess,
		},
		{
			name:  "writer on read-only",
			field: "title",
			opts:  Options{OptAccessMode: "ro", OptWriteFn: "title"},
			code:  CodeWriterOnReadOnly,
		},
		{
			name:  "unknown column",
			field: "headline",
			opts:  nil,
			code:  CodeUnknownField,
		},
		{
			name:  "bad internal name",
			field: "title",
			opts:  Options{OptInternalName: 42},
			code:  CodeInvalidOption,
		},
		{
			name:  "bad optional group",
			field: "title",
			opts:  Options{OptOptionalGroup: 1.5},
			code:  CodeInvalidOption,
		},
		{
			name:  "bad read_fn",
			field: "title",
			opts:  Options{OptReadFn: 3},
			code:  CodeInvalidOption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewSet(blogModels(t))

			_, err := set.Define("Post", "", MapOptions{}, func(m *Map) error {
				return m.DeclareField(tt.field, tt.opts)
			})

			cerr := requireConfigError(t, err, tt.code)
			assert.Equal(t, "Post", cerr.Type)
			assert.Equal(t, DefaultMapName, cerr.Map)
			assert.Equal(t, tt.field, cerr.Name)
		})
	}
}

func TestDeclareField_UnknownOptionSuggestion(t *testing.T) {
	set := NewSet(blogModels(t))
	m := define(t, set, "Post", nil)

	err := m.DeclareField("title", Options{"acces_mode": "ro"})
	cerr := requireConfigError(t, err, CodeUnknownOption)

	assert.Equal(t, []string{OptAccessMode}, cerr.Suggestions)
	assert.Contains(t, err.Error(), `did you mean "access_mode"?`)
	assert.Contains(t, err.Error(), "[Post#default] title")
}

func TestDeclareField_ExcludedRemovesPrior(t *testing.T) {
	set := NewSet(blogModels(t))

	m := define(t, set, "Post", func(m *Map) error {
		return errors.Join(
			m.DeclareFields("title", "created_at"),
			m.DeclareField("title", Options{OptAccessMode: "excluded"}),
		)
	})

	_, ok := m.Field("title")
	assert.False(t, ok)
	assert.Equal(t, []string{"title"}, m.Excluded())
	assert.Equal(t, map[string]string{"created_at": "created_at"}, m.WriteIndex())

	// declaring again clears the marker
	require.NoError(t, m.DeclareField("title", nil))
	assert.Empty(t, m.Excluded())
}

func TestDeclareField_Options(t *testing.T) {
	set := NewSet(blogModels(t))

	reader := func(rec record.Record) (any, error) { return "computed", nil }
	writer := WriteFunc(func(rec record.Record, value any) error { return nil })

	m := define(t, set, "Post", func(m *Map) error {
		return errors.Join(
			m.DeclareField("name", Options{OptInternalName: "title"}),
			m.DeclareField("when", Options{OptInternalName: "created_at", OptAccessMode: "ro", OptOptionalGroup: "timestamps"}),
			m.DeclareField("computed", Options{OptReadFn: reader, OptAccessMode: ReadOnly}),
			m.DeclareField("headline", Options{OptWriteFn: writer, OptAccessMode: "wo"}),
			m.DeclareField("label", Options{OptReadFn: "title", OptWriteFn: "secret"}),
		)
	})

	name, ok := m.Field("name")
	require.True(t, ok)
	assert.Equal(t, "title", name.Internal)
	assert.Equal(t, ReadWrite, name.Access)

	when, _ := m.Field("when")
	assert.Equal(t, Optional{Enabled: true, Group: "timestamps"}, when.Optional)
	assert.Equal(t, ReadOnly, when.Access)

	computed, _ := m.Field("computed")
	assert.True(t, computed.HasReader())
	assert.Equal(t, "default#computed", computed.Binding())

	_, ok = m.Bindings().Reader("default#computed")
	assert.True(t, ok)

	_, ok = m.Bindings().Writer("default#headline")
	assert.True(t, ok)
	assert.Equal(t, []string{"default#computed", "default#headline"}, m.Bindings().Names())

	assert.Equal(t, map[string]string{
		"name":     "title",
		"headline": "default#headline",
		"label":    "secret",
	}, m.WriteIndex())
}

func TestDeclareRelation_Errors(t *testing.T) {
	tests := []struct {
		name     string
		typeName string
		relation string
		opts     Options
		block    func(*Map) error
		code     ErrorCode
	}{
		{
			name:     "unknown option",
			typeName: "Post",
			relation: "comments",
			opts:     Options{"override": "merge"},
			code:     CodeUnknownOption,
		},
		{
			name:     "undefined relation",
			typeName: "Post",
			relation: "likes",
			code:     CodeUnknownRelation,
		},
		{
			name:     "missing nested assignment",
			typeName: "Post",
			relation: "attachments",
			code:     CodeMissingCapability,
		},
		{
			name:     "empty replace",
			typeName: "Post",
			relation: "comments",
			opts:     Options{OptOverrideMode: "replace"},
			block:    func(*Map) error { return nil },
			code:     CodeEmptyReplace,
		},
		{
			name:     "replace without block",
			typeName: "Post",
			relation: "comments",
			opts:     Options{OptOverrideMode: "replace"},
			code:     CodeEmptyReplace,
		},
		{
			name:     "polymorphic with block",
			typeName: "Post",
			relation: "attachments",
			opts:     Options{OptPolymorphic: true, OptAccessMode: "ro"},
			block:    func(m *Map) error { return m.DeclareField("url", nil) },
			code:     CodePolymorphicOverride,
		},
		{
			name:     "polymorphic with replace",
			typeName: "Post",
			relation: "attachments",
			opts:     Options{OptPolymorphic: true, OptAccessMode: "ro", OptOverrideMode: "replace"},
			code:     CodePolymorphicOverride,
		},
		{
			name:     "invalid override",
			typeName: "Post",
			relation: "comments",
			opts:     Options{OptOverrideMode: "append"},
			code:     CodeInvalidOption,
		},
		{
			name:     "nested declaration error",
			typeName: "Post",
			relation: "comments",
			block:    func(m *Map) error { return m.DeclareField("nope", nil) },
			code:     CodeUnknownField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewSet(blogModels(t))

			_, err := set.Define(tt.typeName, "", MapOptions{}, func(m *Map) error {
				return m.DeclareRelation(tt.relation, tt.opts, tt.block)
			})

			requireConfigError(t, err, tt.code)
		})
	}
}

func TestDeclareRelation_MissingCapabilityNamesKey(t *testing.T) {
	set := NewSet(blogModels(t))
	m := define(t, set, "Comment", nil)

	err := m.DeclareRelation("post", nil, nil)
	requireConfigError(t, err, CodeMissingCapability)
	assert.Contains(t, err.Error(), "post_attributes")

	require.NoError(t, m.DeclareRelation("post", Options{OptAccessMode: "ro"}, nil))
}

func TestDeclareRelation_Nested(t *testing.T) {
	set := NewSet(blogModels(t))

	m := define(t, set, "Post", func(m *Map) error {
		return m.DeclareRelation("remarks", Options{OptInternalName: "comments", OptOverrideMode: "replace"}, func(n *Map) error {
			return n.DeclareField("body", nil)
		})
	})

	rel, ok := m.Relation("remarks")
	require.True(t, ok)
	assert.Equal(t, "comments", rel.Internal)
	assert.Equal(t, "Comment", rel.Target)
	assert.True(t, rel.Many)
	assert.Equal(t, Replace, rel.Override)
	assert.Equal(t, "comments_attributes", rel.AttributesKey())

	require.NotNil(t, rel.Declared())
	assert.Equal(t, "Comment", rel.Declared().TypeName())
	assert.Equal(t, DefaultMapName, rel.Declared().Name())
	assert.Nil(t, rel.Nested())

	// an externally supplied map is reused as is
	shared := define(t, set, "Comment", func(n *Map) error { return n.DeclareField("id", nil) })
	require.NoError(t, m.DeclareRelationMap("comments", Options{OptOverrideMode: "replace"}, shared, nil))

	rel, _ = m.Relation("comments")
	assert.Same(t, shared, rel.Declared())
}

func TestDeclare_DuplicateNames(t *testing.T) {
	set := NewSet(blogModels(t))

	m := define(t, set, "Post", func(m *Map) error {
		return m.DeclareRelation("comments", nil, nil)
	})

	requireConfigError(t, m.DeclareField("comments", Options{OptInternalName: "title"}), CodeDuplicateName)

	require.NoError(t, m.DeclareField("title", nil))
	requireConfigError(t, m.DeclareRelation("title", Options{OptInternalName: "comments"}, nil), CodeDuplicateName)
}

func TestSet_DefineAndSeal(t *testing.T) {
	set := NewSet(blogModels(t))

	_, err := set.Define("Nope", "", MapOptions{}, nil)
	requireConfigError(t, err, CodeUnknownType)

	m := define(t, set, "Post", func(m *Map) error { return m.DeclareField("title", nil) })

	again, err := set.Define("Post", DefaultMapName, MapOptions{}, func(m *Map) error {
		return m.DeclareField("created_at", nil)
	})
	require.NoError(t, err)
	assert.Same(t, m, again)
	assert.Len(t, m.Fields(), 2)

	set.Seal()
	assert.True(t, set.Sealed())

	_, err = set.Define("Post", "other", MapOptions{}, nil)
	assert.ErrorIs(t, err, ErrSealed)
	assert.ErrorIs(t, m.DeclareField("secret", nil), ErrSealed)
	assert.ErrorIs(t, m.DeclareRelation("comments", nil, nil), ErrSealed)

	got, err := set.Map("Post", "")
	require.NoError(t, err)
	assert.Same(t, m, got)

	_, err = set.Map("Post", "missing")
	assert.ErrorIs(t, err, ErrUnknownMap)

	_, err = set.Map("Nope", "")
	assert.ErrorIs(t, err, record.ErrUnknownType)
}

func TestParseAccess(t *testing.T) {
	tests := []struct {
		in      any
		want    Access
		wantErr bool
	}{
		{nil, ReadWrite, false},
		{"rw", ReadWrite, false},
		{"read_only", ReadOnly, false},
		{"RO", ReadOnly, false},
		{"write_only", WriteOnly, false},
		{"excluded", Excluded, false},
		{WriteOnly, WriteOnly, false},
		{Access(9), 0, true},
		{"x", 0, true},
		{1, 0, true},
	}

	for _, tt := range tests {
		got, err := ParseAccess(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "%v", tt.in)
			continue
		}

		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}

	assert.Equal(t, "ro", ReadOnly.String())
	assert.Equal(t, "excluded", Excluded.String())
	assert.Equal(t, "replace", Replace.String())
	assert.Equal(t, "Access(7)", Access(7).String())
}
