package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	known := []string{"internal_name", "access_mode", "optional_group", "read_fn", "write_fn"}

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "typo", input: "acess_mode", expected: []string{"access_mode"}},
		{name: "camel case spelling", input: "internalName", expected: []string{"internal_name"}},
		{name: "abbreviation", input: "read_fun", expected: []string{"read_fn"}},
		{name: "nothing similar", input: "polymorphic", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Suggest(tt.input, known))
		})
	}
}

func TestSuggestLimit(t *testing.T) {
	known := []string{"abcd1", "abcd2", "abcd3", "abcd4", "abcd5"}

	got := Suggest("abcd", known)
	assert.Len(t, got, DefaultMaxSuggestions)
	assert.Equal(t, []string{"abcd1", "abcd2", "abcd3"}, got)
}

func TestSingularize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"comments", "comment"},
		{"categories", "category"},
		{"boxes", "box"},
		{"branches", "branch"},
		{"people", "person"},
		{"statuses", "status"},
		{"address", "address"},
		{"Tags", "Tag"},
		{"knives", "knife"},
		{"lives", "life"},
		{"Wives", "Wife"},
		{"wolves", "wolf"},
		{"shelves", "shelf"},
		{"valves", "valve"},
		{"archives", "archive"},
		{"moves", "move"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Singularize(tt.input))
		})
	}
}
