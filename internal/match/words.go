package match

import (
	"strings"
	"unicode"
)

// Words splits an identifier into lowercase words. Separators ('_', '-',
// ' ') end a word, as do a lower-to-upper transition ("createdAt") and the
// last capital of an acronym followed by a lowercase letter ("HTMLBody").
func Words(s string) []string {
	var (
		words []string
		word  []rune
	)

	flush := func() {
		if len(word) > 0 {
			words = append(words, strings.ToLower(string(word)))
			word = word[:0]
		}
	}

	runes := []rune(s)

	for i, r := range runes {
		if r == '_' || r == '-' || r == ' ' {
			flush()
			continue
		}

		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			acronymEnd := unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if !unicode.IsUpper(prev) || acronymEnd {
				flush()
			}
		}

		word = append(word, r)
	}

	flush()

	return words
}

// SnakeCase converts an identifier to lower snake case, the naming used for
// record columns and public attribute names: "AuthorID" becomes "author_id".
func SnakeCase(s string) string {
	return strings.Join(Words(s), "_")
}

// fold drops case and word boundaries so that "createdAt", "created_at" and
// "CreatedAt" compare equal.
func fold(s string) string {
	return strings.Join(Words(s), "")
}
