package match

import "strings"

// Singularize returns the singular form of a word using simple English rules.
// It is used to recognize collection wrappers such as {"comment": [...]}
// submitted for a "comments" relation.
func Singularize(word string) string {
	if word == "" {
		return ""
	}

	lower := strings.ToLower(word)

	// Check irregular singulars
	for singular, plural := range irregularPlurals {
		if plural == lower {
			if word[0] >= 'A' && word[0] <= 'Z' {
				return strings.ToUpper(singular[:1]) + singular[1:]
			}

			return singular
		}
	}

	switch {
	case strings.HasSuffix(lower, "ies") && len(word) > 3:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(lower, "lves"):
		return word[:len(word)-3] + "f"
	case strings.HasSuffix(lower, "ses"),
		strings.HasSuffix(lower, "xes"),
		strings.HasSuffix(lower, "zes"),
		strings.HasSuffix(lower, "ches"),
		strings.HasSuffix(lower, "shes"):
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss"):
		return word[:len(word)-1]
	}

	return word
}

// irregularPlurals maps singular to plural for words the suffix rules get wrong.
var irregularPlurals = map[string]string{
	"person":   "people",
	"man":      "men",
	"woman":    "women",
	"child":    "children",
	"mouse":    "mice",
	"index":    "indices",
	"matrix":   "matrices",
	"vertex":   "vertices",
	"analysis": "analyses",
	"datum":    "data",
	"medium":   "media",
	"status":   "statuses",
	"knife":    "knives",
	"life":     "lives",
	"wife":     "wives",
	"leaf":     "leaves",
	"thief":    "thieves",
	"valve":    "valves",
}
