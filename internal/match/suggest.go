package match

import (
	"sort"
)

// DefaultSuggestScore is the minimum similarity for a known name to be offered
// as a suggestion for an unknown one.
const DefaultSuggestScore = 0.6

// DefaultMaxSuggestions caps the number of suggestions returned by Suggest.
const DefaultMaxSuggestions = 3

// Suggest returns the known names closest to name, best first.
// Only names scoring at least DefaultSuggestScore are returned.
func Suggest(name string, known []string) []string {
	type scored struct {
		name  string
		score float64
	}

	var candidates []scored

	for _, k := range known {
		if k == name {
			continue
		}

		score := similarity(name, k)
		if score < DefaultSuggestScore {
			continue
		}

		candidates = append(candidates, scored{name: k, score: score})
	}

	// Sort by score descending, then name for determinism
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}

		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > DefaultMaxSuggestions {
		candidates = candidates[:DefaultMaxSuggestions]
	}

	result := make([]string, len(candidates))
	for i, c := range candidates {
		result[i] = c.name
	}

	return result
}
