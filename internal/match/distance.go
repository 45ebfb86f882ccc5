package match

// Distance returns the Levenshtein edit distance between a and b, counted
// in runes.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	// row[i] is the distance between ra[:i] and the prefix of rb seen so far
	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			next := min(row[i]+1, row[i-1]+1, diag+cost)
			diag = row[i]
			row[i] = next
		}
	}

	return row[len(ra)]
}

// similarity scores two identifiers between 0 and 1 after folding them.
func similarity(a, b string) float64 {
	fa, fb := fold(a), fold(b)

	longest := max(len([]rune(fa)), len([]rune(fb)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Distance(fa, fb))/float64(longest)
}
