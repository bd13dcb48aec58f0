package similarity

import "github.com/tsukumogami/squatcheck/internal/catalog"

// Distance computes the Levenshtein edit distance between two strings: the
// minimum number of single-character insertions, deletions, or
// substitutions that turn a into b. Characters are compared as runes.
func Distance(a, b string) int {
	if a == b {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Keep the shorter string in ra so the rows are O(min(m,n)).
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

// Score returns the normalized similarity of two names in [0, 1]:
// 1 - Distance(a, b) / max(len(a), len(b)), with lengths in runes.
// Identical names score 1. The score is symmetric.
func Score(a, b catalog.PackageName) float64 {
	score, _ := scoreWithDistance(a, b)
	return score
}

func scoreWithDistance(a, b catalog.PackageName) (float64, int) {
	if a == b {
		return 1, 0
	}
	maxLen := max(a.Len(), b.Len())
	dist := Distance(string(a), string(b))
	return 1 - float64(dist)/float64(maxLen), dist
}
