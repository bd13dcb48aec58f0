package similarity

import "github.com/tsukumogami/squatcheck/internal/catalog"

// Match is a catalog entry that scored at or above the threshold.
type Match struct {
	ReferenceName catalog.PackageName `json:"reference_name"`
	Score         float64             `json:"score"`
	Distance      int                 `json:"distance"`
	Rank          int                 `json:"rank"`
}

// Finding is the verdict for one dependency name. Matches are ordered by
// descending score, ties broken by catalog rank.
type Finding struct {
	DependencyName string              `json:"dependency_name"`
	Normalized     catalog.PackageName `json:"normalized"`
	Risk           bool                `json:"risk"`
	Matches        []Match             `json:"matches"`
}

// Best returns the highest-ranked match.
func (f Finding) Best() (Match, bool) {
	if len(f.Matches) == 0 {
		return Match{}, false
	}
	return f.Matches[0], true
}

// Result pairs a batch input with its finding or the error that prevented
// evaluation. Exactly one of Finding and Err is set.
type Result struct {
	Index   int      `json:"index"`
	Input   string   `json:"input"`
	Finding *Finding `json:"finding,omitempty"`
	Err     error    `json:"-"`
}

// Skipped reports whether the input could not be evaluated.
func (r Result) Skipped() bool {
	return r.Err != nil
}
