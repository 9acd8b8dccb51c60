package diffserver

// Target names the file(s) the server watches and recomputes against
// on change. Two-way diff mode uses LHS/RHS; three-way merge mode uses
// Base/Side1/Side2.
type Target struct {
	LHS, RHS           string
	Base, Side1, Side2 string
}

// Mode selects whether the server computes a diff or a merge for its
// watched Target.
type Mode int

const (
	ModeDiff Mode = iota
	ModeMerge
)

// changeView is the JSON-friendly projection of an xdiff.Change,
// dropping its Next list pointer in favor of array ordering.
type changeView struct {
	I1, I2, Chg1, Chg2 int
	Ignore             bool
}

// mergeView is the JSON-friendly projection of an xdiff.MergeResult.
type mergeView struct {
	Buffer        string `json:"buffer"`
	ConflictCount int    `json:"conflictCount"`
}

// UpdateMessage is broadcast over /api/ws after every debounced change
// to a watched file. It is sent even when the recomputed result equals
// the one last sent.
type UpdateMessage struct {
	Type    string       `json:"type"` // "diff" or "merge"
	Changes []changeView `json:"changes,omitempty"`
	Merge   *mergeView   `json:"merge,omitempty"`
	Error   string       `json:"error,omitempty"`
}
