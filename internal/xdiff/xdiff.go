package xdiff

// IgnoreGroup is the external collaborator spec.md §6 describes in
// the abstract: given the base file context and a run of unchanged-
// looking base line indices, it decides whether that run should be
// marked Ignore in the emitted Change. xdiff never implements a
// regex-ignore engine itself (out of scope per §1); callers that need
// one inject it here.
type IgnoreGroup func(base *File, lines []int) bool

// ChangeScript is the result of a two-way diff: a (possibly nil, for
// identical inputs) singly linked list of Change records in ascending
// base-index order.
type ChangeScript struct {
	Head *Change
}

// Anchors is a list of byte-string prefixes pinning Patience diff
// matches (§6). Ignored by the classic and histogram engines.
type Anchors [][]byte

// Diff computes the change script between the two sides of p under
// p's flags, dispatching to the classic, patience, or histogram
// engine as selected, then building and compacting the script.
func Diff(p *Pair, anchors Anchors) *ChangeScript {
	runEngineWithAnchors(p, anchors)
	script := buildScript(p.lhs, p.rhs)
	compactScript(script, p.lhs, p.rhs, p.flags)
	return &ChangeScript{Head: script}
}

// ApplyIgnoreGroup marks Ignore on every Change in script whose base
// region ig reports as an ignorable unchanged-looking group. It is a
// post-pass over an already-built script, matching §6's description of
// the ignore collaborator crossing the core's boundary after the fact.
func ApplyIgnoreGroup(script *ChangeScript, base *File, ig IgnoreGroup) {
	if ig == nil {
		return
	}
	for ch := script.Head; ch != nil; ch = ch.Next {
		lines := make([]int, ch.Chg1)
		for i := range lines {
			lines[i] = ch.I1 + i
		}
		ch.Ignore = ig(base, lines)
	}
}

// LHS and RHS give callers read access to a Pair's two File Contexts'
// underlying Files, e.g. to render a unified diff from a ChangeScript.
func (p *Pair) LHS() *File { return p.lhs.file }
func (p *Pair) RHS() *File { return p.rhs.file }

// Base, Side1, and Side2 give callers read access to a Triple's three
// Files.
func (t *Triple) Base() *File  { return t.base.file }
func (t *Triple) Side1() *File { return t.side1.file }
func (t *Triple) Side2() *File { return t.side2.file }
