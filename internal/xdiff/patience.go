package xdiff

import "bytes"

// nonUnique is the Patience sentinel marking a record that is not
// unique within the range being scanned, on either side. The source
// this engine is ported from uses usize::MAX for this; an explicit
// named constant (decided in place of a tagged variant — see
// DESIGN.md) keeps the sentinel from ever colliding with a genuine
// line number, since real line indices never approach it in practice
// and the comparisons below only ever test equality against it.
const nonUnique = -1

// patienceNode is one entry in the ordered map: a record position
// that is unique (so far) within lhs's scan range, together with its
// match position in rhs and the longest-common-subsequence links
// computed over it.
//
// line2 is stored 1-based (real index + 1): 0 means "not yet
// matched" and nonUnique means "matched more than once". Using the
// real 0-based rhs index directly would make position 0 indistinguishable
// from "unmatched", exactly the collision the original's LINE_SHIFT
// convention exists to avoid.
type patienceNode struct {
	line1, line2 int
	next, prev   int // index into the node arena, or -1
	anchor       bool
}

type patienceContext struct {
	lhs, rhs *fileContext
	anchors  [][]byte
	flags    Flags

	// curNodes addresses the node arena of the map currently being
	// walked by walkCommonSequence; valid only during the synchronous
	// call tree rooted at one patienceDiff invocation.
	curNodes []patienceNode
}

func isAnchor(anchors [][]byte, line []byte) bool {
	for _, a := range anchors {
		if len(line) >= len(a) && bytes.Equal(line[:len(a)], a) {
			return true
		}
	}
	return false
}

// patienceMap is the arena-backed ordered map over unique records
// found in a scan range, keyed by MPH id.
type patienceMap struct {
	seen    map[int32]int // mph id -> node arena index
	nodes   []patienceNode
	first   int
	last    int
	matched bool
}

func newPatienceMap() *patienceMap {
	return &patienceMap{seen: make(map[int32]int), first: -1, last: -1}
}

// fillHashmap implements xpatience.rs's fill_hashmap: first register
// every record of range1 as a candidate (marking duplicates
// nonUnique), then scan range2 looking for matches.
func (ctx *patienceContext) fillHashmap(m *patienceMap, lo1, hi1, lo2, hi2 int) {
	for i := lo1; i < hi1; i++ {
		mph := ctx.lhs.mphAt(i)
		if idx, ok := m.seen[mph]; ok {
			m.nodes[idx].line2 = nonUnique
			continue
		}
		node := patienceNode{
			line1:  i,
			line2:  0,
			next:   -1,
			prev:   m.last,
			anchor: isAnchor(ctx.anchors, ctx.lhs.recordAt(i).Bytes()),
		}
		idx := len(m.nodes)
		m.nodes = append(m.nodes, node)
		m.seen[mph] = idx
		if m.first == -1 {
			m.first = idx
		}
		if m.last != -1 {
			m.nodes[m.last].next = idx
		}
		m.last = idx
	}

	for i := lo2; i < hi2; i++ {
		mph := ctx.rhs.mphAt(i)
		idx, ok := m.seen[mph]
		if !ok {
			continue
		}
		m.matched = true
		node := &m.nodes[idx]
		if node.line2 != 0 {
			node.line2 = nonUnique
		} else {
			node.line2 = i + 1
		}
	}
}

// findLongestCommonSequence implements the patience LIS construction:
// entries ordered by line1, "sequence" holds the best (smallest-line2)
// chain of each length seen so far, with anchors pinning a prefix of
// "sequence" against being overwritten.
func (ctx *patienceContext) findLongestCommonSequence(m *patienceMap) int {
	sequence := make([]int, len(m.nodes)+1)
	for i := range sequence {
		sequence[i] = -1
	}

	longest := 0
	anchorI := -1

	for idx := range m.nodes {
		n := &m.nodes[idx]
		if n.line2 == 0 || n.line2 == nonUnique {
			continue
		}
		i := patienceBinarySearch(sequence, m.nodes, longest, n.line2)
		if i < 0 {
			n.prev = -1
		} else {
			n.prev = sequence[i]
		}
		i++
		if i <= anchorI {
			continue
		}
		sequence[i] = idx
		if n.anchor {
			anchorI = i
			longest = anchorI + 1
		} else if i == longest {
			longest++
		}
	}

	if longest == 0 {
		return -1
	}

	e := sequence[longest-1]
	m.nodes[e].next = -1
	for m.nodes[e].prev != -1 {
		p := m.nodes[e].prev
		m.nodes[p].next = e
		e = p
	}
	return e
}

// patienceBinarySearch finds the rightmost chain whose last element's
// line2 is smaller than entry's, returning its index into sequence (or
// -1 if none).
func patienceBinarySearch(sequence []int, nodes []patienceNode, longest, line2 int) int {
	left, right := -1, longest
	for left+1 < right {
		mid := left + (right-left)/2
		if nodes[sequence[mid]].line2 > line2 {
			right = mid
		} else {
			left = mid
		}
	}
	return left
}

// expand grows the common-match run anchored at first's line1/line2 in
// both directions by equal-MPH scanning, mutating lo1/lo2 to the
// post-growth low bound and returning the (exclusive) high bound the
// run grew to on each side.
func (ctx *patienceContext) expand(first int, lo1, hi1, lo2, hi2 *int) (int, int) {
	var next1, next2 int
	if first != -1 {
		next1 = ctx.curNodes[first].line1
		next2 = ctx.curNodes[first].line2 - 1
		for next1 > *lo1 && next2 > *lo2 && ctx.lhs.mphAt(next1-1) == ctx.rhs.mphAt(next2-1) {
			next1--
			next2--
		}
	} else {
		next1 = *hi1
		next2 = *hi2
	}
	for *lo1 < next1 && *lo2 < next2 && ctx.lhs.mphAt(*lo1) == ctx.rhs.mphAt(*lo2) {
		*lo1++
		*lo2++
	}
	return next1, next2
}

func (ctx *patienceContext) walkCommonSequence(first, lo1, hi1, lo2, hi2 int) {
	outerNodes := ctx.curNodes
	for {
		next1, next2 := ctx.expand(first, &lo1, &hi1, &lo2, &hi2)

		if next1 > lo1 || next2 > lo2 {
			ctx.patienceDiff(lo1, next1, lo2, next2)
			ctx.curNodes = outerNodes
		}

		if first == -1 {
			return
		}

		cur := outerNodes[first]
		for cur.next != -1 {
			nxt := outerNodes[cur.next]
			if nxt.line1 != cur.line1+1 || nxt.line2 != cur.line2+1 {
				break
			}
			first = cur.next
			cur = nxt
		}

		lo1 = cur.line1 + 1
		lo2 = cur.line2 // line2 is real index + 1, so this is realIndex(cur) + 1
		first = cur.next
	}
}

func (ctx *patienceContext) patienceDiff(lo1, hi1, lo2, hi2 int) {
	if hi1 == lo1 {
		for i := lo2; i < hi2; i++ {
			ctx.rhs.consider.set(i, considerYes)
		}
		return
	}
	if hi2 == lo2 {
		for i := lo1; i < hi1; i++ {
			ctx.lhs.consider.set(i, considerYes)
		}
		return
	}

	m := newPatienceMap()
	ctx.fillHashmap(m, lo1, hi1, lo2, hi2)

	if !m.matched {
		for i := lo1; i < hi1; i++ {
			ctx.lhs.consider.set(i, considerYes)
		}
		for i := lo2; i < hi2; i++ {
			ctx.rhs.consider.set(i, considerYes)
		}
		return
	}

	first := ctx.findLongestCommonSequence(m)
	ctx.curNodes = m.nodes
	if first != -1 {
		ctx.walkCommonSequence(first, lo1, hi1, lo2, hi2)
	} else {
		classicDiffRange(ctx.lhs, ctx.rhs, lo1, hi1, lo2, hi2, ctx.flags)
	}
}

// doPatienceDiff is the public entry point invoked by the engine
// dispatcher for a Pair under PatienceDiff, per §4.6.
func doPatienceDiff(lhs, rhs *fileContext, anchors [][]byte, flags Flags) {
	ctx := &patienceContext{lhs: lhs, rhs: rhs, anchors: anchors, flags: flags}
	ctx.patienceDiff(0, lhs.len(), 0, rhs.len())
}
