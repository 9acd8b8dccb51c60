package xdiff

import "bytes"

// MergeMode is the disposition of one Merge node's region.
type MergeMode int

const (
	ModeConflict  MergeMode = 0
	ModeTakeSide1 MergeMode = 1
	ModeTakeSide2 MergeMode = 2
	ModeTakeBoth  MergeMode = 3
)

// mergeNode is one node of the merge assembler's linked list (§3's
// "Merge node"): a region of base coordinates together with the
// disposition of side1's and side2's corresponding regions.
type mergeNode struct {
	mode       MergeMode
	i0, chg0   int
	i1, chg1   int
	i2, chg2   int
	next       *mergeNode
}

// MergeConfig controls three-way merge assembly (§4.10, §6).
type MergeConfig struct {
	Level      MergeLevel
	Favor      MergeFavor
	Style      MergeStyle
	MarkerSize int
}

func (c MergeConfig) markerSize() int {
	if c.MarkerSize <= 0 {
		return DefaultMarkerSize
	}
	return c.MarkerSize
}

// MergeResult is the outcome of a three-way merge.
type MergeResult struct {
	Buffer         []byte
	ConflictCount  int
}

// Merge runs both base↔side diffs and the three-way merge assembler
// over t, producing a merge buffer with conflict markers per §4.10.
func Merge(t *Triple, cfg MergeConfig) MergeResult {
	runEngine(t.baseSide1)
	runEngine(t.baseSide2)

	l1 := buildScript(t.baseSide1.lhs, t.baseSide1.rhs)
	l2 := buildScript(t.baseSide2.lhs, t.baseSide2.rhs)

	compactScript(l1, t.baseSide1.lhs, t.baseSide1.rhs, t.flags)
	compactScript(l2, t.baseSide2.lhs, t.baseSide2.rhs, t.flags)

	head := assembleMerge(l1, l2)

	if cfg.Level >= MergeZealous {
		head = refineConflicts(head, t, cfg)
	}

	head = simplifyNonConflicts(head, t.base, cfg.Level)

	applyFavor(head, cfg.Favor)

	return emitMerge(head, t, cfg)
}

// assembleMerge walks L1 = diff(base,side1) and L2 = diff(base,side2)
// in lockstep over base coordinates, per §4.10.
func assembleMerge(l1, l2 *Change) *mergeNode {
	var head, tail *mergeNode
	append_ := func(n *mergeNode) {
		if head == nil {
			head = n
		} else {
			tail.next = n
		}
		tail = n
	}

	for l1 != nil || l2 != nil {
		switch {
		case l1 == nil:
			append_(&mergeNode{mode: ModeTakeSide2, i0: l2.I1, chg0: l2.Chg1, i2: l2.I2, chg2: l2.Chg2})
			l2 = l2.Next

		case l2 == nil:
			append_(&mergeNode{mode: ModeTakeSide1, i0: l1.I1, chg0: l1.Chg1, i1: l1.I2, chg1: l1.Chg2})
			l1 = l1.Next

		case l1.I1+l1.Chg1 <= l2.I1:
			append_(&mergeNode{mode: ModeTakeSide1, i0: l1.I1, chg0: l1.Chg1, i1: l1.I2, chg1: l1.Chg2})
			l1 = l1.Next

		case l2.I1+l2.Chg1 <= l1.I1:
			append_(&mergeNode{mode: ModeTakeSide2, i0: l2.I1, chg0: l2.Chg1, i2: l2.I2, chg2: l2.Chg2})
			l2 = l2.Next

		default:
			lo := l1.I1
			if l2.I1 < lo {
				lo = l2.I1
			}
			hi := l1.I1 + l1.Chg1
			if h2 := l2.I1 + l2.Chg1; h2 > hi {
				hi = h2
			}
			n := &mergeNode{
				mode: ModeConflict,
				i0:   lo, chg0: hi - lo,
				i1: l1.I2, chg1: l1.Chg2,
				i2: l2.I2, chg2: l2.Chg2,
			}
			append_(n)
			l1 = l1.Next
			l2 = l2.Next
		}
	}
	return head
}

// refineConflicts implements §4.10's refinement: for level ZEALOUS
// and above, split each conflict along its inner matches (re-running
// classic diff on the two postimage slices), except at
// ZEALOUS_DIFF3 style, which instead trims common prefix/suffix lines
// without re-diffing.
func refineConflicts(head *mergeNode, t *Triple, cfg MergeConfig) *mergeNode {
	if cfg.Style == StyleZealousDiff3 {
		for n := head; n != nil; n = n.next {
			if n.mode == ModeConflict {
				refineZdiff3Conflict(n, t)
			}
		}
		return head
	}

	var newHead, tail *mergeNode
	append_ := func(n *mergeNode) {
		if newHead == nil {
			newHead = n
		} else {
			tail.next = n
		}
		tail = n
	}
	for n := head; n != nil; n = n.next {
		if n.mode != ModeConflict {
			append_(n)
			continue
		}
		for _, split := range splitConflict(n, t) {
			append_(split)
		}
	}
	return newHead
}

// splitConflict re-diffs the two postimage slices of a conflict and
// returns one or more mergeNodes covering the same base/side1/side2
// ranges, splitting at inner matches the re-diff discovers.
func splitConflict(n *mergeNode, t *Triple) []*mergeNode {
	if n.chg1 == 0 || n.chg2 == 0 {
		return []*mergeNode{n}
	}

	side1Slice := recordRange(t.side1, n.i1, n.i1+n.chg1)
	side2Slice := recordRange(t.side2, n.i2, n.i2+n.chg2)

	inner := NewPair(concatRecords(side1Slice), concatRecords(side2Slice), t.flags)
	runEngine(inner)
	script := buildScript(inner.lhs, inner.rhs)

	if script == nil {
		return []*mergeNode{n}
	}

	var out []*mergeNode
	for ch := script; ch != nil; ch = ch.Next {
		out = append(out, &mergeNode{
			mode: ModeConflict,
			i0:   n.i0, chg0: n.chg0,
			i1: n.i1 + ch.I1, chg1: ch.Chg1,
			i2: n.i2 + ch.I2, chg2: ch.Chg2,
		})
	}
	if len(out) == 0 {
		return []*mergeNode{n}
	}
	return out
}

// refineZdiff3Conflict trims the common prefix, then the common
// suffix, of a conflict's two postimage slices without re-diffing
// (§9's "Open question": prefix is trimmed before suffix; the two
// orders are equivalent in output and this order is chosen and fixed
// here since both loops operate on disjoint ends of the slices).
func refineZdiff3Conflict(n *mergeNode, t *Triple) {
	for n.chg1 > 0 && n.chg2 > 0 &&
		recordBytesEqual(t.side1, n.i1, t.side2, n.i2) {
		n.i1++
		n.i2++
		n.chg1--
		n.chg2--
		n.i0++
		n.chg0--
	}
	for n.chg1 > 0 && n.chg2 > 0 &&
		recordBytesEqual(t.side1, n.i1+n.chg1-1, t.side2, n.i2+n.chg2-1) {
		n.chg1--
		n.chg2--
		n.chg0--
	}
}

func recordBytesEqual(a *fileContext, ai int, b *fileContext, bi int) bool {
	return bytes.Equal(a.recordAt(ai).Bytes(), b.recordAt(bi).Bytes())
}

func recordRange(fc *fileContext, lo, hi int) []Record {
	out := make([]Record, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, fc.recordAt(i))
	}
	return out
}

func concatRecords(recs []Record) []byte {
	var buf bytes.Buffer
	for _, r := range recs {
		buf.Write(r.WithEOL())
	}
	return buf.Bytes()
}

// simplifyNonConflicts merges two conflict nodes separated by at most
// three non-conflict base lines (and, at ALNUM level, no alphanumeric
// byte in the gap), per §4.10.
func simplifyNonConflicts(head *mergeNode, base *fileContext, level MergeLevel) *mergeNode {
	if level < MergeEager {
		return head
	}

	changed := true
	for changed {
		changed = false
		for n := head; n != nil && n.next != nil; {
			if n.mode == ModeConflict && n.next.mode == ModeConflict {
				gapStart := n.i0 + n.chg0
				gapEnd := n.next.i0
				gapLen := gapEnd - gapStart
				if gapLen <= 3 && (level < MergeZealousAlnum || !gapHasAlnum(base, gapStart, gapEnd)) {
					merged := mergeConflictNodes(n, n.next, gapStart, gapEnd)
					*n = *merged
					n.next = n.next.next
					changed = true
					continue
				}
			}
			n = n.next
		}
	}
	return head
}

func gapHasAlnum(fc *fileContext, lo, hi int) bool {
	for i := lo; i < hi; i++ {
		for _, c := range fc.recordAt(i).Bytes() {
			if c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
				return true
			}
		}
	}
	return false
}

func mergeConflictNodes(a, b *mergeNode, gapStart, gapEnd int) *mergeNode {
	return &mergeNode{
		mode: ModeConflict,
		i0:   a.i0, chg0: (gapEnd - a.i0) + (b.i0 + b.chg0 - gapEnd),
		i1: a.i1, chg1: (b.i1 + b.chg1) - a.i1,
		i2: a.i2, chg2: (b.i2 + b.chg2) - a.i2,
		next: b.next,
	}
}

// applyFavor replaces conflict nodes with a one-sided or combined
// disposition per the configured favor mode, before emission (§4.10).
func applyFavor(head *mergeNode, favor MergeFavor) {
	if favor == FavorNone {
		return
	}
	for n := head; n != nil; n = n.next {
		if n.mode != ModeConflict {
			continue
		}
		switch favor {
		case FavorOurs:
			n.mode = ModeTakeSide1
		case FavorTheirs:
			n.mode = ModeTakeSide2
		case FavorUnion:
			n.mode = ModeTakeBoth
		}
	}
}

// detectEOLStyle reports whether a conflict marker placed before
// position pos of fc should end in CRLF. It returns true when the line
// just before pos in fc ends in CRLF; otherwise the answer is whether
// fc's first line ends in CRLF. The line at otherPos in other is
// consulted only when fc has no lines at all.
func detectEOLStyle(fc *fileContext, pos int, other *fileContext, otherPos int) bool {
	if pos > 0 && pos-1 < fc.len() {
		if isCRLFLine(fc, pos-1) {
			return true
		}
	}
	if fc.len() > 0 {
		return isCRLFLine(fc, 0)
	}
	if other != nil && otherPos >= 0 && otherPos < other.len() {
		return isCRLFLine(other, otherPos)
	}
	return false
}

func isCRLFLine(fc *fileContext, i int) bool {
	r := fc.recordAt(i)
	return r.WithEOLLen > r.NoEOLLen+1 ||
		(r.NoEOLLen > 0 && r.WithEOLLen > r.NoEOLLen && r.Bytes()[r.NoEOLLen-1] == '\r')
}

// emitMerge walks the merge list and appends each node's region to
// the output buffer per §4.10's emission rules, returning the final
// buffer and the count of remaining conflicts.
func emitMerge(head *mergeNode, t *Triple, cfg MergeConfig) MergeResult {
	var buf bytes.Buffer
	buf.Grow(estimateMergeSize(t))

	conflicts := 0
	markers := bytes.Repeat([]byte{'<'}, cfg.markerSize())
	baseMarkers := bytes.Repeat([]byte{'|'}, cfg.markerSize())
	sepMarkers := bytes.Repeat([]byte{'='}, cfg.markerSize())
	endMarkers := bytes.Repeat([]byte{'>'}, cfg.markerSize())

	cursor := 0
	for n := head; n != nil; n = n.next {
		writeRecords(&buf, t.base, cursor, n.i0)
		cursor = n.i0 + n.chg0

		switch n.mode {
		case ModeTakeSide1:
			writeRecords(&buf, t.side1, n.i1, n.i1+n.chg1)
		case ModeTakeSide2:
			writeRecords(&buf, t.side2, n.i2, n.i2+n.chg2)
		case ModeTakeBoth:
			writeRecords(&buf, t.side1, n.i1, n.i1+n.chg1)
			writeRecords(&buf, t.side2, n.i2, n.i2+n.chg2)
		case ModeConflict:
			conflicts++
			crlf := detectEOLStyle(t.side1, n.i1, t.side2, n.i2)
			writeMarkerLine(&buf, markers, crlf)
			writeRecords(&buf, t.side1, n.i1, n.i1+n.chg1)
			if cfg.Style == StyleDiff3 || cfg.Style == StyleZealousDiff3 {
				writeMarkerLine(&buf, baseMarkers, crlf)
				writeRecords(&buf, t.base, n.i0, n.i0+n.chg0)
			}
			writeMarkerLine(&buf, sepMarkers, crlf)
			writeRecords(&buf, t.side2, n.i2, n.i2+n.chg2)
			writeMarkerLine(&buf, endMarkers, crlf)
		}
	}
	writeRecords(&buf, t.base, cursor, t.base.len())

	count := conflicts
	if count > 255 {
		count = 255
	}
	return MergeResult{Buffer: buf.Bytes(), ConflictCount: count}
}

func writeRecords(buf *bytes.Buffer, fc *fileContext, lo, hi int) {
	for i := lo; i < hi; i++ {
		buf.Write(fc.recordAt(i).WithEOL())
	}
}

func writeMarkerLine(buf *bytes.Buffer, marker []byte, crlf bool) {
	buf.Write(marker)
	if crlf {
		buf.WriteByte('\r')
	}
	buf.WriteByte('\n')
}

// estimateMergeSize pre-sizes the output buffer from the sum of input
// lengths plus a fixed 64 bytes of slack for conflict markers. The
// slack does not scale with the number of conflicts, so a merge with
// many conflicts can still grow the buffer during emission.
func estimateMergeSize(t *Triple) int {
	total := 0
	for _, r := range t.base.file.Records {
		total += r.WithEOLLen
	}
	for _, r := range t.side1.file.Records {
		total += r.WithEOLLen
	}
	for _, r := range t.side2.file.Records {
		total += r.WithEOLLen
	}
	return total + 64
}
