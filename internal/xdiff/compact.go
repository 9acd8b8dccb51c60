package xdiff

const maxSliding = 100

// xdlgroup is a cursor over one side's changed groups, used by
// compactOneSide to track the current and previous group for the
// desync check. The neighbor lookup for the previous non-empty group
// (prevNonEmpty) still re-walks the list from the head for each group.
type xdlgroup struct {
	node *Change
}

func compactScript(head *Change, lhs, rhs *fileContext, flags Flags) {
	compactOneSide(head, lhs, true, flags)
	compactOneSide(head, rhs, false, flags)
}

// compactOneSide slides every group on one side as far up as it can
// go, then as far down as it can from there, and applies the three
// stop policies of §4.8 to pick a final position between those
// extremes.
func compactOneSide(head *Change, fc *fileContext, isSide1 bool, flags Flags) {
	var prev *xdlgroup
	cur := &xdlgroup{node: head}

	for cur.node != nil {
		ch := cur.node
		start, length := groupBounds(ch, isSide1)
		if length == 0 {
			prev = cur
			nxt := &xdlgroup{node: ch.Next}
			cur = nxt
			continue
		}

		lowBound := 0
		if p := prevNonEmpty(head, ch, isSide1); p != nil {
			s, l := groupBounds(p, isSide1)
			lowBound = s + l
		}
		upperBound := fc.len()
		if n := nextNonEmpty(ch, isSide1); n != nil {
			s, _ := groupBounds(n, isSide1)
			upperBound = s
		}

		earliestStart := start
		for earliestStart > lowBound && recordsMatch(fc, earliestStart-1, earliestStart+length-1) {
			earliestStart--
		}

		maxStart := earliestStart
		for maxStart+length < upperBound && recordsMatch(fc, maxStart, maxStart+length) {
			maxStart++
		}

		final := choosePosition(fc, earliestStart, maxStart, length, lowBound, upperBound, flags)
		setGroupStart(ch, isSide1, final)

		if prev != nil && prev.node != nil {
			desyncCheck(prev.node, ch, isSide1)
		}
		prev = cur
		cur = &xdlgroup{node: ch.Next}
	}
}

// recordsMatch reports whether fc's records at a and b are equivalent
// by MPH id — the content-equality test that licenses sliding a group
// boundary past them (§4.8).
func recordsMatch(fc *fileContext, a, b int) bool {
	return fc.mphAt(a) == fc.mphAt(b)
}

func groupBounds(ch *Change, isSide1 bool) (start, length int) {
	if isSide1 {
		return ch.I1, ch.Chg1
	}
	return ch.I2, ch.Chg2
}

func setGroupStart(ch *Change, isSide1 bool, start int) {
	if isSide1 {
		ch.I1 = start
	} else {
		ch.I2 = start
	}
}

func prevNonEmpty(head, target *Change, isSide1 bool) *Change {
	var best *Change
	for ch := head; ch != nil && ch != target; ch = ch.Next {
		_, l := groupBounds(ch, isSide1)
		if l > 0 {
			best = ch
		}
	}
	return best
}

func nextNonEmpty(ch *Change, isSide1 bool) *Change {
	for n := ch.Next; n != nil; n = n.Next {
		_, l := groupBounds(n, isSide1)
		if l > 0 {
			return n
		}
	}
	return nil
}

// choosePosition applies the three stop policies in order: touching an
// adjacent group's boundary, the indent heuristic, or the maximum
// downward shift.
func choosePosition(fc *fileContext, earliestStart, maxStart, length, lowBound, upperBound int, flags Flags) int {
	for p := earliestStart; p <= maxStart; p++ {
		if p == lowBound || p+length == upperBound {
			return p
		}
	}

	if flags&IndentHeuristic != 0 && maxStart > earliestStart {
		return bestIndentPosition(fc, earliestStart, maxStart, length)
	}

	return maxStart
}

// desyncCheck asserts the lockstep invariant between two adjacent
// non-empty groups on the same side: a later group's start must never
// fall before an earlier group's end once both have been slid. A
// violation means an upstream consider array was built inconsistently
// with the script the builder produced from it (§7: "group sync
// broken" is unrecoverable).
func desyncCheck(prevCh, ch *Change, isSide1 bool) {
	ps, pl := groupBounds(prevCh, isSide1)
	s, _ := groupBounds(ch, isSide1)
	if pl > 0 && s < ps+pl {
		panic("xdiff: group sync broken")
	}
}
