package xdiff

const (
	snakeCnt    = 20
	kHeur       = 4
	maxCostMin  = 256
	heurMinCost = 256
)

// seq is a compacted, read-only view over one side of a diff: either
// the optimizer's rindex (top-level classic diff over a Pair) or an
// identity range of raw record indices (patience/histogram falling
// back to classic over an unoptimized sub-range, §4.6/§4.7).
type seq struct {
	fc  *fileContext
	idx []int
}

func rindexSeq(fc *fileContext) seq { return seq{fc: fc, idx: fc.rindex} }

func rangeSeq(fc *fileContext, lo, hi int) seq {
	idx := make([]int, hi-lo)
	for i := range idx {
		idx[i] = lo + i
	}
	return seq{fc: fc, idx: idx}
}

func (s seq) len() int          { return len(s.idx) }
func (s seq) mph(i int) int32   { return s.fc.mphAt(s.idx[i]) }
func (s seq) markYes(lo, hi int) {
	for i := lo; i < hi; i++ {
		s.fc.consider.set(s.idx[i], considerYes)
	}
}

// classicContext holds scratch state shared across one invocation of
// the classic engine, so recursive split() calls reuse the same
// forward/backward diagonal-frontier arrays instead of reallocating.
type classicContext struct {
	a, b  seq
	flags Flags

	kvdf, kvdb []int
	kvdOff     int
}

func newClassicContext(a, b seq, flags Flags) *classicContext {
	n := a.len() + b.len()
	size := 2*n + 3
	return &classicContext{
		a: a, b: b, flags: flags,
		kvdf:   make([]int, size),
		kvdb:   make([]int, size),
		kvdOff: n + 1,
	}
}

// classicDiff runs the classic (Myers) engine over a and b, setting
// consider=YES on changed positions in each side's owning fileContext.
func classicDiff(a, b seq, flags Flags) {
	ctx := newClassicContext(a, b, flags)
	ctx.diffBox(0, a.len(), 0, b.len())
}

// classicDiffRange is the range-restricted entry point patience and
// histogram fall back to: it operates on raw record indices within
// [off1,lim1) and [off2,lim2), bypassing rindex compaction entirely.
func classicDiffRange(lhs, rhs *fileContext, off1, lim1, off2, lim2 int, flags Flags) {
	a := rangeSeq(lhs, off1, lim1)
	b := rangeSeq(rhs, off2, lim2)
	classicDiff(a, b, flags)
}

// diffBox shrinks the box [off1,lim1)x[off2,lim2) by consuming
// diagonal snakes from both corners, then recurses on the crossing
// point returned by split, per §4.5.
func (c *classicContext) diffBox(off1, lim1, off2, lim2 int) {
	for off1 < lim1 && off2 < lim2 && c.a.mph(off1) == c.b.mph(off2) {
		off1++
		off2++
	}
	for lim1 > off1 && lim2 > off2 && c.a.mph(lim1-1) == c.b.mph(lim2-1) {
		lim1--
		lim2--
	}

	switch {
	case off1 == lim1 && off2 == lim2:
		return
	case off1 == lim1:
		c.b.markYes(off2, lim2)
		return
	case off2 == lim2:
		c.a.markYes(off1, lim1)
		return
	}

	i1, i2, _ := c.split(off1, lim1, off2, lim2)
	c.diffBox(off1, i1, off2, i2)
	c.diffBox(i1, lim1, i2, lim2)
}

// split advances forward diagonal frontier kvdf from (off1,off2) and
// backward frontier kvdb from (lim1,lim2) until they cross, returning
// the crossing point. minimal reports whether the crossing is a proven
// shortest edit script or a heuristic approximation (§4.5).
func (c *classicContext) split(off1, lim1, off2, lim2 int) (i1, i2 int, minimal bool) {
	n1, n2 := lim1-off1, lim2-off2
	ndiags := n1 + n2

	costBudget := bogosqrt(ndiags)
	if costBudget < maxCostMin {
		costBudget = maxCostMin
	}
	heuristicEnabled := c.flags&NeedMinimal == 0 && ndiags > heurMinCost

	fwdOff := c.kvdOff
	bwdOff := c.kvdOff

	fmin, fmax := off1-off2, off1-off2
	bmin, bmax := lim1-lim2, lim1-lim2
	c.kvdf[fwdOff+fmin] = off1
	c.kvdb[bwdOff+bmax] = lim1

	for cost := 1; ; cost++ {
		gotSnake := false

		if fmax-fmin < bmax-bmin {
			fmax++
		} else {
			fmin--
		}
		for d := fmax; d >= fmin; d -= 2 {
			var x int
			if d == fmin || (d != fmax && c.kvdf[fwdOff+d-1] < c.kvdf[fwdOff+d+1]) {
				x = c.kvdf[fwdOff+d+1]
			} else {
				x = c.kvdf[fwdOff+d-1] + 1
			}
			y := x - d
			x0, y0 := x, y
			run := 0
			for x < lim1 && y < lim2 && c.a.mph(x) == c.b.mph(y) {
				x++
				y++
				run++
			}
			if run >= snakeCnt {
				gotSnake = true
			}
			c.kvdf[fwdOff+d] = x

			if d >= bmin && d <= bmax && x >= c.kvdb[bwdOff+d] {
				return x0, y0, cost <= costBudget || !heuristicEnabled
			}
		}

		if bmax-bmin < fmax-fmin {
			bmax++
		} else {
			bmin--
		}
		for d := bmax; d >= bmin; d -= 2 {
			var x int
			if d == bmax || (d != bmin && c.kvdb[bwdOff+d-1] < c.kvdb[bwdOff+d+1]) {
				x = c.kvdb[bwdOff+d-1]
			} else {
				x = c.kvdb[bwdOff+d+1] - 1
			}
			y := x - d
			run := 0
			for x > off1 && y > off2 && c.a.mph(x-1) == c.b.mph(y-1) {
				x--
				y--
				run++
			}
			if run >= snakeCnt {
				gotSnake = true
			}
			c.kvdb[bwdOff+d] = x

			if d >= fmin && d <= fmax && x <= c.kvdf[fwdOff+d] {
				return x, y, cost <= costBudget || !heuristicEnabled
			}
		}

		if heuristicEnabled && cost > costBudget && !gotSnake {
			return c.heuristicMidpoint(fmin, fmax, fwdOff, off1, off2)
		}
	}
}

// heuristicMidpoint returns the furthest-reaching forward diagonal
// under measure (i1+i2) when the cost budget is exhausted without a
// proven crossing, per §4.5's heuristic early exit. Diagonals far from
// the box's own diagonal are penalized by kHeur so that a slightly
// shorter but straighter snake wins over a longer, more slanted one.
func (c *classicContext) heuristicMidpoint(fmin, fmax, fwdOff, off1, off2 int) (int, int, bool) {
	boxDiag := off1 - off2
	bestD := fmin
	bestScore := -1 << 31
	for d := fmax; d >= fmin; d -= 2 {
		x := c.kvdf[fwdOff+d]
		y := x - d
		if x < off1 || y < off2 {
			continue
		}
		slope := d - boxDiag
		if slope < 0 {
			slope = -slope
		}
		score := (x + y) - kHeur*slope
		if score > bestScore {
			bestScore = score
			bestD = d
		}
	}
	x := c.kvdf[fwdOff+bestD]
	y := x - bestD
	return x, y, false
}
