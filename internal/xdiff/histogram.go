package xdiff

const maxChainLength = 64

// histogramEntry is one chain link in the histogram's hash table: the
// first-seen line number for an MPH id within the scan range, its
// total occurrence count within that range ("rarity"), and the next
// entry sharing the same bucket.
type histogramEntry struct {
	mph      int32
	line     int
	count    int
	next     int // arena index, or -1
}

type histogramTable struct {
	buckets []int // mph id % len(buckets) -> arena index, or -1; table is keyed directly since len(buckets)==mphSize makes this a direct-addressed table, not a hashed one
	entries []histogramEntry
}

func newHistogramTable(mphSize int) *histogramTable {
	t := &histogramTable{buckets: make([]int, mphSize), entries: nil}
	for i := range t.buckets {
		t.buckets[i] = -1
	}
	return t
}

// scanSide populates the table from fc's records in [lo, hi). Returns
// false if any record's occurrence count would exceed maxChainLength,
// signaling the caller to fall back to classic diff (§4.7.1).
func (t *histogramTable) scanSide(fc *fileContext, lo, hi int) bool {
	for i := lo; i < hi; i++ {
		mph := fc.mphAt(i)
		head := t.buckets[mph]

		if head == -1 {
			t.entries = append(t.entries, histogramEntry{mph: mph, line: i, count: 1, next: -1})
			t.buckets[mph] = len(t.entries) - 1
			continue
		}

		t.entries[head].count++
		if t.entries[head].count > maxChainLength {
			return false
		}
		// keep "line" as the first-seen occurrence; count accumulates
		// total occurrences for rarity comparisons.
	}
	return true
}

func (t *histogramTable) chainFor(mph int32) int { return t.buckets[mph] }

// histogramMatch records the best candidate run found while scanning
// range2 against the range1 chain table.
type histogramMatch struct {
	found       bool
	start1, start2 int
	length      int
	rarity      int
}

// histogramContext holds the state of one histogram diff invocation.
type histogramContext struct {
	lhs, rhs *fileContext
	mphSize  int
	flags    Flags
}

// extendRun grows an equal-MPH run in both directions from (a, b)
// bounded by [lo1,hi1)x[lo2,hi2), returning its extent and the minimum
// occurrence count (rarity) observed across the run's lhs positions.
func (ctx *histogramContext) extendRun(table *histogramTable, a, b, lo1, hi1, lo2, hi2 int) (start1, start2, length, rarity int) {
	s1, s2 := a, b
	for s1 > lo1 && s2 > lo2 && ctx.lhs.mphAt(s1-1) == ctx.rhs.mphAt(s2-1) {
		s1--
		s2--
	}
	e1, e2 := a, b
	for e1 < hi1-1 && e2 < hi2-1 && ctx.lhs.mphAt(e1+1) == ctx.rhs.mphAt(e2+1) {
		e1++
		e2++
	}

	rarity = -1
	for i := s1; i <= e1; i++ {
		c := ctx.occurrenceCount(table, ctx.lhs.mphAt(i))
		if rarity == -1 || c < rarity {
			rarity = c
		}
	}
	return s1, s2, e1 - s1 + 1, rarity
}

func (ctx *histogramContext) occurrenceCount(table *histogramTable, mph int32) int {
	e := table.chainFor(mph)
	if e == -1 {
		return 0
	}
	total := 0
	for e != -1 {
		total += table.entries[e].count
		e = table.entries[e].next
	}
	return total
}

// scanB walks range2 against the chain table built over range1,
// tracking the longest run with the lowest rarity, preferring rarity
// strictly over length when they conflict (§4.7.2).
func (ctx *histogramContext) scanB(table *histogramTable, lo1, hi1, lo2, hi2 int) histogramMatch {
	var best histogramMatch
	b := lo2
	for b < hi2 {
		mph := ctx.rhs.mphAt(b)
		chain := table.chainFor(mph)
		advanced := false

		for e := chain; e != -1; e = table.entries[e].next {
			a := table.entries[e].line
			if a < lo1 || a >= hi1 {
				continue
			}
			s1, s2, length, rarity := ctx.extendRun(table, a, b, lo1, hi1, lo2, hi2)
			better := !best.found ||
				rarity < best.rarity ||
				(rarity == best.rarity && length > best.length)
			if better {
				best = histogramMatch{found: true, start1: s1, start2: s2, length: length, rarity: rarity}
			}
			if s2+length-1 > b {
				b = s2 + length - 1
				advanced = true
			}
		}
		if !advanced {
			b++
		}
	}
	return best
}

func (ctx *histogramContext) histogramDiff(lo1, hi1, lo2, hi2 int) {
	if lo1 == hi1 {
		for i := lo2; i < hi2; i++ {
			ctx.rhs.consider.set(i, considerYes)
		}
		return
	}
	if lo2 == hi2 {
		for i := lo1; i < hi1; i++ {
			ctx.lhs.consider.set(i, considerYes)
		}
		return
	}

	table := newHistogramTable(ctx.mphSize)
	if !table.scanSide(ctx.lhs, lo1, hi1) {
		classicDiffRange(ctx.lhs, ctx.rhs, lo1, hi1, lo2, hi2, ctx.flags)
		return
	}

	match := ctx.scanB(table, lo1, hi1, lo2, hi2)
	if !match.found {
		for i := lo1; i < hi1; i++ {
			ctx.lhs.consider.set(i, considerYes)
		}
		for i := lo2; i < hi2; i++ {
			ctx.rhs.consider.set(i, considerYes)
		}
		return
	}

	ctx.histogramDiff(lo1, match.start1, lo2, match.start2)
	ctx.histogramDiff(match.start1+match.length, hi1, match.start2+match.length, hi2)
}

// doHistogramDiff is the engine dispatcher's entry point for a Pair
// under HistogramDiff, per §4.7.
func doHistogramDiff(lhs, rhs *fileContext, mphSize int, flags Flags) {
	ctx := &histogramContext{lhs: lhs, rhs: rhs, mphSize: mphSize, flags: flags}
	ctx.histogramDiff(0, lhs.len(), 0, rhs.len())
}
