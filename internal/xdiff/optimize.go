package xdiff

const (
	simscanWindow = 100
	kpdisRun      = 4
	maxEqLimit    = 1024
)

// trimEnds finds the longest common prefix and suffix between two
// sides by equal MPH id and returns their lengths (§4.4a). The
// returned regions are never revisited by cleanup or diffing.
func trimEnds(lhs, rhs *fileContext) (deltaStart, deltaEnd int) {
	n1, n2 := lhs.len(), rhs.len()
	limit := n1
	if n2 < limit {
		limit = n2
	}

	for deltaStart < limit && lhs.mphAt(deltaStart) == rhs.mphAt(deltaStart) {
		deltaStart++
	}

	limit -= deltaStart
	for deltaEnd < limit && lhs.mphAt(n1-1-deltaEnd) == rhs.mphAt(n2-1-deltaEnd) {
		deltaEnd++
	}
	return deltaStart, deltaEnd
}

// occurrenceTable counts, for each MPH id appearing in [lo, hi) of a
// side, how many times it occurs in that same window.
func occurrenceTable(fc *fileContext, lo, hi, mphSize int) []int32 {
	occ := make([]int32, mphSize)
	for i := lo; i < hi; i++ {
		occ[fc.mphAt(i)]++
	}
	return occ
}

// cleanupRecords implements §4.4b: classify every position in
// [deltaStart, len-deltaEnd) as NO/YES/TOO_MANY by cross-side
// occurrence count, push survivors into rindex, and mark discarded
// positions as changed (consider=YES) immediately.
func cleanupRecords(lhs, rhs *fileContext, deltaStart, deltaEnd, mphSize int) {
	cleanupSide(lhs, rhs, deltaStart, deltaEnd, mphSize)
	cleanupSide(rhs, lhs, deltaStart, deltaEnd, mphSize)
}

func cleanupSide(self, other *fileContext, deltaStart, deltaEnd, mphSize int) {
	lo, hi := deltaStart, self.len()-deltaEnd
	otherLo, otherHi := deltaStart, other.len()-deltaEnd
	occ := occurrenceTable(other, otherLo, otherHi, mphSize)

	selfLen := hi - lo
	limit := bogosqrt(selfLen)
	if limit > maxEqLimit {
		limit = maxEqLimit
	}
	if limit < 1 {
		limit = 1
	}

	dis := make([]considerState, self.len())
	for i := lo; i < hi; i++ {
		nm := int(occ[self.mphAt(i)])
		switch {
		case nm == 0:
			dis[i] = considerNo
		case nm >= limit:
			dis[i] = considerTooMany
		default:
			dis[i] = considerYes
		}
	}

	for i := lo; i < hi; i++ {
		switch dis[i] {
		case considerYes:
			self.rindex = append(self.rindex, i)
		case considerTooMany:
			if !cleanMMatch(dis, lo, hi, i) {
				self.rindex = append(self.rindex, i)
			} else {
				self.consider.set(i, considerYes)
			}
		default:
			self.consider.set(i, considerYes)
		}
	}
}

// cleanMMatch decides whether a TOO_MANY position i should be kept
// out of rindex (return true) because it sits inside a run dominated
// by no-match/multimatch neighbors on both sides, per §4.4's
// rdis/rpdis scan.
func cleanMMatch(dis []considerState, lo, hi, i int) bool {
	rdisLeft, rpdisLeft := scanMMatch(dis, lo, i, -1)
	rdisRight, rpdisRight := scanMMatch(dis, hi, i, 1)

	if rdisLeft == 0 || rdisRight == 0 {
		return false
	}

	rpdisTotal := rpdisLeft + rpdisRight
	rdisTotal := rdisLeft + rdisRight
	return rpdisTotal*kpdisRun < rpdisTotal+rdisTotal
}

// scanMMatch walks at most simscanWindow positions from i in the given
// direction (-1 left, +1 right) within [lo, hi), counting NO positions
// (rdis) and TOO_MANY positions (rpdis, seeded at 1). It stops early,
// reporting rdis=0, when it hits a YES position while rdis is still 0
// (a genuine nearby match means the line should be kept).
func scanMMatch(dis []considerState, bound, i, dir int) (rdis, rpdis int) {
	rpdis = 1
	pos := i + dir
	steps := 0
	for steps < simscanWindow {
		if dir < 0 {
			if pos < bound {
				break
			}
		} else {
			if pos >= bound {
				break
			}
		}
		switch dis[pos] {
		case considerNo:
			rdis++
		case considerTooMany:
			rpdis++
		case considerYes:
			if rdis == 0 {
				return 0, rpdis
			}
			return rdis, rpdis
		}
		pos += dir
		steps++
	}
	return rdis, rpdis
}

// optimize runs trimEnds then cleanupRecords over a pair of file
// contexts sharing mphSize, per §4.4. It is only invoked on the
// classic path; Patience and Histogram operate on unoptimized
// contexts.
func optimize(lhs, rhs *fileContext, mphSize int) (deltaStart, deltaEnd int) {
	deltaStart, deltaEnd = trimEnds(lhs, rhs)
	cleanupRecords(lhs, rhs, deltaStart, deltaEnd, mphSize)
	return deltaStart, deltaEnd
}
