package xdiff

// Pair groups two File Contexts plus the lengths of the matching
// prefix/suffix the optimizer trimmed and the MPH cardinality shared
// across both sides (§3).
type Pair struct {
	flags Flags

	lhs *fileContext
	rhs *fileContext

	deltaStart int
	deltaEnd   int
	mphSize    int
}

// NewPair parses a and b, assigns a shared MPH, and (on the classic
// path) runs the optimizer in a single call shared across both sides —
// mirroring the original's xdfenv construction order (§ SUPPLEMENTED
// FEATURES): build both File Contexts first, then optimize once.
func NewPair(a, b []byte, flags Flags) *Pair {
	builder := newMPHBuilder(flags, estimateRecordCount(a)+estimateRecordCount(b))
	lhsFile := buildFile(a, flags, builder)
	rhsFile := buildFile(b, flags, builder)

	p := &Pair{
		flags:   flags,
		lhs:     newFileContext(lhsFile),
		rhs:     newFileContext(rhsFile),
		mphSize: builder.size(),
	}

	if flags.algorithm() == 0 {
		p.deltaStart, p.deltaEnd = optimize(p.lhs, p.rhs, p.mphSize)
	}
	return p
}

func estimateRecordCount(blob []byte) int {
	n := 0
	for _, b := range blob {
		if b == '\n' {
			n++
		}
	}
	return n + 1
}

// Triple groups three File Contexts (base, side1, side2) plus two
// Pairs sharing the MPH cardinality across all three files (§3).
type Triple struct {
	flags Flags

	base  *fileContext
	side1 *fileContext
	side2 *fileContext

	baseSide1 *Pair
	baseSide2 *Pair

	mphSize int
}

// NewTriple parses base, side1, and side2 under one shared MPH, then
// builds the two base↔side pairs. The base File Context's records and
// MPH are shared by both pairs; consider/rindex state is independent
// per pair as §3 requires, since baseSide1/baseSide2 each own their own
// fileContext wrapping the same *File.
func NewTriple(base, side1, side2 []byte, flags Flags) *Triple {
	builder := newMPHBuilder(flags, estimateRecordCount(base)+estimateRecordCount(side1)+estimateRecordCount(side2))
	baseFile := buildFile(base, flags, builder)
	side1File := buildFile(side1, flags, builder)
	side2File := buildFile(side2, flags, builder)

	t := &Triple{
		flags:   flags,
		mphSize: builder.size(),
	}

	t.base = newFileContext(baseFile)
	t.side1 = newFileContext(side1File)
	baseForSide1 := newFileContext(baseFile)
	baseForSide2 := newFileContext(baseFile)
	t.side2 = newFileContext(side2File)

	t.baseSide1 = &Pair{flags: flags, lhs: baseForSide1, rhs: t.side1, mphSize: t.mphSize}
	t.baseSide2 = &Pair{flags: flags, lhs: baseForSide2, rhs: t.side2, mphSize: t.mphSize}

	if flags.algorithm() == 0 {
		t.baseSide1.deltaStart, t.baseSide1.deltaEnd = optimize(t.baseSide1.lhs, t.baseSide1.rhs, t.mphSize)
		t.baseSide2.deltaStart, t.baseSide2.deltaEnd = optimize(t.baseSide2.lhs, t.baseSide2.rhs, t.mphSize)
	}
	return t
}
