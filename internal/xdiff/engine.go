package xdiff

// runEngine populates p's consider arrays with YES on every changed
// line by dispatching to the engine the flags select. Classic is the
// default; it is the only engine the optimizer runs ahead of, so the
// trim/cleanup regions are already marked before this call (§4.4).
func runEngine(p *Pair) {
	switch p.flags.algorithm() {
	case PatienceDiff:
		doPatienceDiff(p.lhs, p.rhs, nil, p.flags)
	case HistogramDiff:
		doHistogramDiff(p.lhs, p.rhs, p.mphSize, p.flags)
	default:
		classicDiff(rindexSeq(p.lhs), rindexSeq(p.rhs), p.flags)
	}
}

// runEngineWithAnchors is runEngine plus Patience anchor prefixes; the
// other two engines ignore anchors entirely.
func runEngineWithAnchors(p *Pair, anchors [][]byte) {
	switch p.flags.algorithm() {
	case PatienceDiff:
		doPatienceDiff(p.lhs, p.rhs, anchors, p.flags)
	case HistogramDiff:
		doHistogramDiff(p.lhs, p.rhs, p.mphSize, p.flags)
	default:
		classicDiff(rindexSeq(p.lhs), rindexSeq(p.rhs), p.flags)
	}
}
