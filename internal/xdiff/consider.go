package xdiff

// considerState classifies a single record's role in the edit script
// during optimization and diffing (§4.4).
type considerState int8

const (
	// considerNo marks a record as not yet decided, or decided
	// unchanged, depending on phase; classic diff treats it as a
	// candidate match.
	considerNo considerState = 0
	// considerYes marks a record as forced into the change script
	// (patience/histogram fallback regions, or optimizer decisions).
	considerYes considerState = 1
	// considerTooMany marks a record whose content is so common that
	// the optimizer gave up trying to find a useful match for it (the
	// XDL_MAX_EQLIMIT cap, §4.4).
	considerTooMany considerState = 2
)

// sentinelShift is the constant offset (§4.1's "SENTINEL=1") applied to
// every consider-array index: index 0 is a permanent guard slot so that
// loops walking "one before the current position" never underflow.
const sentinelShift = 1

// considerArray is a sentinel-padded store of per-record
// classification state. get and set take a 0-based record index and
// apply sentinelShift, so data[i] holds record i-1 of the owning File;
// data[0] and the one-past-the-end slot are guard slots
// that are always considerNo and are never written by diff logic,
// matching the original's SENTINEL-shifted C array convention.
type considerArray struct {
	data []considerState
}

func newConsiderArray(n int) considerArray {
	return considerArray{data: make([]considerState, n+2*sentinelShift)}
}

func (c considerArray) get(i int) considerState { return c.data[i+sentinelShift] }
func (c considerArray) set(i int, s considerState) { c.data[i+sentinelShift] = s }
func (c considerArray) len() int { return len(c.data) - 2*sentinelShift }
