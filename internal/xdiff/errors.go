package xdiff

import "errors"

// These sentinels name the two error kinds §7 calls user-observable;
// everything else (desync, invalid handle) is an invariant and panics
// instead of returning an error. No function in this package returns
// either sentinel: Diff and Merge have no error result, an allocation
// failure is a Go runtime fatal error, and chain overflow is always
// recovered internally by falling back to classic diff (histogram.go).
var (
	// ErrOutOfMemory names the out-of-memory error kind for scratch,
	// MPH table, or emission buffer allocation.
	ErrOutOfMemory = errors.New("xdiff: out of memory")
	// ErrChainOverflow would be returned if histogram chain overflow
	// ever needed to surface past its internal classic-diff fallback.
	ErrChainOverflow = errors.New("xdiff: histogram chain overflow")
)
