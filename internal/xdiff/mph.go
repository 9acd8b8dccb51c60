package xdiff

import "github.com/cespare/xxhash/v2"

// mphBuilder assigns a dense, first-appearance-ordered integer id (the
// "minimal perfect hash", §4.3) to each distinct record it sees across
// both sides of a Pair or all three sides of a Triple. Ids start at 0
// and are stable for the lifetime of the builder: once assigned, a
// record's id never changes, even as later records extend the table.
//
// The builder owns a bucket-chain hash table keyed by the
// whitespace-canonicalized content hash, resolving collisions by
// walking the chain and comparing with recordsEqual. Capacity is
// reserved up front from the caller's estimate so that ids remain
// stable across the whole build (no bucket-table rehash ever moves an
// id once issued).
type mphBuilder struct {
	flags   Flags
	buckets []int32 // hash % len(buckets) -> head chain index, or -1
	chain   []int32 // entry index -> next entry index in its bucket, or -1
	recs    []Record
	hashes  []uint64
}

const mphNoEntry = -1

// newMPHBuilder reserves capacityHint entries; growth beyond the hint
// still works (the backing slices simply reallocate) but ids remain
// stable regardless, since growth never reorders existing entries.
func newMPHBuilder(flags Flags, capacityHint int) *mphBuilder {
	if capacityHint < 16 {
		capacityHint = 16
	}
	nbuckets := 1
	for nbuckets < capacityHint*2 {
		nbuckets <<= 1
	}
	b := &mphBuilder{
		flags:   flags,
		buckets: make([]int32, nbuckets),
		chain:   make([]int32, 0, capacityHint),
		recs:    make([]Record, 0, capacityHint),
		hashes:  make([]uint64, 0, capacityHint),
	}
	for i := range b.buckets {
		b.buckets[i] = mphNoEntry
	}
	return b
}

func (b *mphBuilder) hashRecord(r Record) uint64 {
	if b.flags&whitespaceFlags == 0 {
		return xxhash.Sum64(r.Bytes())
	}
	var h xxhash.Digest
	h.Reset()
	it := newWhitespaceIter(r.Bytes(), b.flags)
	for {
		tok, ok := it.next()
		if !ok {
			break
		}
		h.Write(tok)
	}
	return h.Sum64()
}

// assign returns r's minimal perfect hash id, creating a new entry on
// first appearance. Appearance order across calls determines id order:
// the first distinct record seen gets id 0, the next distinct record
// gets id 1, and so on, regardless of which side of the Pair/Triple it
// came from.
func (b *mphBuilder) assign(r Record) int32 {
	h := b.hashRecord(r)
	idx := int(h % uint64(len(b.buckets)))

	for e := b.buckets[idx]; e != mphNoEntry; e = b.chain[e] {
		if b.hashes[e] == h && recordsEqual(b.recs[e], r, b.flags) {
			return e
		}
	}

	e := int32(len(b.recs))
	b.recs = append(b.recs, r)
	b.hashes = append(b.hashes, h)
	b.chain = append(b.chain, b.buckets[idx])
	b.buckets[idx] = e

	if int(e) > len(b.buckets) {
		b.rehash()
	}
	return e
}

// size reports the number of distinct ids issued so far.
func (b *mphBuilder) size() int { return len(b.recs) }

func (b *mphBuilder) rehash() {
	nbuckets := len(b.buckets) * 2
	newBuckets := make([]int32, nbuckets)
	for i := range newBuckets {
		newBuckets[i] = mphNoEntry
	}
	for e, h := range b.hashes {
		idx := int(h % uint64(nbuckets))
		b.chain[e] = newBuckets[idx]
		newBuckets[idx] = int32(e)
	}
	b.buckets = newBuckets
}
