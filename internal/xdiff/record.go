package xdiff

import "bytes"

// Record is one input line: the byte range it occupies in the owning
// blob, split into the length excluding its trailing newline and the
// length including it. Records are immutable after parsing and never
// copy their bytes out of the source blob.
type Record struct {
	Offset      int
	NoEOLLen    int
	WithEOLLen  int
	sourceBlob  []byte
}

// Bytes returns the record's content, excluding the trailing newline and
// (when IgnoreCRAtEOL is active and applicable) the trailing CR.
func (r Record) Bytes() []byte {
	return r.sourceBlob[r.Offset : r.Offset+r.NoEOLLen]
}

// WithEOL returns the record's content including its trailing newline
// (or, for the final unterminated record, the same slice as Bytes).
func (r Record) WithEOL() []byte {
	return r.sourceBlob[r.Offset : r.Offset+r.WithEOLLen]
}

// IsBlank reports whether the record is empty under the given
// whitespace policy: zero bytes when no whitespace flags are set, or an
// empty token stream from the canonicalizing iterator otherwise.
func (r Record) IsBlank(flags Flags) bool {
	if flags&whitespaceFlags == 0 {
		return len(r.Bytes()) == 0
	}
	it := newWhitespaceIter(r.Bytes(), flags)
	_, ok := it.next()
	return !ok
}

// ParseRecords splits blob into Records by scanning for '\n'. The final
// record's NoEOLLen equals its WithEOLLen when the blob does not end in
// a newline. Concatenating every record's WithEOL() range reproduces
// blob exactly (the parser round-trip invariant, §8).
func ParseRecords(blob []byte, flags Flags) []Record {
	if len(blob) == 0 {
		return nil
	}

	var records []Record
	start := 0
	for start < len(blob) {
		rec := Record{Offset: start, sourceBlob: blob}

		nl := bytes.IndexByte(blob[start:], '\n')
		if nl < 0 {
			rec.NoEOLLen = len(blob) - start
			rec.WithEOLLen = rec.NoEOLLen
			start = len(blob)
		} else {
			rec.NoEOLLen = nl
			rec.WithEOLLen = nl + 1
			start += rec.WithEOLLen
		}

		if flags&IgnoreCRAtEOL != 0 && rec.NoEOLLen > 0 && blob[rec.Offset+rec.NoEOLLen-1] == '\r' {
			rec.NoEOLLen--
		}

		records = append(records, rec)
	}
	return records
}

func isSpaceByte(b byte) bool {
	switch b {
	case '\t', '\n', '\r', ' ':
		return true
	default:
		return false
	}
}

// whitespaceIter yields the canonicalized token stream for a record's
// content under the active whitespace policy (§4.2). Runs of non-space
// bytes are returned verbatim; runs of space bytes are transformed in
// IgnoreWhitespace > IgnoreWhitespaceChange > IgnoreWhitespaceAtEOL
// precedence order, falling through to verbatim when none apply.
//
// Equivalence and hashing both iterate this stream directly rather than
// materializing a canonical copy, preserving zero-copy scanning on the
// common (no-whitespace-flags) path — callers bypass the iterator
// entirely and compare/hash Bytes() when flags&whitespaceFlags == 0.
type whitespaceIter struct {
	line  []byte
	end   int
	flags Flags
	index int
}

func newWhitespaceIter(line []byte, flags Flags) *whitespaceIter {
	end := len(line)
	if flags&IgnoreCRAtEOL != 0 && end > 0 && line[end-1] == '\r' {
		end--
	}
	return &whitespaceIter{line: line, end: end, flags: flags}
}

var singleSpace = []byte{' '}

func (it *whitespaceIter) next() ([]byte, bool) {
	if it.index >= it.end {
		return nil, false
	}

	// A line with only IgnoreCRAtEOL set (no other whitespace flag) is
	// not tokenized at all: the whole (CR-trimmed) line is one token.
	if it.flags&whitespaceFlags == IgnoreCRAtEOL {
		tok := it.line[0:it.end]
		it.index = it.end
		return tok, true
	}

	for {
		start := it.index
		if it.index >= it.end {
			return nil, false
		}

		for it.index < it.end && !isSpaceByte(it.line[it.index]) {
			it.index++
		}
		if it.index > start {
			return it.line[start:it.index], true
		}

		for it.index < it.end && isSpaceByte(it.line[it.index]) {
			it.index++
		}

		atEOL := it.index >= it.end
		switch {
		case it.flags&IgnoreWhitespaceAtEOL != 0 && atEOL:
			return nil, false
		case it.flags&IgnoreWhitespace != 0:
			continue
		case it.flags&IgnoreWhitespaceChange != 0:
			if atEOL {
				continue
			}
			return singleSpace, true
		default:
			return it.line[start:it.index], true
		}
	}
}

// chunkedIterEqual reports whether two whitespace-token iterators yield
// byte-identical content overall, without ever materializing either
// side's canonicalized form. It compares chunk-by-chunk, resyncing on
// chunk-length mismatches the way two memcmp windows would.
func chunkedIterEqual(a, b *whitespaceIter) bool {
	var abuf, bbuf []byte
	for {
		if len(abuf) == 0 {
			tok, ok := a.next()
			if !ok {
				abuf = nil
			} else {
				abuf = tok
			}
			if !ok && len(bbuf) == 0 {
				_, bok := b.next()
				return !bok
			}
		}
		if len(bbuf) == 0 {
			tok, ok := b.next()
			if !ok {
				return len(abuf) == 0
			}
			bbuf = tok
		}
		if len(abuf) == 0 {
			return false
		}

		n := len(abuf)
		if len(bbuf) < n {
			n = len(bbuf)
		}
		if !bytes.Equal(abuf[:n], bbuf[:n]) {
			return false
		}
		abuf = abuf[n:]
		bbuf = bbuf[n:]
	}
}

// recordsEqual implements §4.2 record equivalence: a flat byte compare
// when no whitespace flag is active, otherwise chunked token-stream
// equality.
func recordsEqual(a, b Record, flags Flags) bool {
	if flags&whitespaceFlags == 0 {
		return bytes.Equal(a.Bytes(), b.Bytes())
	}
	ia := newWhitespaceIter(a.Bytes(), flags)
	ib := newWhitespaceIter(b.Bytes(), flags)
	return chunkedIterEqual(ia, ib)
}
