package xdiff

import (
	"bytes"
	"testing"
)

func TestParseRecordsRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte("A\nB\nC\n"),
		[]byte("A\nB\nC"),
		[]byte(""),
		[]byte("\n\n\n"),
		[]byte("single line, no newline"),
	}

	for _, blob := range cases {
		recs := ParseRecords(blob, 0)
		total := 0
		for _, r := range recs {
			total += r.WithEOLLen
		}
		if total != len(blob) {
			t.Errorf("round-trip length mismatch for %q: got %d want %d", blob, total, len(blob))
		}

		offset := 0
		for _, r := range recs {
			if !bytes.Equal(r.WithEOL(), blob[offset:offset+r.WithEOLLen]) {
				t.Errorf("round-trip content mismatch for %q at offset %d", blob, offset)
			}
			offset += r.WithEOLLen
		}
	}
}

func TestParseRecordsFinalUnterminated(t *testing.T) {
	recs := ParseRecords([]byte("A\nB"), 0)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	last := recs[1]
	if last.NoEOLLen != last.WithEOLLen {
		t.Errorf("final unterminated record: NoEOLLen=%d WithEOLLen=%d, want equal", last.NoEOLLen, last.WithEOLLen)
	}
}

func TestIgnoreCRAtEOL(t *testing.T) {
	recs := ParseRecords([]byte("foo\r\nbar\n"), IgnoreCRAtEOL)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if string(recs[0].Bytes()) != "foo" {
		t.Errorf("got %q, want %q", recs[0].Bytes(), "foo")
	}
	if recs[0].WithEOLLen != 5 {
		t.Errorf("WithEOLLen=%d, want 5 (CR stays physically present)", recs[0].WithEOLLen)
	}
}

func TestRecordsEqualWhitespacePolicies(t *testing.T) {
	cases := []struct {
		name  string
		a, b  string
		flags Flags
		want  bool
	}{
		{"no flags, identical", "int  x=1;", "int  x=1;", 0, true},
		{"no flags, different spacing", "int  x=1;", "int x=1;", 0, false},
		{"ignore whitespace, collapses all", "int  x=1;", "int x = 1 ;", IgnoreWhitespace, true},
		{"ignore whitespace change, collapses runs", "int  x = 1;", "int x = 1;", IgnoreWhitespaceChange, true},
		{"ignore whitespace change, trailing differs", "foo ", "foo", IgnoreWhitespaceChange, true},
		{"ignore whitespace at eol, interior preserved", "foo  bar ", "foo  bar", IgnoreWhitespaceAtEOL, true},
		{"ignore whitespace at eol, interior differs", "foo  bar", "foo bar", IgnoreWhitespaceAtEOL, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			blobA := []byte(c.a + "\n")
			blobB := []byte(c.b + "\n")
			ra := ParseRecords(blobA, c.flags)[0]
			rb := ParseRecords(blobB, c.flags)[0]
			got := recordsEqual(ra, rb, c.flags)
			if got != c.want {
				t.Errorf("recordsEqual(%q, %q, %d) = %v, want %v", c.a, c.b, c.flags, got, c.want)
			}
		})
	}
}
