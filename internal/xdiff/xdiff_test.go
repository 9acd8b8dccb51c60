package xdiff

import "testing"

func scriptChanges(s *ChangeScript) []Change {
	var out []Change
	for ch := s.Head; ch != nil; ch = ch.Next {
		out = append(out, *ch)
	}
	return out
}

func TestDiffTrivialInsertion(t *testing.T) {
	a := []byte("A\nB\nC\n")
	b := []byte("A\nX\nB\nC\n")

	for _, algo := range []Flags{0, PatienceDiff, HistogramDiff} {
		p := NewPair(a, b, algo)
		script := Diff(p, nil)
		changes := scriptChanges(script)
		if len(changes) != 1 {
			t.Fatalf("algo %d: got %d changes, want 1: %+v", algo, len(changes), changes)
		}
		ch := changes[0]
		if ch.I1 != 1 || ch.I2 != 1 || ch.Chg1 != 0 || ch.Chg2 != 1 {
			t.Errorf("algo %d: got %+v, want {I1:1 I2:1 Chg1:0 Chg2:1}", algo, ch)
		}
	}
}

func TestDiffIgnoreWhitespace(t *testing.T) {
	a := []byte("int  x=1;\n")
	b := []byte("int x = 1;\n")

	for _, algo := range []Flags{0, PatienceDiff, HistogramDiff} {
		p := NewPair(a, b, algo|IgnoreWhitespace)
		script := Diff(p, nil)
		if script.Head != nil {
			t.Errorf("algo %d: got non-empty script %+v, want empty", algo, scriptChanges(script))
		}
	}
}

func TestDiffTrailingCRPolicy(t *testing.T) {
	a := []byte("foo\r\nbar\n")
	b := []byte("foo\nbar\n")

	p := NewPair(a, b, IgnoreCRAtEOL)
	if script := Diff(p, nil); script.Head != nil {
		t.Errorf("with IgnoreCRAtEOL: got non-empty script %+v, want empty", scriptChanges(script))
	}

	p2 := NewPair(a, b, 0)
	script2 := Diff(p2, nil)
	changes := scriptChanges(script2)
	if len(changes) != 1 || changes[0].I1 != 0 {
		t.Errorf("without IgnoreCRAtEOL: got %+v, want one change at line 0", changes)
	}
}

func TestDiffIdenticalInputsEmpty(t *testing.T) {
	inputs := [][]byte{
		[]byte("A\nB\nC\n"),
		[]byte(""),
		[]byte("same\nsame\nsame\n"),
	}
	for _, in := range inputs {
		for _, algo := range []Flags{0, PatienceDiff, HistogramDiff} {
			p := NewPair(in, in, algo)
			if script := Diff(p, nil); script.Head != nil {
				t.Errorf("algo %d, input %q: diff(X,X) produced %+v, want empty", algo, in, scriptChanges(script))
			}
		}
	}
}

func TestPatienceAnchor(t *testing.T) {
	a := []byte("h1\nh2\nh3\n")
	b := []byte("h2\nh1\nh3\n")

	p := NewPair(a, b, PatienceDiff)
	script := Diff(p, Anchors{[]byte("h1")})
	changes := scriptChanges(script)
	if len(changes) == 0 {
		t.Fatal("got empty script, want at least one change around the reordering")
	}
	// h1 is anchored, so it must not appear inside any changed range: it
	// stays aligned to itself rather than being folded into a reorder of
	// the whole h1/h2 pair.
	for _, ch := range changes {
		if ch.I1 <= 0 && 0 < ch.I1+ch.Chg1 {
			t.Errorf("anchored line h1 (base index 0) fell inside changed range %+v", ch)
		}
	}
}

func TestHistogramChainOverflowFallback(t *testing.T) {
	var a []byte
	for i := 0; i < maxChainLength; i++ {
		a = append(a, []byte("x\n")...)
	}
	a = append(a, []byte("y\n")...)

	b := append([]byte("y\n"), a[:len(a)-len("y\n")]...)

	p := NewPair(a, b, HistogramDiff)
	script := Diff(p, nil)
	if script.Head == nil {
		t.Fatal("expected a non-empty change script after chain-overflow fallback to classic")
	}
}

func TestThreeWayCleanMerge(t *testing.T) {
	base := []byte("L1\nL2\nL3\n")
	side1 := []byte("L1\nL2a\nL3\n")
	side2 := []byte("L1\nL2\nL3b\n")

	styles := []MergeStyle{StylePlain, StyleDiff3, StyleZealousDiff3}
	levels := []MergeLevel{MergeMinimal, MergeEager, MergeZealous, MergeZealousAlnum}

	for _, style := range styles {
		for _, level := range levels {
			tr := NewTriple(base, side1, side2, 0)
			result := Merge(tr, MergeConfig{Style: style, Level: level})
			if result.ConflictCount != 0 {
				t.Errorf("style=%d level=%d: got %d conflicts, want 0", style, level, result.ConflictCount)
			}
			want := "L1\nL2a\nL3b\n"
			if string(result.Buffer) != want {
				t.Errorf("style=%d level=%d: got %q, want %q", style, level, result.Buffer, want)
			}
		}
	}
}

func TestMergeConflictFreeIdentity(t *testing.T) {
	x := []byte("A\nB\nC\nD\n")
	for _, favor := range []MergeFavor{FavorNone, FavorOurs, FavorTheirs, FavorUnion} {
		tr := NewTriple(x, x, x, 0)
		result := Merge(tr, MergeConfig{Favor: favor})
		if string(result.Buffer) != string(x) {
			t.Errorf("favor=%d: merge(X,X,X) = %q, want %q", favor, result.Buffer, x)
		}
		if result.ConflictCount != 0 {
			t.Errorf("favor=%d: got %d conflicts, want 0", favor, result.ConflictCount)
		}
	}
}

func TestMergeFavorOursDisjointRegions(t *testing.T) {
	base := []byte("A\nB\nC\nD\nE\n")
	side1 := []byte("A1\nB\nC\nD\nE\n")
	side2 := []byte("A\nB\nC\nD\nE1\n")

	tr := NewTriple(base, side1, side2, 0)
	result := Merge(tr, MergeConfig{Favor: FavorOurs})
	if string(result.Buffer) != string(side1) {
		t.Errorf("favor=OURS on disjoint edits: got %q, want side1 %q", result.Buffer, side1)
	}
}

func TestMergeConflictMarkers(t *testing.T) {
	base := []byte("A\nB\nC\n")
	side1 := []byte("A\nB1\nC\n")
	side2 := []byte("A\nB2\nC\n")

	tr := NewTriple(base, side1, side2, 0)
	result := Merge(tr, MergeConfig{Style: StyleDiff3, MarkerSize: 7})
	if result.ConflictCount != 1 {
		t.Fatalf("got %d conflicts, want 1", result.ConflictCount)
	}
	buf := string(result.Buffer)
	for _, marker := range []string{"<<<<<<<", "|||||||", "=======", ">>>>>>>"} {
		if !containsString(buf, marker) {
			t.Errorf("merge buffer missing marker %q: %q", marker, buf)
		}
	}
}

func containsString(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

func TestMPHDensity(t *testing.T) {
	a := []byte("x\ny\nx\nz\n")
	b := []byte("x\nw\n")
	p := NewPair(a, b, 0)

	seen := make(map[int32]bool)
	for _, f := range []*File{p.LHS(), p.RHS()} {
		for _, id := range f.mph {
			seen[id] = true
		}
	}
	if len(seen) != p.mphSize {
		t.Errorf("distinct ids seen=%d, mphSize=%d, want equal", len(seen), p.mphSize)
	}
	for id := range seen {
		if id < 0 || int(id) >= p.mphSize {
			t.Errorf("id %d out of range [0,%d)", id, p.mphSize)
		}
	}
}
