package main

import (
	"fmt"
	"strings"

	"github.com/rybkr/xdiff/internal/termcolor"
	"github.com/rybkr/xdiff/internal/xdiff"
)

func printUnifiedDiff(p *xdiff.Pair, script *xdiff.ChangeScript, nameA, nameB string, cw *termcolor.Writer) int {
	fmt.Print(renderUnifiedDiff(p, script, nameA, nameB, cw))
	if script.Head == nil {
		return 0
	}
	return 1
}

// renderUnifiedDiff walks the change script emitting one hunk per
// Change, with a fixed 3-line context window pulled from the base
// (lhs) side for unchanged records around each run.
func renderUnifiedDiff(p *xdiff.Pair, script *xdiff.ChangeScript, nameA, nameB string, cw *termcolor.Writer) string {
	if script.Head == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintln(&sb, cw.Bold(fmt.Sprintf("--- %s", nameA)))
	fmt.Fprintln(&sb, cw.Bold(fmt.Sprintf("+++ %s", nameB)))

	lhs := p.LHS()
	rhs := p.RHS()

	const context = 3

	for ch := script.Head; ch != nil; ch = ch.Next {
		ctxStart1 := max(0, ch.I1-context)
		ctxEnd1 := min(len(lhs.Records), ch.I1+ch.Chg1+context)
		ctxStart2 := max(0, ch.I2-context)
		ctxEnd2 := min(len(rhs.Records), ch.I2+ch.Chg2+context)

		fmt.Fprintln(&sb, cw.Cyan(fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			ctxStart1+1, ctxEnd1-ctxStart1, ctxStart2+1, ctxEnd2-ctxStart2)))

		for i := ctxStart1; i < ch.I1; i++ {
			fmt.Fprintf(&sb, " %s\n", strings.TrimRight(string(lhs.Records[i].Bytes()), "\r"))
		}
		for i := ch.I1; i < ch.I1+ch.Chg1; i++ {
			fmt.Fprintln(&sb, cw.Red(fmt.Sprintf("-%s", strings.TrimRight(string(lhs.Records[i].Bytes()), "\r"))))
		}
		for i := ch.I2; i < ch.I2+ch.Chg2; i++ {
			fmt.Fprintln(&sb, cw.Green(fmt.Sprintf("+%s", strings.TrimRight(string(rhs.Records[i].Bytes()), "\r"))))
		}
		for i := ch.I1 + ch.Chg1; i < ctxEnd1; i++ {
			fmt.Fprintf(&sb, " %s\n", strings.TrimRight(string(lhs.Records[i].Bytes()), "\r"))
		}
	}

	return sb.String()
}
