package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rybkr/xdiff/internal/cli"
	"github.com/rybkr/xdiff/internal/progress"
	"github.com/rybkr/xdiff/internal/termcolor"
	"github.com/rybkr/xdiff/internal/xdiff"
)

func diffCommand() *cli.Command {
	return &cli.Command{
		Name:    "diff",
		Summary: "Compute a line-oriented diff between two files",
		Usage:   "xdiff diff [flags] <file1> <file2> | xdiff diff --batch <manifest>",
		Examples: []string{
			"xdiff diff a.txt b.txt",
			"xdiff diff --patience a.txt b.txt",
			"xdiff diff --batch pairs.txt",
		},
		Run: runDiff,
	}
}

func runDiff(args []string) int {
	var (
		patience  bool
		histogram bool
		ignoreWS  bool
		batch     bool
		anchors   []string
	)

	var files []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--patience":
			patience = true
		case "--histogram":
			histogram = true
		case "--ignore-all-space":
			ignoreWS = true
		case "--batch":
			batch = true
		case "--anchor":
			i++
			if i < len(args) {
				anchors = append(anchors, args[i])
			}
		default:
			files = append(files, args[i])
		}
	}

	var flags xdiff.Flags
	if patience {
		flags |= xdiff.PatienceDiff
	}
	if histogram {
		flags |= xdiff.HistogramDiff
	}
	if ignoreWS {
		flags |= xdiff.IgnoreWhitespace
	}

	cw := termcolor.NewWriter(os.Stdout, termcolor.ColorAuto)

	var anchorBytes xdiff.Anchors
	for _, a := range anchors {
		anchorBytes = append(anchorBytes, []byte(a))
	}

	if batch {
		return runDiffBatch(files, flags, anchorBytes, cw)
	}

	if len(files) != 2 {
		fmt.Fprintln(os.Stderr, "usage: xdiff diff [flags] <file1> <file2>")
		return 1
	}

	spin := progress.New("Computing diff...")
	spin.Start()
	a, err := os.ReadFile(files[0])
	if err != nil {
		spin.Stop()
		fatalf("%v", err)
	}
	b, err := os.ReadFile(files[1])
	if err != nil {
		spin.Stop()
		fatalf("%v", err)
	}

	p := xdiff.NewPair(a, b, flags)
	script := xdiff.Diff(p, anchorBytes)
	spin.Stop()

	return printUnifiedDiff(p, script, files[0], files[1], cw)
}

// runDiffBatch diffs every file pair listed in a manifest (see
// readManifest) concurrently via an errgroup, printing results in
// manifest order once every pair has finished.
func runDiffBatch(files []string, flags xdiff.Flags, anchors xdiff.Anchors, cw *termcolor.Writer) int {
	if len(files) != 1 {
		fmt.Fprintln(os.Stderr, "usage: xdiff diff --batch <manifest>")
		return 1
	}

	pairs, err := readManifest(files[0])
	if err != nil {
		fatalf("%v", err)
	}

	results := make([]string, len(pairs))
	var g errgroup.Group
	g.SetLimit(8)

	for i, pr := range pairs {
		i, pr := i, pr
		g.Go(func() error {
			a, err := os.ReadFile(pr.left)
			if err != nil {
				return err
			}
			b, err := os.ReadFile(pr.right)
			if err != nil {
				return err
			}
			p := xdiff.NewPair(a, b, flags)
			script := xdiff.Diff(p, anchors)
			if script.Head == nil {
				return nil
			}
			results[i] = renderUnifiedDiff(p, script, pr.left, pr.right, cw)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		fatalf("%v", err)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, r := range results {
		if r != "" {
			fmt.Fprint(w, r)
		}
	}
	return 0
}

type filePair struct{ left, right string }

// readManifest parses a newline-delimited list of "left\tright" file
// pairs. Blank lines and lines starting with "#" are skipped.
func readManifest(path string) ([]filePair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pairs []filePair
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed manifest line (want left<TAB>right): %q", line)
		}
		pairs = append(pairs, filePair{left: fields[0], right: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}
