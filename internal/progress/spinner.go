// Package progress provides terminal progress indicators.
package progress

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/rybkr/xdiff/internal/termcolor"
)

// Spinner displays an animated spinner on stderr while a long-running
// operation (building the MPH, running a diff engine over a large
// pair, walking a merge's conflict list) is in progress. It is only
// displayed when stderr is a TTY; in non-interactive environments
// (piped output, CI, batch mode) it is silent.
type Spinner struct {
	msg     string
	printer *pterm.SpinnerPrinter
	active  bool
}

// New creates a Spinner that will display msg alongside the animation.
func New(msg string) *Spinner {
	return &Spinner{msg: msg}
}

// Start begins the spinner animation. It writes to stderr so it never
// pollutes stdout, which may be a diff or merge result being piped
// onward.
func (s *Spinner) Start() {
	if !termcolor.IsTerminal(os.Stderr.Fd()) {
		return
	}
	printer := pterm.DefaultSpinner.WithWriter(os.Stderr)
	p, err := printer.Start(s.msg)
	if err != nil {
		return
	}
	s.printer = p
	s.active = true
}

// Stop halts the spinner animation and clears the line.
func (s *Spinner) Stop() {
	if !s.active {
		return
	}
	_ = s.printer.Stop()
	s.active = false
}
