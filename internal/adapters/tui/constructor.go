// Package tui provides an interactive terminal view of an evaluation.
package tui

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/carve/internal/ui/output"
)

const defaultTickInterval = 100 * time.Millisecond

// NewModel creates a Model rendering to w (stderr when nil).
func NewModel(w io.Writer) Model {
	if w == nil {
		w = os.Stderr
	}

	out := output.NewWithProfile(w, colorProfile)
	lipgloss.SetColorProfile(out.Profile)

	return Model{
		Ops:          make([]*OpNode, 0),
		Logs:         NewVterm(),
		Output:       out,
		FollowMode:   true,
		TickInterval: defaultTickInterval,
	}
}

// colorProfile forces true colour unless NO_COLOR is set; the program owns the terminal.
func colorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.TrueColor
}

// WithDisableTick returns a copy of m without the refresh clock, for tests
// that drive the program deterministically.
func (m Model) WithDisableTick() Model {
	m.TickInterval = 0
	return m
}
