// Package linear provides a synchronous, line-oriented renderer for CI environments.
package linear

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/carve/internal/ui/output"
	"go.trai.ch/carve/internal/ui/style"
)

// Renderer implements ports.Renderer with chronological log lines.
// Progress goes to stderr; lines printed by the script go to stdout.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	started time.Time
	script  string
	ops     map[int]opState
	done    int
}

type opState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a Renderer. Nil writers fall back to os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		output: output.NewWithProfile(stderr, output.ColorProfileANSI),
		ops:    make(map[int]opState),
	}
}

// Start is a no-op for the linear renderer.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop is a no-op: every event is written when it arrives.
func (r *Renderer) Stop() error {
	return nil
}

// Wait is a no-op for the linear renderer.
func (r *Renderer) Wait() error {
	return nil
}

// OnEvaluationStart prints the script being evaluated.
func (r *Renderer) OnEvaluationStart(script string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.started = startTime
	r.script = filepath.Base(script)
	r.ops = make(map[int]opState)
	r.done = 0

	_, _ = fmt.Fprintf(r.stderr, "Evaluating %s\n", r.script)
}

// OnOpStart records the operation; it is printed once it completes.
func (r *Renderer) OnOpStart(opNumber int, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ops[opNumber] = opState{name: name, startTime: startTime}
}

// OnOpComplete prints the finished operation with its duration.
func (r *Renderer) OnOpComplete(opNumber int, endTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.ops[opNumber]
	if !ok {
		return
	}
	delete(r.ops, opNumber)
	r.done++

	symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s %v\n", r.prefix(opNumber, op.name), symbol, endTime.Sub(op.startTime))
}

// OnLog prints a line from the script to stdout.
func (r *Renderer) OnLog(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintln(r.stdout, strings.TrimRight(message, "\r\n"))
}

// OnEvaluationComplete reports operations still open and the final status.
func (r *Renderer) OnEvaluationComplete(endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	duration := endTime.Sub(r.started)

	if err != nil {
		cross := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		for _, number := range slices.Sorted(maps.Keys(r.ops)) {
			op := r.ops[number]
			_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v\n",
				r.prefix(number, op.name), cross, endTime.Sub(op.startTime))
		}
		_, _ = fmt.Fprintf(r.stderr, "%s %s failed after %v: %v\n", cross, r.script, duration, err)
	} else {
		check := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s: %d operation(s) in %v\n", check, r.script, r.done+len(r.ops), duration)
	}

	r.ops = make(map[int]opState)
}

func (r *Renderer) prefix(number int, name string) string {
	return r.output.String(fmt.Sprintf("[#%d %s]", number, name)).Faint().String()
}
