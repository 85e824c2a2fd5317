package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	opListWidthRatio   = 0.35
	logPaneBorderWidth = 4
)

// OpStatus is the state of one kernel operation in the list.
type OpStatus string

const (
	// StatusRunning marks the operation the worker is executing.
	StatusRunning OpStatus = "Running"
	// StatusDone marks a finished operation.
	StatusDone OpStatus = "Done"
	// StatusError marks the operation that was running when the evaluation failed.
	StatusError OpStatus = "Error"
)

// OpNode is one row of the operation list.
type OpNode struct {
	Number   int
	Name     string
	Status   OpStatus
	Start    time.Time
	Duration time.Duration
}

// Model is the Bubble Tea model of an evaluation: an operation list on the
// left and the script's printed output on the right.
type Model struct {
	Script   string
	Started  time.Time
	Now      time.Time
	Finished bool
	Err      error
	Runs     int

	Ops         []*OpNode
	SelectedIdx int
	ListOffset  int
	ListHeight  int
	FollowMode  bool

	Logs      *Vterm
	LogWidth  int
	LogHeight int

	Output       *termenv.Output
	TickInterval time.Duration
}

// Init starts the clock that refreshes running durations.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	if m.TickInterval <= 0 {
		return nil
	}
	return tea.Tick(m.TickInterval, func(t time.Time) tea.Msg {
		return msgTick(t)
	})
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // one case per message kind
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		listWidth := int(float64(msg.Width) * opListWidthRatio)
		headerHeight := lipgloss.Height(titleStyle.Render("OPS") + "\n\n")

		m.LogWidth = msg.Width - listWidth - logPaneBorderWidth
		m.LogHeight = msg.Height - headerHeight
		m.ListHeight = msg.Height - headerHeight
		m.Logs.SetWidth(m.LogWidth)
		m.Logs.SetHeight(m.LogHeight)
		m.ensureVisible()

	case msgTick:
		m.Now = time.Time(msg)
		return m, m.tick()

	case msgEvalStart:
		if m.Runs > 0 {
			_, _ = m.Logs.WriteLine("")
		}
		m.Runs++
		m.Script = msg.Script
		m.Started = msg.StartTime
		m.Now = msg.StartTime
		m.Finished = false
		m.Err = nil
		m.Ops = m.Ops[:0]
		m.SelectedIdx = 0
		m.ListOffset = 0

	case msgOpStart:
		m.Ops = append(m.Ops, &OpNode{
			Number: msg.Number,
			Name:   msg.Name,
			Status: StatusRunning,
			Start:  msg.StartTime,
		})
		if m.FollowMode {
			m.SelectedIdx = len(m.Ops) - 1
			m.ensureVisible()
		}

	case msgOpComplete:
		if node := m.findOp(msg.Number); node != nil && node.Status == StatusRunning {
			node.Status = StatusDone
			node.Duration = msg.EndTime.Sub(node.Start)
		}

	case msgLog:
		_, _ = m.Logs.WriteLine(msg.Message)

	case msgEvalComplete:
		m.Finished = true
		m.Err = msg.Err
		m.Now = msg.EndTime
		for _, node := range m.Ops {
			if node.Status != StatusRunning {
				continue
			}
			node.Duration = msg.EndTime.Sub(node.Start)
			node.Status = StatusDone
			if msg.Err != nil {
				node.Status = StatusError
			}
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.FollowMode = false
			m.ensureVisible()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.Ops)-1 {
			m.SelectedIdx++
			m.FollowMode = false
			m.ensureVisible()
		}
	case "esc":
		m.FollowMode = true
		if len(m.Ops) > 0 {
			m.SelectedIdx = len(m.Ops) - 1
		}
		m.ensureVisible()
	default:
		m.Logs.Update(msg)
	}
	return nil
}

// findOp searches from the end: the running operation is almost always last.
func (m *Model) findOp(number int) *OpNode {
	for i := len(m.Ops) - 1; i >= 0; i-- {
		if m.Ops[i].Number == number {
			return m.Ops[i]
		}
	}
	return nil
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}
