package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/carve/internal/ui/style"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.opList(),
		m.logPane(),
	)
}

func (m *Model) opList() string {
	var s strings.Builder

	s.WriteString(m.header() + "\n\n")

	start := min(m.ListOffset, len(m.Ops))
	end := min(m.ListOffset+m.ListHeight, len(m.Ops))
	for i := start; i < end; i++ {
		s.WriteString(m.renderOpRow(i, m.Ops[i]) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) header() string {
	switch {
	case !m.Finished:
		return titleStyle.Render(fmt.Sprintf("EVALUATING %s %s", m.Script, formatDuration(m.Now.Sub(m.Started))))
	case m.Err != nil:
		return failureTitleStyle.Render(fmt.Sprintf("%s FAILED %s", style.Cross, m.Script))
	default:
		return titleStyle.Render(fmt.Sprintf("%s DONE %s %d ops %s",
			style.Check, m.Script, len(m.Ops), formatDuration(m.Now.Sub(m.Started))))
	}
}

func (m *Model) renderOpRow(index int, op *OpNode) string {
	cursor := "  "
	if index == m.SelectedIdx {
		cursor = opRunningStyle.Render("> ")
	}

	var icon string
	var rowStyle lipgloss.Style
	elapsed := op.Duration
	switch op.Status {
	case StatusRunning:
		icon, rowStyle = style.Dot, opRunningStyle
		elapsed = m.Now.Sub(op.Start)
	case StatusError:
		icon, rowStyle = style.Cross, opErrorStyle
	default:
		icon, rowStyle = style.Check, opDoneStyle
	}

	row := rowStyle.Render(fmt.Sprintf("%s #%d %s", icon, op.Number, op.Name))
	return cursor + row + " " + durationStyle.Render(formatDuration(elapsed))
}

func (m *Model) logPane() string {
	header := titleStyle.Render("OUTPUT")
	if m.Err != nil {
		header = failureTitleStyle.Render("OUTPUT")
	}

	content := m.Logs.View()
	if m.Err != nil {
		errLine := opErrorStyle.Render(m.Err.Error())
		if content != "" {
			content += "\n"
		}
		content += errLine
	}

	return logStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, content))
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}
