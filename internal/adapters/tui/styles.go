package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/carve/internal/ui/style"
)

var (
	opRunningStyle = lipgloss.NewStyle().
			Foreground(style.Iris).
			Bold(true)

	opDoneStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	opErrorStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	durationStyle = lipgloss.NewStyle().
			Foreground(style.Slate).
			Faint(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Iris).
			Foreground(style.White)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Red).
				Foreground(style.White)

	listStyle = lipgloss.NewStyle().
			MarginRight(2)

	logStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(style.Slate)
)
