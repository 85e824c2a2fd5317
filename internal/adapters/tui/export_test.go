package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func EvalStart(script string, at time.Time) tea.Msg {
	return msgEvalStart{Script: script, StartTime: at}
}

func OpStart(n int, name string, at time.Time) tea.Msg {
	return msgOpStart{Number: n, Name: name, StartTime: at}
}

func OpComplete(n int, at time.Time) tea.Msg {
	return msgOpComplete{Number: n, EndTime: at}
}

func Log(line string) tea.Msg {
	return msgLog{Message: line}
}

func EvalComplete(at time.Time, err error) tea.Msg {
	return msgEvalComplete{EndTime: at, Err: err}
}

func Tick(at time.Time) tea.Msg {
	return msgTick(at)
}
