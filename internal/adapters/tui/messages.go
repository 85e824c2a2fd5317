package tui

import "time"

// Messages sent to the Bubble Tea program by Renderer.

type msgEvalStart struct {
	Script    string
	StartTime time.Time
}

type msgOpStart struct {
	Number    int
	Name      string
	StartTime time.Time
}

type msgOpComplete struct {
	Number  int
	EndTime time.Time
}

type msgLog struct {
	Message string
}

type msgEvalComplete struct {
	EndTime time.Time
	Err     error
}

type msgTick time.Time
