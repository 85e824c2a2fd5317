package tui_test

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/carve/internal/adapters/tui"
)

func filled(t *testing.T, lines int) *tui.Vterm {
	t.Helper()
	v := tui.NewVterm()
	v.SetWidth(40)
	v.SetHeight(3)
	for i := 1; i <= lines; i++ {
		_, err := v.WriteLine(fmt.Sprintf("line%d", i))
		assert.NoError(t, err)
	}
	return v
}

func TestVterm_SticksToBottom(t *testing.T) {
	v := filled(t, 10)

	assert.Equal(t, v.MaxOffset(), v.Offset)
	assert.Contains(t, v.View(), "line10")
	assert.NotContains(t, v.View(), "line1\n")
}

func TestVterm_ScrolledViewStays(t *testing.T) {
	v := filled(t, 10)
	v.Update(tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, v.Offset)

	_, _ = v.WriteLine("line11")
	assert.Equal(t, 0, v.Offset)
	assert.Contains(t, v.View(), "line1")
}

func TestVterm_Scrolling(t *testing.T) {
	v := filled(t, 10)

	v.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, v.MaxOffset()-3, v.Offset)

	v.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	v.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, v.MaxOffset(), v.Offset, "offset is clamped")

	v.Update(tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, v.MaxOffset(), v.Offset)
}

func TestVterm_Empty(t *testing.T) {
	v := tui.NewVterm()
	assert.Equal(t, 0, v.MaxOffset())
	assert.NotContains(t, v.View(), "line")
}
