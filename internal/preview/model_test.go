package preview

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/blinkr/internal/blink"
	"github.com/jmylchreest/blinkr/internal/monitor"
)

type fakeControls struct {
	toggles int
	blinks  int
}

func (f *fakeControls) TogglePause() { f.toggles++ }
func (f *fakeControls) BlinkNow()    { f.blinks++ }

func sized(t *testing.T, m Model, width, height int) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return next.(Model)
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func countBarRows(view string) int {
	n := 0
	for line := range strings.SplitSeq(view, "\n") {
		if strings.Contains(line, barChar) {
			n++
		}
	}
	return n
}

func TestModel_NotReadyBeforeSize(t *testing.T) {
	m := NewModel(nil, blink.DefaultOptions())
	assert.Equal(t, "Initializing...", m.View())
}

func TestModel_BarsFollowProgress(t *testing.T) {
	m := sized(t, NewModel(nil, blink.DefaultOptions()), 20, 24)
	footer := m.statusLine() + "\n" + m.help.View(m.keys)
	rows := m.height - strings.Count(footer, "\n") - 1

	tests := []struct {
		name     string
		visible  bool
		progress float64
	}{
		{"hidden", false, 1},
		{"open", true, 0},
		{"half", true, 0.5},
		{"closed", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := send(t, m, frameMsg{visible: tt.visible, progress: tt.progress})

			want := 0
			if tt.visible {
				top, bottom := blink.BarHeights(rows, tt.progress)
				want = top + bottom
			}
			assert.Equal(t, want, countBarRows(got.View()))
		})
	}
}

func TestModel_ClosedCoversWholeSurface(t *testing.T) {
	m := sized(t, NewModel(nil, blink.DefaultOptions()), 10, 15)
	m = send(t, m, frameMsg{visible: true, progress: 1})

	view := m.View()
	lines := strings.Split(view, "\n")
	surfaceRows := countBarRows(view)
	require.Positive(t, surfaceRows)
	for _, line := range lines[:surfaceRows] {
		assert.NotContains(t, line, sceneChar)
	}
}

func TestModel_Keys(t *testing.T) {
	controls := &fakeControls{}
	m := sized(t, NewModel(controls, blink.DefaultOptions()), 40, 12)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Equal(t, 1, controls.toggles)
	assert.Equal(t, 1, controls.blinks)
	assert.True(t, m.help.ShowAll)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_StatusLine(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := sized(t, NewModel(nil, blink.DefaultOptions()), 80, 10)
	m.now = func() time.Time { return now }

	m = send(t, m, statusMsg{nextBlink: now.Add(12 * time.Second), blinks: 1234})
	line := m.statusLine()
	assert.Contains(t, line, "running")
	assert.Contains(t, line, "12 seconds from now")
	assert.Contains(t, line, "1,234")

	m = send(t, m, statusMsg{paused: true})
	line = m.statusLine()
	assert.Contains(t, line, "paused")
	assert.NotContains(t, line, "next blink")
}

func TestTermSurface_PublishesFrames(t *testing.T) {
	var got []tea.Msg
	s := newTermSurface(func(msg tea.Msg) { got = append(got, msg) })

	s.SetBounds(monitor.Bounds{Width: 80, Height: 24})
	s.Show()
	s.Redraw(0.5)
	s.Hide()
	s.Destroy()
	s.Redraw(1)

	require.Len(t, got, 3)
	assert.Equal(t, frameMsg{visible: true}, got[0])
	assert.Equal(t, frameMsg{visible: true, progress: 0.5}, got[1])
	assert.Equal(t, frameMsg{visible: false}, got[2])
}
