package preview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/blinkr/internal/blink"
)

// Controls are the actions the preview can request. Implementations
// must not block; they hop to the animator's executor.
type Controls interface {
	TogglePause()
	BlinkNow()
}

// statusMsg reports animator state that is not carried by frames.
type statusMsg struct {
	paused    bool
	nextBlink time.Time
	blinks    int
}

// tickMsg refreshes relative times in the status line.
type tickMsg time.Time

const (
	barChar   = "█"
	sceneChar = "·"
)

var (
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	sceneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	runStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	pauseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// Model is the bubbletea model for the terminal preview. The terminal
// rows above the status line act as the overlay surface.
type Model struct {
	keys     KeyMap
	help     help.Model
	controls Controls
	now      func() time.Time

	width  int
	height int
	ready  bool

	visible   bool
	progress  float64
	paused    bool
	nextBlink time.Time
	blinks    int
	opts      blink.Options
}

// NewModel creates a preview model.
func NewModel(controls Controls, opts blink.Options) Model {
	return Model{
		keys:     DefaultKeyMap(),
		help:     help.New(),
		controls: controls,
		now:      time.Now,
		opts:     opts,
	}
}

// Init starts the status refresh tick.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case frameMsg:
		m.visible = msg.visible
		m.progress = msg.progress
		return m, nil

	case statusMsg:
		m.paused = msg.paused
		m.nextBlink = msg.nextBlink
		m.blinks = msg.blinks
		return m, nil

	case tickMsg:
		return m, tick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		if m.controls != nil {
			m.controls.TogglePause()
		}
	case key.Matches(msg, m.keys.Blink):
		if m.controls != nil {
			m.controls.BlinkNow()
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// View renders the surface, the status line and the key help.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footer := m.statusLine() + "\n" + m.help.View(m.keys)
	rows := m.height - lipgloss.Height(footer)
	if rows < 0 {
		rows = 0
	}

	var b strings.Builder
	b.WriteString(m.renderSurface(rows))
	b.WriteString(footer)
	return b.String()
}

// renderSurface draws rows lines: the top and bottom bars at the current
// progress with the scene in between.
func (m Model) renderSurface(rows int) string {
	top, bottom := 0, 0
	if m.visible {
		top, bottom = blink.BarHeights(rows, m.progress)
	}

	bar := barStyle.Render(strings.Repeat(barChar, m.width))
	scene := sceneStyle.Render(strings.Repeat(sceneChar, m.width))

	var b strings.Builder
	for row := range rows {
		if row < top || row >= rows-bottom {
			b.WriteString(bar)
		} else {
			b.WriteString(scene)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) statusLine() string {
	var state string
	switch {
	case m.paused:
		state = pauseStyle.Render("paused")
	case m.visible:
		state = runStyle.Render("blinking")
	default:
		state = runStyle.Render("running")
	}

	parts := []string{state}
	if !m.paused && !m.nextBlink.IsZero() {
		parts = append(parts, "next blink "+humanize.RelTime(m.nextBlink, m.now(), "ago", "from now"))
	}
	parts = append(parts,
		fmt.Sprintf("every %s", m.opts.Interval),
		fmt.Sprintf("blinks: %s", humanize.Comma(int64(m.blinks))),
		fmt.Sprintf("progress %3.0f%%", m.progress*100),
	)
	return statusStyle.Render(strings.Join(parts, " · "))
}
