package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/patternsynth/pkg/recipe"
	"github.com/matzehuels/patternsynth/pkg/render"
	"github.com/matzehuels/patternsynth/pkg/spring"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PresetListModel - Interactive preset selection
// =============================================================================

// PresetListModel is the bubbletea model for interactive preset selection.
type PresetListModel struct {
	Names    []string
	Recipes  []recipe.Recipe
	Cursor   int
	Selected *recipe.Recipe
}

// NewPresetListModel creates a list of every built-in preset.
func NewPresetListModel() PresetListModel {
	m := PresetListModel{Names: recipe.PresetNames()}
	for _, name := range m.Names {
		rc, _ := recipe.Preset(name)
		m.Recipes = append(m.Recipes, rc)
	}
	return m
}

func (m PresetListModel) Init() tea.Cmd {
	return nil
}

func (m PresetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Recipes)-1 {
				m.Cursor++
			}
		case "enter":
			rc := m.Recipes[m.Cursor]
			m.Selected = &rc
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PresetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Preset"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ play  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Recipes))
	for i, rc := range m.Recipes {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, m.Names[i], rc.Pattern, rc.Shape, fmt.Sprintf("%g", rc.Value)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Preset", "Pattern", "Shape", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == m.Cursor:
				return listSelectedStyle
			default:
				return listNormalStyle
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Recipes))))

	return b.String()
}

// =============================================================================
// PlayerModel - Live simulation view
// =============================================================================

// frameInterval is the player's tick period, matching the default time step.
const frameInterval = time.Second / 60

// tickMsg advances a playing simulation by one frame.
type tickMsg time.Time

// savedMsg reports a finished snapshot export.
type savedMsg struct {
	path string
	err  error
}

// snapshotSaver writes a PNG of a snapshot and returns its path.
type snapshotSaver func(s render.Snapshot, bodies bool) (string, error)

// PlayerModel steps a network in real time and draws it with braille dots.
type PlayerModel struct {
	Name    string
	Network *spring.Network
	DT      float64
	Speed   int // steps per frame

	Playing bool
	Bodies  bool
	Steps   int
	Status  string

	save          snapshotSaver
	width, height int
	view          r2.Box
}

// NewPlayerModel creates a paused player for an initialized network.
func NewPlayerModel(name string, n *spring.Network, dt float64, speed int, save snapshotSaver) PlayerModel {
	m := PlayerModel{
		Name:    name,
		Network: n,
		DT:      dt,
		Speed:   max(speed, 1),
		save:    save,
		width:   80,
		height:  24,
	}
	if box, ok := n.Bounds(); ok {
		pad := 0.1 * max(box.Max.X-box.Min.X, box.Max.Y-box.Min.Y, 1)
		m.view = r2.Box{
			Min: r2.Vec{X: box.Min.X - pad, Y: box.Min.Y - pad},
			Max: r2.Vec{X: box.Max.X + pad, Y: box.Max.Y + pad},
		}
	}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m PlayerModel) Init() tea.Cmd {
	return nil
}

func (m PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "p":
			m.Playing = !m.Playing
			if m.Playing {
				return m, tick()
			}
		case " ", "enter", "right":
			if !m.Playing {
				m.advance(1)
			}
		case "b":
			m.Bodies = !m.Bodies
		case "s":
			if m.save == nil {
				return m, nil
			}
			m.Status = "saving..."
			snap := render.Capture(m.Network, m.Steps)
			save, bodies := m.save, m.Bodies
			return m, func() tea.Msg {
				path, err := save(snap, bodies)
				return savedMsg{path: path, err: err}
			}
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && !m.Playing {
			m.advance(1)
		}
	case tickMsg:
		if m.Playing {
			m.advance(m.Speed)
			return m, tick()
		}
	case savedMsg:
		if msg.err != nil {
			m.Status = "save failed: " + msg.err.Error()
		} else {
			m.Status = "saved " + msg.path
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

// advance runs n simulation steps and widens the view to keep the pattern
// on screen.
func (m *PlayerModel) advance(n int) {
	for range n {
		m.Network.Step(m.DT)
	}
	m.Steps += n
	if box, ok := m.Network.Bounds(); ok {
		m.view = grow(m.view, box)
	}
}

func (m PlayerModel) View() string {
	var b strings.Builder

	state := StyleWarning.Render("paused")
	if m.Playing {
		state = StyleSuccess.Render("playing")
	}
	b.WriteString(StyleTitle.Render(appName) + StyleDim.Render(" · ") + StyleValue.Render(m.Name) + "  " + state)
	b.WriteString("\n")

	c := newCanvas(m.width, max(m.height-4, 1))
	vp := newViewport(m.view, c)
	for _, s := range m.Network.Segments() {
		x0, y0 := vp.project(s.A)
		x1, y1 := vp.project(s.B)
		c.line(x0, y0, x1, y1)
	}
	if m.Bodies {
		for _, s := range m.Network.Segments() {
			x, y := vp.project(s.A)
			xi, yi := int(x), int(y)
			c.set(xi+1, yi)
			c.set(xi, yi+1)
			c.set(xi+1, yi+1)
		}
	}
	b.WriteString(c.String())
	b.WriteString("\n")

	r := m.Network.Residual()
	b.WriteString(StyleDim.Render(fmt.Sprintf("step %d · residual %.4f / %.4f · %d lines · %d joints",
		m.Steps, r.Linear, r.Angular, len(m.Network.Lines()), m.Network.JointCount())))
	if m.Status != "" {
		b.WriteString("  " + StyleHighlight.Render(m.Status))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("p play/pause  space step  b bodies  s save png  q quit"))

	return b.String()
}
