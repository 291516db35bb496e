// Package rankui provides the Bubble Tea rankings viewer.
package rankui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avoronkov/pairrank/internal/rank"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the scrollable rankings view.
type Model struct {
	theme   string
	entries []rank.Entry
	vp      viewport.Model
	ready   bool
}

// NewModel constructs a rankings viewer model.
func NewModel(theme string, entries []rank.Entry) *Model {
	return &Model{theme: theme, entries: entries}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 1
		vpHeight := msg.Height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.vp = viewport.New(msg.Width, vpHeight)
			m.vp.SetContent(m.content())
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = vpHeight
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("Rankings: %s", m.theme))
	if !m.ready {
		return header + "\n\n" + m.content()
	}
	footer := hintStyle.Render("↑/↓ scroll · q quit")
	return header + "\n\n" + m.vp.View() + "\n" + footer
}

func (m *Model) content() string {
	lines := rank.Render(m.entries, rank.MaxIntensity)
	if len(lines) == 0 {
		return "No items."
	}
	return strings.Join(lines, "\n")
}
