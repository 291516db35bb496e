// Package tui provides the Bubble Tea duel interface.
package tui

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avoronkov/pairrank/internal/history"
	"github.com/avoronkov/pairrank/internal/rating"
	"github.com/avoronkov/pairrank/internal/store"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea duel UI.
type Model struct {
	theme  store.Key
	engine *rating.Engine
	log    *history.Log // nil when history is disabled
	items  []string
	rnd    *rand.Rand

	width  int
	height int

	left  string
	right string

	duels      int
	lastResult string
	lastErr    error
}

// NewModel constructs a duel TUI model. items must hold at least two entries.
func NewModel(theme store.Key, engine *rating.Engine, log *history.Log, items []string) *Model {
	m := &Model{
		theme:  theme,
		engine: engine,
		log:    log,
		items:  items,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	m.nextPair()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyLeft:
			m.choose(m.left, m.right)
			return m, nil
		case tea.KeyRight:
			m.choose(m.right, m.left)
			return m, nil
		case tea.KeyRunes:
			switch string(msg.Runes) {
			case "q":
				return m, tea.Quit
			case "<", ",":
				m.choose(m.left, m.right)
			case ">", ".":
				m.choose(m.right, m.left)
			}
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Duel: %s", m.theme)))
	b.WriteString("\n\n")
	b.WriteString("Which is more important?\n\n")
	b.WriteString(markerStyle.Render("  <  "))
	b.WriteString(itemStyle.Render(m.left))
	b.WriteString("\n")
	b.WriteString(markerStyle.Render("  >  "))
	b.WriteString(itemStyle.Render(m.right))
	b.WriteString("\n")
	content := b.String()

	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	bodyHeight := m.height - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) choose(winner, loser string) {
	out, err := m.engine.RecordOutcome(m.theme, winner, loser)
	if err != nil {
		m.lastErr = err
		return
	}
	m.lastErr = nil
	m.duels++
	m.lastResult = fmt.Sprintf("%q wins (%+.1f / %+.1f)", out.Winner, out.WinnerDelta, out.LoserDelta)
	if m.log != nil {
		if err := m.log.Append(context.Background(), m.theme.String(), out); err != nil {
			logErrf("failed to log duel: %v\n", err)
		}
	}
	m.nextPair()
}

func (m *Model) nextPair() {
	m.left, m.right = pickPair(m.rnd, m.items)
}

// pickPair selects two distinct items uniformly.
func pickPair(rnd *rand.Rand, items []string) (string, string) {
	i := rnd.Intn(len(items))
	j := rnd.Intn(len(items) - 1)
	if j >= i {
		j++
	}
	return items[i], items[j]
}

func (m *Model) renderFooter() string {
	if m.lastErr != nil {
		return errorStyle.Render(m.lastErr.Error())
	}
	segments := []string{fmt.Sprintf("Duels %d", m.duels)}
	if m.lastResult != "" {
		segments = append(segments, m.lastResult)
	}
	segments = append(segments, "←/→ pick · q quit")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
