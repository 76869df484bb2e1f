// Package tui provides the Bubble Tea game interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/wordspot/internal/game"
	"github.com/verte-zerg/wordspot/internal/ingest"
	"github.com/verte-zerg/wordspot/internal/model"
	"github.com/verte-zerg/wordspot/internal/registry"
	"github.com/verte-zerg/wordspot/internal/words"
)

const tickInterval = 250 * time.Millisecond

var (
	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B8B8B8")).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	selectedCellStyle = cellStyle.
				Foreground(lipgloss.Color("#F0F0F0")).
				Bold(true).
				BorderForeground(lipgloss.Color("#C89A3A"))
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	earnedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D")).Bold(true)
	penaltyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	ignoredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

type tickMsg time.Time

// Model implements the Bubble Tea game UI. It owns the session, registry,
// and ingest, so every state mutation happens on the update loop.
type Model struct {
	cfg     model.Config
	session *game.Session
	reg     *registry.Registry
	in      *ingest.Ingest

	generation int
	entries    []model.TranscriptEntry

	startedAt   time.Time
	pausedTotal time.Duration
	pausedAt    time.Time
	paused      bool

	selected int
	flash    string
	errMsg   string

	width  int
	height int
}

// NewModel constructs the game TUI. The session must already be initialized
// and the ingest switched to its driver for the given generation.
func NewModel(cfg model.Config, session *game.Session, reg *registry.Registry, in *ingest.Ingest, generation int, entries []model.TranscriptEntry) *Model {
	return &Model{
		cfg:        cfg,
		session:    session,
		reg:        reg,
		in:         in,
		generation: generation,
		entries:    entries,
		startedAt:  time.Now(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.advance()
		return m, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "left", "h":
			m.moveSelection(-1)
		case "right", "l":
			m.moveSelection(1)
		case "up", "k":
			m.moveSelection(-m.cfg.GridColumns)
		case "down", "j":
			m.moveSelection(m.cfg.GridColumns)
		case "enter":
			m.click()
		case " ":
			m.togglePause()
		case "[":
			m.seek(-5 * time.Second)
		case "]":
			m.seek(5 * time.Second)
		}
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	grid := m.renderGrid()
	caption := m.renderCaption()
	footer := m.renderFooter()
	body := lipgloss.Place(m.width, maxInt(1, m.height-2), lipgloss.Center, lipgloss.Center, grid)
	captionLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, caption)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + captionLine + "\n" + footerLine
}

// advance moves the playback clock and feeds the ingest. Nothing moves while
// paused.
func (m *Model) advance() {
	if m.paused {
		return
	}
	switch m.in.Mode() {
	case ingest.ModeTranscript:
		m.in.TickTime(m.generation, m.currentSec())
	case ingest.ModeCaptions:
		if err := m.in.TickCaptions(m.generation); err != nil {
			m.errMsg = fmt.Sprintf("caption read failed: %v", err)
		}
	}
}

func (m *Model) currentSec() float64 {
	elapsed := time.Since(m.startedAt) - m.pausedTotal
	if m.paused {
		elapsed -= time.Since(m.pausedAt)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed.Seconds()
}

func (m *Model) togglePause() {
	if m.paused {
		m.paused = false
		m.pausedTotal += time.Since(m.pausedAt)
		m.reg.OnVideoPlay()
		return
	}
	m.paused = true
	m.pausedAt = time.Now()
	m.reg.OnVideoPause()
}

func (m *Model) seek(delta time.Duration) {
	if m.paused {
		return
	}
	m.startedAt = m.startedAt.Add(-delta)
	if time.Since(m.startedAt)-m.pausedTotal < 0 {
		m.startedAt = time.Now().Add(-m.pausedTotal)
	}
}

func (m *Model) moveSelection(delta int) {
	count := len(m.session.Snapshot().Slots)
	if count == 0 {
		return
	}
	next := m.selected + delta
	if next < 0 || next >= count {
		return
	}
	m.selected = next
}

func (m *Model) click() {
	outcome, err := m.session.HandleClick(m.selected)
	if err != nil {
		return
	}
	word := words.Display(outcome.Word)
	switch outcome.Kind {
	case game.OutcomeCorrect:
		m.flash = earnedStyle.Render(fmt.Sprintf("+%d %s", outcome.Delta, word))
	case game.OutcomeAlreadyNoted:
		m.flash = ignoredStyle.Render(fmt.Sprintf("%s already noted", word))
	case game.OutcomePenalty:
		m.flash = penaltyStyle.Render(fmt.Sprintf("%d %s", outcome.Delta, word))
	}
	count := len(m.session.Snapshot().Slots)
	if count > 0 && m.selected >= count {
		m.selected = count - 1
	}
}

func (m *Model) renderGrid() string {
	slots := m.session.Snapshot().Slots
	if len(slots) == 0 {
		return "All words overcome."
	}
	cols := m.cfg.GridColumns
	if cols < 1 {
		cols = 1
	}
	cellWidth := m.cellWidth(cols)

	var rows []string
	for start := 0; start < len(slots); start += cols {
		end := start + cols
		if end > len(slots) {
			end = len(slots)
		}
		cells := make([]string, 0, cols)
		for _, slot := range slots[start:end] {
			cells = append(cells, m.renderCell(slot, cellWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) cellWidth(cols int) int {
	// Border and joining eat 2 columns per cell.
	width := m.width/cols - 4
	if width < 8 {
		width = 8
	}
	if width > 20 {
		width = 20
	}
	return width
}

func (m *Model) renderCell(slot game.Slot, width int) string {
	word := runewidth.Truncate(words.Display(slot.Word), width, "…")
	progress := fmt.Sprintf("%d/%d", slot.Clicks, m.clicksNeeded(slot))
	content := word + "\n" + progress
	if slot.Index == m.selected {
		return selectedCellStyle.Width(width).Render(content)
	}
	return cellStyle.Width(width).Render(content)
}

// clicksNeeded is the number of catches that will overcome the slot's word.
func (m *Model) clicksNeeded(slot game.Slot) int {
	if slot.Count < m.cfg.ClicksToOvercome {
		return slot.Count
	}
	return m.cfg.ClicksToOvercome
}

func (m *Model) renderCaption() string {
	text := m.currentCaption()
	if text == "" {
		return ""
	}
	return captionStyle.Render(runewidth.Truncate(text, maxInt(1, m.width-2), "…"))
}

func (m *Model) currentCaption() string {
	switch m.in.Mode() {
	case ingest.ModeCaptions:
		return m.in.LastCaption()
	case ingest.ModeTranscript:
		cur := m.currentSec()
		for _, entry := range m.entries {
			if entry.Start <= cur && cur <= entry.End {
				return entry.Text
			}
		}
	}
	return ""
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Score %d", m.session.Score()),
		fmt.Sprintf("Overcome %d", m.session.OvercomeTotal()),
		formatClock(m.currentSec()),
	}
	if m.paused {
		segments = append(segments, pausedStyle.Render("PAUSED"))
	}
	if m.flash != "" {
		segments = append(segments, m.flash)
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.errMsg != "" {
		footer += "  " + penaltyStyle.Render(m.errMsg)
	}
	return footer
}

func formatClock(sec float64) string {
	total := int(sec)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
