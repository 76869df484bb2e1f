// Package statsui provides the Bubble Tea difficulty-stats interface.
package statsui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/wordspot/internal/model"
	"github.com/verte-zerg/wordspot/internal/stats"
	"github.com/verte-zerg/wordspot/internal/store"
)

const (
	tabWords = iota
	tabSummary
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea difficulty-stats UI.
type Model struct {
	store *store.Store

	rows   []model.WordStats
	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	wordTable table.Model
	summary   viewport.Model

	width  int
	height int

	filterMode  bool
	filterInput textinput.Model
	filterText  string
}

// NewModel constructs a difficulty-stats UI model.
func NewModel(st *store.Store) *Model {
	m := &Model{
		store: st,
		tabs:  []string{"Words", "Summary"},
	}
	m.filterInput = textinput.New()
	m.filterInput.Prompt = "Filter: "
	m.filterInput.Cursor.SetMode(cursor.CursorBlink)
	m.wordTable = table.New(
		table.WithColumns(wordTableColumns()),
		table.WithHeight(1),
	)
	m.wordTable.SetStyles(wordTableStyles())
	m.summary = viewport.New(0, 0)
	m.refresh()
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
		m.updateLayout()
		m.renderSummary()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			m.filterMode = true
			m.filterInput.SetValue(m.filterText)
			return m, m.filterInput.Focus()
		case "d":
			return m, m.resetSelected()
		case "D":
			return m, m.resetAll()
		case "g", "home":
			if m.activeTab == tabWords {
				m.wordTable.GotoTop()
			} else {
				m.summary.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabWords {
				m.wordTable.GotoBottom()
			} else {
				m.summary.GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabWords {
				var cmd tea.Cmd
				m.wordTable, cmd = m.wordTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.summary, cmd = m.summary.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.filterMode = false
		m.filterText = strings.TrimSpace(m.filterInput.Value())
		m.filterInput.Blur()
		m.applyRows()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m *Model) resetSelected() tea.Cmd {
	row := m.wordTable.SelectedRow()
	if len(row) == 0 {
		return nil
	}
	word := row[0]
	if err := m.store.DeleteWordStats(context.Background(), word); err != nil {
		m.errMsg = fmt.Sprintf("failed to reset %q: %v", word, err)
		return nil
	}
	m.refresh()
	return tea.ClearScreen
}

func (m *Model) resetAll() tea.Cmd {
	if err := m.store.DeleteAllWordStats(context.Background()); err != nil {
		m.errMsg = fmt.Sprintf("failed to reset stats: %v", err)
		return nil
	}
	m.refresh()
	return tea.ClearScreen
}

func (m *Model) refresh() {
	report, err := stats.BuildReport(context.Background(), m.store, 0)
	if err != nil {
		m.errMsg = err.Error()
		m.rows = nil
		m.applyRows()
		return
	}
	m.errMsg = ""
	m.report = report
	m.rows = report.Rows
	m.applyRows()
	m.renderSummary()
}

func (m *Model) applyRows() {
	filter := strings.ToLower(m.filterText)
	rows := make([]table.Row, 0, len(m.rows))
	for _, ws := range m.rows {
		if filter != "" && !strings.Contains(strings.ToLower(ws.Word), filter) {
			continue
		}
		rows = append(rows, table.Row{
			ws.Word,
			fmt.Sprintf("%.2f", ws.Score),
			fmt.Sprintf("%d", ws.Correct),
			fmt.Sprintf("%d", ws.Incorrect),
			fmt.Sprintf("%d", ws.Penalty),
			fmt.Sprintf("%d", ws.AlreadyNoted),
			fmt.Sprintf("%.1f", ws.AvgResponseMs),
		})
	}
	m.wordTable.SetRows(rows)
	m.wordTable.GotoTop()
}

func (m *Model) renderSummary() {
	var b strings.Builder
	if err := stats.RenderReport(&b, m.report); err != nil {
		m.summary.SetContent(fmt.Sprintf("Failed to render report: %v", err))
		return
	}
	m.summary.SetContent(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.wordTable.SetWidth(m.width)
	m.wordTable.SetHeight(maxInt(1, bodyHeight-1))
	m.summary.Width = m.width
	m.summary.Height = bodyHeight
	m.filterInput.Width = maxInt(10, m.width-lipgloss.Width(m.filterInput.Prompt)-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabWords {
		m.wordTable.Focus()
	} else {
		m.wordTable.Blur()
	}
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody() string {
	if m.filterMode {
		return m.filterInput.View()
	}
	if m.activeTab == tabWords {
		if len(m.rows) == 0 {
			return "No word stats found."
		}
		return tableMutedStyle.Render(m.wordTable.View())
	}
	return m.summary.View()
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("enter: apply  esc: cancel")
	}
	help := "Nav: left/right  Scroll: up/down  Filter: /  Reset word: d  Reset all: D  Quit: q"
	if m.filterText != "" {
		help = fmt.Sprintf("Filter: %q  ", m.filterText) + help
	}
	if m.errMsg != "" {
		return headerStyle.Render(help) + "\n" + errorStyle.Render(m.errMsg)
	}
	return headerStyle.Render(help)
}

func wordTableColumns() []table.Column {
	return []table.Column{
		{Title: "Word", Width: 16},
		{Title: "Score", Width: 7},
		{Title: "Correct", Width: 7},
		{Title: "Incorrect", Width: 9},
		{Title: "Penalty", Width: 7},
		{Title: "Noted", Width: 5},
		{Title: "Avg (ms)", Width: 9},
	}
}

func wordTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
