package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-dash/internal/config"
	"github.com/vovakirdan/tui-dash/internal/core"
	"github.com/vovakirdan/tui-dash/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show level list sidebar
	sidebarWidth       = 20  // Width of level list sidebar
	maxRuns            = 100 // Max runs to load per level
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Back      key.Binding
	Quit      key.Binding
	NextLevel key.Binding
	PrevLevel key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextLevel, k.PrevLevel, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextLevel, k.PrevLevel},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev level"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next level"),
		),
		NextLevel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next level"),
		),
		PrevLevel: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev level"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the per-level run board.
type ScoreboardModel struct {
	levels      []config.LevelSpec
	cursor      int // Currently selected level index
	store       *storage.Store
	runs        []storage.RunRecord
	stats       *storage.LevelStats
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show level list sidebar
}

// NewScoreboardModel creates a new scoreboard model starting on the given level.
func NewScoreboardModel(store *storage.Store, levels []config.LevelSpec, levelID, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		levels:      levels,
		store:       store,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	for i, l := range levels {
		if l.ID == levelID {
			m.cursor = i
		}
	}

	m.table = m.createTable()
	if len(m.levels) > 0 {
		m.loadRuns(m.levels[m.cursor].ID)
	}

	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: 12},
		{Title: "Progress", Width: 9},
		{Title: "Gems", Width: 5},
		{Title: "Mode", Width: 7},
		{Title: "Date", Width: 12},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	// Give spare room to the player column.
	if spare := tableWidth - 62; spare > 0 {
		columns[1].Width += min(spare, 12)
	}

	height := m.height - 10
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns loads the best runs and stats for the given level.
func (m *ScoreboardModel) loadRuns(levelID int) {
	m.runs, m.stats = nil, nil
	if m.store != nil {
		if runs, err := m.store.TopRuns(levelID, maxRuns); err == nil {
			m.runs = runs
		}
		if stats, err := m.store.GetLevelStats(levelID); err == nil {
			m.stats = stats
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current runs.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			r.Username,
			progressLabel(r),
			fmt.Sprintf("%d", r.Pickups),
			r.Mode,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// progressLabel shows "done" for cleared runs and the percentage otherwise.
// Rows with an outcome this build does not know are marked with "?".
func progressLabel(r storage.RunRecord) string {
	outcome, ok := core.ParseOutcome(r.Outcome)
	switch {
	case !ok:
		return fmt.Sprintf("%.1f%%?", r.Progress)
	case outcome == core.OutcomeWon:
		return "done"
	}
	return fmt.Sprintf("%.1f%%", r.Progress)
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextLevel), key.Matches(msg, m.keys.Right):
			if len(m.levels) > 0 {
				m.cursor = (m.cursor + 1) % len(m.levels)
				m.loadRuns(m.levels[m.cursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevLevel), key.Matches(msg, m.keys.Left):
			if len(m.levels) > 0 {
				m.cursor--
				if m.cursor < 0 {
					m.cursor = len(m.levels) - 1
				}
				m.loadRuns(m.levels[m.cursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "BEST RUNS"
	if len(m.levels) > 0 {
		l := m.levels[m.cursor]
		title = fmt.Sprintf("BEST RUNS - %d %s", l.ID, l.Name)
	}

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	if m.stats != nil && m.stats.Attempts > 0 {
		line := fmt.Sprintf("%d attempts  %d clears  avg %.0f%%", m.stats.Attempts, m.stats.Wins, m.stats.AvgProgress)
		b.WriteString(centerText(line, m.width))
	}
	b.WriteString("\n\n")

	if m.showSidebar {
		// Wide layout: sidebar + table
		b.WriteString(m.renderWideLayout())
	} else {
		// Narrow layout: game tabs + table
		b.WriteString(m.renderNarrowLayout())
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the scoreboard with sidebar for game selection.
func (m ScoreboardModel) renderWideLayout() string {
	// Sidebar (level list)
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Levels\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, l := range m.levels {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := fmt.Sprintf("%d %s", l.ID, l.Name)
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	sidebarRendered := sidebarStyle.Render(sidebar.String())

	// Table
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	tableContent := m.renderTableContent()
	tableRendered := tableStyle.Render(tableContent)

	// Join horizontally
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebarRendered, "  ", tableRendered)
}

// renderNarrowLayout renders the scoreboard with level tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	// Level tabs (horizontal)
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.levels))
	for i, l := range m.levels {
		shortName := fmt.Sprintf("%d", l.ID)
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(shortName)
		} else {
			tabs[i] = tabStyle.Render(" " + shortName + " ")
		}
	}

	// Wrap tabs if needed
	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 && len(m.levels) > 0 {
		// Just show current level with arrows
		tabLine = fmt.Sprintf("< %s >", m.levels[m.cursor].Name)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	// Table
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nPlay this level to set the first one!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, levels []config.LevelSpec, levelID, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(store, levels, levelID, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
