package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-dash/internal/core"
	"github.com/vovakirdan/tui-dash/internal/multiplayer"
)

// MenuItem represents a selectable level in the menu.
type MenuItem struct {
	LevelID    int
	Name       string
	Multiplier float64
	Best       float64 // Player's best progress, 0 if never played
}

// MenuSelection is what the player picked.
type MenuSelection struct {
	LevelID int
	Mode    multiplayer.MatchMode
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	env            Env
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	header         string
	quitting       bool
	selected       *MenuSelection
	openScoreboard bool
}

// NewMenuModel creates a new menu model.
func NewMenuModel(env Env, cfg core.RuntimeConfig) MenuModel {
	levels := env.Settings.Config.Levels
	items := make([]MenuItem, 0, len(levels))
	for _, l := range levels {
		item := MenuItem{LevelID: l.ID, Name: l.Name, Multiplier: l.Multiplier}
		if env.Store != nil {
			if best, err := env.Store.BestProgress(env.Username, l.ID); err == nil {
				item.Best = best
			}
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].LevelID < items[j].LevelID })

	m := MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		env:       env,
		config:    cfg,
		keyMapper: NewKeyMapper(false),
		header:    env.Username,
	}

	// Start on the configured level when it is listed.
	for i, item := range items {
		if item.LevelID == env.Settings.Level {
			m.cursor = i
		}
	}

	if env.Profiles != nil {
		if p, err := env.Profiles.Load(env.Username); err == nil {
			m.header = fmt.Sprintf("%s  ◆ %d  duels %d-%d-%d",
				p.Username, p.Gems, p.Duels.Wins, p.Duels.Losses, p.Duels.Draws)
		} else {
			env.logger().Warn("could not load profile", "user", env.Username, "error", err)
		}
	}

	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionPlay:
		return m.pick(multiplayer.MatchModeSolo)

	case MenuActionDuel:
		return m.pick(multiplayer.MatchModeVsBot)

	case MenuActionVersus:
		return m.pick(multiplayer.MatchModeLocalVersus)

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

func (m MenuModel) pick(mode multiplayer.MatchMode) (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	m.selected = &MenuSelection{LevelID: m.items[m.cursor].LevelID, Mode: mode}
	return m, tea.Quit
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  D A S H  "), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(menuDimStyle.Render(m.header), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a level", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		best := "   -"
		if item.Best > 0 {
			best = fmt.Sprintf("%3.0f%%", item.Best)
		}
		line := fmt.Sprintf("%2d  %-12s x%.2f  best %s", item.LevelID, item.Name, item.Multiplier, best)
		if i == m.cursor {
			line = menuCursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  D: Duel bot  |  V: Versus  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(menuDimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selection, or nil if none was made.
func (m MenuModel) Selected() *MenuSelection {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Selection       *MenuSelection
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(env Env, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(env, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting(), m.Selected() == nil:
		result.Quit = true
	default:
		result.Selection = m.Selected()
	}
	return result, nil
}
