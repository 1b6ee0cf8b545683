package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-dash/internal/core"
	"github.com/vovakirdan/tui-dash/internal/multiplayer"
	"github.com/vovakirdan/tui-dash/internal/profile"
	"github.com/vovakirdan/tui-dash/internal/registry"
)

// seeded is implemented by games that expose the layout seed of the current attempt.
type seeded interface {
	Seed() int64
}

// GameModel runs one game: it maps keys to held actions, steps the simulation
// at the tick rate and records the result once a run ends.
type GameModel struct {
	game       registry.Game
	multi      multiplayer.MultiGame // Set when the game takes input for both sides
	env        Env
	screen     *core.Screen
	config     core.RuntimeConfig
	input      core.MultiInputFrame
	hold       [2]int // Remaining thrust ticks for each player
	keyMapper  *KeyMapper
	gameState  core.GameState
	frame      int // Frame of player 1's outcome event
	recorded   bool
	footer     string
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model for the given game.
func NewGameModel(game registry.Game, env Env, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := GameModel{
		game:   game,
		env:    env,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config: cfg,
		input:  core.NewMultiInputFrame(),
	}
	versus := false
	if mg, ok := game.(multiplayer.MultiGame); ok {
		m.multi = mg
		versus = mg.Mode() == multiplayer.MatchModeLocalVersus
	}
	m.keyMapper = NewKeyMapper(versus)
	return m
}

// Init starts the game and the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		// The world is stretched to the terminal, so a resize never resets the run.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	player, action := m.keyMapper.MapKey(msg)
	switch action {
	case core.ActionNone:
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
		}
	case core.ActionThrust:
		m.hold[player-1] = holdTicks
	default:
		frame := m.input.Player(player)
		frame.Set(action)
		m.input.SetPlayer(player, frame)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	if m.input.Player1().Has(core.ActionRestart) && m.gameState.GameOver {
		// The game derives the next layout seed from its attempt counter.
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.recorded = false
		m.footer = ""
		m.hold = [2]int{}
		m.input.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	for i := range m.hold {
		if m.hold[i] > 0 {
			id := core.PlayerID(i + 1)
			frame := m.input.Player(id)
			frame.Set(core.ActionThrust)
			m.input.SetPlayer(id, frame)
			m.hold[i]--
		}
	}

	var result core.StepResult
	if m.multi != nil {
		result = m.multi.StepMulti(m.input)
	} else {
		result = m.game.Step(m.input.Player1())
	}
	m.gameState = result.State

	for _, e := range result.Events {
		if e.Player == multiplayer.Player1 && (e.Kind == core.EventWon || e.Kind == core.EventLost) {
			m.frame = e.Frame
		}
		m.env.logger().Debug("event", "game", m.game.ID(), "kind", e.Kind, "player", e.Player, "progress", e.Progress)
	}

	if m.gameState.GameOver && !m.recorded {
		m.footer = m.record()
		m.recorded = true
	}

	m.input.Clear()
	return m, tickCmd(m.config.TickRate)
}

// record stores the finished run or duel and returns a footer line for the reward.
func (m *GameModel) record() string {
	if m.env.Profiles == nil {
		return ""
	}
	reward, err := Record(m.env, m.game, m.gameState, m.frame)
	if err != nil {
		m.env.logger().Error("could not record run", "user", m.env.Username, "error", err)
		return "run not saved"
	}
	return RewardLine(reward)
}

// Record stores a finished game for env's player. Duels are stored with both
// sides; solo runs use state and the frame of the player's outcome event.
func Record(env Env, game registry.Game, state core.GameState, frame int) (profile.Reward, error) {
	var seed int64
	if s, ok := game.(seeded); ok {
		seed = s.Seed()
	}

	if multi, ok := game.(multiplayer.MultiGame); ok {
		p1, p2 := multi.Sides()
		return env.Profiles.RecordDuel(env.Username, profile.DuelResult{
			LevelID:  env.Settings.Level,
			Mode:     multi.Mode(),
			Player:   sideResult(p1),
			Opponent: sideResult(p2),
			Winner:   multi.Result().Winner,
			Seed:     seed,
		})
	}

	return env.Profiles.RecordRun(env.Username, profile.RunResult{
		LevelID:  env.Settings.Level,
		Mode:     multiplayer.MatchModeSolo,
		Outcome:  state.Outcome,
		Progress: state.Progress,
		Pickups:  state.Score,
		Frames:   frame,
		Seed:     seed,
	})
}

func sideResult(s multiplayer.Side) profile.RunResult {
	return profile.RunResult{
		Outcome:  s.Outcome,
		Progress: s.Progress,
		Pickups:  s.Pickups,
		Frames:   s.Frames,
	}
}

// RewardLine formats a reward for display.
func RewardLine(r profile.Reward) string {
	line := fmt.Sprintf("+%d gems  (balance %d)", r.Gems, r.Balance)
	if len(r.Unlocked) > 0 {
		line += "  unlocked: " + strings.Join(r.Unlocked, ", ")
	}
	return line
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	drawGame(m.screen, m.game)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".dash", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	drawGame(m.screen, m.game)
	if m.footer != "" {
		m.screen.DrawTextColored(1, m.screen.Height()-1, m.footer, core.ColorBrightYellow)
	}
	return RenderScreen(m.screen)
}

// State returns the last stepped game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// Footer returns the reward line shown after the run ended.
func (m GameModel) Footer() string {
	return m.footer
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game until the player quits or goes back.
func Run(game registry.Game, env Env, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		standalone{NewGameModel(game, env, cfg)},
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// standalone exits the program where a session would return to the menu.
type standalone struct {
	GameModel
}

func (s standalone) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := s.GameModel.Update(msg)
	s.GameModel = next.(GameModel)
	if s.BackToMenu() {
		return s, tea.Quit
	}
	return s, cmd
}
