package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-dash/internal/core"
	"github.com/vovakirdan/tui-dash/internal/profile"
	"github.com/vovakirdan/tui-dash/internal/registry"
	"github.com/vovakirdan/tui-dash/internal/storage"
)

// guestUsername is used for SSH users whose name cannot own a profile.
const guestUsername = "guest"

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.dash/host_key.
	HostKeyPath string

	// DBPath is the path to the shared database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate for every session.
	TickRate int

	// Settings are the game settings each session starts from.
	Settings registry.Settings
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.dash/dash.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Settings:    registry.DefaultSettings(),
	}
}

// SSHServer wraps a Wish SSH server.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	profiles *profile.Service
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "dash-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}
	if store != nil {
		srv.profiles = profile.NewService(store, &srv.config.Settings.Config, logger)
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".dash", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	username := sshSession.User()
	if !profile.ValidUsername(username) {
		s.logger.Warn("unusable username, playing as guest", "user", username)
		username = guestUsername
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	env := Env{
		Settings: s.config.Settings,
		Username: username,
		Store:    s.store,
		Profiles: s.profiles,
		Logger:   s.logger.With("user", username),
	}

	return NewSessionModel(env, cfg), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionScreen is the screen a session is showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScores
)

// SessionModel manages a full session flow: menu -> game or scores -> menu.
// It runs as one program, so SSH sessions and the local menu share it.
type SessionModel struct {
	env       Env
	config    core.RuntimeConfig
	screen    sessionScreen
	menu      MenuModel
	game      GameModel
	scores    ScoreboardModel
	lastLevel int
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(env Env, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		env:       env,
		config:    cfg,
		menu:      NewMenuModel(env, cfg),
		lastLevel: env.Settings.Level,
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
// The menu answers a choice with tea.Quit; those paths return before its command is used.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menuModel, ok := next.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.env.Store, m.env.Settings.Config.Levels,
			m.lastLevel, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScores
		return m, nil

	case m.menu.Selected() != nil:
		sel := *m.menu.Selected()
		game, env, err := NewGame(m.env, sel)
		if err != nil {
			m.env.logger().Error("could not create game", "level", sel.LevelID, "error", err)
			m.menu = NewMenuModel(m.env, m.config)
			return m, nil
		}
		m.lastLevel = sel.LevelID
		m.config.Seed = time.Now().UnixNano()
		m.game = NewGameModel(game, env, m.config)
		m.screen = screenGame
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gameModel, ok := next.(GameModel); ok {
		m.game = gameModel
	}

	if m.game.BackToMenu() {
		m.toMenu()
		return m, m.menu.Init()
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateScores handles updates when the scoreboard is open.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if sb, ok := next.(ScoreboardModel); ok {
		m.scores = sb
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		m.toMenu()
		return m, m.menu.Init()
	}
	return m, cmd
}

func (m *SessionModel) toMenu() {
	m.screen = screenMenu
	m.game = GameModel{}
	m.env.Settings.Level = m.lastLevel
	m.menu = NewMenuModel(m.env, m.config)
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu, games and scoreboard as one program.
func RunSession(env Env, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(NewSessionModel(env, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
