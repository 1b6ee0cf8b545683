package main

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-dash/internal/config"
	"github.com/vovakirdan/tui-dash/internal/core"
	"github.com/vovakirdan/tui-dash/internal/games/dash/levels"
	"github.com/vovakirdan/tui-dash/internal/platform/tui"
	"github.com/vovakirdan/tui-dash/internal/profile"
	"github.com/vovakirdan/tui-dash/internal/registry"
	"github.com/vovakirdan/tui-dash/internal/storage"
)

// expandHome replaces a leading ~ with the home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// newLogger builds the command logger. Programs that own the terminal log to
// ~/.dash/dash.log; everything else logs to stderr.
func newLogger(toFile bool) (*log.Logger, func()) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if toFile {
		path := expandHome("~/.dash/dash.log")
		//nolint:errcheck // Falls back to discarding logs below
		os.MkdirAll(filepath.Dir(path), 0o755)
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			w = f
			closeFn = func() { f.Close() }
		} else {
			w = io.Discard
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "dash",
	})
	if lvl, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	return logger, closeFn
}

// username resolves --user, then $USER, then the OS account name.
func username() (string, error) {
	if flagUser != "" {
		if !profile.ValidUsername(flagUser) {
			return "", fmt.Errorf("%w: %q", profile.ErrInvalidUsername, flagUser)
		}
		return flagUser, nil
	}
	candidates := []string{os.Getenv("USER")}
	if u, err := user.Current(); err == nil {
		candidates = append(candidates, u.Username)
	}
	for _, name := range candidates {
		if profile.ValidUsername(name) {
			return name, nil
		}
	}
	return "player", nil
}

// parseLevel parses a level argument.
func parseLevel(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid level %q: want a positive number", arg)
	}
	return id, nil
}

// loadConfig loads dash.yaml, applies the difficulty preset and merges level packs.
func loadConfig(logger *log.Logger) (config.DashConfig, error) {
	cfg, err := config.LoadDash(flagConfig)
	if err != nil {
		return config.DashConfig{}, err
	}
	config.ApplyDashPreset(&cfg, config.ParsePreset(flagDifficulty))

	specs, err := levels.NewLoader(expandHome(flagLevelsDir)).Specs()
	if err != nil {
		// Broken files are skipped; the rest of the pack still loads.
		logger.Warn("some level files were skipped", "dir", flagLevelsDir, "error", err)
	}
	if added := cfg.AddLevels(specs); added > 0 {
		logger.Info("loaded level pack", "dir", flagLevelsDir, "levels", added)
	}
	if err := config.Validate(&cfg); err != nil {
		return config.DashConfig{}, err
	}
	return cfg, nil
}

// settingsFor builds game settings from the flags.
func settingsFor(cfg config.DashConfig, level int) registry.Settings {
	return registry.Settings{
		Config: cfg,
		Level:  level,
		Skin:   flagSkin,
		God:    flagGod,
		Fly:    flagFly,
		Speed:  flagSpeed,
	}
}

// runtimeConfig sizes the run to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     seed,
	}
}

// openEnv opens the store and profile service for the current user. Without a
// database the game still runs; results are just not saved.
func openEnv(level int, logger *log.Logger) (tui.Env, func(), error) {
	cfg, err := loadConfig(logger)
	if err != nil {
		return tui.Env{}, nil, err
	}
	name, err := username()
	if err != nil {
		return tui.Env{}, nil, err
	}

	env := tui.Env{
		Settings: settingsFor(cfg, level),
		Username: name,
		Logger:   logger.With("user", name),
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, results will not be saved", "error", err)
		return env, func() {}, checkSkin(env)
	}
	env.Store = store
	env.Profiles = profile.NewService(store, &env.Settings.Config, env.Logger)

	if err := checkSkin(env); err != nil {
		store.Close()
		return tui.Env{}, nil, err
	}
	return env, func() { store.Close() }, nil
}

// checkSkin rejects --skin values the player does not own.
func checkSkin(env tui.Env) error {
	if flagSkin == "" {
		return nil
	}
	if _, ok := env.Settings.Config.Skin(flagSkin); !ok {
		return fmt.Errorf("unknown skin %q", flagSkin)
	}
	if env.Profiles == nil {
		return nil
	}
	owned, err := env.Profiles.OwnsSkin(env.Username, flagSkin)
	if err != nil {
		return err
	}
	if !owned {
		return fmt.Errorf("skin %q is locked for %s; see 'dash profile'", flagSkin, env.Username)
	}
	return nil
}
