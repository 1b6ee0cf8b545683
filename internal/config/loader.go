package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// LoadDash loads the runner configuration.
// Search order: customPath -> ~/.dash/configs/dash.yaml -> ./configs/dash.yaml -> embedded default.
// Files override the built-in defaults field by field. A custom path that cannot be read or
// parsed is an error; discovered files that fail to parse are skipped.
// The result is always validated.
func LoadDash(customPath string) (DashConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DashConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := ParseDash(data)
		if err != nil {
			return DashConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, Validate(&cfg)
	}

	candidates := []string{
		userConfigPath("dash.yaml"),
		filepath.Join("configs", "dash.yaml"),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := ParseDash(data); err == nil {
			return cfg, Validate(&cfg)
		}
	}

	cfg, err := ParseDash(defaultDashYAML)
	if err != nil {
		cfg = DefaultDashConfig() // Fallback to hardcoded if embed fails
	}
	return cfg, Validate(&cfg)
}

// ParseDash decodes YAML on top of the built-in defaults.
func ParseDash(data []byte) (DashConfig, error) {
	cfg := DefaultDashConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DashConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dash", "configs", filename)
}

// Validate rejects configurations that would put nonsense into the physics math.
func Validate(cfg *DashConfig) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	p := cfg.Physics
	if !finitePositive(p.Gravity) {
		add("physics.gravity must be positive, got %v", p.Gravity)
	}
	if !finitePositive(-p.JumpImpulse) {
		add("physics.jump_impulse must be negative, got %v", p.JumpImpulse)
	}
	if !finitePositive(-p.FlyThrust) {
		add("physics.fly_thrust must be negative, got %v", p.FlyThrust)
	}
	if !finitePositive(p.FlyMaxSpeed) {
		add("physics.fly_max_speed must be positive, got %v", p.FlyMaxSpeed)
	}
	if !finiteNonNegative(math.Abs(p.RotationRate)) {
		add("physics.rotation_rate must be a number, got %v", p.RotationRate)
	}

	tr := cfg.Track
	if !finitePositive(tr.ViewWidth) || !finitePositive(tr.ViewHeight) {
		add("track view must be positive, got %vx%v", tr.ViewWidth, tr.ViewHeight)
	}
	if !(tr.FloorY > cfg.Player.Height && tr.FloorY <= tr.ViewHeight) {
		add("track.floor_y %v must leave room for the player inside the view", tr.FloorY)
	}
	if !finiteNonNegative(tr.PlayerX) || tr.PlayerX > tr.ViewWidth {
		add("track.player_x %v must be inside the view", tr.PlayerX)
	}
	if !finitePositive(tr.BaseSpeed) {
		add("track.base_speed must be positive, got %v", tr.BaseSpeed)
	}
	if !finitePositive(tr.BaseLength) || !finiteNonNegative(tr.LengthPerLevel) {
		add("track lengths must be positive")
	}

	g := cfg.Generator
	if !finitePositive(g.SpacingBase) {
		add("generator.spacing_base must be positive, got %v", g.SpacingBase)
	}
	if g.Jitter < 0 {
		add("generator.jitter must not be negative, got %d", g.Jitter)
	}
	if !finiteNonNegative(g.StartOffset) || !finiteNonNegative(g.TailMargin) {
		add("generator.start_offset and tail_margin must not be negative")
	}
	if !finitePositive(g.SpikeSize) || !finitePositive(g.BlockSize) || !finitePositive(g.GemSize) || !finiteNonNegative(g.GemLift) {
		add("generator obstacle sizes must be positive")
	}
	if g.Weights.Spike < 0 || g.Weights.Block < 0 || g.Weights.Gem < 0 || g.Weights.Total() == 0 {
		add("generator.weights must be non-negative with a positive total")
	}

	pl := cfg.Player
	if !finitePositive(pl.Width) || !finitePositive(pl.Height) {
		add("player size must be positive")
	}
	if !finiteNonNegative(pl.HitboxInset) || 2*pl.HitboxInset >= math.Min(pl.Width, pl.Height) {
		add("player.hitbox_inset %v must leave a non-empty hitbox", pl.HitboxInset)
	}

	if !finiteNonNegative(cfg.Opponent.Lookahead) {
		add("opponent.lookahead must not be negative, got %v", cfg.Opponent.Lookahead)
	}
	switch cfg.Opponent.Model {
	case OpponentCoinflip, OpponentGeometry:
	default:
		add("opponent.model must be %q or %q, got %q", OpponentCoinflip, OpponentGeometry, cfg.Opponent.Model)
	}
	if !isProbability(cfg.Opponent.JumpChance) || !isProbability(cfg.Opponent.CrashChance) {
		add("opponent chances must be within [0, 1]")
	}

	if len(cfg.Levels) == 0 {
		add("at least one level is required")
	}
	seen := make(map[int]bool, len(cfg.Levels))
	for _, l := range cfg.Levels {
		if l.ID <= 0 {
			add("level %q has non-positive id %d", l.Name, l.ID)
		}
		if seen[l.ID] {
			add("duplicate level id %d", l.ID)
		}
		seen[l.ID] = true
		if !finitePositive(l.Multiplier) {
			add("level %d multiplier must be a positive number, got %v", l.ID, l.Multiplier)
		} else if l.ID > 0 {
			length := tr.BaseLength + float64(l.ID)*tr.LengthPerLevel
			if slots := g.Slots(length, l.Multiplier); slots > MaxObstacles {
				add("level %d multiplier %v packs %v obstacles, max %d", l.ID, l.Multiplier, slots, MaxObstacles)
			}
		}
		if l.UnlockSkin != "" {
			if _, ok := cfg.Skin(l.UnlockSkin); !ok {
				add("level %d unlocks unknown skin %q", l.ID, l.UnlockSkin)
			}
		}
	}

	for code, grant := range cfg.Codes {
		for _, s := range grant.Skins {
			if _, ok := cfg.Skin(s); !ok {
				add("code %s grants unknown skin %q", code, s)
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

func isProbability(v float64) bool {
	return v >= 0 && v <= 1
}
