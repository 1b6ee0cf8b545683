// Package config provides YAML-based game configuration loading,
// validation and difficulty presets for dash.
package config

import "math"

// MaxObstacles bounds how many obstacles one level may lay out.
const MaxObstacles = 20000

// DashConfig contains all configuration for the runner.
type DashConfig struct {
	Physics   DashPhysics          `yaml:"physics"`
	Track     DashTrack            `yaml:"track"`
	Generator DashGenerator        `yaml:"generator"`
	Player    DashPlayer           `yaml:"player"`
	Opponent  DashOpponent         `yaml:"opponent"`
	Rewards   DashRewards          `yaml:"rewards"`
	Levels    []LevelSpec          `yaml:"levels"`
	Skins     []SkinSpec           `yaml:"skins"`
	Codes     map[string]CodeGrant `yaml:"codes"`
}

// DashPhysics defines per-frame physics constants.
type DashPhysics struct {
	Gravity      float64 `yaml:"gravity"`       // Added to vertical velocity every frame
	JumpImpulse  float64 `yaml:"jump_impulse"`  // Velocity set on a jump (negative = up)
	FlyThrust    float64 `yaml:"fly_thrust"`    // Added while flying and thrust is held
	FlyMaxSpeed  float64 `yaml:"fly_max_speed"` // |velocity| bound while flying
	RotationRate float64 `yaml:"rotation_rate"` // Degrees per frame while tumbling, before the level multiplier
}

// DashTrack defines the view and the track scroll.
type DashTrack struct {
	ViewWidth      float64 `yaml:"view_width"`
	ViewHeight     float64 `yaml:"view_height"`
	FloorY         float64 `yaml:"floor_y"`
	PlayerX        float64 `yaml:"player_x"` // Fixed horizontal screen position of the player
	BaseSpeed      float64 `yaml:"base_speed"`
	BaseLength     float64 `yaml:"base_length"`
	LengthPerLevel float64 `yaml:"length_per_level"`
}

// DashGenerator defines procedural obstacle layout.
type DashGenerator struct {
	StartOffset float64     `yaml:"start_offset"`
	SpacingBase float64     `yaml:"spacing_base"` // Divided by the level multiplier
	Jitter      int         `yaml:"jitter"`       // Extra random spacing in [0, jitter]
	TailMargin  float64     `yaml:"tail_margin"`
	Weights     KindWeights `yaml:"weights"`
	SpikeSize   float64     `yaml:"spike_size"`
	BlockSize   float64     `yaml:"block_size"`
	GemSize     float64     `yaml:"gem_size"`
	GemLift     float64     `yaml:"gem_lift"` // Height of a gem's bottom above the floor
}

// Slots returns how many obstacle slots a level of the given length and
// multiplier can hold at the tightest spacing. Zero means the level is too short
// for any obstacle; +Inf means the spacing cannot advance.
func (g DashGenerator) Slots(length, multiplier float64) float64 {
	span := length - g.TailMargin - g.StartOffset
	if span <= 0 {
		return 0
	}
	step := g.SpacingBase / multiplier
	if !(step > 0) || math.IsInf(span, 0) {
		return math.Inf(1)
	}
	return math.Ceil(span / step)
}

// KindWeights are relative weights for the obstacle kind draw.
type KindWeights struct {
	Spike int `yaml:"spike"`
	Block int `yaml:"block"`
	Gem   int `yaml:"gem"`
}

// Total returns the sum of all weights.
func (w KindWeights) Total() int {
	return w.Spike + w.Block + w.Gem
}

// DashPlayer defines the player body.
type DashPlayer struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	HitboxInset float64 `yaml:"hitbox_inset"` // Forgiveness applied to the player box on every side
}

// DashOpponent defines the simulated opponent.
type DashOpponent struct {
	Model       string  `yaml:"model"`        // "coinflip" or "geometry"
	Lookahead   float64 `yaml:"lookahead"`    // Distance ahead that triggers jump attempts
	JumpChance  float64 `yaml:"jump_chance"`  // Per-frame jump probability with an obstacle ahead
	CrashChance float64 `yaml:"crash_chance"` // Per-obstacle failure probability (coinflip model)
}

// Opponent failure models.
const (
	OpponentCoinflip = "coinflip"
	OpponentGeometry = "geometry"
)

// DashRewards defines how a finished run converts into gems.
type DashRewards struct {
	GemValue        int `yaml:"gem_value"`        // Pickup counter increment per gem
	CompletionBonus int `yaml:"completion_bonus"` // Gems for finishing any level
	BonusPerLevel   int `yaml:"bonus_per_level"`  // Extra gems per level ID on completion
}

// LevelSpec describes a playable level.
type LevelSpec struct {
	ID         int     `yaml:"id"`
	Name       string  `yaml:"name"`
	Multiplier float64 `yaml:"multiplier"`
	UnlockSkin string  `yaml:"unlock_skin,omitempty"` // Skin granted on first completion
}

// SkinSpec describes a cosmetic skin and its capability flags.
type SkinSpec struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Color   string `yaml:"color"`
	Glyph   string `yaml:"glyph"`
	Fly     bool   `yaml:"fly"`
	Shoot   bool   `yaml:"shoot"`
	Glitch  bool   `yaml:"glitch"`
	Default bool   `yaml:"default"` // Owned by every profile
}

// CodeGrant is what a redeemable code gives a profile.
type CodeGrant struct {
	Gems  int      `yaml:"gems"`
	Skins []string `yaml:"skins"`
}

// Level returns the level with the given ID.
func (c *DashConfig) Level(id int) (LevelSpec, bool) {
	for _, l := range c.Levels {
		if l.ID == id {
			return l, true
		}
	}
	return LevelSpec{}, false
}

// Skin returns the skin with the given ID.
func (c *DashConfig) Skin(id string) (SkinSpec, bool) {
	for _, s := range c.Skins {
		if s.ID == id {
			return s, true
		}
	}
	return SkinSpec{}, false
}

// DefaultSkin returns the first skin marked default, or the first skin.
func (c *DashConfig) DefaultSkin() SkinSpec {
	for _, s := range c.Skins {
		if s.Default {
			return s
		}
	}
	if len(c.Skins) > 0 {
		return c.Skins[0]
	}
	return SkinSpec{ID: "classic", Name: "Classic", Color: "bright_cyan", Glyph: "■", Default: true}
}

// AddLevels appends levels whose IDs are not already present.
// Returns the number of levels added.
func (c *DashConfig) AddLevels(levels []LevelSpec) int {
	added := 0
	for _, l := range levels {
		if _, exists := c.Level(l.ID); exists {
			continue
		}
		c.Levels = append(c.Levels, l)
		added++
	}
	return added
}
