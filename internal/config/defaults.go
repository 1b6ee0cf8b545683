package config

import (
	_ "embed"
)

//go:embed defaults/dash.yaml
var defaultDashYAML []byte

// DefaultDashConfig returns the built-in configuration, used when the embedded
// YAML cannot be parsed and as the base that user files override.
func DefaultDashConfig() DashConfig {
	return DashConfig{
		Physics: DashPhysics{
			Gravity:      0.9,
			JumpImpulse:  -14,
			FlyThrust:    -1.6,
			FlyMaxSpeed:  8,
			RotationRate: 6,
		},
		Track: DashTrack{
			ViewWidth:      800,
			ViewHeight:     400,
			FloorY:         340,
			PlayerX:        120,
			BaseSpeed:      7,
			BaseLength:     10000,
			LengthPerLevel: 1500,
		},
		Generator: DashGenerator{
			StartOffset: 1300,
			SpacingBase: 550,
			Jitter:      250,
			TailMargin:  600,
			Weights: KindWeights{
				Spike: 60,
				Block: 30,
				Gem:   10,
			},
			SpikeSize: 30,
			BlockSize: 40,
			GemSize:   20,
			GemLift:   70,
		},
		Player: DashPlayer{
			Width:       30,
			Height:      30,
			HitboxInset: 5,
		},
		Opponent: DashOpponent{
			Model:       OpponentCoinflip,
			Lookahead:   160,
			JumpChance:  0.25,
			CrashChance: 0.04,
		},
		Rewards: DashRewards{
			GemValue:        1,
			CompletionBonus: 10,
			BonusPerLevel:   5,
		},
		Levels: []LevelSpec{
			{ID: 1, Name: "Warmup", Multiplier: 1.0},
			{ID: 2, Name: "Skyline", Multiplier: 1.15},
			{ID: 3, Name: "Rush", Multiplier: 1.3, UnlockSkin: "jet"},
			{ID: 4, Name: "Overdrive", Multiplier: 1.5},
			{ID: 5, Name: "Hyperspace", Multiplier: 1.8, UnlockSkin: "glitch"},
		},
		Skins: []SkinSpec{
			{ID: "classic", Name: "Classic", Color: "bright_cyan", Glyph: "■", Default: true},
			{ID: "jet", Name: "Jet", Color: "orange", Glyph: "▶", Fly: true},
			{ID: "glitch", Name: "Glitch", Color: "bright_magenta", Glyph: "▓", Glitch: true},
			{ID: "prism", Name: "Prism", Color: "bright_white", Glyph: "◈", Fly: true, Shoot: true, Glitch: true},
		},
		Codes: map[string]CodeGrant{
			"WELCOME":   {Gems: 50},
			"JETSET":    {Skins: []string{"jet"}},
			"PRISMATIC": {Gems: 250, Skins: []string{"prism"}},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultDashYAML
}
