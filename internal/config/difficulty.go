package config

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset maps a CLI string to a preset. Unknown strings return "" (config default).
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// ApplyDashPreset tunes layout spacing and the opponent for a preset.
// Level speed multipliers are never touched; they define the level.
func ApplyDashPreset(cfg *DashConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Generator.Jitter += cfg.Generator.Jitter / 2
		cfg.Opponent.JumpChance *= 0.8
		cfg.Opponent.CrashChance = clampF(cfg.Opponent.CrashChance*2, 0, 1)
	case DifficultyHard:
		cfg.Generator.Jitter -= cfg.Generator.Jitter / 2
		cfg.Opponent.JumpChance = clampF(cfg.Opponent.JumpChance*1.4, 0, 1)
		cfg.Opponent.CrashChance *= 0.4
	}
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
