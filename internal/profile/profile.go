// Package profile keeps a player's persisted state: gem balance, owned skins,
// redeemed codes and run history. It is the only writer of rewards.
package profile

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dash/internal/config"
	"github.com/vovakirdan/tui-dash/internal/core"
	"github.com/vovakirdan/tui-dash/internal/multiplayer"
	"github.com/vovakirdan/tui-dash/internal/storage"
)

var (
	ErrUnknownCode     = errors.New("profile: unknown code")
	ErrCodeUsed        = errors.New("profile: code already used")
	ErrInvalidUsername = errors.New("profile: invalid username")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,32}$`)

// ValidUsername reports whether name can own a profile.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

// Profile is a snapshot of a player's persisted state.
type Profile struct {
	Username string
	Gems     int
	Skins    []string // Default skins first, then unlocks in order
	Duels    storage.DuelTally
}

// Owns reports whether the profile owns the skin.
func (p Profile) Owns(skin string) bool {
	for _, s := range p.Skins {
		if s == skin {
			return true
		}
	}
	return false
}

// RunResult is a finished run as the game loop reports it.
type RunResult struct {
	LevelID  int
	Mode     multiplayer.MatchMode
	Outcome  core.Outcome
	Progress float64
	Pickups  int
	Frames   int
	Seed     int64
}

// Reward is what a run or code added to a profile.
type Reward struct {
	Gems     int
	Unlocked []string // Skins that were not owned before
	Balance  int
}

// DuelResult is a finished duel from the local player's side.
type DuelResult struct {
	LevelID  int
	Mode     multiplayer.MatchMode
	Player   RunResult
	Opponent RunResult
	Winner   multiplayer.PlayerID
	Seed     int64
}

// Service reads and updates profiles in a store.
type Service struct {
	store  *storage.Store
	cfg    *config.DashConfig
	logger *log.Logger
}

// NewService creates a profile service. A nil logger discards output.
func NewService(store *storage.Store, cfg *config.DashConfig, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{store: store, cfg: cfg, logger: logger}
}

// Load returns the player's profile, creating it on first use.
func (s *Service) Load(username string) (Profile, error) {
	if !ValidUsername(username) {
		return Profile{}, fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}

	rec, err := s.store.EnsureProfile(username)
	if err != nil {
		return Profile{}, fmt.Errorf("profile: load %s: %w", username, err)
	}
	unlocked, err := s.store.Unlocks(username)
	if err != nil {
		return Profile{}, fmt.Errorf("profile: load %s: %w", username, err)
	}
	tally, err := s.store.GetDuelTally(username)
	if err != nil {
		return Profile{}, fmt.Errorf("profile: load %s: %w", username, err)
	}

	p := Profile{Username: username, Gems: rec.Gems, Duels: tally}
	for _, skin := range s.cfg.Skins {
		if skin.Default {
			p.Skins = append(p.Skins, skin.ID)
		}
	}
	for _, skin := range unlocked {
		if !p.Owns(skin) {
			p.Skins = append(p.Skins, skin)
		}
	}
	return p, nil
}

// OwnsSkin reports whether the player may use the skin.
func (s *Service) OwnsSkin(username, skin string) (bool, error) {
	p, err := s.Load(username)
	if err != nil {
		return false, err
	}
	return p.Owns(skin), nil
}

// RunReward computes the gems a run earns: its pickups, plus the completion
// bonus on a win.
func RunReward(r config.DashRewards, levelID int, outcome core.Outcome, pickups int) int {
	gems := pickups
	if outcome == core.OutcomeWon {
		gems += r.CompletionBonus + r.BonusPerLevel*levelID
	}
	return gems
}

// RecordRun stores a run and credits its reward. Completing a level grants
// the level's unlock skin.
func (s *Service) RecordRun(username string, run RunResult) (Reward, error) {
	if !ValidUsername(username) {
		return Reward{}, fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}

	reward := Reward{Gems: RunReward(s.cfg.Rewards, run.LevelID, run.Outcome, run.Pickups)}
	credit := storage.RunCredit{Gems: reward.Gems}
	if run.Outcome == core.OutcomeWon {
		if level, ok := s.cfg.Level(run.LevelID); ok {
			credit.Skin = level.UnlockSkin
		}
	}

	saved, err := s.store.SaveRun(storage.RunRecord{
		Username: username,
		LevelID:  run.LevelID,
		Mode:     run.Mode.Key(),
		Outcome:  run.Outcome.String(),
		Progress: run.Progress,
		Pickups:  run.Pickups,
		Frames:   run.Frames,
		Seed:     run.Seed,
	}, credit)
	if err != nil {
		return Reward{}, fmt.Errorf("profile: record run: %w", err)
	}

	reward.Balance = saved.Balance
	if saved.Unlocked {
		reward.Unlocked = append(reward.Unlocked, credit.Skin)
	}

	s.logger.Debug("run recorded",
		"user", username,
		"level", run.LevelID,
		"mode", run.Mode.Key(),
		"outcome", run.Outcome,
		"gems", reward.Gems,
	)
	return reward, nil
}

// RecordDuel stores a duel and the local player's run within it.
func (s *Service) RecordDuel(username string, duel DuelResult) (Reward, error) {
	if !ValidUsername(username) {
		return Reward{}, fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}

	_, err := s.store.SaveDuel(storage.DuelRecord{
		Username:         username,
		LevelID:          duel.LevelID,
		Opponent:         duel.Mode.Key(),
		PlayerOutcome:    duel.Player.Outcome.String(),
		PlayerProgress:   duel.Player.Progress,
		OpponentOutcome:  duel.Opponent.Outcome.String(),
		OpponentProgress: duel.Opponent.Progress,
		Winner:           int(duel.Winner),
		Seed:             duel.Seed,
	})
	if err != nil {
		return Reward{}, fmt.Errorf("profile: record duel: %w", err)
	}

	run := duel.Player
	run.LevelID = duel.LevelID
	run.Mode = duel.Mode
	run.Seed = duel.Seed
	return s.RecordRun(username, run)
}

// Redeem applies a secret code's grant. Each code works once per player.
func (s *Service) Redeem(username, code string) (Reward, error) {
	if !ValidUsername(username) {
		return Reward{}, fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}

	grant, ok := s.cfg.Codes[code]
	if !ok {
		return Reward{}, fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}

	before, err := s.Load(username)
	if err != nil {
		return Reward{}, err
	}

	if err := s.store.Redeem(username, code, grant.Gems, grant.Skins); err != nil {
		if errors.Is(err, storage.ErrAlreadyRedeemed) {
			return Reward{}, fmt.Errorf("%w: %q", ErrCodeUsed, code)
		}
		return Reward{}, fmt.Errorf("profile: redeem: %w", err)
	}

	reward := Reward{Gems: grant.Gems, Balance: before.Gems + grant.Gems}
	for _, skin := range grant.Skins {
		if !before.Owns(skin) {
			reward.Unlocked = append(reward.Unlocked, skin)
		}
	}

	s.logger.Info("code redeemed", "user", username, "code", code, "gems", grant.Gems)
	return reward, nil
}

// History returns the player's recent runs.
func (s *Service) History(username string, limit int) ([]storage.RunRecord, error) {
	if !ValidUsername(username) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}
	runs, err := s.store.RecentRuns(username, limit)
	if err != nil {
		return nil, fmt.Errorf("profile: history: %w", err)
	}
	return runs, nil
}
