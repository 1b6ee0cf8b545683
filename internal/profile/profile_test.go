package profile

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-dash/internal/config"
	"github.com/vovakirdan/tui-dash/internal/core"
	"github.com/vovakirdan/tui-dash/internal/multiplayer"
	"github.com/vovakirdan/tui-dash/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "dash.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	cfg := config.DefaultDashConfig()
	return NewService(store, &cfg, nil), store
}

func TestLoadNewProfile(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.Load("ann")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if p.Gems != 0 || len(p.Skins) != 1 || p.Skins[0] != "classic" {
		t.Errorf("new profile = %+v", p)
	}
}

func TestInvalidUsername(t *testing.T) {
	svc, _ := newTestService(t)

	for _, name := range []string{"", "has space", "way-too-long-username-for-the-scoreboard"} {
		if _, err := svc.Load(name); !errors.Is(err, ErrInvalidUsername) {
			t.Errorf("Load(%q): expected ErrInvalidUsername, got %v", name, err)
		}
		if _, err := svc.RecordRun(name, RunResult{LevelID: 1}); !errors.Is(err, ErrInvalidUsername) {
			t.Errorf("RecordRun(%q): expected ErrInvalidUsername, got %v", name, err)
		}
	}
}

func TestRunReward(t *testing.T) {
	r := config.DefaultDashConfig().Rewards
	tests := []struct {
		name    string
		level   int
		outcome core.Outcome
		pickups int
		want    int
	}{
		{"lost keeps pickups", 3, core.OutcomeLost, 4, 4},
		{"won level 1", 1, core.OutcomeWon, 2, 2 + 10 + 5},
		{"won level 5", 5, core.OutcomeWon, 0, 10 + 25},
		{"abandoned", 2, core.OutcomeInProgress, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RunReward(r, tt.level, tt.outcome, tt.pickups); got != tt.want {
				t.Errorf("RunReward() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecordRunCreditsGems(t *testing.T) {
	svc, store := newTestService(t)

	reward, err := svc.RecordRun("ann", RunResult{LevelID: 2, Mode: multiplayer.MatchModeSolo, Outcome: core.OutcomeLost, Progress: 40, Pickups: 3})
	if err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	if reward.Gems != 3 || reward.Balance != 3 || len(reward.Unlocked) != 0 {
		t.Errorf("reward = %+v", reward)
	}

	reward, _ = svc.RecordRun("ann", RunResult{LevelID: 2, Mode: multiplayer.MatchModeSolo, Outcome: core.OutcomeWon, Progress: 100, Pickups: 1})
	if reward.Gems != 1+10+10 || reward.Balance != 24 {
		t.Errorf("win reward = %+v", reward)
	}

	runs, _ := store.TopRuns(2, 10)
	if len(runs) != 2 || runs[0].Outcome != "won" || runs[0].Mode != "solo" {
		t.Errorf("stored runs = %+v", runs)
	}
}

func TestRecordRunUnlocksSkinOnce(t *testing.T) {
	svc, _ := newTestService(t)

	if ok, _ := svc.OwnsSkin("ann", "jet"); ok {
		t.Fatal("jet should start locked")
	}

	lost, _ := svc.RecordRun("ann", RunResult{LevelID: 3, Outcome: core.OutcomeLost, Progress: 90})
	if len(lost.Unlocked) != 0 {
		t.Error("a lost run must not unlock")
	}

	won, err := svc.RecordRun("ann", RunResult{LevelID: 3, Outcome: core.OutcomeWon, Progress: 100})
	if err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	if len(won.Unlocked) != 1 || won.Unlocked[0] != "jet" {
		t.Errorf("unlocked = %v, want [jet]", won.Unlocked)
	}
	if ok, _ := svc.OwnsSkin("ann", "jet"); !ok {
		t.Error("jet should be owned after completing level 3")
	}

	again, _ := svc.RecordRun("ann", RunResult{LevelID: 3, Outcome: core.OutcomeWon, Progress: 100})
	if len(again.Unlocked) != 0 {
		t.Errorf("second completion unlocked %v", again.Unlocked)
	}
}

func TestRedeem(t *testing.T) {
	svc, _ := newTestService(t)

	reward, err := svc.Redeem("ann", "PRISMATIC")
	if err != nil {
		t.Fatalf("Redeem() failed: %v", err)
	}
	if reward.Gems != 250 || reward.Balance != 250 || len(reward.Unlocked) != 1 || reward.Unlocked[0] != "prism" {
		t.Errorf("reward = %+v", reward)
	}

	if _, err := svc.Redeem("ann", "PRISMATIC"); !errors.Is(err, ErrCodeUsed) {
		t.Errorf("expected ErrCodeUsed, got %v", err)
	}
	if _, err := svc.Redeem("ann", "NOPE"); !errors.Is(err, ErrUnknownCode) {
		t.Errorf("expected ErrUnknownCode, got %v", err)
	}

	// Codes are per player.
	if _, err := svc.Redeem("bob", "PRISMATIC"); err != nil {
		t.Errorf("other player redeem failed: %v", err)
	}

	p, _ := svc.Load("ann")
	if p.Gems != 250 || !p.Owns("prism") {
		t.Errorf("profile = %+v", p)
	}
}

func TestRedeemOwnedSkinNotReported(t *testing.T) {
	svc, _ := newTestService(t)

	svc.RecordRun("ann", RunResult{LevelID: 3, Outcome: core.OutcomeWon, Progress: 100})
	reward, err := svc.Redeem("ann", "JETSET")
	if err != nil {
		t.Fatalf("Redeem() failed: %v", err)
	}
	if len(reward.Unlocked) != 0 {
		t.Errorf("already-owned skin reported as new: %v", reward.Unlocked)
	}
}

func TestRecordDuel(t *testing.T) {
	svc, store := newTestService(t)

	duel := DuelResult{
		LevelID:  1,
		Mode:     multiplayer.MatchModeVsBot,
		Player:   RunResult{Outcome: core.OutcomeWon, Progress: 100, Pickups: 2, Frames: 1600},
		Opponent: RunResult{Outcome: core.OutcomeLost, Progress: 55},
		Winner:   multiplayer.Player1,
		Seed:     9,
	}
	reward, err := svc.RecordDuel("ann", duel)
	if err != nil {
		t.Fatalf("RecordDuel() failed: %v", err)
	}
	if reward.Gems != 2+10+5 {
		t.Errorf("duel reward = %+v", reward)
	}

	p, _ := svc.Load("ann")
	if p.Duels.Wins != 1 {
		t.Errorf("duel tally = %+v", p.Duels)
	}

	runs, _ := store.RecentRuns("ann", 10)
	if len(runs) != 1 || runs[0].Mode != "bot" || runs[0].LevelID != 1 || runs[0].Seed != 9 {
		t.Errorf("duel run = %+v", runs)
	}
	duels, _ := store.RecentDuels("ann", 10)
	if len(duels) != 1 || duels[0].OpponentProgress != 55 || duels[0].Winner != 1 {
		t.Errorf("duels = %+v", duels)
	}
}

func TestHistory(t *testing.T) {
	svc, _ := newTestService(t)
	for i := 1; i <= 3; i++ {
		svc.RecordRun("ann", RunResult{LevelID: i, Outcome: core.OutcomeLost})
	}
	runs, err := svc.History("ann", 2)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(runs) != 2 || runs[0].LevelID != 3 {
		t.Errorf("history = %+v", runs)
	}
}
