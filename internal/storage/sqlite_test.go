package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveRun(RunRecord{Username: "ann", LevelID: 1, Mode: "solo", Outcome: "won", Progress: 100}, RunCredit{}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	runs, err := store.TopRuns(1, 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("Expected 1 run after reopen, got %d", len(runs))
	}
}

func TestStoreSaveRunAssignsID(t *testing.T) {
	store := openTestStore(t)

	first, err := store.SaveRun(RunRecord{Username: "ann", LevelID: 1, Mode: "solo", Outcome: "lost"}, RunCredit{})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	second, _ := store.SaveRun(RunRecord{Username: "ann", LevelID: 1, Mode: "solo", Outcome: "lost"}, RunCredit{})
	if first.ID == "" || first.ID == second.ID {
		t.Errorf("expected distinct generated IDs, got %q and %q", first.ID, second.ID)
	}

	if _, err := store.SaveRun(RunRecord{ID: first.ID, Username: "ann", LevelID: 1, Mode: "solo", Outcome: "lost"}, RunCredit{}); err == nil {
		t.Error("duplicate ID should fail")
	}
}

func TestStoreTopRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []RunRecord{
		{Username: "ann", LevelID: 1, Mode: "solo", Outcome: "lost", Progress: 40, Pickups: 1},
		{Username: "bob", LevelID: 1, Mode: "solo", Outcome: "won", Progress: 100, Pickups: 3, Frames: 1700},
		{Username: "ann", LevelID: 1, Mode: "solo", Outcome: "lost", Progress: 40, Pickups: 4},
		{Username: "cid", LevelID: 2, Mode: "bot", Outcome: "won", Progress: 100},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r, RunCredit{}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns(1, 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(top))
	}
	if top[0].Username != "bob" || top[0].Frames != 1700 {
		t.Errorf("top run = %+v", top[0])
	}
	// Equal progress ranks by pickups.
	if top[1].Pickups != 4 || top[2].Pickups != 1 {
		t.Errorf("tie order = %d, %d", top[1].Pickups, top[2].Pickups)
	}

	limited, _ := store.TopRuns(1, 1)
	if len(limited) != 1 {
		t.Errorf("Expected 1 run with limit, got %d", len(limited))
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	for i, lvl := range []int{1, 2, 3} {
		store.SaveRun(RunRecord{Username: "ann", LevelID: lvl, Mode: "solo", Outcome: "lost", Seed: int64(i)}, RunCredit{})
	}
	store.SaveRun(RunRecord{Username: "bob", LevelID: 1, Mode: "solo", Outcome: "lost"}, RunCredit{})

	recent, err := store.RecentRuns("ann", 2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(recent))
	}
	if recent[0].LevelID != 3 || recent[1].LevelID != 2 {
		t.Errorf("recent order = %d, %d", recent[0].LevelID, recent[1].LevelID)
	}
}

func TestStoreBestProgress(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestProgress("ann", 1)
	if err != nil {
		t.Fatalf("BestProgress() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("Expected 0 for no runs, got %v", best)
	}

	store.SaveRun(RunRecord{Username: "ann", LevelID: 1, Mode: "solo", Outcome: "lost", Progress: 35.5}, RunCredit{})
	store.SaveRun(RunRecord{Username: "ann", LevelID: 1, Mode: "solo", Outcome: "lost", Progress: 12}, RunCredit{})
	store.SaveRun(RunRecord{Username: "bob", LevelID: 1, Mode: "solo", Outcome: "won", Progress: 100}, RunCredit{})

	best, _ = store.BestProgress("ann", 1)
	if best != 35.5 {
		t.Errorf("Expected 35.5, got %v", best)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{Username: "ann", LevelID: 1, Mode: "solo", Outcome: "lost"}, RunCredit{})
	store.SaveRun(RunRecord{Username: "ann", LevelID: 2, Mode: "solo", Outcome: "lost"}, RunCredit{})

	if err := store.ClearRuns(1); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	if runs, _ := store.TopRuns(1, 10); len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}
	if runs, _ := store.TopRuns(2, 10); len(runs) != 1 {
		t.Error("Other level's runs should not be affected")
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{Username: "ann", LevelID: 1, Mode: "solo", Outcome: "won", Progress: 100, Pickups: 4}, RunCredit{})
	store.SaveRun(RunRecord{Username: "ann", LevelID: 1, Mode: "solo", Outcome: "lost", Progress: 50, Pickups: 2}, RunCredit{})
	store.SaveRun(RunRecord{Username: "ann", LevelID: 2, Mode: "solo", Outcome: "lost", Progress: 10}, RunCredit{})

	stats, err := store.GetLevelStats(1)
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if stats.Attempts != 2 || stats.Wins != 1 || stats.BestProgress != 100 || stats.AvgProgress != 75 || stats.Pickups != 6 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}

	empty, err := store.GetLevelStats(9)
	if err != nil {
		t.Fatalf("GetLevelStats() on empty level failed: %v", err)
	}
	if empty.Attempts != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	all, err := store.GetAllLevelStats()
	if err != nil {
		t.Fatalf("GetAllLevelStats() failed: %v", err)
	}
	if len(all) != 2 || all[2].Attempts != 1 {
		t.Errorf("all stats = %v", all)
	}
}

func TestStoreProfileAndGems(t *testing.T) {
	store := openTestStore(t)

	p, err := store.EnsureProfile("ann")
	if err != nil {
		t.Fatalf("EnsureProfile() failed: %v", err)
	}
	if p.Username != "ann" || p.Gems != 0 {
		t.Errorf("new profile = %+v", p)
	}

	saved, err := store.SaveRun(RunRecord{Username: "ann", LevelID: 1, Mode: "solo", Outcome: "lost"}, RunCredit{Gems: 12})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if saved.Balance != 12 {
		t.Errorf("balance = %d, want 12", saved.Balance)
	}
	saved, _ = store.SaveRun(RunRecord{Username: "ann", LevelID: 1, Mode: "solo", Outcome: "lost"}, RunCredit{Gems: 5})
	if saved.Balance != 17 {
		t.Errorf("balance = %d, want 17", saved.Balance)
	}

	p, _ = store.EnsureProfile("ann")
	if p.Gems != 17 {
		t.Errorf("EnsureProfile should not reset gems, got %d", p.Gems)
	}
}

func TestStoreSaveRunUnlocks(t *testing.T) {
	store := openTestStore(t)
	won := func(level int) RunRecord {
		return RunRecord{Username: "ann", LevelID: level, Mode: "solo", Outcome: "won", Progress: 100}
	}

	saved, err := store.SaveRun(won(4), RunCredit{Skin: "jet"})
	if err != nil || !saved.Unlocked {
		t.Fatalf("SaveRun() = %+v, %v", saved, err)
	}
	saved, _ = store.SaveRun(won(4), RunCredit{Skin: "jet"})
	if saved.Unlocked {
		t.Error("second unlock of the same skin should report false")
	}
	store.SaveRun(won(5), RunCredit{Skin: "glitch"})
	store.SaveRun(RunRecord{Username: "bob", LevelID: 5, Mode: "solo", Outcome: "won"}, RunCredit{Skin: "prism"})

	skins, err := store.Unlocks("ann")
	if err != nil {
		t.Fatalf("Unlocks() failed: %v", err)
	}
	if len(skins) != 2 || skins[0] != "jet" || skins[1] != "glitch" {
		t.Errorf("skins = %v", skins)
	}
}

func TestStoreSaveRunIsAtomic(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.SaveRun(RunRecord{Username: "ann", LevelID: 1, Mode: "solo", Outcome: "lost"}, RunCredit{Gems: 10})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	// Reusing the ID fails the insert; the credit must not be applied either.
	dup := RunRecord{ID: saved.ID, Username: "ann", LevelID: 4, Mode: "solo", Outcome: "won", Progress: 100}
	if _, err := store.SaveRun(dup, RunCredit{Gems: 50, Skin: "jet"}); err == nil {
		t.Fatal("duplicate ID should fail")
	}

	p, _ := store.EnsureProfile("ann")
	if p.Gems != 10 {
		t.Errorf("gems = %d after failed save, want 10", p.Gems)
	}
	if skins, _ := store.Unlocks("ann"); len(skins) != 0 {
		t.Errorf("skins = %v after failed save, want none", skins)
	}
	if runs, _ := store.RecentRuns("ann", 10); len(runs) != 1 {
		t.Errorf("runs = %d after failed save, want 1", len(runs))
	}
}

func TestStoreRedeem(t *testing.T) {
	store := openTestStore(t)

	if err := store.Redeem("ann", "PRISMATIC", 250, []string{"prism"}); err != nil {
		t.Fatalf("Redeem() failed: %v", err)
	}

	used, _ := store.HasRedeemed("ann", "PRISMATIC")
	if !used {
		t.Error("code should be marked used")
	}
	if used, _ := store.HasRedeemed("bob", "PRISMATIC"); used {
		t.Error("redemption is per player")
	}

	p, _ := store.EnsureProfile("ann")
	skins, _ := store.Unlocks("ann")
	if p.Gems != 250 || len(skins) != 1 || skins[0] != "prism" {
		t.Errorf("grant not applied: gems %d skins %v", p.Gems, skins)
	}

	err := store.Redeem("ann", "PRISMATIC", 250, []string{"prism"})
	if !errors.Is(err, ErrAlreadyRedeemed) {
		t.Fatalf("expected ErrAlreadyRedeemed, got %v", err)
	}
	p, _ = store.EnsureProfile("ann")
	if p.Gems != 250 {
		t.Errorf("failed redemption changed gems to %d", p.Gems)
	}
}

func TestStoreDuels(t *testing.T) {
	store := openTestStore(t)

	duels := []DuelRecord{
		{Username: "ann", LevelID: 1, Opponent: "bot", PlayerOutcome: "won", PlayerProgress: 100, OpponentOutcome: "lost", OpponentProgress: 40, Winner: 1},
		{Username: "ann", LevelID: 2, Opponent: "bot", PlayerOutcome: "lost", PlayerProgress: 20, OpponentOutcome: "in-progress", OpponentProgress: 20, Winner: 2},
		{Username: "ann", LevelID: 3, Opponent: "versus", PlayerOutcome: "lost", PlayerProgress: 30, OpponentOutcome: "lost", OpponentProgress: 30, Winner: 0},
		{Username: "bob", LevelID: 1, Opponent: "bot", PlayerOutcome: "won", Winner: 1},
	}
	for _, d := range duels {
		if _, err := store.SaveDuel(d); err != nil {
			t.Fatalf("SaveDuel() failed: %v", err)
		}
	}

	recent, err := store.RecentDuels("ann", 10)
	if err != nil {
		t.Fatalf("RecentDuels() failed: %v", err)
	}
	if len(recent) != 3 || recent[0].LevelID != 3 {
		t.Fatalf("recent duels = %+v", recent)
	}
	if recent[2].OpponentProgress != 40 || recent[2].ID == "" {
		t.Errorf("oldest duel = %+v", recent[2])
	}

	tally, err := store.GetDuelTally("ann")
	if err != nil {
		t.Fatalf("GetDuelTally() failed: %v", err)
	}
	if tally != (DuelTally{Wins: 1, Losses: 1, Draws: 1}) {
		t.Errorf("tally = %+v", tally)
	}

	none, _ := store.GetDuelTally("nobody")
	if none != (DuelTally{}) {
		t.Errorf("empty tally = %+v", none)
	}
}
