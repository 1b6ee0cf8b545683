package registry_test

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-dash/internal/games/dash"
	"github.com/vovakirdan/tui-dash/internal/registry"
)

func TestListIncludesDash(t *testing.T) {
	games := registry.List()
	if len(games) < 2 {
		t.Fatalf("List() = %v, want the runner and the duel", games)
	}
	for i := 1; i < len(games); i++ {
		if games[i-1].ID > games[i].ID {
			t.Errorf("List() not sorted: %q before %q", games[i-1].ID, games[i].ID)
		}
	}
	ids := make(map[string]bool, len(games))
	for _, g := range games {
		ids[g.ID] = true
	}
	for _, id := range []string{dash.GameID, dash.DuelID} {
		if !ids[id] {
			t.Errorf("List() is missing %q", id)
		}
	}
}

func TestCreate(t *testing.T) {
	g, err := registry.Create(dash.GameID, registry.DefaultSettings())
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.ID() != dash.GameID {
		t.Errorf("ID() = %q, want %q", g.ID(), dash.GameID)
	}

	if _, err := registry.Create("nope", registry.DefaultSettings()); err == nil {
		t.Error("Create() should fail for an unknown game")
	}

	s := registry.DefaultSettings()
	s.Level = 99
	_, err = registry.Create(dash.GameID, s)
	if !errors.Is(err, dash.ErrUnknownLevel) {
		t.Errorf("Create() with unknown level = %v, want ErrUnknownLevel", err)
	}
}
