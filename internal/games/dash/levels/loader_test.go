package levels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-dash/internal/config"
)

func TestLoadAll(t *testing.T) {
	levels, err := NewLoader("testdata/pack").LoadAll()
	if err == nil {
		t.Error("broken.yaml should be reported")
	}
	if len(levels) != 3 {
		t.Fatalf("loaded %d levels, want 3", len(levels))
	}

	wantIDs := []int{6, 7, 8}
	for i, id := range wantIDs {
		if levels[i].ID != id {
			t.Errorf("levels[%d].ID = %d, want %d", i, levels[i].ID, id)
		}
	}

	nebula := levels[0]
	if nebula.Name != "Nebula" || nebula.Multiplier != 2.0 || nebula.UnlockSkin != "prism" {
		t.Errorf("nebula = %+v", nebula.Level)
	}
	if nebula.Metadata["author"] != "dash team" {
		t.Errorf("metadata = %v", nebula.Metadata)
	}

	quasar := levels[1]
	if quasar.Name != "Quasar" || quasar.Multiplier != 2.25 {
		t.Errorf("quasar = %+v", quasar.Level)
	}
	if filepath.Base(filepath.Dir(quasar.FilePath)) != "nested" {
		t.Errorf("quasar path = %q", quasar.FilePath)
	}

	drift := levels[2]
	if drift.Name != "Level 8" || drift.Multiplier != 1 {
		t.Errorf("defaults not applied: %+v", drift.Level)
	}
}

func TestLoadAllMissingRoot(t *testing.T) {
	levels, err := NewLoader(filepath.Join(t.TempDir(), "absent")).LoadAll()
	if err != nil || len(levels) != 0 {
		t.Errorf("missing root: levels %v, err %v", levels, err)
	}
}

func TestLoadFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.json")
	if err := os.WriteFile(path, []byte(`{"id": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader("").LoadFile(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestSpecsMergeIntoConfig(t *testing.T) {
	specs, _ := NewLoader("testdata/pack").Specs()
	cfg := config.DefaultDashConfig()

	if added := cfg.AddLevels(specs); added != 3 {
		t.Fatalf("added %d levels, want 3", added)
	}
	if err := config.Validate(&cfg); err != nil {
		t.Fatalf("merged config invalid: %v", err)
	}
	l, ok := cfg.Level(6)
	if !ok || l.Name != "Nebula" || l.UnlockSkin != "prism" {
		t.Errorf("Level(6) = %+v, %v", l, ok)
	}
}
