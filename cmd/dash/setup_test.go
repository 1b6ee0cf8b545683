package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"one", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.arg)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLevel(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseLevel(%q) = %d, want %d", tt.arg, got, tt.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/.dash/dash.db"); got != filepath.Join(home, ".dash", "dash.db") {
		t.Errorf("expandHome() = %q", got)
	}
	if got := expandHome("/tmp/dash.db"); got != "/tmp/dash.db" {
		t.Errorf("expandHome() changed an absolute path: %q", got)
	}
}

func TestUsername(t *testing.T) {
	defer func() { flagUser = "" }()

	flagUser = "ann"
	if got, err := username(); err != nil || got != "ann" {
		t.Errorf("username() = %q, %v; want ann", got, err)
	}

	flagUser = "bad name!"
	if _, err := username(); err == nil {
		t.Error("username() should reject an invalid --user")
	}

	flagUser = ""
	t.Setenv("USER", "bob")
	if got, err := username(); err != nil || got != "bob" {
		t.Errorf("username() = %q, %v; want bob from $USER", got, err)
	}
}

func TestLoadConfigMergesLevelPack(t *testing.T) {
	dir := t.TempDir()
	data := []byte("id: 40\nname: Extra\nmultiplier: 1.5\n")
	if err := os.WriteFile(filepath.Join(dir, "extra.yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	old := flagLevelsDir
	flagLevelsDir = dir
	defer func() { flagLevelsDir = old }()

	logger, closeLog := newLogger(false)
	defer closeLog()

	cfg, err := loadConfig(logger)
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}
	lvl, ok := cfg.Level(40)
	if !ok || lvl.Name != "Extra" {
		t.Errorf("Level(40) = %+v, %v; want the pack level", lvl, ok)
	}
}
