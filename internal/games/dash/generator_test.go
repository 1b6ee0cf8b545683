package dash

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-dash/internal/config"
)

func mustLevel(t *testing.T, cfg *config.DashConfig, id int) Level {
	t.Helper()
	l, err := LevelByID(cfg, id)
	if err != nil {
		t.Fatalf("LevelByID(%d) failed: %v", id, err)
	}
	return l
}

func TestLevelLength(t *testing.T) {
	cfg := config.DefaultDashConfig()
	l := mustLevel(t, &cfg, 1)
	if l.Length != 11500 {
		t.Errorf("level 1 length = %v, want 11500", l.Length)
	}
	if l.Multiplier != 1.0 {
		t.Errorf("level 1 multiplier = %v, want 1", l.Multiplier)
	}
}

func TestLevelByIDUnknown(t *testing.T) {
	cfg := config.DefaultDashConfig()
	_, err := LevelByID(&cfg, 99)
	if !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("expected ErrUnknownLevel, got %v", err)
	}
}

func TestLevelValidate(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		ok    bool
	}{
		{"valid", Level{ID: 1, Multiplier: 1, Length: 100}, true},
		{"zero id", Level{ID: 0, Multiplier: 1, Length: 100}, false},
		{"zero multiplier", Level{ID: 1, Multiplier: 0, Length: 100}, false},
		{"negative length", Level{ID: 1, Multiplier: 1, Length: -5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.level.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidLevel) {
				t.Errorf("expected ErrInvalidLevel, got %v", err)
			}
		})
	}
}

func TestGenerateFirstObstacle(t *testing.T) {
	cfg := config.DefaultDashConfig()
	layout, err := Generate(mustLevel(t, &cfg, 1), cfg.Generator, cfg.Track.FloorY, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if layout.Len() == 0 {
		t.Fatal("empty layout")
	}
	if x := layout.At(0).X; x != 1300 {
		t.Errorf("first obstacle at %v, want 1300", x)
	}
	if layout.Length() != 11500 {
		t.Errorf("layout length = %v, want 11500", layout.Length())
	}
}

func TestGenerateDeterminism(t *testing.T) {
	cfg := config.DefaultDashConfig()
	level := mustLevel(t, &cfg, 3)

	a, _ := Generate(level, cfg.Generator, cfg.Track.FloorY, rand.New(rand.NewSource(777)))
	b, _ := Generate(level, cfg.Generator, cfg.Track.FloorY, rand.New(rand.NewSource(777)))

	if a.Len() != b.Len() {
		t.Fatalf("lengths differ: %d vs %d", a.Len(), b.Len())
	}
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != b.At(i) {
			t.Fatalf("obstacle %d differs: %+v vs %+v", i, a.At(i), b.At(i))
		}
	}
}

func TestGenerateSpacingAndTail(t *testing.T) {
	cfg := config.DefaultDashConfig()
	for _, spec := range cfg.Levels {
		level := mustLevel(t, &cfg, spec.ID)
		for seed := int64(0); seed < 20; seed++ {
			layout, err := Generate(level, cfg.Generator, cfg.Track.FloorY, rand.New(rand.NewSource(seed)))
			if err != nil {
				t.Fatal(err)
			}
			minGap := cfg.Generator.SpacingBase / level.Multiplier
			maxGap := minGap + float64(cfg.Generator.Jitter)
			for i := 1; i < layout.Len(); i++ {
				gap := layout.At(i).X - layout.At(i-1).X
				if gap < minGap-eps || gap > maxGap+eps {
					t.Fatalf("level %d seed %d: gap %v outside [%v, %v]", level.ID, seed, gap, minGap, maxGap)
				}
			}
			last := layout.At(layout.Len() - 1)
			if last.X >= level.Length-cfg.Generator.TailMargin {
				t.Fatalf("level %d seed %d: last obstacle %v inside tail margin", level.ID, seed, last.X)
			}
		}
	}
}

func TestGenerateRejectsSpacingThatCannotAdvance(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		mutate func(*config.DashGenerator)
	}{
		{"huge multiplier", Level{ID: 1, Multiplier: 1e17, Length: 11500}, nil},
		{"too many slots", Level{ID: 1, Multiplier: 10000, Length: 11500}, nil},
		{"spacing below float precision", Level{ID: 1, Multiplier: 1, Length: 1e20 + 10000},
			func(g *config.DashGenerator) { g.StartOffset = 1e20 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultDashConfig()
			cfg.Generator.Jitter = 0
			if tt.mutate != nil {
				tt.mutate(&cfg.Generator)
			}
			_, err := Generate(tt.level, cfg.Generator, cfg.Track.FloorY, rand.New(rand.NewSource(1)))
			if !errors.Is(err, ErrInvalidLevel) {
				t.Errorf("expected ErrInvalidLevel, got %v", err)
			}
		})
	}
}

func TestGenerateDenserAtHigherMultiplier(t *testing.T) {
	cfg := config.DefaultDashConfig()
	cfg.Generator.Jitter = 0
	slow := Level{ID: 1, Multiplier: 1, Length: 20000}
	fast := Level{ID: 1, Multiplier: 2, Length: 20000}

	a, _ := Generate(slow, cfg.Generator, cfg.Track.FloorY, rand.New(rand.NewSource(1)))
	b, _ := Generate(fast, cfg.Generator, cfg.Track.FloorY, rand.New(rand.NewSource(1)))
	if b.Len() <= a.Len() {
		t.Errorf("multiplier 2 produced %d obstacles, multiplier 1 produced %d", b.Len(), a.Len())
	}
}

func TestGenerateNoJitterCount(t *testing.T) {
	cfg := config.DefaultDashConfig()
	cfg.Generator.Jitter = 0
	layout, err := Generate(mustLevel(t, &cfg, 1), cfg.Generator, cfg.Track.FloorY, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	// 1300 + 550k < 11500 - 600
	if layout.Len() != 18 {
		t.Errorf("got %d obstacles, want 18", layout.Len())
	}
	for i := 0; i < layout.Len(); i++ {
		if want := 1300 + 550*float64(i); layout.At(i).X != want {
			t.Errorf("obstacle %d at %v, want %v", i, layout.At(i).X, want)
		}
	}
}

func TestGeneratePlacement(t *testing.T) {
	cfg := config.DefaultDashConfig()
	g := cfg.Generator
	floor := cfg.Track.FloorY

	tests := []struct {
		name    string
		weights config.KindWeights
		kind    Kind
		y, size float64
	}{
		{"spikes", config.KindWeights{Spike: 1}, KindSpike, floor - g.SpikeSize, g.SpikeSize},
		{"blocks", config.KindWeights{Block: 1}, KindBlock, floor - g.BlockSize, g.BlockSize},
		{"gems", config.KindWeights{Gem: 1}, KindGem, floor - g.GemLift - g.GemSize, g.GemSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := g
			gen.Weights = tt.weights
			layout, err := Generate(mustLevel(t, &cfg, 1), gen, floor, rand.New(rand.NewSource(9)))
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < layout.Len(); i++ {
				o := layout.At(i)
				if o.Kind != tt.kind || o.Y != tt.y || o.W != tt.size || o.H != tt.size {
					t.Fatalf("obstacle %d = %+v, want kind %v at y %v size %v", i, o, tt.kind, tt.y, tt.size)
				}
			}
		})
	}
}

func TestGenerateKindMix(t *testing.T) {
	cfg := config.DefaultDashConfig()
	counts := map[Kind]int{}
	for seed := int64(0); seed < 50; seed++ {
		layout, _ := Generate(mustLevel(t, &cfg, 5), cfg.Generator, cfg.Track.FloorY, rand.New(rand.NewSource(seed)))
		for i := 0; i < layout.Len(); i++ {
			counts[layout.At(i).Kind]++
		}
	}
	if !(counts[KindSpike] > counts[KindBlock] && counts[KindBlock] > counts[KindGem] && counts[KindGem] > 0) {
		t.Errorf("kind mix does not follow weights: %v", counts)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	cfg := config.DefaultDashConfig()
	rng := rand.New(rand.NewSource(1))

	if _, err := Generate(Level{ID: 1, Multiplier: 0, Length: 100}, cfg.Generator, 340, rng); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("zero multiplier: expected ErrInvalidLevel, got %v", err)
	}

	gen := cfg.Generator
	gen.Weights = config.KindWeights{}
	if _, err := Generate(mustLevel(t, &cfg, 1), gen, 340, rng); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("zero weights: expected ErrInvalidLevel, got %v", err)
	}
}

func TestNewLayoutSorts(t *testing.T) {
	l := NewLayout(1000, Obstacle{X: 300}, Obstacle{X: 100}, Obstacle{X: 200})
	for i, want := range []float64{100, 200, 300} {
		if l.At(i).X != want {
			t.Errorf("At(%d).X = %v, want %v", i, l.At(i).X, want)
		}
	}
	copied := l.Obstacles()
	copied[0].X = 999
	if l.At(0).X != 100 {
		t.Error("Obstacles() should return a copy")
	}
}
