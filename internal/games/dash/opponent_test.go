package dash

import (
	"testing"

	"github.com/vovakirdan/tui-dash/internal/config"
	"github.com/vovakirdan/tui-dash/internal/core"
)

func newTestBot(oc config.DashOpponent, seed int64, obstacles ...Obstacle) *Opponent {
	cfg := config.DefaultDashConfig()
	cfg.Opponent = oc
	run := NewRun(testLevel, NewLayout(testLevel.Length, obstacles...), &cfg, BotModifiers(oc, 0), core.Player2)
	return NewOpponent(run, oc, seed)
}

func TestCoinflipCrashWhenObstacleReached(t *testing.T) {
	oc := config.DashOpponent{Model: config.OpponentCoinflip, Lookahead: 160, JumpChance: 0, CrashChance: 1}
	bot := newTestBot(oc, 1, spikeAt(400))

	// The bot's front edge (cursor + 150) reaches x=400 on frame 36.
	for i := 0; i < 35; i++ {
		if events := bot.Step(); len(events) != 0 {
			t.Fatalf("frame %d: unexpected events %+v", i+1, events)
		}
	}
	events := bot.Step()
	if bot.Run().Outcome() != core.OutcomeLost || bot.Run().Frame() != 36 {
		t.Fatalf("outcome %v at frame %d, want lost at 36", bot.Run().Outcome(), bot.Run().Frame())
	}
	if len(events) != 1 || events[0].Kind != core.EventLost || events[0].Player != core.Player2 {
		t.Errorf("events = %+v", events)
	}
}

func TestCoinflipIgnoresGeometry(t *testing.T) {
	oc := config.DashOpponent{Model: config.OpponentCoinflip, Lookahead: 160, JumpChance: 0, CrashChance: 0}
	bot := newTestBot(oc, 1, spikeAt(130), spikeAt(400), spikeAt(900))

	for i := 0; i < 200; i++ {
		bot.Step()
	}
	if bot.Run().Outcome() != core.OutcomeInProgress {
		t.Errorf("bot with zero crash chance should survive overlaps, outcome %v", bot.Run().Outcome())
	}
}

func TestCoinflipNeverCrashesOnGems(t *testing.T) {
	oc := config.DashOpponent{Model: config.OpponentCoinflip, Lookahead: 160, JumpChance: 0, CrashChance: 1}
	bot := newTestBot(oc, 1, gemAt(130), gemAt(300))

	for i := 0; i < 100; i++ {
		bot.Step()
	}
	if bot.Run().Outcome() != core.OutcomeInProgress {
		t.Errorf("gems must not trigger the crash roll, outcome %v", bot.Run().Outcome())
	}
	if bot.Run().Pickups() != 2 {
		t.Errorf("bot should still collect gems, pickups %d", bot.Run().Pickups())
	}
}

func TestCoinflipJudgesEachObstacleOnce(t *testing.T) {
	oc := config.DashOpponent{Model: config.OpponentCoinflip, Lookahead: 160, JumpChance: 0, CrashChance: 0}
	bot := newTestBot(oc, 1, spikeAt(200), spikeAt(600))

	for i := 0; i < 150; i++ {
		bot.Step()
	}
	if bot.judged != 2 {
		t.Errorf("judged = %d, want 2", bot.judged)
	}
}

func TestBotJumpsWithinLookahead(t *testing.T) {
	oc := config.DashOpponent{Model: config.OpponentGeometry, Lookahead: 160, JumpChance: 1, CrashChance: 0}
	bot := newTestBot(oc, 1, spikeAt(400))

	// Distance from the front edge drops to 159 before frame 14.
	for i := 0; i < 13; i++ {
		bot.Step()
	}
	if !bot.Run().Body().Grounded {
		t.Fatal("bot jumped before the obstacle was in range")
	}
	bot.Step()
	if bot.Run().Body().Grounded {
		t.Fatal("bot should jump as soon as the obstacle is in range")
	}
}

func TestBotNeverJumpsWithZeroChance(t *testing.T) {
	oc := config.DashOpponent{Model: config.OpponentCoinflip, Lookahead: 160, JumpChance: 0, CrashChance: 0}
	bot := newTestBot(oc, 1, spikeAt(400))
	for i := 0; i < 60; i++ {
		bot.Step()
		if !bot.Run().Body().Grounded {
			t.Fatalf("frame %d: bot left the ground", i+1)
		}
	}
}

func TestGeometryModelCrashesLikePlayer(t *testing.T) {
	oc := config.DashOpponent{Model: config.OpponentGeometry, Lookahead: 160, JumpChance: 0, CrashChance: 0}
	bot := newTestBot(oc, 1, spikeAt(130))
	bot.Step()
	if bot.Run().Outcome() != core.OutcomeLost {
		t.Errorf("geometry bot should crash on overlap, outcome %v", bot.Run().Outcome())
	}
}

func TestOpponentDeterminism(t *testing.T) {
	cfg := config.DefaultDashConfig()
	level := mustLevel(t, &cfg, 2)
	play := func() (core.Outcome, int, float64) {
		s := setup{cfg: cfg, level: level}
		run := NewRun(level, s.layoutFor(11), &cfg, BotModifiers(cfg.Opponent, 0), core.Player2)
		bot := NewOpponent(run, cfg.Opponent, 12)
		for !run.Outcome().Terminal() {
			bot.Step()
		}
		return run.Outcome(), run.Frame(), run.Progress()
	}

	o1, f1, p1 := play()
	o2, f2, p2 := play()
	if o1 != o2 || f1 != f2 || p1 != p2 {
		t.Errorf("bot runs differ: (%v %d %v) vs (%v %d %v)", o1, f1, p1, o2, f2, p2)
	}
}

func TestAutopilotFinishesWithGodMode(t *testing.T) {
	s := testSettings()
	s.God = true
	sum, err := Simulate(s, 42)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Outcome != core.OutcomeWon || sum.Progress != 100 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestAutopilotHoversWhenFlying(t *testing.T) {
	cfg := config.DefaultDashConfig()
	run := NewRun(testLevel, NewLayout(testLevel.Length), &cfg, Modifiers{Fly: true}, core.Player1)
	pilot := NewAutopilot(run, &cfg)

	for i := 0; i < 600; i++ {
		pilot.Step()
	}
	b := run.Body()
	if b.Grounded || b.Y+b.H > cfg.Track.FloorY-40 {
		t.Errorf("flying autopilot should hover clear of blocks, body %+v", b)
	}
}

func TestSimulateDeterminism(t *testing.T) {
	s := testSettings()
	a, err := Simulate(s, 99)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Simulate(s, 99)
	if a.Outcome != b.Outcome || a.Frames != b.Frames || a.Pickups != b.Pickups || len(a.Events) != len(b.Events) {
		t.Errorf("simulations differ: %+v vs %+v", a, b)
	}
	if !a.Outcome.Terminal() {
		t.Errorf("simulation should end terminal, got %v", a.Outcome)
	}
}
