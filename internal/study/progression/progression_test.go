package progression

import (
	"math"
	"testing"
	"time"
)

func TestThresholdCurve(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{1, 100},
		{2, 292},
		{5, 1211},
		{10, 3548},
	}
	for _, tt := range tests {
		if got := Threshold(tt.level); got != tt.want {
			t.Fatalf("Threshold(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestGrantResolvesMultipleLevels(t *testing.T) {
	p, levels := Grant(Start(), 100+292+50)
	if p.Level != 3 || p.XP != 50 || levels != 2 {
		t.Fatalf("progress = %+v levels = %d, want level 3 xp 50 levels 2", p, levels)
	}
}

func TestGrantKeepsInvariant(t *testing.T) {
	p := Start()
	for _, amount := range []float64{0, 1, 99, 1e6, 12.5, 3000, 0.25} {
		p, _ = Grant(p, amount)
		if p.XP < 0 || p.XP >= Threshold(p.Level) {
			t.Fatalf("after %v: xp %v not in [0, %v)", amount, p.XP, Threshold(p.Level))
		}
	}
}

func TestGrantSplitMatchesSingle(t *testing.T) {
	single, _ := Grant(Start(), 5000)

	split := Start()
	for i := 0; i < 500; i++ {
		split, _ = Grant(split, 10)
	}
	if split != single {
		t.Fatalf("split = %+v, single = %+v", split, single)
	}
}

func TestGrantIgnoresInvalidAmounts(t *testing.T) {
	start := Progress{Level: 2, XP: 10}
	for _, amount := range []float64{-5, math.NaN(), math.Inf(1)} {
		if got, levels := Grant(start, amount); got != start || levels != 0 {
			t.Fatalf("Grant(%v) = %+v, %d", amount, got, levels)
		}
	}
}

func TestNormalizeRepairsInput(t *testing.T) {
	got := Normalize(Progress{Level: 0, XP: 150})
	if got.Level != 2 || got.XP != 50 {
		t.Fatalf("normalized = %+v, want level 2 xp 50", got)
	}
	if got := Normalize(Progress{Level: 3, XP: -1}); got.XP != 0 {
		t.Fatalf("negative xp normalized to %v", got.XP)
	}
}

func TestTotal(t *testing.T) {
	if got := Total(Progress{Level: 3, XP: 8}); got != 100+292+8 {
		t.Fatalf("total = %v", got)
	}
}

func TestXPPerMinuteComposition(t *testing.T) {
	params := DefaultRateParams()
	in := RateInput{BonusPct: 50, Focus: 1.2, BalanceNudge: 1.1, Urgency: 2, Effects: 1.5}
	want := 10 * 1.5 * 1.2 * 1.1 * 2 * 1.5
	if got := XPPerMinute(10, in, params); math.Abs(got-want) > 1e-9 {
		t.Fatalf("rate = %v, want %v", got, want)
	}

	in.Fatigued = true
	if got := XPPerMinute(10, in, params); math.Abs(got-want*0.8) > 1e-9 {
		t.Fatalf("fatigued rate = %v, want %v", got, want*0.8)
	}
}

func TestXPPerMinuteDefaultsNeutral(t *testing.T) {
	if got := XPPerMinute(10, RateInput{}, DefaultRateParams()); got != 10 {
		t.Fatalf("rate = %v, want 10", got)
	}
}

func TestUrgencyBands(t *testing.T) {
	params := DefaultRateParams()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	at := func(days float64) *time.Time {
		exam := now.Add(time.Duration(days * 24 * float64(time.Hour)))
		return &exam
	}

	tests := []struct {
		name string
		exam *time.Time
		want float64
	}{
		{"no exam", nil, 1},
		{"passed", at(-1), 1},
		{"far", at(60), 1},
		{"thirty", at(30), 1.25},
		{"twenty", at(20), 1.25},
		{"fourteen", at(14), 1.5},
		{"ten", at(10), 1.5},
		{"week", at(7), 2},
		{"tomorrow", at(1), 2},
	}
	for _, tt := range tests {
		if got := Urgency(tt.exam, now, params); got != tt.want {
			t.Fatalf("%s: urgency = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBalanceNudge(t *testing.T) {
	params := DefaultRateParams()
	if got := BalanceNudge(0, false, 5, params); got != 1 {
		t.Fatalf("no history nudge = %v, want 1", got)
	}
	if got := BalanceNudge(0, true, 5, params); math.Abs(got-1.10) > 1e-12 {
		t.Fatalf("neglected nudge = %v, want 1.10", got)
	}
	if got := BalanceNudge(0.1, true, 5, params); math.Abs(got-1.05) > 1e-12 {
		t.Fatalf("half-share nudge = %v, want 1.05", got)
	}
	if got := BalanceNudge(0.5, true, 5, params); got != 1 {
		t.Fatalf("over-share nudge = %v, want 1", got)
	}
}
