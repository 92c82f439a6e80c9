// Package decay derives how much of a topic's knowledge has faded.
//
// Decay is a read-only view: it never changes stored XP. Given the same
// last-studied time and the same now it always returns the same result.
package decay

import (
	"math"
	"time"
)

// Params tunes knowledge decay.
type Params struct {
	// Dormancy is the time after a study session before decay begins.
	Dormancy time.Duration `yaml:"dormancy"`
	// RatePerDay is the exponential decay rate applied past dormancy.
	RatePerDay float64 `yaml:"rate_per_day"`
	// RetentionFloor is the smallest fraction of peak XP ever retained.
	RetentionFloor float64 `yaml:"retention_floor"`
	// DangerPercent marks decay above this percentage as urgent.
	DangerPercent float64 `yaml:"danger_percent"`
}

// DefaultParams returns the shipped decay balance.
func DefaultParams() Params {
	return Params{
		Dormancy:       48 * time.Hour,
		RatePerDay:     0.02,
		RetentionFloor: 0.85,
		DangerPercent:  5,
	}
}

// Input is the subset of a topic decay reads.
type Input struct {
	PeakXP        float64
	LastStudiedAt *time.Time
}

// View is the derived decay state of one topic.
type View struct {
	Retention     float64
	EffectiveXP   float64
	DecayedAmount float64
	DecayPercent  float64
	InDangerZone  bool
	// HoursToRecover estimates study hours needed to regain DecayedAmount.
	HoursToRecover float64
}

// Compute returns the decay view at now. xpPerHour is the topic XP a study
// hour earns at base rate and only feeds HoursToRecover.
func Compute(in Input, now time.Time, xpPerHour float64, params Params) View {
	peak := math.Max(0, in.PeakXP)
	view := View{Retention: 1, EffectiveXP: peak}
	if in.LastStudiedAt == nil || peak == 0 {
		return view
	}

	past := now.Sub(*in.LastStudiedAt) - params.Dormancy
	if past <= 0 {
		return view
	}
	days := past.Hours() / 24
	retention := math.Max(params.RetentionFloor, math.Exp(-params.RatePerDay*days))

	view.Retention = retention
	view.EffectiveXP = peak * retention
	view.DecayedAmount = peak - view.EffectiveXP
	view.DecayPercent = (1 - retention) * 100
	view.InDangerZone = view.DecayPercent > params.DangerPercent
	if xpPerHour > 0 {
		view.HoursToRecover = view.DecayedAmount / xpPerHour
	}
	return view
}
