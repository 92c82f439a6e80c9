// Package focus models the study-intensity multiplier.
//
// The multiplier grows one step for every full minute of uninterrupted study
// and erodes once a pause outlasts a grace period. All arithmetic works from
// the tick's delta, so irregular or skipped ticks land on the same values as
// steady ones.
package focus

import (
	"math"
	"time"
)

// Floor is the lowest multiplier value.
const Floor = 1.0

// Params tunes focus growth and decay.
type Params struct {
	// BaseCap is the multiplier ceiling before equipment bonuses.
	BaseCap float64 `yaml:"base_cap"`
	// StepSeconds is the uninterrupted study time that earns one step.
	StepSeconds float64 `yaml:"step_seconds"`
	// StepGain is the multiplier added per step at a generation rate of 1.
	StepGain float64 `yaml:"step_gain"`
	// GraceSeconds is how long a pause may last before decay starts.
	GraceSeconds float64 `yaml:"grace_seconds"`
	// DecayPerSecond is subtracted for each paused second beyond the grace.
	DecayPerSecond float64 `yaml:"decay_per_second"`
	// FatiguePenalty scales the generation rate while fatigued.
	FatiguePenalty float64 `yaml:"fatigue_penalty"`
	// Precision is the number of decimal places kept after each tick.
	Precision int `yaml:"precision"`
}

// DefaultParams returns the shipped focus balance.
func DefaultParams() Params {
	return Params{
		BaseCap:        1.5,
		StepSeconds:    60,
		StepGain:       0.01,
		GraceSeconds:   120,
		DecayPerSecond: 0.05,
		FatiguePenalty: 0.5,
		Precision:      4,
	}
}

// State is the focus portion of the engine aggregate.
type State struct {
	Multiplier    float64    `json:"multiplier"`
	StreakSeconds float64    `json:"streak_seconds"`
	PausedAt      *time.Time `json:"paused_at,omitempty"`
}

// Initial returns the state of a fresh character.
func Initial() State {
	return State{Multiplier: Floor}
}

// Input carries everything one tick needs besides the prior state.
type Input struct {
	Active bool
	Now    time.Time
	// Delta is the elapsed seconds this tick covers.
	Delta float64
	// GenRate multiplies StepGain; see GenRate.
	GenRate float64
	// Cap bounds the multiplier; see Cap.
	Cap float64
	// SuppressDecay holds the multiplier while inactive (rest, focus freeze).
	SuppressDecay bool
}

// Cap returns the multiplier ceiling given the equipped focus-cap bonus in percent.
func Cap(params Params, capBonusPct float64) float64 {
	cap := params.BaseCap * (1 + capBonusPct/100)
	if cap < Floor {
		return Floor
	}
	return cap
}

// GenRate returns the step multiplier given the equipped focus-gen bonus in
// percent and whether the character is fatigued.
func GenRate(params Params, genBonusPct float64, fatigued bool) float64 {
	rate := 1 + genBonusPct/100
	if fatigued {
		rate *= params.FatiguePenalty
	}
	if rate < 0 {
		return 0
	}
	return rate
}

// Tick advances focus by one host tick.
func Tick(state State, in Input, params Params) State {
	next := state
	delta := math.Max(0, in.Delta)

	switch {
	case in.Active:
		next.PausedAt = nil
		next.StreakSeconds += delta
		if params.StepSeconds > 0 {
			steps := math.Floor(next.StreakSeconds / params.StepSeconds)
			next.StreakSeconds = math.Mod(next.StreakSeconds, params.StepSeconds)
			next.Multiplier += steps * params.StepGain * in.GenRate
		}
	case in.SuppressDecay:
		next.PausedAt = nil
	default:
		if next.PausedAt == nil {
			pausedAt := in.Now
			next.PausedAt = &pausedAt
			break
		}
		paused := in.Now.Sub(*next.PausedAt).Seconds()
		beyondNow := math.Max(0, paused-params.GraceSeconds)
		beyondBefore := math.Max(0, paused-delta-params.GraceSeconds)
		next.Multiplier -= (beyondNow - beyondBefore) * params.DecayPerSecond
	}

	next.Multiplier = clamp(round(next.Multiplier, params.Precision), Floor, math.Max(Floor, in.Cap))
	return next
}

// ResetStreak drops the accumulated partial minute.
func ResetStreak(state State) State {
	state.StreakSeconds = 0
	return state
}

func clamp(value, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, value))
}

func round(value float64, places int) float64 {
	if places < 0 {
		return value
	}
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
