// Package stamina models daily fatigue.
//
// Stamina drops in fixed steps as cumulative study time for the day crosses
// each hour mark, and recovers during rest toward a ceiling that itself
// reflects the fatigue already incurred that day.
package stamina

import (
	"math"
	"time"
)

const (
	// Max is the stamina ceiling of a rested character.
	Max = 100.0
	// Min is the stamina floor.
	Min = 0.0
)

// Params tunes stamina.
type Params struct {
	// BucketMinutes is the study time that costs one step.
	BucketMinutes float64 `yaml:"bucket_minutes"`
	// StepCost is the stamina lost per bucket crossed.
	StepCost float64 `yaml:"step_cost"`
	// RecoveryPerSecond is regained per rest second.
	RecoveryPerSecond float64 `yaml:"recovery_per_second"`
	// FatigueThreshold is the value below which the character is fatigued.
	FatigueThreshold float64 `yaml:"fatigue_threshold"`
}

// DefaultParams returns the shipped stamina balance.
func DefaultParams() Params {
	return Params{
		BucketMinutes:     60,
		StepCost:          10,
		RecoveryPerSecond: 0.05,
		FatigueThreshold:  30,
	}
}

// State is the stamina portion of the engine aggregate.
type State struct {
	Current float64 `json:"current"`
	// SecondsToday accumulates study time; seconds rather than minutes keep
	// sums of whole-second ticks exact.
	SecondsToday float64 `json:"seconds_today"`
	// Day is the UTC calendar day SecondsToday belongs to.
	Day string `json:"day"`
}

// MinutesToday returns the study minutes logged in the current day window.
func (s State) MinutesToday() float64 {
	return s.SecondsToday / 60
}

// Initial returns full stamina for the day containing now.
func Initial(now time.Time) State {
	return State{Current: Max, Day: dayKey(now)}
}

// Fatigued reports whether the character is below the fatigue threshold.
func Fatigued(state State, params Params) bool {
	return state.Current < params.FatigueThreshold
}

func bucket(seconds float64, params Params) float64 {
	if params.BucketMinutes <= 0 {
		return 0
	}
	return math.Floor(seconds / (params.BucketMinutes * 60))
}

// Ceiling is the recovery target given the study minutes already logged today.
func Ceiling(state State, params Params) float64 {
	return math.Max(Min, Max-params.StepCost*bucket(state.SecondsToday, params))
}

// ApplyProgress logs addedSeconds of study and charges one step for each
// new bucket boundary crossed.
func ApplyProgress(state State, addedSeconds float64, params Params) State {
	if addedSeconds <= 0 {
		return state
	}
	before := bucket(state.SecondsToday, params)
	state.SecondsToday += addedSeconds
	after := bucket(state.SecondsToday, params)
	if crossed := after - before; crossed > 0 {
		state.Current = math.Max(Min, state.Current-crossed*params.StepCost)
	}
	return state
}

// Recover regains stamina for deltaSeconds of rest without exceeding the
// ceiling. Stamina already above the ceiling is left alone.
func Recover(state State, deltaSeconds float64, params Params) State {
	if deltaSeconds <= 0 {
		return state
	}
	ceiling := Ceiling(state, params)
	if state.Current >= ceiling {
		return state
	}
	state.Current = math.Min(ceiling, state.Current+deltaSeconds*params.RecoveryPerSecond)
	return state
}

// Rollover starts a new day window when now falls on a later UTC day: the
// minute counter resets and stamina refills.
func Rollover(state State, now time.Time) State {
	day := dayKey(now)
	if state.Day == day {
		return state
	}
	if state.Day != "" && day < state.Day {
		return state
	}
	return State{Current: Max, Day: day}
}

func dayKey(now time.Time) string {
	return now.UTC().Format(time.DateOnly)
}
