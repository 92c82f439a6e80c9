// Package session models the study/rest cycle: which phase is running, how
// far along it is, which topic receives credit, and what the current cycle
// has accumulated so far.
package session

import (
	"time"

	"github.com/louisbranch/studyforge/internal/study/catalog"
)

// Mode is the current phase.
type Mode string

const (
	ModeStudy Mode = "study"
	ModeRest  Mode = "rest"
)

// Params holds the default phase lengths.
type Params struct {
	CycleLength time.Duration `yaml:"cycle_length"`
	RestLength  time.Duration `yaml:"rest_length"`
}

// DefaultParams returns a 25 minute cycle with a 5 minute rest.
func DefaultParams() Params {
	return Params{
		CycleLength: 25 * time.Minute,
		RestLength:  5 * time.Minute,
	}
}

// State is the session portion of the engine state. Durations are stored
// as seconds so fractional ticks accumulate exactly as delivered.
type State struct {
	Mode Mode `json:"mode"`
	// Active is true while studying and not paused.
	Active bool `json:"active"`

	Elapsed     float64 `json:"elapsed_seconds"`
	RestElapsed float64 `json:"rest_elapsed_seconds"`
	CycleLength float64 `json:"cycle_length_seconds"`
	RestLength  float64 `json:"rest_length_seconds"`

	// SelectedTopicID is the topic the player has chosen.
	SelectedTopicID string `json:"selected_topic_id,omitempty"`
	// LockedTopicID receives topic XP for the current cycle.
	LockedTopicID string     `json:"locked_topic_id,omitempty"`
	CycleStart    *time.Time `json:"cycle_start,omitempty"`

	CycleXP       float64 `json:"cycle_xp"`
	CycleTopicXP  float64 `json:"cycle_topic_xp"`
	FocusIntegral float64 `json:"focus_integral"`
	StudySeconds  float64 `json:"study_seconds"`
	Momentum      float64 `json:"momentum_seconds"`
}

// CycleRecord is the analytics row appended when a cycle completes.
type CycleRecord struct {
	Start         time.Time        `json:"start"`
	End           time.Time        `json:"end"`
	StudySeconds  float64          `json:"study_seconds"`
	AverageFocus  float64          `json:"average_focus"`
	XPGained      float64          `json:"xp_gained"`
	TopicXPGained float64          `json:"topic_xp_gained"`
	LootCount     int              `json:"loot_count"`
	TopicID       string           `json:"topic_id,omitempty"`
	Category      catalog.Category `json:"category,omitempty"`
}

// New returns a paused study phase with no topic selected.
func New(params Params) State {
	return State{
		Mode:        ModeStudy,
		CycleLength: params.CycleLength.Seconds(),
		RestLength:  params.RestLength.Seconds(),
	}
}

// Studying reports whether the player is actively studying.
func (s State) Studying() bool {
	return s.Mode == ModeStudy && s.Active
}

// Remaining returns the study seconds left in the current cycle.
func (s State) Remaining() float64 {
	if s.Mode != ModeStudy {
		return 0
	}
	remaining := s.CycleLength - s.Elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RestRemaining returns the rest seconds left in the current rest phase.
func (s State) RestRemaining() float64 {
	if s.Mode != ModeRest {
		return 0
	}
	remaining := s.RestLength - s.RestElapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AverageFocus returns the study-time weighted focus of the current cycle,
// or 1 before any study time has accrued.
func (s State) AverageFocus() float64 {
	if s.StudySeconds <= 0 {
		return 1
	}
	return s.FocusIntegral / s.StudySeconds
}
