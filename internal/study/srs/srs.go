// Package srs schedules topic reviews.
//
// Successful reviews walk a staged interval schedule; failures drop back to
// a short relearning interval. The whole schedule contracts as the exam date
// approaches so that the final review always lands before it.
package srs

import (
	"errors"
	"math"
	"time"
)

const (
	MinEase     = 1.3
	MaxEase     = 3.0
	DefaultEase = 2.5

	// PassQuality is the lowest quality counted as a successful recall.
	PassQuality = 3
	// MaxQuality is the best possible recall grade.
	MaxQuality = 5
)

const day = 24 * time.Hour

// ErrInvalidQuality indicates a grade outside 0-5.
var ErrInvalidQuality = errors.New("quality must be between 0 and 5")

// Params tunes the scheduler.
type Params struct {
	// Stages are the intervals in days for the first successful reviews.
	Stages []float64 `yaml:"stages"`
	// Growth multiplies the previous interval once Stages are exhausted.
	Growth float64 `yaml:"growth"`
	// MaxIntervalDays caps growth past the staged schedule.
	MaxIntervalDays float64 `yaml:"max_interval_days"`
	// MinIntervalDays is the shortest interval outside the exam clamp.
	MinIntervalDays float64 `yaml:"min_interval_days"`
	// LapseIntervalDays is the interval after a failed recall, before compression.
	LapseIntervalDays float64 `yaml:"lapse_interval_days"`
	// CompressionHorizonDays is the exam distance at which compression starts.
	CompressionHorizonDays float64 `yaml:"compression_horizon_days"`
	// FinalWeekDays is the exam distance inside which intervals are halved against it.
	FinalWeekDays float64 `yaml:"final_week_days"`
	// EaseGain is added on success.
	EaseGain float64 `yaml:"ease_gain"`
	// EasePenalty is subtracted on failure; smaller than EaseGain.
	EasePenalty float64 `yaml:"ease_penalty"`
}

// DefaultParams returns the shipped scheduler balance.
func DefaultParams() Params {
	return Params{
		Stages:                 []float64{1, 3, 7},
		Growth:                 1.8,
		MaxIntervalDays:        14,
		MinIntervalDays:        1,
		LapseIntervalDays:      0.5,
		CompressionHorizonDays: 90,
		FinalWeekDays:          7,
		EaseGain:               0.10,
		EasePenalty:            0.05,
	}
}

// Item is the review state of one topic.
type Item struct {
	Ease         float64   `json:"ease"`
	Successes    int       `json:"successes"`
	IntervalDays float64   `json:"interval_days"`
	DueAt        time.Time `json:"due_at"`
	LastReviewAt time.Time `json:"last_review_at"`
	Reviews      int       `json:"reviews"`
}

// New returns the state of a never-reviewed topic.
func New() Item {
	return Item{Ease: DefaultEase}
}

// Due reports whether the item should be reviewed at now.
func (i Item) Due(now time.Time) bool {
	return i.Reviews == 0 || !now.Before(i.DueAt)
}

// Compression returns the factor applied to every interval given the exam.
// Without an exam the schedule is uncompressed.
func Compression(examAt *time.Time, now time.Time, params Params) float64 {
	if examAt == nil || params.CompressionHorizonDays <= 0 {
		return 1
	}
	days := daysUntil(*examAt, now)
	if days <= 0 {
		return 0
	}
	return math.Min(1, days/params.CompressionHorizonDays)
}

// Review grades a recall and returns the rescheduled item.
func Review(item Item, quality int, now time.Time, examAt *time.Time, params Params) (Item, error) {
	if quality < 0 || quality > MaxQuality {
		return item, ErrInvalidQuality
	}
	if item.Ease == 0 {
		item.Ease = DefaultEase
	}

	compression := Compression(examAt, now, params)
	var interval float64
	if quality >= PassQuality {
		interval = successInterval(item, params)
		item.Successes++
		item.Ease = clampEase(item.Ease + params.EaseGain)
	} else {
		interval = params.LapseIntervalDays
		item.Successes = 0
		item.Ease = clampEase(item.Ease - params.EasePenalty)
	}
	interval = math.Max(params.MinIntervalDays, interval*compression)

	if examAt != nil {
		remaining := daysUntil(*examAt, now)
		if remaining > 0 && remaining <= params.FinalWeekDays {
			interval = math.Min(interval, remaining/2)
		}
	}

	item.IntervalDays = interval
	item.LastReviewAt = now
	item.DueAt = now.Add(time.Duration(interval * float64(day)))
	item.Reviews++
	return item, nil
}

func successInterval(item Item, params Params) float64 {
	if item.Successes < len(params.Stages) {
		return params.Stages[item.Successes]
	}
	previous := item.IntervalDays
	if previous <= 0 && len(params.Stages) > 0 {
		previous = params.Stages[len(params.Stages)-1]
	}
	return math.Min(params.MaxIntervalDays, previous*params.Growth)
}

func clampEase(ease float64) float64 {
	return math.Min(MaxEase, math.Max(MinEase, ease))
}

func daysUntil(examAt, now time.Time) float64 {
	return examAt.Sub(now).Hours() / 24
}
