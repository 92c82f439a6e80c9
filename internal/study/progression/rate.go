package progression

import "time"

// RateParams tunes the XP-per-minute curve.
type RateParams struct {
	// BaseXPPerMinute is the character XP rate before any modifier.
	BaseXPPerMinute float64 `yaml:"base_xp_per_minute"`
	// BaseTopicXPPerMinute is the topic XP rate before any modifier.
	BaseTopicXPPerMinute float64 `yaml:"base_topic_xp_per_minute"`
	// FatiguePenalty is the fraction removed while fatigued.
	FatiguePenalty float64 `yaml:"fatigue_penalty"`
	// BalanceBonusMax is the largest category-balance nudge.
	BalanceBonusMax float64 `yaml:"balance_bonus_max"`
	// BalanceWindow is the trailing window for category shares.
	BalanceWindow time.Duration `yaml:"balance_window"`
	// UrgencyBands escalate the rate as the exam approaches. Bands are
	// checked in order; the first whose Days covers the remaining time wins.
	UrgencyBands []UrgencyBand `yaml:"urgency_bands"`
}

// UrgencyBand multiplies XP when the exam is at most Days away.
type UrgencyBand struct {
	Days       float64 `yaml:"days"`
	Multiplier float64 `yaml:"multiplier"`
}

// DefaultRateParams returns the shipped XP rate balance.
func DefaultRateParams() RateParams {
	return RateParams{
		BaseXPPerMinute:      10,
		BaseTopicXPPerMinute: 10,
		FatiguePenalty:       0.2,
		BalanceBonusMax:      0.10,
		BalanceWindow:        7 * 24 * time.Hour,
		UrgencyBands: []UrgencyBand{
			{Days: 7, Multiplier: 2.0},
			{Days: 14, Multiplier: 1.5},
			{Days: 30, Multiplier: 1.25},
		},
	}
}

// RateInput gathers the modifiers that shape one XP rate.
type RateInput struct {
	// BonusPct is the equipment bonus for the XP kind, in percent.
	BonusPct float64
	Focus    float64
	// BalanceNudge is the category-balance multiplier; see BalanceNudge.
	BalanceNudge float64
	// Urgency is the exam multiplier; see Urgency.
	Urgency float64
	// Effects is the product of active temporary multipliers.
	Effects  float64
	Fatigued bool
}

// XPPerMinute combines the modifiers into one rate starting from base.
func XPPerMinute(base float64, in RateInput, params RateParams) float64 {
	rate := base * (1 + in.BonusPct/100) * orOne(in.Focus) * orOne(in.BalanceNudge) * orOne(in.Urgency) * orOne(in.Effects)
	if in.Fatigued {
		rate *= 1 - params.FatiguePenalty
	}
	if rate < 0 {
		return 0
	}
	return rate
}

// Urgency returns the exam multiplier for an exam at examAt seen from now.
// No exam, or an exam already passed, yields 1.
func Urgency(examAt *time.Time, now time.Time, params RateParams) float64 {
	if examAt == nil {
		return 1
	}
	days := examAt.Sub(now).Hours() / 24
	if days < 0 {
		return 1
	}
	for _, band := range params.UrgencyBands {
		if days <= band.Days {
			return band.Multiplier
		}
	}
	return 1
}

// BalanceNudge rewards studying a category that is under its fair share of
// recent study time. share is the category's fraction of the window and
// categories the number of categories; with no history there is no nudge.
func BalanceNudge(share float64, hasHistory bool, categories int, params RateParams) float64 {
	if !hasHistory || categories <= 0 {
		return 1
	}
	fair := 1 / float64(categories)
	if share >= fair {
		return 1
	}
	if share < 0 {
		share = 0
	}
	return 1 + params.BalanceBonusMax*(fair-share)/fair
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
