// Package tuning gathers every balance constant of the engine into one
// value that can be overridden from YAML.
package tuning

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/louisbranch/studyforge/internal/platform/errors"
	"github.com/louisbranch/studyforge/internal/study/decay"
	"github.com/louisbranch/studyforge/internal/study/focus"
	"github.com/louisbranch/studyforge/internal/study/gear"
	"github.com/louisbranch/studyforge/internal/study/loot"
	"github.com/louisbranch/studyforge/internal/study/progression"
	"github.com/louisbranch/studyforge/internal/study/session"
	"github.com/louisbranch/studyforge/internal/study/srs"
	"github.com/louisbranch/studyforge/internal/study/stamina"
)

// Balance is the full set of tunable parameters.
type Balance struct {
	Session session.Params         `yaml:"session"`
	Focus   focus.Params           `yaml:"focus"`
	Stamina stamina.Params         `yaml:"stamina"`
	Rate    progression.RateParams `yaml:"rate"`
	Decay   decay.Params           `yaml:"decay"`
	Loot    loot.Params            `yaml:"loot"`
	Affixes gear.AffixParams       `yaml:"affixes"`
	Craft   gear.CraftParams       `yaml:"craft"`
	SRS     srs.Params             `yaml:"srs"`
}

// Default returns the shipped balance.
func Default() Balance {
	return Balance{
		Session: session.DefaultParams(),
		Focus:   focus.DefaultParams(),
		Stamina: stamina.DefaultParams(),
		Rate:    progression.DefaultRateParams(),
		Decay:   decay.DefaultParams(),
		Loot:    loot.DefaultParams(),
		Affixes: gear.DefaultAffixParams(),
		Craft:   gear.DefaultCraftParams(),
		SRS:     srs.DefaultParams(),
	}
}

// Parse overlays YAML overrides onto the default balance. Keys that are
// absent keep their default values; list values replace the default list.
func Parse(r io.Reader) (Balance, error) {
	balance := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&balance); err != nil && err != io.EOF {
		return Balance{}, apperrors.Wrap(apperrors.CodeTuningInvalid, "decode tuning", err)
	}
	if err := balance.Validate(); err != nil {
		return Balance{}, err
	}
	return balance, nil
}

// Load reads overrides from path. An empty path yields the defaults.
func Load(path string) (Balance, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Balance{}, apperrors.Wrap(apperrors.CodeTuningInvalid, "read tuning", err)
	}
	return Parse(bytes.NewReader(data))
}

// Validate rejects values the models cannot run with.
func (b Balance) Validate() error {
	checks := []struct {
		ok    bool
		field string
	}{
		{b.Session.CycleLength > 0, "session.cycle_length"},
		{b.Session.RestLength > 0, "session.rest_length"},

		{b.Focus.BaseCap >= focus.Floor, "focus.base_cap"},
		{b.Focus.StepSeconds > 0, "focus.step_seconds"},
		{b.Focus.StepGain >= 0, "focus.step_gain"},
		{b.Focus.GraceSeconds >= 0, "focus.grace_seconds"},
		{b.Focus.DecayPerSecond >= 0, "focus.decay_per_second"},
		{inUnit(b.Focus.FatiguePenalty), "focus.fatigue_penalty"},
		{b.Focus.Precision >= 1 && b.Focus.Precision <= 10, "focus.precision"},

		{b.Stamina.BucketMinutes > 0, "stamina.bucket_minutes"},
		{b.Stamina.StepCost >= 0, "stamina.step_cost"},
		{b.Stamina.RecoveryPerSecond >= 0, "stamina.recovery_per_second"},
		{b.Stamina.FatigueThreshold >= stamina.Min && b.Stamina.FatigueThreshold <= stamina.Max, "stamina.fatigue_threshold"},

		{b.Rate.BaseXPPerMinute >= 0, "rate.base_xp_per_minute"},
		{b.Rate.BaseTopicXPPerMinute >= 0, "rate.base_topic_xp_per_minute"},
		{inUnit(b.Rate.FatiguePenalty), "rate.fatigue_penalty"},
		{b.Rate.BalanceBonusMax >= 0, "rate.balance_bonus_max"},
		{b.Rate.BalanceWindow > 0, "rate.balance_window"},
		{validBands(b.Rate.UrgencyBands), "rate.urgency_bands"},

		{b.Decay.Dormancy >= 0, "decay.dormancy"},
		{b.Decay.RatePerDay >= 0, "decay.rate_per_day"},
		{b.Decay.RetentionFloor > 0 && b.Decay.RetentionFloor <= 1, "decay.retention_floor"},
		{b.Decay.DangerPercent >= 0, "decay.danger_percent"},

		{b.Loot.MinCount >= 1, "loot.min_count"},
		{b.Loot.BaseCount >= 0, "loot.base_count"},
		{b.Loot.MomentumMaxBonus >= 0, "loot.momentum_max_bonus"},
		{inUnit(b.Loot.CurrencyChance), "loot.currency_chance"},
		{validCurrencyTable(b.Loot.CurrencyTable), "loot.currency_table"},
		{validGuaranteed(b.Loot), "loot.guaranteed"},
		{b.Loot.EpicChance >= 0 && b.Loot.RareChance >= 0 && b.Loot.MagicChance >= 0 &&
			b.Loot.EpicChance+b.Loot.RareChance+b.Loot.MagicChance <= 1, "loot.rarity_chances"},
		{b.Loot.MaxRarityBias >= 0 && b.Loot.MaxRarityBias < 1, "loot.max_rarity_bias"},
		{b.Loot.PityThreshold >= 0, "loot.pity_threshold"},
		{b.Loot.ItemLevelSpread >= 0, "loot.item_level_spread"},

		{b.Affixes.T1MinItemLevel >= b.Affixes.T2MinItemLevel, "affixes.t1_min_item_level"},
		{inUnit(b.Affixes.T1Chance) && inUnit(b.Affixes.T2Chance) && b.Affixes.T1Chance+b.Affixes.T2Chance <= 1, "affixes.tier_chances"},
		{validStatBase(b.Affixes), "affixes.stat_base"},
		{inUnit(b.Craft.ExaltedChance), "craft.exalted_chance"},

		{validStages(b.SRS.Stages), "srs.stages"},
		{b.SRS.Growth >= 1, "srs.growth"},
		{b.SRS.MinIntervalDays > 0 && b.SRS.MaxIntervalDays >= b.SRS.MinIntervalDays, "srs.interval_days"},
		{b.SRS.LapseIntervalDays > 0, "srs.lapse_interval_days"},
		{b.SRS.CompressionHorizonDays > 0, "srs.compression_horizon_days"},
		{b.SRS.FinalWeekDays >= 0, "srs.final_week_days"},
		{b.SRS.EasePenalty >= 0 && b.SRS.EaseGain > b.SRS.EasePenalty, "srs.ease"},
	}
	for _, check := range checks {
		if !check.ok {
			return apperrors.WithMetadata(apperrors.CodeTuningInvalid, fmt.Sprintf("invalid tuning value %s", check.field), map[string]string{
				"field": check.field,
			})
		}
	}
	return nil
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

func validBands(bands []progression.UrgencyBand) bool {
	previous := 0.0
	for _, band := range bands {
		if band.Days <= previous || band.Multiplier < 1 {
			return false
		}
		previous = band.Days
	}
	return true
}

func validCurrencyTable(table []loot.CurrencyWeight) bool {
	total := 0
	for _, row := range table {
		if !row.Currency.IsValid() || row.Weight < 0 || row.Min < 1 || row.Max < row.Min {
			return false
		}
		total += row.Weight
	}
	return total > 0
}

func validGuaranteed(params loot.Params) bool {
	for currency, amount := range params.Guaranteed {
		if !currency.IsValid() || amount < 0 {
			return false
		}
	}
	return true
}

func validStatBase(params gear.AffixParams) bool {
	for _, stat := range gear.Stats() {
		if params.StatBase[stat] <= 0 {
			return false
		}
	}
	for _, tier := range []gear.Tier{gear.Tier1, gear.Tier2, gear.Tier3} {
		if params.TierScale[tier] <= 0 {
			return false
		}
	}
	return true
}

func validStages(stages []float64) bool {
	if len(stages) == 0 {
		return false
	}
	for _, stage := range stages {
		if stage <= 0 {
			return false
		}
	}
	return true
}
