package gear

import (
	"math"
	"math/rand"
)

// Stat is a percentage modifier an affix can carry.
type Stat string

const (
	StatStudyXP      Stat = "study_xp"
	StatTopicXP      Stat = "topic_xp"
	StatFocusCap     Stat = "focus_cap"
	StatFocusGen     Stat = "focus_gen"
	StatLootRarity   Stat = "loot_rarity"
	StatLootQuantity Stat = "loot_quantity"
)

// Stats returns every stat in canonical order.
func Stats() []Stat {
	return []Stat{StatStudyXP, StatTopicXP, StatFocusCap, StatFocusGen, StatLootRarity, StatLootQuantity}
}

// IsValid reports whether s is a known stat.
func (s Stat) IsValid() bool {
	switch s {
	case StatStudyXP, StatTopicXP, StatFocusCap, StatFocusGen, StatLootRarity, StatLootQuantity:
		return true
	default:
		return false
	}
}

// Tier grades an affix roll; 1 is the strongest.
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
)

// Affix is one stat modifier on an item. Value is a percentage.
type Affix struct {
	Stat  Stat    `json:"stat"`
	Tier  Tier    `json:"tier"`
	Value float64 `json:"value"`
}

// AffixParams tunes affix tier gating and value scaling.
type AffixParams struct {
	// T1MinItemLevel is the item level at which tier 1 rolls become possible.
	T1MinItemLevel int `yaml:"t1_min_item_level"`
	// T2MinItemLevel is the item level at which tier 2 rolls become possible.
	T2MinItemLevel int `yaml:"t2_min_item_level"`
	// T1Chance is the tier 1 probability once T1MinItemLevel is reached.
	T1Chance float64 `yaml:"t1_chance"`
	// T2Chance is the tier 2 probability once T2MinItemLevel is reached.
	T2Chance float64 `yaml:"t2_chance"`
	// TierScale multiplies the stat base per tier.
	TierScale map[Tier]float64 `yaml:"tier_scale"`
	// StatBase is the unscaled percentage for each stat.
	StatBase map[Stat]float64 `yaml:"stat_base"`
	// LevelGrowth is added per item level.
	LevelGrowth float64 `yaml:"level_growth"`
}

// DefaultAffixParams returns the shipped affix balance.
func DefaultAffixParams() AffixParams {
	return AffixParams{
		T1MinItemLevel: 40,
		T2MinItemLevel: 20,
		T1Chance:       0.15,
		T2Chance:       0.35,
		TierScale: map[Tier]float64{
			Tier1: 3.0,
			Tier2: 2.0,
			Tier3: 1.0,
		},
		StatBase: map[Stat]float64{
			StatStudyXP:      4,
			StatTopicXP:      4,
			StatFocusCap:     3,
			StatFocusGen:     5,
			StatLootRarity:   3,
			StatLootQuantity: 5,
		},
		LevelGrowth: 0.1,
	}
}

// RollTier picks a tier allowed for itemLevel.
func RollTier(rng *rand.Rand, itemLevel int, params AffixParams) Tier {
	roll := rng.Float64()
	switch {
	case itemLevel >= params.T1MinItemLevel:
		if roll < params.T1Chance {
			return Tier1
		}
		if roll < params.T1Chance+params.T2Chance {
			return Tier2
		}
	case itemLevel >= params.T2MinItemLevel:
		if roll < params.T2Chance {
			return Tier2
		}
	}
	return Tier3
}

// AffixValue computes the percentage for a stat at a tier and item level,
// rounded to one decimal.
func AffixValue(stat Stat, tier Tier, itemLevel int, params AffixParams) float64 {
	scale, ok := params.TierScale[tier]
	if !ok {
		scale = 1
	}
	value := params.StatBase[stat]*scale + float64(itemLevel)*params.LevelGrowth
	return math.Round(value*10) / 10
}

// RollAffix rolls one affix whose stat is not already present in existing.
// It returns false when every stat is taken.
func RollAffix(rng *rand.Rand, itemLevel int, existing []Affix, params AffixParams) (Affix, bool) {
	taken := make(map[Stat]bool, len(existing))
	for _, affix := range existing {
		taken[affix.Stat] = true
	}
	var open []Stat
	for _, stat := range Stats() {
		if !taken[stat] {
			open = append(open, stat)
		}
	}
	if len(open) == 0 {
		return Affix{}, false
	}
	stat := open[rng.Intn(len(open))]
	tier := RollTier(rng, itemLevel, params)
	return Affix{Stat: stat, Tier: tier, Value: AffixValue(stat, tier, itemLevel, params)}, true
}

// RollAffixes rolls up to n new affixes with distinct stats, also distinct
// from existing. The result never pushes an item past MaxAffixes.
func RollAffixes(rng *rand.Rand, itemLevel, n int, existing []Affix, params AffixParams) []Affix {
	if room := MaxAffixes - len(existing); n > room {
		n = room
	}
	if n <= 0 {
		return nil
	}
	pool := append([]Affix(nil), existing...)
	rolled := make([]Affix, 0, n)
	for i := 0; i < n; i++ {
		affix, ok := RollAffix(rng, itemLevel, pool, params)
		if !ok {
			break
		}
		pool = append(pool, affix)
		rolled = append(rolled, affix)
	}
	return rolled
}
