package loot

import "github.com/louisbranch/studyforge/internal/study/ledger"

// CurrencyWeight is one row of the weighted currency table.
type CurrencyWeight struct {
	Currency ledger.Currency `yaml:"currency"`
	Weight   int             `yaml:"weight"`
	// Min and Max bound the stack size of one drop.
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Params tunes the generator.
type Params struct {
	// BaseCount is the item count before focus and momentum.
	BaseCount int `yaml:"base_count"`
	// FocusCountFactor multiplies the focus multiplier into extra rolls.
	FocusCountFactor float64 `yaml:"focus_count_factor"`
	// MomentumStepSeconds of momentum earn one extra roll.
	MomentumStepSeconds float64 `yaml:"momentum_step_seconds"`
	// MomentumMaxBonus caps momentum rolls.
	MomentumMaxBonus int `yaml:"momentum_max_bonus"`
	// MinCount is the fewest rolls any cycle produces.
	MinCount int `yaml:"min_count"`

	// CurrencyChance is the probability a roll yields currency instead of an item.
	CurrencyChance float64          `yaml:"currency_chance"`
	CurrencyTable  []CurrencyWeight `yaml:"currency_table"`
	// Guaranteed is granted every cycle on top of random drops.
	Guaranteed map[ledger.Currency]int `yaml:"guaranteed"`

	// EpicChance, RareChance and MagicChance are cumulative-free base odds;
	// a roll below EpicChance is epic, below EpicChance+RareChance is rare,
	// and so on.
	EpicChance  float64 `yaml:"epic_chance"`
	RareChance  float64 `yaml:"rare_chance"`
	MagicChance float64 `yaml:"magic_chance"`
	// MaxRarityBias caps the combined focus and gear rarity bias.
	MaxRarityBias float64 `yaml:"max_rarity_bias"`
	// FocusBiasBaseline is the average focus above which focus adds bias.
	FocusBiasBaseline float64 `yaml:"focus_bias_baseline"`
	// FocusBiasFactor converts focus above baseline into bias.
	FocusBiasFactor float64 `yaml:"focus_bias_factor"`

	// PityThreshold is the number of dry cycles after which the next dry
	// cycle is forced to contain a rare item.
	PityThreshold int `yaml:"pity_threshold"`
	// ItemLevelSpread adds up to this many levels above the player level.
	ItemLevelSpread int `yaml:"item_level_spread"`
}

// DefaultParams returns the shipped loot balance.
func DefaultParams() Params {
	return Params{
		BaseCount:           3,
		FocusCountFactor:    2,
		MomentumStepSeconds: 15 * 60,
		MomentumMaxBonus:    2,
		MinCount:            3,

		CurrencyChance: 0.6,
		CurrencyTable: []CurrencyWeight{
			{Currency: ledger.CurrencyGold, Weight: 50, Min: 5, Max: 25},
			{Currency: ledger.CurrencyTransmute, Weight: 15, Min: 1, Max: 2},
			{Currency: ledger.CurrencyAugment, Weight: 12, Min: 1, Max: 1},
			{Currency: ledger.CurrencyAlchemy, Weight: 6, Min: 1, Max: 1},
			{Currency: ledger.CurrencyScour, Weight: 6, Min: 1, Max: 1},
			{Currency: ledger.CurrencyRegal, Weight: 5, Min: 1, Max: 1},
			{Currency: ledger.CurrencyChaos, Weight: 5, Min: 1, Max: 1},
			{Currency: ledger.CurrencyExalted, Weight: 1, Min: 1, Max: 1},
		},
		Guaranteed: map[ledger.Currency]int{
			ledger.CurrencyGold: 10,
		},

		EpicChance:        0.02,
		RareChance:        0.08,
		MagicChance:       0.30,
		MaxRarityBias:     0.75,
		FocusBiasBaseline: 1.0,
		FocusBiasFactor:   0.5,

		PityThreshold:   2,
		ItemLevelSpread: 2,
	}
}
