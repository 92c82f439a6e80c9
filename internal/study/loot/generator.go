// Package loot generates the rewards of a completed study cycle.
//
// Each roll draws from its own generator seeded from the cycle seed and the
// roll index, so one cycle's output is fully determined by its seed and
// inputs, and adding a roll never shifts the outcome of earlier ones.
package loot

import (
	"math"
	"math/rand"

	"github.com/louisbranch/studyforge/internal/platform/random"
	"github.com/louisbranch/studyforge/internal/study/gear"
	"github.com/louisbranch/studyforge/internal/study/ledger"
)

// Input describes the cycle being rewarded.
type Input struct {
	// Seed identifies the cycle; see CycleSeed.
	Seed int64
	// PlayerLevel sets the item level of generated items.
	PlayerLevel int
	// Focus is the focus multiplier at cycle end.
	Focus float64
	// AverageFocus is the focus averaged over the cycle's study time.
	AverageFocus float64
	// MomentumSeconds is the cycle's accumulated momentum.
	MomentumSeconds float64
	// Bonuses are the equipped item bonuses.
	Bonuses gear.Bonuses
	// QuantityMultiplier and RarityBonus come from active temporary effects.
	QuantityMultiplier float64
	RarityBonus        float64
	// Pity is the counter carried from earlier cycles.
	Pity Pity
}

// CurrencyDrop is one stack of currency.
type CurrencyDrop struct {
	Currency ledger.Currency
	Amount   int
	// Guaranteed marks the flat per-cycle grant.
	Guaranteed bool
}

// Drop is the whole reward of one cycle.
type Drop struct {
	Items    []gear.Item
	Currency []CurrencyDrop
	// Rolls is the number of random rolls made.
	Rolls int
	// PityForced reports that the pity rule upgraded an item.
	PityForced bool
	// Pity is the counter to carry into the next cycle.
	Pity Pity
}

// Count returns the number of drops counted toward the cycle total.
func (d Drop) Count() int {
	return len(d.Items) + len(d.Currency)
}

// HasRare reports whether any item is rare or better.
func (d Drop) HasRare() bool {
	for _, item := range d.Items {
		if item.Rarity.AtLeast(gear.RarityRare) {
			return true
		}
	}
	return false
}

// CycleSeed derives a cycle's seed from the engine seed, the cycle end in
// unix milliseconds, and the player level.
func CycleSeed(engineSeed, cycleEndMillis int64, level int) int64 {
	return random.Mix(engineSeed, cycleEndMillis, int64(level))
}

// RollCount returns the number of rolls for a cycle; never below MinCount.
func RollCount(in Input, params Params) int {
	momentumBonus := 0
	if params.MomentumStepSeconds > 0 {
		momentumBonus = int(math.Floor(in.MomentumSeconds / params.MomentumStepSeconds))
	}
	if momentumBonus > params.MomentumMaxBonus {
		momentumBonus = params.MomentumMaxBonus
	}
	if momentumBonus < 0 {
		momentumBonus = 0
	}

	base := float64(params.BaseCount) + math.Floor(in.Focus*params.FocusCountFactor) + float64(momentumBonus)
	scale := (1 + in.Bonuses.LootQuantity/100) * orOne(in.QuantityMultiplier)
	count := int(math.Floor(base * scale))
	if count < params.MinCount {
		count = params.MinCount
	}
	return count
}

// RarityBias returns min(MaxRarityBias, focusBonus + gearBonus).
func RarityBias(in Input, params Params) float64 {
	focusBonus := math.Max(0, in.AverageFocus-params.FocusBiasBaseline) * params.FocusBiasFactor
	gearBonus := (in.Bonuses.LootRarity + in.RarityBonus) / 100
	bias := math.Max(0, focusBonus+gearBonus)
	return math.Min(params.MaxRarityBias, bias)
}

// RollRarity maps a uniform roll to a rarity, shrinking the roll by bias so
// higher bias favours better rarities.
func RollRarity(roll, bias float64, params Params) gear.Rarity {
	r := roll * (1 - bias)
	switch {
	case r < params.EpicChance:
		return gear.RarityEpic
	case r < params.EpicChance+params.RareChance:
		return gear.RarityRare
	case r < params.EpicChance+params.RareChance+params.MagicChance:
		return gear.RarityMagic
	default:
		return gear.RarityCommon
	}
}

// Generate produces the loot for one completed cycle.
func Generate(in Input, params Params, affixes gear.AffixParams) Drop {
	count := RollCount(in, params)
	bias := RarityBias(in, params)
	level := in.PlayerLevel
	if level < 1 {
		level = 1
	}

	drop := Drop{Rolls: count}
	for i := 0; i < count; i++ {
		rng := random.New(in.Seed, int64(i))
		if rng.Float64() < params.CurrencyChance {
			if currency, ok := rollCurrency(rng, params.CurrencyTable); ok {
				drop.Currency = append(drop.Currency, currency)
				continue
			}
		}
		drop.Items = append(drop.Items, rollItem(rng, level, bias, params, affixes))
	}

	for _, currency := range ledger.Currencies() {
		if amount := params.Guaranteed[currency]; amount > 0 {
			drop.Currency = append(drop.Currency, CurrencyDrop{Currency: currency, Amount: amount, Guaranteed: true})
		}
	}

	drop = applyPity(drop, in, level, params, affixes)
	return drop
}

func rollItem(rng *rand.Rand, level int, bias float64, params Params, affixes gear.AffixParams) gear.Item {
	rarity := RollRarity(rng.Float64(), bias, params)
	slots := gear.Slots()
	slot := slots[rng.Intn(len(slots))]
	itemLevel := level
	if params.ItemLevelSpread > 0 {
		itemLevel += rng.Intn(params.ItemLevelSpread + 1)
	}
	return gear.NewItem(rng, slot, rarity, itemLevel, affixes)
}

func rollCurrency(rng *rand.Rand, table []CurrencyWeight) (CurrencyDrop, bool) {
	total := 0
	for _, row := range table {
		if row.Weight > 0 {
			total += row.Weight
		}
	}
	if total == 0 {
		return CurrencyDrop{}, false
	}
	pick := rng.Intn(total)
	for _, row := range table {
		if row.Weight <= 0 {
			continue
		}
		if pick < row.Weight {
			amount := row.Min
			if row.Max > row.Min {
				amount += rng.Intn(row.Max - row.Min + 1)
			}
			if amount < 1 {
				amount = 1
			}
			return CurrencyDrop{Currency: row.Currency, Amount: amount}, true
		}
		pick -= row.Weight
	}
	return CurrencyDrop{}, false
}

func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}
