package gear

import (
	"errors"
	"math/rand"

	"github.com/louisbranch/studyforge/internal/study/ledger"
)

// Operation is a crafting transform.
type Operation string

const (
	OpTransmute Operation = "transmute"
	OpAlchemy   Operation = "alchemy"
	OpScour     Operation = "scour"
	OpChaos     Operation = "chaos"
	OpRegal     Operation = "regal"
	OpAugment   Operation = "augment"
	OpExalted   Operation = "exalted"
)

// ErrIllegalCraft indicates the operation does not apply to the item.
var ErrIllegalCraft = errors.New("crafting operation does not apply to item")

// ErrUnknownOperation indicates an operation name outside the known set.
var ErrUnknownOperation = errors.New("unknown crafting operation")

// Currency returns the currency one application of op consumes.
func (op Operation) Currency() (ledger.Currency, bool) {
	switch op {
	case OpTransmute:
		return ledger.CurrencyTransmute, true
	case OpAlchemy:
		return ledger.CurrencyAlchemy, true
	case OpScour:
		return ledger.CurrencyScour, true
	case OpChaos:
		return ledger.CurrencyChaos, true
	case OpRegal:
		return ledger.CurrencyRegal, true
	case OpAugment:
		return ledger.CurrencyAugment, true
	case OpExalted:
		return ledger.CurrencyExalted, true
	default:
		return "", false
	}
}

// CraftParams tunes crafting odds.
type CraftParams struct {
	// ExaltedChance is the probability an exalted application adds an affix.
	ExaltedChance float64 `yaml:"exalted_chance"`
}

// DefaultCraftParams returns the shipped crafting balance.
func DefaultCraftParams() CraftParams {
	return CraftParams{ExaltedChance: 0.75}
}

// CraftResult is the outcome of a legal craft. Currency is consumed whenever
// a result is returned, including when Succeeded is false.
type CraftResult struct {
	Item      Item
	Succeeded bool
}

// CanCraft reports whether op is legal for item without rolling anything.
func CanCraft(item Item, op Operation) error {
	count := len(item.Affixes)
	switch op {
	case OpTransmute, OpAlchemy:
		if item.Rarity != RarityCommon {
			return ErrIllegalCraft
		}
	case OpScour:
		if item.Rarity == RarityCommon {
			return ErrIllegalCraft
		}
	case OpChaos:
		if item.Rarity != RarityRare {
			return ErrIllegalCraft
		}
	case OpRegal:
		if item.Rarity != RarityMagic {
			return ErrIllegalCraft
		}
	case OpAugment:
		if count >= MaxAffixes {
			return ErrIllegalCraft
		}
	case OpExalted:
		if item.Rarity != RarityRare || count >= MaxAffixes {
			return ErrIllegalCraft
		}
	default:
		return ErrUnknownOperation
	}
	return nil
}

// Craft applies op to item. Illegal operations return an error and the
// caller must not consume currency for them.
func Craft(rng *rand.Rand, item Item, op Operation, affixes AffixParams, params CraftParams) (CraftResult, error) {
	if err := CanCraft(item, op); err != nil {
		return CraftResult{Item: item}, err
	}

	next := item.Clone()
	switch op {
	case OpTransmute:
		next.Rarity = RarityMagic
		next.Affixes = RollAffixes(rng, next.ItemLevel, between(rng, 1, 2), nil, affixes)
	case OpAlchemy:
		next.Rarity = RarityRare
		next.Affixes = RollAffixes(rng, next.ItemLevel, between(rng, 2, 4), nil, affixes)
	case OpScour:
		next.Rarity = RarityCommon
		next.Affixes = nil
	case OpChaos:
		next.Affixes = RollAffixes(rng, next.ItemLevel, len(item.Affixes), nil, affixes)
	case OpRegal:
		next.Rarity = RarityRare
		next.Affixes = append(next.Affixes, RollAffixes(rng, next.ItemLevel, 1, next.Affixes, affixes)...)
	case OpAugment:
		next.Affixes = append(next.Affixes, RollAffixes(rng, next.ItemLevel, 1, next.Affixes, affixes)...)
	case OpExalted:
		if rng.Float64() >= params.ExaltedChance {
			return CraftResult{Item: item, Succeeded: false}, nil
		}
		next.Affixes = append(next.Affixes, RollAffixes(rng, next.ItemLevel, 1, next.Affixes, affixes)...)
	}
	return CraftResult{Item: next, Succeeded: true}, nil
}
