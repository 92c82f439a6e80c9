package engine

import (
	"time"
)

// EffectKind names a temporary modifier.
type EffectKind string

const (
	// EffectXPMultiplier multiplies XP rates by Value.
	EffectXPMultiplier EffectKind = "xp_multiplier"
	// EffectLootQuantity multiplies the loot roll count by Value.
	EffectLootQuantity EffectKind = "loot_quantity"
	// EffectRarityBonus adds Value percent to the loot rarity bias.
	EffectRarityBonus EffectKind = "rarity_bonus"
	// EffectFocusFreeze holds the focus multiplier while paused.
	EffectFocusFreeze EffectKind = "focus_freeze"
)

// IsValid reports whether k is a known effect.
func (k EffectKind) IsValid() bool {
	switch k {
	case EffectXPMultiplier, EffectLootQuantity, EffectRarityBonus, EffectFocusFreeze:
		return true
	default:
		return false
	}
}

// Effect is an active temporary modifier.
type Effect struct {
	Kind      EffectKind `json:"kind"`
	Value     float64    `json:"value"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// activeAt reports whether e still applies at now.
func (e Effect) activeAt(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// effectTotals folds the active effects at now into their combined values.
type effectTotals struct {
	xpMultiplier float64
	lootQuantity float64
	rarityBonus  float64
	focusFrozen  bool
}

func activeEffects(effects []Effect, now time.Time) effectTotals {
	totals := effectTotals{xpMultiplier: 1, lootQuantity: 1}
	for _, effect := range effects {
		if !effect.activeAt(now) {
			continue
		}
		switch effect.Kind {
		case EffectXPMultiplier:
			totals.xpMultiplier *= effect.Value
		case EffectLootQuantity:
			totals.lootQuantity *= effect.Value
		case EffectRarityBonus:
			totals.rarityBonus += effect.Value
		case EffectFocusFreeze:
			totals.focusFrozen = true
		}
	}
	return totals
}

// pruneEffects drops effects that expired at or before now.
func pruneEffects(effects []Effect, now time.Time) []Effect {
	kept := effects[:0]
	for _, effect := range effects {
		if effect.activeAt(now) {
			kept = append(kept, effect)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
