package loot

import (
	"math"

	"github.com/louisbranch/studyforge/internal/platform/random"
	"github.com/louisbranch/studyforge/internal/study/gear"
)

// pitySalt separates the pity generator from the per-roll generators.
const pitySalt = math.MaxInt64

// Pity counts consecutive cycles without a rare-or-better item.
type Pity struct {
	DryCycles int `json:"dry_cycles"`
}

// applyPity upgrades the last item of a dry cycle once the counter has
// reached the threshold, and advances or resets the counter.
func applyPity(drop Drop, in Input, level int, params Params, affixes gear.AffixParams) Drop {
	if drop.HasRare() {
		drop.Pity = Pity{}
		return drop
	}
	if params.PityThreshold <= 0 || in.Pity.DryCycles < params.PityThreshold {
		drop.Pity = Pity{DryCycles: in.Pity.DryCycles + 1}
		return drop
	}

	rng := random.New(in.Seed, pitySalt)
	if len(drop.Items) == 0 {
		slots := gear.Slots()
		drop.Items = append(drop.Items, gear.NewItem(rng, slots[rng.Intn(len(slots))], gear.RarityRare, level, affixes))
	} else {
		last := len(drop.Items) - 1
		drop.Items[last] = gear.Upgrade(rng, drop.Items[last], gear.RarityRare, affixes)
	}
	drop.PityForced = true
	drop.Pity = Pity{}
	return drop
}
