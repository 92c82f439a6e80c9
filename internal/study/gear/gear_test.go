package gear

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
)

func testRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestResolveSumsAcrossSlots(t *testing.T) {
	equipped := map[Slot]Item{
		SlotQuill: {Slot: SlotQuill, Affixes: []Affix{
			{Stat: StatStudyXP, Value: 5},
			{Stat: StatLootQuantity, Value: 10},
		}},
		SlotRing: {Slot: SlotRing, Affixes: []Affix{
			{Stat: StatStudyXP, Value: 2.5},
		}},
	}

	bonuses := Resolve(equipped)
	if bonuses.StudyXP != 7.5 {
		t.Fatalf("study xp = %v, want 7.5", bonuses.StudyXP)
	}
	if bonuses.Get(StatLootQuantity) != 10 {
		t.Fatalf("loot quantity = %v, want 10", bonuses.Get(StatLootQuantity))
	}
	if bonuses.FocusCap != 0 {
		t.Fatalf("focus cap = %v, want 0", bonuses.FocusCap)
	}
}

func TestRollTierGatedByItemLevel(t *testing.T) {
	params := DefaultAffixParams()
	rng := testRNG(1)
	for i := 0; i < 500; i++ {
		if tier := RollTier(rng, 10, params); tier != Tier3 {
			t.Fatalf("item level 10 rolled tier %d", tier)
		}
		if tier := RollTier(rng, 25, params); tier == Tier1 {
			t.Fatal("item level 25 rolled tier 1")
		}
	}

	sawT1 := false
	for i := 0; i < 500; i++ {
		if RollTier(rng, 45, params) == Tier1 {
			sawT1 = true
			break
		}
	}
	if !sawT1 {
		t.Fatal("expected tier 1 to be reachable at item level 45")
	}
}

func TestAffixValueScalesWithTierAndLevel(t *testing.T) {
	params := DefaultAffixParams()
	if got := AffixValue(StatStudyXP, Tier3, 10, params); got != 5 {
		t.Fatalf("t3 value = %v, want 5", got)
	}
	if got := AffixValue(StatStudyXP, Tier1, 40, params); got != 16 {
		t.Fatalf("t1 value = %v, want 16", got)
	}
}

func TestRollAffixesDistinctAndBounded(t *testing.T) {
	rng := testRNG(7)
	existing := []Affix{{Stat: StatFocusGen, Tier: Tier3, Value: 5}}
	rolled := RollAffixes(rng, 30, 10, existing, DefaultAffixParams())
	if len(rolled) != MaxAffixes-1 {
		t.Fatalf("rolled %d affixes, want %d", len(rolled), MaxAffixes-1)
	}
	seen := map[Stat]bool{StatFocusGen: true}
	for _, affix := range rolled {
		if seen[affix.Stat] {
			t.Fatalf("duplicate stat %s", affix.Stat)
		}
		seen[affix.Stat] = true
	}
}

func TestNewItemIsReproducible(t *testing.T) {
	a := NewItem(testRNG(99), SlotTome, RarityRare, 12, DefaultAffixParams())
	b := NewItem(testRNG(99), SlotTome, RarityRare, 12, DefaultAffixParams())

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Fatalf("items differ:\n%s\n%s", ja, jb)
	}
	if n := len(a.Affixes); n < 2 || n > 4 {
		t.Fatalf("rare item has %d affixes", n)
	}
}

func TestUpgradeTopsUpAffixes(t *testing.T) {
	item := Item{ID: "x", Rarity: RarityCommon, Slot: SlotRing, ItemLevel: 5}
	upgraded := Upgrade(testRNG(3), item, RarityRare, DefaultAffixParams())
	if upgraded.Rarity != RarityRare {
		t.Fatalf("rarity = %v, want rare", upgraded.Rarity)
	}
	if len(upgraded.Affixes) < 2 {
		t.Fatalf("affixes = %d, want at least 2", len(upgraded.Affixes))
	}
	if len(item.Affixes) != 0 {
		t.Fatal("expected source item untouched")
	}

	epic := Item{Rarity: RarityEpic}
	if got := Upgrade(testRNG(3), epic, RarityRare, DefaultAffixParams()); got.Rarity != RarityEpic {
		t.Fatal("expected epic item not to be downgraded")
	}
}

func TestNormalizeSlotMapsLegacyNames(t *testing.T) {
	tests := map[string]Slot{
		"weapon":   SlotQuill,
		"Helmet":   SlotHeadgear,
		"chest":    SlotRobe,
		"offhand":  SlotTome,
		"ring":     SlotRing,
		" amulet ": SlotAmulet,
	}
	for name, want := range tests {
		got, ok := NormalizeSlot(name)
		if !ok || got != want {
			t.Fatalf("NormalizeSlot(%q) = %q, %v; want %q", name, got, ok, want)
		}
	}
	if _, ok := NormalizeSlot("boots"); ok {
		t.Fatal("expected unknown slot to fail")
	}
}

func TestRarityTextRoundTrip(t *testing.T) {
	var r Rarity
	if err := r.UnmarshalText([]byte("Rare")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r != RarityRare {
		t.Fatalf("rarity = %v, want rare", r)
	}
	if err := r.UnmarshalText([]byte("legendary")); err == nil {
		t.Fatal("expected unknown rarity error")
	}
}

func TestCraftPreconditions(t *testing.T) {
	common := Item{Rarity: RarityCommon, ItemLevel: 10}
	magic := Item{Rarity: RarityMagic, ItemLevel: 10, Affixes: []Affix{{Stat: StatStudyXP, Tier: Tier3, Value: 5}}}
	rare := Item{Rarity: RarityRare, ItemLevel: 10, Affixes: []Affix{
		{Stat: StatStudyXP, Value: 5}, {Stat: StatTopicXP, Value: 5},
	}}
	full := Item{Rarity: RarityRare, ItemLevel: 10, Affixes: []Affix{
		{Stat: StatStudyXP}, {Stat: StatTopicXP}, {Stat: StatFocusCap}, {Stat: StatFocusGen},
	}}

	tests := []struct {
		name  string
		item  Item
		op    Operation
		legal bool
	}{
		{"transmute common", common, OpTransmute, true},
		{"transmute magic", magic, OpTransmute, false},
		{"alchemy common", common, OpAlchemy, true},
		{"alchemy rare", rare, OpAlchemy, false},
		{"scour rare", rare, OpScour, true},
		{"scour common", common, OpScour, false},
		{"chaos rare", rare, OpChaos, true},
		{"chaos magic", magic, OpChaos, false},
		{"regal magic", magic, OpRegal, true},
		{"regal rare", rare, OpRegal, false},
		{"augment magic", magic, OpAugment, true},
		{"augment full", full, OpAugment, false},
		{"exalted rare", rare, OpExalted, true},
		{"exalted full", full, OpExalted, false},
		{"exalted magic", magic, OpExalted, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanCraft(tt.item, tt.op)
			if tt.legal && err != nil {
				t.Fatalf("expected legal, got %v", err)
			}
			if !tt.legal && !errors.Is(err, ErrIllegalCraft) {
				t.Fatalf("err = %v, want %v", err, ErrIllegalCraft)
			}
		})
	}

	if err := CanCraft(common, "mirror"); !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("err = %v, want %v", err, ErrUnknownOperation)
	}
}

func TestCraftEffects(t *testing.T) {
	affixes := DefaultAffixParams()
	craft := DefaultCraftParams()
	common := Item{ID: "c", Rarity: RarityCommon, ItemLevel: 20}

	res, err := Craft(testRNG(1), common, OpTransmute, affixes, craft)
	if err != nil {
		t.Fatalf("transmute: %v", err)
	}
	if res.Item.Rarity != RarityMagic || len(res.Item.Affixes) < 1 || len(res.Item.Affixes) > 2 {
		t.Fatalf("transmute result = %+v", res.Item)
	}

	res, err = Craft(testRNG(2), common, OpAlchemy, affixes, craft)
	if err != nil {
		t.Fatalf("alchemy: %v", err)
	}
	rare := res.Item
	if rare.Rarity != RarityRare || len(rare.Affixes) < 2 || len(rare.Affixes) > 4 {
		t.Fatalf("alchemy result = %+v", rare)
	}

	res, err = Craft(testRNG(3), rare, OpChaos, affixes, craft)
	if err != nil {
		t.Fatalf("chaos: %v", err)
	}
	if len(res.Item.Affixes) != len(rare.Affixes) || res.Item.Rarity != RarityRare {
		t.Fatalf("chaos changed count: %d -> %d", len(rare.Affixes), len(res.Item.Affixes))
	}

	res, err = Craft(testRNG(4), rare, OpScour, affixes, craft)
	if err != nil {
		t.Fatalf("scour: %v", err)
	}
	if res.Item.Rarity != RarityCommon || len(res.Item.Affixes) != 0 {
		t.Fatalf("scour result = %+v", res.Item)
	}
	if res.Item.ID != rare.ID {
		t.Fatal("expected crafting to keep the item id")
	}

	magic := Item{Rarity: RarityMagic, ItemLevel: 20, Affixes: []Affix{{Stat: StatStudyXP, Tier: Tier3, Value: 6}}}
	res, err = Craft(testRNG(5), magic, OpRegal, affixes, craft)
	if err != nil {
		t.Fatalf("regal: %v", err)
	}
	if res.Item.Rarity != RarityRare || len(res.Item.Affixes) != 2 {
		t.Fatalf("regal result = %+v", res.Item)
	}
	if len(magic.Affixes) != 1 {
		t.Fatal("expected regal not to mutate the source item")
	}
}

func TestExaltedConsumesOnFailure(t *testing.T) {
	rare := Item{Rarity: RarityRare, ItemLevel: 20, Affixes: []Affix{{Stat: StatStudyXP}, {Stat: StatTopicXP}}}

	successes, failures := 0, 0
	for seed := int64(0); seed < 200; seed++ {
		res, err := Craft(testRNG(seed), rare, OpExalted, DefaultAffixParams(), DefaultCraftParams())
		if err != nil {
			t.Fatalf("exalted seed %d: %v", seed, err)
		}
		if res.Succeeded {
			successes++
			if len(res.Item.Affixes) != 3 {
				t.Fatalf("success added %d affixes", len(res.Item.Affixes)-2)
			}
		} else {
			failures++
			if len(res.Item.Affixes) != 2 {
				t.Fatal("failed exalted changed the item")
			}
		}
	}
	if successes == 0 || failures == 0 {
		t.Fatalf("successes=%d failures=%d, expected both outcomes", successes, failures)
	}
}

func TestOperationCurrency(t *testing.T) {
	for _, op := range []Operation{OpTransmute, OpAlchemy, OpScour, OpChaos, OpRegal, OpAugment, OpExalted} {
		currency, ok := op.Currency()
		if !ok || !currency.IsValid() {
			t.Fatalf("operation %s has no valid currency", op)
		}
	}
	if _, ok := Operation("mirror").Currency(); ok {
		t.Fatal("expected unknown operation to have no currency")
	}
}
