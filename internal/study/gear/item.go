package gear

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// Rarity orders items: Common < Magic < Rare < Epic.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityMagic
	RarityRare
	RarityEpic
)

var rarityNames = [...]string{"common", "magic", "rare", "epic"}

func (r Rarity) String() string {
	if r.IsValid() {
		return rarityNames[r]
	}
	return "unknown"
}

// IsValid reports whether r is one of the defined rarities.
func (r Rarity) IsValid() bool {
	return r >= RarityCommon && r <= RarityEpic
}

// AtLeast reports whether r ranks at or above other.
func (r Rarity) AtLeast(other Rarity) bool {
	return r >= other
}

// MarshalText encodes the rarity by name.
func (r Rarity) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid rarity %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a rarity name.
func (r *Rarity) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, candidate := range rarityNames {
		if candidate == name {
			*r = Rarity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown rarity %q", name)
}

// Slot is an equipment position. A character wears at most one item per slot.
type Slot string

const (
	SlotHeadgear Slot = "headgear"
	SlotAmulet   Slot = "amulet"
	SlotQuill    Slot = "quill"
	SlotTome     Slot = "tome"
	SlotRobe     Slot = "robe"
	SlotRing     Slot = "ring"
)

// Slots returns every slot in canonical order.
func Slots() []Slot {
	return []Slot{SlotHeadgear, SlotAmulet, SlotQuill, SlotTome, SlotRobe, SlotRing}
}

// IsValid reports whether s is a current slot name.
func (s Slot) IsValid() bool {
	switch s {
	case SlotHeadgear, SlotAmulet, SlotQuill, SlotTome, SlotRobe, SlotRing:
		return true
	default:
		return false
	}
}

// legacySlots maps slot names written by older snapshots.
var legacySlots = map[string]Slot{
	"helmet":  SlotHeadgear,
	"helm":    SlotHeadgear,
	"neck":    SlotAmulet,
	"weapon":  SlotQuill,
	"offhand": SlotTome,
	"shield":  SlotTome,
	"chest":   SlotRobe,
	"armor":   SlotRobe,
	"finger":  SlotRing,
}

// NormalizeSlot resolves current and legacy slot names.
func NormalizeSlot(name string) (Slot, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if slot := Slot(name); slot.IsValid() {
		return slot, true
	}
	slot, ok := legacySlots[name]
	return slot, ok
}

// MaxAffixes bounds the affix list of any item.
const MaxAffixes = 4

// Item is one piece of equipment.
type Item struct {
	ID        string  `json:"id"`
	Rarity    Rarity  `json:"rarity"`
	Slot      Slot    `json:"slot"`
	ItemLevel int     `json:"item_level"`
	Affixes   []Affix `json:"affixes,omitempty"`
}

// Clone returns a copy whose affix slice does not alias i.
func (i Item) Clone() Item {
	i.Affixes = append([]Affix(nil), i.Affixes...)
	return i
}

// NewItemID derives an item identifier from rng, so seeded generation
// yields the same identifiers on replay.
func NewItemID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		// math/rand readers never fail.
		panic(fmt.Sprintf("derive item id: %v", err))
	}
	return id.String()
}

// NewItem rolls an item of the given rarity with the affix count that
// rarity allows.
func NewItem(rng *rand.Rand, slot Slot, rarity Rarity, itemLevel int, params AffixParams) Item {
	if itemLevel < 1 {
		itemLevel = 1
	}
	minCount, maxCount := AffixCountRange(rarity)
	item := Item{
		ID:        NewItemID(rng),
		Rarity:    rarity,
		Slot:      slot,
		ItemLevel: itemLevel,
	}
	item.Affixes = RollAffixes(rng, itemLevel, between(rng, minCount, maxCount), nil, params)
	return item
}

// AffixCountRange returns the inclusive affix count bounds for a rarity.
func AffixCountRange(rarity Rarity) (int, int) {
	switch rarity {
	case RarityMagic:
		return 1, 2
	case RarityRare:
		return 2, 4
	case RarityEpic:
		return 3, 4
	default:
		return 0, 0
	}
}

// Upgrade raises item to rarity, topping up affixes to the new rarity's
// minimum. Items already at or above rarity are returned unchanged.
func Upgrade(rng *rand.Rand, item Item, rarity Rarity, params AffixParams) Item {
	if item.Rarity.AtLeast(rarity) {
		return item
	}
	item = item.Clone()
	item.Rarity = rarity
	minCount, _ := AffixCountRange(rarity)
	if missing := minCount - len(item.Affixes); missing > 0 {
		item.Affixes = append(item.Affixes, RollAffixes(rng, item.ItemLevel, missing, item.Affixes, params)...)
	}
	return item
}

func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
