package gear

// Bonuses holds the summed percentage of every stat across equipped items.
type Bonuses struct {
	StudyXP      float64
	TopicXP      float64
	FocusCap     float64
	FocusGen     float64
	LootRarity   float64
	LootQuantity float64
}

// Get returns the total for one stat.
func (b Bonuses) Get(stat Stat) float64 {
	switch stat {
	case StatStudyXP:
		return b.StudyXP
	case StatTopicXP:
		return b.TopicXP
	case StatFocusCap:
		return b.FocusCap
	case StatFocusGen:
		return b.FocusGen
	case StatLootRarity:
		return b.LootRarity
	case StatLootQuantity:
		return b.LootQuantity
	default:
		return 0
	}
}

func (b *Bonuses) add(stat Stat, value float64) {
	switch stat {
	case StatStudyXP:
		b.StudyXP += value
	case StatTopicXP:
		b.TopicXP += value
	case StatFocusCap:
		b.FocusCap += value
	case StatFocusGen:
		b.FocusGen += value
	case StatLootRarity:
		b.LootRarity += value
	case StatLootQuantity:
		b.LootQuantity += value
	}
}

// Resolve sums affix values across the equipped items. Slots are visited in
// canonical order so the floating-point sum is the same on every call.
func Resolve(equipped map[Slot]Item) Bonuses {
	var bonuses Bonuses
	for _, slot := range Slots() {
		item, ok := equipped[slot]
		if !ok {
			continue
		}
		for _, affix := range item.Affixes {
			bonuses.add(affix.Stat, affix.Value)
		}
	}
	return bonuses
}
