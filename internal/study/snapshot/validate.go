package snapshot

import (
	"fmt"
	"math"

	"github.com/louisbranch/studyforge/internal/study/engine"
	"github.com/louisbranch/studyforge/internal/study/focus"
	"github.com/louisbranch/studyforge/internal/study/gear"
	"github.com/louisbranch/studyforge/internal/study/progression"
	"github.com/louisbranch/studyforge/internal/study/session"
	"github.com/louisbranch/studyforge/internal/study/srs"
	"github.com/louisbranch/studyforge/internal/study/stamina"
)

// Validate checks every invariant the engine relies on.
func Validate(state engine.State) error {
	player := state.Player
	if player.Level < 1 || !finite(player.XP) || player.XP < 0 || player.XP >= progression.Threshold(player.Level) {
		return invalid("player", "level progress out of range")
	}
	for slot, item := range player.Equipped {
		if !slot.IsValid() || item.Slot != slot {
			return invalid("player.equipped", fmt.Sprintf("item %s in slot %s", item.ID, slot))
		}
		if err := validateItem(item); err != nil {
			return err
		}
	}
	for _, item := range player.Inventory {
		if !item.Slot.IsValid() {
			return invalid("player.inventory", "unknown slot "+string(item.Slot))
		}
		if err := validateItem(item); err != nil {
			return err
		}
	}

	for id, topic := range state.Topics {
		if id == "" || topic.ID != id || !topic.Category.IsValid() {
			return invalid("topics", "malformed topic "+id)
		}
		if topic.Level < 1 || !finite(topic.XP) || topic.XP < 0 || !finite(topic.PeakXP) || topic.PeakXP < 0 {
			return invalid("topics", "progress out of range for "+id)
		}
	}

	s := state.Session
	if s.Mode != session.ModeStudy && s.Mode != session.ModeRest {
		return invalid("session.mode", string(s.Mode))
	}
	if !(s.CycleLength > 0) || !(s.RestLength > 0) {
		return invalid("session", "phase lengths must be positive")
	}
	if s.Elapsed < 0 || s.RestElapsed < 0 || s.StudySeconds < 0 || s.Momentum < 0 {
		return invalid("session", "negative accumulator")
	}
	if s.LockedTopicID != "" {
		if _, ok := state.Topics[s.LockedTopicID]; !ok {
			return invalid("session.locked_topic_id", s.LockedTopicID)
		}
	}

	if !finite(state.Focus.Multiplier) || state.Focus.Multiplier < focus.Floor {
		return invalid("focus.multiplier", fmt.Sprint(state.Focus.Multiplier))
	}
	if state.Stamina.Current < stamina.Min || state.Stamina.Current > stamina.Max {
		return invalid("stamina.current", fmt.Sprint(state.Stamina.Current))
	}

	for _, entry := range state.Ledger.Entries {
		if !entry.Currency.IsValid() || entry.Amount == 0 {
			return invalid("ledger", fmt.Sprintf("entry %d", entry.Seq))
		}
	}
	for id, item := range state.Reviews {
		if _, ok := state.Topics[id]; !ok {
			return invalid("reviews", "review for unknown topic "+id)
		}
		if item.Ease < srs.MinEase || item.Ease > srs.MaxEase || item.Successes < 0 {
			return invalid("reviews", "scheduler state out of range for "+id)
		}
	}
	for _, effect := range state.Effects {
		if !effect.Kind.IsValid() {
			return invalid("effects", string(effect.Kind))
		}
	}
	if state.Pity.DryCycles < 0 {
		return invalid("pity", "negative dry cycles")
	}
	return nil
}

func validateItem(item gear.Item) error {
	if item.ID == "" || !item.Rarity.IsValid() || item.ItemLevel < 1 || len(item.Affixes) > gear.MaxAffixes {
		return invalid("item", "malformed item "+item.ID)
	}
	for _, affix := range item.Affixes {
		if !affix.Stat.IsValid() || !finite(affix.Value) {
			return invalid("item", "malformed affix on "+item.ID)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
