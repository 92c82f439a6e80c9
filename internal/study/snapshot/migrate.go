package snapshot

import (
	"time"

	apperrors "github.com/louisbranch/studyforge/internal/platform/errors"
	"github.com/louisbranch/studyforge/internal/platform/random"
	"github.com/louisbranch/studyforge/internal/study/engine"
	"github.com/louisbranch/studyforge/internal/study/gear"
	"github.com/louisbranch/studyforge/internal/study/srs"
)

// migrateV1 upgrades a version 1 state: legacy slot names are mapped to
// current ones, and review items written before ease tracking get the
// default ease. A missing seed is derived from the snapshot time.
func migrateV1(state engine.State, takenAt time.Time) (engine.State, error) {
	equipped := make(map[gear.Slot]gear.Item, len(state.Player.Equipped))
	for name, item := range state.Player.Equipped {
		slot, ok := gear.NormalizeSlot(string(name))
		if !ok {
			return engine.State{}, invalid("player.equipped", "unknown slot "+string(name))
		}
		if _, taken := equipped[slot]; taken {
			return engine.State{}, invalid("player.equipped", "two items map to slot "+string(slot))
		}
		item.Slot = slot
		equipped[slot] = item
	}
	state.Player.Equipped = equipped

	for i, item := range state.Player.Inventory {
		slot, ok := gear.NormalizeSlot(string(item.Slot))
		if !ok {
			return engine.State{}, invalid("player.inventory", "unknown slot "+string(item.Slot))
		}
		state.Player.Inventory[i].Slot = slot
	}

	for id, item := range state.Reviews {
		if item.Ease == 0 {
			item.Ease = srs.DefaultEase
			state.Reviews[id] = item
		}
	}

	if state.Seed == 0 {
		state.Seed = random.Mix(takenAt.UnixNano())
	}
	return state, nil
}

func invalid(field, message string) error {
	return apperrors.WithMetadata(apperrors.CodeSnapshotInvalid, "snapshot "+field+": "+message, map[string]string{
		"field": field,
	})
}
