package engine

import (
	"errors"

	"github.com/louisbranch/studyforge/internal/platform/random"
	"github.com/louisbranch/studyforge/internal/study/gear"
	"github.com/louisbranch/studyforge/internal/study/ledger"
)

// craftSalt separates crafting generators from loot generators.
const craftSalt = 0x6372616674

func (e *Engine) craft(s *State, a Craft) Outcome {
	item, equipped, index, ok := findItem(s.Player, a.ItemID)
	if !ok {
		return reject(rejectionCodeItemNotFound, "item not found")
	}
	currency, ok := a.Operation.Currency()
	if !ok {
		return reject(rejectionCodeCraftIllegal, "unknown crafting operation")
	}
	if err := gear.CanCraft(item, a.Operation); err != nil {
		return reject(rejectionCodeCraftIllegal, err.Error())
	}
	ledgerNext, err := s.Ledger.Spend(currency, 1, ledger.ReasonCraft, a.Now)
	if err != nil {
		return reject(rejectionCodeInsufficientCurrency, err.Error())
	}

	rng := random.New(craftSalt, s.Seed, a.Now.UnixNano(), s.CraftCount)
	result, err := gear.Craft(rng, item, a.Operation, e.balance.Affixes, e.balance.Craft)
	if err != nil {
		return reject(rejectionCodeCraftIllegal, err.Error())
	}

	s.Ledger = ledgerNext
	s.CraftCount++
	if equipped {
		s.Player.Equipped[item.Slot] = result.Item
	} else {
		s.Player.Inventory[index] = result.Item
	}
	return accept()
}

func (e *Engine) equip(s *State, a Equip) Outcome {
	index := inventoryIndex(s.Player.Inventory, a.ItemID)
	if index < 0 {
		return reject(rejectionCodeItemNotFound, "item not in inventory")
	}
	item := s.Player.Inventory[index]
	inventory := append(s.Player.Inventory[:index:index], s.Player.Inventory[index+1:]...)
	if previous, ok := s.Player.Equipped[item.Slot]; ok {
		inventory = append(inventory, previous)
	}
	s.Player.Inventory = inventory
	s.Player.Equipped[item.Slot] = item
	return accept()
}

func (e *Engine) unequip(s *State, a Unequip) Outcome {
	slot, ok := gear.NormalizeSlot(string(a.Slot))
	if !ok {
		return reject(rejectionCodeSlotEmpty, "unknown slot")
	}
	item, ok := s.Player.Equipped[slot]
	if !ok {
		return reject(rejectionCodeSlotEmpty, "slot is empty")
	}
	delete(s.Player.Equipped, slot)
	s.Player.Inventory = append(s.Player.Inventory, item)
	return accept()
}

func findItem(player Player, id string) (gear.Item, bool, int, bool) {
	if index := inventoryIndex(player.Inventory, id); index >= 0 {
		return player.Inventory[index], false, index, true
	}
	for _, slot := range gear.Slots() {
		if item, ok := player.Equipped[slot]; ok && item.ID == id {
			return item, true, -1, true
		}
	}
	return gear.Item{}, false, -1, false
}

func inventoryIndex(items []gear.Item, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func currencyRejection(err error) Outcome {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return reject(rejectionCodeInsufficientCurrency, err.Error())
	default:
		return reject(rejectionCodeCurrencyInvalid, err.Error())
	}
}
