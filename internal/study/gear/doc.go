// Package gear models equipment: items, their affixes, the bonuses equipped
// items grant, and the crafting transforms that reroll them.
//
// Everything here is a pure function of its inputs. Randomness is always
// supplied by the caller as a seeded *rand.Rand so crafting and loot stay
// reproducible.
package gear
