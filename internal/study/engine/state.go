package engine

import (
	"time"

	"github.com/louisbranch/studyforge/internal/study/catalog"
	"github.com/louisbranch/studyforge/internal/study/focus"
	"github.com/louisbranch/studyforge/internal/study/gear"
	"github.com/louisbranch/studyforge/internal/study/ledger"
	"github.com/louisbranch/studyforge/internal/study/loot"
	"github.com/louisbranch/studyforge/internal/study/progression"
	"github.com/louisbranch/studyforge/internal/study/session"
	"github.com/louisbranch/studyforge/internal/study/srs"
	"github.com/louisbranch/studyforge/internal/study/stamina"
)

// Player is the character: level progress plus equipment.
type Player struct {
	Level     int                     `json:"level"`
	XP        float64                 `json:"xp"`
	Equipped  map[gear.Slot]gear.Item `json:"equipped"`
	Inventory []gear.Item             `json:"inventory"`
}

// Progress returns the player's level progress.
func (p Player) Progress() progression.Progress {
	return progression.Progress{Level: p.Level, XP: p.XP}
}

// Topic is a trackable subject with its own level and decay view.
type Topic struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Category      catalog.Category `json:"category"`
	Level         int              `json:"level"`
	XP            float64          `json:"xp"`
	LastStudiedAt *time.Time       `json:"last_studied_at,omitempty"`
	// PeakXP is the highest lifetime XP the topic has reached.
	PeakXP float64 `json:"peak_xp"`
	// DecayedXP is refreshed by RefreshDecay and never feeds back into XP.
	DecayedXP float64 `json:"decayed_xp"`
	// Custom marks topics added by the player rather than the catalog.
	Custom bool `json:"custom,omitempty"`
}

// Progress returns the topic's level progress.
func (t Topic) Progress() progression.Progress {
	return progression.Progress{Level: t.Level, XP: t.XP}
}

// Exam holds the single exam date used for XP urgency and review compression.
type Exam struct {
	Date *time.Time `json:"date,omitempty"`
}

// State is the whole engine aggregate. It is replaced, never mutated, by
// every dispatched action.
type State struct {
	// Seed is the root of every random decision.
	Seed    int64                 `json:"seed"`
	Player  Player                `json:"player"`
	Topics  map[string]Topic      `json:"topics"`
	Session session.State         `json:"session"`
	Focus   focus.State           `json:"focus"`
	Stamina stamina.State         `json:"stamina"`
	Ledger  ledger.Ledger         `json:"ledger"`
	Reviews map[string]srs.Item   `json:"reviews"`
	Pity    loot.Pity             `json:"pity"`
	Cycles  []session.CycleRecord `json:"cycles"`
	Effects []Effect              `json:"effects"`
	Exam    Exam                  `json:"exam"`
	// CatalogSize is the topic count of the last loaded catalog.
	CatalogSize int `json:"catalog_size"`
	// CraftCount distinguishes crafting rolls made at the same instant.
	CraftCount int64 `json:"craft_count"`
	// SettledAt is the instant up to which elapsed time has been applied.
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

// Topic returns the topic with id.
func (s State) Topic(id string) (Topic, bool) {
	topic, ok := s.Topics[id]
	return topic, ok
}

// NeedsCatalog reports whether the host should supply a topic catalog.
// Player-added topics do not count toward the catalog.
func (s State) NeedsCatalog() bool {
	count := 0
	for _, topic := range s.Topics {
		if !topic.Custom {
			count++
		}
	}
	return catalog.NeedsReload(count, s.CatalogSize)
}

// Clone returns a deep copy sharing no mutable memory with s.
func (s State) Clone() State {
	next := s

	next.Player.Equipped = make(map[gear.Slot]gear.Item, len(s.Player.Equipped))
	for slot, item := range s.Player.Equipped {
		next.Player.Equipped[slot] = item.Clone()
	}
	next.Player.Inventory = cloneItems(s.Player.Inventory)

	next.Topics = make(map[string]Topic, len(s.Topics))
	for id, topic := range s.Topics {
		next.Topics[id] = topic
	}
	next.Reviews = make(map[string]srs.Item, len(s.Reviews))
	for id, item := range s.Reviews {
		next.Reviews[id] = item
	}

	next.Ledger = s.Ledger.Clone()
	next.Cycles = append([]session.CycleRecord(nil), s.Cycles...)
	next.Effects = append([]Effect(nil), s.Effects...)
	return next
}

func cloneItems(items []gear.Item) []gear.Item {
	if items == nil {
		return nil
	}
	out := make([]gear.Item, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

func newTopic(entry catalog.Entry) Topic {
	return Topic{
		ID:       entry.ID,
		Name:     entry.Name,
		Category: entry.Category,
		Level:    1,
	}
}
