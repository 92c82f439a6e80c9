package engine

import (
	"time"

	"github.com/louisbranch/studyforge/internal/study/catalog"
	"github.com/louisbranch/studyforge/internal/study/gear"
	"github.com/louisbranch/studyforge/internal/study/ledger"
)

// Kind names an action for logs and traces.
type Kind string

const (
	KindTick            Kind = "tick"
	KindVisibilityLost  Kind = "visibility_lost"
	KindToggleStudy     Kind = "toggle_study"
	KindSkipRest        Kind = "skip_rest"
	KindSetActiveTopic  Kind = "set_active_topic"
	KindAddTopic        Kind = "add_topic"
	KindLoadCatalog     Kind = "load_catalog"
	KindCraft           Kind = "craft"
	KindEquip           Kind = "equip"
	KindUnequip         Kind = "unequip"
	KindReview          Kind = "review"
	KindEarnCurrency    Kind = "earn_currency"
	KindConsumeCurrency Kind = "consume_currency"
	KindSetExamDate     Kind = "set_exam_date"
	KindSetCycleLengths Kind = "set_cycle_lengths"
	KindActivateEffect  Kind = "activate_effect"
	KindRefreshDecay    Kind = "refresh_decay"
	KindReset           Kind = "reset"
)

// Action is the closed set of inputs the engine accepts.
type Action interface {
	Kind() Kind
	isAction()
}

// Tick advances simulated time by Delta, ending at Now. Delta may be any
// non-negative length; throttled or skipped host ticks arrive as one large
// delta.
type Tick struct {
	Now   time.Time
	Delta time.Duration
}

// VisibilityLost pauses active study; the host reports it when the player
// is no longer looking.
type VisibilityLost struct {
	Now time.Time
}

// ToggleStudy pauses or resumes the study phase.
type ToggleStudy struct {
	Now time.Time
}

// SkipRest ends the rest phase early.
type SkipRest struct {
	Now time.Time
}

// SetActiveTopic selects the topic to study.
type SetActiveTopic struct {
	TopicID string
}

// AddTopic creates a topic outside the catalog.
type AddTopic struct {
	ID       string
	Name     string
	Category catalog.Category
}

// LoadCatalog adds every catalog topic not yet tracked.
type LoadCatalog struct {
	Entries []catalog.Entry
}

// Craft applies a crafting operation to an owned item.
type Craft struct {
	ItemID    string
	Operation gear.Operation
	Now       time.Time
}

// Equip moves an inventory item into its slot.
type Equip struct {
	ItemID string
}

// Unequip moves the item in Slot back to the inventory.
type Unequip struct {
	Slot gear.Slot
}

// Review records a recall of a topic with quality 0-5.
type Review struct {
	TopicID string
	Quality int
	Now     time.Time
}

// EarnCurrency credits the ledger directly.
type EarnCurrency struct {
	Currency ledger.Currency
	Amount   int
	Now      time.Time
}

// ConsumeCurrency debits the ledger directly.
type ConsumeCurrency struct {
	Currency ledger.Currency
	Amount   int
	Now      time.Time
}

// SetExamDate sets or, with a nil Date, clears the exam date.
type SetExamDate struct {
	Date *time.Time
}

// SetCycleLengths replaces the study and rest phase lengths.
type SetCycleLengths struct {
	Cycle time.Duration
	Rest  time.Duration
}

// ActivateEffect starts a temporary modifier, optionally paid for in
// currency.
type ActivateEffect struct {
	Effect   EffectKind
	Value    float64
	Duration time.Duration
	Cost     ledger.Currency
	Amount   int
	Now      time.Time
}

// RefreshDecay recomputes every topic's decayed XP at Now.
type RefreshDecay struct {
	Now time.Time
}

// Reset discards all progress, keeping the seed and the tracked topics.
type Reset struct {
	Now time.Time
}

func (Tick) Kind() Kind            { return KindTick }
func (VisibilityLost) Kind() Kind  { return KindVisibilityLost }
func (ToggleStudy) Kind() Kind     { return KindToggleStudy }
func (SkipRest) Kind() Kind        { return KindSkipRest }
func (SetActiveTopic) Kind() Kind  { return KindSetActiveTopic }
func (AddTopic) Kind() Kind        { return KindAddTopic }
func (LoadCatalog) Kind() Kind     { return KindLoadCatalog }
func (Craft) Kind() Kind           { return KindCraft }
func (Equip) Kind() Kind           { return KindEquip }
func (Unequip) Kind() Kind         { return KindUnequip }
func (Review) Kind() Kind          { return KindReview }
func (EarnCurrency) Kind() Kind    { return KindEarnCurrency }
func (ConsumeCurrency) Kind() Kind { return KindConsumeCurrency }
func (SetExamDate) Kind() Kind     { return KindSetExamDate }
func (SetCycleLengths) Kind() Kind { return KindSetCycleLengths }
func (ActivateEffect) Kind() Kind  { return KindActivateEffect }
func (RefreshDecay) Kind() Kind    { return KindRefreshDecay }
func (Reset) Kind() Kind           { return KindReset }

func (Tick) isAction()            {}
func (VisibilityLost) isAction()  {}
func (ToggleStudy) isAction()     {}
func (SkipRest) isAction()        {}
func (SetActiveTopic) isAction()  {}
func (AddTopic) isAction()        {}
func (LoadCatalog) isAction()     {}
func (Craft) isAction()           {}
func (Equip) isAction()           {}
func (Unequip) isAction()         {}
func (Review) isAction()          {}
func (EarnCurrency) isAction()    {}
func (ConsumeCurrency) isAction() {}
func (SetExamDate) isAction()     {}
func (SetCycleLengths) isAction() {}
func (ActivateEffect) isAction()  {}
func (RefreshDecay) isAction()    {}
func (Reset) isAction()           {}
