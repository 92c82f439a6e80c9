// Package engine is the study simulation reducer. Every input is an
// Action; Dispatch folds it into a copy of the State and returns the copy.
// The engine holds only immutable balance parameters, so one Engine can
// serve any number of states.
package engine

import (
	"time"

	"github.com/louisbranch/studyforge/internal/study/focus"
	"github.com/louisbranch/studyforge/internal/study/gear"
	"github.com/louisbranch/studyforge/internal/study/ledger"
	"github.com/louisbranch/studyforge/internal/study/session"
	"github.com/louisbranch/studyforge/internal/study/srs"
	"github.com/louisbranch/studyforge/internal/study/stamina"
	"github.com/louisbranch/studyforge/internal/study/tuning"
)

// Engine applies actions under one balance configuration.
type Engine struct {
	balance tuning.Balance
}

// New returns an engine for balance.
func New(balance tuning.Balance) *Engine {
	return &Engine{balance: balance}
}

// Balance returns the engine's balance parameters.
func (e *Engine) Balance() tuning.Balance {
	return e.balance
}

// NewState returns a fresh character with no topics.
func (e *Engine) NewState(seed int64, now time.Time) State {
	return State{
		Seed: seed,
		Player: Player{
			Level:    1,
			Equipped: map[gear.Slot]gear.Item{},
		},
		Topics:  map[string]Topic{},
		Session: session.New(e.balance.Session),
		Focus:   focus.Initial(),
		Stamina: stamina.Initial(now),
		Ledger:  ledger.Ledger{},
		Reviews: map[string]srs.Item{},
	}
}

// Dispatch applies action and returns the next state. Rejected actions
// return state unchanged.
func (e *Engine) Dispatch(state State, action Action) State {
	next, _ := e.Apply(state, action)
	return next
}

// Apply applies action and reports what happened. The input state is never
// modified.
func (e *Engine) Apply(state State, action Action) (State, Outcome) {
	next := state.Clone()
	var outcome Outcome

	switch a := action.(type) {
	case Tick:
		outcome = e.tick(&next, a)
	case VisibilityLost:
		outcome = e.visibilityLost(&next, a)
	case ToggleStudy:
		outcome = e.toggleStudy(&next, a)
	case SkipRest:
		outcome = e.skipRest(&next, a)
	case SetActiveTopic:
		outcome = e.setActiveTopic(&next, a)
	case AddTopic:
		outcome = e.addTopic(&next, a)
	case LoadCatalog:
		outcome = e.loadCatalog(&next, a)
	case Craft:
		outcome = e.craft(&next, a)
	case Equip:
		outcome = e.equip(&next, a)
	case Unequip:
		outcome = e.unequip(&next, a)
	case Review:
		outcome = e.review(&next, a)
	case EarnCurrency:
		outcome = e.earnCurrency(&next, a)
	case ConsumeCurrency:
		outcome = e.consumeCurrency(&next, a)
	case SetExamDate:
		outcome = e.setExamDate(&next, a)
	case SetCycleLengths:
		outcome = e.setCycleLengths(&next, a)
	case ActivateEffect:
		outcome = e.activateEffect(&next, a)
	case RefreshDecay:
		outcome = e.refreshDecay(&next, a)
	case Reset:
		outcome = e.reset(&next, a)
	default:
		outcome = reject(rejectionCodeActionUnsupported, "action is not supported")
	}

	if !outcome.Accepted {
		return state, outcome
	}
	return next, outcome
}
