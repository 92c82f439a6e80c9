package engine

import (
	"github.com/louisbranch/studyforge/internal/study/ledger"
	"github.com/louisbranch/studyforge/internal/study/session"
	"github.com/louisbranch/studyforge/internal/study/srs"
)

func (e *Engine) earnCurrency(s *State, a EarnCurrency) Outcome {
	next, err := s.Ledger.Earn(a.Currency, a.Amount, ledger.ReasonManual, a.Now)
	if err != nil {
		return currencyRejection(err)
	}
	s.Ledger = next
	return accept()
}

func (e *Engine) consumeCurrency(s *State, a ConsumeCurrency) Outcome {
	next, err := s.Ledger.Spend(a.Currency, a.Amount, ledger.ReasonManual, a.Now)
	if err != nil {
		return currencyRejection(err)
	}
	s.Ledger = next
	return accept()
}

func (e *Engine) activateEffect(s *State, a ActivateEffect) Outcome {
	if !a.Effect.IsValid() || a.Duration <= 0 || a.Now.IsZero() {
		return reject(rejectionCodeEffectInvalid, "effect requires a known kind, a duration and a start time")
	}
	if a.Effect != EffectFocusFreeze && !(a.Value > 0) {
		return reject(rejectionCodeEffectInvalid, "effect value must be positive")
	}
	if a.Amount > 0 {
		next, err := s.Ledger.Spend(a.Cost, a.Amount, ledger.ReasonEffect, a.Now)
		if err != nil {
			return currencyRejection(err)
		}
		s.Ledger = next
	}
	s.Effects = append(pruneEffects(s.Effects, a.Now), Effect{
		Kind:      a.Effect,
		Value:     a.Value,
		ExpiresAt: a.Now.Add(a.Duration),
	})
	return accept()
}

func (e *Engine) setExamDate(s *State, a SetExamDate) Outcome {
	if a.Date == nil {
		s.Exam.Date = nil
		return accept()
	}
	date := *a.Date
	s.Exam.Date = &date
	return accept()
}

// reset restarts the character from scratch. The seed, the tracked topics
// (with their progress cleared), their review items (rescheduled as never
// reviewed), the catalog size and the configured phase lengths survive.
func (e *Engine) reset(s *State, a Reset) Outcome {
	fresh := e.NewState(s.Seed, a.Now)
	for id, topic := range s.Topics {
		fresh.Topics[id] = Topic{
			ID:       topic.ID,
			Name:     topic.Name,
			Category: topic.Category,
			Level:    1,
			Custom:   topic.Custom,
		}
		if _, ok := s.Reviews[id]; ok {
			fresh.Reviews[id] = srs.New()
		}
	}
	fresh.CatalogSize = s.CatalogSize
	if !a.Now.IsZero() {
		settled := a.Now
		fresh.SettledAt = &settled
	}
	fresh.Session, _ = session.SetLengths(fresh.Session, secondsDuration(s.Session.CycleLength), secondsDuration(s.Session.RestLength))
	*s = fresh
	return accept()
}
