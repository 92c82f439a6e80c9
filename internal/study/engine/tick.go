package engine

import (
	"math"
	"time"

	"github.com/louisbranch/studyforge/internal/study/catalog"
	"github.com/louisbranch/studyforge/internal/study/focus"
	"github.com/louisbranch/studyforge/internal/study/gear"
	"github.com/louisbranch/studyforge/internal/study/ledger"
	"github.com/louisbranch/studyforge/internal/study/loot"
	"github.com/louisbranch/studyforge/internal/study/progression"
	"github.com/louisbranch/studyforge/internal/study/session"
	"github.com/louisbranch/studyforge/internal/study/stamina"
)

// maxPhasesPerTick bounds how many phase boundaries one tick may cross.
const maxPhasesPerTick = 10_000

func (e *Engine) tick(s *State, a Tick) Outcome {
	if a.Delta < 0 || a.Now.IsZero() {
		return reject(rejectionCodeTickInvalid, "tick requires a non-negative delta and a timestamp")
	}

	outcome := accept()
	from := a.Now.Add(-a.Delta)
	if s.SettledAt != nil && s.SettledAt.After(from) {
		from = *s.SettledAt
	}
	e.settle(s, from, a.Now, &outcome)

	s.Effects = pruneEffects(s.Effects, a.Now)
	return outcome
}

// settleTo applies the time between the last settled instant and now under
// the current mode. Actions that change the mode call it first.
func (e *Engine) settleTo(s *State, now time.Time, outcome *Outcome) {
	if now.IsZero() {
		return
	}
	if s.SettledAt == nil {
		settled := now
		s.SettledAt = &settled
		return
	}
	e.settle(s, *s.SettledAt, now, outcome)
}

// settle runs the phase loop over [from, to] and marks to as settled.
// Time already settled is never applied twice.
func (e *Engine) settle(s *State, from, to time.Time, outcome *Outcome) {
	s.Stamina = stamina.Rollover(s.Stamina, to)

	remaining := 0.0
	if to.After(from) {
		remaining = to.Sub(from).Seconds()
	}
	cursor := from
	for phase := 0; phase < maxPhasesPerTick; phase++ {
		if s.Session.CycleDone() {
			e.completeCycle(s, cursor, outcome)
			continue
		}
		if s.Session.RestDone() {
			s.Session = session.StartStudy(s.Session, cursor)
			if s.Session.Active {
				s.Focus.PausedAt = nil
			}
			continue
		}
		if remaining <= 0 {
			break
		}

		switch {
		case s.Session.Studying():
			step := math.Min(remaining, s.Session.Remaining())
			cursor = advance(cursor, step, remaining, to)
			remaining -= step
			outcome.LevelsGained += e.study(s, step, cursor)
		case s.Session.Mode == session.ModeStudy:
			cursor = to
			e.idle(s, remaining, cursor)
			remaining = 0
		default:
			step := math.Min(remaining, s.Session.RestRemaining())
			cursor = advance(cursor, step, remaining, to)
			remaining -= step
			e.rest(s, step, cursor)
		}
	}

	if s.SettledAt == nil || to.After(*s.SettledAt) {
		settled := to
		s.SettledAt = &settled
	}
}

// advance moves cursor by step seconds, landing exactly on end when the
// step consumes the rest of the tick.
func advance(cursor time.Time, step, remaining float64, end time.Time) time.Time {
	if step >= remaining {
		return end
	}
	return cursor.Add(time.Duration(step * float64(time.Second)))
}

// study credits step seconds of active study ending at at.
func (e *Engine) study(s *State, step float64, at time.Time) int {
	b := e.balance
	bonuses := gear.Resolve(s.Player.Equipped)
	fatigued := stamina.Fatigued(s.Stamina, b.Stamina)
	effects := activeEffects(s.Effects, at)
	focusBefore := s.Focus.Multiplier

	topic, hasTopic := s.Topics[s.Session.LockedTopicID]
	nudge := 1.0
	if hasTopic {
		nudge = e.balanceNudge(s, topic.Category, at)
	}
	urgency := progression.Urgency(s.Exam.Date, at, b.Rate)
	minutes := step / 60

	xp := progression.XPPerMinute(b.Rate.BaseXPPerMinute, progression.RateInput{
		BonusPct:     bonuses.StudyXP,
		Focus:        focusBefore,
		BalanceNudge: nudge,
		Urgency:      urgency,
		Effects:      effects.xpMultiplier,
		Fatigued:     fatigued,
	}, b.Rate) * minutes
	topicXP := progression.XPPerMinute(b.Rate.BaseTopicXPPerMinute, progression.RateInput{
		BonusPct:     bonuses.TopicXP,
		Focus:        focusBefore,
		BalanceNudge: nudge,
		Urgency:      urgency,
		Effects:      effects.xpMultiplier,
		Fatigued:     fatigued,
	}, b.Rate) * minutes

	progress, levels := progression.Grant(s.Player.Progress(), xp)
	s.Player.Level, s.Player.XP = progress.Level, progress.XP

	if hasTopic {
		topicProgress, _ := progression.Grant(topic.Progress(), topicXP)
		topic.Level, topic.XP = topicProgress.Level, topicProgress.XP
		topic.PeakXP = math.Max(topic.PeakXP, progression.Total(topicProgress))
		studied := at
		topic.LastStudiedAt = &studied
		s.Topics[topic.ID] = topic
	} else {
		topicXP = 0
	}

	s.Focus = focus.Tick(s.Focus, focus.Input{
		Active:  true,
		Now:     at,
		Delta:   step,
		GenRate: focus.GenRate(b.Focus, bonuses.FocusGen, fatigued),
		Cap:     focus.Cap(b.Focus, bonuses.FocusCap),
	}, b.Focus)
	s.Stamina = stamina.ApplyProgress(s.Stamina, step, b.Stamina)
	s.Session = session.Accrue(s.Session, step, focusBefore, xp, topicXP)
	return levels
}

// idle runs focus decay for a paused study phase.
func (e *Engine) idle(s *State, seconds float64, at time.Time) {
	bonuses := gear.Resolve(s.Player.Equipped)
	s.Focus = focus.Tick(s.Focus, focus.Input{
		Now:           at,
		Delta:         seconds,
		Cap:           focus.Cap(e.balance.Focus, bonuses.FocusCap),
		SuppressDecay: activeEffects(s.Effects, at).focusFrozen,
	}, e.balance.Focus)
}

// rest advances the rest phase; focus holds and stamina recovers.
func (e *Engine) rest(s *State, seconds float64, at time.Time) {
	bonuses := gear.Resolve(s.Player.Equipped)
	s.Focus = focus.Tick(s.Focus, focus.Input{
		Now:           at,
		Delta:         seconds,
		Cap:           focus.Cap(e.balance.Focus, bonuses.FocusCap),
		SuppressDecay: true,
	}, e.balance.Focus)
	s.Stamina = stamina.Recover(s.Stamina, seconds, e.balance.Stamina)
	s.Session = session.AccrueRest(s.Session, seconds)
}

// completeCycle settles the finished study phase at end: loot, ledger,
// pity and the cycle record.
func (e *Engine) completeCycle(s *State, end time.Time, outcome *Outcome) {
	bonuses := gear.Resolve(s.Player.Equipped)
	effects := activeEffects(s.Effects, end)

	drop := loot.Generate(loot.Input{
		Seed:               loot.CycleSeed(s.Seed, end.UnixMilli(), s.Player.Level),
		PlayerLevel:        s.Player.Level,
		Focus:              s.Focus.Multiplier,
		AverageFocus:       s.Session.AverageFocus(),
		MomentumSeconds:    s.Session.Momentum,
		Bonuses:            bonuses,
		QuantityMultiplier: effects.lootQuantity,
		RarityBonus:        effects.rarityBonus,
		Pity:               s.Pity,
	}, e.balance.Loot, e.balance.Affixes)

	s.Player.Inventory = append(s.Player.Inventory, drop.Items...)
	for _, c := range drop.Currency {
		reason := ledger.ReasonLoot
		if c.Guaranteed {
			reason = ledger.ReasonGuaranteed
		}
		if next, err := s.Ledger.Earn(c.Currency, c.Amount, reason, end); err == nil {
			s.Ledger = next
		}
	}
	s.Pity = drop.Pity

	var category catalog.Category
	if topic, ok := s.Topics[s.Session.LockedTopicID]; ok {
		category = topic.Category
	}
	var record session.CycleRecord
	s.Session, record = session.Complete(s.Session, end, drop.Count(), category)
	s.Cycles = append(s.Cycles, record)

	outcome.Cycles = append(outcome.Cycles, record)
	outcome.Drops = append(outcome.Drops, drop)
}

// balanceNudge compares category's share of study time over the trailing
// balance window with its fair share.
func (e *Engine) balanceNudge(s *State, category catalog.Category, at time.Time) float64 {
	windowStart := at.Add(-e.balance.Rate.BalanceWindow)
	var total, own float64
	for _, record := range s.Cycles {
		if record.End.Before(windowStart) || record.End.After(at) {
			continue
		}
		total += record.StudySeconds
		if record.Category == category {
			own += record.StudySeconds
		}
	}
	share := 0.0
	if total > 0 {
		share = own / total
	}
	return progression.BalanceNudge(share, total > 0, len(catalog.Categories()), e.balance.Rate)
}
