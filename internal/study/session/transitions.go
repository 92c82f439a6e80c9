package session

import (
	"time"

	"github.com/louisbranch/studyforge/internal/study/catalog"
)

// Toggle pauses or resumes study. It applies only in Study mode with a
// selected topic; ok is false when the toggle was ignored.
func Toggle(s State, now time.Time) (State, bool) {
	if s.Mode != ModeStudy || s.SelectedTopicID == "" {
		return s, false
	}
	if s.Active {
		s.Active = false
		return s, true
	}
	s.Active = true
	if s.LockedTopicID == "" {
		s.LockedTopicID = s.SelectedTopicID
	}
	if s.CycleStart == nil {
		start := now
		s.CycleStart = &start
	}
	return s, true
}

// Pause stops active study; ok is false when nothing was running.
func Pause(s State) (State, bool) {
	if !s.Studying() {
		return s, false
	}
	s.Active = false
	return s, true
}

// Select changes the selected topic. While studying only the selection
// changes and the locked topic keeps its credit; otherwise the current
// cycle starts over for the new topic.
func Select(s State, topicID string) State {
	s.SelectedTopicID = topicID
	if s.Studying() {
		return s
	}
	if s.Mode == ModeStudy {
		s = resetCycle(s)
		s.Elapsed = 0
		s.CycleStart = nil
		s.LockedTopicID = ""
	}
	return s
}

// StartStudy enters Study mode, locking the selected topic. The new cycle
// starts active when a topic is selected.
func StartStudy(s State, now time.Time) State {
	s.Mode = ModeStudy
	s.RestElapsed = 0
	s.Elapsed = 0
	s = resetCycle(s)
	s.LockedTopicID = s.SelectedTopicID
	s.Active = s.SelectedTopicID != ""
	if s.Active {
		start := now
		s.CycleStart = &start
	} else {
		s.CycleStart = nil
	}
	return s
}

// Accrue records seconds of active study at the given focus, together with
// the XP they earned.
func Accrue(s State, seconds, focusMultiplier, xp, topicXP float64) State {
	if seconds <= 0 {
		return s
	}
	s.Elapsed += seconds
	s.StudySeconds += seconds
	s.FocusIntegral += focusMultiplier * seconds
	s.Momentum += seconds
	s.CycleXP += xp
	s.CycleTopicXP += topicXP
	return s
}

// AccrueRest advances the rest phase.
func AccrueRest(s State, seconds float64) State {
	if seconds > 0 {
		s.RestElapsed += seconds
	}
	return s
}

// CycleDone reports whether the study phase has run its full length.
func (s State) CycleDone() bool {
	return s.Mode == ModeStudy && s.Elapsed >= s.CycleLength
}

// RestDone reports whether the rest phase has run its full length.
func (s State) RestDone() bool {
	return s.Mode == ModeRest && s.RestElapsed >= s.RestLength
}

// Complete closes the study phase: it builds the cycle record, clears the
// accumulators and momentum, and enters Rest.
func Complete(s State, end time.Time, lootCount int, category catalog.Category) (State, CycleRecord) {
	start := end.Add(-time.Duration(s.StudySeconds * float64(time.Second)))
	if s.CycleStart != nil {
		start = *s.CycleStart
	}
	record := CycleRecord{
		Start:         start,
		End:           end,
		StudySeconds:  s.StudySeconds,
		AverageFocus:  s.AverageFocus(),
		XPGained:      s.CycleXP,
		TopicXPGained: s.CycleTopicXP,
		LootCount:     lootCount,
		TopicID:       s.LockedTopicID,
		Category:      category,
	}

	s = resetCycle(s)
	s.Mode = ModeRest
	s.Active = false
	s.Elapsed = 0
	s.RestElapsed = 0
	s.CycleStart = nil
	s.LockedTopicID = ""
	return s, record
}

// SetLengths replaces the phase lengths. Both must be positive.
func SetLengths(s State, cycle, rest time.Duration) (State, bool) {
	if cycle <= 0 || rest <= 0 {
		return s, false
	}
	s.CycleLength = cycle.Seconds()
	s.RestLength = rest.Seconds()
	return s, true
}

func resetCycle(s State) State {
	s.CycleXP = 0
	s.CycleTopicXP = 0
	s.FocusIntegral = 0
	s.StudySeconds = 0
	s.Momentum = 0
	return s
}
