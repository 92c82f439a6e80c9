package engine

import (
	"time"

	"github.com/louisbranch/studyforge/internal/study/focus"
	"github.com/louisbranch/studyforge/internal/study/session"
)

func (e *Engine) visibilityLost(s *State, a VisibilityLost) Outcome {
	outcome := accept()
	e.settleTo(s, a.Now, &outcome)
	next, ok := session.Pause(s.Session)
	if !ok {
		return reject(rejectionCodeSessionNotStudying, "study is not active")
	}
	s.Session = next
	pausedAt := a.Now
	s.Focus.PausedAt = &pausedAt
	return outcome
}

func (e *Engine) toggleStudy(s *State, a ToggleStudy) Outcome {
	outcome := accept()
	e.settleTo(s, a.Now, &outcome)
	if s.Session.Mode != session.ModeStudy {
		return reject(rejectionCodeSessionNotStudying, "study can only be toggled during a study phase")
	}
	if _, ok := s.Topics[s.Session.SelectedTopicID]; !ok {
		return reject(rejectionCodeSessionTopicRequired, "select a topic before studying")
	}
	next, ok := session.Toggle(s.Session, a.Now)
	if !ok {
		return reject(rejectionCodeSessionTopicRequired, "select a topic before studying")
	}
	s.Session = next
	if next.Active {
		s.Focus.PausedAt = nil
	} else {
		pausedAt := a.Now
		s.Focus.PausedAt = &pausedAt
	}
	return outcome
}

func (e *Engine) skipRest(s *State, a SkipRest) Outcome {
	outcome := accept()
	e.settleTo(s, a.Now, &outcome)
	if s.Session.Mode != session.ModeRest {
		return reject(rejectionCodeSessionNotResting, "no rest phase to skip")
	}
	s.Session = session.StartStudy(s.Session, a.Now)
	if s.Session.Active {
		s.Focus.PausedAt = nil
	}
	return outcome
}

func (e *Engine) setActiveTopic(s *State, a SetActiveTopic) Outcome {
	if _, ok := s.Topics[a.TopicID]; !ok {
		return reject(rejectionCodeTopicNotFound, "topic not found")
	}
	studying := s.Session.Studying()
	s.Session = session.Select(s.Session, a.TopicID)
	if !studying {
		s.Focus = focus.ResetStreak(s.Focus)
	}
	return accept()
}

func (e *Engine) setCycleLengths(s *State, a SetCycleLengths) Outcome {
	next, ok := session.SetLengths(s.Session, a.Cycle, a.Rest)
	if !ok {
		return reject(rejectionCodeSessionLengthInvalid, "cycle and rest lengths must be positive")
	}
	s.Session = next
	return accept()
}

func secondsDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
