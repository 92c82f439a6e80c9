package engine

import (
	"strings"
	"time"

	"github.com/louisbranch/studyforge/internal/study/catalog"
	"github.com/louisbranch/studyforge/internal/study/decay"
	"github.com/louisbranch/studyforge/internal/study/srs"
)

func (e *Engine) addTopic(s *State, a AddTopic) Outcome {
	entry := catalog.Entry{
		ID:       strings.TrimSpace(a.ID),
		Name:     strings.TrimSpace(a.Name),
		Category: a.Category,
	}
	if entry.ID == "" || entry.Name == "" || !entry.Category.IsValid() {
		return reject(rejectionCodeTopicInvalid, "topic requires an id, a name and a known category")
	}
	if _, exists := s.Topics[entry.ID]; exists {
		return reject(rejectionCodeTopicAlreadyExists, "topic already exists")
	}
	topic := newTopic(entry)
	topic.Custom = true
	s.Topics[entry.ID] = topic
	return accept()
}

func (e *Engine) loadCatalog(s *State, a LoadCatalog) Outcome {
	if len(a.Entries) == 0 {
		return reject(rejectionCodeCatalogInvalid, "catalog is empty")
	}
	for _, entry := range a.Entries {
		if entry.ID == "" || entry.Name == "" || !entry.Category.IsValid() {
			return reject(rejectionCodeCatalogInvalid, "catalog entry "+entry.ID+" is malformed")
		}
	}
	for _, entry := range a.Entries {
		if _, exists := s.Topics[entry.ID]; exists {
			continue
		}
		s.Topics[entry.ID] = newTopic(entry)
	}
	s.CatalogSize = len(a.Entries)
	return accept()
}

func (e *Engine) review(s *State, a Review) Outcome {
	if _, ok := s.Topics[a.TopicID]; !ok {
		return reject(rejectionCodeTopicNotFound, "topic not found")
	}
	item, ok := s.Reviews[a.TopicID]
	if !ok {
		item = srs.New()
	}
	next, err := srs.Review(item, a.Quality, a.Now, s.Exam.Date, e.balance.SRS)
	if err != nil {
		return reject(rejectionCodeReviewQualityInvalid, err.Error())
	}
	s.Reviews[a.TopicID] = next
	return accept()
}

func (e *Engine) refreshDecay(s *State, a RefreshDecay) Outcome {
	xpPerHour := e.balance.Rate.BaseTopicXPPerMinute * 60
	for id, topic := range s.Topics {
		view := decay.Compute(decay.Input{
			PeakXP:        topic.PeakXP,
			LastStudiedAt: topic.LastStudiedAt,
		}, a.Now, xpPerHour, e.balance.Decay)
		topic.DecayedXP = view.DecayedAmount
		s.Topics[id] = topic
	}
	return accept()
}

// DecayView returns the decay view of one topic at now without changing
// any state.
func (e *Engine) DecayView(s State, topicID string, now time.Time) (decay.View, bool) {
	topic, ok := s.Topics[topicID]
	if !ok {
		return decay.View{}, false
	}
	return decay.Compute(decay.Input{
		PeakXP:        topic.PeakXP,
		LastStudiedAt: topic.LastStudiedAt,
	}, now, e.balance.Rate.BaseTopicXPPerMinute*60, e.balance.Decay), true
}
