package runtime

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/louisbranch/studyforge/internal/study/engine"
	"github.com/louisbranch/studyforge/internal/study/snapshot"
)

// LogHook logs rejected actions and completed cycles.
func LogHook(ctx context.Context, commit Commit) {
	if !commit.Outcome.Accepted {
		kind := engine.Kind("unknown")
		if commit.Action != nil {
			kind = commit.Action.Kind()
		}
		log.Printf("%s rejected: %s: %s", kind, commit.Outcome.Rejection.Code, commit.Outcome.Rejection.Message)
		return
	}
	for i, cycle := range commit.Outcome.Cycles {
		drop := commit.Outcome.Drops[i]
		log.Printf("cycle complete: topic=%s xp=%.1f focus=%.2f loot=%d pity=%t",
			cycle.TopicID, cycle.XPGained, cycle.AverageFocus, drop.Count(), drop.PityForced)
	}
	if commit.Outcome.LevelsGained > 0 {
		log.Printf("level up: +%d to level %d", commit.Outcome.LevelsGained, commit.State.Player.Level)
	}
}

// Snapshotter saves the state to a store every N accepted ticks and after
// every other accepted action.
type Snapshotter struct {
	store snapshot.Store
	every int

	mu    sync.Mutex
	ticks int
	saved int64
}

// NewSnapshotter returns a snapshotter writing to store. every below one
// saves on every tick.
func NewSnapshotter(store snapshot.Store, every int) *Snapshotter {
	if every < 1 {
		every = 1
	}
	return &Snapshotter{store: store, every: every}
}

// Hook saves when commit crosses the save interval.
func (s *Snapshotter) Hook(ctx context.Context, commit Commit) {
	if !commit.Outcome.Accepted {
		return
	}
	if _, ok := commit.Action.(engine.Tick); ok {
		s.mu.Lock()
		s.ticks++
		due := s.ticks >= s.every
		if due {
			s.ticks = 0
		}
		s.mu.Unlock()
		if !due {
			return
		}
	}
	if err := s.Save(ctx, commit.State, commit.At); err != nil {
		log.Printf("save snapshot: %v", err)
	}
}

// Save writes state immediately.
func (s *Snapshotter) Save(ctx context.Context, state engine.State, at time.Time) error {
	id, err := snapshot.Save(ctx, s.store, state, at)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.saved = id
	s.mu.Unlock()
	return nil
}

// LastID returns the id of the most recent saved snapshot.
func (s *Snapshotter) LastID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}
