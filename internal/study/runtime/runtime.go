// Package runtime hosts one engine state for a long-running process. It
// serializes dispatches behind a mutex, drives ticks from a cron schedule,
// and runs post-commit hooks after each transition outside the lock.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/studyforge/internal/platform/timeouts"
	"github.com/louisbranch/studyforge/internal/study/engine"
)

const tracerName = "github.com/louisbranch/studyforge/internal/study/runtime"

// MinTickInterval is the finest schedule the tick scheduler supports.
const MinTickInterval = time.Second

// Commit describes one dispatched action after it was applied.
type Commit struct {
	Action  engine.Action
	Outcome engine.Outcome
	State   engine.State
	At      time.Time
}

// Hook observes commits. Hooks run in dispatch order after the state lock
// is released and receive their own copy of the state.
type Hook func(ctx context.Context, commit Commit)

// Config configures a Runtime.
type Config struct {
	Engine       *engine.Engine
	State        engine.State
	TickInterval time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
	Hooks []Hook
}

// Runtime owns the live state.
type Runtime struct {
	engine   *engine.Engine
	clock    func() time.Time
	interval time.Duration
	hooks    []Hook
	tracer   trace.Tracer

	mu       sync.Mutex
	state    engine.State
	lastTick time.Time

	// hookMu keeps hooks from interleaving across dispatches.
	hookMu sync.Mutex

	cronMu sync.Mutex
	cron   *rcron.Cron
}

// New returns a runtime for cfg. The first tick measures its delta from the
// moment New is called.
func New(cfg Config) (*Runtime, error) {
	if cfg.Engine == nil {
		return nil, errors.New("engine is required")
	}
	if cfg.TickInterval < MinTickInterval {
		return nil, fmt.Errorf("tick interval %v is below %v", cfg.TickInterval, MinTickInterval)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Runtime{
		engine:   cfg.Engine,
		clock:    clock,
		interval: cfg.TickInterval,
		hooks:    append([]Hook(nil), cfg.Hooks...),
		tracer:   otel.Tracer(tracerName),
		state:    cfg.State.Clone(),
		lastTick: clock(),
	}, nil
}

// State returns a copy of the current state.
func (r *Runtime) State() engine.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// Now reads the runtime clock.
func (r *Runtime) Now() time.Time {
	return r.clock()
}

// Dispatch applies action to the live state and runs the hooks.
func (r *Runtime) Dispatch(ctx context.Context, action engine.Action) engine.Outcome {
	return r.dispatch(ctx, func() engine.Action { return action })
}

// Tick advances the state to the current clock reading. The delta is
// measured under the state lock so concurrent ticks never cover the same
// interval twice.
func (r *Runtime) Tick(ctx context.Context) engine.Outcome {
	return r.dispatch(ctx, func() engine.Action {
		now := r.clock()
		delta := now.Sub(r.lastTick)
		if delta < 0 {
			delta = 0
		}
		return engine.Tick{Now: now, Delta: delta}
	})
}

// dispatch builds the action while holding the state lock, applies it, and
// runs the hooks once the lock is released.
func (r *Runtime) dispatch(ctx context.Context, build func() engine.Action) engine.Outcome {
	_, span := r.tracer.Start(ctx, "study.dispatch")

	r.mu.Lock()
	action := build()
	next, outcome := r.engine.Apply(r.state, action)
	r.state = next
	if tick, ok := action.(engine.Tick); ok && outcome.Accepted && tick.Now.After(r.lastTick) {
		r.lastTick = tick.Now
	}
	commit := Commit{Action: action, Outcome: outcome, State: next.Clone(), At: r.clock()}
	r.mu.Unlock()

	kind := engine.Kind("unknown")
	if action != nil {
		kind = action.Kind()
	}
	span.SetAttributes(
		attribute.String("study.action", string(kind)),
		attribute.Bool("study.accepted", outcome.Accepted),
		attribute.Int("study.cycles", len(outcome.Cycles)),
		attribute.Int("study.levels_gained", outcome.LevelsGained),
	)
	if !outcome.Accepted {
		span.SetAttributes(attribute.String("study.rejection", outcome.Rejection.Code))
	}
	span.End()

	r.runHooks(ctx, commit)
	return outcome
}

func (r *Runtime) runHooks(ctx context.Context, commit Commit) {
	r.hookMu.Lock()
	defer r.hookMu.Unlock()
	for _, hook := range r.hooks {
		hook(ctx, commit)
	}
}

// Start schedules ticks every TickInterval until ctx is done or Stop is
// called.
func (r *Runtime) Start(ctx context.Context) error {
	r.cronMu.Lock()
	defer r.cronMu.Unlock()
	if r.cron != nil {
		return errors.New("runtime already started")
	}

	c := rcron.New(
		rcron.WithSeconds(),
		rcron.WithChain(rcron.SkipIfStillRunning(rcron.DefaultLogger)),
	)
	if _, err := c.AddFunc("@every "+r.interval.String(), func() {
		r.Tick(ctx)
	}); err != nil {
		return fmt.Errorf("schedule ticks: %w", err)
	}
	r.cron = c
	c.Start()
	log.Printf("runtime ticking every %v", r.interval)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()
	return nil
}

// Stop halts the tick schedule and waits for a running tick to finish.
func (r *Runtime) Stop() {
	r.cronMu.Lock()
	c := r.cron
	r.cron = nil
	r.cronMu.Unlock()
	if c == nil {
		return
	}

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(timeouts.TickDrain):
		log.Printf("runtime stop timed out waiting for a tick")
	}
}
