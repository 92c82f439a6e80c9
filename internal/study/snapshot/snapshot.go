// Package snapshot encodes the engine state for persistence and decodes it
// back, migrating older layouts forward. A snapshot is either fully valid
// after migration or rejected as a whole.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/louisbranch/studyforge/internal/platform/errors"
	"github.com/louisbranch/studyforge/internal/study/engine"
)

// CurrentVersion is the layout written by Encode.
const CurrentVersion = 2

// Snapshot is the persisted envelope.
type Snapshot struct {
	Version int          `json:"version"`
	TakenAt time.Time    `json:"taken_at"`
	State   engine.State `json:"state"`
}

// Record is an encoded snapshot as a store keeps it.
type Record struct {
	ID      int64
	Version int
	TakenAt time.Time
	Payload []byte
}

// Store persists encoded snapshots.
type Store interface {
	Save(ctx context.Context, record Record) (int64, error)
	Latest(ctx context.Context) (Record, error)
}

type envelope struct {
	Version int             `json:"version"`
	TakenAt time.Time       `json:"taken_at"`
	State   json.RawMessage `json:"state"`
}

// Encode serializes state at the current version.
func Encode(state engine.State, takenAt time.Time) (Record, error) {
	payload, err := json.Marshal(Snapshot{
		Version: CurrentVersion,
		TakenAt: takenAt.UTC(),
		State:   state,
	})
	if err != nil {
		return Record{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return Record{Version: CurrentVersion, TakenAt: takenAt.UTC(), Payload: payload}, nil
}

// Decode parses payload, migrating it to the current version. Fields a
// legacy snapshot lacks take their values from eng's defaults.
func Decode(payload []byte, eng *engine.Engine) (Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Snapshot{}, apperrors.Wrap(apperrors.CodeSnapshotInvalid, "decode snapshot envelope", err)
	}
	if env.Version == 0 {
		env.Version = 1
	}
	if env.Version < 0 || env.Version > CurrentVersion {
		return Snapshot{}, apperrors.WithMetadata(apperrors.CodeSnapshotVersion, "unsupported snapshot version", map[string]string{
			"version": fmt.Sprint(env.Version),
		})
	}
	if len(env.State) == 0 {
		return Snapshot{}, apperrors.New(apperrors.CodeSnapshotInvalid, "snapshot has no state")
	}

	state := eng.NewState(0, env.TakenAt)
	if err := json.Unmarshal(env.State, &state); err != nil {
		return Snapshot{}, apperrors.Wrap(apperrors.CodeSnapshotInvalid, "decode snapshot state", err)
	}

	if env.Version < 2 {
		var err error
		if state, err = migrateV1(state, env.TakenAt); err != nil {
			return Snapshot{}, err
		}
	}
	if err := Validate(state); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Version: CurrentVersion, TakenAt: env.TakenAt, State: state}, nil
}

// Save encodes state and writes it to store.
func Save(ctx context.Context, store Store, state engine.State, takenAt time.Time) (int64, error) {
	record, err := Encode(state, takenAt)
	if err != nil {
		return 0, err
	}
	return store.Save(ctx, record)
}

// Load reads the latest snapshot from store. ok is false when the store
// holds none.
func Load(ctx context.Context, store Store, eng *engine.Engine) (Snapshot, bool, error) {
	record, err := store.Latest(ctx)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.CodeNotFound {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	snap, err := Decode(record.Payload, eng)
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}
