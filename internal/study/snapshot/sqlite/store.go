// Package sqlite provides a SQLite-backed snapshot store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/louisbranch/studyforge/internal/platform/errors"
	"github.com/louisbranch/studyforge/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/studyforge/internal/study/snapshot"
	"github.com/louisbranch/studyforge/internal/study/snapshot/sqlite/migrations"
)

// Store persists encoded snapshots in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite snapshot store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save inserts one snapshot and returns its id.
func (s *Store) Save(ctx context.Context, record snapshot.Record) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if len(record.Payload) == 0 {
		return 0, fmt.Errorf("snapshot payload is required")
	}
	if record.Version <= 0 {
		return 0, fmt.Errorf("snapshot version must be positive")
	}
	takenAt := record.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO snapshots (version, taken_at, payload) VALUES (?, ?, ?)`,
		record.Version,
		toMillis(takenAt),
		record.Payload,
	)
	if err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read snapshot id: %w", err)
	}
	return id, nil
}

// Latest returns the most recently saved snapshot, or a CodeNotFound error
// when none exists.
func (s *Store) Latest(ctx context.Context) (snapshot.Record, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.Record{}, err
	}
	if s == nil || s.sqlDB == nil {
		return snapshot.Record{}, fmt.Errorf("storage is not configured")
	}

	var (
		record  snapshot.Record
		takenAt int64
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, version, taken_at, payload FROM snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&record.ID, &record.Version, &takenAt, &record.Payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return snapshot.Record{}, apperrors.New(apperrors.CodeNotFound, "no snapshot stored")
		}
		return snapshot.Record{}, fmt.Errorf("load latest snapshot: %w", err)
	}
	record.TakenAt = fromMillis(takenAt)
	return record, nil
}

// Count returns the number of stored snapshots.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return count, nil
}

// Prune deletes all but the newest keep snapshots and returns the number
// removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if keep < 1 {
		return 0, fmt.Errorf("keep must be at least one")
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read pruned count: %w", err)
	}
	return removed, nil
}

var _ snapshot.Store = (*Store)(nil)
