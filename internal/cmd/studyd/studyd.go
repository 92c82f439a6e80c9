// Package studyd parses study daemon flags and runs the study runtime.
package studyd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/studyforge/internal/platform/cmd"
	"github.com/louisbranch/studyforge/internal/platform/random"
	"github.com/louisbranch/studyforge/internal/platform/timeouts"
	"github.com/louisbranch/studyforge/internal/study/catalog"
	"github.com/louisbranch/studyforge/internal/study/engine"
	"github.com/louisbranch/studyforge/internal/study/runtime"
	"github.com/louisbranch/studyforge/internal/study/snapshot"
	"github.com/louisbranch/studyforge/internal/study/snapshot/sqlite"
	"github.com/louisbranch/studyforge/internal/study/tuning"
)

// Config holds study daemon configuration.
type Config struct {
	DBPath        string        `env:"DB_PATH" envDefault:"data/studyforge.db"`
	TickInterval  time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	TuningPath    string        `env:"TUNING_PATH"`
	CatalogPath   string        `env:"CATALOG_PATH"`
	SnapshotEvery int           `env:"SNAPSHOT_EVERY" envDefault:"30"`
	SnapshotKeep  int           `env:"SNAPSHOT_KEEP" envDefault:"100"`
	Console       bool          `env:"CONSOLE" envDefault:"true"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The snapshot SQLite database path")
	fs.DurationVar(&cfg.TickInterval, "tick-interval", cfg.TickInterval, "Simulation tick interval")
	fs.StringVar(&cfg.TuningPath, "tuning", cfg.TuningPath, "YAML balance overrides")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "YAML topic catalog (defaults to the built-in catalog)")
	fs.IntVar(&cfg.SnapshotEvery, "snapshot-every", cfg.SnapshotEvery, "Save a snapshot every N ticks")
	fs.IntVar(&cfg.SnapshotKeep, "snapshot-keep", cfg.SnapshotKeep, "Snapshots kept after pruning")
	fs.BoolVar(&cfg.Console, "console", cfg.Console, "Read commands from stdin")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.TickInterval < runtime.MinTickInterval {
		return Config{}, fmt.Errorf("tick interval %v is below %v", cfg.TickInterval, runtime.MinTickInterval)
	}
	if cfg.SnapshotEvery < 1 {
		return Config{}, fmt.Errorf("snapshot-every must be at least 1")
	}
	if cfg.SnapshotKeep < 1 {
		return Config{}, fmt.Errorf("snapshot-keep must be at least 1")
	}
	return cfg, nil
}

// Run starts the study daemon.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceStudyd, func(ctx context.Context) error {
		var in io.Reader
		if cfg.Console {
			in = os.Stdin
		}
		return serve(ctx, cfg, in, os.Stdout)
	})
}

func serve(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	balance, err := tuning.Load(cfg.TuningPath)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}
	eng := engine.New(balance)

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close snapshot store: %v", closeErr)
		}
	}()

	state, err := loadState(ctx, cfg, eng, store)
	if err != nil {
		return err
	}

	snapshots := runtime.NewSnapshotter(store, cfg.SnapshotEvery)
	rt, err := runtime.New(runtime.Config{
		Engine:       eng,
		State:        state,
		TickInterval: cfg.TickInterval,
		Hooks:        []runtime.Hook{runtime.LogHook, snapshots.Hook},
	})
	if err != nil {
		return err
	}
	if err := rt.Start(ctx); err != nil {
		return err
	}
	log.Printf("studyd running with %d topics", len(state.Topics))

	if in != nil {
		go runConsole(ctx, rt, in, out)
	}
	<-ctx.Done()
	rt.Stop()

	saveCtx, cancel := context.WithTimeout(context.Background(), timeouts.SnapshotSave)
	defer cancel()
	if err := snapshots.Save(saveCtx, rt.State(), rt.Now()); err != nil {
		return fmt.Errorf("save final snapshot: %w", err)
	}
	if removed, err := store.Prune(saveCtx, cfg.SnapshotKeep); err != nil {
		log.Printf("prune snapshots: %v", err)
	} else if removed > 0 {
		log.Printf("pruned %d snapshots", removed)
	}
	return nil
}

// loadState restores the latest snapshot or starts a new character, then
// supplies the topic catalog when the state lacks one.
func loadState(ctx context.Context, cfg Config, eng *engine.Engine, store snapshot.Store) (engine.State, error) {
	now := time.Now()
	snap, ok, err := snapshot.Load(ctx, store, eng)
	if err != nil {
		return engine.State{}, fmt.Errorf("load snapshot: %w", err)
	}

	var state engine.State
	if ok {
		state = snap.State
		log.Printf("restored snapshot taken at %s", snap.TakenAt.Format(time.RFC3339))
	} else {
		seed, err := random.NewSeed()
		if err != nil {
			return engine.State{}, err
		}
		state = eng.NewState(seed, now)
		log.Printf("starting a new character")
	}

	if !state.NeedsCatalog() {
		return state, nil
	}
	var entries []catalog.Entry
	if strings.TrimSpace(cfg.CatalogPath) != "" {
		entries, err = catalog.LoadFile(cfg.CatalogPath)
	} else {
		entries, err = catalog.Default()
	}
	if err != nil {
		return engine.State{}, fmt.Errorf("load catalog: %w", err)
	}
	next, outcome := eng.Apply(state, engine.LoadCatalog{Entries: entries})
	if !outcome.Accepted {
		return engine.State{}, fmt.Errorf("apply catalog: %s", outcome.Rejection.Message)
	}
	return next, nil
}
