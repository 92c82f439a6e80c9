package studykpi

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/studyforge/internal/study/catalog"
	"github.com/louisbranch/studyforge/internal/study/engine"
	"github.com/louisbranch/studyforge/internal/study/snapshot"
	"github.com/louisbranch/studyforge/internal/study/snapshot/sqlite"
	"github.com/louisbranch/studyforge/internal/study/tuning"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestParseConfig_ParsesDefaultsAndFlags(t *testing.T) {
	fs := flag.NewFlagSet("studykpi", flag.ContinueOnError)
	t.Setenv("STUDYFORGE_KPI_LOCALE", "de-DE")

	cfg, err := ParseConfig(fs, []string{"-hours", "6", "-ledger"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Hours != 6 || !cfg.Ledger {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Locale != "de-DE" {
		t.Fatalf("locale = %q, want de-DE", cfg.Locale)
	}
	if cfg.DBPath != "data/studyforge.db" {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
}

func TestParseConfig_ReadsTuningPath(t *testing.T) {
	fs := flag.NewFlagSet("studykpi", flag.ContinueOnError)
	t.Setenv("STUDYFORGE_TUNING_PATH", "env.yaml")

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.TuningPath != "env.yaml" {
		t.Fatalf("tuning path = %q, want env.yaml", cfg.TuningPath)
	}

	fs = flag.NewFlagSet("studykpi", flag.ContinueOnError)
	cfg, err = ParseConfig(fs, []string{"-tuning", "flag.yaml"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.TuningPath != "flag.yaml" {
		t.Fatalf("tuning path = %q, want flag.yaml", cfg.TuningPath)
	}
}

func TestParseConfig_RejectsBadLocale(t *testing.T) {
	fs := flag.NewFlagSet("studykpi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := ParseConfig(fs, []string{"-locale", "not a locale!"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestReportPrintsHourlyRows(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "study.db")
	store, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	eng := engine.New(tuning.Default())
	s := eng.NewState(5, t0)
	s = eng.Dispatch(s, engine.LoadCatalog{Entries: []catalog.Entry{{ID: "calc", Name: "Calculus", Category: catalog.CategoryMath}}})
	s = eng.Dispatch(s, engine.SetActiveTopic{TopicID: "calc"})
	s = eng.Dispatch(s, engine.ToggleStudy{Now: t0})
	s = eng.Dispatch(s, engine.Tick{Now: t0.Add(25 * time.Minute), Delta: 25 * time.Minute})
	if len(s.Cycles) != 1 {
		t.Fatalf("cycles = %d, want 1", len(s.Cycles))
	}
	if _, err := snapshot.Save(ctx, store, s, t0.Add(25*time.Minute)); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Close()

	var out bytes.Buffer
	cfg := Config{DBPath: dbPath, Hours: 3, Locale: "en-US", Ledger: true}
	if err := report(ctx, cfg, t0.Add(time.Hour), &out); err != nil {
		t.Fatalf("report: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !strings.Contains(lines[0], "cycles") {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(out.String(), "03-02 09:00") || !strings.Contains(out.String(), "gold") {
		t.Fatalf("report missing rows:\n%s", out.String())
	}
}

func TestReportWithoutSnapshotFails(t *testing.T) {
	cfg := Config{DBPath: filepath.Join(t.TempDir(), "empty.db"), Hours: 1, Locale: "en-US"}
	if err := report(context.Background(), cfg, t0, io.Discard); err == nil {
		t.Fatal("expected error")
	}
}

func TestReportRejectsUnreadableTuning(t *testing.T) {
	cfg := Config{
		DBPath:     filepath.Join(t.TempDir(), "study.db"),
		TuningPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Hours:      1,
		Locale:     "en-US",
	}
	err := report(context.Background(), cfg, t0, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "load tuning") {
		t.Fatalf("err = %v, want a tuning error", err)
	}
}

func TestReportLoadsTuningOverrides(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "study.db")
	tuningPath := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(tuningPath, []byte("session:\n  cycle_length: 10m\n"), 0o600); err != nil {
		t.Fatalf("write tuning: %v", err)
	}
	balance, err := tuning.Load(tuningPath)
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}

	store, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	eng := engine.New(balance)
	s := eng.NewState(5, t0)
	s = eng.Dispatch(s, engine.LoadCatalog{Entries: []catalog.Entry{{ID: "calc", Name: "Calculus", Category: catalog.CategoryMath}}})
	s = eng.Dispatch(s, engine.SetActiveTopic{TopicID: "calc"})
	s = eng.Dispatch(s, engine.ToggleStudy{Now: t0})
	s = eng.Dispatch(s, engine.Tick{Now: t0.Add(10 * time.Minute), Delta: 10 * time.Minute})
	if len(s.Cycles) != 1 {
		t.Fatalf("cycles = %d, want 1", len(s.Cycles))
	}
	if _, err := snapshot.Save(ctx, store, s, t0.Add(10*time.Minute)); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Close()

	var out bytes.Buffer
	cfg := Config{DBPath: dbPath, TuningPath: tuningPath, Hours: 1, Locale: "en-US"}
	if err := report(ctx, cfg, t0.Add(30*time.Minute), &out); err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out.String(), "03-02 09:00") {
		t.Fatalf("report missing rows:\n%s", out.String())
	}
}
