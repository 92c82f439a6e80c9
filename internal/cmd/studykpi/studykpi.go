// Package studykpi prints hourly study indicators from the latest snapshot.
package studykpi

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	entrypoint "github.com/louisbranch/studyforge/internal/platform/cmd"
	"github.com/louisbranch/studyforge/internal/study/engine"
	"github.com/louisbranch/studyforge/internal/study/kpi"
	"github.com/louisbranch/studyforge/internal/study/ledger"
	"github.com/louisbranch/studyforge/internal/study/snapshot"
	"github.com/louisbranch/studyforge/internal/study/snapshot/sqlite"
	"github.com/louisbranch/studyforge/internal/study/tuning"
)

// Config holds KPI report configuration.
type Config struct {
	DBPath     string `env:"DB_PATH" envDefault:"data/studyforge.db"`
	TuningPath string `env:"TUNING_PATH"`
	Hours      int    `env:"KPI_HOURS" envDefault:"24"`
	Locale     string `env:"KPI_LOCALE" envDefault:"en-US"`
	Ledger     bool   `env:"KPI_LEDGER" envDefault:"false"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The snapshot SQLite database path")
	fs.StringVar(&cfg.TuningPath, "tuning", cfg.TuningPath, "YAML balance overrides")
	fs.IntVar(&cfg.Hours, "hours", cfg.Hours, "Number of hourly rows to print")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Locale used to format numbers")
	fs.BoolVar(&cfg.Ledger, "ledger", cfg.Ledger, "Also print daily currency totals")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if _, err := language.Parse(cfg.Locale); err != nil {
		return Config{}, fmt.Errorf("parse locale %q: %w", cfg.Locale, err)
	}
	return cfg, nil
}

// Run prints the report to stdout.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceStudyKPI, func(ctx context.Context) error {
		return report(ctx, cfg, time.Now(), os.Stdout)
	})
}

func report(ctx context.Context, cfg Config, now time.Time, out io.Writer) error {
	balance, err := tuning.Load(cfg.TuningPath)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}

	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer store.Close()

	snap, ok, err := snapshot.Load(ctx, store, engine.New(balance))
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if !ok {
		return fmt.Errorf("no snapshot in %s", cfg.DBPath)
	}

	rows, err := kpi.ComputeLastHours(snap.State, cfg.Hours, now)
	if err != nil {
		return err
	}
	printer := message.NewPrinter(language.MustParse(cfg.Locale))
	if err := writeRows(out, printer, rows); err != nil {
		return err
	}
	if cfg.Ledger {
		return writeLedger(out, printer, snap.State.Ledger)
	}
	return nil
}

func writeRows(out io.Writer, printer *message.Printer, rows []kpi.Row) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "hour\tcycles\tminutes\txp/h\ttopic xp/h\tgold/h\tcurrency\tloot\tfocus\t")
	for _, row := range rows {
		printer.Fprintf(tw, "%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t%d\t%d\t%.2f\t\n",
			row.HourStart.Format("01-02 15:04"),
			row.Cycles,
			row.StudyMinutes,
			row.XPPerHour,
			row.TopicXPPerHour,
			row.GoldPerHour,
			row.CurrencyDrops,
			row.LootCount,
			row.AverageFocus,
		)
	}
	return tw.Flush()
}

func writeLedger(out io.Writer, printer *message.Printer, l ledger.Ledger) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nday\tcurrency\tearned\tspent\tnet")
	for _, total := range l.DailyTotals() {
		printer.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", total.Day, total.Currency, total.Earned, total.Spent, total.Net())
	}
	return tw.Flush()
}
