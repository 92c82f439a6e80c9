// Package kpi aggregates cycle records and the currency ledger into hourly
// report rows.
package kpi

import (
	"fmt"
	"math"
	"time"

	apperrors "github.com/louisbranch/studyforge/internal/platform/errors"
	"github.com/louisbranch/studyforge/internal/study/engine"
	"github.com/louisbranch/studyforge/internal/study/ledger"
)

// Row is one calendar hour of activity.
type Row struct {
	HourStart      time.Time
	Cycles         int
	StudyMinutes   float64
	XPPerHour      float64
	TopicXPPerHour float64
	GoldPerHour    float64
	// CurrencyDrops counts non-gold currency units earned.
	CurrencyDrops int
	LootCount     int
	// AverageFocus is weighted by study time; zero for an idle hour.
	AverageFocus float64
}

// ComputeLastHours returns one row per calendar hour, oldest first, ending
// with the hour containing now. A state with no history yields zero-filled
// rows. A non-finite value anywhere fails with CodeNumericIntegrity rather
// than reaching the caller.
func ComputeLastHours(state engine.State, hours int, now time.Time) ([]Row, error) {
	if hours <= 0 {
		return []Row{}, nil
	}
	current := now.UTC().Truncate(time.Hour)
	rows := make([]Row, hours)
	for i := range rows {
		start := current.Add(-time.Duration(hours-1-i) * time.Hour)
		rows[i] = computeRow(state, start, start.Add(time.Hour))
	}
	for _, row := range rows {
		if err := checkFinite(row); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func computeRow(state engine.State, start, end time.Time) Row {
	row := Row{HourStart: start}
	var focusWeighted float64
	var studySeconds float64
	for _, record := range state.Cycles {
		if record.End.Before(start) || !record.End.Before(end) {
			continue
		}
		row.Cycles++
		row.LootCount += record.LootCount
		row.XPPerHour += record.XPGained
		row.TopicXPPerHour += record.TopicXPGained
		studySeconds += record.StudySeconds
		focusWeighted += record.AverageFocus * record.StudySeconds
	}
	row.StudyMinutes = studySeconds / 60
	if studySeconds > 0 {
		row.AverageFocus = focusWeighted / studySeconds
	}

	row.GoldPerHour = float64(state.Ledger.EarnedBetween(ledger.CurrencyGold, start, end))
	for _, currency := range ledger.Currencies() {
		if currency == ledger.CurrencyGold {
			continue
		}
		row.CurrencyDrops += state.Ledger.EarnedBetween(currency, start, end)
	}
	return row
}

func checkFinite(row Row) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"study_minutes", row.StudyMinutes},
		{"xp_per_hr", row.XPPerHour},
		{"topic_xp_per_hr", row.TopicXPPerHour},
		{"gold_per_hr", row.GoldPerHour},
		{"average_focus", row.AverageFocus},
	}
	for _, field := range fields {
		if math.IsNaN(field.value) || math.IsInf(field.value, 0) {
			return apperrors.WithMetadata(apperrors.CodeNumericIntegrity, fmt.Sprintf("kpi %s is not finite", field.name), map[string]string{
				"field": field.name,
				"hour":  row.HourStart.Format(time.RFC3339),
			})
		}
	}
	return nil
}
