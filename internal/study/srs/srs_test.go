package srs

import (
	"errors"
	"math"
	"testing"
	"time"
)

var now0 = time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC)

func TestSuccessScheduleFarFromExam(t *testing.T) {
	params := DefaultParams()
	exam := now0.Add(365 * day)
	item := New()
	now := now0

	for i, want := range []float64{1, 3, 7} {
		var err error
		item, err = Review(item, 5, now, &exam, params)
		if err != nil {
			t.Fatalf("review %d: %v", i, err)
		}
		if item.IntervalDays != want {
			t.Fatalf("review %d: interval = %v, want %v", i, item.IntervalDays, want)
		}
		if !item.DueAt.Equal(now.Add(time.Duration(want) * day)) {
			t.Fatalf("review %d: due %v", i, item.DueAt)
		}
		now = item.DueAt
	}

	item, _ = Review(item, 5, now, &exam, params)
	if math.Abs(item.IntervalDays-12.6) > 1e-9 {
		t.Fatalf("fourth interval = %v, want 12.6", item.IntervalDays)
	}
	item, _ = Review(item, 4, item.DueAt, &exam, params)
	if item.IntervalDays != 14 {
		t.Fatalf("fifth interval = %v, want cap 14", item.IntervalDays)
	}
}

func TestNoExamMeansNoCompression(t *testing.T) {
	item, err := Review(New(), 3, now0, nil, DefaultParams())
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if item.IntervalDays != 1 {
		t.Fatalf("interval = %v, want 1", item.IntervalDays)
	}
}

func TestCompressionContractsSchedule(t *testing.T) {
	params := DefaultParams()
	exam := now0.Add(45 * day)
	item := Item{Ease: 2.5, Successes: 2, IntervalDays: 3, Reviews: 2}

	item, _ = Review(item, 5, now0, &exam, params)
	if math.Abs(item.IntervalDays-3.5) > 1e-9 {
		t.Fatalf("interval = %v, want 7 * 0.5 = 3.5", item.IntervalDays)
	}
}

func TestFailureResetsAndPenalizesLess(t *testing.T) {
	params := DefaultParams()
	item := Item{Ease: 2.5, Successes: 3, IntervalDays: 7, Reviews: 3}

	failed, err := Review(item, 1, now0, nil, params)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if failed.Successes != 0 {
		t.Fatalf("successes = %d, want 0", failed.Successes)
	}
	if failed.IntervalDays != 1 {
		t.Fatalf("interval = %v, want minimum 1", failed.IntervalDays)
	}
	passed, _ := Review(item, 5, now0, nil, params)

	penalty := item.Ease - failed.Ease
	gain := passed.Ease - item.Ease
	if !(penalty > 0 && penalty < gain) {
		t.Fatalf("penalty %v should be positive and smaller than gain %v", penalty, gain)
	}
}

func TestEaseBounded(t *testing.T) {
	params := DefaultParams()
	item := New()
	for i := 0; i < 50; i++ {
		item, _ = Review(item, 5, now0, nil, params)
	}
	if item.Ease != MaxEase {
		t.Fatalf("ease = %v, want %v", item.Ease, MaxEase)
	}
	for i := 0; i < 100; i++ {
		item, _ = Review(item, 0, now0, nil, params)
	}
	if item.Ease != MinEase {
		t.Fatalf("ease = %v, want %v", item.Ease, MinEase)
	}
}

func TestFinalWeekLandsBeforeExam(t *testing.T) {
	params := DefaultParams()
	for _, daysLeft := range []float64{6.5, 3, 1, 0.4} {
		exam := now0.Add(time.Duration(daysLeft * float64(day)))
		item := Item{Ease: 2.5, Successes: 5, IntervalDays: 14, Reviews: 5}
		for _, quality := range []int{5, 1} {
			next, _ := Review(item, quality, now0, &exam, params)
			if !next.DueAt.Before(exam) {
				t.Fatalf("days left %v quality %d: due %v not before exam %v", daysLeft, quality, next.DueAt, exam)
			}
			if next.IntervalDays > daysLeft/2+1e-9 {
				t.Fatalf("days left %v: interval %v exceeds half", daysLeft, next.IntervalDays)
			}
		}
	}
}

func TestInvalidQuality(t *testing.T) {
	item := New()
	for _, q := range []int{-1, 6} {
		got, err := Review(item, q, now0, nil, DefaultParams())
		if !errors.Is(err, ErrInvalidQuality) {
			t.Fatalf("quality %d: err = %v", q, err)
		}
		if got != item {
			t.Fatalf("quality %d changed item", q)
		}
	}
}

func TestDue(t *testing.T) {
	if !New().Due(now0) {
		t.Fatal("new items are due")
	}
	item, _ := Review(New(), 5, now0, nil, DefaultParams())
	if item.Due(now0.Add(time.Hour)) {
		t.Fatal("expected item not due an hour later")
	}
	if !item.Due(now0.Add(day)) {
		t.Fatal("expected item due after interval")
	}
}
