package session

import (
	"testing"
	"time"

	"github.com/louisbranch/studyforge/internal/study/catalog"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewDefaults(t *testing.T) {
	s := New(DefaultParams())
	if s.Mode != ModeStudy || s.Active {
		t.Fatalf("new session = %+v", s)
	}
	if s.CycleLength != 1500 || s.RestLength != 300 {
		t.Fatalf("lengths = %v/%v, want 1500/300", s.CycleLength, s.RestLength)
	}
}

func TestToggleRequiresTopicAndStudyMode(t *testing.T) {
	s := New(DefaultParams())
	if _, ok := Toggle(s, t0); ok {
		t.Fatal("toggle without topic should be ignored")
	}

	s.SelectedTopicID = "calc"
	s.Mode = ModeRest
	if _, ok := Toggle(s, t0); ok {
		t.Fatal("toggle in rest should be ignored")
	}

	s.Mode = ModeStudy
	s, ok := Toggle(s, t0)
	if !ok || !s.Active {
		t.Fatalf("toggle = %v, active %v", ok, s.Active)
	}
	if s.LockedTopicID != "calc" || s.CycleStart == nil || !s.CycleStart.Equal(t0) {
		t.Fatalf("resume did not lock topic: %+v", s)
	}
	s, ok = Toggle(s, t0.Add(time.Minute))
	if !ok || s.Active {
		t.Fatalf("second toggle should pause, got active %v", s.Active)
	}
	if !s.CycleStart.Equal(t0) {
		t.Fatalf("pause moved cycle start to %v", s.CycleStart)
	}
}

func TestPauseOnlyWhenStudying(t *testing.T) {
	s := New(DefaultParams())
	if _, ok := Pause(s); ok {
		t.Fatal("pause while idle should be ignored")
	}
	s.SelectedTopicID = "calc"
	s, _ = Toggle(s, t0)
	s, ok := Pause(s)
	if !ok || s.Active {
		t.Fatalf("pause = %v, active %v", ok, s.Active)
	}
}

func TestSelectWhileStudyingKeepsLock(t *testing.T) {
	s := New(DefaultParams())
	s.SelectedTopicID = "calc"
	s, _ = Toggle(s, t0)
	s = Accrue(s, 60, 1.2, 10, 10)

	s = Select(s, "physics")
	if s.SelectedTopicID != "physics" || s.LockedTopicID != "calc" {
		t.Fatalf("selected %q locked %q", s.SelectedTopicID, s.LockedTopicID)
	}
	if s.CycleXP != 10 || s.Elapsed != 60 {
		t.Fatalf("accumulators reset while studying: %+v", s)
	}
}

func TestSelectWhilePausedResetsCycle(t *testing.T) {
	s := New(DefaultParams())
	s.SelectedTopicID = "calc"
	s, _ = Toggle(s, t0)
	s = Accrue(s, 60, 1.2, 10, 10)
	s, _ = Pause(s)

	s = Select(s, "physics")
	if s.CycleXP != 0 || s.StudySeconds != 0 || s.Momentum != 0 || s.Elapsed != 0 {
		t.Fatalf("accumulators survived topic switch: %+v", s)
	}
	if s.LockedTopicID != "" || s.CycleStart != nil {
		t.Fatalf("lock survived topic switch: %+v", s)
	}
}

func TestCompleteBuildsRecordAndEntersRest(t *testing.T) {
	s := New(DefaultParams())
	s.SelectedTopicID = "calc"
	s, _ = Toggle(s, t0)
	s = Accrue(s, 1000, 1.0, 100, 90)
	s = Accrue(s, 500, 1.3, 65, 60)
	if !s.CycleDone() {
		t.Fatal("expected cycle done")
	}

	end := t0.Add(25 * time.Minute)
	next, record := Complete(s, end, 5, catalog.CategoryMath)
	if next.Mode != ModeRest || next.Active || next.Elapsed != 0 || next.Momentum != 0 {
		t.Fatalf("after complete = %+v", next)
	}
	if next.SelectedTopicID != "calc" {
		t.Fatalf("selection lost: %q", next.SelectedTopicID)
	}
	if record.StudySeconds != 1500 || record.XPGained != 165 || record.TopicXPGained != 150 {
		t.Fatalf("record = %+v", record)
	}
	if record.AverageFocus < 1.0999 || record.AverageFocus > 1.1001 {
		t.Fatalf("average focus = %v, want 1.1", record.AverageFocus)
	}
	if !record.Start.Equal(t0) || !record.End.Equal(end) || record.LootCount != 5 || record.TopicID != "calc" {
		t.Fatalf("record = %+v", record)
	}
}

func TestStartStudyLocksSelection(t *testing.T) {
	s := New(DefaultParams())
	s.Mode = ModeRest
	s.RestElapsed = 120
	s.SelectedTopicID = "calc"

	s = StartStudy(s, t0)
	if s.Mode != ModeStudy || !s.Active || s.LockedTopicID != "calc" || s.RestElapsed != 0 {
		t.Fatalf("start study = %+v", s)
	}

	s.SelectedTopicID = ""
	s = StartStudy(s, t0)
	if s.Active || s.CycleStart != nil {
		t.Fatalf("study without topic should start paused: %+v", s)
	}
}

func TestRestProgress(t *testing.T) {
	s := New(DefaultParams())
	s.Mode = ModeRest
	s = AccrueRest(s, 200)
	if s.RestDone() || s.RestRemaining() != 100 {
		t.Fatalf("rest = %+v", s)
	}
	s = AccrueRest(s, 100)
	if !s.RestDone() {
		t.Fatal("expected rest done")
	}
}

func TestSetLengthsRejectsNonPositive(t *testing.T) {
	s := New(DefaultParams())
	if _, ok := SetLengths(s, 0, time.Minute); ok {
		t.Fatal("zero cycle accepted")
	}
	s, ok := SetLengths(s, 50*time.Minute, 10*time.Minute)
	if !ok || s.CycleLength != 3000 || s.RestLength != 600 {
		t.Fatalf("set lengths = %v %+v", ok, s)
	}
}
