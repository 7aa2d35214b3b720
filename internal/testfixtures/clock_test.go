package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
}

func TestClockAdvanceAndSet(t *testing.T) {
	start := time.Date(2026, time.June, 20, 15, 0, 0, 0, time.UTC)
	clock := NewClock(start)

	updated := clock.Advance(90 * time.Minute)
	if !updated.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("advance returned %v", updated)
	}
	if !clock.Now().Equal(updated) {
		t.Fatalf("expected Now to track advance, got %v", clock.Now())
	}

	clock.Set(start.Add(2 * time.Hour))
	if got := clock.Now(); !got.Equal(start.Add(2 * time.Hour)) {
		t.Fatalf("expected %v, got %v", start.Add(2*time.Hour), got)
	}
}

func TestClockNowFuncTracksTheClock(t *testing.T) {
	clock := NewClock(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
	nowFn := clock.NowFunc()

	before := nowFn()
	clock.Advance(time.Minute)
	after := nowFn()

	if !after.Equal(before.Add(time.Minute)) {
		t.Fatalf("expected NowFunc to observe the advance, got %v then %v", before, after)
	}

	var missing *Clock
	if missing.NowFunc()().IsZero() {
		t.Fatal("expected nil clock to fall back to real time")
	}
}
