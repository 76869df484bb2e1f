package game

import (
	"testing"
	"time"
)

func TestAppearanceLogKeepsFirstSeen(t *testing.T) {
	clock := newFakeClock()
	log := NewAppearanceLogWithClock(clock.Now)

	log.Record("the")
	first, ok := log.FirstSeen("the")
	if !ok {
		t.Fatalf("expected first-seen time")
	}

	clock.AdvanceMs(3000)
	log.Record("the")
	again, _ := log.FirstSeen("the")
	if !again.Equal(first) {
		t.Fatalf("expected first appearance preserved, got %v vs %v", again, first)
	}
}

func TestAppearanceLogIgnoresInvalidWords(t *testing.T) {
	log := NewAppearanceLogWithClock(func() time.Time { return time.Unix(0, 0) })
	log.Record("")
	log.Record("42")
	if log.Len() != 0 {
		t.Fatalf("expected empty log, got %d entries", log.Len())
	}
	if _, ok := log.FirstSeen(""); ok {
		t.Fatalf("expected no entry for invalid word")
	}
}

func TestAppearanceLogReset(t *testing.T) {
	clock := newFakeClock()
	log := NewAppearanceLogWithClock(clock.Now)
	log.Record("the")
	log.Reset()
	if log.Len() != 0 {
		t.Fatalf("expected empty log after reset")
	}
}
