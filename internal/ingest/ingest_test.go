package ingest

import (
	"fmt"
	"testing"
	"time"

	"github.com/verte-zerg/wordspot/internal/game"
	"github.com/verte-zerg/wordspot/internal/model"
	"github.com/verte-zerg/wordspot/internal/registry"
	"github.com/verte-zerg/wordspot/internal/words"
)

type scriptedCaptions struct {
	texts []string
	calls int
	fail  bool
}

func (s *scriptedCaptions) ReadCurrent() (string, error) {
	if s.fail {
		return "", fmt.Errorf("caption feed gone")
	}
	if s.calls >= len(s.texts) {
		return "", nil
	}
	text := s.texts[s.calls]
	s.calls++
	return text, nil
}

func newTestIngest() (*Ingest, *registry.Registry, *game.AppearanceLog) {
	now := time.Unix(3000, 0)
	clock := func() time.Time { return now }
	reg := registry.NewWithClock(5*time.Second, false, clock)
	log := game.NewAppearanceLogWithClock(clock)
	list := words.NewList("en", []string{"the", "cat", "mat"})
	return New(reg, log, list), reg, log
}

func TestTranscriptTickAppliesNearbyEntries(t *testing.T) {
	in, reg, log := newTestIngest()
	gen := in.UseTranscript([]model.TranscriptEntry{
		{Text: "The cat sat", Start: 5.0},
		{Text: "on the mat", Start: 20.0},
	})

	in.TickTime(gen, 5.2)
	if res := reg.Query("cat"); !res.IsRecent {
		t.Fatalf("expected cat tracked, got %+v", res)
	}
	if res := reg.Query("mat"); res.Tracked {
		t.Fatalf("expected mat not tracked yet, got %+v", res)
	}
	if _, ok := log.FirstSeen("the"); !ok {
		t.Fatalf("expected appearance logged")
	}
}

func TestTranscriptTickDedupesPerBucket(t *testing.T) {
	in, reg, _ := newTestIngest()
	gen := in.UseTranscript([]model.TranscriptEntry{{Text: "the", Start: 5.0}})

	in.TickTime(gen, 5.0)
	reg.MarkNoted("the")
	// Same bucket: the entry must not re-arm and clear the noted flag.
	in.TickTime(gen, 5.4)
	if res := reg.Query("the"); !res.AlreadyNoted {
		t.Fatalf("expected noted flag preserved within bucket, got %+v", res)
	}
	// Next bucket still inside the window: re-application re-arms.
	in.TickTime(gen, 6.0)
	if res := reg.Query("the"); res.AlreadyNoted {
		t.Fatalf("expected re-arm on bucket advance, got %+v", res)
	}
}

func TestStaleGenerationIgnored(t *testing.T) {
	in, reg, _ := newTestIngest()
	oldGen := in.UseTranscript([]model.TranscriptEntry{{Text: "the", Start: 5.0}})
	in.UseTranscript([]model.TranscriptEntry{{Text: "cat", Start: 5.0}})

	in.TickTime(oldGen, 5.0)
	if res := reg.Query("the"); res.Tracked {
		t.Fatalf("expected stale tick ignored, got %+v", res)
	}
}

func TestCaptionsTickSuppressesRepeats(t *testing.T) {
	in, reg, _ := newTestIngest()
	src := &scriptedCaptions{texts: []string{"the cat", "the cat", "the mat"}}
	gen := in.UseCaptions(src)

	if err := in.TickCaptions(gen); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	reg.MarkNoted("the")

	// Identical caption: no re-track.
	if err := in.TickCaptions(gen); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if res := reg.Query("the"); !res.AlreadyNoted {
		t.Fatalf("expected repeat caption suppressed, got %+v", res)
	}

	// Changed caption containing the same word re-arms it.
	if err := in.TickCaptions(gen); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if res := reg.Query("the"); res.AlreadyNoted {
		t.Fatalf("expected changed caption to re-arm word, got %+v", res)
	}
	if res := reg.Query("mat"); !res.IsRecent {
		t.Fatalf("expected mat tracked, got %+v", res)
	}
}

func TestCaptionsTickPropagatesReadErrors(t *testing.T) {
	in, _, _ := newTestIngest()
	src := &scriptedCaptions{fail: true}
	gen := in.UseCaptions(src)
	if err := in.TickCaptions(gen); err == nil {
		t.Fatalf("expected error from failing caption source")
	}
}

func TestResetClearsEverything(t *testing.T) {
	in, reg, log := newTestIngest()
	gen := in.UseTranscript([]model.TranscriptEntry{{Text: "the cat", Start: 5.0}})
	in.TickTime(gen, 5.0)

	newGen := in.Reset()
	if newGen <= gen {
		t.Fatalf("expected generation bump, got %d after %d", newGen, gen)
	}
	if in.Mode() != ModeNone {
		t.Fatalf("expected inert mode after reset")
	}
	if reg.Len() != 0 || log.Len() != 0 {
		t.Fatalf("expected registry and log cleared")
	}
}

func TestInertIngestIgnoresTicks(t *testing.T) {
	in, reg, _ := newTestIngest()
	in.TickTime(in.Generation(), 5.0)
	if err := in.TickCaptions(in.Generation()); err != nil {
		t.Fatalf("inert caption tick errored: %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("expected no tracking while inert")
	}
}
