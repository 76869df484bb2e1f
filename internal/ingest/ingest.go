// Package ingest feeds spoken words from a transcript or live caption feed
// into the recent-word registry and the appearance log.
package ingest

import (
	"math"

	"github.com/verte-zerg/wordspot/internal/game"
	"github.com/verte-zerg/wordspot/internal/model"
	"github.com/verte-zerg/wordspot/internal/registry"
	"github.com/verte-zerg/wordspot/internal/transcript"
	"github.com/verte-zerg/wordspot/internal/words"
)

// applyWindowSec is how close a timed entry's start must be to the current
// playback time for the entry to count as "being spoken now".
const applyWindowSec = 1.5

// Mode selects the ingest driver.
type Mode int

const (
	// ModeNone: no usable subtitle data; the ingest is inert.
	ModeNone Mode = iota
	// ModeTranscript: timed entries applied against the playback clock.
	ModeTranscript
	// ModeCaptions: a live caption feed polled for changes.
	ModeCaptions
)

// Ingest drives word tracking for one video session. Single-owner mutable
// state: all calls must come from one goroutine.
type Ingest struct {
	reg         *registry.Registry
	appearances *game.AppearanceLog
	list        *words.List

	generation int
	mode       Mode

	entries    []model.TranscriptEntry
	lastBucket int

	captions    transcript.CaptionSource
	lastCaption string
}

// New builds an inert ingest; select a driver with UseTranscript or
// UseCaptions.
func New(reg *registry.Registry, appearances *game.AppearanceLog, list *words.List) *Ingest {
	return &Ingest{
		reg:         reg,
		appearances: appearances,
		list:        list,
		lastBucket:  -1,
	}
}

// Generation returns the current session generation. Ticks carrying an
// older generation are ignored.
func (in *Ingest) Generation() int {
	return in.generation
}

// Mode returns the active driver mode.
func (in *Ingest) Mode() Mode {
	return in.mode
}

// Reset starts a new session generation: the registry, the appearance log,
// and all driver state are cleared.
func (in *Ingest) Reset() int {
	in.generation++
	in.mode = ModeNone
	in.entries = nil
	in.lastBucket = -1
	in.captions = nil
	in.lastCaption = ""
	in.reg.Reset()
	in.appearances.Reset()
	return in.generation
}

// UseTranscript switches to the timed-entry driver for the new generation.
func (in *Ingest) UseTranscript(entries []model.TranscriptEntry) int {
	gen := in.Reset()
	in.mode = ModeTranscript
	in.entries = entries
	return gen
}

// UseCaptions switches to the live caption driver for the new generation.
func (in *Ingest) UseCaptions(src transcript.CaptionSource) int {
	gen := in.Reset()
	in.mode = ModeCaptions
	in.captions = src
	return gen
}

// TickTime advances the transcript driver to the given playback time.
// It applies every entry within the apply window once per integer-second
// bucket. Stale-generation ticks are no-ops.
func (in *Ingest) TickTime(generation int, currentSec float64) {
	if generation != in.generation || in.mode != ModeTranscript {
		return
	}
	bucket := int(currentSec)
	if bucket == in.lastBucket {
		return
	}
	in.lastBucket = bucket
	for _, entry := range in.entries {
		if math.Abs(entry.Start-currentSec) < applyWindowSec {
			in.apply(entry.Text)
		}
	}
}

// TickCaptions polls the live caption feed. A caption identical to the one
// seen on the previous poll is suppressed; any change re-tracks every list
// word it contains.
func (in *Ingest) TickCaptions(generation int) error {
	if generation != in.generation || in.mode != ModeCaptions {
		return nil
	}
	text, err := in.captions.ReadCurrent()
	if err != nil {
		return err
	}
	if text == "" || text == in.lastCaption {
		return nil
	}
	in.lastCaption = text
	in.apply(text)
	return nil
}

// LastCaption returns the caption text most recently applied in caption mode.
func (in *Ingest) LastCaption() string {
	return in.lastCaption
}

func (in *Ingest) apply(text string) {
	for _, word := range words.FilterByList(words.Tokenize(text), in.list) {
		in.reg.Track(word)
		in.appearances.Record(word)
	}
}
