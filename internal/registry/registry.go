// Package registry tracks which words were spoken recently enough to score.
package registry

import (
	"time"

	"github.com/verte-zerg/wordspot/internal/words"
)

// Result is the registry's answer to a click-time freshness query.
type Result struct {
	// IsRecent is true when the word's effective elapsed time is within
	// the validity window.
	IsRecent bool
	// ElapsedMs is the pause-adjusted time since the last appearance.
	// Only meaningful when Tracked is true.
	ElapsedMs int64
	// Tracked is false when the word has no live entry.
	Tracked bool
	// AlreadyNoted is true once the player scored this appearance.
	AlreadyNoted bool
}

type entry struct {
	trackedAt time.Time
	pausedMs  int64
	noted     bool
}

// Registry is the time-bounded map of recently spoken words.
// It is single-owner mutable state: all calls must come from one goroutine.
type Registry struct {
	window     time.Duration
	pauseAware bool
	now        func() time.Time

	entries  map[string]*entry
	paused   bool
	pausedAt time.Time
}

// New returns a registry with the given validity window.
func New(window time.Duration, pauseAware bool) *Registry {
	return NewWithClock(window, pauseAware, time.Now)
}

// NewWithClock allows deterministic timestamps in tests.
func NewWithClock(window time.Duration, pauseAware bool, now func() time.Time) *Registry {
	return &Registry{
		window:     window,
		pauseAware: pauseAware,
		now:        now,
		entries:    make(map[string]*entry),
	}
}

// Track records an appearance of word, re-arming its freshness window and
// clearing its noted flag. Invalid words are a no-op returning false.
func (r *Registry) Track(word string) bool {
	canonical := words.Canonical(word)
	if canonical == "" {
		return false
	}
	now := r.now()
	r.sweep(now)
	if e, ok := r.entries[canonical]; ok {
		e.trackedAt = now
		e.pausedMs = 0
		e.noted = false
		return true
	}
	r.entries[canonical] = &entry{trackedAt: now}
	return true
}

// Query reports whether word is fresh enough to score and how long ago it
// appeared. Unknown or invalid words yield the zero Result.
func (r *Registry) Query(word string) Result {
	canonical := words.Canonical(word)
	if canonical == "" {
		return Result{}
	}
	e, ok := r.entries[canonical]
	if !ok {
		return Result{}
	}
	now := r.now()
	elapsed := r.elapsedMs(e, now)
	if elapsed > r.window.Milliseconds() {
		delete(r.entries, canonical)
		return Result{}
	}
	return Result{
		IsRecent:     true,
		ElapsedMs:    elapsed,
		Tracked:      true,
		AlreadyNoted: e.noted,
	}
}

// MarkNoted flags the word's current appearance as scored.
func (r *Registry) MarkNoted(word string) {
	canonical := words.Canonical(word)
	if canonical == "" {
		return
	}
	if e, ok := r.entries[canonical]; ok {
		e.noted = true
	}
}

// OnVideoPause freezes freshness accounting. No-op unless pause-aware.
func (r *Registry) OnVideoPause() {
	if !r.pauseAware || r.paused {
		return
	}
	r.paused = true
	r.pausedAt = r.now()
}

// OnVideoPlay credits the paused interval to every live entry.
func (r *Registry) OnVideoPlay() {
	if !r.pauseAware || !r.paused {
		return
	}
	now := r.now()
	for _, e := range r.entries {
		start := r.pausedAt
		if e.trackedAt.After(start) {
			start = e.trackedAt
		}
		if d := now.Sub(start); d > 0 {
			e.pausedMs += d.Milliseconds()
		}
	}
	r.paused = false
	r.pausedAt = time.Time{}
}

// Reset discards all entries and any pause state.
func (r *Registry) Reset() {
	r.entries = make(map[string]*entry)
	r.paused = false
	r.pausedAt = time.Time{}
}

// Len returns the number of live entries. Expired entries are counted until
// the next Track or Query touches them.
func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) elapsedMs(e *entry, now time.Time) int64 {
	elapsed := now.Sub(e.trackedAt).Milliseconds() - e.pausedMs
	if r.paused {
		start := r.pausedAt
		if e.trackedAt.After(start) {
			start = e.trackedAt
		}
		if d := now.Sub(start); d > 0 {
			elapsed -= d.Milliseconds()
		}
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}

func (r *Registry) sweep(now time.Time) {
	limit := r.window.Milliseconds()
	for word, e := range r.entries {
		if r.elapsedMs(e, now) > limit {
			delete(r.entries, word)
		}
	}
}
