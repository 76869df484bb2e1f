// Package difficulty maintains per-word click statistics and the derived
// difficulty score used for sorting.
package difficulty

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/verte-zerg/wordspot/internal/model"
	"github.com/verte-zerg/wordspot/internal/words"
)

// Outcome classifies a single click event.
type Outcome int

const (
	OutcomeCorrect Outcome = iota
	OutcomeIncorrect
	OutcomePenalty
	OutcomeAlreadyNoted
)

// Persister writes word stats to durable storage. All methods may be called
// from background goroutines.
type Persister interface {
	SaveWordStats(ctx context.Context, stats model.WordStats) error
	DeleteWordStats(ctx context.Context, word string) error
	DeleteAllWordStats(ctx context.Context) error
}

// Tracker accumulates click outcomes per word. State is single-owner;
// persistence happens on a background goroutine per update, last write wins.
type Tracker struct {
	now     func() time.Time
	persist Persister
	stats   map[string]*model.WordStats
}

// New builds a tracker seeded with previously persisted stats.
// persist may be nil, in which case updates are memory-only.
func New(initial []model.WordStats, persist Persister) *Tracker {
	return NewWithClock(initial, persist, time.Now)
}

// NewWithClock allows deterministic timestamps in tests.
func NewWithClock(initial []model.WordStats, persist Persister, now func() time.Time) *Tracker {
	t := &Tracker{
		now:     now,
		persist: persist,
		stats:   make(map[string]*model.WordStats, len(initial)),
	}
	for _, s := range initial {
		word := words.Canonical(s.Word)
		if word == "" {
			continue
		}
		copied := s
		copied.Word = word
		copied.Score = scoreFor(copied)
		t.stats[word] = &copied
	}
	return t
}

// Record applies one click outcome. responseMs is consulted only for
// OutcomeCorrect. Invalid words are a no-op.
func (t *Tracker) Record(word string, outcome Outcome, responseMs int64) {
	canonical := words.Canonical(word)
	if canonical == "" {
		return
	}
	now := t.now()
	s, ok := t.stats[canonical]
	if !ok {
		s = &model.WordStats{Word: canonical, FirstSeen: now}
		t.stats[canonical] = s
	}
	s.Total++
	s.LastSeen = now
	switch outcome {
	case OutcomeCorrect:
		s.Correct++
		if responseMs > 0 {
			s.TotalResponseMs += responseMs
		}
		s.AvgResponseMs = float64(s.TotalResponseMs) / float64(s.Correct)
	case OutcomeIncorrect:
		s.Incorrect++
	case OutcomePenalty:
		s.Penalty++
	case OutcomeAlreadyNoted:
		s.AlreadyNoted++
	}
	s.Score = scoreFor(*s)
	t.flush(*s)
}

// Get returns a copy of the stats for word.
func (t *Tracker) Get(word string) (model.WordStats, bool) {
	canonical := words.Canonical(word)
	if canonical == "" {
		return model.WordStats{}, false
	}
	s, ok := t.stats[canonical]
	if !ok {
		return model.WordStats{}, false
	}
	return *s, true
}

// Score returns the difficulty score for word, and whether any history exists.
func (t *Tracker) Score(word string) (float64, bool) {
	s, ok := t.Get(word)
	if !ok {
		return 0, false
	}
	return s.Score, true
}

// All returns copies of every tracked word's stats.
func (t *Tracker) All() []model.WordStats {
	out := make([]model.WordStats, 0, len(t.stats))
	for _, s := range t.stats {
		out = append(out, *s)
	}
	return out
}

// ResetWord clears the history for one word.
func (t *Tracker) ResetWord(word string) {
	canonical := words.Canonical(word)
	if canonical == "" {
		return
	}
	delete(t.stats, canonical)
	if t.persist == nil {
		return
	}
	go func() {
		if err := t.persist.DeleteWordStats(context.Background(), canonical); err != nil {
			logErrf("failed to delete stats for %q: %v\n", canonical, err)
		}
	}()
}

// ResetAll clears all word history.
func (t *Tracker) ResetAll() {
	t.stats = make(map[string]*model.WordStats)
	if t.persist == nil {
		return
	}
	go func() {
		if err := t.persist.DeleteAllWordStats(context.Background()); err != nil {
			logErrf("failed to delete word stats: %v\n", err)
		}
	}()
}

func (t *Tracker) flush(s model.WordStats) {
	if t.persist == nil {
		return
	}
	go func() {
		if err := t.persist.SaveWordStats(context.Background(), s); err != nil {
			logErrf("failed to save stats for %q: %v\n", s.Word, err)
		}
	}()
}

// scoreFor recomputes the difficulty score. Higher means harder: errors and
// penalties raise it, correct clicks lower it, slow correct responses nudge
// it up and fast ones down.
func scoreFor(s model.WordStats) float64 {
	score := float64(s.Correct)*(-1) +
		float64(s.Incorrect)*2 +
		float64(s.Penalty)*3 +
		float64(s.AlreadyNoted)*0.5

	if s.Correct > 0 {
		if s.AvgResponseMs > 3000 {
			score++
		} else if s.AvgResponseMs < 1000 {
			score -= 0.5
		}
	}

	total := s.Total
	if total < 1 {
		total = 1
	}
	errorRate := float64(s.Incorrect+s.Penalty) / float64(total)
	score += 2 * errorRate

	if score < 0 {
		score = 0
	}
	return score
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
