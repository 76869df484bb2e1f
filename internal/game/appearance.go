package game

import (
	"time"

	"github.com/verte-zerg/wordspot/internal/words"
)

// AppearanceLog records the first time each word was heard in the current
// video session. Later appearances do not move a word's position.
type AppearanceLog struct {
	now   func() time.Time
	first map[string]time.Time
}

// NewAppearanceLog returns an empty log using the wall clock.
func NewAppearanceLog() *AppearanceLog {
	return NewAppearanceLogWithClock(time.Now)
}

// NewAppearanceLogWithClock allows deterministic timestamps in tests.
func NewAppearanceLogWithClock(now func() time.Time) *AppearanceLog {
	return &AppearanceLog{
		now:   now,
		first: make(map[string]time.Time),
	}
}

// Record stores the first appearance of word. Invalid words and repeat
// appearances are no-ops.
func (l *AppearanceLog) Record(word string) {
	canonical := words.Canonical(word)
	if canonical == "" {
		return
	}
	if _, ok := l.first[canonical]; ok {
		return
	}
	l.first[canonical] = l.now()
}

// FirstSeen returns when word first appeared, if it did.
func (l *AppearanceLog) FirstSeen(word string) (time.Time, bool) {
	canonical := words.Canonical(word)
	if canonical == "" {
		return time.Time{}, false
	}
	t, ok := l.first[canonical]
	return t, ok
}

// Len returns the number of logged words.
func (l *AppearanceLog) Len() int {
	return len(l.first)
}

// Reset discards the log for a new video session.
func (l *AppearanceLog) Reset() {
	l.first = make(map[string]time.Time)
}
