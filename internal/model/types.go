// Package model defines shared data structures.
package model

import "time"

// SortMode selects how found words are ordered into the grid.
type SortMode string

const (
	SortFrequency  SortMode = "frequency"
	SortAppearance SortMode = "appearance-order"
	SortDifficulty SortMode = "difficulty"
	SortRandom     SortMode = "random"
)

// IsValid reports whether m is a recognised sort mode.
func (m SortMode) IsValid() bool {
	switch m {
	case SortFrequency, SortAppearance, SortDifficulty, SortRandom:
		return true
	}
	return false
}

// Config defines game settings.
type Config struct {
	Lang             string
	ValidityWindowMs int64
	ClicksToOvercome int
	MaxPoints        int
	PenaltyPoints    int
	QuickWindowMs    int64
	DecayWindowMs    int64
	GridColumns      int
	GridRows         int
	SortingMode      SortMode
	PauseAware       bool
}

// Defaults returns the default game configuration.
func Defaults() Config {
	return Config{
		Lang:             "en",
		ValidityWindowMs: 5000,
		ClicksToOvercome: 3,
		MaxPoints:        100,
		PenaltyPoints:    75,
		QuickWindowMs:    1000,
		DecayWindowMs:    4000,
		GridColumns:      5,
		GridRows:         5,
		SortingMode:      SortFrequency,
		PauseAware:       false,
	}
}

// GridSize returns the number of visible word cells.
func (c Config) GridSize() int {
	return c.GridColumns * c.GridRows
}

// WordCount pairs a word with its transcript frequency.
type WordCount struct {
	Word  string
	Count int
}

// TranscriptEntry is one timed caption line.
type TranscriptEntry struct {
	Text  string
	Start float64
	End   float64
}

// Transcript is a parsed subtitle track.
type Transcript struct {
	Language string
	Entries  []TranscriptEntry
}

// WordStats holds per-word click statistics used for difficulty scoring.
type WordStats struct {
	Word            string
	Total           int
	Correct         int
	Incorrect       int
	Penalty         int
	AlreadyNoted    int
	TotalResponseMs int64
	AvgResponseMs   float64
	Score           float64
	FirstSeen       time.Time
	LastSeen        time.Time
}
