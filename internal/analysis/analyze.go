// Package analysis turns a transcript into the frequency table that seeds a
// game session.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/verte-zerg/wordspot/internal/freq"
	"github.com/verte-zerg/wordspot/internal/model"
	"github.com/verte-zerg/wordspot/internal/transcript"
	"github.com/verte-zerg/wordspot/internal/words"
)

// ErrNoWordList indicates no word list is configured for the active language.
var ErrNoWordList = errors.New("no word list configured")

// Report is the outcome of analyzing one video's transcript.
type Report struct {
	Language string
	Words    []model.WordCount
	Entries  []model.TranscriptEntry
}

// Analyze fetches the transcript and tallies every list word in it. The
// returned entries carry their original timing so the caller can feed them to
// the live ingest.
func Analyze(ctx context.Context, src transcript.Source, list *words.List) (Report, error) {
	if list == nil || list.Len() == 0 {
		return Report{}, ErrNoWordList
	}
	tr, err := src.Fetch(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to fetch transcript: %w", err)
	}
	return Report{
		Language: tr.Language,
		Words:    freq.Count(freq.JoinEntries(tr.Entries), list),
		Entries:  tr.Entries,
	}, nil
}
