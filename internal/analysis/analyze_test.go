package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/verte-zerg/wordspot/internal/model"
	"github.com/verte-zerg/wordspot/internal/transcript"
	"github.com/verte-zerg/wordspot/internal/words"
)

type fakeSource struct {
	tr  model.Transcript
	err error
}

func (f fakeSource) Fetch(context.Context) (model.Transcript, error) {
	return f.tr, f.err
}

func TestAnalyzeCountsListWords(t *testing.T) {
	src := fakeSource{tr: model.Transcript{
		Language: "en",
		Entries: []model.TranscriptEntry{
			{Text: "The cat sat", Start: 1.5},
			{Text: "on the mat", Start: 4.25},
		},
	}}
	list := words.NewList("en", []string{"the", "cat", "mat"})

	report, err := Analyze(context.Background(), src, list)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.Language != "en" {
		t.Fatalf("expected language en, got %q", report.Language)
	}
	if len(report.Words) != 3 || report.Words[0].Word != "the" || report.Words[0].Count != 2 {
		t.Fatalf("unexpected counts: %+v", report.Words)
	}
	if len(report.Entries) != 2 {
		t.Fatalf("expected timed entries preserved, got %d", len(report.Entries))
	}
}

func TestAnalyzeRequiresWordList(t *testing.T) {
	src := fakeSource{tr: model.Transcript{Language: "en"}}
	if _, err := Analyze(context.Background(), src, nil); !errors.Is(err, ErrNoWordList) {
		t.Fatalf("expected ErrNoWordList for nil list, got %v", err)
	}
	empty := words.NewList("en", nil)
	if _, err := Analyze(context.Background(), src, empty); !errors.Is(err, ErrNoWordList) {
		t.Fatalf("expected ErrNoWordList for empty list, got %v", err)
	}
}

func TestAnalyzePropagatesSourceErrors(t *testing.T) {
	src := fakeSource{err: transcript.ErrNoTranscript}
	list := words.NewList("en", []string{"the"})
	if _, err := Analyze(context.Background(), src, list); !errors.Is(err, transcript.ErrNoTranscript) {
		t.Fatalf("expected wrapped ErrNoTranscript, got %v", err)
	}
}
