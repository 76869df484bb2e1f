package difficulty

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/verte-zerg/wordspot/internal/model"
)

type capturePersister struct {
	saves   chan model.WordStats
	deletes chan string
	wipes   chan struct{}
}

func newCapturePersister() *capturePersister {
	return &capturePersister{
		saves:   make(chan model.WordStats, 16),
		deletes: make(chan string, 16),
		wipes:   make(chan struct{}, 16),
	}
}

func (p *capturePersister) SaveWordStats(_ context.Context, s model.WordStats) error {
	p.saves <- s
	return nil
}

func (p *capturePersister) DeleteWordStats(_ context.Context, word string) error {
	p.deletes <- word
	return nil
}

func (p *capturePersister) DeleteAllWordStats(_ context.Context) error {
	p.wipes <- struct{}{}
	return nil
}

func fixedClock() time.Time {
	return time.Unix(5000, 0)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRecordCorrectUpdatesAverage(t *testing.T) {
	tr := NewWithClock(nil, nil, fixedClock)
	tr.Record("the", OutcomeCorrect, 400)
	tr.Record("the", OutcomeCorrect, 800)

	s, ok := tr.Get("the")
	if !ok {
		t.Fatalf("expected stats for the")
	}
	if s.Total != 2 || s.Correct != 2 {
		t.Fatalf("unexpected counters: %+v", s)
	}
	if s.TotalResponseMs != 1200 || !almostEqual(s.AvgResponseMs, 600) {
		t.Fatalf("unexpected timing: %+v", s)
	}
}

func TestCounterInvariant(t *testing.T) {
	tr := NewWithClock(nil, nil, fixedClock)
	tr.Record("the", OutcomeCorrect, 500)
	tr.Record("the", OutcomePenalty, 0)
	tr.Record("the", OutcomeAlreadyNoted, 0)
	tr.Record("the", OutcomeIncorrect, 0)

	s, _ := tr.Get("the")
	if s.Total != s.Correct+s.Incorrect+s.Penalty+s.AlreadyNoted {
		t.Fatalf("counter invariant broken: %+v", s)
	}
}

func TestScoreFormula(t *testing.T) {
	// 1 correct (fast) click: -1 - 0.5 + 0 = -1.5, clamped to 0.
	tr := NewWithClock(nil, nil, fixedClock)
	tr.Record("easy", OutcomeCorrect, 500)
	if score, _ := tr.Score("easy"); !almostEqual(score, 0) {
		t.Fatalf("expected clamped score 0, got %v", score)
	}

	// 2 penalties: 6 + 2*1 = 8.
	tr.Record("hard", OutcomePenalty, 0)
	tr.Record("hard", OutcomePenalty, 0)
	if score, _ := tr.Score("hard"); !almostEqual(score, 8) {
		t.Fatalf("expected score 8, got %v", score)
	}

	// 1 slow correct + 1 penalty: -1 + 3 + 1 + 2*0.5 = 4.
	tr.Record("slow", OutcomeCorrect, 4000)
	tr.Record("slow", OutcomePenalty, 0)
	if score, _ := tr.Score("slow"); !almostEqual(score, 4) {
		t.Fatalf("expected score 4, got %v", score)
	}
}

func TestScoreNeverNegative(t *testing.T) {
	tr := NewWithClock(nil, nil, fixedClock)
	for i := 0; i < 20; i++ {
		tr.Record("the", OutcomeCorrect, 500)
	}
	score, ok := tr.Score("the")
	if !ok || score < 0 {
		t.Fatalf("expected non-negative score, got %v", score)
	}
}

func TestSeededStatsRoundTrip(t *testing.T) {
	tr := NewWithClock(nil, nil, fixedClock)
	tr.Record("the", OutcomeCorrect, 1500)
	tr.Record("the", OutcomePenalty, 0)
	before, _ := tr.Get("the")

	reloaded := NewWithClock([]model.WordStats{before}, nil, fixedClock)
	after, ok := reloaded.Get("the")
	if !ok {
		t.Fatalf("expected seeded stats")
	}
	if !almostEqual(after.Score, before.Score) ||
		!almostEqual(after.AvgResponseMs, before.AvgResponseMs) ||
		after.Total != before.Total {
		t.Fatalf("round trip mismatch: %+v vs %+v", before, after)
	}
}

func TestPersistenceFlush(t *testing.T) {
	p := newCapturePersister()
	tr := NewWithClock(nil, p, fixedClock)
	tr.Record("the", OutcomeCorrect, 700)

	select {
	case s := <-p.saves:
		if s.Word != "the" || s.Correct != 1 {
			t.Fatalf("unexpected persisted stats: %+v", s)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected async save")
	}
}

func TestResetWordAndAll(t *testing.T) {
	p := newCapturePersister()
	tr := NewWithClock(nil, p, fixedClock)
	tr.Record("the", OutcomeCorrect, 700)
	<-p.saves

	tr.ResetWord("the")
	if _, ok := tr.Get("the"); ok {
		t.Fatalf("expected stats cleared")
	}
	select {
	case word := <-p.deletes:
		if word != "the" {
			t.Fatalf("unexpected delete: %q", word)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected async delete")
	}

	tr.Record("cat", OutcomePenalty, 0)
	<-p.saves
	tr.ResetAll()
	if len(tr.All()) != 0 {
		t.Fatalf("expected all stats cleared")
	}
	select {
	case <-p.wipes:
	case <-time.After(time.Second):
		t.Fatalf("expected async wipe")
	}
}

func TestInvalidWordIgnored(t *testing.T) {
	tr := NewWithClock(nil, nil, fixedClock)
	tr.Record("", OutcomeCorrect, 100)
	tr.Record("42", OutcomePenalty, 0)
	if len(tr.All()) != 0 {
		t.Fatalf("expected no stats for invalid words")
	}
}
