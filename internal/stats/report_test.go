package stats

import (
	"context"
	"strings"
	"testing"

	"github.com/verte-zerg/wordspot/internal/model"
)

type fakeLister struct {
	rows []model.WordStats
}

func (f fakeLister) ListWordStats(context.Context) ([]model.WordStats, error) {
	return f.rows, nil
}

func TestBuildReportTotals(t *testing.T) {
	src := fakeLister{rows: []model.WordStats{
		{Word: "hard", Total: 6, Correct: 2, Incorrect: 2, Penalty: 1, AlreadyNoted: 1, Score: 7},
		{Word: "easy", Total: 4, Correct: 4, Score: 0},
	}}
	report, err := BuildReport(context.Background(), src, 0)
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}
	if report.TotalClicks != 10 || report.TotalCorrect != 6 || report.TotalIncorrect != 2 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if got := report.ErrorRate(); got != 0.3 {
		t.Fatalf("expected error rate 0.3, got %v", got)
	}
}

func TestBuildReportLimit(t *testing.T) {
	src := fakeLister{rows: []model.WordStats{
		{Word: "a", Score: 5},
		{Word: "b", Score: 3},
		{Word: "c", Score: 1},
	}}
	report, err := BuildReport(context.Background(), src, 2)
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}
	if len(report.Rows) != 2 || report.Rows[1].Word != "b" {
		t.Fatalf("expected hardest two kept, got %+v", report.Rows)
	}
	// Totals still cover every word.
	if report.TotalClicks != 0 {
		t.Fatalf("unexpected totals: %+v", report)
	}
}

func TestRenderReport(t *testing.T) {
	report := Report{
		Rows: []model.WordStats{
			{Word: "the", Total: 3, Correct: 2, Incorrect: 1, Score: 1.5, AvgResponseMs: 1200},
		},
		TotalClicks:    3,
		TotalCorrect:   2,
		TotalIncorrect: 1,
	}
	var b strings.Builder
	if err := RenderReport(&b, report); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	out := b.String()
	for _, want := range []string{"Words: 1", "Clicks: 3", "Error Rate: 33.33%", "the", "1.50", "1200.0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderReportEmpty(t *testing.T) {
	var b strings.Builder
	if err := RenderReport(&b, Report{}); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}
	if !strings.Contains(b.String(), "No word stats found.") {
		t.Fatalf("unexpected output: %q", b.String())
	}
}

func TestFormatTableAlignment(t *testing.T) {
	lines := formatTable(
		[]string{"Word", "Score"},
		[][]string{{"the", "1.50"}, {"cat", "12.00"}},
		map[int]bool{1: true},
	)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "the   1.50" {
		t.Fatalf("unexpected row formatting: %q", lines[1])
	}
}
