// Package stats contains difficulty statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/wordspot/internal/model"
)

// Lister supplies stored per-word statistics, hardest first.
type Lister interface {
	ListWordStats(ctx context.Context) ([]model.WordStats, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Rows           []model.WordStats
	TotalClicks    int
	TotalCorrect   int
	TotalIncorrect int
	TotalPenalty   int
	TotalNoted     int
}

// BuildReport loads and prepares data for stats rendering. A positive limit
// keeps only the hardest words.
func BuildReport(ctx context.Context, src Lister, limit int) (Report, error) {
	rows, err := src.ListWordStats(ctx)
	if err != nil {
		return Report{}, err
	}
	report := Report{Rows: rows}
	for _, row := range rows {
		report.TotalClicks += row.Total
		report.TotalCorrect += row.Correct
		report.TotalIncorrect += row.Incorrect
		report.TotalPenalty += row.Penalty
		report.TotalNoted += row.AlreadyNoted
	}
	if limit > 0 && len(report.Rows) > limit {
		report.Rows = report.Rows[:limit]
	}
	return report, nil
}

// ErrorRate is the share of clicks that were mistakes.
func (r Report) ErrorRate() float64 {
	if r.TotalClicks == 0 {
		return 0
	}
	return float64(r.TotalIncorrect+r.TotalPenalty) / float64(r.TotalClicks)
}
