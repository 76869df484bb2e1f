// Package stats contains difficulty statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
)

// RenderReport prints a summary followed by the per-word table.
func RenderReport(w io.Writer, report Report) error {
	if len(report.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No word stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Words: %d\n", len(report.Rows)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Clicks: %d\n", report.TotalClicks); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Error Rate: %.2f%%\n", report.ErrorRate()*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	headers := []string{"Word", "Score", "Correct", "Incorrect", "Penalty", "Noted", "Avg (ms)"}
	tableRows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		tableRows = append(tableRows, []string{
			row.Word,
			fmt.Sprintf("%.2f", row.Score),
			fmt.Sprintf("%d", row.Correct),
			fmt.Sprintf("%d", row.Incorrect),
			fmt.Sprintf("%d", row.Penalty),
			fmt.Sprintf("%d", row.AlreadyNoted),
			fmt.Sprintf("%.1f", row.AvgResponseMs),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
