package transcript

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/verte-zerg/wordspot/internal/model"
)

// ParseSRT parses SubRip or WebVTT subtitle text into timed entries.
// Both formats are cue blocks separated by blank lines; WebVTT adds a
// header and uses '.' instead of ',' for milliseconds.
func ParseSRT(data []byte) (model.Transcript, error) {
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var entries []model.TranscriptEntry
	var current *model.TranscriptEntry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			if current != nil && current.Text != "" {
				entries = append(entries, *current)
			}
			current = nil
		case strings.Contains(line, "-->"):
			start, end, ok := parseCueTiming(line)
			if !ok {
				continue
			}
			current = &model.TranscriptEntry{Start: start, End: end}
		case current != nil:
			if current.Text != "" {
				current.Text += " "
			}
			current.Text += stripCueTags(line)
		}
		// Cue numbers and the WEBVTT header fall through untouched.
	}
	if current != nil && current.Text != "" {
		entries = append(entries, *current)
	}
	if err := scanner.Err(); err != nil {
		return model.Transcript{}, err
	}
	if len(entries) == 0 {
		return model.Transcript{}, ErrCorruptTranscript
	}
	return model.Transcript{Entries: entries}, nil
}

func parseCueTiming(line string) (start, end float64, ok bool) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	startRaw := strings.TrimSpace(parts[0])
	// WebVTT allows cue settings after the end time.
	endRaw := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endRaw) == 0 {
		return 0, 0, false
	}
	start, okStart := parseCueClock(startRaw)
	end, okEnd := parseCueClock(endRaw[0])
	if !okStart || !okEnd {
		return 0, 0, false
	}
	return start, end, true
}

// parseCueClock accepts "HH:MM:SS,mmm", "HH:MM:SS.mmm", and "MM:SS.mmm".
func parseCueClock(raw string) (float64, bool) {
	raw = strings.ReplaceAll(raw, ",", ".")
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	total := 0.0
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, false
		}
		total = total*60 + v
	}
	return total, true
}

// stripCueTags removes inline markup like <i> or <c.colorE5E5E5> from cue text.
func stripCueTags(line string) string {
	var b strings.Builder
	depth := 0
	for _, r := range line {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
