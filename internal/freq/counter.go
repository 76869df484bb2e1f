// Package freq counts recognized words in a transcript.
package freq

import (
	"regexp"
	"sort"

	"github.com/verte-zerg/wordspot/internal/model"
	"github.com/verte-zerg/wordspot/internal/words"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Count tallies every list word in the raw transcript text and returns the
// result sorted by count descending, alphabetical on ties.
func Count(raw string, list *words.List) []model.WordCount {
	if raw == "" || list.Len() == 0 {
		return nil
	}
	text := tagPattern.ReplaceAllString(raw, " ")
	tokens := words.FilterByList(words.Tokenize(text), list)
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[string]int, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}

	result := make([]model.WordCount, 0, len(counts))
	for word, count := range counts {
		result = append(result, model.WordCount{Word: word, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Word < result[j].Word
	})
	return result
}

// JoinEntries flattens transcript entries into a single text blob for counting.
func JoinEntries(entries []model.TranscriptEntry) string {
	total := 0
	for _, entry := range entries {
		total += len(entry.Text) + 1
	}
	buf := make([]byte, 0, total)
	for i, entry := range entries {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, entry.Text...)
	}
	return string(buf)
}
