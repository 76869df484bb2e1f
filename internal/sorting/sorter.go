// Package sorting orders found words into their initial grid positions.
package sorting

import (
	"math/rand"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/verte-zerg/wordspot/internal/model"
)

// ScoreSource exposes difficulty scores. Implemented by difficulty.Tracker.
type ScoreSource interface {
	Score(word string) (float64, bool)
}

// AppearanceSource exposes first-seen times. Implemented by game.AppearanceLog.
type AppearanceSource interface {
	FirstSeen(word string) (time.Time, bool)
}

// difficultyThreshold splits words with history into a "still hard" group
// (shown first, hardest on top) and a "mostly learned" group (shown last).
const difficultyThreshold = 2.0

// Sorter applies one of the four sort modes. The mode can change between
// sessions; changing it never mutates tracker or registry state.
type Sorter struct {
	mode        model.SortMode
	scores      ScoreSource
	appearances AppearanceSource
	collator    *collate.Collator
	rng         *rand.Rand
}

// New builds a sorter for the given language. scores and appearances may be
// nil, in which case difficulty and appearance modes degrade to frequency.
func New(mode model.SortMode, lang string, scores ScoreSource, appearances AppearanceSource) *Sorter {
	return NewWithRand(mode, lang, scores, appearances,
		rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand allows a seeded RNG so random mode is deterministic in tests.
func NewWithRand(mode model.SortMode, lang string, scores ScoreSource, appearances AppearanceSource, rng *rand.Rand) *Sorter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Sorter{
		mode:        mode,
		scores:      scores,
		appearances: appearances,
		collator:    collate.New(tag),
		rng:         rng,
	}
}

// Mode returns the active sort mode.
func (s *Sorter) Mode() model.SortMode {
	return s.mode
}

// SetMode switches the sort mode for subsequent Sort calls.
func (s *Sorter) SetMode(mode model.SortMode) {
	if mode.IsValid() {
		s.mode = mode
	}
}

// Sort returns a new ordering of wcs without mutating the input.
func (s *Sorter) Sort(wcs []model.WordCount) []model.WordCount {
	out := make([]model.WordCount, len(wcs))
	copy(out, wcs)
	switch s.mode {
	case model.SortAppearance:
		s.sortByAppearance(out)
	case model.SortDifficulty:
		s.sortByDifficulty(out)
	case model.SortRandom:
		s.shuffle(out)
	default:
		s.sortByFrequency(out)
	}
	return out
}

func (s *Sorter) sortByFrequency(wcs []model.WordCount) {
	sort.SliceStable(wcs, func(i, j int) bool {
		return s.lessByFrequency(wcs[i], wcs[j])
	})
}

func (s *Sorter) lessByFrequency(a, b model.WordCount) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return s.collator.CompareString(a.Word, b.Word) < 0
}

// sortByAppearance orders logged words by when they were first heard;
// words never heard fall after them, ordered by frequency.
func (s *Sorter) sortByAppearance(wcs []model.WordCount) {
	sort.SliceStable(wcs, func(i, j int) bool {
		return s.lessByAppearance(wcs[i], wcs[j])
	})
}

func (s *Sorter) lessByAppearance(a, b model.WordCount) bool {
	ta, oka := s.firstSeen(a.Word)
	tb, okb := s.firstSeen(b.Word)
	switch {
	case oka && okb:
		if !ta.Equal(tb) {
			return ta.Before(tb)
		}
		return s.lessByFrequency(a, b)
	case oka:
		return true
	case okb:
		return false
	default:
		return s.lessByFrequency(a, b)
	}
}

// sortByDifficulty builds three groups: hard words (score above threshold)
// hardest first, then unseen words in appearance order, then learned words
// easiest first.
func (s *Sorter) sortByDifficulty(wcs []model.WordCount) {
	group := func(wc model.WordCount) int {
		score, ok := s.score(wc.Word)
		switch {
		case ok && score > difficultyThreshold:
			return 0
		case !ok:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(wcs, func(i, j int) bool {
		gi, gj := group(wcs[i]), group(wcs[j])
		if gi != gj {
			return gi < gj
		}
		switch gi {
		case 0:
			si, _ := s.score(wcs[i].Word)
			sj, _ := s.score(wcs[j].Word)
			if si != sj {
				return si > sj
			}
			return s.lessByFrequency(wcs[i], wcs[j])
		case 1:
			return s.lessByAppearance(wcs[i], wcs[j])
		default:
			si, _ := s.score(wcs[i].Word)
			sj, _ := s.score(wcs[j].Word)
			if si != sj {
				return si < sj
			}
			return s.lessByFrequency(wcs[i], wcs[j])
		}
	})
}

// shuffle is a Fisher-Yates shuffle over the slice.
func (s *Sorter) shuffle(wcs []model.WordCount) {
	for i := len(wcs) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		wcs[i], wcs[j] = wcs[j], wcs[i]
	}
}

func (s *Sorter) score(word string) (float64, bool) {
	if s.scores == nil {
		return 0, false
	}
	return s.scores.Score(word)
}

func (s *Sorter) firstSeen(word string) (time.Time, bool) {
	if s.appearances == nil {
		return time.Time{}, false
	}
	return s.appearances.FirstSeen(word)
}
