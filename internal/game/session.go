// Package game implements the scoring state machine for a noticing session:
// the visible word grid, click arbitration, and slot replacement.
package game

import (
	"errors"
	"math/rand"
	"time"

	"github.com/verte-zerg/wordspot/internal/difficulty"
	"github.com/verte-zerg/wordspot/internal/model"
	"github.com/verte-zerg/wordspot/internal/registry"
)

// ErrNoSuchSlot is returned for a click on a slot index that does not exist.
// The session state is unchanged when it is returned.
var ErrNoSuchSlot = errors.New("no such slot")

// OutcomeKind classifies a click result.
type OutcomeKind int

const (
	// OutcomeCorrect: the word was spoken recently and not yet noted.
	OutcomeCorrect OutcomeKind = iota
	// OutcomeAlreadyNoted: the word is fresh but this appearance was
	// already scored.
	OutcomeAlreadyNoted
	// OutcomePenalty: the word was not spoken recently.
	OutcomePenalty
)

// ScoreKind labels score-change events for the UI.
type ScoreKind string

const (
	ScoreEarned  ScoreKind = "earned"
	ScorePenalty ScoreKind = "penalty"
	ScoreIgnored ScoreKind = "ignored"
)

// Sorter orders the words found in a transcript into their initial grid order.
type Sorter interface {
	Sort(words []model.WordCount) []model.WordCount
}

// Listener receives session events. Any method may be a no-op.
type Listener interface {
	SlotReplaced(index int, newWord string)
	SlotRemoved(index int)
	ScoreChanged(score, delta int, kind ScoreKind)
}

// Slot is one visible grid cell.
type Slot struct {
	Index  int
	Word   string
	Count  int
	Clicks int
}

// ClickOutcome reports the result of a single click.
type ClickOutcome struct {
	Kind      OutcomeKind
	Word      string
	Delta     int
	Score     int
	ElapsedMs int64
	Replaced  bool
	Removed   bool
	NewWord   string
}

// Snapshot is a copy of the observable session state.
type Snapshot struct {
	Score         int
	OvercomeTotal int
	Slots         []Slot
}

// Session is the per-video scoring state machine. Single-owner mutable
// state: all calls must come from one goroutine.
type Session struct {
	cfg      model.Config
	registry *registry.Registry
	tracker  *difficulty.Tracker
	sorter   Sorter
	listener Listener
	rng      *rand.Rand

	score         int
	displayed     []*Slot
	buffer        []model.WordCount
	allFound      []model.WordCount
	completed     map[string]struct{}
	overcomeTotal int
}

// NewSession builds a session around the registry and difficulty tracker.
// listener may be nil.
func NewSession(cfg model.Config, reg *registry.Registry, tracker *difficulty.Tracker, sorter Sorter, listener Listener) *Session {
	return NewSessionWithRand(cfg, reg, tracker, sorter, listener,
		rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSessionWithRand allows a seeded RNG for deterministic replacement picks.
func NewSessionWithRand(cfg model.Config, reg *registry.Registry, tracker *difficulty.Tracker, sorter Sorter, listener Listener, rng *rand.Rand) *Session {
	return &Session{
		cfg:       cfg,
		registry:  reg,
		tracker:   tracker,
		sorter:    sorter,
		listener:  listener,
		rng:       rng,
		completed: make(map[string]struct{}),
	}
}

// Initialize resets the session and fills the grid from the words found in
// the transcript. The first gridSize words (after sorting) become slots,
// the rest queue in the replacement buffer.
func (s *Session) Initialize(found []model.WordCount, gridSize int) {
	s.score = 0
	s.overcomeTotal = 0
	s.completed = make(map[string]struct{})
	s.displayed = nil
	s.buffer = nil

	s.allFound = make([]model.WordCount, len(found))
	copy(s.allFound, found)

	sorted := found
	if s.sorter != nil {
		sorted = s.sorter.Sort(found)
	}
	if gridSize < 0 {
		gridSize = 0
	}
	for i, wc := range sorted {
		if i < gridSize {
			s.displayed = append(s.displayed, &Slot{
				Index: i,
				Word:  wc.Word,
				Count: wc.Count,
			})
			continue
		}
		s.buffer = append(s.buffer, wc)
	}
}

// HandleClick arbitrates a click on the slot at slotIndex. On error the
// session state is unchanged.
func (s *Session) HandleClick(slotIndex int) (ClickOutcome, error) {
	if slotIndex < 0 || slotIndex >= len(s.displayed) {
		return ClickOutcome{}, ErrNoSuchSlot
	}
	slot := s.displayed[slotIndex]
	verdict := s.registry.Query(slot.Word)

	switch {
	case verdict.IsRecent && !verdict.AlreadyNoted:
		return s.applyCorrect(slot, verdict.ElapsedMs), nil
	case verdict.IsRecent && verdict.AlreadyNoted:
		return s.applyAlreadyNoted(slot, verdict.ElapsedMs), nil
	default:
		return s.applyPenalty(slot), nil
	}
}

func (s *Session) applyCorrect(slot *Slot, elapsedMs int64) ClickOutcome {
	slot.Clicks++
	s.registry.MarkNoted(slot.Word)
	delta := Points(elapsedMs, s.cfg.QuickWindowMs, s.cfg.DecayWindowMs, s.cfg.MaxPoints)
	s.score += delta
	if s.tracker != nil {
		s.tracker.Record(slot.Word, difficulty.OutcomeCorrect, elapsedMs)
	}
	s.emitScore(delta, ScoreEarned)

	outcome := ClickOutcome{
		Kind:      OutcomeCorrect,
		Word:      slot.Word,
		Delta:     delta,
		Score:     s.score,
		ElapsedMs: elapsedMs,
	}
	if s.overcome(slot) {
		outcome.Replaced, outcome.Removed, outcome.NewWord = s.replaceSlot(slot)
	}
	return outcome
}

func (s *Session) applyAlreadyNoted(slot *Slot, elapsedMs int64) ClickOutcome {
	if s.tracker != nil {
		s.tracker.Record(slot.Word, difficulty.OutcomeAlreadyNoted, 0)
	}
	s.emitScore(0, ScoreIgnored)
	return ClickOutcome{
		Kind:      OutcomeAlreadyNoted,
		Word:      slot.Word,
		Score:     s.score,
		ElapsedMs: elapsedMs,
	}
}

func (s *Session) applyPenalty(slot *Slot) ClickOutcome {
	slot.Clicks = 0
	delta := -s.cfg.PenaltyPoints
	s.score += delta
	if s.score < 0 {
		s.score = 0
	}
	if s.tracker != nil {
		s.tracker.Record(slot.Word, difficulty.OutcomePenalty, 0)
	}
	s.emitScore(delta, ScorePenalty)
	return ClickOutcome{
		Kind:  OutcomePenalty,
		Word:  slot.Word,
		Delta: delta,
		Score: s.score,
	}
}

// overcome reports whether the slot's word leaves the grid: either enough
// clicks, or the word appears fewer times than the threshold and every
// appearance has been caught.
func (s *Session) overcome(slot *Slot) bool {
	if slot.Clicks >= s.cfg.ClicksToOvercome {
		return true
	}
	return slot.Count < s.cfg.ClicksToOvercome && slot.Clicks >= slot.Count
}

func (s *Session) replaceSlot(slot *Slot) (replaced, removed bool, newWord string) {
	s.completed[slot.Word] = struct{}{}
	s.overcomeTotal++

	if len(s.buffer) > 0 {
		next := s.buffer[0]
		s.buffer = s.buffer[1:]
		s.installWord(slot, next)
		return true, false, next.Word
	}

	if next, ok := s.pickRecycled(); ok {
		s.installWord(slot, next)
		return true, false, next.Word
	}

	s.removeSlot(slot.Index)
	return false, true, ""
}

// pickRecycled chooses uniformly at random from allFound minus displayed
// minus completed.
func (s *Session) pickRecycled() (model.WordCount, bool) {
	onGrid := make(map[string]struct{}, len(s.displayed))
	for _, slot := range s.displayed {
		onGrid[slot.Word] = struct{}{}
	}
	var candidates []model.WordCount
	for _, wc := range s.allFound {
		if _, ok := onGrid[wc.Word]; ok {
			continue
		}
		if _, ok := s.completed[wc.Word]; ok {
			continue
		}
		candidates = append(candidates, wc)
	}
	if len(candidates) == 0 {
		return model.WordCount{}, false
	}
	return candidates[s.rng.Intn(len(candidates))], true
}

func (s *Session) installWord(slot *Slot, wc model.WordCount) {
	slot.Word = wc.Word
	slot.Count = wc.Count
	slot.Clicks = 0
	if s.listener != nil {
		s.listener.SlotReplaced(slot.Index, wc.Word)
	}
}

func (s *Session) removeSlot(index int) {
	s.displayed = append(s.displayed[:index], s.displayed[index+1:]...)
	for i := index; i < len(s.displayed); i++ {
		s.displayed[i].Index = i
	}
	if s.listener != nil {
		s.listener.SlotRemoved(index)
	}
}

func (s *Session) emitScore(delta int, kind ScoreKind) {
	if s.listener != nil {
		s.listener.ScoreChanged(s.score, delta, kind)
	}
}

// Snapshot returns a copy of the observable state.
func (s *Session) Snapshot() Snapshot {
	slots := make([]Slot, len(s.displayed))
	for i, slot := range s.displayed {
		slots[i] = *slot
	}
	return Snapshot{
		Score:         s.score,
		OvercomeTotal: s.overcomeTotal,
		Slots:         slots,
	}
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.score
}

// OvercomeTotal returns how many words have left the grid as completed.
func (s *Session) OvercomeTotal() int {
	return s.overcomeTotal
}

// Completed reports whether word has been overcome this session.
func (s *Session) Completed(word string) bool {
	_, ok := s.completed[word]
	return ok
}

// BufferLen returns the number of words waiting to enter the grid.
func (s *Session) BufferLen() int {
	return len(s.buffer)
}
