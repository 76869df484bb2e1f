package freq

import (
	"reflect"
	"testing"

	"github.com/verte-zerg/wordspot/internal/model"
	"github.com/verte-zerg/wordspot/internal/words"
)

func TestCountOrdersByFrequencyThenAlpha(t *testing.T) {
	list := words.NewList("en", []string{"the", "cat", "and", "dog"})
	got := Count("The cat and the dog and the cat", list)
	want := []model.WordCount{
		{Word: "the", Count: 3},
		{Word: "and", Count: 2},
		{Word: "cat", Count: 2},
		{Word: "dog", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected counts: %v", got)
	}
}

func TestCountStripsTags(t *testing.T) {
	list := words.NewList("en", []string{"hello", "world"})
	got := Count("<p begin=\"1s\">hello<br/>world</p>", list)
	want := []model.WordCount{
		{Word: "hello", Count: 1},
		{Word: "world", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected counts: %v", got)
	}
}

func TestCountEmptyInputs(t *testing.T) {
	list := words.NewList("en", []string{"the"})
	if got := Count("", list); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
	if got := Count("the", words.NewList("empty", nil)); got != nil {
		t.Fatalf("expected nil for empty list, got %v", got)
	}
	if got := Count("dog dog dog", list); got != nil {
		t.Fatalf("expected nil when no list word matches, got %v", got)
	}
}

func TestJoinEntries(t *testing.T) {
	entries := []model.TranscriptEntry{
		{Text: "hello there", Start: 0},
		{Text: "general greeting", Start: 2},
	}
	if got := JoinEntries(entries); got != "hello there general greeting" {
		t.Fatalf("unexpected join: %q", got)
	}
}
