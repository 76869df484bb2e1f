package words

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// List is an ordered set of recognized words with a stable name.
// Membership checks are O(1); ordering preserves the source ranking.
type List struct {
	name    string
	ordered []string
	members map[string]struct{}
}

// NewList builds a list from raw words. Entries are canonicalized and
// duplicates keep their first (highest-ranked) position.
func NewList(name string, raw []string) *List {
	list := &List{
		name:    name,
		members: make(map[string]struct{}, len(raw)),
	}
	for _, entry := range raw {
		word := Canonical(entry)
		if word == "" {
			continue
		}
		if _, ok := list.members[word]; ok {
			continue
		}
		list.members[word] = struct{}{}
		list.ordered = append(list.ordered, word)
	}
	return list
}

// LoadList reads one word per line from the provided file path.
// The list name is the file name without extension.
func LoadList(path string) (*List, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var raw []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		raw = append(raw, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	list := NewList(name, raw)
	if list.Len() == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return list, nil
}

// Name returns the stable list name.
func (l *List) Name() string {
	return l.name
}

// Contains reports membership of a canonical word.
func (l *List) Contains(word string) bool {
	if l == nil {
		return false
	}
	_, ok := l.members[word]
	return ok
}

// Words returns the list in ranking order.
func (l *List) Words() []string {
	out := make([]string, len(l.ordered))
	copy(out, l.ordered)
	return out
}

// Len returns the number of distinct words.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.ordered)
}
