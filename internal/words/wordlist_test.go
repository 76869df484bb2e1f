package words

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNewListCanonicalizesAndDedupes(t *testing.T) {
	list := NewList("en", []string{"The", "cat", "THE", "", "42", "Don't"})
	if list.Len() != 3 {
		t.Fatalf("expected 3 words, got %d", list.Len())
	}
	want := []string{"the", "cat", "don't"}
	if !reflect.DeepEqual(list.Words(), want) {
		t.Fatalf("unexpected order: %v", list.Words())
	}
	if !list.Contains("the") || list.Contains("dog") {
		t.Fatalf("membership check failed")
	}
}

func TestLoadList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.txt")
	if err := os.WriteFile(path, []byte("the\n\ncat\nand\n"), 0o644); err != nil {
		t.Fatalf("failed to write list: %v", err)
	}
	list, err := LoadList(path)
	if err != nil {
		t.Fatalf("LoadList failed: %v", err)
	}
	if list.Name() != "en" {
		t.Fatalf("expected list name en, got %q", list.Name())
	}
	if list.Len() != 3 {
		t.Fatalf("expected 3 words, got %d", list.Len())
	}
}

func TestLoadListEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, []byte("42\n\n"), 0o644); err != nil {
		t.Fatalf("failed to write list: %v", err)
	}
	if _, err := LoadList(path); err == nil {
		t.Fatalf("expected error for empty list")
	}
}
