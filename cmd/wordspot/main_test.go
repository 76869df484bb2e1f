package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/wordspot/internal/config"
	"github.com/verte-zerg/wordspot/internal/difficulty"
	"github.com/verte-zerg/wordspot/internal/model"
	"github.com/verte-zerg/wordspot/internal/store"
)

func writeTestWordList(t *testing.T, configHome string, words []string) string {
	t.Helper()
	dir := filepath.Join(configHome, "wordspot", "wordlists")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create wordlist dir: %v", err)
	}
	path := filepath.Join(dir, "en.txt")
	if err := os.WriteFile(path, []byte(strings.Join(words, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("failed to write word list: %v", err)
	}
	return path
}

func TestPlaySurvivesUnusableDatabase(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "data")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("failed to write blocker file: %v", err)
	}
	t.Setenv("XDG_DATA_HOME", blocker)

	st := openPlayStore(config.DefaultDBPath())
	if st != nil {
		t.Fatal("expected nil store when the db directory cannot be created")
	}

	// The rest of the play setup must run on defaults without persistence.
	applyStoredSettings(newRootCmd(), config.FileConfig{}, st)
	cfg := model.Defaults()
	if err := validateConfig(cfg); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
	persistSettings(st, cfg)

	tracker := difficulty.New(nil, trackerPersister(st))
	tracker.Record("hello", difficulty.OutcomeCorrect, 500)
	if _, ok := tracker.Score("hello"); !ok {
		t.Fatal("expected in-memory stats without a store")
	}
}

func TestTrackerPersisterNilStore(t *testing.T) {
	if p := trackerPersister(nil); p != nil {
		t.Fatalf("expected nil persister for nil store, got %#v", p)
	}
}

func TestLoadPlayWordListFallsBackToStoredCopy(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	path := writeTestWordList(t, configHome, []string{"hello", "world", "again"})

	st, err := store.Open(filepath.Join(t.TempDir(), "wordspot.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if cerr := st.Close(); cerr != nil {
			t.Errorf("failed to close store: %v", cerr)
		}
	})

	list, err := loadPlayWordList(st, "en")
	if err != nil {
		t.Fatalf("failed to load word list: %v", err)
	}
	if list.Len() != 3 {
		t.Fatalf("expected 3 words, got %d", list.Len())
	}
	stored, err := st.LoadWordList(context.Background())
	if err != nil {
		t.Fatalf("failed to read stored word list: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 stored words, got %d", len(stored))
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove word list file: %v", err)
	}
	restored, err := loadPlayWordList(st, "en")
	if err != nil {
		t.Fatalf("failed to restore word list from store: %v", err)
	}
	if restored.Len() != 3 || !restored.Contains("world") {
		t.Fatalf("restored list missing words: %v", restored.Words())
	}
}

func TestLoadPlayWordListMissingWithoutStore(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := loadPlayWordList(nil, "en"); err == nil {
		t.Fatal("expected an error when no word list exists anywhere")
	}
}

func TestValidateConfigBounds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Config)
		wantErr bool
	}{
		{"defaults", func(*model.Config) {}, false},
		{"max grid", func(c *model.Config) { c.GridColumns = 20; c.GridRows = 20 }, false},
		{"max clicks", func(c *model.Config) { c.ClicksToOvercome = 6 }, false},
		{"zero columns", func(c *model.Config) { c.GridColumns = 0 }, true},
		{"columns too large", func(c *model.Config) { c.GridColumns = 21 }, true},
		{"zero rows", func(c *model.Config) { c.GridRows = 0 }, true},
		{"rows too large", func(c *model.Config) { c.GridRows = 21 }, true},
		{"zero clicks", func(c *model.Config) { c.ClicksToOvercome = 0 }, true},
		{"clicks too large", func(c *model.Config) { c.ClicksToOvercome = 7 }, true},
		{"unknown sorting", func(c *model.Config) { c.SortingMode = "alphabetical" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := model.Defaults()
			tt.mutate(&cfg)
			err := validateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
