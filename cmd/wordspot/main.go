// Package main provides the CLI entrypoint for wordspot.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/wordspot/internal/analysis"
	"github.com/verte-zerg/wordspot/internal/config"
	"github.com/verte-zerg/wordspot/internal/difficulty"
	"github.com/verte-zerg/wordspot/internal/freq"
	"github.com/verte-zerg/wordspot/internal/game"
	"github.com/verte-zerg/wordspot/internal/ingest"
	"github.com/verte-zerg/wordspot/internal/model"
	"github.com/verte-zerg/wordspot/internal/registry"
	"github.com/verte-zerg/wordspot/internal/sorting"
	"github.com/verte-zerg/wordspot/internal/stats"
	"github.com/verte-zerg/wordspot/internal/statsui"
	"github.com/verte-zerg/wordspot/internal/store"
	"github.com/verte-zerg/wordspot/internal/transcript"
	"github.com/verte-zerg/wordspot/internal/tui"
	"github.com/verte-zerg/wordspot/internal/wordfreq"
	"github.com/verte-zerg/wordspot/internal/words"
)

const (
	defaultServer     = "http://localhost:8000"
	defaultWordlistSz = 10000
)

var (
	playLang       string
	playServer     string
	playURL        string
	playFile       string
	playCaptions   string
	playColumns    int
	playRows       int
	playClicks     int
	playSorting    string
	playPauseAware bool

	analyzeLang   string
	analyzeServer string
	analyzeURL    string
	analyzeFile   string

	statsPlain     bool
	statsLimit     int
	statsResetWord string
	statsResetAll  bool

	wordlistLang  string
	wordlistSize  int
	wordlistForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordspot",
		Short:         "Notice-the-word game for video transcripts",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playLang, "lang", "en", "language code (default: en)")
	rootCmd.Flags().StringVar(&playServer, "server", defaultServer, "subtitle extraction server URL")
	rootCmd.Flags().StringVar(&playURL, "url", "", "video URL to extract subtitles for")
	rootCmd.Flags().StringVar(&playFile, "file", "", "local subtitle file (TTML/SRT/VTT)")
	rootCmd.Flags().StringVar(&playCaptions, "captions", "", "live caption file polled for the visible caption")
	rootCmd.Flags().IntVar(&playColumns, "columns", 5, "grid columns")
	rootCmd.Flags().IntVar(&playRows, "rows", 5, "grid rows")
	rootCmd.Flags().IntVar(&playClicks, "clicks", 3, "clicks needed to overcome a word")
	rootCmd.Flags().StringVar(&playSorting, "sorting", string(model.SortFrequency), "grid order: frequency, appearance-order, difficulty, random")
	rootCmd.Flags().BoolVar(&playPauseAware, "pause-aware", false, "freeze word freshness while the video is paused")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newWordlistCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &playLang, fileCfg.Game.Lang)
	applyStringConfig(cmd, "server", &playServer, fileCfg.Game.Server)
	applyIntConfig(cmd, "columns", &playColumns, fileCfg.Game.GridColumns)
	applyIntConfig(cmd, "rows", &playRows, fileCfg.Game.GridRows)
	applyIntConfig(cmd, "clicks", &playClicks, fileCfg.Game.ClicksToOvercome)
	applyStringConfig(cmd, "sorting", &playSorting, fileCfg.Game.Sorting)
	applyBoolConfig(cmd, "pause-aware", &playPauseAware, fileCfg.Game.PauseAware)

	st := openPlayStore(config.DefaultDBPath())
	if st != nil {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}

	applyStoredSettings(cmd, fileCfg, st)

	cfg := model.Defaults()
	cfg.Lang = playLang
	cfg.GridColumns = playColumns
	cfg.GridRows = playRows
	cfg.ClicksToOvercome = playClicks
	cfg.SortingMode = model.SortMode(playSorting)
	cfg.PauseAware = playPauseAware
	if err := validateConfig(cfg); err != nil {
		return err
	}
	persistSettings(st, cfg)

	list, err := loadPlayWordList(st, cfg.Lang)
	if err != nil {
		return err
	}

	var initial []model.WordStats
	if st != nil {
		initial, err = st.ListWordStats(context.Background())
		if err != nil {
			logErrf("failed to load word stats, starting fresh: %v\n", err)
			initial = nil
		}
	}
	tracker := difficulty.New(initial, trackerPersister(st))
	reg := registry.New(validityWindow(cfg), cfg.PauseAware)
	appearances := game.NewAppearanceLog()
	sorter := sorting.New(cfg.SortingMode, cfg.Lang, tracker, appearances)
	session := game.NewSession(cfg, reg, tracker, sorter, nil)
	in := ingest.New(reg, appearances, list)

	generation, entries, err := startIngest(cmd.Context(), in, list)
	if err != nil {
		return err
	}

	session.Initialize(foundWords(entries, list, in), cfg.GridSize())
	gameModel := tui.NewModel(cfg, session, reg, in, generation, entries)

	program := tea.NewProgram(gameModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// startIngest picks the subtitle driver: timed transcript when one can be
// fetched, live captions otherwise.
func startIngest(ctx context.Context, in *ingest.Ingest, list *words.List) (int, []model.TranscriptEntry, error) {
	src, err := transcriptSource(playFile, playServer, playURL)
	if err == nil {
		report, aerr := analysis.Analyze(ctx, src, list)
		if aerr == nil {
			return in.UseTranscript(report.Entries), report.Entries, nil
		}
		if playCaptions == "" {
			return 0, nil, aerr
		}
		logErrf("transcript unavailable (%v); falling back to captions\n", aerr)
	}
	if playCaptions != "" {
		return in.UseCaptions(transcript.FileCaptionSource{Path: playCaptions}), nil, nil
	}
	return 0, nil, fmt.Errorf("no subtitle input: pass --url, --file, or --captions")
}

// foundWords builds the frequency table that seeds the grid. In caption mode
// there is no transcript to pre-count, so the whole word list is offered at
// count 1.
func foundWords(entries []model.TranscriptEntry, list *words.List, in *ingest.Ingest) []model.WordCount {
	if in.Mode() == ingest.ModeTranscript {
		return freq.Count(freq.JoinEntries(entries), list)
	}
	ranked := list.Words()
	out := make([]model.WordCount, len(ranked))
	for i, w := range ranked {
		out[i] = model.WordCount{Word: w, Count: 1}
	}
	return out
}

func transcriptSource(file, server, url string) (transcript.Source, error) {
	switch {
	case file != "":
		return transcript.FileSource{Path: file}, nil
	case url != "":
		return transcript.ServerSource{BaseURL: server, VideoURL: url}, nil
	default:
		return nil, errors.New("no transcript source configured")
	}
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Show the word frequency table for a video",
		Args:  cobra.NoArgs,
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().StringVar(&analyzeLang, "lang", "en", "language code")
	cmd.Flags().StringVar(&analyzeServer, "server", defaultServer, "subtitle extraction server URL")
	cmd.Flags().StringVar(&analyzeURL, "url", "", "video URL to extract subtitles for")
	cmd.Flags().StringVar(&analyzeFile, "file", "", "local subtitle file (TTML/SRT/VTT)")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	listPath := config.DefaultWordListPath(analyzeLang)
	list, err := words.LoadList(listPath)
	if err != nil {
		return wordListLoadError(analyzeLang, listPath, err)
	}

	src, err := transcriptSource(analyzeFile, analyzeServer, analyzeURL)
	if err != nil {
		return fmt.Errorf("pass --url or --file")
	}
	report, err := analysis.Analyze(cmd.Context(), src, list)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if report.Language != "" {
		if _, err := fmt.Fprintf(out, "Language: %s\n", report.Language); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	for _, wc := range report.Words {
		if _, err := fmt.Fprintf(out, "%-24s %d\n", words.Display(wc.Word), wc.Count); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show word difficulty stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain report instead of the TUI")
	cmd.Flags().IntVar(&statsLimit, "limit", 0, "limit the plain report to the N hardest words")
	cmd.Flags().StringVar(&statsResetWord, "reset-word", "", "clear stats for one word")
	cmd.Flags().BoolVar(&statsResetAll, "reset-all", false, "clear all word stats")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	if statsResetAll {
		if err := st.DeleteAllWordStats(ctx); err != nil {
			return fmt.Errorf("failed to reset stats: %w", err)
		}
		logErrln("All word stats cleared.")
		return nil
	}
	if statsResetWord != "" {
		word := words.Canonical(statsResetWord)
		if err := st.DeleteWordStats(ctx, word); err != nil {
			return fmt.Errorf("failed to reset %q: %w", word, err)
		}
		logErrf("Stats for %q cleared.\n", word)
		return nil
	}

	// Piped output gets the plain report even without --plain.
	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		report, err := stats.BuildReport(ctx, st, statsLimit)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return stats.RenderReport(cmd.OutOrStdout(), report)
	}

	program := tea.NewProgram(statsui.NewModel(st), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newWordlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist",
		Short: "Generate frequency-ranked word lists",
		Args:  cobra.NoArgs,
		RunE:  runWordlistCmd,
	}
	cmd.Flags().StringVar(&wordlistLang, "lang", "en", "language code or 'all'")
	cmd.Flags().IntVar(&wordlistSize, "size", defaultWordlistSz, "number of words")
	cmd.Flags().BoolVar(&wordlistForce, "force", false, "overwrite existing files")
	return cmd
}

func runWordlistCmd(cmd *cobra.Command, _ []string) error {
	if wordlistSize <= 0 {
		return fmt.Errorf("--size must be greater than 0")
	}

	cacheDir := config.DefaultWordfreqCacheDir()
	logErrln("Fetching wordfreq metadata...")
	wheel, err := wordfreq.DownloadLatestWheel(cmd.Context(), cacheDir)
	if err != nil {
		return fmt.Errorf("failed to download wordfreq wheel: %w", err)
	}
	if wheel.Cached {
		logErrf("Using cached wheel %s\n", wheel.Filename)
	} else {
		logErrf("Downloaded wheel %s\n", wheel.Filename)
	}

	available, err := wordfreq.Languages(wheel.Path, "large")
	if err != nil {
		return fmt.Errorf("failed to list languages: %w", err)
	}
	langs, allRequested, err := resolveWordlistLangs(wordlistLang, available)
	if err != nil {
		return err
	}

	outDir := config.DefaultWordListDir()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, langCode := range langs {
		outPath := filepath.Join(outDir, langCode+".txt")
		if !wordlistForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("word list already exists: %s (use --force to overwrite)", outPath)
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to stat word list: %w", err)
			}
		}

		logErrf("Extracting %s word list...\n", langCode)
		extracted, err := wordfreq.ExtractWordlist(wheel.Path, langCode, "large", wordlistSize)
		if err != nil {
			if allRequested {
				logErrf("Skipping %s: %v\n", langCode, err)
				continue
			}
			return fmt.Errorf("failed to extract %s word list: %w", langCode, err)
		}
		if err := writeWordList(outPath, extracted); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		logErrf("Wrote %s\n", outPath)
	}

	if err := wordfreq.WriteAttribution(outDir); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}
	logErrln("Wrote ATTRIBUTION.txt")
	return nil
}

func resolveWordlistLangs(lang string, available []string) ([]string, bool, error) {
	lang = strings.TrimSpace(strings.ToLower(lang))
	if lang == "" {
		return []string{"en"}, false, nil
	}
	if lang == "all" {
		return append([]string(nil), available...), true, nil
	}
	availableSet := make(map[string]struct{}, len(available))
	for _, a := range available {
		availableSet[a] = struct{}{}
	}
	parts := strings.Split(lang, ",")
	requested := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if _, ok := availableSet[part]; !ok {
			return nil, false, fmt.Errorf("unknown language %q (available: %s)", part, strings.Join(available, ", "))
		}
		requested = append(requested, part)
	}
	if len(requested) == 0 {
		return nil, false, fmt.Errorf("--lang must not be empty")
	}
	return requested, false, nil
}

func writeWordList(path string, list []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create word list dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "wordlist-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, word := range list {
		if _, err := fmt.Fprintln(writer, word); err != nil {
			return fmt.Errorf("failed to write word list: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush word list: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close word list: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write word list: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wordspot configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# lang = "en"                  # Language code
# server = %q                  # Subtitle extraction server
# grid-columns = 5             # Grid columns
# grid-rows = 5                # Grid rows
# clicks-to-overcome = 3       # Catches needed to overcome a word
# sorting = "frequency"        # frequency, appearance-order, difficulty, random
# pause-aware = false          # Freeze word freshness while paused
`, defaultServer)
}

// openPlayStore opens the stats database for the game. An unusable database
// must not stop a session: the failure is logged and a nil store is returned,
// which means defaults are used and nothing is persisted.
func openPlayStore(path string) *store.Store {
	st, err := store.Open(path)
	if err != nil {
		logErrf("failed to open db, continuing without persistence: %v\n", err)
		return nil
	}
	return st
}

// trackerPersister adapts an optional store to the tracker's interface.
// A nil *store.Store must become a nil interface, not a typed nil.
func trackerPersister(st *store.Store) difficulty.Persister {
	if st == nil {
		return nil
	}
	return st
}

// loadPlayWordList loads the language word list from disk and remembers it in
// the store, so a later run can fall back to the stored copy when the file is
// gone.
func loadPlayWordList(st *store.Store, lang string) (*words.List, error) {
	ctx := context.Background()
	listPath := config.DefaultWordListPath(lang)
	list, err := words.LoadList(listPath)
	if err == nil {
		if st != nil {
			if serr := st.SaveWordList(ctx, list.Words()); serr != nil {
				logErrf("failed to remember word list: %v\n", serr)
			}
		}
		return list, nil
	}

	if st != nil {
		stored, lerr := st.LoadWordList(ctx)
		if lerr != nil {
			logErrf("failed to load stored word list: %v\n", lerr)
		} else if len(stored) > 0 {
			logErrf("word list file unavailable (%v); using the stored copy\n", err)
			return words.NewList(lang, stored), nil
		}
	}
	return nil, wordListLoadError(lang, listPath, err)
}

// applyStoredSettings fills flags from the settings table when neither the
// flag nor the config file set them. Defaults < stored < file < flags.
// A nil store leaves the flags untouched.
func applyStoredSettings(cmd *cobra.Command, fileCfg config.FileConfig, st *store.Store) {
	if st == nil {
		return
	}
	ctx := context.Background()
	if !cmd.Flags().Changed("sorting") && fileCfg.Game.Sorting == nil {
		if v, ok, err := st.GetSetting(ctx, store.KeySortingMode); err == nil && ok {
			playSorting = v
		}
	}
	if !cmd.Flags().Changed("pause-aware") && fileCfg.Game.PauseAware == nil {
		if v, ok, err := st.GetSetting(ctx, store.KeyPauseAware); err == nil && ok {
			playPauseAware = v == "true"
		}
	}
	if !cmd.Flags().Changed("columns") && fileCfg.Game.GridColumns == nil {
		if v, ok, err := st.GetSetting(ctx, store.KeyGridColumns); err == nil && ok {
			if n, perr := strconv.Atoi(v); perr == nil {
				playColumns = n
			}
		}
	}
	if !cmd.Flags().Changed("rows") && fileCfg.Game.GridRows == nil {
		if v, ok, err := st.GetSetting(ctx, store.KeyGridRows); err == nil && ok {
			if n, perr := strconv.Atoi(v); perr == nil {
				playRows = n
			}
		}
	}
	if !cmd.Flags().Changed("clicks") && fileCfg.Game.ClicksToOvercome == nil {
		if v, ok, err := st.GetSetting(ctx, store.KeyClicksToOvercome); err == nil && ok {
			if n, perr := strconv.Atoi(v); perr == nil {
				playClicks = n
			}
		}
	}
}

// persistSettings remembers the effective game settings for the next run.
// Writes are dropped when the store is unavailable.
func persistSettings(st *store.Store, cfg model.Config) {
	if st == nil {
		return
	}
	ctx := context.Background()
	pairs := map[string]string{
		store.KeySortingMode:      string(cfg.SortingMode),
		store.KeyPauseAware:       strconv.FormatBool(cfg.PauseAware),
		store.KeyGridColumns:      strconv.Itoa(cfg.GridColumns),
		store.KeyGridRows:         strconv.Itoa(cfg.GridRows),
		store.KeyClicksToOvercome: strconv.Itoa(cfg.ClicksToOvercome),
	}
	for key, value := range pairs {
		if err := st.SetSetting(ctx, key, value); err != nil {
			logErrf("failed to save setting %s: %v\n", key, err)
		}
	}
}

func validateConfig(cfg model.Config) error {
	if cfg.GridColumns < 1 || cfg.GridColumns > 20 {
		return fmt.Errorf("--columns must be between 1 and 20")
	}
	if cfg.GridRows < 1 || cfg.GridRows > 20 {
		return fmt.Errorf("--rows must be between 1 and 20")
	}
	if cfg.ClicksToOvercome < 1 || cfg.ClicksToOvercome > 6 {
		return fmt.Errorf("--clicks must be between 1 and 6")
	}
	if !cfg.SortingMode.IsValid() {
		return fmt.Errorf("--sorting must be one of: frequency, appearance-order, difficulty, random")
	}
	return nil
}

func validityWindow(cfg model.Config) time.Duration {
	return time.Duration(cfg.ValidityWindowMs) * time.Millisecond
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("Download: wordspot wordlist --lang %s", lang),
		"Download all: wordspot wordlist --lang all",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
