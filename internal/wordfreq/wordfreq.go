// Package wordfreq extracts frequency-ranked word lists from the wordfreq
// dataset wheel.
package wordfreq

import (
	"archive/zip"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/verte-zerg/wordspot/internal/words"
)

const pypiEndpoint = "https://pypi.org/pypi/wordfreq/json"

// Wheel describes a cached wordfreq wheel.
type Wheel struct {
	Version  string
	Path     string
	Filename string
	Cached   bool
}

type wordEntry struct {
	word  string
	score float64
}

type pypiResponse struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
	URLs []struct {
		URL         string `json:"url"`
		Filename    string `json:"filename"`
		Packagetype string `json:"packagetype"`
	} `json:"urls"`
}

// DownloadLatestWheel fetches the latest wordfreq wheel into cacheDir. An
// already cached wheel is reused without a download.
func DownloadLatestWheel(ctx context.Context, cacheDir string) (Wheel, error) {
	if cacheDir == "" {
		return Wheel{}, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Wheel{}, fmt.Errorf("failed to create cache dir: %w", err)
	}

	resp, err := httpRequest(ctx, pypiEndpoint)
	if err != nil {
		return Wheel{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return Wheel{}, fmt.Errorf("unexpected pypi status: %s", resp.Status)
	}

	var payload pypiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Wheel{}, fmt.Errorf("failed to decode pypi response: %w", err)
	}
	if payload.Info.Version == "" {
		return Wheel{}, fmt.Errorf("missing version in pypi response")
	}

	url, filename := pickWheelURL(payload)
	if url == "" {
		return Wheel{}, fmt.Errorf("no suitable wordfreq wheel found")
	}

	destPath := filepath.Join(cacheDir, filename)
	if _, err := os.Stat(destPath); err == nil {
		return Wheel{Version: payload.Info.Version, Path: destPath, Filename: filename, Cached: true}, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Wheel{}, fmt.Errorf("failed to stat cached wheel: %w", err)
	}

	tmpFile, err := os.CreateTemp(cacheDir, "wordfreq-*.whl")
	if err != nil {
		return Wheel{}, fmt.Errorf("failed to create temp wheel: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	wheelResp, err := httpRequest(ctx, url)
	if err != nil {
		return Wheel{}, err
	}
	defer func() {
		_ = wheelResp.Body.Close()
	}()
	if wheelResp.StatusCode != http.StatusOK {
		return Wheel{}, fmt.Errorf("unexpected wheel status: %s", wheelResp.Status)
	}

	if _, err := io.Copy(tmpFile, wheelResp.Body); err != nil {
		return Wheel{}, fmt.Errorf("failed to download wheel: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return Wheel{}, fmt.Errorf("failed to close temp wheel: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return Wheel{}, fmt.Errorf("failed to move wheel into cache: %w", err)
	}

	return Wheel{Version: payload.Info.Version, Path: destPath, Filename: filename, Cached: false}, nil
}

func pickWheelURL(payload pypiResponse) (string, string) {
	for _, u := range payload.URLs {
		if u.Packagetype == "bdist_wheel" && strings.HasSuffix(u.Filename, "py3-none-any.whl") {
			return u.URL, u.Filename
		}
	}
	for _, u := range payload.URLs {
		if u.Packagetype == "bdist_wheel" {
			return u.URL, u.Filename
		}
	}
	return "", ""
}

func httpRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// ExtractWordlist extracts the top words for the given language and list type
// ("small" or "large"), most frequent first.
func ExtractWordlist(wheelPath, lang, listType string, limit int) ([]string, error) {
	if wheelPath == "" {
		return nil, fmt.Errorf("wheel path is required")
	}
	lang = strings.ToLower(lang)
	if lang == "" {
		return nil, fmt.Errorf("language is required")
	}
	if listType == "" {
		return nil, fmt.Errorf("word list type is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}

	entries, err := readWordEntries(wheelPath, lang, listType)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	out := make([]string, 0, limit)
	seen := make(map[string]struct{})
	langFilter := words.FilterForLang(lang)
	for _, entry := range entries {
		if _, ok := seen[entry.word]; ok {
			continue
		}
		if !isAlpha(entry.word) {
			continue
		}
		length := utf8.RuneCountInString(entry.word)
		if length < 2 || length > 20 {
			continue
		}
		if !langFilter(entry.word) {
			continue
		}
		seen[entry.word] = struct{}{}
		out = append(out, entry.word)
		if len(out) >= limit {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no words found for %s/%s", lang, listType)
	}
	return out, nil
}

func readWordEntries(wheelPath, lang, listType string) ([]wordEntry, error) {
	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	dataFile := findDataFile(reader.File, lang, listType)
	if dataFile == nil {
		return nil, fmt.Errorf("no data file found for %s/%s", lang, listType)
	}

	rc, err := dataFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer func() {
		_ = rc.Close()
	}()

	var stream io.Reader = rc
	if strings.HasSuffix(dataFile.Name, ".gz") {
		gz, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer func() {
			_ = gz.Close()
		}()
		stream = gz
	}

	var payload interface{}
	if err := msgpack.NewDecoder(stream).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode wordfreq data: %w", err)
	}
	entries, err := entriesFromPayload(payload)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("wordfreq data contained no entries")
	}
	return entries, nil
}

// findDataFile locates the msgpack data file for a language. Wheels name
// their files wordfreq/data/<type>_<lang>.msgpack[.gz].
func findDataFile(files []*zip.File, lang, listType string) *zip.File {
	wanted := []string{
		fmt.Sprintf("wordfreq/data/%s_%s.msgpack.gz", listType, lang),
		fmt.Sprintf("wordfreq/data/%s_%s.msgpack", listType, lang),
	}
	for _, file := range files {
		for _, name := range wanted {
			if strings.EqualFold(file.Name, name) {
				return file
			}
		}
	}
	return nil
}

// entriesFromPayload handles the cBpack layout (a header map followed by
// frequency buckets of words, most frequent bucket first) and the plain
// word-to-score map layout.
func entriesFromPayload(payload interface{}) ([]wordEntry, error) {
	switch v := payload.(type) {
	case []interface{}:
		return entriesFromBuckets(v)
	case map[string]interface{}:
		return entriesFromScores(v)
	default:
		return nil, fmt.Errorf("unsupported wordfreq data root %T", payload)
	}
}

func entriesFromBuckets(items []interface{}) ([]wordEntry, error) {
	var entries []wordEntry
	for i, item := range items {
		if _, ok := item.(map[string]interface{}); ok && i == 0 {
			// cBpack header.
			continue
		}
		bucket, ok := toStringSlice(item)
		if !ok {
			return nil, fmt.Errorf("unsupported wordfreq bucket %T", item)
		}
		score := float64(len(items) - i)
		for _, word := range bucket {
			entries = append(entries, wordEntry{word: word, score: score})
		}
	}
	return entries, nil
}

func entriesFromScores(items map[string]interface{}) ([]wordEntry, error) {
	entries := make([]wordEntry, 0, len(items))
	for word, value := range items {
		score, ok := toFloat64(value)
		if !ok {
			continue
		}
		entries = append(entries, wordEntry{word: word, score: score})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no word entries parsed from map")
	}
	return entries, nil
}

func toStringSlice(v interface{}) ([]string, bool) {
	items, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch s := item.(type) {
		case string:
			out = append(out, s)
		case []byte:
			if !utf8.Valid(s) {
				return nil, false
			}
			out = append(out, string(s))
		default:
			return nil, false
		}
	}
	return out, true
}

func toFloat64(v interface{}) (float64, bool) {
	switch num := v.(type) {
	case float64:
		return num, true
	case float32:
		return float64(num), true
	case int64:
		return float64(num), true
	case uint64:
		return float64(num), true
	case int:
		return float64(num), true
	default:
		return 0, false
	}
}

func isAlpha(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return word != ""
}

// Languages lists the language codes available in the wheel for a list type.
func Languages(wheelPath, listType string) ([]string, error) {
	if wheelPath == "" {
		return nil, fmt.Errorf("wheel path is required")
	}
	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	prefix := "wordfreq/data/" + strings.ToLower(listType) + "_"
	var langs []string
	for _, file := range reader.File {
		name := strings.ToLower(file.Name)
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		lang := strings.TrimPrefix(name, prefix)
		lang = strings.TrimSuffix(lang, ".gz")
		lang = strings.TrimSuffix(lang, ".msgpack")
		if lang != "" {
			langs = append(langs, lang)
		}
	}
	if len(langs) == 0 {
		return nil, fmt.Errorf("no languages found in wordfreq wheel")
	}
	sort.Strings(langs)
	return langs, nil
}

// WriteAttribution writes attribution and data-license files next to the
// generated word lists.
func WriteAttribution(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	attrText := strings.Join([]string{
		"Word lists generated from the wordfreq dataset.",
		"Source: https://github.com/rspeer/wordfreq",
		"Data license: Creative Commons Attribution-ShareAlike 4.0 International (CC BY-SA 4.0).",
		"https://creativecommons.org/licenses/by-sa/4.0/",
		"Changes were made: filtered to alphabetic words and truncated to the requested size.",
		"Please attribute wordfreq when redistributing derived word lists.",
		"",
	}, "\n")
	attrPath := filepath.Join(outDir, "ATTRIBUTION.txt")
	if err := os.WriteFile(attrPath, []byte(attrText), 0o644); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}
	return nil
}
