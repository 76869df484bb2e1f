package transcript

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const sampleTTML = `<?xml version="1.0" encoding="utf-8"?>
<tt xmlns="http://www.w3.org/ns/ttml" xml:lang="en">
  <body>
    <div>
      <p begin="1.5s" end="3.0s">The cat sat</p>
      <p begin="00:00:04.250" end="00:00:06.000">on the mat</p>
      <p begin="7s" end="8s"></p>
    </div>
  </body>
</tt>`

const sampleSRT = `1
00:00:01,500 --> 00:00:03,000
The cat sat

2
00:00:04,250 --> 00:00:06,000
on the
mat
`

const sampleVTT = `WEBVTT

00:01.500 --> 00:03.000 align:start
<c.yellow>The cat</c> sat
`

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseTTML(t *testing.T) {
	tr, err := ParseTTML([]byte(sampleTTML))
	if err != nil {
		t.Fatalf("ParseTTML failed: %v", err)
	}
	if tr.Language != "en" {
		t.Fatalf("expected language en, got %q", tr.Language)
	}
	if len(tr.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(tr.Entries))
	}
	first := tr.Entries[0]
	if first.Text != "The cat sat" || !closeEnough(first.Start, 1.5) || !closeEnough(first.End, 3.0) {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	second := tr.Entries[1]
	if !closeEnough(second.Start, 4.25) {
		t.Fatalf("expected clock-format start 4.25, got %v", second.Start)
	}
}

func TestParseTTMLCorrupt(t *testing.T) {
	if _, err := ParseTTML([]byte("not xml at all")); !errors.Is(err, ErrCorruptTranscript) {
		t.Fatalf("expected ErrCorruptTranscript, got %v", err)
	}
	empty := `<tt xmlns="http://www.w3.org/ns/ttml"><body><div></div></body></tt>`
	if _, err := ParseTTML([]byte(empty)); !errors.Is(err, ErrCorruptTranscript) {
		t.Fatalf("expected ErrCorruptTranscript for empty doc, got %v", err)
	}
}

func TestParseSRT(t *testing.T) {
	tr, err := ParseSRT([]byte(sampleSRT))
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}
	if len(tr.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(tr.Entries))
	}
	if !closeEnough(tr.Entries[0].Start, 1.5) || tr.Entries[0].Text != "The cat sat" {
		t.Fatalf("unexpected first entry: %+v", tr.Entries[0])
	}
	if tr.Entries[1].Text != "on the mat" {
		t.Fatalf("expected multi-line cue joined, got %q", tr.Entries[1].Text)
	}
}

func TestParseVTT(t *testing.T) {
	tr, err := ParseSRT([]byte(sampleVTT))
	if err != nil {
		t.Fatalf("ParseSRT failed for vtt: %v", err)
	}
	if len(tr.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(tr.Entries))
	}
	entry := tr.Entries[0]
	if entry.Text != "The cat sat" {
		t.Fatalf("expected cue tags stripped, got %q", entry.Text)
	}
	if !closeEnough(entry.Start, 1.5) || !closeEnough(entry.End, 3.0) {
		t.Fatalf("unexpected timing: %+v", entry)
	}
}

func TestFileSourceByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "video.srt")
	if err := os.WriteFile(path, []byte(sampleSRT), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	tr, err := FileSource{Path: path}.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(tr.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(tr.Entries))
	}
}

func TestFileSourceSniffsContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "captions.sub")
	if err := os.WriteFile(path, []byte(sampleTTML), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	tr, err := FileSource{Path: path}.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if tr.Language != "en" {
		t.Fatalf("expected TTML sniffed, got %+v", tr)
	}
}

func TestFileSourceMissing(t *testing.T) {
	_, err := FileSource{Path: "/nonexistent/captions.srt"}.Fetch(context.Background())
	if !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("expected ErrNoTranscript, got %v", err)
	}
}

func TestFileCaptionSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "current.txt")

	src := FileCaptionSource{Path: path}
	if text, err := src.ReadCurrent(); err != nil || text != "" {
		t.Fatalf("expected empty caption for missing file, got %q err %v", text, err)
	}

	if err := os.WriteFile(path, []byte("  The cat sat  \n"), 0o644); err != nil {
		t.Fatalf("failed to write caption: %v", err)
	}
	text, err := src.ReadCurrent()
	if err != nil {
		t.Fatalf("ReadCurrent failed: %v", err)
	}
	if text != "The cat sat" {
		t.Fatalf("expected trimmed caption, got %q", text)
	}
}

func TestServerSourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/extract-subtitles" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{
			"success": true,
			"video_id": "abc123def45",
			"language": "en",
			"subtitles": [
				{"text": "The cat sat", "start": 1.5, "end": 3.0},
				{"text": "on the mat", "start": 4.25, "end": 6.0}
			]
		}`)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	src := ServerSource{BaseURL: server.URL, VideoURL: "https://youtu.be/abc123def45"}
	tr, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if tr.Language != "en" || len(tr.Entries) != 2 {
		t.Fatalf("unexpected transcript: %+v", tr)
	}
}

func TestServerSourceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		if _, err := w.Write([]byte(`{"success": false, "error": "No subtitles available for this video"}`)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	src := ServerSource{BaseURL: server.URL, VideoURL: "https://youtu.be/abc123def45"}
	if _, err := src.Fetch(context.Background()); !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("expected ErrNoTranscript, got %v", err)
	}
}
