package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verte-zerg/wordspot/internal/model"
)

const defaultFetchTimeout = 90 * time.Second

// ServerSource fetches a transcript from the local subtitle-extraction
// server, which wraps yt-dlp and returns parsed TTML entries as JSON.
type ServerSource struct {
	BaseURL  string
	VideoURL string
	Client   *http.Client
}

type extractRequest struct {
	URL string `json:"url"`
}

type extractResponse struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	VideoID  string `json:"video_id"`
	Language string `json:"language"`
	Subtitles []struct {
		Text  string  `json:"text"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"subtitles"`
}

// Fetch implements Source by calling POST /extract-subtitles.
func (s ServerSource) Fetch(ctx context.Context) (model.Transcript, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}

	body, err := json.Marshal(extractRequest{URL: s.VideoURL})
	if err != nil {
		return model.Transcript{}, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.BaseURL+"/extract-subtitles", bytes.NewReader(body))
	if err != nil {
		return model.Transcript{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return model.Transcript{}, fmt.Errorf("%w: %v", ErrNoTranscript, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return model.Transcript{}, fmt.Errorf("%w: %v", ErrNoTranscript, err)
	}

	var parsed extractResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return model.Transcript{}, fmt.Errorf("%w: %v", ErrCorruptTranscript, err)
	}
	if !parsed.Success {
		if parsed.Error != "" {
			return model.Transcript{}, fmt.Errorf("%w: %s", ErrNoTranscript, parsed.Error)
		}
		return model.Transcript{}, ErrNoTranscript
	}
	if len(parsed.Subtitles) == 0 {
		return model.Transcript{}, ErrCorruptTranscript
	}

	entries := make([]model.TranscriptEntry, 0, len(parsed.Subtitles))
	for _, sub := range parsed.Subtitles {
		if sub.Text == "" {
			continue
		}
		entries = append(entries, model.TranscriptEntry{
			Text:  sub.Text,
			Start: sub.Start,
			End:   sub.End,
		})
	}
	if len(entries) == 0 {
		return model.Transcript{}, ErrCorruptTranscript
	}
	return model.Transcript{Language: parsed.Language, Entries: entries}, nil
}
