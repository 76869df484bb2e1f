package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/wordspot/internal/model"
)

// FileSource loads a transcript from a local subtitle file.
// Format is chosen by extension, falling back to content sniffing.
type FileSource struct {
	Path string
}

// Fetch implements Source.
func (s FileSource) Fetch(_ context.Context) (model.Transcript, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return model.Transcript{}, fmt.Errorf("%w: %v", ErrNoTranscript, err)
	}
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".ttml", ".xml":
		return ParseTTML(data)
	case ".srt", ".vtt":
		return ParseSRT(data)
	}
	return sniff(data)
}

func sniff(data []byte) (model.Transcript, error) {
	head := strings.TrimSpace(string(data))
	if strings.HasPrefix(head, "<") {
		return ParseTTML(data)
	}
	return ParseSRT(data)
}

// FileCaptionSource reads the currently displayed caption from a file that
// an external player keeps overwriting.
type FileCaptionSource struct {
	Path string
}

// ReadCurrent implements CaptionSource. A missing file reads as no caption.
func (s FileCaptionSource) ReadCurrent() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read caption file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
