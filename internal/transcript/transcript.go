// Package transcript loads timed subtitle tracks from local files or the
// subtitle-extraction server.
package transcript

import (
	"context"
	"errors"

	"github.com/verte-zerg/wordspot/internal/model"
)

// ErrNoTranscript indicates no subtitle data could be obtained at all.
var ErrNoTranscript = errors.New("no transcript available")

// ErrCorruptTranscript indicates subtitle data was obtained but could not
// be parsed into any timed entries.
var ErrCorruptTranscript = errors.New("transcript is corrupt")

// Source provides a timed transcript for the current video.
type Source interface {
	Fetch(ctx context.Context) (model.Transcript, error)
}

// CaptionSource reads the caption text currently on screen. An empty string
// means no caption is visible right now.
type CaptionSource interface {
	ReadCurrent() (string, error)
}
