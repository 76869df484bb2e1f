package transcript

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/wordspot/internal/model"
)

type ttmlDoc struct {
	XMLName xml.Name `xml:"tt"`
	Lang    string   `xml:"lang,attr"`
	Body    ttmlBody `xml:"body"`
}

type ttmlBody struct {
	Paragraphs []ttmlParagraph `xml:"div>p"`
}

type ttmlParagraph struct {
	Begin string `xml:"begin,attr"`
	End   string `xml:"end,attr"`
	Text  string `xml:",chardata"`
	Spans []struct {
		Text string `xml:",chardata"`
	} `xml:"span"`
}

// ParseTTML parses a TTML subtitle document into timed entries.
func ParseTTML(data []byte) (model.Transcript, error) {
	var doc ttmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return model.Transcript{}, fmt.Errorf("%w: %v", ErrCorruptTranscript, err)
	}

	var entries []model.TranscriptEntry
	for _, p := range doc.Body.Paragraphs {
		text := strings.TrimSpace(p.Text)
		for _, span := range p.Spans {
			span := strings.TrimSpace(span.Text)
			if span == "" {
				continue
			}
			if text != "" {
				text += " "
			}
			text += span
		}
		if text == "" {
			continue
		}
		entries = append(entries, model.TranscriptEntry{
			Text:  text,
			Start: parseClock(p.Begin),
			End:   parseClock(p.End),
		})
	}
	if len(entries) == 0 {
		return model.Transcript{}, ErrCorruptTranscript
	}
	return model.Transcript{Language: doc.Lang, Entries: entries}, nil
}

// parseClock accepts the TTML time forms "12.345s", "00:01:23.456",
// "01:23.456", and a bare seconds number. Unparseable input maps to 0.
func parseClock(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if strings.HasSuffix(raw, "s") {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "s"), 64); err == nil {
			return v
		}
		return 0
	}
	if strings.Contains(raw, ":") {
		parts := strings.Split(raw, ":")
		total := 0.0
		for _, part := range parts {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return 0
			}
			total = total*60 + v
		}
		return total
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return 0
}
