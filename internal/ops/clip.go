package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/subloop/internal/errors"
	"github.com/hpungsan/subloop/internal/transcript"
)

// ClipInput contains parameters for the Clip operation.
type ClipInput struct {
	TranscriptPath string // required, .srt or .xml
	Start          string // clock timestamp, e.g. "1:02"
	End            string // clock timestamp, e.g. "1:07"
}

// ClipOutput contains the result of the Clip operation.
type ClipOutput struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start_time"`
	End      float64 `json:"end_time"`
	Span     string  `json:"span"`
	Segments int     `json:"segments"` // segments the range touched
}

// Clip extracts the transcript text covering a time range from a subtitle
// file. The format is chosen by extension: .srt for SubRip, .xml for
// YouTube timedtext.
func Clip(input ClipInput) (*ClipOutput, error) {
	if strings.TrimSpace(input.TranscriptPath) == "" {
		return nil, errors.NewInvalidRequest("transcript path is required")
	}
	if strings.TrimSpace(input.Start) == "" || strings.TrimSpace(input.End) == "" {
		return nil, errors.NewInvalidRequest("start and end timestamps are required")
	}

	segments, err := LoadTranscript(input.TranscriptPath)
	if err != nil {
		return nil, err
	}

	start, end := normalizeRange(
		transcript.ParseTimestamp(input.Start),
		transcript.ParseTimestamp(input.End),
	)
	if start == end {
		return nil, errors.NewInvalidRequest("start and end must differ")
	}

	text := transcript.TextForRange(segments, start, end)

	count := 0
	for _, s := range segments {
		if s.Start >= start && s.Start < end {
			count++
		}
	}

	return &ClipOutput{
		Text:     text,
		Start:    start,
		End:      end,
		Span:     FormatSpan(start, end),
		Segments: count,
	}, nil
}

// LoadTranscript reads and parses a subtitle file by extension.
func LoadTranscript(path string) ([]transcript.Segment, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".srt" && ext != ".xml" {
		return nil, errors.NewInvalidRequest("transcript must be a .srt or .xml file")
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFound(path)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open transcript: %w", err))
	}
	defer file.Close()

	var segments []transcript.Segment
	if ext == ".srt" {
		segments, err = transcript.ParseSRT(file)
	} else {
		segments, err = transcript.ParseTimedText(file)
	}
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("failed to parse transcript: %v", err))
	}

	return segments, nil
}
