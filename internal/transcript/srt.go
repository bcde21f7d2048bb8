package transcript

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseSRT reads SubRip cues and returns them as ordered segments.
// Cue blocks are separated by blank lines:
//
//	1
//	00:00:10,500 --> 00:00:13,000
//	subtitle text
//
// Blocks without a parseable timing line are skipped; an input with no usable
// cues at all is an error.
func ParseSRT(r io.Reader) ([]Segment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.TrimPrefix(content, "\uFEFF")

	var segments []Segment
	for _, block := range strings.Split(strings.TrimSpace(content), "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) == 0 {
			continue
		}

		// Find the timing line; the optional cue number precedes it.
		timingIdx := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timingIdx = i
				break
			}
		}
		if timingIdx < 0 || timingIdx+1 >= len(lines) {
			continue
		}

		parts := strings.Split(lines[timingIdx], "-->")
		if len(parts) != 2 {
			continue
		}
		start, err := parseSRTTimestamp(parts[0])
		if err != nil {
			continue
		}

		text := strings.TrimSpace(strings.Join(lines[timingIdx+1:], " "))
		if text == "" {
			continue
		}

		segments = append(segments, Segment{
			Index: len(segments),
			Start: start,
			Text:  text,
		})
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("no subtitle cues found")
	}
	return segments, nil
}

// parseSRTTimestamp parses "HH:MM:SS,mmm" (period accepted for the millisecond
// separator) into seconds.
func parseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	// Normalize period to comma (SRT standard uses comma for milliseconds)
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
