package transcript

import "strings"

// Segment is one subtitle entry: a start time and its text.
// Segments are produced in ascending Start order; a re-ingest replaces the
// whole slice rather than mutating individual entries.
type Segment struct {
	// Index is the segment's position in transcript order
	Index int `json:"index"`

	// Start is the segment start time in seconds
	Start float64 `json:"start_time"`

	// Text is the subtitle text
	Text string `json:"text"`
}

// FindSegmentAtTime returns the segment whose half-open window contains t:
// the segment s_i with s_i.Start <= t < s_{i+1}.Start. The last segment's
// window extends to infinity. Returns nil when t precedes the first segment
// or the slice is empty.
func FindSegmentAtTime(segments []Segment, t float64) *Segment {
	for i := range segments {
		if t < segments[i].Start {
			if i == 0 {
				return nil
			}
			return &segments[i-1]
		}
	}
	if len(segments) == 0 {
		return nil
	}
	return &segments[len(segments)-1]
}

// TextForRange concatenates, in order, the text of every segment whose start
// falls inside the half-open range [start, end), joined by single spaces.
// A segment starting exactly at end is excluded.
func TextForRange(segments []Segment, start, end float64) string {
	var parts []string
	for _, s := range segments {
		if s.Start >= start && s.Start < end {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}

// EndOf returns the end time of segments[i]: the next segment's start, or the
// segment's own start plus fallback when it is the last segment. fallback is
// the configured assumed segment duration.
func EndOf(segments []Segment, i int, fallback float64) float64 {
	if i+1 < len(segments) {
		return segments[i+1].Start
	}
	return segments[i].Start + fallback
}
