package transcript

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// XML structure definitions for the YouTube timedtext format.
type timedText struct {
	XMLName xml.Name      `xml:"timedtext"`
	Body    timedTextBody `xml:"body"`
}

type timedTextBody struct {
	Paragraphs []timedTextPara `xml:"p"`
}

type timedTextPara struct {
	Time     string `xml:"t,attr"` // start time in milliseconds
	Duration string `xml:"d,attr"`
	Content  string `xml:",chardata"`
}

// ParseTimedText reads a YouTube timedtext XML document and returns its
// paragraphs as ordered segments. Paragraphs with empty text or an
// unparseable start time are skipped.
func ParseTimedText(r io.Reader) ([]Segment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read timedtext: %w", err)
	}

	var doc timedText
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse timedtext: %w", err)
	}

	var segments []Segment
	for _, p := range doc.Body.Paragraphs {
		text := strings.TrimSpace(p.Content)
		if text == "" {
			continue
		}
		ms, err := strconv.Atoi(strings.TrimSpace(p.Time))
		if err != nil || ms < 0 {
			continue
		}
		segments = append(segments, Segment{
			Index: len(segments),
			Start: float64(ms) / 1000,
			Text:  text,
		})
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("no timedtext paragraphs found")
	}
	return segments, nil
}
