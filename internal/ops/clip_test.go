package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/subloop/internal/errors"
)

const clipSRT = `1
00:00:10,000 --> 00:00:12,500
how are you doing

2
00:00:12,500 --> 00:00:15,000
long time no see

3
00:00:15,000 --> 00:00:18,000
what have you been up to
`

const clipTimedText = `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="10" dur="2.5">how are you doing</text>
  <text start="12.5" dur="2.5">long time no see</text>
  <text start="15" dur="3">what have you been up to</text>
</transcript>
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestClip_SRT(t *testing.T) {
	path := writeTempFile(t, "video.srt", clipSRT)

	out, err := Clip(ClipInput{TranscriptPath: path, Start: "0:10", End: "0:15"})
	if err != nil {
		t.Fatalf("Clip failed: %v", err)
	}
	if out.Text != "how are you doing long time no see" {
		t.Errorf("Text = %q", out.Text)
	}
	if out.Segments != 2 {
		t.Errorf("Segments = %d, want 2", out.Segments)
	}
	if out.Span != "0:10-0:15" {
		t.Errorf("Span = %q, want 0:10-0:15", out.Span)
	}
}

func TestClip_TimedText(t *testing.T) {
	path := writeTempFile(t, "video.xml", clipTimedText)

	out, err := Clip(ClipInput{TranscriptPath: path, Start: "0:12", End: "0:16"})
	if err != nil {
		t.Fatalf("Clip failed: %v", err)
	}
	if out.Text != "long time no see what have you been up to" {
		t.Errorf("Text = %q", out.Text)
	}
}

func TestClip_SwappedTimestamps(t *testing.T) {
	path := writeTempFile(t, "video.srt", clipSRT)

	out, err := Clip(ClipInput{TranscriptPath: path, Start: "0:15", End: "0:10"})
	if err != nil {
		t.Fatalf("Clip failed: %v", err)
	}
	if out.Start != 10 || out.End != 15 {
		t.Errorf("range = [%v, %v), want [10, 15)", out.Start, out.End)
	}
}

func TestClip_UnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "video.txt", "plain text")

	_, err := Clip(ClipInput{TranscriptPath: path, Start: "0:00", End: "0:10"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestClip_MissingFile(t *testing.T) {
	_, err := Clip(ClipInput{
		TranscriptPath: filepath.Join(t.TempDir(), "nope.srt"),
		Start:          "0:00",
		End:            "0:10",
	})
	if !errors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}
