package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/subloop/internal/errors"
)

func TestSave_HappyPath(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	out, err := Save(ctx, database, SaveInput{
		VideoID:    "dQw4w9WgXcQ",
		VideoTitle: stringPtr("Interview with a polyglot"),
		Start:      62,
		End:        67.5,
		Text:       "it goes without saying",
		Note:       stringPtr("fixed expression"),
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(out.ID) != 26 {
		t.Errorf("ID length = %d, want 26 (ULID)", len(out.ID))
	}
	if out.GroupID != nil {
		t.Errorf("GroupID = %v, want nil", out.GroupID)
	}

	fetched, err := Fetch(ctx, database, FetchInput{ID: out.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Text != "it goes without saying" {
		t.Errorf("Text = %q", fetched.Text)
	}
	if fetched.Span != "1:02-1:07" {
		t.Errorf("Span = %q, want 1:02-1:07", fetched.Span)
	}
}

func TestSave_NormalizesSwappedRange(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	out, err := Save(ctx, database, SaveInput{
		VideoID: "vid1",
		Start:   20,
		End:     10,
		Text:    "backwards",
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	fetched, err := Fetch(ctx, database, FetchInput{ID: out.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Start != 10 || fetched.End != 20 {
		t.Errorf("range = [%v, %v), want [10, 20)", fetched.Start, fetched.End)
	}
}

func TestSave_Validation(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input SaveInput
	}{
		{"missing video_id", SaveInput{Text: "hi", Start: 1, End: 2}},
		{"missing text", SaveInput{VideoID: "v", Start: 1, End: 2}},
		{"negative start", SaveInput{VideoID: "v", Text: "hi", Start: -1, End: 2}},
		{"zero-width range", SaveInput{VideoID: "v", Text: "hi", Start: 5, End: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Save(ctx, database, tt.input)
			if !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("err = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

func TestSave_WithGroup(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	// Unknown group without create flag fails
	_, err := Save(ctx, database, SaveInput{
		VideoID: "v",
		Start:   1,
		End:     2,
		Text:    "hi",
		Group:   stringPtr("Idioms"),
	})
	if !errors.Is(err, errors.ErrGroupNotFound) {
		t.Fatalf("err = %v, want GROUP_NOT_FOUND", err)
	}

	// With create flag the group is made and attached
	out, err := Save(ctx, database, SaveInput{
		VideoID:            "v",
		Start:              1,
		End:                2,
		Text:               "hi",
		Group:              stringPtr("Idioms"),
		CreateMissingGroup: true,
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if out.GroupID == nil {
		t.Fatal("GroupID = nil, want set")
	}

	// Same name (case-insensitive) reuses the group
	out2, err := Save(ctx, database, SaveInput{
		VideoID:            "v",
		Start:              3,
		End:                4,
		Text:               "there",
		Group:              stringPtr("  IDIOMS "),
		CreateMissingGroup: true,
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if *out2.GroupID != *out.GroupID {
		t.Errorf("GroupID = %q, want %q", *out2.GroupID, *out.GroupID)
	}
}
