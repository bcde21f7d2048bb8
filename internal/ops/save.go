package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/subloop/internal/db"
	"github.com/hpungsan/subloop/internal/errors"
	"github.com/hpungsan/subloop/internal/phrase"
)

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	VideoID    string  // required
	VideoURL   *string // optional
	VideoTitle *string // optional
	Start      float64
	End        float64
	Text       string  // required
	Note       *string // optional
	Group      *string // optional group name

	// CreateMissingGroup creates the group when the name resolves to nothing.
	CreateMissingGroup bool
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	ID      string  `json:"id"`
	GroupID *string `json:"group_id,omitempty"`
}

// Save persists a new phrase. The time range is normalized so the earlier
// bound becomes the start, matching the loop controller.
func Save(ctx context.Context, database *sql.DB, input SaveInput) (*SaveOutput, error) {
	// Validate required fields
	if strings.TrimSpace(input.VideoID) == "" {
		return nil, errors.NewInvalidRequest("video_id is required")
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, errors.NewInvalidRequest("text is required")
	}
	if input.Start < 0 || input.End < 0 {
		return nil, errors.NewInvalidRequest("times must be non-negative")
	}

	start, end := normalizeRange(input.Start, input.End)
	if start == end {
		return nil, errors.NewInvalidRequest("start and end must differ")
	}

	// Resolve optional group reference
	var groupID *string
	if name := cleanOptionalString(input.Group); name != nil {
		g, err := resolveGroup(ctx, database, *name, input.CreateMissingGroup)
		if err != nil {
			return nil, err
		}
		groupID = &g.ID
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	p := &phrase.Phrase{
		ID:         id,
		VideoID:    strings.TrimSpace(input.VideoID),
		VideoURL:   cleanOptionalString(input.VideoURL),
		VideoTitle: cleanOptionalString(input.VideoTitle),
		Start:      start,
		End:        end,
		Text:       input.Text,
		Note:       cleanOptionalString(input.Note),
		GroupID:    groupID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := db.InsertPhrase(ctx, database, p); err != nil {
		return nil, err
	}

	return &SaveOutput{ID: id, GroupID: groupID}, nil
}

// resolveGroup looks a group up by name, optionally creating it.
func resolveGroup(ctx context.Context, database *sql.DB, name string, createMissing bool) (*phrase.Group, error) {
	norm := phrase.Normalize(name)
	if norm == "" {
		return nil, errors.NewInvalidRequest("group name must not be empty")
	}

	g, err := db.GetGroupByName(ctx, database, norm)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, errors.ErrGroupNotFound) || !createMissing {
		return nil, err
	}

	created, err := CreateGroup(ctx, database, CreateGroupInput{Name: name})
	if err != nil {
		return nil, err
	}
	return &phrase.Group{ID: created.ID, NameRaw: created.Name, NameNorm: norm}, nil
}
