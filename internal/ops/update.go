package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/subloop/internal/db"
	"github.com/hpungsan/subloop/internal/errors"
)

// UpdateInput contains parameters for the Update operation.
type UpdateInput struct {
	ID string

	// Editable fields (nil = don't change)
	Start      *float64
	End        *float64
	Text       *string
	Note       *string
	VideoTitle *string
	Group      *string // group name; empty string detaches

	CreateMissingGroup bool
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	ID   string `json:"id"`
	Span string `json:"span"`
}

// Update modifies an existing phrase.
func Update(ctx context.Context, database *sql.DB, input UpdateInput) (*UpdateOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	// Validate at least one editable field is provided
	if input.Start == nil && input.End == nil && input.Text == nil &&
		input.Note == nil && input.VideoTitle == nil && input.Group == nil {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}

	// Fetch existing phrase (active only)
	p, err := db.GetPhraseByID(ctx, database, id, false)
	if err != nil {
		return nil, err
	}

	// Apply updates
	if input.Start != nil {
		if *input.Start < 0 {
			return nil, errors.NewInvalidRequest("times must be non-negative")
		}
		p.Start = *input.Start
	}
	if input.End != nil {
		if *input.End < 0 {
			return nil, errors.NewInvalidRequest("times must be non-negative")
		}
		p.End = *input.End
	}
	p.Start, p.End = normalizeRange(p.Start, p.End)
	if p.Start == p.End {
		return nil, errors.NewInvalidRequest("start and end must differ")
	}

	if input.Text != nil {
		if strings.TrimSpace(*input.Text) == "" {
			return nil, errors.NewInvalidRequest("text must not be empty")
		}
		p.Text = *input.Text
	}

	if input.Note != nil {
		// Empty note clears the field
		p.Note = cleanOptionalString(input.Note)
	}

	if input.VideoTitle != nil {
		p.VideoTitle = cleanOptionalString(input.VideoTitle)
	}

	if input.Group != nil {
		if name := cleanOptionalString(input.Group); name == nil {
			p.GroupID = nil
		} else {
			g, err := resolveGroup(ctx, database, *name, input.CreateMissingGroup)
			if err != nil {
				return nil, err
			}
			p.GroupID = &g.ID
		}
	}

	p.UpdatedAt = time.Now().Unix()

	if err := db.UpdatePhrase(ctx, database, p); err != nil {
		return nil, err
	}

	return &UpdateOutput{
		ID:   p.ID,
		Span: FormatSpan(p.Start, p.End),
	}, nil
}
