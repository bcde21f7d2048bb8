package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/subloop/internal/db"
	"github.com/hpungsan/subloop/internal/errors"
	"github.com/hpungsan/subloop/internal/phrase"
	"github.com/hpungsan/subloop/internal/transcript"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	IncludeDeleted bool
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	phrase.Phrase        // embedded (copy, not pointer)
	GroupName     string `json:"group_name,omitempty"`
	Span          string `json:"span"` // e.g. "1:02-1:07"
}

// Fetch retrieves a phrase by ID.
func Fetch(ctx context.Context, database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	p, err := db.GetPhraseByID(ctx, database, id, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	output := &FetchOutput{
		Phrase: *p, // copy, not pointer
		Span:   FormatSpan(p.Start, p.End),
	}

	// Resolve group name for display
	if p.GroupID != nil {
		g, err := db.GetGroupByID(ctx, database, *p.GroupID)
		if err == nil {
			output.GroupName = g.NameRaw
		}
	}

	return output, nil
}

// FormatSpan renders a time range as "start-end" using clock notation.
func FormatSpan(start, end float64) string {
	return transcript.FormatTimestamp(start) + "-" + transcript.FormatTimestamp(end)
}
