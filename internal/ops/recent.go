package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/subloop/internal/db"
	"github.com/hpungsan/subloop/internal/phrase"
)

// RecentInput contains parameters for the Recent operation.
type RecentInput struct {
	Limit int // default: 10, max: 50
}

// RecentOutput contains the result of the Recent operation.
type RecentOutput struct {
	Items []phrase.PhraseSummary `json:"items"`
}

// Recent retrieves the most recently updated phrases across all videos.
func Recent(ctx context.Context, database *sql.DB, input RecentInput) (*RecentOutput, error) {
	limit := clampLimit(input.Limit, DefaultRecentLimit, MaxRecentLimit)

	summaries, _, err := db.ListPhrases(ctx, database, db.ListFilters{}, limit, 0, false)
	if err != nil {
		return nil, err
	}

	if summaries == nil {
		summaries = []phrase.PhraseSummary{}
	}

	return &RecentOutput{Items: summaries}, nil
}
