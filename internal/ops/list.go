package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/subloop/internal/db"
	"github.com/hpungsan/subloop/internal/phrase"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	VideoID        *string // optional filter
	Group          *string // optional filter by group name
	Limit          int     // default: 20, max: 100
	Offset         int     // default: 0
	IncludeDeleted bool
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []phrase.PhraseSummary `json:"items"`
	Pagination Pagination             `json:"pagination"`
	Sort       string                 `json:"sort"`
}

// List retrieves phrase summaries with optional filters and pagination.
// Results filtered to a single video sort by start time; otherwise by
// most recently updated.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	filters, err := buildFilters(ctx, database, input.VideoID, input.Group)
	if err != nil {
		return nil, err
	}

	limit := clampLimit(input.Limit, DefaultListLimit, MaxListLimit)
	offset := max(input.Offset, 0)

	summaries, total, err := db.ListPhrases(ctx, database, filters, limit, offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if summaries == nil {
		summaries = []phrase.PhraseSummary{}
	}

	sort := "updated_at_desc"
	if filters.VideoID != nil {
		sort = "start_time_asc"
	}

	return &ListOutput{
		Items: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(summaries) < total,
			Total:   total,
		},
		Sort: sort,
	}, nil
}

// buildFilters converts user-facing filter values into db filters,
// resolving a group name to its ID.
func buildFilters(ctx context.Context, database *sql.DB, videoID, group *string) (db.ListFilters, error) {
	var filters db.ListFilters
	filters.VideoID = cleanOptionalString(videoID)

	if name := cleanOptionalString(group); name != nil {
		g, err := db.GetGroupByName(ctx, database, phrase.Normalize(*name))
		if err != nil {
			return filters, err
		}
		filters.GroupID = &g.ID
	}

	return filters, nil
}
