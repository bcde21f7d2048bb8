package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/subloop/internal/db"
	"github.com/hpungsan/subloop/internal/errors"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete soft-deletes a phrase.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	// Verify it exists (GetPhraseByID will return ErrNotFound if not)
	if _, err := db.GetPhraseByID(ctx, database, id, false); err != nil {
		return nil, err
	}

	if err := db.SoftDeletePhrase(ctx, database, id); err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted: true,
		ID:      id,
	}, nil
}
