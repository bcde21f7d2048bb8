package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/subloop/internal/db"
	"github.com/hpungsan/subloop/internal/errors"
	"github.com/stretchr/testify/require"
)

// TestFullWorkflow exercises the complete phrase lifecycle:
// save → fetch → update → list → search → delete → purge → fetch (not found)
func TestFullWorkflow(t *testing.T) {
	database, err := db.Init(t.TempDir())
	require.NoError(t, err)
	defer database.Close()

	ctx := context.Background()

	// 1. Save with a fresh group
	saveOut, err := Save(ctx, database, SaveInput{
		VideoID:            "dQw4w9WgXcQ",
		VideoTitle:         stringPtr("Street interviews ep. 4"),
		Start:              62,
		End:                67,
		Text:               "it goes without saying",
		Note:               stringPtr("common written register"),
		Group:              stringPtr("Idioms"),
		CreateMissingGroup: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, saveOut.ID)
	require.NotNil(t, saveOut.GroupID)
	id := saveOut.ID

	// 2. Fetch
	fetchOut, err := Fetch(ctx, database, FetchInput{ID: id})
	require.NoError(t, err)
	require.Equal(t, "it goes without saying", fetchOut.Text)
	require.Equal(t, "Idioms", fetchOut.GroupName)
	require.Equal(t, "1:02-1:07", fetchOut.Span)

	// 3. Update the note
	updateOut, err := Update(ctx, database, UpdateInput{
		ID:   id,
		Note: stringPtr("see also: needless to say"),
	})
	require.NoError(t, err)
	require.Equal(t, id, updateOut.ID)

	fetchOut, err = Fetch(ctx, database, FetchInput{ID: id})
	require.NoError(t, err)
	require.NotNil(t, fetchOut.Note)
	require.Equal(t, "see also: needless to say", *fetchOut.Note)

	// 4. List by video
	listOut, err := List(ctx, database, ListInput{VideoID: stringPtr("dQw4w9WgXcQ")})
	require.NoError(t, err)
	require.Len(t, listOut.Items, 1)
	require.Equal(t, id, listOut.Items[0].ID)
	require.NotNil(t, listOut.Items[0].GroupName)
	require.Equal(t, "Idioms", *listOut.Items[0].GroupName)

	// 5. Search matches the updated note
	searchOut, err := Search(ctx, database, SearchInput{Query: "needless"})
	require.NoError(t, err)
	require.Len(t, searchOut.Items, 1)
	require.Contains(t, searchOut.Items[0].Snippet, "<b>needless</b>")

	// 6. Soft delete
	deleteOut, err := Delete(ctx, database, DeleteInput{ID: id})
	require.NoError(t, err)
	require.True(t, deleteOut.Deleted)

	// Gone from default listings, visible with the flag
	listOut, err = List(ctx, database, ListInput{VideoID: stringPtr("dQw4w9WgXcQ")})
	require.NoError(t, err)
	require.Empty(t, listOut.Items)

	listOut, err = List(ctx, database, ListInput{VideoID: stringPtr("dQw4w9WgXcQ"), IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, listOut.Items, 1)

	// 7. Purge
	purgeOut, err := Purge(ctx, database, PurgeInput{})
	require.NoError(t, err)
	require.Equal(t, 1, purgeOut.Purged)

	// 8. Fetch now fails even with IncludeDeleted
	_, err = Fetch(ctx, database, FetchInput{ID: id, IncludeDeleted: true})
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrNotFound))

	// The group survives the phrase
	groups, err := ListGroups(ctx, database)
	require.NoError(t, err)
	require.Len(t, groups.Items, 1)
	require.Equal(t, 0, groups.Items[0].PhraseCount)
}
