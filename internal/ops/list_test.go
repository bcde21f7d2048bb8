package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/subloop/internal/errors"
)

func TestList_Empty(t *testing.T) {
	database := testDB(t)

	out, err := List(context.Background(), database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Items == nil {
		t.Error("Items = nil, want empty slice")
	}
	if len(out.Items) != 0 {
		t.Errorf("len(Items) = %d, want 0", len(out.Items))
	}
	if out.Pagination.Total != 0 {
		t.Errorf("Total = %d, want 0", out.Pagination.Total)
	}
}

func TestList_VideoFilterSortsByStartTime(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	mustSave(t, database, SaveInput{VideoID: "vid1", Start: 30, End: 35, Text: "third"})
	mustSave(t, database, SaveInput{VideoID: "vid1", Start: 10, End: 15, Text: "first"})
	mustSave(t, database, SaveInput{VideoID: "vid1", Start: 20, End: 25, Text: "second"})
	mustSave(t, database, SaveInput{VideoID: "vid2", Start: 5, End: 8, Text: "other video"})

	out, err := List(ctx, database, ListInput{VideoID: stringPtr("vid1")})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(out.Items))
	}
	if out.Sort != "start_time_asc" {
		t.Errorf("Sort = %q, want start_time_asc", out.Sort)
	}
	for i, want := range []string{"first", "second", "third"} {
		if out.Items[i].Text != want {
			t.Errorf("Items[%d].Text = %q, want %q", i, out.Items[i].Text, want)
		}
	}
}

func TestList_GroupFilter(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	mustSave(t, database, SaveInput{
		VideoID: "v", Start: 1, End: 2, Text: "grouped",
		Group: stringPtr("Idioms"), CreateMissingGroup: true,
	})
	mustSave(t, database, SaveInput{VideoID: "v", Start: 3, End: 4, Text: "loose"})

	out, err := List(ctx, database, ListInput{Group: stringPtr("idioms")})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(out.Items))
	}
	if out.Items[0].Text != "grouped" {
		t.Errorf("Items[0].Text = %q, want grouped", out.Items[0].Text)
	}

	// Unknown group name surfaces the lookup failure
	_, err = List(ctx, database, ListInput{Group: stringPtr("missing")})
	if !errors.Is(err, errors.ErrGroupNotFound) {
		t.Errorf("err = %v, want GROUP_NOT_FOUND", err)
	}
}

func TestList_Pagination(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mustSave(t, database, SaveInput{
			VideoID: "vid1",
			Start:   float64(i * 10),
			End:     float64(i*10 + 5),
			Text:    "phrase",
		})
	}

	out, err := List(ctx, database, ListInput{VideoID: stringPtr("vid1"), Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(out.Items))
	}
	if !out.Pagination.HasMore {
		t.Error("HasMore = false, want true")
	}
	if out.Pagination.Total != 5 {
		t.Errorf("Total = %d, want 5", out.Pagination.Total)
	}

	out, err = List(ctx, database, ListInput{VideoID: stringPtr("vid1"), Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 1 {
		t.Errorf("len(Items) = %d, want 1", len(out.Items))
	}
	if out.Pagination.HasMore {
		t.Error("HasMore = true, want false")
	}
}

func TestRecent_OrdersByUpdatedAt(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	mustSave(t, database, SaveInput{VideoID: "v1", Start: 1, End: 2, Text: "older"})
	second := mustSave(t, database, SaveInput{VideoID: "v2", Start: 1, End: 2, Text: "newer"})

	out, err := Recent(ctx, database, RecentInput{})
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(out.Items))
	}
	// ULIDs are monotonic within the process, so a tie on updated_at
	// still orders the later save first via the id tiebreak.
	if out.Items[0].ID != second {
		t.Errorf("Items[0].ID = %q, want the later save %q", out.Items[0].ID, second)
	}
}
