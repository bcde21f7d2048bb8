package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/subloop/internal/errors"
)

func TestCreateGroup_DuplicateName(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	if _, err := CreateGroup(ctx, database, CreateGroupInput{Name: "Idioms"}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	// Normalized collision: case and spacing differences still clash
	_, err := CreateGroup(ctx, database, CreateGroupInput{Name: "  idioms "})
	if !errors.Is(err, errors.ErrNameAlreadyExists) {
		t.Errorf("err = %v, want NAME_ALREADY_EXISTS", err)
	}
}

func TestListGroups_CountsActivePhrases(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	mustSave(t, database, SaveInput{
		VideoID: "v", Start: 1, End: 2, Text: "a",
		Group: stringPtr("Busy"), CreateMissingGroup: true,
	})
	deleted := mustSave(t, database, SaveInput{
		VideoID: "v", Start: 3, End: 4, Text: "b",
		Group: stringPtr("Busy"), CreateMissingGroup: true,
	})
	if _, err := Delete(ctx, database, DeleteInput{ID: deleted}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := CreateGroup(ctx, database, CreateGroupInput{Name: "Empty"}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	out, err := ListGroups(ctx, database)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(out.Items))
	}
	// Ordered by normalized name: Busy, Empty
	if out.Items[0].NameRaw != "Busy" || out.Items[0].PhraseCount != 1 {
		t.Errorf("Items[0] = %q count %d, want Busy count 1", out.Items[0].NameRaw, out.Items[0].PhraseCount)
	}
	if out.Items[1].NameRaw != "Empty" || out.Items[1].PhraseCount != 0 {
		t.Errorf("Items[1] = %q count %d, want Empty count 0", out.Items[1].NameRaw, out.Items[1].PhraseCount)
	}
}

func TestRenameGroup(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	created, err := CreateGroup(ctx, database, CreateGroupInput{Name: "Old"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	out, err := RenameGroup(ctx, database, RenameGroupInput{Name: "old", NewName: "New"})
	if err != nil {
		t.Fatalf("RenameGroup failed: %v", err)
	}
	if out.ID != created.ID || out.Name != "New" {
		t.Errorf("out = %+v", out)
	}

	// Old name no longer resolves
	if _, err := RenameGroup(ctx, database, RenameGroupInput{Name: "Old", NewName: "X"}); !errors.Is(err, errors.ErrGroupNotFound) {
		t.Errorf("err = %v, want GROUP_NOT_FOUND", err)
	}
}

func TestRenameGroup_Collision(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	if _, err := CreateGroup(ctx, database, CreateGroupInput{Name: "A"}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := CreateGroup(ctx, database, CreateGroupInput{Name: "B"}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	_, err := RenameGroup(ctx, database, RenameGroupInput{Name: "A", NewName: "b"})
	if !errors.Is(err, errors.ErrNameAlreadyExists) {
		t.Errorf("err = %v, want NAME_ALREADY_EXISTS", err)
	}
}

func TestDeleteGroup_DetachesPhrases(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	id := mustSave(t, database, SaveInput{
		VideoID: "v", Start: 1, End: 2, Text: "hi",
		Group: stringPtr("Doomed"), CreateMissingGroup: true,
	})

	out, err := DeleteGroup(ctx, database, DeleteGroupInput{Name: "doomed"})
	if err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	if !out.Deleted || out.Detached != 1 {
		t.Errorf("out = %+v, want deleted with 1 detached", out)
	}

	// Phrase survives, group reference cleared
	fetched, err := Fetch(ctx, database, FetchInput{ID: id})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.GroupID != nil {
		t.Errorf("GroupID = %v, want nil", fetched.GroupID)
	}
}
