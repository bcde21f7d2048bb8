package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/hpungsan/subloop/internal/errors"
	"github.com/hpungsan/subloop/internal/phrase"
)

func testGroup(id, name string) *phrase.Group {
	now := time.Now().Unix()
	return &phrase.Group{
		ID:        id,
		NameRaw:   name,
		NameNorm:  phrase.Normalize(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func insertTestGroup(t *testing.T, database *sql.DB, id, name string) {
	t.Helper()
	if err := InsertGroup(context.Background(), database, testGroup(id, name)); err != nil {
		t.Fatalf("InsertGroup(%s) failed: %v", name, err)
	}
}

func TestInsertAndGetGroup(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	insertTestGroup(t, database, "01G", "Daily Phrases")

	byID, err := GetGroupByID(ctx, database, "01G")
	if err != nil {
		t.Fatalf("GetGroupByID failed: %v", err)
	}
	if byID.NameRaw != "Daily Phrases" || byID.NameNorm != "daily phrases" {
		t.Errorf("got %+v", byID)
	}

	byName, err := GetGroupByName(ctx, database, "daily phrases")
	if err != nil {
		t.Fatalf("GetGroupByName failed: %v", err)
	}
	if byName.ID != "01G" {
		t.Errorf("ID = %s, want 01G", byName.ID)
	}
}

func TestInsertGroup_DuplicateName(t *testing.T) {
	database := testDB(t)

	insertTestGroup(t, database, "01G", "Verbs")
	// Same normalized name, different id
	err := InsertGroup(context.Background(), database, testGroup("01H", "  VERBS "))
	if err != ErrUniqueConstraint {
		t.Errorf("duplicate name error = %v, want ErrUniqueConstraint", err)
	}
}

func TestGetGroup_NotFound(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	if _, err := GetGroupByID(ctx, database, "missing"); !errors.Is(err, errors.ErrGroupNotFound) {
		t.Errorf("error = %v, want GROUP_NOT_FOUND", err)
	}
	if _, err := GetGroupByName(ctx, database, "missing"); !errors.Is(err, errors.ErrGroupNotFound) {
		t.Errorf("error = %v, want GROUP_NOT_FOUND", err)
	}
}

func TestListGroups_WithCounts(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	insertTestGroup(t, database, "01G", "verbs")
	insertTestGroup(t, database, "01H", "idioms")

	groupID := "01G"
	p := testPhrase("01A", "vid1")
	p.GroupID = &groupID
	if err := InsertPhrase(ctx, database, p); err != nil {
		t.Fatalf("InsertPhrase failed: %v", err)
	}
	// Soft-deleted phrases don't count
	deleted := testPhrase("01B", "vid1")
	deleted.GroupID = &groupID
	if err := InsertPhrase(ctx, database, deleted); err != nil {
		t.Fatalf("InsertPhrase failed: %v", err)
	}
	if err := SoftDeletePhrase(ctx, database, "01B"); err != nil {
		t.Fatalf("SoftDeletePhrase failed: %v", err)
	}

	groups, err := ListGroups(ctx, database)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	// Ordered by normalized name: idioms, verbs
	if groups[0].NameNorm != "idioms" || groups[1].NameNorm != "verbs" {
		t.Errorf("order = [%s, %s]", groups[0].NameNorm, groups[1].NameNorm)
	}
	if groups[1].PhraseCount != 1 {
		t.Errorf("verbs count = %d, want 1", groups[1].PhraseCount)
	}
	if groups[0].PhraseCount != 0 {
		t.Errorf("idioms count = %d, want 0", groups[0].PhraseCount)
	}
}

func TestRenameGroup(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	insertTestGroup(t, database, "01G", "verbs")
	if err := RenameGroup(ctx, database, "01G", "Strong Verbs", "strong verbs"); err != nil {
		t.Fatalf("RenameGroup failed: %v", err)
	}

	g, err := GetGroupByID(ctx, database, "01G")
	if err != nil {
		t.Fatalf("GetGroupByID failed: %v", err)
	}
	if g.NameRaw != "Strong Verbs" || g.NameNorm != "strong verbs" {
		t.Errorf("got %+v", g)
	}
}

func TestRenameGroup_Collision(t *testing.T) {
	database := testDB(t)

	insertTestGroup(t, database, "01G", "verbs")
	insertTestGroup(t, database, "01H", "idioms")

	err := RenameGroup(context.Background(), database, "01H", "verbs", "verbs")
	if err != ErrUniqueConstraint {
		t.Errorf("rename collision error = %v, want ErrUniqueConstraint", err)
	}
}

func TestDeleteGroup_DetachesPhrases(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	insertTestGroup(t, database, "01G", "verbs")
	groupID := "01G"
	p := testPhrase("01A", "vid1")
	p.GroupID = &groupID
	if err := InsertPhrase(ctx, database, p); err != nil {
		t.Fatalf("InsertPhrase failed: %v", err)
	}

	detached, err := DeleteGroup(ctx, database, "01G")
	if err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	if detached != 1 {
		t.Errorf("detached = %d, want 1", detached)
	}

	// Group gone, phrase survives ungrouped
	if _, err := GetGroupByID(ctx, database, "01G"); !errors.Is(err, errors.ErrGroupNotFound) {
		t.Errorf("group lookup = %v, want GROUP_NOT_FOUND", err)
	}
	got, err := GetPhraseByID(ctx, database, "01A", false)
	if err != nil {
		t.Fatalf("GetPhraseByID failed: %v", err)
	}
	if got.GroupID != nil {
		t.Errorf("GroupID = %v, want nil", got.GroupID)
	}
}

func TestDeleteGroup_NotFound(t *testing.T) {
	database := testDB(t)

	if _, err := DeleteGroup(context.Background(), database, "missing"); !errors.Is(err, errors.ErrGroupNotFound) {
		t.Errorf("error = %v, want GROUP_NOT_FOUND", err)
	}
}
