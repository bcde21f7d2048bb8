package ops

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/subloop/internal/db"
	"github.com/hpungsan/subloop/internal/errors"
	"github.com/hpungsan/subloop/internal/phrase"
)

// CreateGroupInput contains parameters for the CreateGroup operation.
type CreateGroupInput struct {
	Name string // required
}

// CreateGroupOutput contains the result of the CreateGroup operation.
type CreateGroupOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateGroup creates a new phrase group. Names are compared
// case-insensitively with whitespace collapsed.
func CreateGroup(ctx context.Context, database *sql.DB, input CreateGroupInput) (*CreateGroupOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.NewInvalidRequest("name is required")
	}
	norm := phrase.Normalize(name)

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	g := &phrase.Group{
		ID:        id,
		NameRaw:   name,
		NameNorm:  norm,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := db.InsertGroup(ctx, database, g); err != nil {
		if err == db.ErrUniqueConstraint {
			return nil, errors.NewNameAlreadyExists(name)
		}
		return nil, err
	}

	return &CreateGroupOutput{ID: id, Name: name}, nil
}

// ListGroupsOutput contains the result of the ListGroups operation.
type ListGroupsOutput struct {
	Items []db.GroupWithCount `json:"items"`
}

// ListGroups retrieves all groups with their phrase counts.
func ListGroups(ctx context.Context, database *sql.DB) (*ListGroupsOutput, error) {
	groups, err := db.ListGroups(ctx, database)
	if err != nil {
		return nil, err
	}

	if groups == nil {
		groups = []db.GroupWithCount{}
	}

	return &ListGroupsOutput{Items: groups}, nil
}

// RenameGroupInput contains parameters for the RenameGroup operation.
type RenameGroupInput struct {
	Name    string // current name, required
	NewName string // required
}

// RenameGroupOutput contains the result of the RenameGroup operation.
type RenameGroupOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RenameGroup changes a group's name. The new name must not collide with
// an existing group.
func RenameGroup(ctx context.Context, database *sql.DB, input RenameGroupInput) (*RenameGroupOutput, error) {
	name := strings.TrimSpace(input.Name)
	newName := strings.TrimSpace(input.NewName)
	if name == "" || newName == "" {
		return nil, errors.NewInvalidRequest("name and new_name are required")
	}

	g, err := db.GetGroupByName(ctx, database, phrase.Normalize(name))
	if err != nil {
		return nil, err
	}

	newNorm := phrase.Normalize(newName)
	if newNorm == g.NameNorm {
		// Case-only change is allowed; anything else identical is a no-op
		if newName == g.NameRaw {
			return &RenameGroupOutput{ID: g.ID, Name: g.NameRaw}, nil
		}
	}

	if err := db.RenameGroup(ctx, database, g.ID, newName, newNorm); err != nil {
		if err == db.ErrUniqueConstraint {
			return nil, errors.NewNameAlreadyExists(newName)
		}
		return nil, err
	}

	return &RenameGroupOutput{ID: g.ID, Name: newName}, nil
}

// DeleteGroupInput contains parameters for the DeleteGroup operation.
type DeleteGroupInput struct {
	Name string // required
}

// DeleteGroupOutput contains the result of the DeleteGroup operation.
type DeleteGroupOutput struct {
	Deleted  bool   `json:"deleted"`
	ID       string `json:"id"`
	Detached int    `json:"detached"` // phrases that lost their group reference
	Message  string `json:"message"`
}

// DeleteGroup removes a group. Member phrases survive with their group
// reference cleared.
func DeleteGroup(ctx context.Context, database *sql.DB, input DeleteGroupInput) (*DeleteGroupOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.NewInvalidRequest("name is required")
	}

	g, err := db.GetGroupByName(ctx, database, phrase.Normalize(name))
	if err != nil {
		return nil, err
	}

	detached, err := db.DeleteGroup(ctx, database, g.ID)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Deleted group %q", g.NameRaw)
	if detached > 0 {
		msg += fmt.Sprintf(", detached %d phrases", detached)
	}

	return &DeleteGroupOutput{
		Deleted:  true,
		ID:       g.ID,
		Detached: detached,
		Message:  msg,
	}, nil
}
