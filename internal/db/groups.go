package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/hpungsan/subloop/internal/errors"
	"github.com/hpungsan/subloop/internal/phrase"
)

// GroupWithCount pairs a group with the number of active phrases in it.
type GroupWithCount struct {
	phrase.Group
	PhraseCount int
}

// InsertGroup stores a new group. A normalized-name collision returns
// ErrUniqueConstraint.
func InsertGroup(ctx context.Context, db *sql.DB, g *phrase.Group) error {
	query := `
		INSERT INTO groups (id, name_raw, name_norm, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query, g.ID, g.NameRaw, g.NameNorm, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// GetGroupByID retrieves a group by its ULID.
func GetGroupByID(ctx context.Context, db *sql.DB, id string) (*phrase.Group, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, name_raw, name_norm, created_at, updated_at FROM groups WHERE id = ?`, id)
	return scanGroup(row, id)
}

// GetGroupByName retrieves a group by its normalized name.
func GetGroupByName(ctx context.Context, db *sql.DB, nameNorm string) (*phrase.Group, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, name_raw, name_norm, created_at, updated_at FROM groups WHERE name_norm = ?`, nameNorm)
	return scanGroup(row, nameNorm)
}

func scanGroup(row *sql.Row, identifier string) (*phrase.Group, error) {
	var g phrase.Group
	err := row.Scan(&g.ID, &g.NameRaw, &g.NameNorm, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewGroupNotFound(identifier)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &g, nil
}

// ListGroups returns all groups ordered by name, each with its active
// phrase count.
func ListGroups(ctx context.Context, db *sql.DB) ([]GroupWithCount, error) {
	query := `
		SELECT g.id, g.name_raw, g.name_norm, g.created_at, g.updated_at,
			COUNT(p.id)
		FROM groups g
		LEFT JOIN phrases p ON p.group_id = g.id AND p.deleted_at IS NULL
		GROUP BY g.id
		ORDER BY g.name_norm ASC
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var groups []GroupWithCount
	for rows.Next() {
		var g GroupWithCount
		if err := rows.Scan(&g.ID, &g.NameRaw, &g.NameNorm, &g.CreatedAt, &g.UpdatedAt, &g.PhraseCount); err != nil {
			return nil, errors.NewInternal(err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return groups, nil
}

// RenameGroup updates a group's name. A normalized-name collision returns
// ErrUniqueConstraint.
func RenameGroup(ctx context.Context, db *sql.DB, id, nameRaw, nameNorm string) error {
	now := time.Now().Unix()

	result, err := db.ExecContext(ctx,
		`UPDATE groups SET name_raw = ?, name_norm = ?, updated_at = ? WHERE id = ?`,
		nameRaw, nameNorm, now, id)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewGroupNotFound(id)
	}

	return nil
}

// DeleteGroup removes a group, detaching its phrases rather than deleting
// them. Runs in a transaction so a failure leaves both tables untouched.
func DeleteGroup(ctx context.Context, db *sql.DB, id string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	result, err := tx.ExecContext(ctx,
		`UPDATE phrases SET group_id = NULL, updated_at = ? WHERE group_id = ?`, now, id)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	detached, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	result, err = tx.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	if deleted == 0 {
		return 0, errors.NewGroupNotFound(id)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.NewInternal(err)
	}

	return int(detached), nil
}
