package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/subloop/internal/errors"
	"github.com/hpungsan/subloop/internal/phrase"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.SubloopError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// phraseColumns is the column list shared by phrase SELECTs.
const phraseColumns = `id, video_id, video_url, video_title, start_time, end_time,
	text, note, group_id, created_at, updated_at, deleted_at`

// InsertPhrase stores a new phrase in the database.
func InsertPhrase(ctx context.Context, db *sql.DB, p *phrase.Phrase) error {
	query := `
		INSERT INTO phrases (
			id, video_id, video_url, video_title, start_time, end_time,
			text, note, group_id, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		p.ID, p.VideoID, toNullString(p.VideoURL), toNullString(p.VideoTitle),
		p.Start, p.End, p.Text, toNullString(p.Note), toNullString(p.GroupID),
		p.CreatedAt, p.UpdatedAt, toNullInt64(p.DeletedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetPhraseByID retrieves a phrase by its ULID.
// If includeDeleted is false, soft-deleted phrases are excluded.
func GetPhraseByID(ctx context.Context, db *sql.DB, id string, includeDeleted bool) (*phrase.Phrase, error) {
	query := `SELECT ` + phraseColumns + ` FROM phrases WHERE id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	row := db.QueryRowContext(ctx, query, id)
	p, err := scanPhrase(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return p, nil
}

// ListFilters narrows phrase listings.
type ListFilters struct {
	VideoID *string
	GroupID *string
}

// ListPhrases retrieves phrase summaries with pagination.
// Results within a video are ordered by start time; otherwise by most
// recently updated. The group name is joined in for grouped phrases.
func ListPhrases(ctx context.Context, db *sql.DB, filters ListFilters, limit, offset int, includeDeleted bool) ([]phrase.PhraseSummary, int, error) {
	where, args := buildListWhere(filters, includeDeleted)

	countQuery := "SELECT COUNT(*) FROM phrases p" + where
	var total int
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	// ULID tiebreak keeps ordering stable for same-second timestamps
	order := " ORDER BY p.updated_at DESC, p.id DESC"
	if filters.VideoID != nil {
		order = " ORDER BY p.start_time ASC, p.id ASC"
	}

	query := `
		SELECT p.id, p.video_id, p.video_title, p.start_time, p.end_time,
			p.text, p.group_id, g.name_raw, p.created_at, p.updated_at, p.deleted_at
		FROM phrases p
		LEFT JOIN groups g ON g.id = p.group_id` + where + order + " LIMIT ? OFFSET ?"

	rows, err := db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var summaries []phrase.PhraseSummary
	for rows.Next() {
		var s phrase.PhraseSummary
		var videoTitle, groupID, groupName sql.NullString
		var deletedAt sql.NullInt64
		if err := rows.Scan(&s.ID, &s.VideoID, &videoTitle, &s.Start, &s.End,
			&s.Text, &groupID, &groupName, &s.CreatedAt, &s.UpdatedAt, &deletedAt); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		s.VideoTitle = fromNullString(videoTitle)
		s.GroupID = fromNullString(groupID)
		s.GroupName = fromNullString(groupName)
		s.DeletedAt = fromNullInt64(deletedAt)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return summaries, total, nil
}

// buildListWhere assembles the WHERE clause shared by the list count and page
// queries. Filter columns are qualified with the phrases alias "p".
func buildListWhere(filters ListFilters, includeDeleted bool) (string, []any) {
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 2)

	if !includeDeleted {
		clauses = append(clauses, "p.deleted_at IS NULL")
	}
	if filters.VideoID != nil {
		clauses = append(clauses, "p.video_id = ?")
		args = append(args, *filters.VideoID)
	}
	if filters.GroupID != nil {
		clauses = append(clauses, "p.group_id = ?")
		args = append(args, *filters.GroupID)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// UpdatePhrase updates mutable fields of an existing phrase.
// Sets updated_at to current timestamp.
// Does NOT change: id, video_id, created_at
func UpdatePhrase(ctx context.Context, db *sql.DB, p *phrase.Phrase) error {
	now := time.Now().Unix()

	query := `
		UPDATE phrases
		SET start_time = ?, end_time = ?, text = ?, note = ?,
			group_id = ?, video_url = ?, video_title = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.ExecContext(ctx, query,
		p.Start, p.End, p.Text, toNullString(p.Note),
		toNullString(p.GroupID), toNullString(p.VideoURL), toNullString(p.VideoTitle),
		now, p.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(p.ID)
	}

	// Update the struct's UpdatedAt field
	p.UpdatedAt = now

	return nil
}

// ReplacePhrase overwrites every field of an existing phrase, including
// timestamps and deletion state. Used by import's replace mode.
func ReplacePhrase(ctx context.Context, db *sql.DB, p *phrase.Phrase) error {
	query := `
		UPDATE phrases
		SET video_id = ?, video_url = ?, video_title = ?, start_time = ?,
			end_time = ?, text = ?, note = ?, group_id = ?,
			created_at = ?, updated_at = ?, deleted_at = ?
		WHERE id = ?
	`

	result, err := db.ExecContext(ctx, query,
		p.VideoID, toNullString(p.VideoURL), toNullString(p.VideoTitle),
		p.Start, p.End, p.Text, toNullString(p.Note), toNullString(p.GroupID),
		p.CreatedAt, p.UpdatedAt, toNullInt64(p.DeletedAt), p.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(p.ID)
	}

	return nil
}

// SoftDeletePhrase marks a phrase as deleted by setting deleted_at.
func SoftDeletePhrase(ctx context.Context, db *sql.DB, id string) error {
	now := time.Now().Unix()

	query := `UPDATE phrases SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`
	result, err := db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// PurgeDeleted permanently removes soft-deleted phrases.
// When olderThan is non-nil, only phrases deleted at or before that Unix
// timestamp are removed. Returns the number of rows purged.
func PurgeDeleted(ctx context.Context, db *sql.DB, olderThan *int64) (int, error) {
	query := "DELETE FROM phrases WHERE deleted_at IS NOT NULL"
	args := []any{}
	if olderThan != nil {
		query += " AND deleted_at <= ?"
		args = append(args, *olderThan)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	return int(rowsAffected), nil
}

// SearchPhrases performs a LIKE match over phrase text and notes.
// The query is escaped so user-supplied % and _ match literally.
func SearchPhrases(ctx context.Context, db *sql.DB, query string, filters ListFilters, limit, offset int, includeDeleted bool) ([]phrase.Phrase, int, error) {
	where, args := buildListWhere(filters, includeDeleted)
	pattern := "%" + escapeLike(query) + "%"
	likeClause := `(p.text LIKE ? ESCAPE '\' OR p.note LIKE ? ESCAPE '\')`
	if where == "" {
		where = " WHERE " + likeClause
	} else {
		where += " AND " + likeClause
	}
	args = append(args, pattern, pattern)

	countQuery := "SELECT COUNT(*) FROM phrases p" + where
	var total int
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	pageQuery := `SELECT p.id, p.video_id, p.video_url, p.video_title, p.start_time,
		p.end_time, p.text, p.note, p.group_id, p.created_at, p.updated_at, p.deleted_at
		FROM phrases p` + where + " ORDER BY p.updated_at DESC LIMIT ? OFFSET ?"

	rows, err := db.QueryContext(ctx, pageQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var phrases []phrase.Phrase
	for rows.Next() {
		p, err := ScanPhraseFromRows(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		phrases = append(phrases, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return phrases, total, nil
}

// escapeLike escapes LIKE wildcards and the escape character itself.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// StreamForExport returns a cursor over phrases for export, optionally
// filtered by group. Callers must Close the rows and scan each with
// ScanPhraseFromRows.
func StreamForExport(ctx context.Context, db *sql.DB, groupID *string, includeDeleted bool) (*sql.Rows, error) {
	query := `SELECT ` + phraseColumns + ` FROM phrases`
	clauses := []string{}
	args := []any{}
	if !includeDeleted {
		clauses = append(clauses, "deleted_at IS NULL")
	}
	if groupID != nil {
		clauses = append(clauses, "group_id = ?")
		args = append(args, *groupID)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rows, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// ScanPhraseFromRows scans the current row of a phrase cursor.
func ScanPhraseFromRows(rows *sql.Rows) (*phrase.Phrase, error) {
	return scanPhrase(rows)
}

func scanPhrase(row rowScanner) (*phrase.Phrase, error) {
	var p phrase.Phrase
	var videoURL, videoTitle, note, groupID sql.NullString
	var deletedAt sql.NullInt64

	err := row.Scan(&p.ID, &p.VideoID, &videoURL, &videoTitle, &p.Start, &p.End,
		&p.Text, &note, &groupID, &p.CreatedAt, &p.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	p.VideoURL = fromNullString(videoURL)
	p.VideoTitle = fromNullString(videoTitle)
	p.Note = fromNullString(note)
	p.GroupID = fromNullString(groupID)
	p.DeletedAt = fromNullInt64(deletedAt)

	return &p, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func toNullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

func fromNullInt64(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	i := ni.Int64
	return &i
}
