package ops

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hpungsan/subloop/internal/config"
	"github.com/hpungsan/subloop/internal/db"
	"github.com/hpungsan/subloop/internal/errors"
	"github.com/hpungsan/subloop/internal/phrase"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on collision (atomic)
	ImportModeReplace ImportMode = "replace" // overwrite on collision
	ImportModeRename  ImportMode = "rename"  // assign a fresh id on collision
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported      int           `json:"imported"`
	Skipped       int           `json:"skipped"`
	GroupsCreated int           `json:"groups_created"`
	Errors        []ImportError `json:"errors"`
}

// ImportError represents an error that occurred during import.
type ImportError struct {
	Line    int    `json:"line,omitempty"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Import reads phrases from a JSONL export file. Group references travel by
// name; missing groups are created in the destination database.
func Import(ctx context.Context, database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace && input.Mode != ImportModeRename {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace, rename")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := err.(*errors.SubloopError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	records, parseErrors := parseExportFile(file)

	// For mode:error, fail on any parse errors
	if input.Mode == ImportModeError && len(parseErrors) > 0 {
		return &ImportOutput{Errors: parseErrors}, nil
	}

	groups := newGroupResolver(database)
	var out *ImportOutput
	switch input.Mode {
	case ImportModeError:
		out, err = importModeError(ctx, database, groups, records)
	default:
		out, err = importLenient(ctx, database, groups, records, parseErrors, input.Mode)
	}
	if err != nil {
		return nil, err
	}
	out.GroupsCreated = groups.created
	return out, nil
}

// parseExportFile parses a JSONL export file into records.
func parseExportFile(file *os.File) ([]phrase.ExportRecord, []ImportError) {
	var records []phrase.ExportRecord
	var parseErrors []ImportError

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		var record phrase.ExportRecord
		if err := json.Unmarshal(line, &record); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		// Skip header line
		if record.SubloopExport {
			continue
		}

		if record.ID == "" || record.VideoID == "" || record.Text == "" {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "INVALID_RECORD",
				Message: "missing id, video_id, or text field",
			})
			continue
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum,
			Code:    "READ_ERROR",
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}

	return records, parseErrors
}

// groupResolver resolves group names to IDs during import, creating
// missing groups and caching the results.
type groupResolver struct {
	database *sql.DB
	cache    map[string]string // name_norm -> id
	created  int
}

func newGroupResolver(database *sql.DB) *groupResolver {
	return &groupResolver{database: database, cache: map[string]string{}}
}

func (r *groupResolver) resolve(ctx context.Context, name string) (*string, error) {
	norm := phrase.Normalize(name)
	if norm == "" {
		return nil, nil
	}
	if id, ok := r.cache[norm]; ok {
		return &id, nil
	}

	g, err := db.GetGroupByName(ctx, r.database, norm)
	if err == nil {
		r.cache[norm] = g.ID
		id := g.ID
		return &id, nil
	}
	if !errors.Is(err, errors.ErrGroupNotFound) {
		return nil, err
	}

	created, err := CreateGroup(ctx, r.database, CreateGroupInput{Name: name})
	if err != nil {
		return nil, err
	}
	r.cache[norm] = created.ID
	r.created++
	id := created.ID
	return &id, nil
}

// importModeError imports all records atomically, aborting on any collision.
func importModeError(ctx context.Context, database *sql.DB, groups *groupResolver, records []phrase.ExportRecord) (*ImportOutput, error) {
	// Collision pre-check so nothing is written on failure. Groups are
	// created outside the transaction; a created-but-unused group is
	// harmless.
	for _, record := range records {
		_, err := db.GetPhraseByID(ctx, database, record.ID, true)
		if err == nil {
			return &ImportOutput{
				Errors: []ImportError{{
					ID:      record.ID,
					Code:    "ID_COLLISION",
					Message: fmt.Sprintf("phrase with id %q already exists", record.ID),
				}},
			}, nil
		}
		if !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	imported := 0
	for _, record := range records {
		p, err := recordToPhrase(ctx, groups, &record)
		if err != nil {
			return nil, err
		}
		if err := insertPhraseTx(ctx, tx, p); err != nil {
			return nil, err
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &ImportOutput{Imported: imported}, nil
}

// importLenient imports records one at a time, replacing or renaming on
// collision depending on mode. Parse errors count as skips.
func importLenient(ctx context.Context, database *sql.DB, groups *groupResolver, records []phrase.ExportRecord, parseErrors []ImportError, mode ImportMode) (*ImportOutput, error) {
	imported := 0
	skipped := len(parseErrors)
	importErrors := append([]ImportError{}, parseErrors...)

	for _, record := range records {
		p, err := recordToPhrase(ctx, groups, &record)
		if err != nil {
			return nil, err
		}

		existing, err := db.GetPhraseByID(ctx, database, record.ID, true)
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}

		if existing != nil {
			switch mode {
			case ImportModeReplace:
				if err := db.ReplacePhrase(ctx, database, p); err != nil {
					return nil, err
				}
				imported++
				continue
			case ImportModeRename:
				newID, err := generateULID()
				if err != nil {
					return nil, errors.NewInternal(err)
				}
				p.ID = newID
			}
		}

		if err := db.InsertPhrase(ctx, database, p); err != nil {
			importErrors = append(importErrors, ImportError{
				ID:      p.ID,
				Code:    "INSERT_FAILED",
				Message: fmt.Sprintf("failed to insert: %v", err),
			})
			skipped++
			continue
		}
		imported++
	}

	return &ImportOutput{
		Imported: imported,
		Skipped:  skipped,
		Errors:   importErrors,
	}, nil
}

// recordToPhrase converts an export record, resolving its group name.
func recordToPhrase(ctx context.Context, groups *groupResolver, record *phrase.ExportRecord) (*phrase.Phrase, error) {
	p := record.ToPhrase()
	if record.Group != nil {
		id, err := groups.resolve(ctx, *record.Group)
		if err != nil {
			return nil, err
		}
		p.GroupID = id
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	if p.UpdatedAt == 0 {
		p.UpdatedAt = p.CreatedAt
	}
	return p, nil
}

// insertPhraseTx inserts a phrase within a transaction.
func insertPhraseTx(ctx context.Context, tx *sql.Tx, p *phrase.Phrase) error {
	query := `
		INSERT INTO phrases (
			id, video_id, video_url, video_title, start_time, end_time,
			text, note, group_id, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		p.ID, p.VideoID, nullableString(p.VideoURL), nullableString(p.VideoTitle),
		p.Start, p.End, p.Text, nullableString(p.Note), nullableString(p.GroupID),
		p.CreatedAt, p.UpdatedAt, nullableInt64(p.DeletedAt),
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullableInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}
