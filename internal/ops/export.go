package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/subloop/internal/config"
	"github.com/hpungsan/subloop/internal/db"
	"github.com/hpungsan/subloop/internal/errors"
	"github.com/hpungsan/subloop/internal/phrase"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path           string  // optional, default: ~/.subloop/exports/<group>-<timestamp>.jsonl
	Group          *string // optional filter by group name
	IncludeDeleted bool
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader represents the header line in a JSONL export file.
type ExportHeader struct {
	SubloopExport bool   `json:"_subloop_export"`
	SchemaVersion string `json:"schema_version"`
	ExportedAt    int64  `json:"exported_at"`
}

// Export writes phrases to a JSONL file. Group membership is carried by
// name so files import cleanly into databases with different group IDs.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	exportedAt := now.Unix()

	// Resolve the group filter up front so a bad name fails before any I/O
	var groupID *string
	if name := cleanOptionalString(input.Group); name != nil {
		g, err := db.GetGroupByName(ctx, database, phrase.Normalize(*name))
		if err != nil {
			return nil, err
		}
		groupID = &g.ID
	}

	exportPath := input.Path
	if exportPath == "" {
		var err error
		exportPath, err = defaultExportPath(input.Group, now)
		if err != nil {
			return nil, err
		}
	}

	// Validate ALL paths (both user-provided and default); default paths can
	// carry injection via a malicious group name
	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	// Group names keyed by ID, for carrying membership in the records
	groupNames, err := groupNameIndex(ctx, database)
	if err != nil {
		return nil, err
	}

	// Write to temp file first, then atomic rename to preserve any existing
	// file on failure
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	header := ExportHeader{
		SubloopExport: true,
		SchemaVersion: "1.0",
		ExportedAt:    exportedAt,
	}
	if err := writeJSONLine(file, header); err != nil {
		return nil, err
	}

	rows, err := db.StreamForExport(ctx, database, groupID, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("export")
		default:
		}

		p, err := db.ScanPhraseFromRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}

		var groupName *string
		if p.GroupID != nil {
			if name, ok := groupNames[*p.GroupID]; ok {
				groupName = &name
			}
		}

		if err := writeJSONLine(file, phrase.ToExportRecord(p, groupName)); err != nil {
			return nil, err
		}
		count++
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}

	// Close before atomic replace (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink destination
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	// On Windows os.Rename fails if the destination exists. Fail safely
	// rather than doing a non-atomic delete+rename.
	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:       exportPath,
		Count:      count,
		ExportedAt: exportedAt,
	}, nil
}

// groupNameIndex builds an id -> raw-name map of all groups.
func groupNameIndex(ctx context.Context, database *sql.DB) (map[string]string, error) {
	groups, err := db.ListGroups(ctx, database)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.NameRaw
	}
	return names, nil
}

func writeJSONLine(file *os.File, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.NewInternal(err)
	}
	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if _, err := file.Write([]byte("\n")); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// defaultExportPath generates the default export path.
// Format: ~/.subloop/exports/<group>-<timestamp>.jsonl or all-<timestamp>.jsonl
func defaultExportPath(group *string, now time.Time) (string, error) {
	exportsDir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}

	timestamp := now.Format("2006-01-02T150405")
	name := "all"
	if group != nil && *group != "" {
		// Normalize first, then sanitize so a malicious group name cannot
		// steer the path
		name = SanitizeForFilename(phrase.Normalize(*group))
	}

	filename := fmt.Sprintf("%s-%s.jsonl", name, timestamp)
	return filepath.Join(exportsDir, filename), nil
}
