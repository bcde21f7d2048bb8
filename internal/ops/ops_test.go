package ops

import (
	"context"
	"database/sql"
	"testing"

	"github.com/hpungsan/subloop/internal/db"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func stringPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// mustSave inserts a phrase and returns its id.
func mustSave(t *testing.T, database *sql.DB, input SaveInput) string {
	t.Helper()
	out, err := Save(context.Background(), database, input)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return out.ID
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, DefaultListLimit},
		{"negative uses default", -5, DefaultListLimit},
		{"in range passes through", 42, 42},
		{"over max clamps", 500, MaxListLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampLimit(tt.limit, DefaultListLimit, MaxListLimit); got != tt.want {
				t.Errorf("clampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

func TestCleanOptionalString(t *testing.T) {
	if got := cleanOptionalString(nil); got != nil {
		t.Errorf("cleanOptionalString(nil) = %v, want nil", got)
	}
	if got := cleanOptionalString(stringPtr("   ")); got != nil {
		t.Errorf("cleanOptionalString(blank) = %v, want nil", got)
	}
	if got := cleanOptionalString(stringPtr("  hello ")); got == nil || *got != "hello" {
		t.Errorf("cleanOptionalString trimmed = %v, want hello", got)
	}
}

func TestNormalizeRange(t *testing.T) {
	lo, hi := normalizeRange(7, 3)
	if lo != 3 || hi != 7 {
		t.Errorf("normalizeRange(7, 3) = (%v, %v), want (3, 7)", lo, hi)
	}
	lo, hi = normalizeRange(3, 7)
	if lo != 3 || hi != 7 {
		t.Errorf("normalizeRange(3, 7) = (%v, %v), want (3, 7)", lo, hi)
	}
}
