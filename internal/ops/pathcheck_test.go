package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/subloop/internal/config"
	"github.com/hpungsan/subloop/internal/errors"
)

func TestValidatePath_Traversal(t *testing.T) {
	cfg := config.DefaultConfig()

	err := ValidatePath("../escape.jsonl", PathCheckWrite, cfg)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestValidatePath_Extension(t *testing.T) {
	cfg := config.DefaultConfig()

	err := ValidatePath("/tmp/export.csv", PathCheckWrite, cfg)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestValidatePath_OutsideAllowedDirs(t *testing.T) {
	cfg := config.DefaultConfig()

	err := ValidatePath(filepath.Join(t.TempDir(), "out.jsonl"), PathCheckWrite, cfg)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestValidatePath_AllowedPathsEntry(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.AllowedPaths = []string{dir}

	if err := ValidatePath(filepath.Join(dir, "out.jsonl"), PathCheckWrite, cfg); err != nil {
		t.Errorf("ValidatePath failed: %v", err)
	}

	// Subdirectory of an allowed dir is still rejected
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0700); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	err := ValidatePath(filepath.Join(sub, "out.jsonl"), PathCheckWrite, cfg)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST for subdirectory", err)
	}
}

func TestValidatePath_UnsafeSkipsDirChecks(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true

	if err := ValidatePath(filepath.Join(t.TempDir(), "anywhere.jsonl"), PathCheckWrite, cfg); err != nil {
		t.Errorf("ValidatePath failed: %v", err)
	}
}

func TestValidatePath_ReadRequiresExisting(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.AllowedPaths = []string{dir}

	err := ValidatePath(filepath.Join(dir, "missing.jsonl"), PathCheckRead, cfg)
	if !errors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestValidatePath_RejectsSymlink(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.AllowedPaths = []string{dir}

	target := filepath.Join(dir, "real.jsonl")
	if err := os.WriteFile(target, []byte("{}\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	link := filepath.Join(dir, "link.jsonl")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	err := ValidatePath(link, PathCheckWrite, cfg)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestSanitizeForFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"idioms", "idioms"},
		{"a/b\\c", "a-b-c"},
		{"..secret", "secret"},
		{"///", "unnamed"},
		{"tabs\tand\x00nulls", "tabsandnulls"},
	}
	for _, tt := range tests {
		if got := SanitizeForFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeForFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
