package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.PollIntervalMs != 250 {
		t.Errorf("PollIntervalMs = %d, want 250", cfg.PollIntervalMs)
	}
	if cfg.SegmentFallbackSec != 5 {
		t.Errorf("SegmentFallbackSec = %v, want 5", cfg.SegmentFallbackSec)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	// Falls back to defaults
	if cfg.PollIntervalMs != 250 {
		t.Errorf("PollIntervalMs = %d, want default 250", cfg.PollIntervalMs)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `{"poll_interval_ms": 100, "mpv_socket": "/tmp/mpv.sock", "allowed_paths": ["/data/exports"]}`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PollIntervalMs != 100 {
		t.Errorf("PollIntervalMs = %d, want 100", cfg.PollIntervalMs)
	}
	// Unset scalar falls back to default
	if cfg.SegmentFallbackSec != 5 {
		t.Errorf("SegmentFallbackSec = %v, want default 5", cfg.SegmentFallbackSec)
	}
	if cfg.MPVSocket != "/tmp/mpv.sock" {
		t.Errorf("MPVSocket = %q, want /tmp/mpv.sock", cfg.MPVSocket)
	}
	if len(cfg.AllowedPaths) != 1 || cfg.AllowedPaths[0] != "/data/exports" {
		t.Errorf("AllowedPaths = %v, want [/data/exports]", cfg.AllowedPaths)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(tmpDir); err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestMerge(t *testing.T) {
	base := &Config{
		PollIntervalMs:     250,
		SegmentFallbackSec: 5,
		AllowedPaths:       []string{"/a", "/b"},
	}
	overlay := &Config{
		PollIntervalMs:   100,
		AllowUnsafePaths: true,
		AllowedPaths:     []string{"/b", "/c"},
	}

	merged := Merge(base, overlay)
	if merged.PollIntervalMs != 100 {
		t.Errorf("PollIntervalMs = %d, want overlay 100", merged.PollIntervalMs)
	}
	if merged.SegmentFallbackSec != 5 {
		t.Errorf("SegmentFallbackSec = %v, want base 5", merged.SegmentFallbackSec)
	}
	if !merged.AllowUnsafePaths {
		t.Error("AllowUnsafePaths should be true after merge")
	}
	want := []string{"/a", "/b", "/c"}
	if len(merged.AllowedPaths) != len(want) {
		t.Fatalf("AllowedPaths = %v, want %v", merged.AllowedPaths, want)
	}
	for i, p := range want {
		if merged.AllowedPaths[i] != p {
			t.Errorf("AllowedPaths[%d] = %q, want %q", i, merged.AllowedPaths[i], p)
		}
	}
}

func TestDefaultMPVSocket(t *testing.T) {
	cfg := &Config{MPVSocket: "/custom/mpv.sock"}
	if got := cfg.DefaultMPVSocket("/home/u/.subloop"); got != "/custom/mpv.sock" {
		t.Errorf("DefaultMPVSocket = %q, want configured path", got)
	}

	cfg = &Config{}
	want := filepath.Join("/home/u/.subloop", "mpv.sock")
	if got := cfg.DefaultMPVSocket("/home/u/.subloop"); got != want {
		t.Errorf("DefaultMPVSocket = %q, want %q", got, want)
	}
}
