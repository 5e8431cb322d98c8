package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hearthline/hearth-core/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLevelForMode(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"Debug", "debug"},
		{"debug", "debug"},
		{"Info", "info"},
		{"", "info"},
		{"Verbose", "info"},
	}

	for _, tt := range tests {
		if got := LevelForMode(tt.mode); got != tt.want {
			t.Errorf("LevelForMode(%q) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hearth.log")

	log := New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "file",
		File:   config.FileLoggingConfig{Path: path},
	}, "test")

	log.Info("written to file", "key", "value")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file missing message, got: %s", data)
	}
	if !strings.Contains(string(data), `"service":"hearth"`) {
		t.Errorf("log file missing service attribute, got: %s", data)
	}
}

func TestNew_FileOutputFallback(t *testing.T) {
	// Unopenable path falls back to stdout instead of failing.
	log := New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "file",
		File:   config.FileLoggingConfig{Path: "/nonexistent-dir/hearth.log"},
	}, "test")

	if log == nil {
		t.Fatal("New() returned nil on unopenable log file")
	}
	log.Info("still works")
}

func TestWith(t *testing.T) {
	log := Default()
	child := log.With("component", "dispatch")
	if child == nil || child.Logger == nil {
		t.Fatal("With() returned nil logger")
	}
}
