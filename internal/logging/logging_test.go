package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_WritesToFileAtLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "coco.log")
	logger, closer, err := New("warn", path)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Info("hidden message")
	logger.Warn("visible message", "monitor", "DP-1")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden message") {
		t.Fatalf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "monitor=DP-1") {
		t.Fatalf("missing warn message: %q", out)
	}
}

func TestRotatingFile_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coco.log")
	r, err := NewRotatingFile(path, 1, 2)
	if err != nil {
		t.Fatalf("NewRotatingFile() error: %v", err)
	}
	defer r.Close()

	// Force the next write to rotate.
	r.maxBytes = 8
	if _, err := r.Write([]byte("first line\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := r.Write([]byte("second\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	rotated, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("expected rotated file: %v", err)
	}
	if string(rotated) != "first line\n" {
		t.Fatalf("rotated content = %q", rotated)
	}
	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read current: %v", err)
	}
	if string(current) != "second\n" {
		t.Fatalf("current content = %q", current)
	}
}
