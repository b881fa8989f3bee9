package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if !cfg.DBusEnabled() || !cfg.TrayEnabled() {
		t.Fatalf("expected dbus and tray enabled by default")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Window.Class != DefaultWindowClass {
		t.Fatalf("expected class %q, got %q", DefaultWindowClass, cfg.Window.Class)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Events.Show != DefaultShowEvent {
		t.Fatalf("expected event %q, got %q", DefaultShowEvent, cfg.Events.Show)
	}
}

func TestLoadFromPath_OverridesKeepOtherDefaults(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"window:",
		"  class: launcher",
		"  rebind_interval: 2s",
		"hotkeys:",
		"  toggle: Mod4-grave",
		"events:",
		"  dbus: false",
		"tray:",
		"  enabled: false",
		"",
	}, "\n"))

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Window.Class != "launcher" {
		t.Fatalf("class = %q", cfg.Window.Class)
	}
	if cfg.Window.RebindInterval != 2*time.Second {
		t.Fatalf("rebind_interval = %v", cfg.Window.RebindInterval)
	}
	if cfg.Hotkeys.Show != DefaultShowHotkey {
		t.Fatalf("show hotkey = %q, want default", cfg.Hotkeys.Show)
	}
	if cfg.Hotkeys.Toggle != "Mod4-grave" {
		t.Fatalf("toggle hotkey = %q", cfg.Hotkeys.Toggle)
	}
	if cfg.DBusEnabled() || cfg.TrayEnabled() {
		t.Fatalf("expected dbus and tray disabled")
	}
}

func TestLoadFromPath_UnknownFieldRejected(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "window:\n  clas: typo\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadFromPath_ValidationErrorHasLine(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: loud\n")
	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "logging.level" {
		t.Fatalf("path = %q", verr.Path)
	}
	if verr.Line != 2 {
		t.Fatalf("line = %d, want 2", verr.Line)
	}
	if !strings.Contains(err.Error(), path+":2:") {
		t.Fatalf("error %q missing file position", err.Error())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
	}{
		{"no window selector", func(c *Config) { c.Window.Class = ""; c.Window.Title = "" }, "window"},
		{"title only is fine", func(c *Config) { c.Window.Class = ""; c.Window.Title = "Launcher" }, ""},
		{"negative interval", func(c *Config) { c.Window.RebindInterval = -time.Second }, "window.rebind_interval"},
		{"negative height", func(c *Config) { c.Window.Height = -1 }, "window.height"},
		{"empty event", func(c *Config) { c.Events.Show = " " }, "events.show"},
		{"create name is a path", func(c *Config) { c.Files.CreateName = "a/b.txt" }, "files.create_name"},
		{"duplicate hotkeys", func(c *Config) { c.Hotkeys.Toggle = c.Hotkeys.Show }, "hotkeys.toggle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantPath == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.wantPath {
				t.Fatalf("path = %q, want %q", verr.Path, tt.wantPath)
			}
		})
	}
}

func TestCreateFilePath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.CreateFilePath(); got != DefaultCreateFileName {
		t.Fatalf("CreateFilePath() = %q", got)
	}

	cfg.Files.CreateDir = "/tmp/coco"
	cfg.Files.CreateName = "out.txt"
	if got := cfg.CreateFilePath(); got != "/tmp/coco/out.txt" {
		t.Fatalf("CreateFilePath() = %q", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Window.Class = "my-launcher"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Window.Class != "my-launcher" {
		t.Fatalf("class = %q", loaded.Window.Class)
	}
}

func TestDefaultConfigPath_UsesXDGConfigHome(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", td)
	got, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() error: %v", err)
	}
	if got != filepath.Join(td, "coco", "config.yaml") {
		t.Fatalf("DefaultConfigPath() = %q", got)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "window:\n  class: first\n")

	changed := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { changed <- c }, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.debounce = 10 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("window:\n  class: second\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// A truncate-then-write save can surface an intermediate reload first.
	deadline := time.After(3 * time.Second)
	for {
		select {
		case cfg := <-changed:
			if cfg.Window.Class == "second" {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}
