package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWindowClass    = "coco"
	DefaultShowHotkey     = "Mod4-space"
	DefaultShowEvent      = "show-coco"
	DefaultCreateFileName = "prueba.txt"
	DefaultRebindInterval = 5 * time.Second
)

// WindowConfig selects the launcher window coco controls.
type WindowConfig struct {
	// Class is matched against WM_CLASS class or instance.
	Class string `yaml:"class"`
	// Title is a _NET_WM_NAME substring, tried when Class does not match.
	Title string `yaml:"title,omitempty"`
	// RebindInterval controls how often the daemon checks that the bound
	// window still exists and looks for it again if not.
	RebindInterval time.Duration `yaml:"rebind_interval,omitempty"`
	// Height, when positive, is applied to the window once it is bound.
	Height int `yaml:"height,omitempty"`
}

// HotkeyConfig holds global key sequences in xgbutil keybind syntax.
// An empty sequence disables that hotkey.
type HotkeyConfig struct {
	Show   string `yaml:"show"`
	Hide   string `yaml:"hide,omitempty"`
	Toggle string `yaml:"toggle,omitempty"`
}

// EventConfig configures the events broadcast after state changes.
type EventConfig struct {
	Show string `yaml:"show"`
	// DBus also publishes events and Show/Hide/Toggle methods on the session bus.
	DBus *bool `yaml:"dbus,omitempty"`
}

// FilesConfig configures the create_dir command.
type FilesConfig struct {
	CreateDir  string `yaml:"create_dir,omitempty"`
	CreateName string `yaml:"create_name,omitempty"`
}

// TrayConfig configures the system tray icon.
type TrayConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// LoggingConfig configures the daemon's slog output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`
	// File is an optional log file; empty logs to stderr.
	File string `yaml:"file,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Display    string        `yaml:"display,omitempty"`
	XAuthority string        `yaml:"xauthority,omitempty"`
	Window     WindowConfig  `yaml:"window"`
	Hotkeys    HotkeyConfig  `yaml:"hotkeys"`
	Events     EventConfig   `yaml:"events"`
	Files      FilesConfig   `yaml:"files"`
	Tray       TrayConfig    `yaml:"tray"`
	Logging    LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Class:          DefaultWindowClass,
			RebindInterval: DefaultRebindInterval,
		},
		Hotkeys: HotkeyConfig{
			Show: DefaultShowHotkey,
		},
		Events: EventConfig{
			Show: DefaultShowEvent,
		},
		Files: FilesConfig{
			CreateName: DefaultCreateFileName,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DBusEnabled returns the effective events.dbus value, defaulting to true.
func (c *Config) DBusEnabled() bool {
	if c == nil || c.Events.DBus == nil {
		return true
	}
	return *c.Events.DBus
}

// TrayEnabled returns the effective tray.enabled value, defaulting to true.
func (c *Config) TrayEnabled() bool {
	if c == nil || c.Tray.Enabled == nil {
		return true
	}
	return *c.Tray.Enabled
}

// CreateFilePath returns the path the create_dir command writes to.
func (c *Config) CreateFilePath() string {
	name := c.Files.CreateName
	if name == "" {
		name = DefaultCreateFileName
	}
	if c.Files.CreateDir == "" {
		return name
	}
	return filepath.Join(expandHome(c.Files.CreateDir), name)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Window.Class) == "" && c.Window.Title == "" {
		return &ValidationError{Path: "window", Err: fmt.Errorf("window.class or window.title is required")}
	}
	if c.Window.RebindInterval < 0 {
		return &ValidationError{Path: "window.rebind_interval", Err: fmt.Errorf("must not be negative")}
	}
	if c.Window.Height < 0 {
		return &ValidationError{Path: "window.height", Err: fmt.Errorf("must not be negative")}
	}
	if strings.TrimSpace(c.Events.Show) == "" {
		return &ValidationError{Path: "events.show", Err: fmt.Errorf("event name is required")}
	}
	if strings.ContainsAny(c.Files.CreateName, `/\`) {
		return &ValidationError{Path: "files.create_name", Err: fmt.Errorf("must be a file name, not a path")}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("logging.level must be one of: debug, info, warn, error")}
	}
	hotkeys := map[string]string{}
	for path, seq := range map[string]string{
		"hotkeys.show":   c.Hotkeys.Show,
		"hotkeys.hide":   c.Hotkeys.Hide,
		"hotkeys.toggle": c.Hotkeys.Toggle,
	} {
		if seq == "" {
			continue
		}
		if other, dup := hotkeys[seq]; dup {
			a, b := other, path
			if b < a {
				a, b = b, a
			}
			return &ValidationError{Path: b, Err: fmt.Errorf("duplicates %s (%q)", a, seq)}
		}
		hotkeys[seq] = path
	}
	return nil
}

// Save writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ValidationError ties a config error to the YAML path and, when loaded from
// a file, the line it came from.
type ValidationError struct {
	Path   string
	File   string
	Line   int
	Column int
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.File, e.Line, e.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
