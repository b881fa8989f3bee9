package launcher

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/1broseidon/coco/internal/events"
	"github.com/1broseidon/coco/internal/geometry"
	"github.com/1broseidon/coco/internal/placement"
	"github.com/1broseidon/coco/internal/platform"
)

// ErrWindowNotFound is returned when no launcher window is bound.
var ErrWindowNotFound = platform.ErrWindowNotFound

// WindowSource hands out the current launcher window.
type WindowSource interface {
	Window() (platform.Window, error)
}

// Options are the config-driven parts of the shell.
type Options struct {
	// ShowEvent is broadcast after every Show.
	ShowEvent string
	// CreateFilePath is the file CreateFile creates.
	CreateFilePath string
}

// ShowReport records the outcome of each Show step. Steps are independent:
// a failed focus does not undo the show request that preceded it.
type ShowReport struct {
	Placement     placement.Result
	ShowErr       error
	UnminimizeErr error
	FocusErr      error
	EmitErr       error
}

// Err joins the step errors. Placement failures are not included because
// the window is still shown where it was.
func (r ShowReport) Err() error {
	return errors.Join(r.ShowErr, r.UnminimizeErr, r.FocusErr, r.EmitErr)
}

// Shell implements the launcher commands shared by every front end
// (IPC, hotkeys, tray, D-Bus, MCP).
type Shell struct {
	windows WindowSource
	placer  *placement.Placer
	emitter events.Emitter
	logger  *slog.Logger

	mu   sync.RWMutex
	opts Options
}

// NewShell wires the shell. emitter may be nil.
func NewShell(windows WindowSource, placer *placement.Placer, emitter events.Emitter, opts Options, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	if placer == nil {
		placer = placement.NewPlacer(nil, logger)
	}
	return &Shell{
		windows: windows,
		placer:  placer,
		emitter: emitter,
		logger:  logger,
		opts:    opts,
	}
}

// UpdateOptions swaps in new options, e.g. after a config reload.
func (s *Shell) UpdateOptions(opts Options) {
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
}

func (s *Shell) options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// Greet returns a greeting for name.
func (s *Shell) Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Go!", name)
}

// CreateFile creates (or truncates) the configured file.
func (s *Shell) CreateFile() error {
	path := s.options().CreateFilePath
	if path == "" {
		return fmt.Errorf("no file configured")
	}
	f, err := os.Create(path)
	if err != nil {
		s.logger.Error("failed to create file", "path", path, "error", err)
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	s.logger.Debug("file created", "path", path)
	return nil
}

// Show centers the launcher on the active monitor, shows, unminimizes and
// focuses it, then broadcasts the show event. Only a missing window is
// returned as an error; per-step failures are logged and reported.
func (s *Shell) Show() (ShowReport, error) {
	win, err := s.window()
	if err != nil {
		return ShowReport{}, err
	}

	var report ShowReport
	report.Placement = s.placer.MoveToActiveMonitor(win)

	if report.ShowErr = win.Show(); report.ShowErr != nil {
		s.logger.Error("failed to show window", "error", report.ShowErr)
	}
	if report.UnminimizeErr = win.Unminimize(); report.UnminimizeErr != nil {
		s.logger.Error("failed to unminimize window", "error", report.UnminimizeErr)
	}
	if report.FocusErr = win.Focus(); report.FocusErr != nil {
		s.logger.Error("failed to focus window", "error", report.FocusErr)
	}

	if s.emitter != nil {
		name := s.options().ShowEvent
		if report.EmitErr = s.emitter.Emit(name); report.EmitErr != nil {
			s.logger.Error("failed to emit event", "event", name, "error", report.EmitErr)
		}
	}

	return report, nil
}

// Hide hides the launcher window.
func (s *Shell) Hide() error {
	win, err := s.window()
	if err != nil {
		return err
	}
	if err := win.Hide(); err != nil {
		s.logger.Error("failed to hide the window", "error", err)
		return fmt.Errorf("failed to hide window: %w", err)
	}
	s.logger.Debug("window successfully hidden")
	return nil
}

// Toggle hides a visible launcher and shows a hidden one.
func (s *Shell) Toggle() error {
	win, err := s.window()
	if err != nil {
		return err
	}
	visible, err := win.Visible()
	if err != nil {
		s.logger.Debug("visibility unknown, showing", "error", err)
	}
	if visible {
		return s.Hide()
	}
	_, err = s.Show()
	return err
}

// ChangeWindowHeight resizes the launcher to height, keeping its width.
func (s *Shell) ChangeWindowHeight(height int) error {
	if height <= 0 {
		return fmt.Errorf("invalid height %d", height)
	}
	win, err := s.window()
	if err != nil {
		return err
	}
	size, err := win.Size()
	if err != nil {
		s.logger.Error("failed to get window size", "error", err)
		return fmt.Errorf("%w: %v", geometry.ErrWindowSizeUnavailable, err)
	}
	if err := win.SetSize(geometry.Size{Width: size.Width, Height: height}); err != nil {
		s.logger.Error("failed to resize window", "height", height, "error", err)
		return fmt.Errorf("failed to resize window: %w", err)
	}
	return nil
}

// Monitors lists the displays the launcher can be placed on.
func (s *Shell) Monitors() ([]geometry.Monitor, error) {
	win, err := s.window()
	if err != nil {
		return nil, err
	}
	monitors, err := win.Monitors()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", geometry.ErrMonitorEnumerationFailed, err)
	}
	return monitors, nil
}

// LastMonitor returns the monitor the launcher was last centered on.
func (s *Shell) LastMonitor() string {
	return s.placer.Memory().Last()
}

func (s *Shell) window() (platform.Window, error) {
	if s.windows == nil {
		s.logger.Error("main window not found")
		return nil, ErrWindowNotFound
	}
	win, err := s.windows.Window()
	if err != nil {
		s.logger.Error("main window not found", "error", err)
		if !errors.Is(err, ErrWindowNotFound) {
			err = fmt.Errorf("%w: %v", ErrWindowNotFound, err)
		}
		return nil, err
	}
	return win, nil
}
