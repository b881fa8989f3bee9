package placement

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/coco/internal/geometry"
	"github.com/1broseidon/coco/internal/platform"
)

// Memory remembers the name of the monitor the window was last centered on.
// The zero value is ready to use.
type Memory struct {
	mu   sync.Mutex
	last string
}

// Last returns the recorded monitor name, or "" if none.
func (m *Memory) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Matches reports whether name is non-empty and equals the recorded name.
func (m *Memory) Matches(name string) bool {
	if name == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last == name
}

// Record stores name. Empty names are ignored.
func (m *Memory) Record(name string) {
	if name == "" {
		return
	}
	m.mu.Lock()
	m.last = name
	m.mu.Unlock()
}

// Reset forgets the recorded monitor.
func (m *Memory) Reset() {
	m.mu.Lock()
	m.last = ""
	m.mu.Unlock()
}

// Outcome describes what a placement attempt did.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeSkipped
	OutcomeMoved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result reports a placement attempt. Err is set only when Outcome is
// OutcomeFailed.
type Result struct {
	Outcome  Outcome
	Monitor  geometry.Monitor
	Position geometry.Point
	Err      error
}

// Placer centers a window on the monitor under the cursor.
type Placer struct {
	memory *Memory
	logger *slog.Logger
}

// NewPlacer creates a placer sharing memory. A nil memory gets a private one.
func NewPlacer(memory *Memory, logger *slog.Logger) *Placer {
	if memory == nil {
		memory = &Memory{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Placer{memory: memory, logger: logger}
}

// Memory returns the placer's placement memory.
func (p *Placer) Memory() *Memory {
	return p.memory
}

// MoveToActiveMonitor centers win on the monitor holding the cursor, or on
// the primary monitor when the cursor is off every monitor. A move is skipped
// when the target is the named monitor the window was last centered on.
// Every failure is logged and leaves the window where it was.
func (p *Placer) MoveToActiveMonitor(win platform.Window) Result {
	monitors, err := win.Monitors()
	if err != nil {
		p.logger.Error("failed to get monitors", "error", wrapSentinel(geometry.ErrMonitorEnumerationFailed, err))
		monitors = nil
	}

	var cursor *geometry.Point
	if pos, err := win.CursorPosition(); err != nil {
		p.logger.Error("failed to get cursor position", "error", wrapSentinel(geometry.ErrCursorUnavailable, err))
	} else {
		cursor = &pos
	}

	primary, err := win.PrimaryMonitor()
	if err != nil {
		p.logger.Debug("primary monitor unavailable", "error", err)
		primary = nil
	}

	target, err := geometry.ResolveTargetMonitor(monitors, cursor, primary)
	if err != nil {
		p.logger.Error("no monitor found")
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	if p.memory.Matches(target.Name) {
		p.logger.Debug("currently on the same monitor", "monitor", target.Name)
		return Result{Outcome: OutcomeSkipped, Monitor: target}
	}

	size, err := win.Size()
	if err != nil {
		err = wrapSentinel(geometry.ErrWindowSizeUnavailable, err)
		p.logger.Error("failed to get window size", "error", err)
		return Result{Outcome: OutcomeFailed, Monitor: target, Err: err}
	}

	pos := geometry.CenteredPosition(target.Bounds, size)
	if err := win.SetPosition(pos); err != nil {
		err = wrapSentinel(geometry.ErrMoveFailed, err)
		p.logger.Error("failed to move window", "error", err, "monitor", target.Name)
		return Result{Outcome: OutcomeFailed, Monitor: target, Position: pos, Err: err}
	}

	if target.Name != "" {
		p.logger.Debug("window moved to monitor", "monitor", target.Name, "x", pos.X, "y", pos.Y)
		p.memory.Record(target.Name)
	}

	return Result{Outcome: OutcomeMoved, Monitor: target, Position: pos}
}

func wrapSentinel(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
