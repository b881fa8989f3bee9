package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/coco/internal/platform"
)

// BinderConfig holds configuration for the binder.
type BinderConfig struct {
	Match    platform.Match
	Interval time.Duration
	Logger   *slog.Logger
	// OnBind runs whenever a different window becomes the launcher window.
	OnBind func(platform.Window)
}

// Binder keeps track of the launcher window. The window can be restarted
// or recreated at any time, so the binding is checked on every lookup and
// periodically in the background.
type Binder struct {
	backend  platform.Backend
	interval time.Duration
	logger   *slog.Logger
	onBind   func(platform.Window)

	mu      sync.Mutex
	match   platform.Match
	current platform.Window
}

// NewBinder creates a binder. It does not look for the window until the
// first Window call or Run tick.
func NewBinder(backend platform.Backend, cfg BinderConfig) *Binder {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Binder{
		backend:  backend,
		interval: interval,
		logger:   logger,
		onBind:   cfg.OnBind,
		match:    cfg.Match,
	}
}

// Window returns the bound launcher window, searching again if the previous
// one is gone. It returns platform.ErrWindowNotFound when nothing matches.
func (b *Binder) Window() (platform.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resolveLocked()
}

// SetMatch changes the window selector and drops the current binding.
func (b *Binder) SetMatch(match platform.Match) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if match == b.match {
		return
	}
	b.match = match
	b.current = nil
}

// Bound reports the currently bound window ID without searching.
func (b *Binder) Bound() (platform.WindowID, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return 0, false
	}
	return b.current.ID(), true
}

// Run re-checks the binding every interval. Blocks until ctx is cancelled.
func (b *Binder) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.logger.Info("binder started", "interval", b.interval)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("binder stopped")
			return
		case <-ticker.C:
			b.CheckNow()
		}
	}
}

// CheckNow performs a single binding pass.
func (b *Binder) CheckNow() {
	defer func() {
		if err := recover(); err != nil {
			b.logger.Error("binder panic recovered", "error", err)
		}
	}()

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.resolveLocked(); err != nil {
		b.logger.Debug("launcher window not bound", "error", err)
	}
}

func (b *Binder) resolveLocked() (platform.Window, error) {
	if b.current != nil {
		if b.backend.Alive(b.current.ID()) {
			return b.current, nil
		}
		b.logger.Info("launcher window went away", "window_id", b.current.ID())
		b.current = nil
	}

	win, err := b.backend.FindWindow(b.match)
	if err != nil {
		return nil, err
	}

	b.current = win
	b.logger.Info("launcher window bound",
		"window_id", win.ID(),
		"class", b.match.Class,
		"title", b.match.Title)
	if b.onBind != nil {
		b.onBind(win)
	}
	return win, nil
}
