package tray

import (
	_ "embed"
	"log/slog"
	"sync"

	"fyne.io/systray"
)

//go:embed icon.png
var iconData []byte

// Actions are invoked from tray clicks. Nil entries hide the menu item.
type Actions struct {
	Show   func() error
	Hide   func() error
	Toggle func() error
	Quit   func()
}

type menuEntry struct {
	label   string
	tooltip string
	run     func() error
}

func menuEntries(a Actions) []menuEntry {
	entries := []menuEntry{
		{label: "Show Launcher", tooltip: "Center the launcher on the active monitor", run: a.Show},
		{label: "Hide Launcher", tooltip: "Hide the launcher", run: a.Hide},
	}
	out := entries[:0]
	for _, e := range entries {
		if e.run != nil {
			out = append(out, e)
		}
	}
	return out
}

// Manager handles the system tray icon and menu
type Manager struct {
	actions Actions
	logger  *slog.Logger

	mu      sync.Mutex
	started bool
	end     func()
	done    chan struct{}
}

// New creates a tray manager. Nothing is shown until Start.
func New(actions Actions, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		actions: actions,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start registers the tray icon. The caller keeps running its own event loop.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true

	start, end := systray.RunWithExternalLoop(m.onReady, m.onExit)
	m.end = end
	start()
}

// Stop removes the tray icon.
func (m *Manager) Stop() {
	m.mu.Lock()
	end := m.end
	m.end = nil
	m.mu.Unlock()
	if end != nil {
		end()
	}
}

func (m *Manager) onReady() {
	systray.SetIcon(iconData)
	systray.SetTitle("coco")
	systray.SetTooltip("coco launcher")

	if m.actions.Toggle != nil {
		systray.SetOnTapped(func() {
			m.run("toggle", m.actions.Toggle)
		})
	}

	for _, e := range menuEntries(m.actions) {
		item := systray.AddMenuItem(e.label, e.tooltip)
		go m.listen(item, e)
	}

	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit coco")
	go func() {
		select {
		case <-mQuit.ClickedCh:
			m.logger.Info("quit requested from tray")
			if m.actions.Quit != nil {
				m.actions.Quit()
			}
		case <-m.done:
		}
	}()

	m.logger.Debug("tray ready")
}

func (m *Manager) onExit() {
	close(m.done)
	m.logger.Debug("tray exited")
}

func (m *Manager) listen(item *systray.MenuItem, e menuEntry) {
	for {
		select {
		case <-item.ClickedCh:
			m.run(e.label, e.run)
		case <-m.done:
			return
		}
	}
}

func (m *Manager) run(name string, fn func() error) {
	if err := fn(); err != nil {
		m.logger.Error("tray action failed", "action", name, "error", err)
	}
}
