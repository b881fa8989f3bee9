package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/1broseidon/coco/internal/config"
	"github.com/1broseidon/coco/internal/daemon"
	"github.com/1broseidon/coco/internal/events"
	"github.com/1broseidon/coco/internal/geometry"
	"github.com/1broseidon/coco/internal/hotkeys"
	"github.com/1broseidon/coco/internal/ipc"
	"github.com/1broseidon/coco/internal/launcher"
	"github.com/1broseidon/coco/internal/logging"
	"github.com/1broseidon/coco/internal/placement"
	"github.com/1broseidon/coco/internal/platform"
	"github.com/1broseidon/coco/internal/tray"
)

func runDaemon(args []string) int {
	fs := newFlagSet("daemon", "Usage: coco daemon [--config PATH]", "", "Start the coco daemon in the foreground.")
	cfgPath := fs.String("config", "", "Config file path (default: ~/.config/coco/config.yaml)")
	if code, ok := parseArgs(fs, args, 0); !ok {
		return code
	}

	if *cfgPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to resolve config path: %v\n", err)
			return 1
		}
		*cfgPath = p
	}

	cfg, err := config.LoadFromPath(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	logger, logCloser, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		return 1
	}
	defer logCloser.Close()

	d, err := newDaemon(*cfgPath, cfg, logger)
	if err != nil {
		logger.Error("daemon startup failed", "error", err)
		return 1
	}
	defer d.close()

	return d.run()
}

// cocoDaemon owns every long-lived component of the daemon.
type cocoDaemon struct {
	cfgPath string
	logger  *slog.Logger

	backend *platform.LinuxBackend
	binder  *daemon.Binder
	placer  *placement.Placer
	shell   *launcher.Shell
	bus     *events.Bus
	dbus    *events.DBusService
	hotkeys *hotkeys.Handler
	ipc     *ipc.Server
	watcher *config.Watcher
	tray    *tray.Manager

	height atomic.Int64

	cfgMu sync.Mutex
	cfg   *config.Config

	ctx    context.Context
	cancel context.CancelFunc
}

func newDaemon(cfgPath string, cfg *config.Config, logger *slog.Logger) (*cocoDaemon, error) {
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to display: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &cocoDaemon{
		cfgPath: cfgPath,
		logger:  logger,
		backend: backend,
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
	}
	d.height.Store(int64(cfg.Window.Height))

	d.placer = placement.NewPlacer(nil, logger.With("component", "placement"))
	d.binder = daemon.NewBinder(backend, daemon.BinderConfig{
		Match:    windowMatch(cfg),
		Interval: cfg.Window.RebindInterval,
		Logger:   logger.With("component", "binder"),
		OnBind:   d.onBind,
	})

	d.bus = events.NewBus()
	emitters := events.Multi{d.bus}
	if cfg.DBusEnabled() {
		d.dbus = events.NewDBusService(events.Handlers{
			Show:   d.show,
			Hide:   d.hide,
			Toggle: d.toggle,
		}, logger.With("component", "dbus"))
		emitters = append(emitters, d.dbus)
	}

	d.shell = launcher.NewShell(d.binder, d.placer, emitters, shellOptions(cfg), logger.With("component", "launcher"))

	d.hotkeys, err = hotkeys.NewHandler(backend, d.actions(), logger.With("component", "hotkeys"))
	if err != nil {
		d.close()
		return nil, err
	}

	d.ipc, err = ipc.NewServer(ipc.ServerConfig{
		Launcher: d.shell,
		Displays: backend,
		Binding:  d.binder,
		Reload:   d.reload,
		Logger:   logger.With("component", "ipc"),
	})
	if err != nil {
		d.close()
		return nil, err
	}

	return d, nil
}

func (d *cocoDaemon) run() int {
	if err := d.ipc.Start(); err != nil {
		d.logger.Error("failed to start IPC server", "error", err)
		return 1
	}

	if err := d.hotkeys.Apply(d.config().Hotkeys); err != nil {
		d.logger.Warn("some hotkeys could not be registered", "error", err)
	}

	if d.dbus != nil {
		if err := d.dbus.Start(); err != nil {
			// The launcher still works through IPC and hotkeys.
			d.logger.Warn("D-Bus service unavailable", "error", err)
		}
	}

	if d.config().TrayEnabled() {
		d.tray = tray.New(tray.Actions{
			Show:   d.show,
			Hide:   d.hide,
			Toggle: d.toggle,
			Quit:   d.backend.Quit,
		}, d.logger.With("component", "tray"))
		d.tray.Start()
	}

	if w, err := config.NewWatcher(d.cfgPath, d.applyConfig, d.logger.With("component", "config")); err != nil {
		d.logger.Warn("config watcher unavailable", "error", err)
	} else if err := w.Start(); err != nil {
		d.logger.Warn("config watcher unavailable", "error", err)
		w.Stop()
	} else {
		d.watcher = w
	}

	go d.logEvents()

	d.binder.CheckNow()
	go d.binder.Run(d.ctx)

	go d.handleSignals()

	d.logger.Info("coco daemon started", "socket", d.ipc.SocketPath())
	d.backend.EventLoop()
	d.logger.Info("shutting down coco daemon")
	return 0
}

func (d *cocoDaemon) close() {
	d.cancel()
	if d.watcher != nil {
		d.watcher.Stop()
	}
	if d.tray != nil {
		d.tray.Stop()
	}
	if d.ipc != nil {
		d.ipc.Stop()
	}
	if d.dbus != nil {
		d.dbus.Stop()
	}
	if d.bus != nil {
		d.bus.Close()
	}
	d.backend.Disconnect()
}

func (d *cocoDaemon) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-d.ctx.Done():
			return
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				d.logger.Info("received SIGHUP, reloading config")
				if err := d.reload(); err != nil {
					d.logger.Error("config reload failed", "error", err)
				}
				continue
			}
			d.logger.Info("received signal", "signal", sig)
			d.backend.Quit()
			return
		}
	}
}

func (d *cocoDaemon) logEvents() {
	ch, cancel := d.bus.Subscribe(8)
	defer cancel()
	for {
		select {
		case <-d.ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			d.logger.Debug("event", "name", ev.Name, "at", ev.At)
		}
	}
}

// onBind runs with the binder lock held, so it only touches win directly.
func (d *cocoDaemon) onBind(win platform.Window) {
	d.placer.Memory().Reset()

	height := int(d.height.Load())
	if height <= 0 {
		return
	}
	size, err := win.Size()
	if err != nil {
		d.logger.Warn("failed to read window size", "error", err)
		return
	}
	if size.Height == height {
		return
	}
	if err := win.SetSize(geometry.Size{Width: size.Width, Height: height}); err != nil {
		d.logger.Warn("failed to apply configured height", "height", height, "error", err)
	}
}

func (d *cocoDaemon) reload() error {
	cfg, err := config.LoadFromPath(d.cfgPath)
	if err != nil {
		return err
	}
	d.applyConfig(cfg)
	return nil
}

func (d *cocoDaemon) applyConfig(cfg *config.Config) {
	d.cfgMu.Lock()
	old := d.cfg
	d.cfg = cfg
	d.cfgMu.Unlock()

	d.shell.UpdateOptions(shellOptions(cfg))
	d.binder.SetMatch(windowMatch(cfg))
	d.height.Store(int64(cfg.Window.Height))

	if old.Hotkeys != cfg.Hotkeys {
		if err := d.hotkeys.Apply(cfg.Hotkeys); err != nil {
			d.logger.Warn("some hotkeys could not be registered", "error", err)
		}
	}
	if old.Window.Height != cfg.Window.Height && cfg.Window.Height > 0 {
		if err := d.shell.ChangeWindowHeight(cfg.Window.Height); err != nil && !errors.Is(err, launcher.ErrWindowNotFound) {
			d.logger.Warn("failed to apply configured height", "error", err)
		}
	}
	for _, change := range restartOnlyChanges(old, cfg) {
		d.logger.Warn("setting changed; restart the daemon to apply it", "setting", change)
	}

	d.logger.Info("config reloaded")
}

func (d *cocoDaemon) config() *config.Config {
	d.cfgMu.Lock()
	defer d.cfgMu.Unlock()
	return d.cfg
}

func (d *cocoDaemon) show() error {
	_, err := d.shell.Show()
	return err
}

func (d *cocoDaemon) hide() error {
	return d.shell.Hide()
}

func (d *cocoDaemon) toggle() error {
	return d.shell.Toggle()
}

func (d *cocoDaemon) actions() hotkeys.Actions {
	return hotkeys.Actions{Show: d.show, Hide: d.hide, Toggle: d.toggle}
}

func shellOptions(cfg *config.Config) launcher.Options {
	return launcher.Options{
		ShowEvent:      cfg.Events.Show,
		CreateFilePath: cfg.CreateFilePath(),
	}
}

func windowMatch(cfg *config.Config) platform.Match {
	return platform.Match{Class: cfg.Window.Class, Title: cfg.Window.Title}
}

// restartOnlyChanges lists settings that are read once at startup.
func restartOnlyChanges(old, cfg *config.Config) []string {
	var changed []string
	if old.Display != cfg.Display {
		changed = append(changed, "display")
	}
	if old.XAuthority != cfg.XAuthority {
		changed = append(changed, "xauthority")
	}
	if old.Window.RebindInterval != cfg.Window.RebindInterval {
		changed = append(changed, "window.rebind_interval")
	}
	if old.DBusEnabled() != cfg.DBusEnabled() {
		changed = append(changed, "events.dbus")
	}
	if old.TrayEnabled() != cfg.TrayEnabled() {
		changed = append(changed, "tray.enabled")
	}
	if old.Logging != cfg.Logging {
		changed = append(changed, "logging")
	}
	return changed
}
