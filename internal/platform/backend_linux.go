//go:build linux

package platform

import (
	"fmt"
	"strings"

	"github.com/1broseidon/coco/internal/geometry"
	"github.com/1broseidon/coco/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackendFromDisplay opens a fresh X11 connection to display
// ("" means $DISPLAY).
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnectionDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops a running EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays in RandR CRTC order.
func (b *LinuxBackend) Displays() ([]geometry.Monitor, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]geometry.Monitor, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, monitorFromX11(m))
	}
	return displays, nil
}

// FindWindow locates the launcher window by WM_CLASS, then by title.
func (b *LinuxBackend) FindWindow(match Match) (Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	var lastErr error
	if strings.TrimSpace(match.Class) != "" {
		id, err := conn.FindWindowByClass(match.Class)
		if err == nil {
			return &linuxWindow{backend: b, id: id}, nil
		}
		lastErr = err
	}
	if match.Title != "" {
		id, err := conn.FindWindowByTitle(match.Title)
		if err == nil {
			return &linuxWindow{backend: b, id: id}, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		return nil, fmt.Errorf("%w: no class or title configured", ErrWindowNotFound)
	}
	return nil, fmt.Errorf("%w: %v", ErrWindowNotFound, lastErr)
}

// Alive reports whether id still refers to an existing window.
func (b *LinuxBackend) Alive(id WindowID) bool {
	conn, err := b.connection()
	if err != nil {
		return false
	}
	return conn.WindowExists(xproto.Window(id))
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func monitorFromX11(m x11.Monitor) geometry.Monitor {
	return geometry.Monitor{
		ID:   m.ID,
		Name: m.Name,
		Bounds: geometry.Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
		Primary: m.Primary,
	}
}

// linuxWindow is a Window bound to one X11 client window.
type linuxWindow struct {
	backend *LinuxBackend
	id      xproto.Window
}

var _ Window = (*linuxWindow)(nil)

func (w *linuxWindow) ID() WindowID {
	return WindowID(w.id)
}

func (w *linuxWindow) Monitors() ([]geometry.Monitor, error) {
	return w.backend.Displays()
}

func (w *linuxWindow) CursorPosition() (geometry.Point, error) {
	conn, err := w.backend.connection()
	if err != nil {
		return geometry.Point{}, err
	}
	x, y, err := conn.PointerPosition()
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.Point{X: x, Y: y}, nil
}

func (w *linuxWindow) PrimaryMonitor() (*geometry.Monitor, error) {
	conn, err := w.backend.connection()
	if err != nil {
		return nil, err
	}
	m, err := conn.GetPrimaryMonitor()
	if err != nil {
		return nil, err
	}
	mon := monitorFromX11(*m)
	return &mon, nil
}

func (w *linuxWindow) Size() (geometry.Size, error) {
	conn, err := w.backend.connection()
	if err != nil {
		return geometry.Size{}, err
	}
	width, height, err := conn.WindowSize(w.id)
	if err != nil {
		return geometry.Size{}, err
	}
	return geometry.Size{Width: width, Height: height}, nil
}

func (w *linuxWindow) SetPosition(pos geometry.Point) error {
	conn, err := w.backend.connection()
	if err != nil {
		return err
	}
	return conn.MoveWindow(w.id, pos.X, pos.Y)
}

func (w *linuxWindow) SetSize(size geometry.Size) error {
	conn, err := w.backend.connection()
	if err != nil {
		return err
	}
	return conn.ResizeWindow(w.id, size.Width, size.Height)
}

func (w *linuxWindow) Visible() (bool, error) {
	conn, err := w.backend.connection()
	if err != nil {
		return false, err
	}
	return conn.IsViewable(w.id)
}

func (w *linuxWindow) Show() error {
	conn, err := w.backend.connection()
	if err != nil {
		return err
	}
	return conn.MapWindow(w.id)
}

func (w *linuxWindow) Hide() error {
	conn, err := w.backend.connection()
	if err != nil {
		return err
	}
	return conn.UnmapWindow(w.id)
}

func (w *linuxWindow) Unminimize() error {
	conn, err := w.backend.connection()
	if err != nil {
		return err
	}
	return conn.Unminimize(w.id)
}

func (w *linuxWindow) Focus() error {
	conn, err := w.backend.connection()
	if err != nil {
		return err
	}
	return conn.FocusWindow(w.id)
}
