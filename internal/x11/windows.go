package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// MoveWindow moves a window's frame to the given root coordinates.
func (c *Connection) MoveWindow(windowID xproto.Window, x, y int) error {
	req := configureRequest{mask: xproto.ConfigWindowX | xproto.ConfigWindowY, x: x, y: y}
	if err := applyConfigure(c, windowID, req); err != nil {
		return fmt.Errorf("failed to move window to %d,%d: %w", x, y, err)
	}
	return nil
}

// ResizeWindow changes a window's size.
func (c *Connection) ResizeWindow(windowID xproto.Window, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", width, height)
	}
	req := configureRequest{mask: xproto.ConfigWindowWidth | xproto.ConfigWindowHeight, width: width, height: height}
	if err := applyConfigure(c, windowID, req); err != nil {
		return fmt.Errorf("failed to resize window to %dx%d: %w", width, height, err)
	}
	return nil
}

// configureRequest is a partial ConfigureWindow: only the fields named in
// mask are sent.
type configureRequest struct {
	mask          uint16
	x, y          int
	width, height int
}

func (r configureRequest) moves() bool {
	return r.mask&(xproto.ConfigWindowX|xproto.ConfigWindowY) != 0
}

// values lists the requested fields in protocol order.
func (r configureRequest) values() []uint32 {
	var out []uint32
	if r.mask&xproto.ConfigWindowX != 0 {
		out = append(out, uint32(int32(r.x)))
	}
	if r.mask&xproto.ConfigWindowY != 0 {
		out = append(out, uint32(int32(r.y)))
	}
	if r.mask&xproto.ConfigWindowWidth != 0 {
		out = append(out, uint32(r.width))
	}
	if r.mask&xproto.ConfigWindowHeight != 0 {
		out = append(out, uint32(r.height))
	}
	return out
}

type configurer interface {
	IsViewable(windowID xproto.Window) (bool, error)
	// requestFromWM asks the window manager via _NET_MOVERESIZE_WINDOW.
	requestFromWM(windowID xproto.Window, req configureRequest) error
	// configureDirect sends a checked ConfigureWindow to the server.
	configureDirect(windowID xproto.Window, req configureRequest) error
}

// applyConfigure routes a geometry change. Window managers only honor
// _NET_MOVERESIZE_WINDOW for windows they manage, so an unmapped window is
// configured directly and picks up the new geometry when it is mapped.
func applyConfigure(c configurer, windowID xproto.Window, req configureRequest) error {
	viewable, err := c.IsViewable(windowID)
	if err != nil {
		return err
	}
	if viewable {
		if err := c.requestFromWM(windowID, req); err == nil {
			return nil
		}
	}
	return c.configureDirect(windowID, req)
}

func (c *Connection) requestFromWM(windowID xproto.Window, req configureRequest) error {
	if req.moves() {
		return ewmh.MoveWindow(c.XUtil, windowID, req.x, req.y)
	}
	return ewmh.ResizeWindow(c.XUtil, windowID, req.width, req.height)
}

func (c *Connection) configureDirect(windowID xproto.Window, req configureRequest) error {
	if err := xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, req.mask, req.values()).Check(); err != nil {
		return err
	}
	if req.moves() {
		c.pinPosition(windowID, req.x, req.y)
	}
	return nil
}

// pinPosition marks the position as user-specified in WM_NORMAL_HINTS so
// the window manager keeps it instead of running its own placement on map.
func (c *Connection) pinPosition(windowID xproto.Window, x, y int) {
	hints, err := icccm.WmNormalHintsGet(c.XUtil, windowID)
	if err != nil {
		hints = &icccm.NormalHints{}
	}
	hints.Flags |= icccm.SizeHintUSPosition | icccm.SizeHintPPosition
	hints.X, hints.Y = x, y
	_ = icccm.WmNormalHintsSet(c.XUtil, windowID, hints)
}

// WindowSize returns the inner size of a window.
func (c *Connection) WindowSize(windowID xproto.Window) (width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get window geometry: %w", err)
	}
	return int(geom.Width), int(geom.Height), nil
}

// MapWindow makes a window visible.
func (c *Connection) MapWindow(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// UnmapWindow hides a window.
func (c *Connection) UnmapWindow(windowID xproto.Window) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// IsViewable reports whether the window is currently mapped and viewable.
func (c *Connection) IsViewable(windowID xproto.Window) (bool, error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false, fmt.Errorf("failed to get window attributes: %w", err)
	}
	return attrs.MapState == xproto.MapStateViewable, nil
}

// Unminimize clears the hidden (iconified) state and remaps the window.
func (c *Connection) Unminimize(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err == nil {
		for _, state := range states {
			if state == "_NET_WM_STATE_HIDDEN" {
				if err := ewmh.WmStateReq(c.XUtil, windowID, 0, "_NET_WM_STATE_HIDDEN"); err != nil {
					return fmt.Errorf("failed to clear hidden state: %w", err)
				}
				break
			}
		}
	}
	return c.MapWindow(windowID)
}

// WindowExists reports whether the window ID still refers to a live window.
func (c *Connection) WindowExists(windowID xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil
}
