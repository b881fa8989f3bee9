package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
// Sends a client message to the root window as EWMH requires.
// We build the message manually because the xgbutil ewmh helpers panic on
// this library version.
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// FindWindowByClass looks for a window whose WM_CLASS class or instance
// equals class (case-insensitive). See findWindow for the search order.
func (c *Connection) FindWindowByClass(class string) (xproto.Window, error) {
	class = strings.TrimSpace(class)
	if class == "" {
		return 0, fmt.Errorf("empty window class")
	}
	win, ok := findWindow(c, c.Root, func(win xproto.Window) bool {
		wmClass, err := icccm.WmClassGet(c.XUtil, win)
		if err != nil {
			return false
		}
		return strings.EqualFold(wmClass.Class, class) || strings.EqualFold(wmClass.Instance, class)
	})
	if !ok {
		return 0, fmt.Errorf("no window found with class %q", class)
	}
	return win, nil
}

// FindWindowByTitle looks for a window whose _NET_WM_NAME (or WM_NAME)
// contains substring. Returns the first match.
func (c *Connection) FindWindowByTitle(substring string) (xproto.Window, error) {
	if substring == "" {
		return 0, fmt.Errorf("empty window title")
	}
	win, ok := findWindow(c, c.Root, func(win xproto.Window) bool {
		name, err := ewmh.WmNameGet(c.XUtil, win)
		if err != nil || name == "" {
			if name, err = icccm.WmNameGet(c.XUtil, win); err != nil {
				return false
			}
		}
		return strings.Contains(name, substring)
	})
	if !ok {
		return 0, fmt.Errorf("no window found with title containing %q", substring)
	}
	return win, nil
}

type windowTree interface {
	clientList() ([]xproto.Window, error)
	children(parent xproto.Window) ([]xproto.Window, error)
}

// findWindow checks the EWMH client list first. Window managers drop
// withdrawn windows from that list, so it then walks the root's children
// and one level below them to reach clients still inside a WM frame.
func findWindow(t windowTree, root xproto.Window, match func(xproto.Window) bool) (xproto.Window, bool) {
	clients, _ := t.clientList()
	for _, win := range clients {
		if match(win) {
			return win, true
		}
	}

	top, err := t.children(root)
	if err != nil {
		return 0, false
	}
	for _, win := range top {
		if match(win) {
			return win, true
		}
	}
	for _, frame := range top {
		inner, err := t.children(frame)
		if err != nil {
			continue
		}
		for _, win := range inner {
			if match(win) {
				return win, true
			}
		}
	}
	return 0, false
}

func (c *Connection) clientList() ([]xproto.Window, error) {
	return ewmh.ClientListGet(c.XUtil)
}

func (c *Connection) children(parent xproto.Window) ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), parent).Reply()
	if err != nil {
		return nil, err
	}
	return tree.Children, nil
}
