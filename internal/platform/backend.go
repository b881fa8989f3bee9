package platform

import (
	"errors"

	"github.com/1broseidon/coco/internal/geometry"
)

// ErrWindowNotFound is returned when no launcher window matches the
// configured class or title.
var ErrWindowNotFound = errors.New("launcher window not found")

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Match selects the launcher window. Class is tried first, then Title.
type Match struct {
	Class string
	Title string
}

// Window is the narrow capability surface the launcher needs from a
// top-level window and the display it lives on.
type Window interface {
	ID() WindowID
	Monitors() ([]geometry.Monitor, error)
	CursorPosition() (geometry.Point, error)
	PrimaryMonitor() (*geometry.Monitor, error)
	Size() (geometry.Size, error)
	SetPosition(pos geometry.Point) error
	SetSize(size geometry.Size) error
	Visible() (bool, error)
	Show() error
	Hide() error
	Unminimize() error
	Focus() error
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]geometry.Monitor, error)
	FindWindow(match Match) (Window, error)
	Alive(id WindowID) bool
}
