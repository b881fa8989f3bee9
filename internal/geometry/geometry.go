package geometry

import (
	"errors"
	"math"
)

// Sentinel errors shared by the placement pipeline. None of them are fatal;
// callers log and leave the window where it is.
var (
	ErrMonitorEnumerationFailed = errors.New("monitor enumeration failed")
	ErrCursorUnavailable        = errors.New("cursor position unavailable")
	ErrNoMonitorFound           = errors.New("no monitor found")
	ErrWindowSizeUnavailable    = errors.New("window size unavailable")
	ErrMoveFailed               = errors.New("window move failed")
)

// Rect describes a rectangular region in root-window pixel coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Point is a pixel coordinate.
type Point struct {
	X int
	Y int
}

// Size is a window's pixel size.
type Size struct {
	Width  int
	Height int
}

// Monitor is a physical display. Name is empty for outputs the display
// server does not name.
type Monitor struct {
	ID      int
	Name    string
	Bounds  Rect
	Primary bool
}

// RoundPoint converts a sub-pixel cursor position to the nearest pixel.
func RoundPoint(x, y float64) Point {
	return Point{X: int(math.Round(x)), Y: int(math.Round(y))}
}

// ContainsInclusive reports whether p lies inside r, counting the right and
// bottom edges as inside.
func (r Rect) ContainsInclusive(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// ResolveTargetMonitor picks the monitor that should host the window.
//
// With a cursor, the first monitor in sequence order whose bounds contain it
// wins; a cursor on an edge shared by two monitors therefore lands on the
// earlier one. Without a match it falls back to primary, and returns
// ErrNoMonitorFound when that is nil too.
func ResolveTargetMonitor(monitors []Monitor, cursor *Point, primary *Monitor) (Monitor, error) {
	if cursor != nil {
		for _, m := range monitors {
			if m.Bounds.ContainsInclusive(*cursor) {
				return m, nil
			}
		}
	}
	if primary != nil {
		return *primary, nil
	}
	return Monitor{}, ErrNoMonitorFound
}

// CenteredPosition returns the top-left corner that centers a window of the
// given size inside monitor. Windows larger than the monitor get a position
// left of or above the monitor origin; no clamping is applied.
func CenteredPosition(monitor Rect, window Size) Point {
	return Point{
		X: monitor.X + (monitor.Width-window.Width)/2,
		Y: monitor.Y + (monitor.Height-window.Height)/2,
	}
}
