// Package platformtest provides an in-memory platform.Window for tests.
package platformtest

import (
	"sync"

	"github.com/1broseidon/coco/internal/geometry"
	"github.com/1broseidon/coco/internal/platform"
)

// Window records every call made to it. Each *Err field, when set, is
// returned by the matching method.
type Window struct {
	mu sync.Mutex

	WindowID   platform.WindowID
	MonitorSet []geometry.Monitor
	Cursor     *geometry.Point
	Primary    *geometry.Monitor
	WindowSize geometry.Size
	Position   geometry.Point
	Shown      bool
	Minimized  bool
	Focused    bool

	MonitorsErr   error
	CursorErr     error
	PrimaryErr    error
	SizeErr       error
	MoveErr       error
	ResizeErr     error
	ShowErr       error
	HideErr       error
	UnminimizeErr error
	FocusErr      error

	MoveCalls int
	Calls     []string
}

var _ platform.Window = (*Window)(nil)

func (f *Window) record(call string) {
	f.Calls = append(f.Calls, call)
}

func (f *Window) ID() platform.WindowID {
	return f.WindowID
}

func (f *Window) Monitors() ([]geometry.Monitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("monitors")
	if f.MonitorsErr != nil {
		return nil, f.MonitorsErr
	}
	out := make([]geometry.Monitor, len(f.MonitorSet))
	copy(out, f.MonitorSet)
	return out, nil
}

func (f *Window) CursorPosition() (geometry.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("cursor")
	if f.CursorErr != nil {
		return geometry.Point{}, f.CursorErr
	}
	if f.Cursor == nil {
		return geometry.Point{}, geometry.ErrCursorUnavailable
	}
	return *f.Cursor, nil
}

func (f *Window) PrimaryMonitor() (*geometry.Monitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("primary")
	if f.PrimaryErr != nil {
		return nil, f.PrimaryErr
	}
	return f.Primary, nil
}

func (f *Window) Size() (geometry.Size, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("size")
	if f.SizeErr != nil {
		return geometry.Size{}, f.SizeErr
	}
	return f.WindowSize, nil
}

func (f *Window) SetPosition(pos geometry.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("move")
	f.MoveCalls++
	if f.MoveErr != nil {
		return f.MoveErr
	}
	f.Position = pos
	return nil
}

func (f *Window) SetSize(size geometry.Size) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("resize")
	if f.ResizeErr != nil {
		return f.ResizeErr
	}
	f.WindowSize = size
	return nil
}

func (f *Window) Visible() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Shown && !f.Minimized, nil
}

func (f *Window) Show() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("show")
	if f.ShowErr != nil {
		return f.ShowErr
	}
	f.Shown = true
	return nil
}

func (f *Window) Hide() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("hide")
	if f.HideErr != nil {
		return f.HideErr
	}
	f.Shown = false
	return nil
}

func (f *Window) Unminimize() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("unminimize")
	if f.UnminimizeErr != nil {
		return f.UnminimizeErr
	}
	f.Minimized = false
	return nil
}

func (f *Window) Focus() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("focus")
	if f.FocusErr != nil {
		return f.FocusErr
	}
	f.Focused = true
	return nil
}

// CallLog returns a copy of the recorded method calls.
func (f *Window) CallLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	copy(out, f.Calls)
	return out
}
