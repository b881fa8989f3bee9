package launcher

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/1broseidon/coco/internal/events"
	"github.com/1broseidon/coco/internal/geometry"
	"github.com/1broseidon/coco/internal/placement"
	"github.com/1broseidon/coco/internal/platform"
	"github.com/1broseidon/coco/internal/platform/platformtest"
)

type staticSource struct {
	win platform.Window
	err error
}

func (s staticSource) Window() (platform.Window, error) {
	return s.win, s.err
}

type recordingEmitter struct {
	names []string
	err   error
}

func (r *recordingEmitter) Emit(name string) error {
	r.names = append(r.names, name)
	return r.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newWindow() *platformtest.Window {
	mon := geometry.Monitor{ID: 0, Name: "DP-1", Bounds: geometry.Rect{Width: 1920, Height: 1080}, Primary: true}
	return &platformtest.Window{
		WindowID:   1,
		MonitorSet: []geometry.Monitor{mon},
		Cursor:     &geometry.Point{X: 10, Y: 10},
		Primary:    &mon,
		WindowSize: geometry.Size{Width: 800, Height: 600},
	}
}

func newShell(win platform.Window, emitter events.Emitter) *Shell {
	logger := quietLogger()
	return NewShell(staticSource{win: win}, placement.NewPlacer(nil, logger), emitter,
		Options{ShowEvent: "show-coco"}, logger)
}

func TestGreet(t *testing.T) {
	s := newShell(nil, nil)
	if got := s.Greet("Ada"); got != "Hello, Ada! You've been greeted from Go!" {
		t.Fatalf("Greet() = %q", got)
	}
}

func TestShow_RunsAllStepsInOrder(t *testing.T) {
	win := newWindow()
	win.Minimized = true
	emitter := &recordingEmitter{}
	s := newShell(win, emitter)

	report, err := s.Show()
	if err != nil {
		t.Fatalf("Show() error: %v", err)
	}
	if report.Err() != nil {
		t.Fatalf("report error: %v", report.Err())
	}
	if report.Placement.Outcome != placement.OutcomeMoved {
		t.Fatalf("placement outcome = %v", report.Placement.Outcome)
	}

	want := []string{"monitors", "cursor", "primary", "size", "move", "show", "unminimize", "focus"}
	if got := win.CallLog(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	if !win.Shown || win.Minimized || !win.Focused {
		t.Fatalf("window state shown=%v minimized=%v focused=%v", win.Shown, win.Minimized, win.Focused)
	}
	if len(emitter.names) != 1 || emitter.names[0] != "show-coco" {
		t.Fatalf("emitted = %v", emitter.names)
	}
}

func TestShow_StepFailuresAreIndependent(t *testing.T) {
	win := newWindow()
	win.MoveErr = errors.New("move refused")
	win.FocusErr = errors.New("focus stolen")
	emitter := &recordingEmitter{}
	s := newShell(win, emitter)

	report, err := s.Show()
	if err != nil {
		t.Fatalf("Show() error: %v", err)
	}
	if report.Placement.Outcome != placement.OutcomeFailed {
		t.Fatalf("placement outcome = %v, want failed", report.Placement.Outcome)
	}
	if !win.Shown {
		t.Fatal("show must still be requested after a failed move")
	}
	if !errors.Is(report.Err(), win.FocusErr) {
		t.Fatalf("report error = %v, want focus error", report.Err())
	}
	if len(emitter.names) != 1 {
		t.Fatal("event must still be emitted after a failed focus")
	}
}

func TestShow_WindowNotFound(t *testing.T) {
	emitter := &recordingEmitter{}
	s := NewShell(staticSource{err: platform.ErrWindowNotFound}, nil, emitter, Options{ShowEvent: "show-coco"}, quietLogger())

	if _, err := s.Show(); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("Show() error = %v, want ErrWindowNotFound", err)
	}
	if len(emitter.names) != 0 {
		t.Fatal("no event expected without a window")
	}
}

func TestHide(t *testing.T) {
	win := newWindow()
	win.Shown = true
	s := newShell(win, nil)

	if err := s.Hide(); err != nil {
		t.Fatalf("Hide() error: %v", err)
	}
	if win.Shown {
		t.Fatal("expected window hidden")
	}

	win.HideErr = errors.New("nope")
	if err := s.Hide(); !errors.Is(err, win.HideErr) {
		t.Fatalf("Hide() error = %v, want wrapped hide error", err)
	}
}

func TestHide_WindowNotFound(t *testing.T) {
	s := NewShell(nil, nil, nil, Options{}, quietLogger())
	if err := s.Hide(); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("Hide() error = %v, want ErrWindowNotFound", err)
	}
}

func TestToggle(t *testing.T) {
	win := newWindow()
	s := newShell(win, nil)

	if err := s.Toggle(); err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}
	if !win.Shown {
		t.Fatal("first toggle should show")
	}
	if err := s.Toggle(); err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}
	if win.Shown {
		t.Fatal("second toggle should hide")
	}
}

func TestChangeWindowHeight(t *testing.T) {
	win := newWindow()
	s := newShell(win, nil)

	if err := s.ChangeWindowHeight(420); err != nil {
		t.Fatalf("ChangeWindowHeight() error: %v", err)
	}
	if win.WindowSize != (geometry.Size{Width: 800, Height: 420}) {
		t.Fatalf("size = %+v", win.WindowSize)
	}

	for _, h := range []int{0, -5} {
		if err := s.ChangeWindowHeight(h); err == nil {
			t.Fatalf("expected error for height %d", h)
		}
	}
	if win.WindowSize.Height != 420 {
		t.Fatalf("rejected height changed the window: %+v", win.WindowSize)
	}

	win.SizeErr = errors.New("gone")
	if err := s.ChangeWindowHeight(300); !errors.Is(err, geometry.ErrWindowSizeUnavailable) {
		t.Fatalf("error = %v, want ErrWindowSizeUnavailable", err)
	}
}

func TestCreateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prueba.txt")
	s := NewShell(nil, nil, nil, Options{CreateFilePath: path}, quietLogger())

	if err := s.CreateFile(); err != nil {
		t.Fatalf("CreateFile() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file: %v", err)
	}
}

func TestCreateFile_FailureIsReturned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "prueba.txt")
	s := NewShell(nil, nil, nil, Options{CreateFilePath: path}, quietLogger())

	if err := s.CreateFile(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestUpdateOptions_ChangesEventName(t *testing.T) {
	win := newWindow()
	emitter := &recordingEmitter{}
	s := newShell(win, emitter)
	s.UpdateOptions(Options{ShowEvent: "launcher-shown"})

	if _, err := s.Show(); err != nil {
		t.Fatalf("Show() error: %v", err)
	}
	if emitter.names[0] != "launcher-shown" {
		t.Fatalf("emitted %q", emitter.names[0])
	}
}

func TestLastMonitor(t *testing.T) {
	win := newWindow()
	s := newShell(win, nil)
	if s.LastMonitor() != "" {
		t.Fatal("expected no monitor before first show")
	}
	s.Show()
	if got := s.LastMonitor(); got != "DP-1" {
		t.Fatalf("LastMonitor() = %q", got)
	}
}
