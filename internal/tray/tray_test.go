package tray

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"testing"
)

func TestIconIsValidPNG(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(iconData))
	if err != nil {
		t.Fatalf("decode icon: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("icon bounds = %v", b)
	}
}

func TestMenuEntries(t *testing.T) {
	noop := func() error { return nil }

	got := menuEntries(Actions{Show: noop, Hide: noop})
	if len(got) != 2 || got[0].label != "Show Launcher" || got[1].label != "Hide Launcher" {
		t.Fatalf("menuEntries() = %+v", got)
	}

	got = menuEntries(Actions{Show: noop})
	if len(got) != 1 || got[0].label != "Show Launcher" {
		t.Fatalf("menuEntries() with only show = %+v", got)
	}
}

func TestRun_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	m := New(Actions{}, slog.New(slog.NewTextHandler(&buf, nil)))
	m.run("Show Launcher", func() error { return errors.New("no window") })
	if !bytes.Contains(buf.Bytes(), []byte("no window")) {
		t.Fatalf("log = %q", buf.String())
	}

	m = New(Actions{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.Stop()
}
