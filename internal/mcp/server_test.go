package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/coco/internal/ipc"
)

type fakeDaemon struct {
	height  int
	hideErr error
}

func (f *fakeDaemon) Greet(name string) (string, error) {
	return "Hello, " + name + "! You've been greeted from Go!", nil
}

func (f *fakeDaemon) CreateDir() error {
	return nil
}

func (f *fakeDaemon) Show() (*ipc.ShowData, error) {
	return &ipc.ShowData{Placement: "moved", Monitor: "HDMI-1", X: 2160, Y: 212, Warnings: []string{"focus stolen"}}, nil
}

func (f *fakeDaemon) Hide() error {
	return f.hideErr
}

func (f *fakeDaemon) Toggle() error {
	return nil
}

func (f *fakeDaemon) SetHeight(height int) error {
	f.height = height
	return nil
}

func (f *fakeDaemon) GetMonitors() (*ipc.MonitorsData, error) {
	return &ipc.MonitorsData{Monitors: []ipc.MonitorInfo{
		{ID: 0, Name: "DP-1", Width: 1920, Height: 1080, Primary: true},
		{ID: 1, X: 1920, Width: 1280, Height: 1024},
	}}, nil
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	return &ipc.StatusData{DaemonRunning: true, WindowBound: true, WindowID: 0x2a, LastMonitor: "DP-1"}, nil
}

func connect(t *testing.T, d Daemon) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()
	srv := NewServer(d, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ct, st := mcpsdk.NewInMemoryTransports()
	ss, err := srv.Connect(ctx, st)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { ss.Close() })

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func callText(t *testing.T, cs *mcpsdk.ClientSession, name string, args any) (string, bool) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool(%s) error: %v", name, err)
	}
	if len(res.Content) == 0 {
		t.Fatalf("CallTool(%s) returned no content", name)
	}
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s) content is %T", name, res.Content[0])
	}
	return text.Text, res.IsError
}

func TestTools_Listed(t *testing.T) {
	cs := connect(t, &fakeDaemon{})
	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools() error: %v", err)
	}
	got := map[string]bool{}
	for _, tool := range res.Tools {
		got[tool.Name] = true
	}
	for _, want := range []string{"greet", "create_dir", "show_launcher", "hide_launcher", "toggle_launcher", "change_window_height", "list_monitors", "get_status"} {
		if !got[want] {
			t.Errorf("tool %q not registered", want)
		}
	}
}

func TestTools_Greet(t *testing.T) {
	cs := connect(t, &fakeDaemon{})
	text, isErr := callText(t, cs, "greet", map[string]any{"name": "Ada"})
	if isErr || text != "Hello, Ada! You've been greeted from Go!" {
		t.Fatalf("greet = %q (error=%v)", text, isErr)
	}
}

func TestTools_ShowLauncher(t *testing.T) {
	cs := connect(t, &fakeDaemon{})
	text, isErr := callText(t, cs, "show_launcher", map[string]any{})
	if isErr {
		t.Fatalf("show_launcher error: %s", text)
	}
	if !strings.Contains(text, "HDMI-1") || !strings.Contains(text, "2160,212") || !strings.Contains(text, "warning: focus stolen") {
		t.Fatalf("show_launcher = %q", text)
	}
}

func TestTools_ChangeWindowHeight(t *testing.T) {
	d := &fakeDaemon{}
	cs := connect(t, d)

	if text, isErr := callText(t, cs, "change_window_height", map[string]any{"height": 420}); isErr {
		t.Fatalf("change_window_height error: %s", text)
	}
	if d.height != 420 {
		t.Fatalf("height = %d", d.height)
	}

	if _, isErr := callText(t, cs, "change_window_height", map[string]any{"height": 0}); !isErr {
		t.Fatal("expected tool error for zero height")
	}
}

func TestTools_DaemonErrorIsToolError(t *testing.T) {
	cs := connect(t, &fakeDaemon{hideErr: errors.New("daemon error: launcher window not found")})
	text, isErr := callText(t, cs, "hide_launcher", map[string]any{})
	if !isErr || !strings.Contains(text, "launcher window not found") {
		t.Fatalf("hide_launcher = %q (error=%v)", text, isErr)
	}
}

func TestTools_ListMonitors(t *testing.T) {
	cs := connect(t, &fakeDaemon{})
	text, _ := callText(t, cs, "list_monitors", map[string]any{})
	want := "0 DP-1 1920x1080+0+0 primary\n1 (unnamed) 1280x1024+1920+0"
	if text != want {
		t.Fatalf("list_monitors = %q, want %q", text, want)
	}
}

func TestTools_GetStatus(t *testing.T) {
	cs := connect(t, &fakeDaemon{})
	text, _ := callText(t, cs, "get_status", map[string]any{})
	if !strings.Contains(text, "bound to 0x2a") || !strings.Contains(text, `"DP-1"`) {
		t.Fatalf("get_status = %q", text)
	}
}
