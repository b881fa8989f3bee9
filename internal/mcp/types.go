package mcp

import "github.com/1broseidon/coco/internal/ipc"

// NoInput is used by tools without arguments.
type NoInput struct{}

// GreetInput is the input for the greet tool.
type GreetInput struct {
	Name string `json:"name" jsonschema:"Name of the person to greet"`
}

// GreetOutput is the output for the greet tool.
type GreetOutput struct {
	Message string `json:"message"`
}

// AckOutput is returned by tools that only report success.
type AckOutput struct {
	OK bool `json:"ok"`
}

// ShowLauncherOutput is the output for the show_launcher tool.
type ShowLauncherOutput struct {
	Placement string   `json:"placement"`
	Monitor   string   `json:"monitor,omitempty"`
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ChangeWindowHeightInput is the input for the change_window_height tool.
type ChangeWindowHeightInput struct {
	Height int `json:"height" jsonschema:"New launcher height in pixels; the width is kept"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []ipc.MonitorInfo `json:"monitors"`
}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	WindowBound   bool   `json:"window_bound"`
	WindowID      uint32 `json:"window_id,omitempty"`
	LastMonitor   string `json:"last_monitor,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}
