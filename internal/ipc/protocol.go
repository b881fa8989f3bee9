package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGreet       CommandType = "GREET"
	CommandCreateDir   CommandType = "CREATE_DIR"
	CommandShow        CommandType = "SHOW"
	CommandHide        CommandType = "HIDE"
	CommandToggle      CommandType = "TOGGLE"
	CommandSetHeight   CommandType = "SET_HEIGHT"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandReload      CommandType = "RELOAD"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type GreetPayload struct {
	Name string `json:"name"`
}

type GreetData struct {
	Message string `json:"message"`
}

type SetHeightPayload struct {
	Height int `json:"height"`
}

// ShowData describes where the launcher ended up after SHOW.
type ShowData struct {
	Placement string   `json:"placement"`
	Monitor   string   `json:"monitor,omitempty"`
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Warnings  []string `json:"warnings,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning bool   `json:"daemon_running"`
	WindowBound   bool   `json:"window_bound"`
	WindowID      uint32 `json:"window_id,omitempty"`
	LastMonitor   string `json:"last_monitor,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Primary bool   `json:"primary"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
