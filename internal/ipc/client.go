package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/coco/internal/runtimepath"
)

// ErrDaemonError wraps errors reported by the daemon itself.
var ErrDaemonError = errors.New("daemon error")

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// sendRequest surfaces the connection error.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for a specific socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) sendRequest(command CommandType, payload interface{}) (*Response, error) {
	req := &Request{Command: command}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = raw
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("%w: %s", ErrDaemonError, resp.Error)
	}

	return &resp, nil
}

func (c *Client) call(command CommandType, payload interface{}, out interface{}) error {
	resp, err := c.sendRequest(command, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Greet asks the daemon for a greeting.
func (c *Client) Greet(name string) (string, error) {
	var data GreetData
	if err := c.call(CommandGreet, GreetPayload{Name: name}, &data); err != nil {
		return "", err
	}
	return data.Message, nil
}

// CreateDir creates the configured file.
func (c *Client) CreateDir() error {
	return c.call(CommandCreateDir, nil, nil)
}

// Show centers and shows the launcher.
func (c *Client) Show() (*ShowData, error) {
	var data ShowData
	if err := c.call(CommandShow, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Hide hides the launcher.
func (c *Client) Hide() error {
	return c.call(CommandHide, nil, nil)
}

// Toggle flips launcher visibility.
func (c *Client) Toggle() error {
	return c.call(CommandToggle, nil, nil)
}

// SetHeight resizes the launcher keeping its width.
func (c *Client) SetHeight(height int) error {
	return c.call(CommandSetHeight, SetHeightPayload{Height: height}, nil)
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	var data MonitorsData
	if err := c.call(CommandGetMonitors, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var data StatusData
	if err := c.call(CommandGetStatus, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}
