package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/coco/internal/geometry"
	"github.com/1broseidon/coco/internal/launcher"
	"github.com/1broseidon/coco/internal/platform"
	"github.com/1broseidon/coco/internal/runtimepath"
)

// ErrDaemonRunning is returned by Start when another daemon owns the socket.
var ErrDaemonRunning = errors.New("another coco daemon is already running")

// Launcher is the command surface the server dispatches to.
type Launcher interface {
	Greet(name string) string
	CreateFile() error
	Show() (launcher.ShowReport, error)
	Hide() error
	Toggle() error
	ChangeWindowHeight(height int) error
	LastMonitor() string
}

// DisplaySource enumerates monitors without needing the launcher window.
type DisplaySource interface {
	Displays() ([]geometry.Monitor, error)
}

// BindingSource reports which window is currently the launcher.
type BindingSource interface {
	Bound() (platform.WindowID, bool)
}

// ServerConfig wires a Server. Empty SocketPath means runtimepath.SocketPath.
type ServerConfig struct {
	SocketPath string
	Launcher   Launcher
	Displays   DisplaySource
	Binding    BindingSource
	// Reload re-reads configuration on RELOAD.
	Reload func() error
	Logger *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	listener   net.Listener
	launcher   Launcher
	displays   DisplaySource
	binding    BindingSource
	reload     func() error
	logger     *slog.Logger
	startTime  time.Time

	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Launcher == nil {
		return nil, fmt.Errorf("launcher is required")
	}
	socketPath := cfg.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		socketPath: socketPath,
		launcher:   cfg.Launcher,
		displays:   cfg.Displays,
		binding:    cfg.Binding,
		reload:     cfg.Reload,
		logger:     logger,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	if conn, err := net.DialTimeout("unix", s.socketPath, 200*time.Millisecond); err == nil {
		conn.Close()
		return fmt.Errorf("%w (socket %s)", ErrDaemonRunning, s.socketPath)
	}
	// Stale socket from a previous run.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.writeResponse(conn, s.handleCommand(req))
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC command", "command", req.Command)

	switch req.Command {
	case CommandGreet:
		return s.handleGreet(req.Payload)
	case CommandCreateDir:
		return okOrError(s.launcher.CreateFile(), "Failed to create file")
	case CommandShow:
		return s.handleShow()
	case CommandHide:
		return okOrError(s.launcher.Hide(), "Failed to hide launcher")
	case CommandToggle:
		return okOrError(s.launcher.Toggle(), "Failed to toggle launcher")
	case CommandSetHeight:
		return s.handleSetHeight(req.Payload)
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGreet(payload json.RawMessage) *Response {
	var req GreetPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid greet payload: %v", err))
		}
	}
	resp, _ := NewOKResponse(GreetData{Message: s.launcher.Greet(req.Name)})
	return resp
}

func (s *Server) handleShow() *Response {
	report, err := s.launcher.Show()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to show launcher: %v", err))
	}

	data := ShowData{
		Placement: report.Placement.Outcome.String(),
		Monitor:   report.Placement.Monitor.Name,
		X:         report.Placement.Position.X,
		Y:         report.Placement.Position.Y,
	}
	for _, stepErr := range []error{report.Placement.Err, report.ShowErr, report.UnminimizeErr, report.FocusErr, report.EmitErr} {
		if stepErr != nil {
			data.Warnings = append(data.Warnings, stepErr.Error())
		}
	}

	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleSetHeight(payload json.RawMessage) *Response {
	var req SetHeightPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid height payload: %v", err))
	}
	return okOrError(s.launcher.ChangeWindowHeight(req.Height), "Failed to change height")
}

func (s *Server) handleGetMonitors() *Response {
	if s.displays == nil {
		return NewErrorResponse("monitor enumeration unavailable")
	}
	displays, err := s.displays.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}

	infos := make([]MonitorInfo, len(displays))
	for i, d := range displays {
		infos[i] = MonitorInfo{
			ID:      d.ID,
			Name:    d.Name,
			X:       d.Bounds.X,
			Y:       d.Bounds.Y,
			Width:   d.Bounds.Width,
			Height:  d.Bounds.Height,
			Primary: d.Primary,
		}
	}

	resp, _ := NewOKResponse(MonitorsData{Monitors: infos})
	return resp
}

func (s *Server) handleGetStatus() *Response {
	status := StatusData{
		DaemonRunning: true,
		LastMonitor:   s.launcher.LastMonitor(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	}
	if s.binding != nil {
		if id, ok := s.binding.Bound(); ok {
			status.WindowBound = true
			status.WindowID = uint32(id)
		}
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleReload() *Response {
	if s.reload == nil {
		return NewErrorResponse("reload not supported")
	}
	s.logger.Info("IPC: received RELOAD command")
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func okOrError(err error, prefix string) *Response {
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("%s: %v", prefix, err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
		os.Remove(s.socketPath)
	}
}
