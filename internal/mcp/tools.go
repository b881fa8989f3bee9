package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleGreet(_ context.Context, _ *mcpsdk.CallToolRequest, args GreetInput) (*mcpsdk.CallToolResult, GreetOutput, error) {
	msg, err := s.daemon.Greet(args.Name)
	if err != nil {
		return nil, GreetOutput{}, err
	}
	return textResult("%s", msg), GreetOutput{Message: msg}, nil
}

func (s *Server) handleCreateDir(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.daemon.CreateDir(); err != nil {
		return nil, AckOutput{}, err
	}
	return textResult("File created"), AckOutput{OK: true}, nil
}

func (s *Server) handleShowLauncher(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, ShowLauncherOutput, error) {
	data, err := s.daemon.Show()
	if err != nil {
		s.logger.Warn("show_launcher failed", "error", err)
		return nil, ShowLauncherOutput{}, err
	}

	out := ShowLauncherOutput{
		Placement: data.Placement,
		Monitor:   data.Monitor,
		X:         data.X,
		Y:         data.Y,
		Warnings:  data.Warnings,
	}

	var b strings.Builder
	switch {
	case data.Monitor != "":
		fmt.Fprintf(&b, "Launcher shown on %s (placement %s at %d,%d)", data.Monitor, data.Placement, data.X, data.Y)
	default:
		fmt.Fprintf(&b, "Launcher shown (placement %s)", data.Placement)
	}
	for _, w := range data.Warnings {
		fmt.Fprintf(&b, "\nwarning: %s", w)
	}
	return textResult("%s", b.String()), out, nil
}

func (s *Server) handleHideLauncher(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.daemon.Hide(); err != nil {
		return nil, AckOutput{}, err
	}
	return textResult("Launcher hidden"), AckOutput{OK: true}, nil
}

func (s *Server) handleToggleLauncher(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.daemon.Toggle(); err != nil {
		return nil, AckOutput{}, err
	}
	return textResult("Launcher toggled"), AckOutput{OK: true}, nil
}

func (s *Server) handleChangeWindowHeight(_ context.Context, _ *mcpsdk.CallToolRequest, args ChangeWindowHeightInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if args.Height <= 0 {
		return nil, AckOutput{}, fmt.Errorf("height must be positive, got %d", args.Height)
	}
	if err := s.daemon.SetHeight(args.Height); err != nil {
		return nil, AckOutput{}, err
	}
	return textResult("Launcher height set to %d", args.Height), AckOutput{OK: true}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}

	var b strings.Builder
	for _, m := range data.Monitors {
		name := m.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(&b, "%d %s %dx%d+%d+%d", m.ID, name, m.Width, m.Height, m.X, m.Y)
		if m.Primary {
			b.WriteString(" primary")
		}
		b.WriteString("\n")
	}
	return textResult("%s", strings.TrimSuffix(b.String(), "\n")), ListMonitorsOutput{Monitors: data.Monitors}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	data, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	out := StatusOutput{
		WindowBound:   data.WindowBound,
		WindowID:      data.WindowID,
		LastMonitor:   data.LastMonitor,
		UptimeSeconds: data.UptimeSeconds,
	}
	bound := "not bound"
	if data.WindowBound {
		bound = fmt.Sprintf("bound to 0x%x", data.WindowID)
	}
	return textResult("Launcher window %s, last monitor %q", bound, data.LastMonitor), out, nil
}
