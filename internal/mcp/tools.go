package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{Status: *status}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, WindowsOutput, error) {
	data, err := s.daemon.ListWindows()
	if err != nil {
		return nil, WindowsOutput{}, err
	}
	return nil, WindowsOutput{Windows: data.Windows}, nil
}

func (s *Server) handleListSurfaces(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, SurfacesOutput, error) {
	data, err := s.daemon.GetSurfaces()
	if err != nil {
		return nil, SurfacesOutput{}, err
	}
	return nil, SurfacesOutput{Surfaces: data.Surfaces}, nil
}

func (s *Server) handleListLayouts(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, LayoutsOutput, error) {
	data, err := s.daemon.ListLayouts()
	if err != nil {
		return nil, LayoutsOutput{}, err
	}
	return nil, layoutsOutput(data), nil
}

func (s *Server) handleSetLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args SetLayoutInput) (*mcpsdk.CallToolResult, LayoutsOutput, error) {
	name := strings.TrimSpace(args.Layout)
	if name == "" {
		return nil, LayoutsOutput{}, fmt.Errorf("layout is required")
	}
	data, err := s.daemon.SetLayout(name)
	if err != nil {
		return nil, LayoutsOutput{}, err
	}
	return nil, layoutsOutput(data), nil
}

func (s *Server) handleCycleLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args CycleLayoutInput) (*mcpsdk.CallToolResult, LayoutsOutput, error) {
	step := args.Step
	if step == 0 {
		step = 1
	}
	data, err := s.daemon.CycleLayout(step)
	if err != nil {
		return nil, LayoutsOutput{}, err
	}
	return nil, layoutsOutput(data), nil
}

func (s *Server) handleListActions(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ActionsOutput, error) {
	data, err := s.daemon.ListActions()
	if err != nil {
		return nil, ActionsOutput{}, err
	}
	return nil, ActionsOutput{Actions: data.Actions}, nil
}

func (s *Server) handleRunAction(_ context.Context, _ *mcpsdk.CallToolRequest, args RunActionInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	name := strings.TrimSpace(args.Action)
	if name == "" {
		return nil, OKOutput{}, fmt.Errorf("action is required")
	}
	if err := s.daemon.RunAction(name); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true, Message: fmt.Sprintf("ran %s", name)}, nil
}

func (s *Server) handleArrange(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	if err := s.daemon.Arrange(); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleReload(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	if err := s.daemon.Reload(); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true, Message: "configuration reloaded"}, nil
}
