package mcp

import "github.com/1broseidon/bismuth/internal/ipc"

// EmptyInput is the input of tools without arguments.
type EmptyInput struct{}

// SetLayoutInput is the input for the set_layout tool.
type SetLayoutInput struct {
	Layout string `json:"layout" jsonschema:"Layout name: tile, monocle, three-column, stair, spread, quarter or floating"`
}

// CycleLayoutInput is the input for the cycle_layout tool.
type CycleLayoutInput struct {
	Step int `json:"step,omitempty" jsonschema:"Positions to move through the enabled layouts; negative goes backwards (default: 1)"`
}

// RunActionInput is the input for the run_action tool.
type RunActionInput struct {
	Action string `json:"action" jsonschema:"Action name as reported by list_actions, e.g. focus-next or rotate"`
}

// OKOutput acknowledges tools that only have side effects.
type OKOutput struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	Status ipc.StatusData `json:"status"`
}

// WindowsOutput is the output for the list_windows tool.
type WindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
}

// SurfacesOutput is the output for the list_surfaces tool.
type SurfacesOutput struct {
	Surfaces []ipc.SurfaceInfo `json:"surfaces"`
}

// LayoutsOutput is the output for the layout tools.
type LayoutsOutput struct {
	Layouts       []ipc.LayoutInfo `json:"layouts"`
	DefaultLayout string           `json:"default_layout"`
	ActiveLayout  string           `json:"active_layout"`
}

func layoutsOutput(data *ipc.LayoutsData) LayoutsOutput {
	return LayoutsOutput{
		Layouts:       data.Layouts,
		DefaultLayout: data.DefaultLayout,
		ActiveLayout:  data.ActiveLayout,
	}
}

// ActionsOutput is the output for the list_actions tool.
type ActionsOutput struct {
	Actions []ipc.ActionInfo `json:"actions"`
}
