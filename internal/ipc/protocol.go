package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetSurfaces CommandType = "GET_SURFACES"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandListLayouts CommandType = "LIST_LAYOUTS"
	CommandSetLayout   CommandType = "SET_LAYOUT"
	CommandCycleLayout CommandType = "CYCLE_LAYOUT"
	CommandListActions CommandType = "LIST_ACTIONS"
	CommandRunAction   CommandType = "RUN_ACTION"
	CommandArrange     CommandType = "ARRANGE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	CurrentSurface string `json:"current_surface"`
	ActiveLayout   string `json:"active_layout"`
	WindowCount    int    `json:"window_count"`
	TileCount      int    `json:"tile_count"`
	ActiveWindow   uint32 `json:"active_window,omitempty"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	DaemonRunning  bool   `json:"daemon_running"`
}

// Geometry is a window or area rectangle in screen coordinates.
type Geometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SurfaceInfo describes one screen + desktop combination.
type SurfaceInfo struct {
	ID          string   `json:"id"`
	Screen      int      `json:"screen"`
	Desktop     int      `json:"desktop"`
	Name        string   `json:"name"`
	WorkingArea Geometry `json:"working_area"`
	Layout      string   `json:"layout"`
	Current     bool     `json:"current"`
}

// SurfacesData represents the data returned by GET_SURFACES
type SurfacesData struct {
	Surfaces []SurfaceInfo `json:"surfaces"`
}

// WindowInfo describes one managed window.
type WindowInfo struct {
	ID       uint32   `json:"id"`
	Class    string   `json:"class"`
	Title    string   `json:"title"`
	State    string   `json:"state"`
	Surface  string   `json:"surface"`
	Geometry Geometry `json:"geometry"`
	Active   bool     `json:"active,omitempty"`
}

// WindowsData represents the data returned by LIST_WINDOWS, in tiling order.
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// LayoutInfo names one enabled layout.
type LayoutInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LayoutsData struct {
	Layouts       []LayoutInfo `json:"layouts"`
	DefaultLayout string       `json:"default_layout"`
	ActiveLayout  string       `json:"active_layout"`
}

type SetLayoutPayload struct {
	LayoutName string `json:"layout_name"`
}

type CycleLayoutPayload struct {
	// Step is +1 for next, -1 for previous.
	Step int `json:"step"`
}

// ActionInfo describes one shortcut action and its bound key sequence.
type ActionInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Keys        string `json:"keys,omitempty"`
}

type ActionsData struct {
	Actions []ActionInfo `json:"actions"`
}

type RunActionPayload struct {
	Action string `json:"action"`
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
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
