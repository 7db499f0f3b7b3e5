package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/bismuth/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
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

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with an optional payload and decodes the reply data
// into out when out is non-nil.
func (c *Client) call(command CommandType, payload any, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
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

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetSurfaces retrieves every surface with its layout.
func (c *Client) GetSurfaces() (*SurfacesData, error) {
	var data SurfacesData
	if err := c.call(CommandGetSurfaces, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListWindows retrieves the managed windows in tiling order.
func (c *Client) ListWindows() (*WindowsData, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListLayouts retrieves enabled layouts and the current selection.
func (c *Client) ListLayouts() (*LayoutsData, error) {
	var data LayoutsData
	if err := c.call(CommandListLayouts, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// SetLayout switches the current surface to layoutName. Selecting the
// active layout again toggles back to the previous one.
func (c *Client) SetLayout(layoutName string) (*LayoutsData, error) {
	var data LayoutsData
	if err := c.call(CommandSetLayout, SetLayoutPayload{LayoutName: layoutName}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// CycleLayout moves the current surface step layouts forward.
func (c *Client) CycleLayout(step int) (*LayoutsData, error) {
	var data LayoutsData
	if err := c.call(CommandCycleLayout, CycleLayoutPayload{Step: step}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListActions retrieves every shortcut action with its bound keys.
func (c *Client) ListActions() (*ActionsData, error) {
	var data ActionsData
	if err := c.call(CommandListActions, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// RunAction runs a shortcut action by name.
func (c *Client) RunAction(name string) error {
	return c.call(CommandRunAction, RunActionPayload{Action: name}, nil)
}

// Arrange re-lays out every surface.
func (c *Client) Arrange() error {
	return c.call(CommandArrange, nil, nil)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
