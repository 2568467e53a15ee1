// Package hypr is a thin semantic wrapper over hyprctl. Every call reflects
// live compositor state; nothing is cached.
package hypr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the two failure classes of the compositor boundary.
var (
	// ErrUnavailable means the compositor could not be reached (missing
	// binary, dead socket, timeout). Transient; the daemon retries next tick.
	ErrUnavailable = errors.New("hyprland unavailable")

	// ErrQueryFailed means hyprctl answered but the response was unusable.
	ErrQueryFailed = errors.New("hyprctl query failed")
)

// ErrWindowNotFound is returned by WindowByAddress for unknown addresses.
var ErrWindowNotFound = errors.New("window not found")

// DefaultTimeout bounds every hyprctl invocation.
const DefaultTimeout = 5 * time.Second

// Client exposes the semantic window-manager operations hyprmin needs.
type Client struct {
	exec    Executor
	timeout time.Duration
}

// NewClient creates a client on top of the given executor.
func NewClient(exec Executor) *Client {
	return &Client{exec: exec, timeout: DefaultTimeout}
}

// NewLiveClient creates a client that runs the real hyprctl binary.
func NewLiveClient() *Client {
	return NewClient(LiveExecutor{})
}

// query runs a hyprctl JSON command and decodes the result.
func (c *Client) query(ctx context.Context, command string, v interface{}) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	data, err := c.exec.JSON(ctx, command)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: bad JSON from %q: %v", ErrQueryFailed, command, err)
	}
	return nil
}

func (c *Client) dispatch(ctx context.Context, command string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.exec.Dispatch(ctx, command)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// ActiveWindow returns the currently focused window.
func (c *Client) ActiveWindow(ctx context.Context) (*Window, error) {
	var w Window
	if err := c.query(ctx, "activewindow", &w); err != nil {
		return nil, err
	}
	if w.Address == "" {
		return nil, fmt.Errorf("%w: no window is focused", ErrWindowNotFound)
	}
	return &w, nil
}

// ActiveWorkspace returns the currently focused workspace.
func (c *Client) ActiveWorkspace(ctx context.Context) (*Workspace, error) {
	var ws Workspace
	if err := c.query(ctx, "activeworkspace", &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

// Clients lists all open windows.
func (c *Client) Clients(ctx context.Context) ([]Window, error) {
	var windows []Window
	if err := c.query(ctx, "clients", &windows); err != nil {
		return nil, err
	}
	return windows, nil
}

// WindowByAddress finds an open window by its address.
func (c *Client) WindowByAddress(ctx context.Context, address string) (*Window, error) {
	windows, err := c.Clients(ctx)
	if err != nil {
		return nil, err
	}
	for i := range windows {
		if windows[i].Address == address {
			return &windows[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrWindowNotFound, address)
}

// WindowExists reports whether the window is still open.
func (c *Client) WindowExists(ctx context.Context, address string) (bool, error) {
	_, err := c.WindowByAddress(ctx, address)
	if errors.Is(err, ErrWindowNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// WindowWorkspace returns the workspace currently holding the window, or nil
// if the window no longer exists.
func (c *Client) WindowWorkspace(ctx context.Context, address string) (*Workspace, error) {
	w, err := c.WindowByAddress(ctx, address)
	if errors.Is(err, ErrWindowNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ws := w.Workspace
	return &ws, nil
}

// MoveToWorkspace moves the window to a workspace by ID and is idempotent:
// Hyprland accepts the dispatch even when the window is already there.
func (c *Client) MoveToWorkspace(ctx context.Context, workspaceID int, address string) error {
	return c.dispatch(ctx, fmt.Sprintf("movetoworkspace %d,address:%s", workspaceID, address))
}

// MoveToWorkspaceSilent moves the window to a named special workspace
// without switching focus to it.
func (c *Client) MoveToWorkspaceSilent(ctx context.Context, workspace, address string) error {
	return c.dispatch(ctx, fmt.Sprintf("movetoworkspacesilent special:%s,address:%s", workspace, address))
}

// FocusWindow focuses the window.
func (c *Client) FocusWindow(ctx context.Context, address string) error {
	return c.dispatch(ctx, fmt.Sprintf("focuswindow address:%s", address))
}

// CloseWindow asks the compositor to close the window.
func (c *Client) CloseWindow(ctx context.Context, address string) error {
	return c.dispatch(ctx, fmt.Sprintf("closewindow address:%s", address))
}
