package hypr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Executor abstracts the hyprctl command so the client can be tested
// without a running compositor.
type Executor interface {
	// JSON runs `hyprctl -j <command>` and returns its stdout.
	JSON(ctx context.Context, command string) ([]byte, error)

	// Dispatch runs `hyprctl dispatch <command>`.
	Dispatch(ctx context.Context, command string) error
}

// LiveExecutor runs the real hyprctl binary.
type LiveExecutor struct{}

func (LiveExecutor) JSON(ctx context.Context, command string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "hyprctl", "-j", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, classifyExecErr(ctx, "hyprctl -j "+command, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

func (LiveExecutor) Dispatch(ctx context.Context, command string) error {
	cmd := exec.CommandContext(ctx, "hyprctl", "dispatch", command)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return classifyExecErr(ctx, "hyprctl dispatch "+command, err, stderr.String())
	}
	return nil
}

func classifyExecErr(ctx context.Context, command string, err error, stderr string) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %s timed out", ErrUnavailable, command)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = exitErr.String()
		}
		return fmt.Errorf("%w: %s: %s", ErrQueryFailed, command, msg)
	}

	// Binary missing, compositor socket gone, etc.
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, command, err)
}
