package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/hyprmin-io/hyprmin/internal/stack"
)

const daemonBinaryName = "hyprmind"

// spawnDaemon starts the per-window tray daemon in its own session and
// returns without waiting. The daemon outlives this CLI invocation.
func spawnDaemon(rec stack.Record) error {
	daemonPath, err := findDaemonBinary()
	if err != nil {
		return err
	}

	cmd := exec.Command(daemonPath,
		"-address", rec.Address,
		"-workspace", strconv.Itoa(rec.Workspace),
		"-title", rec.Title,
		"-class", rec.Class,
	)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", daemonBinaryName, err)
	}

	// Detach fully; the daemon's exit status is nobody's business here.
	return cmd.Process.Release()
}

// findDaemonBinary locates the hyprmind binary.
func findDaemonBinary() (string, error) {
	// Try PATH first
	path, err := exec.LookPath(daemonBinaryName)
	if err == nil {
		return path, nil
	}

	// Try relative to current executable
	execPath, err := os.Executable()
	if err == nil {
		daemonPath := execPath[:len(execPath)-len("hyprmin")] + daemonBinaryName
		if _, err := os.Stat(daemonPath); err == nil {
			return daemonPath, nil
		}
	}

	// Try build directory
	if _, err := os.Stat("./build/" + daemonBinaryName); err == nil {
		return "./build/" + daemonBinaryName, nil
	}

	return "", fmt.Errorf("%s not found. Install or build it first", daemonBinaryName)
}
