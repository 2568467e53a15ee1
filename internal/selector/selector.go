// Package selector bridges the stack to an external dmenu-style launcher.
// The launcher reads newline-separated choices on stdin and prints the chosen
// line on stdout; anything else is treated as an aborted selection.
package selector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hyprmin-io/hyprmin/internal/stack"
)

var (
	// ErrNoSelection means the user aborted the launcher (empty output or
	// non-zero exit). Not a failure; the restore flow simply stops.
	ErrNoSelection = errors.New("no selection")

	// ErrAmbiguous means the launcher output did not match exactly one
	// presented line.
	ErrAmbiguous = errors.New("ambiguous selection")
)

// Bridge runs a configured launcher command over a stack snapshot.
type Bridge struct {
	// Launcher is the shell command, run via `sh -c`.
	Launcher string
}

// New creates a bridge for the given launcher command.
func New(launcher string) *Bridge {
	return &Bridge{Launcher: launcher}
}

// FormatLine renders one record as a selectable line. Title plus original
// workspace disambiguates for the user; the trailing address is what maps the
// line back to its record.
func FormatLine(rec stack.Record) string {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = rec.Class
	}
	title = strings.ReplaceAll(title, "\n", " ")
	return fmt.Sprintf("%s [ws %d] (%s)", title, rec.Workspace, rec.Address)
}

// Present shows the snapshot in the launcher and maps the user's pick back to
// its record.
func (b *Bridge) Present(ctx context.Context, records []stack.Record) (*stack.Record, error) {
	lines := make([]string, 0, len(records))
	byLine := make(map[string]int, len(records))
	for i, rec := range records {
		line := FormatLine(rec)
		lines = append(lines, line)
		byLine[line] = i
	}

	choice, err := b.run(ctx, strings.Join(lines, "\n"))
	if err != nil {
		return nil, err
	}

	idx, ok := byLine[choice]
	if !ok {
		// Fall back to the parenthesized address, in case the launcher
		// reformatted the line (some wrap or trim long titles).
		if addr := parseAddress(choice); addr != "" {
			for i, rec := range records {
				if rec.Address == addr {
					return &records[i], nil
				}
			}
		}
		return nil, fmt.Errorf("%w: %q", ErrAmbiguous, choice)
	}
	return &records[idx], nil
}

// run pipes the choices to the launcher and returns the trimmed selection.
func (b *Bridge) run(ctx context.Context, input string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", b.Launcher)
	cmd.Stdin = strings.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Launchers exit non-zero when the user hits escape.
			return "", ErrNoSelection
		}
		return "", fmt.Errorf("failed to run launcher %q: %w", b.Launcher, err)
	}

	choice := strings.TrimSpace(stdout.String())
	if choice == "" {
		return "", ErrNoSelection
	}
	return choice, nil
}

// parseAddress extracts the address from a "<title> [ws N] (<address>)" line.
func parseAddress(line string) string {
	start := strings.LastIndexByte(line, '(')
	end := strings.LastIndexByte(line, ')')
	if start < 0 || end <= start {
		return ""
	}
	return line[start+1 : end]
}
