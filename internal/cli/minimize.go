package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyprmin-io/hyprmin/internal/hypr"
	"github.com/hyprmin-io/hyprmin/internal/stack"
)

func runMinimize(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	window, err := pickWindow(ctx, e, args)
	if err != nil {
		return err
	}
	if window.Workspace.IsSpecial() {
		return fmt.Errorf("window %s is already on a special workspace", window.Address)
	}

	rec := stack.Record{
		Address:     window.Address,
		Workspace:   window.Workspace.ID,
		Title:       window.Title,
		Class:       window.Class,
		MinimizedAt: time.Now().UnixNano(),
	}
	if err := e.store.Push(rec); err != nil {
		return fmt.Errorf("failed to record window on the stack: %w", err)
	}

	if err := e.client.MoveToWorkspaceSilent(ctx, e.cfg.Workspace, rec.Address); err != nil {
		_, _ = e.store.Remove(rec.Address)
		return fmt.Errorf("failed to hide window: %w", err)
	}

	if err := spawnDaemon(rec); err != nil {
		// Without a daemon there is no tray icon and no poll loop; undo
		// the hide so the window isn't stranded.
		_ = e.client.MoveToWorkspace(ctx, rec.Workspace, rec.Address)
		_, _ = e.store.Remove(rec.Address)
		return err
	}

	fmt.Println(styleSuccess.Render("Minimized") + " " + styleTitle.Render(displayTitle(rec)) +
		" " + styleLabel.Render(fmt.Sprintf("(ws %d)", rec.Workspace)))
	return nil
}

// pickWindow resolves the window to minimize: the optional positional address,
// or the currently focused window.
func pickWindow(ctx context.Context, e *env, args []string) (*hypr.Window, error) {
	if len(args) == 1 {
		return e.client.WindowByAddress(ctx, args[0])
	}
	return e.client.ActiveWindow(ctx)
}

func displayTitle(rec stack.Record) string {
	if rec.Title != "" {
		return rec.Title
	}
	return rec.Class
}
