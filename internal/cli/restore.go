package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyprmin-io/hyprmin/internal/config"
	"github.com/hyprmin-io/hyprmin/internal/stack"
)

var restoreCmd = &cobra.Command{
	Use:     "restore",
	Aliases: []string{"restore-last", "r"},
	Short:   "Restore the most recently minimized window",
	RunE:    runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// Popping the record is what wins the race against the window's own
	// daemon: whoever removes the record owns the move.
	rec, err := e.store.PopLast()
	if err != nil {
		return fmt.Errorf("failed to pop the stack: %w", err)
	}
	if rec == nil {
		fmt.Println(styleHint.Render("No minimized windows."))
		return nil
	}

	ws, err := e.client.WindowWorkspace(ctx, rec.Address)
	if err != nil {
		return err
	}
	if ws == nil {
		fmt.Println(styleWarning.Render("Window is gone") + " " +
			styleLabel.Render("(stale record dropped)"))
		return nil
	}
	if !ws.IsSpecial() {
		// Someone already brought it back; the pop cleaned the stale record.
		fmt.Println(styleHint.Render("Window was already restored."))
		return nil
	}

	return restoreRecord(ctx, e, *rec)
}

// restoreRecord moves an already-removed record's window to the configured
// target workspace and focuses it.
func restoreRecord(ctx context.Context, e *env, rec stack.Record) error {
	target := rec.Workspace
	if e.cfg.RestoreTo == config.RestoreToActive {
		ws, err := e.client.ActiveWorkspace(ctx)
		if err != nil {
			return fmt.Errorf("failed to query active workspace: %w", err)
		}
		target = ws.ID
	}

	if err := e.client.MoveToWorkspace(ctx, target, rec.Address); err != nil {
		return fmt.Errorf("failed to restore window: %w", err)
	}
	if err := e.client.FocusWindow(ctx, rec.Address); err != nil {
		return fmt.Errorf("failed to focus restored window: %w", err)
	}

	fmt.Println(styleSuccess.Render("Restored") + " " + styleTitle.Render(displayTitle(rec)) +
		" " + styleLabel.Render(fmt.Sprintf("(ws %d)", target)))
	return nil
}
