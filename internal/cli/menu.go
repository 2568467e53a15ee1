package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyprmin-io/hyprmin/internal/selector"
	"github.com/hyprmin-io/hyprmin/internal/stack"
)

var menuCmd = &cobra.Command{
	Use:     "menu",
	Aliases: []string{"m"},
	Short:   "Pick a minimized window to restore via the configured launcher",
	RunE:    runMenu,
}

func runMenu(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	snapshot, err := e.store.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to read the stack: %w", err)
	}

	// Don't offer windows that no longer exist; drop their records on the way.
	records := make([]stack.Record, 0, len(snapshot))
	for _, rec := range snapshot {
		exists, err := e.client.WindowExists(ctx, rec.Address)
		if err != nil {
			return err
		}
		if !exists {
			_, _ = e.store.Remove(rec.Address)
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		fmt.Println(styleHint.Render("No minimized windows."))
		return nil
	}

	rec, err := selector.New(e.cfg.Launcher).Present(ctx, records)
	if errors.Is(err, selector.ErrNoSelection) {
		return nil
	}
	if err != nil {
		return err
	}

	// Claim the record before touching the window; a false return means the
	// window's daemon got there first and owns the move.
	removed, err := e.store.Remove(rec.Address)
	if err != nil {
		return fmt.Errorf("failed to remove record: %w", err)
	}
	if !removed {
		fmt.Println(styleHint.Render("Window was already restored."))
		return nil
	}

	return restoreRecord(ctx, e, *rec)
}
