package cli

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyprmin-io/hyprmin/internal/stack"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List minimized windows",
	RunE:    runList,
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	records, err := e.store.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to read the stack: %w", err)
	}

	if len(records) == 0 {
		fmt.Println(styleHint.Render("No minimized windows."))
		return nil
	}

	fmt.Println(styleBrand.Render("Minimized windows") +
		styleLabel.Render(fmt.Sprintf(" (%d)", len(records))))

	for _, rec := range records {
		fmt.Printf("  %s %s %s %s\n",
			styleTitle.Render(displayTitle(rec)),
			styleLabel.Render(fmt.Sprintf("[ws %d]", rec.Workspace)),
			styleLabel.Render(fmt.Sprintf("(%s, %s ago)", rec.Address, sinceMinimized(rec))),
			trayBadge(rec),
		)
	}
	return nil
}

// trayBadge describes the record's tray daemon: alive, dead, or never claimed.
func trayBadge(rec stack.Record) string {
	if rec.OwnerPID == 0 {
		return badgeOrphaned.Render("no tray")
	}
	if pidAlive(rec.OwnerPID) {
		return badgeAlive.Render(fmt.Sprintf("tray pid %d", rec.OwnerPID))
	}
	return badgeDead.Render(fmt.Sprintf("tray dead (pid %d)", rec.OwnerPID))
}

// pidAlive checks process existence with kill -0.
func pidAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		// On Unix, FindProcess always succeeds
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

func sinceMinimized(rec stack.Record) string {
	d := time.Since(time.Unix(0, rec.MinimizedAt))
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}
