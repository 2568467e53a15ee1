// Package cli implements the hyprmin CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hyprmin [address]",
	Short: "Minimize Hyprland windows to the tray",
	Long: `Hyprmin moves a Hyprland window to a hidden special workspace and puts
a per-window icon in the system tray. Minimized windows are tracked on a
shared stack so they can be restored last-in-first-out, from the tray icon,
or through a dmenu-style launcher.

With no arguments the active window is minimized; an optional window address
minimizes that window instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMinimize,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(versionCmd)
}
