package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyprmin-io/hyprmin/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the hyprmin configuration",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a config file with the default values",
	RunE:  runConfigGenerate,
}

func init() {
	configCmd.AddCommand(configGenerateCmd)
}

func runConfigGenerate(cmd *cobra.Command, args []string) error {
	path, err := config.ConfigFile()
	if err != nil {
		return err
	}

	if config.FileExists(path) {
		return fmt.Errorf("config file already exists at %s, refusing to overwrite", path)
	}

	if err := config.Save(config.NewConfig()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Println(styleSuccess.Render("Config written") + " " + styleLabel.Render(path))
	return nil
}
