// Package main is the entry point for the hyprmin CLI.
package main

import (
	"os"

	"github.com/hyprmin-io/hyprmin/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
