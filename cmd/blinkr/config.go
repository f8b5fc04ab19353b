package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/blinkr/internal/config"
)

var configOpts struct {
	format string
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings",
	Long: `Print the settings blinkr would run with, after applying flags.

Examples:
  blinkr config
  blinkr --interval 45s --easing cubic config --format yaml`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVarP(&configOpts.format, "format", "f", string(config.FormatTOML),
		fmt.Sprintf("Output format (%v)", config.ValidFormats()))
}

func runConfig(cmd *cobra.Command, args []string) error {
	data, err := settings.Render(config.Format(configOpts.format))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
