package cli

import (
	"fmt"
	"os"

	"github.com/Davincible/nbconv/pkg/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize the configuration file",
		Long: `The config file holds the default field, element format, bit layout,
worker count and user-defined fields. Its location is $NBCONV_CONFIG, or
$XDG_CONFIG_HOME/nbconv/config.json, or ~/.config/nbconv/config.json.`,
	}

	cmd.AddCommand(
		newConfigShowCommand(),
		newConfigInitCommand(),
		newConfigPathCommand(),
	)

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := config.NewConfigManager()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), cm.GetConfig())
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultPath()
			if err != nil {
				return err
			}

			if force {
				if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to remove existing config: %w", err)
				}
			}

			cm, err := config.NewConfigManagerAt(path)
			if err != nil {
				return fmt.Errorf("failed to load config (use --force to overwrite): %w", err)
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Config written to %s\n", cm.Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration with defaults")

	return cmd
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := config.NewConfigManager()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cm.Path())
			return nil
		},
	}
}
