package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hilite/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration file",
		Long: `Write a commented default configuration. The default path is
.hilite/config.yaml in the current directory. An existing file is never
overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(".hilite", "config.yaml")
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefaultConfig(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "theme <preset>",
		Short:     "Set the theme preset in the configuration file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.PresetNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath()
			if err := config.SavePreset(path, args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s in %s\n", args[0], path)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.v.ConfigFileUsed()
			if path == "" {
				path = "(none, using defaults)"
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	})

	return cmd
}

// configPath is the file config changes are saved to: the one in use, or
// .hilite/config.yaml when running on defaults.
func (a *app) configPath() string {
	if path := a.v.ConfigFileUsed(); path != "" {
		return path
	}
	return filepath.Join(".hilite", "config.yaml")
}
