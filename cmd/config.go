package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/wsrepo/internal/config"
	"github.com/zjrosen/wsrepo/internal/flags"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change the configuration file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), configPath())
		return err
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		effective := struct {
			File   string          `json:"file"`
			Config config.Config   `json:"config"`
			Flags  map[string]bool `json:"flags"`
		}{File: viper.ConfigFileUsed(), Config: cfg, Flags: flags.New(cfg.Flags).All()}
		if jsonOut {
			return formatter(cmd).FormatResult(effective)
		}
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "file:         %s\n", effective.File)
		_, _ = fmt.Fprintf(out, "dir:          %s\n", cfg.Dir)
		_, _ = fmt.Fprintf(out, "global_dir:   %s\n", cfg.GlobalDir)
		_, _ = fmt.Fprintf(out, "template_dir: %s\n", cfg.TemplateDir)
		_, _ = fmt.Fprintf(out, "cache_dir:    %s\n", cfg.CacheDir)
		_, _ = fmt.Fprintf(out, "changelog:    %s\n", cfg.ChangeLog.Backend)
		_, _ = fmt.Fprintf(out, "remote:       %s\n", cfg.Remote.BaseURL)
		for _, name := range slices.Sorted(maps.Keys(effective.Flags)) {
			_, _ = fmt.Fprintf(out, "flag %s: %t\n", name, effective.Flags[name])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the configuration file",
	Long: `Set a dotted key in the configuration file, keeping its comments.

Examples:
  wsrepo config set changelog.backend sqlite
  wsrepo config set flags.remote-templates false`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if err := config.SetValue(path, args[0], args[1]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n", args[0], args[1], path)
		return err
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
