package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/alexasparks/6-traits-annotations/internal/config"
)

func newConfigCommand(root *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
		Long: `Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (.env is loaded when present)
3. Config file (config.toml)
4. Defaults`,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (secrets masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, info, err := config.LoadConfigWithInfo(root.configPath)
			if err != nil {
				return err
			}
			data, err := toml.Marshal(cfg.Masked())
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# config file: %s\n", info.Path)
			if info.EnvFileLoaded {
				fmt.Fprintln(out, "# .env loaded")
			}
			fmt.Fprintln(out, string(data))
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "configuration problems:\n%v\n", err)
			}
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
