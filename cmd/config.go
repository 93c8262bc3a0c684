package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/olivierh59500/spatial-forge/internal/config"
	"github.com/olivierh59500/spatial-forge/internal/ui"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the config file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(config.Path())
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a default config file if none exists",
			Run: func(cmd *cobra.Command, args []string) {
				if err := config.EnsureExists(); err != nil {
					ui.Bad.Printf("  Failed to create config: %v\n", err)
					os.Exit(1)
				}
				fmt.Printf("  %s %s\n", ui.StatusIcon(true), config.Path())
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Run: func(cmd *cobra.Command, args []string) {
				cfg := loadConfig()
				if cfg.Server.APIKey != "" {
					cfg.Server.APIKey = "********"
				}
				if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
					ui.Bad.Printf("  Failed to encode config: %v\n", err)
					os.Exit(1)
				}
			},
		},
	)

	return cmd
}
