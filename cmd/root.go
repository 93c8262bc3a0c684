package cmd

import (
	"github.com/spf13/cobra"

	"github.com/olivierh59500/spatial-forge/internal/config"
	"github.com/olivierh59500/spatial-forge/internal/ui"
)

var version = "0.3.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "forge: a spatial prompt composer",
	Long: ui.Brand.Sprint(ui.Anvil+" forge") + ": drop floating concepts into the bin to forge a prompt\n" +
		ui.Subtle.Sprint("Type concepts, drag them around, and let the intermediary refine them"),
	Version: version,
}

func init() {
	rootCmd.SetVersionTemplate("forge {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default "+config.Path()+")")

	rootCmd.AddCommand(
		runCmd(),
		serveCmd(),
		historyCmd(),
		configCmd(),
	)
}

// loadConfig reads --config when given, otherwise the default location.
func loadConfig() *config.Config {
	if cfgFile == "" {
		return config.Load()
	}
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		ui.Warn.Printf("forge: %v, using defaults\n", err)
		return config.Default()
	}
	return cfg
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
