package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/olivierh59500/spatial-forge/internal/config"
	"github.com/olivierh59500/spatial-forge/internal/gemini"
	"github.com/olivierh59500/spatial-forge/internal/history"
	"github.com/olivierh59500/spatial-forge/internal/server"
	"github.com/olivierh59500/spatial-forge/internal/ui"
)

func serveCmd() *cobra.Command {
	var (
		addr    string
		model   string
		db      string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the generation intermediary",
		Long: "Run the HTTP intermediary that holds the upstream key.\n" +
			"The key is read from " + config.KeyEnv + " or the [server] api_key setting.",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if model != "" {
				cfg.Server.Model = model
			}
			if db != "" {
				cfg.Server.Database = db
			}
			if verbose {
				cfg.Server.Verbose = true
			}

			ui.Banner(os.Stdout, "intermediary")
			srv, cleanup := newIntermediary(cfg)
			defer cleanup()

			fmt.Printf("  Listening:  %s\n", cfg.Server.Addr)
			fmt.Printf("  Model:      %s\n", cfg.Server.Model)
			fmt.Println()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.ListenAndServe(ctx); err != nil {
				ui.Bad.Printf("  Server error: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(ui.Subtle.Sprint("  Shut down."))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&model, "model", "", "Upstream model name")
	cmd.Flags().StringVar(&db, "db", "", "History database path")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every request")

	return cmd
}

// newIntermediary builds the server from cfg. History is optional: when the
// database cannot be opened the server runs without it.
func newIntermediary(cfg *config.Config) (*server.Server, func()) {
	key := cfg.Server.Key()
	if key == "" {
		fmt.Fprintf(os.Stderr, "  %s no API key set; requests will fail until %s is provided\n",
			ui.Warn.Sprint("!"), config.KeyEnv)
	}

	up := gemini.New(cfg.Server.BaseURL, cfg.Server.Model, key, cfg.Server.Timeout())
	scfg := server.Config{
		Addr:        cfg.Server.Addr,
		Instruction: cfg.Forge.Instruction,
		Verbose:     cfg.Server.Verbose,
	}

	store, err := history.Open(cfg.Server.DatabasePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "  %s history disabled: %v\n", ui.Warn.Sprint("!"), err)
		return server.New(scfg, up, nil), func() {}
	}
	return server.New(scfg, up, store), func() { store.Close() }
}
