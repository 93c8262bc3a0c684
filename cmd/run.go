package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/olivierh59500/spatial-forge/internal/forge"
	"github.com/olivierh59500/spatial-forge/internal/game"
	"github.com/olivierh59500/spatial-forge/internal/studio"
)

func runCmd() *cobra.Command {
	var (
		serverURL     string
		width, height int
		seed          int64
		withServer    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the forge window",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if width > 0 {
				cfg.Window.Width = width
			}
			if height > 0 {
				cfg.Window.Height = height
			}
			if serverURL != "" {
				cfg.Forge.ServerURL = serverURL
			}

			if withServer {
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				srv, cleanup := newIntermediary(cfg)
				defer cleanup()
				go func() {
					if err := srv.ListenAndServe(ctx); err != nil {
						log.Printf("forge: intermediary stopped: %v", err)
					}
				}()
				cfg.Forge.ServerURL = "http://" + cfg.Server.Addr
			}

			client := forge.NewClient(cfg.Forge.ServerURL, cfg.Forge.Timeout())
			if cfg.Forge.Instruction != "" {
				client.Instruction = cfg.Forge.Instruction
			}

			st := studio.New(studio.Options{
				Width:     float64(cfg.Window.Width),
				Height:    float64(cfg.Window.Height),
				Seed:      seed,
				Generator: client,
				Timeout:   cfg.Forge.Timeout(),
			})
			g, err := game.New(st, cfg.Snapshot.Dir)
			if err != nil {
				log.Fatal(err)
			}

			ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
			ebiten.SetWindowTitle(cfg.Window.Title)
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			ebiten.SetTPS(cfg.Window.TPS)

			if err := ebiten.RunGame(g); err != nil {
				log.Fatal(err)
			}
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Intermediary URL (default from config)")
	cmd.Flags().IntVar(&width, "width", 0, "Window width")
	cmd.Flags().IntVar(&height, "height", 0, "Window height")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for spawn positions (0 = time based)")
	cmd.Flags().BoolVar(&withServer, "with-server", false, "Start the intermediary in the same process")

	return cmd
}
