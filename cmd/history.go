package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/olivierh59500/spatial-forge/internal/history"
	"github.com/olivierh59500/spatial-forge/internal/ui"
)

func historyCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "Show recent generations",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			ui.Banner(os.Stdout, "recent generations")

			store, err := history.Open(cfg.Server.DatabasePath())
			if err != nil {
				ui.Bad.Printf("  Failed to open history: %v\n", err)
				os.Exit(1)
			}
			defer store.Close()

			ctx := context.Background()
			records, err := store.Recent(ctx, count)
			if err != nil {
				ui.Bad.Printf("  Failed to read history: %v\n", err)
				os.Exit(1)
			}
			if len(records) == 0 {
				fmt.Println("  No generations recorded yet.")
				fmt.Println("  Generations are recorded by `forge serve`.")
				return
			}

			headers := []string{"ID", "Time", "OK", "Took", "Payload", "Result"}
			rows := make([][]string, 0, len(records))
			for _, r := range records {
				result := r.Text
				if !r.OK() {
					result = r.Error
				}
				rows = append(rows, []string{
					strconv.FormatInt(r.ID, 10),
					r.CreatedAt.Local().Format("Jan 02 15:04"),
					ui.StatusIcon(r.OK()),
					r.Duration.Round(time.Millisecond).String(),
					ui.Truncate(r.Payload, 32),
					ui.Truncate(result, 48),
				})
			}
			ui.Table(os.Stdout, headers, rows)

			if total, err := store.Count(ctx); err == nil {
				fmt.Println()
				fmt.Println(ui.Subtle.Sprintf("  %d of %d generations shown", len(records), total))
			}
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 20, "Number of generations to show")

	return cmd
}
