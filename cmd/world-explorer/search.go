// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/world-explorer/internal/explorer"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Rank destinations for one departure city and budget",
	Long: `Search answers a single query and exits. Results list every city affording
more than one day, longest stay first, with the round-trip fare and the
total cost in the reporting currency. Use --output to save the results as
YAML and --input to display a saved file without any fare lookups.`,
	Example: `  world-explorer search --from Berlin --budget 300
  world-explorer search --from "New York" --budget 1200 --json
  world-explorer search --input results/berlin.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		w := cmd.OutOrStdout()
		asJSON, _ := cmd.Flags().GetBool("json")

		if input, _ := cmd.Flags().GetString("input"); input != "" {
			rf, err := explorer.ReadResultFile(input)
			if err != nil {
				return err
			}
			if asJSON {
				return explorer.FormatJSON(rf.Output(), w)
			}
			explorer.FormatTable(rf.Output(), w)
			return nil
		}

		from, _ := cmd.Flags().GetString("from")
		rawBudget, _ := cmd.Flags().GetString("budget")
		if from == "" {
			return fmt.Errorf("--from is required")
		}
		budget, err := explorer.ParseBudget(rawBudget)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.close(); cerr != nil && err == nil {
				err = cerr
			}
		}()

		if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
			a.cfg.Search.MaxResults = n
		}

		out, err := a.query(ctx, from, budget)
		if err != nil {
			return err
		}

		if output, _ := cmd.Flags().GetString("output"); output != "" {
			if err := explorer.WriteResultFile(output, out, a.engine.DateOut, a.engine.DateBack); err != nil {
				return err
			}
			log.Info().Str("path", output).Int("results", len(out.Results)).Msg("results saved")
		}

		if asJSON {
			return explorer.FormatJSON(out, w)
		}
		explorer.FormatTable(out, w)
		return nil
	},
}

func init() {
	searchCmd.Flags().String("from", "", "departure city (name, ASCII name, or alternate name)")
	searchCmd.Flags().String("budget", "", "trip budget in the reporting currency")
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (0 = all)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("output", "", "save query and results to a YAML file")
	searchCmd.Flags().String("input", "", "display a previously saved YAML result file")

	rootCmd.AddCommand(searchCmd)
}
