package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/auctionlab/market-compliance/internal/compliance"
	"github.com/auctionlab/market-compliance/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one simulation run and print the compliance verdicts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		d, err := buildDeps(ctx)
		if err != nil {
			return err
		}
		defer d.close(ctx)

		pipe := pipeline.New(d.market, compliance.DefaultRuleConfig(), d.store, d.repo, d.log)
		res, err := pipe.Run(ctx)
		if err != nil {
			d.log.Error().Err(err).Msg("run failed")
			return err
		}

		out, err := json.MarshalIndent(res.Verdicts, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		d.log.Info().
			Str("run_id", res.RunID).
			Int("volatility_spikes", len(res.MarketState.VolatilitySpikes)).
			Msg("done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
