package commands

import (
	"context"

	"github.com/spf13/cobra"

	httpapi "github.com/auctionlab/market-compliance/internal/api/http"
	"github.com/auctionlab/market-compliance/internal/compliance"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation and compliance API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		d, err := buildDeps(ctx)
		if err != nil {
			return err
		}
		defer d.close(ctx)

		server := httpapi.NewHTTPServer(d.market, compliance.DefaultRuleConfig(), d.store, d.repo, d.log)
		d.log.Info().Str("addr", d.svc.HTTPAddr).Msg("starting HTTP server")
		return server.Run(d.svc.HTTPAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
