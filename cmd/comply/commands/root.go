package commands

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/auctionlab/market-compliance/internal/adapter/cache"
	"github.com/auctionlab/market-compliance/internal/adapter/in_memory"
	"github.com/auctionlab/market-compliance/internal/adapter/pg"
	"github.com/auctionlab/market-compliance/internal/config"
	"github.com/auctionlab/market-compliance/internal/port"
	"github.com/auctionlab/market-compliance/pkg/logger"
)

var (
	periods int
	seed    int64
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "comply",
	Short: "Double-auction market simulator with trade compliance checks",
	Long: `comply runs a simplified double-auction market for a fixed number of
periods, then evaluates every agent's next proposed trade against a fixed
set of compliance rules.

Examples:
  comply run --periods 5 --seed 42
  comply serve`,
}

// Execute is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().IntVar(&periods, "periods", 0, "override number of trading periods")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "RNG seed for a reproducible run (0 = from clock)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// deps builds the shared wiring: logger, market config with flag
// overrides, optional redis store and postgres repository.
type deps struct {
	svc    config.ServiceConfig
	market config.MarketConfig
	log    zerolog.Logger
	store  port.Store
	repo   port.Repository
	pgRepo *pg.PgRepo
}

func buildDeps(ctx context.Context) (*deps, error) {
	svc := config.LoadService()

	level := svc.LogLevel
	if verbose {
		level = "debug"
	}
	log := logger.New(level, svc.LogFormat)

	market := config.DefaultMarketConfig()
	if periods > 0 {
		market.Periods = periods
	}
	if seed != 0 {
		market.Seed = seed
	}

	var store port.Store
	if svc.RedisAddr != "" {
		store = cache.NewRedisStore(svc.RedisAddr, "", svc.RedisDB, 30*time.Minute)
		log.Info().Str("addr", svc.RedisAddr).Msg("using redis context store")
	} else {
		store = in_memory.NewStore()
	}

	d := &deps{svc: svc, market: market, log: log, store: store}

	if svc.PostgresDSN != "" {
		repo, err := pg.NewPgRepo(ctx, svc.PostgresDSN)
		if err != nil {
			return nil, err
		}
		d.repo = repo
		d.pgRepo = repo
		log.Info().Msg("postgres persistence enabled")
	}
	return d, nil
}

func (d *deps) close(ctx context.Context) {
	if d.pgRepo != nil {
		d.pgRepo.Close(ctx)
	}
}
