package sim

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/auctionlab/market-compliance/internal/domain"
	"github.com/auctionlab/market-compliance/internal/port"
)

// VolatilitySpikeThreshold marks a period as a spike when its price standard
// deviation exceeds this value.
const VolatilitySpikeThreshold = 20.0

// PeriodRunner is the auction primitive: advances internal book state by one
// period, updates agent portfolios in place, and returns the period's
// statistics. A nil record means the period produced no trades.
type PeriodRunner interface {
	RunPeriod(ctx context.Context) (*domain.PeriodStatistics, error)
}

// Engine drives the period loop and folds the raw per-period statistics into
// the derived market state series.
type Engine struct {
	runner PeriodRunner
	repo   port.Repository // optional
	log    zerolog.Logger
}

func NewEngine(runner PeriodRunner, repo port.Repository, log zerolog.Logger) *Engine {
	return &Engine{
		runner: runner,
		repo:   repo,
		log:    log.With().Str("component", "sim.engine").Logger(),
	}
}

// Run executes exactly periods sequential rounds. Empty periods are skipped
// but tolerated; any error from the auction primitive aborts the whole run
// and the partial state must be discarded by the caller.
func (e *Engine) Run(ctx context.Context, runID string, periods int) (*domain.MarketState, []domain.PeriodStatistics, error) {
	state := domain.NewMarketState()
	var history []domain.PeriodStatistics

	for period := 0; period < periods; period++ {
		stats, err := e.runner.RunPeriod(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("period %d failed: %w", period, err)
		}
		if stats == nil {
			e.log.Warn().Int("period", period).Msg("no stats for period, skipping")
			continue
		}

		e.aggregate(state, stats)
		history = append(history, *stats)

		if e.repo != nil {
			_ = e.repo.SavePeriodStats(ctx, runID, stats)
		}

		e.log.Debug().
			Int("period", period).
			Int("volume", stats.Volume).
			Float64("sd", stats.SD).
			Msg("period finished")
	}

	return state, history, nil
}

func (e *Engine) aggregate(state *domain.MarketState, stats *domain.PeriodStatistics) {
	state.PriceHistory = append(state.PriceHistory, domain.PricePoint{
		Open:  stats.OpenPrice,
		High:  stats.HighPrice,
		Low:   stats.LowPrice,
		Close: stats.ClosePrice,
	})
	state.Liquidity = append(state.Liquidity, stats.Volume)
	state.TradeHistory = append(state.TradeHistory, *stats)

	if stats.SD > VolatilitySpikeThreshold {
		state.VolatilitySpikes = append(state.VolatilitySpikes, domain.VolatilitySpike{
			Period: stats.Period,
			SD:     stats.SD,
		})
	}
}
