package pipeline

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/auctionlab/market-compliance/internal/config"
	"github.com/auctionlab/market-compliance/internal/domain"
	"github.com/auctionlab/market-compliance/internal/port"
)

// Store keys under which stage outputs are mirrored for downstream
// consumers. Plain JSON values, last-writer-wins.
const (
	KeyMarketConfig      = "marketConfig"
	KeyAgents            = "agents"
	KeyMarketState       = "marketState"
	KeyPeriodTradePrices = "periodTradePrices"
	KeyComplianceResults = "complianceResults"
)

// Context carries a run's data between stages by value. Stages own their
// outputs: Initialize fills Agents, Simulate fills MarketState and
// PeriodStats, Evaluate fills Verdicts.
type Context struct {
	RunID       string
	Config      config.MarketConfig
	Agents      []*domain.Agent
	MarketState *domain.MarketState
	PeriodStats []domain.PeriodStatistics
	Verdicts    []domain.ComplianceVerdict
}

// Restore rebuilds a Context from the mirrored store keys. Missing keys
// fall back to safe defaults so consumers of an incomplete handoff never
// fail; only real store errors are logged.
func Restore(ctx context.Context, store port.Store, log zerolog.Logger) *Context {
	pc := &Context{
		Config:      config.DefaultMarketConfig(),
		Agents:      []*domain.Agent{},
		MarketState: domain.NewMarketState(),
		PeriodStats: []domain.PeriodStatistics{},
		Verdicts:    []domain.ComplianceVerdict{},
	}
	if store == nil {
		return pc
	}

	get := func(key string, dest any) {
		err := store.Get(ctx, key, dest)
		if err != nil && !errors.Is(err, port.ErrKeyNotFound) {
			log.Warn().Err(err).Str("key", key).Msg("store read failed")
		}
	}
	get(KeyMarketConfig, &pc.Config)
	get(KeyAgents, &pc.Agents)
	get(KeyMarketState, pc.MarketState)
	get(KeyPeriodTradePrices, &pc.PeriodStats)
	get(KeyComplianceResults, &pc.Verdicts)
	return pc
}
