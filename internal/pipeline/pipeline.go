package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/auctionlab/market-compliance/internal/auction"
	"github.com/auctionlab/market-compliance/internal/compliance"
	"github.com/auctionlab/market-compliance/internal/config"
	"github.com/auctionlab/market-compliance/internal/domain"
	"github.com/auctionlab/market-compliance/internal/port"
	"github.com/auctionlab/market-compliance/internal/sim"
)

// Pipeline runs the three stages of a market run in order: Initialize
// (agent registry), Simulate (period loop + aggregation), Evaluate
// (compliance verdicts). Store and repo are optional; stage outputs are
// mirrored into the store under the Key* constants.
type Pipeline struct {
	market   config.MarketConfig
	rules    compliance.RuleConfig
	provider compliance.DecisionProvider
	store    port.Store
	repo     port.Repository
	log      zerolog.Logger
}

func New(market config.MarketConfig, rules compliance.RuleConfig, store port.Store, repo port.Repository, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		market:   market,
		rules:    rules,
		provider: compliance.NewFixedQuantityProvider(),
		store:    store,
		repo:     repo,
		log:      log.With().Str("component", "pipeline").Logger(),
	}
}

// WithDecisionProvider swaps the default fixed-quantity decision source.
func (p *Pipeline) WithDecisionProvider(provider compliance.DecisionProvider) *Pipeline {
	p.provider = provider
	return p
}

// Run executes all stages. Any returned error is fatal for the whole run
// and no partial result set is published.
func (p *Pipeline) Run(ctx context.Context) (*Context, error) {
	pc := &Context{RunID: uuid.NewString(), Config: p.market}

	if err := p.Initialize(ctx, pc); err != nil {
		return nil, fmt.Errorf("initialize stage: %w", err)
	}
	if err := p.Simulate(ctx, pc); err != nil {
		return nil, fmt.Errorf("simulate stage: %w", err)
	}
	if err := p.Evaluate(ctx, pc); err != nil {
		return nil, fmt.Errorf("evaluate stage: %w", err)
	}

	p.log.Info().
		Str("run_id", pc.RunID).
		Int("agents", len(pc.Agents)).
		Int("periods_with_trades", len(pc.PeriodStats)).
		Msg("run complete")
	return pc, nil
}

// Initialize validates the market configuration and builds the agent
// registry: buyers first, then sellers, baseline strategy for all.
func (p *Pipeline) Initialize(ctx context.Context, pc *Context) error {
	if err := pc.Config.Validate(); err != nil {
		return fmt.Errorf("invalid market config: %w", err)
	}

	cash := decimal.NewFromFloat(pc.Config.StartingCash)
	agents := make([]*domain.Agent, 0, pc.Config.NumberOfBuyers+pc.Config.NumberOfSellers)
	for i := 0; i < pc.Config.NumberOfBuyers; i++ {
		agents = append(agents, domain.NewBuyer(cash))
	}
	for i := 0; i < pc.Config.NumberOfSellers; i++ {
		agents = append(agents, domain.NewSeller(cash, pc.Config.SellerInventory))
	}
	pc.Agents = agents

	p.setKey(ctx, KeyMarketConfig, pc.Config)
	p.setKey(ctx, KeyAgents, pc.Agents)
	p.log.Info().Int("agents", len(agents)).Msg("market and agents initialized")
	return nil
}

// Simulate runs the auction for the configured number of periods. A period
// error aborts the stage; nothing accumulated so far is published.
func (p *Pipeline) Simulate(ctx context.Context, pc *Context) error {
	runner := auction.New(pc.Config, pc.Agents)
	engine := sim.NewEngine(runner, p.repo, p.log)

	state, history, err := engine.Run(ctx, pc.RunID, pc.Config.Periods)
	if err != nil {
		return err
	}
	pc.MarketState = state
	pc.PeriodStats = history

	if p.repo != nil {
		_ = p.repo.SaveMarketState(ctx, pc.RunID, state)
	}

	p.setKey(ctx, KeyAgents, pc.Agents)
	p.setKey(ctx, KeyMarketState, pc.MarketState)
	p.setKey(ctx, KeyPeriodTradePrices, pc.PeriodStats)
	// downstream reporting expects the key to exist before evaluation
	p.setKey(ctx, KeyComplianceResults, []domain.ComplianceVerdict{})
	return nil
}

// Evaluate produces one verdict per agent from the final registry and the
// last period's statistics.
func (p *Pipeline) Evaluate(ctx context.Context, pc *Context) error {
	engine := compliance.NewEngine(p.rules, p.provider)
	pc.Verdicts = engine.Evaluate(pc.Agents, pc.PeriodStats)

	if p.repo != nil {
		_ = p.repo.SaveVerdicts(ctx, pc.RunID, pc.Verdicts)
	}
	p.setKey(ctx, KeyComplianceResults, pc.Verdicts)
	return nil
}

// setKey mirrors a stage output into the store. Store failures are not
// fatal: the handoff has no transactional guarantees.
func (p *Pipeline) setKey(ctx context.Context, key string, value any) {
	if p.store == nil {
		return
	}
	if err := p.store.Set(ctx, key, value); err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("store write failed")
	}
}
