package compliance

import (
	"github.com/shopspring/decimal"

	"github.com/auctionlab/market-compliance/internal/domain"
)

// RuleConfig fixes the thresholds of the rule set for one evaluation pass.
type RuleConfig struct {
	MaxPositionSize       int             `json:"maxPositionSize"`
	MinLiquidity          decimal.Decimal `json:"minLiquidity"`
	VolatilityThreshold   float64         `json:"volatilityThreshold"`
	RiskQuantityThreshold int             `json:"riskQuantityThreshold"`
	BaselineStrategy      string          `json:"baselineStrategy"`
}

func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		MaxPositionSize:       50,
		MinLiquidity:          decimal.NewFromInt(5000),
		VolatilityThreshold:   15,
		RiskQuantityThreshold: 5,
		BaselineStrategy:      domain.BaselineStrategy,
	}
}

// Snapshot is the slice of market state the rules read: the last period's
// volatility and closing price. Both default to zero when no period has
// produced statistics.
type Snapshot struct {
	Volatility float64
	ClosePrice decimal.Decimal
}

// SnapshotFrom takes the last record of the period history, or the zero
// snapshot when the history is empty.
func SnapshotFrom(history []domain.PeriodStatistics) Snapshot {
	if len(history) == 0 {
		return Snapshot{}
	}
	last := history[len(history)-1]
	return Snapshot{Volatility: last.SD, ClosePrice: last.ClosePrice}
}

// Rule is one named compliance check: a pure predicate over the agent, its
// proposed decision, and the market snapshot, plus the human-readable texts
// reported on violation.
type Rule struct {
	Name        string
	Description string
	Message     string
	Violated    func(cfg RuleConfig, agent *domain.Agent, d domain.TradeDecision, snap Snapshot) bool
}

// ruleSet is the fixed ordered rule set. Order matters: violated rule
// descriptions and explanation fragments are reported in this order.
func ruleSet() []Rule {
	return []Rule{
		{
			Name:        "position_limit",
			Description: "The agent must not exceed maximum position size limits.",
			Message:     "Position size after trade would exceed limit.",
			Violated: func(cfg RuleConfig, agent *domain.Agent, d domain.TradeDecision, _ Snapshot) bool {
				newHoldings := agent.Portfolio.Holdings - d.Quantity
				if d.Action == domain.ActionBuy {
					newHoldings = agent.Portfolio.Holdings + d.Quantity
				}
				if newHoldings < 0 {
					newHoldings = -newHoldings
				}
				return newHoldings > cfg.MaxPositionSize
			},
		},
		{
			Name:        "min_liquidity",
			Description: "The agent must maintain minimum liquidity requirements.",
			Message:     "Post-trade liquidity below required minimum.",
			Violated: func(cfg RuleConfig, agent *domain.Agent, d domain.TradeDecision, snap Snapshot) bool {
				postTradeCash := agent.Portfolio.Cash
				if d.Action == domain.ActionBuy {
					cost := snap.ClosePrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
					postTradeCash = postTradeCash.Sub(cost)
				}
				// sellers are checked on unchanged cash; sale proceeds are
				// intentionally not credited here
				return postTradeCash.LessThan(cfg.MinLiquidity)
			},
		},
		{
			Name:        "volatility_risk",
			Description: "High-risk trades are discouraged during high volatility periods.",
			Message:     "Trade deemed high-risk due to market volatility.",
			Violated: func(cfg RuleConfig, _ *domain.Agent, d domain.TradeDecision, snap Snapshot) bool {
				return snap.Volatility > cfg.VolatilityThreshold &&
					d.Action == domain.ActionBuy &&
					d.Quantity > cfg.RiskQuantityThreshold
			},
		},
		{
			Name:        "strategy_alignment",
			Description: "The agent's action must align with its declared strategy.",
			Message:     "Strategy mismatch for assigned trade action.",
			Violated: func(cfg RuleConfig, agent *domain.Agent, _ domain.TradeDecision, _ Snapshot) bool {
				// label equality only; decision content is not inspected
				return agent.Strategy != cfg.BaselineStrategy
			},
		},
	}
}
