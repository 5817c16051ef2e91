package compliance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auctionlab/market-compliance/internal/domain"
)

func lastStats(closePrice float64, sd float64) []domain.PeriodStatistics {
	return []domain.PeriodStatistics{
		{Period: 0, ClosePrice: decimal.NewFromInt(999), SD: 99},
		{Period: 1, ClosePrice: decimal.NewFromFloat(closePrice), SD: sd},
	}
}

func buyer(cash float64, holdings int) *domain.Agent {
	return &domain.Agent{
		ID:        "buyer-1",
		Type:      domain.Buyer,
		Strategy:  domain.BaselineStrategy,
		Portfolio: domain.Portfolio{Cash: decimal.NewFromFloat(cash), Holdings: holdings},
	}
}

func seller(cash float64, holdings int) *domain.Agent {
	return &domain.Agent{
		ID:        "seller-1",
		Type:      domain.Seller,
		Strategy:  domain.BaselineStrategy,
		Portfolio: domain.Portfolio{Cash: decimal.NewFromFloat(cash), Holdings: holdings},
	}
}

func newTestEngine() *Engine {
	return NewEngine(DefaultRuleConfig(), NewFixedQuantityProvider())
}

func TestEvaluate_CompliantBuyer(t *testing.T) {
	e := newTestEngine()

	verdicts := e.Evaluate([]*domain.Agent{buyer(10000, 0)}, lastStats(50, 10))
	require.Len(t, verdicts, 1)

	v := verdicts[0]
	assert.Equal(t, "buyer-1", v.AgentID)
	assert.Equal(t, domain.StatusPass, v.Status)
	assert.Equal(t, 10, v.RiskScore)
	assert.Empty(t, v.ViolatedRules)
	assert.Empty(t, v.Explanation)
}

func TestEvaluate_NonBaselineSellerWarns(t *testing.T) {
	e := newTestEngine()

	s := seller(10000, 10)
	s.Strategy = "MomentumAgent"

	verdicts := e.Evaluate([]*domain.Agent{s}, lastStats(50, 10))
	require.Len(t, verdicts, 1)

	v := verdicts[0]
	assert.Equal(t, domain.StatusWarning, v.Status)
	assert.Equal(t, 40, v.RiskScore)
	require.Len(t, v.ViolatedRules, 1)
	assert.Equal(t, "The agent's action must align with its declared strategy.", v.ViolatedRules[0])
	assert.Equal(t, "Strategy mismatch for assigned trade action.", v.Explanation)
}

func TestEvaluate_VolatilityGatedRisk(t *testing.T) {
	e := newTestEngine()

	// sd 20 > threshold 15, buy quantity 10 > 5: rule 3 fires on its own
	verdicts := e.Evaluate([]*domain.Agent{buyer(10000, 0)}, lastStats(50, 20))
	require.Len(t, verdicts, 1)
	v := verdicts[0]
	assert.Equal(t, domain.StatusWarning, v.Status)
	assert.Equal(t, 40, v.RiskScore)
	require.Len(t, v.ViolatedRules, 1)
	assert.Equal(t, "High-risk trades are discouraged during high volatility periods.", v.ViolatedRules[0])

	// sellers never trigger rule 3 regardless of volatility
	verdicts = e.Evaluate([]*domain.Agent{seller(10000, 10)}, lastStats(50, 20))
	assert.Equal(t, domain.StatusPass, verdicts[0].Status)
}

func TestEvaluate_ViolationsAccumulate(t *testing.T) {
	e := newTestEngine()

	// buyer: rule 3 (sd 20) plus rule 2 (5400 - 50*10 = 4900 < 5000)
	verdicts := e.Evaluate([]*domain.Agent{buyer(5400, 0)}, lastStats(50, 20))
	require.Len(t, verdicts, 1)
	v := verdicts[0]
	assert.Equal(t, domain.StatusFail, v.Status)
	assert.Equal(t, 65, v.RiskScore)
	require.Len(t, v.ViolatedRules, 2)
	// reported in rule order: liquidity before volatility
	assert.Equal(t, "The agent must maintain minimum liquidity requirements.", v.ViolatedRules[0])
	assert.Equal(t, "High-risk trades are discouraged during high volatility periods.", v.ViolatedRules[1])
	assert.Equal(t, "Post-trade liquidity below required minimum. Trade deemed high-risk due to market volatility.", v.Explanation)

	// add rule 1 (holdings 45+10=55 > 50) and rule 4: all four rules fire
	b := buyer(5400, 45)
	b.Strategy = "Custom"
	verdicts = e.Evaluate([]*domain.Agent{b}, lastStats(50, 20))
	v = verdicts[0]
	assert.Equal(t, domain.StatusFail, v.Status)
	assert.Equal(t, 85, v.RiskScore)
	assert.Len(t, v.ViolatedRules, 4)
}

func TestEvaluate_PositionLimitBoundary(t *testing.T) {
	e := newTestEngine()

	// 40 + 10 == MaxPositionSize exactly: strict >, no violation
	verdicts := e.Evaluate([]*domain.Agent{buyer(10000, 40)}, lastStats(50, 10))
	assert.Equal(t, domain.StatusPass, verdicts[0].Status)

	// 41 + 10 = 51 > 50: violated
	verdicts = e.Evaluate([]*domain.Agent{buyer(10000, 41)}, lastStats(50, 10))
	v := verdicts[0]
	assert.Equal(t, domain.StatusWarning, v.Status)
	require.Len(t, v.ViolatedRules, 1)
	assert.Equal(t, "The agent must not exceed maximum position size limits.", v.ViolatedRules[0])

	// seller side uses absolute value of the post-trade position
	verdicts = e.Evaluate([]*domain.Agent{seller(10000, -45)}, lastStats(50, 10))
	assert.Equal(t, domain.StatusWarning, verdicts[0].Status)
}

func TestEvaluate_SellerCashAsymmetry(t *testing.T) {
	e := newTestEngine()

	// a seller below the liquidity floor is flagged even though the sale
	// would raise cash; proceeds are deliberately not credited
	verdicts := e.Evaluate([]*domain.Agent{seller(4000, 10)}, lastStats(50, 10))
	v := verdicts[0]
	assert.Equal(t, domain.StatusWarning, v.Status)
	require.Len(t, v.ViolatedRules, 1)
	assert.Equal(t, "The agent must maintain minimum liquidity requirements.", v.ViolatedRules[0])
}

func TestEvaluate_EmptyHistoryDefaultsToZero(t *testing.T) {
	e := newTestEngine()

	// close price defaults to zero, so the buy costs nothing
	verdicts := e.Evaluate([]*domain.Agent{buyer(10000, 0)}, nil)
	require.Len(t, verdicts, 1)
	assert.Equal(t, domain.StatusPass, verdicts[0].Status)

	// cash below the floor still violates the liquidity rule
	verdicts = e.Evaluate([]*domain.Agent{buyer(4000, 0)}, nil)
	assert.Equal(t, domain.StatusWarning, verdicts[0].Status)
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := newTestEngine()

	agents := []*domain.Agent{buyer(5400, 45), seller(4000, 10)}
	history := lastStats(50, 20)

	first := e.Evaluate(agents, history)
	second := e.Evaluate(agents, history)
	assert.Equal(t, first, second)
}

func TestEvaluate_RegistryOrder(t *testing.T) {
	e := newTestEngine()

	a := buyer(10000, 0)
	a.ID = "a"
	b := seller(10000, 10)
	b.ID = "b"

	verdicts := e.Evaluate([]*domain.Agent{a, b}, lastStats(50, 10))
	require.Len(t, verdicts, 2)
	assert.Equal(t, "a", verdicts[0].AgentID)
	assert.Equal(t, "b", verdicts[1].AgentID)
}

func TestRiskScoreMapping(t *testing.T) {
	cases := []struct {
		violations int
		score      int
		status     domain.ComplianceStatus
	}{
		{0, 10, domain.StatusPass},
		{1, 40, domain.StatusWarning},
		{2, 65, domain.StatusFail},
		{3, 85, domain.StatusFail},
		{4, 85, domain.StatusFail},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.score, riskScoreFor(tc.violations), "violations=%d", tc.violations)
		assert.Equal(t, tc.status, statusFor(tc.violations), "violations=%d", tc.violations)
	}
}

func TestFixedQuantityProvider(t *testing.T) {
	p := NewFixedQuantityProvider()

	d := p.Decide(buyer(0, 0))
	assert.Equal(t, domain.ActionBuy, d.Action)
	assert.Equal(t, 10, d.Quantity)
	assert.Equal(t, "XYZ", d.Instrument)

	d = p.Decide(seller(0, 0))
	assert.Equal(t, domain.ActionSell, d.Action)
}
