package dto

import "github.com/shopspring/decimal"

type RunRequest struct {
	// optional overrides of the configured market
	Periods *int   `json:"periods,omitempty"`
	Seed    *int64 `json:"seed,omitempty"`
}

type RunResponse struct {
	RunID    string    `json:"run_id"`
	Periods  int       `json:"periods"`
	Traded   int       `json:"periods_with_trades"`
	Verdicts []Verdict `json:"verdicts"`
}

type Verdict struct {
	AgentID       string   `json:"agent_id"`
	Status        string   `json:"compliance_status"`
	RiskScore     int      `json:"risk_score"`
	ViolatedRules []string `json:"violated_rules"`
	Explanation   string   `json:"explanation"`
}

type GetVerdictsResponse struct {
	RunID    string    `json:"run_id"`
	Verdicts []Verdict `json:"verdicts"`
}

type PricePoint struct {
	Open  decimal.Decimal `json:"open"`
	High  decimal.Decimal `json:"high"`
	Low   decimal.Decimal `json:"low"`
	Close decimal.Decimal `json:"close"`
}

type VolatilitySpike struct {
	Period int     `json:"period"`
	SD     float64 `json:"sd"`
}

type PeriodStats struct {
	Period     int             `json:"period"`
	OpenPrice  decimal.Decimal `json:"open_price"`
	HighPrice  decimal.Decimal `json:"high_price"`
	LowPrice   decimal.Decimal `json:"low_price"`
	ClosePrice decimal.Decimal `json:"close_price"`
	Volume     int             `json:"volume"`
	SD         float64         `json:"sd"`
}

type GetMarketStateResponse struct {
	RunID            string            `json:"run_id"`
	PriceHistory     []PricePoint      `json:"price_history"`
	Liquidity        []int             `json:"liquidity"`
	VolatilitySpikes []VolatilitySpike `json:"volatility_spikes"`
	TradeHistory     []PeriodStats     `json:"trade_history"`
}
