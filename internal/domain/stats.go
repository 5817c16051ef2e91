package domain

import "github.com/shopspring/decimal"

// PeriodStatistics summarizes the trades of one completed auction period.
// Records are append-only and never revised after the period closes.
type PeriodStatistics struct {
	Period     int             `json:"period"`
	OpenPrice  decimal.Decimal `json:"openPrice"`
	HighPrice  decimal.Decimal `json:"highPrice"`
	LowPrice   decimal.Decimal `json:"lowPrice"`
	ClosePrice decimal.Decimal `json:"closePrice"`
	Volume     int             `json:"volume"`
	SD         float64         `json:"sd"`
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

// MarketState holds the derived summary series of a run. All series grow
// monotonically, at most one append per period.
type MarketState struct {
	PriceHistory     []PricePoint       `json:"priceHistory"`
	Liquidity        []int              `json:"liquidity"`
	VolatilitySpikes []VolatilitySpike  `json:"volatilitySpikes"`
	TradeHistory     []PeriodStatistics `json:"tradeHistory"`
}

func NewMarketState() *MarketState {
	return &MarketState{
		PriceHistory:     []PricePoint{},
		Liquidity:        []int{},
		VolatilitySpikes: []VolatilitySpike{},
		TradeHistory:     []PeriodStatistics{},
	}
}
