package auction

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/auctionlab/market-compliance/internal/config"
	"github.com/auctionlab/market-compliance/internal/domain"
)

// Auction is a continuous double auction run one period at a time.
// Zero-intelligence agents submit unit limit orders at uniformly drawn
// prices: buyers below their redemption value, sellers above their cost.
// The book is rebuilt from scratch each period; agent portfolios carry over.
type Auction struct {
	cfg     config.MarketConfig
	buyers  []*domain.Agent
	sellers []*domain.Agent
	rng     *rand.Rand
	period  int
}

func New(cfg config.MarketConfig, agents []*domain.Agent) *Auction {
	a := &Auction{cfg: cfg}
	for _, ag := range agents {
		if ag.Type == domain.Buyer {
			a.buyers = append(a.buyers, ag)
		} else {
			a.sellers = append(a.sellers, ag)
		}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	a.rng = rand.New(rand.NewSource(seed))
	return a
}

// periodState tracks cash and inventory committed by resting orders so an
// agent cannot oversubscribe within a period.
type periodState struct {
	book     *OrderBook
	orders   map[string]*domain.Order
	reserved map[string]decimal.Decimal
	locked   map[string]int
	trades   []*domain.Trade
}

// RunPeriod advances the auction by one period and returns its statistics,
// or (nil, nil) when the period produced no trades.
func (a *Auction) RunPeriod(ctx context.Context) (*domain.PeriodStatistics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st := &periodState{
		book:     NewOrderBook(),
		orders:   make(map[string]*domain.Order),
		reserved: make(map[string]decimal.Decimal),
		locked:   make(map[string]int),
	}

	for step := 0; step < a.cfg.PeriodDuration; step++ {
		if a.rng.Float64() < a.cfg.BuyerRate {
			a.submitBid(st)
		}
		if a.rng.Float64() < a.cfg.SellerRate {
			a.submitAsk(st)
		}
	}

	period := a.period
	a.period++

	if len(st.trades) == 0 {
		return nil, nil
	}
	return a.statistics(period, st.trades), nil
}

func (a *Auction) submitBid(st *periodState) {
	i := a.rng.Intn(len(a.buyers))
	buyer := a.buyers[i]
	value := a.cfg.BuyerValues[i%len(a.cfg.BuyerValues)]

	upper := math.Min(a.cfg.PriceCeiling, value)
	if upper < a.cfg.PriceFloor {
		return
	}
	price := a.drawPrice(a.cfg.PriceFloor, upper)

	// budget constraint: cash already committed to resting bids is unavailable
	free := buyer.Portfolio.Cash.Sub(st.reserved[buyer.ID])
	if free.LessThan(price) {
		return
	}

	o := &domain.Order{
		ID:        uuid.NewString(),
		AgentID:   buyer.ID,
		Side:      domain.Buy,
		Price:     price,
		Quantity:  1,
		Remaining: 1,
		CreatedAt: time.Now(),
	}
	st.reserved[buyer.ID] = st.reserved[buyer.ID].Add(price)
	a.submit(st, o)
}

func (a *Auction) submitAsk(st *periodState) {
	i := a.rng.Intn(len(a.sellers))
	seller := a.sellers[i]
	cost := a.cfg.SellerCosts[i%len(a.cfg.SellerCosts)]

	lower := math.Max(a.cfg.PriceFloor, cost)
	if lower > a.cfg.PriceCeiling {
		return
	}
	price := a.drawPrice(lower, a.cfg.PriceCeiling)

	if seller.Portfolio.Holdings-st.locked[seller.ID] < 1 {
		return
	}

	o := &domain.Order{
		ID:        uuid.NewString(),
		AgentID:   seller.ID,
		Side:      domain.Sell,
		Price:     price,
		Quantity:  1,
		Remaining: 1,
		CreatedAt: time.Now(),
	}
	st.locked[seller.ID]++
	a.submit(st, o)
}

func (a *Auction) submit(st *periodState, o *domain.Order) {
	st.orders[o.ID] = o
	for _, tr := range st.book.Add(o) {
		a.settle(st, tr)
		st.trades = append(st.trades, tr)
	}
}

// settle applies a trade to both portfolios and releases the commitments
// made at submit time, valued at each order's own limit price.
func (a *Auction) settle(st *periodState, tr *domain.Trade) {
	qty := decimal.NewFromInt(int64(tr.Quantity))
	notional := tr.Price.Mul(qty)

	buyer := a.agentByID(tr.Buyer)
	seller := a.agentByID(tr.Seller)
	if buyer == nil || seller == nil {
		return
	}

	buyer.Portfolio.Cash = buyer.Portfolio.Cash.Sub(notional)
	buyer.Portfolio.Holdings += tr.Quantity
	seller.Portfolio.Cash = seller.Portfolio.Cash.Add(notional)
	seller.Portfolio.Holdings -= tr.Quantity

	if bid, ok := st.orders[tr.BuyOrder]; ok {
		st.reserved[buyer.ID] = st.reserved[buyer.ID].Sub(bid.Price.Mul(qty))
	}
	st.locked[seller.ID] -= tr.Quantity
}

func (a *Auction) agentByID(id string) *domain.Agent {
	for _, ag := range a.buyers {
		if ag.ID == id {
			return ag
		}
	}
	for _, ag := range a.sellers {
		if ag.ID == id {
			return ag
		}
	}
	return nil
}

func (a *Auction) drawPrice(lower, upper float64) decimal.Decimal {
	p := lower + a.rng.Float64()*(upper-lower)
	if a.cfg.IntegerOnly {
		p = math.Round(p)
	}
	return decimal.NewFromFloat(p)
}

func (a *Auction) statistics(period int, trades []*domain.Trade) *domain.PeriodStatistics {
	stats := &domain.PeriodStatistics{
		Period:     period,
		OpenPrice:  trades[0].Price,
		HighPrice:  trades[0].Price,
		LowPrice:   trades[0].Price,
		ClosePrice: trades[len(trades)-1].Price,
	}
	for _, tr := range trades {
		if tr.Price.GreaterThan(stats.HighPrice) {
			stats.HighPrice = tr.Price
		}
		if tr.Price.LessThan(stats.LowPrice) {
			stats.LowPrice = tr.Price
		}
		stats.Volume += tr.Quantity
	}
	stats.SD = priceStdDev(trades)
	return stats
}

// priceStdDev is the population standard deviation of trade prices.
func priceStdDev(trades []*domain.Trade) float64 {
	n := float64(len(trades))
	var sum float64
	for _, tr := range trades {
		sum += tr.Price.InexactFloat64()
	}
	mean := sum / n

	var sq float64
	for _, tr := range trades {
		d := tr.Price.InexactFloat64() - mean
		sq += d * d
	}
	return math.Sqrt(sq / n)
}
