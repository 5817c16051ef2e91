package auction

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/auctionlab/market-compliance/internal/domain"
)

// OrderBook holds the resting limit orders of a single period. Matching is
// price-time priority with partial fills.
type OrderBook struct {
	Buy  []*domain.Order
	Sell []*domain.Order
}

func NewOrderBook() *OrderBook {
	return &OrderBook{}
}

// Add matches o against the opposite side and rests any remainder.
func (ob *OrderBook) Add(o *domain.Order) []*domain.Trade {
	var trades []*domain.Trade
	if o.Side == domain.Buy {
		trades = ob.executeBuy(o)
		if o.Remaining > 0 {
			ob.Buy = append(ob.Buy, o)
			ob.sortBuy()
		}
	} else {
		trades = ob.executeSell(o)
		if o.Remaining > 0 {
			ob.Sell = append(ob.Sell, o)
			ob.sortSell()
		}
	}
	return trades
}

func (ob *OrderBook) executeBuy(o *domain.Order) []*domain.Trade {
	var trades []*domain.Trade
	i := 0
	for i < len(ob.Sell) && o.Remaining > 0 && ob.Sell[i].Price.LessThanOrEqual(o.Price) {
		match := ob.Sell[i]
		qty := min(o.Remaining, match.Remaining)

		trades = append(trades, &domain.Trade{
			ID:        uuid.NewString(),
			BuyOrder:  o.ID,
			SellOrder: match.ID,
			Buyer:     o.AgentID,
			Seller:    match.AgentID,
			Price:     match.Price,
			Quantity:  qty,
			Timestamp: time.Now(),
		})

		o.Remaining -= qty
		match.Remaining -= qty
		if match.Remaining == 0 {
			ob.Sell = append(ob.Sell[:i], ob.Sell[i+1:]...)
		} else {
			i++
		}
	}
	return trades
}

func (ob *OrderBook) executeSell(o *domain.Order) []*domain.Trade {
	var trades []*domain.Trade
	i := 0
	for i < len(ob.Buy) && o.Remaining > 0 && ob.Buy[i].Price.GreaterThanOrEqual(o.Price) {
		match := ob.Buy[i]
		qty := min(o.Remaining, match.Remaining)

		trades = append(trades, &domain.Trade{
			ID:        uuid.NewString(),
			BuyOrder:  match.ID,
			SellOrder: o.ID,
			Buyer:     match.AgentID,
			Seller:    o.AgentID,
			Price:     match.Price,
			Quantity:  qty,
			Timestamp: time.Now(),
		})

		o.Remaining -= qty
		match.Remaining -= qty
		if match.Remaining == 0 {
			ob.Buy = append(ob.Buy[:i], ob.Buy[i+1:]...)
		} else {
			i++
		}
	}
	return trades
}

func (ob *OrderBook) sortBuy() {
	sort.SliceStable(ob.Buy, func(i, j int) bool {
		if ob.Buy[i].Price.Equal(ob.Buy[j].Price) {
			return ob.Buy[i].CreatedAt.Before(ob.Buy[j].CreatedAt)
		}
		return ob.Buy[i].Price.GreaterThan(ob.Buy[j].Price)
	})
}

func (ob *OrderBook) sortSell() {
	sort.SliceStable(ob.Sell, func(i, j int) bool {
		if ob.Sell[i].Price.Equal(ob.Sell[j].Price) {
			return ob.Sell[i].CreatedAt.Before(ob.Sell[j].CreatedAt)
		}
		return ob.Sell[i].Price.LessThan(ob.Sell[j].Price)
	})
}
