package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Order is a limit order resting in (or crossing) the auction book.
type Order struct {
	ID        string
	AgentID   string
	Side      Side
	Price     decimal.Decimal
	Quantity  int
	Remaining int
	CreatedAt time.Time
}
