package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Trade struct {
	ID        string
	BuyOrder  string
	SellOrder string
	Buyer     string
	Seller    string
	Price     decimal.Decimal
	Quantity  int
	Timestamp time.Time
}
