package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMarketConfigIsValid(t *testing.T) {
	cfg := DefaultMarketConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*MarketConfig)
		errMsg string
	}{
		{"empty buyer values", func(c *MarketConfig) { c.BuyerValues = nil }, "buyerValues"},
		{"empty seller costs", func(c *MarketConfig) { c.SellerCosts = nil }, "sellerCosts"},
		{"zero buyers", func(c *MarketConfig) { c.NumberOfBuyers = 0 }, "numberOfBuyers"},
		{"negative sellers", func(c *MarketConfig) { c.NumberOfSellers = -1 }, "numberOfSellers"},
		{"zero periods", func(c *MarketConfig) { c.Periods = 0 }, "periods"},
		{"zero duration", func(c *MarketConfig) { c.PeriodDuration = 0 }, "periodDuration"},
		{"buyer rate too high", func(c *MarketConfig) { c.BuyerRate = 1.5 }, "buyerRate"},
		{"seller rate zero", func(c *MarketConfig) { c.SellerRate = 0 }, "sellerRate"},
		{"inverted bounds", func(c *MarketConfig) { c.PriceFloor = 100; c.PriceCeiling = 50 }, "price bounds"},
		{"negative cash", func(c *MarketConfig) { c.StartingCash = -1 }, "startingCash"},
		{"negative inventory", func(c *MarketConfig) { c.SellerInventory = -1 }, "sellerInventory"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultMarketConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}
