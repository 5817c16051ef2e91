package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// MarketConfig fixes the parameters of one simulation run. All fields are
// immutable for the duration of the run.
type MarketConfig struct {
	BuyerValues     []float64 `json:"buyerValues"`
	SellerCosts     []float64 `json:"sellerCosts"`
	NumberOfBuyers  int       `json:"numberOfBuyers"`
	NumberOfSellers int       `json:"numberOfSellers"`
	Periods         int       `json:"periods"`
	PeriodDuration  int       `json:"periodDuration"`
	BuyerRate       float64   `json:"buyerRate"`
	SellerRate      float64   `json:"sellerRate"`
	PriceFloor      float64   `json:"priceFloor"`
	PriceCeiling    float64   `json:"priceCeiling"`
	IntegerOnly     bool      `json:"integerOnly"`

	// Seed makes a run reproducible; zero seeds from the clock.
	Seed int64 `json:"seed,omitempty"`

	StartingCash    float64 `json:"startingCash"`
	SellerInventory int     `json:"sellerInventory"`
}

func DefaultMarketConfig() MarketConfig {
	return MarketConfig{
		BuyerValues:     []float64{100, 95, 90, 85, 80},
		SellerCosts:     []float64{10, 20, 30, 40, 50},
		NumberOfBuyers:  3,
		NumberOfSellers: 3,
		Periods:         5,
		PeriodDuration:  1000,
		BuyerRate:       0.2,
		SellerRate:      0.2,
		PriceFloor:      1,
		PriceCeiling:    200,
		IntegerOnly:     true,
		StartingCash:    10000,
		SellerInventory: 10,
	}
}

// Validate reports the first fatal configuration problem. A run must not
// start on an invalid configuration.
func (c *MarketConfig) Validate() error {
	if len(c.BuyerValues) == 0 {
		return fmt.Errorf("buyerValues must not be empty")
	}
	if len(c.SellerCosts) == 0 {
		return fmt.Errorf("sellerCosts must not be empty")
	}
	if c.NumberOfBuyers <= 0 {
		return fmt.Errorf("numberOfBuyers must be > 0, got %d", c.NumberOfBuyers)
	}
	if c.NumberOfSellers <= 0 {
		return fmt.Errorf("numberOfSellers must be > 0, got %d", c.NumberOfSellers)
	}
	if c.Periods <= 0 {
		return fmt.Errorf("periods must be > 0, got %d", c.Periods)
	}
	if c.PeriodDuration <= 0 {
		return fmt.Errorf("periodDuration must be > 0, got %d", c.PeriodDuration)
	}
	if c.BuyerRate <= 0 || c.BuyerRate > 1 {
		return fmt.Errorf("buyerRate must be in (0,1], got %v", c.BuyerRate)
	}
	if c.SellerRate <= 0 || c.SellerRate > 1 {
		return fmt.Errorf("sellerRate must be in (0,1], got %v", c.SellerRate)
	}
	if c.PriceFloor <= 0 || c.PriceCeiling <= c.PriceFloor {
		return fmt.Errorf("price bounds invalid: floor=%v ceiling=%v", c.PriceFloor, c.PriceCeiling)
	}
	if c.StartingCash < 0 {
		return fmt.Errorf("startingCash must be >= 0, got %v", c.StartingCash)
	}
	if c.SellerInventory < 0 {
		return fmt.Errorf("sellerInventory must be >= 0, got %v", c.SellerInventory)
	}
	return nil
}

// ServiceConfig carries process-level settings read from the environment.
type ServiceConfig struct {
	HTTPAddr    string
	PostgresDSN string
	RedisAddr   string
	RedisDB     int
	LogLevel    string
	LogFormat   string
}

// LoadService reads service settings from .env (if present) and the
// environment. Missing keys fall back to defaults; Postgres and Redis stay
// disabled unless configured.
func LoadService() ServiceConfig {
	_ = godotenv.Load()

	return ServiceConfig{
		HTTPAddr:    envOr("HTTP_ADDR", ":8080"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisDB:     envIntOr("REDIS_DB", 0),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		LogFormat:   envOr("LOG_FORMAT", "console"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
