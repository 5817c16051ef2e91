package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AgentType string

const (
	Buyer  AgentType = "buyer"
	Seller AgentType = "seller"
)

// BaselineStrategy is the one strategy label treated as inherently compliant.
const BaselineStrategy = "ZIAgent"

type Portfolio struct {
	Cash     decimal.Decimal `json:"cash"`
	Holdings int             `json:"holdings"`
}

// Agent is a market participant. ID and Type are fixed for the agent's
// lifetime; Portfolio is mutated only by the auction while a run is active.
type Agent struct {
	ID           string    `json:"id"`
	Type         AgentType `json:"type"`
	Strategy     string    `json:"strategy"`
	Portfolio    Portfolio `json:"portfolio"`
	RiskExposure float64   `json:"riskExposure"`
}

func NewBuyer(cash decimal.Decimal) *Agent {
	return &Agent{
		ID:        uuid.NewString(),
		Type:      Buyer,
		Strategy:  BaselineStrategy,
		Portfolio: Portfolio{Cash: cash},
	}
}

func NewSeller(cash decimal.Decimal, holdings int) *Agent {
	return &Agent{
		ID:        uuid.NewString(),
		Type:      Seller,
		Strategy:  BaselineStrategy,
		Portfolio: Portfolio{Cash: cash, Holdings: holdings},
	}
}
