package compliance

import "github.com/auctionlab/market-compliance/internal/domain"

// DecisionProvider supplies the trade an agent proposes next. The rule
// engine evaluates whatever decision it is given; generation and evaluation
// are deliberately decoupled.
type DecisionProvider interface {
	Decide(agent *domain.Agent) domain.TradeDecision
}

// FixedQuantityProvider proposes a fixed-size order on a single instrument:
// buyers buy, sellers sell. It stands in for real agent order flow.
type FixedQuantityProvider struct {
	Quantity   int
	Instrument string
}

func NewFixedQuantityProvider() FixedQuantityProvider {
	return FixedQuantityProvider{Quantity: 10, Instrument: "XYZ"}
}

func (p FixedQuantityProvider) Decide(agent *domain.Agent) domain.TradeDecision {
	action := domain.ActionSell
	if agent.Type == domain.Buyer {
		action = domain.ActionBuy
	}
	return domain.TradeDecision{
		Action:     action,
		Quantity:   p.Quantity,
		Instrument: p.Instrument,
	}
}
