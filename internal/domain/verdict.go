package domain

type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
)

// TradeDecision is an agent's proposed next trade. It is ephemeral and
// recomputed on every evaluation, never persisted.
type TradeDecision struct {
	Action     TradeAction `json:"action"`
	Quantity   int         `json:"quantity"`
	Instrument string      `json:"instrument"`
}

type ComplianceStatus string

const (
	StatusPass    ComplianceStatus = "PASS"
	StatusWarning ComplianceStatus = "WARNING"
	StatusFail    ComplianceStatus = "FAIL"
)

// ComplianceVerdict is the outcome of evaluating one agent's proposed trade.
// Immutable once produced; evaluation is idempotent for identical inputs.
type ComplianceVerdict struct {
	AgentID       string           `json:"agentId"`
	Status        ComplianceStatus `json:"complianceStatus"`
	RiskScore     int              `json:"riskScore"`
	ViolatedRules []string         `json:"violatedRules"`
	Explanation   string           `json:"explanation"`
}
