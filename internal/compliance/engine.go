package compliance

import (
	"strings"

	"github.com/auctionlab/market-compliance/internal/domain"
)

// Engine evaluates the rule set against each agent's proposed trade. It is a
// pure function of (agents, period history, rule configuration): no state,
// no side effects, identical inputs give identical verdicts.
type Engine struct {
	cfg      RuleConfig
	provider DecisionProvider
	rules    []Rule
}

func NewEngine(cfg RuleConfig, provider DecisionProvider) *Engine {
	return &Engine{
		cfg:      cfg,
		provider: provider,
		rules:    ruleSet(),
	}
}

// Evaluate produces one verdict per agent, in registry order. An empty
// period history is valid: volatility and close price default to zero.
func (e *Engine) Evaluate(agents []*domain.Agent, history []domain.PeriodStatistics) []domain.ComplianceVerdict {
	snap := SnapshotFrom(history)
	verdicts := make([]domain.ComplianceVerdict, 0, len(agents))
	for _, agent := range agents {
		verdicts = append(verdicts, e.evaluateAgent(agent, snap))
	}
	return verdicts
}

func (e *Engine) evaluateAgent(agent *domain.Agent, snap Snapshot) domain.ComplianceVerdict {
	decision := e.provider.Decide(agent)

	violated := []string{}
	var messages []string
	for _, rule := range e.rules {
		if rule.Violated(e.cfg, agent, decision, snap) {
			violated = append(violated, rule.Description)
			messages = append(messages, rule.Message)
		}
	}

	return domain.ComplianceVerdict{
		AgentID:       agent.ID,
		Status:        statusFor(len(violated)),
		RiskScore:     riskScoreFor(len(violated)),
		ViolatedRules: violated,
		Explanation:   strings.Join(messages, " "),
	}
}

// riskScoreFor maps violation count to the fixed discrete score set. It is a
// total function of the count only, not of which rules fired.
func riskScoreFor(violations int) int {
	switch {
	case violations == 0:
		return 10
	case violations == 1:
		return 40
	case violations == 2:
		return 65
	default:
		return 85
	}
}

func statusFor(violations int) domain.ComplianceStatus {
	switch {
	case violations >= 2:
		return domain.StatusFail
	case violations == 1:
		return domain.StatusWarning
	default:
		return domain.StatusPass
	}
}
