package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/auctionlab/market-compliance/internal/domain"
	"github.com/auctionlab/market-compliance/internal/port"
)

var ErrRunNotFound = errors.New("pg: run not found")

var _ port.Repository = (*PgRepo)(nil)

type PgRepo struct {
	pool *pgxpool.Pool
}

// call Close when finished working with the database.
func NewPgRepo(ctx context.Context, dsn string) (*PgRepo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	return &PgRepo{pool: pool}, nil
}

func (p *PgRepo) Close(ctx context.Context) {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *PgRepo) SavePeriodStats(ctx context.Context, runID string, s *domain.PeriodStatistics) error {
	if s == nil {
		return errors.New("nil period statistics")
	}
	_, err := p.pool.Exec(ctx, `
INSERT INTO period_stats(run_id, period, open_price, high_price, low_price, close_price, volume, sd)
VALUES($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (run_id, period) DO UPDATE SET
  open_price = EXCLUDED.open_price,
  high_price = EXCLUDED.high_price,
  low_price = EXCLUDED.low_price,
  close_price = EXCLUDED.close_price,
  volume = EXCLUDED.volume,
  sd = EXCLUDED.sd
`, runID, s.Period, s.OpenPrice, s.HighPrice, s.LowPrice, s.ClosePrice, s.Volume, s.SD)
	return err
}

func (p *PgRepo) SaveMarketState(ctx context.Context, runID string, ms *domain.MarketState) error {
	if ms == nil {
		return errors.New("nil market state")
	}
	state, err := json.Marshal(ms)
	if err != nil {
		return fmt.Errorf("marshal market state: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
INSERT INTO market_states(run_id, state)
VALUES($1,$2)
ON CONFLICT (run_id) DO UPDATE SET state = EXCLUDED.state
`, runID, state)
	return err
}

// SaveVerdicts replaces the verdict set of a run atomically.
func (p *PgRepo) SaveVerdicts(ctx context.Context, runID string, vs []domain.ComplianceVerdict) error {
	return p.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM verdicts WHERE run_id = $1`, runID); err != nil {
			return err
		}
		for i, v := range vs {
			rules, err := json.Marshal(v.ViolatedRules)
			if err != nil {
				return fmt.Errorf("marshal violated rules: %w", err)
			}
			if _, err := tx.Exec(ctx, `
INSERT INTO verdicts(run_id, position, agent_id, status, risk_score, violated_rules, explanation)
VALUES($1,$2,$3,$4,$5,$6,$7)
`, runID, i, v.AgentID, string(v.Status), v.RiskScore, rules, v.Explanation); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *PgRepo) LoadMarketState(ctx context.Context, runID string) (*domain.MarketState, error) {
	var state []byte
	err := p.pool.QueryRow(ctx, `SELECT state FROM market_states WHERE run_id = $1`, runID).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	var ms domain.MarketState
	if err := json.Unmarshal(state, &ms); err != nil {
		return nil, fmt.Errorf("unmarshal market state: %w", err)
	}
	return &ms, nil
}

// LoadVerdicts returns a run's verdicts in registry (position) order.
func (p *PgRepo) LoadVerdicts(ctx context.Context, runID string) ([]domain.ComplianceVerdict, error) {
	rows, err := p.pool.Query(ctx, `
SELECT agent_id, status, risk_score, violated_rules, explanation
FROM verdicts
WHERE run_id = $1
ORDER BY position ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.ComplianceVerdict
	for rows.Next() {
		var v domain.ComplianceVerdict
		var status string
		var rules []byte
		if err := rows.Scan(&v.AgentID, &status, &v.RiskScore, &rules, &v.Explanation); err != nil {
			return nil, err
		}
		v.Status = domain.ComplianceStatus(status)
		if err := json.Unmarshal(rules, &v.ViolatedRules); err != nil {
			return nil, fmt.Errorf("unmarshal violated rules: %w", err)
		}
		res = append(res, v)
	}
	if len(res) == 0 {
		return nil, ErrRunNotFound
	}
	return res, rows.Err()
}

func (p *PgRepo) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}
