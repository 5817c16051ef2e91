package port

import (
	"context"

	"github.com/auctionlab/market-compliance/internal/domain"
)

// Repository persists run results. All operations are keyed by run ID.
type Repository interface {
	SavePeriodStats(ctx context.Context, runID string, s *domain.PeriodStatistics) error
	SaveMarketState(ctx context.Context, runID string, ms *domain.MarketState) error
	SaveVerdicts(ctx context.Context, runID string, vs []domain.ComplianceVerdict) error
	LoadMarketState(ctx context.Context, runID string) (*domain.MarketState, error)
	LoadVerdicts(ctx context.Context, runID string) ([]domain.ComplianceVerdict, error)
}
