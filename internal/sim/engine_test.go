package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auctionlab/market-compliance/internal/domain"
)

// stubRunner replays a scripted sequence of period outcomes.
type stubRunner struct {
	outcomes []outcome
	calls    int
}

type outcome struct {
	stats *domain.PeriodStatistics
	err   error
}

func (s *stubRunner) RunPeriod(ctx context.Context) (*domain.PeriodStatistics, error) {
	o := s.outcomes[s.calls]
	s.calls++
	return o.stats, o.err
}

func stats(period int, sd float64) *domain.PeriodStatistics {
	price := decimal.NewFromInt(50)
	return &domain.PeriodStatistics{
		Period:     period,
		OpenPrice:  price,
		HighPrice:  price.Add(decimal.NewFromInt(5)),
		LowPrice:   price.Sub(decimal.NewFromInt(5)),
		ClosePrice: price,
		Volume:     7,
		SD:         sd,
	}
}

func TestRun_AggregatesSeries(t *testing.T) {
	runner := &stubRunner{outcomes: []outcome{
		{stats: stats(0, 5)},
		{stats: stats(1, 25)},
		{stats: stats(2, 10)},
	}}
	e := NewEngine(runner, nil, zerolog.Nop())

	state, history, err := e.Run(context.Background(), "run-1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, runner.calls)

	assert.Len(t, state.PriceHistory, 3)
	assert.Len(t, state.Liquidity, 3)
	assert.Len(t, state.TradeHistory, 3)
	assert.Len(t, history, 3)

	// only period 1 exceeds the spike threshold
	require.Len(t, state.VolatilitySpikes, 1)
	assert.Equal(t, 1, state.VolatilitySpikes[0].Period)
	assert.Equal(t, 25.0, state.VolatilitySpikes[0].SD)

	assert.Equal(t, []int{7, 7, 7}, state.Liquidity)
}

func TestRun_SkipsEmptyPeriods(t *testing.T) {
	runner := &stubRunner{outcomes: []outcome{
		{stats: stats(0, 5)},
		{stats: nil},
		{stats: stats(2, 5)},
		{stats: nil},
	}}
	e := NewEngine(runner, nil, zerolog.Nop())

	state, history, err := e.Run(context.Background(), "run-1", 4)
	require.NoError(t, err)

	// series never exceed the period count; trade history counts only
	// periods that produced statistics
	assert.Len(t, state.TradeHistory, 2)
	assert.Len(t, state.PriceHistory, 2)
	assert.Len(t, state.Liquidity, 2)
	assert.Len(t, history, 2)
	assert.Equal(t, 2, history[1].Period)
}

func TestRun_AbortsOnPeriodError(t *testing.T) {
	boom := errors.New("book corrupted")
	runner := &stubRunner{outcomes: []outcome{
		{stats: stats(0, 5)},
		{err: boom},
		{stats: stats(2, 5)},
	}}
	e := NewEngine(runner, nil, zerolog.Nop())

	state, history, err := e.Run(context.Background(), "run-1", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "period 1")

	// all-or-nothing: nothing partial is returned
	assert.Nil(t, state)
	assert.Nil(t, history)
	assert.Equal(t, 2, runner.calls)
}

func TestRun_SpikeThresholdIsStrict(t *testing.T) {
	runner := &stubRunner{outcomes: []outcome{
		{stats: stats(0, VolatilitySpikeThreshold)},
	}}
	e := NewEngine(runner, nil, zerolog.Nop())

	state, _, err := e.Run(context.Background(), "run-1", 1)
	require.NoError(t, err)
	assert.Empty(t, state.VolatilitySpikes)
}
