package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulfillment-cutoff-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	err   error
	calls int
}

func (s *scriptedSource) GetInventory(ctx context.Context, locationID string, division domain.Division) (domain.InventorySnapshot, error) {
	s.calls++
	if s.err != nil {
		return domain.InventorySnapshot{}, s.err
	}
	return domain.InventorySnapshot{OnHandQty: 7}, nil
}

func testConfig() BreakerConfig {
	cfg := DefaultBreakerConfig("inventory-test")
	cfg.FailureThreshold = 3
	cfg.Timeout = time.Hour
	return cfg
}

func TestBreaker_PassesThroughWhenHealthy(t *testing.T) {
	src := &scriptedSource{}
	b := NewBreakerInventorySource(src, testConfig())

	got, err := b.GetInventory(context.Background(), "DET", domain.DivisionCarbon)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got.OnHandQty)
	assert.Equal(t, "closed", b.State())
}

func TestBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	src := &scriptedSource{err: errors.New("503 service unavailable")}
	b := NewBreakerInventorySource(src, testConfig())

	for range 3 {
		_, err := b.GetInventory(context.Background(), "DET", domain.DivisionCarbon)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}
	assert.Equal(t, "open", b.State())

	_, err := b.GetInventory(context.Background(), "DET", domain.DivisionCarbon)
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 3, src.calls)
}

func TestBreaker_CancellationDoesNotTrip(t *testing.T) {
	src := &scriptedSource{err: context.Canceled}
	b := NewBreakerInventorySource(src, testConfig())

	for range 5 {
		_, err := b.GetInventory(context.Background(), "DET", domain.DivisionCarbon)
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, "closed", b.State())
}
