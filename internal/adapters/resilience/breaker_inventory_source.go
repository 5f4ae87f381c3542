package resilience

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"fulfillment-cutoff-service/internal/domain"
	"fulfillment-cutoff-service/internal/ports"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned while the breaker refuses calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerConfig controls when the breaker trips and how long it stays open.
type BreakerConfig struct {
	Name                  string
	MaxRequests           uint32        // requests allowed while half-open
	Interval              time.Duration // closed-state window for clearing counts (0 = never)
	Timeout               time.Duration // open duration before probing again
	FailureThreshold      uint32        // consecutive failures that trip the breaker
	FailureRatioThreshold float64
	MinRequestsToTrip     uint32
}

func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:                  name,
		MaxRequests:           3,
		Interval:              60 * time.Second,
		Timeout:               30 * time.Second,
		FailureThreshold:      5,
		FailureRatioThreshold: 0.5,
		MinRequestsToTrip:     10,
	}
}

// BreakerInventorySource guards an InventorySource with a circuit breaker so
// a failing inventory service degrades candidates immediately instead of
// making every ranking run wait out its fetch timeouts.
type BreakerInventorySource struct {
	Source ports.InventorySource
	cb     *gobreaker.CircuitBreaker
}

func NewBreakerInventorySource(source ports.InventorySource, cfg BreakerConfig) *BreakerInventorySource {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= cfg.FailureThreshold {
				return true
			}
			if counts.Requests >= cfg.MinRequestsToTrip {
				return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatioThreshold
			}
			return false
		},
		// Callers abandoning a request say nothing about the source's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("breaker=%s from=%s to=%s", name, from, to)
		},
	}

	return &BreakerInventorySource{Source: source, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *BreakerInventorySource) GetInventory(
	ctx context.Context,
	locationID string,
	division domain.Division,
) (domain.InventorySnapshot, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.Source.GetInventory(ctx, locationID, division)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.InventorySnapshot{}, fmt.Errorf("inventory %s/%s: %w", locationID, division, ErrCircuitOpen)
	}
	if err != nil {
		return domain.InventorySnapshot{}, err
	}

	return v.(domain.InventorySnapshot), nil
}

// State reports the breaker state for health output.
func (b *BreakerInventorySource) State() string {
	return b.cb.State().String()
}
