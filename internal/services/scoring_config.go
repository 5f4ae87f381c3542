package services

import (
	"errors"
	"fmt"
)

// ScoringConfig holds the weight ceilings and saturation thresholds used by
// the scorers. Defaults reproduce the established 30/30/25/15 weighting.
type ScoringConfig struct {
	InventoryWeight  float64
	CutoffWeight     float64
	ProcessingWeight float64
	DistanceWeight   float64

	// On-hand units at which the inventory score saturates.
	InventorySaturation float64
	// Minutes remaining at which the cutoff score saturates.
	CutoffSaturationMinutes float64
	// Points kept when the day is valid but today's cutoff already passed.
	CutoffPassedFloor float64

	// Distance step thresholds, in miles.
	DistanceFullMiles float64
	DistanceNearMiles float64
	DistanceMidMiles  float64
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		InventoryWeight:         30,
		CutoffWeight:            30,
		ProcessingWeight:        25,
		DistanceWeight:          15,
		InventorySaturation:     100,
		CutoffSaturationMinutes: 240,
		CutoffPassedFloor:       2,
		DistanceFullMiles:       30,
		DistanceNearMiles:       100,
		DistanceMidMiles:        250,
	}
}

func (c ScoringConfig) Validate() error {
	var errs []error
	positive := []struct {
		name  string
		value float64
	}{
		{"inventory weight", c.InventoryWeight},
		{"cutoff weight", c.CutoffWeight},
		{"processing weight", c.ProcessingWeight},
		{"distance weight", c.DistanceWeight},
		{"inventory saturation", c.InventorySaturation},
		{"cutoff saturation minutes", c.CutoffSaturationMinutes},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, fmt.Errorf("scoring config: %s must be positive, got %v", p.name, p.value))
		}
	}

	if c.CutoffPassedFloor < 0 || c.CutoffPassedFloor > c.CutoffWeight {
		errs = append(errs, fmt.Errorf("scoring config: cutoff passed floor must be within [0, %v], got %v", c.CutoffWeight, c.CutoffPassedFloor))
	}

	if !(0 < c.DistanceFullMiles && c.DistanceFullMiles <= c.DistanceNearMiles && c.DistanceNearMiles <= c.DistanceMidMiles) {
		errs = append(errs, fmt.Errorf(
			"scoring config: distance thresholds must be positive and ascending, got %v/%v/%v",
			c.DistanceFullMiles, c.DistanceNearMiles, c.DistanceMidMiles,
		))
	}

	return errors.Join(errs...)
}
