package services

import (
	"testing"

	"fulfillment-cutoff-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minutes(n int) *int { return &n }

func openStatus(mins int) domain.CutoffStatus {
	return domain.CutoffStatus{
		RuleFound:        true,
		MinutesRemaining: minutes(mins),
		IsValidShipDay:   true,
		PromiseEnabled:   true,
		PromiseAvailable: mins > 0,
		CutoffTime:       "15:30",
	}
}

func TestScoreInventory(t *testing.T) {
	cfg := DefaultScoringConfig()

	tests := []struct {
		name   string
		qty    float64
		want   float64
		code   domain.ReasonCode
		impact domain.Impact
	}{
		{"none", 0, 0, domain.ReasonInventoryNone, domain.ImpactNegative},
		{"negative treated as none", -4, 0, domain.ReasonInventoryNone, domain.ImpactNegative},
		{"half saturation", 50, 15, domain.ReasonInventoryAvailable, domain.ImpactPositive},
		{"saturated", 100, 30, domain.ReasonInventoryAvailable, domain.ImpactPositive},
		{"beyond saturation is capped", 150, 30, domain.ReasonInventoryAvailable, domain.ImpactPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreInventory(domain.InventorySnapshot{OnHandQty: tt.qty, OnHandWeight: 1200}, cfg)
			assert.InDelta(t, tt.want, got.Score, 1e-9)
			assert.Equal(t, tt.code, got.Reason.Code)
			assert.Equal(t, tt.impact, got.Reason.Impact)
		})
	}
}

func TestScoreInventory_LabelCarriesQuantities(t *testing.T) {
	got := ScoreInventory(domain.InventorySnapshot{OnHandQty: 42, OnHandWeight: 1250.5}, DefaultScoringConfig())
	assert.Equal(t, "42 on hand (1250.5 lb)", got.Reason.Label)
}

func TestScoreCutoff(t *testing.T) {
	cfg := DefaultScoringConfig()

	blackout := openStatus(120)
	blackout.IsBlackedOut = true
	blackout.PromiseAvailable = false

	nonShip := openStatus(120)
	nonShip.IsValidShipDay = false
	nonShip.PromiseAvailable = false

	promiseOff := openStatus(120)
	promiseOff.PromiseEnabled = false
	promiseOff.PromiseAvailable = false

	tests := []struct {
		name   string
		status domain.CutoffStatus
		want   float64
		code   domain.ReasonCode
		impact domain.Impact
	}{
		{"unknown", domain.UnknownCutoffStatus(), 0, domain.ReasonCutoffUnknown, domain.ImpactNegative},
		{"blackout", blackout, 0, domain.ReasonCutoffBlackout, domain.ImpactNegative},
		{"non ship day", nonShip, 0, domain.ReasonCutoffNonShipDay, domain.ImpactNegative},
		{"promise disabled", promiseOff, 0, domain.ReasonCutoffPromiseOff, domain.ImpactNegative},
		{"passed keeps floor", openStatus(-30), 2, domain.ReasonCutoffPassed, domain.ImpactNegative},
		{"exactly at cutoff", openStatus(0), 2, domain.ReasonCutoffPassed, domain.ImpactNegative},
		{"closing soon", openStatus(60), 7.5, domain.ReasonCutoffClosingSoon, domain.ImpactNeutral},
		{"open", openStatus(120), 15, domain.ReasonCutoffOpen, domain.ImpactPositive},
		{"saturated", openStatus(240), 30, domain.ReasonCutoffOpen, domain.ImpactPositive},
		{"beyond saturation is capped", openStatus(600), 30, domain.ReasonCutoffOpen, domain.ImpactPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreCutoff(tt.status, cfg)
			assert.InDelta(t, tt.want, got.Score, 1e-9)
			assert.Equal(t, tt.code, got.Reason.Code)
			assert.Equal(t, tt.impact, got.Reason.Impact)
		})
	}
}

func TestScoreCutoff_BlackoutLabel(t *testing.T) {
	s := openStatus(120)
	s.IsBlackedOut = true

	assert.Equal(t, "Blackout in effect: unspecified", ScoreCutoff(s, DefaultScoringConfig()).Reason.Label)

	s.BlackoutReason = "Holiday shutdown"
	assert.Equal(t, "Blackout in effect: Holiday shutdown", ScoreCutoff(s, DefaultScoringConfig()).Reason.Label)
}

func TestScoreProcessing(t *testing.T) {
	cfg := DefaultScoringConfig()
	caps := []string{"Saw", "shear", " Laser "}

	tests := []struct {
		name     string
		required []string
		want     float64
		missing  []string
		code     domain.ReasonCode
	}{
		{"nothing required", nil, 25, nil, domain.ReasonProcessingNotNeeded},
		{"blank ops ignored", []string{" ", ""}, 25, nil, domain.ReasonProcessingNotNeeded},
		{"all present ignoring case", []string{"SAW", "laser"}, 25, nil, domain.ReasonProcessingCapable},
		{"one of two missing", []string{"saw", "plasma"}, 13, []string{"plasma"}, domain.ReasonProcessingMissing},
		{"one of three missing", []string{"saw", "shear", "bevel"}, 17, []string{"bevel"}, domain.ReasonProcessingMissing},
		{"all missing", []string{"bevel", "plasma"}, 0, []string{"bevel", "plasma"}, domain.ReasonProcessingMissing},
		{"duplicates count once", []string{"plasma", "PLASMA", "saw"}, 13, []string{"plasma"}, domain.ReasonProcessingMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreProcessing(tt.required, caps, cfg)
			assert.InDelta(t, tt.want, got.Score, 1e-9)
			assert.Equal(t, tt.missing, got.Missing)
			assert.Equal(t, tt.code, got.Reason.Code)
		})
	}
}

func TestScoreProcessing_MissingLabelListsOps(t *testing.T) {
	got := ScoreProcessing([]string{"bevel", "plasma"}, nil, DefaultScoringConfig())
	assert.Equal(t, "Missing: bevel, plasma", got.Reason.Label)
	assert.Equal(t, domain.ImpactNegative, got.Reason.Impact)
}

func TestScoreDistance(t *testing.T) {
	cfg := DefaultScoringConfig()
	detroit := &domain.Coordinates{Lon: -83.0458, Lat: 42.3314}

	tests := []struct {
		name   string
		dest   *domain.Coordinates
		want   float64
		code   domain.ReasonCode
		impact domain.Impact
	}{
		{"same point", &domain.Coordinates{Lon: -83.0458, Lat: 42.3314}, 15, domain.ReasonDistanceClose, domain.ImpactPositive},
		{"ann arbor", &domain.Coordinates{Lon: -83.7430, Lat: 42.2808}, 15 * 0.7, domain.ReasonDistanceModerate, domain.ImpactNeutral},
		{"cleveland", &domain.Coordinates{Lon: -81.6944, Lat: 41.4993}, 15 * 0.7, domain.ReasonDistanceModerate, domain.ImpactNeutral},
		{"chicago", &domain.Coordinates{Lon: -87.6298, Lat: 41.8781}, 15 * 0.4, domain.ReasonDistanceFar, domain.ImpactNeutral},
		{"denver", &domain.Coordinates{Lon: -104.9903, Lat: 39.7392}, 15 * 0.1, domain.ReasonDistanceVeryFar, domain.ImpactNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreDistance(detroit, tt.dest, cfg)
			require.NotNil(t, got.Miles)
			assert.InDelta(t, tt.want, got.Score, 1e-9)
			assert.Equal(t, tt.code, got.Reason.Code)
			assert.Equal(t, tt.impact, got.Reason.Impact)
		})
	}
}

func TestScoreDistance_UnknownScoresHalf(t *testing.T) {
	cfg := DefaultScoringConfig()
	here := &domain.Coordinates{Lon: -83.0458, Lat: 42.3314}

	for _, got := range []DistanceScore{
		ScoreDistance(nil, here, cfg),
		ScoreDistance(here, nil, cfg),
	} {
		assert.Nil(t, got.Miles)
		assert.InDelta(t, 7.5, got.Score, 1e-9)
		assert.Equal(t, domain.ReasonDistanceUnknown, got.Reason.Code)
	}
}

func TestScorersStayWithinWeights(t *testing.T) {
	cfg := DefaultScoringConfig()

	for _, qty := range []float64{-10, 0, 1, 99, 100, 1e6} {
		s := ScoreInventory(domain.InventorySnapshot{OnHandQty: qty}, cfg).Score
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, cfg.InventoryWeight)
	}
	for _, m := range []int{-1000, -1, 0, 1, 59, 60, 61, 240, 10000} {
		s := ScoreCutoff(openStatus(m), cfg).Score
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, cfg.CutoffWeight)
	}
}

func TestDefaultScoringConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultScoringConfig().Validate())

	bad := DefaultScoringConfig()
	bad.InventoryWeight = 0
	bad.DistanceNearMiles = 10
	assert.Error(t, bad.Validate())
}

func TestScoringConfigValidate_ReportsProblemsInFieldOrder(t *testing.T) {
	bad := DefaultScoringConfig()
	bad.DistanceWeight = -1
	bad.InventoryWeight = 0
	bad.CutoffSaturationMinutes = 0

	want := "scoring config: inventory weight must be positive, got 0\n" +
		"scoring config: distance weight must be positive, got -1\n" +
		"scoring config: cutoff saturation minutes must be positive, got 0"
	for range 20 {
		err := bad.Validate()
		require.Error(t, err)
		assert.Equal(t, want, err.Error())
	}
}
