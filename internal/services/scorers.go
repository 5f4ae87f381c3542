package services

import (
	"math"
	"strconv"
	"strings"

	"fulfillment-cutoff-service/internal/domain"

	"golang.org/x/text/cases"
)

// InventoryScore is the inventory component and the facts behind it.
type InventoryScore struct {
	Score     float64
	OnHandQty float64
	Reason    domain.Reason
}

// CutoffScore is the cutoff component and the status it was derived from.
type CutoffScore struct {
	Score  float64
	Status domain.CutoffStatus
	Reason domain.Reason
}

// ProcessingScore is the processing component with any missing operations.
type ProcessingScore struct {
	Score    float64
	Required int
	Missing  []string
	Reason   domain.Reason
}

// DistanceScore is the distance component; Miles is nil when unknown.
type DistanceScore struct {
	Score  float64
	Miles  *float64
	Band   domain.DistanceBand
	Reason domain.Reason
}

func clamp(v, ceiling float64) float64 {
	return math.Max(0, math.Min(ceiling, v))
}

// ScoreInventory ramps linearly with on-hand units, saturating at
// cfg.InventorySaturation.
func ScoreInventory(snapshot domain.InventorySnapshot, cfg ScoringConfig) InventoryScore {
	qty := snapshot.OnHandQty
	if qty <= 0 {
		return InventoryScore{
			Score:     0,
			OnHandQty: qty,
			Reason:    domain.NewReason(domain.ReasonInventoryNone, domain.ImpactNegative, "No on-hand inventory"),
		}
	}

	return InventoryScore{
		Score:     clamp(qty/cfg.InventorySaturation*cfg.InventoryWeight, cfg.InventoryWeight),
		OnHandQty: qty,
		Reason: domain.NewReason(
			domain.ReasonInventoryAvailable, domain.ImpactPositive,
			"%s on hand (%s lb)", formatQty(qty), formatQty(snapshot.OnHandWeight),
		),
	}
}

// ScoreCutoff converts a cutoff status into points. Unknown rules, blackouts,
// non-ship days and a disabled promise score zero; a passed cutoff on an
// otherwise valid day keeps a small floor.
func ScoreCutoff(status domain.CutoffStatus, cfg ScoringConfig) CutoffScore {
	res := CutoffScore{Status: status}

	switch {
	case !status.RuleFound || status.MinutesRemaining == nil:
		res.Reason = domain.NewReason(domain.ReasonCutoffUnknown, domain.ImpactNegative, "Cutoff rule unavailable")
	case status.IsBlackedOut:
		res.Reason = domain.NewReason(domain.ReasonCutoffBlackout, domain.ImpactNegative, "Blackout in effect: %s", blackoutLabel(status.BlackoutReason))
	case !status.IsValidShipDay:
		res.Reason = domain.NewReason(domain.ReasonCutoffNonShipDay, domain.ImpactNegative, "Today is not a ship day")
	case !status.PromiseEnabled:
		res.Reason = domain.NewReason(domain.ReasonCutoffPromiseOff, domain.ImpactNegative, "Next-day promise disabled")
	case *status.MinutesRemaining <= 0:
		res.Score = clamp(cfg.CutoffPassedFloor, cfg.CutoffWeight)
		res.Reason = domain.NewReason(domain.ReasonCutoffPassed, domain.ImpactNegative, "Cutoff %s passed", status.CutoffTime)
	default:
		mins := *status.MinutesRemaining
		res.Score = clamp(float64(mins)/cfg.CutoffSaturationMinutes*cfg.CutoffWeight, cfg.CutoffWeight)
		if mins <= 60 {
			res.Reason = domain.NewReason(domain.ReasonCutoffClosingSoon, domain.ImpactNeutral, "%d min to cutoff", mins)
		} else {
			res.Reason = domain.NewReason(domain.ReasonCutoffOpen, domain.ImpactPositive, "%d min to cutoff", mins)
		}
	}

	return res
}

// ScoreProcessing compares required operations with the branch's declared
// capabilities, ignoring case.
func ScoreProcessing(required []string, capabilities []string, cfg ScoringConfig) ProcessingScore {
	fold := cases.Fold()

	have := make(map[string]struct{}, len(capabilities))
	for _, c := range capabilities {
		have[fold.String(strings.TrimSpace(c))] = struct{}{}
	}

	seen := make(map[string]struct{}, len(required))
	var missing []string
	for _, op := range required {
		op = strings.TrimSpace(op)
		key := fold.String(op)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if _, ok := have[key]; !ok {
			missing = append(missing, op)
		}
	}

	res := ProcessingScore{Required: len(seen), Missing: missing}
	switch {
	case len(seen) == 0:
		res.Score = cfg.ProcessingWeight
		res.Reason = domain.NewReason(domain.ReasonProcessingNotNeeded, domain.ImpactNeutral, "No processing required")
	case len(missing) == 0:
		res.Score = cfg.ProcessingWeight
		res.Reason = domain.NewReason(domain.ReasonProcessingCapable, domain.ImpactPositive, "All %d operations available", len(seen))
	default:
		ratio := 1 - float64(len(missing))/float64(len(seen))
		res.Score = clamp(math.Round(ratio*cfg.ProcessingWeight), cfg.ProcessingWeight)
		res.Reason = domain.NewReason(domain.ReasonProcessingMissing, domain.ImpactNegative, "Missing: %s", strings.Join(missing, ", "))
	}

	return res
}

// ScoreDistance applies a step function to the great-circle distance.
// Unknown coordinates score half weight so missing data does not fully penalize.
func ScoreDistance(origin, destination *domain.Coordinates, cfg ScoringConfig) DistanceScore {
	if origin == nil || destination == nil {
		return DistanceScore{
			Score:  cfg.DistanceWeight / 2,
			Reason: domain.NewReason(domain.ReasonDistanceUnknown, domain.ImpactNeutral, "Distance unknown"),
		}
	}

	miles := origin.DistanceMiles(*destination)
	res := DistanceScore{Miles: &miles, Band: domain.DistanceBandFor(miles)}

	switch {
	case miles <= cfg.DistanceFullMiles:
		res.Score = cfg.DistanceWeight
		res.Reason = domain.NewReason(domain.ReasonDistanceClose, domain.ImpactPositive, "%.0f mi (%s)", miles, res.Band)
	case miles <= cfg.DistanceNearMiles:
		res.Score = cfg.DistanceWeight * 0.7
		res.Reason = domain.NewReason(domain.ReasonDistanceModerate, domain.ImpactNeutral, "%.0f mi (%s)", miles, res.Band)
	case miles <= cfg.DistanceMidMiles:
		res.Score = cfg.DistanceWeight * 0.4
		res.Reason = domain.NewReason(domain.ReasonDistanceFar, domain.ImpactNeutral, "%.0f mi (%s)", miles, res.Band)
	default:
		res.Score = cfg.DistanceWeight * 0.1
		res.Reason = domain.NewReason(domain.ReasonDistanceVeryFar, domain.ImpactNegative, "%.0f mi (%s)", miles, res.Band)
	}

	return res
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func blackoutLabel(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return "unspecified"
	}
	return reason
}
