package domain

import "fmt"

// Impact tags how a reason moved a candidate's score.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNeutral  Impact = "neutral"
	ImpactNegative Impact = "negative"
)

// ReasonCode is the closed set of explanations scorers can attach.
type ReasonCode string

const (
	ReasonInventoryAvailable ReasonCode = "inventory_available"
	ReasonInventoryNone      ReasonCode = "inventory_none"
	ReasonInventoryUnknown   ReasonCode = "inventory_unknown"

	ReasonCutoffOpen          ReasonCode = "cutoff_open"
	ReasonCutoffClosingSoon   ReasonCode = "cutoff_closing_soon"
	ReasonCutoffPassed        ReasonCode = "cutoff_passed"
	ReasonCutoffNonShipDay    ReasonCode = "cutoff_non_ship_day"
	ReasonCutoffBlackout      ReasonCode = "cutoff_blackout"
	ReasonCutoffPromiseOff    ReasonCode = "cutoff_promise_disabled"
	ReasonCutoffUnknown       ReasonCode = "cutoff_unknown"
	ReasonProcessingCapable   ReasonCode = "processing_capable"
	ReasonProcessingNotNeeded ReasonCode = "processing_not_required"
	ReasonProcessingMissing   ReasonCode = "processing_missing"
	ReasonDistanceClose       ReasonCode = "distance_close"
	ReasonDistanceModerate    ReasonCode = "distance_moderate"
	ReasonDistanceFar         ReasonCode = "distance_far"
	ReasonDistanceVeryFar     ReasonCode = "distance_very_far"
	ReasonDistanceUnknown     ReasonCode = "distance_unknown"
)

func AllReasonCodes() []ReasonCode {
	return []ReasonCode{
		ReasonInventoryAvailable, ReasonInventoryNone, ReasonInventoryUnknown,
		ReasonCutoffOpen, ReasonCutoffClosingSoon, ReasonCutoffPassed,
		ReasonCutoffNonShipDay, ReasonCutoffBlackout, ReasonCutoffPromiseOff, ReasonCutoffUnknown,
		ReasonProcessingCapable, ReasonProcessingNotNeeded, ReasonProcessingMissing,
		ReasonDistanceClose, ReasonDistanceModerate, ReasonDistanceFar, ReasonDistanceVeryFar, ReasonDistanceUnknown,
	}
}

// Title is the short heading shown for a code; ok is false outside the closed set.
func (c ReasonCode) Title() (string, bool) {
	switch c {
	case ReasonInventoryAvailable:
		return "In stock", true
	case ReasonInventoryNone:
		return "Out of stock", true
	case ReasonInventoryUnknown:
		return "Inventory unknown", true
	case ReasonCutoffOpen:
		return "Cutoff open", true
	case ReasonCutoffClosingSoon:
		return "Cutoff closing soon", true
	case ReasonCutoffPassed:
		return "Cutoff passed", true
	case ReasonCutoffNonShipDay:
		return "Not a ship day", true
	case ReasonCutoffBlackout:
		return "Blackout", true
	case ReasonCutoffPromiseOff:
		return "Next-day promise off", true
	case ReasonCutoffUnknown:
		return "Cutoff unknown", true
	case ReasonProcessingCapable:
		return "Processing capable", true
	case ReasonProcessingNotNeeded:
		return "No processing required", true
	case ReasonProcessingMissing:
		return "Missing processing", true
	case ReasonDistanceClose:
		return "Close to destination", true
	case ReasonDistanceModerate:
		return "Moderate distance", true
	case ReasonDistanceFar:
		return "Far from destination", true
	case ReasonDistanceVeryFar:
		return "Very far from destination", true
	case ReasonDistanceUnknown:
		return "Distance unknown", true
	}
	return "", false
}

// A structured explanation attached to one score component.
type Reason struct {
	Code   ReasonCode
	Label  string
	Impact Impact
}

func NewReason(code ReasonCode, impact Impact, format string, args ...any) Reason {
	return Reason{Code: code, Impact: impact, Label: fmt.Sprintf(format, args...)}
}

// Per-component points; each is clamped to its weight ceiling.
type ComponentScores struct {
	Inventory  float64
	Cutoff     float64
	Processing float64
	Distance   float64
}

func (c ComponentScores) Total() float64 {
	return c.Inventory + c.Cutoff + c.Processing + c.Distance
}

// One ranked candidate. Ephemeral output of a ranking run.
type FulfillmentSuggestion struct {
	LocationID      string
	Name            string
	Rank            int // 1-based, dense
	TotalScore      float64
	IsRecommended   bool
	Reasons         []Reason // inventory, cutoff, processing, distance
	ComponentScores ComponentScores
	DistanceMiles   *float64
	DistanceBand    DistanceBand
	Cutoff          CutoffStatus
}
