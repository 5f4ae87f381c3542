package domain

// Result of evaluating one location's cutoff rule for one division at an
// instant. Recomputed on demand and never persisted.
type CutoffStatus struct {
	RuleFound            bool
	MinutesRemaining     *int // negative once cutoff has passed today; nil when unknown
	IsValidShipDay       bool
	IsBlackedOut         bool
	PromiseEnabled       bool
	PromiseAvailable     bool
	SameDayPickupEnabled bool
	CutoffTime           string
	LocalDateKey         string
	BlackoutReason       string
}

// UnknownCutoffStatus is reported when no rule exists for the location or division.
func UnknownCutoffStatus() CutoffStatus {
	return CutoffStatus{}
}

// Indicator is the tri-state presentation of a cutoff status, plus
// Unavailable for rules that could not be loaded at all.
type Indicator string

const (
	IndicatorGreen       Indicator = "GREEN"
	IndicatorYellow      Indicator = "YELLOW"
	IndicatorRed         Indicator = "RED"
	IndicatorUnavailable Indicator = "UNAVAILABLE"
)

// closingSoonMinutes is the window in which an available promise shows YELLOW.
const closingSoonMinutes = 60

func (s CutoffStatus) Indicator() Indicator {
	if !s.RuleFound || s.MinutesRemaining == nil {
		return IndicatorYellow
	}

	mins := *s.MinutesRemaining
	if !s.PromiseEnabled || s.IsBlackedOut || !s.IsValidShipDay || mins <= 0 {
		return IndicatorRed
	}
	if s.PromiseAvailable && mins <= closingSoonMinutes {
		return IndicatorYellow
	}
	return IndicatorGreen
}
