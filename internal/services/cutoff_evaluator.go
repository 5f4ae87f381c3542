package services

import (
	"fmt"
	"time"

	"fulfillment-cutoff-service/internal/domain"
)

// EvaluateCutoff computes whether the next-day promise for one division is
// still honorable at now, in the location's own time zone.
//
// A nil rule set, or one without a rule for the division, yields the
// unknown status. Only configuration problems (bad zone, bad cutoff time)
// are returned as errors; they mean the stored rule set never passed
// validation.
func EvaluateCutoff(
	rules *domain.LocationCutoffRuleSet,
	division domain.Division,
	now time.Time,
) (domain.CutoffStatus, error) {
	if rules == nil {
		return domain.UnknownCutoffStatus(), nil
	}

	rule, ok := rules.DivisionRules[division]
	if !ok {
		return domain.UnknownCutoffStatus(), nil
	}

	today, err := domain.CivilTimeIn(now, rules.TimeZoneID)
	if err != nil {
		return domain.CutoffStatus{}, fmt.Errorf("evaluate cutoff: location %q: %w", rules.LocationID, err)
	}

	cutoffHour, cutoffMinute, err := domain.ParseTimeOfDay(rule.CutoffTime)
	if err != nil {
		return domain.CutoffStatus{}, fmt.Errorf("evaluate cutoff: location %q division %q: %w", rules.LocationID, division, err)
	}

	status := domain.CutoffStatus{
		RuleFound:            true,
		IsValidShipDay:       rule.IsShipDay(today.Weekday),
		PromiseEnabled:       rule.NextDayPromiseEnabled,
		SameDayPickupEnabled: rule.SameDayPickupEnabled,
		CutoffTime:           rule.CutoffTime,
		LocalDateKey:         today.DateKey,
	}

	if bw, ok := rules.ActiveBlackout(today.DateKey); ok {
		status.IsBlackedOut = true
		status.BlackoutReason = bw.Reason
	}

	remaining := (cutoffHour*60 + cutoffMinute) - today.MinuteOfDay()
	status.MinutesRemaining = &remaining

	// Zero minutes remaining counts as passed.
	status.PromiseAvailable = status.PromiseEnabled &&
		status.IsValidShipDay &&
		!status.IsBlackedOut &&
		remaining > 0

	return status, nil
}
