package repositories

import (
	"fmt"
	"time"

	"fulfillment-cutoff-service/internal/domain"
)

// Stored JSON shape of a division rule (the division_rules jsonb column
// and the seed file share it).
type divisionRuleDoc struct {
	CutoffTime            string `json:"cutoffTime"`
	NextDayPromiseEnabled bool   `json:"nextDayPromiseEnabled"`
	ValidShipDays         []int  `json:"validShipDays"`
	SameDayPickupEnabled  bool   `json:"sameDayPickupEnabled"`
}

type blackoutWindowDoc struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func divisionRulesToDoc(rules map[domain.Division]domain.DivisionCutoffRule) map[string]divisionRuleDoc {
	out := make(map[string]divisionRuleDoc, len(rules))
	for d, r := range rules {
		days := make([]int, 0, len(r.ValidShipDays))
		for _, wd := range r.ValidShipDays {
			days = append(days, int(wd))
		}
		out[string(d)] = divisionRuleDoc{
			CutoffTime:            r.CutoffTime,
			NextDayPromiseEnabled: r.NextDayPromiseEnabled,
			ValidShipDays:         days,
			SameDayPickupEnabled:  r.SameDayPickupEnabled,
		}
	}
	return out
}

func divisionRulesFromDoc(doc map[string]divisionRuleDoc) (map[domain.Division]domain.DivisionCutoffRule, error) {
	out := make(map[domain.Division]domain.DivisionCutoffRule, len(doc))
	for key, r := range doc {
		d, err := domain.ParseDivision(key)
		if err != nil {
			return nil, err
		}
		days := make([]time.Weekday, 0, len(r.ValidShipDays))
		for _, v := range r.ValidShipDays {
			days = append(days, time.Weekday(v))
		}
		out[d] = domain.DivisionCutoffRule{
			CutoffTime:            r.CutoffTime,
			NextDayPromiseEnabled: r.NextDayPromiseEnabled,
			ValidShipDays:         days,
			SameDayPickupEnabled:  r.SameDayPickupEnabled,
		}
	}
	return out, nil
}

func blackoutsToDoc(windows []domain.BlackoutWindow) []blackoutWindowDoc {
	out := make([]blackoutWindowDoc, 0, len(windows))
	for _, w := range windows {
		out = append(out, blackoutWindowDoc{StartDate: w.StartDateKey, EndDate: w.EndDateKey, Reason: w.Reason})
	}
	return out
}

func blackoutsFromDoc(doc []blackoutWindowDoc) []domain.BlackoutWindow {
	out := make([]domain.BlackoutWindow, 0, len(doc))
	for _, w := range doc {
		out = append(out, domain.BlackoutWindow{StartDateKey: w.StartDate, EndDateKey: w.EndDate, Reason: w.Reason})
	}
	return out
}

// RuleSetDoc is the JSON form of a whole rule set, used by the seed file and
// the Redis cache.
type RuleSetDoc struct {
	LocationID      string                     `json:"locationId"`
	TimeZoneID      string                     `json:"timeZoneId"`
	DivisionRules   map[string]divisionRuleDoc `json:"divisionRules"`
	BlackoutWindows []blackoutWindowDoc        `json:"blackoutWindows"`
	UpdatedAt       time.Time                  `json:"updatedAt,omitzero"`
}

func RuleSetToDoc(rs *domain.LocationCutoffRuleSet) RuleSetDoc {
	return RuleSetDoc{
		LocationID:      rs.LocationID,
		TimeZoneID:      rs.TimeZoneID,
		DivisionRules:   divisionRulesToDoc(rs.DivisionRules),
		BlackoutWindows: blackoutsToDoc(rs.BlackoutWindows),
		UpdatedAt:       rs.UpdatedAt,
	}
}

func RuleSetFromDoc(doc RuleSetDoc) (*domain.LocationCutoffRuleSet, error) {
	rules, err := divisionRulesFromDoc(doc.DivisionRules)
	if err != nil {
		return nil, fmt.Errorf("rule set %q: %w", doc.LocationID, err)
	}
	return &domain.LocationCutoffRuleSet{
		LocationID:      doc.LocationID,
		TimeZoneID:      doc.TimeZoneID,
		DivisionRules:   rules,
		BlackoutWindows: blackoutsFromDoc(doc.BlackoutWindows),
		UpdatedAt:       doc.UpdatedAt,
	}, nil
}
