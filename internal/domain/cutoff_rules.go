package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Cutoff configuration for one division at one location.
type DivisionCutoffRule struct {
	CutoffTime            string // zero-padded 24h "HH:MM", location local time
	NextDayPromiseEnabled bool
	ValidShipDays         []time.Weekday
	SameDayPickupEnabled  bool
}

// IsShipDay reports whether the weekday is one of the rule's ship days.
func (r DivisionCutoffRule) IsShipDay(d time.Weekday) bool {
	for _, v := range r.ValidShipDays {
		if v == d {
			return true
		}
	}
	return false
}

// Inclusive date range during which the next-day promise is suspended.
// It applies to every division at its location.
type BlackoutWindow struct {
	StartDateKey string // YYYY-MM-DD
	EndDateKey   string // YYYY-MM-DD
	Reason       string
}

// Contains compares date keys lexicographically; YYYY-MM-DD sorts as a date.
func (b BlackoutWindow) Contains(dateKey string) bool {
	return b.StartDateKey <= dateKey && dateKey <= b.EndDateKey
}

// The full cutoff configuration of one location.
// Owned by the configuration admin; read-only to evaluation and ranking.
type LocationCutoffRuleSet struct {
	LocationID      string
	TimeZoneID      string
	DivisionRules   map[Division]DivisionCutoffRule
	BlackoutWindows []BlackoutWindow
	UpdatedAt       time.Time
}

// ActiveBlackout returns the first window containing dateKey.
func (rs *LocationCutoffRuleSet) ActiveBlackout(dateKey string) (BlackoutWindow, bool) {
	for _, bw := range rs.BlackoutWindows {
		if bw.Contains(dateKey) {
			return bw, true
		}
	}
	return BlackoutWindow{}, false
}

var (
	timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)
	dateKeyPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ParseTimeOfDay parses a zero-padded 24-hour "HH:MM" value.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	m := timeOfDayPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("parse time of day %q: want zero-padded HH:MM", s)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return hour, minute, nil
}

func validDateKey(s string) bool {
	if !dateKeyPattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// Validate checks a rule set before it is written. Every problem found is
// reported as a *ConfigurationError, joined when there is more than one.
func (rs *LocationCutoffRuleSet) Validate() error {
	var errs []error
	bad := func(field, value, reason string) {
		errs = append(errs, &ConfigurationError{
			LocationID: rs.LocationID,
			Field:      field,
			Value:      value,
			Reason:     reason,
		})
	}

	if rs.LocationID == "" {
		bad("locationId", "", "must not be empty")
	}

	if _, err := LoadZone(rs.TimeZoneID); err != nil {
		bad("timeZoneId", rs.TimeZoneID, "unknown time zone")
	}

	for div, rule := range rs.DivisionRules {
		if _, ok := div.Label(); !ok {
			bad("divisionRules", string(div), "unknown division")
			continue
		}

		if _, _, err := ParseTimeOfDay(rule.CutoffTime); err != nil {
			bad("divisionRules."+string(div)+".cutoffTime", rule.CutoffTime, "want zero-padded HH:MM")
		}

		for _, d := range rule.ValidShipDays {
			if d < time.Sunday || d > time.Saturday {
				bad("divisionRules."+string(div)+".validShipDays", strconv.Itoa(int(d)), "day of week must be 0..6")
			}
		}
	}

	for i, bw := range rs.BlackoutWindows {
		field := fmt.Sprintf("blackoutWindows[%d]", i)
		switch {
		case !validDateKey(bw.StartDateKey):
			bad(field+".startDate", bw.StartDateKey, "want YYYY-MM-DD")
		case !validDateKey(bw.EndDateKey):
			bad(field+".endDate", bw.EndDateKey, "want YYYY-MM-DD")
		case bw.EndDateKey < bw.StartDateKey:
			bad(field, bw.StartDateKey+".."+bw.EndDateKey, "end date precedes start date")
		}
	}

	return errors.Join(errs...)
}

// Clone returns a deep copy so stores can hand out rule sets without
// sharing their backing maps and slices.
func (rs *LocationCutoffRuleSet) Clone() *LocationCutoffRuleSet {
	if rs == nil {
		return nil
	}

	out := *rs
	out.DivisionRules = make(map[Division]DivisionCutoffRule, len(rs.DivisionRules))
	for d, r := range rs.DivisionRules {
		r.ValidShipDays = append([]time.Weekday(nil), r.ValidShipDays...)
		out.DivisionRules[d] = r
	}
	out.BlackoutWindows = append([]BlackoutWindow(nil), rs.BlackoutWindows...)

	return &out
}
