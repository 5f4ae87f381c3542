package dto

import "time"

type DivisionRulePayload struct {
	CutoffTime            string `json:"cutoffTime"`
	NextDayPromiseEnabled bool   `json:"nextDayPromiseEnabled"`
	ValidShipDays         []int  `json:"validShipDays"`
	SameDayPickupEnabled  bool   `json:"sameDayPickupEnabled"`
}

type BlackoutWindowPayload struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

type CutoffRuleSetPayload struct {
	LocationID      string                         `json:"locationId"`
	TimeZoneID      string                         `json:"timeZoneId"`
	DivisionRules   map[string]DivisionRulePayload `json:"divisionRules"`
	BlackoutWindows []BlackoutWindowPayload        `json:"blackoutWindows"`
	UpdatedAt       *time.Time                     `json:"updatedAt,omitempty"`
}

type ListCutoffRuleSetsResponse struct {
	RuleSets []CutoffRuleSetPayload `json:"ruleSets"`
}

type PutCutoffRuleSetsRequest struct {
	RuleSets []CutoffRuleSetPayload `json:"ruleSets"`
}

type ConfigurationErrorDetail struct {
	LocationID string `json:"locationId"`
	Field      string `json:"field"`
	Value      string `json:"value"`
	Reason     string `json:"reason"`
}

type ConfigurationErrorResponse struct {
	Error   string                     `json:"error"`
	Details []ConfigurationErrorDetail `json:"details"`
}
