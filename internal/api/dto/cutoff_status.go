package dto

import "time"

type CutoffStatusResponse struct {
	LocationID           string    `json:"locationId"`
	Division             string    `json:"division"`
	DivisionLabel        string    `json:"divisionLabel"`
	TimeZoneID           string    `json:"timeZoneId,omitempty"`
	Indicator            string    `json:"indicator"`
	RuleFound            bool      `json:"ruleFound"`
	MinutesRemaining     *int      `json:"minutesRemaining"`
	IsValidShipDay       bool      `json:"isValidShipDay"`
	IsBlackedOut         bool      `json:"isBlackedOut"`
	PromiseEnabled       bool      `json:"promiseEnabled"`
	PromiseAvailable     bool      `json:"promiseAvailable"`
	SameDayPickupEnabled bool      `json:"sameDayPickupEnabled"`
	CutoffTime           string    `json:"cutoffTime,omitempty"`
	LocalDate            string    `json:"localDate,omitempty"`
	BlackoutReason       string    `json:"blackoutReason,omitempty"`
	EvaluatedAt          time.Time `json:"evaluatedAt"`
}
