package dto

import "time"

type CoordinatePayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type RankBranchesRequest struct {
	Division              string             `json:"division"`
	RequiredOps           []string           `json:"requiredOps"`
	DestinationCoordinate *CoordinatePayload `json:"destinationCoordinate"`
	ExcludeLocationID     string             `json:"excludeLocationId"`
	At                    *time.Time         `json:"at"`
}

type ReasonResponse struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Label  string `json:"label"`
	Impact string `json:"impact"`
}

type ComponentScoresResponse struct {
	Inventory  float64 `json:"inventory"`
	Cutoff     float64 `json:"cutoff"`
	Processing float64 `json:"processing"`
	Distance   float64 `json:"distance"`
}

type SuggestionResponse struct {
	LocationID      string                  `json:"locationId"`
	Name            string                  `json:"name"`
	Rank            int                     `json:"rank"`
	TotalScore      float64                 `json:"totalScore"`
	IsRecommended   bool                    `json:"isRecommended"`
	Reasons         []ReasonResponse        `json:"reasons"`
	ComponentScores ComponentScoresResponse `json:"componentScores"`
	DistanceMiles   *float64                `json:"distanceMiles"`
	DistanceLabel   string                  `json:"distanceLabel,omitempty"`
	Cutoff          CutoffStatusResponse    `json:"cutoff"`
}

type RankBranchesResponse struct {
	Suggestions []SuggestionResponse `json:"suggestions"`
}
