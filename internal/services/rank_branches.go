package services

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"fulfillment-cutoff-service/internal/domain"
)

// RankRequest describes the order a fulfillment location is being chosen for.
type RankRequest struct {
	Division          domain.Division
	RequiredOps       []string
	Destination       *domain.Coordinates
	ExcludeLocationID string
	// At is the evaluation instant; zero means now.
	At time.Time
}

// Candidate is one branch with the facts fetched for it.
// Rules is nil when the rule set could not be resolved; InventoryUnknown is
// set when the inventory snapshot could not be fetched.
type Candidate struct {
	Facts            domain.BranchFacts
	Rules            *domain.LocationCutoffRuleSet
	InventoryUnknown bool
}

// RankBranches scores every candidate except req.ExcludeLocationID and
// returns them best first.
//
// Ranking is a stable descending sort on total score, so ties keep input
// order. The result depends only on the arguments; candidates and their
// rule sets are never mutated.
func RankBranches(
	candidates []Candidate,
	req RankRequest,
	now time.Time,
	cfg ScoringConfig,
) []domain.FulfillmentSuggestion {
	out := make([]domain.FulfillmentSuggestion, 0, len(candidates))

	for _, c := range candidates {
		if req.ExcludeLocationID != "" && strings.EqualFold(c.Facts.LocationID, req.ExcludeLocationID) {
			continue
		}
		out = append(out, scoreCandidate(c, req, now, cfg))
	}

	slices.SortStableFunc(out, func(a, b domain.FulfillmentSuggestion) int {
		return cmp.Compare(b.TotalScore, a.TotalScore)
	})

	for i := range out {
		out[i].Rank = i + 1
		out[i].IsRecommended = i == 0
	}

	return out
}

func scoreCandidate(c Candidate, req RankRequest, now time.Time, cfg ScoringConfig) domain.FulfillmentSuggestion {
	var inv InventoryScore
	if c.InventoryUnknown {
		inv = InventoryScore{
			Reason: domain.NewReason(domain.ReasonInventoryUnknown, domain.ImpactNegative, "Inventory unavailable"),
		}
	} else {
		inv = ScoreInventory(c.Facts.InventoryFor(req.Division), cfg)
	}

	// A rule set that cannot be evaluated is treated as not ship-safe.
	status, err := EvaluateCutoff(c.Rules, req.Division, now)
	if err != nil {
		status = domain.UnknownCutoffStatus()
	}
	cut := ScoreCutoff(status, cfg)

	proc := ScoreProcessing(req.RequiredOps, c.Facts.Capabilities, cfg)
	dist := ScoreDistance(c.Facts.Coordinates, req.Destination, cfg)

	components := domain.ComponentScores{
		Inventory:  inv.Score,
		Cutoff:     cut.Score,
		Processing: proc.Score,
		Distance:   dist.Score,
	}

	return domain.FulfillmentSuggestion{
		LocationID:      c.Facts.LocationID,
		Name:            c.Facts.Name,
		TotalScore:      components.Total(),
		Reasons:         []domain.Reason{inv.Reason, cut.Reason, proc.Reason, dist.Reason},
		ComponentScores: components,
		DistanceMiles:   dist.Miles,
		DistanceBand:    dist.Band,
		Cutoff:          status,
	}
}
