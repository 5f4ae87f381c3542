package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"fulfillment-cutoff-service/internal/api/dto"
	"fulfillment-cutoff-service/internal/domain"
	"fulfillment-cutoff-service/internal/services"
)

// Ranker is the ranking use case the handler depends on.
type Ranker interface {
	Rank(ctx context.Context, req services.RankRequest) ([]domain.FulfillmentSuggestion, error)
}

type RankingHandler struct {
	Ranker Ranker
}

// Rank serves POST /rankings: every eligible branch, best first.
func (h *RankingHandler) Rank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req dto.RankBranchesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	division, err := domain.ParseDivision(req.Division)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "division must be one of carbon, stainless, aluminum, alloy")
		return
	}

	svcReq := services.RankRequest{
		Division:          division,
		RequiredOps:       req.RequiredOps,
		ExcludeLocationID: req.ExcludeLocationID,
	}
	if c := req.DestinationCoordinate; c != nil {
		if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
			writeError(w, r, http.StatusBadRequest, "destinationCoordinate is out of range")
			return
		}
		svcReq.Destination = &domain.Coordinates{Lon: c.Lon, Lat: c.Lat}
	}

	at := time.Now()
	if req.At != nil {
		at = *req.At
	}
	svcReq.At = at

	suggestions, err := h.Ranker.Rank(r.Context(), svcReq)
	if errors.Is(err, context.Canceled) {
		// Client went away; nothing partial is written.
		return
	}
	if err != nil {
		log.Printf("rank branches failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.RankBranchesResponse{Suggestions: make([]dto.SuggestionResponse, 0, len(suggestions))}
	for _, s := range suggestions {
		res.Suggestions = append(res.Suggestions, suggestionResponse(s, division, at))
	}

	writeJSON(w, r, http.StatusOK, res)
}
