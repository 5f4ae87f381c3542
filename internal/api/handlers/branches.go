package handlers

import (
	"log"
	"net/http"

	"fulfillment-cutoff-service/internal/api/dto"
	"fulfillment-cutoff-service/internal/ports"
)

// BranchHandler exposes the read-only branch registry.
type BranchHandler struct {
	Directory ports.BranchDirectory
}

func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	branches, err := h.Directory.ListBranches(r.Context())
	if err != nil {
		log.Printf("list branches failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListBranchesResponse{Branches: make([]dto.BranchResponse, 0, len(branches))}
	for _, b := range branches {
		br := dto.BranchResponse{
			LocationID:   b.LocationID,
			Name:         b.Name,
			Capabilities: b.Capabilities,
		}
		if b.Coordinates != nil {
			br.Coordinate = &dto.CoordinatePayload{Lat: b.Coordinates.Lat, Lon: b.Coordinates.Lon}
		}
		if br.Capabilities == nil {
			br.Capabilities = []string{}
		}
		res.Branches = append(res.Branches, br)
	}

	writeJSON(w, r, http.StatusOK, res)
}
