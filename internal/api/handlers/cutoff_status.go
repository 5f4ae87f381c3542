package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"fulfillment-cutoff-service/internal/domain"
	"fulfillment-cutoff-service/internal/services"
)

// CutoffStatusHandler serves the current cutoff status and a live countdown
// stream for one location and division.
type CutoffStatusHandler struct {
	Monitor *services.CutoffMonitor
}

func parseStatusTarget(w http.ResponseWriter, r *http.Request) (string, domain.Division, bool) {
	locationID := strings.TrimSpace(r.PathValue("locationID"))
	if locationID == "" {
		writeError(w, r, http.StatusBadRequest, "location id is required")
		return "", "", false
	}

	division, err := domain.ParseDivision(r.URL.Query().Get("division"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "division must be one of carbon, stainless, aluminum, alloy")
		return "", "", false
	}

	return locationID, division, true
}

// Status serves GET /cutoff-status/{locationID}?division=.
// It always answers 200; rules that cannot load show as UNAVAILABLE.
func (h *CutoffStatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	locationID, division, ok := parseStatusTarget(w, r)
	if !ok {
		return
	}

	u := h.Monitor.Evaluate(r.Context(), locationID, division)
	writeJSON(w, r, http.StatusOK, cutoffStatusResponse(u))
}

// Stream serves GET /cutoff-status/{locationID}/stream?division= as
// Server-Sent Events. The watch stops when the client disconnects.
func (h *CutoffStatusHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	locationID, division, ok := parseStatusTarget(w, r)
	if !ok {
		return
	}

	rc := http.NewResponseController(w)
	// The server write timeout would otherwise cut a live countdown short.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Printf("clear write deadline failed: location_id=%s err=%v", locationID, err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		log.Printf("stream flush failed: location_id=%s err=%v", locationID, err)
		return
	}

	watch := h.Monitor.Watch(r.Context(), locationID, division)
	defer watch.Stop()

	for u := range watch.Updates() {
		payload, err := json.Marshal(cutoffStatusResponse(u))
		if err != nil {
			log.Printf("encode cutoff event failed: location_id=%s err=%v", locationID, err)
			return
		}
		if _, err := fmt.Fprintf(w, "event: cutoff\ndata: %s\n\n", payload); err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
