package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"fulfillment-cutoff-service/internal/api/dto"
	"fulfillment-cutoff-service/internal/domain"
	"fulfillment-cutoff-service/internal/platform/metrics"
	"fulfillment-cutoff-service/internal/ports"
)

// CutoffRulesHandler exposes admin reads and writes of cutoff rule sets.
// Writes are validated first and rejected whole; last write wins.
type CutoffRulesHandler struct {
	Store ports.CutoffRuleStore
}

// Collection serves GET and PUT /cutoff-rules.
func (h *CutoffRulesHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPut:
		h.putAll(w, r)
	default:
		methodNotAllowed(w, r, "GET, PUT")
	}
}

// Item serves GET and PUT /cutoff-rules/{locationID}.
func (h *CutoffRulesHandler) Item(w http.ResponseWriter, r *http.Request) {
	locationID := strings.TrimSpace(r.PathValue("locationID"))
	if locationID == "" {
		writeError(w, r, http.StatusBadRequest, "location id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, locationID)
	case http.MethodPut:
		h.put(w, r, locationID)
	default:
		methodNotAllowed(w, r, "GET, PUT")
	}
}

func (h *CutoffRulesHandler) list(w http.ResponseWriter, r *http.Request) {
	sets, err := h.Store.ListRuleSets(r.Context())
	if err != nil {
		log.Printf("list cutoff rules failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListCutoffRuleSetsResponse{RuleSets: make([]dto.CutoffRuleSetPayload, 0, len(sets))}
	for _, rs := range sets {
		res.RuleSets = append(res.RuleSets, ruleSetToPayload(rs))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *CutoffRulesHandler) get(w http.ResponseWriter, r *http.Request, locationID string) {
	rs, err := h.Store.GetRuleSet(r.Context(), locationID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "no cutoff rules for location")
		return
	}
	if err != nil {
		log.Printf("get cutoff rules failed: location_id=%s err=%v", locationID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, ruleSetToPayload(rs))
}

func (h *CutoffRulesHandler) put(w http.ResponseWriter, r *http.Request, locationID string) {
	var req dto.CutoffRuleSetPayload
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.LocationID == "" {
		req.LocationID = locationID
	}
	if req.LocationID != locationID {
		writeError(w, r, http.StatusBadRequest, "locationId does not match path")
		return
	}

	saved, ok := h.save(w, r, []dto.CutoffRuleSetPayload{req})
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, ruleSetToPayload(saved[0]))
}

func (h *CutoffRulesHandler) putAll(w http.ResponseWriter, r *http.Request) {
	var req dto.PutCutoffRuleSetsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.RuleSets) == 0 {
		writeError(w, r, http.StatusBadRequest, "ruleSets must not be empty")
		return
	}

	saved, ok := h.save(w, r, req.RuleSets)
	if !ok {
		return
	}

	res := dto.ListCutoffRuleSetsResponse{RuleSets: make([]dto.CutoffRuleSetPayload, 0, len(saved))}
	for _, rs := range saved {
		res.RuleSets = append(res.RuleSets, ruleSetToPayload(rs))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// save validates every payload, writes them together and reads them back.
func (h *CutoffRulesHandler) save(
	w http.ResponseWriter,
	r *http.Request,
	payloads []dto.CutoffRuleSetPayload,
) ([]*domain.LocationCutoffRuleSet, bool) {
	sets := make([]*domain.LocationCutoffRuleSet, 0, len(payloads))
	var errs []error
	for _, p := range payloads {
		rs, err := ruleSetFromPayload(p)
		if err == nil {
			err = rs.Validate()
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sets = append(sets, rs)
	}
	if err := errors.Join(errs...); err != nil {
		metrics.RuleWritesRejectedTotal.Inc()
		writeJSON(w, r, http.StatusUnprocessableEntity, configurationErrorResponse(err))
		return nil, false
	}

	if err := h.Store.PutAll(r.Context(), sets); err != nil {
		log.Printf("put cutoff rules failed: count=%d err=%v", len(sets), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return nil, false
	}

	saved := make([]*domain.LocationCutoffRuleSet, 0, len(sets))
	for _, rs := range sets {
		got, err := h.Store.GetRuleSet(r.Context(), rs.LocationID)
		if err != nil {
			log.Printf("read back cutoff rules failed: location_id=%s err=%v", rs.LocationID, err)
			got = rs
		}
		saved = append(saved, got)
	}

	return saved, true
}
