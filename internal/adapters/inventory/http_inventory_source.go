package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fulfillment-cutoff-service/internal/domain"
	"fulfillment-cutoff-service/internal/platform/obs"
)

// HTTPInventorySource implements InventorySource against the inventory
// record service:
//
//	GET {baseURL}/inventory/{locationId}?division={division}
//	-> {"onHandQty": 150, "onHandWeight": 4200.5}
//
// A 404 means the branch carries nothing in the division and yields a zero
// snapshot. Throttling answers are retried after the server's Retry-After
// when it is short enough. The source is safe for concurrent use.
type HTTPInventorySource struct {
	session *http.Client
	baseURL string
	apiKey  string
	clock   func() time.Time
}

func NewHTTPInventorySource(baseURL, apiKey string) (*HTTPInventorySource, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("inventory api base url is empty")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("inventory api base url: %w", err)
	}

	return &HTTPInventorySource{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: base,
		apiKey:  apiKey,
		clock:   time.Now,
	}, nil
}

func (h *HTTPInventorySource) now() time.Time {
	if h.clock != nil {
		return h.clock()
	}
	return time.Now()
}

type snapshotResponse struct {
	OnHandQty    float64 `json:"onHandQty"`
	OnHandWeight float64 `json:"onHandWeight"`
}

func (h *HTTPInventorySource) GetInventory(
	ctx context.Context,
	locationID string,
	division domain.Division,
) (_ domain.InventorySnapshot, err error) {
	defer obs.Time(ctx, "inventory.http.GetInventory")(&err)

	if strings.TrimSpace(locationID) == "" {
		return domain.InventorySnapshot{}, errors.New("get inventory: location id must be non-empty")
	}

	endpoint := fmt.Sprintf("%s/inventory/%s?division=%s",
		h.baseURL, url.PathEscape(locationID), url.QueryEscape(string(division)))

	resp, err := h.fetch(ctx, endpoint)
	var se *statusError
	if errors.As(err, &se) && se.Status == http.StatusNotFound {
		return domain.InventorySnapshot{}, nil
	}
	if err != nil {
		return domain.InventorySnapshot{}, fmt.Errorf("get inventory %s/%s: %w", locationID, division, err)
	}
	defer resp.Body.Close()

	var body snapshotResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.InventorySnapshot{}, fmt.Errorf("get inventory %s/%s: decode response: %w", locationID, division, err)
	}

	return domain.InventorySnapshot{OnHandQty: body.OnHandQty, OnHandWeight: body.OnHandWeight}, nil
}
