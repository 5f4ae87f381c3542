package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fulfillment-cutoff-service/internal/adapters/memory"
	"fulfillment-cutoff-service/internal/api/dto"
	"fulfillment-cutoff-service/internal/domain"
	"fulfillment-cutoff-service/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 14:00 in Detroit on a Wednesday.
var fixedNow = time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC)

const detroitRuleJSON = `{
	"locationId": "DET",
	"timeZoneId": "America/Detroit",
	"divisionRules": {
		"carbon": {"cutoffTime": "15:30", "nextDayPromiseEnabled": true, "validShipDays": [1,2,3,4,5], "sameDayPickupEnabled": true}
	},
	"blackoutWindows": [{"startDate": "2026-12-24", "endDate": "2026-12-26", "reason": "Holiday shutdown"}]
}`

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	rules := memory.NewCutoffRuleStore()
	branches := &memory.BranchDirectory{Branches: []domain.Branch{
		{LocationID: "DET", Name: "Detroit", Coordinates: &domain.Coordinates{Lon: -83.0458, Lat: 42.3314}, Capabilities: []string{"saw"}},
		{LocationID: "CHI", Name: "Chicago", Coordinates: &domain.Coordinates{Lon: -87.6298, Lat: 41.8781}, Capabilities: []string{"saw", "laser"}},
	}}
	inv := memory.NewInventorySource()
	inv.Set("DET", domain.DivisionCarbon, domain.InventorySnapshot{OnHandQty: 150, OnHandWeight: 5000})
	inv.Set("CHI", domain.DivisionCarbon, domain.InventorySnapshot{OnHandQty: 10, OnHandWeight: 300})

	ranker := services.NewRankingService(branches, rules, inv, services.DefaultScoringConfig(), time.Second)
	ranker.Now = func() time.Time { return fixedNow }
	monitor := services.NewCutoffMonitor(rules, time.Hour)
	monitor.Now = func() time.Time { return fixedNow }

	return NewRouter(Dependencies{Rules: rules, Branches: branches, Ranker: ranker, Monitor: monitor})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestCutoffRules_PutThenGet(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPut, "/cutoff-rules/DET", detroitRuleJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[dto.CutoffRuleSetPayload](t, rec)
	assert.NotNil(t, saved.UpdatedAt)

	rec = do(t, h, http.MethodGet, "/cutoff-rules/DET", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[dto.CutoffRuleSetPayload](t, rec)
	assert.Equal(t, "America/Detroit", got.TimeZoneID)
	assert.Equal(t, "15:30", got.DivisionRules["carbon"].CutoffTime)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got.DivisionRules["carbon"].ValidShipDays)
	require.Len(t, got.BlackoutWindows, 1)

	rec = do(t, h, http.MethodGet, "/cutoff-rules", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[dto.ListCutoffRuleSetsResponse](t, rec).RuleSets, 1)
}

func TestCutoffRules_GetUnknownIs404(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/cutoff-rules/NOPE", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCutoffRules_InvalidWriteIsRejected(t *testing.T) {
	h := newTestRouter(t)

	body := `{
		"timeZoneId": "Not/AZone",
		"divisionRules": {
			"carbon": {"cutoffTime": "25:00", "validShipDays": [1, 9]},
			"copper": {"cutoffTime": "12:00", "validShipDays": [1]}
		}
	}`
	rec := do(t, h, http.MethodPut, "/cutoff-rules/DET", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	res := decode[dto.ConfigurationErrorResponse](t, rec)
	require.NotEmpty(t, res.Details)
	assert.Equal(t, "divisionRules", res.Details[0].Field)
	assert.Equal(t, "copper", res.Details[0].Value)

	rec = do(t, h, http.MethodGet, "/cutoff-rules/DET", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCutoffRules_ReportsEveryProblem(t *testing.T) {
	body := `{
		"timeZoneId": "Not/AZone",
		"divisionRules": {"carbon": {"cutoffTime": "25:00", "validShipDays": [9]}},
		"blackoutWindows": [{"startDate": "2026-12-26", "endDate": "2026-12-24"}]
	}`
	rec := do(t, newTestRouter(t), http.MethodPut, "/cutoff-rules/DET", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var fields []string
	for _, d := range decode[dto.ConfigurationErrorResponse](t, rec).Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{
		"timeZoneId",
		"divisionRules.carbon.cutoffTime",
		"divisionRules.carbon.validShipDays",
		"blackoutWindows[0]",
	}, fields)
}

func TestCutoffRules_BulkWriteIsAllOrNothing(t *testing.T) {
	h := newTestRouter(t)

	body := `{"ruleSets": [` + detroitRuleJSON + `,
		{"locationId": "CHI", "timeZoneId": "America/Chicago", "divisionRules": {"carbon": {"cutoffTime": "4pm"}}}
	]}`
	rec := do(t, h, http.MethodPut, "/cutoff-rules", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodGet, "/cutoff-rules/DET", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCutoffRules_PathMismatch(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodPut, "/cutoff-rules/CHI", detroitRuleJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCutoffRules_RejectsUnknownFields(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodPut, "/cutoff-rules/DET", `{"locationId": "DET", "cutoff": "15:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCutoffStatus(t *testing.T) {
	h := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/cutoff-rules/DET", detroitRuleJSON).Code)

	rec := do(t, h, http.MethodGet, "/cutoff-status/DET?division=Carbon", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.CutoffStatusResponse](t, rec)
	assert.Equal(t, "GREEN", res.Indicator)
	assert.Equal(t, "carbon", res.Division)
	assert.Equal(t, "Carbon Steel", res.DivisionLabel)
	require.NotNil(t, res.MinutesRemaining)
	assert.Equal(t, 90, *res.MinutesRemaining)
	assert.Equal(t, "2026-10-14", res.LocalDate)
}

func TestCutoffStatus_NoRulesIsYellow(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/cutoff-status/DET?division=carbon", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.CutoffStatusResponse](t, rec)
	assert.Equal(t, "YELLOW", res.Indicator)
	assert.False(t, res.RuleFound)
	assert.Nil(t, res.MinutesRemaining)
}

func TestCutoffStatus_BadDivision(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/cutoff-status/DET?division=copper", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCutoffStatusStream(t *testing.T) {
	h := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/cutoff-rules/DET", detroitRuleJSON).Code)

	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/cutoff-status/DET/stream?division=carbon", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)
	require.True(t, sc.Scan())
	assert.Equal(t, "event: cutoff", sc.Text())
	require.True(t, sc.Scan())
	data, ok := strings.CutPrefix(sc.Text(), "data: ")
	require.True(t, ok, sc.Text())

	var ev dto.CutoffStatusResponse
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	assert.Equal(t, "GREEN", ev.Indicator)
	assert.Equal(t, "DET", ev.LocationID)
}

func TestRankings(t *testing.T) {
	h := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/cutoff-rules/DET", detroitRuleJSON).Code)

	body := `{
		"division": "carbon",
		"requiredOps": ["saw"],
		"destinationCoordinate": {"lat": 42.62, "lon": -83.05},
		"at": "2026-10-14T18:00:00Z"
	}`
	rec := do(t, h, http.MethodPost, "/rankings", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.RankBranchesResponse](t, rec)
	require.Len(t, res.Suggestions, 2)

	top := res.Suggestions[0]
	assert.Equal(t, "DET", top.LocationID)
	assert.Equal(t, 1, top.Rank)
	assert.True(t, top.IsRecommended)
	assert.Equal(t, "GREEN", top.Cutoff.Indicator)
	assert.Equal(t, "Local", top.DistanceLabel)
	require.Len(t, top.Reasons, 4)
	for _, r := range top.Reasons {
		assert.NotEmpty(t, r.Title)
		assert.NotEmpty(t, r.Label)
	}

	// Chicago has no rules yet.
	assert.Equal(t, "YELLOW", res.Suggestions[1].Cutoff.Indicator)
	assert.False(t, res.Suggestions[1].IsRecommended)
}

func TestRankings_ExcludeCurrentLocation(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodPost, "/rankings", `{"division": "carbon", "excludeLocationId": "DET"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.RankBranchesResponse](t, rec)
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, "CHI", res.Suggestions[0].LocationID)
	assert.Nil(t, res.Suggestions[0].DistanceMiles)
}

func TestRankings_BadRequests(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"unknown division", `{"division": "copper"}`},
		{"bad coordinate", `{"division": "carbon", "destinationCoordinate": {"lat": 120, "lon": 0}}`},
		{"unknown field", `{"division": "carbon", "priority": 1}`},
		{"not json", `division=carbon`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/rankings", tt.body).Code)
		})
	}
}

func TestRankings_MethodNotAllowed(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/rankings", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestBranches(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/branches", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.ListBranchesResponse](t, rec)
	require.Len(t, res.Branches, 2)
	assert.Equal(t, "DET", res.Branches[0].LocationID)
	require.NotNil(t, res.Branches[0].Coordinate)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)
	_ = do(t, h, http.MethodPost, "/rankings", `{"division": "carbon"}`)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fulfillment_ranking_runs_total")
}
