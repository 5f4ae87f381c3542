package api

import (
	"net/http"

	"fulfillment-cutoff-service/internal/api/handlers"
	"fulfillment-cutoff-service/internal/platform/metrics"
	"fulfillment-cutoff-service/internal/ports"
	"fulfillment-cutoff-service/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the ports and services the HTTP layer is built from.
type Dependencies struct {
	Rules    ports.CutoffRuleStore
	Branches ports.BranchDirectory
	Ranker   handlers.Ranker
	Monitor  *services.CutoffMonitor
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	rulesHandler := &handlers.CutoffRulesHandler{Store: deps.Rules}
	statusHandler := &handlers.CutoffStatusHandler{Monitor: deps.Monitor}
	rankingHandler := &handlers.RankingHandler{Ranker: deps.Ranker}
	branchHandler := &handlers.BranchHandler{Directory: deps.Branches}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/branches", branchHandler.List)
	mux.HandleFunc("/cutoff-rules", rulesHandler.Collection)
	mux.HandleFunc("/cutoff-rules/{locationID}", rulesHandler.Item)
	mux.HandleFunc("/cutoff-status/{locationID}", statusHandler.Status)
	mux.HandleFunc("/cutoff-status/{locationID}/stream", statusHandler.Stream)
	mux.HandleFunc("/rankings", rankingHandler.Rank)

	return requestIDMiddleware(loggingMiddleware(mux))
}
