package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fulfillment-cutoff-service/internal/adapters/cache"
	"fulfillment-cutoff-service/internal/adapters/inventory"
	"fulfillment-cutoff-service/internal/adapters/memory"
	"fulfillment-cutoff-service/internal/adapters/repositories"
	"fulfillment-cutoff-service/internal/adapters/resilience"
	"fulfillment-cutoff-service/internal/api"
	"fulfillment-cutoff-service/internal/config"
	"fulfillment-cutoff-service/internal/platform/db"
	"fulfillment-cutoff-service/internal/ports"
	"fulfillment-cutoff-service/internal/services"

	"github.com/joho/godotenv"
)

// stores groups the port implementations chosen at startup.
type stores struct {
	rules     ports.CutoffRuleStore
	branches  ports.BranchDirectory
	inventory ports.InventorySource
	closeFns  []func() error
}

// main is the application composition root.
// It wires concrete adapters (Postgres or in-memory, Redis, inventory API)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		for _, fn := range st.closeFns {
			_ = fn()
		}
	}()

	ranker := services.NewRankingService(st.branches, st.rules, st.inventory, cfg.Scoring.ScoringConfig(), cfg.FetchTimeout)
	monitor := services.NewCutoffMonitor(st.rules, cfg.RefreshInterval)

	router := api.NewRouter(api.Dependencies{
		Rules:    st.rules,
		Branches: st.branches,
		Ranker:   ranker,
		Monitor:  monitor,
	})

	// WriteTimeout does not apply to the cutoff stream, which clears its own deadline.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	st := &stores{}

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st.closeFns = append(st.closeFns, conn.Close)

		branchRepo := repositories.NewPostgresBranchRepository(conn)
		st.rules = repositories.NewPostgresCutoffRuleRepository(conn)
		st.branches = branchRepo
		st.inventory = branchRepo
	} else {
		log.Printf("DATABASE_URL not set; using in-memory stores seeded from %s", cfg.SeedPath)
		if err := seedMemory(st, cfg.SeedPath); err != nil {
			return nil, err
		}
	}

	if cfg.InventoryAPIURL != "" {
		src, err := inventory.NewHTTPInventorySource(cfg.InventoryAPIURL, cfg.InventoryAPIKey)
		if err != nil {
			return nil, fmt.Errorf("open stores: %w", err)
		}
		st.inventory = src
	}
	st.inventory = resilience.NewBreakerInventorySource(st.inventory, resilience.DefaultBreakerConfig("inventory"))

	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open stores: %w", err)
		}
		st.closeFns = append(st.closeFns, client.Close)
		st.rules = cache.NewRedisRuleSetCache(st.rules, client, cfg.RuleCacheTTL)
	}

	return st, nil
}

func seedMemory(st *stores, seedPath string) error {
	seed, err := repositories.LoadSeed(seedPath)
	if err != nil {
		return fmt.Errorf("seed memory stores: %w", err)
	}

	inv := memory.NewInventorySource()
	for _, row := range seed.Inventory {
		inv.Set(row.LocationID, row.Division, row.Snapshot)
	}

	st.rules = memory.NewCutoffRuleStore(seed.RuleSets...)
	st.branches = &memory.BranchDirectory{Branches: seed.Branches}
	st.inventory = inv

	return nil
}

