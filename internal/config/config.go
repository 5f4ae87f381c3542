package config

import (
	"fmt"
	"os"
	"time"

	"fulfillment-cutoff-service/internal/services"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration, read from the environment after
// .env has been loaded.
type Config struct {
	Port            string        `env:"PORT"                    envDefault:"8080"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	SeedPath        string        `env:"SEED_PATH"               envDefault:"data/seeds/network.json"`
	RedisURL        string        `env:"REDIS_URL"`
	RuleCacheTTL    time.Duration `env:"RULE_CACHE_TTL"          envDefault:"5m"`
	InventoryAPIURL string        `env:"INVENTORY_API_URL"`
	InventoryAPIKey string        `env:"INVENTORY_API_KEY"`
	FetchTimeout    time.Duration `env:"CANDIDATE_FETCH_TIMEOUT" envDefault:"2s"`
	RefreshInterval time.Duration `env:"CUTOFF_REFRESH_INTERVAL" envDefault:"30s"`

	Scoring Scoring
}

// Scoring mirrors services.ScoringConfig with environment overrides.
type Scoring struct {
	InventoryWeight         float64 `env:"SCORE_WEIGHT_INVENTORY"          envDefault:"30"`
	CutoffWeight            float64 `env:"SCORE_WEIGHT_CUTOFF"             envDefault:"30"`
	ProcessingWeight        float64 `env:"SCORE_WEIGHT_PROCESSING"         envDefault:"25"`
	DistanceWeight          float64 `env:"SCORE_WEIGHT_DISTANCE"           envDefault:"15"`
	InventorySaturation     float64 `env:"SCORE_INVENTORY_SATURATION"      envDefault:"100"`
	CutoffSaturationMinutes float64 `env:"SCORE_CUTOFF_SATURATION_MINUTES" envDefault:"240"`
	CutoffPassedFloor       float64 `env:"SCORE_CUTOFF_PASSED_FLOOR"       envDefault:"2"`
	DistanceFullMiles       float64 `env:"SCORE_DISTANCE_FULL"             envDefault:"30"`
	DistanceNearMiles       float64 `env:"SCORE_DISTANCE_NEAR"             envDefault:"100"`
	DistanceMidMiles        float64 `env:"SCORE_DISTANCE_MID"              envDefault:"250"`
}

func (s Scoring) ScoringConfig() services.ScoringConfig {
	return services.ScoringConfig{
		InventoryWeight:         s.InventoryWeight,
		CutoffWeight:            s.CutoffWeight,
		ProcessingWeight:        s.ProcessingWeight,
		DistanceWeight:          s.DistanceWeight,
		InventorySaturation:     s.InventorySaturation,
		CutoffSaturationMinutes: s.CutoffSaturationMinutes,
		CutoffPassedFloor:       s.CutoffPassedFloor,
		DistanceFullMiles:       s.DistanceFullMiles,
		DistanceNearMiles:       s.DistanceNearMiles,
		DistanceMidMiles:        s.DistanceMidMiles,
	}
}

// Load parses the environment and validates the scoring parameters.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: parse env: %w", err)
	}

	if err := cfg.Scoring.ScoringConfig().Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.FetchTimeout <= 0 {
		return Config{}, fmt.Errorf("load config: CANDIDATE_FETCH_TIMEOUT must be positive, got %s", cfg.FetchTimeout)
	}
	if cfg.RefreshInterval <= 0 {
		return Config{}, fmt.Errorf("load config: CUTOFF_REFRESH_INTERVAL must be positive, got %s", cfg.RefreshInterval)
	}

	return cfg, nil
}

// Get returns an environment variable or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
