package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"fulfillment-cutoff-service/internal/domain"
)

type branchSeed struct {
	LocationID   string   `json:"locationId"`
	Name         string   `json:"name"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	Capabilities []string `json:"capabilities"`
}

type inventorySeed struct {
	LocationID   string  `json:"locationId"`
	Division     string  `json:"division"`
	OnHandQty    float64 `json:"onHandQty"`
	OnHandWeight float64 `json:"onHandWeight"`
}

type seedFile struct {
	RuleSets  []RuleSetDoc    `json:"ruleSets"`
	Branches  []branchSeed    `json:"branches"`
	Inventory []inventorySeed `json:"inventory"`
}

// InventoryRow is one seeded branch/division snapshot.
type InventoryRow struct {
	LocationID string
	Division   domain.Division
	Snapshot   domain.InventorySnapshot
}

// Seed is a validated seed file.
type Seed struct {
	RuleSets  []*domain.LocationCutoffRuleSet
	Branches  []domain.Branch
	Inventory []InventoryRow
}

// Read and validate seed data from a JSON file. Rule sets go through the
// same validation as admin writes.
func LoadSeed(jsonPath string) (*Seed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", jsonPath, err)
	}

	var data seedFile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load seed: parse json: %w", err)
	}

	seed := &Seed{}

	for i, doc := range data.RuleSets {
		rs, err := RuleSetFromDoc(doc)
		if err != nil {
			return nil, fmt.Errorf("load seed: rule set at index %d: %w", i, err)
		}
		if err := rs.Validate(); err != nil {
			return nil, fmt.Errorf("load seed: rule set at index %d: %w", i, err)
		}
		seed.RuleSets = append(seed.RuleSets, rs)
	}

	for i, b := range data.Branches {
		id := strings.TrimSpace(b.LocationID)
		if id == "" {
			return nil, fmt.Errorf("load seed: branch at index %d: locationId cannot be empty", i)
		}
		branch := domain.Branch{LocationID: id, Name: b.Name, Capabilities: b.Capabilities}
		if b.Lat != nil && b.Lon != nil {
			branch.Coordinates = &domain.Coordinates{Lon: *b.Lon, Lat: *b.Lat}
		}
		seed.Branches = append(seed.Branches, branch)
	}

	for i, inv := range data.Inventory {
		div, err := domain.ParseDivision(inv.Division)
		if err != nil {
			return nil, fmt.Errorf("load seed: inventory at index %d: %w", i, err)
		}
		seed.Inventory = append(seed.Inventory, InventoryRow{
			LocationID: strings.TrimSpace(inv.LocationID),
			Division:   div,
			Snapshot:   domain.InventorySnapshot{OnHandQty: inv.OnHandQty, OnHandWeight: inv.OnHandWeight},
		})
	}

	return seed, nil
}
