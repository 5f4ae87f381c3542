package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRuleSetsQuery := `
	CREATE TABLE IF NOT EXISTS cutoff_rule_sets (
		location_id TEXT PRIMARY KEY,
		time_zone_id TEXT NOT NULL,
		division_rules JSONB NOT NULL DEFAULT '{}'::jsonb,
		blackout_windows JSONB NOT NULL DEFAULT '[]'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createBranchesQuery := `
	CREATE TABLE IF NOT EXISTS branches (
		location_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lon DOUBLE PRECISION,
		lat DOUBLE PRECISION,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);
	`

	createCapabilitiesQuery := `
	CREATE TABLE IF NOT EXISTS branch_capabilities (
		location_id TEXT NOT NULL REFERENCES branches(location_id) ON DELETE CASCADE,
		operation TEXT NOT NULL,
		PRIMARY KEY (location_id, operation)
	);
	`

	createInventoryQuery := `
	CREATE TABLE IF NOT EXISTS inventory_snapshots (
		location_id TEXT NOT NULL,
		division TEXT NOT NULL,
		on_hand_qty DOUBLE PRECISION NOT NULL DEFAULT 0,
		on_hand_weight DOUBLE PRECISION NOT NULL DEFAULT 0,
		captured_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (location_id, division)
	);
	`

	statements := []string{
		createRuleSetsQuery,
		createBranchesQuery,
		createCapabilitiesQuery,
		createInventoryQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Write a loaded seed into Postgres. Rule sets are upserted through the
// repository; branches, capabilities and inventory are replaced per branch.
func SeedPostgres(ctx context.Context, db *sql.DB, seed *Seed) error {
	if err := NewPostgresCutoffRuleRepository(db).PutAll(ctx, seed.RuleSets); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, b := range seed.Branches {
		var lon, lat sql.NullFloat64
		if b.Coordinates != nil {
			lon = sql.NullFloat64{Float64: b.Coordinates.Lon, Valid: true}
			lat = sql.NullFloat64{Float64: b.Coordinates.Lat, Valid: true}
		}

		if _, err := tx.ExecContext(ctx, `
		INSERT INTO branches (location_id, name, lon, lat)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (location_id) DO UPDATE
		SET name = EXCLUDED.name, lon = EXCLUDED.lon, lat = EXCLUDED.lat, active = TRUE;
		`, b.LocationID, b.Name, lon, lat); err != nil {
			return fmt.Errorf("seed: insert branch %q: %w", b.LocationID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM branch_capabilities WHERE location_id = $1;`, b.LocationID); err != nil {
			return fmt.Errorf("seed: clear capabilities for %q: %w", b.LocationID, err)
		}
		for _, op := range b.Capabilities {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO branch_capabilities (location_id, operation)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING;
			`, b.LocationID, op); err != nil {
				return fmt.Errorf("seed: insert capability %q for %q: %w", op, b.LocationID, err)
			}
		}
	}

	for _, inv := range seed.Inventory {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO inventory_snapshots (location_id, division, on_hand_qty, on_hand_weight, captured_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (location_id, division) DO UPDATE
		SET on_hand_qty = EXCLUDED.on_hand_qty,
			on_hand_weight = EXCLUDED.on_hand_weight,
			captured_at = EXCLUDED.captured_at;
		`, inv.LocationID, string(inv.Division), inv.Snapshot.OnHandQty, inv.Snapshot.OnHandWeight); err != nil {
			return fmt.Errorf("seed: insert inventory %s/%s: %w", inv.LocationID, inv.Division, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
