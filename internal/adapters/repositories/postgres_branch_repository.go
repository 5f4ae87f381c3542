package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fulfillment-cutoff-service/internal/domain"
	"fulfillment-cutoff-service/internal/platform/obs"

	"github.com/jackc/pgx/v5/pgtype"
)

// Postgres-backed BranchDirectory and InventorySource.
type PostgresBranchRepository struct {
	DB *sql.DB
}

func NewPostgresBranchRepository(db *sql.DB) *PostgresBranchRepository {
	return &PostgresBranchRepository{DB: db}
}

// Return active branches with their capabilities, ordered by location id.
func (r *PostgresBranchRepository) ListBranches(ctx context.Context) (_ []domain.Branch, err error) {
	defer obs.Time(ctx, "branches.postgres.ListBranches")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres branch repository: DB is nil")
	}

	q := `
	SELECT
		b.location_id,
		b.name,
		b.lon,
		b.lat,
		COALESCE(array_agg(c.operation ORDER BY c.operation) FILTER (WHERE c.operation IS NOT NULL), '{}')
	FROM branches b
	LEFT JOIN branch_capabilities c ON c.location_id = b.location_id
	WHERE b.active
	GROUP BY b.location_id, b.name, b.lon, b.lat
	ORDER BY b.location_id;
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list branches: query branches table: %w", err)
	}
	defer rows.Close()

	// text[] columns need pgx's type map when going through database/sql.
	typeMap := pgtype.NewMap()

	out := make([]domain.Branch, 0, 16)
	for rows.Next() {
		var (
			b        domain.Branch
			lon, lat sql.NullFloat64
			caps     []string
		)
		if err := rows.Scan(&b.LocationID, &b.Name, &lon, &lat, typeMap.SQLScanner(&caps)); err != nil {
			return nil, fmt.Errorf("list branches: scan row: %w", err)
		}
		if lon.Valid && lat.Valid {
			b.Coordinates = &domain.Coordinates{Lon: lon.Float64, Lat: lat.Float64}
		}
		b.Capabilities = caps
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list branches: row iteration: %w", err)
	}

	return out, nil
}

// Return the latest snapshot for a branch/division; absent rows are a zero snapshot.
func (r *PostgresBranchRepository) GetInventory(
	ctx context.Context,
	locationID string,
	division domain.Division,
) (_ domain.InventorySnapshot, err error) {
	defer obs.Time(ctx, "inventory.postgres.GetInventory")(&err)

	if r.DB == nil {
		return domain.InventorySnapshot{}, errors.New("postgres branch repository: DB is nil")
	}

	q := `
	SELECT on_hand_qty, on_hand_weight
	FROM inventory_snapshots
	WHERE location_id = $1 AND division = $2;
	`
	var snap domain.InventorySnapshot
	err = r.DB.QueryRowContext(ctx, q, locationID, string(division)).Scan(&snap.OnHandQty, &snap.OnHandWeight)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InventorySnapshot{}, nil
	}
	if err != nil {
		return domain.InventorySnapshot{}, fmt.Errorf("get inventory: location %q division %q: %w", locationID, division, err)
	}

	return snap, nil
}
