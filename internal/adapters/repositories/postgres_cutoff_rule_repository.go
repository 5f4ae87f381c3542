package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fulfillment-cutoff-service/internal/domain"
	"fulfillment-cutoff-service/internal/platform/obs"
)

// Postgres-backed implementation of the CutoffRuleStore port.
// Division rules and blackout windows are stored as jsonb.
type PostgresCutoffRuleRepository struct {
	DB *sql.DB
}

func NewPostgresCutoffRuleRepository(db *sql.DB) *PostgresCutoffRuleRepository {
	return &PostgresCutoffRuleRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRuleSet(row rowScanner) (*domain.LocationCutoffRuleSet, error) {
	var (
		doc           RuleSetDoc
		rulesJSON     []byte
		blackoutsJSON []byte
	)
	if err := row.Scan(&doc.LocationID, &doc.TimeZoneID, &rulesJSON, &blackoutsJSON, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rulesJSON, &doc.DivisionRules); err != nil {
		return nil, fmt.Errorf("decode division_rules for %q: %w", doc.LocationID, err)
	}
	if err := json.Unmarshal(blackoutsJSON, &doc.BlackoutWindows); err != nil {
		return nil, fmt.Errorf("decode blackout_windows for %q: %w", doc.LocationID, err)
	}
	return RuleSetFromDoc(doc)
}

func (r *PostgresCutoffRuleRepository) GetRuleSet(
	ctx context.Context,
	locationID string,
) (_ *domain.LocationCutoffRuleSet, err error) {
	defer obs.Time(ctx, "rules.postgres.GetRuleSet")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres rule repository: DB is nil")
	}

	q := `
	SELECT location_id, time_zone_id, division_rules, blackout_windows, updated_at
	FROM cutoff_rule_sets
	WHERE location_id = $1;
	`
	rs, err := scanRuleSet(r.DB.QueryRowContext(ctx, q, locationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get rule set: location %q: %w", locationID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get rule set: location %q: %w", locationID, err)
	}

	return rs, nil
}

func (r *PostgresCutoffRuleRepository) ListRuleSets(ctx context.Context) (_ []*domain.LocationCutoffRuleSet, err error) {
	defer obs.Time(ctx, "rules.postgres.ListRuleSets")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres rule repository: DB is nil")
	}

	q := `
	SELECT location_id, time_zone_id, division_rules, blackout_windows, updated_at
	FROM cutoff_rule_sets
	ORDER BY location_id;
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list rule sets: query cutoff_rule_sets table: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.LocationCutoffRuleSet, 0, 16)
	for rows.Next() {
		rs, err := scanRuleSet(rows)
		if err != nil {
			return nil, fmt.Errorf("list rule sets: scan row: %w", err)
		}
		out = append(out, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rule sets: row iteration: %w", err)
	}

	return out, nil
}

func (r *PostgresCutoffRuleRepository) PutRuleSet(ctx context.Context, rs *domain.LocationCutoffRuleSet) error {
	return r.PutAll(ctx, []*domain.LocationCutoffRuleSet{rs})
}

// PutAll upserts every rule set in one transaction; last write wins.
func (r *PostgresCutoffRuleRepository) PutAll(ctx context.Context, sets []*domain.LocationCutoffRuleSet) (err error) {
	defer obs.Time(ctx, "rules.postgres.PutAll")(&err)

	if r.DB == nil {
		return errors.New("postgres rule repository: DB is nil")
	}

	if len(sets) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put rule sets: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO cutoff_rule_sets (location_id, time_zone_id, division_rules, blackout_windows, updated_at)
	VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (location_id) DO UPDATE
	SET time_zone_id = EXCLUDED.time_zone_id,
		division_rules = EXCLUDED.division_rules,
		blackout_windows = EXCLUDED.blackout_windows,
		updated_at = EXCLUDED.updated_at;
	`)
	if err != nil {
		return fmt.Errorf("put rule sets: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, rs := range sets {
		doc := RuleSetToDoc(rs)

		rulesJSON, err := json.Marshal(doc.DivisionRules)
		if err != nil {
			return fmt.Errorf("put rule sets: encode division rules for %q: %w", rs.LocationID, err)
		}
		blackoutsJSON, err := json.Marshal(doc.BlackoutWindows)
		if err != nil {
			return fmt.Errorf("put rule sets: encode blackout windows for %q: %w", rs.LocationID, err)
		}

		if _, err := stmt.ExecContext(ctx, rs.LocationID, rs.TimeZoneID, string(rulesJSON), string(blackoutsJSON)); err != nil {
			return fmt.Errorf("put rule sets: location_id=%q: %w", rs.LocationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put rule sets: commit: %w", err)
	}

	return nil
}
