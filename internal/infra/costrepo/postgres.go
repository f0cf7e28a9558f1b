package costrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rehabscope/rehabscope/internal/domain/estimate"
)

// PostgresRepository implements estimate.CostSource using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListActiveBaseCosts fetches every active base cost row.
func (r *PostgresRepository) ListActiveBaseCosts(ctx context.Context) ([]estimate.BaseCost, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, repair_code, category, COALESCE(subcategory, ''), description, unit,
		       base_unit_cost, COALESCE(min_cost, 0), COALESCE(max_cost, 0),
		       COALESCE(typical_quantity_hint, ''), applicable_room_types, rehab_levels
		FROM base_costs
		WHERE is_active = TRUE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var costs []estimate.BaseCost
	for rows.Next() {
		var cost estimate.BaseCost
		if err := rows.Scan(
			&cost.ID,
			&cost.RepairCode,
			&cost.Category,
			&cost.Subcategory,
			&cost.Description,
			&cost.Unit,
			&cost.BaseUnitCost,
			&cost.MinCost,
			&cost.MaxCost,
			&cost.TypicalQuantityHint,
			&cost.ApplicableRoomTypes,
			&cost.RehabLevels,
		); err != nil {
			return nil, err
		}
		costs = append(costs, cost)
	}
	return costs, rows.Err()
}

// FindLocationFactor fetches the factor row for a 3-digit zip prefix.
func (r *PostgresRepository) FindLocationFactor(ctx context.Context, zipPrefix string) (estimate.LocationFactor, bool, error) {
	var factor estimate.LocationFactor
	err := r.pool.QueryRow(ctx, `
		SELECT zip_prefix, COALESCE(city, ''), state, material_factor, labor_factor, combined_factor
		FROM location_factors
		WHERE zip_prefix = $1
	`, zipPrefix).Scan(
		&factor.ZipPrefix,
		&factor.City,
		&factor.State,
		&factor.MaterialFactor,
		&factor.LaborFactor,
		&factor.CombinedFactor,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return estimate.LocationFactor{}, false, nil
	}
	if err != nil {
		return estimate.LocationFactor{}, false, err
	}
	return factor, true, nil
}
