package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bianca-8/reload-rage/internal/model"
)

// statsRepository implements StatsRepository over the singleton global_stats row
type statsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new global stats repository
func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) IncrementAnonymousViews(ctx context.Context) error {
	query := `UPDATE global_stats SET anonymous_views = anonymous_views + 1 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, model.GlobalStatsID)
	if err != nil {
		return fmt.Errorf("failed to increment anonymous views: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		// Bootstrap guarantees the row, so this means the schema was wiped
		// out from under us.
		return fmt.Errorf("global_stats row %d is missing", model.GlobalStatsID)
	}
	return nil
}

func (r *statsRepository) AnonymousViews(ctx context.Context) (int64, error) {
	query := `SELECT anonymous_views FROM global_stats WHERE id = $1`

	var views int64
	err := r.db.GetContext(ctx, &views, query, model.GlobalStatsID)
	if err != nil {
		return 0, fmt.Errorf("failed to get anonymous views: %w", err)
	}

	return views, nil
}
