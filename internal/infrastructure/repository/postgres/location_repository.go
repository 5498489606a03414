package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type LocationRepository struct {
	db *sqlx.DB
}

func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) ListKeys(ctx context.Context) ([]string, error) {
	const query = `SELECT key FROM locations ORDER BY position`

	var keys []string
	if err := r.db.SelectContext(ctx, &keys, query); err != nil {
		return nil, fmt.Errorf("select location keys: %w", err)
	}

	return keys, nil
}
