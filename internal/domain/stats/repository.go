package stats

import "context"

type Repository interface {
	Get(ctx context.Context, userID string) (UserStats, bool, error)
	Save(ctx context.Context, item UserStats) error
	// ListTopByOunces returns up to limit stats rows ordered by total ounces
	// descending.
	ListTopByOunces(ctx context.Context, limit int) ([]UserStats, error)
}
