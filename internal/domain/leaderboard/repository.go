package leaderboard

import "context"

type Repository interface {
	// Replace swaps the published leaderboard for the given entries.
	Replace(ctx context.Context, entries []Entry) error
	List(ctx context.Context) ([]Entry, error)
}
