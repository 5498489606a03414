package memory

import (
	"context"
	"sync"

	"github.com/melechlapson/CastNCatch/internal/domain/leaderboard"
)

type LeaderboardRepository struct {
	mu      sync.RWMutex
	entries []leaderboard.Entry
}

func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{}
}

func (r *LeaderboardRepository) Replace(_ context.Context, entries []leaderboard.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append([]leaderboard.Entry(nil), entries...)

	return nil
}

func (r *LeaderboardRepository) List(_ context.Context) ([]leaderboard.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]leaderboard.Entry(nil), r.entries...), nil
}
