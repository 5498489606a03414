package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/melechlapson/CastNCatch/internal/domain/stats"
)

type StatsRepository struct {
	mu    sync.RWMutex
	items map[string]stats.UserStats
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{
		items: make(map[string]stats.UserStats),
	}
}

func (r *StatsRepository) Get(_ context.Context, userID string) (stats.UserStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[userID]
	if !ok {
		return stats.UserStats{}, false, nil
	}

	return cloneStats(item), true, nil
}

func (r *StatsRepository) Save(_ context.Context, item stats.UserStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.UserID] = cloneStats(item)

	return nil
}

func (r *StatsRepository) ListTopByOunces(_ context.Context, limit int) ([]stats.UserStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.UserStats, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneStats(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalOunces != out[j].TotalOunces {
			return out[i].TotalOunces > out[j].TotalOunces
		}
		return out[i].UserID < out[j].UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func cloneStats(item stats.UserStats) stats.UserStats {
	if item.CatchesByFish != nil {
		copied := make(map[string]stats.FishTally, len(item.CatchesByFish))
		for name, tally := range item.CatchesByFish {
			copied[name] = tally
		}
		item.CatchesByFish = copied
	}
	return item
}
