package memory

import (
	"context"
	"sync"

	"github.com/melechlapson/CastNCatch/internal/domain/gear"
)

type GearRepository struct {
	mu       sync.RWMutex
	catalog  []gear.Item
	unlocked map[string][]gear.Unlock
}

func NewGearRepository(catalog []gear.Item) *GearRepository {
	return &GearRepository{
		catalog:  append([]gear.Item(nil), catalog...),
		unlocked: make(map[string][]gear.Unlock),
	}
}

func (r *GearRepository) ListItems(_ context.Context) ([]gear.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]gear.Item(nil), r.catalog...), nil
}

func (r *GearRepository) ListUnlocked(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.unlocked[userID]))
	for _, u := range r.unlocked[userID] {
		out = append(out, u.ItemID)
	}

	return out, nil
}

func (r *GearRepository) Unlock(_ context.Context, item gear.Unlock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.unlocked[item.UserID] {
		if existing.ItemID == item.ItemID {
			return nil
		}
	}
	r.unlocked[item.UserID] = append(r.unlocked[item.UserID], item)

	return nil
}

func (r *GearRepository) SetEquipped(_ context.Context, userID, itemID string, equipped bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.unlocked[userID]
	for i := range rows {
		if rows[i].ItemID == itemID {
			rows[i].IsEquipped = equipped
			return true, nil
		}
	}

	return false, nil
}
