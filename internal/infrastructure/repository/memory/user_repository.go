package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/melechlapson/CastNCatch/internal/domain/user"
)

type UserRepository struct {
	mu     sync.RWMutex
	items  map[string]user.User
	orders []string
}

func NewUserRepository(users []user.User) *UserRepository {
	items := make(map[string]user.User, len(users))
	orders := make([]string, 0, len(users))

	for _, u := range users {
		if u.SearchName == "" {
			u.SearchName = strings.ToLower(u.DisplayName)
		}
		items[u.ID] = u
		orders = append(orders, u.ID)
	}

	return &UserRepository{
		items:  items,
		orders: orders,
	}
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[userID]
	if !ok {
		return user.User{}, false, nil
	}

	return u, true, nil
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *UserRepository) SearchByNamePrefix(_ context.Context, prefix string, limit int) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]user.User, 0)
	for _, id := range r.orders {
		u := r.items[id]
		if strings.HasPrefix(u.SearchName, prefix) {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].SearchName < matched[j].SearchName })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

func (r *UserRepository) AddCoins(_ context.Context, userID string, delta int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[userID]
	if !ok {
		return 0, false, errors.New("user not found")
	}

	next := u.Coins + delta
	clamped := false
	if next < 0 {
		next = 0
		clamped = true
	}
	u.Coins = next
	r.items[userID] = u

	return next, clamped, nil
}

func (r *UserRepository) PurchaseLootBox(_ context.Context, userID string, price int) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[userID]
	if !ok {
		return user.User{}, false, errors.New("user not found")
	}
	if u.Coins < price {
		return u, false, nil
	}

	u.Coins -= price
	u.LootBoxes++
	r.items[userID] = u

	return u, true, nil
}

func (r *UserRepository) ConsumeLootBox(_ context.Context, userID string) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[userID]
	if !ok {
		return 0, false, errors.New("user not found")
	}
	if u.LootBoxes <= 0 {
		return 0, false, nil
	}

	u.LootBoxes--
	r.items[userID] = u

	return u.LootBoxes, true, nil
}
