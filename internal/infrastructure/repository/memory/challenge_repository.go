package memory

import (
	"context"
	"sync"
	"time"

	"github.com/melechlapson/CastNCatch/internal/domain/challenge"
)

type challengeKey struct {
	ns challenge.Namespace
	id string
}

type ChallengeRepository struct {
	mu     sync.RWMutex
	items  map[challengeKey]challenge.Challenge
	orders []challengeKey
}

func NewChallengeRepository() *ChallengeRepository {
	return &ChallengeRepository{
		items: make(map[challengeKey]challenge.Challenge),
	}
}

func (r *ChallengeRepository) Create(_ context.Context, item challenge.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := challengeKey{ns: item.Namespace, id: item.ID}
	if _, ok := r.items[key]; !ok {
		r.orders = append(r.orders, key)
	}
	r.items[key] = item

	return nil
}

func (r *ChallengeRepository) GetByID(_ context.Context, ns challenge.Namespace, challengeID string) (challenge.Challenge, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[challengeKey{ns: ns, id: challengeID}]
	if !ok {
		return challenge.Challenge{}, false, nil
	}

	return item, true, nil
}

func (r *ChallengeRepository) ListActive(_ context.Context, ns challenge.Namespace, now time.Time) ([]challenge.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]challenge.Challenge, 0)
	for _, key := range r.orders {
		if key.ns != ns {
			continue
		}
		item := r.items[key]
		if !item.Expired(now) {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *ChallengeRepository) ListIncomplete(_ context.Context, ns challenge.Namespace) ([]challenge.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]challenge.Challenge, 0)
	for _, key := range r.orders {
		if key.ns != ns {
			continue
		}
		item := r.items[key]
		if !item.Completed {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *ChallengeRepository) MarkCompleted(_ context.Context, ns challenge.Namespace, challengeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := challengeKey{ns: ns, id: challengeID}
	item, ok := r.items[key]
	if !ok {
		return nil
	}
	item.Completed = true
	r.items[key] = item

	return nil
}
