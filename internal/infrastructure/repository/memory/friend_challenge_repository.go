package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/melechlapson/CastNCatch/internal/domain/friendchallenge"
)

type FriendChallengeRepository struct {
	mu     sync.RWMutex
	items  map[string]friendchallenge.FriendChallenge
	orders []string
}

func NewFriendChallengeRepository() *FriendChallengeRepository {
	return &FriendChallengeRepository{
		items: make(map[string]friendchallenge.FriendChallenge),
	}
}

func (r *FriendChallengeRepository) Create(_ context.Context, item friendchallenge.FriendChallenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = cloneFriendChallenge(item)

	return nil
}

func (r *FriendChallengeRepository) GetByID(_ context.Context, challengeID string) (friendchallenge.FriendChallenge, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[challengeID]
	if !ok {
		return friendchallenge.FriendChallenge{}, false, nil
	}

	return cloneFriendChallenge(item), true, nil
}

func (r *FriendChallengeRepository) HasActive(_ context.Context, challengerID, recipientID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.orders {
		item := r.items[id]
		if item.Challenger == challengerID && item.Recipient == recipientID && !item.Completed {
			return true, nil
		}
	}

	return false, nil
}

func (r *FriendChallengeRepository) ListActiveByChallenger(_ context.Context, userID string) ([]friendchallenge.FriendChallenge, error) {
	return r.listActive(func(item friendchallenge.FriendChallenge) bool {
		return item.Challenger == userID
	})
}

func (r *FriendChallengeRepository) ListActiveByRecipient(_ context.Context, userID string) ([]friendchallenge.FriendChallenge, error) {
	return r.listActive(func(item friendchallenge.FriendChallenge) bool {
		return item.Recipient == userID
	})
}

func (r *FriendChallengeRepository) listActive(match func(friendchallenge.FriendChallenge) bool) ([]friendchallenge.FriendChallenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]friendchallenge.FriendChallenge, 0)
	for _, id := range r.orders {
		item := r.items[id]
		if !item.Completed && match(item) {
			out = append(out, cloneFriendChallenge(item))
		}
	}

	return out, nil
}

func (r *FriendChallengeRepository) SetAccepted(_ context.Context, challengeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[challengeID]
	if !ok {
		return errors.New("friend challenge not found")
	}
	item.Accepted = true
	r.items[challengeID] = item

	return nil
}

func (r *FriendChallengeRepository) AppendScore(_ context.Context, challengeID string, score friendchallenge.Score, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[challengeID]
	if !ok {
		return errors.New("friend challenge not found")
	}
	item.Scores = append(item.Scores, score)
	item.Completed = completed
	r.items[challengeID] = item

	return nil
}

func (r *FriendChallengeRepository) Delete(_ context.Context, challengeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[challengeID]; !ok {
		return nil
	}
	delete(r.items, challengeID)
	for i, id := range r.orders {
		if id == challengeID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}

	return nil
}

// cloneFriendChallenge copies the scores slice so callers never share the
// stored backing array.
func cloneFriendChallenge(item friendchallenge.FriendChallenge) friendchallenge.FriendChallenge {
	item.Scores = append([]friendchallenge.Score(nil), item.Scores...)
	return item
}
