package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/melechlapson/CastNCatch/internal/domain/social"
)

type requestKey struct {
	recipientID string
	senderID    string
}

type FriendRequestRepository struct {
	mu    sync.RWMutex
	items map[requestKey]social.FriendRequest
}

func NewFriendRequestRepository() *FriendRequestRepository {
	return &FriendRequestRepository{
		items: make(map[requestKey]social.FriendRequest),
	}
}

func (r *FriendRequestRepository) Get(_ context.Context, recipientID, senderID string) (social.FriendRequest, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[requestKey{recipientID: recipientID, senderID: senderID}]
	if !ok {
		return social.FriendRequest{}, false, nil
	}

	return item, true, nil
}

func (r *FriendRequestRepository) Upsert(_ context.Context, item social.FriendRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[requestKey{recipientID: item.RecipientID, senderID: item.SenderID}] = item

	return nil
}

func (r *FriendRequestRepository) ListByRecipient(_ context.Context, recipientID string) ([]social.FriendRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]social.FriendRequest, 0)
	for key, item := range r.items {
		if key.recipientID == recipientID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return out, nil
}

func (r *FriendRequestRepository) Dismiss(_ context.Context, recipientID, senderID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := requestKey{recipientID: recipientID, senderID: senderID}
	item, ok := r.items[key]
	if !ok {
		return false, nil
	}
	item.Dismissed = true
	r.items[key] = item

	return true, nil
}

type FriendRepository struct {
	mu      sync.RWMutex
	friends map[string][]string
}

func NewFriendRepository() *FriendRepository {
	return &FriendRepository{
		friends: make(map[string][]string),
	}
}

func (r *FriendRepository) ListFriends(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.friends[userID]...), nil
}

func (r *FriendRepository) AddFriend(_ context.Context, userID, friendID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.friends[userID] {
		if existing == friendID {
			return false, nil
		}
	}
	r.friends[userID] = append(r.friends[userID], friendID)

	return true, nil
}
