package memory

import (
	"context"
	"sync"

	"github.com/melechlapson/CastNCatch/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items []notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Insert(_ context.Context, item notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, item)

	return nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID string) ([]notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notification.Notification, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *NotificationRepository) Delete(_ context.Context, userID, notificationID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.UserID == userID && item.ID == notificationID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, nil
		}
	}

	return false, nil
}

type DeviceTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string][]string
}

func NewDeviceTokenRepository() *DeviceTokenRepository {
	return &DeviceTokenRepository{
		tokens: make(map[string][]string),
	}
}

func (r *DeviceTokenRepository) ListByUser(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.tokens[userID]...), nil
}

func (r *DeviceTokenRepository) Replace(_ context.Context, userID string, tokens []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[userID] = append([]string(nil), tokens...)

	return nil
}
