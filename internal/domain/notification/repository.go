package notification

import "context"

type Repository interface {
	Insert(ctx context.Context, item Notification) error
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	// Delete removes a notification and reports whether it existed.
	Delete(ctx context.Context, userID, notificationID string) (bool, error)
}

// DeviceTokenRepository stores push targets per user, oldest first.
type DeviceTokenRepository interface {
	ListByUser(ctx context.Context, userID string) ([]string, error)
	Replace(ctx context.Context, userID string, tokens []string) error
}
