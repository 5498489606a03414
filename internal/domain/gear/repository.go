package gear

import "context"

type Repository interface {
	ListItems(ctx context.Context) ([]Item, error)
	ListUnlocked(ctx context.Context, userID string) ([]string, error)
	Unlock(ctx context.Context, item Unlock) error
	SetEquipped(ctx context.Context, userID, itemID string, equipped bool) (bool, error)
}
