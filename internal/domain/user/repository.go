package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, userID string) (User, bool, error)
	List(ctx context.Context) ([]User, error)
	SearchByNamePrefix(ctx context.Context, prefix string, limit int) ([]User, error)
	// AddCoins applies the delta atomically, flooring the balance at zero.
	// It returns the resulting balance and whether the floor was hit.
	AddCoins(ctx context.Context, userID string, delta int) (int, bool, error)
	// PurchaseLootBox debits the price and credits one loot box in a single
	// atomic step. The bool reports whether the purchase was applied; false
	// means the balance could not cover the price.
	PurchaseLootBox(ctx context.Context, userID string, price int) (User, bool, error)
	// ConsumeLootBox decrements the loot box count. The bool reports whether
	// a box was available to consume.
	ConsumeLootBox(ctx context.Context, userID string) (int, bool, error)
}
