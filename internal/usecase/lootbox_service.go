package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/melechlapson/CastNCatch/internal/domain/gear"
	"github.com/melechlapson/CastNCatch/internal/domain/user"
	"github.com/melechlapson/CastNCatch/internal/platform/logging"
)

type LootboxService struct {
	userRepo user.Repository
	gearRepo gear.Repository
	logger   *logging.Logger
	randInt  func(n int) int
}

func NewLootboxService(userRepo user.Repository, gearRepo gear.Repository, logger *logging.Logger) *LootboxService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LootboxService{
		userRepo: userRepo,
		gearRepo: gearRepo,
		logger:   logger,
		randInt:  rand.IntN,
	}
}

// BuyLootBox trades coins for one unopened box in a single atomic step.
func (s *LootboxService) BuyLootBox(ctx context.Context, userID string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LootboxService.BuyLootBox")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	_, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	updated, purchased, err := s.userRepo.PurchaseLootBox(ctx, userID, gear.LootBoxPrice)
	if err != nil {
		return user.User{}, fmt.Errorf("purchase loot box: %w", err)
	}
	if !purchased {
		return user.User{}, fmt.Errorf("%w: loot box costs %d coins", ErrInsufficientFunds, gear.LootBoxPrice)
	}
	return updated, nil
}

// OpenLootBox consumes one box and unlocks a random gear item the player
// does not own yet. The box is only consumed once a candidate item exists.
func (s *LootboxService) OpenLootBox(ctx context.Context, userID string) (gear.Item, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LootboxService.OpenLootBox")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return gear.Item{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	_, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return gear.Item{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return gear.Item{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	items, err := s.gearRepo.ListItems(ctx)
	if err != nil {
		return gear.Item{}, fmt.Errorf("list gear items: %w", err)
	}
	unlocked, err := s.gearRepo.ListUnlocked(ctx, userID)
	if err != nil {
		return gear.Item{}, fmt.Errorf("list unlocked gear: %w", err)
	}
	owned := make(map[string]struct{}, len(unlocked))
	for _, itemID := range unlocked {
		owned[itemID] = struct{}{}
	}
	candidates := make([]gear.Item, 0, len(items))
	for _, item := range items {
		if _, ok := owned[item.ID]; !ok {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		return gear.Item{}, fmt.Errorf("%w: no gear left to unlock", ErrNotFound)
	}

	_, consumed, err := s.userRepo.ConsumeLootBox(ctx, userID)
	if err != nil {
		return gear.Item{}, fmt.Errorf("consume loot box: %w", err)
	}
	if !consumed {
		return gear.Item{}, fmt.Errorf("%w: no loot box to open", ErrInsufficientFunds)
	}

	won := candidates[s.randInt(len(candidates))]
	if err := s.gearRepo.Unlock(ctx, gear.Unlock{UserID: userID, ItemID: won.ID}); err != nil {
		return gear.Item{}, fmt.Errorf("unlock gear item: %w", err)
	}
	return won, nil
}

func (s *LootboxService) ListUnlockedGear(ctx context.Context, userID string) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LootboxService.ListUnlockedGear")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	unlocked, err := s.gearRepo.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list unlocked gear: %w", err)
	}
	return unlocked, nil
}

// EquipGear toggles the equipped flag on an unlocked item.
func (s *LootboxService) EquipGear(ctx context.Context, userID, itemID string, equipped bool) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LootboxService.EquipGear")
	defer span.End()

	userID = strings.TrimSpace(userID)
	itemID = strings.TrimSpace(itemID)
	if userID == "" || itemID == "" {
		return fmt.Errorf("%w: user id and item id are required", ErrInvalidInput)
	}

	found, err := s.gearRepo.SetEquipped(ctx, userID, itemID, equipped)
	if err != nil {
		return fmt.Errorf("set equipped: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: gear item=%s", ErrNotFound, itemID)
	}
	return nil
}
