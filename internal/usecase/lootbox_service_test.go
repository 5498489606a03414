package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/melechlapson/CastNCatch/internal/domain/gear"
	"github.com/melechlapson/CastNCatch/internal/domain/user"
)

func TestLootboxService_BuyLootBox_DebitsPrice(t *testing.T) {
	t.Parallel()

	userRepo := newStubUserRepository(user.User{ID: "angler-1", Coins: 250})
	service := NewLootboxService(userRepo, newStubGearRepository(), nil)

	got, err := service.BuyLootBox(context.Background(), "angler-1")
	if err != nil {
		t.Fatalf("BuyLootBox error: %v", err)
	}
	if got.Coins != 150 || got.LootBoxes != 1 {
		t.Fatalf("unexpected balance after purchase: %+v", got)
	}
}

func TestLootboxService_BuyLootBox_InsufficientFunds(t *testing.T) {
	t.Parallel()

	userRepo := newStubUserRepository(user.User{ID: "angler-1", Coins: 40})
	service := NewLootboxService(userRepo, newStubGearRepository(), nil)

	_, err := service.BuyLootBox(context.Background(), "angler-1")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if userRepo.coins("angler-1") != 40 {
		t.Fatalf("failed purchase must not debit: %d", userRepo.coins("angler-1"))
	}
}

func TestLootboxService_OpenLootBox_UnlocksUnownedItem(t *testing.T) {
	t.Parallel()

	userRepo := newStubUserRepository(user.User{ID: "angler-1", Coins: 0, LootBoxes: 2})
	gearRepo := newStubGearRepository(
		gear.Item{ID: "rod-basic", Category: "rod"},
		gear.Item{ID: "rod-pro", Category: "rod"},
		gear.Item{ID: "hat-straw", Category: "hat"},
	)
	if err := gearRepo.Unlock(context.Background(), gear.Unlock{UserID: "angler-1", ItemID: "rod-basic"}); err != nil {
		t.Fatalf("seed unlock: %v", err)
	}
	service := NewLootboxService(userRepo, gearRepo, nil)
	service.randInt = func(int) int { return 1 }

	won, err := service.OpenLootBox(context.Background(), "angler-1")
	if err != nil {
		t.Fatalf("OpenLootBox error: %v", err)
	}
	if won.ID != "hat-straw" {
		t.Fatalf("expected second unowned candidate, got %s", won.ID)
	}

	unlocked, _ := gearRepo.ListUnlocked(context.Background(), "angler-1")
	if len(unlocked) != 2 {
		t.Fatalf("unlock not recorded: %v", unlocked)
	}
	if u, _, _ := userRepo.GetByID(context.Background(), "angler-1"); u.LootBoxes != 1 {
		t.Fatalf("exactly one box must be consumed, %d left", u.LootBoxes)
	}
}

func TestLootboxService_OpenLootBox_AllGearOwned(t *testing.T) {
	t.Parallel()

	userRepo := newStubUserRepository(user.User{ID: "angler-1", LootBoxes: 1})
	gearRepo := newStubGearRepository(gear.Item{ID: "rod-basic", Category: "rod"})
	if err := gearRepo.Unlock(context.Background(), gear.Unlock{UserID: "angler-1", ItemID: "rod-basic"}); err != nil {
		t.Fatalf("seed unlock: %v", err)
	}
	service := NewLootboxService(userRepo, gearRepo, nil)

	_, err := service.OpenLootBox(context.Background(), "angler-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound when all gear is owned, got %v", err)
	}
	if u, _, _ := userRepo.GetByID(context.Background(), "angler-1"); u.LootBoxes != 1 {
		t.Fatalf("box must not be consumed when nothing can drop: %d", u.LootBoxes)
	}
}

func TestLootboxService_OpenLootBox_NoBoxes(t *testing.T) {
	t.Parallel()

	userRepo := newStubUserRepository(user.User{ID: "angler-1"})
	gearRepo := newStubGearRepository(gear.Item{ID: "rod-basic", Category: "rod"})
	service := NewLootboxService(userRepo, gearRepo, nil)

	_, err := service.OpenLootBox(context.Background(), "angler-1")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds without a box, got %v", err)
	}
}

func TestLootboxService_EquipGear(t *testing.T) {
	t.Parallel()

	userRepo := newStubUserRepository(user.User{ID: "angler-1"})
	gearRepo := newStubGearRepository(gear.Item{ID: "rod-basic", Category: "rod"})
	if err := gearRepo.Unlock(context.Background(), gear.Unlock{UserID: "angler-1", ItemID: "rod-basic"}); err != nil {
		t.Fatalf("seed unlock: %v", err)
	}
	service := NewLootboxService(userRepo, gearRepo, nil)

	if err := service.EquipGear(context.Background(), "angler-1", "rod-basic", true); err != nil {
		t.Fatalf("EquipGear error: %v", err)
	}
	if err := service.EquipGear(context.Background(), "angler-1", "missing", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
