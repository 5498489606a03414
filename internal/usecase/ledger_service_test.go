package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/melechlapson/CastNCatch/internal/domain/user"
)

func TestLedgerService_AddCoins_OverdraftClampsToZero(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepository(user.User{ID: "angler-1", DisplayName: "Angler One", Coins: 10})
	service := NewLedgerService(repo, nil)

	balance, err := service.AddCoins(context.Background(), "angler-1", -1000)
	if err != nil {
		t.Fatalf("AddCoins error: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected clamped balance 0, got %d", balance)
	}
	if repo.coins("angler-1") != 0 {
		t.Fatalf("stored balance not clamped: %d", repo.coins("angler-1"))
	}
}

func TestLedgerService_AddCoins_UnknownUser(t *testing.T) {
	t.Parallel()

	service := NewLedgerService(newStubUserRepository(), nil)

	_, err := service.AddCoins(context.Background(), "ghost", 5)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLedgerService_AddCoins_ConcurrentCreditsAllLand(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepository(user.User{ID: "angler-1", DisplayName: "Angler One"})
	service := NewLedgerService(repo, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.AddCoins(context.Background(), "angler-1", 5); err != nil {
				t.Errorf("AddCoins error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := repo.coins("angler-1"); got != 100 {
		t.Fatalf("expected 100 coins after concurrent credits, got %d", got)
	}
}

func TestLedgerService_CoinStats_Aggregates(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepository(
		user.User{ID: "a", Coins: 100},
		user.User{ID: "b", Coins: 20000},
		user.User{ID: "c", Coins: 60000},
		user.User{ID: "d", Coins: 0},
	)
	service := NewLedgerService(repo, nil)

	got, err := service.CoinStats(context.Background())
	if err != nil {
		t.Fatalf("CoinStats error: %v", err)
	}
	if got.UserCount != 4 {
		t.Fatalf("unexpected user count: %d", got.UserCount)
	}
	if got.HighestUserID != "c" || got.HighestCoins != 60000 {
		t.Fatalf("unexpected highest holder: %+v", got)
	}
	if got.AverageCoins != 20025 {
		t.Fatalf("unexpected average: %v", got.AverageCoins)
	}
	if got.Over10000 != 2 || got.Over50000 != 1 {
		t.Fatalf("unexpected threshold counts: %+v", got)
	}
}
