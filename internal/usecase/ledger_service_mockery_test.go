package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/melechlapson/CastNCatch/internal/domain/user"
	usermock "github.com/melechlapson/CastNCatch/internal/mocks/domain/user"
	"github.com/melechlapson/CastNCatch/internal/platform/logging"
)

func TestLedgerService_AddCoins_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userRepo := usermock.NewRepository(t)

	service := NewLedgerService(userRepo, logging.NewNop())
	userID := "demo-annie"

	userRepo.
		On("GetByID", mock.Anything, userID).
		Return(user.User{ID: userID, DisplayName: "Annie", Coins: 500}, true, nil).
		Once()
	userRepo.
		On("AddCoins", mock.Anything, userID, 75).
		Return(575, false, nil).
		Once()

	balance, err := service.AddCoins(ctx, userID, 75)
	if err != nil {
		t.Fatalf("add coins: %v", err)
	}
	if balance != 575 {
		t.Fatalf("unexpected balance: got=%d want=%d", balance, 575)
	}
}

func TestLedgerService_AddCoins_UserNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userRepo := usermock.NewRepository(t)

	service := NewLedgerService(userRepo, logging.NewNop())
	userID := "missing-user"

	userRepo.
		On("GetByID", mock.Anything, userID).
		Return(user.User{}, false, nil).
		Once()

	_, err := service.AddCoins(ctx, userID, 10)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLedgerService_AddCoins_ClampedOverdraftUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userRepo := usermock.NewRepository(t)

	service := NewLedgerService(userRepo, logging.NewNop())
	userID := "demo-dora"

	userRepo.
		On("GetByID", mock.Anything, userID).
		Return(user.User{ID: userID, DisplayName: "Dora", Coins: 0}, true, nil).
		Once()
	userRepo.
		On("AddCoins", mock.Anything, userID, -40).
		Return(0, true, nil).
		Once()

	balance, err := service.AddCoins(ctx, userID, -40)
	if err != nil {
		t.Fatalf("add coins: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected balance floored at zero, got %d", balance)
	}
}
