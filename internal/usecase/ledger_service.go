package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/melechlapson/CastNCatch/internal/domain/user"
	"github.com/melechlapson/CastNCatch/internal/platform/logging"
)

// LedgerService owns every coin balance mutation. All writes go through the
// repository's atomic floor-at-zero primitive so a balance can never go
// negative, no matter how callers race.
type LedgerService struct {
	userRepo user.Repository
	logger   *logging.Logger
	now      func() time.Time
}

func NewLedgerService(userRepo user.Repository, logger *logging.Logger) *LedgerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LedgerService{
		userRepo: userRepo,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *LedgerService) GetUser(ctx context.Context, userID string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LedgerService.GetUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	item, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return item, nil
}

// AddCoins applies a signed delta to the user's balance and returns the new
// balance. An overdraft does not fail: the balance floors at zero and the
// clamp is logged as an anomaly.
func (s *LedgerService) AddCoins(ctx context.Context, userID string, delta int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LedgerService.AddCoins")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	_, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	balance, clamped, err := s.userRepo.AddCoins(ctx, userID, delta)
	if err != nil {
		return 0, fmt.Errorf("add coins: %w", err)
	}
	if clamped {
		s.logger.WarnContext(ctx, "coin balance clamped to zero",
			"user_id", userID,
			"delta", delta,
		)
	}
	return balance, nil
}

// CoinStats aggregates the coin economy for the admin dashboard.
func (s *LedgerService) CoinStats(ctx context.Context) (user.CoinStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LedgerService.CoinStats")
	defer span.End()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return user.CoinStats{}, fmt.Errorf("list users: %w", err)
	}

	out := user.CoinStats{UserCount: len(users)}
	if len(users) == 0 {
		return out, nil
	}

	total := 0
	for _, u := range users {
		total += u.Coins
		if u.Coins > out.HighestCoins {
			out.HighestCoins = u.Coins
			out.HighestUserID = u.ID
		}
		if u.Coins > 10000 {
			out.Over10000++
		}
		if u.Coins > 50000 {
			out.Over50000++
		}
	}
	out.AverageCoins = float64(total) / float64(len(users))
	return out, nil
}
