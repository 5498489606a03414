package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/melechlapson/CastNCatch/internal/domain/stats"
	"github.com/melechlapson/CastNCatch/internal/domain/user"
	"github.com/melechlapson/CastNCatch/internal/platform/logging"
)

type StatsService struct {
	statsRepo stats.Repository
	userRepo  user.Repository
	logger    *logging.Logger
}

func NewStatsService(statsRepo stats.Repository, userRepo user.Repository, logger *logging.Logger) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{
		statsRepo: statsRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// RecordRound folds one finished round into the player's lifetime stats.
func (s *StatsService) RecordRound(ctx context.Context, userID string, casts int, catches []stats.CaughtFish) (stats.UserStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.RecordRound")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return stats.UserStats{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if casts < 0 {
		return stats.UserStats{}, fmt.Errorf("%w: casts cannot be negative", ErrInvalidInput)
	}
	for _, c := range catches {
		if strings.TrimSpace(c.Name) == "" {
			return stats.UserStats{}, fmt.Errorf("%w: catch is missing a fish name", ErrInvalidInput)
		}
		if math.IsNaN(c.Ounces) || math.IsInf(c.Ounces, 0) || c.Ounces < 0 {
			return stats.UserStats{}, fmt.Errorf("%w: catch weight must be a non-negative number", ErrInvalidInput)
		}
	}

	player, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return stats.UserStats{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return stats.UserStats{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	current, _, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		return stats.UserStats{}, fmt.Errorf("get stats: %w", err)
	}
	current.UserID = userID
	current.PlayerName = player.DisplayName
	current.Merge(casts, catches)

	if err := s.statsRepo.Save(ctx, current); err != nil {
		return stats.UserStats{}, fmt.Errorf("save stats: %w", err)
	}
	return current, nil
}

// GetStats returns lifetime stats for the user. A player who never finished
// a round gets zeroed stats, not an error.
func (s *StatsService) GetStats(ctx context.Context, userID string) (stats.UserStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.GetStats")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return stats.UserStats{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	_, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return stats.UserStats{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return stats.UserStats{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	current, found, err := s.statsRepo.Get(ctx, userID)
	if err != nil {
		return stats.UserStats{}, fmt.Errorf("get stats: %w", err)
	}
	if !found {
		return stats.UserStats{UserID: userID}, nil
	}
	return current, nil
}
