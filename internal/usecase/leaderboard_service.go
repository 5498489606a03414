package usecase

import (
	"context"
	"fmt"

	"github.com/melechlapson/CastNCatch/internal/domain/leaderboard"
	"github.com/melechlapson/CastNCatch/internal/domain/stats"
	"github.com/melechlapson/CastNCatch/internal/platform/logging"
)

type LeaderboardService struct {
	statsRepo stats.Repository
	boardRepo leaderboard.Repository
	logger    *logging.Logger
}

func NewLeaderboardService(statsRepo stats.Repository, boardRepo leaderboard.Repository, logger *logging.Logger) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeaderboardService{
		statsRepo: statsRepo,
		boardRepo: boardRepo,
		logger:    logger,
	}
}

// UpdateLeaderboard republishes the board from the current lifetime stats.
// It is timer-invoked; readers only ever see the published copy.
func (s *LeaderboardService) UpdateLeaderboard(ctx context.Context) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.UpdateLeaderboard")
	defer span.End()

	top, err := s.statsRepo.ListTopByOunces(ctx, leaderboard.Size)
	if err != nil {
		return nil, fmt.Errorf("list top stats: %w", err)
	}

	entries := make([]leaderboard.Entry, 0, len(top))
	for i, row := range top {
		entries = append(entries, leaderboard.Entry{
			Rank:       i + 1,
			PlayerID:   row.UserID,
			PlayerName: row.PlayerName,
			Ounces:     row.TotalOunces,
		})
	}
	if err := s.boardRepo.Replace(ctx, entries); err != nil {
		return nil, fmt.Errorf("replace leaderboard: %w", err)
	}

	s.logger.InfoContext(ctx, "leaderboard published", "entries", len(entries))
	return entries, nil
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetLeaderboard")
	defer span.End()

	entries, err := s.boardRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	return entries, nil
}
