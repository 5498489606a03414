package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/melechlapson/CastNCatch/internal/domain/leaderboard"
	"github.com/melechlapson/CastNCatch/internal/domain/stats"
)

func TestLeaderboardService_UpdateLeaderboard_PublishesTopTen(t *testing.T) {
	t.Parallel()

	statsRepo := newStubStatsRepository()
	for i := 0; i < 15; i++ {
		if err := statsRepo.Save(context.Background(), stats.UserStats{
			UserID:      fmt.Sprintf("u-%02d", i),
			PlayerName:  fmt.Sprintf("Player %02d", i),
			TotalOunces: float64(100 * (i + 1)),
		}); err != nil {
			t.Fatalf("seed stats: %v", err)
		}
	}
	boardRepo := &stubLeaderboardRepository{}
	service := NewLeaderboardService(statsRepo, boardRepo, nil)

	entries, err := service.UpdateLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("UpdateLeaderboard error: %v", err)
	}
	if len(entries) != leaderboard.Size {
		t.Fatalf("expected %d entries, got %d", leaderboard.Size, len(entries))
	}
	if entries[0].Rank != 1 || entries[0].PlayerID != "u-14" || entries[0].Ounces != 1500 {
		t.Fatalf("unexpected top entry: %+v", entries[0])
	}
	if entries[9].Rank != 10 || entries[9].PlayerID != "u-05" {
		t.Fatalf("unexpected bottom entry: %+v", entries[9])
	}

	published, err := service.GetLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("GetLeaderboard error: %v", err)
	}
	if len(published) != leaderboard.Size {
		t.Fatalf("published board size wrong: %d", len(published))
	}
}

func TestLeaderboardService_UpdateLeaderboard_FewerPlayersThanBoard(t *testing.T) {
	t.Parallel()

	statsRepo := newStubStatsRepository()
	if err := statsRepo.Save(context.Background(), stats.UserStats{UserID: "solo", PlayerName: "Solo", TotalOunces: 12}); err != nil {
		t.Fatalf("seed stats: %v", err)
	}
	service := NewLeaderboardService(statsRepo, &stubLeaderboardRepository{}, nil)

	entries, err := service.UpdateLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("UpdateLeaderboard error: %v", err)
	}
	if len(entries) != 1 || entries[0].Rank != 1 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
