package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/melechlapson/CastNCatch/internal/domain/leaderboard"
	"github.com/melechlapson/CastNCatch/internal/domain/stats"
	"github.com/melechlapson/CastNCatch/internal/usecase"
)

func (h *Handler) RecordRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordRound")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req recordRoundRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	catches := make([]stats.CaughtFish, 0, len(req.Catches))
	for _, c := range req.Catches {
		catches = append(catches, stats.CaughtFish{Name: c.Name, Ounces: c.Ounces})
	}

	item, err := h.statsService.RecordRound(ctx, principal.UserID, req.Casts, catches)
	if err != nil {
		h.logger.WarnContext(ctx, "record round failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userStatsToDTO(ctx, item))
}

func (h *Handler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyStats")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	item, err := h.statsService.GetStats(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get stats failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userStatsToDTO(ctx, item))
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	entries, err := h.leaderboardService.GetLeaderboard(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]leaderboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardEntryToDTO(ctx, e))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

type recordRoundRequest struct {
	Casts   int               `json:"casts" validate:"gte=0"`
	Catches []caughtFishInput `json:"catches" validate:"dive"`
}

type caughtFishInput struct {
	Name   string  `json:"name" validate:"required"`
	Ounces float64 `json:"ounces" validate:"gte=0"`
}

type fishTallyDTO struct {
	TotalCaught int     `json:"totalCaught"`
	TotalOunces float64 `json:"totalOunces"`
}

type biggestCatchDTO struct {
	Name   string  `json:"name"`
	Ounces float64 `json:"ounces"`
}

type userStatsDTO struct {
	UserID        string                  `json:"userId"`
	PlayerName    string                  `json:"playerName"`
	TotalCasts    int                     `json:"totalCasts"`
	TotalCatches  int                     `json:"totalCatches"`
	TotalOunces   float64                 `json:"totalOunces"`
	BiggestCatch  biggestCatchDTO         `json:"biggestCatch"`
	CatchesByFish map[string]fishTallyDTO `json:"catchesByFish"`
}

type leaderboardEntryDTO struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	Ounces     float64 `json:"ounces"`
}

func userStatsToDTO(ctx context.Context, v stats.UserStats) userStatsDTO {
	ctx, span := startSpan(ctx, "httpapi.userStatsToDTO")
	defer span.End()

	byFish := make(map[string]fishTallyDTO, len(v.CatchesByFish))
	for name, tally := range v.CatchesByFish {
		byFish[name] = fishTallyDTO{
			TotalCaught: tally.TotalCaught,
			TotalOunces: tally.TotalOunces,
		}
	}

	return userStatsDTO{
		UserID:       v.UserID,
		PlayerName:   v.PlayerName,
		TotalCasts:   v.TotalCasts,
		TotalCatches: v.TotalCatches,
		TotalOunces:  v.TotalOunces,
		BiggestCatch: biggestCatchDTO{
			Name:   v.BiggestCatch.Name,
			Ounces: v.BiggestCatch.Ounces,
		},
		CatchesByFish: byFish,
	}
}

func leaderboardEntryToDTO(ctx context.Context, v leaderboard.Entry) leaderboardEntryDTO {
	ctx, span := startSpan(ctx, "httpapi.leaderboardEntryToDTO")
	defer span.End()

	return leaderboardEntryDTO{
		Rank:       v.Rank,
		PlayerID:   v.PlayerID,
		PlayerName: v.PlayerName,
		Ounces:     v.Ounces,
	}
}
