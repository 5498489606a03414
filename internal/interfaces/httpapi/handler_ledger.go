package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/melechlapson/CastNCatch/internal/domain/user"
	"github.com/melechlapson/CastNCatch/internal/usecase"
)

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMe")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	item, err := h.ledgerService.GetUser(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get user failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(ctx, item))
}

func (h *Handler) AdjustCoins(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdjustCoins")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req adjustCoinsRequest
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

	balance, err := h.ledgerService.AddCoins(ctx, principal.UserID, req.Delta)
	if err != nil {
		h.logger.WarnContext(ctx, "adjust coins failed", "user_id", principal.UserID, "delta", req.Delta, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, coinBalanceDTO{Coins: balance})
}

func (h *Handler) GetCoinStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCoinStats")
	defer span.End()

	stats, err := h.ledgerService.CoinStats(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "coin stats failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, coinStatsToDTO(ctx, stats))
}

type adjustCoinsRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type userDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Coins       int    `json:"coins"`
	LootBoxes   int    `json:"lootBoxes"`
}

type coinBalanceDTO struct {
	Coins int `json:"coins"`
}

type coinStatsDTO struct {
	UserCount     int     `json:"userCount"`
	HighestUserID string  `json:"highestUserId"`
	HighestCoins  int     `json:"highestCoins"`
	AverageCoins  float64 `json:"averageCoins"`
	Over10000     int     `json:"over10000"`
	Over50000     int     `json:"over50000"`
}

func userToDTO(ctx context.Context, v user.User) userDTO {
	ctx, span := startSpan(ctx, "httpapi.userToDTO")
	defer span.End()

	return userDTO{
		ID:          v.ID,
		DisplayName: v.DisplayName,
		Coins:       v.Coins,
		LootBoxes:   v.LootBoxes,
	}
}

func coinStatsToDTO(ctx context.Context, v user.CoinStats) coinStatsDTO {
	ctx, span := startSpan(ctx, "httpapi.coinStatsToDTO")
	defer span.End()

	return coinStatsDTO{
		UserCount:     v.UserCount,
		HighestUserID: v.HighestUserID,
		HighestCoins:  v.HighestCoins,
		AverageCoins:  v.AverageCoins,
		Over10000:     v.Over10000,
		Over50000:     v.Over50000,
	}
}
