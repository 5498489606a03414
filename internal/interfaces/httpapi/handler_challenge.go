package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/melechlapson/CastNCatch/internal/domain/challenge"
	"github.com/melechlapson/CastNCatch/internal/usecase"
)

const (
	namespacePathHourly = "hourly"
	namespacePathPro    = "pro"
)

func (h *Handler) challengeServiceForPath(namespace string) (*usecase.ChallengeService, error) {
	switch strings.TrimSpace(namespace) {
	case namespacePathHourly:
		return h.hourlyChallengeService, nil
	case namespacePathPro:
		return h.proChallengeService, nil
	default:
		return nil, fmt.Errorf("%w: unknown challenge namespace %q", usecase.ErrInvalidInput, namespace)
	}
}

func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListChallenges")
	defer span.End()

	service, err := h.challengeServiceForPath(r.PathValue("namespace"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	challenges, err := service.ListActiveChallenges(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list challenges failed", "namespace", r.PathValue("namespace"), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]challengeDTO, 0, len(challenges))
	for _, c := range challenges {
		items = append(items, challengeToDTO(ctx, c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetChallenge")
	defer span.End()

	service, err := h.challengeServiceForPath(r.PathValue("namespace"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	item, err := service.GetChallenge(ctx, challengeID)
	if err != nil {
		h.logger.WarnContext(ctx, "get challenge failed", "challenge_id", challengeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, challengeToDTO(ctx, item))
}

func (h *Handler) SubmitChallengeScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitChallengeScore")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	service, err := h.challengeServiceForPath(r.PathValue("namespace"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req submitScoreRequest
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

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	score, err := service.SubmitScore(ctx, challengeID, principal.UserID, req.FishCaught, req.TotalWeight)
	if err != nil {
		h.logger.WarnContext(ctx, "submit score failed", "challenge_id", challengeID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, scoreToDTO(ctx, score))
}

func (h *Handler) GetChallengeScoreboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetChallengeScoreboard")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	service, err := h.challengeServiceForPath(r.PathValue("namespace"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	scores, err := service.GetChallengeScores(ctx, challengeID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get scoreboard failed", "challenge_id", challengeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]scoreDTO, 0, len(scores))
	for _, s := range scores {
		items = append(items, scoreToDTO(ctx, s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMyChallengeScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyChallengeScore")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	service, err := h.challengeServiceForPath(r.PathValue("namespace"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	score, exists, err := service.GetOwnScore(ctx, challengeID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get own score failed", "challenge_id", challengeID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreToDTO(ctx, score))
}

type submitScoreRequest struct {
	FishCaught  int     `json:"fishCaught" validate:"gte=0"`
	TotalWeight float64 `json:"totalWeight" validate:"gte=0"`
}

type challengeDTO struct {
	ID         string `json:"id"`
	Namespace  string `json:"namespace"`
	Goal       string `json:"goal"`
	Location   string `json:"location"`
	Duration   int    `json:"duration"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	MaxReward  int    `json:"maxReward"`
	Completed  bool   `json:"completed"`
	CustomText string `json:"customText,omitempty"`
}

type scoreDTO struct {
	ChallengeID string  `json:"challengeId"`
	PlayerID    string  `json:"playerId"`
	PlayerName  string  `json:"playerName"`
	FishCaught  int     `json:"fishCaught"`
	TotalWeight float64 `json:"totalWeight"`
	Date        string  `json:"date"`
	Coins       *int    `json:"coins,omitempty"`
}

func challengeToDTO(ctx context.Context, v challenge.Challenge) challengeDTO {
	ctx, span := startSpan(ctx, "httpapi.challengeToDTO")
	defer span.End()

	return challengeDTO{
		ID:         v.ID,
		Namespace:  string(v.Namespace),
		Goal:       string(v.Goal),
		Location:   v.Location,
		Duration:   v.Duration,
		StartDate:  v.StartDate.UTC().Format(time.RFC3339),
		EndDate:    v.EndDate.UTC().Format(time.RFC3339),
		MaxReward:  v.MaxReward,
		Completed:  v.Completed,
		CustomText: v.CustomText,
	}
}

func scoreToDTO(ctx context.Context, v challenge.Score) scoreDTO {
	ctx, span := startSpan(ctx, "httpapi.scoreToDTO")
	defer span.End()

	return scoreDTO{
		ChallengeID: v.ChallengeID,
		PlayerID:    v.PlayerID,
		PlayerName:  v.PlayerName,
		FishCaught:  v.FishCaught,
		TotalWeight: v.TotalWeight,
		Date:        v.Date.UTC().Format(time.RFC3339),
		Coins:       v.Coins,
	}
}
