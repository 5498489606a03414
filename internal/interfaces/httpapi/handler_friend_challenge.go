package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/melechlapson/CastNCatch/internal/domain/friendchallenge"
	"github.com/melechlapson/CastNCatch/internal/usecase"
)

func (h *Handler) CreateFriendChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateFriendChallenge")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createFriendChallengeRequest
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

	item, err := h.friendChallengeService.CreateFriendChallenge(ctx, principal.UserID, req.FriendID, req.Wager, req.Deduct)
	if err != nil {
		h.logger.WarnContext(ctx, "create friend challenge failed", "user_id", principal.UserID, "friend_id", req.FriendID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, friendChallengeToDTO(ctx, item))
}

func (h *Handler) ListFriendChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFriendChallenges")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	items, err := h.friendChallengeService.ListFriendChallenges(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list friend challenges failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]friendChallengeDTO, 0, len(items))
	for _, item := range items {
		out = append(out, friendChallengeToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetFriendChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFriendChallenge")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	item, err := h.friendChallengeService.GetFriendChallenge(ctx, challengeID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get friend challenge failed", "challenge_id", challengeID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, friendChallengeToDTO(ctx, item))
}

func (h *Handler) AcceptFriendChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptFriendChallenge")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	item, err := h.friendChallengeService.Accept(ctx, challengeID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "accept friend challenge failed", "challenge_id", challengeID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, friendChallengeToDTO(ctx, item))
}

func (h *Handler) DeclineFriendChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeclineFriendChallenge")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	challengeID := strings.TrimSpace(r.PathValue("challengeID"))
	if err := h.friendChallengeService.Decline(ctx, challengeID, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "decline friend challenge failed", "challenge_id", challengeID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "declined"})
}

func (h *Handler) SubmitFriendChallengeScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitFriendChallengeScore")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
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
	item, err := h.friendChallengeService.SubmitFriendScore(ctx, challengeID, principal.UserID, req.FishCaught, req.TotalWeight)
	if err != nil {
		h.logger.WarnContext(ctx, "submit friend score failed", "challenge_id", challengeID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, friendChallengeToDTO(ctx, item))
}

type createFriendChallengeRequest struct {
	FriendID string `json:"friendId" validate:"required"`
	Wager    int    `json:"wager" validate:"gte=0"`
	Deduct   bool   `json:"deduct"`
}

type friendChallengeDTO struct {
	ID         string                    `json:"id"`
	Challenger string                    `json:"challenger"`
	Recipient  string                    `json:"recipient"`
	Goal       string                    `json:"goal"`
	Location   string                    `json:"location"`
	Duration   int                       `json:"duration"`
	StartDate  string                    `json:"startDate"`
	Wager      int                       `json:"wager"`
	Deduct     bool                      `json:"deduct"`
	Accepted   bool                      `json:"accepted"`
	Completed  bool                      `json:"completed"`
	Scores     []friendChallengeScoreDTO `json:"scores"`
}

type friendChallengeScoreDTO struct {
	PlayerID    string  `json:"playerId"`
	PlayerName  string  `json:"playerName"`
	FishCaught  int     `json:"fishCaught"`
	TotalWeight float64 `json:"totalWeight"`
	Date        string  `json:"date"`
}

func friendChallengeToDTO(ctx context.Context, v friendchallenge.FriendChallenge) friendChallengeDTO {
	ctx, span := startSpan(ctx, "httpapi.friendChallengeToDTO")
	defer span.End()

	scores := make([]friendChallengeScoreDTO, 0, len(v.Scores))
	for _, s := range v.Scores {
		scores = append(scores, friendChallengeScoreDTO{
			PlayerID:    s.PlayerID,
			PlayerName:  s.PlayerName,
			FishCaught:  s.FishCaught,
			TotalWeight: s.TotalWeight,
			Date:        s.Date.UTC().Format(time.RFC3339),
		})
	}

	return friendChallengeDTO{
		ID:         v.ID,
		Challenger: v.Challenger,
		Recipient:  v.Recipient,
		Goal:       string(v.Goal),
		Location:   v.Location,
		Duration:   v.Duration,
		StartDate:  v.StartDate.UTC().Format(time.RFC3339),
		Wager:      v.Wager,
		Deduct:     v.Deduct,
		Accepted:   v.Accepted,
		Completed:  v.Completed,
		Scores:     scores,
	}
}
