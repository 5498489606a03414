package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/melechlapson/CastNCatch/internal/domain/social"
	"github.com/melechlapson/CastNCatch/internal/usecase"
)

func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchUsers")
	defer span.End()

	prefix := strings.TrimSpace(r.URL.Query().Get("prefix"))
	if prefix == "" {
		writeError(ctx, w, fmt.Errorf("%w: query parameter prefix is required", usecase.ErrInvalidInput))
		return
	}

	users, err := h.socialService.SearchUsers(ctx, prefix)
	if err != nil {
		h.logger.WarnContext(ctx, "search users failed", "prefix", prefix, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]userSummaryDTO, 0, len(users))
	for _, u := range users {
		out = append(out, userSummaryDTO{ID: u.ID, DisplayName: u.DisplayName})
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SendFriendRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req sendFriendRequestRequest
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

	if err := h.socialService.SendFriendRequest(ctx, principal.UserID, req.RecipientID); err != nil {
		h.logger.WarnContext(ctx, "send friend request failed", "sender_id", principal.UserID, "recipient_id", req.RecipientID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]string{"status": "sent"})
}

func (h *Handler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptFriendRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	senderID := strings.TrimSpace(r.PathValue("senderID"))
	if err := h.socialService.AcceptFriendRequest(ctx, principal.UserID, senderID); err != nil {
		h.logger.WarnContext(ctx, "accept friend request failed", "recipient_id", principal.UserID, "sender_id", senderID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (h *Handler) DismissFriendRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DismissFriendRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	senderID := strings.TrimSpace(r.PathValue("senderID"))
	if err := h.socialService.DismissFriendRequest(ctx, principal.UserID, senderID); err != nil {
		h.logger.WarnContext(ctx, "dismiss friend request failed", "recipient_id", principal.UserID, "sender_id", senderID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "dismissed"})
}

func (h *Handler) ListFriendRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFriendRequests")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	items, err := h.socialService.ListFriendRequests(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list friend requests failed", "recipient_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]friendRequestDTO, 0, len(items))
	for _, item := range items {
		out = append(out, friendRequestToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFriends")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	friends, err := h.socialService.ListFriends(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list friends failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]userSummaryDTO, 0, len(friends))
	for _, u := range friends {
		out = append(out, userSummaryDTO{ID: u.ID, DisplayName: u.DisplayName})
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

type sendFriendRequestRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
}

type userSummaryDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type friendRequestDTO struct {
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Date       string `json:"date"`
	Dismissed  bool   `json:"dismissed"`
}

func friendRequestToDTO(ctx context.Context, v social.FriendRequest) friendRequestDTO {
	ctx, span := startSpan(ctx, "httpapi.friendRequestToDTO")
	defer span.End()

	return friendRequestDTO{
		SenderID:   v.SenderID,
		SenderName: v.SenderName,
		Date:       v.Date.UTC().Format(time.RFC3339),
		Dismissed:  v.Dismissed,
	}
}
