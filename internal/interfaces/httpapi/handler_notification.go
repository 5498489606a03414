package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/melechlapson/CastNCatch/internal/domain/notification"
	"github.com/melechlapson/CastNCatch/internal/usecase"
)

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListNotifications")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	items, err := h.notificationService.List(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list notifications failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]notificationDTO, 0, len(items))
	for _, item := range items {
		out = append(out, notificationToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DismissNotification")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	notificationID := strings.TrimSpace(r.PathValue("notificationID"))
	if err := h.notificationService.Dismiss(ctx, principal.UserID, notificationID); err != nil {
		h.logger.WarnContext(ctx, "dismiss notification failed", "user_id", principal.UserID, "notification_id", notificationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "dismissed"})
}

func (h *Handler) DismissNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DismissNotifications")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req dismissNotificationsRequest
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

	if err := h.notificationService.DismissBatch(ctx, principal.UserID, req.IDs); err != nil {
		h.logger.WarnContext(ctx, "dismiss notifications failed", "user_id", principal.UserID, "count", len(req.IDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "dismissed"})
}

func (h *Handler) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterDeviceToken")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req registerDeviceTokenRequest
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

	if err := h.notificationService.RegisterDeviceToken(ctx, principal.UserID, req.Token); err != nil {
		h.logger.WarnContext(ctx, "register device token failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "registered"})
}

type dismissNotificationsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type registerDeviceTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type notificationDTO struct {
	ID        string            `json:"id"`
	Category  string            `json:"category"`
	Message   string            `json:"message"`
	Date      string            `json:"date"`
	Dismissed bool              `json:"dismissed"`
	Data      map[string]string `json:"data,omitempty"`
}

func notificationToDTO(ctx context.Context, v notification.Notification) notificationDTO {
	ctx, span := startSpan(ctx, "httpapi.notificationToDTO")
	defer span.End()

	return notificationDTO{
		ID:        v.ID,
		Category:  v.Category,
		Message:   v.Message,
		Date:      v.Date.UTC().Format(time.RFC3339),
		Dismissed: v.Dismissed,
		Data:      v.Data,
	}
}
