package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/melechlapson/CastNCatch/internal/usecase"
)

func (h *Handler) BuyLootBox(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BuyLootBox")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	item, err := h.lootboxService.BuyLootBox(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "buy loot box failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, userToDTO(ctx, item))
}

func (h *Handler) OpenLootBox(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenLootBox")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	item, err := h.lootboxService.OpenLootBox(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "open loot box failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gearItemDTO{ID: item.ID, Category: item.Category})
}

func (h *Handler) ListUnlockedGear(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUnlockedGear")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	itemIDs, err := h.lootboxService.ListUnlockedGear(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list unlocked gear failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, unlockedGearDTO{ItemIDs: itemIDs})
}

func (h *Handler) EquipGear(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EquipGear")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req equipGearRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	itemID := strings.TrimSpace(r.PathValue("itemID"))
	if err := h.lootboxService.EquipGear(ctx, principal.UserID, itemID, req.Equipped); err != nil {
		h.logger.WarnContext(ctx, "equip gear failed", "user_id", principal.UserID, "item_id", itemID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "updated"})
}

type equipGearRequest struct {
	Equipped bool `json:"equipped"`
}

type gearItemDTO struct {
	ID       string `json:"id"`
	Category string `json:"category"`
}

type unlockedGearDTO struct {
	ItemIDs []string `json:"itemIds"`
}
