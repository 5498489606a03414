package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/melechlapson/CastNCatch/internal/platform/logging"
	"github.com/melechlapson/CastNCatch/internal/usecase"
)

type Handler struct {
	hourlyChallengeService *usecase.ChallengeService
	proChallengeService    *usecase.ChallengeService
	friendChallengeService *usecase.FriendChallengeService
	ledgerService          *usecase.LedgerService
	notificationService    *usecase.NotificationService
	socialService          *usecase.SocialService
	statsService           *usecase.StatsService
	leaderboardService     *usecase.LeaderboardService
	lootboxService         *usecase.LootboxService
	logger                 *logging.Logger
	validator              *validator.Validate
}

func NewHandler(
	hourlyChallengeService *usecase.ChallengeService,
	proChallengeService *usecase.ChallengeService,
	friendChallengeService *usecase.FriendChallengeService,
	ledgerService *usecase.LedgerService,
	notificationService *usecase.NotificationService,
	socialService *usecase.SocialService,
	statsService *usecase.StatsService,
	leaderboardService *usecase.LeaderboardService,
	lootboxService *usecase.LootboxService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		hourlyChallengeService: hourlyChallengeService,
		proChallengeService:    proChallengeService,
		friendChallengeService: friendChallengeService,
		ledgerService:          ledgerService,
		notificationService:    notificationService,
		socialService:          socialService,
		statsService:           statsService,
		leaderboardService:     leaderboardService,
		lootboxService:         lootboxService,
		logger:                 logger,
		validator:              validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
