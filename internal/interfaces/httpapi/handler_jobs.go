package httpapi

import (
	"net/http"

	"github.com/melechlapson/CastNCatch/internal/usecase"
)

// Job endpoints are called by the scheduler, not by players. They sit behind
// RequireInternalJobToken and return raw operation results instead of DTOs.

func (h *Handler) RunCreateChallengeJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCreateChallengeJob")
	defer span.End()

	service, err := h.challengeServiceForPath(r.PathValue("namespace"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := service.CreateChallenge(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "create challenge job failed", "namespace", r.PathValue("namespace"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, challengeToDTO(ctx, item))
}

func (h *Handler) RunSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSweepJob")
	defer span.End()

	results := make([]usecase.SweepResult, 0, 2)
	for _, service := range []*usecase.ChallengeService{h.hourlyChallengeService, h.proChallengeService} {
		result, err := service.SweepExpired(ctx)
		if err != nil {
			h.logger.WarnContext(ctx, "sweep job failed", "namespace", result.Namespace, "error", err)
			writeError(ctx, w, err)
			return
		}
		results = append(results, result)
	}

	writeSuccess(ctx, w, http.StatusOK, results)
}

func (h *Handler) RunLeaderboardUpdateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLeaderboardUpdateJob")
	defer span.End()

	entries, err := h.leaderboardService.UpdateLeaderboard(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "leaderboard update job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]leaderboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardEntryToDTO(ctx, e))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
