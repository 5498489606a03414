package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/melechlapson/CastNCatch/internal/domain/challenge"
	"github.com/melechlapson/CastNCatch/internal/domain/user"
	"github.com/melechlapson/CastNCatch/internal/infrastructure/repository/memory"
	"github.com/melechlapson/CastNCatch/internal/platform/logging"
	"github.com/melechlapson/CastNCatch/internal/usecase"
)

const testJobToken = "job-secret"

// newTestRouter wires the full router against in-memory repositories so the
// tests exercise routing, auth, and handler plumbing end to end.
func newTestRouter(t *testing.T, principal user.Principal) http.Handler {
	t.Helper()

	logger := logging.NewNop()

	userRepo := memory.NewUserRepository(memory.SeedUsers())
	locationRepo := memory.NewLocationRepository(memory.SeedLocations())
	challengeRepo := memory.NewChallengeRepository()
	scoreRepo := memory.NewScoreRepository()
	friendChallengeRepo := memory.NewFriendChallengeRepository()
	notifRepo := memory.NewNotificationRepository()
	tokenRepo := memory.NewDeviceTokenRepository()
	requestRepo := memory.NewFriendRequestRepository()
	friendRepo := memory.NewFriendRepository()
	statsRepo := memory.NewStatsRepository()
	boardRepo := memory.NewLeaderboardRepository()
	gearRepo := memory.NewGearRepository(memory.SeedGearItems())

	ledgerService := usecase.NewLedgerService(userRepo, logger)
	notificationService := usecase.NewNotificationService(notifRepo, tokenRepo, nil, nil, logger)
	hourlyService := usecase.NewChallengeService(challenge.NamespaceHourly, challengeRepo, scoreRepo, locationRepo, userRepo, ledgerService, notificationService, nil, logger)
	proService := usecase.NewChallengeService(challenge.NamespaceProTournament, challengeRepo, scoreRepo, locationRepo, userRepo, ledgerService, notificationService, nil, logger)
	friendChallengeService := usecase.NewFriendChallengeService(friendChallengeRepo, locationRepo, userRepo, ledgerService, notificationService, nil, logger)
	socialService := usecase.NewSocialService(requestRepo, friendRepo, userRepo, notificationService, logger)
	statsService := usecase.NewStatsService(statsRepo, userRepo, logger)
	leaderboardService := usecase.NewLeaderboardService(statsRepo, boardRepo, logger)
	lootboxService := usecase.NewLootboxService(userRepo, gearRepo, logger)

	handler := NewHandler(
		hourlyService,
		proService,
		friendChallengeService,
		ledgerService,
		notificationService,
		socialService,
		statsService,
		leaderboardService,
		lootboxService,
		logger,
	)

	return NewRouter(handler, stubVerifier{principal: principal}, logger, []string{"*"}, testJobToken)
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body["data"]
}

func TestRouter_HealthzIsPublic(t *testing.T) {
	router := newTestRouter(t, user.Principal{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_LeaderboardIsPublic(t *testing.T) {
	router := newTestRouter(t, user.Principal{})

	req := httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_ChallengesRequireAuth(t *testing.T) {
	router := newTestRouter(t, user.Principal{})

	req := httptest.NewRequest(http.MethodGet, "/v1/challenges/hourly", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_InternalJobsRejectMissingToken(t *testing.T) {
	router := newTestRouter(t, user.Principal{})

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/challenges/sweep", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_CreateChallengeAndSubmitScore(t *testing.T) {
	principal := user.Principal{UserID: "demo-annie", Email: "annie@example.com"}
	router := newTestRouter(t, principal)

	// The scheduler creates the challenge through the internal job endpoint.
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/challenges/hourly/create", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 from create job, got %d body=%s", rec.Code, rec.Body.String())
	}

	created, ok := decodeData(t, rec).(map[string]any)
	if !ok {
		t.Fatalf("expected challenge object, got %v", decodeData(t, rec))
	}
	challengeID, _ := created["id"].(string)
	if challengeID == "" {
		t.Fatalf("expected challenge id in create response")
	}

	// The player submits a score against it.
	body := strings.NewReader(`{"fishCaught":4,"totalWeight":18.5}`)
	req = httptest.NewRequest(http.MethodPost, "/v1/challenges/hourly/"+challengeID+"/scores", body)
	req.Header.Set("Authorization", "Bearer token-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 from submit, got %d body=%s", rec.Code, rec.Body.String())
	}

	// And reads it back through the scoreboard.
	req = httptest.NewRequest(http.MethodGet, "/v1/challenges/hourly/"+challengeID+"/scores", nil)
	req.Header.Set("Authorization", "Bearer token-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 from scoreboard, got %d body=%s", rec.Code, rec.Body.String())
	}

	scores, ok := decodeData(t, rec).([]any)
	if !ok || len(scores) != 1 {
		t.Fatalf("expected one scoreboard entry, got %v", decodeData(t, rec))
	}
	entry, _ := scores[0].(map[string]any)
	if got, _ := entry["playerId"].(string); got != principal.UserID {
		t.Fatalf("expected playerId %q, got %v", principal.UserID, entry["playerId"])
	}
}

func TestRouter_UnknownNamespaceRejected(t *testing.T) {
	principal := user.Principal{UserID: "demo-annie"}
	router := newTestRouter(t, principal)

	req := httptest.NewRequest(http.MethodGet, "/v1/challenges/weekly", nil)
	req.Header.Set("Authorization", "Bearer token-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_SubmitScoreRejectsUnknownFields(t *testing.T) {
	principal := user.Principal{UserID: "demo-annie"}
	router := newTestRouter(t, principal)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/challenges/hourly/create", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	created, _ := decodeData(t, rec).(map[string]any)
	challengeID, _ := created["id"].(string)

	body := strings.NewReader(`{"fishCaught":4,"totalWeight":18.5,"bonus":true}`)
	req = httptest.NewRequest(http.MethodPost, "/v1/challenges/hourly/"+challengeID+"/scores", body)
	req.Header.Set("Authorization", "Bearer token-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}
