package app

import (
	"fmt"
	"net/http"
	"strings"

	_ "github.com/lib/pq"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/melechlapson/CastNCatch/internal/config"
	"github.com/melechlapson/CastNCatch/internal/domain/challenge"
	"github.com/melechlapson/CastNCatch/internal/domain/friendchallenge"
	"github.com/melechlapson/CastNCatch/internal/domain/gear"
	"github.com/melechlapson/CastNCatch/internal/domain/leaderboard"
	"github.com/melechlapson/CastNCatch/internal/domain/notification"
	"github.com/melechlapson/CastNCatch/internal/domain/social"
	"github.com/melechlapson/CastNCatch/internal/domain/stats"
	"github.com/melechlapson/CastNCatch/internal/domain/user"
	"github.com/melechlapson/CastNCatch/internal/infrastructure/account/heimdall"
	"github.com/melechlapson/CastNCatch/internal/infrastructure/push/fcm"
	"github.com/melechlapson/CastNCatch/internal/infrastructure/repository/memory"
	"github.com/melechlapson/CastNCatch/internal/infrastructure/repository/postgres"
	"github.com/melechlapson/CastNCatch/internal/interfaces/httpapi"
	"github.com/melechlapson/CastNCatch/internal/platform/logging"
	"github.com/melechlapson/CastNCatch/internal/platform/resilience"
	"github.com/melechlapson/CastNCatch/internal/usecase"
)

type repositories struct {
	users            user.Repository
	challenges       challenge.Repository
	scores           challenge.ScoreRepository
	locations        challenge.LocationRepository
	friendChallenges friendchallenge.Repository
	notifications    notification.Repository
	deviceTokens     notification.DeviceTokenRepository
	friendRequests   social.RequestRepository
	friends          social.FriendRepository
	stats            stats.Repository
	leaderboard      leaderboard.Repository
	gear             gear.Repository
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	ledgerService := usecase.NewLedgerService(repos.users, logger)
	notificationService := usecase.NewNotificationService(repos.notifications, repos.deviceTokens, buildPushSender(cfg, logger), nil, logger)
	hourlyService := usecase.NewChallengeService(challenge.NamespaceHourly, repos.challenges, repos.scores, repos.locations, repos.users, ledgerService, notificationService, nil, logger)
	proService := usecase.NewChallengeService(challenge.NamespaceProTournament, repos.challenges, repos.scores, repos.locations, repos.users, ledgerService, notificationService, nil, logger)
	friendChallengeService := usecase.NewFriendChallengeService(repos.friendChallenges, repos.locations, repos.users, ledgerService, notificationService, nil, logger)
	socialService := usecase.NewSocialService(repos.friendRequests, repos.friends, repos.users, notificationService, logger)
	statsService := usecase.NewStatsService(repos.stats, repos.users, logger)
	leaderboardService := usecase.NewLeaderboardService(repos.stats, repos.leaderboard, logger)
	lootboxService := usecase.NewLootboxService(repos.users, repos.gear, logger)

	verifier := heimdall.NewClient(heimdall.ClientConfig{
		BaseURL:        cfg.HeimdallBaseURL,
		IntrospectPath: cfg.HeimdallIntrospectPath,
		AdminKey:       cfg.HeimdallAdminKey,
		Timeout:        cfg.HeimdallTimeout,
		CacheTTL:       cfg.HeimdallCacheTTL,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.HeimdallCircuitEnabled,
			FailureThreshold: cfg.HeimdallCircuitFailureCount,
			OpenTimeout:      cfg.HeimdallCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.HeimdallCircuitHalfOpenMaxReq,
		},
	})

	handler := httpapi.NewHandler(
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
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// buildRepositories picks the persistence backend. With DB_URL set the
// service runs against postgres; without it everything lives in memory,
// seeded with demo data for local development.
func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("storage backend", "backend", "memory", "reason", "DB_URL empty")
		return repositories{
			users:            memory.NewUserRepository(memory.SeedUsers()),
			challenges:       memory.NewChallengeRepository(),
			scores:           memory.NewScoreRepository(),
			locations:        memory.NewLocationRepository(memory.SeedLocations()),
			friendChallenges: memory.NewFriendChallengeRepository(),
			notifications:    memory.NewNotificationRepository(),
			deviceTokens:     memory.NewDeviceTokenRepository(),
			friendRequests:   memory.NewFriendRequestRepository(),
			friends:          memory.NewFriendRepository(),
			stats:            memory.NewStatsRepository(),
			leaderboard:      memory.NewLeaderboardRepository(),
			gear:             memory.NewGearRepository(memory.SeedGearItems()),
		}, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, err
	}
	logger.Info("storage backend", "backend", "postgres", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		users:            postgres.NewUserRepository(db),
		challenges:       postgres.NewChallengeRepository(db),
		scores:           postgres.NewScoreRepository(db),
		locations:        postgres.NewLocationRepository(db),
		friendChallenges: postgres.NewFriendChallengeRepository(db),
		notifications:    postgres.NewNotificationRepository(db),
		deviceTokens:     postgres.NewDeviceTokenRepository(db),
		friendRequests:   postgres.NewFriendRequestRepository(db),
		friends:          postgres.NewFriendRepository(db),
		stats:            postgres.NewStatsRepository(db),
		leaderboard:      postgres.NewLeaderboardRepository(db),
		gear:             postgres.NewGearRepository(db),
	}, nil
}

// formatDBQueryForTrace collapses whitespace runs so multi-line SQL reads as
// one line in span attributes, truncated to keep span payloads small.
func formatDBQueryForTrace(query string) string {
	const maxLength = 512

	flattened := strings.Join(strings.Fields(query), " ")
	if len(flattened) > maxLength {
		return flattened[:maxLength] + "..."
	}

	return flattened
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)

	return db, nil
}

func buildPushSender(cfg config.Config, logger *logging.Logger) usecase.PushSender {
	if !cfg.FCMEnabled {
		logger.Info("push delivery disabled", "reason", "FCM_ENABLED=false")
		return nil
	}

	return fcm.NewClient(fcm.ClientConfig{
		BaseURL:    cfg.FCMBaseURL,
		ServerKey:  cfg.FCMServerKey,
		MaxRetries: cfg.FCMMaxRetries,
		Timeout:    cfg.FCMTimeout,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FCMCircuitEnabled,
			FailureThreshold: cfg.FCMCircuitFailureCount,
			OpenTimeout:      cfg.FCMCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FCMCircuitHalfOpenMaxReq,
		},
	})
}
