package usecase

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/melechlapson/CastNCatch/internal/domain/challenge"
	"github.com/melechlapson/CastNCatch/internal/domain/notification"
	"github.com/melechlapson/CastNCatch/internal/domain/user"
	"github.com/melechlapson/CastNCatch/internal/platform/id"
	"github.com/melechlapson/CastNCatch/internal/platform/logging"
)

const (
	// challengeDurationSeconds is how long a round lasts once started.
	challengeDurationSeconds = 120
	// maxLocationPool bounds the location draw to the head of the catalog.
	maxLocationPool = 10
	// maxSweepPerRun caps how many expired challenges one sweep settles.
	maxSweepPerRun = 2
	// scoreboardLimit caps how many rows a scoreboard read returns.
	scoreboardLimit = 50
)

// ChallengeService runs one timed-challenge namespace. The hourly rotation
// and the pro tournament are two instances of the same service pointed at
// different namespaces.
type ChallengeService struct {
	ns            challenge.Namespace
	challengeRepo challenge.Repository
	scoreRepo     challenge.ScoreRepository
	locationRepo  challenge.LocationRepository
	userRepo      user.Repository
	ledger        *LedgerService
	notifier      *NotificationService
	idGen         id.Generator
	logger        *logging.Logger
	now           func() time.Time
	randInt       func(n int) int
}

func NewChallengeService(
	ns challenge.Namespace,
	challengeRepo challenge.Repository,
	scoreRepo challenge.ScoreRepository,
	locationRepo challenge.LocationRepository,
	userRepo user.Repository,
	ledger *LedgerService,
	notifier *NotificationService,
	idGen id.Generator,
	logger *logging.Logger,
) *ChallengeService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.RandomGenerator{}
	}
	return &ChallengeService{
		ns:            ns,
		challengeRepo: challengeRepo,
		scoreRepo:     scoreRepo,
		locationRepo:  locationRepo,
		userRepo:      userRepo,
		ledger:        ledger,
		notifier:      notifier,
		idGen:         idGen,
		logger:        logger,
		now:           time.Now,
		randInt:       rand.IntN,
	}
}

// CreateChallenge rolls a fresh challenge: random goal, a location drawn from
// the head of the catalog, and a max reward of 50 to 95 coins in steps of 5.
// The challenge stays open until the end of the current day.
func (s *ChallengeService) CreateChallenge(ctx context.Context) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.CreateChallenge")
	defer span.End()

	locations, err := s.locationRepo.ListKeys(ctx)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("list locations: %w", err)
	}
	if len(locations) == 0 {
		return challenge.Challenge{}, fmt.Errorf("%w: location catalog is empty", ErrDependencyUnavailable)
	}
	poolSize := len(locations)
	if poolSize > maxLocationPool {
		poolSize = maxLocationPool
	}

	challengeID, err := s.idGen.NewID()
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("generate challenge id: %w", err)
	}

	goal := challenge.GoalFish
	if s.randInt(2) == 1 {
		goal = challenge.GoalWeight
	}

	now := s.now().UTC()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)

	item := challenge.Challenge{
		ID:         challengeID,
		Namespace:  s.ns,
		Goal:       goal,
		Location:   locations[s.randInt(poolSize)],
		Duration:   challengeDurationSeconds,
		StartDate:  now,
		EndDate:    endOfDay,
		MaxReward:  5 * (10 + s.randInt(10)),
		CustomText: s.flavorText(),
	}
	if err := s.challengeRepo.Create(ctx, item); err != nil {
		return challenge.Challenge{}, fmt.Errorf("create challenge: %w", err)
	}

	s.logger.InfoContext(ctx, "challenge created",
		"namespace", string(s.ns),
		"challenge_id", item.ID,
		"goal", string(item.Goal),
		"location", item.Location,
		"max_reward", item.MaxReward,
	)
	return item, nil
}

// proTournamentFlavors is the rotating description shown on tournament cards.
var proTournamentFlavors = []string{
	"Sponsored tournament: the pros are watching.",
	"Championship qualifier: every ounce counts.",
	"Invitational series: bring your best tackle.",
	"Grand circuit stop: reputations on the line.",
}

// flavorText picks a description for the challenge card. Hourly challenges
// carry no description; pro tournaments rotate through the flavor list.
func (s *ChallengeService) flavorText() string {
	if s.ns != challenge.NamespaceProTournament {
		return ""
	}
	return proTournamentFlavors[s.randInt(len(proTournamentFlavors))]
}

// ListActiveChallenges returns challenges whose end date has not passed.
func (s *ChallengeService) ListActiveChallenges(ctx context.Context) ([]challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.ListActiveChallenges")
	defer span.End()

	items, err := s.challengeRepo.ListActive(ctx, s.ns, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("list active challenges: %w", err)
	}
	return items, nil
}

func (s *ChallengeService) GetChallenge(ctx context.Context, challengeID string) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.GetChallenge")
	defer span.End()

	challengeID = strings.TrimSpace(challengeID)
	if challengeID == "" {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge id is required", ErrInvalidInput)
	}

	item, exists, err := s.challengeRepo.GetByID(ctx, s.ns, challengeID)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("get challenge: %w", err)
	}
	if !exists {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
	}
	return item, nil
}

// SubmitScore records a player's single entry for a challenge. A player gets
// exactly one submission per challenge; resubmitting fails without touching
// the stored score.
func (s *ChallengeService) SubmitScore(ctx context.Context, challengeID, playerID string, fishCaught int, totalWeight float64) (challenge.Score, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.SubmitScore")
	defer span.End()

	challengeID = strings.TrimSpace(challengeID)
	playerID = strings.TrimSpace(playerID)
	if challengeID == "" || playerID == "" {
		return challenge.Score{}, fmt.Errorf("%w: challenge id and player id are required", ErrInvalidInput)
	}
	if fishCaught < 0 {
		return challenge.Score{}, fmt.Errorf("%w: fish caught cannot be negative", ErrInvalidInput)
	}
	if math.IsNaN(totalWeight) || math.IsInf(totalWeight, 0) || totalWeight < 0 {
		return challenge.Score{}, fmt.Errorf("%w: total weight must be a non-negative number", ErrInvalidInput)
	}

	item, exists, err := s.challengeRepo.GetByID(ctx, s.ns, challengeID)
	if err != nil {
		return challenge.Score{}, fmt.Errorf("get challenge: %w", err)
	}
	if !exists {
		return challenge.Score{}, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
	}
	if item.Expired(s.now().UTC()) {
		return challenge.Score{}, fmt.Errorf("%w: challenge=%s", ErrExpired, challengeID)
	}

	_, submitted, err := s.scoreRepo.Get(ctx, s.ns, challengeID, playerID)
	if err != nil {
		return challenge.Score{}, fmt.Errorf("get existing score: %w", err)
	}
	if submitted {
		return challenge.Score{}, fmt.Errorf("%w: player=%s challenge=%s", ErrDuplicateSubmission, playerID, challengeID)
	}

	player, exists, err := s.userRepo.GetByID(ctx, playerID)
	if err != nil {
		return challenge.Score{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return challenge.Score{}, fmt.Errorf("%w: user=%s", ErrNotFound, playerID)
	}

	score := challenge.Score{
		ChallengeID: challengeID,
		PlayerID:    playerID,
		PlayerName:  player.DisplayName,
		FishCaught:  fishCaught,
		TotalWeight: totalWeight,
		Date:        s.now().UTC(),
	}
	if err := s.scoreRepo.Insert(ctx, s.ns, score); err != nil {
		return challenge.Score{}, fmt.Errorf("insert score: %w", err)
	}
	return score, nil
}

// GetOwnScore returns the caller's submission for a challenge, if any.
func (s *ChallengeService) GetOwnScore(ctx context.Context, challengeID, playerID string) (challenge.Score, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.GetOwnScore")
	defer span.End()

	challengeID = strings.TrimSpace(challengeID)
	playerID = strings.TrimSpace(playerID)
	if challengeID == "" || playerID == "" {
		return challenge.Score{}, false, fmt.Errorf("%w: challenge id and player id are required", ErrInvalidInput)
	}

	score, exists, err := s.scoreRepo.Get(ctx, s.ns, challengeID, playerID)
	if err != nil {
		return challenge.Score{}, false, fmt.Errorf("get score: %w", err)
	}
	return score, exists, nil
}

// GetChallengeScores returns the scoreboard: the top entries ordered by the
// challenge goal, plus the caller's own row when it did not make the cut.
func (s *ChallengeService) GetChallengeScores(ctx context.Context, challengeID, callerID string) ([]challenge.Score, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.GetChallengeScores")
	defer span.End()

	challengeID = strings.TrimSpace(challengeID)
	if challengeID == "" {
		return nil, fmt.Errorf("%w: challenge id is required", ErrInvalidInput)
	}

	item, exists, err := s.challengeRepo.GetByID(ctx, s.ns, challengeID)
	if err != nil {
		return nil, fmt.Errorf("get challenge: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
	}

	scores, err := s.scoreRepo.List(ctx, s.ns, challengeID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	sortScoresByRankingValue(item, scores)

	if len(scores) <= scoreboardLimit {
		return scores, nil
	}
	top := scores[:scoreboardLimit:scoreboardLimit]
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return top, nil
	}
	for _, row := range top {
		if row.PlayerID == callerID {
			return top, nil
		}
	}
	for _, row := range scores[scoreboardLimit:] {
		if row.PlayerID == callerID {
			return append(top, row), nil
		}
	}
	return top, nil
}

type SweepResult struct {
	Namespace string `json:"namespace"`
	Eligible  int    `json:"eligible"`
	Processed int    `json:"processed"`
	Settled   int    `json:"settled"`
	Failed    int    `json:"failed"`
}

// SweepExpired settles expired challenges. Each invocation picks up at most
// two of them and settles them in parallel, waiting for both before
// returning; the remainder is left for the next run.
func (s *ChallengeService) SweepExpired(ctx context.Context) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.SweepExpired")
	defer span.End()

	now := s.now().UTC()
	incomplete, err := s.challengeRepo.ListIncomplete(ctx, s.ns)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list incomplete challenges: %w", err)
	}

	eligible := make([]challenge.Challenge, 0, len(incomplete))
	for _, item := range incomplete {
		if item.Expired(now) {
			eligible = append(eligible, item)
		}
	}

	result := SweepResult{
		Namespace: string(s.ns),
		Eligible:  len(eligible),
	}
	batch := eligible
	if len(batch) > maxSweepPerRun {
		batch = batch[:maxSweepPerRun]
	}
	result.Processed = len(batch)
	if len(batch) == 0 {
		return result, nil
	}

	workers, err := ants.NewPool(maxSweepPerRun)
	if err != nil {
		return SweepResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var settledCount atomic.Int32
	var failedCount atomic.Int32

	var wg sync.WaitGroup
	var submitErr error
	for _, item := range batch {
		item := item
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			if err := s.settle(ctx, item); err != nil {
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "challenge settlement failed",
					"namespace", string(s.ns),
					"challenge_id", item.ID,
					"error", err,
				)
				return
			}
			settledCount.Add(1)
		}); err != nil {
			wg.Done()
			submitErr = fmt.Errorf("submit settlement to worker pool: %w", err)
			break
		}
	}
	// Settlements already handed to the pool must finish before the result
	// (or a submit error) is reported, so no payout outlives this call.
	wg.Wait()
	if submitErr != nil {
		return SweepResult{}, submitErr
	}

	result.Settled = int(settledCount.Load())
	result.Failed = int(failedCount.Load())
	return result, nil
}

// settle pays out one expired challenge and marks it completed. The completed
// flag is only flipped after every payout has landed, so a crashed settlement
// is retried by the next sweep.
func (s *ChallengeService) settle(ctx context.Context, item challenge.Challenge) error {
	scores, err := s.scoreRepo.List(ctx, s.ns, item.ID)
	if err != nil {
		return fmt.Errorf("list scores: %w", err)
	}
	if len(scores) == 0 {
		if err := s.challengeRepo.MarkCompleted(ctx, s.ns, item.ID); err != nil {
			return fmt.Errorf("mark completed: %w", err)
		}
		return nil
	}

	sortScoresByRankingValue(item, scores)

	highScore := 1.0
	for _, row := range scores {
		if v := item.RankingValue(row); v > highScore {
			highScore = v
		}
	}

	payouts := pool.New().WithErrors().WithMaxGoroutines(maxSweepPerRun * 2)
	for rankIdx, row := range scores {
		rank := rankIdx + 1
		row := row
		payouts.Go(func() error {
			reward := s.settlementReward(ctx, item, row, highScore)
			if err := s.scoreRepo.SetCoins(ctx, s.ns, item.ID, row.PlayerID, reward); err != nil {
				return fmt.Errorf("set score coins for %s: %w", row.PlayerID, err)
			}
			if reward <= 0 {
				return nil
			}
			if _, err := s.ledger.AddCoins(ctx, row.PlayerID, reward); err != nil {
				return fmt.Errorf("credit %s: %w", row.PlayerID, err)
			}
			message := fmt.Sprintf("You received %d coins for placing %s in a challenge.", reward, rankOrdinal(rank))
			if err := s.notifier.Notify(ctx, row.PlayerID, notification.CategoryChallengeResults, message, nil); err != nil {
				s.logger.WarnContext(ctx, "challenge result notification failed",
					"challenge_id", item.ID,
					"player_id", row.PlayerID,
					"error", err,
				)
			}
			return nil
		})
	}
	if err := payouts.Wait(); err != nil {
		return fmt.Errorf("pay out scores: %w", err)
	}

	if err := s.challengeRepo.MarkCompleted(ctx, s.ns, item.ID); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

// settlementReward scales the player's score against the high score. The
// ratio is forced into [0, 1]: garbage values pay nothing and an impossible
// ratio above one pays the cap and is logged.
func (s *ChallengeService) settlementReward(ctx context.Context, item challenge.Challenge, row challenge.Score, highScore float64) int {
	ratio := item.RankingValue(row) / highScore
	if math.IsNaN(ratio) || ratio < 0 {
		s.logger.WarnContext(ctx, "settlement ratio invalid, paying zero",
			"challenge_id", item.ID,
			"player_id", row.PlayerID,
			"ratio", ratio,
		)
		ratio = 0
	}
	if ratio > 1 {
		s.logger.WarnContext(ctx, "settlement ratio above one, capping",
			"challenge_id", item.ID,
			"player_id", row.PlayerID,
			"ratio", ratio,
		)
		ratio = 1
	}
	return int(math.Round(ratio * float64(item.MaxReward)))
}

func sortScoresByRankingValue(item challenge.Challenge, scores []challenge.Score) {
	sort.SliceStable(scores, func(i, j int) bool {
		return item.RankingValue(scores[i]) > item.RankingValue(scores[j])
	})
}
