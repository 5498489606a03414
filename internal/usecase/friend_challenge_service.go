package usecase

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/melechlapson/CastNCatch/internal/domain/challenge"
	"github.com/melechlapson/CastNCatch/internal/domain/friendchallenge"
	"github.com/melechlapson/CastNCatch/internal/domain/notification"
	"github.com/melechlapson/CastNCatch/internal/domain/user"
	"github.com/melechlapson/CastNCatch/internal/platform/id"
	"github.com/melechlapson/CastNCatch/internal/platform/logging"
)

// FriendChallengeService runs two-player duels. A duel settles in the same
// logical step as its second score submission, so settlement happens exactly
// once per challenge.
type FriendChallengeService struct {
	repo         friendchallenge.Repository
	locationRepo challenge.LocationRepository
	userRepo     user.Repository
	ledger       *LedgerService
	notifier     *NotificationService
	idGen        id.Generator
	logger       *logging.Logger
	now          func() time.Time
	randInt      func(n int) int
}

func NewFriendChallengeService(
	repo friendchallenge.Repository,
	locationRepo challenge.LocationRepository,
	userRepo user.Repository,
	ledger *LedgerService,
	notifier *NotificationService,
	idGen id.Generator,
	logger *logging.Logger,
) *FriendChallengeService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.RandomGenerator{}
	}
	return &FriendChallengeService{
		repo:         repo,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		ledger:       ledger,
		notifier:     notifier,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
		randInt:      rand.IntN,
	}
}

// CreateFriendChallenge opens a duel against a friend. In the deducting
// variant the challenger's stake is taken immediately and the recipient's at
// acceptance; without deduction no stakes are collected and the winner's
// payout is minted at settlement.
func (s *FriendChallengeService) CreateFriendChallenge(ctx context.Context, challengerID, friendID string, wager int, deduct bool) (friendchallenge.FriendChallenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FriendChallengeService.CreateFriendChallenge")
	defer span.End()

	challengerID = strings.TrimSpace(challengerID)
	friendID = strings.TrimSpace(friendID)
	if challengerID == "" || friendID == "" {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: challenger id and friend id are required", ErrInvalidInput)
	}
	if challengerID == friendID {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: cannot challenge yourself", ErrInvalidInput)
	}
	if wager < 0 {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: wager cannot be negative", ErrInvalidInput)
	}

	challenger, exists, err := s.userRepo.GetByID(ctx, challengerID)
	if err != nil {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("get challenger: %w", err)
	}
	if !exists {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: user=%s", ErrNotFound, challengerID)
	}
	_, exists, err = s.userRepo.GetByID(ctx, friendID)
	if err != nil {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("get recipient: %w", err)
	}
	if !exists {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: user=%s", ErrNotFound, friendID)
	}

	active, err := s.repo.HasActive(ctx, challengerID, friendID)
	if err != nil {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("check active challenge: %w", err)
	}
	if active {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: pair=%s/%s", ErrAlreadyActive, challengerID, friendID)
	}

	if deduct && wager > 0 {
		if challenger.Coins < wager {
			return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: balance=%d wager=%d", ErrInsufficientFunds, challenger.Coins, wager)
		}
		if _, err := s.ledger.AddCoins(ctx, challengerID, -wager); err != nil {
			return friendchallenge.FriendChallenge{}, fmt.Errorf("debit challenger wager: %w", err)
		}
	}

	locations, err := s.locationRepo.ListKeys(ctx)
	if err != nil {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("list locations: %w", err)
	}
	if len(locations) == 0 {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: location catalog is empty", ErrDependencyUnavailable)
	}
	poolSize := len(locations)
	if poolSize > maxLocationPool {
		poolSize = maxLocationPool
	}

	challengeID, err := s.idGen.NewID()
	if err != nil {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("generate challenge id: %w", err)
	}

	goal := challenge.GoalFish
	if s.randInt(2) == 1 {
		goal = challenge.GoalWeight
	}

	item := friendchallenge.FriendChallenge{
		ID:         challengeID,
		Challenger: challengerID,
		Recipient:  friendID,
		Goal:       goal,
		Location:   locations[s.randInt(poolSize)],
		Duration:   challengeDurationSeconds,
		StartDate:  s.now().UTC(),
		Wager:      wager,
		Deduct:     deduct,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("create friend challenge: %w", err)
	}

	message := fmt.Sprintf("You received a challenge from %s", challenger.DisplayName)
	s.notifyBestEffort(ctx, friendID, notification.CategoryChallengeRequests, message, map[string]string{"friendChallengeId": item.ID})

	return item, nil
}

// Accept lets the recipient take the duel. In the deducting variant the
// recipient's stake is collected here.
func (s *FriendChallengeService) Accept(ctx context.Context, challengeID, userID string) (friendchallenge.FriendChallenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FriendChallengeService.Accept")
	defer span.End()

	item, err := s.getForRecipient(ctx, challengeID, userID)
	if err != nil {
		return friendchallenge.FriendChallenge{}, err
	}
	if item.Accepted {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: challenge=%s", ErrAlreadyActive, item.ID)
	}

	recipient, exists, err := s.userRepo.GetByID(ctx, item.Recipient)
	if err != nil {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("get recipient: %w", err)
	}
	if !exists {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: user=%s", ErrNotFound, item.Recipient)
	}

	if item.Deduct && item.Wager > 0 {
		if recipient.Coins < item.Wager {
			return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: balance=%d wager=%d", ErrInsufficientFunds, recipient.Coins, item.Wager)
		}
		if _, err := s.ledger.AddCoins(ctx, item.Recipient, -item.Wager); err != nil {
			return friendchallenge.FriendChallenge{}, fmt.Errorf("debit recipient wager: %w", err)
		}
	}

	if err := s.repo.SetAccepted(ctx, item.ID); err != nil {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("set accepted: %w", err)
	}
	item.Accepted = true

	message := fmt.Sprintf("%s accepted your challenge!", recipient.DisplayName)
	s.notifyBestEffort(ctx, item.Challenger, notification.CategoryChallengeRequests, message, map[string]string{"friendChallengeId": item.ID})

	return item, nil
}

// Decline removes the duel. The challenger's stake is returned in the
// deducting variant.
func (s *FriendChallengeService) Decline(ctx context.Context, challengeID, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.FriendChallengeService.Decline")
	defer span.End()

	item, err := s.getForRecipient(ctx, challengeID, userID)
	if err != nil {
		return err
	}

	if item.Deduct && item.Wager > 0 {
		if _, err := s.ledger.AddCoins(ctx, item.Challenger, item.Wager); err != nil {
			return fmt.Errorf("refund challenger wager: %w", err)
		}
	}
	if err := s.repo.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete friend challenge: %w", err)
	}

	recipient, exists, err := s.userRepo.GetByID(ctx, item.Recipient)
	if err != nil || !exists {
		return nil
	}
	message := fmt.Sprintf("%s declined your challenge.", recipient.DisplayName)
	s.notifyBestEffort(ctx, item.Challenger, notification.CategoryChallengeRequests, message, nil)
	return nil
}

// SubmitFriendScore records one participant's result. The duel completes and
// settles as soon as the second score lands.
func (s *FriendChallengeService) SubmitFriendScore(ctx context.Context, challengeID, userID string, fishCaught int, totalWeight float64) (friendchallenge.FriendChallenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FriendChallengeService.SubmitFriendScore")
	defer span.End()

	challengeID = strings.TrimSpace(challengeID)
	userID = strings.TrimSpace(userID)
	if challengeID == "" || userID == "" {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: challenge id and user id are required", ErrInvalidInput)
	}
	if fishCaught < 0 {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: fish caught cannot be negative", ErrInvalidInput)
	}
	if math.IsNaN(totalWeight) || math.IsInf(totalWeight, 0) || totalWeight < 0 {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: total weight must be a non-negative number", ErrInvalidInput)
	}

	item, exists, err := s.repo.GetByID(ctx, challengeID)
	if err != nil {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("get friend challenge: %w", err)
	}
	if !exists {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
	}
	if !item.Participant(userID) {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: user=%s is not a participant", ErrForbidden, userID)
	}
	if !item.Accepted {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: challenge=%s", ErrNotAccepted, challengeID)
	}
	if item.HasScoreFrom(userID) {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: user=%s challenge=%s", ErrDuplicateSubmission, userID, challengeID)
	}

	player, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	score := friendchallenge.Score{
		PlayerID:    userID,
		PlayerName:  player.DisplayName,
		FishCaught:  fishCaught,
		TotalWeight: totalWeight,
		Date:        s.now().UTC(),
	}
	item.Scores = append(item.Scores, score)
	item.Completed = len(item.Scores) == 2
	if err := s.repo.AppendScore(ctx, item.ID, score, item.Completed); err != nil {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("append score: %w", err)
	}

	if len(item.Scores) == 2 {
		if err := s.settle(ctx, item); err != nil {
			return friendchallenge.FriendChallenge{}, fmt.Errorf("settle friend challenge: %w", err)
		}
	}
	return item, nil
}

func (s *FriendChallengeService) GetFriendChallenge(ctx context.Context, challengeID, userID string) (friendchallenge.FriendChallenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FriendChallengeService.GetFriendChallenge")
	defer span.End()

	challengeID = strings.TrimSpace(challengeID)
	userID = strings.TrimSpace(userID)
	if challengeID == "" || userID == "" {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: challenge id and user id are required", ErrInvalidInput)
	}

	item, exists, err := s.repo.GetByID(ctx, challengeID)
	if err != nil {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("get friend challenge: %w", err)
	}
	if !exists {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
	}
	if !item.Participant(userID) {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: user=%s is not a participant", ErrForbidden, userID)
	}
	return item, nil
}

// ListFriendChallenges returns the caller's open duels, sent and received.
func (s *FriendChallengeService) ListFriendChallenges(ctx context.Context, userID string) ([]friendchallenge.FriendChallenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FriendChallengeService.ListFriendChallenges")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	sent, err := s.repo.ListActiveByChallenger(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list challenges by challenger: %w", err)
	}
	received, err := s.repo.ListActiveByRecipient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list challenges by recipient: %w", err)
	}
	return append(sent, received...), nil
}

// settle pays out a finished duel. A tie returns each stake in the deducting
// variant; otherwise the winner collects both stakes.
func (s *FriendChallengeService) settle(ctx context.Context, item friendchallenge.FriendChallenge) error {
	if len(item.Scores) != 2 {
		return nil
	}

	first, second := item.Scores[0], item.Scores[1]
	firstValue := item.RankingValue(first)
	secondValue := item.RankingValue(second)

	if firstValue == secondValue {
		if item.Deduct && item.Wager > 0 {
			if _, err := s.ledger.AddCoins(ctx, first.PlayerID, item.Wager); err != nil {
				return fmt.Errorf("refund %s: %w", first.PlayerID, err)
			}
			if _, err := s.ledger.AddCoins(ctx, second.PlayerID, item.Wager); err != nil {
				return fmt.Errorf("refund %s: %w", second.PlayerID, err)
			}
		}
		s.notifyBestEffort(ctx, first.PlayerID, notification.CategoryFriendChallengeResults, "Friend challenge was a draw!", nil)
		s.notifyBestEffort(ctx, second.PlayerID, notification.CategoryFriendChallengeResults, "Friend challenge was a draw!", nil)
		return nil
	}

	winner, loser := first, second
	if secondValue > firstValue {
		winner, loser = second, first
	}
	payout := 2 * item.Wager
	if payout > 0 {
		if _, err := s.ledger.AddCoins(ctx, winner.PlayerID, payout); err != nil {
			return fmt.Errorf("credit winner %s: %w", winner.PlayerID, err)
		}
	}
	winMessage := fmt.Sprintf("You won the friend challenge and received %d coins.", payout)
	s.notifyBestEffort(ctx, winner.PlayerID, notification.CategoryFriendChallengeResults, winMessage, nil)
	s.notifyBestEffort(ctx, loser.PlayerID, notification.CategoryFriendChallengeResults, "You lost the friend challenge and received no coins.", nil)
	return nil
}

func (s *FriendChallengeService) getForRecipient(ctx context.Context, challengeID, userID string) (friendchallenge.FriendChallenge, error) {
	challengeID = strings.TrimSpace(challengeID)
	userID = strings.TrimSpace(userID)
	if challengeID == "" || userID == "" {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: challenge id and user id are required", ErrInvalidInput)
	}

	item, exists, err := s.repo.GetByID(ctx, challengeID)
	if err != nil {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("get friend challenge: %w", err)
	}
	if !exists {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
	}
	if item.Recipient != userID {
		return friendchallenge.FriendChallenge{}, fmt.Errorf("%w: user=%s is not the recipient", ErrForbidden, userID)
	}
	return item, nil
}

func (s *FriendChallengeService) notifyBestEffort(ctx context.Context, userID, category, message string, data map[string]string) {
	if err := s.notifier.Notify(ctx, userID, category, message, data); err != nil {
		s.logger.WarnContext(ctx, "friend challenge notification failed",
			"user_id", userID,
			"category", category,
			"error", err,
		)
	}
}
