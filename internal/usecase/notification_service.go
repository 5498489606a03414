package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/melechlapson/CastNCatch/internal/domain/notification"
	"github.com/melechlapson/CastNCatch/internal/platform/id"
	"github.com/melechlapson/CastNCatch/internal/platform/logging"
)

// PushSender delivers a message to a set of device tokens.
type PushSender interface {
	Send(ctx context.Context, tokens []string, category, message string, data map[string]string) error
}

type NotificationService struct {
	notifRepo notification.Repository
	tokenRepo notification.DeviceTokenRepository
	push      PushSender
	idGen     id.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewNotificationService(
	notifRepo notification.Repository,
	tokenRepo notification.DeviceTokenRepository,
	push PushSender,
	idGen id.Generator,
	logger *logging.Logger,
) *NotificationService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.RandomGenerator{}
	}
	return &NotificationService{
		notifRepo: notifRepo,
		tokenRepo: tokenRepo,
		push:      push,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

// Notify persists an inbox notification and then attempts a push delivery.
// Push delivery is best effort: a failure is logged and never unwinds the
// persisted notification.
func (s *NotificationService) Notify(ctx context.Context, userID, category, message string, data map[string]string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.Notify")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	notificationID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate notification id: %w", err)
	}

	item := notification.Notification{
		ID:        notificationID,
		UserID:    userID,
		Category:  category,
		Message:   message,
		Date:      s.now().UTC(),
		Dismissed: false,
		Data:      data,
	}
	if err := s.notifRepo.Insert(ctx, item); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	s.sendPush(ctx, userID, category, message, data)
	return nil
}

// PushOnly delivers a push without touching the inbox. Friend request pings
// use this so the pending request itself stays the source of truth.
func (s *NotificationService) PushOnly(ctx context.Context, userID, category, message string, data map[string]string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.PushOnly")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	s.sendPush(ctx, userID, category, message, data)
	return nil
}

func (s *NotificationService) sendPush(ctx context.Context, userID, category, message string, data map[string]string) {
	if s.push == nil {
		return
	}
	tokens, err := s.tokenRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "list device tokens failed", "user_id", userID, "error", err)
		return
	}
	if len(tokens) == 0 {
		return
	}
	if err := s.push.Send(ctx, tokens, category, message, data); err != nil {
		s.logger.WarnContext(ctx, "push delivery failed", "user_id", userID, "category", category, "error", err)
	}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]notification.Notification, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.List")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.notifRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func (s *NotificationService) Dismiss(ctx context.Context, userID, notificationID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.Dismiss")
	defer span.End()

	userID = strings.TrimSpace(userID)
	notificationID = strings.TrimSpace(notificationID)
	if userID == "" || notificationID == "" {
		return fmt.Errorf("%w: user id and notification id are required", ErrInvalidInput)
	}

	existed, err := s.notifRepo.Delete(ctx, userID, notificationID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if !existed {
		return fmt.Errorf("%w: notification=%s", ErrNotFound, notificationID)
	}
	return nil
}

// DismissBatch dismisses several notifications concurrently. Unknown ids are
// skipped rather than failing the batch.
func (s *NotificationService) DismissBatch(ctx context.Context, userID string, notificationIDs []string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.DismissBatch")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	p := pool.New().WithErrors().WithMaxGoroutines(4)
	for _, notificationID := range notificationIDs {
		notificationID := strings.TrimSpace(notificationID)
		if notificationID == "" {
			continue
		}
		p.Go(func() error {
			if _, err := s.notifRepo.Delete(ctx, userID, notificationID); err != nil {
				return fmt.Errorf("delete notification %s: %w", notificationID, err)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return fmt.Errorf("dismiss batch: %w", err)
	}
	return nil
}

// RegisterDeviceToken records a push target for the user. Tokens are kept
// unique and capped; adding past the cap evicts the oldest token.
func (s *NotificationService) RegisterDeviceToken(ctx context.Context, userID, token string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.RegisterDeviceToken")
	defer span.End()

	userID = strings.TrimSpace(userID)
	token = strings.TrimSpace(token)
	if userID == "" || token == "" {
		return fmt.Errorf("%w: user id and device token are required", ErrInvalidInput)
	}

	tokens, err := s.tokenRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list device tokens: %w", err)
	}
	for _, existing := range tokens {
		if existing == token {
			return nil
		}
	}

	tokens = append(tokens, token)
	if len(tokens) > notification.MaxDeviceTokens {
		tokens = tokens[len(tokens)-notification.MaxDeviceTokens:]
	}
	if err := s.tokenRepo.Replace(ctx, userID, tokens); err != nil {
		return fmt.Errorf("replace device tokens: %w", err)
	}
	return nil
}
