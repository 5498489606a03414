package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/melechlapson/CastNCatch/internal/domain/notification"
	"github.com/melechlapson/CastNCatch/internal/domain/social"
	"github.com/melechlapson/CastNCatch/internal/domain/user"
	"github.com/melechlapson/CastNCatch/internal/platform/logging"
)

const searchResultLimit = 20

type SocialService struct {
	requestRepo social.RequestRepository
	friendRepo  social.FriendRepository
	userRepo    user.Repository
	notifier    *NotificationService
	logger      *logging.Logger
	now         func() time.Time
}

func NewSocialService(
	requestRepo social.RequestRepository,
	friendRepo social.FriendRepository,
	userRepo user.Repository,
	notifier *NotificationService,
	logger *logging.Logger,
) *SocialService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SocialService{
		requestRepo: requestRepo,
		friendRepo:  friendRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// SearchUsers finds players whose display name starts with the given prefix,
// case insensitively.
func (s *SocialService) SearchUsers(ctx context.Context, prefix string) ([]user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.SearchUsers")
	defer span.End()

	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, fmt.Errorf("%w: search prefix is required", ErrInvalidInput)
	}

	users, err := s.userRepo.SearchByNamePrefix(ctx, prefix, searchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// SendFriendRequest files a pending request and pings the recipient. The ping
// is push-only; the pending request itself is what the recipient acts on.
func (s *SocialService) SendFriendRequest(ctx context.Context, senderID, recipientID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.SendFriendRequest")
	defer span.End()

	senderID = strings.TrimSpace(senderID)
	recipientID = strings.TrimSpace(recipientID)
	if senderID == "" || recipientID == "" {
		return fmt.Errorf("%w: sender id and recipient id are required", ErrInvalidInput)
	}
	if senderID == recipientID {
		return fmt.Errorf("%w: cannot befriend yourself", ErrInvalidInput)
	}

	sender, exists, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return fmt.Errorf("get sender: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: user=%s", ErrNotFound, senderID)
	}
	_, exists, err = s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("get recipient: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: user=%s", ErrNotFound, recipientID)
	}

	existing, found, err := s.requestRepo.Get(ctx, recipientID, senderID)
	if err != nil {
		return fmt.Errorf("get friend request: %w", err)
	}
	if found && !existing.Dismissed {
		return fmt.Errorf("%w: friend request already pending", ErrAlreadyActive)
	}

	item := social.FriendRequest{
		RecipientID: recipientID,
		SenderID:    senderID,
		SenderName:  sender.DisplayName,
		Date:        s.now().UTC(),
	}
	if err := s.requestRepo.Upsert(ctx, item); err != nil {
		return fmt.Errorf("upsert friend request: %w", err)
	}

	message := fmt.Sprintf("You received a friend request from %s", sender.DisplayName)
	if err := s.notifier.PushOnly(ctx, recipientID, notification.CategoryFriendRequests, message, nil); err != nil {
		s.logger.WarnContext(ctx, "friend request push failed", "recipient_id", recipientID, "error", err)
	}
	return nil
}

// AcceptFriendRequest links both users and retires the request.
func (s *SocialService) AcceptFriendRequest(ctx context.Context, recipientID, senderID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.AcceptFriendRequest")
	defer span.End()

	recipientID = strings.TrimSpace(recipientID)
	senderID = strings.TrimSpace(senderID)
	if recipientID == "" || senderID == "" {
		return fmt.Errorf("%w: recipient id and sender id are required", ErrInvalidInput)
	}

	existing, found, err := s.requestRepo.Get(ctx, recipientID, senderID)
	if err != nil {
		return fmt.Errorf("get friend request: %w", err)
	}
	if !found || existing.Dismissed {
		return fmt.Errorf("%w: friend request from %s", ErrNotFound, senderID)
	}

	if _, err := s.friendRepo.AddFriend(ctx, recipientID, senderID); err != nil {
		return fmt.Errorf("add friend: %w", err)
	}
	if _, err := s.friendRepo.AddFriend(ctx, senderID, recipientID); err != nil {
		return fmt.Errorf("add friend: %w", err)
	}
	if _, err := s.requestRepo.Dismiss(ctx, recipientID, senderID); err != nil {
		return fmt.Errorf("dismiss friend request: %w", err)
	}
	return nil
}

func (s *SocialService) DismissFriendRequest(ctx context.Context, recipientID, senderID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.DismissFriendRequest")
	defer span.End()

	recipientID = strings.TrimSpace(recipientID)
	senderID = strings.TrimSpace(senderID)
	if recipientID == "" || senderID == "" {
		return fmt.Errorf("%w: recipient id and sender id are required", ErrInvalidInput)
	}

	existed, err := s.requestRepo.Dismiss(ctx, recipientID, senderID)
	if err != nil {
		return fmt.Errorf("dismiss friend request: %w", err)
	}
	if !existed {
		return fmt.Errorf("%w: friend request from %s", ErrNotFound, senderID)
	}
	return nil
}

func (s *SocialService) ListFriendRequests(ctx context.Context, recipientID string) ([]social.FriendRequest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.ListFriendRequests")
	defer span.End()

	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return nil, fmt.Errorf("%w: recipient id is required", ErrInvalidInput)
	}

	items, err := s.requestRepo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	pending := items[:0]
	for _, item := range items {
		if !item.Dismissed {
			pending = append(pending, item)
		}
	}
	return pending, nil
}

// ListFriends resolves the caller's friend list to user records. Friends
// whose account has since disappeared are skipped.
func (s *SocialService) ListFriends(ctx context.Context, userID string) ([]user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.ListFriends")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	friendIDs, err := s.friendRepo.ListFriends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}

	friends := make([]user.User, 0, len(friendIDs))
	for _, friendID := range friendIDs {
		item, exists, err := s.userRepo.GetByID(ctx, friendID)
		if err != nil {
			return nil, fmt.Errorf("get friend %s: %w", friendID, err)
		}
		if !exists {
			continue
		}
		friends = append(friends, item)
	}
	return friends, nil
}
