package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/melechlapson/CastNCatch/internal/domain/notification"
)

func TestNotificationService_Notify_PushFailureKeepsNotification(t *testing.T) {
	t.Parallel()

	notifRepo := &stubNotificationRepository{}
	tokenRepo := newStubDeviceTokenRepository()
	push := &stubPushSender{failErr: errors.New("fcm unreachable")}
	service := newTestNotifier(notifRepo, tokenRepo, push)

	if err := tokenRepo.Replace(context.Background(), "angler-1", []string{"tok-1"}); err != nil {
		t.Fatalf("seed tokens: %v", err)
	}

	err := service.Notify(context.Background(), "angler-1", notification.CategoryChallengeResults, "You received 10 coins for placing 1st in a challenge.", nil)
	if err != nil {
		t.Fatalf("Notify must not fail on push errors: %v", err)
	}

	inbox := notifRepo.byUser("angler-1")
	if len(inbox) != 1 {
		t.Fatalf("notification not persisted: %d", len(inbox))
	}
	if push.callCount() != 1 {
		t.Fatalf("push not attempted: %d calls", push.callCount())
	}
}

func TestNotificationService_Notify_SkipsPushWithoutTokens(t *testing.T) {
	t.Parallel()

	notifRepo := &stubNotificationRepository{}
	push := &stubPushSender{}
	service := newTestNotifier(notifRepo, newStubDeviceTokenRepository(), push)

	if err := service.Notify(context.Background(), "angler-1", notification.CategoryChallengeRequests, "hello", nil); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if push.callCount() != 0 {
		t.Fatalf("push must be skipped without tokens, got %d calls", push.callCount())
	}
	if len(notifRepo.byUser("angler-1")) != 1 {
		t.Fatal("notification must still be persisted")
	}
}

func TestNotificationService_RegisterDeviceToken_EvictsOldestPastCap(t *testing.T) {
	t.Parallel()

	tokenRepo := newStubDeviceTokenRepository()
	service := newTestNotifier(&stubNotificationRepository{}, tokenRepo, &stubPushSender{})

	for i := 0; i < notification.MaxDeviceTokens+2; i++ {
		token := fmt.Sprintf("tok-%d", i)
		if err := service.RegisterDeviceToken(context.Background(), "angler-1", token); err != nil {
			t.Fatalf("RegisterDeviceToken error: %v", err)
		}
	}

	got, err := tokenRepo.ListByUser(context.Background(), "angler-1")
	if err != nil {
		t.Fatalf("list tokens: %v", err)
	}
	want := []string{"tok-2", "tok-3", "tok-4", "tok-5", "tok-6"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected oldest tokens evicted, got %v", got)
	}
}

func TestNotificationService_RegisterDeviceToken_DeduplicatesResubmits(t *testing.T) {
	t.Parallel()

	tokenRepo := newStubDeviceTokenRepository()
	service := newTestNotifier(&stubNotificationRepository{}, tokenRepo, &stubPushSender{})

	for i := 0; i < 3; i++ {
		if err := service.RegisterDeviceToken(context.Background(), "angler-1", "tok-1"); err != nil {
			t.Fatalf("RegisterDeviceToken error: %v", err)
		}
	}
	got, _ := tokenRepo.ListByUser(context.Background(), "angler-1")
	if len(got) != 1 {
		t.Fatalf("token duplicated: %v", got)
	}
}

func TestNotificationService_DismissBatch_RemovesAllRequested(t *testing.T) {
	t.Parallel()

	notifRepo := &stubNotificationRepository{}
	service := newTestNotifier(notifRepo, newStubDeviceTokenRepository(), &stubPushSender{})

	for i := 0; i < 6; i++ {
		if err := service.Notify(context.Background(), "angler-1", notification.CategoryChallengeResults, fmt.Sprintf("msg %d", i), nil); err != nil {
			t.Fatalf("seed notification: %v", err)
		}
	}
	inbox := notifRepo.byUser("angler-1")
	ids := []string{inbox[0].ID, inbox[2].ID, inbox[4].ID, "unknown-id"}

	if err := service.DismissBatch(context.Background(), "angler-1", ids); err != nil {
		t.Fatalf("DismissBatch error: %v", err)
	}
	remaining := notifRepo.byUser("angler-1")
	if len(remaining) != 3 {
		t.Fatalf("expected 3 notifications left, got %d", len(remaining))
	}
}

func TestNotificationService_Dismiss_UnknownID(t *testing.T) {
	t.Parallel()

	service := newTestNotifier(&stubNotificationRepository{}, newStubDeviceTokenRepository(), &stubPushSender{})

	err := service.Dismiss(context.Background(), "angler-1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
