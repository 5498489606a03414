package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/melechlapson/CastNCatch/internal/domain/challenge"
	"github.com/melechlapson/CastNCatch/internal/domain/friendchallenge"
	"github.com/melechlapson/CastNCatch/internal/domain/gear"
	"github.com/melechlapson/CastNCatch/internal/domain/leaderboard"
	"github.com/melechlapson/CastNCatch/internal/domain/notification"
	"github.com/melechlapson/CastNCatch/internal/domain/social"
	"github.com/melechlapson/CastNCatch/internal/domain/stats"
	"github.com/melechlapson/CastNCatch/internal/domain/user"
)

type seqIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

type challengeKey struct {
	ns challenge.Namespace
	id string
}

type stubChallengeRepository struct {
	mu    sync.Mutex
	items map[challengeKey]challenge.Challenge
	order []challengeKey
}

func newStubChallengeRepository() *stubChallengeRepository {
	return &stubChallengeRepository{items: make(map[challengeKey]challenge.Challenge)}
}

func (r *stubChallengeRepository) Create(_ context.Context, item challenge.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := challengeKey{ns: item.Namespace, id: item.ID}
	if _, ok := r.items[key]; !ok {
		r.order = append(r.order, key)
	}
	r.items[key] = item
	return nil
}

func (r *stubChallengeRepository) GetByID(_ context.Context, ns challenge.Namespace, challengeID string) (challenge.Challenge, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[challengeKey{ns: ns, id: challengeID}]
	return item, ok, nil
}

func (r *stubChallengeRepository) ListActive(_ context.Context, ns challenge.Namespace, now time.Time) ([]challenge.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []challenge.Challenge
	for _, key := range r.order {
		item := r.items[key]
		if key.ns == ns && !item.Expired(now) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubChallengeRepository) ListIncomplete(_ context.Context, ns challenge.Namespace) ([]challenge.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []challenge.Challenge
	for _, key := range r.order {
		item := r.items[key]
		if key.ns == ns && !item.Completed {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubChallengeRepository) MarkCompleted(_ context.Context, ns challenge.Namespace, challengeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := challengeKey{ns: ns, id: challengeID}
	item, ok := r.items[key]
	if !ok {
		return errors.New("challenge missing")
	}
	item.Completed = true
	r.items[key] = item
	return nil
}

type stubScoreRepository struct {
	mu     sync.Mutex
	scores map[challengeKey][]challenge.Score
}

func newStubScoreRepository() *stubScoreRepository {
	return &stubScoreRepository{scores: make(map[challengeKey][]challenge.Score)}
}

func (r *stubScoreRepository) Get(_ context.Context, ns challenge.Namespace, challengeID, playerID string) (challenge.Score, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.scores[challengeKey{ns: ns, id: challengeID}] {
		if s.PlayerID == playerID {
			return s, true, nil
		}
	}
	return challenge.Score{}, false, nil
}

func (r *stubScoreRepository) List(_ context.Context, ns challenge.Namespace, challengeID string) ([]challenge.Score, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.scores[challengeKey{ns: ns, id: challengeID}]
	out := make([]challenge.Score, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *stubScoreRepository) Insert(_ context.Context, ns challenge.Namespace, score challenge.Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := challengeKey{ns: ns, id: score.ChallengeID}
	for _, s := range r.scores[key] {
		if s.PlayerID == score.PlayerID {
			return errors.New("duplicate score")
		}
	}
	r.scores[key] = append(r.scores[key], score)
	return nil
}

func (r *stubScoreRepository) SetCoins(_ context.Context, ns challenge.Namespace, challengeID, playerID string, coins int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := challengeKey{ns: ns, id: challengeID}
	rows := r.scores[key]
	for i := range rows {
		if rows[i].PlayerID == playerID {
			value := coins
			rows[i].Coins = &value
			return nil
		}
	}
	return errors.New("score missing")
}

type stubLocationRepository struct {
	keys []string
}

func (r *stubLocationRepository) ListKeys(_ context.Context) ([]string, error) {
	return append([]string(nil), r.keys...), nil
}

type stubUserRepository struct {
	mu    sync.Mutex
	users map[string]user.User
}

func newStubUserRepository(users ...user.User) *stubUserRepository {
	r := &stubUserRepository{users: make(map[string]user.User)}
	for _, u := range users {
		if u.SearchName == "" {
			u.SearchName = strings.ToLower(u.DisplayName)
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	return u, ok, nil
}

func (r *stubUserRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepository) SearchByNamePrefix(_ context.Context, prefix string, limit int) ([]user.User, error) {
	users, _ := r.List(context.Background())
	var out []user.User
	for _, u := range users {
		if strings.HasPrefix(u.SearchName, prefix) {
			out = append(out, u)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubUserRepository) AddCoins(_ context.Context, userID string, delta int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return 0, false, errors.New("user missing")
	}
	next := u.Coins + delta
	clamped := false
	if next < 0 {
		next = 0
		clamped = true
	}
	u.Coins = next
	r.users[userID] = u
	return next, clamped, nil
}

func (r *stubUserRepository) PurchaseLootBox(_ context.Context, userID string, price int) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return user.User{}, false, errors.New("user missing")
	}
	if u.Coins < price {
		return u, false, nil
	}
	u.Coins -= price
	u.LootBoxes++
	r.users[userID] = u
	return u, true, nil
}

func (r *stubUserRepository) ConsumeLootBox(_ context.Context, userID string) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return 0, false, errors.New("user missing")
	}
	if u.LootBoxes == 0 {
		return 0, false, nil
	}
	u.LootBoxes--
	r.users[userID] = u
	return u.LootBoxes, true, nil
}

func (r *stubUserRepository) coins(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[userID].Coins
}

type stubFriendChallengeRepository struct {
	mu    sync.Mutex
	items map[string]friendchallenge.FriendChallenge
	order []string
}

func newStubFriendChallengeRepository() *stubFriendChallengeRepository {
	return &stubFriendChallengeRepository{items: make(map[string]friendchallenge.FriendChallenge)}
}

func (r *stubFriendChallengeRepository) Create(_ context.Context, item friendchallenge.FriendChallenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = item
	return nil
}

func (r *stubFriendChallengeRepository) GetByID(_ context.Context, challengeID string) (friendchallenge.FriendChallenge, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[challengeID]
	return item, ok, nil
}

func (r *stubFriendChallengeRepository) HasActive(_ context.Context, challengerID, recipientID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Challenger == challengerID && item.Recipient == recipientID && !item.Completed {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubFriendChallengeRepository) ListActiveByChallenger(_ context.Context, userID string) ([]friendchallenge.FriendChallenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []friendchallenge.FriendChallenge
	for _, id := range r.order {
		item := r.items[id]
		if item.Challenger == userID && !item.Completed {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubFriendChallengeRepository) ListActiveByRecipient(_ context.Context, userID string) ([]friendchallenge.FriendChallenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []friendchallenge.FriendChallenge
	for _, id := range r.order {
		item := r.items[id]
		if item.Recipient == userID && !item.Completed {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubFriendChallengeRepository) SetAccepted(_ context.Context, challengeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[challengeID]
	if !ok {
		return errors.New("friend challenge missing")
	}
	item.Accepted = true
	r.items[challengeID] = item
	return nil
}

func (r *stubFriendChallengeRepository) AppendScore(_ context.Context, challengeID string, score friendchallenge.Score, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[challengeID]
	if !ok {
		return errors.New("friend challenge missing")
	}
	item.Scores = append(item.Scores, score)
	item.Completed = completed
	r.items[challengeID] = item
	return nil
}

func (r *stubFriendChallengeRepository) Delete(_ context.Context, challengeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, challengeID)
	for i, id := range r.order {
		if id == challengeID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type stubNotificationRepository struct {
	mu    sync.Mutex
	items []notification.Notification
}

func (r *stubNotificationRepository) Insert(_ context.Context, item notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
	return nil
}

func (r *stubNotificationRepository) ListByUser(_ context.Context, userID string) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.Notification
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubNotificationRepository) Delete(_ context.Context, userID, notificationID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, item := range r.items {
		if item.UserID == userID && item.ID == notificationID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *stubNotificationRepository) byUser(userID string) []notification.Notification {
	out, _ := r.ListByUser(context.Background(), userID)
	return out
}

type stubDeviceTokenRepository struct {
	mu     sync.Mutex
	tokens map[string][]string
}

func newStubDeviceTokenRepository() *stubDeviceTokenRepository {
	return &stubDeviceTokenRepository{tokens: make(map[string][]string)}
}

func (r *stubDeviceTokenRepository) ListByUser(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.tokens[userID]...), nil
}

func (r *stubDeviceTokenRepository) Replace(_ context.Context, userID string, tokens []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[userID] = append([]string(nil), tokens...)
	return nil
}

type pushCall struct {
	tokens   []string
	category string
	message  string
}

type stubPushSender struct {
	mu      sync.Mutex
	calls   []pushCall
	failErr error
}

func (p *stubPushSender) Send(_ context.Context, tokens []string, category, message string, _ map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, pushCall{tokens: tokens, category: category, message: message})
	return p.failErr
}

func (p *stubPushSender) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type requestKey struct {
	recipientID string
	senderID    string
}

type stubRequestRepository struct {
	mu    sync.Mutex
	items map[requestKey]social.FriendRequest
}

func newStubRequestRepository() *stubRequestRepository {
	return &stubRequestRepository{items: make(map[requestKey]social.FriendRequest)}
}

func (r *stubRequestRepository) Get(_ context.Context, recipientID, senderID string) (social.FriendRequest, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[requestKey{recipientID: recipientID, senderID: senderID}]
	return item, ok, nil
}

func (r *stubRequestRepository) Upsert(_ context.Context, item social.FriendRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[requestKey{recipientID: item.RecipientID, senderID: item.SenderID}] = item
	return nil
}

func (r *stubRequestRepository) ListByRecipient(_ context.Context, recipientID string) ([]social.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []social.FriendRequest
	for key, item := range r.items {
		if key.recipientID == recipientID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SenderID < out[j].SenderID })
	return out, nil
}

func (r *stubRequestRepository) Dismiss(_ context.Context, recipientID, senderID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := requestKey{recipientID: recipientID, senderID: senderID}
	item, ok := r.items[key]
	if !ok {
		return false, nil
	}
	item.Dismissed = true
	r.items[key] = item
	return true, nil
}

type stubFriendRepository struct {
	mu      sync.Mutex
	friends map[string][]string
}

func newStubFriendRepository() *stubFriendRepository {
	return &stubFriendRepository{friends: make(map[string][]string)}
}

func (r *stubFriendRepository) ListFriends(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.friends[userID]...), nil
}

func (r *stubFriendRepository) AddFriend(_ context.Context, userID, friendID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.friends[userID] {
		if existing == friendID {
			return false, nil
		}
	}
	r.friends[userID] = append(r.friends[userID], friendID)
	return true, nil
}

type stubStatsRepository struct {
	mu    sync.Mutex
	items map[string]stats.UserStats
}

func newStubStatsRepository() *stubStatsRepository {
	return &stubStatsRepository{items: make(map[string]stats.UserStats)}
}

func (r *stubStatsRepository) Get(_ context.Context, userID string) (stats.UserStats, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[userID]
	return item, ok, nil
}

func (r *stubStatsRepository) Save(_ context.Context, item stats.UserStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.UserID] = item
	return nil
}

func (r *stubStatsRepository) ListTopByOunces(_ context.Context, limit int) ([]stats.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stats.UserStats, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalOunces > out[j].TotalOunces })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubLeaderboardRepository struct {
	mu      sync.Mutex
	entries []leaderboard.Entry
}

func (r *stubLeaderboardRepository) Replace(_ context.Context, entries []leaderboard.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append([]leaderboard.Entry(nil), entries...)
	return nil
}

func (r *stubLeaderboardRepository) List(_ context.Context) ([]leaderboard.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]leaderboard.Entry(nil), r.entries...), nil
}

type stubGearRepository struct {
	mu       sync.Mutex
	catalog  []gear.Item
	unlocked map[string][]gear.Unlock
}

func newStubGearRepository(catalog ...gear.Item) *stubGearRepository {
	return &stubGearRepository{catalog: catalog, unlocked: make(map[string][]gear.Unlock)}
}

func (r *stubGearRepository) ListItems(_ context.Context) ([]gear.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]gear.Item(nil), r.catalog...), nil
}

func (r *stubGearRepository) ListUnlocked(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, u := range r.unlocked[userID] {
		out = append(out, u.ItemID)
	}
	return out, nil
}

func (r *stubGearRepository) Unlock(_ context.Context, item gear.Unlock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unlocked[item.UserID] = append(r.unlocked[item.UserID], item)
	return nil
}

func (r *stubGearRepository) SetEquipped(_ context.Context, userID, itemID string, equipped bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.unlocked[userID]
	for i := range rows {
		if rows[i].ItemID == itemID {
			rows[i].IsEquipped = equipped
			return true, nil
		}
	}
	return false, nil
}

func newTestNotifier(notifRepo *stubNotificationRepository, tokenRepo *stubDeviceTokenRepository, push *stubPushSender) *NotificationService {
	return NewNotificationService(notifRepo, tokenRepo, push, &seqIDGenerator{}, nil)
}
