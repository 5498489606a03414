package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leaderboard", handler.GetLeaderboard)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedChallengeRoutes(mux, handler, verifier)
	registerAuthorizedFriendChallengeRoutes(mux, handler, verifier)
	registerAuthorizedAccountRoutes(mux, handler, verifier)
	registerAuthorizedSocialRoutes(mux, handler, verifier)
	registerAuthorizedStatsRoutes(mux, handler, verifier)
	registerAuthorizedGearRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/challenges/{namespace}/create", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCreateChallengeJob)))
	mux.Handle("POST /v1/internal/jobs/challenges/sweep", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSweepJob)))
	mux.Handle("POST /v1/internal/jobs/leaderboard/update", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLeaderboardUpdateJob)))
	mux.Handle("GET /v1/internal/admin/coin-stats", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetCoinStats)))
}

func registerAuthorizedChallengeRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/challenges/{namespace}", RequireAuth(verifier, http.HandlerFunc(handler.ListChallenges)))
	mux.Handle("GET /v1/challenges/{namespace}/{challengeID}", RequireAuth(verifier, http.HandlerFunc(handler.GetChallenge)))
	mux.Handle("POST /v1/challenges/{namespace}/{challengeID}/scores", RequireAuth(verifier, http.HandlerFunc(handler.SubmitChallengeScore)))
	mux.Handle("GET /v1/challenges/{namespace}/{challengeID}/scores", RequireAuth(verifier, http.HandlerFunc(handler.GetChallengeScoreboard)))
	mux.Handle("GET /v1/challenges/{namespace}/{challengeID}/scores/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyChallengeScore)))
}

func registerAuthorizedFriendChallengeRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/friend-challenges", RequireAuth(verifier, http.HandlerFunc(handler.CreateFriendChallenge)))
	mux.Handle("GET /v1/friend-challenges", RequireAuth(verifier, http.HandlerFunc(handler.ListFriendChallenges)))
	mux.Handle("GET /v1/friend-challenges/{challengeID}", RequireAuth(verifier, http.HandlerFunc(handler.GetFriendChallenge)))
	mux.Handle("POST /v1/friend-challenges/{challengeID}/accept", RequireAuth(verifier, http.HandlerFunc(handler.AcceptFriendChallenge)))
	mux.Handle("POST /v1/friend-challenges/{challengeID}/decline", RequireAuth(verifier, http.HandlerFunc(handler.DeclineFriendChallenge)))
	mux.Handle("POST /v1/friend-challenges/{challengeID}/scores", RequireAuth(verifier, http.HandlerFunc(handler.SubmitFriendChallengeScore)))
}

func registerAuthorizedAccountRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/users/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMe)))
	mux.Handle("POST /v1/users/me/coins", RequireAuth(verifier, http.HandlerFunc(handler.AdjustCoins)))
	mux.Handle("GET /v1/notifications", RequireAuth(verifier, http.HandlerFunc(handler.ListNotifications)))
	mux.Handle("DELETE /v1/notifications/{notificationID}", RequireAuth(verifier, http.HandlerFunc(handler.DismissNotification)))
	mux.Handle("POST /v1/notifications/dismissals", RequireAuth(verifier, http.HandlerFunc(handler.DismissNotifications)))
	mux.Handle("PUT /v1/devices/token", RequireAuth(verifier, http.HandlerFunc(handler.RegisterDeviceToken)))
}

func registerAuthorizedSocialRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/users/search", RequireAuth(verifier, http.HandlerFunc(handler.SearchUsers)))
	mux.Handle("GET /v1/friends", RequireAuth(verifier, http.HandlerFunc(handler.ListFriends)))
	mux.Handle("POST /v1/friend-requests", RequireAuth(verifier, http.HandlerFunc(handler.SendFriendRequest)))
	mux.Handle("GET /v1/friend-requests", RequireAuth(verifier, http.HandlerFunc(handler.ListFriendRequests)))
	mux.Handle("POST /v1/friend-requests/{senderID}/accept", RequireAuth(verifier, http.HandlerFunc(handler.AcceptFriendRequest)))
	mux.Handle("POST /v1/friend-requests/{senderID}/dismiss", RequireAuth(verifier, http.HandlerFunc(handler.DismissFriendRequest)))
}

func registerAuthorizedStatsRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/stats/rounds", RequireAuth(verifier, http.HandlerFunc(handler.RecordRound)))
	mux.Handle("GET /v1/stats/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyStats)))
}

func registerAuthorizedGearRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/lootboxes/purchases", RequireAuth(verifier, http.HandlerFunc(handler.BuyLootBox)))
	mux.Handle("POST /v1/lootboxes/open", RequireAuth(verifier, http.HandlerFunc(handler.OpenLootBox)))
	mux.Handle("GET /v1/gear", RequireAuth(verifier, http.HandlerFunc(handler.ListUnlockedGear)))
	mux.Handle("PUT /v1/gear/{itemID}/equipped", RequireAuth(verifier, http.HandlerFunc(handler.EquipGear)))
}
