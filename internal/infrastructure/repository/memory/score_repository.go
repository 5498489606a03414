package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/melechlapson/CastNCatch/internal/domain/challenge"
)

type ScoreRepository struct {
	mu     sync.RWMutex
	scores map[challengeKey][]challenge.Score
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{
		scores: make(map[challengeKey][]challenge.Score),
	}
}

func (r *ScoreRepository) Get(_ context.Context, ns challenge.Namespace, challengeID, playerID string) (challenge.Score, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.scores[challengeKey{ns: ns, id: challengeID}] {
		if s.PlayerID == playerID {
			return s, true, nil
		}
	}

	return challenge.Score{}, false, nil
}

func (r *ScoreRepository) List(_ context.Context, ns challenge.Namespace, challengeID string) ([]challenge.Score, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.scores[challengeKey{ns: ns, id: challengeID}]
	out := make([]challenge.Score, len(rows))
	copy(out, rows)

	return out, nil
}

func (r *ScoreRepository) Insert(_ context.Context, ns challenge.Namespace, score challenge.Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := challengeKey{ns: ns, id: score.ChallengeID}
	for _, s := range r.scores[key] {
		if s.PlayerID == score.PlayerID {
			return errors.New("score already exists for player")
		}
	}
	r.scores[key] = append(r.scores[key], score)

	return nil
}

func (r *ScoreRepository) SetCoins(_ context.Context, ns challenge.Namespace, challengeID, playerID string, coins int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.scores[challengeKey{ns: ns, id: challengeID}]
	for i := range rows {
		if rows[i].PlayerID == playerID {
			value := coins
			rows[i].Coins = &value
			return nil
		}
	}

	return errors.New("score not found")
}
