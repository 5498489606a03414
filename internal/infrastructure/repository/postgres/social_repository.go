package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/melechlapson/CastNCatch/internal/domain/social"
)

type friendRequestTableModel struct {
	ID          int64     `db:"id"`
	RecipientID string    `db:"recipient_id"`
	SenderID    string    `db:"sender_id"`
	SenderName  string    `db:"sender_name"`
	Date        time.Time `db:"date"`
	Dismissed   bool      `db:"dismissed"`
}

func toFriendRequest(row friendRequestTableModel) social.FriendRequest {
	return social.FriendRequest{
		RecipientID: row.RecipientID,
		SenderID:    row.SenderID,
		SenderName:  row.SenderName,
		Date:        row.Date,
		Dismissed:   row.Dismissed,
	}
}

type FriendRequestRepository struct {
	db *sqlx.DB
}

func NewFriendRequestRepository(db *sqlx.DB) *FriendRequestRepository {
	return &FriendRequestRepository{db: db}
}

func (r *FriendRequestRepository) Get(ctx context.Context, recipientID, senderID string) (social.FriendRequest, bool, error) {
	const query = `SELECT * FROM friend_requests WHERE recipient_id = $1 AND sender_id = $2`

	var row friendRequestTableModel
	if err := r.db.GetContext(ctx, &row, query, recipientID, senderID); err != nil {
		if isNotFound(err) {
			return social.FriendRequest{}, false, nil
		}
		return social.FriendRequest{}, false, fmt.Errorf("get friend request: %w", err)
	}

	return toFriendRequest(row), true, nil
}

func (r *FriendRequestRepository) Upsert(ctx context.Context, item social.FriendRequest) error {
	const query = `
		INSERT INTO friend_requests (recipient_id, sender_id, sender_name, date, dismissed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (recipient_id, sender_id)
		DO UPDATE SET sender_name = EXCLUDED.sender_name, date = EXCLUDED.date, dismissed = EXCLUDED.dismissed`

	_, err := r.db.ExecContext(ctx, query,
		item.RecipientID,
		item.SenderID,
		item.SenderName,
		item.Date,
		item.Dismissed,
	)
	if err != nil {
		return fmt.Errorf("upsert friend request: %w", err)
	}

	return nil
}

func (r *FriendRequestRepository) ListByRecipient(ctx context.Context, recipientID string) ([]social.FriendRequest, error) {
	const query = `
		SELECT * FROM friend_requests
		WHERE recipient_id = $1
		ORDER BY date, id`

	var rows []friendRequestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, recipientID); err != nil {
		return nil, fmt.Errorf("select friend requests: %w", err)
	}

	out := make([]social.FriendRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, toFriendRequest(row))
	}

	return out, nil
}

func (r *FriendRequestRepository) Dismiss(ctx context.Context, recipientID, senderID string) (bool, error) {
	const query = `
		UPDATE friend_requests
		SET dismissed = TRUE
		WHERE recipient_id = $1 AND sender_id = $2`

	res, err := r.db.ExecContext(ctx, query, recipientID, senderID)
	if err != nil {
		return false, fmt.Errorf("dismiss friend request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("dismiss friend request rows affected: %w", err)
	}

	return affected > 0, nil
}

type FriendRepository struct {
	db *sqlx.DB
}

func NewFriendRepository(db *sqlx.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

func (r *FriendRepository) ListFriends(ctx context.Context, userID string) ([]string, error) {
	const query = `
		SELECT friend_id FROM friends
		WHERE user_id = $1
		ORDER BY id`

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("select friends: %w", err)
	}

	return out, nil
}

func (r *FriendRepository) AddFriend(ctx context.Context, userID, friendID string) (bool, error) {
	const query = `
		INSERT INTO friends (user_id, friend_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, friend_id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, userID, friendID)
	if err != nil {
		return false, fmt.Errorf("insert friend: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert friend rows affected: %w", err)
	}

	return affected > 0, nil
}
