package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/melechlapson/CastNCatch/internal/domain/notification"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func encodeNotificationData(value map[string]string) string {
	if len(value) == 0 {
		return "{}"
	}
	encoded, err := sonic.Marshal(value)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func decodeNotificationData(raw string) map[string]string {
	if raw == "" || raw == "{}" {
		return nil
	}
	out := make(map[string]string)
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func toNotification(row notificationTableModel) notification.Notification {
	return notification.Notification{
		ID:        row.PublicID,
		UserID:    row.UserID,
		Category:  row.Category,
		Message:   row.Message,
		Date:      row.Date,
		Dismissed: row.Dismissed,
		Data:      decodeNotificationData(row.Data),
	}
}

func (r *NotificationRepository) Insert(ctx context.Context, item notification.Notification) error {
	const query = `
		INSERT INTO notifications (public_id, user_id, category, message, data, date, dismissed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.UserID,
		item.Category,
		item.Message,
		encodeNotificationData(item.Data),
		item.Date,
		item.Dismissed,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]notification.Notification, error) {
	const query = `
		SELECT * FROM notifications
		WHERE user_id = $1
		ORDER BY date, id`

	var rows []notificationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}

	out := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, toNotification(row))
	}

	return out, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, userID, notificationID string) (bool, error) {
	const query = `DELETE FROM notifications WHERE user_id = $1 AND public_id = $2`

	res, err := r.db.ExecContext(ctx, query, userID, notificationID)
	if err != nil {
		return false, fmt.Errorf("delete notification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete notification rows affected: %w", err)
	}

	return affected > 0, nil
}

type DeviceTokenRepository struct {
	db *sqlx.DB
}

func NewDeviceTokenRepository(db *sqlx.DB) *DeviceTokenRepository {
	return &DeviceTokenRepository{db: db}
}

func (r *DeviceTokenRepository) ListByUser(ctx context.Context, userID string) ([]string, error) {
	const query = `
		SELECT token FROM device_tokens
		WHERE user_id = $1
		ORDER BY position`

	var tokens []string
	if err := r.db.SelectContext(ctx, &tokens, query, userID); err != nil {
		return nil, fmt.Errorf("select device tokens: %w", err)
	}

	return tokens, nil
}

func (r *DeviceTokenRepository) Replace(ctx context.Context, userID string, tokens []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tokens tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM device_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete device tokens: %w", err)
	}
	const insertQuery = `
		INSERT INTO device_tokens (user_id, token, position)
		VALUES ($1, $2, $3)`
	for i, token := range tokens {
		if _, err := tx.ExecContext(ctx, insertQuery, userID, token, i); err != nil {
			return fmt.Errorf("insert device token: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace tokens tx: %w", err)
	}

	return nil
}
