package postgres

import "time"

type notificationTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	UserID    string    `db:"user_id"`
	Category  string    `db:"category"`
	Message   string    `db:"message"`
	Data      string    `db:"data"`
	Date      time.Time `db:"date"`
	Dismissed bool      `db:"dismissed"`
}

type deviceTokenTableModel struct {
	UserID    string    `db:"user_id"`
	Token     string    `db:"token"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
}
