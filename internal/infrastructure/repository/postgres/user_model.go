package postgres

import "time"

type userTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	DisplayName string    `db:"display_name"`
	SearchName  string    `db:"search_name"`
	Coins       int       `db:"coins"`
	LootBoxes   int       `db:"loot_boxes"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
