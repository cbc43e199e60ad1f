package models

import "time"

// Contribution represents an actor's claim or pledge toward a gift.
// At most one contribution exists per (gift, user) pair.
type Contribution struct {
	ID        int64     `json:"id" db:"id"`
	GiftID    int64     `json:"gift_id" db:"gift_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	UserName  string    `json:"user_name" db:"user_name"`
	Amount    *int      `json:"amount" db:"amount"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
