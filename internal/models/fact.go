package models

import "time"

// Fact length bounds, inclusive.
const (
	FactMinLength = 5
	FactMaxLength = 500
)

// Fact is a free-text piece of trivia about the gift recipient.
// Append-and-list only; no edit or delete is exposed to ordinary actors.
type Fact struct {
	ID        int64     `json:"id" db:"id"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
