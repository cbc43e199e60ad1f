package models

import "time"

// Participant is an actor recorded in the directory the first time they
// open a session. Recorded regardless of ban status so admins can ban by
// selection later.
type Participant struct {
	UserID    int64     `json:"user_id" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	Name      string    `json:"name" db:"name"`
	ChatID    int64     `json:"chat_id" db:"chat_id"`
	FirstSeen time.Time `json:"first_seen" db:"first_seen"`
}

// DisplayName returns the best display name for the participant.
func (p *Participant) DisplayName() string {
	if p.Username != "" {
		return "@" + p.Username
	}
	return p.Name
}

// BannedUser is an actor denied all feature access, typically the gift
// recipient, kept out so the coordination stays a surprise.
type BannedUser struct {
	UserID   int64     `json:"user_id" db:"user_id"`
	Name     string    `json:"name" db:"name"`
	BannedAt time.Time `json:"banned_at" db:"banned_at"`
}

// Admin is an actor with moderation and destructive-operation capability.
type Admin struct {
	UserID  int64     `json:"user_id" db:"user_id"`
	Name    string    `json:"name" db:"name"`
	AddedAt time.Time `json:"added_at" db:"added_at"`
}
