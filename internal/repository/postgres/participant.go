package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"giftbot/internal/models"
	"giftbot/internal/repository"
)

type participantRepository struct {
	db *sql.DB
}

// NewParticipantRepository creates a new participant directory repository
func NewParticipantRepository(db *sql.DB) repository.ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Upsert(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (user_id, username, name, chat_id, first_seen)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET username = EXCLUDED.username, name = EXCLUDED.name, chat_id = EXCLUDED.chat_id`

	if p.FirstSeen.IsZero() {
		p.FirstSeen = time.Now()
	}

	if _, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Username, p.Name, p.ChatID, p.FirstSeen); err != nil {
		return fmt.Errorf("failed to upsert participant: %w", err)
	}

	return nil
}

func (r *participantRepository) Get(ctx context.Context, userID int64) (*models.Participant, error) {
	query := `
		SELECT user_id, username, name, chat_id, first_seen
		FROM participants
		WHERE user_id = $1`

	p := &models.Participant{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.Username,
		&p.Name,
		&p.ChatID,
		&p.FirstSeen,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	return p, nil
}

func (r *participantRepository) List(ctx context.Context) ([]*models.Participant, error) {
	query := `
		SELECT user_id, username, name, chat_id, first_seen
		FROM participants
		ORDER BY first_seen ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		p := &models.Participant{}
		if err := rows.Scan(
			&p.UserID,
			&p.Username,
			&p.Name,
			&p.ChatID,
			&p.FirstSeen,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}
