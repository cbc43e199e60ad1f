package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"giftbot/internal/models"
	"giftbot/internal/repository"
)

type factRepository struct {
	db *sql.DB
}

// NewFactRepository creates a new fact log repository
func NewFactRepository(db *sql.DB) repository.FactRepository {
	return &factRepository{db: db}
}

func (r *factRepository) Add(ctx context.Context, fact *models.Fact) (*models.Fact, error) {
	query := `
		INSERT INTO facts (author_id, text, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	fact.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		fact.AuthorID,
		fact.Text,
		fact.CreatedAt,
	).Scan(&fact.ID, &fact.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to add fact: %w", err)
	}

	return fact, nil
}

func (r *factRepository) List(ctx context.Context) ([]*models.Fact, error) {
	query := `
		SELECT id, author_id, text, created_at
		FROM facts
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts: %w", err)
	}
	defer rows.Close()

	var facts []*models.Fact
	for rows.Next() {
		f := &models.Fact{}
		if err := rows.Scan(&f.ID, &f.AuthorID, &f.Text, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		facts = append(facts, f)
	}

	return facts, rows.Err()
}

func (r *factRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM facts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count facts: %w", err)
	}
	return count, nil
}

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new statistics repository
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Stats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'available'),
			COUNT(*) FILTER (WHERE status = 'claimed'),
			COUNT(*) FILTER (WHERE status = 'bought'),
			COUNT(*) FILTER (WHERE status = 'already_has')
		FROM gifts`

	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.Total,
		&stats.Available,
		&stats.Claimed,
		&stats.Bought,
		&stats.AlreadyHas,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query gift counts: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT user_id), COALESCE(SUM(amount), 0) FROM contributions`).
		Scan(&stats.Participants, &stats.TotalAmount)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query contribution totals: %w", err)
	}

	return stats, nil
}
