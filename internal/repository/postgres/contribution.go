package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"giftbot/internal/models"
	"giftbot/internal/repository"
)

type contributionRepository struct {
	db *sql.DB
}

// NewContributionRepository creates a new contribution repository
func NewContributionRepository(db *sql.DB) repository.ContributionRepository {
	return &contributionRepository{db: db}
}

func (r *contributionRepository) Upsert(ctx context.Context, c *models.Contribution) (*models.Contribution, error) {
	query := `
		INSERT INTO contributions (gift_id, user_id, user_name, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (gift_id, user_id)
		DO UPDATE SET user_name = EXCLUDED.user_name, amount = EXCLUDED.amount
		RETURNING id, created_at`

	c.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		c.GiftID,
		c.UserID,
		c.UserName,
		c.Amount,
		c.CreatedAt,
	).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert contribution: %w", err)
	}

	return c, nil
}

func (r *contributionRepository) Get(ctx context.Context, giftID, userID int64) (*models.Contribution, error) {
	query := `
		SELECT id, gift_id, user_id, user_name, amount, created_at
		FROM contributions
		WHERE gift_id = $1 AND user_id = $2`

	c := &models.Contribution{}
	err := r.db.QueryRowContext(ctx, query, giftID, userID).Scan(
		&c.ID,
		&c.GiftID,
		&c.UserID,
		&c.UserName,
		&c.Amount,
		&c.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contribution: %w", err)
	}

	return c, nil
}

func (r *contributionRepository) ListByGift(ctx context.Context, giftID int64) ([]*models.Contribution, error) {
	query := `
		SELECT id, gift_id, user_id, user_name, amount, created_at
		FROM contributions
		WHERE gift_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, giftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributions: %w", err)
	}
	defer rows.Close()

	var contributions []*models.Contribution
	for rows.Next() {
		c := &models.Contribution{}
		if err := rows.Scan(
			&c.ID,
			&c.GiftID,
			&c.UserID,
			&c.UserName,
			&c.Amount,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, c)
	}

	return contributions, rows.Err()
}

func (r *contributionRepository) SetAmount(ctx context.Context, giftID, userID int64, amount int) error {
	query := `
		UPDATE contributions SET amount = $3
		WHERE gift_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, giftID, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to set contribution amount: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("contribution for gift %d by user %d not found", giftID, userID)
	}

	return nil
}

// Withdraw deletes the contribution and resets the gift to available when
// no contributors remain. One transaction, so two simultaneous withdrawals
// cannot race past each other and leave a claimed gift with no
// contributors.
func (r *contributionRepository) Withdraw(ctx context.Context, giftID, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM contributions WHERE gift_id = $1 AND user_id = $2`, giftID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contribution: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("contribution for gift %d by user %d not found", giftID, userID)
	}

	var remaining int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contributions WHERE gift_id = $1`, giftID).Scan(&remaining); err != nil {
		return fmt.Errorf("failed to count remaining contributions: %w", err)
	}

	if remaining == 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE gifts SET status = $2 WHERE id = $1`,
			giftID, models.GiftStatusAvailable); err != nil {
			return fmt.Errorf("failed to reset gift status: %w", err)
		}
	}

	return tx.Commit()
}
