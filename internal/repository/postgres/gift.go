package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"giftbot/internal/models"
	"giftbot/internal/repository"
)

type giftRepository struct {
	db *sql.DB
}

// NewGiftRepository creates a new gift repository
func NewGiftRepository(db *sql.DB) repository.GiftRepository {
	return &giftRepository{db: db}
}

// statusRankCase orders gifts the way the list view shows them: available
// first, then claimed, bought, already_has.
const statusRankCase = `
	CASE status
		WHEN 'available' THEN 1
		WHEN 'claimed' THEN 2
		WHEN 'bought' THEN 3
		WHEN 'already_has' THEN 4
		ELSE 5
	END`

func (r *giftRepository) Create(ctx context.Context, gift *models.Gift) (*models.Gift, error) {
	query := `
		INSERT INTO gifts (name, price, category, status, added_by_id, added_by_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	if gift.Category == "" {
		gift.Category = models.CategoryOther
	}
	gift.Status = models.GiftStatusAvailable
	gift.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		gift.Name,
		gift.Price,
		gift.Category,
		gift.Status,
		gift.AddedByID,
		gift.AddedByName,
		gift.CreatedAt,
	).Scan(&gift.ID, &gift.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create gift: %w", err)
	}

	return gift, nil
}

func (r *giftRepository) GetByID(ctx context.Context, id int64) (*models.Gift, error) {
	query := `
		SELECT id, name, price, category, status, added_by_id, added_by_name, created_at
		FROM gifts
		WHERE id = $1`

	gift := &models.Gift{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&gift.ID,
		&gift.Name,
		&gift.Price,
		&gift.Category,
		&gift.Status,
		&gift.AddedByID,
		&gift.AddedByName,
		&gift.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get gift by ID: %w", err)
	}

	return gift, nil
}

func (r *giftRepository) List(ctx context.Context) ([]*models.Gift, error) {
	query := `
		SELECT id, name, price, category, status, added_by_id, added_by_name, created_at
		FROM gifts
		ORDER BY ` + statusRankCase + `, category, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query gifts: %w", err)
	}
	defer rows.Close()

	var gifts []*models.Gift
	for rows.Next() {
		gift := &models.Gift{}
		if err := rows.Scan(
			&gift.ID,
			&gift.Name,
			&gift.Price,
			&gift.Category,
			&gift.Status,
			&gift.AddedByID,
			&gift.AddedByName,
			&gift.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan gift: %w", err)
		}
		gifts = append(gifts, gift)
	}

	return gifts, rows.Err()
}

func (r *giftRepository) ListByContributor(ctx context.Context, userID int64) ([]*models.Gift, error) {
	query := `
		SELECT g.id, g.name, g.price, g.category, g.status, g.added_by_id, g.added_by_name, g.created_at, c.amount
		FROM gifts g
		JOIN contributions c ON g.id = c.gift_id
		WHERE c.user_id = $1
		ORDER BY ` + statusRankCase + `, g.name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gifts by contributor: %w", err)
	}
	defer rows.Close()

	var gifts []*models.Gift
	for rows.Next() {
		gift := &models.Gift{}
		if err := rows.Scan(
			&gift.ID,
			&gift.Name,
			&gift.Price,
			&gift.Category,
			&gift.Status,
			&gift.AddedByID,
			&gift.AddedByName,
			&gift.CreatedAt,
			&gift.ViewerAmount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan gift: %w", err)
		}
		gifts = append(gifts, gift)
	}

	return gifts, rows.Err()
}

func (r *giftRepository) SetStatus(ctx context.Context, id int64, status models.GiftStatus) error {
	query := `UPDATE gifts SET status = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to set gift status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("gift with ID %d not found", id)
	}

	return nil
}

// MarkAlreadyHas flips the gift to already_has and wipes its contributions.
// A single transaction keeps the status/contributor-set invariant intact
// even if the process dies mid-transition.
func (r *giftRepository) MarkAlreadyHas(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE gifts SET status = $2 WHERE id = $1`, id, models.GiftStatusAlreadyHas)
	if err != nil {
		return fmt.Errorf("failed to set gift status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("gift with ID %d not found", id)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM contributions WHERE gift_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete contributions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete removes the gift and its contributions in one transaction.
func (r *giftRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM contributions WHERE gift_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete contributions: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM gifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete gift: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("gift with ID %d not found", id)
	}

	return tx.Commit()
}
