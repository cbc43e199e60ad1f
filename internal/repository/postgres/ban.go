package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"giftbot/internal/models"
	"giftbot/internal/repository"
)

type banRepository struct {
	db *sql.DB
}

// NewBanRepository creates a new banned-user repository
func NewBanRepository(db *sql.DB) repository.BanRepository {
	return &banRepository{db: db}
}

func (r *banRepository) Ban(ctx context.Context, userID int64, name string) error {
	query := `
		INSERT INTO banned_users (user_id, name, banned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET name = EXCLUDED.name`

	if _, err := r.db.ExecContext(ctx, query, userID, name, time.Now()); err != nil {
		return fmt.Errorf("failed to ban user: %w", err)
	}

	return nil
}

func (r *banRepository) Unban(ctx context.Context, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM banned_users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to unban user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user %d is not banned", userID)
	}

	return nil
}

func (r *banRepository) IsBanned(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM banned_users WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ban status: %w", err)
	}
	return exists, nil
}

func (r *banRepository) List(ctx context.Context) ([]*models.BannedUser, error) {
	query := `
		SELECT user_id, name, banned_at
		FROM banned_users
		ORDER BY banned_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query banned users: %w", err)
	}
	defer rows.Close()

	var banned []*models.BannedUser
	for rows.Next() {
		b := &models.BannedUser{}
		if err := rows.Scan(&b.UserID, &b.Name, &b.BannedAt); err != nil {
			return nil, fmt.Errorf("failed to scan banned user: %w", err)
		}
		banned = append(banned, b)
	}

	return banned, rows.Err()
}

type adminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a new administrator repository
func NewAdminRepository(db *sql.DB) repository.AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Add(ctx context.Context, userID int64, name string) error {
	query := `
		INSERT INTO admins (user_id, name, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET name = EXCLUDED.name`

	if _, err := r.db.ExecContext(ctx, query, userID, name, time.Now()); err != nil {
		return fmt.Errorf("failed to add admin: %w", err)
	}

	return nil
}

func (r *adminRepository) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM admins WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check admin status: %w", err)
	}
	return exists, nil
}

func (r *adminRepository) HasAny(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM admins)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for admins: %w", err)
	}
	return exists, nil
}

func (r *adminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	query := `
		SELECT user_id, name, added_at
		FROM admins
		ORDER BY added_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query admins: %w", err)
	}
	defer rows.Close()

	var admins []*models.Admin
	for rows.Next() {
		a := &models.Admin{}
		if err := rows.Scan(&a.UserID, &a.Name, &a.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, a)
	}

	return admins, rows.Err()
}
