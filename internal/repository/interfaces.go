package repository

import (
	"context"

	"giftbot/internal/models"
)

// GiftRepository defines the interface for gift data operations.
//
// MarkAlreadyHas and Delete are multi-statement transitions (status change
// plus contribution cleanup) and must be applied atomically by the
// implementation.
type GiftRepository interface {
	Create(ctx context.Context, gift *models.Gift) (*models.Gift, error)
	GetByID(ctx context.Context, id int64) (*models.Gift, error)
	// List returns all gifts ordered by status rank, then category, then name.
	List(ctx context.Context) ([]*models.Gift, error)
	// ListByContributor returns the gifts the user contributes to, with
	// ViewerAmount set to the user's own pledge.
	ListByContributor(ctx context.Context, userID int64) ([]*models.Gift, error)
	SetStatus(ctx context.Context, id int64, status models.GiftStatus) error
	// MarkAlreadyHas sets the status and deletes every contribution for the
	// gift in one transaction.
	MarkAlreadyHas(ctx context.Context, id int64) error
	// Delete removes the gift and cascades to its contributions in one
	// transaction.
	Delete(ctx context.Context, id int64) error
}

// ContributionRepository defines the interface for contribution data
// operations. The store enforces at most one contribution per
// (gift, user) pair.
type ContributionRepository interface {
	// Upsert inserts the contribution, replacing an existing record for the
	// same (gift, user) pair.
	Upsert(ctx context.Context, c *models.Contribution) (*models.Contribution, error)
	Get(ctx context.Context, giftID, userID int64) (*models.Contribution, error)
	// ListByGift returns contributions ordered by creation time.
	ListByGift(ctx context.Context, giftID int64) ([]*models.Contribution, error)
	SetAmount(ctx context.Context, giftID, userID int64, amount int) error
	// Withdraw deletes the contribution and, when the gift is left with no
	// contributors, resets its status to available, both in one
	// transaction so two concurrent withdrawals cannot lose the reset.
	Withdraw(ctx context.Context, giftID, userID int64) error
}

// ParticipantRepository records every actor who opens a session,
// independent of ban status.
type ParticipantRepository interface {
	Upsert(ctx context.Context, p *models.Participant) error
	Get(ctx context.Context, userID int64) (*models.Participant, error)
	List(ctx context.Context) ([]*models.Participant, error)
}

// BanRepository defines the interface for the banned-actor set.
type BanRepository interface {
	Ban(ctx context.Context, userID int64, name string) error
	Unban(ctx context.Context, userID int64) error
	IsBanned(ctx context.Context, userID int64) (bool, error)
	List(ctx context.Context) ([]*models.BannedUser, error)
}

// AdminRepository defines the interface for the administrator set.
type AdminRepository interface {
	Add(ctx context.Context, userID int64, name string) error
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	HasAny(ctx context.Context) (bool, error)
	List(ctx context.Context) ([]*models.Admin, error)
}

// FactRepository defines the interface for the fact log.
type FactRepository interface {
	Add(ctx context.Context, fact *models.Fact) (*models.Fact, error)
	// List returns facts in creation order, oldest first.
	List(ctx context.Context) ([]*models.Fact, error)
	Count(ctx context.Context) (int, error)
}

// StatsRepository computes aggregate statistics over the current store
// state.
type StatsRepository interface {
	Stats(ctx context.Context) (*models.Stats, error)
}
