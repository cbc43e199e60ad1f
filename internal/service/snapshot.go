package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"giftbot/internal/models"
)

// Snapshot is a portable dump of the five record collections. Contributions
// reference their gift by id; no other cross-collection keys exist.
type Snapshot struct {
	ExportedAt    time.Time              `json:"exported_at"`
	Gifts         []*models.Gift         `json:"gifts"`
	Contributions []*models.Contribution `json:"contributions"`
	Participants  []*models.Participant  `json:"participants"`
	Banned        []*models.BannedUser   `json:"banned"`
	Admins        []*models.Admin        `json:"admins"`
	Facts         []*models.Fact         `json:"facts"`
}

// Export collects the current store state into a Snapshot.
func (s *Service) Export(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{ExportedAt: time.Now()}

	gifts, err := s.Gifts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export gifts: %w", err)
	}
	snap.Gifts = gifts

	for _, g := range gifts {
		contributions, err := s.Contributions.ListByGift(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("export contributions for gift %d: %w", g.ID, err)
		}
		snap.Contributions = append(snap.Contributions, contributions...)
	}

	if snap.Participants, err = s.Participants.List(ctx); err != nil {
		return nil, fmt.Errorf("export participants: %w", err)
	}
	if snap.Banned, err = s.Bans.List(ctx); err != nil {
		return nil, fmt.Errorf("export banned users: %w", err)
	}
	if snap.Admins, err = s.Admins.List(ctx); err != nil {
		return nil, fmt.Errorf("export admins: %w", err)
	}
	if snap.Facts, err = s.Facts.List(ctx); err != nil {
		return nil, fmt.Errorf("export facts: %w", err)
	}

	return snap, nil
}

// Import inserts the snapshot's records into the store. Gift ids are
// reassigned on insert, so contributions are remapped to the new ids.
// Individual record failures do not abort the import; they are collected
// and returned together.
func (s *Service) Import(ctx context.Context, snap *Snapshot) error {
	var errs *multierror.Error

	// old gift id -> new gift id
	idMap := make(map[int64]int64, len(snap.Gifts))

	for _, g := range snap.Gifts {
		created, err := s.Gifts.Create(ctx, &models.Gift{
			Name:        g.Name,
			Price:       g.Price,
			Category:    g.Category,
			AddedByID:   g.AddedByID,
			AddedByName: g.AddedByName,
		})
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("import gift %q: %w", g.Name, err))
			continue
		}
		idMap[g.ID] = created.ID
		if g.Status != "" && g.Status != models.GiftStatusAvailable {
			if err := s.Gifts.SetStatus(ctx, created.ID, g.Status); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("restore status of gift %q: %w", g.Name, err))
			}
		}
	}

	for _, c := range snap.Contributions {
		newID, ok := idMap[c.GiftID]
		if !ok {
			errs = multierror.Append(errs,
				fmt.Errorf("import contribution by user %d: gift %d not in snapshot", c.UserID, c.GiftID))
			continue
		}
		if _, err := s.Contributions.Upsert(ctx, &models.Contribution{
			GiftID:   newID,
			UserID:   c.UserID,
			UserName: c.UserName,
			Amount:   c.Amount,
		}); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("import contribution by user %d: %w", c.UserID, err))
		}
	}

	for _, p := range snap.Participants {
		if err := s.Participants.Upsert(ctx, p); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("import participant %d: %w", p.UserID, err))
		}
	}
	for _, b := range snap.Banned {
		if err := s.Bans.Ban(ctx, b.UserID, b.Name); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("import ban %d: %w", b.UserID, err))
		}
	}
	for _, a := range snap.Admins {
		if err := s.Admins.Add(ctx, a.UserID, a.Name); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("import admin %d: %w", a.UserID, err))
		}
	}
	for _, f := range snap.Facts {
		if _, err := s.Facts.Add(ctx, &models.Fact{AuthorID: f.AuthorID, Text: f.Text}); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("import fact %d: %w", f.ID, err))
		}
	}

	return errs.ErrorOrNil()
}
