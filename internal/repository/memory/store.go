// Package memory provides an in-memory record store implementing every
// repository interface. It backs tests and mirrors the postgres
// implementation's semantics: upsert uniqueness per (gift, user), cascade
// deletes, ordered listings, and atomic multi-statement transitions (a
// single mutex guards each operation end to end).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"giftbot/internal/models"
	"giftbot/internal/repository"
)

// Store is an in-memory implementation of the whole record store.
type Store struct {
	mu sync.Mutex

	nextGiftID         int64
	nextContributionID int64
	nextFactID         int64

	gifts         map[int64]*models.Gift
	contributions map[int64]*models.Contribution
	participants  map[int64]*models.Participant
	banned        map[int64]*models.BannedUser
	admins        map[int64]*models.Admin
	facts         []*models.Fact
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		nextGiftID:         1,
		nextContributionID: 1,
		nextFactID:         1,
		gifts:              make(map[int64]*models.Gift),
		contributions:      make(map[int64]*models.Contribution),
		participants:       make(map[int64]*models.Participant),
		banned:             make(map[int64]*models.BannedUser),
		admins:             make(map[int64]*models.Admin),
	}
}

var (
	_ repository.GiftRepository         = (*Store)(nil)
	_ repository.ContributionRepository = (*Store)(nil)
	_ repository.StatsRepository        = (*Store)(nil)
)

// The remaining repository interfaces reuse method names (List, Add, Get,
// Upsert) with different signatures, so the store exposes them through
// small views instead of implementing them directly.

// Participants returns the store's ParticipantRepository view.
func (s *Store) Participants() repository.ParticipantRepository { return participantView{s} }

// Bans returns the store's BanRepository view.
func (s *Store) Bans() repository.BanRepository { return banView{s} }

// Admins returns the store's AdminRepository view.
func (s *Store) Admins() repository.AdminRepository { return adminView{s} }

// Facts returns the store's FactRepository view.
func (s *Store) Facts() repository.FactRepository { return factView{s} }

type participantView struct{ s *Store }

func (v participantView) Upsert(ctx context.Context, p *models.Participant) error {
	return v.s.UpsertParticipant(ctx, p)
}
func (v participantView) Get(ctx context.Context, userID int64) (*models.Participant, error) {
	return v.s.GetParticipant(ctx, userID)
}
func (v participantView) List(ctx context.Context) ([]*models.Participant, error) {
	return v.s.ListParticipants(ctx)
}

type banView struct{ s *Store }

func (v banView) Ban(ctx context.Context, userID int64, name string) error {
	return v.s.BanUser(ctx, userID, name)
}
func (v banView) Unban(ctx context.Context, userID int64) error { return v.s.UnbanUser(ctx, userID) }
func (v banView) IsBanned(ctx context.Context, userID int64) (bool, error) {
	return v.s.IsBanned(ctx, userID)
}
func (v banView) List(ctx context.Context) ([]*models.BannedUser, error) {
	return v.s.ListBanned(ctx)
}

type adminView struct{ s *Store }

func (v adminView) Add(ctx context.Context, userID int64, name string) error {
	return v.s.AddAdmin(ctx, userID, name)
}
func (v adminView) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return v.s.IsAdmin(ctx, userID)
}
func (v adminView) HasAny(ctx context.Context) (bool, error) { return v.s.HasAnyAdmin(ctx) }
func (v adminView) List(ctx context.Context) ([]*models.Admin, error) {
	return v.s.ListAdmins(ctx)
}

type factView struct{ s *Store }

func (v factView) Add(ctx context.Context, fact *models.Fact) (*models.Fact, error) {
	return v.s.AddFact(ctx, fact)
}
func (v factView) List(ctx context.Context) ([]*models.Fact, error) { return v.s.ListFacts(ctx) }
func (v factView) Count(ctx context.Context) (int, error)           { return v.s.CountFacts(ctx) }

// ---------------------------------------------------------------------------
// Gifts
// ---------------------------------------------------------------------------

func (s *Store) Create(_ context.Context, gift *models.Gift) (*models.Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := *gift
	g.ID = s.nextGiftID
	s.nextGiftID++
	if g.Category == "" {
		g.Category = models.CategoryOther
	}
	g.Status = models.GiftStatusAvailable
	g.CreatedAt = time.Now()
	s.gifts[g.ID] = &g

	out := g
	return &out, nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*models.Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.gifts[id]
	if !ok {
		return nil, nil
	}
	out := *g
	return &out, nil
}

func (s *Store) List(_ context.Context) ([]*models.Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var gifts []*models.Gift
	for _, g := range s.gifts {
		out := *g
		gifts = append(gifts, &out)
	}
	sort.Slice(gifts, func(i, j int) bool {
		a, b := gifts[i], gifts[j]
		if a.Status.Rank() != b.Status.Rank() {
			return a.Status.Rank() < b.Status.Rank()
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Name < b.Name
	})
	return gifts, nil
}

func (s *Store) ListByContributor(_ context.Context, userID int64) ([]*models.Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var gifts []*models.Gift
	for _, c := range s.contributions {
		if c.UserID != userID {
			continue
		}
		g, ok := s.gifts[c.GiftID]
		if !ok {
			continue
		}
		out := *g
		if c.Amount != nil {
			amount := *c.Amount
			out.ViewerAmount = &amount
		}
		gifts = append(gifts, &out)
	}
	sort.Slice(gifts, func(i, j int) bool {
		a, b := gifts[i], gifts[j]
		if a.Status.Rank() != b.Status.Rank() {
			return a.Status.Rank() < b.Status.Rank()
		}
		return a.Name < b.Name
	})
	return gifts, nil
}

func (s *Store) SetStatus(_ context.Context, id int64, status models.GiftStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.gifts[id]
	if !ok {
		return fmt.Errorf("gift with ID %d not found", id)
	}
	g.Status = status
	return nil
}

func (s *Store) MarkAlreadyHas(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.gifts[id]
	if !ok {
		return fmt.Errorf("gift with ID %d not found", id)
	}
	g.Status = models.GiftStatusAlreadyHas
	for cid, c := range s.contributions {
		if c.GiftID == id {
			delete(s.contributions, cid)
		}
	}
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.gifts[id]; !ok {
		return fmt.Errorf("gift with ID %d not found", id)
	}
	delete(s.gifts, id)
	for cid, c := range s.contributions {
		if c.GiftID == id {
			delete(s.contributions, cid)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Contributions
// ---------------------------------------------------------------------------

func (s *Store) findContribution(giftID, userID int64) *models.Contribution {
	for _, c := range s.contributions {
		if c.GiftID == giftID && c.UserID == userID {
			return c
		}
	}
	return nil
}

func (s *Store) Upsert(_ context.Context, c *models.Contribution) (*models.Contribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.findContribution(c.GiftID, c.UserID); existing != nil {
		existing.UserName = c.UserName
		existing.Amount = c.Amount
		out := *existing
		return &out, nil
	}

	stored := *c
	stored.ID = s.nextContributionID
	s.nextContributionID++
	stored.CreatedAt = time.Now()
	s.contributions[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (s *Store) Get(_ context.Context, giftID, userID int64) (*models.Contribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findContribution(giftID, userID)
	if c == nil {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (s *Store) ListByGift(_ context.Context, giftID int64) ([]*models.Contribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var contributions []*models.Contribution
	for _, c := range s.contributions {
		if c.GiftID == giftID {
			out := *c
			contributions = append(contributions, &out)
		}
	}
	sort.Slice(contributions, func(i, j int) bool {
		a, b := contributions[i], contributions[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return contributions, nil
}

func (s *Store) SetAmount(_ context.Context, giftID, userID int64, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findContribution(giftID, userID)
	if c == nil {
		return fmt.Errorf("contribution for gift %d by user %d not found", giftID, userID)
	}
	c.Amount = &amount
	return nil
}

func (s *Store) Withdraw(_ context.Context, giftID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findContribution(giftID, userID)
	if c == nil {
		return fmt.Errorf("contribution for gift %d by user %d not found", giftID, userID)
	}
	delete(s.contributions, c.ID)

	remaining := 0
	for _, other := range s.contributions {
		if other.GiftID == giftID {
			remaining++
		}
	}
	if remaining == 0 {
		if g, ok := s.gifts[giftID]; ok {
			g.Status = models.GiftStatusAvailable
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Participants
// ---------------------------------------------------------------------------

func (s *Store) UpsertParticipant(_ context.Context, p *models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.participants[p.UserID]; ok {
		existing.Username = p.Username
		existing.Name = p.Name
		existing.ChatID = p.ChatID
		return nil
	}
	stored := *p
	if stored.FirstSeen.IsZero() {
		stored.FirstSeen = time.Now()
	}
	s.participants[stored.UserID] = &stored
	return nil
}

func (s *Store) GetParticipant(_ context.Context, userID int64) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[userID]
	if !ok {
		return nil, nil
	}
	out := *p
	return &out, nil
}

func (s *Store) ListParticipants(_ context.Context) ([]*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var participants []*models.Participant
	for _, p := range s.participants {
		out := *p
		participants = append(participants, &out)
	}
	sort.Slice(participants, func(i, j int) bool {
		a, b := participants[i], participants[j]
		if a.FirstSeen.Equal(b.FirstSeen) {
			return a.UserID < b.UserID
		}
		return a.FirstSeen.Before(b.FirstSeen)
	})
	return participants, nil
}

// ---------------------------------------------------------------------------
// Bans
// ---------------------------------------------------------------------------

func (s *Store) BanUser(_ context.Context, userID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.banned[userID] = &models.BannedUser{
		UserID:   userID,
		Name:     name,
		BannedAt: time.Now(),
	}
	return nil
}

func (s *Store) UnbanUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.banned[userID]; !ok {
		return fmt.Errorf("user %d is not banned", userID)
	}
	delete(s.banned, userID)
	return nil
}

func (s *Store) IsBanned(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.banned[userID]
	return ok, nil
}

func (s *Store) ListBanned(_ context.Context) ([]*models.BannedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var banned []*models.BannedUser
	for _, b := range s.banned {
		out := *b
		banned = append(banned, &out)
	}
	sort.Slice(banned, func(i, j int) bool {
		a, b := banned[i], banned[j]
		if a.BannedAt.Equal(b.BannedAt) {
			return a.UserID < b.UserID
		}
		return a.BannedAt.Before(b.BannedAt)
	})
	return banned, nil
}

// ---------------------------------------------------------------------------
// Admins
// ---------------------------------------------------------------------------

func (s *Store) AddAdmin(_ context.Context, userID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.admins[userID] = &models.Admin{
		UserID:  userID,
		Name:    name,
		AddedAt: time.Now(),
	}
	return nil
}

func (s *Store) IsAdmin(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.admins[userID]
	return ok, nil
}

func (s *Store) HasAnyAdmin(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.admins) > 0, nil
}

func (s *Store) ListAdmins(_ context.Context) ([]*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var admins []*models.Admin
	for _, a := range s.admins {
		out := *a
		admins = append(admins, &out)
	}
	sort.Slice(admins, func(i, j int) bool {
		a, b := admins[i], admins[j]
		if a.AddedAt.Equal(b.AddedAt) {
			return a.UserID < b.UserID
		}
		return a.AddedAt.Before(b.AddedAt)
	})
	return admins, nil
}

// ---------------------------------------------------------------------------
// Facts
// ---------------------------------------------------------------------------

func (s *Store) AddFact(_ context.Context, fact *models.Fact) (*models.Fact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *fact
	stored.ID = s.nextFactID
	s.nextFactID++
	stored.CreatedAt = time.Now()
	s.facts = append(s.facts, &stored)

	out := stored
	return &out, nil
}

func (s *Store) ListFacts(_ context.Context) ([]*models.Fact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	facts := make([]*models.Fact, 0, len(s.facts))
	for _, f := range s.facts {
		out := *f
		facts = append(facts, &out)
	}
	return facts, nil
}

func (s *Store) CountFacts(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.facts), nil
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

func (s *Store) Stats(_ context.Context) (*models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &models.Stats{}
	for _, g := range s.gifts {
		stats.Total++
		switch g.Status {
		case models.GiftStatusAvailable:
			stats.Available++
		case models.GiftStatusClaimed:
			stats.Claimed++
		case models.GiftStatusBought:
			stats.Bought++
		case models.GiftStatusAlreadyHas:
			stats.AlreadyHas++
		}
	}

	contributors := make(map[int64]struct{})
	for _, c := range s.contributions {
		contributors[c.UserID] = struct{}{}
		if c.Amount != nil {
			stats.TotalAmount += *c.Amount
		}
	}
	stats.Participants = len(contributors)

	return stats, nil
}
