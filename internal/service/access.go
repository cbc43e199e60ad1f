package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"giftbot/internal/models"
)

// SuperAdminID always has administrator capability regardless of store
// contents, so the system can never become un-administrable.
const SuperAdminID int64 = 124715269

// Session describes what the access policy decided for an actor opening a
// session.
type Session struct {
	Banned      bool
	BecameAdmin bool
	Admin       bool
}

// InitSession records the actor in the participant directory, promotes
// them to administrator when the administrator set is empty (one-time
// bootstrap, idempotent), and reports their ban status. The directory
// write and the bootstrap both happen before the ban short-circuit so a
// banned actor is still visible to admins.
func (s *Service) InitSession(ctx context.Context, userID int64, username, name string, chatID int64) (*Session, error) {
	if err := s.Participants.Upsert(ctx, &models.Participant{
		UserID:   userID,
		Username: username,
		Name:     name,
		ChatID:   chatID,
	}); err != nil {
		return nil, fmt.Errorf("record participant %d: %w", userID, err)
	}

	session := &Session{}

	hasAdmin, err := s.Admins.HasAny(ctx)
	if err != nil {
		return nil, fmt.Errorf("check for admins: %w", err)
	}
	if !hasAdmin {
		if err := s.Admins.Add(ctx, userID, name); err != nil {
			return nil, fmt.Errorf("bootstrap admin %d: %w", userID, err)
		}
		session.BecameAdmin = true
		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"name":    name,
		}).Info("Bootstrapped first administrator")
	}

	session.Banned, err = s.Bans.IsBanned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check ban status: %w", err)
	}

	session.Admin, err = s.IsAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// IsAdmin reports whether the actor has administrator capability. The
// hardcoded super-administrator is always an admin.
func (s *Service) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	if userID == SuperAdminID {
		return true, nil
	}
	isAdmin, err := s.Admins.IsAdmin(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check admin status: %w", err)
	}
	return isAdmin, nil
}

// IsBanned reports whether the actor is in the banned set.
func (s *Service) IsBanned(ctx context.Context, userID int64) (bool, error) {
	return s.Bans.IsBanned(ctx, userID)
}

// requireNotBanned short-circuits feature access for banned actors.
func (s *Service) requireNotBanned(ctx context.Context, userID int64) error {
	banned, err := s.Bans.IsBanned(ctx, userID)
	if err != nil {
		return fmt.Errorf("check ban status: %w", err)
	}
	if banned {
		return ErrBanned
	}
	return nil
}

// requireAdmin guards moderation and destructive operations.
func (s *Service) requireAdmin(ctx context.Context, userID int64) error {
	isAdmin, err := s.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrPermissionDenied
	}
	return nil
}

// BanActor bans the target actor. Admin-only; banning yourself is
// rejected. Banning another administrator is allowed.
func (s *Service) BanActor(ctx context.Context, adminID, targetID int64, targetName string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if targetID == adminID {
		return ErrSelfBan
	}
	if err := s.Bans.Ban(ctx, targetID, targetName); err != nil {
		return fmt.Errorf("ban user %d: %w", targetID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"admin_id":  adminID,
		"target_id": targetID,
	}).Info("Actor banned")
	return nil
}

// UnbanActor lifts a ban. Admin-only.
func (s *Service) UnbanActor(ctx context.Context, adminID, targetID int64) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := s.Bans.Unban(ctx, targetID); err != nil {
		return fmt.Errorf("unban user %d: %w", targetID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"admin_id":  adminID,
		"target_id": targetID,
	}).Info("Actor unbanned")
	return nil
}

// PromoteAdmin grants administrator capability to the target. Admin-only.
func (s *Service) PromoteAdmin(ctx context.Context, adminID, targetID int64, targetName string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := s.Admins.Add(ctx, targetID, targetName); err != nil {
		return fmt.Errorf("add admin %d: %w", targetID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"admin_id":  adminID,
		"target_id": targetID,
	}).Info("Administrator promoted")
	return nil
}

// ListBanned returns the banned set. Admin-only.
func (s *Service) ListBanned(ctx context.Context, adminID int64) ([]*models.BannedUser, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.Bans.List(ctx)
}

// ListAdmins returns the administrator set. Admin-only.
func (s *Service) ListAdmins(ctx context.Context, adminID int64) ([]*models.Admin, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.Admins.List(ctx)
}
