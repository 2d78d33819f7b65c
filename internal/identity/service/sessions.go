package service

import (
	"context"
	"errors"

	"geoshell/internal/identity/models"
	"geoshell/internal/identity/secrets"
	dErrors "geoshell/pkg/domain-errors"
	"geoshell/pkg/platform/audit"
	"geoshell/pkg/platform/sentinel"
)

// OpenGuestSession creates the guest identity a shell starts with.
func (s *Service) OpenGuestSession(ctx context.Context) (*models.GuestSession, error) {
	guest := models.NewGuestSession(s.guestLimit)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.store.CreateGuest(ctx, guest)
	})
	if err != nil {
		return nil, s.fail(ctx, "open guest session", err)
	}
	return guest, nil
}

// Authenticate checks the credentials and opens one more session for the
// administrator. The limit check, the counter increment and the removal of
// the caller's guest session commit together or not at all.
func (s *Service) Authenticate(ctx context.Context, guest *models.GuestSession, adminID, secret string) (*models.Administrator, error) {
	var admin *models.Administrator
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		rec, err := s.store.FindAdminForUpdate(ctx, adminID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeInvalidCredentials, "invalid credentials")
			}
			return err
		}
		if err := secrets.Verify(secret, rec.SecretHash); err != nil {
			if errors.Is(err, secrets.ErrMismatch) {
				return dErrors.New(dErrors.CodeInvalidCredentials, "invalid credentials")
			}
			return err
		}
		level, err := s.store.FindLevel(ctx, rec.LevelID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeInvalidCredentials, "administrator has no access level")
			}
			return err
		}
		if !rec.HasFreeSession(level) {
			return dErrors.New(dErrors.CodeSessionLimitReached, "maximum concurrent sessions reached")
		}

		if err := s.store.IncrementSessions(ctx, rec.ID); err != nil {
			return err
		}
		if guest != nil {
			if err := s.store.DeleteGuest(ctx, guest.ID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
				return err
			}
		}
		admin = rec.View()
		return s.recordAudit(ctx, audit.EventAdminSignedIn,
			"admin_id", rec.ID,
			"level_id", rec.LevelID,
			"sessions_before", rec.SessionCount,
		)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeSessionLimitReached) {
			s.incrementSessionsRejected()
		}
		return nil, s.fail(ctx, "authenticate", err)
	}
	s.incrementSessionsOpened()
	return admin, nil
}

// EndSession closes one of the administrator's sessions and hands the shell a
// fresh guest identity in the same transaction.
func (s *Service) EndSession(ctx context.Context, admin *models.Administrator) (*models.GuestSession, error) {
	if admin == nil {
		return nil, dErrors.New(dErrors.CodeNoActiveAdmin, "no administrator is signed in")
	}
	guest := models.NewGuestSession(s.guestLimit)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.decrement(ctx, admin.ID); err != nil {
			return err
		}
		if err := s.store.CreateGuest(ctx, guest); err != nil {
			return err
		}
		return s.recordAudit(ctx, audit.EventAdminSignedOut, "admin_id", admin.ID)
	})
	if err != nil {
		return nil, s.fail(ctx, "end session", err)
	}
	return guest, nil
}

// Terminate releases whatever identity the shell holds at shutdown. With
// nothing to release it is a no-op.
func (s *Service) Terminate(ctx context.Context, admin *models.Administrator, guest *models.GuestSession) error {
	if admin == nil && guest == nil {
		return nil
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if admin != nil {
			if err := s.decrement(ctx, admin.ID); err != nil {
				return err
			}
			return s.recordAudit(ctx, audit.EventSessionTerminated, "admin_id", admin.ID)
		}
		if err := s.store.DeleteGuest(ctx, guest.ID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return s.fail(ctx, "terminate", err)
	}
	return nil
}

// decrement tolerates an administrator row that has since disappeared.
func (s *Service) decrement(ctx context.Context, adminID string) error {
	if err := s.store.DecrementSessions(ctx, adminID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return err
	}
	return nil
}
