package service

import (
	"context"
	"errors"
	"strconv"

	"geoshell/internal/identity/models"
	dErrors "geoshell/pkg/domain-errors"
	"geoshell/pkg/platform/audit"
	"geoshell/pkg/platform/sentinel"
)

// ListLevels returns every access level ordered by id.
func (s *Service) ListLevels(ctx context.Context) ([]*models.AccessLevel, error) {
	var levels []*models.AccessLevel
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		levels, err = s.store.ListLevels(ctx)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "list access levels", err)
	}
	return levels, nil
}

// LevelOf returns the access level the administrator currently holds.
func (s *Service) LevelOf(ctx context.Context, admin *models.Administrator) (*models.AccessLevel, error) {
	if admin == nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "sign in required")
	}
	var level *models.AccessLevel
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		rec, err := s.store.FindAdmin(ctx, admin.ID)
		if err != nil {
			return err
		}
		level, err = s.store.FindLevel(ctx, rec.LevelID)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "load access level", err)
	}
	return level, nil
}

// ChangeLevel moves the administrator to a level with a strictly larger
// session cap. Equal caps count as a downgrade when the ids differ.
//
// An administrator holding more than one session is refused: the other
// sessions were admitted under the old cap.
func (s *Service) ChangeLevel(ctx context.Context, admin *models.Administrator, newLevelID string) (*models.Administrator, error) {
	if admin == nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "sign in required")
	}
	target, err := strconv.Atoi(newLevelID)
	if err != nil {
		return nil, s.fail(ctx, "change level", err)
	}

	var updated *models.Administrator
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		newLevel, err := s.store.FindLevel(ctx, target)
		if err != nil {
			return err
		}
		rec, err := s.store.FindAdminForUpdate(ctx, admin.ID)
		if err != nil {
			return err
		}
		current, err := s.store.FindLevel(ctx, rec.LevelID)
		if err != nil {
			return err
		}

		if newLevel.ID == rec.LevelID {
			return dErrors.New(dErrors.CodeSameLevel, "already on this level")
		}
		if newLevel.MaxParallelSessions <= current.MaxParallelSessions {
			return dErrors.New(dErrors.CodeDowngradeNotAllowed, "only upgrades are allowed")
		}
		if rec.SessionCount > 1 {
			return errors.Join(sentinel.ErrInvalidState, errors.New("administrator holds concurrent sessions"))
		}

		if err := s.store.UpdateAdminLevel(ctx, rec.ID, newLevel.ID); err != nil {
			return err
		}
		updated = &models.Administrator{ID: rec.ID, LevelID: newLevel.ID}
		return s.recordAudit(ctx, audit.EventAdminLevelChanged,
			"admin_id", rec.ID,
			"from_level", rec.LevelID,
			"to_level", newLevel.ID,
		)
	})
	if err != nil {
		return nil, s.fail(ctx, "change level", err)
	}
	return updated, nil
}
