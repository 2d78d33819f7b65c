package service

import (
	"context"
	"errors"
	"strconv"

	"geoshell/internal/identity/models"
	"geoshell/internal/identity/secrets"
	dErrors "geoshell/pkg/domain-errors"
	"geoshell/pkg/platform/audit"
	"geoshell/pkg/platform/sentinel"
)

// Register creates an administrator with no open sessions. The secret is
// stored as a bcrypt hash.
func (s *Service) Register(ctx context.Context, adminID, secret, levelID string) error {
	level, err := strconv.Atoi(levelID)
	if err != nil {
		return dErrors.New(dErrors.CodeLevelNotFound, "access level not found")
	}
	hash, err := secrets.Hash(secret, s.secretCost)
	if err != nil {
		return s.fail(ctx, "hash secret", err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.FindLevel(ctx, level); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeLevelNotFound, "access level not found")
			}
			return err
		}
		if _, err := s.store.FindAdmin(ctx, adminID); err == nil {
			return dErrors.New(dErrors.CodeDuplicateIdentity, "administrator already registered")
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}

		// A concurrent registration can still win the race past the check above.
		err := s.store.CreateAdmin(ctx, &models.AdminRecord{ID: adminID, SecretHash: hash, LevelID: level})
		if err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeDuplicateIdentity, "administrator already registered")
			}
			return err
		}
		return s.recordAudit(ctx, audit.EventAdminRegistered,
			"admin_id", adminID,
			"level_id", level,
		)
	})
	if err != nil {
		return s.fail(ctx, "register administrator", err)
	}
	return nil
}
