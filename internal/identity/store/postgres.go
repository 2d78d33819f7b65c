package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"geoshell/internal/identity/models"
	"geoshell/internal/platform/postgres"
	"geoshell/pkg/platform/sentinel"
	txcontext "geoshell/pkg/platform/tx"
)

// PostgresStore persists administrators, access levels and guest sessions.
// It is pure I/O: every rule about session caps and upgrades lives in the service.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) FindLevel(ctx context.Context, levelID int) (*models.AccessLevel, error) {
	var level models.AccessLevel
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT level_id, name, max_parallel_sessions FROM accesslevels WHERE level_id = $1`, levelID,
	).Scan(&level.ID, &level.Name, &level.MaxParallelSessions)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find access level: %w", err)
	}
	return &level, nil
}

func (s *PostgresStore) ListLevels(ctx context.Context) ([]*models.AccessLevel, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT level_id, name, max_parallel_sessions FROM accesslevels ORDER BY level_id`)
	if err != nil {
		return nil, fmt.Errorf("list access levels: %w", err)
	}
	defer rows.Close()

	var levels []*models.AccessLevel
	for rows.Next() {
		var level models.AccessLevel
		if err := rows.Scan(&level.ID, &level.Name, &level.MaxParallelSessions); err != nil {
			return nil, fmt.Errorf("scan access level: %w", err)
		}
		levels = append(levels, &level)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access levels: %w", err)
	}
	return levels, nil
}

func (s *PostgresStore) FindAdmin(ctx context.Context, adminID string) (*models.AdminRecord, error) {
	return s.findAdmin(ctx, adminID, "")
}

// FindAdminForUpdate locks the administrator row until the transaction ends,
// so a limit check and the following counter update act as one step.
func (s *PostgresStore) FindAdminForUpdate(ctx context.Context, adminID string) (*models.AdminRecord, error) {
	return s.findAdmin(ctx, adminID, " FOR UPDATE")
}

func (s *PostgresStore) findAdmin(ctx context.Context, adminID, lock string) (*models.AdminRecord, error) {
	var rec models.AdminRecord
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT admin_id, password, session_count, level_id FROM administrators WHERE admin_id = $1`+lock, adminID,
	).Scan(&rec.ID, &rec.SecretHash, &rec.SessionCount, &rec.LevelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find administrator: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) CreateAdmin(ctx context.Context, rec *models.AdminRecord) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO administrators (admin_id, password, session_count, level_id) VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.SecretHash, rec.SessionCount, rec.LevelID,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create administrator: %w", err)
	}
	return nil
}

func (s *PostgresStore) IncrementSessions(ctx context.Context, adminID string) error {
	return s.execOne(ctx, "increment sessions",
		`UPDATE administrators SET session_count = session_count + 1 WHERE admin_id = $1`, adminID)
}

// DecrementSessions lowers the counter, never below zero.
func (s *PostgresStore) DecrementSessions(ctx context.Context, adminID string) error {
	return s.execOne(ctx, "decrement sessions",
		`UPDATE administrators SET session_count = GREATEST(0, session_count - 1) WHERE admin_id = $1`, adminID)
}

func (s *PostgresStore) UpdateAdminLevel(ctx context.Context, adminID string, levelID int) error {
	return s.execOne(ctx, "update administrator level",
		`UPDATE administrators SET level_id = $2 WHERE admin_id = $1`, adminID, levelID)
}

func (s *PostgresStore) CreateGuest(ctx context.Context, guest *models.GuestSession) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO users (user_id, current_query_count, max_query_limit) VALUES ($1, $2, $3)`,
		guest.ID, guest.QueryCount, guest.QueryLimit,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create guest: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteGuest(ctx context.Context, id uuid.UUID) error {
	return s.execOne(ctx, "delete guest", `DELETE FROM users WHERE user_id = $1`, id)
}

func (s *PostgresStore) FindGuestForUpdate(ctx context.Context, id uuid.UUID) (*models.GuestSession, error) {
	var guest models.GuestSession
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT user_id, current_query_count, max_query_limit FROM users WHERE user_id = $1 FOR UPDATE`, id,
	).Scan(&guest.ID, &guest.QueryCount, &guest.QueryLimit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find guest: %w", err)
	}
	return &guest, nil
}

func (s *PostgresStore) IncrementGuestQueries(ctx context.Context, id uuid.UUID) error {
	return s.execOne(ctx, "increment guest queries",
		`UPDATE users SET current_query_count = current_query_count + 1 WHERE user_id = $1`, id)
}

// execOne runs a statement that must touch exactly one row.
func (s *PostgresStore) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := s.execer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
