package store

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"geoshell/internal/identity/models"
	"geoshell/internal/storage"
	"geoshell/pkg/platform/sentinel"
)

// InMemoryStore implements the identity store on storage.Memory. Callers must
// run it inside Memory.RunInTx; the row locks of the Postgres store are
// subsumed by the transaction mutex.
type InMemoryStore struct {
	mem *storage.Memory
}

func NewInMemory(mem *storage.Memory) *InMemoryStore {
	return &InMemoryStore{mem: mem}
}

func (s *InMemoryStore) FindLevel(_ context.Context, levelID int) (*models.AccessLevel, error) {
	for _, r := range s.mem.Tables().AccessLevels {
		if r.LevelID == levelID {
			return levelFromRow(r), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListLevels(_ context.Context) ([]*models.AccessLevel, error) {
	rows := slices.Clone(s.mem.Tables().AccessLevels)
	slices.SortFunc(rows, func(a, b storage.AccessLevelRow) int { return a.LevelID - b.LevelID })
	levels := make([]*models.AccessLevel, 0, len(rows))
	for _, r := range rows {
		levels = append(levels, levelFromRow(r))
	}
	return levels, nil
}

func (s *InMemoryStore) FindAdmin(_ context.Context, adminID string) (*models.AdminRecord, error) {
	i := s.adminIndex(adminID)
	if i < 0 {
		return nil, sentinel.ErrNotFound
	}
	r := s.mem.Tables().Administrators[i]
	return &models.AdminRecord{ID: r.AdminID, SecretHash: r.Password, SessionCount: r.SessionCount, LevelID: r.LevelID}, nil
}

func (s *InMemoryStore) FindAdminForUpdate(ctx context.Context, adminID string) (*models.AdminRecord, error) {
	return s.FindAdmin(ctx, adminID)
}

func (s *InMemoryStore) CreateAdmin(_ context.Context, rec *models.AdminRecord) error {
	if err := s.mem.Fault("create_admin"); err != nil {
		return err
	}
	if s.adminIndex(rec.ID) >= 0 {
		return sentinel.ErrConflict
	}
	t := s.mem.Tables()
	t.Administrators = append(t.Administrators, storage.AdministratorRow{
		AdminID:      rec.ID,
		Password:     rec.SecretHash,
		SessionCount: rec.SessionCount,
		LevelID:      rec.LevelID,
	})
	return nil
}

func (s *InMemoryStore) IncrementSessions(_ context.Context, adminID string) error {
	return s.updateAdmin("increment_sessions", adminID, func(r *storage.AdministratorRow) {
		r.SessionCount++
	})
}

func (s *InMemoryStore) DecrementSessions(_ context.Context, adminID string) error {
	return s.updateAdmin("decrement_sessions", adminID, func(r *storage.AdministratorRow) {
		r.SessionCount = max(0, r.SessionCount-1)
	})
}

func (s *InMemoryStore) UpdateAdminLevel(_ context.Context, adminID string, levelID int) error {
	return s.updateAdmin("update_admin_level", adminID, func(r *storage.AdministratorRow) {
		r.LevelID = levelID
	})
}

func (s *InMemoryStore) CreateGuest(_ context.Context, guest *models.GuestSession) error {
	if err := s.mem.Fault("create_guest"); err != nil {
		return err
	}
	if s.guestIndex(guest.ID) >= 0 {
		return sentinel.ErrConflict
	}
	t := s.mem.Tables()
	t.Users = append(t.Users, storage.UserRow{
		UserID:            guest.ID,
		CurrentQueryCount: guest.QueryCount,
		MaxQueryLimit:     guest.QueryLimit,
	})
	return nil
}

func (s *InMemoryStore) DeleteGuest(_ context.Context, id uuid.UUID) error {
	if err := s.mem.Fault("delete_guest"); err != nil {
		return err
	}
	i := s.guestIndex(id)
	if i < 0 {
		return sentinel.ErrNotFound
	}
	t := s.mem.Tables()
	t.Users = slices.Delete(t.Users, i, i+1)
	return nil
}

func (s *InMemoryStore) FindGuestForUpdate(_ context.Context, id uuid.UUID) (*models.GuestSession, error) {
	i := s.guestIndex(id)
	if i < 0 {
		return nil, sentinel.ErrNotFound
	}
	r := s.mem.Tables().Users[i]
	return &models.GuestSession{ID: r.UserID, QueryCount: r.CurrentQueryCount, QueryLimit: r.MaxQueryLimit}, nil
}

func (s *InMemoryStore) IncrementGuestQueries(_ context.Context, id uuid.UUID) error {
	if err := s.mem.Fault("increment_guest_queries"); err != nil {
		return err
	}
	i := s.guestIndex(id)
	if i < 0 {
		return sentinel.ErrNotFound
	}
	s.mem.Tables().Users[i].CurrentQueryCount++
	return nil
}

func (s *InMemoryStore) updateAdmin(op, adminID string, mutate func(*storage.AdministratorRow)) error {
	if err := s.mem.Fault(op); err != nil {
		return err
	}
	i := s.adminIndex(adminID)
	if i < 0 {
		return sentinel.ErrNotFound
	}
	mutate(&s.mem.Tables().Administrators[i])
	return nil
}

func (s *InMemoryStore) adminIndex(adminID string) int {
	return slices.IndexFunc(s.mem.Tables().Administrators, func(r storage.AdministratorRow) bool {
		return r.AdminID == adminID
	})
}

func (s *InMemoryStore) guestIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.mem.Tables().Users, func(r storage.UserRow) bool {
		return r.UserID == id
	})
}

func levelFromRow(r storage.AccessLevelRow) *models.AccessLevel {
	return &models.AccessLevel{ID: r.LevelID, Name: r.Name, MaxParallelSessions: r.MaxParallelSessions}
}
