package models

import (
	"github.com/google/uuid"
)

// AccessLevel is immutable reference data: a tier capping how many sessions
// an administrator may hold at once.
type AccessLevel struct {
	ID                  int
	Name                string
	MaxParallelSessions int
}

// Administrator is the client-side view of a signed-in administrator. The
// session counter is server state and is deliberately absent.
type Administrator struct {
	ID      string
	LevelID int
}

// AdminRecord is the stored administrator row.
//
// Invariants:
//   - SessionCount is never negative
//   - SessionCount never exceeds the level's MaxParallelSessions after a sign-in
type AdminRecord struct {
	ID           string
	SecretHash   string
	SessionCount int
	LevelID      int
}

// View strips server-side state from the record.
func (r *AdminRecord) View() *Administrator {
	return &Administrator{ID: r.ID, LevelID: r.LevelID}
}

// HasFreeSession reports whether one more sign-in fits under level's cap.
func (r *AdminRecord) HasFreeSession(level *AccessLevel) bool {
	return r.SessionCount < level.MaxParallelSessions
}

// GuestSession is the anonymous identity active whenever no administrator is
// signed in. Exactly one exists per shell while it is unauthenticated.
type GuestSession struct {
	ID         uuid.UUID
	QueryCount int
	QueryLimit int
}

// NewGuestSession returns a fresh guest with an untouched quota.
func NewGuestSession(limit int) *GuestSession {
	return &GuestSession{ID: uuid.New(), QueryLimit: limit}
}

// QuotaExhausted reports whether the guest may no longer run queries. The
// comparison is strict, so the query that brings the count to the limit and
// the one after it are both still charged.
func (g *GuestSession) QuotaExhausted() bool {
	return g.QueryCount > g.QueryLimit
}
