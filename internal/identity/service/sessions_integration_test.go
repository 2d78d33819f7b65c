//go:build integration

package service_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"geoshell/internal/identity/service"
	"geoshell/internal/identity/store"
	"geoshell/internal/platform/logger"
	"geoshell/internal/platform/postgres"
	"geoshell/internal/storage"
	dErrors "geoshell/pkg/domain-errors"
	auditpostgres "geoshell/pkg/platform/audit/store/postgres"
	"geoshell/pkg/platform/tx"
	"geoshell/pkg/testutil/containers"
)

type ConcurrentSignInSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	service  *service.Service
	audit    *auditpostgres.Store
}

func TestConcurrentSignInSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ConcurrentSignInSuite))
}

func (s *ConcurrentSignInSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.audit = auditpostgres.New(s.postgres.DB)
	s.service = service.New(store.NewPostgres(s.postgres.DB), tx.NewRunner(s.postgres.DB),
		service.WithLogger(logger.Discard()),
		service.WithAuditor(s.audit),
		service.WithSecretCost(bcrypt.MinCost),
	)
}

func (s *ConcurrentSignInSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))
	s.Require().NoError(postgres.Seed(ctx, s.postgres.DB, storage.Tables{
		AccessLevels: []storage.AccessLevelRow{{LevelID: 1, Name: "Basic", MaxParallelSessions: 2}},
	}))
	s.Require().NoError(s.service.Register(ctx, "alice", "secret1", "1"))
}

// Many shells signing in at once must never push the counter past the cap.
func (s *ConcurrentSignInSuite) TestSessionCapHoldsUnderContention() {
	ctx := context.Background()
	const shells = 16

	var admitted, rejected atomic.Int32
	var g errgroup.Group
	for i := 0; i < shells; i++ {
		g.Go(func() error {
			guest, err := s.service.OpenGuestSession(ctx)
			if err != nil {
				return err
			}
			_, err = s.service.Authenticate(ctx, guest, "alice", "secret1")
			switch {
			case err == nil:
				admitted.Add(1)
			case dErrors.HasCode(err, dErrors.CodeSessionLimitReached):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	s.Equal(int32(2), admitted.Load())
	s.Equal(int32(shells-2), rejected.Load())

	var count, guests int
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx,
		`SELECT session_count FROM administrators WHERE admin_id = 'alice'`).Scan(&count))
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&guests))
	s.Equal(2, count)
	s.Equal(shells-2, guests, "rejected shells keep their guest sessions")

	events, err := s.audit.ListRecent(ctx, 50)
	s.Require().NoError(err)
	signIns := 0
	for _, e := range events {
		if e.Action == "admin_signed_in" {
			signIns++
		}
	}
	s.Equal(2, signIns)
}

func (s *ConcurrentSignInSuite) TestConcurrentRegistrationYieldsOneWinner() {
	ctx := context.Background()
	const shells = 8

	var created, duplicates atomic.Int32
	var g errgroup.Group
	for i := 0; i < shells; i++ {
		g.Go(func() error {
			err := s.service.Register(ctx, "bob", "pw", "1")
			switch {
			case err == nil:
				created.Add(1)
			case dErrors.HasCode(err, dErrors.CodeDuplicateIdentity):
				duplicates.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	s.Equal(int32(1), created.Load())
	s.Equal(int32(shells-1), duplicates.Load())
}
