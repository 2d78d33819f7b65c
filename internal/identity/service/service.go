package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"geoshell/internal/identity/models"
	"geoshell/internal/platform/config"
	"geoshell/internal/platform/metrics"
	"geoshell/pkg/attrs"
	"geoshell/pkg/platform/audit"
	"geoshell/pkg/requestcontext"
)

// Store is the persistence surface of the identity manager. Every call is
// expected to join the transaction carried in ctx.
type Store interface {
	FindLevel(ctx context.Context, levelID int) (*models.AccessLevel, error)
	ListLevels(ctx context.Context) ([]*models.AccessLevel, error)
	FindAdmin(ctx context.Context, adminID string) (*models.AdminRecord, error)
	FindAdminForUpdate(ctx context.Context, adminID string) (*models.AdminRecord, error)
	CreateAdmin(ctx context.Context, rec *models.AdminRecord) error
	IncrementSessions(ctx context.Context, adminID string) error
	DecrementSessions(ctx context.Context, adminID string) error
	UpdateAdminLevel(ctx context.Context, adminID string, levelID int) error
	CreateGuest(ctx context.Context, guest *models.GuestSession) error
	DeleteGuest(ctx context.Context, id uuid.UUID) error
}

// TxRunner opens the transactional boundary of one operation. A non-nil
// return from fn rolls everything back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Auditor records audit events inside the caller's transaction.
type Auditor interface {
	Append(ctx context.Context, event audit.Event) error
}

// Service is the identity manager: administrator registration, sign-in
// accounting, guest lifecycle and access level upgrades.
type Service struct {
	store      Store
	tx         TxRunner
	logger     *slog.Logger
	metrics    *metrics.Metrics
	auditor    Auditor
	guestLimit int
	secretCost int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// WithGuestQueryLimit sets the quota given to every new guest session.
func WithGuestQueryLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.guestLimit = limit
		}
	}
}

// WithSecretCost sets the bcrypt cost for new administrator secrets.
func WithSecretCost(cost int) Option {
	return func(s *Service) {
		s.secretCost = cost
	}
}

func New(store Store, tx TxRunner, opts ...Option) *Service {
	s := &Service{
		store:      store,
		tx:         tx,
		logger:     slog.Default(),
		guestLimit: config.DefaultGuestQueryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// recordAudit logs the event and appends it to the audit trail. It must run
// inside the operation's transaction; a failed append rolls the operation back.
func (s *Service) recordAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) error {
	if commandID := requestcontext.CommandID(ctx); commandID != "" {
		attributes = append(attributes, "command_id", commandID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditor == nil {
		return nil
	}
	adminID := attrs.ExtractString(attributes, "admin_id")
	return s.auditor.Append(ctx, audit.Event{
		ID:        uuid.New(),
		Category:  event.Category(),
		Timestamp: requestcontext.Now(ctx),
		ActorID:   adminID,
		Action:    string(event),
		Subject:   adminID,
		Detail:    attrs.ToMap(attributes, "admin_id", "command_id"),
		CommandID: requestcontext.CommandID(ctx),
	})
}

func (s *Service) logFailure(ctx context.Context, op string, err error) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, "identity operation failed",
			"op", op,
			"command", requestcontext.CommandName(ctx),
			"error", err,
		)
	}
}

func (s *Service) incrementSessionsOpened() {
	if s.metrics != nil {
		s.metrics.IncrementSessionsOpened()
	}
}

func (s *Service) incrementSessionsRejected() {
	if s.metrics != nil {
		s.metrics.IncrementSessionsRejected()
	}
}
