package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"geoshell/internal/geo/models"
	idmodels "geoshell/internal/identity/models"
	"geoshell/internal/platform/metrics"
	"geoshell/pkg/attrs"
	dErrors "geoshell/pkg/domain-errors"
	"geoshell/pkg/platform/audit"
	"geoshell/pkg/requestcontext"
)

// Store is the persistence surface of the mutation engine.
type Store interface {
	FindCountryByName(ctx context.Context, name string) (*models.Country, error)
	LockCountry(ctx context.Context, code string) (*models.Country, error)
	UpdateCountryPopulation(ctx context.Context, code string, population int64) error
	FindCitiesForUpdate(ctx context.Context, name string) ([]*models.City, error)
	FindCityInCountry(ctx context.Context, name, code string) (*models.City, error)
	UpdateCityPopulation(ctx context.Context, name, code string, population int64) error
	MoveCity(ctx context.Context, name, fromCode, toCode string) error
	ListCityNames(ctx context.Context, code string) ([]string, error)
	SetCapital(ctx context.Context, code string, capital *string) error
	DeleteCountry(ctx context.Context, code string) error
	FindReligion(ctx context.Context, code, name string) (*models.Religion, error)
	InsertReligion(ctx context.Context, r *models.Religion) error
	UpdateReligion(ctx context.Context, code, name string, percentage float64) error
	DeleteReligion(ctx context.Context, code, name string) error
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Auditor interface {
	Append(ctx context.Context, event audit.Event) error
}

// Service is the geo-mutation engine. Every operation is one transaction:
// either all of its row changes commit or none do.
type Service struct {
	store   Store
	tx      TxRunner
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor Auditor
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

func New(store Store, tx TxRunner, opts ...Option) *Service {
	s := &Service{store: store, tx: tx, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) recordAudit(ctx context.Context, event audit.AuditEvent, actorID, subject string, attributes ...any) error {
	args := append(attributes, "admin_id", actorID, "subject", subject, "event", string(event), "log_type", "audit")
	if commandID := requestcontext.CommandID(ctx); commandID != "" {
		args = append(args, "command_id", commandID)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditor == nil {
		return nil
	}
	return s.auditor.Append(ctx, audit.Event{
		ID:        uuid.New(),
		Category:  event.Category(),
		Timestamp: requestcontext.Now(ctx),
		ActorID:   actorID,
		Action:    string(event),
		Subject:   subject,
		Detail:    attrs.ToMap(attributes),
		CommandID: requestcontext.CommandID(ctx),
	})
}

// fail passes coded precondition errors through and turns everything else
// into a logged internal failure.
func (s *Service) fail(ctx context.Context, op string, err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) && de.Code != dErrors.CodeInternal {
		return de
	}
	if s.logger != nil {
		s.logger.ErrorContext(ctx, "geo operation failed",
			"op", op,
			"command", requestcontext.CommandName(ctx),
			"error", err,
		)
	}
	if de != nil {
		return de
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+op)
}

func requireAdmin(admin *idmodels.Administrator) error {
	if admin == nil {
		return dErrors.New(dErrors.CodeUnauthorized, "sign in required")
	}
	return nil
}
