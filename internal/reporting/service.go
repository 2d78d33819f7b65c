package reporting

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	geomodels "geoshell/internal/geo/models"
	idmodels "geoshell/internal/identity/models"
	"geoshell/internal/platform/metrics"
	dErrors "geoshell/pkg/domain-errors"
)

// GeoStore is the read side of the geo store.
type GeoStore interface {
	FindContinent(ctx context.Context, name string) (*geomodels.Continent, error)
	CountMajorityCountries(ctx context.Context, continent string) (int, error)
	FindCountryByName(ctx context.Context, name string) (*geomodels.Country, error)
	CountryProfile(ctx context.Context, code string) (*geomodels.CountryProfile, error)
	FindCities(ctx context.Context, name string) ([]*geomodels.City, error)
}

// QuotaStore charges describe queries to a guest session row.
type QuotaStore interface {
	FindGuestForUpdate(ctx context.Context, id uuid.UUID) (*idmodels.GuestSession, error)
	IncrementGuestQueries(ctx context.Context, id uuid.UUID) error
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service answers describe queries.
type Service struct {
	geo     GeoStore
	quota   QuotaStore
	tx      TxRunner
	logger  *slog.Logger
	metrics *metrics.Metrics
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

func New(geo GeoStore, quota QuotaStore, tx TxRunner, opts ...Option) *Service {
	s := &Service{geo: geo, quota: quota, tx: tx, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) fail(ctx context.Context, op string, err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) && de.Code != dErrors.CodeInternal {
		return err
	}
	s.logger.ErrorContext(ctx, "command failed", "command", op, "error", err)
	return dErrors.Wrap(err, dErrors.CodeInternal, op+" failed")
}
