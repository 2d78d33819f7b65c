//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"geoshell/internal/geo/models"
	"geoshell/internal/geo/store"
	"geoshell/internal/platform/postgres"
	"geoshell/internal/storage"
	"geoshell/pkg/platform/sentinel"
	"geoshell/pkg/platform/tx"
	"geoshell/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	tx       *tx.Runner
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func ptr[T any](v T) *T { return &v }

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.tx = tx.NewRunner(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))
	s.Require().NoError(postgres.Seed(ctx, s.postgres.DB, storage.Tables{
		Continents: []storage.ContinentRow{{Name: "Europe", Area: 9938000}},
		Countries: []storage.CountryRow{
			{Code: "SLO", Name: "Slovenia", Capital: ptr("Ljubljana"), Population: 2100000},
			{Code: "MC", Name: "Monaco", Capital: ptr("Monaco"), Population: 38000},
			{Code: "USA", Name: "United States", Population: 330000000},
			{Code: "CDN", Name: "Canada", Population: 38000000},
		},
		Cities: []storage.CityRow{
			{Name: "Ljubljana", Country: "SLO", Population: 280000, Elevation: ptr(295.0)},
			{Name: "bled", Country: "SLO", Population: 5000},
			{Name: "Maribor", Country: "SLO", Population: 95000},
			{Name: "Monaco", Country: "MC", Population: 38000},
			{Name: "Springfield", Country: "USA", Population: 160000},
			{Name: "Springfield", Country: "CDN", Population: 15000},
		},
		Encompasses: []storage.EncompassesRow{
			{Country: "SLO", Continent: "Europe", Percentage: 100},
			{Country: "MC", Continent: "Europe", Percentage: 100},
		},
		Economies: []storage.EconomyRow{{Country: "MC", GDP: ptr(7000.0)}},
		Religions: []storage.ReligionRow{
			{Country: "SLO", Name: "Muslim", Percentage: 40},
			{Country: "SLO", Name: "Catholic", Percentage: 40},
			{Country: "MC", Name: "Catholic", Percentage: 90},
		},
		Spoken: []storage.SpokenRow{{Country: "MC", Language: "French", Percentage: 80}},
	}))
}

func (s *PostgresStoreSuite) TestLookupsFoldCase() {
	ctx := context.Background()

	continent, err := s.store.FindContinent(ctx, "europe")
	s.Require().NoError(err)
	n, err := s.store.CountMajorityCountries(ctx, continent.Name)
	s.Require().NoError(err)
	s.Equal(2, n)

	country, err := s.store.FindCountryByName(ctx, "SLOVENIA")
	s.Require().NoError(err)
	s.Equal("SLO", country.Code)

	cities, err := s.store.FindCities(ctx, "springfield")
	s.Require().NoError(err)
	s.Require().Len(cities, 2)
	s.Equal("Canada", cities[0].CountryName)

	profile, err := s.store.CountryProfile(ctx, "SLO")
	s.Require().NoError(err)
	s.Nil(profile.GDP)
	s.Equal(&models.Share{Name: "Catholic", Percentage: 40}, profile.TopReligion)

	names, err := s.store.ListCityNames(ctx, "SLO")
	s.Require().NoError(err)
	s.Equal([]string{"Ljubljana", "Maribor", "bled"}, names)
}

func (s *PostgresStoreSuite) TestTransferCascadeRollsBack() {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		s.Require().NoError(s.store.MoveCity(ctx, "Monaco", "MC", "SLO"))
		s.Require().NoError(s.store.DeleteCountry(ctx, "MC"))
		return boom
	})
	s.ErrorIs(err, boom)

	country, err := s.store.FindCountryByName(ctx, "Monaco")
	s.Require().NoError(err)
	s.Equal("MC", country.Code)
	_, err = s.store.FindCityInCountry(ctx, "Monaco", "MC")
	s.NoError(err)
}

func (s *PostgresStoreSuite) TestTransferCascadeCommits() {
	ctx := context.Background()

	s.Require().NoError(s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.MoveCity(ctx, "Monaco", "MC", "SLO"); err != nil {
			return err
		}
		return s.store.DeleteCountry(ctx, "MC")
	}))

	_, err := s.store.FindCountryByName(ctx, "Monaco")
	s.ErrorIs(err, sentinel.ErrNotFound)
	city, err := s.store.FindCityInCountry(ctx, "Monaco", "SLO")
	s.Require().NoError(err)
	s.Equal("Slovenia", city.CountryName)

	s.ErrorIs(s.store.MoveCity(ctx, "Springfield", "USA", "CDN"), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestCityNamesAreUniquePerCountryIgnoringCase() {
	ctx := context.Background()

	_, err := s.postgres.DB.ExecContext(ctx,
		`INSERT INTO city (name, country, population) VALUES ('SPRINGFIELD', 'CDN', 1)`)
	s.Require().Error(err)
	s.True(postgres.IsUniqueViolation(err))

	_, err = s.postgres.DB.ExecContext(ctx,
		`INSERT INTO city (name, country, population) VALUES ('BLED', 'USA', 1)`)
	s.Require().NoError(err)
	s.ErrorIs(s.store.MoveCity(ctx, "BLED", "USA", "SLO"), sentinel.ErrConflict)

	cities, err := s.store.FindCities(ctx, "bled")
	s.Require().NoError(err)
	s.Len(cities, 2)
}

func (s *PostgresStoreSuite) TestReligionWrites() {
	ctx := context.Background()

	s.Require().NoError(s.store.InsertReligion(ctx, &models.Religion{CountryCode: "SLO", Name: "Orthodox", Percentage: 2}))
	s.Require().NoError(s.store.UpdateReligion(ctx, "SLO", "Muslim", 38))
	s.Require().NoError(s.store.DeleteReligion(ctx, "SLO", "Catholic"))
	s.ErrorIs(s.store.DeleteReligion(ctx, "SLO", "Catholic"), sentinel.ErrNotFound)

	r, err := s.store.FindReligion(ctx, "SLO", "MUSLIM")
	s.Require().NoError(err)
	s.Equal(38.0, r.Percentage)

	s.Require().NoError(s.store.SetCapital(ctx, "SLO", nil))
	country, err := s.store.LockCountry(ctx, "SLO")
	s.Require().NoError(err)
	s.Nil(country.Capital)
}
