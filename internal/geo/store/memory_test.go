package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"geoshell/internal/geo/models"
	"geoshell/internal/storage"
	"geoshell/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	mem   *storage.Memory
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func ptr[T any](v T) *T { return &v }

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.mem = storage.NewMemory(storage.Tables{
		Continents: []storage.ContinentRow{{Name: "Europe", Area: 9938000}},
		Countries: []storage.CountryRow{
			{Code: "SLO", Name: "Slovenia", Capital: ptr("Ljubljana"), Population: 2100000},
			{Code: "USA", Name: "United States", Population: 330000000},
			{Code: "CDN", Name: "Canada", Population: 38000000},
		},
		Cities: []storage.CityRow{
			{Name: "Ljubljana", Country: "SLO", Population: 280000, Elevation: ptr(295.0)},
			{Name: "Springfield", Country: "USA", Population: 160000},
			{Name: "Springfield", Country: "CDN", Population: 15000},
			{Name: "bled", Country: "SLO", Population: 5000},
			{Name: "Maribor", Country: "SLO", Population: 95000},
		},
		Encompasses: []storage.EncompassesRow{
			{Country: "SLO", Continent: "Europe", Percentage: 100},
			{Country: "TR", Continent: "Europe", Percentage: 5},
		},
		Economies: []storage.EconomyRow{{Country: "SLO", GDP: ptr(54000.0)}},
		Religions: []storage.ReligionRow{
			{Country: "SLO", Name: "Muslim", Percentage: 40},
			{Country: "SLO", Name: "Catholic", Percentage: 40},
		},
		Spoken: []storage.SpokenRow{{Country: "SLO", Language: "Slovene", Percentage: 91}},
	})
	s.store = NewInMemory(s.mem)
}

func (s *InMemoryStoreSuite) inTx(fn func(ctx context.Context) error) error {
	return s.mem.RunInTx(s.ctx, fn)
}

func (s *InMemoryStoreSuite) TestLookups() {
	s.Require().NoError(s.inTx(func(ctx context.Context) error {
		continent, err := s.store.FindContinent(ctx, "EUROPE")
		s.Require().NoError(err)
		s.Equal("Europe", continent.Name)

		n, err := s.store.CountMajorityCountries(ctx, continent.Name)
		s.Require().NoError(err)
		s.Equal(1, n, "only shares above half count")

		country, err := s.store.FindCountryByName(ctx, "slovenia")
		s.Require().NoError(err)
		s.Equal("SLO", country.Code)
		s.Equal("Ljubljana", *country.Capital)

		_, err = s.store.FindCountryByName(ctx, "Atlantis")
		s.ErrorIs(err, sentinel.ErrNotFound)

		cities, err := s.store.FindCities(ctx, "SPRINGFIELD")
		s.Require().NoError(err)
		s.Require().Len(cities, 2)
		s.Equal("CDN", cities[0].CountryCode, "ordered by country")
		s.Equal("Canada", cities[0].CountryName)
		return nil
	}))
}

func (s *InMemoryStoreSuite) TestCountryProfile() {
	s.Require().NoError(s.inTx(func(ctx context.Context) error {
		profile, err := s.store.CountryProfile(ctx, "SLO")
		s.Require().NoError(err)
		s.Equal(54000.0, *profile.GDP)
		s.Equal(&models.Share{Name: "Slovene", Percentage: 91}, profile.TopLanguage)
		s.Equal(&models.Share{Name: "Catholic", Percentage: 40}, profile.TopReligion, "ties break by name")

		bare, err := s.store.CountryProfile(ctx, "USA")
		s.Require().NoError(err)
		s.Nil(bare.GDP)
		s.Nil(bare.TopLanguage)
		s.Nil(bare.TopReligion)
		return nil
	}))
}

func (s *InMemoryStoreSuite) TestCityNamesUseByteOrder() {
	s.Require().NoError(s.inTx(func(ctx context.Context) error {
		names, err := s.store.ListCityNames(ctx, "SLO")
		s.Require().NoError(err)
		s.Equal([]string{"Ljubljana", "Maribor", "bled"}, names)
		return nil
	}))
}

func (s *InMemoryStoreSuite) TestMoveCity() {
	s.Require().NoError(s.inTx(func(ctx context.Context) error {
		s.ErrorIs(s.store.MoveCity(ctx, "Springfield", "USA", "CDN"), sentinel.ErrConflict)
		s.ErrorIs(s.store.MoveCity(ctx, "Paris", "USA", "CDN"), sentinel.ErrNotFound)
		s.Require().NoError(s.store.MoveCity(ctx, "Maribor", "SLO", "USA"))

		city, err := s.store.FindCityInCountry(ctx, "maribor", "USA")
		s.Require().NoError(err)
		s.Equal("United States", city.CountryName)
		return nil
	}))
}

func (s *InMemoryStoreSuite) TestMoveCityRefusesCaseVariantClash() {
	s.Require().NoError(s.inTx(func(ctx context.Context) error {
		s.Require().NoError(s.store.MoveCity(ctx, "bled", "SLO", "USA"))
		s.ErrorIs(s.store.MoveCity(ctx, "Springfield", "CDN", "USA"), sentinel.ErrConflict)

		t := s.mem.Tables()
		t.Cities = append(t.Cities, storage.CityRow{Name: "BLED", Country: "CDN", Population: 10})
		s.ErrorIs(s.store.MoveCity(ctx, "bled", "USA", "CDN"), sentinel.ErrConflict)

		cities, err := s.store.FindCities(ctx, "bled")
		s.Require().NoError(err)
		s.Len(cities, 2)
		return nil
	}))
}

func (s *InMemoryStoreSuite) TestDeleteCountryCascades() {
	s.Require().NoError(s.inTx(func(ctx context.Context) error {
		return s.store.DeleteCountry(ctx, "SLO")
	}))

	t := s.mem.Snapshot()
	s.Len(t.Countries, 2)
	s.Len(t.Encompasses, 1)
	s.Empty(t.Economies)
	s.Empty(t.Religions)
	s.Empty(t.Spoken)
	s.Len(t.Cities, 5, "cities are moved away before a country is removed, never deleted with it")
}

func (s *InMemoryStoreSuite) TestReligions() {
	s.Require().NoError(s.inTx(func(ctx context.Context) error {
		r, err := s.store.FindReligion(ctx, "SLO", "catholic")
		s.Require().NoError(err)
		s.Equal("Catholic", r.Name)

		s.ErrorIs(s.store.InsertReligion(ctx, &models.Religion{CountryCode: "SLO", Name: "Catholic", Percentage: 1}), sentinel.ErrConflict)
		s.Require().NoError(s.store.InsertReligion(ctx, &models.Religion{CountryCode: "SLO", Name: "Orthodox", Percentage: 2}))
		s.Require().NoError(s.store.UpdateReligion(ctx, "SLO", "Muslim", 38))
		s.Require().NoError(s.store.DeleteReligion(ctx, "SLO", "Catholic"))
		s.ErrorIs(s.store.DeleteReligion(ctx, "SLO", "Catholic"), sentinel.ErrNotFound)
		return nil
	}))

	s.ElementsMatch([]storage.ReligionRow{
		{Country: "SLO", Name: "Muslim", Percentage: 38},
		{Country: "SLO", Name: "Orthodox", Percentage: 2},
	}, s.mem.Snapshot().Religions)
}

func (s *InMemoryStoreSuite) TestFaultsAbortWrites() {
	s.mem.FailNext("set_capital", sentinel.ErrInvalidState)
	err := s.inTx(func(ctx context.Context) error {
		return s.store.SetCapital(ctx, "SLO", nil)
	})
	s.ErrorIs(err, sentinel.ErrInvalidState)
	s.Equal("Ljubljana", *s.mem.Snapshot().Countries[0].Capital)
}
