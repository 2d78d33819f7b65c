package store

import (
	"cmp"
	"context"
	"slices"

	"geoshell/internal/geo/models"
	"geoshell/internal/storage"
	"geoshell/pkg/platform/names"
	"geoshell/pkg/platform/sentinel"
)

// InMemoryStore implements the geo store on storage.Memory. It must be used
// inside Memory.RunInTx, whose mutex stands in for row locks.
type InMemoryStore struct {
	mem *storage.Memory
}

func NewInMemory(mem *storage.Memory) *InMemoryStore {
	return &InMemoryStore{mem: mem}
}

func (s *InMemoryStore) FindContinent(_ context.Context, name string) (*models.Continent, error) {
	var found *models.Continent
	for _, r := range s.mem.Tables().Continents {
		if names.Equal(r.Name, name) && (found == nil || r.Name < found.Name) {
			found = &models.Continent{Name: r.Name, Area: r.Area}
		}
	}
	if found == nil {
		return nil, sentinel.ErrNotFound
	}
	return found, nil
}

func (s *InMemoryStore) CountMajorityCountries(_ context.Context, continent string) (int, error) {
	n := 0
	for _, r := range s.mem.Tables().Encompasses {
		if r.Continent == continent && r.Percentage > 50 {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) FindCountryByName(_ context.Context, name string) (*models.Country, error) {
	i := -1
	for j, r := range s.mem.Tables().Countries {
		if names.Equal(r.Name, name) && (i < 0 || r.Code < s.mem.Tables().Countries[i].Code) {
			i = j
		}
	}
	if i < 0 {
		return nil, sentinel.ErrNotFound
	}
	return countryFromRow(s.mem.Tables().Countries[i]), nil
}

func (s *InMemoryStore) LockCountry(_ context.Context, code string) (*models.Country, error) {
	i := s.countryIndex(code)
	if i < 0 {
		return nil, sentinel.ErrNotFound
	}
	return countryFromRow(s.mem.Tables().Countries[i]), nil
}

func (s *InMemoryStore) CountryProfile(ctx context.Context, code string) (*models.CountryProfile, error) {
	country, err := s.LockCountry(ctx, code)
	if err != nil {
		return nil, err
	}
	t := s.mem.Tables()
	profile := &models.CountryProfile{Country: *country}
	for _, r := range t.Economies {
		if r.Country == code && r.GDP != nil {
			gdp := *r.GDP
			profile.GDP = &gdp
		}
	}
	for _, r := range t.Spoken {
		if r.Country == code {
			profile.TopLanguage = topShare(profile.TopLanguage, r.Language, r.Percentage)
		}
	}
	for _, r := range t.Religions {
		if r.Country == code {
			profile.TopReligion = topShare(profile.TopReligion, r.Name, r.Percentage)
		}
	}
	return profile, nil
}

// topShare keeps the larger percentage, breaking ties by name.
func topShare(current *models.Share, name string, pct float64) *models.Share {
	if current == nil || pct > current.Percentage || (pct == current.Percentage && name < current.Name) {
		return &models.Share{Name: name, Percentage: pct}
	}
	return current
}

func (s *InMemoryStore) UpdateCountryPopulation(_ context.Context, code string, population int64) error {
	if err := s.mem.Fault("update_country_population"); err != nil {
		return err
	}
	i := s.countryIndex(code)
	if i < 0 {
		return sentinel.ErrNotFound
	}
	s.mem.Tables().Countries[i].Population = population
	return nil
}

func (s *InMemoryStore) FindCities(_ context.Context, name string) ([]*models.City, error) {
	var out []*models.City
	for _, r := range s.mem.Tables().Cities {
		if names.Equal(r.Name, name) {
			out = append(out, s.cityFromRow(r))
		}
	}
	slices.SortFunc(out, func(a, b *models.City) int {
		return cmp.Or(cmp.Compare(a.CountryCode, b.CountryCode), cmp.Compare(a.Name, b.Name))
	})
	return out, nil
}

func (s *InMemoryStore) FindCitiesForUpdate(ctx context.Context, name string) ([]*models.City, error) {
	return s.FindCities(ctx, name)
}

func (s *InMemoryStore) FindCityInCountry(ctx context.Context, name, code string) (*models.City, error) {
	cities, _ := s.FindCities(ctx, name)
	for _, c := range cities {
		if c.CountryCode == code {
			return c, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) UpdateCityPopulation(_ context.Context, name, code string, population int64) error {
	if err := s.mem.Fault("update_city_population"); err != nil {
		return err
	}
	i := s.cityIndex(name, code)
	if i < 0 {
		return sentinel.ErrNotFound
	}
	s.mem.Tables().Cities[i].Population = population
	return nil
}

func (s *InMemoryStore) MoveCity(_ context.Context, name, fromCode, toCode string) error {
	if err := s.mem.Fault("move_city"); err != nil {
		return err
	}
	i := s.cityIndex(name, fromCode)
	if i < 0 {
		return sentinel.ErrNotFound
	}
	clash := slices.ContainsFunc(s.mem.Tables().Cities, func(r storage.CityRow) bool {
		return r.Country == toCode && names.Equal(r.Name, name)
	})
	if clash {
		return sentinel.ErrConflict
	}
	s.mem.Tables().Cities[i].Country = toCode
	return nil
}

func (s *InMemoryStore) ListCityNames(_ context.Context, code string) ([]string, error) {
	var out []string
	for _, r := range s.mem.Tables().Cities {
		if r.Country == code {
			out = append(out, r.Name)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (s *InMemoryStore) SetCapital(_ context.Context, code string, capital *string) error {
	if err := s.mem.Fault("set_capital"); err != nil {
		return err
	}
	i := s.countryIndex(code)
	if i < 0 {
		return sentinel.ErrNotFound
	}
	var v *string
	if capital != nil {
		c := *capital
		v = &c
	}
	s.mem.Tables().Countries[i].Capital = v
	return nil
}

func (s *InMemoryStore) DeleteCountry(_ context.Context, code string) error {
	if err := s.mem.Fault("delete_country"); err != nil {
		return err
	}
	i := s.countryIndex(code)
	if i < 0 {
		return sentinel.ErrNotFound
	}
	t := s.mem.Tables()
	t.Encompasses = slices.DeleteFunc(t.Encompasses, func(r storage.EncompassesRow) bool { return r.Country == code })
	t.Economies = slices.DeleteFunc(t.Economies, func(r storage.EconomyRow) bool { return r.Country == code })
	t.Religions = slices.DeleteFunc(t.Religions, func(r storage.ReligionRow) bool { return r.Country == code })
	t.Spoken = slices.DeleteFunc(t.Spoken, func(r storage.SpokenRow) bool { return r.Country == code })
	t.Countries = slices.Delete(t.Countries, i, i+1)
	return nil
}

func (s *InMemoryStore) FindReligion(_ context.Context, code, name string) (*models.Religion, error) {
	var found *models.Religion
	for _, r := range s.mem.Tables().Religions {
		if r.Country == code && names.Equal(r.Name, name) && (found == nil || r.Name < found.Name) {
			found = &models.Religion{CountryCode: r.Country, Name: r.Name, Percentage: r.Percentage}
		}
	}
	if found == nil {
		return nil, sentinel.ErrNotFound
	}
	return found, nil
}

func (s *InMemoryStore) InsertReligion(_ context.Context, r *models.Religion) error {
	if err := s.mem.Fault("insert_religion"); err != nil {
		return err
	}
	if s.religionIndex(r.CountryCode, r.Name) >= 0 {
		return sentinel.ErrConflict
	}
	t := s.mem.Tables()
	t.Religions = append(t.Religions, storage.ReligionRow{Country: r.CountryCode, Name: r.Name, Percentage: r.Percentage})
	return nil
}

func (s *InMemoryStore) UpdateReligion(_ context.Context, code, name string, percentage float64) error {
	if err := s.mem.Fault("update_religion"); err != nil {
		return err
	}
	i := s.religionIndex(code, name)
	if i < 0 {
		return sentinel.ErrNotFound
	}
	s.mem.Tables().Religions[i].Percentage = percentage
	return nil
}

func (s *InMemoryStore) DeleteReligion(_ context.Context, code, name string) error {
	if err := s.mem.Fault("delete_religion"); err != nil {
		return err
	}
	i := s.religionIndex(code, name)
	if i < 0 {
		return sentinel.ErrNotFound
	}
	t := s.mem.Tables()
	t.Religions = slices.Delete(t.Religions, i, i+1)
	return nil
}

func (s *InMemoryStore) countryIndex(code string) int {
	return slices.IndexFunc(s.mem.Tables().Countries, func(r storage.CountryRow) bool { return r.Code == code })
}

func (s *InMemoryStore) cityIndex(name, code string) int {
	return slices.IndexFunc(s.mem.Tables().Cities, func(r storage.CityRow) bool {
		return r.Name == name && r.Country == code
	})
}

func (s *InMemoryStore) religionIndex(code, name string) int {
	return slices.IndexFunc(s.mem.Tables().Religions, func(r storage.ReligionRow) bool {
		return r.Country == code && r.Name == name
	})
}

func (s *InMemoryStore) cityFromRow(r storage.CityRow) *models.City {
	c := &models.City{Name: r.Name, CountryCode: r.Country, Population: r.Population}
	if r.Elevation != nil {
		e := *r.Elevation
		c.Elevation = &e
	}
	if i := s.countryIndex(r.Country); i >= 0 {
		c.CountryName = s.mem.Tables().Countries[i].Name
	}
	return c
}

func countryFromRow(r storage.CountryRow) *models.Country {
	c := &models.Country{Code: r.Code, Name: r.Name, Population: r.Population}
	if r.Capital != nil {
		capital := *r.Capital
		c.Capital = &capital
	}
	return c
}
