package reporting

import (
	"context"
	"errors"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	geomodels "geoshell/internal/geo/models"
	idmodels "geoshell/internal/identity/models"
	dErrors "geoshell/pkg/domain-errors"
	"geoshell/pkg/platform/names"
	"geoshell/pkg/platform/sentinel"
)

var printer = message.NewPrinter(language.English)

// ErrQuotaExhausted marks a describe refused because the guest used up its
// query quota. The returned error is coded internal and wraps it.
var ErrQuotaExhausted = errors.New("query limit reached")

// Describe resolves name as a continent, then a country, then a city, and
// returns its summary table. A non-nil guest is charged one query first; the
// charge commits even when the name does not resolve. Administrators pass a
// nil guest and are never charged.
func (s *Service) Describe(ctx context.Context, guest *idmodels.GuestSession, name, countryName string) (*Table, error) {
	var (
		table   *Table
		outcome error
		charged bool
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if guest != nil {
			row, err := s.quota.FindGuestForUpdate(ctx, guest.ID)
			if err != nil {
				return err
			}
			if row.QuotaExhausted() {
				return ErrQuotaExhausted
			}
			if err := s.quota.IncrementGuestQueries(ctx, guest.ID); err != nil {
				return err
			}
			guest.QueryCount = row.QueryCount + 1
			charged = true
		}

		var err error
		table, err = s.resolve(ctx, name, countryName)
		var de *dErrors.Error
		if errors.As(err, &de) {
			outcome = err
			return nil
		}
		return err
	})
	if charged && err == nil && s.metrics != nil {
		s.metrics.IncrementGuestQueries()
	}
	if errors.Is(err, ErrQuotaExhausted) {
		s.logger.WarnContext(ctx, "query limit reached", "guest_id", guest.ID, "limit", guest.QueryLimit)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "guest query quota exhausted")
	}
	if err != nil {
		return nil, s.fail(ctx, "describe", err)
	}
	if outcome != nil {
		return nil, outcome
	}
	return table, nil
}

func (s *Service) resolve(ctx context.Context, name, countryName string) (*Table, error) {
	continent, err := s.geo.FindContinent(ctx, name)
	if err == nil {
		n, err := s.geo.CountMajorityCountries(ctx, continent.Name)
		if err != nil {
			return nil, err
		}
		return NewTable("TYPE", "NAME", "COUNTRIES").
			Append("Continent", continent.Name, strconv.Itoa(n)), nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}

	country, err := s.geo.FindCountryByName(ctx, name)
	if err == nil {
		profile, err := s.geo.CountryProfile(ctx, country.Code)
		if err != nil {
			return nil, err
		}
		return countryTable(profile), nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}

	cities, err := s.geo.FindCities(ctx, name)
	if err != nil {
		return nil, err
	}
	if countryName == "" {
		switch len(cities) {
		case 0:
			return nil, dErrors.New(dErrors.CodeNotFound, "no entity with the given name")
		case 1:
			c := cities[0]
			return NewTable("TYPE", "NAME", "POPULATION", "ELEVATION").
				Append("City", c.Name, formatCount(c.Population), formatElevation(c.Elevation)), nil
		default:
			return nil, dErrors.New(dErrors.CodeAmbiguousCity, "several cities share the name")
		}
	}
	for _, c := range cities {
		if names.Equal(c.CountryName, countryName) {
			return NewTable("TYPE", "NAME", "COUNTRY", "POPULATION", "ELEVATION").
				Append("City", c.Name, c.CountryName, formatCount(c.Population), formatElevation(c.Elevation)), nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "no city with the given name in the country")
}

func countryTable(p *geomodels.CountryProfile) *Table {
	gdp := "N/A"
	if p.GDP != nil {
		gdp = "$" + formatNumber(*p.GDP)
	}
	return NewTable("TYPE", "NAME", "POPULATION", "GDP", "TOP_LANGUAGE", "TOP_RELIGION").
		Append("Country", p.Name, formatCount(p.Population), gdp, formatShare(p.TopLanguage), formatShare(p.TopReligion))
}

func formatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatElevation(e *float64) string {
	if e == nil {
		return "N/A"
	}
	return formatNumber(*e) + "m"
}

func formatShare(s *geomodels.Share) string {
	if s == nil {
		return "N/A"
	}
	return s.Name + " (" + formatNumber(s.Percentage) + "%)"
}
