package service

import (
	"context"
	"errors"
	"strconv"

	"geoshell/internal/geo/models"
	idmodels "geoshell/internal/identity/models"
	dErrors "geoshell/pkg/domain-errors"
	"geoshell/pkg/platform/audit"
	"geoshell/pkg/platform/names"
	"geoshell/pkg/platform/sentinel"
)

// AdjustPopulation sets the population of a country or city. name is tried
// as a country first; otherwise it must resolve to exactly one city, using
// countryName to pick among cities sharing the name. An empty countryName
// means none was given.
func (s *Service) AdjustPopulation(ctx context.Context, admin *idmodels.Administrator, name, countryName, population string) (*models.PopulationTarget, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	value, err := strconv.ParseInt(population, 10, 64)
	if err != nil {
		return nil, s.fail(ctx, "adjust population", err)
	}
	if value < 0 {
		return nil, dErrors.New(dErrors.CodeNegativePopulation, "population must not be negative")
	}

	var target *models.PopulationTarget
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		country, err := s.store.FindCountryByName(ctx, name)
		switch {
		case err == nil:
			if err := s.store.UpdateCountryPopulation(ctx, country.Code, value); err != nil {
				return err
			}
			target = &models.PopulationTarget{Kind: models.TargetCountry, Name: country.Name, CountryCode: country.Code, Population: value}
		case errors.Is(err, sentinel.ErrNotFound):
			city, err := s.resolveCity(ctx, name, countryName)
			if err != nil {
				return err
			}
			if err := s.store.UpdateCityPopulation(ctx, city.Name, city.CountryCode, value); err != nil {
				return err
			}
			target = &models.PopulationTarget{Kind: models.TargetCity, Name: city.Name, CountryCode: city.CountryCode, Population: value}
		default:
			return err
		}

		subject := target.CountryCode
		if target.Kind == models.TargetCity {
			subject = target.Name + "@" + target.CountryCode
		}
		return s.recordAudit(ctx, audit.EventPopulationAdjusted, admin.ID, subject,
			"kind", target.Kind,
			"population", value,
		)
	})
	if err != nil {
		return nil, s.fail(ctx, "adjust population", err)
	}
	return target, nil
}

// resolveCity locks the single city matching name (and countryName if given).
func (s *Service) resolveCity(ctx context.Context, name, countryName string) (*models.City, error) {
	cities, err := s.store.FindCitiesForUpdate(ctx, name)
	if err != nil {
		return nil, err
	}
	if countryName != "" {
		matched := cities[:0:0]
		for _, c := range cities {
			if names.Equal(c.CountryName, countryName) {
				matched = append(matched, c)
			}
		}
		cities = matched
	}
	switch len(cities) {
	case 0:
		return nil, dErrors.New(dErrors.CodeNotFound, "no entity with the given name")
	case 1:
		return cities[0], nil
	default:
		return nil, dErrors.New(dErrors.CodeAmbiguousCity, "several cities share the name")
	}
}
