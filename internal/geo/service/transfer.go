package service

import (
	"context"
	"errors"

	"geoshell/internal/geo/models"
	idmodels "geoshell/internal/identity/models"
	dErrors "geoshell/pkg/domain-errors"
	"geoshell/pkg/platform/audit"
	"geoshell/pkg/platform/names"
	"geoshell/pkg/platform/sentinel"
)

// TransferCity moves a city to another country. If the city was the source
// country's capital, the alphabetically first remaining city takes over (or
// the capital is cleared). A source country left without cities is deleted
// with its encompasses, economy, religion and spoken rows.
func (s *Service) TransferCity(ctx context.Context, admin *idmodels.Administrator, cityName, fromCountry, toCountry string) (*models.TransferResult, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if names.Equal(fromCountry, toCountry) {
		return nil, dErrors.New(dErrors.CodeSameCountry, "city already belongs to the country")
	}

	var result *models.TransferResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		from, err := s.store.FindCountryByName(ctx, fromCountry)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "source country not found")
			}
			return err
		}
		to, err := s.store.FindCountryByName(ctx, toCountry)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeMissingOccupier, "destination country not found")
			}
			return err
		}
		if from, err = s.store.LockCountry(ctx, from.Code); err != nil {
			return err
		}
		city, err := s.store.FindCityInCountry(ctx, cityName, from.Code)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "city not found in source country")
			}
			return err
		}

		if err := s.store.MoveCity(ctx, city.Name, from.Code, to.Code); err != nil {
			return err
		}
		result = &models.TransferResult{
			City:     city.Name,
			FromCode: from.Code,
			FromName: from.Name,
			ToCode:   to.Code,
			ToName:   to.Name,
		}

		remaining, err := s.store.ListCityNames(ctx, from.Code)
		if err != nil {
			return err
		}
		if from.Capital != nil && names.Equal(*from.Capital, city.Name) {
			result.WasCapital = true
			if len(remaining) > 0 {
				result.NewCapital = &remaining[0]
			}
			if err := s.store.SetCapital(ctx, from.Code, result.NewCapital); err != nil {
				return err
			}
		}
		if err := s.recordAudit(ctx, audit.EventCityTransferred, admin.ID, city.Name+"@"+from.Code,
			"to", to.Code,
			"was_capital", result.WasCapital,
		); err != nil {
			return err
		}

		if len(remaining) > 0 {
			return nil
		}
		if err := s.store.DeleteCountry(ctx, from.Code); err != nil {
			return err
		}
		result.CountryRemoved = true
		return s.recordAudit(ctx, audit.EventCountryRemoved, admin.ID, from.Code, "name", from.Name)
	})
	if err != nil {
		return nil, s.fail(ctx, "transfer city", err)
	}
	if result.CountryRemoved && s.metrics != nil {
		s.metrics.IncrementCountriesRemoved()
	}
	return result, nil
}
