package service

import (
	"context"
	"errors"
	"math"
	"strconv"

	"geoshell/internal/geo/models"
	idmodels "geoshell/internal/identity/models"
	dErrors "geoshell/pkg/domain-errors"
	"geoshell/pkg/platform/audit"
	"geoshell/pkg/platform/names"
	"geoshell/pkg/platform/sentinel"
)

// RebalanceReligion moves points percentage points from toName to fromName
// within one country. toName loses the points and its row is deleted when it
// reaches zero; fromName gains them and is created when absent. The two rows
// change together or not at all, so their sum is preserved.
//
// When both names refer to the same religion nothing is written.
func (s *Service) RebalanceReligion(ctx context.Context, admin *idmodels.Administrator, countryName, fromName, toName, points string) (*models.RebalanceResult, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	p, err := strconv.ParseFloat(points, 64)
	if err != nil {
		return nil, s.fail(ctx, "rebalance religion", err)
	}
	if math.IsNaN(p) || p < 0 || p > 100 {
		return nil, dErrors.New(dErrors.CodeInvalidPercentage, "percentage must be between 0 and 100")
	}

	var result *models.RebalanceResult
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		country, err := s.store.FindCountryByName(ctx, countryName)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "country not found")
			}
			return err
		}
		lost, err := s.store.FindReligion(ctx, country.Code, toName)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeReligionNotFound, "religion not found in country")
			}
			return err
		}
		if lost.Percentage < p {
			return dErrors.New(dErrors.CodeInsufficientPercentage, "religion has insufficient percentage")
		}
		if names.Equal(fromName, toName) {
			result = &models.RebalanceResult{CountryCode: country.Code, Gained: *lost, Lost: *lost, Points: p}
			return nil
		}

		gained, err := s.store.FindReligion(ctx, country.Code, fromName)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			gained = &models.Religion{CountryCode: country.Code, Name: fromName, Percentage: p}
			if err := s.store.InsertReligion(ctx, gained); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			gained.Percentage += p
			if gained.Percentage > 100 {
				return dErrors.New(dErrors.CodeInvalidPercentage, "percentage must be between 0 and 100")
			}
			if err := s.store.UpdateReligion(ctx, country.Code, gained.Name, gained.Percentage); err != nil {
				return err
			}
		}

		lost.Percentage -= p
		removed := lost.Percentage == 0
		if removed {
			err = s.store.DeleteReligion(ctx, country.Code, lost.Name)
		} else {
			err = s.store.UpdateReligion(ctx, country.Code, lost.Name, lost.Percentage)
		}
		if err != nil {
			return err
		}

		result = &models.RebalanceResult{CountryCode: country.Code, Gained: *gained, Lost: *lost, Points: p, Removed: removed}
		return s.recordAudit(ctx, audit.EventReligionRebalanced, admin.ID, country.Code,
			"gained", gained.Name,
			"lost", lost.Name,
			"points", p,
			"removed", removed,
		)
	})
	if err != nil {
		return nil, s.fail(ctx, "rebalance religion", err)
	}
	return result, nil
}
