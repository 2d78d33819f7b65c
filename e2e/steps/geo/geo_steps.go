package geo

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"geoshell/internal/storage"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Tables() storage.Tables
}

// RegisterSteps registers geographic state assertions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &geoSteps{tc: tc}

	ctx.Step(`^"([^"]*)" has religion "([^"]*)" at ([\d.]+)%$`, steps.hasReligion)
	ctx.Step(`^"([^"]*)" has no religion "([^"]*)"$`, steps.hasNoReligion)
	ctx.Step(`^country "([^"]*)" \(([A-Z]+)\) and its dependent rows no longer exist$`, steps.countryGone)
	ctx.Step(`^city "([^"]*)" belongs to "([^"]*)"$`, steps.cityBelongsTo)
	ctx.Step(`^city "([^"]*)" in "([^"]*)" has population (\d+)$`, steps.cityPopulation)
	ctx.Step(`^country "([^"]*)" has population (\d+)$`, steps.countryPopulation)
}

type geoSteps struct {
	tc TestContext
}

func (s *geoSteps) countryCode(t storage.Tables, name string) (string, error) {
	for _, c := range t.Countries {
		if c.Name == name {
			return c.Code, nil
		}
	}
	return "", fmt.Errorf("country %q not found", name)
}

func (s *geoSteps) hasReligion(_ context.Context, country, religion string, pct float64) error {
	t := s.tc.Tables()
	code, err := s.countryCode(t, country)
	if err != nil {
		return err
	}
	for _, r := range t.Religions {
		if r.Country == code && r.Name == religion {
			if r.Percentage != pct {
				return fmt.Errorf("expected %s in %s at %v%%, got %v%%", religion, country, pct, r.Percentage)
			}
			return nil
		}
	}
	return fmt.Errorf("religion %q not found in %s", religion, country)
}

func (s *geoSteps) hasNoReligion(_ context.Context, country, religion string) error {
	t := s.tc.Tables()
	code, err := s.countryCode(t, country)
	if err != nil {
		return err
	}
	for _, r := range t.Religions {
		if r.Country == code && r.Name == religion {
			return fmt.Errorf("religion %q still present in %s at %v%%", religion, country, r.Percentage)
		}
	}
	return nil
}

// countryGone takes the code explicitly since the country row is gone.
func (s *geoSteps) countryGone(_ context.Context, name, code string) error {
	t := s.tc.Tables()
	for _, c := range t.Countries {
		if c.Name == name || c.Code == code {
			return fmt.Errorf("country %q (%s) still exists", c.Name, c.Code)
		}
	}
	for _, r := range t.Encompasses {
		if r.Country == code {
			return fmt.Errorf("encompasses row for %s remains", code)
		}
	}
	for _, r := range t.Economies {
		if r.Country == code {
			return fmt.Errorf("economy row for %s remains", code)
		}
	}
	for _, r := range t.Religions {
		if r.Country == code {
			return fmt.Errorf("religion row for %s remains", code)
		}
	}
	for _, r := range t.Spoken {
		if r.Country == code {
			return fmt.Errorf("spoken row for %s remains", code)
		}
	}
	return nil
}

func (s *geoSteps) cityBelongsTo(_ context.Context, city, country string) error {
	t := s.tc.Tables()
	code, err := s.countryCode(t, country)
	if err != nil {
		return err
	}
	for _, c := range t.Cities {
		if c.Name == city && c.Country == code {
			return nil
		}
	}
	return fmt.Errorf("city %q is not in %s", city, country)
}

func (s *geoSteps) cityPopulation(_ context.Context, city, country string, population int64) error {
	t := s.tc.Tables()
	code, err := s.countryCode(t, country)
	if err != nil {
		return err
	}
	for _, c := range t.Cities {
		if c.Name == city && c.Country == code {
			if c.Population != population {
				return fmt.Errorf("expected %s in %s to have %d people, got %d", city, country, population, c.Population)
			}
			return nil
		}
	}
	return fmt.Errorf("city %q is not in %s", city, country)
}

func (s *geoSteps) countryPopulation(_ context.Context, country string, population int64) error {
	t := s.tc.Tables()
	for _, c := range t.Countries {
		if c.Name == country {
			if c.Population != population {
				return fmt.Errorf("expected %s to have %d people, got %d", country, population, c.Population)
			}
			return nil
		}
	}
	return fmt.Errorf("country %q not found", country)
}
