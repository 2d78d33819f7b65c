package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"geoshell/internal/geo/models"
	"geoshell/internal/platform/postgres"
	"geoshell/pkg/platform/names"
	"geoshell/pkg/platform/sentinel"
	txcontext "geoshell/pkg/platform/tx"
)

// PostgresStore reads and mutates the geographic tables. Name lookups use the
// case-folding equality of package names; writes address rows by their keys.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) FindContinent(ctx context.Context, name string) (*models.Continent, error) {
	var c models.Continent
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT name, area FROM continent WHERE `+names.SQLEqual("name", "$1")+` ORDER BY name LIMIT 1`, name,
	).Scan(&c.Name, &c.Area)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find continent: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) CountMajorityCountries(ctx context.Context, continent string) (int, error) {
	var n int
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM encompasses WHERE continent = $1 AND percentage > 50`, continent,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count continent countries: %w", err)
	}
	return n, nil
}

const countryColumns = `code, name, population, capital`

func scanCountry(row *sql.Row) (*models.Country, error) {
	var c models.Country
	var capital sql.NullString
	if err := row.Scan(&c.Code, &c.Name, &c.Population, &capital); err != nil {
		return nil, err
	}
	if capital.Valid {
		c.Capital = &capital.String
	}
	return &c, nil
}

func (s *PostgresStore) FindCountryByName(ctx context.Context, name string) (*models.Country, error) {
	c, err := scanCountry(s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+countryColumns+` FROM country WHERE `+names.SQLEqual("name", "$1")+` ORDER BY code LIMIT 1`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find country: %w", err)
	}
	return c, nil
}

// LockCountry re-reads the country row under FOR UPDATE. Concurrent transfers
// out of the same country queue behind the lock.
func (s *PostgresStore) LockCountry(ctx context.Context, code string) (*models.Country, error) {
	c, err := scanCountry(s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+countryColumns+` FROM country WHERE code = $1 FOR UPDATE`, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock country: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) CountryProfile(ctx context.Context, code string) (*models.CountryProfile, error) {
	country, err := scanCountry(s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+countryColumns+` FROM country WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load country: %w", err)
	}
	profile := &models.CountryProfile{Country: *country}

	var gdp sql.NullFloat64
	err = s.execer(ctx).QueryRowContext(ctx, `SELECT gdp FROM economy WHERE country = $1`, code).Scan(&gdp)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("load economy: %w", err)
	case gdp.Valid:
		profile.GDP = &gdp.Float64
	}

	if profile.TopLanguage, err = s.topShare(ctx,
		`SELECT language, percentage FROM spoken WHERE country = $1 ORDER BY percentage DESC, language LIMIT 1`, code); err != nil {
		return nil, fmt.Errorf("load top language: %w", err)
	}
	if profile.TopReligion, err = s.topShare(ctx,
		`SELECT name, percentage FROM religion WHERE country = $1 ORDER BY percentage DESC, name LIMIT 1`, code); err != nil {
		return nil, fmt.Errorf("load top religion: %w", err)
	}
	return profile, nil
}

func (s *PostgresStore) topShare(ctx context.Context, query, code string) (*models.Share, error) {
	var share models.Share
	err := s.execer(ctx).QueryRowContext(ctx, query, code).Scan(&share.Name, &share.Percentage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &share, nil
}

func (s *PostgresStore) UpdateCountryPopulation(ctx context.Context, code string, population int64) error {
	return s.execOne(ctx, "update country population",
		`UPDATE country SET population = $2 WHERE code = $1`, code, population)
}

const cityQuery = `
	SELECT c.name, c.country, co.name, c.population, c.elevation
	FROM city c
	JOIN country co ON co.code = c.country
`

func (s *PostgresStore) FindCities(ctx context.Context, name string) ([]*models.City, error) {
	return s.queryCities(ctx, cityQuery+`WHERE `+names.SQLEqual("c.name", "$1")+` ORDER BY c.country, c.name`, name)
}

// FindCitiesForUpdate is FindCities holding row locks on the matched cities.
func (s *PostgresStore) FindCitiesForUpdate(ctx context.Context, name string) ([]*models.City, error) {
	return s.queryCities(ctx, cityQuery+`WHERE `+names.SQLEqual("c.name", "$1")+` ORDER BY c.country, c.name FOR UPDATE OF c`, name)
}

// FindCityInCountry locks and returns the named city of the given country.
func (s *PostgresStore) FindCityInCountry(ctx context.Context, name, code string) (*models.City, error) {
	cities, err := s.queryCities(ctx,
		cityQuery+`WHERE `+names.SQLEqual("c.name", "$1")+` AND c.country = $2 ORDER BY c.name LIMIT 1 FOR UPDATE OF c`, name, code)
	if err != nil {
		return nil, err
	}
	if len(cities) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return cities[0], nil
}

func (s *PostgresStore) queryCities(ctx context.Context, query string, args ...any) ([]*models.City, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find cities: %w", err)
	}
	defer rows.Close()

	var cities []*models.City
	for rows.Next() {
		var (
			c         models.City
			elevation sql.NullFloat64
		)
		if err := rows.Scan(&c.Name, &c.CountryCode, &c.CountryName, &c.Population, &elevation); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		if elevation.Valid {
			c.Elevation = &elevation.Float64
		}
		cities = append(cities, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cities: %w", err)
	}
	return cities, nil
}

func (s *PostgresStore) UpdateCityPopulation(ctx context.Context, name, code string, population int64) error {
	return s.execOne(ctx, "update city population",
		`UPDATE city SET population = $3 WHERE name = $1 AND country = $2`, name, code, population)
}

// MoveCity reassigns a city. ErrConflict means the destination already has a
// city with that name, compared without regard to case.
func (s *PostgresStore) MoveCity(ctx context.Context, name, fromCode, toCode string) error {
	err := s.execOne(ctx, "move city",
		`UPDATE city SET country = $3 WHERE name = $1 AND country = $2`, name, fromCode, toCode)
	if err != nil && postgres.IsUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	return err
}

// ListCityNames returns the country's city names in byte order.
func (s *PostgresStore) ListCityNames(ctx context.Context, code string) ([]string, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT name FROM city WHERE country = $1 ORDER BY name COLLATE "C"`, code)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan city name: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate city names: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SetCapital(ctx context.Context, code string, capital *string) error {
	return s.execOne(ctx, "set capital", `UPDATE country SET capital = $2 WHERE code = $1`, code, capital)
}

// DeleteCountry removes the country and every row keyed to it.
func (s *PostgresStore) DeleteCountry(ctx context.Context, code string) error {
	for _, table := range []string{"encompasses", "economy", "religion", "spoken"} {
		if _, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM `+table+` WHERE country = $1`, code); err != nil {
			return fmt.Errorf("delete %s rows: %w", table, err)
		}
	}
	return s.execOne(ctx, "delete country", `DELETE FROM country WHERE code = $1`, code)
}

// FindReligion locks and returns the country's religion row matching name.
func (s *PostgresStore) FindReligion(ctx context.Context, code, name string) (*models.Religion, error) {
	var r models.Religion
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT country, name, percentage FROM religion WHERE country = $1 AND `+names.SQLEqual("name", "$2")+` ORDER BY name LIMIT 1 FOR UPDATE`,
		code, name,
	).Scan(&r.CountryCode, &r.Name, &r.Percentage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find religion: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) InsertReligion(ctx context.Context, r *models.Religion) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO religion (country, name, percentage) VALUES ($1, $2, $3)`, r.CountryCode, r.Name, r.Percentage)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert religion: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateReligion(ctx context.Context, code, name string, percentage float64) error {
	return s.execOne(ctx, "update religion",
		`UPDATE religion SET percentage = $3 WHERE country = $1 AND name = $2`, code, name, percentage)
}

func (s *PostgresStore) DeleteReligion(ctx context.Context, code, name string) error {
	return s.execOne(ctx, "delete religion", `DELETE FROM religion WHERE country = $1 AND name = $2`, code, name)
}

// execOne runs a statement that must touch exactly one row.
func (s *PostgresStore) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := s.execer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
