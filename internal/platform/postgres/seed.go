package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"geoshell/internal/storage"
)

// Seed inserts a dataset in one transaction. Rows that already exist are left
// alone, so seeding twice is harmless.
func Seed(ctx context.Context, db *sql.DB, t storage.Tables) (err error) {
	sqlTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() {
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	exec := func(table, query string, args ...any) error {
		if _, err := sqlTx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed %s: %w", table, err)
		}
		return nil
	}

	for _, r := range t.AccessLevels {
		if err = exec("accesslevels", `INSERT INTO accesslevels (level_id, name, max_parallel_sessions) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			r.LevelID, r.Name, r.MaxParallelSessions); err != nil {
			return err
		}
	}
	for _, r := range t.Administrators {
		if err = exec("administrators", `INSERT INTO administrators (admin_id, password, session_count, level_id) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
			r.AdminID, r.Password, r.SessionCount, r.LevelID); err != nil {
			return err
		}
	}
	for _, r := range t.Users {
		if err = exec("users", `INSERT INTO users (user_id, current_query_count, max_query_limit) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			r.UserID, r.CurrentQueryCount, r.MaxQueryLimit); err != nil {
			return err
		}
	}
	for _, r := range t.Continents {
		if err = exec("continent", `INSERT INTO continent (name, area) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			r.Name, r.Area); err != nil {
			return err
		}
	}
	for _, r := range t.Countries {
		if err = exec("country", `INSERT INTO country (code, name, capital, area, population) VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
			r.Code, r.Name, r.Capital, r.Area, r.Population); err != nil {
			return err
		}
	}
	for _, r := range t.Cities {
		if err = exec("city", `INSERT INTO city (name, country, population, elevation) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
			r.Name, r.Country, r.Population, r.Elevation); err != nil {
			return err
		}
	}
	for _, r := range t.Encompasses {
		if err = exec("encompasses", `INSERT INTO encompasses (country, continent, percentage) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			r.Country, r.Continent, r.Percentage); err != nil {
			return err
		}
	}
	for _, r := range t.Economies {
		if err = exec("economy", `INSERT INTO economy (country, gdp, inflation) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			r.Country, r.GDP, r.Inflation); err != nil {
			return err
		}
	}
	for _, r := range t.Religions {
		if err = exec("religion", `INSERT INTO religion (country, name, percentage) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			r.Country, r.Name, r.Percentage); err != nil {
			return err
		}
	}
	for _, r := range t.Spoken {
		if err = exec("spoken", `INSERT INTO spoken (country, language, percentage) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			r.Country, r.Language, r.Percentage); err != nil {
			return err
		}
	}

	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
