package storage

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Row types mirror the relational schema one to one. Field tags follow the
// column names so a YAML dataset reads like a table dump.

type AccessLevelRow struct {
	LevelID             int    `yaml:"level_id"`
	Name                string `yaml:"name"`
	MaxParallelSessions int    `yaml:"max_parallel_sessions"`
}

type AdministratorRow struct {
	AdminID      string `yaml:"admin_id"`
	Password     string `yaml:"password"`
	SessionCount int    `yaml:"session_count"`
	LevelID      int    `yaml:"level_id"`
}

type UserRow struct {
	UserID            uuid.UUID `yaml:"user_id"`
	CurrentQueryCount int       `yaml:"current_query_count"`
	MaxQueryLimit     int       `yaml:"max_query_limit"`
}

type ContinentRow struct {
	Name string  `yaml:"name"`
	Area float64 `yaml:"area"`
}

type CountryRow struct {
	Code       string  `yaml:"code"`
	Name       string  `yaml:"name"`
	Capital    *string `yaml:"capital"`
	Area       float64 `yaml:"area"`
	Population int64   `yaml:"population"`
}

type CityRow struct {
	Name       string   `yaml:"name"`
	Country    string   `yaml:"country"`
	Population int64    `yaml:"population"`
	Elevation  *float64 `yaml:"elevation"`
}

type EncompassesRow struct {
	Country    string  `yaml:"country"`
	Continent  string  `yaml:"continent"`
	Percentage float64 `yaml:"percentage"`
}

type EconomyRow struct {
	Country   string   `yaml:"country"`
	GDP       *float64 `yaml:"gdp"`
	Inflation *float64 `yaml:"inflation"`
}

type ReligionRow struct {
	Country    string  `yaml:"country"`
	Name       string  `yaml:"name"`
	Percentage float64 `yaml:"percentage"`
}

type SpokenRow struct {
	Country    string  `yaml:"country"`
	Language   string  `yaml:"language"`
	Percentage float64 `yaml:"percentage"`
}

// Tables is a complete dataset. Rows are values: replacing an element is the
// only way to change it, which keeps Clone shallow-safe.
type Tables struct {
	AccessLevels   []AccessLevelRow   `yaml:"accesslevels"`
	Administrators []AdministratorRow `yaml:"administrators"`
	Users          []UserRow          `yaml:"users"`
	Continents     []ContinentRow     `yaml:"continent"`
	Countries      []CountryRow       `yaml:"country"`
	Cities         []CityRow          `yaml:"city"`
	Encompasses    []EncompassesRow   `yaml:"encompasses"`
	Economies      []EconomyRow       `yaml:"economy"`
	Religions      []ReligionRow      `yaml:"religion"`
	Spoken         []SpokenRow        `yaml:"spoken"`
}

// Clone copies every table so the result can be mutated independently.
func (t Tables) Clone() Tables {
	return Tables{
		AccessLevels:   slices.Clone(t.AccessLevels),
		Administrators: slices.Clone(t.Administrators),
		Users:          slices.Clone(t.Users),
		Continents:     slices.Clone(t.Continents),
		Countries:      slices.Clone(t.Countries),
		Cities:         slices.Clone(t.Cities),
		Encompasses:    slices.Clone(t.Encompasses),
		Economies:      slices.Clone(t.Economies),
		Religions:      slices.Clone(t.Religions),
		Spoken:         slices.Clone(t.Spoken),
	}
}

// LoadTables decodes a YAML dataset.
func LoadTables(r io.Reader) (Tables, error) {
	var t Tables
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && err != io.EOF {
		return Tables{}, fmt.Errorf("decode dataset: %w", err)
	}
	return t, nil
}

// LoadTablesFile decodes the YAML dataset at path.
func LoadTablesFile(path string) (Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tables{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadTables(f)
}
