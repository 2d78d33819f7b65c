package testutil

import "geoshell/internal/storage"

func ptr[T any](v T) *T { return &v }

// Mondial returns a small dataset shaped like the Mondial tables. It carries
// the cases the shell tests lean on: Springfield in two countries, a
// single-city country with dependent rows, and Andorra's religion split.
func Mondial() storage.Tables {
	return storage.Tables{
		AccessLevels: []storage.AccessLevelRow{
			{LevelID: 1, Name: "Basic", MaxParallelSessions: 2},
			{LevelID: 2, Name: "Advanced", MaxParallelSessions: 5},
			{LevelID: 3, Name: "Premium", MaxParallelSessions: 10},
		},
		Continents: []storage.ContinentRow{
			{Name: "Europe", Area: 9938000},
			{Name: "America", Area: 39000000},
		},
		Countries: []storage.CountryRow{
			{Code: "AND", Name: "Andorra", Capital: ptr("Andorra la Vella"), Area: 468, Population: 77000},
			{Code: "F", Name: "France", Capital: ptr("Paris"), Area: 547030, Population: 67000000},
			{Code: "MC", Name: "Monaco", Capital: ptr("Monaco"), Area: 2, Population: 38000},
			{Code: "USA", Name: "United States", Capital: ptr("Washington"), Area: 9372610, Population: 330000000},
			{Code: "CDN", Name: "Canada", Capital: ptr("Ottawa"), Area: 9976140, Population: 38000000},
		},
		Cities: []storage.CityRow{
			{Name: "Andorra la Vella", Country: "AND", Population: 22000, Elevation: ptr(1023.0)},
			{Name: "Canillo", Country: "AND", Population: 4000},
			{Name: "Encamp", Country: "AND", Population: 11000},
			{Name: "Paris", Country: "F", Population: 2100000, Elevation: ptr(35.0)},
			{Name: "Monaco", Country: "MC", Population: 38000, Elevation: ptr(50.0)},
			{Name: "Springfield", Country: "USA", Population: 160000},
			{Name: "Washington", Country: "USA", Population: 700000},
			{Name: "Springfield", Country: "CDN", Population: 15000},
			{Name: "Ottawa", Country: "CDN", Population: 1000000},
		},
		Encompasses: []storage.EncompassesRow{
			{Country: "AND", Continent: "Europe", Percentage: 100},
			{Country: "F", Continent: "Europe", Percentage: 100},
			{Country: "MC", Continent: "Europe", Percentage: 100},
			{Country: "USA", Continent: "America", Percentage: 100},
			{Country: "CDN", Continent: "America", Percentage: 100},
		},
		Economies: []storage.EconomyRow{
			{Country: "AND", GDP: ptr(3327.0)},
			{Country: "F", GDP: ptr(2937000.0)},
			{Country: "MC", GDP: ptr(7672.0)},
		},
		Religions: []storage.ReligionRow{
			{Country: "AND", Name: "Catholic", Percentage: 60},
			{Country: "AND", Name: "Protestant", Percentage: 30},
			{Country: "AND", Name: "Muslim", Percentage: 10},
			{Country: "F", Name: "Catholic", Percentage: 63},
			{Country: "MC", Name: "Catholic", Percentage: 90},
		},
		Spoken: []storage.SpokenRow{
			{Country: "AND", Language: "Catalan", Percentage: 60},
			{Country: "AND", Language: "Spanish", Percentage: 30},
			{Country: "F", Language: "French", Percentage: 100},
			{Country: "MC", Language: "French", Percentage: 80},
		},
	}
}
