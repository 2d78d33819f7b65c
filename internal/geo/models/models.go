package models

type Continent struct {
	Name string
	Area float64
}

// ContinentSummary counts the countries lying mostly (over 50%) on the continent.
type ContinentSummary struct {
	Continent
	MajorityCountries int
}

// Country is keyed by Code. Capital, when set, names one of its cities.
type Country struct {
	Code       string
	Name       string
	Population int64
	Capital    *string
}

// City is keyed by (Name, CountryCode). The same name may exist in several
// countries, so lookups by name alone can be ambiguous.
type City struct {
	Name        string
	CountryCode string
	CountryName string
	Population  int64
	Elevation   *float64
}

type Religion struct {
	CountryCode string
	Name        string
	Percentage  float64
}

// Share is a named percentage, e.g. a language spoken by part of a country.
type Share struct {
	Name       string
	Percentage float64
}

// CountryProfile is the reporting view of a country. Nil fields have no data.
type CountryProfile struct {
	Country
	GDP         *float64
	TopLanguage *Share
	TopReligion *Share
}

// RebalanceResult describes the two religion rows after a rebalance.
type RebalanceResult struct {
	CountryCode string
	Gained      Religion
	Lost        Religion
	Points      float64
	// Removed is set when Lost dropped to zero and its row was deleted.
	Removed bool
}

// TransferResult describes the outcome of moving a city between countries.
type TransferResult struct {
	City       string
	FromCode   string
	FromName   string
	ToCode     string
	ToName     string
	WasCapital bool
	NewCapital *string
	// CountryRemoved is set when the city was the source country's last one
	// and the country was deleted together with its dependent rows.
	CountryRemoved bool
}

// PopulationTarget is what an adjustment resolved to.
type PopulationTarget struct {
	Kind        string // "country" or "city"
	Name        string
	CountryCode string
	Population  int64
}

const (
	TargetCountry = "country"
	TargetCity    = "city"
)
