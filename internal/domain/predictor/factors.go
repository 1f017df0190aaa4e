package predictor

import "github.com/okian/medalcast/internal/domain/identity"

// Factors are static, slow-moving country attributes fed to the regressor.
type Factors struct {
	Population       float64
	GDPPerCapita     float64
	SportsCulture    float64
	OlympicTradition float64
}

// DefaultFactors apply to countries missing from the table.
var DefaultFactors = Factors{ //nolint:gochecknoglobals // static table
	Population:       50_000_000,
	GDPPerCapita:     20_000,
	SportsCulture:    0.5,
	OlympicTradition: 0.5,
}

// countryFactors is keyed by identity.Key of the canonical label.
var countryFactors = map[string]Factors{ //nolint:gochecknoglobals // static table
	identity.Key("United States"): {331_000_000, 65_000, 0.9, 0.95},
	identity.Key("China"):         {1_400_000_000, 10_000, 0.8, 0.7},
	identity.Key("Great Britain"): {67_000_000, 45_000, 0.85, 0.9},
	identity.Key("France"):        {67_000_000, 40_000, 0.8, 0.85},
	identity.Key("Germany"):       {83_000_000, 50_000, 0.85, 0.9},
	identity.Key("Japan"):         {125_000_000, 40_000, 0.75, 0.8},
	identity.Key("Italy"):         {60_000_000, 35_000, 0.8, 0.85},
	identity.Key("Australia"):     {25_000_000, 55_000, 0.9, 0.8},
	identity.Key("Canada"):        {38_000_000, 45_000, 0.8, 0.75},
	identity.Key("Russia"):        {145_000_000, 12_000, 0.85, 0.9},
	identity.Key("Norway"):        {5_000_000, 75_000, 0.9, 0.8},
	identity.Key("Sweden"):        {10_000_000, 55_000, 0.8, 0.8},
	identity.Key("Netherlands"):   {17_000_000, 55_000, 0.8, 0.75},
	identity.Key("South Korea"):   {51_000_000, 30_000, 0.8, 0.7},
	identity.Key("Spain"):         {47_000_000, 30_000, 0.75, 0.7},
	identity.Key("Brazil"):        {210_000_000, 8_000, 0.8, 0.6},
	identity.Key("India"):         {1_400_000_000, 2_000, 0.4, 0.3},
	identity.Key("South Africa"):  {60_000_000, 6_000, 0.7, 0.5},
}

// FactorsFor returns the static factors for a canonical country.
func FactorsFor(country string) (Factors, bool) {
	f, ok := countryFactors[identity.Key(country)]
	if !ok {
		return DefaultFactors, false
	}
	return f, true
}
