// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New builds a Config populated with defaults.
//   - Load layers a YAML file and MEDALCAST_ env vars on top of New.
//   - Errors returned from this package wrap ErrInvalidConfig or ErrLoadConfig.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataSource picks the medal dataset reader: csv or sqlite.
	DataSource string `koanf:"data_source"`

	// DataPath points at the CSV file or SQLite database.
	DataPath string `koanf:"data_path"`

	// SQLiteTable is the medals table read when DataSource is sqlite.
	SQLiteTable string `koanf:"sqlite_table"`

	// ModelsDir holds trained model artifacts (<name>.json).
	ModelsDir string `koanf:"models_dir"`

	// DefaultStrategy is used when a request does not name one: ma or es.
	DefaultStrategy string `koanf:"default_strategy"`

	// MAWindow is the trailing window for the moving-average strategy.
	MAWindow int `koanf:"ma_window"`

	// ESAlpha is the smoothing factor for the exponential strategy.
	ESAlpha float64 `koanf:"es_alpha"`

	// DefaultYear is the forecast target when a request omits it.
	DefaultYear int `koanf:"default_year"`

	DefaultTopN         int `koanf:"default_top_n"`
	MaxTopLimit         int `koanf:"max_top_limit"`
	DefaultAthleteLimit int `koanf:"default_athlete_limit"`
	MaxAthleteLimit     int `koanf:"max_athlete_limit"`

	// Workers bounds concurrent per-entity forecasts in batch requests.
	// Zero means one per CPU.
	Workers int `koanf:"workers"`

	// ArtifactCacheSize bounds the number of loaded artifacts kept in memory.
	ArtifactCacheSize int `koanf:"artifact_cache_size"`

	// Hosts maps an Olympic year to its host country.
	Hosts map[string]string `koanf:"hosts"`

	// Aliases adds raw label -> canonical country pairs to the built-in table.
	Aliases map[string]string `koanf:"aliases"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		DataSource:          "csv",
		DataPath:            "data/olympic_medals.csv",
		SQLiteTable:         "medals",
		ModelsDir:           "models",
		DefaultStrategy:     "ma",
		MAWindow:            5,
		ESAlpha:             0.5,
		DefaultYear:         2028,
		DefaultTopN:         25,
		MaxTopLimit:         250,
		DefaultAthleteLimit: 50,
		MaxAthleteLimit:     1000,
		ArtifactCacheSize:   16,
		Hosts: map[string]string{
			"2000": "Australia",
			"2004": "Greece",
			"2008": "China",
			"2012": "Great Britain",
			"2016": "Brazil",
			"2020": "Japan",
			"2024": "France",
			"2028": "United States",
			"2032": "Australia",
		},
		Aliases: map[string]string{},
	}
}
