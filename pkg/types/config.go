package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "world-explorer/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// DataConfig locates the startup data files.
type DataConfig struct {
	// CitiesFile is the JSON array of cities with raw expense items.
	CitiesFile string `json:"cities_file" yaml:"cities_file" mapstructure:"cities_file"`

	// RatesFile maps currency codes to rates relative to RatesBase.
	RatesFile string `json:"rates_file" yaml:"rates_file" mapstructure:"rates_file"`

	// RatesBase is the currency the rate table is expressed against (default USD).
	RatesBase string `json:"rates_base" yaml:"rates_base" mapstructure:"rates_base"`

	// NameMappingFile maps dataset city names to provider city names. Optional.
	NameMappingFile string `json:"name_mapping_file" yaml:"name_mapping_file" mapstructure:"name_mapping_file"`

	// Currency is the reporting currency every cost is normalized into (default EUR).
	Currency string `json:"currency" yaml:"currency" mapstructure:"currency"`
}

// FaresConfig holds settings for the flight-price provider.
type FaresConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the fare search API root (default https://api.skypicker.com).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Partner is the partner identifier sent with each search.
	Partner string `json:"partner" yaml:"partner" mapstructure:"partner"`

	// APIKey authenticates against the provider. Usually loaded from .secrets/.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// DateOut and DateBack are the outbound and return dates (YYYY-MM-DD).
	// When empty, the trip starts 30 days from now and lasts a week.
	DateOut  string `json:"date_out" yaml:"date_out" mapstructure:"date_out"`
	DateBack string `json:"date_back" yaml:"date_back" mapstructure:"date_back"`

	// RatePerSecond limits outgoing fare searches (0 = unlimited).
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second" mapstructure:"rate_per_second"`

	// Burst is the rate limiter burst size (default 1).
	Burst int `json:"burst" yaml:"burst" mapstructure:"burst"`

	// MaxRetries is the number of retries on HTTP 429 (default 0, no retries).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// BreakerFailures is the number of consecutive transient failures that
	// opens the circuit breaker (default 5).
	BreakerFailures uint32 `json:"breaker_failures" yaml:"breaker_failures" mapstructure:"breaker_failures"`

	// BreakerHalfOpen is how many trial requests the half-open breaker admits
	// before it closes again (default: the search concurrency).
	BreakerHalfOpen uint32 `json:"breaker_half_open" yaml:"breaker_half_open" mapstructure:"breaker_half_open"`

	// BreakerTimeout is how long the breaker stays open (default 30s).
	BreakerTimeout time.Duration `json:"breaker_timeout" yaml:"breaker_timeout" mapstructure:"breaker_timeout"`
}

// CacheBackend selects the flight cache persistence format.
type CacheBackend string

const (
	CacheJSON   CacheBackend = "json"
	CacheSQLite CacheBackend = "sqlite"
)

// CacheConfig holds settings for the flight-price cache.
type CacheConfig struct {
	// Backend selects json (default) or sqlite persistence.
	Backend CacheBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Path is the cache file (flightsCache.json or a SQLite database).
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// RadiusKm is the proximity threshold for reusing a cached route (default 400).
	RadiusKm float64 `json:"radius_km" yaml:"radius_km" mapstructure:"radius_km"`
}

// SearchConfig holds settings for the affordability search.
type SearchConfig struct {
	// Tolerance is the budget overrun allowance (default 0.2).
	Tolerance float64 `json:"tolerance" yaml:"tolerance" mapstructure:"tolerance"`

	// MinDays excludes results with Days <= MinDays (default 1).
	MinDays int `json:"min_days" yaml:"min_days" mapstructure:"min_days"`

	// Concurrency bounds in-flight affordability computations (default 16).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// MaxResults truncates the result list (0 = all).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is debug, info, warn, or error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is text (default) or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all world-explorer settings.
type Config struct {
	Data   DataConfig   `json:"data" yaml:"data" mapstructure:"data"`
	Fares  FaresConfig  `json:"fares" yaml:"fares" mapstructure:"fares"`
	Cache  CacheConfig  `json:"cache" yaml:"cache" mapstructure:"cache"`
	Search SearchConfig `json:"search" yaml:"search" mapstructure:"search"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}
