// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves world-explorer settings from defaults, an optional
// YAML config file, and WORLD_EXPLORER_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/world-explorer/pkg/types"
)

// EnvPrefix prefixes environment overrides: WORLD_EXPLORER_FARES_BASE_URL -> fares.base_url.
const EnvPrefix = "WORLD_EXPLORER"

const dateFormat = "2006-01-02"

// Defaults registers default values on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("data.cities_file", "data/citiesWithExpenses.json")
	v.SetDefault("data.rates_file", "data/currencyRates.json")
	v.SetDefault("data.rates_base", "USD")
	v.SetDefault("data.name_mapping_file", "data/skyscannerMapping.json")
	v.SetDefault("data.currency", "EUR")

	v.SetDefault("fares.timeout", 30*time.Second)
	v.SetDefault("fares.user_agent", "world-explorer/0.1")
	v.SetDefault("fares.base_url", "https://api.skypicker.com")
	v.SetDefault("fares.partner", "picky")
	v.SetDefault("fares.rate_per_second", 5.0)
	v.SetDefault("fares.burst", 5)
	v.SetDefault("fares.max_retries", 0)
	v.SetDefault("fares.breaker_failures", 5)
	v.SetDefault("fares.breaker_timeout", 30*time.Second)

	v.SetDefault("cache.backend", string(types.CacheJSON))
	v.SetDefault("cache.path", "cache/flightsCache.json")
	v.SetDefault("cache.radius_km", 400.0)

	v.SetDefault("search.tolerance", 0.2)
	v.SetDefault("search.min_days", 1)
	v.SetDefault("search.concurrency", 16)
	v.SetDefault("search.max_results", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// BindEnv enables environment overrides on v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Data.Currency = strings.ToUpper(cfg.Data.Currency)
	cfg.Data.RatesBase = strings.ToUpper(cfg.Data.RatesBase)

	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate checks that settings are present and sane, reporting every
// violation at once.
func Validate(cfg types.Config) error {
	var errs []string

	if cfg.Data.CitiesFile == "" {
		errs = append(errs, "data.cities_file is required")
	}
	if cfg.Data.RatesFile == "" {
		errs = append(errs, "data.rates_file is required")
	}
	if cfg.Data.Currency == "" {
		errs = append(errs, "data.currency is required")
	}
	if cfg.Fares.BaseURL == "" {
		errs = append(errs, "fares.base_url is required")
	}
	if cfg.Fares.RatePerSecond < 0 {
		errs = append(errs, "fares.rate_per_second must not be negative")
	}
	if cfg.Fares.MaxRetries < 0 {
		errs = append(errs, "fares.max_retries must not be negative")
	}
	if _, _, err := TravelDates(cfg.Fares, time.Now()); err != nil {
		errs = append(errs, err.Error())
	}
	switch cfg.Cache.Backend {
	case types.CacheJSON, types.CacheSQLite:
	default:
		errs = append(errs, fmt.Sprintf("cache.backend must be json or sqlite, got %q", cfg.Cache.Backend))
	}
	if cfg.Cache.Path == "" {
		errs = append(errs, "cache.path is required")
	}
	if cfg.Cache.RadiusKm <= 0 {
		errs = append(errs, "cache.radius_km must be positive")
	}
	if cfg.Search.Tolerance < 0 {
		errs = append(errs, "search.tolerance must not be negative")
	}
	if cfg.Search.Concurrency <= 0 {
		errs = append(errs, "search.concurrency must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// TravelDates returns the outbound and return dates. Unset dates default to
// a one-week trip starting 30 days after now.
func TravelDates(cfg types.FaresConfig, now time.Time) (time.Time, time.Time, error) {
	out := now.AddDate(0, 0, 30)
	if cfg.DateOut != "" {
		t, err := time.Parse(dateFormat, cfg.DateOut)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("fares.date_out %q: want YYYY-MM-DD", cfg.DateOut)
		}
		out = t
	}

	back := out.AddDate(0, 0, 7)
	if cfg.DateBack != "" {
		t, err := time.Parse(dateFormat, cfg.DateBack)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("fares.date_back %q: want YYYY-MM-DD", cfg.DateBack)
		}
		back = t
	}

	if back.Before(out) {
		return time.Time{}, time.Time{}, fmt.Errorf("fares.date_back %s is before fares.date_out %s",
			back.Format(dateFormat), out.Format(dateFormat))
	}
	return out, back, nil
}
