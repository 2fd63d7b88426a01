// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/pdiddy/world-explorer/internal/config"
	"github.com/pdiddy/world-explorer/internal/currency"
	"github.com/pdiddy/world-explorer/internal/dataset"
	"github.com/pdiddy/world-explorer/internal/explorer"
	"github.com/pdiddy/world-explorer/internal/fares"
	"github.com/pdiddy/world-explorer/internal/flightcache"
	"github.com/pdiddy/world-explorer/internal/metrics"
	"github.com/pdiddy/world-explorer/internal/secrets"
	"github.com/pdiddy/world-explorer/pkg/types"
)

// saveTimeout bounds the cache flush on shutdown.
const saveTimeout = 30 * time.Second

// app owns the state shared by every query of one process: the prepared
// dataset, the flight cache and its persister, and the engine.
type app struct {
	cfg     types.Config
	index   *dataset.Index
	store   flightcache.Persister
	cache   *flightcache.Cache
	engine  *explorer.Engine
	metrics *metrics.Metrics
}

// newApp loads configuration, the dataset, and the persisted cache. Any
// failure here is fatal: no query may run on partial startup state.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	cfg.Fares.APIKey = loadedSecrets.Get(secrets.KiwiAPIKey, cfg.Fares.APIKey)
	if cfg.Fares.BreakerHalfOpen == 0 {
		cfg.Fares.BreakerHalfOpen = uint32(cfg.Search.Concurrency)
	}

	dateOut, dateBack, err := config.TravelDates(cfg.Fares, time.Now())
	if err != nil {
		return nil, err
	}

	m := metrics.New()

	conv, err := currency.LoadRates(cfg.Data.RatesFile, cfg.Data.RatesBase)
	if err != nil {
		return nil, err
	}
	raw, err := dataset.Load(cfg.Data.CitiesFile)
	if err != nil {
		return nil, err
	}
	cities, summary := dataset.Prepare(raw, conv, cfg.Data.Currency, log.Logger)
	m.Dropped(summary.Dropped)
	if len(cities) == 0 {
		return nil, fmt.Errorf("no usable cities in %s", cfg.Data.CitiesFile)
	}
	log.Info().
		Int("cities", summary.Prepared).
		Int("dropped", summary.Dropped).
		Int("rates", conv.Len()).
		Str("currency", cfg.Data.Currency).
		Msg("dataset loaded")

	names, err := dataset.LoadNameMapping(cfg.Data.NameMappingFile)
	if err != nil {
		return nil, err
	}

	store, err := flightcache.Open(cfg.Cache)
	if err != nil {
		return nil, err
	}
	cache, err := flightcache.LoadCache(ctx, store, cfg.Cache.RadiusKm)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("loading flight cache: %w", err)
	}
	log.Info().Int("entries", cache.Len()).Str("path", cfg.Cache.Path).Msg("flight cache loaded")

	provider := &fares.KiwiProvider{
		Client: &http.Client{Timeout: cfg.Fares.Timeout},
		Config: cfg.Fares,
	}
	if cfg.Fares.APIKey == "" {
		log.Warn().Msg("no kiwi-api-key configured, fare lookups may be rejected")
	}

	return &app{
		cfg:   cfg,
		index: dataset.NewIndex(cities),
		store: store,
		cache: cache,
		engine: &explorer.Engine{
			Cache:     cache,
			Resolver:  fares.NewResolver(provider, cfg.Fares, cfg.Data.Currency, names, m),
			Tolerance: cfg.Search.Tolerance,
			Currency:  cfg.Data.Currency,
			DateOut:   dateOut,
			DateBack:  dateBack,
			Log:       log.Logger,
			Metrics:   m,
		},
		metrics: m,
	}, nil
}

// query runs one search from the named departure city.
func (a *app) query(ctx context.Context, from string, budget float64) (explorer.SearchOutput, error) {
	origin, ok := a.index.Find(from)
	if !ok {
		return explorer.SearchOutput{}, fmt.Errorf("unknown departure city %q", from)
	}
	return explorer.Search(ctx, a.engine, a.index.Cities(), origin, budget, a.cfg.Search), nil
}

// close flushes the in-memory cache to durable storage. It runs on every
// exit path, including after the process context was cancelled.
func (a *app) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	entries := a.cache.Entries()
	saveErr := a.store.Save(ctx, entries)
	closeErr := a.store.Close()
	if saveErr != nil {
		return fmt.Errorf("saving flight cache: %w", saveErr)
	}
	log.Info().Int("entries", len(entries)).Str("path", a.cfg.Cache.Path).Msg("flight cache saved")
	return closeErr
}
