// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package explorer computes how many days each destination city affords for
// a departure city and budget.
package explorer

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/world-explorer/internal/fares"
	"github.com/pdiddy/world-explorer/internal/flightcache"
	"github.com/pdiddy/world-explorer/internal/metrics"
	"github.com/pdiddy/world-explorer/pkg/types"
)

// DefaultTolerance is the budget overrun allowance applied before any
// affordability check.
const DefaultTolerance = 0.2

// dayEpsilon absorbs float noise in budget*(1+tolerance) before flooring.
const dayEpsilon = 1e-9

// FareResolver resolves the cheapest round-trip fare between two city labels.
// *fares.Resolver satisfies it.
type FareResolver interface {
	Resolve(ctx context.Context, originLabel, destinationLabel string, dateOut, dateBack time.Time) (fares.Outcome, error)
}

// Engine combines cached or freshly resolved flight prices with city living
// costs. The cache is shared by every concurrent ComputeDays call.
type Engine struct {
	Cache     *flightcache.Cache
	Resolver  FareResolver
	Tolerance float64
	Currency  string
	DateOut   time.Time
	DateBack  time.Time
	Log       zerolog.Logger
	Metrics   *metrics.Metrics
}

// trace records the side effects of one computation for SearchOutput.
type trace struct {
	lookedUp  bool
	cacheHit  bool
	transient bool
}

// ComputeDays returns the number of days city affords when flying from
// origin on budget. Days is 0 when the city is unaffordable, when no fare
// exists, or when the fare lookup failed transiently.
func (e *Engine) ComputeDays(ctx context.Context, city, origin types.City, budget float64) types.SearchResult {
	res, _ := e.compute(ctx, city, origin, budget)
	return res
}

func (e *Engine) compute(ctx context.Context, city, origin types.City, budget float64) (types.SearchResult, trace) {
	var tr trace
	res := types.SearchResult{City: city}

	daily := float64(city.EffectiveDailyCost())
	if daily <= 0 {
		return res, tr
	}
	allowance := budget * (1 + e.Tolerance)
	if floorDays(allowance, daily) <= 0 {
		return res, tr
	}

	quote, ok := e.quote(ctx, city, origin, &tr)
	if !ok || !quote.HasFare() {
		return res, tr
	}

	days := floorDays(allowance-quote.Price, daily)
	if days <= 0 {
		return res, tr
	}

	res.Days = days
	res.Flight = &quote
	res.TotalExpenses = daily*float64(days) + quote.Price
	return res, tr
}

// quote finds a reusable cached fare or resolves and caches a new one. ok is
// false only for transient failures.
func (e *Engine) quote(ctx context.Context, city, origin types.City, tr *trace) (types.FlightQuote, bool) {
	if entry, found := e.Cache.Find(origin.Location, city.Location); found {
		tr.cacheHit = true
		e.Metrics.CacheHit()
		return entry.Quote(), true
	}
	e.Metrics.CacheMiss()

	tr.lookedUp = true
	outcome, err := e.Resolver.Resolve(ctx, origin.Label(), city.Label(), e.DateOut, e.DateBack)
	if !outcome.Cacheable() {
		tr.transient = true
		e.Log.Warn().Err(err).
			Str("from", origin.Name).
			Str("to", city.Name).
			Msg("fare lookup failed, skipping city for this query")
		return types.FlightQuote{}, false
	}

	quote := types.FlightQuote{
		Origin:      origin.Place(),
		Destination: city.Place(),
		Price:       outcome.Price,
		Status:      types.QuoteFound,
	}
	if outcome.Kind == fares.OutcomeNoFare {
		quote.Price = types.NoFarePrice
		quote.Status = types.QuoteNoFare
	}
	e.Cache.Insert(types.EntryFromQuote(quote))
	return quote, true
}

func floorDays(amount, daily float64) int {
	d := math.Floor(amount/daily + dayEpsilon)
	if d <= 0 || math.IsNaN(d) {
		return 0
	}
	return int(d)
}
