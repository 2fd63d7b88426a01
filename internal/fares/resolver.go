// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fares

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/pdiddy/world-explorer/internal/metrics"
	"github.com/pdiddy/world-explorer/pkg/types"
)

// defaultHalfOpenRequests matches the default search concurrency.
const defaultHalfOpenRequests = 16

// halfOpenBackoff is the wait before retrying a call the half-open breaker
// turned away.
const halfOpenBackoff = 10 * time.Millisecond

// OutcomeKind tags the result of a fare resolution. Caching policy is
// driven by the tag: Found and NoFare are memoized, Transient is not.
type OutcomeKind int

const (
	OutcomeFound OutcomeKind = iota
	OutcomeNoFare
	OutcomeTransient
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFound:
		return "found"
	case OutcomeNoFare:
		return "no_fare"
	default:
		return "transient"
	}
}

// Outcome is the normalized result of one fare lookup.
type Outcome struct {
	Kind  OutcomeKind
	Price float64
	Fare  *Fare
}

// Cacheable reports whether the outcome may be stored in the flight cache.
func (o Outcome) Cacheable() bool {
	return o.Kind == OutcomeFound || o.Kind == OutcomeNoFare
}

// Resolver turns provider responses and errors into Outcomes. Calls are
// rate limited and pass through a circuit breaker that opens after repeated
// transient failures.
type Resolver struct {
	provider Provider
	names    map[string]string
	currency string
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
	metrics  *metrics.Metrics
}

// NewResolver wraps provider. names overrides dataset city labels with the
// names the provider expects; currency is the reporting currency.
func NewResolver(provider Provider, cfg types.FaresConfig, currency string, names map[string]string, m *metrics.Metrics) *Resolver {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	timeout := cfg.BreakerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	halfOpen := cfg.BreakerHalfOpen
	if halfOpen == 0 {
		halfOpen = defaultHalfOpenRequests
	}

	if names == nil {
		names = map[string]string{}
	}

	return &Resolver{
		provider: provider,
		names:    names,
		currency: currency,
		limiter:  rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        provider.Name(),
			MaxRequests: halfOpen,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			IsSuccessful: isProviderHealthy,
		}),
		metrics: m,
	}
}

// isProviderHealthy treats a rejected route as a healthy provider response.
func isProviderHealthy(err error) bool {
	if err == nil {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.RouteRejected()
}

// execute calls the provider through the breaker. Calls turned away only
// because the half-open breaker has admitted its quota of trial requests
// wait and try again; they never reached the provider, so they are not
// provider failures.
func (r *Resolver) execute(ctx context.Context, req FareRequest) (interface{}, error) {
	for {
		res, err := r.breaker.Execute(func() (interface{}, error) {
			return r.provider.Search(ctx, req)
		})
		if !errors.Is(err, gobreaker.ErrTooManyRequests) {
			return res, err
		}

		t := time.NewTimer(halfOpenBackoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

// ProviderLabel returns the name sent to the provider for a dataset label.
func (r *Resolver) ProviderLabel(label string) string {
	if mapped, ok := r.names[label]; ok && mapped != "" {
		return mapped
	}
	return label
}

// Resolve looks up the cheapest round-trip fare between two city labels.
// A non-nil error accompanies every Transient outcome.
func (r *Resolver) Resolve(ctx context.Context, originLabel, destinationLabel string, dateOut, dateBack time.Time) (Outcome, error) {
	start := time.Now()
	outcome, err := r.resolve(ctx, originLabel, destinationLabel, dateOut, dateBack)
	r.metrics.ObserveLookup(outcome.Kind.String(), time.Since(start))
	return outcome, err
}

func (r *Resolver) resolve(ctx context.Context, originLabel, destinationLabel string, dateOut, dateBack time.Time) (Outcome, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Outcome{Kind: OutcomeTransient}, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req := FareRequest{
		From:     r.ProviderLabel(originLabel),
		To:       r.ProviderLabel(destinationLabel),
		DateOut:  dateOut,
		DateBack: dateBack,
		Currency: r.currency,
		Limit:    1,
	}

	res, err := r.execute(ctx, req)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.RouteRejected() {
			return Outcome{Kind: OutcomeNoFare}, nil
		}
		return Outcome{Kind: OutcomeTransient}, fmt.Errorf("%s %s -> %s: %w", r.provider.Name(), req.From, req.To, err)
	}

	found, _ := res.([]Fare)
	if len(found) == 0 {
		return Outcome{Kind: OutcomeNoFare}, nil
	}
	cheapest := found[0]
	if cheapest.Price < 0 || math.IsNaN(cheapest.Price) || math.IsInf(cheapest.Price, 0) {
		return Outcome{Kind: OutcomeTransient}, fmt.Errorf("%s %s -> %s: invalid fare price %v",
			r.provider.Name(), req.From, req.To, cheapest.Price)
	}
	return Outcome{Kind: OutcomeFound, Price: cheapest.Price, Fare: &cheapest}, nil
}
