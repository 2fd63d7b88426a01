// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fares resolves the cheapest round-trip fare between two cities
// through an external fare search provider.
package fares

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// FareRequest is a round-trip search for one origin/destination pair.
type FareRequest struct {
	From     string
	To       string
	DateOut  time.Time
	DateBack time.Time
	Currency string
	Limit    int
}

// Fare is one fare record returned by a provider, priced in the requested
// currency.
type Fare struct {
	Price    float64
	Currency string
	CityFrom string
	CityTo   string
	DeepLink string
}

// Provider searches a single fare API, cheapest first.
type Provider interface {
	Name() string
	Search(ctx context.Context, req FareRequest) ([]Fare, error)
}

// StatusError is returned by providers for non-2xx responses.
type StatusError struct {
	Provider string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Provider, e.Code)
}

// RouteRejected reports whether the provider refused the route itself.
// Only HTTP 422 means that; other client errors stay transient.
func (e *StatusError) RouteRejected() bool {
	return e.Code == http.StatusUnprocessableEntity
}
