// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for world-explorer.
//
// Cities come from a precomputed dataset, are normalized into a single
// reporting currency, and are paired with round-trip flight quotes to
// produce per-query SearchResults.
package types

// GeoPoint is a WGS 84 coordinate in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Place is a named GeoPoint, the endpoint of a flight route.
type Place struct {
	GeoPoint `yaml:",inline"`
	Name     string `json:"name" yaml:"name"`
}
