// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package flightcache stores resolved flight routes and reuses them for
// nearby routes. Two routes match when each endpoint of one lies within the
// proximity radius of an endpoint of the other, in either direction, so a
// fare fetched for one city stands in for neighbours sharing its airport
// market. The cache is append-only and has no eviction.
package flightcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/world-explorer/internal/geo"
	"github.com/pdiddy/world-explorer/pkg/types"
)

// ErrCorrupt is returned when persisted cache data is empty, malformed, or
// followed by anything but whitespace.
var ErrCorrupt = errors.New("corrupt flight cache")

// DefaultRadiusKm is the proximity threshold for reusing a cached route.
const DefaultRadiusKm = 400.0

// Cache is a process-wide store of resolved routes. Find and Insert are
// individually safe for concurrent use; a Find followed by an Insert is not
// atomic, so two callers may both miss and both insert nearby routes.
type Cache struct {
	mu       sync.RWMutex
	entries  []types.FlightCacheEntry
	radiusKm float64
}

// New returns a cache seeded with entries. A non-positive radius uses
// DefaultRadiusKm.
func New(radiusKm float64, entries []types.FlightCacheEntry) *Cache {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	seeded := make([]types.FlightCacheEntry, len(entries))
	copy(seeded, entries)
	return &Cache{entries: seeded, radiusKm: radiusKm}
}

// RadiusKm returns the proximity threshold.
func (c *Cache) RadiusKm() float64 { return c.radiusKm }

// Find returns the first entry, in insertion order, recorded for a route
// between points near origin and destination, or for the reverse route.
func (c *Cache) Find(origin, destination types.GeoPoint) (types.FlightCacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries {
		if c.matches(e, origin, destination) {
			return e, true
		}
	}
	return types.FlightCacheEntry{}, false
}

func (c *Cache) matches(e types.FlightCacheEntry, origin, destination types.GeoPoint) bool {
	reversed := geo.Within(destination, e.From.GeoPoint, c.radiusKm) &&
		geo.Within(origin, e.To.GeoPoint, c.radiusKm)
	if reversed {
		return true
	}
	return geo.Within(origin, e.From.GeoPoint, c.radiusKm) &&
		geo.Within(destination, e.To.GeoPoint, c.radiusKm)
}

// Insert appends an entry. Existing entries are never replaced.
func (c *Cache) Insert(e types.FlightCacheEntry) {
	c.mu.Lock()
	c.entries = append(c.entries, e)
	c.mu.Unlock()
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns a copy of all entries in insertion order.
func (c *Cache) Entries() []types.FlightCacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.FlightCacheEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int `json:"entries" yaml:"entries"`
	NoFare  int `json:"no_fare" yaml:"no_fare"`
}

// Stats counts entries and no-fare markers.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Stats{Entries: len(c.entries)}
	for _, e := range c.entries {
		if e.FlightPrice < 0 {
			s.NoFare++
		}
	}
	return s
}

// Serialize writes all entries as a flat JSON array.
func (c *Cache) Serialize(w io.Writer) error {
	return writeEntries(w, c.Entries())
}

// Deserialize reads a flat JSON array of entries into a new cache.
func Deserialize(r io.Reader, radiusKm float64) (*Cache, error) {
	entries, err := readEntries(r)
	if err != nil {
		return nil, err
	}
	return New(radiusKm, entries), nil
}

func writeEntries(w io.Writer, entries []types.FlightCacheEntry) error {
	if entries == nil {
		entries = []types.FlightCacheEntry{}
	}
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		return fmt.Errorf("encoding flight cache: %w", err)
	}
	return nil
}

func readEntries(r io.Reader) ([]types.FlightCacheEntry, error) {
	dec := json.NewDecoder(r)
	var entries []types.FlightCacheEntry
	if err := dec.Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no entry list", ErrCorrupt)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after entry list", ErrCorrupt)
	}
	return entries, nil
}

// Filter returns the entries for which keep reports true. It is used to
// curate persisted caches, never the live cache.
func Filter(entries []types.FlightCacheEntry, keep func(types.FlightCacheEntry) bool) []types.FlightCacheEntry {
	out := make([]types.FlightCacheEntry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
