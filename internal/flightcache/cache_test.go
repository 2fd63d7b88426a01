// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package flightcache

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/world-explorer/pkg/types"
)

var (
	berlin    = types.Place{GeoPoint: types.GeoPoint{Lat: 52.52437, Lon: 13.41053}, Name: "Berlin"}
	potsdam   = types.Place{GeoPoint: types.GeoPoint{Lat: 52.39886, Lon: 13.06566}, Name: "Potsdam"}
	hamburg   = types.Place{GeoPoint: types.GeoPoint{Lat: 53.55073, Lon: 9.99302}, Name: "Hamburg"}
	rome      = types.Place{GeoPoint: types.GeoPoint{Lat: 41.89193, Lon: 12.51133}, Name: "Rome"}
	naples    = types.Place{GeoPoint: types.GeoPoint{Lat: 40.85216, Lon: 14.26811}, Name: "Naples"}
	milan     = types.Place{GeoPoint: types.GeoPoint{Lat: 45.46427, Lon: 9.18951}, Name: "Milan"}
	barcelona = types.Place{GeoPoint: types.GeoPoint{Lat: 41.38879, Lon: 2.15899}, Name: "Barcelona"}
)

func entry(from, to types.Place, price float64) types.FlightCacheEntry {
	return types.FlightCacheEntry{From: from, To: to, FlightPrice: price}
}

func TestFindExactRoute(t *testing.T) {
	c := New(0, nil)
	c.Insert(entry(berlin, rome, 120))

	got, ok := c.Find(berlin.GeoPoint, rome.GeoPoint)
	require.True(t, ok)
	assert.Equal(t, 120.0, got.FlightPrice)
}

func TestFindNearbyRoute(t *testing.T) {
	c := New(DefaultRadiusKm, nil)
	c.Insert(entry(berlin, rome, 120))

	// Potsdam is ~26 km from Berlin, Naples ~190 km from Rome.
	got, ok := c.Find(potsdam.GeoPoint, naples.GeoPoint)
	require.True(t, ok)
	assert.Equal(t, "Rome", got.To.Name)
}

func TestFindReversedRoute(t *testing.T) {
	c := New(DefaultRadiusKm, nil)
	c.Insert(entry(berlin, rome, 120))

	got, ok := c.Find(naples.GeoPoint, potsdam.GeoPoint)
	require.True(t, ok)
	assert.Equal(t, 120.0, got.FlightPrice)
}

func TestFindMiss(t *testing.T) {
	c := New(DefaultRadiusKm, nil)
	c.Insert(entry(berlin, rome, 120))

	tests := []struct {
		name        string
		origin      types.Place
		destination types.Place
	}{
		{"destination too far", berlin, barcelona},
		{"origin too far", barcelona, rome},
		{"both endpoints near the same cached point", hamburg, potsdam},
		// Milan is ~480 km from Rome.
		{"just outside radius", berlin, milan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := c.Find(tt.origin.GeoPoint, tt.destination.GeoPoint)
			assert.False(t, ok)
		})
	}
}

func TestFindReturnsFirstInsertedMatch(t *testing.T) {
	c := New(DefaultRadiusKm, nil)
	c.Insert(entry(berlin, rome, 120))
	c.Insert(entry(potsdam, naples, 90))

	got, ok := c.Find(berlin.GeoPoint, naples.GeoPoint)
	require.True(t, ok)
	assert.Equal(t, 120.0, got.FlightPrice)
}

func TestFindNoFareEntry(t *testing.T) {
	c := New(DefaultRadiusKm, nil)
	c.Insert(entry(berlin, rome, types.NoFarePrice))

	got, ok := c.Find(potsdam.GeoPoint, naples.GeoPoint)
	require.True(t, ok)
	q := got.Quote()
	assert.Equal(t, types.QuoteNoFare, q.Status)
	assert.False(t, q.HasFare())
}

func TestCustomRadius(t *testing.T) {
	c := New(10, []types.FlightCacheEntry{entry(berlin, rome, 120)})
	_, ok := c.Find(potsdam.GeoPoint, rome.GeoPoint)
	assert.False(t, ok)
	assert.Equal(t, 10.0, c.RadiusKm())
}

func TestNewCopiesSeed(t *testing.T) {
	seed := []types.FlightCacheEntry{entry(berlin, rome, 120)}
	c := New(0, seed)
	seed[0].FlightPrice = 1
	got, ok := c.Find(berlin.GeoPoint, rome.GeoPoint)
	require.True(t, ok)
	assert.Equal(t, 120.0, got.FlightPrice)
}

func TestConcurrentInsertAndFind(t *testing.T) {
	c := New(DefaultRadiusKm, nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Insert(entry(berlin, rome, float64(i)))
		}(i)
		go func() {
			defer wg.Done()
			c.Find(potsdam.GeoPoint, naples.GeoPoint)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
}

func TestStats(t *testing.T) {
	c := New(0, []types.FlightCacheEntry{
		entry(berlin, rome, 120),
		entry(berlin, barcelona, types.NoFarePrice),
		entry(hamburg, milan, 80),
	})
	assert.Equal(t, Stats{Entries: 3, NoFare: 1}, c.Stats())
}

func TestSerializeRoundTrip(t *testing.T) {
	c := New(0, []types.FlightCacheEntry{
		entry(berlin, rome, 120),
		entry(hamburg, barcelona, types.NoFarePrice),
	})

	var buf bytes.Buffer
	require.NoError(t, c.Serialize(&buf))
	assert.Contains(t, buf.String(), `"flightPrice":-1`)
	assert.Contains(t, buf.String(), `"from":{"lat":52.52437,"lon":13.41053,"name":"Berlin"}`)

	restored, err := Deserialize(&buf, 0)
	require.NoError(t, err)
	assert.Equal(t, c.Entries(), restored.Entries())
}

func TestSerializeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(0, nil).Serialize(&buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestDeserializeLegacyFormat(t *testing.T) {
	in := `[{"from":{"lat":52.52,"lon":13.41,"name":"Berlin"},"to":{"lat":41.89,"lon":12.51,"name":"Rome"},"flightPrice":87}]`
	c, err := Deserialize(strings.NewReader(in), 0)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "Rome", c.Entries()[0].To.Name)
	assert.Equal(t, 87.0, c.Entries()[0].FlightPrice)
}

func TestDeserializeCorrupt(t *testing.T) {
	for _, in := range []string{`[{"from":`, ``, `[] {"truncated`, `[] garbage`} {
		_, err := Deserialize(strings.NewReader(in), 0)
		assert.ErrorIs(t, err, ErrCorrupt, "input %q", in)
	}
}

func TestFilter(t *testing.T) {
	entries := []types.FlightCacheEntry{
		entry(berlin, rome, 120),
		entry(berlin, barcelona, types.NoFarePrice),
	}
	kept := Filter(entries, func(e types.FlightCacheEntry) bool { return e.FlightPrice >= 0 })
	require.Len(t, kept, 1)
	assert.Equal(t, "Rome", kept[0].To.Name)
}
