// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/world-explorer/internal/currency"
	"github.com/pdiddy/world-explorer/pkg/types"
)

func testConverter() *currency.Converter {
	return currency.New("EUR", map[string]float64{"EUR": 1, "THB": 40, "USD": 1.25})
}

func rawCity(id int64, name, cur string, pop int64, expenses ...types.ExpenseItem) types.RawCity {
	return types.RawCity{
		ID: id, Name: name, ASCIIName: name, Currency: cur, Population: pop,
		Lat: 10, Lon: 20, Expenses: expenses,
	}
}

func avg(v string) types.ExpenseItem { return types.ExpenseItem{Label: LabelAverageDaily, Value: v} }
func acc(v string) types.ExpenseItem { return types.ExpenseItem{Label: LabelAccommodation, Value: v} }

func TestPrepareCityDecomposesDailyCost(t *testing.T) {
	rc := rawCity(1, "Bangkok", "THB", 8000000, avg("2,000"), acc("800"),
		types.ExpenseItem{Label: "Food", Value: "400"})

	city, err := PrepareCity(rc, testConverter(), "EUR")
	require.NoError(t, err)

	assert.Equal(t, 30, city.DailyCost)
	assert.Equal(t, 20, city.AccommodationCost)
	// Re-summing the decomposition reconstructs the normalized source value.
	assert.Equal(t, 50, city.EffectiveDailyCost())
	assert.Equal(t, types.GeoPoint{Lat: 10, Lon: 20}, city.Location)
}

func TestPrepareCityEffectiveDailyMatchesSource(t *testing.T) {
	conv := testConverter()
	for _, v := range []string{"37", "1234.56", "99.99", "10"} {
		rc := rawCity(1, "X", "USD", 1, avg(v), acc("7"))
		city, err := PrepareCity(rc, conv, "EUR")
		require.NoError(t, err)

		amount, err := parseAmount(v)
		require.NoError(t, err)
		want, err := conv.Convert(amount, "USD", "EUR")
		require.NoError(t, err)
		assert.Equal(t, want, city.EffectiveDailyCost(), "value %s", v)
	}
}

func TestPrepareCityErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     types.RawCity
		wantErr error
	}{
		{"missing accommodation", rawCity(1, "A", "EUR", 1, avg("50")), ErrMissingExpense},
		{"missing average", rawCity(2, "B", "EUR", 1, acc("20")), ErrMissingExpense},
		{"no expenses", rawCity(3, "C", "EUR", 1), ErrMissingExpense},
		{"unknown currency", rawCity(4, "D", "XYZ", 1, avg("50"), acc("20")), currency.ErrUnknownCurrency},
		{"unparsable value", rawCity(5, "E", "EUR", 1, avg("n/a"), acc("20")), ErrInvalidExpense},
		{"accommodation above average", rawCity(6, "F", "EUR", 1, avg("10"), acc("20")), ErrInvalidExpense},
		{"zero cost", rawCity(7, "G", "EUR", 1, avg("0"), acc("0")), ErrInvalidExpense},
		{"negative value", rawCity(8, "H", "EUR", 1, avg("-5"), acc("0")), currency.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PrepareCity(tt.raw, testConverter(), "EUR")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPrepareDropsIncompleteAndSortsByPopulation(t *testing.T) {
	raw := []types.RawCity{
		rawCity(1, "Small", "EUR", 100, avg("50"), acc("20")),
		rawCity(2, "NoLodging", "EUR", 1000000, avg("50"), types.ExpenseItem{Label: "Food", Value: "10"}),
		rawCity(3, "Big", "EUR", 5000, avg("60"), acc("30")),
		rawCity(4, "Unknown", "ZZZ", 9000, avg("60"), acc("30")),
	}

	var buf bytes.Buffer
	cities, summary := Prepare(raw, testConverter(), "EUR", zerolog.New(&buf))

	require.Len(t, cities, 2)
	assert.Equal(t, "Big", cities[0].Name)
	assert.Equal(t, "Small", cities[1].Name)
	assert.Equal(t, PrepareSummary{Prepared: 2, Dropped: 2}, summary)
	assert.Contains(t, buf.String(), "NoLodging")
	assert.Contains(t, buf.String(), "dropping city")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.json")
	data := `[{"id":2950159,"name":"Berlin","asciiname":"Berlin","altNames":["Berlín","BER"],
		"lat":52.52437,"lon":13.41053,"population":3426354,"country":"DE","currency":"EUR",
		"expenses":[{"label":"Average Daily Cost","desc":"Per person","value":"95.10"},
		{"label":"Accommodation","value":"40"}]}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	raw, err := Load(path)
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, int64(2950159), raw[0].ID)
	assert.Equal(t, []string{"Berlín", "BER"}, raw[0].AltNames)
	assert.Equal(t, "95.10", raw[0].Expenses[0].Value)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte(`[{"id":`), 0o644))
	_, err = Load(corrupt)
	assert.Error(t, err)
}

func TestLoadNameMapping(t *testing.T) {
	dir := t.TempDir()

	m, err := LoadNameMapping(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, m)

	m, err = LoadNameMapping("")
	require.NoError(t, err)
	assert.Empty(t, m)

	path := filepath.Join(dir, "mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Frankfurt am Main":"Frankfurt"}`), 0o644))
	m, err = LoadNameMapping(path)
	require.NoError(t, err)
	assert.Equal(t, "Frankfurt", m["Frankfurt am Main"])

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o644))
	_, err = LoadNameMapping(path)
	assert.Error(t, err)
}

func TestIndexFind(t *testing.T) {
	idx := NewIndex([]types.City{
		{ID: 1, Name: "München", ASCIIName: "Munich", AltNames: []string{"Monaco di Baviera", "MUC"}},
		{ID: 2, Name: "Paris", ASCIIName: "Paris"},
		{ID: 3, Name: "Paris", ASCIIName: "Paris", Country: "US"},
	})

	tests := []struct {
		query  string
		wantID int64
		found  bool
	}{
		{"münchen", 1, true},
		{"MUNICH", 1, true},
		{"muc", 1, true},
		{"  Paris ", 2, true},
		{"Lyon", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, ok := idx.Find(tt.query)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, c.ID)
		})
	}
	assert.Equal(t, 3, idx.Len())
}
