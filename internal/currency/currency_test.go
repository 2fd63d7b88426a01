// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package currency

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConverter() *Converter {
	return New("USD", map[string]float64{
		"USD": 1,
		"EUR": 0.9,
		"THB": 36,
		"JPY": 150,
	})
}

func TestConvertSameCurrency(t *testing.T) {
	c := testConverter()
	got, err := c.Convert(100, "EUR", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 100, got)
}

func TestConvertRoundsUp(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		from   string
		to     string
		want   int
	}{
		{"baht to euro", 1000, "THB", "EUR", 25},
		{"fractional result", 10, "USD", "EUR", 9},
		{"partial unit rounds up", 11, "USD", "EUR", 10},
		{"yen to euro", 1234, "JPY", "EUR", 8},
		{"lowercase codes", 100, "usd", "eur", 90},
		{"zero", 0, "THB", "EUR", 0},
	}
	c := testConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Convert(tt.amount, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestConvertAbsorbsFloatNoise(t *testing.T) {
	c := New("EUR", map[string]float64{"USD": 1.1})
	got, err := c.Convert(110, "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 100, got)
}

func TestConvertImplicitBase(t *testing.T) {
	c := New("EUR", map[string]float64{"USD": 1.25})
	got, err := c.Convert(100, "EUR", "USD")
	require.NoError(t, err)
	assert.Equal(t, 125, got)
}

func TestConvertUnknownCurrency(t *testing.T) {
	c := testConverter()
	_, err := c.Convert(100, "XYZ", "EUR")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCurrency))
	assert.Contains(t, err.Error(), "XYZ")

	_, err = c.Convert(100, "EUR", "")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestConvertRejectsZeroRate(t *testing.T) {
	c := New("USD", map[string]float64{"ABC": 0})
	_, err := c.Convert(10, "ABC", "USD")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestConvertInvalidAmount(t *testing.T) {
	c := testConverter()
	for _, amount := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := c.Convert(amount, "USD", "EUR")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestLoadRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"USD":1,"EUR":0.5}`), 0o644))

	c, err := LoadRates(path, "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", c.Base())
	assert.Equal(t, 2, c.Len())

	got, err := c.Convert(10, "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

func TestLoadRatesErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadRates(filepath.Join(dir, "missing.json"), "USD")
	assert.Error(t, err)

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte(`{"USD":`), 0o644))
	_, err = LoadRates(corrupt, "USD")
	assert.Error(t, err)
}
