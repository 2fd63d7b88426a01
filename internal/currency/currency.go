// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package currency converts amounts between currencies using a static rate
// table loaded once at startup.
package currency

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

var (
	// ErrUnknownCurrency is returned when a currency code has no rate.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrInvalidAmount is returned for negative or non-finite amounts.
	ErrInvalidAmount = errors.New("invalid amount")
)

// roundingPrecision absorbs float noise (e.g. 110/1.1) before rounding up.
const roundingPrecision = 1e6

// Converter converts amounts with a fixed table of rates relative to Base.
type Converter struct {
	base  string
	rates map[string]float64
}

// New returns a Converter for rates expressed against base. The base
// currency converts at 1 even when it is absent from rates.
func New(base string, rates map[string]float64) *Converter {
	normalized := make(map[string]float64, len(rates))
	for code, rate := range rates {
		normalized[strings.ToUpper(code)] = rate
	}
	return &Converter{base: strings.ToUpper(base), rates: normalized}
}

// LoadRates reads a JSON object of currency code to rate from path.
func LoadRates(path, base string) (*Converter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading currency rates %s: %w", path, err)
	}
	var rates map[string]float64
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, fmt.Errorf("parsing currency rates %s: %w", path, err)
	}
	return New(base, rates), nil
}

// Base returns the currency the rates are expressed against.
func (c *Converter) Base() string { return c.base }

// Len returns the number of known rates.
func (c *Converter) Len() int { return len(c.rates) }

func (c *Converter) rate(code string) (float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if r, ok := c.rates[code]; ok && r > 0 && !math.IsInf(r, 0) {
		return r, nil
	}
	if code != "" && code == c.base {
		return 1, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownCurrency, code)
}

// Convert converts amount from one currency to another and rounds up to the
// next whole unit of the target currency, so costs are never underestimated.
func (c *Converter) Convert(amount float64, from, to string) (int, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	fromRate, err := c.rate(from)
	if err != nil {
		return 0, err
	}
	toRate, err := c.rate(to)
	if err != nil {
		return 0, err
	}
	v := amount / fromRate * toRate
	return int(math.Ceil(math.Round(v*roundingPrecision) / roundingPrecision)), nil
}
