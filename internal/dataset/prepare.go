// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset loads the precomputed city dataset and turns raw expense
// line items into normalized, searchable cities.
package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/world-explorer/pkg/types"
)

// Expense labels used by the dataset.
const (
	LabelAverageDaily  = "Average Daily Cost"
	LabelAccommodation = "Accommodation"
)

var (
	// ErrMissingExpense is returned when a required expense label is absent.
	ErrMissingExpense = errors.New("missing expense item")

	// ErrInvalidExpense is returned for unparsable or inconsistent expense values.
	ErrInvalidExpense = errors.New("invalid expense value")
)

// Converter normalizes an amount into another currency.
type Converter interface {
	Convert(amount float64, from, to string) (int, error)
}

// PrepareSummary counts the outcome of preparing a dataset.
type PrepareSummary struct {
	Prepared int
	Dropped  int
}

// Prepare normalizes every city into the reporting currency and returns the
// usable ones ordered by population, largest first. Cities with incomplete
// or unconvertible cost data are logged and dropped.
func Prepare(raw []types.RawCity, conv Converter, reportingCurrency string, log zerolog.Logger) ([]types.City, PrepareSummary) {
	cities := make([]types.City, 0, len(raw))
	var summary PrepareSummary

	for _, rc := range raw {
		city, err := PrepareCity(rc, conv, reportingCurrency)
		if err != nil {
			log.Warn().Err(err).Int64("city_id", rc.ID).Str("city", rc.Name).Msg("dropping city")
			summary.Dropped++
			continue
		}
		cities = append(cities, city)
	}

	sort.SliceStable(cities, func(i, j int) bool {
		return cities[i].Population > cities[j].Population
	})
	summary.Prepared = len(cities)
	return cities, summary
}

// PrepareCity derives the daily and accommodation costs of one city. The
// source average daily cost includes accommodation; it is subtracted out so
// the two become independent additive terms.
func PrepareCity(rc types.RawCity, conv Converter, reportingCurrency string) (types.City, error) {
	var avgRaw, accRaw string
	var haveAvg, haveAcc bool
	for _, e := range rc.Expenses {
		switch e.Label {
		case LabelAverageDaily:
			avgRaw, haveAvg = e.Value, true
		case LabelAccommodation:
			accRaw, haveAcc = e.Value, true
		}
	}
	if !haveAvg {
		return types.City{}, fmt.Errorf("%w %q", ErrMissingExpense, LabelAverageDaily)
	}
	if !haveAcc {
		return types.City{}, fmt.Errorf("%w %q", ErrMissingExpense, LabelAccommodation)
	}

	avgDaily, err := normalize(avgRaw, rc.Currency, reportingCurrency, conv)
	if err != nil {
		return types.City{}, fmt.Errorf("%s: %w", LabelAverageDaily, err)
	}
	accommodation, err := normalize(accRaw, rc.Currency, reportingCurrency, conv)
	if err != nil {
		return types.City{}, fmt.Errorf("%s: %w", LabelAccommodation, err)
	}

	if accommodation > avgDaily {
		return types.City{}, fmt.Errorf("%w: accommodation %d exceeds average daily cost %d",
			ErrInvalidExpense, accommodation, avgDaily)
	}
	if avgDaily == 0 {
		return types.City{}, fmt.Errorf("%w: zero average daily cost", ErrInvalidExpense)
	}

	return types.City{
		ID:                rc.ID,
		Name:              rc.Name,
		ASCIIName:         rc.ASCIIName,
		AltNames:          rc.AltNames,
		Location:          types.GeoPoint{Lat: rc.Lat, Lon: rc.Lon},
		Population:        rc.Population,
		Country:           rc.Country,
		Currency:          rc.Currency,
		DailyCost:         avgDaily - accommodation,
		AccommodationCost: accommodation,
	}, nil
}

func normalize(raw, from, to string, conv Converter) (int, error) {
	amount, err := parseAmount(raw)
	if err != nil {
		return 0, err
	}
	return conv.Convert(amount, from, to)
}

// parseAmount parses a source value such as "1,234.50".
func parseAmount(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidExpense)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidExpense, raw)
	}
	return v, nil
}
