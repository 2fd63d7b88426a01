// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explorer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidQuery is returned for query lines that are not "city;budget".
var ErrInvalidQuery = errors.New("invalid query")

// ParseQuery splits an interactive query line of the form
// "Departure city;Budget". The budget must be a non-negative number.
func ParseQuery(line string) (string, float64, error) {
	name, rawBudget, ok := strings.Cut(strings.TrimSpace(line), ";")
	if !ok {
		return "", 0, fmt.Errorf("%w: expected \"city;budget\", got %q", ErrInvalidQuery, line)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, fmt.Errorf("%w: departure city is empty", ErrInvalidQuery)
	}

	budget, err := ParseBudget(rawBudget)
	if err != nil {
		return "", 0, err
	}
	return name, budget, nil
}

// ParseBudget parses a non-negative, finite budget amount.
func ParseBudget(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	budget, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(budget) || math.IsInf(budget, 0) {
		return 0, fmt.Errorf("%w: budget %q is not a number", ErrInvalidQuery, raw)
	}
	if budget < 0 {
		return 0, fmt.Errorf("%w: budget %q is negative", ErrInvalidQuery, raw)
	}
	return budget, nil
}
