// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"strings"

	"github.com/pdiddy/world-explorer/pkg/types"
)

// Index is the read-only set of prepared cities for a run.
type Index struct {
	cities []types.City
}

// NewIndex wraps prepared cities. The slice is not copied and must not be
// modified afterwards.
func NewIndex(cities []types.City) *Index {
	return &Index{cities: cities}
}

// Cities returns every prepared city in population order.
func (i *Index) Cities() []types.City { return i.cities }

// Len returns the number of prepared cities.
func (i *Index) Len() int { return len(i.cities) }

// Find returns the first city whose name, ASCII name, or any alternate name
// matches identifier case-insensitively.
func (i *Index) Find(identifier string) (types.City, bool) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return types.City{}, false
	}
	for _, c := range i.cities {
		if matches(c, identifier) {
			return c, true
		}
	}
	return types.City{}, false
}

func matches(c types.City, identifier string) bool {
	if strings.EqualFold(c.Name, identifier) || strings.EqualFold(c.ASCIIName, identifier) {
		return true
	}
	for _, alt := range c.AltNames {
		if strings.EqualFold(alt, identifier) {
			return true
		}
	}
	return false
}
