// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchResult is the affordability of one destination for one query.
// Flight and TotalExpenses are set only when Days > 0.
type SearchResult struct {
	City          City         `json:"city" yaml:"city"`
	Days          int          `json:"days" yaml:"days"`
	Flight        *FlightQuote `json:"flight,omitempty" yaml:"flight,omitempty"`
	TotalExpenses float64      `json:"total_expenses,omitempty" yaml:"total_expenses,omitempty"`
}
