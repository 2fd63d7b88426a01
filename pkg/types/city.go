// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExpenseItem is one labelled cost line of a city, in the city's local
// currency. Value keeps the textual form of the source data.
type ExpenseItem struct {
	Label string `json:"label" yaml:"label"`
	Desc  string `json:"desc,omitempty" yaml:"desc,omitempty"`
	Value string `json:"value" yaml:"value"`
}

// RawCity is a dataset record before cost normalization.
type RawCity struct {
	ID         int64         `json:"id" yaml:"id"`
	Name       string        `json:"name" yaml:"name"`
	ASCIIName  string        `json:"asciiname" yaml:"asciiname"`
	AltNames   []string      `json:"altNames" yaml:"alt_names"`
	Lat        float64       `json:"lat" yaml:"lat"`
	Lon        float64       `json:"lon" yaml:"lon"`
	Population int64         `json:"population" yaml:"population"`
	Country    string        `json:"country" yaml:"country"`
	Currency   string        `json:"currency" yaml:"currency"`
	Expenses   []ExpenseItem `json:"expenses" yaml:"expenses"`
}

// City is a searchable destination whose costs are expressed in whole units
// of the reporting currency. DailyCost excludes accommodation.
type City struct {
	ID                int64    `json:"id" yaml:"id"`
	Name              string   `json:"name" yaml:"name"`
	ASCIIName         string   `json:"asciiname" yaml:"asciiname"`
	AltNames          []string `json:"alt_names,omitempty" yaml:"alt_names,omitempty"`
	Location          GeoPoint `json:"location" yaml:"location"`
	Population        int64    `json:"population" yaml:"population"`
	Country           string   `json:"country,omitempty" yaml:"country,omitempty"`
	Currency          string   `json:"currency" yaml:"currency"`
	DailyCost         int      `json:"daily_cost" yaml:"daily_cost"`
	AccommodationCost int      `json:"accommodation_cost" yaml:"accommodation_cost"`
}

// EffectiveDailyCost is the living cost of one trip day including lodging.
func (c City) EffectiveDailyCost() int {
	return c.DailyCost + c.AccommodationCost
}

// Label returns the name sent to flight providers: the ASCII name when the
// dataset has one.
func (c City) Label() string {
	if c.ASCIIName != "" {
		return c.ASCIIName
	}
	return c.Name
}

// Place returns the city as a route endpoint.
func (c City) Place() Place {
	return Place{GeoPoint: c.Location, Name: c.Name}
}
