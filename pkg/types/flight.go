// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// QuoteStatus tags a FlightQuote with the kind of lookup result it holds.
type QuoteStatus string

const (
	// QuoteFound means the provider returned at least one fare.
	QuoteFound QuoteStatus = "found"

	// QuoteNoFare means the provider found no fare or rejected the route.
	QuoteNoFare QuoteStatus = "no_fare"
)

// NoFarePrice is the persisted price marker for QuoteNoFare entries.
const NoFarePrice = -1

// FlightQuote is the cheapest round-trip fare between two places, in the
// reporting currency. Price is meaningful only when Status is QuoteFound.
type FlightQuote struct {
	Origin      Place       `json:"origin" yaml:"origin"`
	Destination Place       `json:"destination" yaml:"destination"`
	Price       float64     `json:"price" yaml:"price"`
	Status      QuoteStatus `json:"status" yaml:"status"`
}

// HasFare reports whether the quote carries a usable price.
func (q FlightQuote) HasFare() bool {
	return q.Status == QuoteFound && q.Price >= 0
}

// FlightCacheEntry is the persisted form of a resolved route. A negative
// FlightPrice records that no fare exists for the route.
type FlightCacheEntry struct {
	From        Place   `json:"from" yaml:"from"`
	To          Place   `json:"to" yaml:"to"`
	FlightPrice float64 `json:"flightPrice" yaml:"flight_price"`
}

// EntryFromQuote converts a quote into its cache entry.
func EntryFromQuote(q FlightQuote) FlightCacheEntry {
	price := q.Price
	if !q.HasFare() {
		price = NoFarePrice
	}
	return FlightCacheEntry{From: q.Origin, To: q.Destination, FlightPrice: price}
}

// Quote restores the tagged quote from a cache entry.
func (e FlightCacheEntry) Quote() FlightQuote {
	q := FlightQuote{Origin: e.From, Destination: e.To, Price: e.FlightPrice, Status: QuoteFound}
	if e.FlightPrice < 0 {
		q.Price = NoFarePrice
		q.Status = QuoteNoFare
	}
	return q
}
