// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geo computes great-circle distances between coordinates.
package geo

import (
	"math"

	"github.com/pdiddy/world-explorer/pkg/types"
)

// kmPerDegree converts degrees of arc to kilometres: 60 nautical miles per
// degree, expressed in statute miles, then in kilometres.
const kmPerDegree = 60 * 1.1515 * 1.609344

// Distance returns the great-circle distance between a and b in kilometres
// using the spherical law of cosines.
func Distance(a, b types.GeoPoint) float64 {
	if a == b {
		return 0
	}
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	theta := toRad(a.Lon - b.Lon)

	cos := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(theta)
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi * kmPerDegree
}

// Within reports whether a and b are at most radiusKm apart.
func Within(a, b types.GeoPoint, radiusKm float64) bool {
	return Distance(a, b) <= radiusKm
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
