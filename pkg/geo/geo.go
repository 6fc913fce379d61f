// Package geo estimates trip distance and price from two coordinates.
package geo

import (
	"math"

	"github.com/shopspring/decimal"
)

// EarthRadiusKM is the mean Earth radius used by Distance.
const EarthRadiusKM = 6371.0

type Point struct {
	Lat float64
	Lng float64
}

// Distance returns the great-circle (haversine) distance in kilometres.
func Distance(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return EarthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Quote rounds the distance to two decimals first and prices that rounded
// distance, so the shown distance times the rate always equals the price.
func Quote(a, b Point, ratePerKM decimal.Decimal) (distanceKM float64, price decimal.Decimal) {
	d := decimal.NewFromFloat(Distance(a, b)).Round(2)
	distanceKM, _ = d.Float64()
	return distanceKM, ratePerKM.Mul(d).Round(2)
}

// Valid reports whether p is a real latitude/longitude pair.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
