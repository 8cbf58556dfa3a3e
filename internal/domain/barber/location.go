package barber

import (
	"math"

	"github.com/BruksfildServices01/homebarber/internal/httperr"
	"github.com/BruksfildServices01/homebarber/internal/models"
)

const earthRadiusKm = 6371.0

func ValidateLocation(loc models.Location) error {
	if math.IsNaN(loc.Latitude) || loc.Latitude < -90 || loc.Latitude > 90 {
		return httperr.ErrBusiness("invalid_latitude")
	}
	if math.IsNaN(loc.Longitude) || loc.Longitude < -180 || loc.Longitude > 180 {
		return httperr.ErrBusiness("invalid_longitude")
	}
	return nil
}

// DistanceKm is the haversine great-circle distance.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
