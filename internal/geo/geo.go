// Package geo is the reverse geocoding collaborator used when a barber
// shares device coordinates instead of a typed address.
package geo

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/homebarber/internal/domain/barber"
)

const UnknownLocation = "Unknown location"

type Place struct {
	Street string
	City   string
	Region string
}

type Geocoder interface {
	// ReverseGeocode returns ok=false when nothing is known near the point.
	ReverseGeocode(ctx context.Context, lat, lng float64) (place Place, ok bool, err error)
}

// FormatAddress renders "street, city, region", skipping empty parts.
func FormatAddress(p Place, ok bool) string {
	if !ok {
		return UnknownLocation
	}
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Street, p.City, p.Region} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return UnknownLocation
	}
	return strings.Join(parts, ", ")
}

type landmark struct {
	lat, lng float64
	place    Place
}

// StaticGeocoder resolves against a fixed list of landmarks and returns
// the nearest one within MaxDistanceKm.
type StaticGeocoder struct {
	MaxDistanceKm float64
	landmarks     []landmark
}

func NewStaticGeocoder() *StaticGeocoder {
	return &StaticGeocoder{
		MaxDistanceKm: 25,
		landmarks: []landmark{
			{33.5731104, -7.5898434, Place{City: "Casablanca", Region: "Casablanca-Settat"}},
			{33.5950927, -7.6187537, Place{Street: "Boulevard de la Corniche", City: "Ain Diab", Region: "Casablanca-Settat"}},
			{33.5731104, -7.6098434, Place{Street: "Boulevard Zerktouni", City: "Maarif", Region: "Casablanca-Settat"}},
			{34.0209, -6.8416, Place{City: "Rabat", Region: "Rabat-Sale-Kenitra"}},
			{31.6295, -7.9811, Place{City: "Marrakesh", Region: "Marrakesh-Safi"}},
			{35.7595, -5.8340, Place{City: "Tangier", Region: "Tanger-Tetouan-Al Hoceima"}},
		},
	}
}

func (g *StaticGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (Place, bool, error) {
	if err := ctx.Err(); err != nil {
		return Place{}, false, err
	}

	best := -1
	bestKm := g.MaxDistanceKm
	for i, lm := range g.landmarks {
		if d := barber.DistanceKm(lat, lng, lm.lat, lm.lng); d <= bestKm {
			best, bestKm = i, d
		}
	}
	if best < 0 {
		return Place{}, false, nil
	}
	return g.landmarks[best].place, true, nil
}

var _ Geocoder = (*StaticGeocoder)(nil)
