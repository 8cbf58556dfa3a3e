package barber

import (
	"sort"

	"github.com/BruksfildServices01/homebarber/internal/models"
)

// Selectors are read-only views over the primary barber list. They never
// hold their own copy, so a mutation of the list is visible in every view.

// Featured orders by rating then reviews, keeping list order on ties.
// limit <= 0 returns all barbers.
func Featured(list []models.Barber, limit int) []models.Barber {
	out := make([]models.Barber, len(list))
	copy(out, list)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Reviews > out[j].Reviews
	})

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func ByService(list []models.Barber, tag string) []models.Barber {
	var out []models.Barber
	for _, b := range list {
		if b.Offers(tag) {
			out = append(out, b)
		}
	}
	return out
}

type NearbyBarber struct {
	models.Barber
	DistanceKm float64 `json:"distanceKm"`
}

// Nearby returns barbers with a location within radiusKm of the point,
// closest first. radiusKm <= 0 disables the radius filter.
func Nearby(list []models.Barber, lat, lng, radiusKm float64) []NearbyBarber {
	var out []NearbyBarber
	for _, b := range list {
		if b.Location == nil {
			continue
		}
		d := DistanceKm(lat, lng, b.Location.Latitude, b.Location.Longitude)
		if radiusKm > 0 && d > radiusKm {
			continue
		}
		out = append(out, NearbyBarber{Barber: b, DistanceKm: d})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

func Find(list []models.Barber, id string) (int, bool) {
	for i, b := range list {
		if b.ID == id {
			return i, true
		}
	}
	return -1, false
}
