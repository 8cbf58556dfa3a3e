package barber

import (
	"sort"
	"strings"
	"time"

	"github.com/BruksfildServices01/homebarber/internal/httperr"
	"github.com/BruksfildServices01/homebarber/internal/models"
)

var weekdayKeys = map[string]string{
	"sun": "Sun", "mon": "Mon", "tue": "Tue", "wed": "Wed",
	"thu": "Thu", "fri": "Fri", "sat": "Sat",
}

// NormalizeAvailability canonicalises weekday keys and sorts each day's
// start times. Days without times are dropped.
func NormalizeAvailability(av models.Availability) (models.Availability, error) {
	out := make(models.Availability, len(av))
	for day, slots := range av {
		day = strings.ToLower(strings.TrimSpace(day))
		if len(day) > 3 {
			day = day[:3]
		}
		key, ok := weekdayKeys[day]
		if !ok {
			return nil, httperr.ErrBusiness("invalid_weekday")
		}

		times := out[key]
		seen := make(map[string]bool, len(times)+len(slots))
		for _, hm := range times {
			seen[hm] = true
		}
		for _, hm := range slots {
			hm = strings.TrimSpace(hm)
			if _, err := time.Parse("15:04", hm); err != nil || len(hm) != 5 {
				return nil, httperr.ErrBusiness("invalid_time")
			}
			if seen[hm] {
				continue
			}
			seen[hm] = true
			times = append(times, hm)
		}
		if len(times) == 0 {
			continue
		}
		sort.Strings(times)
		out[key] = times
	}
	return out, nil
}

// NormalizeTags lowercases and de-duplicates capability tags, keeping the
// first occurrence order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
