package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/homebarber/internal/httperr"
	"github.com/BruksfildServices01/homebarber/internal/models"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Weekdays are the availability keys, indexed by time.Weekday.
var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type TimeSlot struct {
	Time  string `json:"time"`
	Taken bool   `json:"taken"`
}

func ParseDate(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date")
	}
	return d, nil
}

// WeekdayOf returns the availability key for an ISO calendar date.
func WeekdayOf(date string) (string, error) {
	d, err := ParseDate(date, time.UTC)
	if err != nil {
		return "", err
	}
	return Weekdays[d.Weekday()], nil
}

// ParseWeekday accepts "mon", "Mon" or "MONDAY" style input.
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, false
	}
	for i, d := range Weekdays {
		if strings.ToLower(d) == s[:3] {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// NextDateFor returns the next date falling on weekday, today included.
func NextDateFor(weekday time.Weekday, today time.Time) string {
	days := (int(weekday) - int(today.Weekday()) + 7) % 7
	return today.AddDate(0, 0, days).Format(DateLayout)
}

// SlotsFor returns the template start times the barber offers on date.
func SlotsFor(b models.Barber, date string) ([]string, error) {
	day, err := WeekdayOf(date)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), b.Availability[day]...), nil
}

// IsSlotOffered reports whether hm is one of the barber's start times for
// the weekday of date.
func IsSlotOffered(b models.Barber, date, hm string) (bool, error) {
	slots, err := SlotsFor(b, date)
	if err != nil {
		return false, err
	}
	for _, s := range slots {
		if s == hm {
			return true, nil
		}
	}
	return false, nil
}

// StartsAt combines the appointment's date and time in loc.
func StartsAt(ap models.Appointment, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, ap.Date+" "+ap.Time, loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date_or_time")
	}
	return t, nil
}

// IsPast compares only the calendar date with today in loc, as the
// appointments list does.
func IsPast(ap models.Appointment, now time.Time) bool {
	d, err := ParseDate(ap.Date, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(today)
}
