package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/homebarber/internal/domain/appointment"
	"github.com/BruksfildServices01/homebarber/internal/httperr"
	"github.com/BruksfildServices01/homebarber/internal/models"
)

type mockBarbers struct {
	barbers map[string]models.Barber
}

func (m mockBarbers) BarberByID(id string) (models.Barber, bool) {
	b, ok := m.barbers[id]
	return b, ok
}

type mockTaken struct {
	takenFn func(ctx context.Context, barberID, date string) (map[string]bool, error)
}

func (m mockTaken) TakenSlots(ctx context.Context, barberID, date string) (map[string]bool, error) {
	return m.takenFn(ctx, barberID, date)
}

type mockFetcher struct {
	fetchFn func(ctx context.Context, userID string) ([]models.Appointment, error)
}

func (m mockFetcher) FetchUserAppointments(ctx context.Context, userID string) ([]models.Appointment, error) {
	return m.fetchFn(ctx, userID)
}

var directory = mockBarbers{barbers: map[string]models.Barber{
	"1": {ID: "1", Name: "Hassan Ali", Availability: models.Availability{"Mon": {"10:00", "12:00", "14:00"}}},
}}

func TestGetAvailability_MarksTaken(t *testing.T) {
	uc := NewGetAvailability(directory, mockTaken{takenFn: func(context.Context, string, string) (map[string]bool, error) {
		return map[string]bool{"12:00": true}, nil
	}})

	slots, err := uc.Execute(context.Background(), AvailabilityInput{BarberID: "1", Date: "2026-10-19"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := []domain.TimeSlot{{Time: "10:00"}, {Time: "12:00", Taken: true}, {Time: "14:00"}}
	if len(slots) != len(want) {
		t.Fatalf("slots = %+v", slots)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Errorf("slots[%d] = %+v, want %+v", i, slots[i], want[i])
		}
	}
}

func TestGetAvailability_EmptyDaySkipsLookup(t *testing.T) {
	uc := NewGetAvailability(directory, mockTaken{takenFn: func(context.Context, string, string) (map[string]bool, error) {
		t.Fatal("taken lookup called for a day without slots")
		return nil, nil
	}})

	slots, err := uc.Execute(context.Background(), AvailabilityInput{BarberID: "1", Date: "2026-10-20"})
	if err != nil || len(slots) != 0 {
		t.Errorf("slots = %+v, err = %v", slots, err)
	}
}

func TestGetAvailability_Errors(t *testing.T) {
	uc := NewGetAvailability(directory, mockTaken{takenFn: func(context.Context, string, string) (map[string]bool, error) {
		return nil, errors.New("down")
	}})
	ctx := context.Background()

	if _, err := uc.Execute(ctx, AvailabilityInput{BarberID: "9", Date: "2026-10-19"}); !httperr.IsBusiness(err, "barber_not_found") {
		t.Errorf("unknown barber: %v", err)
	}
	if _, err := uc.Execute(ctx, AvailabilityInput{BarberID: "1", Date: "tomorrow"}); !httperr.IsBusiness(err, "invalid_date") {
		t.Errorf("bad date: %v", err)
	}
	if _, err := uc.Execute(ctx, AvailabilityInput{BarberID: "1", Date: "2026-10-19"}); !httperr.IsKind(err, httperr.KindFetch) {
		t.Errorf("backend failure: %v", err)
	}
}

func TestSplitByDate(t *testing.T) {
	now := time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC)
	list := []models.Appointment{
		{ID: "a", Date: "2026-10-18"},
		{ID: "b", Date: "2026-10-19"},
		{ID: "c", Date: "2026-11-01"},
		{ID: "d", Date: "2025-01-01"},
	}

	upcoming, past := SplitByDate(list, now)
	if len(upcoming) != 2 || upcoming[0].ID != "b" || upcoming[1].ID != "c" {
		t.Errorf("upcoming = %+v", upcoming)
	}
	if len(past) != 2 || past[0].ID != "a" || past[1].ID != "d" {
		t.Errorf("past = %+v", past)
	}
}

func TestListAppointments_ScopeAndEnrichment(t *testing.T) {
	uc := NewListAppointments(mockFetcher{fetchFn: func(_ context.Context, userID string) ([]models.Appointment, error) {
		return []models.Appointment{
			{ID: "old", BarberID: "1", CustomerID: userID, Date: "2026-10-01", Status: "completed"},
			{ID: "new", BarberID: "1", CustomerID: userID, Date: "2026-10-26", Status: "pending"},
		}, nil
	}}, directory)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	got, err := uc.Execute(context.Background(), "c1", ScopeUpcoming, now)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(got) != 1 || got[0].ID != "new" || got[0].BarberName != "Hassan Ali" {
		t.Errorf("upcoming = %+v", got)
	}

	all, _ := uc.Execute(context.Background(), "c1", ScopeAll, now)
	if len(all) != 2 {
		t.Errorf("all = %+v", all)
	}
}
