package store

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/homebarber/internal/domain/appointment"
	"github.com/BruksfildServices01/homebarber/internal/geo"
	"github.com/BruksfildServices01/homebarber/internal/infra/memory"
	"github.com/BruksfildServices01/homebarber/internal/models"
	"github.com/BruksfildServices01/homebarber/internal/snapshot"
	"github.com/BruksfildServices01/homebarber/internal/timezone"
)

// 2026-10-19 is a Monday.
var monday = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		Log:     zerolog.Nop(),
		Clock:   timezone.Fixed(monday),
		Timeout: time.Second,
	}
}

func threeBarbers() []models.Barber {
	var out []models.Barber
	for _, id := range []string{"1", "2", "3"} {
		out = append(out, models.Barber{
			ID:           id,
			Name:         "Barber " + id,
			Role:         "barber",
			Services:     []string{"haircut"},
			Location:     &models.Location{Latitude: 33.57, Longitude: -7.59, Address: "Casablanca"},
			Availability: models.Availability{"Mon": {"10:00", "12:00"}},
		})
	}
	return out
}

func newProvider(t *testing.T, barbers []models.Barber) *Provider {
	t.Helper()
	p := NewProvider(memory.NewBarberRepository(0, barbers), geo.NewStaticGeocoder(), testOptions())
	if err := p.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch barbers: %v", err)
	}
	return p
}

func newBooking(t *testing.T, repo domain.Repository, storage snapshot.Storage, cfg BookingConfig) *Booking {
	t.Helper()
	return NewBooking(repo, newProvider(t, threeBarbers()), storage, cfg, testOptions())
}

// mockAppointmentRepo delegates to an in-memory repository unless a
// function field overrides the call.
type mockAppointmentRepo struct {
	*memory.AppointmentRepository

	createFn func(ctx context.Context, ap *models.Appointment) error
	updateFn func(ctx context.Context, ap *models.Appointment, from domain.Status) error
	listFn   func(ctx context.Context, userID string) ([]models.Appointment, error)
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{AppointmentRepository: memory.NewAppointmentRepository(0)}
}

func (m *mockAppointmentRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	if m.createFn != nil {
		return m.createFn(ctx, ap)
	}
	return m.AppointmentRepository.CreateAppointment(ctx, ap)
}

func (m *mockAppointmentRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment, from domain.Status) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, ap, from)
	}
	return m.AppointmentRepository.UpdateAppointment(ctx, ap, from)
}

func (m *mockAppointmentRepo) ListForParticipant(ctx context.Context, userID string) ([]models.Appointment, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return m.AppointmentRepository.ListForParticipant(ctx, userID)
}
