package appointment

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/homebarber/internal/models"
)

var (
	ErrNotFound = errors.New("appointment not found")
	// ErrStatusChanged means the stored status no longer matches the one
	// the update was computed from.
	ErrStatusChanged = errors.New("appointment status changed")
)

// Repository is the booking backend. Implementations return ErrNotFound
// for unknown ids.
type Repository interface {
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		id string,
	) (*models.Appointment, error)

	// UpdateAppointment writes ap only while the stored status is still
	// from, and returns ErrStatusChanged otherwise.
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) error

	// ListForParticipant returns appointments where userID is customer
	// or barber, oldest first.
	ListForParticipant(
		ctx context.Context,
		userID string,
	) ([]models.Appointment, error)

	ListForBarberOnDate(
		ctx context.Context,
		barberID string,
		date string,
	) ([]models.Appointment, error)

	ListByStatus(
		ctx context.Context,
		status Status,
	) ([]models.Appointment, error)
}

// Seeder is implemented by backends that keep nothing across restarts.
// Seed adds the rows whose ids it does not hold yet.
type Seeder interface {
	Seed(ctx context.Context, rows []models.Appointment) error
}
