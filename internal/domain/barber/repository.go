package barber

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/homebarber/internal/models"
)

var ErrNotFound = errors.New("barber not found")

type Repository interface {
	ListBarbers(ctx context.Context) ([]models.Barber, error)

	CreateBarber(ctx context.Context, b *models.Barber) error

	// UpdateLocation returns ErrNotFound when no barber has id.
	UpdateLocation(ctx context.Context, id string, loc models.Location) error

	UpdateProfile(ctx context.Context, id string, name, phone, avatar string) error

	UpdateAvailability(ctx context.Context, id string, av models.Availability) error

	UpdateServices(ctx context.Context, id string, tags []string) error
}
