package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/homebarber/internal/domain/barber"
	"github.com/BruksfildServices01/homebarber/internal/models"
)

type BarberRepository struct {
	latency time.Duration

	mu   sync.RWMutex
	rows []models.Barber
}

func NewBarberRepository(latency time.Duration, seed []models.Barber) *BarberRepository {
	rows := make([]models.Barber, len(seed))
	for i, b := range seed {
		rows[i] = b.Clone()
	}
	return &BarberRepository{latency: latency, rows: rows}
}

func (r *BarberRepository) ListBarbers(ctx context.Context) ([]models.Barber, error) {
	if err := wait(ctx, r.latency); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Barber, len(r.rows))
	for i, b := range r.rows {
		out[i] = b.Clone()
	}
	return out, nil
}

// CreateBarber leaves an existing row with the same id untouched.
func (r *BarberRepository) CreateBarber(ctx context.Context, b *models.Barber) error {
	if err := wait(ctx, r.latency); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == b.ID {
			return nil
		}
	}
	r.rows = append(r.rows, b.Clone())
	return nil
}

func (r *BarberRepository) UpdateLocation(
	ctx context.Context,
	id string,
	loc models.Location,
) error {
	return r.update(ctx, id, func(b *models.Barber) {
		b.Location = &loc
	})
}

func (r *BarberRepository) UpdateProfile(
	ctx context.Context,
	id string,
	name, phone, avatar string,
) error {
	return r.update(ctx, id, func(b *models.Barber) {
		b.Name = name
		b.Phone = phone
		b.Avatar = avatar
	})
}

func (r *BarberRepository) UpdateAvailability(
	ctx context.Context,
	id string,
	av models.Availability,
) error {
	return r.update(ctx, id, func(b *models.Barber) {
		b.Availability = av.Clone()
	})
}

func (r *BarberRepository) UpdateServices(ctx context.Context, id string, tags []string) error {
	return r.update(ctx, id, func(b *models.Barber) {
		b.Services = append([]string(nil), tags...)
	})
}

func (r *BarberRepository) update(
	ctx context.Context,
	id string,
	apply func(*models.Barber),
) error {
	if err := wait(ctx, r.latency); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			apply(&r.rows[i])
			r.rows[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return barber.ErrNotFound
}

var _ barber.Repository = (*BarberRepository)(nil)
