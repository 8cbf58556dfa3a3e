package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/homebarber/internal/domain/appointment"
	"github.com/BruksfildServices01/homebarber/internal/models"
)

type AppointmentRepository struct {
	latency time.Duration

	mu   sync.RWMutex
	rows []models.Appointment
}

func NewAppointmentRepository(latency time.Duration) *AppointmentRepository {
	return &AppointmentRepository{latency: latency}
}

func (r *AppointmentRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if err := wait(ctx, r.latency); err != nil {
		return err
	}

	now := time.Now()
	if ap.CreatedAt.IsZero() {
		ap.CreatedAt = now
	}
	ap.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *ap)
	return nil
}

func (r *AppointmentRepository) GetAppointment(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {
	if err := wait(ctx, r.latency); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			ap := r.rows[i]
			return &ap, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *AppointmentRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {
	if err := wait(ctx, r.latency); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID != ap.ID {
			continue
		}
		if r.rows[i].Status != string(from) {
			return domain.ErrStatusChanged
		}
		r.rows[i] = *ap
		return nil
	}
	return domain.ErrNotFound
}

// Seed adds rows this repository does not hold yet, keeping creation
// order for the listings.
func (r *AppointmentRepository) Seed(ctx context.Context, rows []models.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	known := make(map[string]bool, len(r.rows))
	for _, ap := range r.rows {
		known[ap.ID] = true
	}
	for _, ap := range rows {
		if ap.ID == "" || known[ap.ID] {
			continue
		}
		known[ap.ID] = true
		r.rows = append(r.rows, ap)
	}
	sort.SliceStable(r.rows, func(i, j int) bool {
		return r.rows[i].CreatedAt.Before(r.rows[j].CreatedAt)
	})
	return nil
}

func (r *AppointmentRepository) ListForParticipant(
	ctx context.Context,
	userID string,
) ([]models.Appointment, error) {
	return r.filter(ctx, func(ap models.Appointment) bool {
		return ap.Involves(userID)
	})
}

func (r *AppointmentRepository) ListForBarberOnDate(
	ctx context.Context,
	barberID string,
	date string,
) ([]models.Appointment, error) {
	return r.filter(ctx, func(ap models.Appointment) bool {
		return ap.BarberID == barberID && ap.Date == date
	})
}

func (r *AppointmentRepository) ListByStatus(
	ctx context.Context,
	status domain.Status,
) ([]models.Appointment, error) {
	return r.filter(ctx, func(ap models.Appointment) bool {
		return ap.Status == string(status)
	})
}

// filter keeps insertion order, which is creation order.
func (r *AppointmentRepository) filter(
	ctx context.Context,
	keep func(models.Appointment) bool,
) ([]models.Appointment, error) {
	if err := wait(ctx, r.latency); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Appointment, 0)
	for _, ap := range r.rows {
		if keep(ap) {
			out = append(out, ap)
		}
	}
	return out, nil
}

var (
	_ domain.Repository = (*AppointmentRepository)(nil)
	_ domain.Seeder     = (*AppointmentRepository)(nil)
)
