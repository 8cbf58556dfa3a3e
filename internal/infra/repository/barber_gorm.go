package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/homebarber/internal/domain/barber"
	"github.com/BruksfildServices01/homebarber/internal/models"
)

type BarberGormRepository struct {
	db *gorm.DB
}

func NewBarberGormRepository(db *gorm.DB) *BarberGormRepository {
	return &BarberGormRepository{db: db}
}

func (r *BarberGormRepository) ListBarbers(ctx context.Context) ([]models.Barber, error) {
	var list []models.Barber
	if err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CreateBarber is an upsert so a re-registered profile keeps one row.
func (r *BarberGormRepository) CreateBarber(ctx context.Context, b *models.Barber) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(b).Error
}

func (r *BarberGormRepository) UpdateLocation(
	ctx context.Context,
	id string,
	loc models.Location,
) error {
	// struct form so the json serializer on Location applies
	return r.updates(ctx, id, models.Barber{Location: &loc})
}

func (r *BarberGormRepository) UpdateProfile(
	ctx context.Context,
	id string,
	name, phone, avatar string,
) error {
	return r.updates(ctx, id, map[string]any{
		"name":   name,
		"phone":  phone,
		"avatar": avatar,
	})
}

func (r *BarberGormRepository) UpdateAvailability(
	ctx context.Context,
	id string,
	av models.Availability,
) error {
	return r.updates(ctx, id, models.Barber{Availability: av}, "availability")
}

func (r *BarberGormRepository) UpdateServices(ctx context.Context, id string, tags []string) error {
	return r.updates(ctx, id, models.Barber{Services: tags}, "services")
}

// updates writes values to the barber row. Listing columns forces them to
// be written even when empty.
func (r *BarberGormRepository) updates(ctx context.Context, id string, values any, columns ...string) error {
	q := r.db.WithContext(ctx).Model(&models.Barber{ID: id})
	if len(columns) > 0 {
		q = q.Select(columns)
	}
	res := q.Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return barber.ErrNotFound
	}
	return nil
}

// Compile-time check
var _ barber.Repository = (*BarberGormRepository)(nil)
