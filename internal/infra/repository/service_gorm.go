package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/homebarber/internal/domain/catalog"
	"github.com/BruksfildServices01/homebarber/internal/models"
)

type ServiceGormRepository struct {
	db *gorm.DB
}

func NewServiceGormRepository(db *gorm.DB) *ServiceGormRepository {
	return &ServiceGormRepository{db: db}
}

func (r *ServiceGormRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	var list []models.Service
	if err := r.db.WithContext(ctx).
		Order("position ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Compile-time check
var _ catalog.Repository = (*ServiceGormRepository)(nil)
