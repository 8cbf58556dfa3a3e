package memory

import (
	"context"
	"time"

	"github.com/BruksfildServices01/homebarber/internal/domain/catalog"
	"github.com/BruksfildServices01/homebarber/internal/models"
)

// ServiceRepository serves a fixed catalog.
type ServiceRepository struct {
	latency time.Duration
	rows    []models.Service
}

func NewServiceRepository(latency time.Duration, seed []models.Service) *ServiceRepository {
	return &ServiceRepository{
		latency: latency,
		rows:    append([]models.Service(nil), seed...),
	}
}

func (r *ServiceRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	if err := wait(ctx, r.latency); err != nil {
		return nil, err
	}
	return append([]models.Service(nil), r.rows...), nil
}

var _ catalog.Repository = (*ServiceRepository)(nil)
