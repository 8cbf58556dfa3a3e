package catalog

import (
	"context"

	"github.com/BruksfildServices01/homebarber/internal/models"
)

type Repository interface {
	// ListServices returns the catalog in display order.
	ListServices(ctx context.Context) ([]models.Service, error)
}
