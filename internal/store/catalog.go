package store

import (
	"context"
	"strings"
	"sync"

	"github.com/BruksfildServices01/homebarber/internal/domain/catalog"
	"github.com/BruksfildServices01/homebarber/internal/httperr"
	"github.com/BruksfildServices01/homebarber/internal/models"
)

// Catalog exposes the fixed list of services.
type Catalog struct {
	repo catalog.Repository
	opts Options

	mu       sync.RWMutex
	services []models.Service
}

func NewCatalog(repo catalog.Repository, opts Options) *Catalog {
	return &Catalog{repo: repo, opts: opts.normalize()}
}

// Fetch reloads the catalog. On failure the previous list is kept and a
// fetch error is returned.
func (s *Catalog) Fetch(ctx context.Context) error {
	var list []models.Service
	err := s.opts.backend(ctx, "catalog.fetch", func(ctx context.Context) error {
		var err error
		list, err = s.repo.ListServices(ctx)
		return err
	})
	if err != nil {
		s.opts.Metrics.RecordFetchFailure("catalog")
		s.opts.Log.Error().Err(err).Str("op", "catalog.fetch").Msg("fetch services failed")
		return httperr.Wrap(httperr.KindFetch, err)
	}

	next := make([]models.Service, len(list))
	for i, svc := range list {
		if svc.Tag == "" {
			svc.Tag = strings.ToLower(svc.Name)
		}
		svc.Icon = catalog.ParseIcon(svc.Icon).String()
		next[i] = svc
	}

	s.mu.Lock()
	s.services = next
	s.mu.Unlock()
	return nil
}

func (s *Catalog) snapshot() []models.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services
}

// Services returns the catalog in display order.
func (s *Catalog) Services() []models.Service {
	return append([]models.Service{}, s.snapshot()...)
}

func (s *Catalog) ServiceByID(id string) (models.Service, bool) {
	for _, svc := range s.snapshot() {
		if svc.ID == id {
			return svc, true
		}
	}
	return models.Service{}, false
}

// ServiceByName matches case-insensitively on name or tag.
func (s *Catalog) ServiceByName(name string) (models.Service, bool) {
	name = strings.TrimSpace(name)
	for _, svc := range s.snapshot() {
		if strings.EqualFold(svc.Name, name) || strings.EqualFold(svc.Tag, name) {
			return svc, true
		}
	}
	return models.Service{}, false
}

func (s *Catalog) HasTag(tag string) bool {
	for _, svc := range s.snapshot() {
		if svc.Tag == tag {
			return true
		}
	}
	return false
}

// ServicesForBarber keeps the entries whose tag the barber offers.
func (s *Catalog) ServicesForBarber(b models.Barber) []models.Service {
	out := make([]models.Service, 0)
	for _, svc := range s.snapshot() {
		if b.Offers(svc.Tag) {
			out = append(out, svc)
		}
	}
	return out
}
