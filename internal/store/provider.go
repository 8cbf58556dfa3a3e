package store

import (
	"context"
	"errors"
	"sync"

	"github.com/BruksfildServices01/homebarber/internal/audit"
	"github.com/BruksfildServices01/homebarber/internal/domain/appointment"
	"github.com/BruksfildServices01/homebarber/internal/domain/barber"
	"github.com/BruksfildServices01/homebarber/internal/geo"
	"github.com/BruksfildServices01/homebarber/internal/httperr"
	"github.com/BruksfildServices01/homebarber/internal/models"
	"github.com/BruksfildServices01/homebarber/internal/validators"
)

// Provider is the barber directory. Featured, ByService and Nearby are
// computed from the one primary list on every call.
type Provider struct {
	repo     barber.Repository
	geocoder geo.Geocoder
	opts     Options

	mu      sync.RWMutex
	barbers []models.Barber

	ensureMu sync.Mutex
}

func NewProvider(repo barber.Repository, geocoder geo.Geocoder, opts Options) *Provider {
	return &Provider{repo: repo, geocoder: geocoder, opts: opts.normalize()}
}

func (s *Provider) Fetch(ctx context.Context) error {
	var list []models.Barber
	err := s.opts.backend(ctx, "provider.fetch", func(ctx context.Context) error {
		var err error
		list, err = s.repo.ListBarbers(ctx)
		return err
	})
	if err != nil {
		s.opts.Metrics.RecordFetchFailure("provider")
		s.opts.Log.Error().Err(err).Str("op", "provider.fetch").Msg("fetch barbers failed")
		return httperr.Wrap(httperr.KindFetch, err)
	}

	s.mu.Lock()
	s.barbers = list
	s.mu.Unlock()
	return nil
}

func (s *Provider) snapshot() []models.Barber {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.barbers
}

func cloneAll(list []models.Barber) []models.Barber {
	out := make([]models.Barber, len(list))
	for i, b := range list {
		out[i] = b.Clone()
	}
	return out
}

func (s *Provider) Barbers() []models.Barber {
	return cloneAll(s.snapshot())
}

// BarberByID reports ok=false for an unknown id.
func (s *Provider) BarberByID(id string) (models.Barber, bool) {
	list := s.snapshot()
	i, ok := barber.Find(list, id)
	if !ok {
		return models.Barber{}, false
	}
	return list[i].Clone(), true
}

func (s *Provider) Featured(limit int) []models.Barber {
	return barber.Featured(s.Barbers(), limit)
}

func (s *Provider) ByService(tag string) []models.Barber {
	return barber.ByService(s.Barbers(), tag)
}

func (s *Provider) Nearby(lat, lng, radiusKm float64) []barber.NearbyBarber {
	return barber.Nearby(s.Barbers(), lat, lng, radiusKm)
}

// IsSlotOffered checks hm against the barber's weekly template.
func (s *Provider) IsSlotOffered(barberID, date, hm string) (bool, error) {
	b, ok := s.BarberByID(barberID)
	if !ok {
		return false, httperr.ErrBusiness("barber_not_found")
	}
	return appointment.IsSlotOffered(b, date, hm)
}

// replace swaps in a new list where the barber with id has been passed
// through apply. Other barbers keep their records.
func (s *Provider) replace(id string, apply func(*models.Barber)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := barber.Find(s.barbers, id)
	if !ok {
		return false
	}
	next := make([]models.Barber, len(s.barbers))
	copy(next, s.barbers)
	updated := next[i].Clone()
	apply(&updated)
	next[i] = updated
	s.barbers = next
	return true
}

// UpdateLocation replaces the barber's location. The backend write happens
// first; on failure the directory is unchanged.
func (s *Provider) UpdateLocation(ctx context.Context, barberID string, loc models.Location) error {
	if err := barber.ValidateLocation(loc); err != nil {
		return httperr.Wrap(httperr.KindProfileUpdate, err)
	}
	loc.Address = validators.SanitizeText(loc.Address)

	err := s.opts.backend(ctx, "provider.update_location", func(ctx context.Context) error {
		return s.repo.UpdateLocation(ctx, barberID, loc)
	})
	if errors.Is(err, barber.ErrNotFound) {
		err = httperr.ErrBusiness("barber_not_found")
	}
	if err != nil {
		s.opts.Log.Error().Err(err).
			Str("op", "provider.update_location").
			Str("barber_id", barberID).
			Msg("update location failed")
		return httperr.Wrap(httperr.KindProfileUpdate, err)
	}

	if !s.replace(barberID, func(b *models.Barber) { b.Location = &loc }) {
		s.opts.Log.Debug().Str("barber_id", barberID).Msg("location saved for barber not in directory")
	}

	s.opts.Audit.Dispatch(audit.Event{
		UserID:   barberID,
		Action:   audit.ActionLocationUpdated,
		Entity:   "barber",
		EntityID: barberID,
		Metadata: loc,
	})
	return nil
}

// UpdateLocationFromCoordinates resolves an address for the point and then
// behaves like UpdateLocation. A geocoder failure falls back to the
// unknown-location label.
func (s *Provider) UpdateLocationFromCoordinates(
	ctx context.Context,
	barberID string,
	lat, lng float64,
) (models.Location, error) {
	loc := models.Location{Latitude: lat, Longitude: lng}
	if err := barber.ValidateLocation(loc); err != nil {
		return models.Location{}, httperr.Wrap(httperr.KindProfileUpdate, err)
	}

	place, ok, err := s.geocoder.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		s.opts.Log.Warn().Err(err).Str("barber_id", barberID).Msg("reverse geocode failed")
		ok = false
	}
	loc.Address = geo.FormatAddress(place, ok)

	if err := s.UpdateLocation(ctx, barberID, loc); err != nil {
		return models.Location{}, err
	}
	return loc, nil
}

// EnsureProfile creates an empty directory entry for a barber account.
// Calls are serialized so concurrent sign-ins create one entry.
func (s *Provider) EnsureProfile(ctx context.Context, u models.User) error {
	s.ensureMu.Lock()
	defer s.ensureMu.Unlock()

	if _, ok := s.BarberByID(u.ID); ok {
		return nil
	}

	b := models.Barber{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Role:         u.Role,
		Avatar:       u.Avatar,
		Services:     []string{},
		Availability: models.Availability{},
	}
	err := s.opts.backend(ctx, "provider.create", func(ctx context.Context) error {
		return s.repo.CreateBarber(ctx, &b)
	})
	if err != nil {
		return httperr.Wrap(httperr.KindProfileUpdate, err)
	}

	s.mu.Lock()
	if _, exists := barber.Find(s.barbers, b.ID); !exists {
		next := make([]models.Barber, len(s.barbers), len(s.barbers)+1)
		copy(next, s.barbers)
		s.barbers = append(next, b)
	}
	s.mu.Unlock()
	return nil
}

// UpdateProfile mirrors a user profile edit onto the directory entry.
func (s *Provider) UpdateProfile(ctx context.Context, id, name, phone, avatar string) error {
	err := s.opts.backend(ctx, "provider.update_profile", func(ctx context.Context) error {
		return s.repo.UpdateProfile(ctx, id, name, phone, avatar)
	})
	if errors.Is(err, barber.ErrNotFound) {
		err = httperr.ErrBusiness("barber_not_found")
	}
	if err != nil {
		return httperr.Wrap(httperr.KindProfileUpdate, err)
	}

	s.replace(id, func(b *models.Barber) {
		b.Name = name
		b.Phone = phone
		b.Avatar = avatar
	})
	return nil
}

// UpdateAvailability replaces the barber's weekly start-time template.
func (s *Provider) UpdateAvailability(
	ctx context.Context,
	barberID string,
	av models.Availability,
) (models.Availability, error) {
	av, err := barber.NormalizeAvailability(av)
	if err != nil {
		return nil, httperr.Wrap(httperr.KindProfileUpdate, err)
	}

	err = s.opts.backend(ctx, "provider.update_availability", func(ctx context.Context) error {
		return s.repo.UpdateAvailability(ctx, barberID, av)
	})
	if errors.Is(err, barber.ErrNotFound) {
		err = httperr.ErrBusiness("barber_not_found")
	}
	if err != nil {
		s.opts.Log.Error().Err(err).
			Str("op", "provider.update_availability").
			Str("barber_id", barberID).
			Msg("update availability failed")
		return nil, httperr.Wrap(httperr.KindProfileUpdate, err)
	}

	s.replace(barberID, func(b *models.Barber) { b.Availability = av.Clone() })

	s.opts.Audit.Dispatch(audit.Event{
		UserID:   barberID,
		Action:   audit.ActionAvailabilityUpdated,
		Entity:   "barber",
		EntityID: barberID,
		Metadata: av,
	})
	return av.Clone(), nil
}

// UpdateServices replaces the barber's capability tags. known reports
// whether a tag exists in the catalog.
func (s *Provider) UpdateServices(
	ctx context.Context,
	barberID string,
	tags []string,
	known func(tag string) bool,
) ([]string, error) {
	tags = barber.NormalizeTags(tags)
	for _, t := range tags {
		if known != nil && !known(t) {
			return nil, httperr.Wrap(httperr.KindProfileUpdate, httperr.ErrBusiness("unknown_service"))
		}
	}

	err := s.opts.backend(ctx, "provider.update_services", func(ctx context.Context) error {
		return s.repo.UpdateServices(ctx, barberID, tags)
	})
	if errors.Is(err, barber.ErrNotFound) {
		err = httperr.ErrBusiness("barber_not_found")
	}
	if err != nil {
		s.opts.Log.Error().Err(err).
			Str("op", "provider.update_services").
			Str("barber_id", barberID).
			Msg("update services failed")
		return nil, httperr.Wrap(httperr.KindProfileUpdate, err)
	}

	s.replace(barberID, func(b *models.Barber) { b.Services = append([]string(nil), tags...) })

	s.opts.Audit.Dispatch(audit.Event{
		UserID:   barberID,
		Action:   audit.ActionServicesUpdated,
		Entity:   "barber",
		EntityID: barberID,
		Metadata: tags,
	})
	return tags, nil
}
