package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/homebarber/internal/audit"
	"github.com/BruksfildServices01/homebarber/internal/domain/appointment"
	"github.com/BruksfildServices01/homebarber/internal/httperr"
	"github.com/BruksfildServices01/homebarber/internal/metrics"
	"github.com/BruksfildServices01/homebarber/internal/models"
	"github.com/BruksfildServices01/homebarber/internal/snapshot"
	"github.com/BruksfildServices01/homebarber/internal/validators"
)

// SlotChecker answers whether a barber offers a start time on a date.
type SlotChecker interface {
	IsSlotOffered(barberID, date, hm string) (bool, error)
}

type BookingRequest struct {
	BarberID   string `json:"barberId"`
	CustomerID string `json:"customerId"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Service    string `json:"service"`
}

type BookingConfig struct {
	// RejectDoubleBooking refuses a slot already held by a live appointment.
	RejectDoubleBooking bool
	Location            *time.Location
}

type bookingState struct {
	Appointments []models.Appointment `json:"appointments"`
}

type Booking struct {
	repo    appointment.Repository
	slots   SlotChecker
	storage snapshot.Storage
	cfg     BookingConfig
	opts    Options

	mu           sync.RWMutex
	appointments []models.Appointment
	// persistMu serializes snapshot writes.
	persistMu sync.Mutex
}

func NewBooking(
	repo appointment.Repository,
	slots SlotChecker,
	storage snapshot.Storage,
	cfg BookingConfig,
	opts Options,
) *Booking {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Booking{
		repo:    repo,
		slots:   slots,
		storage: storage,
		cfg:     cfg,
		opts:    opts.normalize(),
	}
}

// Restore loads the persisted appointment snapshot, if any. A backend
// that keeps nothing across restarts is seeded with the restored list.
func (s *Booking) Restore(ctx context.Context) error {
	var st bookingState
	ok, err := s.storage.Load(ctx, snapshot.KeyAppointments, &st)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if seeder, isSeeder := s.repo.(appointment.Seeder); isSeeder {
		if err := s.opts.backend(ctx, "booking.seed", func(ctx context.Context) error {
			return seeder.Seed(ctx, st.Appointments)
		}); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.appointments = st.Appointments
	s.mu.Unlock()

	s.opts.Log.Info().Int("appointments", len(st.Appointments)).Msg("booking snapshot restored")
	return nil
}

func (s *Booking) snapshot() []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.appointments
}

// commit builds the next list from the current one and swaps it in under
// the write lock, then persists. Persistence is best effort: the backend
// already holds the change.
func (s *Booking) commit(ctx context.Context, build func(cur []models.Appointment) []models.Appointment) {
	s.mu.Lock()
	s.appointments = build(s.appointments)
	s.mu.Unlock()

	s.persist(ctx)
}

// persist writes whatever list is current when it gets the persist lock,
// so a slow writer never stores a list older than one already saved.
func (s *Booking) persist(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	st := bookingState{Appointments: s.snapshot()}
	if err := s.storage.Save(ctx, snapshot.KeyAppointments, st); err != nil {
		s.opts.Log.Warn().Err(err).Str("key", snapshot.KeyAppointments).Msg("persist snapshot failed")
	}
}

// upsert replaces the entry with ap's id, or appends ap when new.
func upsert(ap models.Appointment) func([]models.Appointment) []models.Appointment {
	return func(cur []models.Appointment) []models.Appointment {
		next := make([]models.Appointment, 0, len(cur)+1)
		found := false
		for _, a := range cur {
			if a.ID == ap.ID {
				a = ap
				found = true
			}
			next = append(next, a)
		}
		if !found {
			next = append(next, ap)
		}
		return next
	}
}

func (s *Booking) today() time.Time {
	return s.opts.Clock().In(s.cfg.Location)
}

func (s *Booking) validate(req BookingRequest) (BookingRequest, error) {
	req.BarberID = strings.TrimSpace(req.BarberID)
	req.CustomerID = strings.TrimSpace(req.CustomerID)
	req.Service = validators.SanitizeText(req.Service)

	if req.BarberID == "" || req.CustomerID == "" || req.Service == "" {
		return req, httperr.ErrBusiness("missing_fields")
	}

	date, err := appointment.ParseDate(req.Date, s.cfg.Location)
	if err != nil {
		return req, err
	}
	if _, err := time.Parse(appointment.TimeLayout, req.Time); err != nil {
		return req, httperr.ErrBusiness("invalid_time")
	}

	t := s.today()
	today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.cfg.Location)
	if date.Before(today) {
		return req, httperr.ErrBusiness("date_in_past")
	}
	return req, nil
}

// Book creates a pending appointment. The slot must be in the barber's
// template for the weekday of the date.
func (s *Booking) Book(ctx context.Context, req BookingRequest) (models.Appointment, error) {
	ap, err := s.book(ctx, req)
	switch {
	case err == nil:
		s.opts.Metrics.RecordBooking(metrics.OutcomeOK)
	case isBusiness(err):
		s.opts.Metrics.RecordBooking(metrics.OutcomeRejected)
	default:
		s.opts.Metrics.RecordBooking(metrics.OutcomeFailed)
		s.opts.Log.Error().Err(err).
			Str("op", "booking.book").
			Str("barber_id", req.BarberID).
			Str("customer_id", req.CustomerID).
			Msg("book appointment failed")
	}
	return ap, httperr.Wrap(httperr.KindBooking, err)
}

func (s *Booking) book(ctx context.Context, req BookingRequest) (models.Appointment, error) {
	req, err := s.validate(req)
	if err != nil {
		return models.Appointment{}, err
	}

	offered, err := s.slots.IsSlotOffered(req.BarberID, req.Date, req.Time)
	if err != nil {
		return models.Appointment{}, err
	}
	if !offered {
		return models.Appointment{}, httperr.ErrBusiness("slot_not_offered")
	}

	if s.cfg.RejectDoubleBooking {
		taken, err := s.TakenSlots(ctx, req.BarberID, req.Date)
		if err != nil {
			return models.Appointment{}, err
		}
		if taken[req.Time] {
			return models.Appointment{}, httperr.ErrBusiness("slot_taken")
		}
	}

	now := s.opts.Clock()
	ap := models.Appointment{
		ID:         uuid.NewString(),
		BarberID:   req.BarberID,
		CustomerID: req.CustomerID,
		Date:       req.Date,
		Time:       req.Time,
		Service:    req.Service,
		Status:     string(appointment.InitialStatus()),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.opts.backend(ctx, "booking.create", func(ctx context.Context) error {
		return s.repo.CreateAppointment(ctx, &ap)
	}); err != nil {
		return models.Appointment{}, err
	}

	s.commit(ctx, upsert(ap))

	s.opts.Audit.Dispatch(audit.Event{
		UserID:   ap.CustomerID,
		Action:   audit.ActionAppointmentCreated,
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{"barberId": ap.BarberID, "date": ap.Date, "time": ap.Time},
	})
	return ap, nil
}

// TakenSlots reports which start times on date are held by an appointment
// that is not cancelled.
func (s *Booking) TakenSlots(ctx context.Context, barberID, date string) (map[string]bool, error) {
	var list []models.Appointment
	if err := s.opts.backend(ctx, "booking.list_day", func(ctx context.Context) error {
		var err error
		list, err = s.repo.ListForBarberOnDate(ctx, barberID, date)
		return err
	}); err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(list))
	for _, ap := range list {
		if appointment.Status(ap.Status) != appointment.StatusCancelled {
			taken[ap.Time] = true
		}
	}
	return taken, nil
}

// FetchUserAppointments loads every appointment where userID is customer
// or barber, oldest first, and merges them into the local snapshot.
func (s *Booking) FetchUserAppointments(ctx context.Context, userID string) ([]models.Appointment, error) {
	var list []models.Appointment
	err := s.opts.backend(ctx, "booking.fetch", func(ctx context.Context) error {
		var err error
		list, err = s.repo.ListForParticipant(ctx, userID)
		return err
	})
	if err != nil {
		s.opts.Metrics.RecordFetchFailure("booking")
		s.opts.Log.Error().Err(err).Str("op", "booking.fetch").Str("user_id", userID).Msg("fetch appointments failed")
		return nil, httperr.Wrap(httperr.KindFetch, err)
	}

	s.commit(ctx, func(cur []models.Appointment) []models.Appointment {
		next := make([]models.Appointment, 0, len(cur)+len(list))
		for _, ap := range cur {
			if !ap.Involves(userID) {
				next = append(next, ap)
			}
		}
		return append(next, list...)
	})

	return append([]models.Appointment{}, list...), nil
}

// Appointments reads the local snapshot for userID without a backend call.
func (s *Booking) Appointments(userID string) []models.Appointment {
	out := make([]models.Appointment, 0)
	for _, ap := range s.snapshot() {
		if ap.Involves(userID) {
			out = append(out, ap)
		}
	}
	return out
}

// Get reads one appointment from the backend.
func (s *Booking) Get(ctx context.Context, id string) (models.Appointment, error) {
	var ap *models.Appointment
	err := s.opts.backend(ctx, "booking.get", func(ctx context.Context) error {
		var err error
		ap, err = s.repo.GetAppointment(ctx, id)
		return err
	})
	if errors.Is(err, appointment.ErrNotFound) {
		return models.Appointment{}, httperr.ErrBusiness("appointment_not_found")
	}
	if err != nil {
		return models.Appointment{}, httperr.Wrap(httperr.KindFetch, err)
	}
	return *ap, nil
}

type transition struct {
	op     string
	to     appointment.Status
	kind   httperr.Kind
	action string
	apply  func(*models.Appointment, time.Time) error
	// noop reports a status that already satisfies the request.
	noop func(appointment.Status) bool
}

var (
	cancelTransition = transition{
		op:     "booking.cancel",
		to:     appointment.StatusCancelled,
		kind:   httperr.KindCancellation,
		action: audit.ActionAppointmentCancelled,
		apply:  appointment.Cancel,
		noop:   func(st appointment.Status) bool { return st == appointment.StatusCancelled },
	}
	confirmTransition = transition{
		op:     "booking.confirm",
		to:     appointment.StatusConfirmed,
		kind:   httperr.KindTransition,
		action: audit.ActionAppointmentConfirmed,
		apply:  appointment.Confirm,
	}
	completeTransition = transition{
		op:     "booking.complete",
		to:     appointment.StatusCompleted,
		kind:   httperr.KindTransition,
		action: audit.ActionAppointmentCompleted,
		apply:  appointment.Complete,
	}
)

// Cancel is a no-op for an already cancelled appointment.
func (s *Booking) Cancel(ctx context.Context, id string) (models.Appointment, error) {
	return s.transition(ctx, id, cancelTransition)
}

func (s *Booking) Confirm(ctx context.Context, id string) (models.Appointment, error) {
	return s.transition(ctx, id, confirmTransition)
}

func (s *Booking) Complete(ctx context.Context, id string) (models.Appointment, error) {
	return s.transition(ctx, id, completeTransition)
}

func (s *Booking) transition(ctx context.Context, id string, tr transition) (models.Appointment, error) {
	ap, err := s.applyTransition(ctx, id, tr)
	switch {
	case err == nil:
		s.opts.Metrics.RecordTransition(string(tr.to), metrics.OutcomeOK)
	case isBusiness(err):
		s.opts.Metrics.RecordTransition(string(tr.to), metrics.OutcomeRejected)
	default:
		s.opts.Metrics.RecordTransition(string(tr.to), metrics.OutcomeFailed)
		s.opts.Log.Error().Err(err).Str("op", tr.op).Str("appointment_id", id).Msg("appointment transition failed")
	}
	return ap, httperr.Wrap(tr.kind, err)
}

// transitionAttempts bounds the re-reads after a concurrent status change.
const transitionAttempts = 3

// applyTransition writes the new status only if the stored one is still
// the status it was derived from. When another writer got there first the
// appointment is re-read and the transition judged again.
func (s *Booking) applyTransition(ctx context.Context, id string, tr transition) (models.Appointment, error) {
	for attempt := 1; ; attempt++ {
		var cur *models.Appointment
		err := s.opts.backend(ctx, tr.op, func(ctx context.Context) error {
			var err error
			cur, err = s.repo.GetAppointment(ctx, id)
			return err
		})
		if errors.Is(err, appointment.ErrNotFound) {
			return models.Appointment{}, httperr.ErrBusiness("appointment_not_found")
		}
		if err != nil {
			return models.Appointment{}, err
		}

		if tr.noop != nil && tr.noop(appointment.Status(cur.Status)) {
			return *cur, nil
		}

		next := *cur
		if err := tr.apply(&next, s.opts.Clock()); err != nil {
			return models.Appointment{}, err
		}

		err = s.opts.backend(ctx, tr.op, func(ctx context.Context) error {
			return s.repo.UpdateAppointment(ctx, &next, appointment.Status(cur.Status))
		})
		if errors.Is(err, appointment.ErrStatusChanged) {
			if attempt < transitionAttempts {
				continue
			}
			return models.Appointment{}, httperr.ErrBusiness("status_changed")
		}
		if err != nil {
			return models.Appointment{}, err
		}

		s.finishTransition(ctx, *cur, next, tr)
		return next, nil
	}
}

func (s *Booking) finishTransition(ctx context.Context, cur, next models.Appointment, tr transition) {
	s.commit(ctx, upsert(next))

	s.opts.Audit.Dispatch(audit.Event{
		Action:   tr.action,
		Entity:   "appointment",
		EntityID: next.ID,
		Metadata: map[string]string{"from": cur.Status, "to": next.Status},
	})
}

// CompleteElapsed completes every confirmed appointment whose start time is
// before now. It keeps going past individual failures and returns them
// joined.
func (s *Booking) CompleteElapsed(ctx context.Context, now time.Time) (int, error) {
	var confirmed []models.Appointment
	if err := s.opts.backend(ctx, "booking.list_confirmed", func(ctx context.Context) error {
		var err error
		confirmed, err = s.repo.ListByStatus(ctx, appointment.StatusConfirmed)
		return err
	}); err != nil {
		return 0, httperr.Wrap(httperr.KindFetch, err)
	}

	var errs []error
	done := 0
	for _, ap := range confirmed {
		start, err := appointment.StartsAt(ap, s.cfg.Location)
		if err != nil || !start.Before(now) {
			continue
		}
		if _, err := s.Complete(ctx, ap.ID); err != nil {
			errs = append(errs, err)
			continue
		}
		done++
	}
	return done, errors.Join(errs...)
}

func isBusiness(err error) bool {
	_, ok := httperr.BusinessCode(err)
	return ok
}
