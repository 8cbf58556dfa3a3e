package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/homebarber/internal/domain/appointment"
	"github.com/BruksfildServices01/homebarber/internal/httperr"
	"github.com/BruksfildServices01/homebarber/internal/models"
)

type BarberLookup interface {
	BarberByID(id string) (models.Barber, bool)
}

type TakenSlots interface {
	TakenSlots(ctx context.Context, barberID, date string) (map[string]bool, error)
}

type AvailabilityInput struct {
	BarberID string
	Date     string
}

type GetAvailability struct {
	barbers BarberLookup
	taken   TakenSlots
}

func NewGetAvailability(barbers BarberLookup, taken TakenSlots) *GetAvailability {
	return &GetAvailability{barbers: barbers, taken: taken}
}

// Execute lists the template start times for the weekday of in.Date.
// Slots held by a live appointment are returned with Taken set rather
// than dropped.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]domain.TimeSlot, error) {

	barber, ok := uc.barbers.BarberByID(in.BarberID)
	if !ok {
		return nil, httperr.ErrBusiness("barber_not_found")
	}

	times, err := domain.SlotsFor(barber, in.Date)
	if err != nil {
		return nil, err
	}

	slots := make([]domain.TimeSlot, 0, len(times))
	if len(times) == 0 {
		return slots, nil
	}

	taken, err := uc.taken.TakenSlots(ctx, in.BarberID, in.Date)
	if err != nil {
		return nil, httperr.Wrap(httperr.KindFetch, err)
	}

	for _, hm := range times {
		slots = append(slots, domain.TimeSlot{Time: hm, Taken: taken[hm]})
	}
	return slots, nil
}
