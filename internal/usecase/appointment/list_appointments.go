package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/homebarber/internal/domain/appointment"
	"github.com/BruksfildServices01/homebarber/internal/dto"
	"github.com/BruksfildServices01/homebarber/internal/models"
)

const (
	ScopeAll      = ""
	ScopeUpcoming = "upcoming"
	ScopePast     = "past"
)

type AppointmentFetcher interface {
	FetchUserAppointments(ctx context.Context, userID string) ([]models.Appointment, error)
}

type ListAppointments struct {
	appointments AppointmentFetcher
	barbers      BarberLookup
}

func NewListAppointments(
	appointments AppointmentFetcher,
	barbers BarberLookup,
) *ListAppointments {
	return &ListAppointments{
		appointments: appointments,
		barbers:      barbers,
	}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	userID string,
	scope string,
	now time.Time,
) ([]dto.AppointmentListDTO, error) {

	list, err := uc.appointments.FetchUserAppointments(ctx, userID)
	if err != nil {
		return nil, err
	}

	upcoming, past := SplitByDate(list, now)
	switch scope {
	case ScopeUpcoming:
		list = upcoming
	case ScopePast:
		list = past
	}

	out := make([]dto.AppointmentListDTO, 0, len(list))
	for _, ap := range list {
		item := dto.AppointmentListDTO{
			ID:         ap.ID,
			BarberID:   ap.BarberID,
			CustomerID: ap.CustomerID,
			Date:       ap.Date,
			Time:       ap.Time,
			Service:    ap.Service,
			Status:     ap.Status,
		}
		if b, ok := uc.barbers.BarberByID(ap.BarberID); ok {
			item.BarberName = b.Name
			item.BarberAvatar = b.Avatar
		}
		out = append(out, item)
	}

	return out, nil
}

// SplitByDate separates appointments dated today or later from earlier
// ones. Order inside each part is preserved.
func SplitByDate(list []models.Appointment, now time.Time) (upcoming, past []models.Appointment) {
	upcoming = make([]models.Appointment, 0)
	past = make([]models.Appointment, 0)
	for _, ap := range list {
		if domain.IsPast(ap, now) {
			past = append(past, ap)
			continue
		}
		upcoming = append(upcoming, ap)
	}
	return upcoming, past
}
