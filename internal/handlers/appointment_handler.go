package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/homebarber/internal/domain/appointment"
	"github.com/BruksfildServices01/homebarber/internal/httperr"
	"github.com/BruksfildServices01/homebarber/internal/httpresp"
	"github.com/BruksfildServices01/homebarber/internal/middleware"
	"github.com/BruksfildServices01/homebarber/internal/models"
	"github.com/BruksfildServices01/homebarber/internal/payment"
	"github.com/BruksfildServices01/homebarber/internal/store"
	"github.com/BruksfildServices01/homebarber/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/homebarber/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	booking  *store.Booking
	catalog  *store.Catalog
	provider *store.Provider
	list     *ucAppointment.ListAppointments
	clock    timezone.Clock
	// payments is nil when checkout is disabled.
	payments payment.Provider
}

func NewAppointmentHandler(
	booking *store.Booking,
	catalog *store.Catalog,
	provider *store.Provider,
	list *ucAppointment.ListAppointments,
	clock timezone.Clock,
	payments payment.Provider,
) *AppointmentHandler {
	return &AppointmentHandler{
		booking:  booking,
		catalog:  catalog,
		provider: provider,
		list:     list,
		clock:    clock,
		payments: payments,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// CreateAppointmentRequest names the service either by catalog id or by
// its display name.
type CreateAppointmentRequest struct {
	BarberID  string `json:"barberId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Service   string `json:"service"`
	ServiceID string `json:"serviceId"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "barberId, date and time are required.")
		return
	}

	service := req.Service
	if req.ServiceID != "" {
		svc, ok := h.catalog.ServiceByID(req.ServiceID)
		if !ok {
			httperr.BadRequest(c, "unknown_service", "Service not found.")
			return
		}
		service = svc.Name
	} else if svc, ok := h.catalog.ServiceByName(service); ok {
		service = svc.Name
	}

	ap, err := h.booking.Book(c.Request.Context(), store.BookingRequest{
		BarberID:   req.BarberID,
		CustomerID: middleware.UserID(c),
		Date:       req.Date,
		Time:       req.Time,
		Service:    service,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	scope := c.Query("scope")
	switch scope {
	case ucAppointment.ScopeAll, ucAppointment.ScopeUpcoming, ucAppointment.ScopePast:
	default:
		httperr.BadRequest(c, "invalid_scope", "scope must be upcoming or past.")
		return
	}

	list, err := h.list.Execute(c.Request.Context(), middleware.UserID(c), scope, h.clock())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, list)
}

// ======================================================
// TRANSITIONS
// ======================================================

// load fetches the appointment and checks that allow accepts the caller.
func (h *AppointmentHandler) load(
	c *gin.Context,
	allow func(ap models.Appointment, userID string) bool,
) (models.Appointment, bool) {
	ap, err := h.booking.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return models.Appointment{}, false
	}
	if !allow(ap, middleware.UserID(c)) {
		httperr.Forbidden(c, "forbidden", "You are not part of this appointment.")
		return models.Appointment{}, false
	}
	return ap, true
}

func isParticipant(ap models.Appointment, userID string) bool {
	return ap.Involves(userID)
}

func isAssignedBarber(ap models.Appointment, userID string) bool {
	return ap.BarberID == userID
}

func isCustomer(ap models.Appointment, userID string) bool {
	return ap.CustomerID == userID
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	if _, ok := h.load(c, isParticipant); !ok {
		return
	}

	ap, err := h.booking.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	if _, ok := h.load(c, isAssignedBarber); !ok {
		return
	}

	ap, err := h.booking.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	if _, ok := h.load(c, isAssignedBarber); !ok {
		return
	}

	ap, err := h.booking.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// CHECKOUT
// ======================================================

// Checkout creates a hosted payment link for the barber's visit price.
func (h *AppointmentHandler) Checkout(c *gin.Context) {
	if h.payments == nil {
		httperr.FromError(c, httperr.ErrBusiness("payments_disabled"))
		return
	}

	ap, ok := h.load(c, isCustomer)
	if !ok {
		return
	}
	if domain.Status(ap.Status) == domain.StatusCancelled {
		httperr.FromError(c, httperr.ErrBusiness("invalid_state"))
		return
	}

	b, found := h.provider.BarberByID(ap.BarberID)
	if !found {
		httperr.NotFound(c, "barber_not_found", "Barber not found.")
		return
	}
	if b.Price <= 0 {
		httperr.BadRequest(c, "price_unavailable", "This barber has no visit price.")
		return
	}

	pref, err := h.payments.CreatePreference(c.Request.Context(), payment.Checkout{
		AppointmentID: ap.ID,
		Title:         fmt.Sprintf("%s with %s", ap.Service, b.Name),
		Description:   fmt.Sprintf("Home visit on %s at %s", ap.Date, ap.Time),
		Amount:        b.Price,
	})
	if err != nil {
		httperr.Write(c, http.StatusBadGateway, "checkout_failed", "Failed to start checkout.")
		return
	}
	httpresp.OK(c, pref)
}
