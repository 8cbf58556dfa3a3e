package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homebarber/internal/httperr"
	"github.com/BruksfildServices01/homebarber/internal/httpresp"
	"github.com/BruksfildServices01/homebarber/internal/store"
	"github.com/BruksfildServices01/homebarber/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/homebarber/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler serves the browse screens, which need no account.
type PublicHandler struct {
	catalog       *store.Catalog
	provider      *store.Provider
	availability  *ucAppointment.GetAvailability
	clock         timezone.Clock
	featuredLimit int
}

func NewPublicHandler(
	catalog *store.Catalog,
	provider *store.Provider,
	availability *ucAppointment.GetAvailability,
	clock timezone.Clock,
	featuredLimit int,
) *PublicHandler {
	return &PublicHandler{
		catalog:       catalog,
		provider:      provider,
		availability:  availability,
		clock:         clock,
		featuredLimit: featuredLimit,
	}
}

// ======================================================
// CATALOG
// ======================================================

func (h *PublicHandler) ListServices(c *gin.Context) {
	httpresp.List(c, h.catalog.Services())
}

// ======================================================
// BARBERS
// ======================================================

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	if tag := c.Query("service"); tag != "" {
		httpresp.List(c, h.provider.ByService(tag))
		return
	}
	httpresp.List(c, h.provider.Barbers())
}

func (h *PublicHandler) Featured(c *gin.Context) {
	limit := h.featuredLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httperr.BadRequest(c, "invalid_limit", "limit must be a positive number.")
			return
		}
		limit = n
	}
	httpresp.List(c, h.provider.Featured(limit))
}

func (h *PublicHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		httperr.BadRequest(c, "invalid_coordinates", "lat and lng are required.")
		return
	}

	var radius float64
	if raw := c.Query("radius_km"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r < 0 {
			httperr.BadRequest(c, "invalid_radius", "radius_km must be a positive number.")
			return
		}
		radius = r
	}

	httpresp.List(c, h.provider.Nearby(lat, lng, radius))
}

func (h *PublicHandler) GetBarber(c *gin.Context) {
	b, ok := h.provider.BarberByID(c.Param("id"))
	if !ok {
		httperr.NotFound(c, "barber_not_found", "Barber not found.")
		return
	}
	httpresp.OK(c, b)
}

func (h *PublicHandler) BarberServices(c *gin.Context) {
	b, ok := h.provider.BarberByID(c.Param("id"))
	if !ok {
		httperr.NotFound(c, "barber_not_found", "Barber not found.")
		return
	}
	httpresp.List(c, h.catalog.ServicesForBarber(b))
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *PublicHandler) Availability(c *gin.Context) {
	date, ok := resolveDate(c, h.clock)
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), ucAppointment.AvailabilityInput{
		BarberID: c.Param("id"),
		Date:     date,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barberId": c.Param("id"),
		"date":     date,
		"slots":    slots,
	})
}
