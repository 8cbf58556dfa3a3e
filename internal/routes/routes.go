package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/BruksfildServices01/homebarber/internal/config"
	"github.com/BruksfildServices01/homebarber/internal/domain/identity"
	"github.com/BruksfildServices01/homebarber/internal/handlers"
	"github.com/BruksfildServices01/homebarber/internal/metrics"
	"github.com/BruksfildServices01/homebarber/internal/middleware"
	"github.com/BruksfildServices01/homebarber/internal/payment"
	"github.com/BruksfildServices01/homebarber/internal/storage"
	"github.com/BruksfildServices01/homebarber/internal/store"
	"github.com/BruksfildServices01/homebarber/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/homebarber/internal/usecase/appointment"
)

// Deps are the long-lived pieces built by main. Objects and Payments may
// be nil, which disables avatar uploads and checkout.
type Deps struct {
	Config   *config.AppConfig
	Clock    timezone.Clock
	Tokens   middleware.TokenParser
	Gatherer prometheus.Gatherer

	Sessions *store.Sessions
	Catalog  *store.Catalog
	Provider *store.Provider
	Booking  *store.Booking

	Objects  storage.ObjectStore
	Payments payment.Provider

	AuthLimiter *middleware.RateLimiter
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(d.Config.CORS.Origins))

	// ======================================================
	// USE CASES
	// ======================================================
	getAvailabilityUC := ucAppointment.NewGetAvailability(d.Provider, d.Booking)
	listAppointmentsUC := ucAppointment.NewListAppointments(d.Booking, d.Provider)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(d.Clock)
	authHandler := handlers.NewAuthHandler(d.Sessions)
	publicHandler := handlers.NewPublicHandler(
		d.Catalog,
		d.Provider,
		getAvailabilityUC,
		d.Clock,
		d.Config.Catalog.FeaturedLimit,
	)
	meHandler := handlers.NewMeHandler(d.Sessions, d.Provider, d.Catalog, d.Objects)
	appointmentHandler := handlers.NewAppointmentHandler(
		d.Booking,
		d.Catalog,
		d.Provider,
		listAppointmentsUC,
		d.Clock,
		d.Payments,
	)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", healthHandler.Health)
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		auth := api.Group("/auth")
		if d.AuthLimiter != nil {
			auth.Use(d.AuthLimiter.Middleware())
		}
		auth.Use(middleware.RequireDevice())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)

			signedIn := auth.Group("/")
			signedIn.Use(middleware.AuthMiddleware(d.Tokens))
			signedIn.POST("/logout", authHandler.Logout)
			signedIn.GET("/session", authHandler.Session)
		}

		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/services", publicHandler.ListServices)
		api.GET("/barbers", publicHandler.ListBarbers)
		api.GET("/barbers/featured", publicHandler.Featured)
		api.GET("/barbers/nearby", publicHandler.Nearby)
		api.GET("/barbers/:id", publicHandler.GetBarber)
		api.GET("/barbers/:id/services", publicHandler.BarberServices)
		api.GET("/barbers/:id/availability", publicHandler.Availability)

		// ------------------------------
		// SECURED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Tokens))
		{
			me := secured.Group("/me")
			me.Use(middleware.RequireDevice())
			me.GET("", meHandler.GetMe)
			me.PATCH("", meHandler.UpdateMe)
			me.POST("/avatar", meHandler.UploadAvatar)

			barberOnly := me.Group("")
			barberOnly.Use(middleware.RequireRole(identity.RoleBarber))
			{
				barberOnly.PUT("/location", meHandler.UpdateLocation)
				barberOnly.PUT("/availability", meHandler.UpdateAvailability)
				barberOnly.PUT("/services", meHandler.UpdateServices)
			}

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments",
				middleware.RequireRole(identity.RoleCustomer),
				appointmentHandler.Create,
			)
			secured.GET("/appointments", appointmentHandler.List)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.POST("/appointments/:id/checkout", appointmentHandler.Checkout)
		}
	}
}
