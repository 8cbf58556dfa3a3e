package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homebarber/internal/httperr"
	"github.com/BruksfildServices01/homebarber/internal/media"
	"github.com/BruksfildServices01/homebarber/internal/middleware"
	"github.com/BruksfildServices01/homebarber/internal/models"
	"github.com/BruksfildServices01/homebarber/internal/storage"
	"github.com/BruksfildServices01/homebarber/internal/store"
)

// ======================================================
// HANDLER
// ======================================================

type MeHandler struct {
	sessions *store.Sessions
	provider *store.Provider
	catalog  *store.Catalog
	// objects is nil when avatar uploads are disabled.
	objects storage.ObjectStore
}

func NewMeHandler(
	sessions *store.Sessions,
	provider *store.Provider,
	catalog *store.Catalog,
	objects storage.ObjectStore,
) *MeHandler {
	return &MeHandler{
		sessions: sessions,
		provider: provider,
		catalog:  catalog,
		objects:  objects,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateMeRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// UpdateLocationRequest without an address asks the server to resolve one
// from the coordinates.
type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Address   string   `json:"address"`
}

type UpdateAvailabilityRequest struct {
	Availability models.Availability `json:"availability" binding:"required"`
}

type UpdateServicesRequest struct {
	Services []string `json:"services" binding:"required"`
}

// ======================================================
// PROFILE
// ======================================================

func (h *MeHandler) GetMe(c *gin.Context) {
	_, user, ok := currentUser(c, h.sessions)
	if !ok {
		return
	}

	resp := gin.H{"user": user}
	if b, found := h.provider.BarberByID(user.ID); found {
		resp["barber"] = b
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	id, _, ok := currentUser(c, h.sessions)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "name is required.")
		return
	}

	user, err := id.UpdateProfile(c.Request.Context(), req.Name, req.Phone)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UploadAvatar takes a multipart "avatar" file, stores a 256px webp copy
// and points the profile at it.
func (h *MeHandler) UploadAvatar(c *gin.Context) {
	if h.objects == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "storage_disabled", "Avatar uploads are disabled.")
		return
	}

	id, user, ok := currentUser(c, h.sessions)
	if !ok {
		return
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Send the image in the avatar field.")
		return
	}
	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Could not read the upload.")
		return
	}
	defer f.Close()

	img, err := media.NormalizeAvatar(f)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	key := fmt.Sprintf("avatars/%s.webp", user.ID)
	url, err := h.objects.Put(c.Request.Context(), key, media.AvatarContentType, img)
	if err != nil {
		httperr.Write(c, http.StatusBadGateway, "upload_failed", "Failed to store avatar.")
		return
	}

	updated, err := id.UpdateAvatar(c.Request.Context(), url)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated})
}

// ======================================================
// BARBER PROFILE
// ======================================================

func (h *MeHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "latitude and longitude are required.")
		return
	}

	ctx := c.Request.Context()
	barberID := middleware.UserID(c)

	if req.Address == "" {
		loc, err := h.provider.UpdateLocationFromCoordinates(ctx, barberID, *req.Latitude, *req.Longitude)
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"location": loc})
		return
	}

	loc := models.Location{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Address:   req.Address,
	}
	if err := h.provider.UpdateLocation(ctx, barberID, loc); err != nil {
		httperr.FromError(c, err)
		return
	}

	b, _ := h.provider.BarberByID(barberID)
	c.JSON(http.StatusOK, gin.H{"location": b.Location})
}

func (h *MeHandler) UpdateAvailability(c *gin.Context) {
	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "availability is required.")
		return
	}

	av, err := h.provider.UpdateAvailability(c.Request.Context(), middleware.UserID(c), req.Availability)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": av})
}

func (h *MeHandler) UpdateServices(c *gin.Context) {
	var req UpdateServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "services is required.")
		return
	}

	tags, err := h.provider.UpdateServices(c.Request.Context(), middleware.UserID(c), req.Services, h.catalog.HasTag)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": tags})
}
