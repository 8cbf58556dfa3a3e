package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/homebarber/internal/domain/identity"
	"github.com/BruksfildServices01/homebarber/internal/httperr"
	"github.com/BruksfildServices01/homebarber/internal/httpresp"
	"github.com/BruksfildServices01/homebarber/internal/middleware"
	"github.com/BruksfildServices01/homebarber/internal/models"
	"github.com/BruksfildServices01/homebarber/internal/store"
)

type AuthHandler struct {
	sessions *store.Sessions
}

func NewAuthHandler(sessions *store.Sessions) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// sessionResponse never carries the token; the caller already holds it.
type sessionResponse struct {
	User            models.User `json:"user"`
	IsAuthenticated bool        `json:"isAuthenticated"`
}

func roleOrCustomer(role string) identity.Role {
	if role == "" {
		return identity.RoleCustomer
	}
	return identity.Role(role)
}

// --------- Handlers ---------

func (h *AuthHandler) device(c *gin.Context) (*store.Identity, bool) {
	id, err := h.sessions.Open(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		httperr.Internal(c, "session_unavailable", "Failed to load session.")
		return nil, false
	}
	return id, true
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Name, email and password are required.")
		return
	}

	id, ok := h.device(c)
	if !ok {
		return
	}

	user, err := id.Register(c.Request.Context(), req.Name, req.Email, req.Password, roleOrCustomer(req.Role))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, authResponse{User: user, Token: id.Session().Token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email and password are required.")
		return
	}

	id, ok := h.device(c)
	if !ok {
		return
	}

	user, err := id.Login(c.Request.Context(), req.Email, req.Password, roleOrCustomer(req.Role))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, authResponse{User: user, Token: id.Session().Token})
}

// Logout signs the device out. A device signed in as someone other than
// the token subject is left alone.
func (h *AuthHandler) Logout(c *gin.Context) {
	id, ok := h.device(c)
	if !ok {
		return
	}

	st := id.Session()
	if st.IsAuthenticated && (st.User == nil || st.User.ID != middleware.UserID(c)) {
		httperr.Unauthorized(c, "session_mismatch", "Sign in again on this device.")
		return
	}

	if err := id.Logout(c.Request.Context()); err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Session returns what the device would show on launch.
func (h *AuthHandler) Session(c *gin.Context) {
	_, user, ok := currentUser(c, h.sessions)
	if !ok {
		return
	}
	httpresp.OK(c, sessionResponse{User: user, IsAuthenticated: true})
}
