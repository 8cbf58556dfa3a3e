package httperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

var businessStatus = map[string]int{
	"invalid_credentials":      http.StatusUnauthorized,
	"role_mismatch":            http.StatusUnauthorized,
	"email_already_registered": http.StatusConflict,
	"appointment_not_found":    http.StatusNotFound,
	"barber_not_found":         http.StatusNotFound,
	"user_not_found":           http.StatusNotFound,
	"invalid_state":            http.StatusConflict,
	"slot_taken":               http.StatusConflict,
	"status_changed":           http.StatusConflict,
	"not_authenticated":        http.StatusUnauthorized,
	"forbidden":                http.StatusForbidden,
	"avatar_too_large":         http.StatusRequestEntityTooLarge,
	"unsupported_image_type":   http.StatusUnsupportedMediaType,
	"payments_disabled":        http.StatusServiceUnavailable,
	"storage_disabled":         http.StatusServiceUnavailable,
}

var kindMessage = map[Kind]string{
	KindAuth:          "Invalid credentials.",
	KindRegistration:  "Registration failed.",
	KindBooking:       "Failed to book appointment. Please try again.",
	KindCancellation:  "Failed to cancel appointment.",
	KindTransition:    "Failed to update appointment.",
	KindFetch:         "Failed to load data.",
	KindProfileUpdate: "Failed to update profile.",
}

// FromError writes the response for a store error. Business codes decide
// the status; anything else under a known kind is reported as a backend
// failure of that kind.
func FromError(c *gin.Context, err error) {
	kind, _ := KindOf(err)
	msg, ok := kindMessage[kind]
	if !ok {
		msg = "Unexpected error."
	}

	if code, ok := BusinessCode(err); ok {
		status, known := businessStatus[code]
		if !known {
			status = http.StatusBadRequest
		}
		Write(c, status, code, msg)
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		Write(c, http.StatusGatewayTimeout, "timeout", msg)
		return
	}

	if kind == "" {
		Internal(c, "internal_error", msg)
		return
	}
	Write(c, http.StatusBadGateway, string(kind), msg)
}
