package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/homebarber/internal/domain/appointment"
	"github.com/BruksfildServices01/homebarber/internal/httperr"
	"github.com/BruksfildServices01/homebarber/internal/middleware"
	"github.com/BruksfildServices01/homebarber/internal/models"
	"github.com/BruksfildServices01/homebarber/internal/store"
	"github.com/BruksfildServices01/homebarber/internal/timezone"
)

// --------------------------------------------------
// Dates
// --------------------------------------------------

// resolveDate reads ?date=YYYY-MM-DD, or ?day=Mon meaning the next such
// weekday counted from today.
func resolveDate(c *gin.Context, clock timezone.Clock) (string, bool) {
	if date := c.Query("date"); date != "" {
		if _, err := domain.ParseDate(date, clock().Location()); err != nil {
			httperr.BadRequest(c, "invalid_date", "Use the YYYY-MM-DD format.")
			return "", false
		}
		return date, true
	}

	if day := c.Query("day"); day != "" {
		wd, ok := domain.ParseWeekday(day)
		if !ok {
			httperr.BadRequest(c, "invalid_weekday", "Use a weekday such as Mon.")
			return "", false
		}
		return domain.NextDateFor(wd, clock()), true
	}

	httperr.BadRequest(c, "missing_date", "Provide date or day.")
	return "", false
}

// --------------------------------------------------
// Sessions
// --------------------------------------------------

// currentUser returns the session user of the calling device. The session
// must belong to the token subject.
func currentUser(c *gin.Context, sessions *store.Sessions) (*store.Identity, models.User, bool) {
	id, err := sessions.Open(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		httperr.Internal(c, "session_unavailable", "Failed to load session.")
		return nil, models.User{}, false
	}

	s := id.Session()
	if !s.IsAuthenticated || s.User == nil || s.User.ID != middleware.UserID(c) {
		httperr.Unauthorized(c, "session_mismatch", "Sign in again on this device.")
		return nil, models.User{}, false
	}
	return id, *s.User, true
}
