package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/luna/taskmanager/internal/db"
	"github.com/luna/taskmanager/internal/logging"
	"github.com/luna/taskmanager/internal/middleware/auth"
	"github.com/luna/taskmanager/internal/transport"
)

type MiscHTTP struct {
	ServiceName string
	DB          *gorm.DB
}

func (h *MiscHTTP) Landing(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"service": h.ServiceName, "status": "ok"})
}

func (h *MiscHTTP) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *MiscHTTP) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	if err := db.Ping(ctx, h.DB); err != nil {
		logging.FromContext(ctx).Warn("readiness_failed", "status", 503, "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Profile is reachable only with an identity; the access policy rejects
// anonymous callers before it runs.
func (h *MiscHTTP) Profile(c echo.Context) error {
	id, err := auth.Current(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.ProfileResponse{
		ID:          id.UserID,
		Username:    id.Username,
		Authorities: id.Authorities.Strings(),
	})
}
