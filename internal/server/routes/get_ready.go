package routes

import (
	"net/http"

	"github.com/matchrings/backend/internal/server/middleware"
	"github.com/matchrings/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ReadyHandler reports readiness: the process is ready once the
// backing store answers queries.
func ReadyHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	if app.Storage == nil {
		return c.String(http.StatusOK, "OK")
	}

	if err := app.Storage.Ping(c.Request().Context()); err != nil {
		logger.Warn("Readiness check failed", "err", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Database not ready"})
	}
	return c.String(http.StatusOK, "OK")
}
