package routes

import (
	"net/http"

	"github.com/matchrings/backend/internal/server/middleware"
	"github.com/matchrings/backend/pkg/graph"

	"github.com/labstack/echo/v4"
)

// GetRelationshipsHandler lists every edge of the active generation as
// a flattened, label-resolved row sorted by (from, to).
func GetRelationshipsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	g, labels := app.Store.View()

	return c.JSON(http.StatusOK, graph.Report(g, labels))
}
