package server

import (
	"github.com/matchrings/backend/internal/server/middleware"
	"github.com/matchrings/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check routes
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})
	e.GET("/ready", routes.ReadyHandler)

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Graph routes
	apiRoutes.POST("/graph", routes.BuildGraphHandler)
	apiRoutes.GET("/chains", routes.GetChainsHandler)
	apiRoutes.GET("/relationships", routes.GetRelationshipsHandler)
}
