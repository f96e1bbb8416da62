package routes

import (
	"errors"
	"net/http"

	"github.com/matchrings/backend/internal/server/middleware"
	"github.com/matchrings/backend/internal/util"
	"github.com/matchrings/backend/pkg/graph"
	"github.com/matchrings/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetChainsHandler lists the matching cycles of the active graph
// generation, scored and deduplicated by participant set.
func GetChainsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	g, labels := app.Store.View()

	opts := []graph.EnumerateOption{}
	if budget := util.GetEnvInt("CHAIN_SEARCH_BUDGET", 0); budget > 0 {
		opts = append(opts, graph.WithMaxVisits(budget))
	}

	raw, err := graph.Enumerate(c.Request().Context(), g, opts...)
	if err != nil {
		var timeoutErr *graph.TimeoutError
		if errors.As(err, &timeoutErr) {
			logger.Warn("Chain search exceeded budget", "visited", timeoutErr.Visited, "budget", timeoutErr.Budget)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Chain search exceeded its work budget"})
		}
		logger.Error("Chain search failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	chains, err := graph.ScoreAndDedupe(raw, g, labels)
	if err != nil {
		logger.Error("Chain scoring failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, chains)
}
