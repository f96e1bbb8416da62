package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matchrings/backend/internal/queue"
	"github.com/matchrings/backend/internal/server/middleware"
	"github.com/matchrings/backend/pkg/graph"
	"github.com/matchrings/backend/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// BuildGraphHandler replaces the active graph generation with the
// posted edge list and label map.
func BuildGraphHandler(c echo.Context) error {
	type buildEdge struct {
		FromID   string   `json:"from_id" validate:"required"`
		ToID     string   `json:"to_id" validate:"required"`
		Priority *float64 `json:"priority"`
	}

	type buildGraphBody struct {
		Edges  []buildEdge       `json:"edges" validate:"omitempty,dive"`
		Labels map[string]string `json:"labels"`
	}

	type buildGraphResponse struct {
		Message    string `json:"message"`
		Generation string `json:"generation,omitempty"`
		NodeCount  int    `json:"node_count"`
		EdgeCount  int    `json:"edge_count"`
	}

	data := new(buildGraphBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, buildGraphResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, buildGraphResponse{
			Message: "Invalid request body",
		})
	}

	edges := make([]graph.EdgeInput, len(data.Edges))
	for i, edge := range data.Edges {
		edges[i] = graph.EdgeInput{
			FromID:   edge.FromID,
			ToID:     edge.ToID,
			Priority: edge.Priority,
		}
	}

	app := c.(*middleware.AppContext).App
	res, err := app.Store.Load(edges, data.Labels)
	if err != nil {
		var loadErr *graph.LoadError
		if errors.As(err, &loadErr) {
			return c.JSON(http.StatusBadRequest, buildGraphResponse{
				Message: loadErr.Error(),
			})
		}
		logger.Error("Failed to load graph", "err", err)
		return c.JSON(http.StatusInternalServerError, buildGraphResponse{
			Message: "Internal server error",
		})
	}

	// Mirroring and event publishing are best effort; the generation
	// is already live.
	ctx := c.Request().Context()
	if app.Storage != nil {
		if err := app.Storage.SaveGraph(ctx, res.Generation, edges, data.Labels); err != nil {
			logger.Error("Failed to mirror graph", "generation", res.Generation, "err", err)
		}
	}

	if app.Queue != nil {
		type buildEvent struct {
			Generation string `json:"generation"`
			NodeCount  int    `json:"node_count"`
			EdgeCount  int    `json:"edge_count"`
		}
		payload, err := json.Marshal(buildEvent{
			Generation: res.Generation,
			NodeCount:  res.NodeCount,
			EdgeCount:  res.EdgeCount,
		})
		if err == nil {
			err = queue.PublishBuildEvent(app.Queue, payload)
		}
		if err != nil {
			logger.Error("Failed to publish build event", "generation", res.Generation, "err", err)
		}
	}

	logger.Info("Graph generation published", "generation", res.Generation, "nodes", res.NodeCount, "edges", res.EdgeCount)

	return c.JSON(http.StatusOK, buildGraphResponse{
		Message:    "Graph loaded successfully",
		Generation: res.Generation,
		NodeCount:  res.NodeCount,
		EdgeCount:  res.EdgeCount,
	})
}
