package middleware

import (
	"github.com/MicahParks/keyfunc/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/matchrings/backend/pkg/graph"
	"github.com/matchrings/backend/pkg/store"
)

// App bundles the shared collaborators every handler works with. The
// Queue, Key, and DBConn fields are nil when the corresponding
// feature is not configured.
type App struct {
	DBConn      *pgxpool.Pool
	Store       *graph.Store
	Storage     store.GraphStorage
	Queue       *amqp091.Channel
	Key         *keyfunc.Keyfunc
	AccessToken string
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
