package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matchrings/backend/internal/queue"
	mid "github.com/matchrings/backend/internal/server/middleware"
	"github.com/matchrings/backend/internal/util"
	"github.com/matchrings/backend/pkg/graph"
	"github.com/matchrings/backend/pkg/logger"
	pgstore "github.com/matchrings/backend/pkg/store/pgx"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := util.GetEnv("DATABASE_URL")
	attempts := util.GetEnvInt("DB_CONNECT_ATTEMPTS", 5)
	conn, err := util.RetryWithBackoff(ctx, attempts, time.Second, func(ctx context.Context) (*pgxpool.Pool, error) {
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	m, err := migrate.New(util.GetEnvString("MIGRATIONS_URL", "file://migrations"), databaseURL)
	if err != nil {
		logger.Fatal("Failed to prepare migrations", "err", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	var key *keyfunc.Keyfunc
	if authURL := util.GetEnv("AUTH_URL"); authURL != "" {
		jwksUrl := authURL + "/jwks"
		k, err := keyfunc.NewDefault([]string{jwksUrl})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		key = &k
	}

	var ch *amqp091.Channel
	if util.GetEnv("RABBITMQ_HOST") != "" {
		que := queue.Init()
		defer que.Close()
		ch, err = que.Channel()
		if err != nil {
			logger.Fatal("Failed to open channel", "err", err)
		}
		if err := queue.Setup(ch); err != nil {
			logger.Fatal("Failed to set up queues", "err", err)
		}
	}

	storageClient := pgstore.NewGraphDBStorageWithConnection(conn)

	storeOpts := []graph.StoreOption{}
	if util.GetEnvString("DUPLICATE_EDGES", "last") == "reject" {
		storeOpts = append(storeOpts, graph.WithDuplicatePolicy(graph.DuplicateReject))
	}
	graphStore := graph.NewStore(storeOpts...)

	// Bring the last mirrored generation back into memory so queries
	// work right after a restart.
	edges, labels, err := storageClient.LoadGraph(ctx)
	if err != nil {
		logger.Warn("Failed to read graph mirror", "err", err)
	} else if len(edges) > 0 {
		res, err := graphStore.Load(edges, labels)
		if err != nil {
			logger.Warn("Failed to restore graph mirror", "err", err)
		} else {
			logger.Info("Restored graph from mirror", "nodes", res.NodeCount, "edges", res.EdgeCount)
		}
	}

	app := &mid.App{
		DBConn:      conn,
		Store:       graphStore,
		Storage:     storageClient,
		Queue:       ch,
		Key:         key,
		AccessToken: util.GetEnv("ACCESS_TOKEN"),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("16M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
