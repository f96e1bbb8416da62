package main

import (
	"github.com/matchrings/backend/internal/server"
	"github.com/matchrings/backend/internal/util"
	"github.com/matchrings/backend/pkg/logger"
	"github.com/matchrings/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
