package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "epoxy_monitor/docs"
	"epoxy_monitor/internal/config"
	"epoxy_monitor/internal/handlers"
	"epoxy_monitor/internal/logger"
	"epoxy_monitor/internal/messaging"
	"epoxy_monitor/internal/repository"
	"epoxy_monitor/internal/repository/db"
	"epoxy_monitor/internal/server"
	"epoxy_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	configDir       = "configs"
	shutdownTimeout = 10 * time.Second
)

// @title                       Epoxy Monitor API
// @version                     1.0
// @description                 Tracks elapsed time and temperature of epoxy cartridges per monitoring session.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load configs/config.yml + EPOXY_* env
	cfg, err := config.Load(configDir)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if cfg.LogLevel != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// open DB
	conn, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DBPath, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	publisher := messaging.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, log.Named("kafka"))
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			log.Errorw("failed to close publisher", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services, err := service.NewService(repos, publisher, cfg, log.Named("sessions"))
	if err != nil {
		log.Fatalw("failed to init services", "err", err)
	}
	apiHandler := handlers.NewHandler(services, log.Named("http"))

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// discard idle sessions
	go services.Reaper.Run(ctx, cfg.Session.ReapInterval)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_server_starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
