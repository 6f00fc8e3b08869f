package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"token-service/internal/api"
	"token-service/internal/database"
	"token-service/pkg/config"
	"token-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/server.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	defer log.Close()
	if cfg.Logging.Format == "json" {
		log.SetFormatter("json")
	}

	log.Info("Starting %s", cfg.App.Name)
	log.Debug("Loaded configuration: %+v", cfg.SanitizeForLogging())

	gin.SetMode(cfg.Server.Mode)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.Database.Type); err != nil {
		log.Fatal("Failed to run migrations: %v", err)
	}

	services, err := api.NewServices(db, log, cfg)
	if err != nil {
		log.Fatal("Failed to initialize services: %v", err)
	}
	if err := services.Start(); err != nil {
		log.Fatal("Failed to start services: %v", err)
	}
	defer services.Stop()

	router := gin.New()
	api.SetupRoutes(router, services)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error: %v", err)
	}
}
