package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/calendario-tech/review-console/api/routes"
	"github.com/calendario-tech/review-console/internal/config"
	"github.com/calendario-tech/review-console/internal/handlers"
	"github.com/calendario-tech/review-console/internal/repositories"
	mongorepo "github.com/calendario-tech/review-console/internal/repositories/mongodb"
	"github.com/calendario-tech/review-console/internal/services"
	"github.com/calendario-tech/review-console/pkg/catalog"
	"github.com/calendario-tech/review-console/pkg/mongodb"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Connect to MongoDB (durable session storage)
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelConnect()
	mongoClient, err := mongodb.NewClient(connectCtx, cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Warn("error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)

	// Initialize repositories and services
	var sessionRepo repositories.SessionRepository = mongorepo.NewSessionRepository(db)
	sessionService := services.NewSessionService(sessionRepo, time.Duration(cfg.Session.TTLHours)*time.Hour, logger)
	if err := sessionService.Restore(connectCtx); err != nil {
		logger.Warn("session restore failed, starting logged-out", zap.Error(err))
	}

	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, sessionService, cfg.Catalog.Timeout)
	eventService := services.NewEventService(catalogClient, logger)
	reviewService := services.NewReviewService(catalogClient, eventService, logger)

	// Initialize handlers and router
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:   handlers.NewAuthHandler(sessionService),
		EventHandler:  handlers.NewEventHandler(eventService),
		ReviewHandler: handlers.NewReviewHandler(reviewService, eventService),
		Sessions:      sessionService,
	}
	router := routes.SetupRouter(cfg, handlerDeps)

	// Start the server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	logger.Info("server starting", zap.String("port", cfg.Server.Port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	logger.Info("server exiting")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
