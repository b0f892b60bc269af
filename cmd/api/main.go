package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/bike-town/internal/config"
	"github.com/jwebster45206/bike-town/internal/handlers"
	"github.com/jwebster45206/bike-town/internal/logger"
	"github.com/jwebster45206/bike-town/internal/middleware"
	"github.com/jwebster45206/bike-town/internal/storage"
	"github.com/jwebster45206/bike-town/pkg/game"
	"github.com/jwebster45206/bike-town/pkg/world"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Bike Town API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir)

	store := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.Ping(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	// Load the static world once; it is shared read-only by all sessions.
	locations, err := store.ListLocations(storageCtx)
	if err != nil {
		log.Error("Failed to load locations", "error", err)
		os.Exit(1)
	}
	routes, err := store.ListRoutes(storageCtx)
	if err != nil {
		log.Error("Failed to load routes", "error", err)
		os.Exit(1)
	}
	events, err := store.ListEvents(storageCtx)
	if err != nil {
		log.Error("Failed to load events", "error", err)
		os.Exit(1)
	}

	catalog, err := world.NewCatalog(locations, routes, events)
	if err != nil {
		log.Error("Invalid world data", "error", err)
		os.Exit(1)
	}
	log.Info("World catalog loaded", "locations", len(locations), "routes", len(routes), "events", len(events))

	engine := game.NewEngine(catalog, store, log, nil)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	gameHandler := handlers.NewGameHandler(engine, cfg.StartMoney, cfg.StartEnergy, log)
	mux.Handle("/v1/games", gameHandler)
	mux.Handle("/v1/games/", gameHandler)

	worldHandler := handlers.NewWorldHandler(catalog, store, log)
	mux.Handle("/v1/world/", worldHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Close storage connection
	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
