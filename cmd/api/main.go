package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fecwatch/contribution-monitor/internal/api"
	"github.com/fecwatch/contribution-monitor/internal/config"
	"github.com/fecwatch/contribution-monitor/internal/monitor"
	"github.com/fecwatch/contribution-monitor/internal/storage"
	"github.com/fecwatch/contribution-monitor/internal/storage/postgres"
	"github.com/fecwatch/contribution-monitor/internal/storage/sqlite"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize run-history storage
	var store storage.Storage
	switch cfg.Storage.Type {
	case "postgres":
		store, err = postgres.NewPostgresStorage(cfg.Storage.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL storage: %v", err)
		}
	default:
		store, err = sqlite.NewSQLiteStorage(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite storage: %v", err)
		}
	}
	defer store.Close()

	// The runner re-wires the pipeline per trigger so secret or config
	// problems surface as a 500 on the trigger, not a crash here.
	runner := monitor.NewConfigRunner(cfg, store)

	// Initialize handler
	handler := api.NewHandler(runner, store)

	// Setup routes
	router := api.SetupRoutes(handler)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	fmt.Printf("Starting monitor API server on %s\n", addr)
	fmt.Printf("Storage type: %s\n", cfg.Storage.Type)

	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
