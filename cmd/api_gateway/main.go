package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/inventory-ledger/internal/api_gateway"
	"github.com/inventory-ledger/internal/api_gateway/service"
	"github.com/inventory-ledger/internal/bootstrap"
	"github.com/inventory-ledger/internal/config"
	"github.com/inventory-ledger/internal/data/postgres"
	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/logger"
	"github.com/inventory-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting inventory ledger API",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize database; migrations run inside
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Bring older transactions tables up to the current column set
	if err := postgres.EnsureTransactionSchema(appCtx, log, postgresDB.Pool()); err != nil {
		log.Error("Failed to reconcile transactions schema", "error", err)
		postgresDB.Close()
		os.Exit(1)
	}

	clock := localtime.SystemClock()

	// Initialize repositories
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	userRepo := postgres.NewUserRepository(log, postgresDB)
	categoryRepo := postgres.NewCategoryRepository(log, postgresDB)
	weightRepo := postgres.NewWeightRepository(log, postgresDB)
	inventoryRepo := postgres.NewInventoryRepository(log, postgresDB)

	if cfg.Ledger.SeedOnStartup {
		seeder := bootstrap.NewSeeder(log, postgresDB, userRepo, categoryRepo, weightRepo, transactionRepo, clock)
		if _, err := seeder.Run(appCtx); err != nil {
			log.Error("Failed to seed ledger", "error", err)
			postgresDB.Close()
			os.Exit(1)
		}
	}

	// Initialize services
	services := api_gateway.Services{
		Transactions: service.NewTransactionService(log, transactionRepo, userRepo, inventoryRepo, clock),
		Users:        service.NewUserService(log, userRepo),
		Catalog:      service.NewCatalogService(categoryRepo, weightRepo),
		Inventory:    service.NewInventoryService(log, inventoryRepo),
	}

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, services)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop accepting requests before the pool goes away
	stopErr := server.Stop(shutdownCtx)
	if stopErr != nil {
		log.Error("Error during server shutdown", "error", stopErr)
	}

	postgresDB.Close()

	if serverErr != nil || stopErr != nil {
		log.Error("Server shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Server shutdown completed successfully")
}
