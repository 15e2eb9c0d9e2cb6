package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/givebridge-donation-platform/internal/api"
	"github.com/givebridge-donation-platform/internal/api/service"
	"github.com/givebridge-donation-platform/internal/config"
	"github.com/givebridge-donation-platform/internal/data/mongo"
	"github.com/givebridge-donation-platform/internal/data/postgres"
	"github.com/givebridge-donation-platform/internal/gateway"
	"github.com/givebridge-donation-platform/internal/logger"
	"github.com/givebridge-donation-platform/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize payment gateway client
	paymentGateway, err := newPaymentGateway(log, &cfg.Gateway)
	if err != nil {
		log.Error("Failed to initialize payment gateway", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(log, postgresDB)
	charityRepo := postgres.NewCharityRepository(log, postgresDB)
	projectRepo := postgres.NewProjectRepository(log, postgresDB)
	donationRepo := postgres.NewDonationRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	auditRepo := mongo.NewGatewayEventRepository(log, mongoDB.Database())

	// Initialize services
	services := api.Services{
		Auth:     service.NewAuthService(log, &cfg.Auth, postgresDB, userRepo, charityRepo),
		User:     service.NewUserService(userRepo),
		Charity:  service.NewCharityService(log, charityRepo, projectRepo),
		Donation: service.NewDonationService(log, postgresDB, donationRepo, charityRepo, projectRepo, paymentGateway),
		Settlement: service.NewSettlementService(
			log, postgresDB, donationRepo, charityRepo, projectRepo, outboxRepo, auditRepo, paymentGateway,
		),
		Admin: service.NewAdminService(log, postgresDB, userRepo, charityRepo, outboxRepo, auditRepo),
	}

	// Initialize REST server
	server := api.NewServer(log, cfg, services)
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

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}

// newPaymentGateway selects the gateway implementation from configuration.
// The mock gateway issues intents locally and is used in development and tests.
func newPaymentGateway(log *slog.Logger, cfg *config.GatewayConfig) (gateway.PaymentGateway, error) {
	switch cfg.Mode {
	case "mock":
		log.Warn("Using mock payment gateway, no real provider calls will be made")
		return gateway.NewMockGateway(cfg.WebhookSecret), nil
	case "http":
		return gateway.NewHTTPGateway(cfg.Endpoint, cfg.WebhookSecret, cfg.Timeout, log), nil
	default:
		return nil, fmt.Errorf("unknown gateway mode: %q", cfg.Mode)
	}
}
