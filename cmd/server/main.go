package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/api"
	"github.com/jafarshop/bulkeditor/internal/api/handlers"
	"github.com/jafarshop/bulkeditor/internal/config"
	"github.com/jafarshop/bulkeditor/internal/locator"
	"github.com/jafarshop/bulkeditor/internal/repository/postgres"
	"github.com/jafarshop/bulkeditor/internal/service"
	"github.com/jafarshop/bulkeditor/internal/shopify"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting bulk editor server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	repos := postgres.NewRepositories(db, logger)

	// Initialize Shopify client and services
	client := shopify.NewClient(cfg.Shopify, logger)
	loc := locator.NewLocator(client, logger)
	executor := service.NewBatchExecutor(client, loc, logger)
	walker := service.NewWalker(client, logger)
	restore := service.NewRestoreService(client, loc, repos, logger)

	// Fetch the shop identity once; audit entries stamp it on every write
	identityCtx, cancelIdentity := context.WithTimeout(context.Background(), 10*time.Second)
	userName, shopDomain, err := client.ShopIdentity(identityCtx)
	cancelIdentity()
	if err != nil {
		logger.Fatal("Failed to fetch shop identity", zap.Error(err))
	}
	logger.Info("Connected to shop", zap.String("domain", shopDomain))

	svcs := &handlers.Services{
		API:        client,
		Executor:   executor,
		Restore:    restore,
		Walker:     walker,
		Repos:      repos,
		UserName:   userName,
		ShopDomain: shopDomain,
	}

	// Initialize router
	router := api.NewRouter(cfg, svcs, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
