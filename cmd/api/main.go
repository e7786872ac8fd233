package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	// Initialize services
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost, logger)
	productService := service.NewProductService(productRepo, logger)
	categoryService := service.NewCategoryService(categoryRepo, logger)
	checkoutService := service.NewCheckoutService(orderRepo, productRepo, logger)
	orderService := service.NewOrderService(orderRepo, logger)

	// Initialize HTTP handlers
	validate := validatorv10.New()
	cartStore := cart.NewMemoryStore()
	authHandler := handler.NewAuthHandler(authService, validate, logger)
	productHandler := handler.NewProductHandler(productService, validate, logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, validate, logger)
	orderHandler := handler.NewOrderHandler(checkoutService, orderService, validate, logger)
	cartHandler := handler.NewCartHandler(cartStore, productService, validate, logger)

	// Initialize router
	mux := router.New(productHandler, categoryHandler, orderHandler, authHandler, cartHandler, authService, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
