package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/repository"
	"storefront/internal/seed"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var path string
	flag.StringVar(&path, "file", "", "seed file path (overrides SEED_FILE)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting catalogue seeder")

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
	categoryRepo := repository.NewCategoryRepository(pool, logger)

	// Pick the loader: S3 when enabled and no local override was given,
	// the local file system otherwise.
	var loader seed.Loader
	if cfg.Seed.S3Enabled && path == "" {
		loader, err = seed.NewS3Loader(ctx, cfg.Seed.Bucket, cfg.Seed.Region, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 loader: %w", err)
		}
		path = cfg.Seed.Key
	} else {
		loader = seed.NewFileLoader(logger)
		if path == "" {
			path = cfg.Seed.Key
		}
		logger.Info().Str("path", path).Msg("using local file system for seed file")
	}

	records, err := loader.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load seed file: %w", err)
	}

	seeder := seed.NewSeeder(productRepo, categoryRepo, logger)
	result, err := seeder.Run(ctx, records)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	logger.Info().
		Int("categories_created", result.CategoriesCreated).
		Int("products_created", result.ProductsCreated).
		Int("skipped", result.Skipped).
		Msg("catalogue seeding completed")

	return nil
}
