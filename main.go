// Package main provides the main entry point for the MetalMind quoting backend
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/metalmind-app/metalmind/app/handlers"
	"github.com/metalmind-app/metalmind/app/middleware"
	"github.com/metalmind-app/metalmind/app/router"
	"github.com/metalmind-app/metalmind/app/scheduler"
	"github.com/metalmind-app/metalmind/app/services"
	businessflow "github.com/metalmind-app/metalmind/business_flow"
	"github.com/metalmind-app/metalmind/config"
	"github.com/metalmind-app/metalmind/models"
	"github.com/metalmind-app/metalmind/repository"
	"github.com/metalmind-app/metalmind/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting MetalMind application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// runMigrations creates or updates the schema for the domain models
func runMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Material{},
		&models.Quote{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations applied")
	return nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if client == nil {
		return cancel
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	cancel := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval)
	stopFuncs = append(stopFuncs, cancel)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)

	// Seed the admin account and the material board on first boot
	if err := ensureSeedData(db, cfg, userRepo, materialRepo); err != nil {
		return nil, err
	}

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Exchange rate service with Redis-backed cache
	exchangeRateService := services.NewExchangeRateService(
		cfg.ExchangeRate.APIURL,
		cfg.ExchangeRate.Timeout,
		cfg.ExchangeRate.DefaultRate,
		cfg.ExchangeRate.CacheTTL,
		rc,
		cfg.Cache.RedisPrefix,
	)

	// Initialize flows
	loginFlow := businessflow.NewLoginFlow(userRepo, tokenService, cfg.JWT.AccessTokenTTL)
	costingFlow := businessflow.NewCostingFlow(materialRepo, businessflow.DefaultCostingParams())
	financeFlow := businessflow.NewFinanceFlow(exchangeRateService, businessflow.DefaultFinanceParams())
	marketFlow := businessflow.NewMarketFlow(materialRepo, exchangeRateService)
	quoteFlow := businessflow.NewQuoteFlow(quoteRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(loginFlow)
	marketHandler := handlers.NewMarketHandler(marketFlow)
	costingHandler := handlers.NewCostingHandler(costingFlow)
	financeHandler := handlers.NewFinanceHandler(financeFlow)
	quoteHandler := handlers.NewQuoteHandler(quoteFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(
		cfg,
		authHandler,
		marketHandler,
		costingHandler,
		financeHandler,
		quoteHandler,
		authMiddleware,
	)

	if cfg.Market.SimulatorEnabled {
		sched := scheduler.NewMarketScheduler(
			materialRepo,
			scheduler.DefaultDeltaStrategy(),
			cfg.Market,
			cfg.Logging,
			nil,
		)
		stopScheduler := sched.Start(context.Background())
		stopFuncs = append(stopFuncs, stopScheduler)
	}

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// ensureSeedData creates the initial admin account and the material price
// board when the database is empty. Both writes ride one transaction so a
// failed first boot leaves nothing half-seeded. Existing rows are never
// touched.
func ensureSeedData(db *gorm.DB, cfg *config.ProductionConfig, userRepo repository.UserRepository, materialRepo repository.MaterialRepository) error {
	return repository.WithTransaction(context.Background(), db, func(ctx context.Context) error {
		if cfg.Security.AdminUsername != "" && cfg.Security.AdminPassword != "" {
			existing, err := userRepo.ByUsername(ctx, cfg.Security.AdminUsername)
			if err != nil {
				return err
			}
			if existing == nil {
				hash, err := businessflow.HashPassword(cfg.Security.AdminPassword, cfg.Security.BcryptCost)
				if err != nil {
					return err
				}
				admin := models.User{
					UUID:         uuid.New(),
					Username:     cfg.Security.AdminUsername,
					PasswordHash: hash,
					Role:         models.RoleAdmin,
					IsActive:     utils.ToPtr(true),
					CreatedAt:    utils.UTCNow(),
					UpdatedAt:    utils.UTCNow(),
				}
				if err := userRepo.Save(ctx, &admin); err != nil {
					return err
				}
				log.Printf("Seeded admin account %q", cfg.Security.AdminUsername)
			}
		}

		count, err := materialRepo.Count(ctx, models.MaterialFilter{})
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		materials := defaultMaterialBoard()
		if err := materialRepo.SaveBatch(ctx, materials); err != nil {
			return err
		}
		log.Printf("Seeded %d materials", len(materials))
		return nil
	})
}

// defaultMaterialBoard is the initial price board the simulator starts from.
// Prices are USD per ton for sheet categories and USD per unit for
// consumables.
func defaultMaterialBoard() []*models.Material {
	now := utils.UTCNow()
	board := []struct {
		name     string
		kind     string
		price    float64
		location string
	}{
		{"DKP Sac 1.00mm", models.MaterialTypeDKP, 855.000, "Gebze"},
		{"DKP Sac 1.50mm", models.MaterialTypeDKP, 848.500, "Dilovası"},
		{"DKP Sac 2.00mm", models.MaterialTypeDKP, 842.250, "Gebze"},
		{"HRP Sac 2.00mm", models.MaterialTypeHRP, 812.000, "Ereğli"},
		{"HRP Sac 3.00mm", models.MaterialTypeHRP, 805.750, "İskenderun"},
		{"HRP Sac 5.00mm", models.MaterialTypeHRP, 798.500, "Ereğli"},
		{"Galvaniz Sac 1.20mm", models.MaterialTypeGal, 935.000, "Gebze"},
		{"Galvaniz Sac 2.00mm", models.MaterialTypeGal, 921.500, "Dilovası"},
		{"Epoksi Boya (kg)", models.MaterialTypeBoya, 6.250, "İkitelli"},
		{"Astar Boya (kg)", models.MaterialTypeBoya, 4.800, "İkitelli"},
		{"Cıvata M12 (adet)", models.MaterialTypeCivata, 0.750, "Bursa"},
		{"Cıvata M16 (adet)", models.MaterialTypeCivata, 1.150, "Bursa"},
		{"Çelik Dübel M10 (adet)", models.MaterialTypeDubel, 0.420, "Konya"},
		{"Çelik Dübel M12 (adet)", models.MaterialTypeDubel, 0.580, "Konya"},
	}

	out := make([]*models.Material, 0, len(board))
	for _, b := range board {
		loc := b.location
		out = append(out, &models.Material{
			UUID:      uuid.New(),
			Name:      b.name,
			Type:      b.kind,
			Price:     b.price,
			Location:  &loc,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return out
}
