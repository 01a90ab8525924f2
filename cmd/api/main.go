package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/sokastore/sokastore-backend/api/controllers"
	"github.com/sokastore/sokastore-backend/api/routes"
	"github.com/sokastore/sokastore-backend/internal/badges"
	"github.com/sokastore/sokastore-backend/internal/blogs"
	"github.com/sokastore/sokastore-backend/internal/cart"
	"github.com/sokastore/sokastore-backend/internal/catalog"
	"github.com/sokastore/sokastore-backend/internal/identity"
	"github.com/sokastore/sokastore-backend/internal/inventory"
	"github.com/sokastore/sokastore-backend/internal/orders"
	"github.com/sokastore/sokastore-backend/pkg/auth/session"
	"github.com/sokastore/sokastore-backend/pkg/config"
	"github.com/sokastore/sokastore-backend/pkg/db"
	"github.com/sokastore/sokastore-backend/pkg/logger"
	"github.com/sokastore/sokastore-backend/pkg/metrics"
	"github.com/sokastore/sokastore-backend/pkg/migrate"
	"github.com/sokastore/sokastore-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()

	catalogService, err := catalog.NewService(
		catalog.NewRepository(gormDB), catalog.NewCategoryRepo(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartRepo := cart.NewRepository(gormDB)
	productRepo := catalog.NewRepository(gormDB)

	cartService, err := cart.NewService(cartRepo, productRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(
		orders.NewRepository(gormDB), cartRepo, productRepo, dbClient, cfg.Orders)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	identityService, err := identity.NewService(
		identity.NewRepository(gormDB), sessionManager, cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	badgeService, err := badges.NewService(badges.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create badge service", err)
		os.Exit(1)
	}

	blogService, err := blogs.NewService(blogs.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create blog service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	handler := routes.New(routes.Dependencies{
		Config:   cfg,
		Log:      logg,
		Sessions: sessionManager,
		Limiter:  redisClient,
		Metrics:  httpMetrics,

		Health:     controllers.NewHealthController(dbClient, redisClient),
		Auth:       controllers.NewAuthController(identityService),
		Users:      controllers.NewUserController(identityService),
		Products:   controllers.NewProductController(catalogService, cfg.Uploads),
		Categories: controllers.NewCategoryController(catalogService),
		Cart:       controllers.NewCartController(cartService),
		Orders:     controllers.NewOrderController(orderService),
		Stock:      controllers.NewStockController(inventoryService),
		Badges:     controllers.NewBadgeController(badgeService),
		Blogs:      controllers.NewBlogController(blogService),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
