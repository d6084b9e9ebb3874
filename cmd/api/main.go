package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vaporlab/vaporlab-backend/api/routes"
	"github.com/vaporlab/vaporlab-backend/internal/auth"
	"github.com/vaporlab/vaporlab-backend/internal/banner"
	"github.com/vaporlab/vaporlab-backend/internal/cart"
	"github.com/vaporlab/vaporlab-backend/internal/categories"
	"github.com/vaporlab/vaporlab-backend/internal/dropshippers"
	"github.com/vaporlab/vaporlab-backend/internal/pluses"
	productsvc "github.com/vaporlab/vaporlab-backend/internal/products"
	"github.com/vaporlab/vaporlab-backend/internal/surveys"
	"github.com/vaporlab/vaporlab-backend/pkg/config"
	"github.com/vaporlab/vaporlab-backend/pkg/db"
	"github.com/vaporlab/vaporlab-backend/pkg/imagestore"
	"github.com/vaporlab/vaporlab-backend/pkg/logger"
	"github.com/vaporlab/vaporlab-backend/pkg/metrics"
	"github.com/vaporlab/vaporlab-backend/pkg/migrate"
	"github.com/vaporlab/vaporlab-backend/pkg/redis"
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

	images, err := imagestore.New(cfg.Cloudinary)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap image store", err)
		os.Exit(1)
	}

	svcs, err := buildServices(cfg, logg, dbClient, redisClient, images)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, images, httpMetrics, registry, svcs),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, images *imagestore.Client) (routes.Services, error) {
	gdb := dbClient.DB()

	limiter := auth.NewLoginLimiter(redisClient, cfg.AuthRateLimit, logg)
	authService, err := auth.NewService(auth.ServiceParams{
		Users:       auth.NewUserRepository(gdb),
		Limiter:     limiter,
		AppConfig:   cfg.App,
		JWTConfig:   cfg.JWT,
		PasswordCfg: cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}

	categoryRepo := categories.NewRepository(gdb)
	categoryService, err := categories.NewService(categoryRepo, images, logg)
	if err != nil {
		return routes.Services{}, err
	}

	plusRepo := pluses.NewRepository(gdb)
	plusService, err := pluses.NewService(plusRepo)
	if err != nil {
		return routes.Services{}, err
	}

	productRepo := productsvc.NewRepository(gdb)
	productService, err := productsvc.NewService(productRepo, dbClient, categoryRepo, plusRepo, images, logg)
	if err != nil {
		return routes.Services{}, err
	}

	bannerService, err := banner.NewService(banner.NewRepository(gdb), images, logg)
	if err != nil {
		return routes.Services{}, err
	}

	surveyService, err := surveys.NewService(surveys.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}

	dropshipperService, err := dropshippers.NewService(dropshippers.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}

	cartService, err := cart.NewService(productRepo)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:         authService,
		Products:     productService,
		Categories:   categoryService,
		Pluses:       plusService,
		Banner:       bannerService,
		Surveys:      surveyService,
		Dropshippers: dropshipperService,
		Cart:         cartService,
	}, nil
}
