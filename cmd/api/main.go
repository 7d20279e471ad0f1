package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/H3nrYP0/optica-api/api/routes"
	"github.com/H3nrYP0/optica-api/internal/appointments"
	"github.com/H3nrYP0/optica-api/internal/catalog"
	"github.com/H3nrYP0/optica-api/internal/dashboard"
	"github.com/H3nrYP0/optica-api/internal/entities"
	"github.com/H3nrYP0/optica-api/internal/orders"
	"github.com/H3nrYP0/optica-api/internal/people"
	"github.com/H3nrYP0/optica-api/internal/sales"
	"github.com/H3nrYP0/optica-api/internal/suppliers"
	"github.com/H3nrYP0/optica-api/internal/users"
	"github.com/H3nrYP0/optica-api/pkg/config"
	"github.com/H3nrYP0/optica-api/pkg/db"
	"github.com/H3nrYP0/optica-api/pkg/logger"
	"github.com/H3nrYP0/optica-api/pkg/metrics"
	"github.com/H3nrYP0/optica-api/pkg/migrate"
	pkgredis "github.com/H3nrYP0/optica-api/pkg/redis"
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

	if cfg.FeatureFlags.AutoMigrate {
		if err := dbClient.AutoMigrate(context.Background()); err != nil {
			logg.Error(context.Background(), "failed to migrate schema", err)
			os.Exit(1)
		}
	}
	if err := migrate.MaybeSeed(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to seed lookup data", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	catalogSvc, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	peopleSvc, err := people.NewService(people.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create people service", err)
		os.Exit(1)
	}
	appointmentsSvc, err := appointments.NewService(appointments.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create appointments service", err)
		os.Exit(1)
	}

	suppliersSvc, err := suppliers.NewService(suppliers.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create suppliers service", err)
		os.Exit(1)
	}
	salesSvc, err := sales.NewService(sales.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}
	ordersSvc, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, cfg.Conversion, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	svcs := routes.Services{
		Catalog:      catalogSvc,
		People:       peopleSvc,
		Appointments: appointmentsSvc,
		Suppliers:    suppliersSvc,
		Sales:        salesSvc,
		Orders:       ordersSvc,
		Users:        users.NewService(users.NewRepository(dbClient.DB()), cfg.JWT, cfg.Password, logg),
		Dashboard:    dashboard.NewService(dbClient.DB()),
		Entities:     entities.NewService(dbClient.DB()),
	}

	httpMetrics := metrics.NewHTTPMetrics()

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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, svcs),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
