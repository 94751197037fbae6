package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/coz-coffee/api/internal/catalog"
	"github.com/coz-coffee/api/internal/handlers"
	"github.com/coz-coffee/api/internal/platform/config"
	pfirestore "github.com/coz-coffee/api/internal/platform/firestore"
	"github.com/coz-coffee/api/internal/platform/observability"
	firestoreRepo "github.com/coz-coffee/api/internal/repositories/firestore"
	"github.com/coz-coffee/api/internal/services"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	firestoreProvider := pfirestore.NewProvider(cfg.Firestore)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := firestoreProvider.Close(closeCtx); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}()

	transactionRepo, err := firestoreRepo.NewTransactionRepository(firestoreProvider, cfg.Firestore.TransactionsCollection)
	if err != nil {
		logger.Fatal("failed to initialise transaction repository", zap.Error(err))
	}
	healthRepo, err := firestoreRepo.NewHealthRepository(firestoreProvider, cfg.Firestore.TransactionsCollection)
	if err != nil {
		logger.Fatal("failed to initialise health repository", zap.Error(err))
	}

	drinkCatalog, err := catalog.Default()
	if err != nil {
		logger.Fatal("failed to load drink catalog", zap.Error(err))
	}

	cartStore := services.NewSessionCartStore(cfg.Session.TTL, time.Now)

	cartService, err := services.NewCartService(services.CartServiceDeps{
		Store:   cartStore,
		Catalog: drinkCatalog,
		Logger:  serviceLogger(logger.Named("cart")),
	})
	if err != nil {
		logger.Fatal("failed to initialise cart service", zap.Error(err))
	}

	checkoutService, err := services.NewCheckoutService(services.CheckoutServiceDeps{
		Store:  cartStore,
		Clock:  time.Now,
		Logger: serviceLogger(logger.Named("checkout")),
	})
	if err != nil {
		logger.Fatal("failed to initialise checkout service", zap.Error(err))
	}

	reportService, err := services.NewReportService(services.ReportServiceDeps{
		Repository:   transactionRepo,
		MaxRangeDays: cfg.Reports.MaxRangeDays,
		Logger:       serviceLogger(logger.Named("report")),
	})
	if err != nil {
		logger.Fatal("failed to initialise report service", zap.Error(err))
	}

	menuHandlers := handlers.NewMenuHandlers(drinkCatalog)
	cartHandlers := handlers.NewCartHandlers(cartService, checkoutService)
	reportHandlers := handlers.NewReportHandlers(reportService)
	healthHandlers := handlers.NewHealthHandlers(handlers.WithHealthReadiness(healthRepo))

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		handlers.SessionMiddleware(handlers.SessionCookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.SecureCookie,
		}),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
	}

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithMenuRoutes(menuHandlers.Routes),
		handlers.WithCartRoutes(cartHandlers.Routes),
		handlers.WithReportRoutes(reportHandlers.Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("coz coffee api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func serviceLogger(logger *zap.Logger) func(context.Context, string, map[string]any) {
	return func(_ context.Context, event string, fields map[string]any) {
		zFields := make([]zap.Field, 0, len(fields)+1)
		zFields = append(zFields, zap.String("event", event))
		for k, v := range fields {
			zFields = append(zFields, zap.Any(k, v))
		}
		logger.Debug(event, zFields...)
	}
}
