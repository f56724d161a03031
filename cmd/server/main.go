package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"storefront/internal/config"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	loggingmw "storefront/internal/middleware/logging"
	"storefront/internal/mykafka"
	"storefront/internal/repo"
	"storefront/internal/search"
	"storefront/internal/service"
	"storefront/internal/stripeclient"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmpty(cfg.StripeSecretKey, "STRIPE_SECRET_KEY")

	baseLogger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.OpenDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)

	r := repo.New(db)

	authService := &service.AuthService{
		Repo:      r,
		JWTSecret: cfg.JWTSecret,
		JWTExpire: cfg.JWTExpire,
	}
	catalogService := &service.CatalogService{
		Repo:    r,
		ESIndex: cfg.ESIndex,
	}
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		catalogService.ES = es
	}
	cartService := &service.CartService{Repo: r}
	orderService := &service.OrderService{Repo: r}
	paymentService := &service.PaymentService{
		Repo:           r,
		Orders:         orderService,
		Stripe:         stripeclient.New(cfg.StripeSecretKey),
		PublishableKey: cfg.StripePublishableKey,
		WebhookSecret:  cfg.StripeWebhookSecret,
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
	}))
	e.Use(loggingmw.RequestLogger(baseLogger))

	httpserver.Register(e, &httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: authService, Producer: producer},
		Products:  &httpserver.ProductHTTP{Svc: catalogService, Producer: producer},
		Cart:      &httpserver.CartHTTP{Svc: cartService, Producer: producer},
		Orders:    &httpserver.OrderHTTP{Svc: orderService, Producer: producer},
		Payments:  &httpserver.PaymentHTTP{Svc: paymentService, Producer: producer},
		JWTSecret: cfg.JWTSecret,
	})

	go func() {
		baseLogger.Info("starting server", "port", cfg.ServerPort)
		if err := e.Start(":" + strconv.Itoa(cfg.ServerPort)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	baseLogger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("echo shutdown", "error", err)
	}

	if err := producer.Close(); err != nil {
		baseLogger.Error("kafka close", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	baseLogger.Info("server stopped")
}
