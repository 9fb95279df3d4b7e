package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/glorimarket/cart_service/internal/config"
	"github.com/glorimarket/cart_service/internal/events"
	"github.com/glorimarket/cart_service/internal/httpserver"
	"github.com/glorimarket/cart_service/internal/logging"
	"github.com/glorimarket/cart_service/internal/repo"
	"github.com/glorimarket/cart_service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	pricingCfg, err := cfg.PricingConfig()
	if err != nil {
		log.Fatalf("pricing config error: %v", err)
	}

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := cfg.InitDB(initCtx)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	cartService := &service.CartService{
		Repo:    &repo.GormRepo{DB: db},
		Pricing: pricingCfg,
	}

	var producer *events.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = events.NewProducer(strings.Split(cfg.KAFKA_ADDRESS, ","))
		cartService.Producer = producer
	}

	cartHandler := httpserver.NewCartHTTP(cartService, logger)

	httpserver.Register(e, &httpserver.Deps{
		CartHandler: cartHandler,
		JWTSecret:   []byte(cfg.JWT_SECRET),
		Logger:      logger,
	})

	port := cfg.SERVER_PORT
	if port == "" {
		port = "8080"
	}

	go func() {
		log.Printf("Starting cart service on port %s...", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close: %v", err)
		}
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}

	log.Println("Server stopped")
}
