package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/team0101/shoes-shop/internal/config"
	"github.com/team0101/shoes-shop/internal/es"
	"github.com/team0101/shoes-shop/internal/handlers"
	"github.com/team0101/shoes-shop/internal/logging"
	"github.com/team0101/shoes-shop/internal/mykafka"
	"github.com/team0101/shoes-shop/internal/purchase"
	"github.com/team0101/shoes-shop/internal/repo"
	"github.com/team0101/shoes-shop/internal/service"
	httpserver "github.com/team0101/shoes-shop/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	gormRepo := repo.NewGormRepo(db)
	purchaseSvc := &service.PurchaseService{
		Repo:     gormRepo,
		Engine:   purchase.Engine{},
		Producer: prod,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		DB:              db,
		Logger:          logger,
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		ProductHandler:  &handlers.ProductHandler{Repo: gormRepo, Producer: prod, ES: esClient, Index: "product"},
		PurchaseHandler: &handlers.PurchaseHandler{Svc: purchaseSvc},
		CatalogHandler:  &handlers.CatalogHandler{DB: db},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: "product"},
		TokenService:    &service.TokenService{DB: db, RefreshSecret: refreshSecret, JWTSecret: jwtSecret},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
