package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/adiprasetyo/tokoku/internal/config"
	"github.com/adiprasetyo/tokoku/internal/es"
	"github.com/adiprasetyo/tokoku/internal/handlers"
	"github.com/adiprasetyo/tokoku/internal/logging"
	"github.com/adiprasetyo/tokoku/internal/middleware/loggingmw"
	"github.com/adiprasetyo/tokoku/internal/mykafka"
	"github.com/adiprasetyo/tokoku/internal/service/order"
	"github.com/adiprasetyo/tokoku/internal/service/token"
	httpserver "github.com/adiprasetyo/tokoku/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(configuration.JWT_SECRET, "JWT_SECRET")

	logger := logging.New(configuration.LogLevel)

	db, err := config.InitDB(context.Background(), configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var prod *mykafka.Producer
	if len(configuration.KafkaBrokers) > 0 {
		prod, err = mykafka.NewProducer(configuration.KafkaBrokers)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		logger.Warn("KAFKA_ADDRESS not set, event publishing disabled")
	}

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	tokens := &token.TokenService{JWTSecret: []byte(configuration.JWT_SECRET)}
	orderSvc := &order.OrderService{DB: db}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:             db,
		Tokens:         tokens,
		AuthHandler:    &handlers.AuthHandler{DB: db, Tokens: tokens, Producer: prod},
		UserHandler:    &handlers.UserHandler{DB: db},
		BuyerHandler:   &handlers.BuyerHandler{DB: db},
		ProductHandler: &handlers.ProductHandler{DB: db, Producer: prod, ES: esClient, ESIndex: es.ProductIndex},
		VoucherHandler: &handlers.VoucherHandler{DB: db, Producer: prod},
		RatingHandler:  &handlers.RatingHandler{DB: db, Producer: prod},
		OrderHandler:   &handlers.OrderHandler{Svc: orderSvc, Producer: prod},
		SearchHandler:  &handlers.SearchHandler{ES: esClient, Index: es.ProductIndex},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configuration.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
