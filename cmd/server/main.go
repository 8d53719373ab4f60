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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loopmarket/service-rental/internal/application"
	"github.com/loopmarket/service-rental/internal/config"
	"github.com/loopmarket/service-rental/internal/events"
	"github.com/loopmarket/service-rental/internal/handler"
	"github.com/loopmarket/service-rental/internal/platform/database"
	"github.com/loopmarket/service-rental/internal/platform/logger"
	"github.com/loopmarket/service-rental/internal/platform/middleware"
	"github.com/loopmarket/service-rental/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.NewNamed(cfg.AppEnv, "service-rental")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	db, err := database.Connect(cfg.DBConfig, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	if cfg.AppEnv != "production" {
		if err := db.AutoMigrate(
			&repository.UserModel{},
			&repository.ItemModel{},
			&repository.BookingModel{},
		); err != nil {
			zlog.Fatal("failed to migrate schema", zap.Error(err))
		}
	}

	var publisher application.EventPublisher = application.NopPublisher{}
	if len(cfg.KafkaConfig.Brokers) > 0 {
		producer := events.NewProducer(cfg.KafkaConfig.Brokers, cfg.KafkaConfig.Topic, zlog)
		defer producer.Close() //nolint:errcheck
		publisher = producer
		zlog.Info("kafka producer enabled",
			zap.Strings("brokers", cfg.KafkaConfig.Brokers),
			zap.String("topic", cfg.KafkaConfig.Topic),
		)
	} else {
		zlog.Info("kafka brokers not configured, event publishing disabled")
	}

	userRepo := repository.NewGormUserRepository(db)
	itemRepo := repository.NewGormItemRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)

	bookingService := application.NewBookingService(bookingRepo, itemRepo, userRepo, publisher, zlog)
	itemService := application.NewItemService(itemRepo, userRepo, bookingService, zlog)
	userService := application.NewUserService(userRepo, zlog)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(zlog),
		middleware.Recovery(zlog),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	root := router.Group("")
	handler.NewBookingHandler(bookingService, zlog).RegisterRoutes(root)
	handler.NewItemHandler(itemService, zlog).RegisterRoutes(root)
	handler.NewUserHandler(userService, zlog).RegisterRoutes(root)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("server listening", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
	zlog.Info("server stopped")
}
