package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-gin-ecommerce/config"
	"go-gin-ecommerce/internal/cache"
	"go-gin-ecommerce/internal/database"
	"go-gin-ecommerce/internal/handler"
	"go-gin-ecommerce/internal/notifier"
	"go-gin-ecommerce/internal/queue"
	"go-gin-ecommerce/internal/repository"
	"go-gin-ecommerce/internal/router"
	"go-gin-ecommerce/internal/service"
	"go-gin-ecommerce/internal/worker"
	"go-gin-ecommerce/pkg/logger"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	defer logger.Sync()
	log := logger.WithComponent("server")

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoDB, err := database.InitMongo(ctx, &cfg.Mongo)
	if err != nil {
		log.Fatal("Failed to initialize mongo", zap.Error(err))
	}
	defer mongoDB.Client().Disconnect(context.Background())

	if err := database.RunMigrations(&cfg.Database); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	productRepo := repository.NewProductRepository(mongoDB)
	if err := productRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create product indexes", zap.Error(err))
	}
	cartRepo := repository.NewCartRepository(mongoDB)
	userRepo := repository.NewUserRepository(mongoDB)
	ticketRepo := repository.NewTicketRepository(pool)

	hostname, _ := os.Hostname()
	notificationQueue, err := queue.NewRedisStreamNotificationQueue(ctx, rdb, hostname, nil)
	if err != nil {
		log.Fatal("Failed to initialize notification queue", zap.Error(err))
	}

	notificationWorker := worker.NewNotificationWorker(notifier.NewNotifier(notifier.NewMailer(&cfg.Mail)), notificationQueue)
	if err := notificationWorker.Start(ctx); err != nil {
		log.Fatal("Failed to start notification worker", zap.Error(err))
	}

	productService := service.NewProductService(productRepo, userRepo, cache.NewRedisProductCache(rdb), notificationQueue)
	cartService := service.NewCartService(cartRepo, productService)
	ticketService := service.NewTicketService(ticketRepo, cartService, userRepo, notificationQueue)

	engine := router.New(cfg,
		handler.NewProductHandler(productService),
		handler.NewCartHandler(cartService, ticketService),
		handler.NewTicketHandler(ticketService),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.Handler(cfg, engine),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	select {
	case <-notificationWorker.Done():
	case <-shutdownCtx.Done():
		log.Warn("Notification worker did not stop in time")
	}
}
