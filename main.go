package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gin-gonic/gin"

	"github.com/smart-result/records-service/internal/cache"
	"github.com/smart-result/records-service/internal/config"
	"github.com/smart-result/records-service/internal/events"
	"github.com/smart-result/records-service/internal/handlers"
	"github.com/smart-result/records-service/internal/mail"
	"github.com/smart-result/records-service/internal/repositories/postgres"
	"github.com/smart-result/records-service/internal/services"
	"github.com/smart-result/records-service/internal/utils"
	"github.com/smart-result/records-service/internal/validator"
	"github.com/smart-result/records-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis; sessions live there, so it is not optional
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize event transport: Kafka when brokers are configured,
	// otherwise an in-process channel
	var (
		eventPublisher events.EventPublisher
		subscriber     message.Subscriber
	)
	if len(cfg.KafkaBrokers) > 0 {
		eventPublisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, slogLogger)
		if err != nil {
			log.Fatalf("Failed to create kafka publisher: %v", err)
		}
		subscriber, err = events.NewKafkaSubscriber(cfg.KafkaBrokers, cfg.ConsumerGroup, slogLogger)
		if err != nil {
			log.Fatalf("Failed to create kafka subscriber: %v", err)
		}
	} else {
		pubSub := events.NewChannelPubSub(slogLogger)
		eventPublisher = pubSub.Publisher()
		subscriber = pubSub.Subscriber()
		logger.Info("No kafka brokers configured, using in-process event channel")
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// Initialize services
	serviceManager := services.NewServiceManager(services.ServiceManagerDeps{
		Repo:           repoManager.GetRepository(),
		EventPublisher: eventPublisher,
		Sessions:       cache.NewSessionStore(redisClient, cfg.SessionTTL),
		Cache:          cache.NewCacheManager(redisClient),
		Logger:         slogLogger,
		Validator:      validator.New(),
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Seed the bootstrap admin account
	if err := serviceManager.Identity().EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// Background workers share one cancellable context
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// Notification consumer
	var sender mail.Sender
	if cfg.SendGridAPIKey != "" {
		sender = mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName, slogLogger)
	} else {
		sender = mail.NewConsoleSender(slogLogger)
		logger.Info("No SendGrid key configured, emails go to the log")
	}
	consumer := services.NewNotificationConsumer(subscriber, sender, repoManager.GetRepository(), slogLogger)
	if err := consumer.Start(workerCtx); err != nil {
		log.Fatalf("Failed to start notification consumer: %v", err)
	}

	// Reminder sweep
	reminders := services.NewReminderService(
		repoManager.GetRepository(),
		eventPublisher,
		cache.NewCacheHelper(redisClient, "reminder:"),
		cfg.ReminderInterval,
		slogLogger,
	)
	go reminders.Start(workerCtx)

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	redisClient.Close()

	logger.Info("Server exited")
}
