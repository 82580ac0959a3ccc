package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	bleveServices "github.com/muhammedanshif/rentEase/bleve/services"
	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/internal/bootstrap"
	payment_services "github.com/muhammedanshif/rentEase/payments/services"
	"github.com/muhammedanshif/rentEase/server"
	"github.com/muhammedanshif/rentEase/tasks"
	"github.com/muhammedanshif/rentEase/token"
	"github.com/muhammedanshif/rentEase/utils"
	"github.com/muhammedanshif/rentEase/websocket"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	// Initialize Zap logger
	config.InitLogger()
	defer config.Logger.Sync()

	// Load environment variables
	config.LoadEnv()

	if err := utils.InitializeDateLocation(config.GetEnvDefault("APP_TIMEZONE", "Asia/Kolkata")); err != nil {
		config.Logger.Fatal("Failed to initialize date location", zap.Error(err))
	}

	// Initialize database and configs
	db := config.ConfigureDatabase()
	if err := config.SeedInitialData(db); err != nil {
		config.Logger.Fatal("Database seeding failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := config.InitRedisServer(ctx)
	defer redisClient.Close()

	// asynq keeps its own redis connections.
	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     config.GetEnvDefault("REDIS_ADDRESS", "localhost:6379"),
		Password: config.GetEnv("REDIS_PASSWORD"),
		DB:       0,
	}
	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	tokenMaker, err := token.NewPasetoMaker(config.GetEnv("TOKEN_SYMMETRIC_KEY"))
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	indexPath := config.GetEnv("BLEVE_INDEX_PATH")
	if indexPath == "" {
		indexPath = "./bleve_data"
		config.Logger.Warn("BLEVE_INDEX_PATH not set, using default: ./bleve_data")
	}
	indexer := bleveServices.NewIndexingService(config.Logger, indexPath)
	defer indexer.Close()

	uploadDir := config.GetEnvDefault("UPLOAD_DIR", "./uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		config.Logger.Fatal("Cannot create upload directory", zap.String("dir", uploadDir), zap.Error(err))
	}

	utils.InitializeMailer()

	wsHub := websocket.NewHub()
	go wsHub.Run()
	defer wsHub.Stop()

	srv := server.NewApp(server.Deps{
		DB:            db,
		RedisClient:   redisClient,
		TokenMaker:    tokenMaker,
		TokenDuration: config.GetEnvDuration("TOKEN_DURATION", 24*time.Hour),
		Storage:       utils.NewLocalFileStorage(uploadDir),
		Indexer:       indexer,
		Hub:           wsHub,
		Queue:         asynqClient,
		Gateway: payment_services.NewGateway(
			config.GetEnv("MIDTRANS_SERVER_KEY"),
			config.GetEnvBool("MIDTRANS_PRODUCTION", false),
		),
		RentDueDay: config.GetEnvInt("RENT_DUE_DAY", 6),
	})

	// Re-Index all tenants
	if err := bootstrap.IndexBleveData(srv.TenantRepo, srv.BleveRepo); err != nil {
		config.Logger.Warn("Tenant search starts with an incomplete index", zap.Error(err))
	}

	// ------ Background workers ------
	handlers := &tasks.TaskHandlers{DB: db, Generator: srv.Generator}
	if utils.MailerConfigured() {
		handlers.Mail = utils.SendEmail
	}
	mux := asynq.NewServeMux()
	handlers.Register(mux)

	worker := asynq.NewServer(asynqRedisOpt, asynq.Config{
		Concurrency: config.GetEnvInt("WORKER_CONCURRENCY", 5),
		Queues:      map[string]int{"default": 1},
		Logger:      config.Logger.Sugar(),
	})
	if err := worker.Start(mux); err != nil {
		config.Logger.Fatal("Failed to start task worker", zap.Error(err))
	}
	defer worker.Shutdown()

	if config.GetEnvBool("AUTO_RENT_GENERATION", true) {
		scheduler, err := tasks.StartScheduler(asynqClient)
		if err != nil {
			config.Logger.Fatal("Failed to start rent scheduler", zap.Error(err))
		}
		defer scheduler.Stop()
	}

	go func() {
		<-ctx.Done()
		config.Logger.Info("Shutting down server")
		if err := srv.App.ShutdownWithTimeout(10 * time.Second); err != nil {
			config.Logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	port := config.GetEnvDefault("PORT", "8080")
	config.Logger.Info("Server starting with WebSocket support", zap.String("port", port))
	if err := srv.App.Listen(":" + port); err != nil {
		config.Logger.Error("Server failed", zap.String("port", port), zap.Error(err))
	}
}
