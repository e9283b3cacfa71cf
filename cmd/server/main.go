package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskscope/internal/authz"
	"taskscope/internal/cache"
	"taskscope/internal/config"
	"taskscope/internal/database"
	"taskscope/internal/handler"
	"taskscope/internal/pipeline"
	"taskscope/internal/queue"
	"taskscope/internal/repository"
	"taskscope/internal/router"
	"taskscope/internal/service"
	"taskscope/internal/storage"
	"taskscope/internal/validator"
	"taskscope/pkg/auth"

	"github.com/gin-gonic/gin"
)

//go:generate swag init -g cmd/server/main.go -o swagger -d ../..

// @title           Taskscope API
// @version         1.0
// @description     Role-scoped task, project and team tracking with statistics and report exports.

// @contact.name    API Support
// @contact.email   support@example.com

// @host            localhost:8080
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your bearer token in the format: Bearer {token}

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("Configuration loaded")

	// Register custom validators
	validator.RegisterCustomValidators()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Database
	mongoDB := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	defer mongoDB.Close()

	// Redis cache and push fan-out
	redisCache := cache.NewRedis(cfg.RedisURI)
	defer redisCache.Close()

	// S3 report archive
	s3Client := storage.NewS3Client(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL)

	// JWT Manager
	jwtManager := auth.NewJWTManager(cfg.AccessTokenSecret, cfg.AccessTokenExpiry)

	// Repository layer
	userRepo := repository.NewUserRepository(mongoDB.Database)
	teamRepo := repository.NewTeamRepository(mongoDB.Database)
	projectRepo := repository.NewProjectRepository(mongoDB.Database)
	taskRepo := repository.NewTaskRepository(mongoDB.Database)
	notificationRepo := repository.NewNotificationRepository(mongoDB.Database)
	historyRepo := repository.NewHistoryRepository(mongoDB.Database)

	// Visibility
	resolver := authz.NewLocalResolver(teamRepo, projectRepo)

	// Push queue and processor
	pushQueue := queue.NewMemoryQueue(cfg.PushQueueCapacity)
	pushProcessor := queue.NewProcessor(pushQueue, redisCache, cfg.PushWorkers)

	// Mutation side effects
	effects := pipeline.New(historyRepo, notificationRepo, pushQueue)

	// Service layer
	userService := service.NewUserService(userRepo, redisCache, effects)
	teamService := service.NewTeamService(teamRepo, userRepo, resolver, effects)
	projectService := service.NewProjectService(projectRepo, taskRepo, teamRepo, resolver, effects)
	taskService := service.NewTaskService(taskRepo, projectRepo, resolver, effects)
	notificationService := service.NewNotificationService(notificationRepo)
	historyService := service.NewHistoryService(historyRepo, resolver)
	reportService := service.NewReportService(taskRepo, projectRepo, teamRepo, userService, resolver, s3Client, cfg.ReportURLExpiry)

	// Router
	r := router.Setup(&router.Config{
		UserHandler:         handler.NewUserHandler(userService),
		TeamHandler:         handler.NewTeamHandler(teamService),
		ProjectHandler:      handler.NewProjectHandler(projectService),
		TaskHandler:         handler.NewTaskHandler(taskService),
		NotificationHandler: handler.NewNotificationHandler(notificationService, redisCache),
		HistoryHandler:      handler.NewHistoryHandler(historyService),
		ReportHandler:       handler.NewReportHandler(reportService),
		Tokens:              jwtManager,
		Resolver:            resolver,
	})

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start push processor
	pushProcessor.Start(ctx)

	// Create HTTP server for graceful shutdown support
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server first (drain connections)
	log.Println("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Cancel context to signal processor shutdown
	cancel()

	// Stop push processor (waits for workers)
	log.Println("Stopping push processor...")
	pushProcessor.Stop()

	log.Println("Server shutdown complete")
}
