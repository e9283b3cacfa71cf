//go:build api

// Package testserver provides a fully wired test server for API integration tests.
package testserver

import (
	"context"
	"time"

	"taskscope/internal/authz"
	"taskscope/internal/cache"
	"taskscope/internal/handler"
	"taskscope/internal/pipeline"
	"taskscope/internal/queue"
	"taskscope/internal/repository"
	"taskscope/internal/router"
	"taskscope/internal/service"
	"taskscope/internal/storage"
	"taskscope/pkg/auth"
	"taskscope/test/api/testdb"

	"github.com/gin-gonic/gin"
)

const (
	// TestAccessTokenSecret is the JWT secret used in tests.
	TestAccessTokenSecret = "test-secret-key-for-api-tests"
	// TestAccessTokenExpiry is the access token expiry time used in tests.
	TestAccessTokenExpiry = 15 * time.Minute
	// TestReportURLExpiry is the presigned report URL lifetime used in tests.
	TestReportURLExpiry = 5 * time.Minute
	// TestDBName is the database name used in tests.
	TestDBName = "test_api"
)

// TestServer holds all dependencies for API integration tests.
type TestServer struct {
	// Router is the Gin engine for making HTTP requests.
	Router *gin.Engine

	// Containers
	MongoDB *testdb.MongoContainer
	Redis   *testdb.RedisContainer
	MinIO   *testdb.MinIOContainer

	// Repositories (for direct database access in tests)
	UserRepo         repository.UserRepository
	TeamRepo         repository.TeamRepository
	ProjectRepo      repository.ProjectRepository
	TaskRepo         repository.TaskRepository
	NotificationRepo repository.NotificationRepository
	HistoryRepo      repository.HistoryRepository

	// Cache is the Redis cache, also the push listener.
	Cache *cache.Redis

	// Auth
	JWTManager *auth.JWTManager

	// Push delivery
	PushQueue     *queue.MemoryQueue
	PushProcessor *queue.Processor
}

// New creates a new test server with all dependencies wired up.
func New(ctx context.Context) (*TestServer, error) {
	gin.SetMode(gin.TestMode)

	// Start containers
	mongoDB, err := testdb.SetupMongoDB(ctx, TestDBName)
	if err != nil {
		return nil, err
	}

	redisContainer, err := testdb.SetupRedis(ctx)
	if err != nil {
		_ = mongoDB.Cleanup(ctx)
		return nil, err
	}

	minioContainer, err := testdb.SetupMinIO(ctx)
	if err != nil {
		_ = mongoDB.Cleanup(ctx)
		_ = redisContainer.Cleanup(ctx)
		return nil, err
	}

	redisCache := cache.NewRedis(redisContainer.URI)

	s3Client := storage.NewS3Client(
		minioContainer.Endpoint,
		minioContainer.AccessKey,
		minioContainer.SecretKey,
		minioContainer.Bucket,
		false, // useSSL
	)

	jwtManager := auth.NewJWTManager(TestAccessTokenSecret, TestAccessTokenExpiry)

	// Repository layer
	userRepo := repository.NewUserRepository(mongoDB.Database)
	teamRepo := repository.NewTeamRepository(mongoDB.Database)
	projectRepo := repository.NewProjectRepository(mongoDB.Database)
	taskRepo := repository.NewTaskRepository(mongoDB.Database)
	notificationRepo := repository.NewNotificationRepository(mongoDB.Database)
	historyRepo := repository.NewHistoryRepository(mongoDB.Database)

	resolver := authz.NewLocalResolver(teamRepo, projectRepo)

	pushQueue := queue.NewMemoryQueue(100)
	pushProcessor := queue.NewProcessor(pushQueue, redisCache, 2)
	effects := pipeline.New(historyRepo, notificationRepo, pushQueue)

	// Service layer
	userService := service.NewUserService(userRepo, redisCache, effects)
	teamService := service.NewTeamService(teamRepo, userRepo, resolver, effects)
	projectService := service.NewProjectService(projectRepo, taskRepo, teamRepo, resolver, effects)
	taskService := service.NewTaskService(taskRepo, projectRepo, resolver, effects)
	notificationService := service.NewNotificationService(notificationRepo)
	historyService := service.NewHistoryService(historyRepo, resolver)
	reportService := service.NewReportService(taskRepo, projectRepo, teamRepo, userService, resolver, s3Client, TestReportURLExpiry)

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

	return &TestServer{
		Router:           r,
		MongoDB:          mongoDB,
		Redis:            redisContainer,
		MinIO:            minioContainer,
		UserRepo:         userRepo,
		TeamRepo:         teamRepo,
		ProjectRepo:      projectRepo,
		TaskRepo:         taskRepo,
		NotificationRepo: notificationRepo,
		HistoryRepo:      historyRepo,
		Cache:            redisCache,
		JWTManager:       jwtManager,
		PushQueue:        pushQueue,
		PushProcessor:    pushProcessor,
	}, nil
}

// Cleanup terminates all containers.
func (ts *TestServer) Cleanup(ctx context.Context) {
	if ts.Cache != nil {
		ts.Cache.Close()
	}
	if ts.MinIO != nil {
		_ = ts.MinIO.Cleanup(ctx)
	}
	if ts.Redis != nil {
		_ = ts.Redis.Cleanup(ctx)
	}
	if ts.MongoDB != nil {
		_ = ts.MongoDB.Cleanup(ctx)
	}
}

// StartPushProcessor starts delivering queued push events to Redis.
func (ts *TestServer) StartPushProcessor(ctx context.Context) {
	ts.PushProcessor.Start(ctx)
}

// StopPushProcessor stops the processor and resets the queue so later tests
// start from an open queue.
func (ts *TestServer) StopPushProcessor() {
	ts.PushProcessor.Stop()
	ts.PushQueue.Reset()
	ts.PushProcessor = queue.NewProcessor(ts.PushQueue, ts.Cache, 2)
}
