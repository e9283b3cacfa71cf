// Package router sets up HTTP routes for the API.
package router

import (
	"net/http"

	_ "taskscope/swagger" // Import generated swagger docs

	"taskscope/internal/authz"
	"taskscope/internal/handler"
	"taskscope/internal/middleware"
	"taskscope/pkg/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Config holds all dependencies needed to set up routes.
type Config struct {
	UserHandler         *handler.UserHandler
	TeamHandler         *handler.TeamHandler
	ProjectHandler      *handler.ProjectHandler
	TaskHandler         *handler.TaskHandler
	NotificationHandler *handler.NotificationHandler
	HistoryHandler      *handler.HistoryHandler
	ReportHandler       *handler.ReportHandler
	Tokens              auth.TokenManager
	Resolver            authz.Resolver
}

// Setup creates and configures the Gin router.
func Setup(cfg *Config) *gin.Engine {
	r := gin.Default()

	// Global middleware
	r.Use(middleware.CORS())

	// Swagger docs at /docs
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1, every route authenticated
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.Tokens))
	{
		users := v1.Group("/users")
		{
			users.GET("", cfg.UserHandler.GetAllUsers)
			users.GET("/me", cfg.UserHandler.Me)
			users.GET("/:id", cfg.UserHandler.GetUser)
			users.PUT("/:id/role", cfg.UserHandler.UpdateRole)
		}

		teams := v1.Group("/teams")
		{
			teams.POST("", cfg.TeamHandler.CreateTeam)
			teams.GET("", cfg.TeamHandler.ListTeams)

			// Routes on one team; teams outside the caller's scope are 404
			teamWithID := teams.Group("/:teamId")
			teamWithID.Use(middleware.TeamScope(cfg.Resolver))
			{
				teamWithID.GET("", cfg.TeamHandler.GetTeam)
				teamWithID.PUT("", cfg.TeamHandler.UpdateTeam)
				teamWithID.DELETE("", cfg.TeamHandler.DeleteTeam)
				teamWithID.POST("/members", cfg.TeamHandler.AddMember)
				teamWithID.DELETE("/members/:userId", cfg.TeamHandler.RemoveMember)
				teamWithID.GET("/statistics", cfg.ReportHandler.TeamReport)
			}
		}

		projects := v1.Group("/projects")
		{
			projects.POST("", cfg.ProjectHandler.CreateProject)
			projects.GET("", cfg.ProjectHandler.ListProjects)
			projects.GET("/:projectId", cfg.ProjectHandler.GetProject)
			projects.PUT("/:projectId", cfg.ProjectHandler.UpdateProject)
			projects.DELETE("/:projectId", cfg.ProjectHandler.DeleteProject)
		}

		tasks := v1.Group("/tasks")
		{
			tasks.POST("", cfg.TaskHandler.CreateTask)
			tasks.GET("", cfg.TaskHandler.ListTasks)
			tasks.GET("/:taskId", cfg.TaskHandler.GetTask)
			tasks.PUT("/:taskId", cfg.TaskHandler.UpdateTask)
			tasks.DELETE("/:taskId", cfg.TaskHandler.DeleteTask)
			tasks.POST("/:taskId/subtasks", cfg.TaskHandler.AddSubtask)
			tasks.PUT("/:taskId/subtasks/:subtaskId/toggle", cfg.TaskHandler.ToggleSubtask)
			tasks.POST("/:taskId/comments", cfg.TaskHandler.AddComment)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", cfg.NotificationHandler.List)
			notifications.GET("/unread-count", cfg.NotificationHandler.UnreadCount)
			notifications.GET("/stream", cfg.NotificationHandler.Stream)
			notifications.PUT("/read-all", cfg.NotificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", cfg.NotificationHandler.MarkRead)
			notifications.DELETE("/:id", cfg.NotificationHandler.Delete)
		}

		v1.GET("/history", cfg.HistoryHandler.List)

		statistics := v1.Group("/statistics")
		{
			statistics.GET("/dashboard", cfg.ReportHandler.Dashboard)
			statistics.GET("/projects/:projectId", cfg.ReportHandler.ProjectReport)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/tasks", cfg.ReportHandler.ExportTasks)
			reports.GET("/projects", cfg.ReportHandler.ExportProjects)
		}
	}

	return r
}
