// Package service contains business logic for the application.
package service

import (
	"context"

	"taskscope/internal/aggregate"
	"taskscope/internal/models"
	"taskscope/internal/pipeline"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SideEffects runs the post-commit pipeline for a mutation.
type SideEffects interface {
	Run(ctx context.Context, m pipeline.Mutation) *pipeline.Outcome
}

// UserServicer defines the interface for user operations.
type UserServicer interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUsers(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, actor models.Actor, id string, role string) (*Mutation[*models.User], error)
}

// TeamServicer defines the interface for team operations.
type TeamServicer interface {
	CreateTeam(ctx context.Context, actor models.Actor, req *models.CreateTeamRequest) (*Mutation[*models.Team], error)
	ListTeams(ctx context.Context, actor models.Actor) (*models.TeamListResponse, error)
	GetTeam(ctx context.Context, actor models.Actor, teamID primitive.ObjectID) (*models.Team, error)
	UpdateTeam(ctx context.Context, actor models.Actor, teamID primitive.ObjectID, req *models.UpdateTeamRequest) (*Mutation[*models.Team], error)
	DeleteTeam(ctx context.Context, actor models.Actor, teamID primitive.ObjectID) (*Mutation[*models.Team], error)
	AddMember(ctx context.Context, actor models.Actor, teamID primitive.ObjectID, req *models.AddMemberRequest) (*Mutation[*models.Team], error)
	RemoveMember(ctx context.Context, actor models.Actor, teamID, userID primitive.ObjectID) (*Mutation[*models.Team], error)
}

// ProjectServicer defines the interface for project operations.
type ProjectServicer interface {
	CreateProject(ctx context.Context, actor models.Actor, req *models.CreateProjectRequest) (*Mutation[*models.Project], error)
	ListProjects(ctx context.Context, actor models.Actor, status string) (*models.ProjectListResponse, error)
	GetProject(ctx context.Context, actor models.Actor, projectID primitive.ObjectID) (*models.Project, error)
	UpdateProject(ctx context.Context, actor models.Actor, projectID primitive.ObjectID, req *models.UpdateProjectRequest) (*Mutation[*models.Project], error)
	DeleteProject(ctx context.Context, actor models.Actor, projectID primitive.ObjectID) (*Mutation[*models.Project], error)
}

// TaskServicer defines the interface for task operations.
type TaskServicer interface {
	CreateTask(ctx context.Context, actor models.Actor, req *models.CreateTaskRequest) (*Mutation[*models.TaskView], error)
	ListTasks(ctx context.Context, actor models.Actor, q TaskQuery) (*models.TaskListResponse, error)
	GetTask(ctx context.Context, actor models.Actor, taskID primitive.ObjectID) (*models.TaskView, error)
	UpdateTask(ctx context.Context, actor models.Actor, taskID primitive.ObjectID, req *models.UpdateTaskRequest) (*Mutation[*models.TaskView], error)
	DeleteTask(ctx context.Context, actor models.Actor, taskID primitive.ObjectID) (*Mutation[*models.TaskView], error)
	AddSubtask(ctx context.Context, actor models.Actor, taskID primitive.ObjectID, req *models.CreateSubtaskRequest) (*Mutation[*models.TaskView], error)
	ToggleSubtask(ctx context.Context, actor models.Actor, taskID, subtaskID primitive.ObjectID) (*Mutation[*models.TaskView], error)
	AddComment(ctx context.Context, actor models.Actor, taskID primitive.ObjectID, req *models.CreateCommentRequest) (*Mutation[*models.TaskView], error)
}

// NotificationServicer defines the interface for a recipient's notifications.
type NotificationServicer interface {
	List(ctx context.Context, actor models.Actor, unreadOnly bool, page, limit int) (*models.NotificationListResponse, error)
	UnreadCount(ctx context.Context, actor models.Actor) (int, error)
	MarkRead(ctx context.Context, actor models.Actor, id primitive.ObjectID) error
	MarkAllRead(ctx context.Context, actor models.Actor) (int, error)
	Delete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error
}

// HistoryServicer defines the interface for audit history reads.
type HistoryServicer interface {
	List(ctx context.Context, actor models.Actor, q HistoryQuery) (*models.HistoryListResponse, error)
}

// ReportServicer defines the interface for statistics and exports.
type ReportServicer interface {
	Dashboard(ctx context.Context, actor models.Actor) (*aggregate.Result, error)
	ProjectReport(ctx context.Context, actor models.Actor, projectID primitive.ObjectID) (*aggregate.Result, error)
	TeamReport(ctx context.Context, actor models.Actor, teamID primitive.ObjectID) (*aggregate.Result, error)
	ExportTasks(ctx context.Context, actor models.Actor, archive bool) (*Export, error)
	ExportProjects(ctx context.Context, actor models.Actor, archive bool) (*Export, error)
}

// Ensure concrete types implement interfaces
var (
	_ UserServicer         = (*UserService)(nil)
	_ TeamServicer         = (*TeamService)(nil)
	_ ProjectServicer      = (*ProjectService)(nil)
	_ TaskServicer         = (*TaskService)(nil)
	_ NotificationServicer = (*NotificationService)(nil)
	_ HistoryServicer      = (*HistoryService)(nil)
	_ ReportServicer       = (*ReportService)(nil)
	_ SideEffects          = (*pipeline.Pipeline)(nil)
)
