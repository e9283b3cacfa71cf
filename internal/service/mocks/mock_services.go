// Package mocks provides mock implementations of service interfaces for testing.
package mocks

import (
	"context"

	"taskscope/internal/aggregate"
	"taskscope/internal/models"
	"taskscope/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserService is a mock implementation of UserServicer.
type MockUserService struct {
	GetUserFunc     func(ctx context.Context, id string) (*models.User, error)
	GetUsersFunc    func(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	GetAllUsersFunc func(ctx context.Context) ([]models.User, error)
	UpdateRoleFunc  func(ctx context.Context, actor models.Actor, id string, role string) (*service.Mutation[*models.User], error)
}

func (m *MockUserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserService) GetUsers(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if m.GetUsersFunc != nil {
		return m.GetUsersFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockUserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	if m.GetAllUsersFunc != nil {
		return m.GetAllUsersFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserService) UpdateRole(ctx context.Context, actor models.Actor, id string, role string) (*service.Mutation[*models.User], error) {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, actor, id, role)
	}
	return nil, nil
}

// MockTeamService is a mock implementation of TeamServicer.
type MockTeamService struct {
	CreateTeamFunc   func(ctx context.Context, actor models.Actor, req *models.CreateTeamRequest) (*service.Mutation[*models.Team], error)
	ListTeamsFunc    func(ctx context.Context, actor models.Actor) (*models.TeamListResponse, error)
	GetTeamFunc      func(ctx context.Context, actor models.Actor, teamID primitive.ObjectID) (*models.Team, error)
	UpdateTeamFunc   func(ctx context.Context, actor models.Actor, teamID primitive.ObjectID, req *models.UpdateTeamRequest) (*service.Mutation[*models.Team], error)
	DeleteTeamFunc   func(ctx context.Context, actor models.Actor, teamID primitive.ObjectID) (*service.Mutation[*models.Team], error)
	AddMemberFunc    func(ctx context.Context, actor models.Actor, teamID primitive.ObjectID, req *models.AddMemberRequest) (*service.Mutation[*models.Team], error)
	RemoveMemberFunc func(ctx context.Context, actor models.Actor, teamID, userID primitive.ObjectID) (*service.Mutation[*models.Team], error)
}

func (m *MockTeamService) CreateTeam(ctx context.Context, actor models.Actor, req *models.CreateTeamRequest) (*service.Mutation[*models.Team], error) {
	if m.CreateTeamFunc != nil {
		return m.CreateTeamFunc(ctx, actor, req)
	}
	return nil, nil
}

func (m *MockTeamService) ListTeams(ctx context.Context, actor models.Actor) (*models.TeamListResponse, error) {
	if m.ListTeamsFunc != nil {
		return m.ListTeamsFunc(ctx, actor)
	}
	return nil, nil
}

func (m *MockTeamService) GetTeam(ctx context.Context, actor models.Actor, teamID primitive.ObjectID) (*models.Team, error) {
	if m.GetTeamFunc != nil {
		return m.GetTeamFunc(ctx, actor, teamID)
	}
	return nil, nil
}

func (m *MockTeamService) UpdateTeam(ctx context.Context, actor models.Actor, teamID primitive.ObjectID, req *models.UpdateTeamRequest) (*service.Mutation[*models.Team], error) {
	if m.UpdateTeamFunc != nil {
		return m.UpdateTeamFunc(ctx, actor, teamID, req)
	}
	return nil, nil
}

func (m *MockTeamService) DeleteTeam(ctx context.Context, actor models.Actor, teamID primitive.ObjectID) (*service.Mutation[*models.Team], error) {
	if m.DeleteTeamFunc != nil {
		return m.DeleteTeamFunc(ctx, actor, teamID)
	}
	return nil, nil
}

func (m *MockTeamService) AddMember(ctx context.Context, actor models.Actor, teamID primitive.ObjectID, req *models.AddMemberRequest) (*service.Mutation[*models.Team], error) {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, actor, teamID, req)
	}
	return nil, nil
}

func (m *MockTeamService) RemoveMember(ctx context.Context, actor models.Actor, teamID, userID primitive.ObjectID) (*service.Mutation[*models.Team], error) {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, actor, teamID, userID)
	}
	return nil, nil
}

// MockProjectService is a mock implementation of ProjectServicer.
type MockProjectService struct {
	CreateProjectFunc func(ctx context.Context, actor models.Actor, req *models.CreateProjectRequest) (*service.Mutation[*models.Project], error)
	ListProjectsFunc  func(ctx context.Context, actor models.Actor, status string) (*models.ProjectListResponse, error)
	GetProjectFunc    func(ctx context.Context, actor models.Actor, projectID primitive.ObjectID) (*models.Project, error)
	UpdateProjectFunc func(ctx context.Context, actor models.Actor, projectID primitive.ObjectID, req *models.UpdateProjectRequest) (*service.Mutation[*models.Project], error)
	DeleteProjectFunc func(ctx context.Context, actor models.Actor, projectID primitive.ObjectID) (*service.Mutation[*models.Project], error)
}

func (m *MockProjectService) CreateProject(ctx context.Context, actor models.Actor, req *models.CreateProjectRequest) (*service.Mutation[*models.Project], error) {
	if m.CreateProjectFunc != nil {
		return m.CreateProjectFunc(ctx, actor, req)
	}
	return nil, nil
}

func (m *MockProjectService) ListProjects(ctx context.Context, actor models.Actor, status string) (*models.ProjectListResponse, error) {
	if m.ListProjectsFunc != nil {
		return m.ListProjectsFunc(ctx, actor, status)
	}
	return nil, nil
}

func (m *MockProjectService) GetProject(ctx context.Context, actor models.Actor, projectID primitive.ObjectID) (*models.Project, error) {
	if m.GetProjectFunc != nil {
		return m.GetProjectFunc(ctx, actor, projectID)
	}
	return nil, nil
}

func (m *MockProjectService) UpdateProject(ctx context.Context, actor models.Actor, projectID primitive.ObjectID, req *models.UpdateProjectRequest) (*service.Mutation[*models.Project], error) {
	if m.UpdateProjectFunc != nil {
		return m.UpdateProjectFunc(ctx, actor, projectID, req)
	}
	return nil, nil
}

func (m *MockProjectService) DeleteProject(ctx context.Context, actor models.Actor, projectID primitive.ObjectID) (*service.Mutation[*models.Project], error) {
	if m.DeleteProjectFunc != nil {
		return m.DeleteProjectFunc(ctx, actor, projectID)
	}
	return nil, nil
}

// MockTaskService is a mock implementation of TaskServicer.
type MockTaskService struct {
	CreateTaskFunc    func(ctx context.Context, actor models.Actor, req *models.CreateTaskRequest) (*service.Mutation[*models.TaskView], error)
	ListTasksFunc     func(ctx context.Context, actor models.Actor, q service.TaskQuery) (*models.TaskListResponse, error)
	GetTaskFunc       func(ctx context.Context, actor models.Actor, taskID primitive.ObjectID) (*models.TaskView, error)
	UpdateTaskFunc    func(ctx context.Context, actor models.Actor, taskID primitive.ObjectID, req *models.UpdateTaskRequest) (*service.Mutation[*models.TaskView], error)
	DeleteTaskFunc    func(ctx context.Context, actor models.Actor, taskID primitive.ObjectID) (*service.Mutation[*models.TaskView], error)
	AddSubtaskFunc    func(ctx context.Context, actor models.Actor, taskID primitive.ObjectID, req *models.CreateSubtaskRequest) (*service.Mutation[*models.TaskView], error)
	ToggleSubtaskFunc func(ctx context.Context, actor models.Actor, taskID, subtaskID primitive.ObjectID) (*service.Mutation[*models.TaskView], error)
	AddCommentFunc    func(ctx context.Context, actor models.Actor, taskID primitive.ObjectID, req *models.CreateCommentRequest) (*service.Mutation[*models.TaskView], error)
}

func (m *MockTaskService) CreateTask(ctx context.Context, actor models.Actor, req *models.CreateTaskRequest) (*service.Mutation[*models.TaskView], error) {
	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(ctx, actor, req)
	}
	return nil, nil
}

func (m *MockTaskService) ListTasks(ctx context.Context, actor models.Actor, q service.TaskQuery) (*models.TaskListResponse, error) {
	if m.ListTasksFunc != nil {
		return m.ListTasksFunc(ctx, actor, q)
	}
	return nil, nil
}

func (m *MockTaskService) GetTask(ctx context.Context, actor models.Actor, taskID primitive.ObjectID) (*models.TaskView, error) {
	if m.GetTaskFunc != nil {
		return m.GetTaskFunc(ctx, actor, taskID)
	}
	return nil, nil
}

func (m *MockTaskService) UpdateTask(ctx context.Context, actor models.Actor, taskID primitive.ObjectID, req *models.UpdateTaskRequest) (*service.Mutation[*models.TaskView], error) {
	if m.UpdateTaskFunc != nil {
		return m.UpdateTaskFunc(ctx, actor, taskID, req)
	}
	return nil, nil
}

func (m *MockTaskService) DeleteTask(ctx context.Context, actor models.Actor, taskID primitive.ObjectID) (*service.Mutation[*models.TaskView], error) {
	if m.DeleteTaskFunc != nil {
		return m.DeleteTaskFunc(ctx, actor, taskID)
	}
	return nil, nil
}

func (m *MockTaskService) AddSubtask(ctx context.Context, actor models.Actor, taskID primitive.ObjectID, req *models.CreateSubtaskRequest) (*service.Mutation[*models.TaskView], error) {
	if m.AddSubtaskFunc != nil {
		return m.AddSubtaskFunc(ctx, actor, taskID, req)
	}
	return nil, nil
}

func (m *MockTaskService) ToggleSubtask(ctx context.Context, actor models.Actor, taskID, subtaskID primitive.ObjectID) (*service.Mutation[*models.TaskView], error) {
	if m.ToggleSubtaskFunc != nil {
		return m.ToggleSubtaskFunc(ctx, actor, taskID, subtaskID)
	}
	return nil, nil
}

func (m *MockTaskService) AddComment(ctx context.Context, actor models.Actor, taskID primitive.ObjectID, req *models.CreateCommentRequest) (*service.Mutation[*models.TaskView], error) {
	if m.AddCommentFunc != nil {
		return m.AddCommentFunc(ctx, actor, taskID, req)
	}
	return nil, nil
}

// MockNotificationService is a mock implementation of NotificationServicer.
type MockNotificationService struct {
	ListFunc        func(ctx context.Context, actor models.Actor, unreadOnly bool, page, limit int) (*models.NotificationListResponse, error)
	UnreadCountFunc func(ctx context.Context, actor models.Actor) (int, error)
	MarkReadFunc    func(ctx context.Context, actor models.Actor, id primitive.ObjectID) error
	MarkAllReadFunc func(ctx context.Context, actor models.Actor) (int, error)
	DeleteFunc      func(ctx context.Context, actor models.Actor, id primitive.ObjectID) error
}

func (m *MockNotificationService) List(ctx context.Context, actor models.Actor, unreadOnly bool, page, limit int) (*models.NotificationListResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, actor, unreadOnly, page, limit)
	}
	return nil, nil
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, actor models.Actor) (int, error) {
	if m.UnreadCountFunc != nil {
		return m.UnreadCountFunc(ctx, actor)
	}
	return 0, nil
}

func (m *MockNotificationService) MarkRead(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, actor, id)
	}
	return nil
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, actor models.Actor) (int, error) {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx, actor)
	}
	return 0, nil
}

func (m *MockNotificationService) Delete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, actor, id)
	}
	return nil
}

// MockHistoryService is a mock implementation of HistoryServicer.
type MockHistoryService struct {
	ListFunc func(ctx context.Context, actor models.Actor, q service.HistoryQuery) (*models.HistoryListResponse, error)
}

func (m *MockHistoryService) List(ctx context.Context, actor models.Actor, q service.HistoryQuery) (*models.HistoryListResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, actor, q)
	}
	return nil, nil
}

// MockReportService is a mock implementation of ReportServicer.
type MockReportService struct {
	DashboardFunc      func(ctx context.Context, actor models.Actor) (*aggregate.Result, error)
	ProjectReportFunc  func(ctx context.Context, actor models.Actor, projectID primitive.ObjectID) (*aggregate.Result, error)
	TeamReportFunc     func(ctx context.Context, actor models.Actor, teamID primitive.ObjectID) (*aggregate.Result, error)
	ExportTasksFunc    func(ctx context.Context, actor models.Actor, archive bool) (*service.Export, error)
	ExportProjectsFunc func(ctx context.Context, actor models.Actor, archive bool) (*service.Export, error)
}

func (m *MockReportService) Dashboard(ctx context.Context, actor models.Actor) (*aggregate.Result, error) {
	if m.DashboardFunc != nil {
		return m.DashboardFunc(ctx, actor)
	}
	return nil, nil
}

func (m *MockReportService) ProjectReport(ctx context.Context, actor models.Actor, projectID primitive.ObjectID) (*aggregate.Result, error) {
	if m.ProjectReportFunc != nil {
		return m.ProjectReportFunc(ctx, actor, projectID)
	}
	return nil, nil
}

func (m *MockReportService) TeamReport(ctx context.Context, actor models.Actor, teamID primitive.ObjectID) (*aggregate.Result, error) {
	if m.TeamReportFunc != nil {
		return m.TeamReportFunc(ctx, actor, teamID)
	}
	return nil, nil
}

func (m *MockReportService) ExportTasks(ctx context.Context, actor models.Actor, archive bool) (*service.Export, error) {
	if m.ExportTasksFunc != nil {
		return m.ExportTasksFunc(ctx, actor, archive)
	}
	return nil, nil
}

func (m *MockReportService) ExportProjects(ctx context.Context, actor models.Actor, archive bool) (*service.Export, error) {
	if m.ExportProjectsFunc != nil {
		return m.ExportProjectsFunc(ctx, actor, archive)
	}
	return nil, nil
}

var (
	_ service.UserServicer = (*MockUserService)(nil)
	_ service.TeamServicer = (*MockTeamService)(nil)
	_ service.ProjectServicer = (*MockProjectService)(nil)
	_ service.TaskServicer = (*MockTaskService)(nil)
	_ service.NotificationServicer = (*MockNotificationService)(nil)
	_ service.HistoryServicer = (*MockHistoryService)(nil)
	_ service.ReportServicer = (*MockReportService)(nil)
)
