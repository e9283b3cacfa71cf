package service

import (
	"context"

	"taskscope/internal/authz"
	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"
	"taskscope/internal/pipeline"
	"taskscope/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectService handles business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	teamRepo    repository.TeamRepository
	resolver    authz.Resolver
	effects     SideEffects
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	teamRepo repository.TeamRepository,
	resolver authz.Resolver,
	effects SideEffects,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		teamRepo:    teamRepo,
		resolver:    resolver,
		effects:     effects,
	}
}

// CreateProject creates a project linked to one or more of the actor's teams.
func (s *ProjectService) CreateProject(ctx context.Context, actor models.Actor, req *models.CreateProjectRequest) (*Mutation[*models.Project], error) {
	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	teams, err := s.linkedTeams(ctx, scope, req.Teams)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		Teams:       teamIDs(teams),
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   actor.ID,
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusPlanning
	}
	if project.Priority == "" {
		project.Priority = models.PriorityMedium
	}
	if err := validateProject(project); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	out := s.effects.Run(ctx, pipeline.Mutation{
		Kind:    pipeline.ProjectCreated,
		Actor:   actor,
		Project: project,
		Teams:   teams,
	})
	return committed(project, out), nil
}

// ListProjects returns the projects in the actor's scope, optionally by status.
func (s *ProjectService) ListProjects(ctx context.Context, actor models.Actor, status string) (*models.ProjectListResponse, error) {
	if status != "" && !models.IsValidProjectStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	filter := scope.ProjectFilter()
	filter.Status = status
	projects, err := s.projectRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &models.ProjectListResponse{Items: projects}, nil
}

// GetProject retrieves a visible project.
func (s *ProjectService) GetProject(ctx context.Context, actor models.Actor, projectID primitive.ObjectID) (*models.Project, error) {
	project, _, err := s.visibleProject(ctx, actor, projectID)
	return project, err
}

// UpdateProject applies the provided fields.
func (s *ProjectService) UpdateProject(ctx context.Context, actor models.Actor, projectID primitive.ObjectID, req *models.UpdateProjectRequest) (*Mutation[*models.Project], error) {
	project, scope, err := s.visibleProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	var changes []string
	if req.Name != nil && *req.Name != project.Name {
		project.Name = *req.Name
		changes = append(changes, "name")
	}
	if req.Description != nil && *req.Description != project.Description {
		project.Description = *req.Description
		changes = append(changes, "description")
	}
	if req.Teams != nil {
		teams, err := s.linkedTeams(ctx, scope, req.Teams)
		if err != nil {
			return nil, err
		}
		// Setting teams explicitly retires the legacy single-team field.
		project.Team = nil
		project.Teams = teamIDs(teams)
		changes = append(changes, "teams")
	}
	if req.Status != nil && *req.Status != project.Status {
		project.Status = *req.Status
		changes = append(changes, "status")
	}
	if req.Priority != nil && *req.Priority != project.Priority {
		project.Priority = *req.Priority
		changes = append(changes, "priority")
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
		changes = append(changes, "startDate")
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
		changes = append(changes, "endDate")
	}
	if err := validateProject(project); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	out := s.effects.Run(ctx, pipeline.Mutation{
		Kind:    pipeline.ProjectUpdated,
		Actor:   actor,
		Project: project,
		Details: map[string]interface{}{"changes": changes},
	})
	return committed(project, out), nil
}

// DeleteProject removes a project and its tasks.
func (s *ProjectService) DeleteProject(ctx context.Context, actor models.Actor, projectID primitive.ObjectID) (*Mutation[*models.Project], error) {
	project, _, err := s.visibleProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.taskRepo.DeleteByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return nil, err
	}

	out := s.effects.Run(ctx, pipeline.Mutation{
		Kind:    pipeline.ProjectDeleted,
		Actor:   actor,
		Project: project,
		Details: map[string]interface{}{"deletedTasks": deleted},
	})
	return committed(project, out), nil
}

// visibleProject loads a project the actor can act on. Projects outside the
// scope are reported as not found.
func (s *ProjectService) visibleProject(ctx context.Context, actor models.Actor, projectID primitive.ObjectID) (*models.Project, *authz.Scope, error) {
	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	caps, err := scope.CapabilitiesFor(project)
	if err != nil {
		return nil, nil, err
	}
	if !caps.Read {
		return nil, nil, apperrors.ErrProjectNotFound
	}

	return project, scope, nil
}

// linkedTeams loads the requested teams, all of which must be in scope.
func (s *ProjectService) linkedTeams(ctx context.Context, scope *authz.Scope, hexes []string) ([]models.Team, error) {
	ids, err := parseIDs(hexes)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, apperrors.ErrProjectTeamsEmpty
	}
	for _, id := range ids {
		if !scope.HasTeam(id) {
			return nil, apperrors.ErrTeamNotFound
		}
	}

	teams, err := s.teamRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(teams) != len(ids) {
		return nil, apperrors.ErrTeamNotFound
	}
	return teams, nil
}

func validateProject(p *models.Project) error {
	if !models.IsValidProjectStatus(p.Status) {
		return apperrors.ErrInvalidStatus
	}
	if !models.IsValidPriority(p.Priority) {
		return apperrors.ErrInvalidPriority
	}
	return nil
}

func teamIDs(teams []models.Team) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	return ids
}
