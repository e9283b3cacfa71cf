package authz

import (
	"context"

	"taskscope/internal/models"
	"taskscope/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamFinder is the interface required by LocalResolver to look up memberships.
type TeamFinder interface {
	FindByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Team, error)
}

// ProjectFinder is the interface required by LocalResolver to look up projects.
type ProjectFinder interface {
	Find(ctx context.Context, filter repository.ProjectFilter) ([]models.Project, error)
}

// LocalResolver implements Resolver using database lookups.
type LocalResolver struct {
	teams    TeamFinder
	projects ProjectFinder
}

// NewLocalResolver creates a new LocalResolver.
func NewLocalResolver(teams TeamFinder, projects ProjectFinder) *LocalResolver {
	return &LocalResolver{
		teams:    teams,
		projects: projects,
	}
}

// Resolve computes the actor's scope.
func (r *LocalResolver) Resolve(ctx context.Context, actor models.Actor) (*Scope, error) {
	actor = models.NewActor(actor.ID, actor.Role)
	if actor.IsSuperAdmin() {
		return UnboundedScope(actor), nil
	}

	teams, err := r.teams.FindByMember(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	teamIDs := make([]primitive.ObjectID, 0, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, t.ID)
	}

	// Created projects are included so a missing or stale team link does not
	// hide a project from its creator.
	creator := actor.ID
	projects, err := r.projects.Find(ctx, repository.ProjectFilter{
		TeamIDs:   teamIDs,
		CreatedBy: &creator,
	})
	if err != nil {
		return nil, err
	}

	projectIDs := make([]primitive.ObjectID, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}

	return NewScope(actor, teamIDs, projectIDs), nil
}

// Capabilities returns the actor's capability set on an entity.
func (r *LocalResolver) Capabilities(ctx context.Context, actor models.Actor, entity interface{}) (Capabilities, error) {
	scope, err := r.Resolve(ctx, actor)
	if err != nil {
		return Capabilities{}, err
	}
	return scope.CapabilitiesFor(entity)
}

// CanActOnTeam reports whether the actor may modify the team.
func (r *LocalResolver) CanActOnTeam(ctx context.Context, actor models.Actor, team *models.Team) (bool, error) {
	caps, err := r.Capabilities(ctx, actor, team)
	return caps.Write, err
}

// CanActOnProject reports whether the actor may modify the project.
func (r *LocalResolver) CanActOnProject(ctx context.Context, actor models.Actor, project *models.Project) (bool, error) {
	caps, err := r.Capabilities(ctx, actor, project)
	return caps.Write, err
}

// CanActOnTask reports whether the actor may modify the task.
func (r *LocalResolver) CanActOnTask(ctx context.Context, actor models.Actor, task *models.Task) (bool, error) {
	caps, err := r.Capabilities(ctx, actor, task)
	return caps.Write, err
}
