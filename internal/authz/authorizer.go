// Package authz resolves what an actor may see and do.
// Every service read and mutation asks a Resolver rather than checking roles itself.
package authz

import (
	"context"

	"taskscope/internal/models"
)

// Team action constants.
const (
	ActionTeamView     = "team:view"
	ActionTeamUpdate   = "team:update"
	ActionTeamDelete   = "team:delete"
	ActionMemberAdd    = "member:add"
	ActionMemberRemove = "member:remove"
)

// Capabilities is the capability set of an actor on one entity.
type Capabilities struct {
	Read         bool
	Write        bool
	ReportExport bool
}

//go:generate mockgen -destination=mocks/mock_resolver.go -package=mocks taskscope/internal/authz Resolver

// Resolver defines the interface for visibility and capability checks.
type Resolver interface {
	// Resolve computes the actor's scope. An actor without memberships gets an
	// empty scope, not an error.
	Resolve(ctx context.Context, actor models.Actor) (*Scope, error)

	// Capabilities returns the actor's capability set on a *models.Team,
	// *models.Project or *models.Task.
	Capabilities(ctx context.Context, actor models.Actor, entity interface{}) (Capabilities, error)

	CanActOnTeam(ctx context.Context, actor models.Actor, team *models.Team) (bool, error)
	CanActOnProject(ctx context.Context, actor models.Actor, project *models.Project) (bool, error)
	CanActOnTask(ctx context.Context, actor models.Actor, task *models.Task) (bool, error)
}
