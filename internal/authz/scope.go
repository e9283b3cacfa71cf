package authz

import (
	"fmt"

	"taskscope/internal/models"
	"taskscope/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Scope is the set of teams and projects an actor may read or act upon.
// When Unbounded is set the id sets are empty and everything is in scope.
type Scope struct {
	Actor      models.Actor
	Unbounded  bool
	TeamIDs    []primitive.ObjectID
	ProjectIDs []primitive.ObjectID

	teams    map[primitive.ObjectID]bool
	projects map[primitive.ObjectID]bool
}

// NewScope builds a bounded scope. Project ids keep their given order.
func NewScope(actor models.Actor, teamIDs, projectIDs []primitive.ObjectID) *Scope {
	s := &Scope{
		Actor:      actor,
		TeamIDs:    dedupe(teamIDs),
		ProjectIDs: dedupe(projectIDs),
	}
	s.teams = toSet(s.TeamIDs)
	s.projects = toSet(s.ProjectIDs)
	return s
}

// UnboundedScope is the scope of a superadmin.
func UnboundedScope(actor models.Actor) *Scope {
	return &Scope{
		Actor:      actor,
		Unbounded:  true,
		TeamIDs:    []primitive.ObjectID{},
		ProjectIDs: []primitive.ObjectID{},
		teams:      map[primitive.ObjectID]bool{},
		projects:   map[primitive.ObjectID]bool{},
	}
}

// IsEmpty reports whether a bounded scope has nothing in it.
func (s *Scope) IsEmpty() bool {
	return !s.Unbounded && len(s.TeamIDs) == 0 && len(s.ProjectIDs) == 0
}

// HasTeam reports whether the team is in scope.
func (s *Scope) HasTeam(id primitive.ObjectID) bool {
	return s.Unbounded || s.teams[id]
}

// HasProject reports whether the project id is in scope.
func (s *Scope) HasProject(id primitive.ObjectID) bool {
	return s.Unbounded || s.projects[id]
}

// Covers reports whether the project is visible: listed in scope, linked to a
// scoped team through either team field, or created by the actor.
func (s *Scope) Covers(p *models.Project) bool {
	if s.Unbounded || s.projects[p.ID] {
		return true
	}
	return p.BelongsToAny(s.teams) || p.CreatedBy == s.Actor.ID
}

// ReportOwner returns the user whose tasks export and statistics reads are limited
// to, or nil when the scope is unbounded. Task CRUD never applies this narrowing.
func (s *Scope) ReportOwner() *primitive.ObjectID {
	if s.Unbounded {
		return nil
	}
	id := s.Actor.ID
	return &id
}

// TaskFilter returns the task filter for CRUD reads: team membership based.
func (s *Scope) TaskFilter() repository.TaskFilter {
	return repository.TaskFilter{
		AllProjects: s.Unbounded,
		ProjectIDs:  s.ProjectIDs,
	}
}

// ReportTaskFilter returns the task filter for export and statistics reads,
// additionally limited to tasks assigned to or created by the actor.
func (s *Scope) ReportTaskFilter() repository.TaskFilter {
	f := s.TaskFilter()
	f.InvolvedUser = s.ReportOwner()
	return f
}

// ProjectFilter returns the project filter for this scope.
func (s *Scope) ProjectFilter() repository.ProjectFilter {
	return repository.ProjectFilter{
		All: s.Unbounded,
		IDs: s.ProjectIDs,
	}
}

// HistoryFilter returns the history filter for this scope. Besides records about
// scoped projects and teams, an actor always sees their own actions.
func (s *Scope) HistoryFilter() repository.HistoryFilter {
	f := repository.HistoryFilter{
		All:        s.Unbounded,
		ProjectIDs: s.ProjectIDs,
		TeamIDs:    s.TeamIDs,
	}
	if !s.Unbounded {
		id := s.Actor.ID
		f.Actor = &id
	}
	return f
}

// CapabilitiesFor computes the actor's capabilities on an entity within this scope.
func (s *Scope) CapabilitiesFor(entity interface{}) (Capabilities, error) {
	if s.Actor.IsSuperAdmin() {
		return Capabilities{Read: true, Write: true, ReportExport: true}, nil
	}

	switch e := entity.(type) {
	case *models.Team:
		read := s.HasTeam(e.ID) || e.HasMember(s.Actor.ID)
		return Capabilities{
			Read:         read,
			Write:        read && s.CanPerform(e, ActionTeamUpdate),
			ReportExport: read,
		}, nil
	case *models.Project:
		visible := s.Covers(e)
		return Capabilities{Read: visible, Write: visible, ReportExport: visible}, nil
	case *models.Task:
		visible := s.HasProject(e.Project)
		mine := e.CreatedBy == s.Actor.ID || e.IsAssigned(s.Actor.ID)
		return Capabilities{Read: visible, Write: visible, ReportExport: visible && mine}, nil
	default:
		return Capabilities{}, fmt.Errorf("authz: unsupported entity type %T", entity)
	}
}

// teamRolePermissions maps team actions to the team roles that can perform them.
var teamRolePermissions = map[string][]string{
	ActionTeamView:     {models.TeamRoleAdmin, models.TeamRoleMember},
	ActionTeamUpdate:   {models.TeamRoleAdmin},
	ActionTeamDelete:   {models.TeamRoleAdmin},
	ActionMemberAdd:    {models.TeamRoleAdmin},
	ActionMemberRemove: {models.TeamRoleAdmin},
}

// CanPerform checks if the actor can perform a team action. Superadmins can do
// anything; the team creator acts as a team admin.
func (s *Scope) CanPerform(team *models.Team, action string) bool {
	if s.Actor.IsSuperAdmin() {
		return true
	}

	role := TeamRole(team, s.Actor.ID)
	if role == "" {
		return false
	}

	for _, allowed := range teamRolePermissions[action] {
		if role == allowed {
			return true
		}
	}
	return false
}

// TeamRole returns the user's role in a team, or empty string if not a member.
func TeamRole(team *models.Team, userID primitive.ObjectID) string {
	if team.CreatedBy == userID {
		return models.TeamRoleAdmin
	}
	for _, m := range team.Members {
		if m.User == userID {
			if m.Role == models.TeamRoleAdmin {
				return models.TeamRoleAdmin
			}
			return models.TeamRoleMember
		}
	}
	return ""
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func toSet(ids []primitive.ObjectID) map[primitive.ObjectID]bool {
	set := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
