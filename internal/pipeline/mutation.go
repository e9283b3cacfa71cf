// Package pipeline turns committed mutations into exactly one audit record and a
// deduplicated set of notifications.
package pipeline

import (
	"time"

	"taskscope/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind identifies the committed mutation.
type Kind string

// Mutation kinds.
const (
	TaskCreated    Kind = "task_created"
	TaskUpdated    Kind = "task_updated"
	TaskDeleted    Kind = "task_deleted"
	CommentCreated Kind = "comment_created"
	ProjectCreated Kind = "project_created"
	ProjectUpdated Kind = "project_updated"
	ProjectDeleted Kind = "project_deleted"
	TeamCreated    Kind = "team_created"
	TeamUpdated    Kind = "team_updated"
	TeamDeleted    Kind = "team_deleted"
	MemberAdded    Kind = "member_added"
	MemberRemoved  Kind = "member_removed"
	RoleChanged    Kind = "role_changed"
)

// Mutation describes a change that is already durable in the store. Entity
// fields are snapshots taken at commit time; the pipeline never re-reads them.
type Mutation struct {
	Kind  Kind
	Actor models.Actor
	At    time.Time

	// Task is the task after the change (before it, for deletes). Previous is the
	// task before an update.
	Task     *models.Task
	Previous *models.Task
	Comment  *models.Comment

	Project *models.Project
	// Teams are the teams linked to Project, used for project notifications.
	Teams []models.Team

	Team   *models.Team
	Member *models.TeamMember

	// User is the user whose global role changed; Details carry the roles.
	User *models.User

	Details map[string]interface{}
}

// entityRef returns the audited entity of the mutation.
func (m Mutation) entityRef() (entityType string, id primitive.ObjectID, name string, project *primitive.ObjectID) {
	switch m.Kind {
	case TaskCreated, TaskUpdated, TaskDeleted, CommentCreated:
		if m.Task != nil {
			p := m.Task.Project
			return models.EntityTask, m.Task.ID, m.Task.Title, &p
		}
	case ProjectCreated, ProjectUpdated, ProjectDeleted:
		if m.Project != nil {
			p := m.Project.ID
			return models.EntityProject, m.Project.ID, m.Project.Name, &p
		}
	case TeamCreated, TeamUpdated, TeamDeleted, MemberAdded, MemberRemoved:
		if m.Team != nil {
			return models.EntityTeam, m.Team.ID, m.Team.Name, nil
		}
	case RoleChanged:
		if m.User != nil {
			return models.EntityUser, m.User.ID, m.User.Name, nil
		}
	}
	return "", primitive.NilObjectID, "", nil
}
