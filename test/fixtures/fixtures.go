// Package fixtures provides test data builders for unit and integration tests.
package fixtures

import (
	"fmt"
	"time"

	"taskscope/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ===== User Fixtures =====

// UserBuilder provides fluent API for building test users.
type UserBuilder struct {
	user models.User
}

// NewUser creates a new UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		user: models.User{
			ID:        primitive.NewObjectID(),
			Name:      "Test User",
			Email:     fmt.Sprintf("test-%s@example.com", primitive.NewObjectID().Hex()[:8]),
			Password:  "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy", // "password123" hashed
			Role:      models.RoleMember,
			Teams:     []primitive.ObjectID{},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
}

func (b *UserBuilder) WithID(id primitive.ObjectID) *UserBuilder {
	b.user.ID = id
	return b
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.user.Name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

func (b *UserBuilder) WithRole(role string) *UserBuilder {
	b.user.Role = role
	return b
}

func (b *UserBuilder) AsAdmin() *UserBuilder {
	return b.WithRole(models.RoleAdmin)
}

func (b *UserBuilder) AsSuperAdmin() *UserBuilder {
	return b.WithRole(models.RoleSuperAdmin)
}

func (b *UserBuilder) WithTeams(ids ...primitive.ObjectID) *UserBuilder {
	b.user.Teams = ids
	return b
}

func (b *UserBuilder) Build() models.User {
	return b.user
}

func (b *UserBuilder) BuildPtr() *models.User {
	u := b.user
	return &u
}

// Actor returns the actor the built user acts as.
func (b *UserBuilder) Actor() models.Actor {
	return models.NewActor(b.user.ID, b.user.Role)
}

// ===== Team Fixtures =====

// TeamBuilder provides fluent API for building test teams.
type TeamBuilder struct {
	team models.Team
}

// NewTeam creates a team created by a fresh user, who is its only admin member.
func NewTeam() *TeamBuilder {
	creator := primitive.NewObjectID()
	now := time.Now()
	return &TeamBuilder{
		team: models.Team{
			ID:        primitive.NewObjectID(),
			Name:      "Test Team",
			Members:   []models.TeamMember{{User: creator, Role: models.TeamRoleAdmin, JoinedAt: now}},
			CreatedBy: creator,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func (b *TeamBuilder) WithID(id primitive.ObjectID) *TeamBuilder {
	b.team.ID = id
	return b
}

func (b *TeamBuilder) WithName(name string) *TeamBuilder {
	b.team.Name = name
	return b
}

// WithCreator replaces the creator and the creator's admin membership.
func (b *TeamBuilder) WithCreator(userID primitive.ObjectID) *TeamBuilder {
	old := b.team.CreatedBy
	b.team.CreatedBy = userID
	for i := range b.team.Members {
		if b.team.Members[i].User == old {
			b.team.Members[i].User = userID
		}
	}
	return b
}

func (b *TeamBuilder) WithMember(userID primitive.ObjectID) *TeamBuilder {
	return b.withMember(userID, models.TeamRoleMember)
}

func (b *TeamBuilder) WithAdmin(userID primitive.ObjectID) *TeamBuilder {
	return b.withMember(userID, models.TeamRoleAdmin)
}

func (b *TeamBuilder) withMember(userID primitive.ObjectID, role string) *TeamBuilder {
	b.team.Members = append(b.team.Members, models.TeamMember{User: userID, Role: role, JoinedAt: time.Now()})
	return b
}

func (b *TeamBuilder) Build() models.Team {
	return b.team
}

func (b *TeamBuilder) BuildPtr() *models.Team {
	t := b.team
	return &t
}

// ===== Project Fixtures =====

// ProjectBuilder provides fluent API for building test projects.
type ProjectBuilder struct {
	project models.Project
}

// NewProject creates an active, medium priority project with no teams.
func NewProject() *ProjectBuilder {
	now := time.Now()
	return &ProjectBuilder{
		project: models.Project{
			ID:        primitive.NewObjectID(),
			Name:      "Test Project",
			Teams:     []primitive.ObjectID{},
			Status:    models.ProjectStatusActive,
			Priority:  models.PriorityMedium,
			CreatedBy: primitive.NewObjectID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func (b *ProjectBuilder) WithID(id primitive.ObjectID) *ProjectBuilder {
	b.project.ID = id
	return b
}

func (b *ProjectBuilder) WithName(name string) *ProjectBuilder {
	b.project.Name = name
	return b
}

func (b *ProjectBuilder) WithTeams(ids ...primitive.ObjectID) *ProjectBuilder {
	b.project.Teams = ids
	return b
}

// WithLegacyTeam sets the single team reference used by older documents.
func (b *ProjectBuilder) WithLegacyTeam(id primitive.ObjectID) *ProjectBuilder {
	b.project.Team = &id
	return b
}

func (b *ProjectBuilder) WithStatus(status string) *ProjectBuilder {
	b.project.Status = status
	return b
}

func (b *ProjectBuilder) WithCreatedBy(id primitive.ObjectID) *ProjectBuilder {
	b.project.CreatedBy = id
	return b
}

func (b *ProjectBuilder) CreatedAt(at time.Time) *ProjectBuilder {
	b.project.CreatedAt = at
	return b
}

func (b *ProjectBuilder) Build() models.Project {
	return b.project
}

func (b *ProjectBuilder) BuildPtr() *models.Project {
	p := b.project
	return &p
}

// ===== Task Fixtures =====

// TaskBuilder provides fluent API for building test tasks.
type TaskBuilder struct {
	task models.Task
}

// NewTask creates a not started, medium priority task with no assignees.
func NewTask() *TaskBuilder {
	now := time.Now()
	return &TaskBuilder{
		task: models.Task{
			ID:         primitive.NewObjectID(),
			Title:      "Test Task",
			Project:    primitive.NewObjectID(),
			AssignedTo: []primitive.ObjectID{},
			CreatedBy:  primitive.NewObjectID(),
			Status:     models.StatusNotStarted,
			Priority:   models.PriorityMedium,
			Subtasks:   []models.Subtask{},
			Comments:   []models.Comment{},
			Tags:       []string{},
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}
}

func (b *TaskBuilder) WithID(id primitive.ObjectID) *TaskBuilder {
	b.task.ID = id
	return b
}

func (b *TaskBuilder) WithTitle(title string) *TaskBuilder {
	b.task.Title = title
	return b
}

func (b *TaskBuilder) InProject(id primitive.ObjectID) *TaskBuilder {
	b.task.Project = id
	return b
}

func (b *TaskBuilder) AssignedTo(ids ...primitive.ObjectID) *TaskBuilder {
	b.task.AssignedTo = ids
	return b
}

func (b *TaskBuilder) WithCreatedBy(id primitive.ObjectID) *TaskBuilder {
	b.task.CreatedBy = id
	return b
}

func (b *TaskBuilder) WithPriority(priority string) *TaskBuilder {
	b.task.Priority = priority
	return b
}

func (b *TaskBuilder) DueAt(at time.Time) *TaskBuilder {
	b.task.DueDate = &at
	return b
}

func (b *TaskBuilder) WithParent(id primitive.ObjectID) *TaskBuilder {
	b.task.ParentTask = &id
	return b
}

func (b *TaskBuilder) InProgress() *TaskBuilder {
	b.task.Status = models.StatusInProgress
	b.task.CompletedAt = nil
	return b
}

func (b *TaskBuilder) Completed() *TaskBuilder {
	b.task.Status = models.StatusCompleted
	now := time.Now()
	b.task.CompletedAt = &now
	return b
}

func (b *TaskBuilder) WithSubtasks(done int, titles ...string) *TaskBuilder {
	for i, title := range titles {
		b.task.Subtasks = append(b.task.Subtasks, models.Subtask{
			ID:        primitive.NewObjectID(),
			Title:     title,
			Completed: i < done,
		})
	}
	return b
}

func (b *TaskBuilder) Build() models.Task {
	return b.task
}

func (b *TaskBuilder) BuildPtr() *models.Task {
	t := b.task
	return &t
}
