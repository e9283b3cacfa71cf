package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project status constants.
const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

// Project represents a project owned by one or more teams. Team is the single-team
// reference older documents carry; Teams is the current set.
type Project struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	Name        string               `json:"name" bson:"name" example:"Website Redesign"`
	Description string               `json:"description" bson:"description" example:"Q3 marketing site refresh"`
	Team        *primitive.ObjectID  `json:"team,omitempty" bson:"team,omitempty"`
	Teams       []primitive.ObjectID `json:"teams" bson:"teams"`
	Status      string               `json:"status" bson:"status" example:"active"`
	Priority    string               `json:"priority" bson:"priority" example:"high"`
	StartDate   *time.Time           `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate     *time.Time           `json:"endDate,omitempty" bson:"endDate,omitempty"`
	CreatedBy   primitive.ObjectID   `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// TeamIDs returns the union of the legacy team reference and the team set,
// deduplicated, legacy reference first. Every team-linkage check goes through it.
func (p *Project) TeamIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(p.Teams)+1)
	seen := make(map[primitive.ObjectID]bool, len(p.Teams)+1)
	if p.Team != nil && !p.Team.IsZero() {
		ids = append(ids, *p.Team)
		seen[*p.Team] = true
	}
	for _, id := range p.Teams {
		if id.IsZero() || seen[id] {
			continue
		}
		ids = append(ids, id)
		seen[id] = true
	}
	return ids
}

// BelongsToAny reports whether any of the project's teams is in teamIDs.
func (p *Project) BelongsToAny(teamIDs map[primitive.ObjectID]bool) bool {
	for _, id := range p.TeamIDs() {
		if teamIDs[id] {
			return true
		}
	}
	return false
}

// IsValidProjectStatus reports whether status is a known project status.
func IsValidProjectStatus(status string) bool {
	switch status {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required,min=2,max=200" example:"Website Redesign"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	Teams       []string   `json:"teams" binding:"required,min=1,dive,objectid" example:"507f1f77bcf86cd799439012"`
	Status      string     `json:"status" binding:"omitempty,oneof=planning active on_hold completed cancelled" example:"planning"`
	Priority    string     `json:"priority" binding:"omitempty,priority" example:"medium"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// UpdateProjectRequest is the payload for updating a project.
type UpdateProjectRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=2,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Teams       []string   `json:"teams" binding:"omitempty,min=1,dive,objectid"`
	Status      *string    `json:"status" binding:"omitempty,oneof=planning active on_hold completed cancelled"`
	Priority    *string    `json:"priority" binding:"omitempty,priority"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// ProjectListResponse is the response for listing projects.
type ProjectListResponse struct {
	Items []Project `json:"items"`
}
