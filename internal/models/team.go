package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team role constants.
const (
	TeamRoleAdmin  = "admin"
	TeamRoleMember = "member"
)

// TeamMember is a user's membership entry embedded in a team document.
type TeamMember struct {
	User     primitive.ObjectID `json:"user" bson:"user" example:"507f1f77bcf86cd799439013"`
	Role     string             `json:"role" bson:"role" example:"member"`
	JoinedAt time.Time          `json:"joinedAt" bson:"joinedAt" example:"2024-01-15T09:30:00Z"`
}

// Team represents a team in the system.
type Team struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	Name        string             `json:"name" bson:"name" example:"Engineering Team"`
	Description string             `json:"description" bson:"description" example:"Platform engineering"`
	Members     []TeamMember       `json:"members" bson:"members"`
	CreatedBy   primitive.ObjectID `json:"createdBy" bson:"createdBy" example:"507f1f77bcf86cd799439012"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// HasMember reports whether userID belongs to the team. The creator always does.
func (t *Team) HasMember(userID primitive.ObjectID) bool {
	if t.CreatedBy == userID {
		return true
	}
	for _, m := range t.Members {
		if m.User == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether userID is a team admin. The creator is implicitly one.
func (t *Team) IsAdmin(userID primitive.ObjectID) bool {
	if t.CreatedBy == userID {
		return true
	}
	for _, m := range t.Members {
		if m.User == userID && m.Role == TeamRoleAdmin {
			return true
		}
	}
	return false
}

// MemberIDs returns all member ids, creator first when absent from Members.
func (t *Team) MemberIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(t.Members)+1)
	seen := make(map[primitive.ObjectID]bool, len(t.Members)+1)
	if !t.CreatedBy.IsZero() {
		ids = append(ids, t.CreatedBy)
		seen[t.CreatedBy] = true
	}
	for _, m := range t.Members {
		if !seen[m.User] {
			ids = append(ids, m.User)
			seen[m.User] = true
		}
	}
	return ids
}

// CreateTeamRequest is the payload for creating a team.
type CreateTeamRequest struct {
	Name        string   `json:"name" binding:"required,min=2,max=100" example:"Engineering Team"`
	Description string   `json:"description" binding:"omitempty,max=500" example:"Platform engineering"`
	Members     []string `json:"members" binding:"omitempty,dive,objectid" example:"507f1f77bcf86cd799439013"`
}

// UpdateTeamRequest is the payload for updating a team.
type UpdateTeamRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100" example:"Updated Team Name"`
	Description *string `json:"description" binding:"omitempty,max=500" example:"Updated description"`
}

// AddMemberRequest is the payload for adding a user to a team.
type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required,objectid" example:"507f1f77bcf86cd799439013"`
	Role   string `json:"role" binding:"omitempty,oneof=admin member" example:"member"`
}

// TeamListResponse is the response for listing teams.
type TeamListResponse struct {
	Items []Team `json:"items"`
}
