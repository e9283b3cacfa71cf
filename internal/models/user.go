// Package models defines data structures for the application.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Global role constants.
const (
	RoleMember     = "member"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// User represents a user in the system.
type User struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	Email     string               `json:"email" bson:"email" example:"user@example.com"`
	Password  string               `json:"-" bson:"password"`
	Name      string               `json:"name" bson:"name" example:"John Doe"`
	Role      string               `json:"role" bson:"role" example:"member"`
	Teams     []primitive.ObjectID `json:"teams" bson:"teams"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   primitive.ObjectID
	Role string
}

// NewActor builds an actor, normalizing unknown roles to member.
func NewActor(id primitive.ObjectID, role string) Actor {
	return Actor{ID: id, Role: NormalizeRole(role)}
}

// IsSuperAdmin reports whether the actor has unbounded visibility.
func (a Actor) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// IsAdmin reports whether the actor holds the admin or superadmin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}

// NormalizeRole maps any unrecognized role to member, the most restrictive one.
func NormalizeRole(role string) string {
	switch role {
	case RoleAdmin, RoleSuperAdmin:
		return role
	default:
		return RoleMember
	}
}

// IsValidRole reports whether role is one of the known global roles.
func IsValidRole(role string) bool {
	return role == RoleMember || role == RoleAdmin || role == RoleSuperAdmin
}

// UserSummary is a minimal user representation for embedding.
type UserSummary struct {
	ID    primitive.ObjectID `json:"id" example:"507f1f77bcf86cd799439013"`
	Email string             `json:"email" example:"user@example.com"`
	Name  string             `json:"name" example:"John Doe"`
}

// UpdateRoleRequest is the payload for changing a user's global role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=member admin superadmin" example:"admin"`
}
