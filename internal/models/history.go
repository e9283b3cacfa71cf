package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// History actions.
const (
	ActionCreated      = "created"
	ActionUpdated      = "updated"
	ActionDeleted      = "deleted"
	ActionAssigned     = "assigned"
	ActionCompleted    = "completed"
	ActionCommented    = "commented"
	ActionAttachedFile = "attached_file"
)

// Entity types recorded in history.
const (
	EntityTask    = "task"
	EntityProject = "project"
	EntityTeam    = "team"
	EntityComment = "comment"
	EntityUser    = "user"
)

// History is an append-only audit record. EntityName is captured when the
// record is written and never recomputed.
type History struct {
	ID         primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	User       primitive.ObjectID     `json:"user" bson:"user"`
	Action     string                 `json:"action" bson:"action" example:"updated"`
	EntityType string                 `json:"entityType" bson:"entityType" example:"task"`
	EntityID   primitive.ObjectID     `json:"entityId" bson:"entityId"`
	EntityName string                 `json:"entityName" bson:"entityName" example:"Write release notes"`
	Project    *primitive.ObjectID    `json:"project,omitempty" bson:"project,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt  time.Time              `json:"createdAt" bson:"createdAt"`
}

// HistoryListResponse is the response for listing history records.
type HistoryListResponse struct {
	Items []History `json:"items"`
}
