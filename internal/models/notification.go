package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotificationTaskAssigned      = "task_assigned"
	NotificationTaskStatusChanged = "task_status_changed"
	NotificationCommentAdded      = "comment_added"
	NotificationMention           = "mention"
	NotificationTeamAdded         = "team_added"
	NotificationProjectCreated    = "project_created"
)

// Notification is a persisted message for a single recipient.
type Notification struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Recipient primitive.ObjectID  `json:"recipient" bson:"recipient"`
	Sender    *primitive.ObjectID `json:"sender,omitempty" bson:"sender,omitempty"`
	Type      string              `json:"type" bson:"type" example:"task_assigned"`
	Title     string              `json:"title" bson:"title" example:"New task assigned"`
	Message   string              `json:"message" bson:"message"`
	Task      *primitive.ObjectID `json:"task,omitempty" bson:"task,omitempty"`
	Project   *primitive.ObjectID `json:"project,omitempty" bson:"project,omitempty"`
	Team      *primitive.ObjectID `json:"team,omitempty" bson:"team,omitempty"`
	IsRead    bool                `json:"isRead" bson:"isRead"`
	ReadAt    *time.Time          `json:"readAt,omitempty" bson:"readAt,omitempty"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
}

// PushEvent is the flat record handed to the real-time fan-out sink.
type PushEvent struct {
	NotificationID string    `json:"notificationId"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	RecipientID    string    `json:"recipientId"`
	SenderID       string    `json:"senderId,omitempty"`
	TaskID         string    `json:"taskId,omitempty"`
	ProjectID      string    `json:"projectId,omitempty"`
	TeamID         string    `json:"teamId,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewPushEvent flattens a persisted notification.
func NewPushEvent(n *Notification) PushEvent {
	return PushEvent{
		NotificationID: n.ID.Hex(),
		Type:           n.Type,
		Title:          n.Title,
		Message:        n.Message,
		RecipientID:    n.Recipient.Hex(),
		SenderID:       hexOrEmpty(n.Sender),
		TaskID:         hexOrEmpty(n.Task),
		ProjectID:      hexOrEmpty(n.Project),
		TeamID:         hexOrEmpty(n.Team),
		Timestamp:      n.CreatedAt,
	}
}

func hexOrEmpty(id *primitive.ObjectID) string {
	if id == nil {
		return ""
	}
	return id.Hex()
}

// NotificationListResponse is the response for listing notifications.
type NotificationListResponse struct {
	Items       []Notification `json:"items"`
	UnreadCount int            `json:"unreadCount"`
	Pagination  Pagination     `json:"pagination"`
}

// Pagination contains pagination metadata.
type Pagination struct {
	Page       int `json:"page" example:"1"`
	Limit      int `json:"limit" example:"20"`
	TotalItems int `json:"totalItems" example:"42"`
	TotalPages int `json:"totalPages" example:"3"`
}
