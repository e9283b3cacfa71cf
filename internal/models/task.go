package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Priority constants shared by tasks and projects.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Priorities lists priority values in reporting order.
var Priorities = []string{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

// Statuses lists task statuses in reporting order.
var Statuses = []TaskStatus{StatusNotStarted, StatusInProgress, StatusCompleted}

// Subtask is a checklist item embedded in a task.
type Subtask struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id"`
	Title       string              `json:"title" bson:"title"`
	Completed   bool                `json:"completed" bson:"completed"`
	CompletedBy *primitive.ObjectID `json:"completedBy,omitempty" bson:"completedBy,omitempty"`
	CompletedAt *time.Time          `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// Comment is a discussion entry embedded in a task.
type Comment struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id"`
	Author    primitive.ObjectID   `json:"author" bson:"author"`
	Text      string               `json:"text" bson:"text"`
	Mentions  []primitive.ObjectID `json:"mentions" bson:"mentions"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
}

// Task represents a unit of work inside a project.
type Task struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	Title       string               `json:"title" bson:"title" example:"Write release notes"`
	Description string               `json:"description" bson:"description"`
	Project     primitive.ObjectID   `json:"project" bson:"project" example:"507f1f77bcf86cd799439012"`
	AssignedTo  []primitive.ObjectID `json:"assignedTo" bson:"assignedTo"`
	CreatedBy   primitive.ObjectID   `json:"createdBy" bson:"createdBy"`
	Status      TaskStatus           `json:"status" bson:"status" example:"in_progress"`
	Priority    string               `json:"priority" bson:"priority" example:"high"`
	DueDate     *time.Time           `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	Subtasks    []Subtask            `json:"subtasks" bson:"subtasks"`
	Comments    []Comment            `json:"comments" bson:"comments"`
	ParentTask  *primitive.ObjectID  `json:"parentTask,omitempty" bson:"parentTask,omitempty"`
	Tags        []string             `json:"tags" bson:"tags"`
	CompletedAt *time.Time           `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// IsOverdue reports whether the task is past due and not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusCompleted
}

// CompletionPercentage derives progress from subtasks, or from status when there are none.
func (t *Task) CompletionPercentage() int {
	if len(t.Subtasks) == 0 {
		if t.Status == StatusCompleted {
			return 100
		}
		return 0
	}
	done := 0
	for _, st := range t.Subtasks {
		if st.Completed {
			done++
		}
	}
	return Percent(done, len(t.Subtasks))
}

// IsAssigned reports whether userID is among the assignees.
func (t *Task) IsAssigned(userID primitive.ObjectID) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// Percent returns part/total as a whole percentage rounded half up, 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	if part >= total {
		return 100
	}
	return (part*200 + total) / (2 * total)
}

// IsValidStatus reports whether s is a known task status.
func IsValidStatus(s TaskStatus) bool {
	return s == StatusNotStarted || s == StatusInProgress || s == StatusCompleted
}

// IsValidPriority reports whether p is a known priority.
func IsValidPriority(p string) bool {
	return p == PriorityUrgent || p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// TaskView is a task with its derived fields.
type TaskView struct {
	Task
	IsOverdue            bool `json:"isOverdue"`
	CompletionPercentage int  `json:"completionPercentage"`
}

// NewTaskView computes derived fields at now.
func NewTaskView(t Task, now time.Time) TaskView {
	return TaskView{
		Task:                 t,
		IsOverdue:            t.IsOverdue(now),
		CompletionPercentage: t.CompletionPercentage(),
	}
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200" example:"Write release notes"`
	Description string     `json:"description" binding:"omitempty,max=5000"`
	Project     string     `json:"project" binding:"required,objectid" example:"507f1f77bcf86cd799439012"`
	AssignedTo  []string   `json:"assignedTo" binding:"omitempty,dive,objectid"`
	Status      string     `json:"status" binding:"omitempty,taskstatus" example:"not_started"`
	Priority    string     `json:"priority" binding:"omitempty,priority" example:"medium"`
	DueDate     *time.Time `json:"dueDate"`
	ParentTask  string     `json:"parentTask" binding:"omitempty,objectid"`
	Subtasks    []string   `json:"subtasks" binding:"omitempty,max=50,dive,min=1,max=200"`
	Tags        []string   `json:"tags" binding:"omitempty,max=10,dive,max=50"`
}

// UpdateTaskRequest is the payload for updating a task. Nil fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	AssignedTo  *[]string  `json:"assignedTo" binding:"omitempty,dive,objectid"`
	Status      *string    `json:"status" binding:"omitempty,taskstatus"`
	Priority    *string    `json:"priority" binding:"omitempty,priority"`
	DueDate     *time.Time `json:"dueDate"`
	ClearDue    bool       `json:"clearDueDate"`
	Tags        *[]string  `json:"tags" binding:"omitempty,max=10,dive,max=50"`
}

// CreateCommentRequest is the payload for commenting on a task.
type CreateCommentRequest struct {
	Text     string   `json:"text" binding:"required,min=1,max=2000" example:"Looks good, merging today"`
	Mentions []string `json:"mentions" binding:"omitempty,dive,objectid"`
}

// CreateSubtaskRequest is the payload for adding a subtask.
type CreateSubtaskRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200" example:"Update changelog"`
}

// TaskListResponse is the response for listing tasks.
type TaskListResponse struct {
	Items []TaskView `json:"items"`
}
