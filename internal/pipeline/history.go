package pipeline

import (
	"fmt"

	"taskscope/internal/models"
)

// BuildHistory returns the single audit record for a mutation.
func BuildHistory(m Mutation) (*models.History, error) {
	entityType, id, name, project := m.entityRef()
	if entityType == "" {
		return nil, fmt.Errorf("pipeline: mutation %s carries no entity", m.Kind)
	}

	entry := &models.History{
		User:       m.Actor.ID,
		Action:     action(m),
		EntityType: entityType,
		EntityID:   id,
		EntityName: name,
		Project:    project,
		Details:    details(m),
		CreatedAt:  m.At,
	}
	return entry, nil
}

func action(m Mutation) string {
	switch m.Kind {
	case TaskCreated, ProjectCreated, TeamCreated:
		return models.ActionCreated
	case TaskDeleted, ProjectDeleted, TeamDeleted:
		return models.ActionDeleted
	case CommentCreated:
		return models.ActionCommented
	case MemberAdded:
		return models.ActionAssigned
	case TaskUpdated:
		if m.Previous != nil && m.Task != nil {
			if m.Task.Status == models.StatusCompleted && m.Previous.Status != models.StatusCompleted {
				return models.ActionCompleted
			}
			changes := TaskChanges(m.Previous, m.Task)
			if len(changes) == 1 && changes[0] == "assignedTo" {
				return models.ActionAssigned
			}
		}
	}
	return models.ActionUpdated
}

func details(m Mutation) map[string]interface{} {
	d := make(map[string]interface{}, len(m.Details)+2)
	for k, v := range m.Details {
		d[k] = v
	}

	switch m.Kind {
	case TaskCreated:
		d["status"] = string(m.Task.Status)
		d["priority"] = m.Task.Priority
		d["assignees"] = len(m.Task.AssignedTo)
	case TaskUpdated:
		if m.Previous != nil {
			d["changes"] = TaskChanges(m.Previous, m.Task)
			if m.Previous.Status != m.Task.Status {
				d["fromStatus"] = string(m.Previous.Status)
				d["toStatus"] = string(m.Task.Status)
			}
		}
	case CommentCreated:
		if m.Comment != nil {
			d["commentId"] = m.Comment.ID.Hex()
			d["mentions"] = len(m.Comment.Mentions)
		}
	case MemberAdded, MemberRemoved:
		if m.Member != nil {
			d["member"] = m.Member.User.Hex()
			d["role"] = m.Member.Role
		}
	}

	if len(d) == 0 {
		return nil
	}
	return d
}

// TaskChanges lists the fields that differ between two task states.
func TaskChanges(prev, cur *models.Task) []string {
	var changes []string
	if prev.Title != cur.Title {
		changes = append(changes, "title")
	}
	if prev.Description != cur.Description {
		changes = append(changes, "description")
	}
	if prev.Status != cur.Status {
		changes = append(changes, "status")
	}
	if prev.Priority != cur.Priority {
		changes = append(changes, "priority")
	}
	if !sameTime(prev.DueDate, cur.DueDate) {
		changes = append(changes, "dueDate")
	}
	if len(added(prev.AssignedTo, cur.AssignedTo)) > 0 || len(added(cur.AssignedTo, prev.AssignedTo)) > 0 {
		changes = append(changes, "assignedTo")
	}
	if !sameStrings(prev.Tags, cur.Tags) {
		changes = append(changes, "tags")
	}
	if subtaskState(prev) != subtaskState(cur) {
		changes = append(changes, "subtasks")
	}
	return changes
}

func subtaskState(t *models.Task) string {
	done := 0
	for _, st := range t.Subtasks {
		if st.Completed {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, len(t.Subtasks))
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
