package pipeline

import (
	"fmt"
	"strings"
	"time"

	"taskscope/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Planned is a notification computed for a recipient but not yet persisted.
type Planned struct {
	Recipient primitive.ObjectID
	Type      string
	Title     string
	Message   string
}

// Recipients computes the notifications a mutation produces. The actor is never a
// recipient. Within one type a recipient appears once, in first-seen order; a
// user may still receive several notifications of different types.
func Recipients(m Mutation) []Planned {
	var out []Planned
	add := func(ids []primitive.ObjectID, typ, title, message string) {
		seen := make(map[primitive.ObjectID]bool, len(ids))
		for _, id := range ids {
			if id.IsZero() || id == m.Actor.ID || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, Planned{Recipient: id, Type: typ, Title: title, Message: message})
		}
	}

	switch m.Kind {
	case TaskCreated:
		add(m.Task.AssignedTo, models.NotificationTaskAssigned,
			"New task assigned", fmt.Sprintf("You have been assigned to %q", m.Task.Title))

	case TaskUpdated:
		if m.Previous == nil {
			break
		}
		newcomers := added(m.Previous.AssignedTo, m.Task.AssignedTo)
		add(newcomers, models.NotificationTaskAssigned,
			"New task assigned", fmt.Sprintf("You have been assigned to %q", m.Task.Title))

		if m.Previous.Status != m.Task.Status {
			add(m.Task.AssignedTo, models.NotificationTaskStatusChanged,
				"Task status updated", fmt.Sprintf("%q is now %s", m.Task.Title, humanize(string(m.Task.Status))))
		}

	case CommentCreated:
		// The actor is the comment author.
		add(m.Task.AssignedTo, models.NotificationCommentAdded,
			"New comment", fmt.Sprintf("New comment on %q", m.Task.Title))
		if m.Comment != nil {
			add(m.Comment.Mentions, models.NotificationMention,
				"You were mentioned", fmt.Sprintf("You were mentioned in a comment on %q", m.Task.Title))
		}

	case TeamCreated:
		add(m.Team.MemberIDs(), models.NotificationTeamAdded,
			"Added to team", fmt.Sprintf("You have been added to the team %q", m.Team.Name))

	case MemberAdded:
		if m.Member != nil {
			add([]primitive.ObjectID{m.Member.User}, models.NotificationTeamAdded,
				"Added to team", fmt.Sprintf("You have been added to the team %q", m.Team.Name))
		}

	case ProjectCreated:
		var members []primitive.ObjectID
		for i := range m.Teams {
			members = append(members, m.Teams[i].MemberIDs()...)
		}
		add(members, models.NotificationProjectCreated,
			"New project", fmt.Sprintf("A new project %q was created for your team", m.Project.Name))
	}

	return out
}

// Notification materializes a planned notification for the mutation.
func (p Planned) Notification(m Mutation) *models.Notification {
	sender := m.Actor.ID
	n := &models.Notification{
		Recipient: p.Recipient,
		Sender:    &sender,
		Type:      p.Type,
		Title:     p.Title,
		Message:   p.Message,
		CreatedAt: m.At,
	}
	if m.Task != nil {
		task, project := m.Task.ID, m.Task.Project
		n.Task = &task
		n.Project = &project
	}
	if m.Project != nil {
		project := m.Project.ID
		n.Project = &project
	}
	if m.Team != nil {
		team := m.Team.ID
		n.Team = &team
	}
	return n
}

// added returns the ids in cur that are not in prev, in cur order.
func added(prev, cur []primitive.ObjectID) []primitive.ObjectID {
	had := make(map[primitive.ObjectID]bool, len(prev))
	for _, id := range prev {
		had[id] = true
	}
	var out []primitive.ObjectID
	for _, id := range cur {
		if !had[id] {
			out = append(out, id)
		}
	}
	return out
}

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
