package repository

import (
	"time"

	"taskscope/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskFilter narrows task reads. With AllProjects unset, only tasks whose project is
// in ProjectIDs match; an empty ProjectIDs then matches nothing.
type TaskFilter struct {
	AllProjects bool
	ProjectIDs  []primitive.ObjectID
	// InvolvedUser matches tasks the user is assigned to or created.
	InvolvedUser *primitive.ObjectID
	AssignedTo   *primitive.ObjectID
	Status       models.TaskStatus
	Priority     string
	DueFrom      *time.Time
	DueTo        *time.Time
}

// BSON renders the filter as a MongoDB query document.
func (f TaskFilter) BSON() bson.M {
	filter := bson.M{}
	if !f.AllProjects {
		filter["project"] = bson.M{"$in": nonNilIDs(f.ProjectIDs)}
	}
	if f.InvolvedUser != nil {
		filter["$or"] = bson.A{
			bson.M{"assignedTo": *f.InvolvedUser},
			bson.M{"createdBy": *f.InvolvedUser},
		}
	}
	if f.AssignedTo != nil {
		filter["assignedTo"] = *f.AssignedTo
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	if due := dateRange(f.DueFrom, f.DueTo); due != nil {
		filter["dueDate"] = due
	}
	return filter
}

// Matches reports whether t satisfies the filter, mirroring BSON.
func (f TaskFilter) Matches(t *models.Task) bool {
	if !f.AllProjects && !containsID(f.ProjectIDs, t.Project) {
		return false
	}
	if f.InvolvedUser != nil && !t.IsAssigned(*f.InvolvedUser) && t.CreatedBy != *f.InvolvedUser {
		return false
	}
	if f.AssignedTo != nil && !t.IsAssigned(*f.AssignedTo) {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.DueFrom != nil || f.DueTo != nil {
		if t.DueDate == nil || !inRange(*t.DueDate, f.DueFrom, f.DueTo) {
			return false
		}
	}
	return true
}

// ProjectFilter narrows project reads. With All unset, a project matches when its id
// is in IDs, either team field intersects TeamIDs, or it was created by CreatedBy.
type ProjectFilter struct {
	All       bool
	IDs       []primitive.ObjectID
	TeamIDs   []primitive.ObjectID
	CreatedBy *primitive.ObjectID
	Status    string
}

// BSON renders the filter as a MongoDB query document.
func (f ProjectFilter) BSON() bson.M {
	filter := bson.M{}
	if !f.All {
		or := bson.A{}
		if len(f.IDs) > 0 {
			or = append(or, bson.M{"_id": bson.M{"$in": f.IDs}})
		}
		if len(f.TeamIDs) > 0 {
			or = append(or,
				bson.M{"team": bson.M{"$in": f.TeamIDs}},
				bson.M{"teams": bson.M{"$in": f.TeamIDs}},
			)
		}
		if f.CreatedBy != nil {
			or = append(or, bson.M{"createdBy": *f.CreatedBy})
		}
		if len(or) == 0 {
			// nothing can match
			filter["_id"] = bson.M{"$in": bson.A{}}
		} else {
			filter["$or"] = or
		}
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

// Matches reports whether p satisfies the filter, mirroring BSON.
func (f ProjectFilter) Matches(p *models.Project) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.All {
		return true
	}
	if containsID(f.IDs, p.ID) {
		return true
	}
	for _, id := range p.TeamIDs() {
		if containsID(f.TeamIDs, id) {
			return true
		}
	}
	return f.CreatedBy != nil && p.CreatedBy == *f.CreatedBy
}

// HistoryFilter narrows history reads. With All unset, a record is visible when its
// project is in ProjectIDs, it is about a team in TeamIDs or a project in
// ProjectIDs, or it was written by Actor.
type HistoryFilter struct {
	All        bool
	ProjectIDs []primitive.ObjectID
	TeamIDs    []primitive.ObjectID
	Actor      *primitive.ObjectID
	EntityType string
	EntityID   *primitive.ObjectID
	From       *time.Time
	To         *time.Time
	Limit      int
}

// BSON renders the filter as a MongoDB query document.
func (f HistoryFilter) BSON() bson.M {
	and := bson.A{}
	if !f.All {
		or := bson.A{
			bson.M{"project": bson.M{"$in": nonNilIDs(f.ProjectIDs)}},
			bson.M{"entityType": models.EntityProject, "entityId": bson.M{"$in": nonNilIDs(f.ProjectIDs)}},
			bson.M{"entityType": models.EntityTeam, "entityId": bson.M{"$in": nonNilIDs(f.TeamIDs)}},
		}
		if f.Actor != nil {
			or = append(or, bson.M{"user": *f.Actor})
		}
		and = append(and, bson.M{"$or": or})
	}
	if f.EntityType != "" {
		and = append(and, bson.M{"entityType": f.EntityType})
	}
	if f.EntityID != nil {
		and = append(and, bson.M{"entityId": *f.EntityID})
	}
	if created := dateRange(f.From, f.To); created != nil {
		and = append(and, bson.M{"createdAt": created})
	}
	if len(and) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": and}
}

// Matches reports whether h satisfies the filter, mirroring BSON.
func (f HistoryFilter) Matches(h *models.History) bool {
	if !f.All {
		visible := (h.Project != nil && containsID(f.ProjectIDs, *h.Project)) ||
			(h.EntityType == models.EntityProject && containsID(f.ProjectIDs, h.EntityID)) ||
			(h.EntityType == models.EntityTeam && containsID(f.TeamIDs, h.EntityID)) ||
			(f.Actor != nil && h.User == *f.Actor)
		if !visible {
			return false
		}
	}
	if f.EntityType != "" && h.EntityType != f.EntityType {
		return false
	}
	if f.EntityID != nil && h.EntityID != *f.EntityID {
		return false
	}
	if (f.From != nil || f.To != nil) && !inRange(h.CreatedAt, f.From, f.To) {
		return false
	}
	return true
}

func dateRange(from, to *time.Time) bson.M {
	if from == nil && to == nil {
		return nil
	}
	r := bson.M{}
	if from != nil {
		r["$gte"] = *from
	}
	if to != nil {
		r["$lte"] = *to
	}
	return r
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// nonNilIDs keeps $in operands as arrays; a nil slice marshals to BSON null.
func nonNilIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return ids
}
