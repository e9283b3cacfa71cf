// Package aggregate computes task statistics over an already-scoped task set.
// Nothing here touches the store; callers resolve visibility first.
package aggregate

import (
	"context"
	"fmt"
	"time"

	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// MaxProjects bounds the per-project breakdown.
const MaxProjects = 20

// Dimension is a grouping axis.
type Dimension string

// Dimensions.
const (
	DimensionStatus   Dimension = "status"
	DimensionPriority Dimension = "priority"
	DimensionProject  Dimension = "project"
	DimensionMember   Dimension = "member"
)

// ParseDimension validates a dimension name.
func ParseDimension(s string) (Dimension, error) {
	switch d := Dimension(s); d {
	case DimensionStatus, DimensionPriority, DimensionProject, DimensionMember:
		return d, nil
	}
	return "", fmt.Errorf("%w: unknown dimension %q", apperrors.ErrInvalidAggregationInput, s)
}

// Summary is the global tuple computed over every task in the input.
type Summary struct {
	Total          int `json:"total"`
	NotStarted     int `json:"notStarted"`
	InProgress     int `json:"inProgress"`
	Completed      int `json:"completed"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completionRate"`
}

// StatusRow counts tasks in one status.
type StatusRow struct {
	Status models.TaskStatus `json:"status"`
	Count  int               `json:"count"`
}

// PriorityRow counts tasks of one priority.
type PriorityRow struct {
	Priority  string `json:"priority"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

// ProjectRow is the breakdown for one project.
type ProjectRow struct {
	ProjectID      primitive.ObjectID `json:"projectId"`
	Name           string             `json:"name"`
	Total          int                `json:"total"`
	Completed      int                `json:"completed"`
	InProgress     int                `json:"inProgress"`
	Overdue        int                `json:"overdue"`
	CompletionRate int                `json:"completionRate"`
}

// Member identifies a user for the per-member breakdown.
type Member struct {
	ID   primitive.ObjectID
	Name string
}

// MemberRow is the breakdown for one member's assigned tasks.
type MemberRow struct {
	UserID         primitive.ObjectID `json:"userId"`
	Name           string             `json:"name"`
	Total          int                `json:"total"`
	Completed      int                `json:"completed"`
	InProgress     int                `json:"inProgress"`
	NotStarted     int                `json:"notStarted"`
	Overdue        int                `json:"overdue"`
	CompletionRate int                `json:"completionRate"`
}

// Request selects the dimensions to compute and carries their inputs.
// Projects must be in scope order; Members in display order.
type Request struct {
	Dimensions []Dimension
	Projects   []models.Project
	Members    []Member
	Now        time.Time
}

// Result holds the summary and every requested breakdown.
type Result struct {
	Summary     Summary              `json:"summary"`
	ByStatus    []StatusRow          `json:"byStatus,omitempty"`
	ByPriority  []PriorityRow        `json:"byPriority,omitempty"`
	ByProject   []ProjectRow         `json:"byProject,omitempty"`
	ByMember    []MemberRow          `json:"byMember,omitempty"`
	DeepNesting []primitive.ObjectID `json:"deepNesting,omitempty"`
}

// Validate checks the request before any work is done.
func (r Request) Validate() error {
	if len(r.Dimensions) == 0 {
		return fmt.Errorf("%w: no dimensions requested", apperrors.ErrInvalidAggregationInput)
	}
	for _, d := range r.Dimensions {
		if _, err := ParseDimension(string(d)); err != nil {
			return err
		}
		if d == DimensionProject && r.Projects == nil {
			return fmt.Errorf("%w: project dimension needs the scoped projects", apperrors.ErrInvalidAggregationInput)
		}
		if d == DimensionMember && r.Members == nil {
			return fmt.Errorf("%w: member dimension needs the member list", apperrors.ErrInvalidAggregationInput)
		}
	}
	return nil
}

// Aggregate computes the summary and the requested dimensions. Dimensions run
// concurrently over the shared, read-only task slice and are joined before return.
func Aggregate(ctx context.Context, tasks []models.Task, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	result := &Result{
		Summary:     Summarize(tasks, now),
		DeepNesting: DeepNesting(tasks),
	}

	g, ctx := errgroup.WithContext(ctx)
	requested := make(map[Dimension]bool, len(req.Dimensions))
	for _, d := range req.Dimensions {
		if requested[d] {
			continue
		}
		requested[d] = true

		switch d {
		case DimensionStatus:
			g.Go(func() error {
				result.ByStatus = ByStatus(tasks)
				return ctx.Err()
			})
		case DimensionPriority:
			g.Go(func() error {
				result.ByPriority = ByPriority(tasks)
				return ctx.Err()
			})
		case DimensionProject:
			g.Go(func() error {
				result.ByProject = ByProject(req.Projects, tasks, now)
				return ctx.Err()
			})
		case DimensionMember:
			g.Go(func() error {
				result.ByMember = ByMember(req.Members, tasks, now)
				return ctx.Err()
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// Summarize counts tasks by status and overdue state.
func Summarize(tasks []models.Task, now time.Time) Summary {
	var s Summary
	for i := range tasks {
		t := &tasks[i]
		s.Total++
		switch t.Status {
		case models.StatusNotStarted:
			s.NotStarted++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusCompleted:
			s.Completed++
		}
		if t.IsOverdue(now) {
			s.Overdue++
		}
	}
	s.CompletionRate = Rate(s.Completed, s.Total)
	return s
}

// ByStatus returns one row per status in fixed order.
func ByStatus(tasks []models.Task) []StatusRow {
	rows := make([]StatusRow, len(models.Statuses))
	index := make(map[models.TaskStatus]int, len(models.Statuses))
	for i, st := range models.Statuses {
		rows[i].Status = st
		index[st] = i
	}
	for i := range tasks {
		if j, ok := index[tasks[i].Status]; ok {
			rows[j].Count++
		}
	}
	return rows
}

// ByPriority returns exactly one row per priority in the order urgent, high,
// medium, low. Empty buckets are kept. An unrecognized priority counts as medium
// so the row totals always add up to len(tasks).
func ByPriority(tasks []models.Task) []PriorityRow {
	rows := make([]PriorityRow, len(models.Priorities))
	index := make(map[string]int, len(models.Priorities))
	for i, p := range models.Priorities {
		rows[i].Priority = p
		index[p] = i
	}
	for i := range tasks {
		j, ok := index[tasks[i].Priority]
		if !ok {
			j = index[models.PriorityMedium]
		}
		rows[j].Total++
		if tasks[i].Status == models.StatusCompleted {
			rows[j].Completed++
		}
	}
	return rows
}

// ByProject returns a row for each of the first MaxProjects projects, restricted
// to that project's tasks within the given set.
func ByProject(projects []models.Project, tasks []models.Task, now time.Time) []ProjectRow {
	if len(projects) > MaxProjects {
		projects = projects[:MaxProjects]
	}

	byProject := make(map[primitive.ObjectID][]int, len(projects))
	for i := range tasks {
		byProject[tasks[i].Project] = append(byProject[tasks[i].Project], i)
	}

	rows := make([]ProjectRow, 0, len(projects))
	for _, p := range projects {
		row := ProjectRow{ProjectID: p.ID, Name: p.Name}
		for _, i := range byProject[p.ID] {
			t := &tasks[i]
			row.Total++
			switch t.Status {
			case models.StatusCompleted:
				row.Completed++
			case models.StatusInProgress:
				row.InProgress++
			}
			if t.IsOverdue(now) {
				row.Overdue++
			}
		}
		row.CompletionRate = Rate(row.Completed, row.Total)
		rows = append(rows, row)
	}
	return rows
}

// ByMember returns a row per member over the tasks assigned to them.
func ByMember(members []Member, tasks []models.Task, now time.Time) []MemberRow {
	rows := make([]MemberRow, 0, len(members))
	for _, m := range members {
		row := MemberRow{UserID: m.ID, Name: m.Name}
		for i := range tasks {
			t := &tasks[i]
			if !t.IsAssigned(m.ID) {
				continue
			}
			row.Total++
			switch t.Status {
			case models.StatusCompleted:
				row.Completed++
			case models.StatusInProgress:
				row.InProgress++
			case models.StatusNotStarted:
				row.NotStarted++
			}
			if t.IsOverdue(now) {
				row.Overdue++
			}
		}
		row.CompletionRate = Rate(row.Completed, row.Total)
		rows = append(rows, row)
	}
	return rows
}

// Rate returns completed/total as a whole percentage rounded half up.
// A zero total yields 0.
func Rate(part, total int) int {
	return models.Percent(part, total)
}

// DeepNesting returns the ids of tasks whose parent itself has a parent. Such
// chains are never traversed; they are only reported.
func DeepNesting(tasks []models.Task) []primitive.ObjectID {
	parents := make(map[primitive.ObjectID]*primitive.ObjectID, len(tasks))
	for i := range tasks {
		parents[tasks[i].ID] = tasks[i].ParentTask
	}

	var flagged []primitive.ObjectID
	for i := range tasks {
		p := tasks[i].ParentTask
		if p == nil {
			continue
		}
		if grand, ok := parents[*p]; ok && grand != nil {
			flagged = append(flagged, tasks[i].ID)
		}
	}
	return flagged
}
