package service

import (
	"context"
	"time"

	"taskscope/internal/authz"
	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"
	"taskscope/internal/pipeline"
	"taskscope/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskQuery holds the optional list filters for tasks.
type TaskQuery struct {
	Project    *primitive.ObjectID
	Status     models.TaskStatus
	Priority   string
	AssignedTo *primitive.ObjectID
	DueFrom    *time.Time
	DueTo      *time.Time
}

// TaskService handles business logic for task operations.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	resolver    authz.Resolver
	effects     SideEffects
	now         func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	resolver authz.Resolver,
	effects SideEffects,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		resolver:    resolver,
		effects:     effects,
		now:         time.Now,
	}
}

// CreateTask creates a task in a project the actor can act on.
func (s *TaskService) CreateTask(ctx context.Context, actor models.Actor, req *models.CreateTaskRequest) (*Mutation[*models.TaskView], error) {
	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	projectID, err := primitive.ObjectIDFromHex(req.Project)
	if err != nil {
		return nil, apperrors.ErrProjectNotFound
	}
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !scope.Covers(project) {
		return nil, apperrors.ErrProjectNotFound
	}

	assignees, err := parseIDs(req.AssignedTo)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Project:     project.ID,
		AssignedTo:  assignees,
		CreatedBy:   actor.ID,
		Status:      models.TaskStatus(req.Status),
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}
	if task.Status == "" {
		task.Status = models.StatusNotStarted
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if err := validateTask(task); err != nil {
		return nil, err
	}
	if task.Status == models.StatusCompleted {
		now := s.now()
		task.CompletedAt = &now
	}
	for _, title := range req.Subtasks {
		task.Subtasks = append(task.Subtasks, models.Subtask{ID: primitive.NewObjectID(), Title: title})
	}

	if req.ParentTask != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentTask)
		if err != nil {
			return nil, apperrors.ErrTaskNotFound
		}
		if err := s.checkParent(ctx, scope, parentID); err != nil {
			return nil, err
		}
		task.ParentTask = &parentID
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	out := s.effects.Run(ctx, pipeline.Mutation{Kind: pipeline.TaskCreated, Actor: actor, Task: task})
	return committed(s.view(task), out), nil
}

// ListTasks returns tasks in projects visible through the actor's teams.
// Assignment plays no part in CRUD visibility.
func (s *TaskService) ListTasks(ctx context.Context, actor models.Actor, q TaskQuery) (*models.TaskListResponse, error) {
	if q.Status != "" && !models.IsValidStatus(q.Status) {
		return nil, apperrors.ErrInvalidStatus
	}
	if q.Priority != "" && !models.IsValidPriority(q.Priority) {
		return nil, apperrors.ErrInvalidPriority
	}

	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	filter := scope.TaskFilter()
	if q.Project != nil {
		if !scope.HasProject(*q.Project) {
			return nil, apperrors.ErrProjectNotFound
		}
		filter.AllProjects = false
		filter.ProjectIDs = []primitive.ObjectID{*q.Project}
	}
	filter.Status = q.Status
	filter.Priority = q.Priority
	filter.AssignedTo = q.AssignedTo
	filter.DueFrom = q.DueFrom
	filter.DueTo = q.DueTo

	tasks, err := s.taskRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, models.NewTaskView(t, now))
	}
	return &models.TaskListResponse{Items: items}, nil
}

// GetTask retrieves a visible task with its derived fields.
func (s *TaskService) GetTask(ctx context.Context, actor models.Actor, taskID primitive.ObjectID) (*models.TaskView, error) {
	task, _, err := s.visibleTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	return s.view(task), nil
}

// UpdateTask applies the provided fields.
func (s *TaskService) UpdateTask(ctx context.Context, actor models.Actor, taskID primitive.ObjectID, req *models.UpdateTaskRequest) (*Mutation[*models.TaskView], error) {
	task, _, err := s.visibleTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	prev := cloneTask(task)

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.AssignedTo != nil {
		assignees, err := parseIDs(*req.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = assignees
	}
	if req.Status != nil {
		task.Status = models.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.ClearDue {
		task.DueDate = nil
	} else if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
	}
	if err := validateTask(task); err != nil {
		return nil, err
	}
	s.trackCompletion(prev, task)

	return s.commitUpdate(ctx, actor, prev, task)
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, actor models.Actor, taskID primitive.ObjectID) (*Mutation[*models.TaskView], error) {
	task, _, err := s.visibleTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return nil, err
	}

	out := s.effects.Run(ctx, pipeline.Mutation{Kind: pipeline.TaskDeleted, Actor: actor, Task: task})
	return committed(s.view(task), out), nil
}

// AddSubtask appends a checklist item.
func (s *TaskService) AddSubtask(ctx context.Context, actor models.Actor, taskID primitive.ObjectID, req *models.CreateSubtaskRequest) (*Mutation[*models.TaskView], error) {
	task, _, err := s.visibleTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	prev := cloneTask(task)

	task.Subtasks = append(task.Subtasks, models.Subtask{ID: primitive.NewObjectID(), Title: req.Title})

	return s.commitUpdate(ctx, actor, prev, task)
}

// ToggleSubtask flips a subtask's completion and records who completed it.
func (s *TaskService) ToggleSubtask(ctx context.Context, actor models.Actor, taskID, subtaskID primitive.ObjectID) (*Mutation[*models.TaskView], error) {
	task, _, err := s.visibleTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	prev := cloneTask(task)

	found := false
	for i := range task.Subtasks {
		st := &task.Subtasks[i]
		if st.ID != subtaskID {
			continue
		}
		found = true
		st.Completed = !st.Completed
		if st.Completed {
			by, at := actor.ID, s.now()
			st.CompletedBy = &by
			st.CompletedAt = &at
		} else {
			st.CompletedBy = nil
			st.CompletedAt = nil
		}
	}
	if !found {
		return nil, apperrors.ErrSubtaskNotFound
	}

	return s.commitUpdate(ctx, actor, prev, task)
}

// AddComment adds a comment authored by the actor.
func (s *TaskService) AddComment(ctx context.Context, actor models.Actor, taskID primitive.ObjectID, req *models.CreateCommentRequest) (*Mutation[*models.TaskView], error) {
	task, _, err := s.visibleTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	mentions, err := parseIDs(req.Mentions)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		Author:    actor.ID,
		Text:      req.Text,
		Mentions:  mentions,
		CreatedAt: s.now(),
	}
	task.Comments = append(task.Comments, comment)

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	out := s.effects.Run(ctx, pipeline.Mutation{
		Kind:    pipeline.CommentCreated,
		Actor:   actor,
		Task:    task,
		Comment: &comment,
	})
	return committed(s.view(task), out), nil
}

func (s *TaskService) commitUpdate(ctx context.Context, actor models.Actor, prev, task *models.Task) (*Mutation[*models.TaskView], error) {
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	out := s.effects.Run(ctx, pipeline.Mutation{
		Kind:     pipeline.TaskUpdated,
		Actor:    actor,
		Task:     task,
		Previous: prev,
	})
	return committed(s.view(task), out), nil
}

// visibleTask loads a task whose project is in the actor's scope. Other tasks
// are reported as not found.
func (s *TaskService) visibleTask(ctx context.Context, actor models.Actor, taskID primitive.ObjectID) (*models.Task, *authz.Scope, error) {
	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, nil, err
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}

	caps, err := scope.CapabilitiesFor(task)
	if err != nil {
		return nil, nil, err
	}
	if !caps.Read {
		return nil, nil, apperrors.ErrTaskNotFound
	}
	if !caps.Write {
		return nil, nil, apperrors.ErrUnauthorized
	}

	return task, scope, nil
}

// checkParent enforces single-level nesting.
func (s *TaskService) checkParent(ctx context.Context, scope *authz.Scope, parentID primitive.ObjectID) error {
	parent, err := s.taskRepo.FindByID(ctx, parentID)
	if err != nil {
		return err
	}
	if !scope.HasProject(parent.Project) {
		return apperrors.ErrTaskNotFound
	}
	if parent.ParentTask != nil {
		return apperrors.ErrTaskNestingTooDeep
	}
	return nil
}

func (s *TaskService) trackCompletion(prev, task *models.Task) {
	switch {
	case task.Status == models.StatusCompleted && prev.Status != models.StatusCompleted:
		now := s.now()
		task.CompletedAt = &now
	case task.Status != models.StatusCompleted:
		task.CompletedAt = nil
	}
}

func (s *TaskService) view(task *models.Task) *models.TaskView {
	v := models.NewTaskView(*task, s.now())
	return &v
}

func validateTask(t *models.Task) error {
	if !models.IsValidStatus(t.Status) {
		return apperrors.ErrInvalidStatus
	}
	if !models.IsValidPriority(t.Priority) {
		return apperrors.ErrInvalidPriority
	}
	return nil
}

// cloneTask copies the task deeply enough that later edits do not leak into it.
func cloneTask(t *models.Task) *models.Task {
	c := *t
	c.AssignedTo = append([]primitive.ObjectID(nil), t.AssignedTo...)
	c.Subtasks = append([]models.Subtask(nil), t.Subtasks...)
	c.Comments = append([]models.Comment(nil), t.Comments...)
	c.Tags = append([]string(nil), t.Tags...)
	return &c
}
