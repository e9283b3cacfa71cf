package repository

import (
	"context"
	"errors"
	"time"

	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskRepository defines the interface for task data operations.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	Find(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int, error)
}

// taskRepository implements TaskRepository using MongoDB.
type taskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *mongo.Database) TaskRepository {
	return &taskRepository{
		collection: db.Collection("tasks"),
	}
}

// Create inserts a new task.
func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	now := time.Now()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now
	normalizeTaskSlices(task)

	_, err := r.collection.InsertOne(ctx, task)
	return err
}

// FindByID retrieves a task by ID.
func (r *taskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	return &task, nil
}

// Find returns tasks matching filter, newest first.
func (r *taskRepository) Find(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter.BSON(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}

	if tasks == nil {
		tasks = []models.Task{}
	}

	return tasks, nil
}

// Update replaces the task's mutable state in a single document write.
func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()
	normalizeTaskSlices(task)

	update := bson.M{
		"$set": bson.M{
			"title":       task.Title,
			"description": task.Description,
			"assignedTo":  task.AssignedTo,
			"status":      task.Status,
			"priority":    task.Priority,
			"dueDate":     task.DueDate,
			"subtasks":    task.Subtasks,
			"comments":    task.Comments,
			"tags":        task.Tags,
			"completedAt": task.CompletedAt,
			"updatedAt":   task.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": task.ID}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task.
func (r *taskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrTaskNotFound
	}

	return nil
}

// DeleteByProject removes all tasks of a project (used when deleting a project).
func (r *taskRepository) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"project": projectID})
	if err != nil {
		return 0, err
	}
	return int(result.DeletedCount), nil
}

// normalizeTaskSlices stores empty arrays instead of nulls so array queries behave.
func normalizeTaskSlices(task *models.Task) {
	if task.AssignedTo == nil {
		task.AssignedTo = []primitive.ObjectID{}
	}
	if task.Subtasks == nil {
		task.Subtasks = []models.Subtask{}
	}
	if task.Comments == nil {
		task.Comments = []models.Comment{}
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
}
