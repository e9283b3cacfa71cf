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

// ProjectRepository defines the interface for project data operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	Find(ctx context.Context, filter ProjectFilter) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// projectRepository implements ProjectRepository using MongoDB.
type projectRepository struct {
	collection *mongo.Collection
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *mongo.Database) ProjectRepository {
	return &projectRepository{
		collection: db.Collection("projects"),
	}
}

// Create inserts a new project.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	now := time.Now()
	project.ID = primitive.NewObjectID()
	project.CreatedAt = now
	project.UpdatedAt = now

	if project.Teams == nil {
		project.Teams = []primitive.ObjectID{}
	}

	_, err := r.collection.InsertOne(ctx, project)
	return err
}

// FindByID retrieves a project by ID.
func (r *projectRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}

	return &project, nil
}

// Find returns projects matching filter in creation order (oldest first).
func (r *projectRepository) Find(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter.BSON(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}

	if projects == nil {
		projects = []models.Project{}
	}

	return projects, nil
}

// Update writes the project's mutable fields. The legacy team reference is left as is.
func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":        project.Name,
			"description": project.Description,
			"teams":       project.Teams,
			"status":      project.Status,
			"priority":    project.Priority,
			"startDate":   project.StartDate,
			"endDate":     project.EndDate,
			"updatedAt":   project.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": project.ID}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrProjectNotFound
	}

	return nil
}

// Delete removes a project.
func (r *projectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrProjectNotFound
	}

	return nil
}
