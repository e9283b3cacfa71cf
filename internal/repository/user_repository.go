// Package repository provides data access operations for the application.
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

//go:generate mockgen -destination=mocks/mock_repositories.go -package=mocks taskscope/internal/repository HistoryRepository,NotificationRepository,ProjectRepository,TaskRepository,TeamRepository,UserRepository

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, role string) error
	AddTeam(ctx context.Context, userIDs []primitive.ObjectID, teamID primitive.ObjectID) error
	RemoveTeam(ctx context.Context, userIDs []primitive.ObjectID, teamID primitive.ObjectID) error
}

// userRepository implements UserRepository using MongoDB
type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{
		collection: db.Collection("users"),
	}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.Role = models.NormalizeRole(user.Role)
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Teams == nil {
		user.Teams = []primitive.ObjectID{}
	}

	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// FindByID finds a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// FindByIDs returns the users matching ids, in no particular order.
func (r *userRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// FindAll returns every user sorted by name.
func (r *userRepository) FindAll(ctx context.Context) ([]models.User, error) {
	return r.find(ctx, bson.M{})
}

func (r *userRepository) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	if users == nil {
		users = []models.User{}
	}

	return users, nil
}

// UpdateRole changes a user's global role.
func (r *userRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) error {
	update := bson.M{
		"$set": bson.M{"role": role, "updatedAt": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// AddTeam records a team membership on each user.
func (r *userRepository) AddTeam(ctx context.Context, userIDs []primitive.ObjectID, teamID primitive.ObjectID) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": userIDs}},
		bson.M{"$addToSet": bson.M{"teams": teamID}},
	)
	return err
}

// RemoveTeam drops a team membership from each user.
func (r *userRepository) RemoveTeam(ctx context.Context, userIDs []primitive.ObjectID, teamID primitive.ObjectID) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": userIDs}},
		bson.M{"$pull": bson.M{"teams": teamID}},
	)
	return err
}
