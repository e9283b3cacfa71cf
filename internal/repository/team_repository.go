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

// TeamRepository defines the interface for team data operations.
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Team, error)
	FindByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Team, error)
	FindAll(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	AddMember(ctx context.Context, teamID primitive.ObjectID, member models.TeamMember) error
	RemoveMember(ctx context.Context, teamID, userID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// teamRepository implements TeamRepository using MongoDB.
type teamRepository struct {
	collection *mongo.Collection
}

// NewTeamRepository creates a new TeamRepository.
func NewTeamRepository(db *mongo.Database) TeamRepository {
	return &teamRepository{
		collection: db.Collection("teams"),
	}
}

// Create inserts a new team into the database.
func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	now := time.Now()
	team.ID = primitive.NewObjectID()
	team.CreatedAt = now
	team.UpdatedAt = now

	if team.Members == nil {
		team.Members = []models.TeamMember{}
	}

	_, err := r.collection.InsertOne(ctx, team)
	return err
}

// FindByID retrieves a team by ID.
func (r *teamRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var team models.Team
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, err
	}

	return &team, nil
}

// FindByIDs retrieves the teams matching ids.
func (r *teamRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Team, error) {
	if len(ids) == 0 {
		return []models.Team{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// FindByMember returns teams listing the user as a member, plus teams the user created.
func (r *teamRepository) FindByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Team, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"members.user": userID},
			bson.M{"createdBy": userID},
		},
	}
	return r.find(ctx, filter)
}

// FindAll returns every team.
func (r *teamRepository) FindAll(ctx context.Context) ([]models.Team, error) {
	return r.find(ctx, bson.M{})
}

func (r *teamRepository) find(ctx context.Context, filter bson.M) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var teams []models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}

	if teams == nil {
		teams = []models.Team{}
	}

	return teams, nil
}

// Update updates a team's descriptive fields.
func (r *teamRepository) Update(ctx context.Context, team *models.Team) error {
	team.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":        team.Name,
			"description": team.Description,
			"updatedAt":   team.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": team.ID}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrTeamNotFound
	}

	return nil
}

// AddMember appends a member unless the user is already listed.
func (r *teamRepository) AddMember(ctx context.Context, teamID primitive.ObjectID, member models.TeamMember) error {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}

	filter := bson.M{
		"_id":          teamID,
		"members.user": bson.M{"$ne": member.User},
	}
	update := bson.M{
		"$push": bson.M{"members": member},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, teamID); err != nil {
			return err
		}
		return apperrors.ErrAlreadyMember
	}

	return nil
}

// RemoveMember pulls a member from the team.
func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID primitive.ObjectID) error {
	filter := bson.M{
		"_id":          teamID,
		"members.user": userID,
	}
	update := bson.M{
		"$pull": bson.M{"members": bson.M{"user": userID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return apperrors.ErrNotTeamMember
	}

	return nil
}

// Delete removes a team.
func (r *teamRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrTeamNotFound
	}

	return nil
}
