package repository

import (
	"context"
	"time"

	"taskscope/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultHistoryLimit = 100

// HistoryRepository defines the interface for audit trail operations.
// History is append-only: there is no update or delete.
type HistoryRepository interface {
	Create(ctx context.Context, entry *models.History) error
	Find(ctx context.Context, filter HistoryFilter) ([]models.History, error)
}

// historyRepository implements HistoryRepository using MongoDB.
type historyRepository struct {
	collection *mongo.Collection
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(db *mongo.Database) HistoryRepository {
	return &historyRepository{
		collection: db.Collection("history"),
	}
}

// Create appends a history record.
func (r *historyRepository) Create(ctx context.Context, entry *models.History) error {
	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// Find returns matching records, newest first, capped at filter.Limit (default 100).
func (r *historyRepository) Find(ctx context.Context, filter HistoryFilter) ([]models.History, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter.BSON(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.History
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []models.History{}
	}

	return entries, nil
}
