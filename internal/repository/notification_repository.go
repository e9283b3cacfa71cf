package repository

import (
	"context"
	"time"

	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository defines the interface for notification data operations.
// Every read or mutation is keyed by recipient so users only touch their own.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	FindByRecipient(ctx context.Context, recipient primitive.ObjectID, unreadOnly bool, page, limit int) ([]models.Notification, int, error)
	CountUnread(ctx context.Context, recipient primitive.ObjectID) (int, error)
	MarkRead(ctx context.Context, id, recipient primitive.ObjectID) error
	MarkAllRead(ctx context.Context, recipient primitive.ObjectID) (int, error)
	Delete(ctx context.Context, id, recipient primitive.ObjectID) error
}

// notificationRepository implements NotificationRepository using MongoDB.
type notificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *mongo.Database) NotificationRepository {
	return &notificationRepository{
		collection: db.Collection("notifications"),
	}
}

// Create persists a notification.
func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, n)
	return err
}

// FindByRecipient returns a page of the recipient's notifications, newest first.
func (r *notificationRepository) FindByRecipient(ctx context.Context, recipient primitive.ObjectID, unreadOnly bool, page, limit int) ([]models.Notification, int, error) {
	filter := bson.M{"recipient": recipient}
	if unreadOnly {
		filter["isRead"] = false
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := (page - 1) * limit
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var items []models.Notification
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}

	if items == nil {
		items = []models.Notification{}
	}

	return items, int(total), nil
}

// CountUnread returns the number of unread notifications for a recipient.
func (r *notificationRepository) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"recipient": recipient, "isRead": false})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// MarkRead marks one notification read. Already-read notifications keep their readAt.
func (r *notificationRepository) MarkRead(ctx context.Context, id, recipient primitive.ObjectID) error {
	filter := bson.M{"_id": id, "recipient": recipient}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "recipient": recipient, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "readAt": time.Now()}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, filter)
		if err != nil {
			return err
		}
		if count == 0 {
			return apperrors.ErrNotificationNotFound
		}
	}

	return nil
}

// MarkAllRead marks every unread notification of the recipient read.
func (r *notificationRepository) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) (int, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient": recipient, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "readAt": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return int(result.ModifiedCount), nil
}

// Delete removes one of the recipient's notifications.
func (r *notificationRepository) Delete(ctx context.Context, id, recipient primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "recipient": recipient})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrNotificationNotFound
	}

	return nil
}
