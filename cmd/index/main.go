package main

import (
	"context"
	"log"
	"time"

	"taskscope/internal/config"
	"taskscope/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("Starting migration...")

	cfg := config.Load()

	mongoDB := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	defer mongoDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	createIndexes(ctx, mongoDB.Database)

	log.Println("Migration completed successfully!")
}

func createIndexes(ctx context.Context, db *mongo.Database) {
	// Users indexes
	createIndex(ctx, db, database.UsersCollection, bson.D{{Key: "email", Value: 1}}, &options.IndexOptions{
		Unique: ptrBool(true),
	})
	createIndex(ctx, db, database.UsersCollection, bson.D{{Key: "teams", Value: 1}}, nil)

	// Teams indexes; membership drives every scope resolution
	createIndex(ctx, db, database.TeamsCollection, bson.D{{Key: "members.user", Value: 1}}, nil)
	createIndex(ctx, db, database.TeamsCollection, bson.D{{Key: "createdBy", Value: 1}}, nil)

	// Projects indexes; both the team list and the legacy single team are queried
	createIndex(ctx, db, database.ProjectsCollection, bson.D{{Key: "teams", Value: 1}}, nil)
	createIndex(ctx, db, database.ProjectsCollection, bson.D{{Key: "team", Value: 1}}, nil)
	createIndex(ctx, db, database.ProjectsCollection, bson.D{{Key: "createdAt", Value: 1}}, nil)

	// Tasks indexes
	createIndex(ctx, db, database.TasksCollection, bson.D{
		{Key: "project", Value: 1},
		{Key: "status", Value: 1},
	}, nil)
	createIndex(ctx, db, database.TasksCollection, bson.D{{Key: "assignedTo", Value: 1}}, nil)
	createIndex(ctx, db, database.TasksCollection, bson.D{{Key: "createdBy", Value: 1}}, nil)
	createIndex(ctx, db, database.TasksCollection, bson.D{{Key: "dueDate", Value: 1}}, nil)
	createIndex(ctx, db, database.TasksCollection, bson.D{{Key: "parentTask", Value: 1}}, nil)

	// History indexes
	createIndex(ctx, db, database.HistoryCollection, bson.D{{Key: "createdAt", Value: -1}}, nil)
	createIndex(ctx, db, database.HistoryCollection, bson.D{
		{Key: "entityType", Value: 1},
		{Key: "entityId", Value: 1},
		{Key: "createdAt", Value: -1},
	}, nil)
	createIndex(ctx, db, database.HistoryCollection, bson.D{{Key: "project", Value: 1}}, nil)

	// Notifications indexes
	createIndex(ctx, db, database.NotificationsCollection, bson.D{
		{Key: "recipient", Value: 1},
		{Key: "createdAt", Value: -1},
	}, nil)
	createIndex(ctx, db, database.NotificationsCollection, bson.D{
		{Key: "recipient", Value: 1},
		{Key: "isRead", Value: 1},
	}, nil)
}

func createIndex(ctx context.Context, db *mongo.Database, collection string, keys bson.D, opts *options.IndexOptions) {
	indexModel := mongo.IndexModel{
		Keys:    keys,
		Options: opts,
	}

	name, err := db.Collection(collection).Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		log.Printf("Warning: Failed to create index on %s: %v", collection, err)
		return
	}

	log.Printf("Created index %s on %s", name, collection)
}

func ptrBool(b bool) *bool {
	return &b
}
