package main

import (
	"context"
	"log"
	"time"

	"taskscope/internal/config"
	"taskscope/internal/database"
	"taskscope/internal/models"
	"taskscope/pkg/auth"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// seedUser is a login seeded with a known password.
type seedUser struct {
	email    string
	name     string
	password string
	role     string
}

var seedUsers = []seedUser{
	{email: "root@example.com", name: "Rita Root", password: "password123", role: models.RoleSuperAdmin},
	{email: "alice@example.com", name: "Alice Johnson", password: "password123", role: models.RoleAdmin},
	{email: "bob@example.com", name: "Bob Smith", password: "password456", role: models.RoleMember},
	{email: "carol@example.com", name: "Carol White", password: "password789", role: models.RoleMember},
}

func main() {
	log.Println("Starting seed...")

	cfg := config.Load()

	mongoDB := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	defer mongoDB.Close()

	ctx := context.Background()
	db := mongoDB.Database

	clearCollections(ctx, db,
		database.UsersCollection,
		database.TeamsCollection,
		database.ProjectsCollection,
		database.TasksCollection,
		database.HistoryCollection,
		database.NotificationsCollection,
	)

	now := time.Now()
	users := insertUsers(ctx, db, now)
	alice, bob, carol := users[1], users[2], users[3]

	// Alice runs platform with Bob; Carol is alone in design
	platform := insertTeam(ctx, db, "Platform", "Core services", alice, []primitive.ObjectID{bob}, now)
	design := insertTeam(ctx, db, "Design", "Product design", carol, nil, now)
	setUserTeams(ctx, db, map[primitive.ObjectID][]primitive.ObjectID{
		alice: {platform},
		bob:   {platform},
		carol: {design},
	})

	api := insertProject(ctx, db, "API v2", models.ProjectStatusActive, models.PriorityHigh, alice, []primitive.ObjectID{platform}, now)
	site := insertProject(ctx, db, "Website Redesign", models.ProjectStatusPlanning, models.PriorityMedium, carol, []primitive.ObjectID{platform, design}, now)

	overdue := now.Add(-48 * time.Hour)
	nextWeek := now.Add(7 * 24 * time.Hour)

	tasks := []models.Task{
		newTask("Define endpoints", api, alice, []primitive.ObjectID{alice}, models.StatusCompleted, models.PriorityHigh, nil, now),
		newTask("Implement auth", api, alice, []primitive.ObjectID{bob}, models.StatusInProgress, models.PriorityUrgent, &overdue, now),
		newTask("Load test", api, bob, []primitive.ObjectID{bob}, models.StatusNotStarted, models.PriorityMedium, &nextWeek, now),
		newTask("Wireframes", site, carol, []primitive.ObjectID{carol}, models.StatusInProgress, models.PriorityHigh, &nextWeek, now),
		newTask("Copy review", site, carol, []primitive.ObjectID{carol, bob}, models.StatusNotStarted, models.PriorityLow, nil, now),
	}
	insertTasks(ctx, db, tasks)

	// Dev tokens for exercising the API
	tokens := auth.NewJWTManager(cfg.AccessTokenSecret, cfg.AccessTokenExpiry)
	for i, u := range seedUsers {
		token, err := tokens.GenerateToken(users[i].Hex(), u.role)
		if err != nil {
			log.Fatalf("Failed to generate token for %s: %v", u.email, err)
		}
		log.Printf("%s (%s): %s", u.email, u.role, token)
	}

	log.Println("Seed completed successfully!")
}

func clearCollections(ctx context.Context, db *mongo.Database, collections ...string) {
	for _, name := range collections {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s: %v", name, err)
		}
	}
}

func insertUsers(ctx context.Context, db *mongo.Database, now time.Time) []primitive.ObjectID {
	docs := make([]interface{}, 0, len(seedUsers))
	for _, u := range seedUsers {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		docs = append(docs, models.User{
			Email:     u.email,
			Password:  hash,
			Name:      u.name,
			Role:      u.role,
			Teams:     []primitive.ObjectID{},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	result, err := db.Collection(database.UsersCollection).InsertMany(ctx, docs)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Seeded %d users", len(result.InsertedIDs))

	ids := make([]primitive.ObjectID, 0, len(result.InsertedIDs))
	for _, id := range result.InsertedIDs {
		ids = append(ids, id.(primitive.ObjectID))
	}
	return ids
}

func insertTeam(ctx context.Context, db *mongo.Database, name, description string, creator primitive.ObjectID, members []primitive.ObjectID, now time.Time) primitive.ObjectID {
	team := models.Team{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		Members:     []models.TeamMember{{User: creator, Role: models.TeamRoleAdmin, JoinedAt: now}},
		CreatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, m := range members {
		team.Members = append(team.Members, models.TeamMember{User: m, Role: models.TeamRoleMember, JoinedAt: now})
	}

	if _, err := db.Collection(database.TeamsCollection).InsertOne(ctx, team); err != nil {
		log.Fatalf("Failed to seed team %s: %v", name, err)
	}
	log.Printf("Seeded team %s", name)
	return team.ID
}

func setUserTeams(ctx context.Context, db *mongo.Database, teams map[primitive.ObjectID][]primitive.ObjectID) {
	coll := db.Collection(database.UsersCollection)
	for userID, ids := range teams {
		if _, err := coll.UpdateByID(ctx, userID, bson.M{"$set": bson.M{"teams": ids}}); err != nil {
			log.Fatalf("Failed to link user %s to teams: %v", userID.Hex(), err)
		}
	}
}

func insertProject(ctx context.Context, db *mongo.Database, name, status, priority string, creator primitive.ObjectID, teams []primitive.ObjectID, now time.Time) primitive.ObjectID {
	project := models.Project{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Teams:     teams,
		Status:    status,
		Priority:  priority,
		CreatedBy: creator,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := db.Collection(database.ProjectsCollection).InsertOne(ctx, project); err != nil {
		log.Fatalf("Failed to seed project %s: %v", name, err)
	}
	log.Printf("Seeded project %s", name)
	return project.ID
}

func newTask(title string, project, creator primitive.ObjectID, assignees []primitive.ObjectID, status models.TaskStatus, priority string, due *time.Time, now time.Time) models.Task {
	task := models.Task{
		ID:         primitive.NewObjectID(),
		Title:      title,
		Project:    project,
		AssignedTo: assignees,
		CreatedBy:  creator,
		Status:     status,
		Priority:   priority,
		DueDate:    due,
		Subtasks:   []models.Subtask{},
		Comments:   []models.Comment{},
		Tags:       []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if status == models.StatusCompleted {
		task.CompletedAt = &now
	}
	return task
}

func insertTasks(ctx context.Context, db *mongo.Database, tasks []models.Task) {
	docs := make([]interface{}, 0, len(tasks))
	for _, t := range tasks {
		docs = append(docs, t)
	}

	result, err := db.Collection(database.TasksCollection).InsertMany(ctx, docs)
	if err != nil {
		log.Fatalf("Failed to seed tasks: %v", err)
	}
	log.Printf("Seeded %d tasks", len(result.InsertedIDs))
}
