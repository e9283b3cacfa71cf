//go:build api

package testserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"taskscope/internal/models"
	"taskscope/test/fixtures"
	"taskscope/test/testutil"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a seeded user with a bearer token for it.
type User struct {
	*models.User
	Token string
}

// AuthHelper seeds users and issues tokens.
type AuthHelper struct {
	server *TestServer
}

// NewAuthHelper creates a new auth helper.
func NewAuthHelper(server *TestServer) *AuthHelper {
	return &AuthHelper{server: server}
}

// SeedUser inserts a user with the given global role and signs a token for it.
func (ah *AuthHelper) SeedUser(t *testing.T, name, role string) *User {
	t.Helper()

	user := fixtures.NewUser().WithName(name).WithRole(role).BuildPtr()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, ah.server.UserRepo.Create(ctx, user), "failed to seed user")

	token, err := ah.server.JWTManager.GenerateToken(user.ID.Hex(), user.Role)
	require.NoError(t, err, "failed to sign token")

	return &User{User: user, Token: token}
}

// Member seeds a user with the member role.
func (ah *AuthHelper) Member(t *testing.T, name string) *User {
	t.Helper()
	return ah.SeedUser(t, name, models.RoleMember)
}

// TeamHelper provides team-related helpers for API tests.
type TeamHelper struct {
	server *TestServer
}

// NewTeamHelper creates a new team helper.
func NewTeamHelper(server *TestServer) *TeamHelper {
	return &TeamHelper{server: server}
}

// CreateTeam creates a team through the API and returns its id.
func (th *TeamHelper) CreateTeam(t *testing.T, creator *User, name string, members ...*User) primitive.ObjectID {
	t.Helper()

	req := models.CreateTeamRequest{Name: name}
	for _, m := range members {
		req.Members = append(req.Members, m.ID.Hex())
	}

	w := testutil.MakeAuthRequest(t, th.server.Router, http.MethodPost, "/api/v1/teams", creator.Token, req)
	require.Equal(t, http.StatusCreated, w.Code, "create team should return 201, got: %s", w.Body.String())

	return GetObjectIDFromResponse(t, testutil.ParseAPIResponse(t, w).Data)
}

// ProjectHelper provides project-related helpers for API tests.
type ProjectHelper struct {
	server *TestServer
}

// NewProjectHelper creates a new project helper.
func NewProjectHelper(server *TestServer) *ProjectHelper {
	return &ProjectHelper{server: server}
}

// CreateProject creates a project linked to teams through the API and returns its id.
func (ph *ProjectHelper) CreateProject(t *testing.T, actor *User, name string, teams ...primitive.ObjectID) primitive.ObjectID {
	t.Helper()

	req := models.CreateProjectRequest{Name: name}
	for _, id := range teams {
		req.Teams = append(req.Teams, id.Hex())
	}

	w := testutil.MakeAuthRequest(t, ph.server.Router, http.MethodPost, "/api/v1/projects", actor.Token, req)
	require.Equal(t, http.StatusCreated, w.Code, "create project should return 201, got: %s", w.Body.String())

	return GetObjectIDFromResponse(t, testutil.ParseAPIResponse(t, w).Data)
}

// TaskHelper provides task-related helpers for API tests.
type TaskHelper struct {
	server *TestServer
}

// NewTaskHelper creates a new task helper.
func NewTaskHelper(server *TestServer) *TaskHelper {
	return &TaskHelper{server: server}
}

// CreateTask creates a task through the API and returns the response data.
func (th *TaskHelper) CreateTask(t *testing.T, actor *User, req models.CreateTaskRequest) map[string]interface{} {
	t.Helper()

	w := testutil.MakeAuthRequest(t, th.server.Router, http.MethodPost, "/api/v1/tasks", actor.Token, req)
	require.Equal(t, http.StatusCreated, w.Code, "create task should return 201, got: %s", w.Body.String())

	return testutil.ParseAPIResponse(t, w).Data
}

// SeedTask inserts a task directly, bypassing visibility checks and side effects.
func (th *TaskHelper) SeedTask(t *testing.T, task *models.Task) *models.Task {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, th.server.TaskRepo.Create(ctx, task), "failed to seed task")
	return task
}

// ParseResponseData is a generic helper to parse response data into a specific type.
func ParseResponseData[T any](t *testing.T, data map[string]interface{}) T {
	t.Helper()

	jsonBytes, err := json.Marshal(data)
	require.NoError(t, err, "failed to marshal response data")

	var result T
	err = json.Unmarshal(jsonBytes, &result)
	require.NoError(t, err, "failed to unmarshal response data")

	return result
}

// GetIDFromResponse extracts the id field from response data.
func GetIDFromResponse(t *testing.T, data map[string]interface{}) string {
	t.Helper()

	id, ok := data["id"].(string)
	require.True(t, ok, "id should be a string in response data")
	return id
}

// GetObjectIDFromResponse extracts and parses the ID as ObjectID.
func GetObjectIDFromResponse(t *testing.T, data map[string]interface{}) primitive.ObjectID {
	t.Helper()

	oid, err := primitive.ObjectIDFromHex(GetIDFromResponse(t, data))
	require.NoError(t, err, "failed to parse ObjectID")

	return oid
}
