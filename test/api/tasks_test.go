//go:build api

package api

import (
	"net/http"
	"testing"
	"time"

	"taskscope/internal/models"
	"taskscope/test/api/testserver"
	"taskscope/test/fixtures"
	"taskscope/test/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// taskWorld is a team with a project and three users around it.
type taskWorld struct {
	lead, dev, outsider *testserver.User
	teamID, projectID   primitive.ObjectID
}

func newTaskWorld(t *testing.T) taskWorld {
	t.Helper()
	testServer.CleanupBetweenTests(t)

	authHelper := testserver.NewAuthHelper(testServer)
	w := taskWorld{
		lead:     authHelper.Member(t, "Lead"),
		dev:      authHelper.Member(t, "Dev"),
		outsider: authHelper.Member(t, "Outsider"),
	}
	w.teamID = testserver.NewTeamHelper(testServer).CreateTeam(t, w.lead, "Crew", w.dev)
	w.projectID = testserver.NewProjectHelper(testServer).CreateProject(t, w.lead, "Launch", w.teamID)
	return w
}

func notificationTypes(t *testing.T, user *testserver.User) []interface{} {
	t.Helper()
	w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/notifications", user.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var types []interface{}
	for _, n := range testutil.Items(t, testutil.ParseAPIResponse(t, w)) {
		types = append(types, n["type"])
	}
	return types
}

// TestCreateTask tests the POST /api/v1/tasks endpoint and its side effects.
func TestCreateTask(t *testing.T) {
	world := newTaskWorld(t)
	taskHelper := testserver.NewTaskHelper(testServer)

	t.Run("success - defaults, derived fields and assignment notice", func(t *testing.T) {
		due := time.Now().Add(-time.Hour)
		data := taskHelper.CreateTask(t, world.lead, models.CreateTaskRequest{
			Title:      "Ship it",
			Project:    world.projectID.Hex(),
			AssignedTo: []string{world.dev.ID.Hex(), world.lead.ID.Hex()},
			DueDate:    &due,
			Subtasks:   []string{"build", "deploy"},
		})

		assert.Equal(t, string(models.StatusNotStarted), data["status"])
		assert.Equal(t, models.PriorityMedium, data["priority"])
		assert.Equal(t, true, data["isOverdue"])
		assert.Equal(t, float64(0), data["completionPercentage"])

		// The actor is never notified about their own change
		assert.Contains(t, notificationTypes(t, world.dev), models.NotificationTaskAssigned)
		assert.NotContains(t, notificationTypes(t, world.lead), models.NotificationTaskAssigned)

		id := testserver.GetIDFromResponse(t, data)
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/history?entityType=task&entityId="+id, world.dev.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		items := testutil.Items(t, testutil.ParseAPIResponse(t, w))
		require.Len(t, items, 1)
		assert.Equal(t, models.ActionCreated, items[0]["action"])
		assert.Equal(t, "Ship it", items[0]["entityName"])
	})

	t.Run("error - project outside scope", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/tasks", world.outsider.Token,
			models.CreateTaskRequest{Title: "Intrude", Project: world.projectID.Hex()})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("error - invalid priority", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/tasks", world.lead.Token,
			models.CreateTaskRequest{Title: "Odd", Project: world.projectID.Hex(), Priority: "critical"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("error - nesting deeper than one level", func(t *testing.T) {
		parent := taskHelper.CreateTask(t, world.lead, models.CreateTaskRequest{Title: "Parent", Project: world.projectID.Hex()})
		child := taskHelper.CreateTask(t, world.lead, models.CreateTaskRequest{
			Title:      "Child",
			Project:    world.projectID.Hex(),
			ParentTask: testserver.GetIDFromResponse(t, parent),
		})

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/tasks", world.lead.Token, models.CreateTaskRequest{
			Title:      "Grandchild",
			Project:    world.projectID.Hex(),
			ParentTask: testserver.GetIDFromResponse(t, child),
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestListTasks tests the GET /api/v1/tasks endpoint filters and visibility.
func TestListTasks(t *testing.T) {
	world := newTaskWorld(t)
	taskHelper := testserver.NewTaskHelper(testServer)

	otherTeam := testserver.NewTeamHelper(testServer).CreateTeam(t, world.outsider, "Elsewhere")
	otherProject := testserver.NewProjectHelper(testServer).CreateProject(t, world.outsider, "Hidden", otherTeam)

	taskHelper.SeedTask(t, fixtures.NewTask().WithTitle("urgent one").InProject(world.projectID).WithPriority(models.PriorityUrgent).AssignedTo(world.dev.ID).BuildPtr())
	taskHelper.SeedTask(t, fixtures.NewTask().WithTitle("done").InProject(world.projectID).Completed().BuildPtr())
	taskHelper.SeedTask(t, fixtures.NewTask().WithTitle("hidden").InProject(otherProject).AssignedTo(world.dev.ID).BuildPtr())

	titles := func(user *testserver.User, query string) []string {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/tasks"+query, user.Token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var out []string
		for _, task := range testutil.Items(t, testutil.ParseAPIResponse(t, w)) {
			out = append(out, task["title"].(string))
		}
		return out
	}

	t.Run("assignment does not grant visibility", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"urgent one", "done"}, titles(world.dev, ""))
	})

	t.Run("status filter", func(t *testing.T) {
		assert.Equal(t, []string{"done"}, titles(world.dev, "?status=completed"))
	})

	t.Run("priority and assignee filters", func(t *testing.T) {
		assert.Equal(t, []string{"urgent one"}, titles(world.lead, "?priority=urgent&assignedTo="+world.dev.ID.Hex()))
	})

	t.Run("error - unknown status", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/tasks?status=blocked", world.dev.Token, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestUpdateTask tests status changes, reassignment and their notifications.
func TestUpdateTask(t *testing.T) {
	world := newTaskWorld(t)
	taskHelper := testserver.NewTaskHelper(testServer)
	newcomer := testserver.NewAuthHelper(testServer).Member(t, "Newcomer")

	data := taskHelper.CreateTask(t, world.lead, models.CreateTaskRequest{
		Title:      "Refactor",
		Project:    world.projectID.Hex(),
		AssignedTo: []string{world.dev.ID.Hex()},
	})
	path := "/api/v1/tasks/" + testserver.GetIDFromResponse(t, data)

	status := string(models.StatusCompleted)
	assignees := []string{world.dev.ID.Hex(), newcomer.ID.Hex()}
	w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, path, world.lead.Token, models.UpdateTaskRequest{
		Status:     &status,
		AssignedTo: &assignees,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := testutil.ParseAPIResponse(t, w)
	assert.Equal(t, status, resp.Data["status"])
	assert.NotEmpty(t, resp.Data["completedAt"])

	assert.Contains(t, notificationTypes(t, world.dev), models.NotificationTaskStatusChanged)

	newcomerTypes := notificationTypes(t, newcomer)
	assert.Contains(t, newcomerTypes, models.NotificationTaskAssigned)
	assert.Contains(t, newcomerTypes, models.NotificationTaskStatusChanged)

	t.Run("error - outsider cannot update", func(t *testing.T) {
		title := "Mine now"
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, path, world.outsider.Token, models.UpdateTaskRequest{Title: &title})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("reopening clears completion", func(t *testing.T) {
		reopened := string(models.StatusInProgress)
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, path, world.dev.Token, models.UpdateTaskRequest{Status: &reopened})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NotContains(t, testutil.ParseAPIResponse(t, w).Data, "completedAt")
	})
}

// TestSubtasksAndComments tests the subtask and comment endpoints.
func TestSubtasksAndComments(t *testing.T) {
	world := newTaskWorld(t)
	taskHelper := testserver.NewTaskHelper(testServer)

	data := taskHelper.CreateTask(t, world.lead, models.CreateTaskRequest{
		Title:      "Checklist",
		Project:    world.projectID.Hex(),
		AssignedTo: []string{world.dev.ID.Hex()},
		Subtasks:   []string{"one"},
	})
	path := "/api/v1/tasks/" + testserver.GetIDFromResponse(t, data)

	t.Run("add and toggle subtasks", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, path+"/subtasks", world.dev.Token,
			models.CreateSubtaskRequest{Title: "two"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		task := testserver.ParseResponseData[models.TaskView](t, testutil.ParseAPIResponse(t, w).Data)
		require.Len(t, task.Subtasks, 2)

		w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, path+"/subtasks/"+task.Subtasks[0].ID.Hex()+"/toggle", world.dev.Token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		task = testserver.ParseResponseData[models.TaskView](t, testutil.ParseAPIResponse(t, w).Data)
		assert.True(t, task.Subtasks[0].Completed)
		assert.Equal(t, 50, task.CompletionPercentage)
	})

	t.Run("error - unknown subtask", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, path+"/subtasks/"+primitive.NewObjectID().Hex()+"/toggle", world.dev.Token, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("comment notifies assignees and mentions", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, path+"/comments", world.lead.Token, models.CreateCommentRequest{
			Text:     "Please review",
			Mentions: []string{world.outsider.ID.Hex()},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		assert.Contains(t, notificationTypes(t, world.dev), models.NotificationCommentAdded)
		assert.Contains(t, notificationTypes(t, world.outsider), models.NotificationMention)
	})
}

// TestDeleteTask tests the DELETE /api/v1/tasks/:taskId endpoint.
func TestDeleteTask(t *testing.T) {
	world := newTaskWorld(t)
	taskHelper := testserver.NewTaskHelper(testServer)

	data := taskHelper.CreateTask(t, world.lead, models.CreateTaskRequest{Title: "Temporary", Project: world.projectID.Hex()})
	path := "/api/v1/tasks/" + testserver.GetIDFromResponse(t, data)

	w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, path, world.outsider.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, path, world.dev.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, path, world.lead.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
