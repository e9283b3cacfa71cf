package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"
	"taskscope/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeHistory struct {
	mu      sync.Mutex
	entries []*models.History
	err     error
}

func (f *fakeHistory) Create(ctx context.Context, entry *models.History) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = primitive.NewObjectID()
	f.entries = append(f.entries, entry)
	return nil
}

type fakeNotifications struct {
	mu     sync.Mutex
	stored []*models.Notification
	// failFor makes Create fail for a single recipient.
	failFor primitive.ObjectID
	ctxErrs []error
}

func (f *fakeNotifications) Create(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if !f.failFor.IsZero() && n.Recipient == f.failFor {
		return errors.New("write failed")
	}
	n.ID = primitive.NewObjectID()
	f.stored = append(f.stored, n)
	return nil
}

func (f *fakeNotifications) forRecipient(id primitive.ObjectID) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var types []string
	for _, n := range f.stored {
		if n.Recipient == id {
			types = append(types, n.Type)
		}
	}
	return types
}

type fakeQueue struct {
	jobs []queue.PushJob
	err  error
}

func (f *fakeQueue) Enqueue(job queue.PushJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

type users struct {
	author, a, b, c primitive.ObjectID
}

func newUsers() users {
	return users{
		author: primitive.NewObjectID(),
		a:      primitive.NewObjectID(),
		b:      primitive.NewObjectID(),
		c:      primitive.NewObjectID(),
	}
}

func newTask(assignees ...primitive.ObjectID) *models.Task {
	return &models.Task{
		ID:         primitive.NewObjectID(),
		Title:      "Write docs",
		Project:    primitive.NewObjectID(),
		AssignedTo: assignees,
		Status:     models.StatusNotStarted,
		Priority:   models.PriorityMedium,
	}
}

func TestPipeline_CommentMentionAndAssignee(t *testing.T) {
	u := newUsers()
	hist, notes, q := &fakeHistory{}, &fakeNotifications{}, &fakeQueue{}
	p := New(hist, notes, q)

	task := newTask(u.a, u.author)
	comment := &models.Comment{
		ID:       primitive.NewObjectID(),
		Author:   u.author,
		Text:     "ping",
		Mentions: []primitive.ObjectID{u.a, u.author},
	}

	out := p.Run(context.Background(), Mutation{
		Kind:    CommentCreated,
		Actor:   models.NewActor(u.author, models.RoleMember),
		Task:    task,
		Comment: comment,
	})

	require.Nil(t, out.Err)
	assert.Equal(t, StageDone, out.Stage)
	assert.ElementsMatch(t,
		[]string{models.NotificationCommentAdded, models.NotificationMention},
		notes.forRecipient(u.a))
	assert.Empty(t, notes.forRecipient(u.author))
	assert.Len(t, q.jobs, 2)

	require.Len(t, hist.entries, 1)
	assert.Equal(t, models.ActionCommented, hist.entries[0].Action)
	assert.Equal(t, models.EntityTask, hist.entries[0].EntityType)
	assert.Equal(t, comment.ID.Hex(), hist.entries[0].Details["commentId"])
}

func TestPipeline_ReassignmentNotifiesOnlyNewcomers(t *testing.T) {
	u := newUsers()
	hist, notes := &fakeHistory{}, &fakeNotifications{}
	p := New(hist, notes, nil)

	prev := newTask(u.a, u.b)
	cur := *prev
	cur.AssignedTo = []primitive.ObjectID{u.b, u.c}

	out := p.Run(context.Background(), Mutation{
		Kind:     TaskUpdated,
		Actor:    models.NewActor(u.author, models.RoleAdmin),
		Task:     &cur,
		Previous: prev,
	})

	require.Nil(t, out.Err)
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, u.c, out.Notifications[0].Recipient)
	assert.Equal(t, models.NotificationTaskAssigned, out.Notifications[0].Type)
	assert.Empty(t, notes.forRecipient(u.a))
	assert.Empty(t, notes.forRecipient(u.b))

	require.Len(t, hist.entries, 1)
	assert.Equal(t, models.ActionAssigned, hist.entries[0].Action)
}

func TestPipeline_StatusChange(t *testing.T) {
	u := newUsers()
	notes := &fakeNotifications{}
	p := New(&fakeHistory{}, notes, nil)

	prev := newTask(u.a)
	cur := *prev
	cur.Status = models.StatusInProgress
	cur.AssignedTo = []primitive.ObjectID{u.a, u.b, u.author}

	out := p.Run(context.Background(), Mutation{
		Kind:     TaskUpdated,
		Actor:    models.NewActor(u.author, models.RoleMember),
		Task:     &cur,
		Previous: prev,
	})

	require.Nil(t, out.Err)
	assert.Equal(t, []string{models.NotificationTaskStatusChanged}, notes.forRecipient(u.a))
	assert.ElementsMatch(t, []string{models.NotificationTaskAssigned, models.NotificationTaskStatusChanged}, notes.forRecipient(u.b))
	assert.Empty(t, notes.forRecipient(u.author))
	assert.Equal(t, models.ActionUpdated, out.History.Action)
	assert.Equal(t, "not_started", out.History.Details["fromStatus"])
	assert.Equal(t, "in_progress", out.History.Details["toStatus"])
}

func TestPipeline_CompletionNotifiesEveryCurrentAssignee(t *testing.T) {
	u := newUsers()
	notes := &fakeNotifications{}
	p := New(&fakeHistory{}, notes, nil)

	prev := newTask(u.a)
	cur := *prev
	cur.Status = models.StatusCompleted
	cur.AssignedTo = []primitive.ObjectID{u.a, u.c}

	out := p.Run(context.Background(), Mutation{
		Kind:     TaskUpdated,
		Actor:    models.NewActor(u.author, models.RoleMember),
		Task:     &cur,
		Previous: prev,
	})

	require.Nil(t, out.Err)
	assert.Equal(t, []string{models.NotificationTaskStatusChanged}, notes.forRecipient(u.a))
	assert.ElementsMatch(t, []string{models.NotificationTaskAssigned, models.NotificationTaskStatusChanged}, notes.forRecipient(u.c))
	assert.Equal(t, models.ActionCompleted, out.History.Action)
}

func TestPipeline_ProjectCreatedNotifiesTeamMembers(t *testing.T) {
	u := newUsers()
	notes := &fakeNotifications{}
	p := New(&fakeHistory{}, notes, nil)

	t1 := models.Team{ID: primitive.NewObjectID(), CreatedBy: u.author,
		Members: []models.TeamMember{{User: u.a}, {User: u.b}}}
	t2 := models.Team{ID: primitive.NewObjectID(), CreatedBy: u.b,
		Members: []models.TeamMember{{User: u.c}, {User: u.a}}}
	project := &models.Project{ID: primitive.NewObjectID(), Name: "Website", Teams: []primitive.ObjectID{t1.ID, t2.ID}}

	out := p.Run(context.Background(), Mutation{
		Kind:    ProjectCreated,
		Actor:   models.NewActor(u.author, models.RoleAdmin),
		Project: project,
		Teams:   []models.Team{t1, t2},
	})

	require.Nil(t, out.Err)
	recipients := make([]primitive.ObjectID, 0, len(out.Notifications))
	for _, n := range out.Notifications {
		assert.Equal(t, models.NotificationProjectCreated, n.Type)
		require.NotNil(t, n.Project)
		assert.Equal(t, project.ID, *n.Project)
		recipients = append(recipients, n.Recipient)
	}
	assert.ElementsMatch(t, []primitive.ObjectID{u.a, u.b, u.c}, recipients)
}

func TestPipeline_TaskDeletedHasNoNotifications(t *testing.T) {
	u := newUsers()
	hist := &fakeHistory{}
	p := New(hist, &fakeNotifications{}, nil)

	out := p.Run(context.Background(), Mutation{
		Kind:  TaskDeleted,
		Actor: models.NewActor(u.author, models.RoleMember),
		Task:  newTask(u.a),
	})

	assert.Equal(t, StageDone, out.Stage)
	assert.Empty(t, out.Notifications)
	require.Len(t, hist.entries, 1)
	assert.Equal(t, models.ActionDeleted, hist.entries[0].Action)
}

func TestPipeline_HistoryFailureStillNotifies(t *testing.T) {
	u := newUsers()
	notes := &fakeNotifications{}
	p := New(&fakeHistory{err: errors.New("history down")}, notes, nil)

	out := p.Run(context.Background(), Mutation{
		Kind:  TaskCreated,
		Actor: models.NewActor(u.author, models.RoleMember),
		Task:  newTask(u.a),
	})

	require.NotNil(t, out.Err)
	assert.Equal(t, string(StageHistoryWritten), out.Err.Stage)
	assert.ErrorIs(t, out.Error(), apperrors.ErrSideEffectPartialFailure)
	assert.Equal(t, StageNotificationsEmitted, out.Stage)
	assert.Nil(t, out.History)
	assert.Equal(t, []string{models.NotificationTaskAssigned}, notes.forRecipient(u.a))
	assert.Len(t, out.Warnings(), 1)
}

func TestPipeline_NotificationFailureKeepsOthers(t *testing.T) {
	u := newUsers()
	notes := &fakeNotifications{failFor: u.b}
	p := New(&fakeHistory{}, notes, nil)

	out := p.Run(context.Background(), Mutation{
		Kind:  TaskCreated,
		Actor: models.NewActor(u.author, models.RoleMember),
		Task:  newTask(u.a, u.b, u.c),
	})

	require.NotNil(t, out.Err)
	assert.Equal(t, string(StageNotificationsEmitted), out.Err.Stage)
	assert.Len(t, out.Err.Errs, 1)
	require.Len(t, out.Notifications, 2)
	assert.Equal(t, u.a, out.Notifications[0].Recipient)
	assert.Equal(t, u.c, out.Notifications[1].Recipient)
	assert.NotNil(t, out.History)
}

func TestPipeline_PushFailureIsNotAnError(t *testing.T) {
	u := newUsers()
	p := New(&fakeHistory{}, &fakeNotifications{}, &fakeQueue{err: queue.ErrQueueFull})

	out := p.Run(context.Background(), Mutation{
		Kind:  TaskCreated,
		Actor: models.NewActor(u.author, models.RoleMember),
		Task:  newTask(u.a, u.b),
	})

	assert.Nil(t, out.Err)
	assert.Equal(t, StageDone, out.Stage)
	assert.Equal(t, 2, out.PushFailures)
	assert.Len(t, out.Notifications, 2)
}

func TestPipeline_PushJobCarriesNotification(t *testing.T) {
	u := newUsers()
	q := &fakeQueue{}
	p := New(&fakeHistory{}, &fakeNotifications{}, q)

	task := newTask(u.a)
	out := p.Run(context.Background(), Mutation{
		Kind:  TaskCreated,
		Actor: models.NewActor(u.author, models.RoleMember),
		Task:  task,
	})

	require.Len(t, q.jobs, 1)
	ev := q.jobs[0].Event
	assert.Equal(t, out.Notifications[0].ID.Hex(), ev.NotificationID)
	assert.Equal(t, u.a.Hex(), ev.RecipientID)
	assert.Equal(t, u.author.Hex(), ev.SenderID)
	assert.Equal(t, task.ID.Hex(), ev.TaskID)
	assert.Equal(t, task.Project.Hex(), ev.ProjectID)
}

func TestPipeline_IgnoresCallerCancellation(t *testing.T) {
	u := newUsers()
	hist, notes := &fakeHistory{}, &fakeNotifications{}
	p := New(hist, notes, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := p.Run(ctx, Mutation{
		Kind:  TaskCreated,
		Actor: models.NewActor(u.author, models.RoleMember),
		Task:  newTask(u.a),
	})

	assert.Equal(t, StageDone, out.Stage)
	assert.Len(t, hist.entries, 1)
	for _, err := range notes.ctxErrs {
		assert.NoError(t, err)
	}
}

func TestPipeline_DefaultsTimestamp(t *testing.T) {
	u := newUsers()
	p := New(&fakeHistory{}, &fakeNotifications{}, nil)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	out := p.Run(context.Background(), Mutation{
		Kind:  TaskCreated,
		Actor: models.NewActor(u.author, models.RoleMember),
		Task:  newTask(u.a),
	})

	assert.Equal(t, fixed, out.History.CreatedAt)
	assert.Equal(t, fixed, out.Notifications[0].CreatedAt)
}

func TestPipeline_MemberAdded(t *testing.T) {
	u := newUsers()
	notes := &fakeNotifications{}
	p := New(&fakeHistory{}, notes, nil)

	team := &models.Team{ID: primitive.NewObjectID(), Name: "Platform", CreatedBy: u.author}
	out := p.Run(context.Background(), Mutation{
		Kind:   MemberAdded,
		Actor:  models.NewActor(u.author, models.RoleMember),
		Team:   team,
		Member: &models.TeamMember{User: u.c, Role: models.TeamRoleMember},
	})

	require.Nil(t, out.Err)
	assert.Equal(t, []string{models.NotificationTeamAdded}, notes.forRecipient(u.c))
	assert.Equal(t, models.ActionAssigned, out.History.Action)
	assert.Equal(t, models.EntityTeam, out.History.EntityType)
	assert.Equal(t, u.c.Hex(), out.History.Details["member"])
}

func TestBuildHistory(t *testing.T) {
	u := newUsers()
	prev := newTask(u.a)

	tests := []struct {
		name   string
		mutate func(t *models.Task)
		want   string
	}{
		{"completed", func(t *models.Task) { t.Status = models.StatusCompleted }, models.ActionCompleted},
		{"assignees only", func(t *models.Task) { t.AssignedTo = []primitive.ObjectID{u.b} }, models.ActionAssigned},
		{"title", func(t *models.Task) { t.Title = "Other" }, models.ActionUpdated},
		{"assignees and title", func(t *models.Task) {
			t.Title = "Other"
			t.AssignedTo = []primitive.ObjectID{u.b}
		}, models.ActionUpdated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := *prev
			tt.mutate(&cur)
			entry, err := BuildHistory(Mutation{
				Kind:     TaskUpdated,
				Actor:    models.NewActor(u.author, models.RoleMember),
				Task:     &cur,
				Previous: prev,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, entry.Action)
			assert.Equal(t, prev.ID, entry.EntityID)
			require.NotNil(t, entry.Project)
			assert.Equal(t, prev.Project, *entry.Project)
		})
	}

	t.Run("missing entity", func(t *testing.T) {
		_, err := BuildHistory(Mutation{Kind: ProjectCreated})
		assert.Error(t, err)
	})
}

func TestTaskChanges(t *testing.T) {
	prev := newTask()
	cur := *prev
	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	cur.DueDate = &due
	cur.Tags = []string{"docs"}
	cur.Subtasks = []models.Subtask{{Title: "outline"}}

	assert.Equal(t, []string{"dueDate", "tags", "subtasks"}, TaskChanges(prev, &cur))
	assert.Empty(t, TaskChanges(prev, prev))
}

func TestPipeline_RoleChangeRecordsUserHistory(t *testing.T) {
	u := newUsers()
	hist := &fakeHistory{}
	notes := &fakeNotifications{}
	p := New(hist, notes, nil)

	target := &models.User{ID: u.a, Name: "Ada", Role: models.RoleAdmin}
	out := p.Run(context.Background(), Mutation{
		Kind:    RoleChanged,
		Actor:   models.NewActor(u.author, models.RoleSuperAdmin),
		User:    target,
		Details: map[string]interface{}{"fromRole": models.RoleMember, "toRole": models.RoleAdmin},
	})

	require.Nil(t, out.Err)
	assert.Equal(t, StageDone, out.Stage)
	assert.Empty(t, out.Notifications)

	require.Len(t, hist.entries, 1)
	entry := hist.entries[0]
	assert.Equal(t, models.EntityUser, entry.EntityType)
	assert.Equal(t, u.a, entry.EntityID)
	assert.Equal(t, "Ada", entry.EntityName)
	assert.Equal(t, models.ActionUpdated, entry.Action)
	assert.Nil(t, entry.Project)
	assert.Equal(t, models.RoleAdmin, entry.Details["toRole"])
}
