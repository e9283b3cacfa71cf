package service

import (
	"context"
	"sync"

	"taskscope/internal/authz"
	authzmocks "taskscope/internal/authz/mocks"
	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"
	"taskscope/internal/pipeline"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

// fakeEffects records the mutations handed to the pipeline.
type fakeEffects struct {
	mu        sync.Mutex
	mutations []pipeline.Mutation
	err       *apperrors.SideEffectError
}

func (f *fakeEffects) Run(ctx context.Context, m pipeline.Mutation) *pipeline.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations = append(f.mutations, m)
	if f.err != nil {
		return &pipeline.Outcome{Stage: pipeline.Stage(f.err.Stage), Err: f.err}
	}
	return &pipeline.Outcome{Stage: pipeline.StageDone}
}

func (f *fakeEffects) last() pipeline.Mutation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutations[len(f.mutations)-1]
}

// scopeResolver returns a resolver mock that always resolves to scope.
func scopeResolver(ctrl *gomock.Controller, scope *authz.Scope) *authzmocks.MockResolver {
	r := authzmocks.NewMockResolver(ctrl)
	r.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(scope, nil).AnyTimes()
	return r
}

func member(id primitive.ObjectID) models.Actor {
	return models.NewActor(id, models.RoleMember)
}

func superadmin() models.Actor {
	return models.NewActor(primitive.NewObjectID(), models.RoleSuperAdmin)
}

func strPtr(s string) *string {
	return &s
}

// fakeUsers serves users from a fixed list.
type fakeUsers struct {
	users []models.User
}

func (f *fakeUsers) GetUser(ctx context.Context, id string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID.Hex() == id {
			return &f.users[i], nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) GetUsers(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		for _, u := range f.users {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUsers) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return f.users, nil
}

func (f *fakeUsers) UpdateRole(ctx context.Context, actor models.Actor, id string, role string) (*Mutation[*models.User], error) {
	return nil, apperrors.ErrUnauthorized
}
