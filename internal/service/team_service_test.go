package service

import (
	"context"
	"testing"

	"taskscope/internal/authz"
	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"
	"taskscope/internal/pipeline"
	repomocks "taskscope/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func newTestTeam(creator primitive.ObjectID, members ...models.TeamMember) *models.Team {
	return &models.Team{
		ID:        primitive.NewObjectID(),
		Name:      "Platform",
		CreatedBy: creator,
		Members:   append([]models.TeamMember{{User: creator, Role: models.TeamRoleAdmin}}, members...),
	}
}

func TestNewTeamService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewTeamService(
		repomocks.NewMockTeamRepository(ctrl),
		repomocks.NewMockUserRepository(ctrl),
		scopeResolver(ctrl, authz.UnboundedScope(superadmin())),
		&fakeEffects{},
	)

	assert.NotNil(t, service)
}

func TestTeamService_CreateTeam(t *testing.T) {
	creatorID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	t.Run("creator becomes admin and listed users join as members", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockUserRepo := repomocks.NewMockUserRepository(ctrl)
		effects := &fakeEffects{}

		mockTeamRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, team *models.Team) error {
				team.ID = primitive.NewObjectID()
				require.Len(t, team.Members, 2)
				assert.Equal(t, creatorID, team.Members[0].User)
				assert.Equal(t, models.TeamRoleAdmin, team.Members[0].Role)
				assert.Equal(t, otherID, team.Members[1].User)
				assert.Equal(t, models.TeamRoleMember, team.Members[1].Role)
				return nil
			})
		mockUserRepo.EXPECT().
			AddTeam(gomock.Any(), []primitive.ObjectID{creatorID, otherID}, gomock.Any()).
			Return(nil)

		service := NewTeamService(mockTeamRepo, mockUserRepo, scopeResolver(ctrl, authz.NewScope(member(creatorID), nil, nil)), effects)
		result, err := service.CreateTeam(context.Background(), member(creatorID), &models.CreateTeamRequest{
			Name:    "Platform",
			Members: []string{otherID.Hex(), creatorID.Hex()},
		})

		require.NoError(t, err)
		assert.Empty(t, result.Warnings)
		assert.Equal(t, "Platform", result.Entity.Name)
		assert.Equal(t, pipeline.TeamCreated, effects.last().Kind)
	})

	t.Run("membership sync failure becomes a warning", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockUserRepo := repomocks.NewMockUserRepository(ctrl)

		mockTeamRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		mockUserRepo.EXPECT().AddTeam(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)

		service := NewTeamService(mockTeamRepo, mockUserRepo, scopeResolver(ctrl, authz.NewScope(member(creatorID), nil, nil)), &fakeEffects{})
		result, err := service.CreateTeam(context.Background(), member(creatorID), &models.CreateTeamRequest{Name: "Platform"})

		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "membership sync failed")
	})

	t.Run("rejects malformed member ids", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewTeamService(repomocks.NewMockTeamRepository(ctrl), repomocks.NewMockUserRepository(ctrl), scopeResolver(ctrl, authz.NewScope(member(creatorID), nil, nil)), &fakeEffects{})
		_, err := service.CreateTeam(context.Background(), member(creatorID), &models.CreateTeamRequest{Name: "Platform", Members: []string{"nope"}})

		assert.ErrorIs(t, err, apperrors.ErrInvalidID)
	})
}

func TestTeamService_ListTeams(t *testing.T) {
	t.Run("superadmin lists every team", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		actor := superadmin()
		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockTeamRepo.EXPECT().FindAll(gomock.Any()).Return([]models.Team{{Name: "A"}, {Name: "B"}}, nil)

		service := NewTeamService(mockTeamRepo, repomocks.NewMockUserRepository(ctrl), scopeResolver(ctrl, authz.UnboundedScope(actor)), &fakeEffects{})
		result, err := service.ListTeams(context.Background(), actor)

		require.NoError(t, err)
		assert.Len(t, result.Items, 2)
	})

	t.Run("member lists only scoped teams", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		actor := member(primitive.NewObjectID())
		teamID := primitive.NewObjectID()
		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockTeamRepo.EXPECT().
			FindByIDs(gomock.Any(), []primitive.ObjectID{teamID}).
			Return([]models.Team{{ID: teamID, Name: "A"}}, nil)

		scope := authz.NewScope(actor, []primitive.ObjectID{teamID}, nil)
		service := NewTeamService(mockTeamRepo, repomocks.NewMockUserRepository(ctrl), scopeResolver(ctrl, scope), &fakeEffects{})
		result, err := service.ListTeams(context.Background(), actor)

		require.NoError(t, err)
		assert.Len(t, result.Items, 1)
	})
}

func TestTeamService_GetTeam(t *testing.T) {
	t.Run("hides teams outside the scope", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		actor := member(primitive.NewObjectID())
		team := newTestTeam(primitive.NewObjectID())
		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockTeamRepo.EXPECT().FindByID(gomock.Any(), team.ID).Return(team, nil)

		service := NewTeamService(mockTeamRepo, repomocks.NewMockUserRepository(ctrl), scopeResolver(ctrl, authz.NewScope(actor, nil, nil)), &fakeEffects{})
		result, err := service.GetTeam(context.Background(), actor, team.ID)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)
	})

	t.Run("returns team to a member", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		actorID := primitive.NewObjectID()
		team := newTestTeam(primitive.NewObjectID(), models.TeamMember{User: actorID, Role: models.TeamRoleMember})
		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockTeamRepo.EXPECT().FindByID(gomock.Any(), team.ID).Return(team, nil)

		scope := authz.NewScope(member(actorID), []primitive.ObjectID{team.ID}, nil)
		service := NewTeamService(mockTeamRepo, repomocks.NewMockUserRepository(ctrl), scopeResolver(ctrl, scope), &fakeEffects{})
		result, err := service.GetTeam(context.Background(), member(actorID), team.ID)

		require.NoError(t, err)
		assert.Equal(t, team.ID, result.ID)
	})
}

func TestTeamService_UpdateTeam(t *testing.T) {
	creatorID := primitive.NewObjectID()

	t.Run("team admin renames team", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		team := newTestTeam(creatorID)
		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockTeamRepo.EXPECT().FindByID(gomock.Any(), team.ID).Return(team, nil)
		mockTeamRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		effects := &fakeEffects{}

		scope := authz.NewScope(member(creatorID), []primitive.ObjectID{team.ID}, nil)
		service := NewTeamService(mockTeamRepo, repomocks.NewMockUserRepository(ctrl), scopeResolver(ctrl, scope), effects)
		result, err := service.UpdateTeam(context.Background(), member(creatorID), team.ID, &models.UpdateTeamRequest{Name: strPtr("Infra")})

		require.NoError(t, err)
		assert.Equal(t, "Infra", result.Entity.Name)
		assert.Equal(t, pipeline.TeamUpdated, effects.last().Kind)
		assert.Equal(t, map[string]interface{}{"name": "Infra"}, effects.last().Details["changes"])
	})

	t.Run("plain member cannot update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		memberID := primitive.NewObjectID()
		team := newTestTeam(creatorID, models.TeamMember{User: memberID, Role: models.TeamRoleMember})
		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockTeamRepo.EXPECT().FindByID(gomock.Any(), team.ID).Return(team, nil)

		scope := authz.NewScope(member(memberID), []primitive.ObjectID{team.ID}, nil)
		service := NewTeamService(mockTeamRepo, repomocks.NewMockUserRepository(ctrl), scopeResolver(ctrl, scope), &fakeEffects{})
		_, err := service.UpdateTeam(context.Background(), member(memberID), team.ID, &models.UpdateTeamRequest{Name: strPtr("Infra")})

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestTeamService_DeleteTeam(t *testing.T) {
	t.Run("deletes and unlinks members", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		creatorID := primitive.NewObjectID()
		team := newTestTeam(creatorID)
		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockUserRepo := repomocks.NewMockUserRepository(ctrl)
		mockTeamRepo.EXPECT().FindByID(gomock.Any(), team.ID).Return(team, nil)
		mockTeamRepo.EXPECT().Delete(gomock.Any(), team.ID).Return(nil)
		mockUserRepo.EXPECT().RemoveTeam(gomock.Any(), []primitive.ObjectID{creatorID}, team.ID).Return(nil)
		effects := &fakeEffects{}

		scope := authz.NewScope(member(creatorID), []primitive.ObjectID{team.ID}, nil)
		service := NewTeamService(mockTeamRepo, mockUserRepo, scopeResolver(ctrl, scope), effects)
		_, err := service.DeleteTeam(context.Background(), member(creatorID), team.ID)

		require.NoError(t, err)
		assert.Equal(t, pipeline.TeamDeleted, effects.last().Kind)
	})
}

func TestTeamService_AddMember(t *testing.T) {
	creatorID := primitive.NewObjectID()
	newID := primitive.NewObjectID()

	t.Run("adds user with member role by default", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		team := newTestTeam(creatorID)
		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockUserRepo := repomocks.NewMockUserRepository(ctrl)
		mockTeamRepo.EXPECT().FindByID(gomock.Any(), team.ID).Return(team, nil)
		mockUserRepo.EXPECT().FindByID(gomock.Any(), newID).Return(&models.User{ID: newID}, nil)
		mockTeamRepo.EXPECT().
			AddMember(gomock.Any(), team.ID, gomock.Any()).
			DoAndReturn(func(ctx context.Context, teamID primitive.ObjectID, m models.TeamMember) error {
				assert.Equal(t, newID, m.User)
				assert.Equal(t, models.TeamRoleMember, m.Role)
				return nil
			})
		mockUserRepo.EXPECT().AddTeam(gomock.Any(), []primitive.ObjectID{newID}, team.ID).Return(nil)
		effects := &fakeEffects{}

		scope := authz.NewScope(member(creatorID), []primitive.ObjectID{team.ID}, nil)
		service := NewTeamService(mockTeamRepo, mockUserRepo, scopeResolver(ctrl, scope), effects)
		result, err := service.AddMember(context.Background(), member(creatorID), team.ID, &models.AddMemberRequest{UserID: newID.Hex()})

		require.NoError(t, err)
		assert.True(t, result.Entity.HasMember(newID))
		m := effects.last()
		assert.Equal(t, pipeline.MemberAdded, m.Kind)
		assert.Equal(t, newID, m.Member.User)
	})

	t.Run("rejects existing member", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		team := newTestTeam(creatorID, models.TeamMember{User: newID, Role: models.TeamRoleMember})
		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockUserRepo := repomocks.NewMockUserRepository(ctrl)
		mockTeamRepo.EXPECT().FindByID(gomock.Any(), team.ID).Return(team, nil)
		mockUserRepo.EXPECT().FindByID(gomock.Any(), newID).Return(&models.User{ID: newID}, nil)

		scope := authz.NewScope(member(creatorID), []primitive.ObjectID{team.ID}, nil)
		service := NewTeamService(mockTeamRepo, mockUserRepo, scopeResolver(ctrl, scope), &fakeEffects{})
		_, err := service.AddMember(context.Background(), member(creatorID), team.ID, &models.AddMemberRequest{UserID: newID.Hex()})

		assert.ErrorIs(t, err, apperrors.ErrAlreadyMember)
	})
}

func TestTeamService_RemoveMember(t *testing.T) {
	creatorID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()

	t.Run("member removes themselves", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		team := newTestTeam(creatorID, models.TeamMember{User: memberID, Role: models.TeamRoleMember})
		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockUserRepo := repomocks.NewMockUserRepository(ctrl)
		mockTeamRepo.EXPECT().FindByID(gomock.Any(), team.ID).Return(team, nil)
		mockTeamRepo.EXPECT().RemoveMember(gomock.Any(), team.ID, memberID).Return(nil)
		mockUserRepo.EXPECT().RemoveTeam(gomock.Any(), []primitive.ObjectID{memberID}, team.ID).Return(nil)

		scope := authz.NewScope(member(memberID), []primitive.ObjectID{team.ID}, nil)
		service := NewTeamService(mockTeamRepo, mockUserRepo, scopeResolver(ctrl, scope), &fakeEffects{})
		result, err := service.RemoveMember(context.Background(), member(memberID), team.ID, memberID)

		require.NoError(t, err)
		assert.False(t, result.Entity.HasMember(memberID))
	})

	t.Run("creator cannot be removed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		team := newTestTeam(creatorID)
		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockTeamRepo.EXPECT().FindByID(gomock.Any(), team.ID).Return(team, nil)

		actor := superadmin()
		service := NewTeamService(mockTeamRepo, repomocks.NewMockUserRepository(ctrl), scopeResolver(ctrl, authz.UnboundedScope(actor)), &fakeEffects{})
		_, err := service.RemoveMember(context.Background(), actor, team.ID, creatorID)

		assert.ErrorIs(t, err, apperrors.ErrCannotRemoveSelf)
	})

	t.Run("plain member cannot remove others", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		otherID := primitive.NewObjectID()
		team := newTestTeam(creatorID,
			models.TeamMember{User: memberID, Role: models.TeamRoleMember},
			models.TeamMember{User: otherID, Role: models.TeamRoleMember},
		)
		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockTeamRepo.EXPECT().FindByID(gomock.Any(), team.ID).Return(team, nil)

		scope := authz.NewScope(member(memberID), []primitive.ObjectID{team.ID}, nil)
		service := NewTeamService(mockTeamRepo, repomocks.NewMockUserRepository(ctrl), scopeResolver(ctrl, scope), &fakeEffects{})
		_, err := service.RemoveMember(context.Background(), member(memberID), team.ID, otherID)

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("unknown user is not a member", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		team := newTestTeam(creatorID)
		mockTeamRepo := repomocks.NewMockTeamRepository(ctrl)
		mockTeamRepo.EXPECT().FindByID(gomock.Any(), team.ID).Return(team, nil)

		scope := authz.NewScope(member(creatorID), []primitive.ObjectID{team.ID}, nil)
		service := NewTeamService(mockTeamRepo, repomocks.NewMockUserRepository(ctrl), scopeResolver(ctrl, scope), &fakeEffects{})
		_, err := service.RemoveMember(context.Background(), member(creatorID), team.ID, primitive.NewObjectID())

		assert.ErrorIs(t, err, apperrors.ErrNotTeamMember)
	})
}
