package service

import (
	"context"
	"testing"

	cachemocks "taskscope/internal/cache/mocks"
	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"
	"taskscope/internal/pipeline"
	repomocks "taskscope/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func TestNewUserService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repomocks.NewMockUserRepository(ctrl)
	mockCache := cachemocks.NewMockCache(ctrl)

	service := NewUserService(mockRepo, mockCache, nil)

	assert.NotNil(t, service)
}

func TestUserService_GetUser(t *testing.T) {
	validUserID := primitive.NewObjectID()
	validUser := &models.User{
		ID:    validUserID,
		Email: "test@example.com",
		Name:  "Test User",
	}

	t.Run("returns user from cache when cached", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockUserRepository(ctrl)
		mockCache := cachemocks.NewMockCache(ctrl)

		mockCache.EXPECT().
			Get(gomock.Any(), "user:"+validUserID.Hex(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, key string, dest interface{}) (bool, error) {
				user := dest.(*models.User)
				*user = *validUser
				return true, nil
			})

		service := NewUserService(mockRepo, mockCache, nil)
		user, err := service.GetUser(context.Background(), validUserID.Hex())

		require.NoError(t, err)
		assert.Equal(t, validUser.ID, user.ID)
		assert.Equal(t, validUser.Email, user.Email)
	})

	t.Run("fetches from database on cache miss and caches result", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockUserRepository(ctrl)
		mockCache := cachemocks.NewMockCache(ctrl)

		mockCache.EXPECT().
			Get(gomock.Any(), "user:"+validUserID.Hex(), gomock.Any()).
			Return(false, nil)
		mockRepo.EXPECT().
			FindByID(gomock.Any(), validUserID).
			Return(validUser, nil)
		mockCache.EXPECT().
			Set(gomock.Any(), "user:"+validUserID.Hex(), validUser, gomock.Any()).
			Return(nil)

		service := NewUserService(mockRepo, mockCache, nil)
		user, err := service.GetUser(context.Background(), validUserID.Hex())

		require.NoError(t, err)
		assert.Equal(t, validUser.ID, user.ID)
	})

	t.Run("returns error for invalid ID format", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewUserService(repomocks.NewMockUserRepository(ctrl), cachemocks.NewMockCache(ctrl), nil)
		user, err := service.GetUser(context.Background(), "invalid-id")

		assert.Nil(t, user)
		assert.Equal(t, apperrors.ErrUserNotFound, err)
	})

	t.Run("returns error when user not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockUserRepository(ctrl)
		mockCache := cachemocks.NewMockCache(ctrl)

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		mockRepo.EXPECT().
			FindByID(gomock.Any(), validUserID).
			Return(nil, apperrors.ErrUserNotFound)

		service := NewUserService(mockRepo, mockCache, nil)
		user, err := service.GetUser(context.Background(), validUserID.Hex())

		assert.Nil(t, user)
		assert.Equal(t, apperrors.ErrUserNotFound, err)
	})

	t.Run("still fetches from database when cache errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockUserRepository(ctrl)
		mockCache := cachemocks.NewMockCache(ctrl)

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, assert.AnError)
		mockRepo.EXPECT().FindByID(gomock.Any(), validUserID).Return(validUser, nil)
		mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)

		service := NewUserService(mockRepo, mockCache, nil)
		user, err := service.GetUser(context.Background(), validUserID.Hex())

		require.NoError(t, err)
		assert.Equal(t, validUser.ID, user.ID)
	})
}

func TestUserService_GetUsers(t *testing.T) {
	cached := models.User{ID: primitive.NewObjectID(), Name: "Cached"}
	stored := models.User{ID: primitive.NewObjectID(), Name: "Stored"}

	t.Run("serves cached users and loads the rest in one query", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockUserRepository(ctrl)
		mockCache := cachemocks.NewMockCache(ctrl)

		mockCache.EXPECT().
			Get(gomock.Any(), "user:"+cached.ID.Hex(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, key string, dest interface{}) (bool, error) {
				*dest.(*models.User) = cached
				return true, nil
			})
		mockCache.EXPECT().
			Get(gomock.Any(), "user:"+stored.ID.Hex(), gomock.Any()).
			Return(false, nil)
		mockRepo.EXPECT().
			FindByIDs(gomock.Any(), []primitive.ObjectID{stored.ID}).
			Return([]models.User{stored}, nil)
		mockCache.EXPECT().
			Set(gomock.Any(), "user:"+stored.ID.Hex(), gomock.Any(), gomock.Any()).
			Return(nil)

		service := NewUserService(mockRepo, mockCache, nil)
		users, err := service.GetUsers(context.Background(), []primitive.ObjectID{cached.ID, stored.ID, cached.ID, primitive.NilObjectID})

		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Cached", users[0].Name)
		assert.Equal(t, "Stored", users[1].Name)
	})

	t.Run("skips the database when everything is cached", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockCache := cachemocks.NewMockCache(ctrl)
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, key string, dest interface{}) (bool, error) {
				*dest.(*models.User) = cached
				return true, nil
			})

		service := NewUserService(repomocks.NewMockUserRepository(ctrl), mockCache, nil)
		users, err := service.GetUsers(context.Background(), []primitive.ObjectID{cached.ID})

		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}

func TestUserService_GetAllUsers(t *testing.T) {
	t.Run("returns all users", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockUserRepository(ctrl)
		users := []models.User{
			{ID: primitive.NewObjectID(), Email: "user1@example.com"},
			{ID: primitive.NewObjectID(), Email: "user2@example.com"},
		}
		mockRepo.EXPECT().FindAll(gomock.Any()).Return(users, nil)

		service := NewUserService(mockRepo, cachemocks.NewMockCache(ctrl), nil)
		result, err := service.GetAllUsers(context.Background())

		require.NoError(t, err)
		assert.Len(t, result, 2)
	})

	t.Run("returns error on repository failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockUserRepository(ctrl)
		mockRepo.EXPECT().FindAll(gomock.Any()).Return(nil, assert.AnError)

		service := NewUserService(mockRepo, cachemocks.NewMockCache(ctrl), nil)
		result, err := service.GetAllUsers(context.Background())

		assert.Nil(t, result)
		assert.Error(t, err)
	})
}

func TestUserService_UpdateRole(t *testing.T) {
	targetID := primitive.NewObjectID()
	admin := models.NewActor(primitive.NewObjectID(), models.RoleAdmin)

	t.Run("admin promotes a member to admin and invalidates cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockUserRepository(ctrl)
		mockCache := cachemocks.NewMockCache(ctrl)

		mockRepo.EXPECT().
			FindByID(gomock.Any(), targetID).
			Return(&models.User{ID: targetID, Role: models.RoleMember}, nil)
		mockRepo.EXPECT().
			UpdateRole(gomock.Any(), targetID, models.RoleAdmin).
			Return(nil)
		mockCache.EXPECT().
			Delete(gomock.Any(), "user:"+targetID.Hex()).
			Return(nil)

		effects := &fakeEffects{}
		service := NewUserService(mockRepo, mockCache, effects)
		result, err := service.UpdateRole(context.Background(), admin, targetID.Hex(), models.RoleAdmin)

		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, result.Entity.Role)
		assert.Empty(t, result.Warnings)

		m := effects.last()
		assert.Equal(t, pipeline.RoleChanged, m.Kind)
		assert.Equal(t, admin.ID, m.Actor.ID)
		assert.Equal(t, targetID, m.User.ID)
		assert.Equal(t, models.RoleMember, m.Details["fromRole"])
		assert.Equal(t, models.RoleAdmin, m.Details["toRole"])
	})

	t.Run("member cannot change roles", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewUserService(repomocks.NewMockUserRepository(ctrl), cachemocks.NewMockCache(ctrl), nil)
		result, err := service.UpdateRole(context.Background(), member(primitive.NewObjectID()), targetID.Hex(), models.RoleAdmin)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("admin cannot grant superadmin", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockUserRepository(ctrl)
		mockRepo.EXPECT().
			FindByID(gomock.Any(), targetID).
			Return(&models.User{ID: targetID, Role: models.RoleAdmin}, nil)

		service := NewUserService(mockRepo, cachemocks.NewMockCache(ctrl), nil)
		_, err := service.UpdateRole(context.Background(), admin, targetID.Hex(), models.RoleSuperAdmin)

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("admin cannot demote a superadmin", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockUserRepository(ctrl)
		mockRepo.EXPECT().
			FindByID(gomock.Any(), targetID).
			Return(&models.User{ID: targetID, Role: models.RoleSuperAdmin}, nil)

		service := NewUserService(mockRepo, cachemocks.NewMockCache(ctrl), nil)
		_, err := service.UpdateRole(context.Background(), admin, targetID.Hex(), models.RoleMember)

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("superadmin grants superadmin", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockUserRepository(ctrl)
		mockCache := cachemocks.NewMockCache(ctrl)
		mockRepo.EXPECT().
			FindByID(gomock.Any(), targetID).
			Return(&models.User{ID: targetID, Role: models.RoleAdmin}, nil)
		mockRepo.EXPECT().UpdateRole(gomock.Any(), targetID, models.RoleSuperAdmin).Return(nil)
		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		effects := &fakeEffects{err: &apperrors.SideEffectError{Stage: string(pipeline.StageHistoryWritten), Errs: []error{assert.AnError}}}
		service := NewUserService(mockRepo, mockCache, effects)
		result, err := service.UpdateRole(context.Background(), superadmin(), targetID.Hex(), models.RoleSuperAdmin)

		require.NoError(t, err)
		assert.Equal(t, models.RoleSuperAdmin, result.Entity.Role)
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewUserService(repomocks.NewMockUserRepository(ctrl), cachemocks.NewMockCache(ctrl), nil)
		_, err := service.UpdateRole(context.Background(), admin, targetID.Hex(), "owner")

		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
	})
}
