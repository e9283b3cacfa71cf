package service

import (
	"context"
	"testing"

	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"
	repomocks "taskscope/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func TestNotificationService_List(t *testing.T) {
	actor := member(primitive.NewObjectID())

	tests := []struct {
		name          string
		page, limit   int
		wantPage      int
		wantLimit     int
		total         int
		wantTotalPage int
	}{
		{name: "defaults", page: 0, limit: 0, wantPage: 1, wantLimit: 20, total: 41, wantTotalPage: 3},
		{name: "caps limit", page: 2, limit: 500, wantPage: 2, wantLimit: 100, total: 100, wantTotalPage: 1},
		{name: "empty", page: 1, limit: 10, wantPage: 1, wantLimit: 10, total: 0, wantTotalPage: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := repomocks.NewMockNotificationRepository(ctrl)
			mockRepo.EXPECT().
				FindByRecipient(gomock.Any(), actor.ID, true, tt.wantPage, tt.wantLimit).
				Return([]models.Notification{}, tt.total, nil)
			mockRepo.EXPECT().CountUnread(gomock.Any(), actor.ID).Return(7, nil)

			service := NewNotificationService(mockRepo)
			result, err := service.List(context.Background(), actor, true, tt.page, tt.limit)

			require.NoError(t, err)
			assert.Equal(t, 7, result.UnreadCount)
			assert.Equal(t, tt.wantPage, result.Pagination.Page)
			assert.Equal(t, tt.wantLimit, result.Pagination.Limit)
			assert.Equal(t, tt.total, result.Pagination.TotalItems)
			assert.Equal(t, tt.wantTotalPage, result.Pagination.TotalPages)
		})
	}
}

func TestNotificationService_RecipientOnly(t *testing.T) {
	actor := member(primitive.NewObjectID())
	id := primitive.NewObjectID()

	t.Run("mark read is keyed by recipient", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockNotificationRepository(ctrl)
		mockRepo.EXPECT().MarkRead(gomock.Any(), id, actor.ID).Return(apperrors.ErrNotificationNotFound)

		err := NewNotificationService(mockRepo).MarkRead(context.Background(), actor, id)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("mark all read returns the count", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockNotificationRepository(ctrl)
		mockRepo.EXPECT().MarkAllRead(gomock.Any(), actor.ID).Return(4, nil)

		n, err := NewNotificationService(mockRepo).MarkAllRead(context.Background(), actor)

		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("delete is keyed by recipient", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockNotificationRepository(ctrl)
		mockRepo.EXPECT().Delete(gomock.Any(), id, actor.ID).Return(nil)

		require.NoError(t, NewNotificationService(mockRepo).Delete(context.Background(), actor, id))
	})

	t.Run("unread count", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockNotificationRepository(ctrl)
		mockRepo.EXPECT().CountUnread(gomock.Any(), actor.ID).Return(2, nil)

		n, err := NewNotificationService(mockRepo).UnreadCount(context.Background(), actor)

		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}
