package service

import (
	"context"

	"taskscope/internal/models"
	"taskscope/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pagination defaults for notification listing.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// NotificationService handles a recipient's notifications.
type NotificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// List returns a page of the actor's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, actor models.Actor, unreadOnly bool, page, limit int) (*models.NotificationListResponse, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	items, total, err := s.repo.FindByRecipient(ctx, actor.ID, unreadOnly, page, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	totalPages := total / limit
	if total%limit > 0 {
		totalPages++
	}

	return &models.NotificationListResponse{
		Items:       items,
		UnreadCount: unread,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

// UnreadCount returns how many of the actor's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, actor models.Actor) (int, error) {
	return s.repo.CountUnread(ctx, actor.ID)
}

// MarkRead marks one of the actor's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	return s.repo.MarkRead(ctx, id, actor.ID)
}

// MarkAllRead marks every unread notification of the actor as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor models.Actor) (int, error) {
	return s.repo.MarkAllRead(ctx, actor.ID)
}

// Delete removes one of the actor's notifications.
func (s *NotificationService) Delete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id, actor.ID)
}
