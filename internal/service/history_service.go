package service

import (
	"context"
	"time"

	"taskscope/internal/authz"
	"taskscope/internal/models"
	"taskscope/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Limits for history reads.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// HistoryQuery holds the optional filters for history reads.
type HistoryQuery struct {
	EntityType string
	EntityID   *primitive.ObjectID
	From       *time.Time
	To         *time.Time
	Limit      int
}

// HistoryService reads the audit trail within the actor's scope.
type HistoryService struct {
	repo     repository.HistoryRepository
	resolver authz.Resolver
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(repo repository.HistoryRepository, resolver authz.Resolver) *HistoryService {
	return &HistoryService{repo: repo, resolver: resolver}
}

// List returns history records newest first.
func (s *HistoryService) List(ctx context.Context, actor models.Actor, q HistoryQuery) (*models.HistoryListResponse, error) {
	scope, err := s.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	filter := scope.HistoryFilter()
	filter.EntityType = q.EntityType
	filter.EntityID = q.EntityID
	filter.From = q.From
	filter.To = q.To
	filter.Limit = q.Limit
	if filter.Limit <= 0 {
		filter.Limit = DefaultHistoryLimit
	}
	if filter.Limit > MaxHistoryLimit {
		filter.Limit = MaxHistoryLimit
	}

	items, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.History{}
	}

	return &models.HistoryListResponse{Items: items}, nil
}
