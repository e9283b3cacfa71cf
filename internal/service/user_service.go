package service

import (
	"context"

	"taskscope/internal/cache"
	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"
	"taskscope/internal/pipeline"
	"taskscope/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService handles business logic for user operations.
type UserService struct {
	repo    repository.UserRepository
	cache   cache.Cache
	effects SideEffects
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserRepository, cache cache.Cache, effects SideEffects) *UserService {
	return &UserService{
		repo:    repo,
		cache:   cache,
		effects: effects,
	}
}

// GetUser retrieves a user by ID (with caching).
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	// Try cache first
	cacheKey := cache.UserCacheKey(id)
	var user models.User
	found, err := s.cache.Get(ctx, cacheKey, &user)
	if err == nil && found {
		return &user, nil
	}

	dbUser, err := s.repo.FindByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore errors - cache is best effort)
	_ = s.cache.Set(ctx, cacheKey, dbUser, cache.UserTTL)

	return dbUser, nil
}

// GetUsers resolves a set of users, serving what it can from cache and loading
// the rest in one query. Unknown ids are skipped.
func (s *UserService) GetUsers(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	var missing []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool, len(ids))

	for _, id := range ids {
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true

		var user models.User
		found, err := s.cache.Get(ctx, cache.UserCacheKey(id.Hex()), &user)
		if err == nil && found {
			users = append(users, user)
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return users, nil
	}

	loaded, err := s.repo.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for i := range loaded {
		_ = s.cache.Set(ctx, cache.UserCacheKey(loaded[i].ID.Hex()), &loaded[i], cache.UserTTL)
	}

	return append(users, loaded...), nil
}

// GetAllUsers retrieves all users.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.FindAll(ctx)
}

// UpdateRole changes a user's global role and records it in history. Admins and
// superadmins may change roles; only a superadmin may grant or revoke superadmin.
func (s *UserService) UpdateRole(ctx context.Context, actor models.Actor, id string, role string) (*Mutation[*models.User], error) {
	if !models.IsValidRole(role) {
		return nil, apperrors.ErrInvalidRole
	}
	actor = models.NewActor(actor.ID, actor.Role)
	if !actor.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	user, err := s.repo.FindByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	touchesSuperAdmin := role == models.RoleSuperAdmin || user.Role == models.RoleSuperAdmin
	if touchesSuperAdmin && !actor.IsSuperAdmin() {
		return nil, apperrors.ErrUnauthorized
	}

	if err := s.repo.UpdateRole(ctx, objectID, role); err != nil {
		return nil, err
	}
	from := user.Role
	user.Role = role

	// Invalidate cache
	_ = s.cache.Delete(ctx, cache.UserCacheKey(id))

	out := s.effects.Run(ctx, pipeline.Mutation{
		Kind:    pipeline.RoleChanged,
		Actor:   actor,
		User:    user,
		Details: map[string]interface{}{"fromRole": from, "toRole": role},
	})
	return committed(user, out), nil
}
