package cache

import (
	"context"
	"time"

	"taskscope/internal/models"
)

//go:generate mockgen -destination=mocks/mock_cache.go -package=mocks taskscope/internal/cache Cache

// Cache defines the interface for caching and fan-out operations.
type Cache interface {
	// Set stores a value in cache with TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get retrieves a value from cache. Returns false if key doesn't exist.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Delete removes a key from cache.
	Delete(ctx context.Context, key string) error
	// Publish sends a push event to the recipient's notification channel.
	Publish(ctx context.Context, event models.PushEvent) error
}

// Listener streams a recipient's push events.
type Listener interface {
	Listen(ctx context.Context, recipientID string) (<-chan models.PushEvent, error)
}

// Ensure Redis implements the cache interfaces
var (
	_ Cache    = (*Redis)(nil)
	_ Listener = (*Redis)(nil)
)
