package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrKeyNotFound is returned by Get when the key does not exist.
	ErrKeyNotFound = errors.New("key not found")
	// ErrUnavailable wraps connectivity failures talking to the cache server.
	ErrUnavailable = errors.New("cache unavailable")
)

// Cache defines the key-value operations the application needs from a cache server.
// This is a port that can be implemented by different providers (Redis, Valkey, etc.).
type Cache interface {
	// Get retrieves a value by key. Missing keys fail with ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the specified TTL. TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetIfAbsent stores a value only if the key does not exist yet and reports whether it did.
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// AddToSet adds members to the set stored at key.
	AddToSet(ctx context.Context, key string, members ...string) error

	// RemoveFromSet removes members from the set stored at key.
	RemoveFromSet(ctx context.Context, key string, members ...string) error

	// SetMembers lists the members of the set stored at key.
	SetMembers(ctx context.Context, key string) ([]string, error)

	// Ping checks if the cache service is reachable.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
