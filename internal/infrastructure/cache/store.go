package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is a JSON document cache keyed by string. Implementations must treat
// corrupt stored payloads as a miss, never as an error: a malformed entry is
// logged, discarded, and Get reports absence so callers can rebuild state.
type Store interface {
	// Get unmarshals the value stored under key into dest. The boolean
	// reports whether a usable value was found.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key, serialized as JSON. A zero ttl means no
	// expiration.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the value stored under key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// Namespaced builds a cache key scoped to one tenant. A nil tenant yields
// the bare prefix, used for installation-wide entries.
func Namespaced(prefix string, tenantID uuid.UUID, parts ...string) string {
	key := prefix
	if tenantID != uuid.Nil {
		key += "_" + tenantID.String()
	}
	for _, p := range parts {
		key += "_" + p
	}
	return key
}
