package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// package-level Redis client used for the revoked-session list (optional)
var revokedClient *redis.Client

// SetRevokedClient configures the Redis client used to track revoked
// provider sessions. Safe to call with nil to disable the feature.
func SetRevokedClient(c *redis.Client) {
	revokedClient = c
}

// MarkSessionRevoked stores the provider session id in the revocation
// list until the session would have expired anyway. If no Redis client
// is configured, this is a no-op and returns nil.
func MarkSessionRevoked(ctx context.Context, sessionID string, ttl time.Duration) error {
	if revokedClient == nil || sessionID == "" {
		return nil
	}
	key := "revoked:session:" + sessionID
	return revokedClient.Set(ctx, key, "1", ttl).Err()
}

// IsSessionRevoked returns true when the provider session id is on the
// revocation list. If no Redis client is configured, returns (false, nil).
func IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	if revokedClient == nil || sessionID == "" {
		return false, nil
	}
	key := "revoked:session:" + sessionID
	exists, err := revokedClient.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
