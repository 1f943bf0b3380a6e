package helpers

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key for the token revocation mark written on account delete/demote.
// The value is an RFC3339 timestamp; tokens issued before it are rejected.
func KeyRevokedTokens(userID string) string {
	return "auth:revoked:" + userID
}

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RevocationFormat is the timestamp layout stored under KeyRevokedTokens.
const RevocationFormat = time.RFC3339Nano
