package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/careerhub/careerhub-api/pkg/logger"
)

// TokenBlacklist is the revocation oracle for issued tokens.
//
// The contract is deliberately lossy: Add drops the token on backend
// failure (fail-silent, no error surfaced to the caller), and IsRevoked
// reports "not revoked" when the backend cannot be reached (fail-open).
// Token revocation is best-effort; availability wins over strictness.
type TokenBlacklist interface {
	Add(ctx context.Context, token string)
	IsRevoked(ctx context.Context, token string) bool
}

type redisTokenBlacklist struct {
	client *redis.Client
	logger logger.Logger
}

func NewRedisTokenBlacklist(client *redis.Client, log logger.Logger) TokenBlacklist {
	return &redisTokenBlacklist{client: client, logger: log}
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:" + hex.EncodeToString(sum[:])
}

func (b *redisTokenBlacklist) Add(ctx context.Context, token string) {
	ttl := 24 * time.Hour
	if exp, ok := TokenExpiry(token); ok {
		ttl = time.Until(exp)
		if ttl <= 0 {
			// already expired, nothing to revoke
			return
		}
	}

	if err := b.client.Set(ctx, blacklistKey(token), "1", ttl).Err(); err != nil {
		b.logger.Warn("Failed to blacklist token, dropping", zap.Error(err))
	}
}

func (b *redisTokenBlacklist) IsRevoked(ctx context.Context, token string) bool {
	n, err := b.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		b.logger.Warn("Blacklist check failed, treating token as not revoked", zap.Error(err))
		return false
	}
	return n > 0
}
