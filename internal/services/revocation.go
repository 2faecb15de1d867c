package services

// 撤销服务：注销时将访问令牌的 jti 写入 Redis 黑名单并设置 TTL，
// 授权门在解析调用者身份时据此拦截已撤销令牌。

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RevocationStore 抽象撤销标记所需的最小 Redis 能力，便于测试注入。
type RevocationStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RevocationService 提供访问令牌撤销（黑名单）能力。
type RevocationService struct{ store RevocationStore }

func NewRevocationService(store RevocationStore) *RevocationService {
	return &RevocationService{store: store}
}

func (s *RevocationService) key(jti string) string { return fmt.Sprintf("revoked:%s", jti) }

// Revoke 将 jti 标记为撤销状态，TTL 直至令牌自然过期。
func (s *RevocationService) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	return s.store.Set(ctx, s.key(jti), "1", ttl).Err()
}

// IsRevoked 判断 jti 是否已被撤销；Redis 不可用时视为未撤销。
func (s *RevocationService) IsRevoked(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	val, err := s.store.Get(ctx, s.key(jti)).Result()
	return err == nil && val == "1"
}
