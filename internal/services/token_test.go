package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/config"
)

type memoryRevocationStore struct {
	seen map[string]string
}

func (m *memoryRevocationStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	if m.seen == nil {
		m.seen = make(map[string]string)
	}
	m.seen[key] = "1"
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryRevocationStore) Get(_ context.Context, key string) *redis.StringCmd {
	if v, ok := m.seen[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func newTestTokenService() *TokenService {
	cfg := config.Config{Auth: config.AuthConfig{Secret: "test-secret", AccessTokenTTL: time.Hour}}
	return NewTokenService(cfg, NewRevocationService(&memoryRevocationStore{}))
}

func TestTokenIssueResolveRoundtrip(t *testing.T) {
	svc := newTestTokenService()
	token, exp, jti, err := svc.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, jti)
	require.True(t, exp.After(time.Now()))

	uid, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), uid)
}

func TestTokenResolveRejectsGarbage(t *testing.T) {
	svc := newTestTokenService()
	_, err := svc.Resolve(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Resolve(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenResolveRejectsWrongSecret(t *testing.T) {
	svc := newTestTokenService()
	other := NewTokenService(config.Config{Auth: config.AuthConfig{Secret: "other", AccessTokenTTL: time.Hour}}, NewRevocationService(&memoryRevocationStore{}))
	token, _, _, err := other.Issue(42)
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), token)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenRevokeBlocksResolve(t *testing.T) {
	svc := newTestTokenService()
	token, _, _, err := svc.Issue(42)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Resolve(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, token))
	_, err = svc.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrUnauthorized)
}
