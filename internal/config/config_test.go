package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "local", cfg.Media.Backend)
	require.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL)
	require.Contains(t, cfg.MySQL.DSN(), "tcp(127.0.0.1:3306)/newsdesk")
}

func TestDSNMasked(t *testing.T) {
	m := MySQLConfig{User: "root", Password: "hunter2", Host: "db", Port: 3306, DBName: "newsdesk"}
	require.NotContains(t, m.DSNMasked(), "hunter2")
	require.Contains(t, m.DSN(), "hunter2")
}

func TestLoadFromFileOverridesNonZeroOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
env: prod
http_addr: ":9090"
mysql:
  password: s3cret
auth:
  secret: prod-secret
  access_token_ttl: 30m
media:
  backend: minio
  endpoint: minio.local:9000
  bucket: pics
limits:
  login_per_minute: 5
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	cfg := Load() // 默认值基底
	require.NoError(t, loadFromFile(path, &cfg))

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, "s3cret", cfg.MySQL.Password)
	// 未覆盖的字段保持默认
	require.Equal(t, "127.0.0.1", cfg.MySQL.Host)
	require.Equal(t, "prod-secret", cfg.Auth.Secret)
	require.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
	require.Equal(t, "minio", cfg.Media.Backend)
	require.Equal(t, "pics", cfg.Media.Bucket)
	require.Equal(t, 5, cfg.Limits.LoginPerMinute)
	require.Equal(t, 30, cfg.Limits.CommentPerMinute)
}

func TestLoadFromFileRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o600))
	cfg := Load()
	require.Error(t, loadFromFile(path, &cfg))
}
