package services

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"newsdesk/internal/storage"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, storage.AutoMigrate(db))
	return db
}

// discardStore 满足 FileStore，用于与文件无关的测试。
type discardStore struct{}

func (discardStore) Save(_ context.Context, _ io.Reader, name string) (string, error) {
	return name, nil
}
func (discardStore) Remove(_ context.Context, _ string) error { return nil }
