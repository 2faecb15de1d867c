package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestGetObjectMissingReturnsNil(t *testing.T) {
	db := openTestDB(t)
	cat, err := GetObject[Category](context.Background(), db, "id", 12345)
	require.NoError(t, err)
	require.Nil(t, cat)
}

func TestCreateObjectPopulatesServerFields(t *testing.T) {
	db := openTestDB(t)
	cat, err := CreateObject(context.Background(), db, &Category{Name: "Tech"}, true)
	require.NoError(t, err)
	require.NotZero(t, cat.ID)
	require.False(t, cat.CreatedAt.IsZero())

	got, err := GetObject[Category](context.Background(), db, "id", cat.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Tech", got.Name)
}

func TestCreateObjectPendingRequiresTransaction(t *testing.T) {
	db := openTestDB(t)
	_, err := CreateObject(context.Background(), db, &Category{Name: "Tech"}, false)
	require.ErrorIs(t, err, ErrNoTransaction)

	// 在事务内悬挂写入可用，提交后可见
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := CreateObject(context.Background(), tx, &Category{Name: "Sports"}, false)
		return err
	})
	require.NoError(t, err)
	got, err := GetObject[Category](context.Background(), db, "name", "Sports")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestUpdateObjectTouchesOnlyGivenFields(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	cat, err := CreateObject(ctx, db, &Category{Name: "Tech"}, true)
	require.NoError(t, err)
	created := cat.CreatedAt

	updated, err := UpdateObject(ctx, db, cat, map[string]any{"name": "Technology"})
	require.NoError(t, err)
	require.Equal(t, "Technology", updated.Name)
	require.Equal(t, created.Unix(), updated.CreatedAt.Unix())

	// 空 data 不触发写入
	same, err := UpdateObject(ctx, db, updated, map[string]any{})
	require.NoError(t, err)
	require.Equal(t, "Technology", same.Name)
}

func TestGetObjectsPaging(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		_, err := CreateObject(ctx, db, &Category{Name: fmt.Sprintf("cat-%d", i)}, true)
		require.NoError(t, err)
	}

	// limit=0 返回空页
	empty, err := GetObjects[Category](ctx, db, 0, 0)
	require.NoError(t, err)
	require.Empty(t, empty)

	// 相邻分页互不相交且无空洞
	first, err := GetObjects[Category](ctx, db, 0, 3)
	require.NoError(t, err)
	second, err := GetObjects[Category](ctx, db, 3, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.Len(t, second, 3)
	seen := map[uint64]bool{}
	for _, c := range append(first, second...) {
		require.False(t, seen[c.ID], "page overlap on id %d", c.ID)
		seen[c.ID] = true
	}
	require.Equal(t, "cat-0", first[0].Name)
	require.Equal(t, "cat-3", second[0].Name)

	// 负偏移按 0 处理
	clamped, err := GetObjects[Category](ctx, db, -5, 2)
	require.NoError(t, err)
	require.Len(t, clamped, 2)
	require.Equal(t, first[0].ID, clamped[0].ID)
}

func TestDeleteObjectByMissingIsNoop(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, DeleteObjectBy[Comment](context.Background(), db, "news_id", 999))
}
