package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"newsdesk/internal/config"
	"newsdesk/internal/services"
	"newsdesk/internal/storage"
)

// newTestRouter 组装完整路由：SQLite 内存库、临时目录文件存储、
// 不可达 Redis（限流与撤销均按放行降级）。
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, storage.AutoMigrate(db))

	files, err := services.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	cfg := config.Config{
		Env:    "dev",
		Auth:   config.AuthConfig{Secret: "test-secret", AccessTokenTTL: time.Hour},
		Limits: config.LimitConfig{LoginPerMinute: 1000, CommentPerMinute: 1000, Window: time.Minute},
	}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})

	revoke := services.NewRevocationService(rdb)
	tokens := services.NewTokenService(cfg, revoke)
	h := New(cfg,
		services.NewCategoryService(db),
		services.NewNewsService(db, files),
		services.NewCommentService(db),
		services.NewUserService(db),
		tokens,
		services.NewAuditService(db),
		files,
		rdb,
	)
	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func registerAndLogin(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{"username": username, "password": "secret1"})
	require.Equal(t, 201, w.Code)
	w = doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{"username": username, "password": "secret1"})
	require.Equal(t, 200, w.Code)
	token, _ := decode(t, w)["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestEndToEndScenario(t *testing.T) {
	router := newTestRouter(t)

	tokenU := registerAndLogin(t, router, "alice")
	tokenV := registerAndLogin(t, router, "bob")

	// 创建分类 Tech
	w := doJSON(t, router, http.MethodPost, "/categories", "", gin.H{"name": "Tech"})
	require.Equal(t, 201, w.Code)
	catID := uint64(decode(t, w)["id"].(float64))

	// 创建新闻 A
	w = doJSON(t, router, http.MethodPost, "/news", "", gin.H{"title": "A", "category_id": catID})
	require.Equal(t, 201, w.Code)
	newsID := uint64(decode(t, w)["id"].(float64))

	// U 创建评论
	w = doJSON(t, router, http.MethodPost, "/comments", tokenU, gin.H{"content": "hi", "news_id": newsID})
	require.Equal(t, 201, w.Code)
	commentID := uint64(decode(t, w)["id"].(float64))

	commentPath := fmt.Sprintf("/comments/%d", commentID)

	// V 尝试更新 → 403
	w = doJSON(t, router, http.MethodPut, commentPath, tokenV, gin.H{"content": "hacked"})
	require.Equal(t, 403, w.Code)

	// 内容未变
	w = doJSON(t, router, http.MethodGet, commentPath, "", nil)
	require.Equal(t, 200, w.Code)
	require.Equal(t, "hi", decode(t, w)["content"])

	// U 更新 → 内容变更
	w = doJSON(t, router, http.MethodPut, commentPath, tokenU, gin.H{"content": "edited"})
	require.Equal(t, 200, w.Code)
	require.Equal(t, "edited", decode(t, w)["content"])

	// 删除新闻 → 评论与新闻均不可再取
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/news/%d", newsID), "", nil)
	require.Equal(t, 204, w.Code)
	w = doJSON(t, router, http.MethodGet, commentPath, "", nil)
	require.Equal(t, 404, w.Code)
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/news/%d", newsID), "", nil)
	require.Equal(t, 404, w.Code)
}

func TestCommentMutationRequiresAuth(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/comments", "", gin.H{"content": "hi", "news_id": 1})
	require.Equal(t, 401, w.Code)
	w = doJSON(t, router, http.MethodPut, "/comments/1", "garbage-token", gin.H{"content": "hi"})
	require.Equal(t, 401, w.Code)
}

func TestCategoryDeleteConflict(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/categories", "", gin.H{"name": "Tech"})
	require.Equal(t, 201, w.Code)
	catID := uint64(decode(t, w)["id"].(float64))
	w = doJSON(t, router, http.MethodPost, "/news", "", gin.H{"title": "A", "category_id": catID})
	require.Equal(t, 201, w.Code)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/categories/%d", catID), "", nil)
	require.Equal(t, 409, w.Code)
}

func TestNewsCreateWithDanglingCategory(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/news", "", gin.H{"title": "A", "category_id": 999})
	require.Equal(t, 404, w.Code)
}

func TestCategoryPatchKeepsCreated(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/categories", "", gin.H{"name": "Tech"})
	require.Equal(t, 201, w.Code)
	body := decode(t, w)
	catID := uint64(body["id"].(float64))
	created, err := time.Parse(time.RFC3339, body["created"].(string))
	require.NoError(t, err)

	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/categories/%d", catID), "", gin.H{"name": "Technology"})
	require.Equal(t, 200, w.Code)
	patched := decode(t, w)
	require.Equal(t, "Technology", patched["name"])
	after, err := time.Parse(time.RFC3339, patched["created"].(string))
	require.NoError(t, err)
	require.Equal(t, created.Unix(), after.Unix())
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, 200, w.Code)
}
