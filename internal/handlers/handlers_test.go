package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"newsroom/internal/cache"
	"newsroom/internal/config"
	"newsroom/internal/media"
	"newsroom/internal/services"
	"newsroom/internal/storage"
)

type fakeStore struct {
	items map[string]string
}

func newFakeStore() *fakeStore { return &fakeStore{items: make(map[string]string)} }

func (m *fakeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.items[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *fakeStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.items[key] = string(v)
	case string:
		m.items[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *fakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(m.items, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, storage.AutoMigrate(db))

	cfg := config.Load()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Media.Root = t.TempDir()

	store := newFakeStore()
	userSvc := services.NewUserService(db)
	h := New(
		cfg,
		services.NewCategoryService(db),
		services.NewNewsService(db, media.NewStore(cfg.Media.Root)),
		services.NewCommentService(db),
		userSvc,
		services.NewAuthService(userSvc, store, cfg),
		services.NewLogService(db),
		cache.New(store, cfg.Cache.TTL),
		// 限流中间件需要真实客户端；测试中指向不可达地址即等价于放行
		redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
	)
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
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
	r.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{"email": email, "password": "s3cret1", "full_name": "Tester"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": "s3cret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestMutationsRequireAuth(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/categories", "", gin.H{"name": "Tech"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCategoryCRUDOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r, "editor@example.com")

	w := doJSON(t, r, http.MethodPost, "/categories", token, gin.H{"name": "Tech"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cat storage.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))
	require.NotZero(t, cat.ID)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/categories/%d", cat.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/categories/424242", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/categories/%d", cat.ID), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestCachedReadServesStaleWithinTTL(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r, "editor@example.com")

	w := doJSON(t, r, http.MethodPost, "/categories", token, gin.H{"name": "Tech"})
	require.Equal(t, http.StatusCreated, w.Code)
	var cat storage.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))

	// 第一次读取进入缓存
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/categories/%d", cat.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 更新后 TTL 窗口内仍返回旧值
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/categories/%d", cat.ID), token, gin.H{"name": "Science"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/categories/%d", cat.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got storage.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "Tech", got.Name)
}

func TestCommentOwnershipOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	owner := registerAndLogin(t, r, "owner@example.com")
	other := registerAndLogin(t, r, "other@example.com")

	// 新闻创建走 multipart；无图片时普通表单字段即可
	req := httptest.NewRequest(http.MethodPost, "/news", bytes.NewBufferString("title=Breaking"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+owner)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var news storage.News
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &news))

	w = doJSON(t, r, http.MethodPost, "/comments", owner, gin.H{"news_id": news.ID, "content": "hi"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var comment storage.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/comments/%d", comment.ID), other, gin.H{"content": "tampered"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/comments/%d", comment.ID), other, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/comments/%d", comment.ID), owner, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}
