package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, AutoMigrate(db))
	return db
}

func strPtr(s string) *string { return &s }

func TestGetAbsentReturnsNil(t *testing.T) {
	db := newTestDB(t)
	got, err := Get[Category](context.Background(), db, 12345)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCreateThenGetRoundtrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	n := &News{Title: "A", Content: strPtr("body"), Images: StringList{"media/news/a.png"}}
	require.NoError(t, Create(ctx, db, n))
	require.NotZero(t, n.ID)
	require.False(t, n.Created.IsZero())
	require.False(t, n.Updated.IsZero())

	got, err := Get[News](ctx, db, n.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "A", got.Title)
	require.Equal(t, "body", *got.Content)
	require.Equal(t, StringList{"media/news/a.png"}, got.Images)
}

func TestListPagination(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	for _, name := range []string{"Tech", "Sport", "Culture"} {
		require.NoError(t, Create(ctx, db, &Category{Name: name}))
	}

	page, err := List[Category](ctx, db, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)

	// 越界 offset 返回空切片而非错误
	empty, err := List[Category](ctx, db, 100, 10)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestUpdateAbsentReturnsNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := Update[Category](context.Background(), db, 999, map[string]any{"name": "X"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = PartialUpdate[Category](context.Background(), db, 999, map[string]any{"name": "X"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOverwritesZeroValues(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	n := &News{Title: "A", Content: strPtr("body")}
	require.NoError(t, Create(ctx, db, n))

	// 全量更新：零值同样写入
	got, err := Update[News](ctx, db, n.ID, map[string]any{"title": "B", "content": ""})
	require.NoError(t, err)
	require.Equal(t, "B", got.Title)
	require.NotNil(t, got.Content)
	require.Equal(t, "", *got.Content)

	// nil 写 NULL
	got, err = Update[News](ctx, db, n.ID, map[string]any{"title": "B", "content": nil})
	require.NoError(t, err)
	require.Nil(t, got.Content)
}

func TestPartialUpdateSkipsZeroValues(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	n := &News{Title: "A", Content: strPtr("body")}
	require.NoError(t, Create(ctx, db, n))

	// 零值条目被丢弃：content 不变，title 更新
	got, err := PartialUpdate[News](ctx, db, n.ID, map[string]any{"title": "B", "content": ""})
	require.NoError(t, err)
	require.Equal(t, "B", got.Title)
	require.NotNil(t, got.Content)
	require.Equal(t, "body", *got.Content)

	// 全零值补丁等价于纯刷新
	got, err = PartialUpdate[News](ctx, db, n.ID, map[string]any{"title": "", "content": nil})
	require.NoError(t, err)
	require.Equal(t, "B", got.Title)
	require.Equal(t, "body", *got.Content)
}

func TestDeleteSilentOnAbsent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Delete[Category](context.Background(), db, 4242))
}

func TestDeleteCascadeAndSetNull(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	cat := &Category{Name: "Tech"}
	require.NoError(t, Create(ctx, db, cat))
	u := &User{Email: "reader@example.com", Password: "x"}
	require.NoError(t, Create(ctx, db, u))

	n := &News{Title: "A", CategoryID: &cat.ID}
	require.NoError(t, Create(ctx, db, n))
	c := &Comment{Content: "hi", NewsID: n.ID, UserID: u.ID}
	require.NoError(t, Create(ctx, db, c))

	// 删除栏目：新闻的 category_id 置空
	require.NoError(t, Delete[Category](ctx, db, cat.ID))
	gotNews, err := Get[News](ctx, db, n.ID)
	require.NoError(t, err)
	require.NotNil(t, gotNews)
	require.Nil(t, gotNews.CategoryID)

	// 删除新闻：评论级联删除
	require.NoError(t, Delete[News](ctx, db, n.ID))
	gotComment, err := Get[Comment](ctx, db, c.ID)
	require.NoError(t, err)
	require.Nil(t, gotComment)
}
