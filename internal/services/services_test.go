package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"newsroom/internal/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, storage.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *storage.User {
	t.Helper()
	u := &storage.User{Email: email, Password: "hashed"}
	require.NoError(t, storage.Create(context.Background(), db, u))
	return u
}

func seedNews(t *testing.T, db *gorm.DB, title string) *storage.News {
	t.Helper()
	n := &storage.News{Title: title}
	require.NoError(t, storage.Create(context.Background(), db, n))
	return n
}

func strp(s string) *string { return &s }
