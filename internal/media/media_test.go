package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveAllWritesAllFiles(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	uploads := []Upload{
		{Name: "a.png", Data: []byte("aaa")},
		{Name: "b.png", Data: []byte("bbb")},
		{Name: "a.png", Data: []byte("ccc")}, // 同名上传不互相覆盖
	}
	paths, err := s.SaveAll(context.Background(), uploads)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	require.NotEqual(t, paths[0], paths[2])

	for i, p := range paths {
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		require.Equal(t, uploads[i].Data, b)
	}
}

func TestSaveAllCleansUpOnFailure(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	uploads := []Upload{
		{Name: "ok.png", Data: []byte("x")},
		{Name: "", Data: []byte("y")}, // 空文件名导致写入失败
	}
	_, err := s.SaveAll(context.Background(), uploads)
	require.ErrorIs(t, err, ErrEmptyName)

	// 已写入的文件被补偿清理
	entries, err := os.ReadDir(filepath.Join(root, "news"))
	if err != nil {
		require.True(t, os.IsNotExist(err))
		return
	}
	require.Empty(t, entries)
}

func TestSaveAllEmptyBatch(t *testing.T) {
	s := NewStore(t.TempDir())
	paths, err := s.SaveAll(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, paths)
}
