// Package media 负责上传文件的落盘：固定媒体根目录下按资源子目录存放，
// 批量写入并发执行（fan-out/join-all），任一失败即中止整批并清理已写入的文件。
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyName 上传条目缺少文件名。
var ErrEmptyName = errors.New("upload has empty file name")

// Upload 一个待持久化的上传文件。
type Upload struct {
	Name string
	Data []byte
}

// Store 将上传内容写入媒体根目录并返回存储引用路径。
type Store struct {
	root string
}

func NewStore(root string) *Store { return &Store{root: root} }

// Save 写入单个文件到 <root>/news/ 下并返回存储路径。
// 文件名加 uuid 前缀，避免同名上传相互覆盖。
func (s *Store) Save(up Upload) (string, error) {
	if up.Name == "" {
		return "", ErrEmptyName
	}
	dir := filepath.Join(s.root, "news")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir media dir: %w", err)
	}
	name := uuid.NewString() + "_" + filepath.Base(up.Name)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, up.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// SaveAll 并发持久化整批上传文件，返回与输入同序的存储路径。
// 任一写入失败时整批失败，并删除已经写入的文件。
func (s *Store) SaveAll(ctx context.Context, uploads []Upload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	paths := make([]string, len(uploads))
	g, _ := errgroup.WithContext(ctx)
	for i, up := range uploads {
		i, up := i, up
		g.Go(func() error {
			p, err := s.Save(up)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.Remove(paths)
		return nil, err
	}
	return paths, nil
}

// Remove 删除一组已存储文件，用于下游失败后的补偿清理。
// 删除失败仅记录日志，不向上传播。
func (s *Store) Remove(paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).WithField("path", p).Warn("failed to remove media file")
		}
	}
}
