package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"newsroom/internal/media"
	"newsroom/internal/storage"
)

// NewsService 新闻服务：在透传 CRUD 之上校验栏目引用，
// 并将上传图片并发落盘后以存储路径入库。
type NewsService struct {
	db    *gorm.DB
	media *media.Store
}

func NewNewsService(db *gorm.DB, m *media.Store) *NewsService {
	return &NewsService{db: db, media: m}
}

// CreateNewsInput 创建新闻的输入；Images 为原始上传内容。
type CreateNewsInput struct {
	Title      string
	Content    *string
	CategoryID *uint64
	Images     []media.Upload
}

// UpdateNewsInput 全量更新输入：每个字段都会被无条件写入。
type UpdateNewsInput struct {
	Title      string
	Content    *string
	CategoryID *uint64
}

// PatchNewsInput 部分更新输入：nil 指针表示未提交该字段。
type PatchNewsInput struct {
	Title      *string
	Content    *string
	CategoryID *uint64
}

func (s *NewsService) List(ctx context.Context, offset, limit int) ([]storage.News, error) {
	return storage.List[storage.News](ctx, s.db, offset, limit)
}

func (s *NewsService) Get(ctx context.Context, id uint64) (*storage.News, error) {
	n, err := storage.Get[storage.News](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("news %d: %w", id, storage.ErrNotFound)
	}
	return n, nil
}

// Create 先校验栏目引用，再并发持久化图片，最后入库。
// 入库失败时删除已落盘的图片，避免遗留孤儿文件。
func (s *NewsService) Create(ctx context.Context, in CreateNewsInput) (*storage.News, error) {
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	paths, err := s.media.SaveAll(ctx, in.Images)
	if err != nil {
		return nil, err
	}

	n := &storage.News{
		Title:      in.Title,
		Content:    in.Content,
		Images:     paths,
		CategoryID: in.CategoryID,
	}
	if err := storage.Create(ctx, s.db, n); err != nil {
		s.media.Remove(paths)
		return nil, err
	}
	return n, nil
}

// Update 全量更新。变更栏目引用时重新校验其存在性。
func (s *NewsService) Update(ctx context.Context, id uint64, in UpdateNewsInput) (*storage.News, error) {
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	fields := map[string]any{
		"title":       in.Title,
		"content":     in.Content,
		"category_id": in.CategoryID,
	}
	return storage.Update[storage.News](ctx, s.db, id, fields)
}

// PartialUpdate 部分更新：仅提交的字段进入更新集，零值字段仍会被丢弃。
func (s *NewsService) PartialUpdate(ctx context.Context, id uint64, in PatchNewsInput) (*storage.News, error) {
	if in.CategoryID != nil {
		if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}
	fields := map[string]any{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if in.CategoryID != nil {
		fields["category_id"] = *in.CategoryID
	}
	return storage.PartialUpdate[storage.News](ctx, s.db, id, fields)
}

func (s *NewsService) Delete(ctx context.Context, id uint64) error {
	return storage.Delete[storage.News](ctx, s.db, id)
}

// ensureCategory 校验非空栏目引用指向已存在的栏目。
func (s *NewsService) ensureCategory(ctx context.Context, id *uint64) error {
	if id == nil {
		return nil
	}
	cat, err := storage.Get[storage.Category](ctx, s.db, *id)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("category %d: %w", *id, storage.ErrNotFound)
	}
	return nil
}
