package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"newsroom/internal/storage"
)

// CategoryService 栏目的纯透传 CRUD。
type CategoryService struct{ db *gorm.DB }

func NewCategoryService(db *gorm.DB) *CategoryService { return &CategoryService{db: db} }

func (s *CategoryService) List(ctx context.Context, offset, limit int) ([]storage.Category, error) {
	return storage.List[storage.Category](ctx, s.db, offset, limit)
}

// Get 将缺失映射为 ErrNotFound：对服务层调用方而言栏目不存在即失败。
func (s *CategoryService) Get(ctx context.Context, id uint64) (*storage.Category, error) {
	cat, err := storage.Get[storage.Category](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("category %d: %w", id, storage.ErrNotFound)
	}
	return cat, nil
}

func (s *CategoryService) Create(ctx context.Context, name string) (*storage.Category, error) {
	cat := &storage.Category{Name: name}
	if err := storage.Create(ctx, s.db, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint64, name string) (*storage.Category, error) {
	return storage.Update[storage.Category](ctx, s.db, id, map[string]any{"name": name})
}

func (s *CategoryService) PartialUpdate(ctx context.Context, id uint64, name string) (*storage.Category, error) {
	return storage.PartialUpdate[storage.Category](ctx, s.db, id, map[string]any{"name": name})
}

func (s *CategoryService) Delete(ctx context.Context, id uint64) error {
	return storage.Delete[storage.Category](ctx, s.db, id)
}
