package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"newsroom/internal/storage"
)

// CommentService 评论服务：创建时校验新闻引用并盖上操作者的用户 id；
// 变更与删除要求操作者即评论属主，否则以 ErrForbidden 拒绝。
type CommentService struct{ db *gorm.DB }

func NewCommentService(db *gorm.DB) *CommentService { return &CommentService{db: db} }

func (s *CommentService) List(ctx context.Context, offset, limit int) ([]storage.Comment, error) {
	return storage.List[storage.Comment](ctx, s.db, offset, limit)
}

func (s *CommentService) Get(ctx context.Context, id uint64) (*storage.Comment, error) {
	c, err := storage.Get[storage.Comment](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("comment %d: %w", id, storage.ErrNotFound)
	}
	return c, nil
}

func (s *CommentService) Create(ctx context.Context, userID, newsID uint64, content string) (*storage.Comment, error) {
	news, err := storage.Get[storage.News](ctx, s.db, newsID)
	if err != nil {
		return nil, err
	}
	if news == nil {
		return nil, fmt.Errorf("news %d: %w", newsID, storage.ErrNotFound)
	}

	c := &storage.Comment{Content: content, NewsID: newsID, UserID: userID}
	if err := storage.Create(ctx, s.db, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update 全量更新评论内容；仅属主可操作。
func (s *CommentService) Update(ctx context.Context, userID, id uint64, content string) (*storage.Comment, error) {
	if err := s.ensureOwner(ctx, userID, id); err != nil {
		return nil, err
	}
	return storage.Update[storage.Comment](ctx, s.db, id, map[string]any{"content": content})
}

// PartialUpdate 部分更新；空内容按既有约定被忽略。
func (s *CommentService) PartialUpdate(ctx context.Context, userID, id uint64, content *string) (*storage.Comment, error) {
	if err := s.ensureOwner(ctx, userID, id); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if content != nil {
		fields["content"] = *content
	}
	return storage.PartialUpdate[storage.Comment](ctx, s.db, id, fields)
}

// Delete 删除评论；仅属主可操作。
func (s *CommentService) Delete(ctx context.Context, userID, id uint64) error {
	if err := s.ensureOwner(ctx, userID, id); err != nil {
		return err
	}
	return storage.Delete[storage.Comment](ctx, s.db, id)
}

// ensureOwner 以单实体取回做属主检查：缺失为 ErrNotFound，属主不符为 ErrForbidden。
func (s *CommentService) ensureOwner(ctx context.Context, userID, id uint64) error {
	c, err := storage.Get[storage.Comment](ctx, s.db, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("comment %d: %w", id, storage.ErrNotFound)
	}
	if c.UserID != userID {
		return fmt.Errorf("comment %d is not owned by user %d: %w", id, userID, ErrForbidden)
	}
	return nil
}
