package services

// 用户服务：用户表由外部账号子系统拥有，这里仅提供本服务依赖的
// 最小能力（注册、查询、口令校验、邮箱验证标记）。

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"newsroom/internal/storage"
)

// UserService 提供基础用户查询、创建与口令校验。
type UserService struct{ db *gorm.DB }

func NewUserService(db *gorm.DB) *UserService { return &UserService{db: db} }

func (s *UserService) FindByID(ctx context.Context, id uint64) (*storage.User, error) {
	u, err := storage.Get[storage.User](ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}
	return u, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*storage.User, error) {
	var u storage.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
		}
		return nil, err
	}
	return &u, nil
}

// CheckPassword 校验用户口令（bcrypt）。
func (s *UserService) CheckPassword(u *storage.User, password string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

func (s *UserService) Register(ctx context.Context, email, password, fullName string) (*storage.User, error) {
	if email == "" || password == "" {
		return nil, errors.New("email/password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &storage.User{Email: email, Password: string(hash), FullName: fullName, EmailVerified: false}
	if err := storage.Create(ctx, s.db, u); err != nil {
		return nil, err
	}
	return u, nil
}

// MarkEmailVerified 将用户标记为已完成邮箱验证。
func (s *UserService) MarkEmailVerified(ctx context.Context, id uint64) error {
	_, err := storage.Update[storage.User](ctx, s.db, id, map[string]any{"email_verified": true})
	return err
}
